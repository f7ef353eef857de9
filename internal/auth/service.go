package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/pokedex/internal/model"
	"github.com/hitoshi/pokedex/internal/repository"
)

// Service は登録・ログインのビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   *Hasher
	tokens   *TokenManager
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher *Hasher, tokens *TokenManager) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// RegisterInput はユーザー登録の入力。
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	NewsletterOptIn bool
}

// Register は新規ユーザーを作成する。
// パスワードをハッシュ化して保存し、作成したユーザーを返す。
// メールアドレスが登録済みの場合はEMAIL_TAKENエラーを返す。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    digest,
		NewsletterOptIn: input.NewsletterOptIn,
		AccountCreated:  time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// LoginResult はログイン成功時の結果。
type LoginResult struct {
	Token string
	User  *model.User
}

// Login はメールアドレスとパスワードを検証し、ベアラートークンを発行する。
// 未知のメールアドレスはUSER_NOT_FOUND、パスワード不一致は
// INVALID_CREDENTIALSを返し、いずれの場合もトークンは発行しない。
// 成功時は最終ログイン日時を更新する。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	now := time.Now()
	user.LastLogin = &now

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return &LoginResult{Token: token, User: user}, nil
}
