// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/pokedex/internal/model"
	"github.com/hitoshi/pokedex/internal/repository"
)

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// List は全ユーザーを返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get は指定IDのユーザーを返す。
// 見つからない場合はUSER_NOT_FOUNDエラーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	// UUIDとして不正なIDはDB問い合わせ自体がエラーになるため、存在しない扱いにする
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewUserNotFoundError()
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile はプロフィールの部分更新を行い、更新後のユーザーを返す。
// nilのフィールドは変更されない。空文字列は「空にする」という通常の値として扱う。
func (s *Service) UpdateProfile(ctx context.Context, userID string, name, email *string) (*model.User, error) {
	if err := s.userRepo.Update(ctx, userID, name, email); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// Delete は指定IDのユーザーを削除する。
// 呼び出し元自身の削除はペイロードに関わらずFORBIDDENで拒否する。
// 関連する所有関係はDB側のCASCADEで削除される。
func (s *Service) Delete(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return model.NewSelfDeleteError()
	}

	if _, err := uuid.Parse(targetID); err != nil {
		return model.NewUserNotFoundError()
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if target == nil {
		return model.NewUserNotFoundError()
	}

	if err := s.userRepo.DeleteByID(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted",
		slog.String("user_id", targetID),
		slog.String("deleted_by", callerID),
	)

	return nil
}
