package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/pokedex/internal/auth"
	"github.com/hitoshi/pokedex/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを作成する。
	Register(ctx context.Context, input auth.RegisterInput) (*model.User, error)
	// Login は資格情報を検証し、ベアラートークンを発行する。
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// AuthHandler は登録・ログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	NewsletterOptIn bool   `json:"newsletter_opt_in"`
}

// registerResponse はユーザー登録成功時のレスポンス。
type registerResponse struct {
	Message string        `json:"message"`
	User    *userResponse `json:"user"`
}

// userResponse はAPIレスポンスに含めるユーザー情報。
// パスワードハッシュは含めない。
type userResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	NewsletterOptIn bool       `json:"newsletter_opt_in"`
	AccountCreated  time.Time  `json:"account_created"`
	LastLogin       *time.Time `json:"last_login"`
}

// toUserResponse はドメインのUserをレスポンス型に変換する。
func toUserResponse(user *model.User) *userResponse {
	return &userResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		NewsletterOptIn: user.NewsletterOptIn,
		AccountCreated:  user.AccountCreated,
		LastLogin:       user.LastLogin,
	}
}

// Register はユーザー登録を処理する。
// POST /users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeValidationError(w, "Email, name, and password are required")
		return
	}

	user, err := h.service.Register(r.Context(), auth.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		NewsletterOptIn: req.NewsletterOptIn,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User created successfully",
		User:    toUserResponse(user),
	})
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    *userResponse `json:"user"`
}

// Login はログインを処理する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeValidationError(w, "Email and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    toUserResponse(result.User),
	})
}
