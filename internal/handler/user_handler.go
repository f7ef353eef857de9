package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/pokedex/internal/middleware"
	"github.com/hitoshi/pokedex/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)
	// Get は指定IDのユーザーを返す。
	Get(ctx context.Context, id string) (*model.User, error)
	// UpdateProfile はプロフィールの部分更新を行い、更新後のユーザーを返す。
	// nilのフィールドは変更されない。
	UpdateProfile(ctx context.Context, userID string, name, email *string) (*model.User, error)
	// Delete は指定IDのユーザーを削除する。自分自身の削除は拒否される。
	Delete(ctx context.Context, callerID, targetID string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// usersResponse はユーザー一覧のレスポンス。
type usersResponse struct {
	Users []*userResponse `json:"users"`
}

// userEnvelope はユーザー1件のレスポンス。
type userEnvelope struct {
	User *userResponse `json:"user"`
}

// profileResponse は自分のプロフィールのレスポンス。
type profileResponse struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	AccountCreated time.Time  `json:"account_created"`
	LastLogin      *time.Time `json:"last_login"`
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
// フィールドの欠落（null含む）と空文字列を区別するためポインタを使用する。
type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// messageResponse はメッセージのみのレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// List は全ユーザーの一覧を返す。
// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]*userResponse, len(users))
	for i, user := range users {
		results[i] = toUserResponse(user)
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: results})
}

// Get は指定IDのユーザーを返す。
// GET /users/:id
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userEnvelope{User: toUserResponse(user)})
}

// Profile は認証済みユーザー自身のプロフィールを返す。
// GET /profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Name:           user.Name,
		Email:          user.Email,
		AccountCreated: user.AccountCreated,
		LastLogin:      user.LastLogin,
	})
}

// UpdateProfile は認証済みユーザー自身のプロフィールを部分更新する。
// PATCH /profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, req.Name, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string        `json:"message"`
		User    *userResponse `json:"user"`
	}{
		Message: "Profile updated successfully",
		User:    toUserResponse(updated),
	})
}

// Delete は指定IDのユーザーを削除する。
// 自分自身のIDを指定した場合はペイロードに関わらず403を返す。
// DELETE /users/:id
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), caller.ID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
