package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/pokedex/internal/auth"
	"github.com/hitoshi/pokedex/internal/model"
)

type mockAuthService struct {
	registerFn func(ctx context.Context, input auth.RegisterInput) (*model.User, error)
	loginFn    func(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

func (m *mockAuthService) Register(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

// TestAuthHandler_Register は201とユーザー情報（パスワードなし）が返ることを
// 検証する。
func TestAuthHandler_Register(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
			return &model.User{
				ID:              "user-1",
				Name:            input.Name,
				Email:           input.Email,
				NewsletterOptIn: input.NewsletterOptIn,
				AccountCreated:  time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"Ash","email":"ash@example.com","password":"pikachu123","newsletter_opt_in":true}`))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "User created successfully" {
		t.Errorf("message = %q, want %q", resp.Message, "User created successfully")
	}
	if resp.User["id"] != "user-1" {
		t.Errorf("user id = %v, want user-1", resp.User["id"])
	}
	if _, leaked := resp.User["password"]; leaked {
		t.Error("password must not appear in the response")
	}
	if strings.Contains(w.Body.String(), "password_hash") {
		t.Error("password hash must not appear in the response")
	}
}

// TestAuthHandler_Register_MissingFields は必須フィールドの欠落が400になることを
// 検証する。
func TestAuthHandler_Register_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "email欠落", body: `{"name":"Ash","password":"pikachu123"}`},
		{name: "name欠落", body: `{"email":"ash@example.com","password":"pikachu123"}`},
		{name: "password欠落", body: `{"name":"Ash","email":"ash@example.com"}`},
		{name: "空ボディ", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
					t.Error("Register must not be called with missing fields")
					return nil, nil
				},
			}
			h := NewAuthHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Register(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if got := decodeErrorBody(t, w); got != "Email, name, and password are required" {
				t.Errorf("error = %q, want required-fields message", got)
			}
		})
	}
}

// TestAuthHandler_Register_DuplicateEmail はEMAIL_TAKENが400と統一エラー
// フォーマットになることを検証する。
func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
			return nil, model.NewEmailTakenError()
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"Ash","email":"taken@example.com","password":"pikachu123"}`))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := decodeErrorBody(t, w); got != "Email is already registered" {
		t.Errorf("error = %q, want %q", got, "Email is already registered")
	}
}

// TestAuthHandler_Login はトークンとユーザー情報が返ることを検証する。
func TestAuthHandler_Login(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			return &auth.LoginResult{
				Token: "issued.token",
				User:  &model.User{ID: "user-1", Name: "Ash", Email: email},
			}, nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"ash@example.com","password":"pikachu123"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Message string         `json:"message"`
		Token   string         `json:"token"`
		User    map[string]any `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Login successful" {
		t.Errorf("message = %q, want %q", resp.Message, "Login successful")
	}
	if resp.Token != "issued.token" {
		t.Errorf("token = %q, want %q", resp.Token, "issued.token")
	}
}

// TestAuthHandler_Login_Failures はログイン失敗のステータスマッピングを検証する。
func TestAuthHandler_Login_Failures(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "未知のメールアドレス",
			serviceErr: model.NewUserNotFoundError(),
			wantStatus: http.StatusNotFound,
			wantError:  "User not found",
		},
		{
			name:       "パスワード不一致",
			serviceErr: model.NewInvalidCredentialsError(),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
					return nil, tt.serviceErr
				},
			}
			h := NewAuthHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/login",
				strings.NewReader(`{"email":"ash@example.com","password":"whatever"}`))
			w := httptest.NewRecorder()
			h.Login(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := decodeErrorBody(t, w); got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

// TestAuthHandler_Login_MissingFields は資格情報の欠落が400になることを検証する。
func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			t.Error("Login must not be called with missing fields")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ash@example.com"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := decodeErrorBody(t, w); got != "Email and password are required" {
		t.Errorf("error = %q, want required-fields message", got)
	}
}
