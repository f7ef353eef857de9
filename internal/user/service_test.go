package user

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"

	"github.com/hitoshi/pokedex/internal/model"
)

// テスト用の固定UUID。パスIDはUUID形式で検証されるため実際の形式を使う。
const (
	callerID = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	targetID = "9b2e61a0-6f5c-4c3e-9d2a-1b8f0c7d4e55"
)

type mockUserRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.User, error)
	findAllFn    func(ctx context.Context) ([]*model.User, error)
	updateFn     func(ctx context.Context, id string, name, email *string) error
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error { return nil }

func (m *mockUserRepo) Update(ctx context.Context, id string, name, email *string) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, name, email)
	}
	return nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

// TestService_Get_NotFound は存在しないIDがUSER_NOT_FOUNDになることを検証する。
func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&mockUserRepo{})

	_, err := svc.Get(context.Background(), targetID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Get() error = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_Get_InvalidID はUUID形式でないIDがリポジトリに到達せず
// USER_NOT_FOUNDになることを検証する。
func TestService_Get_InvalidID(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			t.Error("FindByID must not be called for a malformed id")
			return nil, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), "abc")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Get() error = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_UpdateProfile_PartialUpdate はnilフィールドがリポジトリに
// そのまま渡り、更新後のユーザーが返ることを検証する。
func TestService_UpdateProfile_PartialUpdate(t *testing.T) {
	newName := "Misty"
	repo := &mockUserRepo{
		updateFn: func(ctx context.Context, id string, name, email *string) error {
			if name == nil || *name != newName {
				t.Errorf("name = %v, want %q", name, newName)
			}
			if email != nil {
				t.Errorf("email = %v, want nil for omitted field", *email)
			}
			return nil
		},
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: newName, Email: "misty@example.com"}, nil
		},
	}
	svc := NewService(repo)

	updated, err := svc.UpdateProfile(context.Background(), "user-1", &newName, nil)
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != newName {
		t.Errorf("updated name = %q, want %q", updated.Name, newName)
	}
}

// TestService_UpdateProfile_DuplicateEmail は一意制約違反がEMAIL_TAKENに
// 変換されることを検証する。
func TestService_UpdateProfile_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		updateFn: func(ctx context.Context, id string, name, email *string) error {
			return &pq.Error{Code: "23505"}
		},
	}
	svc := NewService(repo)

	taken := "taken@example.com"
	_, err := svc.UpdateProfile(context.Background(), "user-1", nil, &taken)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("UpdateProfile() error = %v, want EMAIL_TAKEN", err)
	}
}

// TestService_Delete_Self は自分自身の削除がFORBIDDENで拒否され、
// リポジトリに到達しないことを検証する。
func TestService_Delete_Self(t *testing.T) {
	repo := &mockUserRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			t.Error("DeleteByID must not be called on self-delete")
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "user-1", "user-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("Delete() error = %v, want FORBIDDEN", err)
	}
}

// TestService_Delete_TargetNotFound は存在しない対象がUSER_NOT_FOUNDに
// なることを検証する。
func TestService_Delete_TargetNotFound(t *testing.T) {
	svc := NewService(&mockUserRepo{})

	err := svc.Delete(context.Background(), callerID, targetID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Delete() error = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_Delete_InvalidTargetID はUUID形式でない対象IDがリポジトリに
// 到達せずUSER_NOT_FOUNDになることを検証する。
func TestService_Delete_InvalidTargetID(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			t.Error("FindByID must not be called for a malformed id")
			return nil, nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), callerID, "xyz")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Delete() error = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_Delete_OtherUser は他ユーザーの削除が成功することを検証する。
func TestService_Delete_OtherUser(t *testing.T) {
	deleted := ""
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), callerID, targetID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted != targetID {
		t.Errorf("deleted id = %q, want %q", deleted, targetID)
	}
}
