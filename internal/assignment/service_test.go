package assignment

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"

	"github.com/hitoshi/pokedex/internal/model"
)

// テスト用の固定UUID。ポケモンIDはUUID形式で検証されるため実際の形式を使う。
const testPokemonID = "3f1c9a7e-2d64-4b8a-8f0d-6a5c4e9b2d11"

type mockAssignmentRepo struct {
	existsFn         func(ctx context.Context, userID, pokemonID string) (bool, error)
	createFn         func(ctx context.Context, userID, pokemonID string) error
	listAssignedFn   func(ctx context.Context, userID string) ([]*model.Pokemon, error)
	listUnassignedFn func(ctx context.Context, userID string) ([]*model.Pokemon, error)
}

func (m *mockAssignmentRepo) Exists(ctx context.Context, userID, pokemonID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, pokemonID)
	}
	return false, nil
}

func (m *mockAssignmentRepo) Create(ctx context.Context, userID, pokemonID string) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, pokemonID)
	}
	return nil
}

func (m *mockAssignmentRepo) ListAssigned(ctx context.Context, userID string) ([]*model.Pokemon, error) {
	if m.listAssignedFn != nil {
		return m.listAssignedFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAssignmentRepo) ListUnassigned(ctx context.Context, userID string) ([]*model.Pokemon, error) {
	if m.listUnassignedFn != nil {
		return m.listUnassignedFn(ctx, userID)
	}
	return nil, nil
}

type mockPokemonRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Pokemon, error)
}

func (m *mockPokemonRepo) CreateWithAssignment(ctx context.Context, pokemon *model.Pokemon, ownerID string) error {
	return nil
}

func (m *mockPokemonRepo) FindByID(ctx context.Context, id string) (*model.Pokemon, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPokemonRepo) FindAll(ctx context.Context) ([]*model.PokemonSummary, error) {
	return nil, nil
}

func (m *mockPokemonRepo) Update(ctx context.Context, id string, name *string, weight, height *float64) error {
	return nil
}

func (m *mockPokemonRepo) DeleteByID(ctx context.Context, id string) error { return nil }

func existingPokemon() *mockPokemonRepo {
	return &mockPokemonRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Pokemon, error) {
			return &model.Pokemon{ID: id, Name: "Pikachu"}, nil
		},
	}
}

// TestService_Assign は割り当てが作成され、対象のポケモンが返ることを検証する。
func TestService_Assign(t *testing.T) {
	created := false
	assignRepo := &mockAssignmentRepo{
		createFn: func(ctx context.Context, userID, pokemonID string) error {
			created = true
			if userID != "user-1" || pokemonID != testPokemonID {
				t.Errorf("Create(%q, %q), want (%q, %q)", userID, pokemonID, "user-1", testPokemonID)
			}
			return nil
		},
	}
	svc := NewService(assignRepo, existingPokemon())

	pokemon, err := svc.Assign(context.Background(), "user-1", testPokemonID)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if !created {
		t.Error("expected Create to be called")
	}
	if pokemon.ID != testPokemonID {
		t.Errorf("pokemon ID = %q, want %q", pokemon.ID, testPokemonID)
	}
}

// TestService_Assign_PokemonNotFound は存在しないポケモンがPOKEMON_NOT_FOUNDに
// なることを検証する。
func TestService_Assign_PokemonNotFound(t *testing.T) {
	svc := NewService(&mockAssignmentRepo{}, &mockPokemonRepo{})

	_, err := svc.Assign(context.Background(), "user-1", testPokemonID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePokemonNotFound {
		t.Errorf("Assign() error = %v, want POKEMON_NOT_FOUND", err)
	}
}

// TestService_Assign_InvalidPokemonID はUUID形式でないポケモンIDが
// リポジトリに到達せずPOKEMON_NOT_FOUNDになることを検証する。
func TestService_Assign_InvalidPokemonID(t *testing.T) {
	pokemonRepo := &mockPokemonRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Pokemon, error) {
			t.Error("FindByID must not be called for a malformed id")
			return nil, nil
		},
	}
	svc := NewService(&mockAssignmentRepo{}, pokemonRepo)

	_, err := svc.Assign(context.Background(), "user-1", "abc")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePokemonNotFound {
		t.Errorf("Assign() error = %v, want POKEMON_NOT_FOUND", err)
	}
}

// TestService_Assign_AlreadyAssigned は既存の組がALREADY_ASSIGNEDで拒否され、
// 挿入に到達しないことを検証する。
func TestService_Assign_AlreadyAssigned(t *testing.T) {
	assignRepo := &mockAssignmentRepo{
		existsFn: func(ctx context.Context, userID, pokemonID string) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, userID, pokemonID string) error {
			t.Error("Create must not be called for an existing assignment")
			return nil
		},
	}
	svc := NewService(assignRepo, existingPokemon())

	_, err := svc.Assign(context.Background(), "user-1", testPokemonID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAlreadyAssigned {
		t.Errorf("Assign() error = %v, want ALREADY_ASSIGNED", err)
	}
}

// TestService_Assign_RaceOnInsert は存在チェック後に別リクエストが同じ組を
// 挿入した場合の一意制約違反もALREADY_ASSIGNEDになることを検証する。
func TestService_Assign_RaceOnInsert(t *testing.T) {
	assignRepo := &mockAssignmentRepo{
		createFn: func(ctx context.Context, userID, pokemonID string) error {
			return &pq.Error{Code: "23505"}
		},
	}
	svc := NewService(assignRepo, existingPokemon())

	_, err := svc.Assign(context.Background(), "user-1", testPokemonID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAlreadyAssigned {
		t.Errorf("Assign() error = %v, want ALREADY_ASSIGNED", err)
	}
}

// TestService_ListForUser は割り当て済みと未割り当ての分割結果が
// そのまま返ることを検証する。
func TestService_ListForUser(t *testing.T) {
	assignRepo := &mockAssignmentRepo{
		listAssignedFn: func(ctx context.Context, userID string) ([]*model.Pokemon, error) {
			return []*model.Pokemon{{ID: "poke-1", Name: "Pikachu"}}, nil
		},
		listUnassignedFn: func(ctx context.Context, userID string) ([]*model.Pokemon, error) {
			return []*model.Pokemon{
				{ID: "poke-2", Name: "Bulbasaur"},
				{ID: "poke-3", Name: "Charmander"},
			}, nil
		},
	}
	svc := NewService(assignRepo, &mockPokemonRepo{})

	result, err := svc.ListForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(result.Assigned) != 1 || result.Assigned[0].ID != "poke-1" {
		t.Errorf("assigned = %+v, want single poke-1", result.Assigned)
	}
	if len(result.Unassigned) != 2 {
		t.Errorf("unassigned count = %d, want 2", len(result.Unassigned))
	}
}
