// Package assignment はユーザーとポケモンの所有関係のドメインロジックを提供する。
package assignment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/pokedex/internal/model"
	"github.com/hitoshi/pokedex/internal/repository"
)

// Service は所有関係のサービス層。
type Service struct {
	assignRepo  repository.AssignmentRepository
	pokemonRepo repository.PokemonRepository
}

// NewService はServiceを生成する。
func NewService(assignRepo repository.AssignmentRepository, pokemonRepo repository.PokemonRepository) *Service {
	return &Service{
		assignRepo:  assignRepo,
		pokemonRepo: pokemonRepo,
	}
}

// Assign は指定ポケモンをユーザーに割り当て、割り当てたポケモンを返す。
// ポケモンが存在しない場合はPOKEMON_NOT_FOUND、既に割り当て済みの場合は
// ALREADY_ASSIGNEDを返す。拒否された場合に関係が重複することはない。
func (s *Service) Assign(ctx context.Context, userID, pokemonID string) (*model.Pokemon, error) {
	// UUIDとして不正なIDはDB問い合わせ自体がエラーになるため、存在しない扱いにする
	if _, err := uuid.Parse(pokemonID); err != nil {
		return nil, model.NewPokemonNotFoundError()
	}

	pokemon, err := s.pokemonRepo.FindByID(ctx, pokemonID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pokemon: %w", err)
	}
	if pokemon == nil {
		return nil, model.NewPokemonNotFoundError()
	}

	exists, err := s.assignRepo.Exists(ctx, userID, pokemonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if exists {
		return nil, model.NewAlreadyAssignedError()
	}

	if err := s.assignRepo.Create(ctx, userID, pokemonID); err != nil {
		// 存在チェックと挿入の間に別リクエストが同じ組を挿入した場合も
		// 一意制約違反となるため、重複として扱う
		if repository.IsUniqueViolation(err) {
			return nil, model.NewAlreadyAssignedError()
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	slog.Info("pokemon assigned",
		slog.String("user_id", userID),
		slog.String("pokemon_id", pokemonID),
	)

	return pokemon, nil
}

// UserPokemons はユーザー視点での全ポケモンの分割結果。
// Unassignedは「そのユーザーへの未割り当て」の補集合であり、
// 「誰にも未割り当て」ではない。
type UserPokemons struct {
	Assigned   []*model.Pokemon
	Unassigned []*model.Pokemon
}

// ListForUser は全ポケモンを指定ユーザーへの割り当て有無で分割して返す。
func (s *Service) ListForUser(ctx context.Context, userID string) (*UserPokemons, error) {
	assigned, err := s.assignRepo.ListAssigned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned pokemons: %w", err)
	}

	unassigned, err := s.assignRepo.ListUnassigned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned pokemons: %w", err)
	}

	return &UserPokemons{
		Assigned:   assigned,
		Unassigned: unassigned,
	}, nil
}
