// Package pokemon はポケモン管理のドメインロジックを提供する。
package pokemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hitoshi/pokedex/internal/model"
	"github.com/hitoshi/pokedex/internal/repository"
)

// Service はポケモン管理のサービス層。
type Service struct {
	pokemonRepo repository.PokemonRepository
}

// NewService はServiceを生成する。
func NewService(pokemonRepo repository.PokemonRepository) *Service {
	return &Service{pokemonRepo: pokemonRepo}
}

// CreateInput はポケモン作成の入力。
type CreateInput struct {
	Name   string
	Weight float64
	Height float64
}

// Create はポケモンを作成し、作成者に割り当てる。
// 作成と割り当ては同一トランザクションで行われ、部分的な成功は発生しない。
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*model.Pokemon, error) {
	pokemon := &model.Pokemon{
		ID:     uuid.NewString(),
		Name:   input.Name,
		Weight: input.Weight,
		Height: input.Height,
	}

	if err := s.pokemonRepo.CreateWithAssignment(ctx, pokemon, ownerID); err != nil {
		return nil, fmt.Errorf("failed to create pokemon: %w", err)
	}

	slog.Info("pokemon created",
		slog.String("pokemon_id", pokemon.ID),
		slog.String("owner_id", ownerID),
	)

	return pokemon, nil
}

// Get は指定IDのポケモンを返す。
// 見つからない場合はPOKEMON_NOT_FOUNDエラーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Pokemon, error) {
	// UUIDとして不正なIDはDB問い合わせ自体がエラーになるため、存在しない扱いにする
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewPokemonNotFoundError()
	}

	pokemon, err := s.pokemonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find pokemon: %w", err)
	}
	if pokemon == nil {
		return nil, model.NewPokemonNotFoundError()
	}
	return pokemon, nil
}

// List は全ポケモンの軽量プロジェクション（id, name）を返す。
func (s *Service) List(ctx context.Context) ([]*model.PokemonSummary, error) {
	pokemons, err := s.pokemonRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pokemons: %w", err)
	}
	return pokemons, nil
}

// Update は部分更新を行い、更新後のポケモンを返す。
// nilのフィールドは変更されない。対象が存在しない場合はPOKEMON_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, id string, name *string, weight, height *float64) (*model.Pokemon, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewPokemonNotFoundError()
	}

	existing, err := s.pokemonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find pokemon: %w", err)
	}
	if existing == nil {
		return nil, model.NewPokemonNotFoundError()
	}

	if err := s.pokemonRepo.Update(ctx, id, name, weight, height); err != nil {
		return nil, fmt.Errorf("failed to update pokemon: %w", err)
	}

	updated, err := s.pokemonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pokemon: %w", err)
	}
	if updated == nil {
		return nil, model.NewPokemonNotFoundError()
	}

	return updated, nil
}

// Delete は指定IDのポケモンを削除する。
// 対象が存在しない場合はPOKEMON_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewPokemonNotFoundError()
	}

	existing, err := s.pokemonRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find pokemon: %w", err)
	}
	if existing == nil {
		return model.NewPokemonNotFoundError()
	}

	if err := s.pokemonRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pokemon: %w", err)
	}

	slog.Info("pokemon deleted",
		slog.String("pokemon_id", id),
	)

	return nil
}
