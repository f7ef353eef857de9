package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/pokedex/internal/model"
)

// PostgresAssignmentRepo はPostgreSQLを使用した所有関係リポジトリ。
type PostgresAssignmentRepo struct {
	db *sql.DB
}

// NewPostgresAssignmentRepo はPostgresAssignmentRepoを生成する。
func NewPostgresAssignmentRepo(db *sql.DB) *PostgresAssignmentRepo {
	return &PostgresAssignmentRepo{db: db}
}

// Exists は指定の(userID, pokemonID)の組が存在するかを返す。
func (r *PostgresAssignmentRepo) Exists(ctx context.Context, userID, pokemonID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users_pokemons WHERE user_id = $1 AND pokemon_id = $2)`,
		userID, pokemonID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return exists, nil
}

// Create は所有関係を作成する。組が既に存在する場合は一意制約違反を返す。
func (r *PostgresAssignmentRepo) Create(ctx context.Context, userID, pokemonID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users_pokemons (user_id, pokemon_id) VALUES ($1, $2)`,
		userID, pokemonID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

// ListAssigned は指定ユーザーに割り当てられている全ポケモンを返す。
func (r *PostgresAssignmentRepo) ListAssigned(ctx context.Context, userID string) ([]*model.Pokemon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.weight, p.height
		 FROM pokemons p
		 INNER JOIN users_pokemons up ON p.id = up.pokemon_id
		 WHERE up.user_id = $1
		 ORDER BY p.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned pokemons: %w", err)
	}
	defer rows.Close()

	return scanPokemons(rows)
}

// ListUnassigned は指定ユーザーに割り当てられていない全ポケモンを返す。
// 他のユーザーへの割り当て有無は考慮しない。
func (r *PostgresAssignmentRepo) ListUnassigned(ctx context.Context, userID string) ([]*model.Pokemon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.weight, p.height
		 FROM pokemons p
		 WHERE p.id NOT IN (
		     SELECT pokemon_id FROM users_pokemons WHERE user_id = $1
		 )
		 ORDER BY p.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned pokemons: %w", err)
	}
	defer rows.Close()

	return scanPokemons(rows)
}

// scanPokemons は行セットをポケモンのスライスに変換する。
func scanPokemons(rows *sql.Rows) ([]*model.Pokemon, error) {
	var pokemons []*model.Pokemon
	for rows.Next() {
		p := &model.Pokemon{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight, &p.Height); err != nil {
			return nil, fmt.Errorf("failed to scan pokemon: %w", err)
		}
		pokemons = append(pokemons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pokemons: %w", err)
	}
	return pokemons, nil
}

// compile-time interface check
var _ AssignmentRepository = (*PostgresAssignmentRepo)(nil)
