package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/pokedex/internal/model"
)

// PostgresPokemonRepo はPostgreSQLを使用したポケモンリポジトリ。
type PostgresPokemonRepo struct {
	db *sql.DB
}

// NewPostgresPokemonRepo はPostgresPokemonRepoを生成する。
func NewPostgresPokemonRepo(db *sql.DB) *PostgresPokemonRepo {
	return &PostgresPokemonRepo{db: db}
}

// CreateWithAssignment はポケモンの作成と作成者への割り当てを
// 同一トランザクションで行う。どちらかが失敗した場合は両方ロールバックされ、
// 割り当てのない孤児ポケモンは残らない。
func (r *PostgresPokemonRepo) CreateWithAssignment(ctx context.Context, pokemon *model.Pokemon, ownerID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// ポケモンを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO pokemons (id, name, weight, height) VALUES ($1, $2, $3, $4)`,
		pokemon.ID, pokemon.Name, pokemon.Weight, pokemon.Height,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pokemon: %w", err)
	}

	// 作成者に割り当て
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users_pokemons (user_id, pokemon_id) VALUES ($1, $2)`,
		ownerID, pokemon.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID は指定IDのポケモンを取得する。見つからない場合はnilを返す。
func (r *PostgresPokemonRepo) FindByID(ctx context.Context, id string) (*model.Pokemon, error) {
	pokemon := &model.Pokemon{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, weight, height FROM pokemons WHERE id = $1`,
		id,
	).Scan(&pokemon.ID, &pokemon.Name, &pokemon.Weight, &pokemon.Height)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pokemon by ID: %w", err)
	}

	return pokemon, nil
}

// FindAll は全ポケモンの軽量プロジェクション（id, name）を名前順で返す。
func (r *PostgresPokemonRepo) FindAll(ctx context.Context) ([]*model.PokemonSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM pokemons ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pokemons: %w", err)
	}
	defer rows.Close()

	var pokemons []*model.PokemonSummary
	for rows.Next() {
		p := &model.PokemonSummary{}
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan pokemon: %w", err)
		}
		pokemons = append(pokemons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pokemons: %w", err)
	}

	return pokemons, nil
}

// Update はname/weight/heightの部分更新を行う。
// COALESCEによりnilのフィールドは既存の値を維持する。
func (r *PostgresPokemonRepo) Update(ctx context.Context, id string, name *string, weight, height *float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pokemons
		 SET name = COALESCE($2, name), weight = COALESCE($3, weight), height = COALESCE($4, height)
		 WHERE id = $1`,
		id, name, weight, height,
	)
	if err != nil {
		return fmt.Errorf("failed to update pokemon: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのポケモンを削除する。
// 関連するusers_pokemonsはCASCADE削除される。
func (r *PostgresPokemonRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM pokemons WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pokemon: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pokemon not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ PokemonRepository = (*PostgresPokemonRepo)(nil)
