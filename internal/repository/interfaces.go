// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/pokedex/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	// パスワードハッシュは含まれない。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// ログイン検証のためパスワードハッシュを含む唯一のアクセサ。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindAll は全ユーザーを取得する。パスワードハッシュは含まれない。
	FindAll(ctx context.Context) ([]*model.User, error)

	// UpdateLastLogin は最終ログイン日時を現在時刻に更新する。
	UpdateLastLogin(ctx context.Context, id string) error

	// Update はname/emailの部分更新を行う。
	// nilのフィールドは変更せず既存の値を維持する。空文字列は通常の値として扱う。
	Update(ctx context.Context, id string, name, email *string) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するusers_pokemonsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// PokemonRepository はポケモンデータの永続化インターフェース。
type PokemonRepository interface {
	// CreateWithAssignment はポケモンの作成と作成者への割り当てを
	// 同一トランザクションで行う。割り当てに失敗した場合は作成も取り消される。
	CreateWithAssignment(ctx context.Context, pokemon *model.Pokemon, ownerID string) error

	// FindByID は指定IDのポケモンを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Pokemon, error)

	// FindAll は全ポケモンの軽量プロジェクション（id, name）を返す。
	FindAll(ctx context.Context) ([]*model.PokemonSummary, error)

	// Update はname/weight/heightの部分更新を行う。
	// nilのフィールドは変更せず既存の値を維持する。
	Update(ctx context.Context, id string, name *string, weight, height *float64) error

	// DeleteByID は指定IDのポケモンを削除する。
	// 関連するusers_pokemonsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// AssignmentRepository はユーザーとポケモンの所有関係の永続化インターフェース。
type AssignmentRepository interface {
	// Exists は指定の(userID, pokemonID)の組が存在するかを返す。
	Exists(ctx context.Context, userID, pokemonID string) (bool, error)

	// Create は所有関係を作成する。組が既に存在する場合は一意制約違反を返す。
	Create(ctx context.Context, userID, pokemonID string) error

	// ListAssigned は指定ユーザーに割り当てられている全ポケモンを返す。
	ListAssigned(ctx context.Context, userID string) ([]*model.Pokemon, error)

	// ListUnassigned は指定ユーザーに割り当てられていない全ポケモンを返す。
	// 「そのユーザーへの未割り当て」であり「誰にも未割り当て」ではない。
	ListUnassigned(ctx context.Context, userID string) ([]*model.Pokemon, error)
}
