package model

// Pokemon は図鑑に登録されたポケモンを表す。
// WeightとHeightの単位は登録時の入力に従う（サーバー側では解釈しない）。
type Pokemon struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
}

// PokemonSummary は一覧表示用の軽量プロジェクション。
// GET /pokemon ではidとnameのみを返す。
type PokemonSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment はユーザーとポケモンの所有関係を表す。
// (UserID, PokemonID)の組は一意であり、同じポケモンを同じユーザーに
// 二重に割り当てることはできない。
type Assignment struct {
	UserID    string `json:"user_id"`
	PokemonID string `json:"pokemon_id"`
}
