package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/pokedex/internal/middleware"
	"github.com/hitoshi/pokedex/internal/model"
	"github.com/hitoshi/pokedex/internal/pokemon"
)

// PokemonServiceInterface はポケモンハンドラーが必要とするサービスインターフェース。
type PokemonServiceInterface interface {
	// Create はポケモンを作成し、作成者に割り当てる。
	Create(ctx context.Context, ownerID string, input pokemon.CreateInput) (*model.Pokemon, error)
	// Get は指定IDのポケモンを返す。
	Get(ctx context.Context, id string) (*model.Pokemon, error)
	// List は全ポケモンの軽量プロジェクションを返す。
	List(ctx context.Context) ([]*model.PokemonSummary, error)
	// Update は部分更新を行い、更新後のポケモンを返す。nilのフィールドは変更されない。
	Update(ctx context.Context, id string, name *string, weight, height *float64) (*model.Pokemon, error)
	// Delete は指定IDのポケモンを削除する。
	Delete(ctx context.Context, id string) error
}

// PokemonHandler はポケモン管理のHTTPハンドラー。
type PokemonHandler struct {
	service PokemonServiceInterface
}

// NewPokemonHandler はPokemonHandlerを生成する。
func NewPokemonHandler(service PokemonServiceInterface) *PokemonHandler {
	return &PokemonHandler{service: service}
}

// createPokemonRequest はポケモン作成リクエストのボディ。
// weight/heightは欠落検出のためポインタで受ける。
type createPokemonRequest struct {
	Name   string   `json:"name"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
}

// updatePokemonRequest はポケモン更新リクエストのボディ。
// フィールドの欠落と空値を区別するためポインタを使用する。
type updatePokemonRequest struct {
	Name   *string  `json:"name"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
}

// pokemonEnvelope はポケモン1件とメッセージのレスポンス。
type pokemonEnvelope struct {
	Message string         `json:"message,omitempty"`
	Pokemon *model.Pokemon `json:"pokemon"`
}

// pokemonsResponse はポケモン一覧のレスポンス。
type pokemonsResponse struct {
	Pokemons []*model.PokemonSummary `json:"pokemons"`
}

// Create はポケモンを作成し、作成者に割り当てる。
// POST /pokemon
func (h *PokemonHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createPokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}

	if req.Name == "" || req.Weight == nil || req.Height == nil {
		writeValidationError(w, "Name, weight, and height are required")
		return
	}

	created, err := h.service.Create(r.Context(), owner.ID, pokemon.CreateInput{
		Name:   req.Name,
		Weight: *req.Weight,
		Height: *req.Height,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pokemonEnvelope{
		Message: "Pokemon created and assigned successfully",
		Pokemon: created,
	})
}

// List は全ポケモンの一覧（id, name）を返す。認証不要。
// GET /pokemon
func (h *PokemonHandler) List(w http.ResponseWriter, r *http.Request) {
	pokemons, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pokemonsResponse{Pokemons: pokemons})
}

// Get は指定IDのポケモンを返す。認証不要。
// GET /pokemon/:id
func (h *PokemonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pokemonEnvelope{Pokemon: p})
}

// Update は指定IDのポケモンを部分更新する。
// PATCH /pokemon/:id
func (h *PokemonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updatePokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, req.Name, req.Weight, req.Height)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pokemonEnvelope{
		Message: "Pokemon updated successfully",
		Pokemon: updated,
	})
}

// Delete は指定IDのポケモンを削除する。
// DELETE /pokemon/:id
func (h *PokemonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Pokemon deleted successfully"})
}
