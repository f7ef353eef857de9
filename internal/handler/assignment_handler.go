package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/pokedex/internal/assignment"
	"github.com/hitoshi/pokedex/internal/middleware"
	"github.com/hitoshi/pokedex/internal/model"
)

// AssignmentServiceInterface は所有関係ハンドラーが必要とするサービスインターフェース。
type AssignmentServiceInterface interface {
	// Assign は指定ポケモンをユーザーに割り当てる。
	Assign(ctx context.Context, userID, pokemonID string) (*model.Pokemon, error)
	// ListForUser は全ポケモンをユーザーへの割り当て有無で分割して返す。
	ListForUser(ctx context.Context, userID string) (*assignment.UserPokemons, error)
}

// AssignmentHandler は所有関係のHTTPハンドラー。
type AssignmentHandler struct {
	service AssignmentServiceInterface
}

// NewAssignmentHandler はAssignmentHandlerを生成する。
func NewAssignmentHandler(service AssignmentServiceInterface) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// assignRequest はポケモン割り当てリクエストのボディ。
type assignRequest struct {
	ID string `json:"id"`
}

// userPokemonsResponse はユーザー視点での全ポケモンの分割結果。
type userPokemonsResponse struct {
	Assigned   []*model.Pokemon `json:"assigned"`
	Unassigned []*model.Pokemon `json:"unassigned"`
}

// Assign は認証済みユーザーへのポケモン割り当てを処理する。
// POST /assign-pokemon
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid request body")
		return
	}

	if req.ID == "" {
		writeValidationError(w, "Pokemon ID is required")
		return
	}

	p, err := h.service.Assign(r.Context(), user.ID, req.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pokemonEnvelope{
		Message: "Pokemon assigned to user successfully",
		Pokemon: p,
	})
}

// ListForUser は認証済みユーザー視点の割り当て済み／未割り当てポケモンを返す。
// GET /user-pokemons
func (h *AssignmentHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	result, err := h.service.ListForUser(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userPokemonsResponse{
		Assigned:   result.Assigned,
		Unassigned: result.Unassigned,
	})
}
