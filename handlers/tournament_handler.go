package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quadrahub/arena-system/middleware"
	"github.com/quadrahub/arena-system/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListByArena(r.Context(), chi.URLParam(r, "arenaID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.tournamentService.Get(r.Context(), chi.URLParam(r, "arenaID"), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil)
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.ArenaID = chi.URLParam(r, "arenaID")
	input.ActingUserID = userID
	input.Role = role

	t, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": t}, nil)
}
