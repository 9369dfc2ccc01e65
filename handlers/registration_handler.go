package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quadrahub/arena-system/middleware"
	"github.com/quadrahub/arena-system/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

type admitRequest struct {
	CategoryID    string `json:"category_id"`
	TeamName      string `json:"team_name"`
	PartnerUserID string `json:"partner_user_id"`
}

func (h *RegistrationHandler) Admit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req admitRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.registrationService.Admit(r.Context(), services.AdmitInput{
		ArenaID:       chi.URLParam(r, "arenaID"),
		TournamentID:  chi.URLParam(r, "tournamentID"),
		CategoryID:    req.CategoryID,
		UserID:        userID,
		TeamName:      req.TeamName,
		PartnerUserID: req.PartnerUserID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil)
}
