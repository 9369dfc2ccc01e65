package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quadrahub/arena-system/gateway"
	"github.com/quadrahub/arena-system/middleware"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/services"
)

type ArenaHandler struct {
	arenaService services.ArenaService
}

func NewArenaHandler(arenaService services.ArenaService) *ArenaHandler {
	return &ArenaHandler{arenaService: arenaService}
}

func (h *ArenaHandler) Get(w http.ResponseWriter, r *http.Request) {
	arena, err := h.arenaService.Get(r.Context(), chi.URLParam(r, "arenaID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"arena": sanitizeArena(arena)}, nil)
}

type gatewayCredentialsInput struct {
	APIKey   string `json:"api_key"`
	WalletID string `json:"wallet_id"`
}

func (h *ArenaHandler) UpdateGatewayCredentials(w http.ResponseWriter, r *http.Request) {
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

	var input gatewayCredentialsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	arena, err := h.arenaService.UpdateGatewayCredentials(r.Context(), chi.URLParam(r, "arenaID"), userID, role, input.APIKey, input.WalletID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"arena": sanitizeArena(arena)}, nil)
}

func (h *ArenaHandler) GatewayStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.arenaService.GatewayStatus(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"config": status}, nil)
}

func (h *ArenaHandler) ConfigureGateway(w http.ResponseWriter, r *http.Request) {
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req gateway.ConfigRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.arenaService.ConfigureGateway(r.Context(), role, req); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"status": "saved"}, nil)
}

// sanitizeArena strips gateway credentials before the arena leaves the API.
func sanitizeArena(a *models.Arena) *models.Arena {
	if a == nil {
		return nil
	}
	clean := *a
	clean.GatewayAPIKey = nil
	clean.GatewayWalletID = nil
	return &clean
}
