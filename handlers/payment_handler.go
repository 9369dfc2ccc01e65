package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quadrahub/arena-system/middleware"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
	"github.com/quadrahub/arena-system/services"
)

type PaymentHandler struct {
	arenaService          services.ArenaService
	tournamentService     services.TournamentService
	paymentService        services.PaymentService
	reconciliationService services.ReconciliationService
	customers             repositories.CustomerRepository
}

func NewPaymentHandler(
	arenaService services.ArenaService,
	tournamentService services.TournamentService,
	paymentService services.PaymentService,
	reconciliationService services.ReconciliationService,
	customers repositories.CustomerRepository,
) *PaymentHandler {
	return &PaymentHandler{
		arenaService:          arenaService,
		tournamentService:     tournamentService,
		paymentService:        paymentService,
		reconciliationService: reconciliationService,
		customers:             customers,
	}
}

type payRequest struct {
	BillingMethod models.BillingMethod    `json:"billing_method"`
	DueDate       string                  `json:"due_date"`
	CardToken     string                  `json:"card_token"`
	Card          *models.CardInput       `json:"card"`
	CardHolder    *models.CardHolderInput `json:"card_holder"`
	SaveCard      bool                    `json:"save_card"`
}

// Pay bills the authenticated player for their registration fee. The amount is
// the participant's resolved category fee, never taken from the request body.
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req payRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	arenaID := chi.URLParam(r, "arenaID")
	arena, err := h.arenaService.Get(r.Context(), arenaID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	t, err := h.tournamentService.Get(r.Context(), arenaID, chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	participant := t.ParticipantByID(chi.URLParam(r, "participantID"))
	if participant == nil {
		mapServiceErrorToHTTP(w, r, services.ErrParticipantNotFound)
		return
	}
	if participant.PlayerByUserID(userID) == nil {
		mapServiceErrorToHTTP(w, r, services.ErrPlayerNotFound)
		return
	}

	member, err := h.customers.GetMemberByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			mapServiceErrorToHTTP(w, r, services.ErrUserNotFound)
		} else {
			serverErrorResponse(w, r, err)
		}
		return
	}

	input := services.PayInput{
		Arena:             arena,
		Customer:          models.CustomerFromMember(member),
		Description:       fmt.Sprintf("Inscrição no torneio %s (%s)", t.Name, participant.Name),
		Value:             t.CategoryByID(participant.CategoryID).ResolveFee(t),
		BillingMethod:     req.BillingMethod,
		ExternalReference: participant.ID + ":" + userID,
		CardToken:         req.CardToken,
		Card:              req.Card,
		CardHolder:        req.CardHolder,
		SaveCard:          req.SaveCard,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			badRequestResponse(w, r, fmt.Errorf("due_date must be formatted as YYYY-MM-DD"))
			return
		}
		input.DueDate = &due
	}

	payment, err := h.paymentService.Pay(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"payment": payment}, nil)
}

// Details returns renderable proof-of-payment data. A retrieval failure after
// the payment summary loaded still returns the summary so the client can link
// to the gateway's hosted view while offering a retry.
func (h *PaymentHandler) Details(w http.ResponseWriter, r *http.Request) {
	method := models.BillingMethod(r.URL.Query().Get("billing_method"))
	if !method.Valid() {
		mapServiceErrorToHTTP(w, r, services.ErrBillingMethodInvalid)
		return
	}

	arena, err := h.arenaService.Get(r.Context(), chi.URLParam(r, "arenaID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	details, err := h.paymentService.GetPaymentDetails(r.Context(), arena, chi.URLParam(r, "paymentID"), method)
	if err != nil {
		if details != nil {
			writeJSON(w, http.StatusBadGateway, jsonResponse{
				"error":   err.Error(),
				"payment": details.Payment,
			}, nil)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"details": details}, nil)
}

func (h *PaymentHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	t, err := h.reconciliationService.Reconcile(
		r.Context(),
		chi.URLParam(r, "arenaID"),
		chi.URLParam(r, "tournamentID"),
		chi.URLParam(r, "participantID"),
		userID,
	)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil)
}
