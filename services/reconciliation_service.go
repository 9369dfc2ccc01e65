package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quadrahub/arena-system/live"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
)

type ReconciliationService interface {
	Reconcile(ctx context.Context, arenaID, tournamentID, participantID, actingUserID string) (*models.Tournament, error)
}

type reconciliationService struct {
	tournaments repositories.TournamentRepository
	ledger      repositories.LedgerRepository
	hub         LiveBroadcaster
	logger      *slog.Logger
}

func NewReconciliationService(
	tournaments repositories.TournamentRepository,
	ledger repositories.LedgerRepository,
	hub LiveBroadcaster,
	logger *slog.Logger,
) ReconciliationService {
	return &reconciliationService{
		tournaments: tournaments,
		ledger:      ledger,
		hub:         hub,
		logger:      logger,
	}
}

// Reconcile marks the acting user's player row as paid inside the participant,
// recomputes the aggregate status and posts the matching revenue entry.
// Idempotent per player: repeating the call for an already-paid row neither
// rewrites the row nor posts a second ledger entry. Two different players
// paying for the same team produce two entries, one fee each.
//
// The tournament save happens before the ledger append. A ledger failure after
// a successful save leaves the player marked paid with the revenue missing;
// the error is surfaced so the operator can repost. There is no transaction
// spanning both collections.
func (s *reconciliationService) Reconcile(ctx context.Context, arenaID, tournamentID, participantID, actingUserID string) (*models.Tournament, error) {
	if actingUserID == "" {
		return nil, ErrAuthenticationFailed
	}

	t, err := s.tournaments.GetByID(ctx, arenaID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament for reconciliation: %w", err)
	}

	participant := t.ParticipantByID(participantID)
	if participant == nil {
		return nil, ErrParticipantNotFound
	}
	player := participant.PlayerByUserID(actingUserID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	alreadyPaid := player.PaymentStatus == models.PlayerPaymentPaid
	player.PaymentStatus = models.PlayerPaymentPaid
	participant.PaymentStatus = models.ComputeParticipantPaymentStatus(participant.Players)

	// The whole participants collection is rewritten. Concurrent reconciles on
	// the same tournament race last-write-wins; see the repository contract.
	if err := s.tournaments.Save(ctx, arenaID, t); err != nil {
		return nil, fmt.Errorf("failed to persist reconciliation: %w", err)
	}

	if !alreadyPaid {
		amount := t.CategoryByID(participant.CategoryID).ResolveFee(t)
		entry := &models.LedgerEntry{
			ID:          uuid.NewString(),
			ArenaID:     arenaID,
			Description: fmt.Sprintf("Inscrição de %s (%s) no torneio %s", player.Name, participant.Name, t.Name),
			Value:       amount,
			Type:        models.LedgerTypeRevenue,
			Category:    models.LedgerCategoryTournament,
			Date:        time.Now(),
			ReferenceID: participantID + ":" + actingUserID,
			CreatedAt:   time.Now(),
		}
		if err := s.ledger.Append(ctx, arenaID, entry); err != nil {
			return nil, fmt.Errorf("payment recorded but ledger entry failed for participant %s: %w", participantID, err)
		}
	}

	s.hub.BroadcastToRoom(t.ID, live.Message{
		Type:   live.MessagePaymentUpdated,
		RoomID: t.ID,
		Payload: map[string]string{
			"participant_id": participant.ID,
			"user_id":        actingUserID,
			"payment_status": string(participant.PaymentStatus),
		},
	})

	return t, nil
}
