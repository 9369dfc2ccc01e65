package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quadrahub/arena-system/live"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
)

// AdmitInput is one admission attempt. UserID is the authenticated primary
// registrant; PartnerUserID is optional and only meaningful for duplas and
// equipes.
type AdmitInput struct {
	ArenaID       string
	TournamentID  string
	CategoryID    string
	UserID        string
	TeamName      string
	PartnerUserID string
}

type RegistrationService interface {
	Admit(ctx context.Context, input AdmitInput) (*models.Participant, error)
}

type registrationService struct {
	tournaments   repositories.TournamentRepository
	customers     repositories.CustomerRepository
	notifications repositories.NotificationRepository
	hub           LiveBroadcaster
	logger        *slog.Logger
}

func NewRegistrationService(
	tournaments repositories.TournamentRepository,
	customers repositories.CustomerRepository,
	notifications repositories.NotificationRepository,
	hub LiveBroadcaster,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		tournaments:   tournaments,
		customers:     customers,
		notifications: notifications,
		hub:           hub,
		logger:        logger,
	}
}

// Admit registers the primary user into a tournament category. Preconditions
// run in a fixed order so each failure mode surfaces distinctly: auth,
// category resolution, team name, duplicate registration. Uniqueness is keyed
// on (category, user): a user may hold at most one accepted-or-pending player
// row across all participants of one category. Declined invites do not block.
func (s *registrationService) Admit(ctx context.Context, input AdmitInput) (*models.Participant, error) {
	if input.UserID == "" {
		return nil, ErrAuthenticationFailed
	}

	t, err := s.tournaments.GetByID(ctx, input.ArenaID, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament for admission: %w", err)
	}

	category := t.CategoryByID(input.CategoryID)
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	teamName := strings.TrimSpace(input.TeamName)
	if category.Modality != models.ModalityIndividual && teamName == "" {
		return nil, ErrTeamNameRequired
	}

	for i := range t.Participants {
		p := &t.Participants[i]
		if p.CategoryID == input.CategoryID && p.HasActiveUser(input.UserID) {
			return nil, ErrRegistrationConflict
		}
	}

	member, err := s.customers.GetMemberByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// The account exists (the caller authenticated) but its member
			// record has not landed yet. The caller polls; no retry here.
			return nil, ErrProfileNotReady
		}
		return nil, fmt.Errorf("failed to load member for admission: %w", err)
	}

	participant := models.Participant{
		ID:         uuid.NewString(),
		CategoryID: input.CategoryID,
		Name:       member.DisplayName(),
		Players: []models.Player{{
			UserID:        strPtr(member.ID),
			Name:          member.DisplayName(),
			Phone:         member.Phone,
			InviteStatus:  models.InviteAccepted,
			PaymentStatus: models.PlayerPaymentPending,
		}},
		PaymentStatus: models.ParticipantPaymentPending,
		CreatedAt:     time.Now(),
	}
	if category.Modality != models.ModalityIndividual {
		participant.Name = teamName
	}

	var partner *models.User
	if input.PartnerUserID != "" && category.Modality != models.ModalityIndividual {
		partner, err = s.customers.GetMemberByID(ctx, input.PartnerUserID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to load partner for admission: %w", err)
		}
		participant.Players = append(participant.Players, models.Player{
			UserID:        strPtr(partner.ID),
			Name:          partner.DisplayName(),
			Phone:         partner.Phone,
			InviteStatus:  models.InvitePending,
			PaymentStatus: models.PlayerPaymentPending,
		})
	}

	// A free category is considered settled at admission; player rows stay
	// pendente since there is nothing to collect.
	if category.ResolveFee(t) == 0 {
		participant.PaymentStatus = models.ParticipantPaymentPaid
	}

	t.Participants = append(t.Participants, participant)
	if err := s.tournaments.Save(ctx, input.ArenaID, t); err != nil {
		return nil, fmt.Errorf("failed to persist admission: %w", err)
	}

	if partner != nil {
		s.sendPartnerInvite(ctx, input, t, member, partner)
	}
	s.hub.BroadcastToRoom(t.ID, live.Message{
		Type:   live.MessageParticipantRegistered,
		RoomID: t.ID,
		Payload: map[string]string{
			"participant_id": participant.ID,
			"category_id":    participant.CategoryID,
		},
	})

	return &participant, nil
}

// sendPartnerInvite notifies the partner that they were added to a team.
// Best-effort: admission is already persisted, a failed write is only logged.
func (s *registrationService) sendPartnerInvite(ctx context.Context, input AdmitInput, t *models.Tournament, inviter, partner *models.User) {
	notification := &models.Notification{
		ID:          uuid.NewString(),
		ArenaID:     input.ArenaID,
		RecipientID: partner.ID,
		SenderID:    inviter.ID,
		SenderName:  inviter.DisplayName(),
		Message:     fmt.Sprintf("%s convidou você para jogar %s no torneio %s", inviter.DisplayName(), strings.TrimSpace(input.TeamName), t.Name),
		Type:        models.NotificationTypeTeamInvite,
		Link:        fmt.Sprintf("/torneios/%s", t.ID),
		CreatedAt:   time.Now(),
	}
	if err := s.notifications.Upsert(ctx, notification); err != nil {
		s.logger.WarnContext(ctx, "failed to deliver team invite notification",
			slog.String("tournament_id", t.ID),
			slog.String("recipient_id", partner.ID),
			slog.Any("error", err))
	}
}
