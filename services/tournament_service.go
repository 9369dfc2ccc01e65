package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
)

var (
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentDateRange    = errors.New("tournament end date must not be before the start date")
)

type CategoryInput struct {
	Name     string          `json:"name"`
	Modality models.Modality `json:"modality"`
	Fee      *float64        `json:"fee,omitempty"`
	Prizes   []string        `json:"prizes,omitempty"`
}

type CreateTournamentInput struct {
	ArenaID         string
	ActingUserID    string
	Role            models.UserRole
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	RegistrationFee float64         `json:"registration_fee"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Categories      []CategoryInput `json:"categories"`
}

type TournamentService interface {
	Get(ctx context.Context, arenaID, tournamentID string) (*models.Tournament, error)
	ListByArena(ctx context.Context, arenaID string) ([]*models.Tournament, error)
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
}

type tournamentService struct {
	tournaments repositories.TournamentRepository
}

func NewTournamentService(tournaments repositories.TournamentRepository) TournamentService {
	return &tournamentService{tournaments: tournaments}
}

func (s *tournamentService) Get(ctx context.Context, arenaID, tournamentID string) (*models.Tournament, error) {
	t, err := s.tournaments.GetByID(ctx, arenaID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	return t, nil
}

func (s *tournamentService) ListByArena(ctx context.Context, arenaID string) ([]*models.Tournament, error) {
	tournaments, err := s.tournaments.ListByArena(ctx, arenaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Role != models.RoleAdmin && input.Role != models.RoleOrganizer {
		return nil, ErrForbiddenOperation
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrTournamentDateRange
	}

	t := &models.Tournament{
		ID:              uuid.NewString(),
		ArenaID:         input.ArenaID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Status:          models.StatusRegistration,
		RegistrationFee: input.RegistrationFee,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		CreatedAt:       time.Now(),
	}
	for _, c := range input.Categories {
		modality := c.Modality
		if modality == "" {
			modality = models.ModalityIndividual
		}
		t.Categories = append(t.Categories, models.Category{
			ID:       uuid.NewString(),
			Name:     c.Name,
			Modality: modality,
			Fee:      c.Fee,
			Prizes:   c.Prizes,
		})
	}

	if err := s.tournaments.Save(ctx, input.ArenaID, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return t, nil
}
