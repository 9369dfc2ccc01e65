package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quadrahub/arena-system/models"
)

const collectionTournaments = "tournaments"

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentRepository reads and writes tournaments as whole documents,
// participants collection included. Concurrent saves are last-write-wins.
type TournamentRepository interface {
	GetByID(ctx context.Context, arenaID, tournamentID string) (*models.Tournament, error)
	ListByArena(ctx context.Context, arenaID string) ([]*models.Tournament, error)
	Save(ctx context.Context, arenaID string, t *models.Tournament) error
}

type storeTournamentRepository struct {
	store RecordStore
}

func NewStoreTournamentRepository(store RecordStore) TournamentRepository {
	return &storeTournamentRepository{store: store}
}

func (r *storeTournamentRepository) GetByID(ctx context.Context, arenaID, tournamentID string) (*models.Tournament, error) {
	rec, err := r.store.Get(ctx, collectionTournaments, arenaID, tournamentID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}

	var t models.Tournament
	if err := json.Unmarshal(rec.Doc, &t); err != nil {
		return nil, fmt.Errorf("failed to decode tournament %s: %w", tournamentID, err)
	}
	return &t, nil
}

func (r *storeTournamentRepository) ListByArena(ctx context.Context, arenaID string) ([]*models.Tournament, error) {
	recs, err := r.store.Select(ctx, collectionTournaments, arenaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments for arena %s: %w", arenaID, err)
	}

	tournaments := make([]*models.Tournament, 0, len(recs))
	for _, rec := range recs {
		var t models.Tournament
		if err := json.Unmarshal(rec.Doc, &t); err != nil {
			return nil, fmt.Errorf("failed to decode tournament %s: %w", rec.ID, err)
		}
		tournaments = append(tournaments, &t)
	}
	return tournaments, nil
}

func (r *storeTournamentRepository) Save(ctx context.Context, arenaID string, t *models.Tournament) error {
	rec, err := marshalRecord(t.ID, t)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, collectionTournaments, arenaID, []Record{rec}); err != nil {
		return fmt.Errorf("failed to save tournament %s: %w", t.ID, err)
	}
	return nil
}
