package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quadrahub/arena-system/models"
)

const collectionArenas = "arenas"

var ErrArenaNotFound = errors.New("arena not found")

type ArenaRepository interface {
	GetByID(ctx context.Context, arenaID string) (*models.Arena, error)
	Save(ctx context.Context, a *models.Arena) error
}

type storeArenaRepository struct {
	store RecordStore
}

func NewStoreArenaRepository(store RecordStore) ArenaRepository {
	return &storeArenaRepository{store: store}
}

func (r *storeArenaRepository) GetByID(ctx context.Context, arenaID string) (*models.Arena, error) {
	rec, err := r.store.Get(ctx, collectionArenas, GlobalPartition, arenaID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrArenaNotFound
		}
		return nil, fmt.Errorf("failed to load arena %s: %w", arenaID, err)
	}

	var a models.Arena
	if err := json.Unmarshal(rec.Doc, &a); err != nil {
		return nil, fmt.Errorf("failed to decode arena %s: %w", arenaID, err)
	}
	return &a, nil
}

func (r *storeArenaRepository) Save(ctx context.Context, a *models.Arena) error {
	rec, err := marshalRecord(a.ID, a)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, collectionArenas, GlobalPartition, []Record{rec}); err != nil {
		return fmt.Errorf("failed to save arena %s: %w", a.ID, err)
	}
	return nil
}
