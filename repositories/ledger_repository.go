package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quadrahub/arena-system/models"
)

const collectionTransactions = "transactions"

// LedgerRepository appends and lists financial transactions per arena.
// Entries are immutable once posted.
type LedgerRepository interface {
	Append(ctx context.Context, arenaID string, entry *models.LedgerEntry) error
	ListByArena(ctx context.Context, arenaID string) ([]*models.LedgerEntry, error)
}

type storeLedgerRepository struct {
	store RecordStore
}

func NewStoreLedgerRepository(store RecordStore) LedgerRepository {
	return &storeLedgerRepository{store: store}
}

func (r *storeLedgerRepository) Append(ctx context.Context, arenaID string, entry *models.LedgerEntry) error {
	rec, err := marshalRecord(entry.ID, entry)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, collectionTransactions, arenaID, []Record{rec}); err != nil {
		return fmt.Errorf("failed to append ledger entry %s: %w", entry.ID, err)
	}
	return nil
}

func (r *storeLedgerRepository) ListByArena(ctx context.Context, arenaID string) ([]*models.LedgerEntry, error) {
	recs, err := r.store.Select(ctx, collectionTransactions, arenaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for arena %s: %w", arenaID, err)
	}

	entries := make([]*models.LedgerEntry, 0, len(recs))
	for _, rec := range recs {
		var entry models.LedgerEntry
		if err := json.Unmarshal(rec.Doc, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode ledger entry %s: %w", rec.ID, err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
