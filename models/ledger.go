package models

import "time"

const (
	LedgerTypeRevenue = "receita"

	LedgerCategoryTournament = "Torneio"
)

// LedgerEntry is one posted financial transaction on an arena's books.
// ReferenceID keys the entry to the participant+player that produced it, so
// reconciliation can stay idempotent per player.
type LedgerEntry struct {
	ID          string    `json:"id"`
	ArenaID     string    `json:"arena_id"`
	Description string    `json:"description"`
	Value       float64   `json:"value"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
