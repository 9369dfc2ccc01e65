package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// GlobalPartition is the sentinel partition for records not owned by an arena.
const GlobalPartition = "global"

var ErrRecordNotFound = errors.New("record not found")

// Record is one stored document. Documents are replaced whole on upsert; there
// is no field-level patch primitive, so callers must always write a freshly
// loaded copy.
type Record struct {
	ID  string
	Doc json.RawMessage
}

// RecordStore is the key-value document store every typed repository sits on.
// Partition is an arena identifier or GlobalPartition.
type RecordStore interface {
	Select(ctx context.Context, collection, partition string) ([]Record, error)
	Get(ctx context.Context, collection, partition, id string) (*Record, error)
	Upsert(ctx context.Context, collection, partition string, records []Record) error
}

type postgresRecordStore struct {
	db *sql.DB
}

func NewPostgresRecordStore(db *sql.DB) RecordStore {
	return &postgresRecordStore{db: db}
}

func (s *postgresRecordStore) Select(ctx context.Context, collection, partition string) ([]Record, error) {
	query := `
		SELECT id, doc
		FROM records
		WHERE collection = $1 AND partition = $2
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, collection, partition)
	if err != nil {
		return nil, fmt.Errorf("failed to select records from %s/%s: %w", collection, partition, err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Doc); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}
	return records, nil
}

func (s *postgresRecordStore) Get(ctx context.Context, collection, partition, id string) (*Record, error) {
	query := `SELECT id, doc FROM records WHERE collection = $1 AND partition = $2 AND id = $3`

	rec := &Record{}
	err := s.db.QueryRowContext(ctx, query, collection, partition, id).Scan(&rec.ID, &rec.Doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record %s from %s/%s: %w", id, collection, partition, err)
	}
	return rec, nil
}

func (s *postgresRecordStore) Upsert(ctx context.Context, collection, partition string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO records (collection, partition, id, doc, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, partition, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query, collection, partition, rec.ID, rec.Doc, now); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "22P02" { // invalid_text_representation
				return fmt.Errorf("record %s carries an invalid document: %w", rec.ID, err)
			}
			return fmt.Errorf("failed to upsert record %s into %s/%s: %w", rec.ID, collection, partition, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert transaction: %w", err)
	}
	return nil
}

func marshalRecord(id string, v interface{}) (Record, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("failed to marshal record %s: %w", id, err)
	}
	return Record{ID: id, Doc: doc}, nil
}
