package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-builder/internal/tracker"
	"github.com/jonathan/resume-builder/internal/types"
)

var _ tracker.Store = (*DB)(nil)

// Create inserts a new document and its section records
func (db *DB) Create(ctx context.Context, state *types.DocumentState) error {
	id, err := parseID(state.ID)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(state.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO documents (id, user_id, style_id, document, version, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, state.UserID, state.StyleID, doc, state.Version, state.CreatedAt, state.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}
		return saveRecords(ctx, tx, id, state)
	})
}

// Load reads a document and all of its section records
func (db *DB) Load(ctx context.Context, id string) (*types.DocumentState, error) {
	docID, err := parseID(id)
	if err != nil {
		return nil, &tracker.DocumentNotFoundError{ID: id}
	}

	state := &types.DocumentState{ID: id}
	var doc []byte
	err = db.pool.QueryRow(ctx,
		`SELECT user_id, style_id, document, version, created_at, updated_at
		 FROM documents WHERE id = $1`,
		docID,
	).Scan(&state.UserID, &state.StyleID, &doc, &state.Version, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &tracker.DocumentNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	if err := json.Unmarshal(doc, &state.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT record FROM section_records WHERE document_id = $1`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load section records for %s: %w", id, err)
	}
	defer rows.Close()

	state.Records = make(map[types.SectionName]*types.SectionRecord)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan section record: %w", err)
		}
		var record types.SectionRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal section record: %w", err)
		}
		state.Records[record.Section] = &record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section records: %w", err)
	}

	state.EnsureRecords()
	return state, nil
}

// Save writes the document and upserts every section record in one transaction
func (db *DB) Save(ctx context.Context, state *types.DocumentState) error {
	id, err := parseID(state.ID)
	if err != nil {
		return &tracker.DocumentNotFoundError{ID: state.ID}
	}
	doc, err := json.Marshal(state.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE documents SET document = $2, version = $3, updated_at = $4 WHERE id = $1`,
			id, doc, state.Version, state.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return &tracker.DocumentNotFoundError{ID: state.ID}
		}
		return saveRecords(ctx, tx, id, state)
	})
}

// Delete removes a document; section records cascade
func (db *DB) Delete(ctx context.Context, id string) error {
	docID, err := parseID(id)
	if err != nil {
		return &tracker.DocumentNotFoundError{ID: id}
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &tracker.DocumentNotFoundError{ID: id}
	}
	return nil
}

// ListByUser returns the ids of a user's documents, most recently updated first
func (db *DB) ListByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM documents WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id.String())
	}
	return ids, rows.Err()
}

func saveRecords(ctx context.Context, tx pgx.Tx, id uuid.UUID, state *types.DocumentState) error {
	for name, record := range state.Records {
		if record == nil {
			continue
		}
		raw, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal %s record: %w", name, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO section_records (document_id, section, status, record, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (document_id, section) DO UPDATE SET status = $3, record = $4, updated_at = NOW()`,
			id, string(name), string(record.Status), raw,
		)
		if err != nil {
			return fmt.Errorf("failed to save %s record: %w", name, err)
		}
	}
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid document id %q: %w", id, err)
	}
	return parsed, nil
}
