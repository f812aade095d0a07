package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	platformdb "github.com/meridian-fc/meridian/internal/platform/db"
)

const uniqueViolation = "23505"

// Repository persists report documents to Postgres as JSONB bodies.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a document repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new document at version one.
func (r *Repository) Insert(ctx context.Context, doc *Document) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("document repo not initialised")
	}
	body, err := json.Marshal(doc.Body)
	if err != nil {
		return fmt.Errorf("document: marshal body: %w", err)
	}
	const query = `
INSERT INTO report_documents (id, name, body, version, created_at, updated_at)
VALUES ($1, $2, $3, 1, now(), now())`
	if _, err := r.pool.Exec(ctx, query, doc.ID, doc.Name, body); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateName
		}
		return fmt.Errorf("document: insert: %w", err)
	}
	doc.Version = 1
	return nil
}

// Update saves a document guarded by its version. The version check is the
// only cross-session safety net, so a zero-row update is a conflict, not a
// silent success.
func (r *Repository) Update(ctx context.Context, doc *Document) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("document repo not initialised")
	}
	body, err := json.Marshal(doc.Body)
	if err != nil {
		return fmt.Errorf("document: marshal body: %w", err)
	}
	return platformdb.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
UPDATE report_documents
SET name = $3, body = $4, version = version + 1, updated_at = now()
WHERE id = $1 AND version = $2`
		tag, err := tx.Exec(ctx, query, doc.ID, doc.Version, doc.Name, body)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrDuplicateName
			}
			return fmt.Errorf("document: update: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM report_documents WHERE id = $1)`, doc.ID).Scan(&exists); err != nil {
				return fmt.Errorf("document: conflict probe: %w", err)
			}
			if !exists {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		doc.Version++
		return nil
	})
}

// Get loads one document by id.
func (r *Repository) Get(ctx context.Context, id string) (*Document, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("document repo not initialised")
	}
	const query = `
SELECT id, name, body, version, created_at, updated_at
FROM report_documents
WHERE id = $1`
	var doc Document
	var body []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.Name, &body, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("document: get: %w", err)
	}
	if err := json.Unmarshal(body, &doc.Body); err != nil {
		return nil, fmt.Errorf("document: unmarshal body: %w", err)
	}
	return &doc, nil
}

// List returns document summaries, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("document repo not initialised")
	}
	const query = `
SELECT id, name, version, updated_at
FROM report_documents
ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("document: list: %w", err)
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("document: scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertSnapshot records an exported XLSX snapshot for a document.
func (r *Repository) InsertSnapshot(ctx context.Context, documentID string, payload []byte) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("document repo not initialised")
	}
	const query = `
INSERT INTO document_snapshots (document_id, payload, created_at)
VALUES ($1, $2, now())`
	if _, err := r.pool.Exec(ctx, query, documentID, payload); err != nil {
		return fmt.Errorf("document: insert snapshot: %w", err)
	}
	return nil
}
