package hierarchy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MemberRow is a flat dimension member as stored in the directory table.
type MemberRow struct {
	ID       string
	ParentID *string
	Kind     string
	Code     string
	Name     string
	Ord      int
}

// Repository reads dimension members from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a directory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// MembersByKind returns every member of the given dimension family ordered
// for deterministic tree assembly.
func (r *Repository) MembersByKind(ctx context.Context, kind DimensionKind) ([]MemberRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("hierarchy repo not initialised")
	}
	const query = `
SELECT id, parent_id, kind, code, name, ord
FROM dimension_members
WHERE kind = $1
ORDER BY ord, code`
	rows, err := r.pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("hierarchy: query members: %w", err)
	}
	defer rows.Close()
	var members []MemberRow
	for rows.Next() {
		var m MemberRow
		if err := rows.Scan(&m.ID, &m.ParentID, &m.Kind, &m.Code, &m.Name, &m.Ord); err != nil {
			return nil, fmt.Errorf("hierarchy: scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
