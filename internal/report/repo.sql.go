package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// maxAggregateRows caps the result size of one aggregation query.
const maxAggregateRows = 10000

// Repository aggregates ledger facts from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs an aggregation repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Aggregate sums ledger amounts grouped by (account_code, entity_code)
// for the requested code sets and period token. The period predicate
// matches exactly or by substring against the lowercased stored period, so
// "2024-03" finds both "2024-03" and "FY 2024-03 (Mar)".
func (r *Repository) Aggregate(ctx context.Context, accountCodes, entityCodes []string, period string) ([]Aggregate, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("report repo not initialised")
	}
	const query = `
SELECT account_code, entity_code, COALESCE(SUM(amount), 0)::text
FROM ledger_entries
WHERE account_code = ANY($1)
  AND entity_code = ANY($2)
  AND (period = $3 OR position($3 in lower(period)) > 0)
GROUP BY account_code, entity_code
LIMIT $4`
	rows, err := r.pool.Query(ctx, query, accountCodes, entityCodes, period, maxAggregateRows)
	if err != nil {
		return nil, fmt.Errorf("report: aggregate query: %w", err)
	}
	defer rows.Close()

	var facts []Aggregate
	for rows.Next() {
		var f Aggregate
		var raw string
		if err := rows.Scan(&f.AccountCode, &f.EntityCode, &raw); err != nil {
			return nil, fmt.Errorf("report: scan aggregate: %w", err)
		}
		// Non-numeric amounts coerce to zero rather than failing the run.
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			amount = decimal.Zero
		}
		f.Amount = amount
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
