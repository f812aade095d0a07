// Package report executes a designed report: it recovers account and
// entity identities from the active sheet and its bindings, aggregates
// ledger facts per pair, and materialises a result sheet.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Filters is the read-only execution scope selected in the surrounding UI.
type Filters struct {
	Period   string   `json:"period"`
	Year     int      `json:"year,omitempty"`
	Month    int      `json:"month,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Entities []string `json:"entities,omitempty"`
}

// PeriodToken returns the normalised period string used for fact
// matching: the explicit period when present, otherwise year-month.
func (f Filters) PeriodToken() string {
	period := strings.TrimSpace(f.Period)
	if period == "" && f.Year > 0 {
		if f.Month > 0 {
			period = fmt.Sprintf("%04d-%02d", f.Year, f.Month)
		} else {
			period = fmt.Sprintf("%04d", f.Year)
		}
	}
	return strings.ToLower(period)
}

// Aggregate is one summed ledger fact for an (account, entity) pair.
type Aggregate struct {
	AccountCode string          `json:"account_code"`
	EntityCode  string          `json:"entity_code"`
	Amount      decimal.Decimal `json:"amount"`
}

// Aggregator is the external query capability: given code sets and a
// period token, return summed amounts per pair.
type Aggregator interface {
	Aggregate(ctx context.Context, accountCodes, entityCodes []string, period string) ([]Aggregate, error)
}

// ErrNoMappableData indicates the sheet yielded no account or entity
// identities; nothing was queried.
var ErrNoMappableData = errors.New("report: no mappable data, drag elements onto the grid first")

// ErrExecutionFailed is the sentinel matched by errors.Is for any failed
// run whose cause lies in the aggregation transport.
var ErrExecutionFailed = errors.New("report: execution failed")

// ExecutionError wraps the underlying aggregation failure.
type ExecutionError struct {
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("report: execution failed: %v", e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrExecutionFailed) match wrapped causes.
func (e *ExecutionError) Is(target error) bool { return target == ErrExecutionFailed }
