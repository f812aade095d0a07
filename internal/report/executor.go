package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridian-fc/meridian/internal/grid"
)

// EntityColumn is a discovered entity: the grid column it anchors, the
// aggregation code and the display name for the result header.
type EntityColumn struct {
	Col  int
	Code string
	Name string
}

// AccountRow is a discovered account row in sheet order.
type AccountRow struct {
	Row  int
	Code string
	Name string
}

// Executor runs reports against an aggregation backend.
type Executor struct {
	agg    Aggregator
	logger *slog.Logger
}

// NewExecutor constructs a report executor.
func NewExecutor(agg Aggregator, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{agg: agg, logger: logger}
}

// Run reads the workbook's active sheet, aggregates ledger facts for the
// recovered (account, entity) identities and appends the result sheet to
// the workbook, making it active. The source sheet is never mutated.
func (e *Executor) Run(ctx context.Context, wb *grid.Workbook, filters Filters) (*grid.Sheet, error) {
	if e == nil || e.agg == nil {
		return nil, fmt.Errorf("report executor not initialised")
	}
	sheet := wb.Active()
	if sheet == nil {
		return nil, ErrNoMappableData
	}

	entities := DiscoverEntities(sheet)
	accounts := DiscoverAccounts(sheet)
	if len(entities) == 0 && len(accounts) == 0 {
		return nil, ErrNoMappableData
	}

	accountCodes := dedup(codesOf(accounts))
	entityCodes := dedup(entityCodesOf(entities))

	facts, err := e.agg.Aggregate(ctx, accountCodes, entityCodes, filters.PeriodToken())
	if err != nil {
		e.logger.Error("aggregation query failed", slog.Any("error", err))
		return nil, &ExecutionError{Cause: err}
	}

	lookup := make(map[string]decimal.Decimal, len(facts))
	for _, f := range facts {
		key := pairKey(f.AccountCode, f.EntityCode)
		lookup[key] = lookup[key].Add(f.Amount)
	}

	result := materialise(filters, accounts, entities, lookup)
	wb.AppendSheet(result)
	return result, nil
}

// DiscoverEntities resolves the entity column set of a sheet. Explicit
// column bindings win; header-row text covers unbound columns; column
// titles other than the built-in defaults are the last resort when nothing
// else resolved. First source wins per column.
func DiscoverEntities(sheet *grid.Sheet) []EntityColumn {
	var entities []EntityColumn
	seen := make(map[int]bool)

	if sheet.Bindings != nil {
		cols := make([]int, 0, len(sheet.Bindings.Columns))
		for col := range sheet.Bindings.Columns {
			cols = append(cols, col)
		}
		sort.Ints(cols)
		for _, col := range cols {
			b := sheet.Bindings.Columns[col]
			if b.Code == "" {
				continue
			}
			name := b.Name
			if name == "" {
				name = b.Code
			}
			entities = append(entities, EntityColumn{Col: col, Code: b.Code, Name: name})
			seen[col] = true
		}
	}

	for col := 0; col < sheet.ColCount(); col++ {
		if seen[col] {
			continue
		}
		text := strings.TrimSpace(sheet.Text(0, col))
		if text == "" {
			continue
		}
		entities = append(entities, EntityColumn{Col: col, Code: text, Name: text})
		seen[col] = true
	}

	if len(entities) == 0 {
		for col, def := range sheet.Columns {
			title := strings.TrimSpace(def.Title)
			if title == "" || grid.IsDefaultTitle(title) {
				continue
			}
			entities = append(entities, EntityColumn{Col: col, Code: title, Name: title})
		}
	}
	return entities
}

// DiscoverAccounts resolves account rows for every row below the header.
// Row bindings are preferred over the literal code/name cells; whichever
// of the four candidates resolves first stands in for a missing
// counterpart. Rows with nothing resolvable contribute nothing.
func DiscoverAccounts(sheet *grid.Sheet) []AccountRow {
	var accounts []AccountRow
	for row := 1; row < sheet.RowCount(); row++ {
		var metaCode, metaName string
		if sheet.Bindings != nil {
			if b, ok := sheet.Bindings.Row(row); ok {
				metaCode, metaName = b.Code, b.Name
			}
		}
		cellCode := strings.TrimSpace(sheet.Text(row, 0))
		cellName := strings.TrimSpace(sheet.Text(row, 1))

		code := firstNonEmpty(metaCode, cellCode)
		name := firstNonEmpty(metaName, cellName)
		if code == "" && name == "" {
			continue
		}
		if code == "" {
			code = name
		}
		if name == "" {
			name = code
		}
		accounts = append(accounts, AccountRow{Row: row, Code: code, Name: name})
	}
	return accounts
}

func materialise(filters Filters, accounts []AccountRow, entities []EntityColumn, lookup map[string]decimal.Decimal) *grid.Sheet {
	name := "Results"
	if token := filters.PeriodToken(); token != "" {
		name = "Results " + token
	}
	result := grid.NewSheet(name)

	data := make([][]any, 0, len(accounts)+1)
	header := make([]any, 0, len(entities)+1)
	header = append(header, "Account")
	for _, ent := range entities {
		header = append(header, ent.Name)
	}
	data = append(data, header)

	for _, acct := range accounts {
		row := make([]any, 0, len(entities)+1)
		row = append(row, acct.Code)
		for _, ent := range entities {
			// A missing fact is a legitimate zero, never a gap.
			amount := lookup[pairKey(acct.Code, ent.Code)]
			row = append(row, amount.InexactFloat64())
		}
		data = append(data, row)
	}
	result.Data = data

	columns := make([]grid.ColumnDef, 0, len(entities)+1)
	columns = append(columns, grid.ColumnDef{Title: "Account", Width: 160})
	for _, ent := range entities {
		columns = append(columns, grid.ColumnDef{Title: ent.Name, Width: 120})
	}
	result.Columns = columns
	return result
}

func pairKey(accountCode, entityCode string) string {
	return accountCode + "_" + entityCode
}

func codesOf(accounts []AccountRow) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Code)
	}
	return out
}

func entityCodesOf(entities []EntityColumn) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Code)
	}
	return out
}

func dedup(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
