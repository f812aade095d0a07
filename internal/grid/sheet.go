package grid

import (
	"github.com/google/uuid"
)

// Built-in column titles for a fresh sheet. Anything else counts as a
// user-defined title during report execution.
const (
	TitleAccountCode = "Account Code"
	TitleAccountName = "Account Name"
	TitleAmount      = "Amount"
)

const (
	defaultRows = 20
	defaultCols = 8
)

// ColumnDef describes one grid column.
type ColumnDef struct {
	Title string `json:"title"`
	Width int    `json:"width,omitempty"`
}

// DefaultColumns returns the column set of a fresh sheet: the three
// built-in titles followed by untitled columns.
func DefaultColumns() []ColumnDef {
	cols := make([]ColumnDef, defaultCols)
	cols[0] = ColumnDef{Title: TitleAccountCode, Width: 120}
	cols[1] = ColumnDef{Title: TitleAccountName, Width: 220}
	cols[2] = ColumnDef{Title: TitleAmount, Width: 120}
	return cols
}

// IsDefaultTitle reports whether a column title is one of the built-ins.
func IsDefaultTitle(title string) bool {
	return title == TitleAccountCode || title == TitleAccountName || title == TitleAmount
}

// Sheet is one grid of the workbook together with all per-sheet metadata.
// Formulas, Styles and Comments are keyed by Coord.Key strings; formulas
// are stored verbatim and evaluated by the client-side grid widget, never
// here.
type Sheet struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Data     [][]any           `json:"data"`
	Columns  []ColumnDef       `json:"columns"`
	Formulas map[string]string `json:"formulas"`
	Styles   map[string]string `json:"styles"`
	Comments map[string]string `json:"comments"`
	Bindings *BindingStore     `json:"bindings"`
}

// NewSheet creates an empty sheet with the default column layout.
func NewSheet(name string) *Sheet {
	data := make([][]any, defaultRows)
	for i := range data {
		data[i] = make([]any, defaultCols)
	}
	return &Sheet{
		ID:       uuid.NewString(),
		Name:     name,
		Data:     data,
		Columns:  DefaultColumns(),
		Formulas: make(map[string]string),
		Styles:   make(map[string]string),
		Comments: make(map[string]string),
		Bindings: NewBindingStore(),
	}
}

// RowCount returns the number of rows currently materialised.
func (s *Sheet) RowCount() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}

// ColCount returns the widest materialised row.
func (s *Sheet) ColCount() int {
	if s == nil {
		return 0
	}
	width := len(s.Columns)
	for _, row := range s.Data {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Ensure grows the data matrix until (row, col) exists.
func (s *Sheet) Ensure(row, col int) {
	if s == nil || row < 0 || col < 0 {
		return
	}
	for len(s.Data) <= row {
		s.Data = append(s.Data, make([]any, len(s.Columns)))
	}
	for i := range s.Data {
		for len(s.Data[i]) <= col {
			s.Data[i] = append(s.Data[i], nil)
		}
	}
	for len(s.Columns) <= col {
		s.Columns = append(s.Columns, ColumnDef{})
	}
}

// Value returns the cell value, nil when out of range.
func (s *Sheet) Value(row, col int) any {
	if s == nil || row < 0 || col < 0 || row >= len(s.Data) || col >= len(s.Data[row]) {
		return nil
	}
	return s.Data[row][col]
}

// Text returns the cell value as a string, "" for nil or non-string cells.
func (s *Sheet) Text(row, col int) string {
	if v, ok := s.Value(row, col).(string); ok {
		return v
	}
	return ""
}

// SetValue writes a cell and synchronously drops any binding anchored at
// the coordinate when the new value is empty. Deferred cleanup is not an
// option: a report run may read the bindings in the very next call.
func (s *Sheet) SetValue(row, col int, value any) {
	if s == nil || row < 0 || col < 0 {
		return
	}
	s.Ensure(row, col)
	s.Data[row][col] = value
	if s.Bindings != nil {
		s.Bindings.ClearIfEmpty(row, col, value)
	}
}

// SetStyle records a style string for the cell.
func (s *Sheet) SetStyle(row, col int, style string) {
	if s == nil || row < 0 || col < 0 {
		return
	}
	if s.Styles == nil {
		s.Styles = make(map[string]string)
	}
	s.Styles[Coord{Row: row, Col: col}.Key()] = style
}

// SetFormula stores a formula string for the cell. Formulas are opaque to
// the engine.
func (s *Sheet) SetFormula(row, col int, formula string) {
	if s == nil || row < 0 || col < 0 {
		return
	}
	if s.Formulas == nil {
		s.Formulas = make(map[string]string)
	}
	s.Formulas[Coord{Row: row, Col: col}.Key()] = formula
}

// SetComment attaches a comment to the cell.
func (s *Sheet) SetComment(row, col int, comment string) {
	if s == nil || row < 0 || col < 0 {
		return
	}
	if s.Comments == nil {
		s.Comments = make(map[string]string)
	}
	s.Comments[Coord{Row: row, Col: col}.Key()] = comment
}

// RemoveRow deletes a data row and re-keys all row-indexed metadata,
// bindings included.
func (s *Sheet) RemoveRow(row int) {
	if s == nil || row < 0 || row >= len(s.Data) {
		return
	}
	s.Data = append(s.Data[:row], s.Data[row+1:]...)
	s.Formulas = shiftKeys(s.Formulas, row, -1, true)
	s.Styles = shiftKeys(s.Styles, row, -1, true)
	s.Comments = shiftKeys(s.Comments, row, -1, true)
	if s.Bindings != nil {
		s.Bindings.RemoveRow(row)
	}
}

// RemoveColumn deletes a column from every row, the column defs and all
// column-indexed metadata.
func (s *Sheet) RemoveColumn(col int) {
	if s == nil || col < 0 {
		return
	}
	for i, row := range s.Data {
		if col < len(row) {
			s.Data[i] = append(row[:col], row[col+1:]...)
		}
	}
	if col < len(s.Columns) {
		s.Columns = append(s.Columns[:col], s.Columns[col+1:]...)
	}
	s.Formulas = shiftKeys(s.Formulas, col, -1, false)
	s.Styles = shiftKeys(s.Styles, col, -1, false)
	s.Comments = shiftKeys(s.Comments, col, -1, false)
	if s.Bindings != nil {
		s.Bindings.RemoveColumn(col)
	}
}

// shiftKeys drops entries at the removed index and re-keys the rest.
// byRow selects whether the row or column part of the key shifts.
func shiftKeys(m map[string]string, removed, delta int, byRow bool) map[string]string {
	if len(m) == 0 {
		return m
	}
	out := make(map[string]string, len(m))
	for key, val := range m {
		c, ok := ParseKey(key)
		if !ok {
			continue
		}
		idx := c.Col
		if byRow {
			idx = c.Row
		}
		if idx == removed {
			continue
		}
		if idx > removed {
			if byRow {
				c.Row += delta
			} else {
				c.Col += delta
			}
		}
		out[c.Key()] = val
	}
	return out
}
