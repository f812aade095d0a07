package grid

import "strings"

// Binding records the dimension-member identity behind a coordinate. The
// same payload shape is used for cell, row and column bindings; which map
// it lives in decides what it anchors.
type Binding struct {
	ID          string            `json:"id,omitempty"`
	Type        string            `json:"type"`
	Code        string            `json:"code"`
	Name        string            `json:"name,omitempty"`
	DimensionID string            `json:"dimensionId,omitempty"`
	Subtotal    bool              `json:"subtotal,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// BindingStore keeps the three binding maps for one sheet. Report
// execution trusts these maps over raw cell text, so the store must never
// hold a binding for a coordinate whose cell content has been emptied.
type BindingStore struct {
	Cells   map[string]Binding `json:"cellMapping"`
	Rows    map[int]Binding    `json:"rowMapping"`
	Columns map[int]Binding    `json:"columnMapping"`
}

// NewBindingStore returns an empty store.
func NewBindingStore() *BindingStore {
	return &BindingStore{
		Cells:   make(map[string]Binding),
		Rows:    make(map[int]Binding),
		Columns: make(map[int]Binding),
	}
}

func (s *BindingStore) init() {
	if s.Cells == nil {
		s.Cells = make(map[string]Binding)
	}
	if s.Rows == nil {
		s.Rows = make(map[int]Binding)
	}
	if s.Columns == nil {
		s.Columns = make(map[int]Binding)
	}
}

// SetCell upserts a cell binding.
func (s *BindingStore) SetCell(c Coord, b Binding) {
	if s == nil || !c.Valid() {
		return
	}
	s.init()
	s.Cells[c.Key()] = b
}

// SetRow upserts a row binding.
func (s *BindingStore) SetRow(row int, b Binding) {
	if s == nil || row < 0 {
		return
	}
	s.init()
	s.Rows[row] = b
}

// SetColumn upserts a column binding.
func (s *BindingStore) SetColumn(col int, b Binding) {
	if s == nil || col < 0 {
		return
	}
	s.init()
	s.Columns[col] = b
}

// Cell returns the cell binding at the coordinate.
func (s *BindingStore) Cell(c Coord) (Binding, bool) {
	if s == nil || s.Cells == nil {
		return Binding{}, false
	}
	b, ok := s.Cells[c.Key()]
	return b, ok
}

// Row returns the row binding for the row index.
func (s *BindingStore) Row(row int) (Binding, bool) {
	if s == nil || s.Rows == nil {
		return Binding{}, false
	}
	b, ok := s.Rows[row]
	return b, ok
}

// Column returns the column binding for the column index.
func (s *BindingStore) Column(col int) (Binding, bool) {
	if s == nil || s.Columns == nil {
		return Binding{}, false
	}
	b, ok := s.Columns[col]
	return b, ok
}

// Resolve returns the binding governing a coordinate, preferring cell over
// row over column bindings. Raw cell text is the caller's fallback when no
// binding resolves.
func (s *BindingStore) Resolve(row, col int) (Binding, bool) {
	if b, ok := s.Cell(Coord{Row: row, Col: col}); ok {
		return b, true
	}
	if b, ok := s.Row(row); ok {
		return b, true
	}
	return s.Column(col)
}

// IsEmptyValue reports whether a cell value counts as empty for binding
// cleanup purposes.
func IsEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// ClearIfEmpty removes every binding anchored at (row, col) when the cell's
// current value is empty. It must run in the same logical step as the edit
// that emptied the cell; report execution may read the store immediately
// after.
func (s *BindingStore) ClearIfEmpty(row, col int, value any) {
	if s == nil || !IsEmptyValue(value) {
		return
	}
	delete(s.Cells, Coord{Row: row, Col: col}.Key())
	delete(s.Rows, row)
	delete(s.Columns, col)
}

// RemoveRow purges bindings for the removed row index and re-keys every
// binding below it one step up, keeping binding rows aligned with data
// rows.
func (s *BindingStore) RemoveRow(row int) {
	if s == nil || row < 0 {
		return
	}
	s.init()
	rows := make(map[int]Binding, len(s.Rows))
	for idx, b := range s.Rows {
		switch {
		case idx < row:
			rows[idx] = b
		case idx > row:
			rows[idx-1] = b
		}
	}
	s.Rows = rows

	cells := make(map[string]Binding, len(s.Cells))
	for key, b := range s.Cells {
		c, ok := ParseKey(key)
		if !ok {
			continue
		}
		switch {
		case c.Row < row:
			cells[key] = b
		case c.Row > row:
			cells[Coord{Row: c.Row - 1, Col: c.Col}.Key()] = b
		}
	}
	s.Cells = cells
}

// RemoveColumn purges bindings for the removed column index and re-keys
// every binding to its right one step left.
func (s *BindingStore) RemoveColumn(col int) {
	if s == nil || col < 0 {
		return
	}
	s.init()
	cols := make(map[int]Binding, len(s.Columns))
	for idx, b := range s.Columns {
		switch {
		case idx < col:
			cols[idx] = b
		case idx > col:
			cols[idx-1] = b
		}
	}
	s.Columns = cols

	cells := make(map[string]Binding, len(s.Cells))
	for key, b := range s.Cells {
		c, ok := ParseKey(key)
		if !ok {
			continue
		}
		switch {
		case c.Col < col:
			cells[key] = b
		case c.Col > col:
			cells[Coord{Row: c.Row, Col: c.Col - 1}.Key()] = b
		}
	}
	s.Cells = cells
}
