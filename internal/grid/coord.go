// Package grid holds the workbook document model used by the report
// designer: sheets with a cell matrix, per-sheet metadata maps, and the
// binding store that ties grid coordinates to dimension members.
package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord identifies a single cell. Row and Col are zero-based.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key renders the canonical "row_col" map key. Every string-keyed map in
// the document model uses this format; producing keys any other way is a
// bug waiting for a mismatched lookup.
func (c Coord) Key() string {
	return fmt.Sprintf("%d_%d", c.Row, c.Col)
}

// Valid reports whether the coordinate addresses a representable cell.
func (c Coord) Valid() bool {
	return c.Row >= 0 && c.Col >= 0
}

// ParseKey parses a "row_col" key back into a Coord.
func ParseKey(key string) (Coord, bool) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return Coord{}, false
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return Coord{}, false
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return Coord{}, false
	}
	return Coord{Row: row, Col: col}, true
}
