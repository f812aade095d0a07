package designer

import (
	"strings"

	"github.com/meridian-fc/meridian/internal/grid"
	"github.com/meridian-fc/meridian/internal/hierarchy"
)

const indentUnit = "  "

// ApplyPlacement writes a placement list to the sheet starting at anchor,
// one row per item, growing the grid as needed. Display text, styling,
// bindings, subtotal markers and the optional note comment are all applied
// in one step; an invalid anchor leaves the sheet untouched.
func ApplyPlacement(sheet *grid.Sheet, items []PlacementItem, anchor grid.Coord, opts PlacementOptions) error {
	if sheet == nil {
		return nil
	}
	if !anchor.Valid() {
		return ErrInvalidAnchor
	}

	for i, item := range items {
		row := anchor.Row + i
		col := anchor.Col
		indented := strings.Repeat(indentUnit, item.Depth) + item.Name

		var styled []grid.Coord
		switch opts.DisplayMode {
		case DisplayCode:
			sheet.SetValue(row, col, item.Code)
			styled = []grid.Coord{{Row: row, Col: col}}
		case DisplayName:
			sheet.SetValue(row, col, indented)
			styled = []grid.Coord{{Row: row, Col: col}}
		case DisplayBothH:
			sheet.SetValue(row, col, item.Code)
			sheet.SetValue(row, col+1, indented)
			styled = []grid.Coord{{Row: row, Col: col}, {Row: row, Col: col + 1}}
		case DisplayBothV:
			sheet.SetValue(row, col, item.Code)
			sheet.SetValue(row+1, col, indented)
			// The name-below cell stays unstyled.
			styled = []grid.Coord{{Row: row, Col: col}}
		case DisplayNone:
			// No text, binding below may still be recorded.
		}

		style := itemStyle(item, opts)
		if style != "" {
			for _, c := range styled {
				sheet.SetStyle(c.Row, c.Col, style)
			}
		}

		if item.Kind == ItemElement && (item.Type == hierarchy.KindAccount || item.Type == hierarchy.KindEntity) {
			sheet.Bindings.SetRow(row, bindingFor(item, false))
		}
		if opts.ShowSubtotal && item.Kind == ItemNode {
			sheet.Bindings.SetRow(row, bindingFor(item, true))
		}
	}

	if strings.TrimSpace(opts.Note) != "" {
		sheet.SetComment(anchor.Row, anchor.Col, opts.Note)
	}
	return nil
}

func itemStyle(item PlacementItem, opts PlacementOptions) string {
	if item.Kind == ItemNode {
		if opts.NodeColor == "" {
			return "bold"
		}
		return "bold;color:" + opts.NodeColor
	}
	if opts.ChildColor == "" {
		return ""
	}
	return "color:" + opts.ChildColor
}

func bindingFor(item PlacementItem, subtotal bool) grid.Binding {
	b := grid.Binding{
		Type: string(item.Type),
		Code: item.Code,
		Name: item.Name,
	}
	if item.Source != nil {
		b.ID = item.Source.ID
		b.DimensionID = item.Source.ID
	}
	b.Subtotal = subtotal
	return b
}
