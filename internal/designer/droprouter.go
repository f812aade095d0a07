package designer

import (
	"errors"

	"github.com/meridian-fc/meridian/internal/grid"
	"github.com/meridian-fc/meridian/internal/hierarchy"
)

// DropTarget is an already-resolved drop location. Row and Col are nil
// when the corresponding axis was not targeted; resolving ambiguous drops
// (header versus row zero) is the presentation layer's job.
type DropTarget struct {
	Row *int `json:"row,omitempty"`
	Col *int `json:"col,omitempty"`
}

// DropOptions carries the traversal and placement policies for subtree
// drops. Single-member drops ignore them.
type DropOptions struct {
	Mode      InsertMode       `json:"insertMode"`
	Placement PlacementOptions `json:"placement"`
}

// ErrEmptyTarget indicates a drop with neither a row nor a column.
var ErrEmptyTarget = errors.New("designer: drop target empty")

// RouteDrop classifies the payload and target and applies the drop to the
// sheet. Subtrees are flattened and placed through the placement engine;
// single members become direct writes with the matching binding shape.
func RouteDrop(sheet *grid.Sheet, payload *hierarchy.DimensionNode, target DropTarget, opts DropOptions) error {
	if sheet == nil || payload == nil {
		return nil
	}
	if target.Row == nil && target.Col == nil {
		return ErrEmptyTarget
	}

	if payload.IsGroup() {
		anchor := grid.Coord{}
		if target.Row != nil {
			anchor.Row = *target.Row
		}
		if target.Col != nil {
			anchor.Col = *target.Col
		}
		items := BuildInsertList(payload, opts.Mode)
		return ApplyPlacement(sheet, items, anchor, opts.Placement)
	}

	binding := memberBinding(payload)
	switch {
	case target.Row != nil && target.Col != nil:
		row, col := *target.Row, *target.Col
		if row < 0 || col < 0 {
			return ErrInvalidAnchor
		}
		if payload.Kind == hierarchy.KindEntity {
			sheet.SetValue(row, col, payload.Name)
		} else {
			sheet.SetValue(row, col, payload.Code)
		}
		sheet.Bindings.SetCell(grid.Coord{Row: row, Col: col}, binding)
	case target.Row != nil:
		row := *target.Row
		if row < 0 {
			return ErrInvalidAnchor
		}
		// Accounts are code-first, entities name-first by convention.
		if payload.Kind == hierarchy.KindEntity {
			sheet.SetValue(row, 0, payload.Name)
			sheet.SetValue(row, 1, payload.Code)
		} else {
			sheet.SetValue(row, 0, payload.Code)
			sheet.SetValue(row, 1, payload.Name)
		}
		sheet.Bindings.SetRow(row, binding)
	default:
		col := *target.Col
		if col < 0 {
			return ErrInvalidAnchor
		}
		sheet.Ensure(0, col)
		title := payload.Code
		if payload.Kind == hierarchy.KindEntity {
			title = payload.Name
		}
		sheet.Columns[col].Title = title
		sheet.Bindings.SetColumn(col, binding)
	}
	return nil
}

func memberBinding(node *hierarchy.DimensionNode) grid.Binding {
	return grid.Binding{
		ID:          node.ID,
		Type:        string(node.Kind),
		Code:        node.Code,
		Name:        node.Name,
		DimensionID: node.ID,
	}
}
