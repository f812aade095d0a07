// Package designer implements the hierarchical-to-grid mapping engine of
// the report designer: flattening dimension subtrees into placement lists,
// applying them to a sheet, and routing drag-and-drop payloads.
package designer

import (
	"errors"

	"github.com/meridian-fc/meridian/internal/hierarchy"
)

// InsertMode selects which tree nodes become placement items.
type InsertMode string

const (
	ModeNodes         InsertMode = "nodes"
	ModeElements      InsertMode = "elements"
	ModeNodesElements InsertMode = "nodes_elements"
	ModeFullTree      InsertMode = "full_tree"
)

// Valid reports whether the insert mode is known.
func (m InsertMode) Valid() bool {
	switch m {
	case ModeNodes, ModeElements, ModeNodesElements, ModeFullTree:
		return true
	}
	return false
}

// DisplayMode selects how a placed item's code and name render across one
// or two cells.
type DisplayMode string

const (
	DisplayCode  DisplayMode = "code"
	DisplayName  DisplayMode = "name"
	DisplayBothH DisplayMode = "both_h"
	DisplayBothV DisplayMode = "both_v"
	DisplayNone  DisplayMode = "none"
)

// Valid reports whether the display mode is known.
func (m DisplayMode) Valid() bool {
	switch m {
	case DisplayCode, DisplayName, DisplayBothH, DisplayBothV, DisplayNone:
		return true
	}
	return false
}

// ItemKind mirrors the structural classification of the source node.
type ItemKind string

const (
	ItemNode    ItemKind = "node"
	ItemElement ItemKind = "element"
)

// PlacementItem is one entry of a flattened subtree, consumed by the
// placement engine immediately after it is built.
type PlacementItem struct {
	Kind   ItemKind
	Type   hierarchy.DimensionKind
	Name   string
	Code   string
	Depth  int
	Source *hierarchy.DimensionNode
}

// PlacementOptions controls how placement items are written to the sheet.
type PlacementOptions struct {
	DisplayMode  DisplayMode `json:"displayMode"`
	ShowSubtotal bool        `json:"showSubtotal"`
	NodeColor    string      `json:"nodeColor"`
	ChildColor   string      `json:"childColor"`
	Note         string      `json:"note"`
}

// ErrInvalidAnchor indicates a placement target outside the grid. Callers
// treat it as a no-op rather than a user-facing failure.
var ErrInvalidAnchor = errors.New("designer: invalid placement anchor")
