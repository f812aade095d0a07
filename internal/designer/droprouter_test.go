package designer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-fc/meridian/internal/grid"
	"github.com/meridian-fc/meridian/internal/hierarchy"
)

func intp(v int) *int { return &v }

func accountMember() *hierarchy.DimensionNode {
	return &hierarchy.DimensionNode{ID: "a1", Code: "1000", Name: "Cash", Kind: hierarchy.KindAccount}
}

func entityMember() *hierarchy.DimensionNode {
	return &hierarchy.DimensionNode{ID: "e1", Code: "ENT01", Name: "Alpha Corp", Kind: hierarchy.KindEntity}
}

func TestRouteDropCellWritesPerKind(t *testing.T) {
	sheet := grid.NewSheet("drop")

	require.NoError(t, RouteDrop(sheet, accountMember(), DropTarget{Row: intp(2), Col: intp(3)}, DropOptions{}))
	assert.Equal(t, "1000", sheet.Text(2, 3), "accounts write their code")

	require.NoError(t, RouteDrop(sheet, entityMember(), DropTarget{Row: intp(4), Col: intp(3)}, DropOptions{}))
	assert.Equal(t, "Alpha Corp", sheet.Text(4, 3), "entities write their name")

	b, ok := sheet.Bindings.Cell(grid.Coord{Row: 2, Col: 3})
	require.True(t, ok)
	assert.Equal(t, "1000", b.Code)
	assert.Equal(t, "account", b.Type)
}

func TestRouteDropRowOrderReversedForEntities(t *testing.T) {
	sheet := grid.NewSheet("drop")

	require.NoError(t, RouteDrop(sheet, accountMember(), DropTarget{Row: intp(1)}, DropOptions{}))
	assert.Equal(t, "1000", sheet.Text(1, 0))
	assert.Equal(t, "Cash", sheet.Text(1, 1))

	require.NoError(t, RouteDrop(sheet, entityMember(), DropTarget{Row: intp(2)}, DropOptions{}))
	assert.Equal(t, "Alpha Corp", sheet.Text(2, 0), "entities are name-first")
	assert.Equal(t, "ENT01", sheet.Text(2, 1))

	b, ok := sheet.Bindings.Row(2)
	require.True(t, ok)
	assert.Equal(t, "ENT01", b.Code)
}

func TestRouteDropColumnHeaderSetsTitle(t *testing.T) {
	sheet := grid.NewSheet("drop")

	require.NoError(t, RouteDrop(sheet, entityMember(), DropTarget{Col: intp(4)}, DropOptions{}))
	assert.Equal(t, "Alpha Corp", sheet.Columns[4].Title)

	require.NoError(t, RouteDrop(sheet, accountMember(), DropTarget{Col: intp(5)}, DropOptions{}))
	assert.Equal(t, "1000", sheet.Columns[5].Title, "account headers use the code")

	b, ok := sheet.Bindings.Column(4)
	require.True(t, ok)
	assert.Equal(t, "ENT01", b.Code)
	assert.Equal(t, "entity", b.Type)
}

func TestRouteDropSubtreeGoesThroughPlacement(t *testing.T) {
	sheet := grid.NewSheet("drop")

	err := RouteDrop(sheet, entityTree(), DropTarget{Row: intp(1), Col: intp(0)}, DropOptions{
		Mode:      ModeNodesElements,
		Placement: PlacementOptions{DisplayMode: DisplayBothH},
	})
	require.NoError(t, err)

	assert.Equal(t, "US", sheet.Text(1, 0))
	assert.Equal(t, "US-East", sheet.Text(2, 0))
	_, ok := sheet.Bindings.Row(2)
	assert.True(t, ok)
}

func TestRouteDropEmptyTargetRejected(t *testing.T) {
	sheet := grid.NewSheet("drop")
	err := RouteDrop(sheet, accountMember(), DropTarget{}, DropOptions{})
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestRouteDropNegativeTargetIsNoOp(t *testing.T) {
	sheet := grid.NewSheet("drop")
	err := RouteDrop(sheet, accountMember(), DropTarget{Row: intp(-2), Col: intp(0)}, DropOptions{})
	assert.ErrorIs(t, err, ErrInvalidAnchor)
	assert.Empty(t, sheet.Bindings.Cells)
}
