package designer

import (
	"strings"
	"testing"

	"github.com/meridian-fc/meridian/internal/grid"
	"github.com/meridian-fc/meridian/internal/hierarchy"
)

func entityTree() *hierarchy.DimensionNode {
	return &hierarchy.DimensionNode{
		ID: "us", Code: "US", Name: "US", Kind: hierarchy.KindEntity,
		Children: []*hierarchy.DimensionNode{
			{ID: "use", Code: "US-East", Name: "US-East", Kind: hierarchy.KindEntity},
			{ID: "usw", Code: "US-West", Name: "US-West", Kind: hierarchy.KindEntity},
		},
	}
}

func TestApplyPlacementBothHorizontal(t *testing.T) {
	sheet := grid.NewSheet("design")
	items := BuildInsertList(entityTree(), ModeNodesElements)

	err := ApplyPlacement(sheet, items, grid.Coord{Row: 1, Col: 0}, PlacementOptions{
		DisplayMode: DisplayBothH,
		NodeColor:   "#336699",
		ChildColor:  "#333333",
	})
	if err != nil {
		t.Fatalf("ApplyPlacement: %v", err)
	}

	if got := sheet.Text(1, 0); got != "US" {
		t.Fatalf("row1 col0 = %q", got)
	}
	if got := sheet.Text(1, 1); got != "US" {
		t.Fatalf("row1 col1 = %q", got)
	}
	if got := sheet.Text(2, 0); got != "US-East" {
		t.Fatalf("row2 col0 = %q", got)
	}
	if got := sheet.Text(2, 1); got != "  US-East" {
		t.Fatalf("row2 col1 = %q, want two-space indent", got)
	}
	if got := sheet.Text(3, 1); got != "  US-West" {
		t.Fatalf("row3 col1 = %q", got)
	}

	b, ok := sheet.Bindings.Row(2)
	if !ok || b.Code != "US-East" {
		t.Fatalf("rowMapping[2] = %+v ok=%v", b, ok)
	}
	b, ok = sheet.Bindings.Row(3)
	if !ok || b.Code != "US-West" {
		t.Fatalf("rowMapping[3] = %+v ok=%v", b, ok)
	}
	if _, ok := sheet.Bindings.Row(1); ok {
		t.Fatalf("group row must not be bound without showSubtotal")
	}

	nodeStyle := sheet.Styles[grid.Coord{Row: 1, Col: 0}.Key()]
	if !strings.Contains(nodeStyle, "bold") || !strings.Contains(nodeStyle, "#336699") {
		t.Fatalf("node style = %q", nodeStyle)
	}
	if s := sheet.Styles[grid.Coord{Row: 1, Col: 1}.Key()]; s != nodeStyle {
		t.Fatalf("both_h must style both cells, got %q", s)
	}
	childStyle := sheet.Styles[grid.Coord{Row: 2, Col: 0}.Key()]
	if strings.Contains(childStyle, "bold") || !strings.Contains(childStyle, "#333333") {
		t.Fatalf("child style = %q", childStyle)
	}
}

func TestApplyPlacementBothVerticalLeavesNameCellUnstyled(t *testing.T) {
	sheet := grid.NewSheet("design")
	items := []PlacementItem{{Kind: ItemNode, Type: hierarchy.KindAccount, Code: "1000", Name: "Assets"}}

	if err := ApplyPlacement(sheet, items, grid.Coord{Row: 0, Col: 2}, PlacementOptions{
		DisplayMode: DisplayBothV,
		NodeColor:   "#000088",
	}); err != nil {
		t.Fatalf("ApplyPlacement: %v", err)
	}

	if got := sheet.Text(0, 2); got != "1000" {
		t.Fatalf("code cell = %q", got)
	}
	if got := sheet.Text(1, 2); got != "Assets" {
		t.Fatalf("name-below cell = %q", got)
	}
	if _, ok := sheet.Styles[grid.Coord{Row: 1, Col: 2}.Key()]; ok {
		t.Fatalf("name-below cell must stay unstyled")
	}
	if _, ok := sheet.Styles[grid.Coord{Row: 0, Col: 2}.Key()]; !ok {
		t.Fatalf("code cell must be styled")
	}
}

func TestApplyPlacementDisplayNoneStillBinds(t *testing.T) {
	sheet := grid.NewSheet("design")
	items := []PlacementItem{{Kind: ItemElement, Type: hierarchy.KindAccount, Code: "4000", Name: "Revenue"}}

	if err := ApplyPlacement(sheet, items, grid.Coord{Row: 5, Col: 0}, PlacementOptions{DisplayMode: DisplayNone}); err != nil {
		t.Fatalf("ApplyPlacement: %v", err)
	}
	if v := sheet.Value(5, 0); v != nil {
		t.Fatalf("display none wrote %v", v)
	}
	if b, ok := sheet.Bindings.Row(5); !ok || b.Code != "4000" {
		t.Fatalf("binding missing: %+v ok=%v", b, ok)
	}
	if len(sheet.Styles) != 0 {
		t.Fatalf("display none must not style cells: %v", sheet.Styles)
	}
}

func TestApplyPlacementSubtotalMarksGroupRows(t *testing.T) {
	sheet := grid.NewSheet("design")
	items := BuildInsertList(entityTree(), ModeNodesElements)

	if err := ApplyPlacement(sheet, items, grid.Coord{Row: 0, Col: 0}, PlacementOptions{
		DisplayMode:  DisplayCode,
		ShowSubtotal: true,
	}); err != nil {
		t.Fatalf("ApplyPlacement: %v", err)
	}
	b, ok := sheet.Bindings.Row(0)
	if !ok || !b.Subtotal {
		t.Fatalf("group row lacks subtotal marker: %+v ok=%v", b, ok)
	}
	if b, _ := sheet.Bindings.Row(1); b.Subtotal {
		t.Fatalf("leaf row wrongly marked subtotal")
	}
}

func TestApplyPlacementNoteAttachesAtAnchorOnly(t *testing.T) {
	sheet := grid.NewSheet("design")
	items := BuildInsertList(entityTree(), ModeFullTree)

	if err := ApplyPlacement(sheet, items, grid.Coord{Row: 2, Col: 1}, PlacementOptions{
		DisplayMode: DisplayName,
		Note:        "Q3 entity block",
	}); err != nil {
		t.Fatalf("ApplyPlacement: %v", err)
	}
	if got := sheet.Comments[grid.Coord{Row: 2, Col: 1}.Key()]; got != "Q3 entity block" {
		t.Fatalf("anchor comment = %q", got)
	}
	if len(sheet.Comments) != 1 {
		t.Fatalf("note must attach once, got %v", sheet.Comments)
	}
}

func TestApplyPlacementInvalidAnchorIsNoOp(t *testing.T) {
	sheet := grid.NewSheet("design")
	items := BuildInsertList(entityTree(), ModeFullTree)

	err := ApplyPlacement(sheet, items, grid.Coord{Row: -1, Col: 0}, PlacementOptions{DisplayMode: DisplayCode})
	if err != ErrInvalidAnchor {
		t.Fatalf("expected ErrInvalidAnchor, got %v", err)
	}
	for r := 0; r < sheet.RowCount(); r++ {
		for c := 0; c < len(sheet.Data[r]); c++ {
			if sheet.Value(r, c) != nil {
				t.Fatalf("sheet mutated at (%d,%d)", r, c)
			}
		}
	}
	if len(sheet.Bindings.Rows) != 0 {
		t.Fatalf("bindings recorded on invalid anchor")
	}
}

func TestApplyPlacementGrowsGrid(t *testing.T) {
	sheet := grid.NewSheet("design")
	rows := sheet.RowCount()
	items := make([]PlacementItem, 0, rows+5)
	for i := 0; i <= rows+4; i++ {
		items = append(items, PlacementItem{Kind: ItemElement, Type: hierarchy.KindAccount, Code: "c", Name: "n"})
	}
	if err := ApplyPlacement(sheet, items, grid.Coord{Row: 0, Col: 0}, PlacementOptions{DisplayMode: DisplayCode}); err != nil {
		t.Fatalf("ApplyPlacement: %v", err)
	}
	if sheet.RowCount() < rows+5 {
		t.Fatalf("grid not grown: %d rows", sheet.RowCount())
	}
}
