package designer

import (
	"testing"

	"github.com/meridian-fc/meridian/internal/hierarchy"
)

func leaf(code, name string) *hierarchy.DimensionNode {
	return &hierarchy.DimensionNode{ID: code, Code: code, Name: name, Kind: hierarchy.KindAccount}
}

func group(code, name string, children ...*hierarchy.DimensionNode) *hierarchy.DimensionNode {
	return &hierarchy.DimensionNode{ID: code, Code: code, Name: name, Kind: hierarchy.KindAccount, Children: children}
}

func sampleTree() *hierarchy.DimensionNode {
	return group("1", "Assets",
		group("11", "Current Assets",
			leaf("1101", "Cash"),
			leaf("1102", "Receivables"),
		),
		leaf("12", "Fixed Assets Placeholder"),
	)
}

func TestFullTreeEmitsEveryNodeExactlyOnce(t *testing.T) {
	root := sampleTree()
	items := BuildInsertList(root, ModeFullTree)

	if got, want := len(items), root.Count(); got != want {
		t.Fatalf("full_tree produced %d items, want %d", got, want)
	}
	seen := map[string]int{}
	for _, item := range items {
		seen[item.Code]++
	}
	for code, n := range seen {
		if n != 1 {
			t.Fatalf("code %s emitted %d times", code, n)
		}
	}
}

func TestNodesModeEmitsOnlyGroups(t *testing.T) {
	items := BuildInsertList(sampleTree(), ModeNodes)
	if len(items) != 2 {
		t.Fatalf("expected 2 group nodes, got %d", len(items))
	}
	for _, item := range items {
		if item.Kind == ItemElement {
			t.Fatalf("nodes mode leaked element %q", item.Code)
		}
	}
}

func TestElementsModeEmitsOnlyLeaves(t *testing.T) {
	items := BuildInsertList(sampleTree(), ModeElements)
	if len(items) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(items))
	}
	for _, item := range items {
		if item.Kind == ItemNode {
			t.Fatalf("elements mode leaked group %q", item.Code)
		}
	}
}

func TestTraversalOrderIsPreOrder(t *testing.T) {
	items := BuildInsertList(sampleTree(), ModeFullTree)
	order := make([]string, 0, len(items))
	for _, item := range items {
		order = append(order, item.Code)
	}
	want := []string{"1", "11", "1101", "1102", "12"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order %v, want %v", order, want)
		}
	}
	if items[0].Depth != 0 || items[2].Depth != 2 {
		t.Fatalf("depths not preserved: %+v", items)
	}
}

func TestChildlessRootIsSingleElementRegardlessOfMode(t *testing.T) {
	for _, mode := range []InsertMode{ModeNodes, ModeElements, ModeNodesElements, ModeFullTree} {
		items := BuildInsertList(leaf("9999", "Suspense"), mode)
		if len(items) != 1 {
			t.Fatalf("mode %s: got %d items, want 1", mode, len(items))
		}
		if items[0].Kind != ItemElement || items[0].Depth != 0 {
			t.Fatalf("mode %s: unexpected item %+v", mode, items[0])
		}
	}
}

func TestNilRootYieldsEmptyList(t *testing.T) {
	if items := BuildInsertList(nil, ModeFullTree); len(items) != 0 {
		t.Fatalf("nil root produced %d items", len(items))
	}
}

func TestNodesElementsFlatGroup(t *testing.T) {
	us := &hierarchy.DimensionNode{
		ID: "us", Code: "US", Name: "US", Kind: hierarchy.KindEntity,
		Children: []*hierarchy.DimensionNode{
			{ID: "use", Code: "US-East", Name: "US-East", Kind: hierarchy.KindEntity},
			{ID: "usw", Code: "US-West", Name: "US-West", Kind: hierarchy.KindEntity},
		},
	}
	items := BuildInsertList(us, ModeNodesElements)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Kind != ItemNode || items[0].Code != "US" {
		t.Fatalf("first item %+v", items[0])
	}
	if items[1].Code != "US-East" || items[1].Depth != 1 {
		t.Fatalf("second item %+v", items[1])
	}
}

// Nested groups are emitted by the eager pass and again by their own walk.
// The repeated rows are long-standing observed behaviour that existing
// report layouts rely on, so this test pins it.
func TestNodesElementsRepeatsNestedGroups(t *testing.T) {
	root := sampleTree()
	items := BuildInsertList(root, ModeNodesElements)

	counts := map[string]int{}
	for _, item := range items {
		counts[item.Code]++
	}
	if counts["11"] != 2 {
		t.Fatalf("nested group emitted %d times, want 2 (items: %+v)", counts["11"], codes(items))
	}
	if counts["1101"] != 1 || counts["1102"] != 1 {
		t.Fatalf("deep leaves emitted unexpectedly: %v", counts)
	}
	if counts["1"] != 1 {
		t.Fatalf("root emitted %d times", counts["1"])
	}
}

func codes(items []PlacementItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Code)
	}
	return out
}
