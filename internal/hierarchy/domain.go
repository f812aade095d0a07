// Package hierarchy models the organizational dimension trees (chart of
// accounts, entity structure) supplied by the directory tables.
package hierarchy

// DimensionKind distinguishes the two dimension families.
type DimensionKind string

const (
	KindAccount DimensionKind = "account"
	KindEntity  DimensionKind = "entity"
)

// Valid reports whether the kind is one of the known dimension families.
func (k DimensionKind) Valid() bool {
	return k == KindAccount || k == KindEntity
}

// DimensionNode is a member of a dimension hierarchy. A node with children
// is a group node; a node without children is a leaf element. The
// classification is structural, there is no explicit flag.
type DimensionNode struct {
	ID       string           `json:"id"`
	Code     string           `json:"code"`
	Name     string           `json:"name"`
	Kind     DimensionKind    `json:"kind"`
	Children []*DimensionNode `json:"children,omitempty"`
}

// IsGroup reports whether the node has descendants.
func (n *DimensionNode) IsGroup() bool {
	return n != nil && len(n.Children) > 0
}

// Walk visits the node and all descendants in pre-order. The visitor
// receives each node with its depth relative to the receiver.
func (n *DimensionNode) Walk(visit func(node *DimensionNode, depth int)) {
	if n == nil || visit == nil {
		return
	}
	var walk func(node *DimensionNode, depth int)
	walk = func(node *DimensionNode, depth int) {
		visit(node, depth)
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	walk(n, 0)
}

// Count returns the total number of nodes in the subtree, the receiver
// included.
func (n *DimensionNode) Count() int {
	total := 0
	n.Walk(func(*DimensionNode, int) { total++ })
	return total
}

// Find returns the first node in the subtree with the given id, or nil.
func (n *DimensionNode) Find(id string) *DimensionNode {
	var found *DimensionNode
	n.Walk(func(node *DimensionNode, _ int) {
		if found == nil && node.ID == id {
			found = node
		}
	})
	return found
}
