package designer

import "github.com/meridian-fc/meridian/internal/hierarchy"

// BuildInsertList flattens the subtree rooted at root into an ordered
// placement list according to the insert mode. Traversal is pre-order
// depth-first; output order becomes row insertion order downstream. Depth
// is carried per item for indentation only.
//
// A childless root is a single leaf element regardless of mode. A nil root
// yields an empty list.
func BuildInsertList(root *hierarchy.DimensionNode, mode InsertMode) []PlacementItem {
	if root == nil {
		return nil
	}
	if !root.IsGroup() {
		return []PlacementItem{itemFor(root, 0)}
	}

	var items []PlacementItem
	var walk func(node *hierarchy.DimensionNode, depth int)
	walk = func(node *hierarchy.DimensionNode, depth int) {
		if !node.IsGroup() {
			if mode != ModeNodes {
				items = append(items, itemFor(node, depth))
			}
			return
		}
		if mode != ModeElements {
			items = append(items, itemFor(node, depth))
		}
		switch mode {
		case ModeNodesElements:
			// Eagerly include the node's immediate contents, then still
			// explore nested groups in full. A nested group therefore
			// appears once from the eager pass and again from its own
			// walk; layouts built against this behaviour depend on the
			// repeated rows, so it is kept as-is.
			for _, child := range node.Children {
				items = append(items, itemFor(child, depth+1))
			}
			for _, child := range node.Children {
				if child.IsGroup() {
					walk(child, depth+1)
				}
			}
		default:
			for _, child := range node.Children {
				walk(child, depth+1)
			}
		}
	}
	walk(root, 0)
	return items
}

func itemFor(node *hierarchy.DimensionNode, depth int) PlacementItem {
	kind := ItemElement
	if node.IsGroup() {
		kind = ItemNode
	}
	return PlacementItem{
		Kind:   kind,
		Type:   node.Kind,
		Name:   node.Name,
		Code:   node.Code,
		Depth:  depth,
		Source: node,
	}
}
