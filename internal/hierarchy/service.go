package hierarchy

import (
	"context"
	"errors"
	"fmt"
)

// ErrMemberNotFound indicates the requested subtree root does not exist.
var ErrMemberNotFound = errors.New("hierarchy: member not found")

// Directory is the persistence behaviour the service depends on.
type Directory interface {
	MembersByKind(ctx context.Context, kind DimensionKind) ([]MemberRow, error)
}

// Service assembles dimension trees from flat directory rows.
type Service struct {
	repo Directory
}

// NewService constructs a hierarchy service.
func NewService(repo Directory) *Service {
	return &Service{repo: repo}
}

// Tree returns the full forest for a dimension family under a synthetic
// root. Roots without a parent become children of the synthetic root in
// directory order.
func (s *Service) Tree(ctx context.Context, kind DimensionKind) (*DimensionNode, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("hierarchy service not initialised")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("hierarchy: unknown dimension kind %q", kind)
	}
	members, err := s.repo.MembersByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	return assemble(kind, members), nil
}

// Subtree returns the subtree rooted at the member with the given id.
func (s *Service) Subtree(ctx context.Context, kind DimensionKind, id string) (*DimensionNode, error) {
	root, err := s.Tree(ctx, kind)
	if err != nil {
		return nil, err
	}
	node := root.Find(id)
	if node == nil {
		return nil, ErrMemberNotFound
	}
	return node, nil
}

func assemble(kind DimensionKind, members []MemberRow) *DimensionNode {
	root := &DimensionNode{ID: "root", Code: "", Name: rootName(kind), Kind: kind}
	byID := make(map[string]*DimensionNode, len(members))
	for _, m := range members {
		byID[m.ID] = &DimensionNode{ID: m.ID, Code: m.Code, Name: m.Name, Kind: kind}
	}
	// Rows arrive ordered, so children keep directory order.
	for _, m := range members {
		node := byID[m.ID]
		if m.ParentID != nil {
			if parent, ok := byID[*m.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		root.Children = append(root.Children, node)
	}
	return root
}

func rootName(kind DimensionKind) string {
	if kind == KindEntity {
		return "All Entities"
	}
	return "Chart of Accounts"
}
