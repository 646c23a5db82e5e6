package chart

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core/id"
)

// DefaultMaxDepth bounds the nesting of rendered trees.
const DefaultMaxDepth = 10

// Node is the abbreviated nested view. Field order is part of the wire contract.
type Node struct {
	ID          id.ID  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	Children    []Node `json:"children"`
}

// Detail is the top-level view of a rendered tree. Field order is part of the wire contract.
type Detail struct {
	ID          id.ID     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	ParentLink  *id.ID    `json:"parentLink"`
	Company     id.ID     `json:"company"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Children    []Node    `json:"children"`
}

// Render expands every root into a Detail whose subtree is at most maxDepth
// levels deep. A node at depth maxDepth (roots are depth 0) always carries an
// empty children list, even if it has children in the store; this also stops
// runaway recursion on a corrupted, cyclic parent graph.
func Render(ctx context.Context, src ChildSource, roots []*Account, maxDepth int) ([]Detail, error) {
	if maxDepth < 0 {
		maxDepth = 0
	}

	out := make([]Detail, 0, len(roots))
	for _, root := range roots {
		children, err := expand(ctx, src, root.ID, 0, maxDepth)
		if err != nil {
			return nil, err
		}
		d := FlatDetail(root)
		d.Children = children
		out = append(out, d)
	}
	return out, nil
}

// FlatDetail is the detail record of a single account with no children expanded.
func FlatDetail(a *Account) Detail {
	return Detail{
		ID:          a.ID,
		Name:        a.Name,
		Code:        a.Code,
		Kind:        a.Kind,
		Description: a.Description,
		ParentLink:  a.ParentID,
		Company:     a.CompanyID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Children:    []Node{},
	}
}

// companyChildren narrows a ChildSource to the accounts of one company.
type companyChildren struct {
	src       ChildSource
	companyID id.ID
}

func (c companyChildren) ListChildren(ctx context.Context, parentID id.ID) ([]*Account, error) {
	all, err := c.src.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, a := range all {
		if a.CompanyID == c.companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

// expand returns the children of the node at the given depth.
func expand(ctx context.Context, src ChildSource, parentID id.ID, depth, maxDepth int) ([]Node, error) {
	if depth >= maxDepth {
		return []Node{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts, err := src.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", parentID, err)
	}

	nodes := make([]Node, 0, len(accounts))
	for _, a := range accounts {
		children, err := expand(ctx, src, a.ID, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{
			ID:          a.ID,
			Name:        a.Name,
			Code:        a.Code,
			Kind:        a.Kind,
			Description: a.Description,
			Children:    children,
		})
	}
	return nodes, nil
}
