package mindmap

import (
	stderrors "errors"
	"fmt"
	"slices"
)

var (
	// ErrDanglingParent is returned by [Map.Validate] when a ParentID does
	// not resolve to a node of the same map.
	ErrDanglingParent = stderrors.New("parent does not exist")

	// ErrCycle is returned by [Map.Validate] when following ParentID links
	// revisits a node.
	ErrCycle = stderrors.New("parent chain contains a cycle")

	// ErrBackReference is returned by [Map.Validate] when a parent's
	// Children and its children's ParentID disagree.
	ErrBackReference = stderrors.New("children and parent links disagree")

	// ErrDuplicateChild is returned by [Map.Validate] when a child id is
	// listed twice.
	ErrDuplicateChild = stderrors.New("child listed twice")

	// ErrTooManyRoots is returned by [Map.Validate] when a single-root map
	// has zero or several roots.
	ErrTooManyRoots = stderrors.New("single-root map must have exactly one root")
)

// Validate checks every structural invariant of the map and returns the
// first violation found, wrapped with the offending id.
//
// Structure produced by Create and DeleteSubtree always validates; this is
// used by tests and after restoring data from storage.
func (m *Map) Validate() error {
	if len(m.order) != len(m.nodes) {
		return fmt.Errorf("order index has %d ids for %d nodes", len(m.order), len(m.nodes))
	}

	for _, id := range m.order {
		n, ok := m.nodes[id]
		if !ok || n.ID != id {
			return fmt.Errorf("node %q: index mismatch", id)
		}
		if n.ParentID != "" {
			p, ok := m.nodes[n.ParentID]
			if !ok {
				return fmt.Errorf("node %q: %w", id, ErrDanglingParent)
			}
			if !slices.Contains(p.Children, id) {
				return fmt.Errorf("node %q: %w", id, ErrBackReference)
			}
		}
		seen := make(map[string]bool, len(n.Children))
		for _, c := range n.Children {
			if seen[c] {
				return fmt.Errorf("node %q: %w", id, ErrDuplicateChild)
			}
			seen[c] = true
			child, ok := m.nodes[c]
			if !ok || child.ParentID != id {
				return fmt.Errorf("node %q child %q: %w", id, c, ErrBackReference)
			}
		}
	}

	for _, id := range m.order {
		if cyclic(m.nodes, id) {
			return fmt.Errorf("node %q: %w", id, ErrCycle)
		}
	}

	if m.singleRoot && len(m.nodes) > 0 && len(m.Roots()) != 1 {
		return ErrTooManyRoots
	}
	return nil
}

// cyclic reports whether the parent chain starting at id revisits a node.
func cyclic(nodes map[string]*Node, id string) bool {
	visited := make(map[string]bool)
	for cur := id; cur != ""; {
		if visited[cur] {
			return true
		}
		visited[cur] = true
		n, ok := nodes[cur]
		if !ok {
			return false
		}
		cur = n.ParentID
	}
	return false
}
