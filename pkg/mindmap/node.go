package mindmap

import "slices"

// Position is a top-left coordinate in container-local units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Node is a single mind-map item.
//
// The zero value is not usable - nodes are created by [Map.Create] or
// rebuilt by [Restore].
type Node struct {
	ID       string    // Unique within its map, never reused
	Text     string    // Display text, never blank
	ParentID string    // Empty for a root
	Children []string  // Child ids in insertion order
	Position *Position // Stored top-left; nil when not positioned
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.ParentID == "" }

// HasPosition reports whether the node carries a stored position.
func (n *Node) HasPosition() bool { return n.Position != nil }

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	return &c
}
