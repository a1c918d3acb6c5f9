// Package edges derives the connector segments drawn between parents and
// children.
//
// Connectors are never stored. [Build] recomputes the whole set from the
// current positions after every move or structural change; the cost is
// linear in the number of nodes.
package edges

import (
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Connector is a straight segment from the centre of a parent box to the
// centre of a child box, in container coordinates.
type Connector struct {
	ParentID string           `json:"parent_id"`
	ChildID  string           `json:"child_id"`
	From     mindmap.Position `json:"from"`
	To       mindmap.Position `json:"to"`
}

// Center returns the centre of a box of size s with top-left corner pos.
func Center(pos mindmap.Position, s layout.Size) mindmap.Position {
	return s.Center(pos)
}

// Build returns one connector per non-root node, in node insertion order.
// A node whose parent does not resolve, or where either end has no
// position, gets no connector.
func Build(m *mindmap.Map, positions layout.Positions, sizer layout.Sizer) []Connector {
	var out []Connector
	for _, n := range m.Nodes() {
		if n.IsRoot() {
			continue
		}
		parent, ok := m.Node(n.ParentID)
		if !ok {
			continue
		}
		from, ok := positions[parent.ID]
		if !ok {
			continue
		}
		to, ok := positions[n.ID]
		if !ok {
			continue
		}
		out = append(out, Connector{
			ParentID: parent.ID,
			ChildID:  n.ID,
			From:     Center(from, sizer.Size(parent)),
			To:       Center(to, sizer.Size(n)),
		})
	}
	return out
}
