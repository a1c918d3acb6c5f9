package session

import (
	"github.com/matzehuels/mindmap/pkg/edges"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// NodeView is one rendered node box.
type NodeView struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	ParentID string            `json:"parent_id,omitempty"`
	Children []string          `json:"children"`
	Position *mindmap.Position `json:"position,omitempty"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
}

// View is a snapshot of everything a frontend draws.
type View struct {
	Map        string            `json:"map"`
	Mode       layout.Mode       `json:"mode"`
	Container  layout.Container  `json:"container"`
	Nodes      []NodeView        `json:"nodes"`
	Connectors []edges.Connector `json:"connectors"`
	Dragging   string            `json:"dragging,omitempty"`
}

// View returns a snapshot of the active map in insertion order. Positions
// are display positions, so in hierarchical mode they are the computed
// ones rather than the stored ones.
func (s *Session) View() View {
	v := View{
		Map:        s.m.Name(),
		Mode:       s.Mode(),
		Container:  s.opts.Layout.Container,
		Nodes:      make([]NodeView, 0, s.m.Len()),
		Connectors: append([]edges.Connector(nil), s.connectors...),
		Dragging:   s.drag.Active(),
	}
	if v.Connectors == nil {
		v.Connectors = []edges.Connector{}
	}
	for _, n := range s.m.Nodes() {
		size := s.sizer.Size(n)
		nv := NodeView{
			ID:       n.ID,
			Text:     n.Text,
			ParentID: n.ParentID,
			Children: append([]string{}, n.Children...),
			Width:    size.W,
			Height:   size.H,
		}
		if p, ok := s.positions[n.ID]; ok {
			nv.Position = &p
		}
		v.Nodes = append(v.Nodes, nv)
	}
	return v
}
