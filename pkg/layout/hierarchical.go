package layout

import (
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Hierarchical derives every position from the tree shape and node sizes.
// Stored positions are ignored and never written.
type Hierarchical struct {
	opts  Options
	sizer Sizer
}

// NewHierarchical creates a hierarchical engine. opts should already carry
// defaults; use [New] otherwise.
func NewHierarchical(opts Options, sizer Sizer) *Hierarchical {
	return &Hierarchical{opts: opts, sizer: sizer}
}

// Mode returns [ModeHierarchical].
func (h *Hierarchical) Mode() Mode { return ModeHierarchical }

// Place does nothing; positions are recomputed by Arrange.
func (h *Hierarchical) Place(*mindmap.Map, *mindmap.Node) {}

// Levels returns the breadth-first depth of every node reachable from a
// root.
func Levels(m *mindmap.Map) map[string]int {
	levels := make(map[string]int, m.Len())
	var queue []string
	for _, r := range m.Roots() {
		levels[r.ID] = 0
		queue = append(queue, r.ID)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range m.Children(id) {
			if _, seen := levels[c]; seen {
				continue
			}
			levels[c] = levels[id] + 1
			queue = append(queue, c)
		}
	}
	return levels
}

// Arrange recomputes the position of every node reachable from a root.
func (h *Hierarchical) Arrange(m *mindmap.Map) Positions {
	out := make(Positions, m.Len())
	roots := m.Roots()
	if len(roots) == 0 {
		return out
	}

	sizes := make(map[string]Size, m.Len())
	size := func(id string) Size {
		if s, ok := sizes[id]; ok {
			return s
		}
		n, _ := m.Node(id)
		s := h.sizer.Size(n)
		sizes[id] = s
		return s
	}

	levels := Levels(m)
	y := func(id string) float64 {
		return h.opts.BaseOffset + float64(levels[id])*h.opts.LevelSpacing
	}

	slot := h.opts.Container.Width / float64(len(roots))
	queue := make([]string, 0, m.Len())
	for i, r := range roots {
		center := slot*float64(i) + slot/2
		out[r.ID] = mindmap.Position{X: center - size(r.ID).W/2, Y: y(r.ID)}
		queue = append(queue, r.ID)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		children := m.Children(id)
		if len(children) == 0 {
			continue
		}
		var total float64
		for _, c := range children {
			total += size(c).W + h.opts.SiblingGap
		}
		center := size(id).Center(out[id]).X
		offset := center - total/2
		for _, c := range children {
			w := size(c).W
			if _, placed := out[c]; !placed {
				out[c] = mindmap.Position{X: offset, Y: y(c)}
				queue = append(queue, c)
			}
			offset += w + h.opts.SiblingGap
		}
	}
	return out
}

var _ Engine = (*Hierarchical)(nil)
