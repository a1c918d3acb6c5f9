package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Freeform keeps positions as node state. Arrange never moves a node that
// already has a position.
type Freeform struct {
	opts  Options
	sizer Sizer
	rng   *rand.Rand
}

// NewFreeform creates a freeform engine. opts should already carry
// defaults; use [New] otherwise.
func NewFreeform(opts Options, sizer Sizer) *Freeform {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Freeform{
		opts:  opts,
		sizer: sizer,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Mode returns [ModeFreeform].
func (f *Freeform) Mode() Mode { return ModeFreeform }

// Place stores the creation position on n: a random point for a root, the
// spot below the parent for a child. A node that already has a position is
// left alone.
func (f *Freeform) Place(m *mindmap.Map, n *mindmap.Node) {
	if n == nil || n.HasPosition() {
		return
	}
	parent, ok := m.Node(n.ParentID)
	if !ok {
		_ = m.SetPosition(n.ID, f.root(n))
		return
	}
	f.Place(m, parent)
	_ = m.SetPosition(n.ID, mindmap.Position{
		X: parent.Position.X,
		Y: parent.Position.Y + f.sizer.Size(parent).H + f.opts.ChildGap,
	})
}

// Arrange returns the stored positions. Nodes without one (legacy records
// with no coordinates) are placed first, parents before children, and keep
// that position from then on.
func (f *Freeform) Arrange(m *mindmap.Map) Positions {
	out := make(Positions, m.Len())
	for _, root := range m.Roots() {
		f.Place(m, root)
		out[root.ID] = *root.Position
		for _, id := range m.Descendants(root.ID) {
			n, _ := m.Node(id)
			f.Place(m, n)
			out[id] = *n.Position
		}
	}
	return out
}

func (f *Freeform) root(n *mindmap.Node) mindmap.Position {
	size := f.sizer.Size(n)
	maxX := max(0, f.opts.Container.Width-size.W)
	maxY := max(0, f.opts.Container.Height-size.H)
	return mindmap.Position{
		X: math.Floor(f.rng.Float64() * maxX),
		Y: math.Floor(f.rng.Float64() * maxY),
	}
}

var _ Engine = (*Freeform)(nil)
