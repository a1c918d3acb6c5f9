package drag

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

var (
	boxes     = layout.SizerFunc(func(*mindmap.Node) layout.Size { return layout.Size{W: 100, H: 40} })
	container = layout.Container{Width: 800, Height: 600}
)

type recorder struct {
	moved     []mindmap.Position
	committed []mindmap.Position
}

func (r *recorder) DragMoved(_ string, p mindmap.Position)     { r.moved = append(r.moved, p) }
func (r *recorder) DragCommitted(_ string, p mindmap.Position) { r.committed = append(r.committed, p) }

func setup(t *testing.T) (*mindmap.Map, *mindmap.Node, *Controller, *recorder) {
	t.Helper()
	m := mindmap.New("drag")
	n, err := m.Create("node", "")
	if err != nil {
		t.Fatal(err)
	}
	_ = m.SetPosition(n.ID, mindmap.Position{X: 100, Y: 100})
	rec := &recorder{}
	return m, n, New(boxes, container, rec), rec
}

func TestDragKeepsGrabOffset(t *testing.T) {
	m, n, c, rec := setup(t)

	if !c.Press(m, n.ID, TargetBody, ButtonPrimary, Point{X: 120, Y: 110}) {
		t.Fatal("Press should start a drag")
	}
	if c.State() != Dragging || c.Active() != n.ID {
		t.Fatalf("state = %s active = %q", c.State(), c.Active())
	}

	pos, ok := c.Move(Point{X: 220, Y: 310})
	if !ok || pos != (mindmap.Position{X: 200, Y: 300}) {
		t.Errorf("Move() = %+v, %v, want {200 300}", pos, ok)
	}
	if *n.Position != pos {
		t.Error("Move should write the position to the node")
	}

	got, ok := c.Release()
	if !ok || got != pos {
		t.Errorf("Release() = %+v, %v", got, ok)
	}
	if len(rec.moved) != 1 || len(rec.committed) != 1 || rec.committed[0] != pos {
		t.Errorf("listener moved=%v committed=%v", rec.moved, rec.committed)
	}
	if c.State() != Idle || c.Active() != "" {
		t.Error("Release should return to Idle")
	}
}

func TestDragCommitsOnce(t *testing.T) {
	m, n, c, rec := setup(t)

	c.Press(m, n.ID, TargetBody, ButtonPrimary, Point{X: 100, Y: 100})
	for i := range 10 {
		c.Move(Point{X: float64(100 + i*5), Y: 100})
	}
	c.Release()
	c.Release()

	if len(rec.moved) != 10 {
		t.Errorf("moved %d times, want 10", len(rec.moved))
	}
	if len(rec.committed) != 1 {
		t.Errorf("committed %d times, want 1", len(rec.committed))
	}
}

func TestPressIgnored(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		target Target
		button Button
	}{
		{"control", "", TargetControl, ButtonPrimary},
		{"secondary button", "", TargetBody, ButtonOther},
		{"unknown node", "node-99", TargetBody, ButtonPrimary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, n, c, rec := setup(t)
			id := tt.id
			if id == "" {
				id = n.ID
			}
			if c.Press(m, id, tt.target, tt.button, Point{X: 100, Y: 100}) {
				t.Error("Press should be ignored")
			}
			if _, ok := c.Move(Point{X: 300, Y: 300}); ok {
				t.Error("Move without a drag should be ignored")
			}
			if *n.Position != (mindmap.Position{X: 100, Y: 100}) {
				t.Error("node moved without a drag")
			}
			if len(rec.moved)+len(rec.committed) != 0 {
				t.Error("listener called without a drag")
			}
		})
	}
}

func TestPressWithoutPosition(t *testing.T) {
	m := mindmap.New("drag")
	n, _ := m.Create("node", "")
	c := New(boxes, container, nil)
	if c.Press(m, n.ID, TargetBody, ButtonPrimary, Point{}) {
		t.Error("Press on a node without a position should be ignored")
	}
}

func TestPressWhileDragging(t *testing.T) {
	m, n, c, _ := setup(t)
	other, _ := m.Create("other", "")
	_ = m.SetPosition(other.ID, mindmap.Position{X: 500, Y: 500})

	c.Press(m, n.ID, TargetBody, ButtonPrimary, Point{X: 100, Y: 100})
	if c.Press(m, other.ID, TargetBody, ButtonPrimary, Point{X: 500, Y: 500}) {
		t.Error("second Press while dragging should be ignored")
	}
	if c.Active() != n.ID {
		t.Errorf("Active() = %q, want %q", c.Active(), n.ID)
	}
}

func TestCancelRestores(t *testing.T) {
	m, n, c, rec := setup(t)

	c.Press(m, n.ID, TargetBody, ButtonPrimary, Point{X: 100, Y: 100})
	c.Move(Point{X: 400, Y: 400})
	if !c.Cancel() {
		t.Fatal("Cancel should end the drag")
	}

	if *n.Position != (mindmap.Position{X: 100, Y: 100}) {
		t.Errorf("position after Cancel = %+v, want original", *n.Position)
	}
	if len(rec.committed) != 0 {
		t.Error("Cancel must not commit")
	}
	if c.State() != Idle {
		t.Error("Cancel should return to Idle")
	}
	if c.Cancel() {
		t.Error("Cancel while idle should report false")
	}
}

func TestReleaseAfterNodeDeleted(t *testing.T) {
	m, n, c, rec := setup(t)
	c.Press(m, n.ID, TargetBody, ButtonPrimary, Point{X: 100, Y: 100})
	m.DeleteSubtree(n.ID)

	if _, ok := c.Release(); ok {
		t.Error("Release of a deleted node should not commit")
	}
	if len(rec.committed) != 0 || c.State() != Idle {
		t.Error("controller should be idle with no commit")
	}
}

func TestClamp(t *testing.T) {
	size := layout.Size{W: 100, H: 40}
	tests := []struct {
		name string
		in   mindmap.Position
		c    layout.Container
		want mindmap.Position
	}{
		{"inside", mindmap.Position{X: 10, Y: 10}, container, mindmap.Position{X: 10, Y: 10}},
		{"negative", mindmap.Position{X: -50, Y: -1}, container, mindmap.Position{}},
		{"beyond", mindmap.Position{X: 900, Y: 700}, container, mindmap.Position{X: 700, Y: 560}},
		{"oversized box", mindmap.Position{X: 30, Y: 30}, layout.Container{Width: 50, Height: 20}, mindmap.Position{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in, size, tt.c); got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

// TestDragStaysInBounds moves the pointer along random paths, far outside
// the container included, and checks every position that reaches the node.
func TestDragStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for run := 0; run < 100; run++ {
		m, n, c, rec := setup(t)
		c.Press(m, n.ID, TargetBody, ButtonPrimary, Point{X: 100 + rng.Float64()*100, Y: 100 + rng.Float64()*40})
		for step := 0; step < 30; step++ {
			c.Move(Point{X: rng.Float64()*2000 - 600, Y: rng.Float64()*2000 - 700})
		}
		c.Release()

		for _, p := range append(rec.moved, rec.committed...) {
			if p.X < 0 || p.X > 700 || p.Y < 0 || p.Y > 560 {
				t.Fatalf("run %d: position %+v out of bounds", run, p)
			}
		}
	}
}
