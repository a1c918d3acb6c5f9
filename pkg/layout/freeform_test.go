package layout

import (
	"testing"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

func freeform(seed uint64) *Freeform {
	opts := Options{Container: Container{Width: 800, Height: 600}, Seed: seed}
	opts.SetDefaults()
	return NewFreeform(opts, boxes)
}

func TestFreeformRootWithinBounds(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		f := freeform(seed)
		m := mindmap.New("bounds")
		root := create(t, m, "root", "")
		f.Place(m, root)

		p := root.Position
		if p == nil {
			t.Fatalf("seed %d: root has no position", seed)
		}
		if p.X < 0 || p.X > 700 || p.Y < 0 || p.Y > 560 {
			t.Fatalf("seed %d: root at %+v outside [0,700]x[0,560]", seed, *p)
		}
	}
}

func TestFreeformSeedDeterministic(t *testing.T) {
	place := func() mindmap.Position {
		m := mindmap.New("seed")
		root := create(t, m, "root", "")
		freeform(42).Place(m, root)
		return *root.Position
	}
	if a, b := place(), place(); a != b {
		t.Errorf("same seed placed roots at %+v and %+v", a, b)
	}
}

func TestFreeformRootLargerThanContainer(t *testing.T) {
	opts := Options{Container: Container{Width: 50, Height: 20}, Seed: 7}
	opts.SetDefaults()
	f := NewFreeform(opts, boxes)

	m := mindmap.New("small")
	root := create(t, m, "root", "")
	f.Place(m, root)

	if *root.Position != (mindmap.Position{}) {
		t.Errorf("oversized root at %+v, want origin", *root.Position)
	}
}

func TestFreeformChildBelowParent(t *testing.T) {
	f := freeform(1)
	m := mindmap.New("child")
	root := create(t, m, "root", "")
	_ = m.SetPosition(root.ID, mindmap.Position{X: 10, Y: 20})

	child := create(t, m, "child", root.ID)
	f.Place(m, child)

	want := mindmap.Position{X: 10, Y: 20 + 40 + 50}
	if *child.Position != want {
		t.Errorf("child at %+v, want %+v", *child.Position, want)
	}
}

func TestFreeformPlaceKeepsExisting(t *testing.T) {
	f := freeform(1)
	m := mindmap.New("keep")
	root := create(t, m, "root", "")
	_ = m.SetPosition(root.ID, mindmap.Position{X: 3, Y: 4})

	f.Place(m, root)
	if *root.Position != (mindmap.Position{X: 3, Y: 4}) {
		t.Errorf("Place moved a positioned node to %+v", *root.Position)
	}
}

func TestFreeformArrangePassThrough(t *testing.T) {
	f := freeform(1)
	m := mindmap.New("pass")
	root := create(t, m, "root", "")
	child := create(t, m, "child", root.ID)
	_ = m.SetPosition(root.ID, mindmap.Position{X: 100, Y: 100})
	_ = m.SetPosition(child.ID, mindmap.Position{X: 400, Y: 30})

	got := f.Arrange(m)

	if got[root.ID] != (mindmap.Position{X: 100, Y: 100}) || got[child.ID] != (mindmap.Position{X: 400, Y: 30}) {
		t.Errorf("Arrange = %v, want stored positions", got)
	}
}

func TestFreeformArrangePlacesMissing(t *testing.T) {
	f := freeform(1)
	m := mindmap.New("legacy")
	root := create(t, m, "root", "")
	child := create(t, m, "child", root.ID)
	_ = m.SetPosition(root.ID, mindmap.Position{X: 5, Y: 5})

	got := f.Arrange(m)

	want := mindmap.Position{X: 5, Y: 5 + 40 + 50}
	if got[child.ID] != want {
		t.Errorf("child at %+v, want %+v", got[child.ID], want)
	}
	if child.Position == nil || *child.Position != want {
		t.Error("Arrange should store the placed position on the node")
	}

	again := f.Arrange(m)
	if again[child.ID] != want {
		t.Error("placed position should be kept on later passes")
	}
}
