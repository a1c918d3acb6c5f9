package mindmap

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/mindmap/pkg/errors"
)

func mustCreate(t *testing.T, m *Map, text, parent string) *Node {
	t.Helper()
	n, err := m.Create(text, parent)
	if err != nil {
		t.Fatalf("Create(%q, %q) error: %v", text, parent, err)
	}
	return n
}

func TestCreate(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "Idea", "")
	a := mustCreate(t, m, "A", root.ID)
	b := mustCreate(t, m, "B", root.ID)

	if !root.IsRoot() {
		t.Error("root should have no parent")
	}
	if a.ParentID != root.ID || b.ParentID != root.ID {
		t.Errorf("children parent = %q, %q, want %q", a.ParentID, b.ParentID, root.ID)
	}
	if got := m.Children(root.ID); !slices.Equal(got, []string{a.ID, b.ID}) {
		t.Errorf("Children(root) = %v, want [%s %s]", got, a.ID, b.ID)
	}
	if len(a.Children) != 0 {
		t.Errorf("new node should have no children, got %v", a.Children)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestCreateIDs(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "Idea", "")
	child := mustCreate(t, m, "Sub", root.ID)

	if root.ID != "node-0" || child.ID != "node-1" {
		t.Errorf("ids = %q, %q, want node-0, node-1", root.ID, child.ID)
	}
}

func TestCreateUnknownParent(t *testing.T) {
	m := New("ideas")
	mustCreate(t, m, "Idea", "")

	n, err := m.Create("orphan", "node-99")
	if err == nil {
		t.Fatal("Create with unknown parent should fail")
	}
	if n != nil {
		t.Error("Create with unknown parent should return nil node")
	}
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeNodeNotFound)
	}
	if m.Len() != 1 {
		t.Errorf("map should be unchanged, Len() = %d", m.Len())
	}
}

func TestCreateBlankText(t *testing.T) {
	m := New("ideas", WithPlaceholder("Untitled"))
	n := mustCreate(t, m, "   ", "")
	if n.Text != "Untitled" {
		t.Errorf("Text = %q, want placeholder", n.Text)
	}

	d := New("ideas")
	if n := mustCreate(t, d, "", ""); n.Text != DefaultPlaceholder {
		t.Errorf("Text = %q, want %q", n.Text, DefaultPlaceholder)
	}
}

func TestSingleRoot(t *testing.T) {
	m := New("ideas", WithSingleRoot())
	mustCreate(t, m, "Idea", "")

	_, err := m.Create("Other", "")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second root error = %v, want INVALID_INPUT", err)
	}
	if len(m.Roots()) != 1 {
		t.Errorf("Roots() = %d, want 1", len(m.Roots()))
	}
}

func TestMultipleRoots(t *testing.T) {
	m := New("ideas")
	mustCreate(t, m, "One", "")
	mustCreate(t, m, "Two", "")
	if len(m.Roots()) != 2 {
		t.Errorf("Roots() = %d, want 2", len(m.Roots()))
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDeleteSubtreeScenario(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "Idea", "")
	sub1 := mustCreate(t, m, "Sub1", root.ID)
	sub2 := mustCreate(t, m, "Sub2", root.ID)

	m.DeleteSubtree(sub1.ID)

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if _, ok := m.Node(sub1.ID); ok {
		t.Error("Sub1 should be gone")
	}
	if _, ok := m.Node(sub2.ID); !ok {
		t.Error("Sub2 should remain")
	}
	if got := m.Children(root.ID); !slices.Equal(got, []string{sub2.ID}) {
		t.Errorf("root.Children = %v, want [%s]", got, sub2.ID)
	}
}

func TestDeleteSubtreeRemovesDescendants(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "root", "")
	a := mustCreate(t, m, "a", root.ID)
	a1 := mustCreate(t, m, "a1", a.ID)
	a11 := mustCreate(t, m, "a11", a1.ID)
	a2 := mustCreate(t, m, "a2", a.ID)
	b := mustCreate(t, m, "b", root.ID)

	removed := m.DeleteSubtree(a.ID)

	want := []string{a11.ID, a1.ID, a2.ID, a.ID}
	if !slices.Equal(removed, want) {
		t.Errorf("removed = %v, want post-order %v", removed, want)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if got := m.IDs(); !slices.Equal(got, []string{root.ID, b.ID}) {
		t.Errorf("IDs() = %v", got)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDeleteSubtreeRoot(t *testing.T) {
	m := New("ideas")
	r1 := mustCreate(t, m, "r1", "")
	mustCreate(t, m, "c", r1.ID)
	r2 := mustCreate(t, m, "r2", "")

	m.DeleteSubtree(r1.ID)

	if got := m.IDs(); !slices.Equal(got, []string{r2.ID}) {
		t.Errorf("IDs() = %v, want [%s]", got, r2.ID)
	}
}

func TestDeleteSubtreeMissing(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "root", "")

	if removed := m.DeleteSubtree("node-42"); removed != nil {
		t.Errorf("DeleteSubtree(missing) = %v, want nil", removed)
	}
	if m.Len() != 1 || len(root.Children) != 0 {
		t.Error("map should be unchanged")
	}
}

func TestIDsNeverReused(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "root", "")
	child := mustCreate(t, m, "child", root.ID)
	m.DeleteSubtree(child.ID)

	again := mustCreate(t, m, "again", root.ID)
	if again.ID == child.ID {
		t.Errorf("id %q reused after deletion", again.ID)
	}
}

func TestRename(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "Idea", "")
	child := mustCreate(t, m, "Sub", root.ID)

	if err := m.Rename(child.ID, "  Renamed  "); err != nil {
		t.Fatalf("Rename() error: %v", err)
	}
	if child.Text != "Renamed" {
		t.Errorf("Text = %q, want Renamed", child.Text)
	}
	if child.ParentID != root.ID || !slices.Equal(root.Children, []string{child.ID}) {
		t.Error("Rename must not change structure")
	}

	if err := m.Rename(child.ID, ""); err != nil {
		t.Fatalf("Rename(blank) error: %v", err)
	}
	if child.Text != DefaultPlaceholder {
		t.Errorf("blank rename Text = %q, want placeholder", child.Text)
	}

	if err := m.Rename("node-99", "x"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Rename(missing) = %v, want NODE_NOT_FOUND", err)
	}
}

func TestSetPosition(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "Idea", "")
	if root.HasPosition() {
		t.Fatal("new node should have no position")
	}

	if err := m.SetPosition(root.ID, Position{X: 10, Y: 20}); err != nil {
		t.Fatalf("SetPosition() error: %v", err)
	}
	if *root.Position != (Position{X: 10, Y: 20}) {
		t.Errorf("Position = %+v", *root.Position)
	}
	if err := m.SetPosition("nope", Position{}); !errors.IsNotFound(err) {
		t.Errorf("SetPosition(missing) = %v, want not found", err)
	}

	m.ClearPosition(root.ID)
	if root.HasPosition() {
		t.Error("ClearPosition should drop the position")
	}
}

func TestDescendants(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "root", "")
	a := mustCreate(t, m, "a", root.ID)
	a1 := mustCreate(t, m, "a1", a.ID)
	b := mustCreate(t, m, "b", root.ID)

	want := []string{a.ID, a1.ID, b.ID}
	if got := m.Descendants(root.ID); !slices.Equal(got, want) {
		t.Errorf("Descendants(root) = %v, want %v", got, want)
	}
	if got := m.Descendants("missing"); got != nil {
		t.Errorf("Descendants(missing) = %v, want nil", got)
	}
}

func TestClone(t *testing.T) {
	m := New("ideas")
	root := mustCreate(t, m, "root", "")
	_ = m.SetPosition(root.ID, Position{X: 1, Y: 2})

	c := m.Clone()
	_ = c.Rename(root.ID, "changed")
	_ = c.SetPosition(root.ID, Position{X: 5, Y: 5})
	n := mustCreate(t, c, "child", root.ID)

	if root.Text != "root" || root.Position.X != 1 {
		t.Error("Clone should not share nodes with the original")
	}
	if len(root.Children) != 0 {
		t.Error("Clone should not share children slices")
	}
	if _, ok := m.Node(n.ID); ok {
		t.Error("node created on the clone leaked into the original")
	}
}

// TestForestInvariantRandomOps drives random create/delete sequences and
// checks the structural invariants and deletion counts after every step.
func TestForestInvariantRandomOps(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		m := New("random")

		for step := 0; step < 200; step++ {
			ids := m.IDs()
			switch {
			case len(ids) == 0 || rng.IntN(10) < 6:
				parent := ""
				if len(ids) > 0 && rng.IntN(5) > 0 {
					parent = ids[rng.IntN(len(ids))]
				}
				if _, err := m.Create("n", parent); err != nil {
					t.Fatalf("seed %d step %d: Create error: %v", seed, step, err)
				}
			default:
				target := ids[rng.IntN(len(ids))]
				before := m.Len()
				desc := len(m.Descendants(target))
				parentID := ""
				if n, _ := m.Node(target); n != nil {
					parentID = n.ParentID
				}

				m.DeleteSubtree(target)

				if got := before - m.Len(); got != desc+1 {
					t.Fatalf("seed %d step %d: removed %d nodes, want %d", seed, step, got, desc+1)
				}
				if parentID != "" && slices.Contains(m.Children(parentID), target) {
					t.Fatalf("seed %d step %d: parent still lists deleted child", seed, step)
				}
			}
			if err := m.Validate(); err != nil {
				t.Fatalf("seed %d step %d: Validate() = %v", seed, step, err)
			}
		}
	}
}
