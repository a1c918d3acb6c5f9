package mindmap

import (
	"fmt"
	"slices"
	"strings"
)

// RepairKind classifies a fix applied by [Restore].
type RepairKind int

const (
	// RepairDuplicateID means a second record with an existing id was dropped.
	RepairDuplicateID RepairKind = iota
	// RepairDanglingParent means a node whose parent was missing became a root.
	RepairDanglingParent
	// RepairCycle means a node closing a parent cycle became a root.
	RepairCycle
	// RepairChildren means a parent's Children list was rebuilt from the
	// parent links of its children.
	RepairChildren
	// RepairBlankText means blank text was replaced by the placeholder.
	RepairBlankText
	// RepairExtraRoot means a root beyond the first on a single-root map was
	// attached to the first root.
	RepairExtraRoot
)

// String returns a short label for logs.
func (k RepairKind) String() string {
	switch k {
	case RepairDuplicateID:
		return "duplicate-id"
	case RepairDanglingParent:
		return "dangling-parent"
	case RepairCycle:
		return "cycle"
	case RepairChildren:
		return "children"
	case RepairBlankText:
		return "blank-text"
	case RepairExtraRoot:
		return "extra-root"
	default:
		return "unknown"
	}
}

// Repair describes one fix applied while restoring a map.
type Repair struct {
	Kind   RepairKind
	NodeID string
}

// String formats the repair for logs.
func (r Repair) String() string {
	return fmt.Sprintf("%s(%s)", r.Kind, r.NodeID)
}

// Restore rebuilds a map from node records, typically decoded from storage.
//
// The records are trusted only as far as they are consistent. Restore
// enforces every invariant of the package and reports what it had to fix:
//   - records with an empty or repeated id are dropped
//   - a ParentID that does not resolve makes the node a root
//   - the node whose parent link closes a loop becomes a root
//   - every Children list is rebuilt from parent links, keeping the stored
//     order for listed children and appending unlisted ones in record order
//
// Every surviving id is passed to the generator's Observe so new ids never
// collide with restored ones.
func Restore(name string, records []Node, opts ...Option) (*Map, []Repair) {
	m := New(name, opts...)
	var repairs []Repair

	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, dup := m.nodes[rec.ID]; dup {
			repairs = append(repairs, Repair{RepairDuplicateID, rec.ID})
			continue
		}
		n := rec.Clone()
		if strings.TrimSpace(n.Text) == "" {
			repairs = append(repairs, Repair{RepairBlankText, n.ID})
		}
		n.Text = m.label(n.Text)
		m.insert(n)
		m.ids.Observe(n.ID)
	}

	for _, id := range m.order {
		n := m.nodes[id]
		if n.ParentID == "" {
			continue
		}
		if _, ok := m.nodes[n.ParentID]; !ok {
			repairs = append(repairs, Repair{RepairDanglingParent, id})
			n.ParentID = ""
		}
	}

	for _, id := range m.order {
		if closer, ok := cycleCloser(m.nodes, id); ok {
			repairs = append(repairs, Repair{RepairCycle, closer})
			m.nodes[closer].ParentID = ""
		}
	}

	if m.singleRoot {
		roots := m.Roots()
		for _, extra := range roots[min(1, len(roots)):] {
			repairs = append(repairs, Repair{RepairExtraRoot, extra.ID})
			extra.ParentID = roots[0].ID
		}
	}

	repairs = append(repairs, m.rebuildChildren()...)
	return m, repairs
}

// cycleCloser walks the parent chain from id and returns the node whose
// parent link closes a loop, if any.
func cycleCloser(nodes map[string]*Node, id string) (string, bool) {
	visited := make(map[string]bool)
	prev := ""
	for cur := id; cur != ""; {
		if visited[cur] {
			return prev, true
		}
		visited[cur] = true
		n, ok := nodes[cur]
		if !ok {
			return "", false
		}
		prev, cur = cur, n.ParentID
	}
	return "", false
}

// rebuildChildren makes every Children list agree with the parent links.
func (m *Map) rebuildChildren() []Repair {
	actual := make(map[string][]string, len(m.nodes))
	for _, id := range m.order {
		n := m.nodes[id]
		if n.ParentID != "" {
			actual[n.ParentID] = append(actual[n.ParentID], id)
		}
	}

	var repairs []Repair
	for _, id := range m.order {
		n := m.nodes[id]
		want := actual[id]

		var rebuilt []string
		listed := make(map[string]bool, len(n.Children))
		for _, c := range n.Children {
			if !listed[c] && slices.Contains(want, c) {
				rebuilt = append(rebuilt, c)
				listed[c] = true
			}
		}
		for _, c := range want {
			if !listed[c] {
				rebuilt = append(rebuilt, c)
			}
		}
		if !slices.Equal(rebuilt, n.Children) {
			repairs = append(repairs, Repair{RepairChildren, id})
		}
		n.Children = rebuilt
	}
	return repairs
}
