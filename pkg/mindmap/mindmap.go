package mindmap

import (
	"slices"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// Default labels.
const (
	// DefaultPlaceholder replaces blank text on create and rename.
	DefaultPlaceholder = "New node"

	// BootstrapText is the text of the root of a freshly bootstrapped map.
	BootstrapText = "main idea"
)

// Map is the node collection of one named mind map (the tree store).
//
// The zero value is not usable - use [New] or [Restore].
type Map struct {
	name        string
	nodes       map[string]*Node
	order       []string // insertion order of live nodes
	ids         IDGenerator
	singleRoot  bool
	placeholder string
}

// Option configures a Map.
type Option func(*Map)

// WithIDs sets the id generator. Maps opened by one editor session share
// a generator, so an id is never handed out twice in that session.
func WithIDs(g IDGenerator) Option {
	return func(m *Map) {
		if g != nil {
			m.ids = g
		}
	}
}

// WithSingleRoot restricts the map to exactly one root.
func WithSingleRoot() Option {
	return func(m *Map) { m.singleRoot = true }
}

// WithPlaceholder sets the label substituted for blank text.
func WithPlaceholder(text string) Option {
	return func(m *Map) {
		if strings.TrimSpace(text) != "" {
			m.placeholder = text
		}
	}
}

// New creates an empty map.
func New(name string, opts ...Option) *Map {
	m := &Map{
		name:        name,
		nodes:       make(map[string]*Node),
		ids:         NewSequential(""),
		placeholder: DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap creates a map holding a single root labelled [BootstrapText].
func Bootstrap(name string, opts ...Option) *Map {
	m := New(name, opts...)
	_, _ = m.Create(BootstrapText, "")
	return m
}

// Name returns the registry key of the map.
func (m *Map) Name() string { return m.name }

// SingleRoot reports whether the map is restricted to one root.
func (m *Map) SingleRoot() bool { return m.singleRoot }

// Len returns the number of nodes.
func (m *Map) Len() int { return len(m.nodes) }

// Node returns the node with the given id.
// The returned pointer refers to the live node; mutate it only through Map.
func (m *Map) Node(id string) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (m *Map) Nodes() []*Node {
	out := make([]*Node, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id])
	}
	return out
}

// IDs returns all node ids in insertion order.
func (m *Map) IDs() []string { return slices.Clone(m.order) }

// Roots returns the nodes without a parent, in insertion order.
func (m *Map) Roots() []*Node {
	var roots []*Node
	for _, id := range m.order {
		if n := m.nodes[id]; n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Children returns the child ids of id, or nil if id does not exist.
// The returned slice must not be modified.
func (m *Map) Children(id string) []string {
	if n, ok := m.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// Descendants returns every transitive child of id in depth-first
// pre-order. The node itself is not included.
func (m *Map) Descendants(id string) []string {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	var out []string
	stack := slices.Clone(n.Children)
	slices.Reverse(stack)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c, ok := m.nodes[cur]
		if !ok {
			continue
		}
		out = append(out, cur)
		for i := len(c.Children) - 1; i >= 0; i-- {
			stack = append(stack, c.Children[i])
		}
	}
	return out
}

// Create adds a node with the given text under parentID and returns it.
// An empty parentID creates a root.
//
// Blank text is replaced by the placeholder label. Create fails with
// NODE_NOT_FOUND when parentID does not resolve, and with INVALID_INPUT when
// a second root is requested on a single-root map; in both cases the map is
// left unchanged.
func (m *Map) Create(text, parentID string) (*Node, error) {
	var parent *Node
	if parentID != "" {
		p, ok := m.nodes[parentID]
		if !ok {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "parent %q not found", parentID)
		}
		parent = p
	} else if m.singleRoot && len(m.Roots()) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "map %q already has a root", m.name)
	}

	n := &Node{
		ID:       m.nextID(),
		Text:     m.label(text),
		ParentID: parentID,
	}
	m.insert(n)
	if parent != nil {
		parent.Children = append(parent.Children, n.ID)
	}
	return n, nil
}

// DeleteSubtree removes id and all of its descendants, children before
// parents, then drops id from its parent's Children. It returns the removed
// ids in removal order, or nil when id does not exist.
func (m *Map) DeleteSubtree(id string) []string {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}

	// Collect first so the removal below cannot stop halfway.
	removed := m.postOrder(id)

	for _, rid := range removed {
		delete(m.nodes, rid)
	}
	gone := make(map[string]bool, len(removed))
	for _, rid := range removed {
		gone[rid] = true
	}
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return gone[s] })

	if p, ok := m.nodes[n.ParentID]; ok {
		p.Children = slices.DeleteFunc(p.Children, func(s string) bool { return s == id })
	}
	return removed
}

// Rename replaces the text of id. Blank text is replaced by the placeholder.
func (m *Map) Rename(id, text string) error {
	n, ok := m.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	n.Text = m.label(text)
	return nil
}

// SetPosition stores an explicit position on id.
func (m *Map) SetPosition(id string, p Position) error {
	n, ok := m.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	n.Position = &p
	return nil
}

// ClearPosition drops the stored position of id, if any.
func (m *Map) ClearPosition(id string) {
	if n, ok := m.nodes[id]; ok {
		n.Position = nil
	}
}

// Clone returns a deep copy sharing nothing with m except the id generator,
// so ids stay unique across the copy and the original.
func (m *Map) Clone() *Map {
	c := &Map{
		name:        m.name,
		nodes:       make(map[string]*Node, len(m.nodes)),
		order:       slices.Clone(m.order),
		ids:         m.ids,
		singleRoot:  m.singleRoot,
		placeholder: m.placeholder,
	}
	for id, n := range m.nodes {
		c.nodes[id] = n.Clone()
	}
	return c
}

func (m *Map) insert(n *Node) {
	m.nodes[n.ID] = n
	m.order = append(m.order, n.ID)
}

func (m *Map) nextID() string {
	for {
		id := m.ids.Next()
		if _, taken := m.nodes[id]; !taken {
			return id
		}
	}
}

func (m *Map) label(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return m.placeholder
	}
	return text
}

// postOrder returns id's subtree with every node after all of its
// descendants.
func (m *Map) postOrder(id string) []string {
	type frame struct {
		id       string
		expanded bool
	}
	var out []string
	seen := make(map[string]bool)
	stack := []frame{{id: id}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.expanded {
			out = append(out, top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		top.expanded = true
		n, ok := m.nodes[top.id]
		if !ok {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			c := n.Children[i]
			if _, ok := m.nodes[c]; ok && !seen[c] {
				seen[c] = true
				stack = append(stack, frame{id: c})
			}
		}
	}
	return out
}
