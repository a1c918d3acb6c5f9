// Package drag turns pointer input into bounded position updates of a
// single node.
//
// A [Controller] is a two-state machine:
//
//	Idle --Press(body, primary)--> Dragging --Release--> Idle (commit)
//	                                        --Cancel---> Idle (restore)
//
// While dragging, every Move writes the clamped position to the node and
// notifies the [Listener] so connectors can be refreshed. Only Release
// commits, exactly once per drag.
package drag

import (
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Target is the part of a node box that received a press.
type Target int

const (
	// TargetBody is the box itself.
	TargetBody Target = iota
	// TargetControl is an interactive control inside the box (add, delete,
	// edit). Pressing a control never starts a drag.
	TargetControl
)

// Button identifies the pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonOther
)

// Point is a pointer location in container coordinates.
type Point struct {
	X, Y float64
}

// Listener receives drag progress. Both methods run synchronously on the
// caller's goroutine.
type Listener interface {
	// DragMoved is called after every accepted move.
	DragMoved(id string, pos mindmap.Position)
	// DragCommitted is called once when a drag ends with a release.
	DragCommitted(id string, pos mindmap.Position)
}

// NopListener ignores all events.
type NopListener struct{}

func (NopListener) DragMoved(string, mindmap.Position)     {}
func (NopListener) DragCommitted(string, mindmap.Position) {}

// Controller tracks at most one drag at a time.
//
// It is not safe for concurrent use.
type Controller struct {
	sizer     layout.Sizer
	container layout.Container
	listener  Listener

	state  State
	m      *mindmap.Map
	id     string
	offset Point
	origin mindmap.Position
	last   mindmap.Position
}

// New creates an idle controller.
func New(sizer layout.Sizer, container layout.Container, listener Listener) *Controller {
	if listener == nil {
		listener = NopListener{}
	}
	return &Controller{sizer: sizer, container: container, listener: listener}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active returns the id of the node being dragged, or "" when idle.
func (c *Controller) Active() string {
	if c.state != Dragging {
		return ""
	}
	return c.id
}

// SetContainer changes the clamping bounds. It applies to the next move.
func (c *Controller) SetContainer(container layout.Container) { c.container = container }

// Press starts a drag of id. It only succeeds for a primary press on the
// body of an existing node that has a stored position, while idle.
func (c *Controller) Press(m *mindmap.Map, id string, target Target, button Button, p Point) bool {
	if c.state != Idle || target != TargetBody || button != ButtonPrimary || m == nil {
		return false
	}
	n, ok := m.Node(id)
	if !ok || !n.HasPosition() {
		return false
	}
	c.state = Dragging
	c.m = m
	c.id = id
	c.origin = *n.Position
	c.last = *n.Position
	c.offset = Point{X: p.X - n.Position.X, Y: p.Y - n.Position.Y}
	return true
}

// Move drags the active node so that the grab offset stays under the
// pointer, clamped into the container. It returns the applied position.
func (c *Controller) Move(p Point) (mindmap.Position, bool) {
	if c.state != Dragging {
		return mindmap.Position{}, false
	}
	n, ok := c.m.Node(c.id)
	if !ok {
		c.reset()
		return mindmap.Position{}, false
	}
	candidate := mindmap.Position{X: p.X - c.offset.X, Y: p.Y - c.offset.Y}
	pos := Clamp(candidate, c.sizer.Size(n), c.container)
	_ = c.m.SetPosition(c.id, pos)
	c.last = pos
	c.listener.DragMoved(c.id, pos)
	return pos, true
}

// Release ends the drag and commits the last clamped position.
func (c *Controller) Release() (mindmap.Position, bool) {
	if c.state != Dragging {
		return mindmap.Position{}, false
	}
	id, pos := c.id, c.last
	_, alive := c.m.Node(id)
	c.reset()
	if !alive {
		return mindmap.Position{}, false
	}
	c.listener.DragCommitted(id, pos)
	return pos, true
}

// Cancel aborts the drag after a lost pointer capture. The node returns to
// where it was when the drag started and nothing is committed.
func (c *Controller) Cancel() bool {
	if c.state != Dragging {
		return false
	}
	id, origin := c.id, c.origin
	if err := c.m.SetPosition(id, origin); err == nil {
		c.listener.DragMoved(id, origin)
	}
	c.reset()
	return true
}

func (c *Controller) reset() {
	c.state = Idle
	c.m = nil
	c.id = ""
	c.offset = Point{}
}

// Clamp confines a top-left position so that a box of size s stays inside
// the container: 0 <= x <= width - s.W, and likewise for y. A box larger
// than the container is pinned to 0 on that axis.
func Clamp(candidate mindmap.Position, s layout.Size, container layout.Container) mindmap.Position {
	return mindmap.Position{
		X: max(0, min(candidate.X, container.Width-s.W)),
		Y: max(0, min(candidate.Y, container.Height-s.H)),
	}
}
