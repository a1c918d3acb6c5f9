package session

import (
	"context"
	"time"

	"github.com/matzehuels/mindmap/pkg/drag"
	"github.com/matzehuels/mindmap/pkg/edges"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// dragListener keeps positions and connectors in step with a drag. Every
// move tick rebuilds the full connector set.
type dragListener struct{ s *Session }

func (l dragListener) DragMoved(id string, pos mindmap.Position) {
	l.s.positions[id] = pos
	l.s.connectors = edges.Build(l.s.m, l.s.positions, l.s.sizer)
}

func (l dragListener) DragCommitted(id string, pos mindmap.Position) {
	l.s.positions[id] = pos
}

// PointerDown starts dragging id. It reports false when no drag started:
// the press hit a control, used another button, or the layout is
// hierarchical.
func (s *Session) PointerDown(id string, target drag.Target, button drag.Button, p drag.Point) bool {
	if s.Mode() != layout.ModeFreeform {
		return false
	}
	return s.drag.Press(s.m, id, target, button, p)
}

// PointerMove moves the dragged node and refreshes its connectors. Nothing
// is saved.
func (s *Session) PointerMove(p drag.Point) bool {
	_, ok := s.drag.Move(p)
	return ok
}

// PointerUp ends the drag and saves the final position once.
func (s *Session) PointerUp(ctx context.Context) (err error) {
	if s.drag.State() != drag.Dragging {
		return nil
	}
	defer s.track(ctx, "move_node", time.Now(), &err)
	if _, ok := s.drag.Release(); !ok {
		return nil
	}
	return s.save(ctx)
}

// LostCapture aborts a drag and puts the node back where it started.
func (s *Session) LostCapture() bool {
	return s.drag.Cancel()
}
