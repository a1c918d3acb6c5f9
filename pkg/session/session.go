// Package session ties the editor together: it owns the active map and runs
// every user operation through the same pipeline.
//
// # Pipeline
//
// Structural operations mutate the map, re-run the layout engine, rebuild
// the connectors and save the whole registry:
//
//	AddChild -> mindmap.Create -> layout.Place/Arrange -> edges.Build -> registry.Save
//
// Dragging bypasses layout. Each pointer move updates the node position and
// the connectors; only releasing the pointer saves.
//
// # Startup
//
// [New] opens the first map in registry order. An empty registry gets a
// default map ("My first map") holding one root, which is saved at once.
//
// # Concurrency
//
// A Session is not safe for concurrent use. Interactive frontends drive it
// from a single event loop; the HTTP API serialises handlers with a mutex.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/drag"
	"github.com/matzehuels/mindmap/pkg/edges"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/registry"
)

// DefaultMapName is the map created when the registry is empty.
const DefaultMapName = "My first map"

// DefaultContainer is used when no container size is configured.
var DefaultContainer = layout.Container{Width: 1200, Height: 800}

// Options configures a [Session].
type Options struct {
	// Mode selects the layout strategy. Default [layout.DefaultMode].
	Mode layout.Mode
	// Layout carries the container size and spacing.
	Layout layout.Options
	// Sizer reports rendered node sizes. Default [layout.PixelSizer].
	Sizer layout.Sizer

	// DefaultMap names the map bootstrapped into an empty registry.
	DefaultMap string
	// Initial is the map to open at startup when it exists. Otherwise the
	// first map in registry order is opened.
	Initial string

	Logger *log.Logger
}

// Session holds the editor state of one user.
type Session struct {
	mgr    *registry.Manager
	opts   Options
	logger *log.Logger

	sizer  layout.Sizer
	engine layout.Engine
	drag   *drag.Controller
	ids    mindmap.IDGenerator

	m          *mindmap.Map
	status     registry.LoadStatus
	positions  layout.Positions
	connectors []edges.Connector
}

// New starts a session on mgr and opens the initial map.
func New(ctx context.Context, mgr *registry.Manager, opts Options) (*Session, error) {
	if opts.DefaultMap == "" {
		opts.DefaultMap = DefaultMapName
	}
	if opts.Sizer == nil {
		opts.Sizer = layout.PixelSizer()
	}
	if opts.Layout.Container == (layout.Container{}) {
		opts.Layout.Container = DefaultContainer
	}
	if opts.Mode == "" {
		opts.Mode = layout.DefaultMode
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	engine, err := layout.New(opts.Mode, opts.Layout, opts.Sizer)
	if err != nil {
		return nil, err
	}
	s := &Session{
		mgr:    mgr,
		opts:   opts,
		logger: logger,
		sizer:  opts.Sizer,
		engine: engine,
		ids:    mgr.NewIDs(),
	}
	s.drag = drag.New(opts.Sizer, opts.Layout.Container, dragListener{s})

	maps, err := mgr.List(ctx)
	if err != nil {
		return nil, err
	}
	if maps.Empty() {
		logger.Info("registry is empty, creating default map", "map", opts.DefaultMap)
		if err := s.bootstrap(ctx, opts.DefaultMap); err != nil {
			return nil, err
		}
		return s, nil
	}

	name, _ := maps.First()
	for _, n := range maps {
		if n == opts.Initial {
			name = n
		}
	}
	if err := s.open(ctx, name); err != nil {
		return nil, err
	}
	return s, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Name returns the name of the active map.
func (s *Session) Name() string { return s.m.Name() }

// Map returns the active map. Mutate it only through the session.
func (s *Session) Map() *mindmap.Map { return s.m }

// Mode returns the active layout mode.
func (s *Session) Mode() layout.Mode { return s.engine.Mode() }

// Status reports how the active map was loaded.
func (s *Session) Status() registry.LoadStatus { return s.status }

// Positions returns the current display positions.
func (s *Session) Positions() layout.Positions { return s.positions }

// Connectors returns the current connector set.
func (s *Session) Connectors() []edges.Connector { return s.connectors }

// Container returns the current container bounds.
func (s *Session) Container() layout.Container { return s.opts.Layout.Container }

// Sizer returns the sizer used for layout and connectors.
func (s *Session) Sizer() layout.Sizer { return s.sizer }

// Dragging returns the id of the node being dragged, or "".
func (s *Session) Dragging() string { return s.drag.Active() }

// =============================================================================
// Node operations
// =============================================================================

// AddRoot creates a root node. In freeform mode it lands on a random point
// of the container.
func (s *Session) AddRoot(ctx context.Context, text string) (*mindmap.Node, error) {
	return s.create(ctx, "add_root", text, "")
}

// AddChild creates a child of parentID below its parent. A missing parent
// is reported as NODE_NOT_FOUND and nothing changes.
func (s *Session) AddChild(ctx context.Context, parentID, text string) (*mindmap.Node, error) {
	return s.create(ctx, "add_child", text, parentID)
}

func (s *Session) create(ctx context.Context, op, text, parentID string) (n *mindmap.Node, err error) {
	defer s.track(ctx, op, time.Now(), &err)

	n, err = s.m.Create(text, parentID)
	if err != nil {
		s.recovered(op, err)
		return nil, err
	}
	s.engine.Place(s.m, n)
	s.refresh(ctx)
	return n, s.save(ctx)
}

// DeleteNode removes id and its whole subtree and returns the removed ids.
// Confirmation is the caller's job.
func (s *Session) DeleteNode(ctx context.Context, id string) (removed []string, err error) {
	defer s.track(ctx, "delete_node", time.Now(), &err)

	if _, ok := s.m.Node(id); !ok {
		err = errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
		s.recovered("delete_node", err)
		return nil, err
	}
	if s.drag.State() == drag.Dragging {
		s.drag.Cancel()
	}
	removed = s.m.DeleteSubtree(id)
	s.refresh(ctx)
	return removed, s.save(ctx)
}

// Rename replaces the text of id. Blank text becomes the placeholder.
func (s *Session) Rename(ctx context.Context, id, text string) (err error) {
	defer s.track(ctx, "rename", time.Now(), &err)

	if err = s.m.Rename(id, text); err != nil {
		s.recovered("rename", err)
		return err
	}
	s.refresh(ctx)
	return s.save(ctx)
}

// MoveNode drags id to (x, y) in one step: the position is clamped into
// the container and committed once. It is the non-interactive form of a
// press, move and release, and is refused in hierarchical mode.
func (s *Session) MoveNode(ctx context.Context, id string, x, y float64) (mindmap.Position, error) {
	n, ok := s.m.Node(id)
	if !ok {
		err := errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
		s.recovered("move_node", err)
		return mindmap.Position{}, err
	}
	if s.Mode() != layout.ModeFreeform {
		return mindmap.Position{}, errors.New(errors.ErrCodeUnsupported, "nodes cannot be moved in %s layout", s.Mode())
	}
	start := n.Position
	if start == nil {
		return mindmap.Position{}, errors.New(errors.ErrCodeInternal, "node %q has no position", id)
	}
	if !s.PointerDown(id, drag.TargetBody, drag.ButtonPrimary, drag.Point{X: start.X, Y: start.Y}) {
		return mindmap.Position{}, errors.New(errors.ErrCodeInvalidInput, "another node is being dragged")
	}
	s.PointerMove(drag.Point{X: x, Y: y})
	if err := s.PointerUp(ctx); err != nil {
		return mindmap.Position{}, err
	}
	return *n.Position, nil
}

// =============================================================================
// Map operations
// =============================================================================

// Maps lists the stored map names in registry order.
func (s *Session) Maps(ctx context.Context) (registry.Listing, error) {
	return s.mgr.List(ctx)
}

// NewMap creates, saves and opens a map holding one root. A blank name is
// refused with INVALID_MAP_NAME, an existing one with MAP_EXISTS.
func (s *Session) NewMap(ctx context.Context, name string) (err error) {
	defer s.track(ctx, "new_map", time.Now(), &err)

	name = strings.TrimSpace(name)
	if err = errors.ValidateMapName(name); err != nil {
		return err
	}
	exists, err := s.mgr.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return errors.New(errors.ErrCodeMapExists, "a map named %q already exists", name)
	}
	return s.bootstrap(ctx, name)
}

// Select opens a stored map.
func (s *Session) Select(ctx context.Context, name string) (err error) {
	defer s.track(ctx, "select_map", time.Now(), &err)

	exists, err := s.mgr.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New(errors.ErrCodeMapNotFound, "map %q not found", name)
	}
	return s.open(ctx, name)
}

// DeleteMap removes a stored map. When it was the active map the first
// remaining map is opened, or the default map is created when none is
// left. Confirmation is the caller's job.
func (s *Session) DeleteMap(ctx context.Context, name string) (err error) {
	defer s.track(ctx, "delete_map", time.Now(), &err)

	if err = s.mgr.Delete(ctx, name); err != nil {
		return err
	}
	maps, err := s.mgr.List(ctx)
	if err != nil {
		return err
	}
	if next, ok := maps.First(); ok {
		if name != s.m.Name() {
			return nil
		}
		return s.open(ctx, next)
	}
	return s.bootstrap(ctx, s.opts.DefaultMap)
}

// =============================================================================
// Layout
// =============================================================================

// SetMode switches the layout strategy and re-arranges the map. Switching
// to freeform assigns positions to nodes that have none and saves them.
func (s *Session) SetMode(ctx context.Context, mode layout.Mode) error {
	engine, err := layout.New(mode, s.opts.Layout, s.sizer)
	if err != nil {
		return err
	}
	if s.drag.State() == drag.Dragging {
		s.drag.Cancel()
	}
	s.engine = engine
	s.opts.Mode = mode
	unplaced := s.unplaced()
	s.refresh(ctx)
	if mode == layout.ModeFreeform && unplaced > 0 {
		return s.save(ctx)
	}
	return nil
}

// Resize changes the container. Nothing is saved; stored positions are
// clamped again by the next drag.
func (s *Session) Resize(ctx context.Context, c layout.Container) error {
	opts := s.opts.Layout
	opts.Container = c
	engine, err := layout.New(s.engine.Mode(), opts, s.sizer)
	if err != nil {
		return err
	}
	s.opts.Layout = opts
	s.engine = engine
	s.drag.SetContainer(c)
	s.refresh(ctx)
	return nil
}

// =============================================================================
// Internals
// =============================================================================

// bootstrap creates, saves and opens a fresh map.
func (s *Session) bootstrap(ctx context.Context, name string) error {
	s.m = s.mgr.Bootstrap(name, mindmap.WithIDs(s.ids))
	s.status = registry.StatusBootstrapped
	s.refresh(ctx)
	return s.save(ctx)
}

// open loads a stored map. Maps that had to be created or repaired while
// loading are saved back.
func (s *Session) open(ctx context.Context, name string) error {
	if s.drag != nil && s.drag.State() == drag.Dragging {
		s.drag.Cancel()
	}
	m, status, err := s.mgr.Load(ctx, name, mindmap.WithIDs(s.ids))
	if err != nil {
		return err
	}
	s.m = m
	s.status = status
	unplaced := s.unplaced()
	s.refresh(ctx)

	switch status {
	case registry.StatusCorrupt:
		s.logger.Warn("stored map was unreadable, starting fresh", "map", name)
		return s.save(ctx)
	case registry.StatusBootstrapped, registry.StatusRepaired:
		return s.save(ctx)
	}
	if s.Mode() == layout.ModeFreeform && unplaced > 0 {
		return s.save(ctx)
	}
	return nil
}

// refresh re-runs layout and rebuilds every connector.
func (s *Session) refresh(ctx context.Context) {
	start := time.Now()
	s.positions = s.engine.Arrange(s.m)
	s.connectors = edges.Build(s.m, s.positions, s.sizer)
	observability.Layout().OnArrange(ctx, string(s.engine.Mode()), s.m.Len(), time.Since(start))
}

func (s *Session) save(ctx context.Context) error {
	if err := s.mgr.Save(ctx, s.m.Name(), s.m); err != nil {
		s.logger.Error("save failed", "map", s.m.Name(), "err", err)
		return err
	}
	return nil
}

func (s *Session) unplaced() int {
	var n int
	for _, node := range s.m.Nodes() {
		if !node.HasPosition() {
			n++
		}
	}
	return n
}

// recovered logs an error the editor treats as a no-op.
func (s *Session) recovered(op string, err error) {
	s.logger.Warn("ignored", "op", op, "map", s.m.Name(), "err", errors.UserMessage(err))
}

func (s *Session) track(ctx context.Context, op string, start time.Time, err *error) {
	name := ""
	if s.m != nil {
		name = s.m.Name()
	}
	observability.Editor().OnOperation(ctx, op, name, time.Since(start), *err)
}
