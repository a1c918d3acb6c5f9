package registry

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/storage"
)

// DefaultKey is the storage key holding the registry.
const DefaultKey = "allMindMaps"

// NoMapsLabel is shown in place of a map list when the registry is empty.
const NoMapsLabel = "No maps"

// LoadStatus reports how [Manager.Load] produced its map.
type LoadStatus int

const (
	// StatusLoaded means the stored map was read as-is.
	StatusLoaded LoadStatus = iota
	// StatusRepaired means the stored map was read but inconsistencies had
	// to be fixed.
	StatusRepaired
	// StatusBootstrapped means no stored map existed (or it was empty) and a
	// fresh single-root map was created.
	StatusBootstrapped
	// StatusCorrupt means the stored data could not be parsed and a fresh
	// single-root map was created in its place.
	StatusCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusRepaired:
		return "repaired"
	case StatusBootstrapped:
		return "bootstrapped"
	case StatusCorrupt:
		return "corrupt"
	}
	return "unknown"
}

// Listing is the ordered list of map names in the registry.
type Listing []string

// Empty reports whether the registry has no maps.
func (l Listing) Empty() bool { return len(l) == 0 }

// Display returns the names for a selector, or the single [NoMapsLabel]
// entry when there are none.
func (l Listing) Display() []string {
	if l.Empty() {
		return []string{NoMapsLabel}
	}
	return l
}

// First returns the first name in registry order.
func (l Listing) First() (string, bool) {
	if l.Empty() {
		return "", false
	}
	return l[0], true
}

// Options configures a [Manager].
type Options struct {
	// Key is the storage key of the registry. Default [DefaultKey].
	Key string

	// IDScheme selects the id generator of loaded and new maps
	// (see mindmap.NewIDGenerator).
	IDScheme string
	// SingleRoot restricts maps to one root.
	SingleRoot bool
	// Placeholder replaces blank node text.
	Placeholder string

	Logger *log.Logger
}

// Manager reads and writes named maps in a [storage.Store].
//
// Every mutating call rewrites the whole registry value. A Manager is safe
// for concurrent use; callers sharing a store between processes get
// last-writer-wins.
type Manager struct {
	store  storage.Store
	opts   Options
	logger *log.Logger
	mu     sync.Mutex
}

// New creates a manager over store.
func New(store storage.Store, opts Options) *Manager {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{store: store, opts: opts, logger: logger}
}

// Key returns the storage key of the registry.
func (r *Manager) Key() string { return r.opts.Key }

// NewIDs returns a fresh generator for the configured id scheme. A session
// keeps one for its lifetime and hands it to [Manager.Load] and
// [Manager.Bootstrap] so ids stay unique across map switches.
func (r *Manager) NewIDs() mindmap.IDGenerator {
	return mindmap.NewIDGenerator(r.opts.IDScheme)
}

// MapOptions returns the options every map handled by this manager is
// created with, followed by extra. The default id generator is fresh on
// every call; pass [mindmap.WithIDs] in extra to share one.
func (r *Manager) MapOptions(extra ...mindmap.Option) []mindmap.Option {
	opts := []mindmap.Option{
		mindmap.WithIDs(r.NewIDs()),
		mindmap.WithPlaceholder(r.opts.Placeholder),
	}
	if r.opts.SingleRoot {
		opts = append(opts, mindmap.WithSingleRoot())
	}
	return append(opts, extra...)
}

// Bootstrap returns a fresh map holding one root, created with the
// manager's map options and extra. It is not saved.
func (r *Manager) Bootstrap(name string, extra ...mindmap.Option) *mindmap.Map {
	return mindmap.Bootstrap(name, r.MapOptions(extra...)...)
}

// Save writes m under name, replacing any previous entry. The rest of the
// registry is preserved, including its order; a new name is appended.
func (r *Manager) Save(ctx context.Context, name string, m *mindmap.Map) error {
	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	raw, err := encodeMap(m)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode map %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.readForWrite(ctx)
	if err != nil {
		return err
	}
	doc.maps.Set(name, raw)
	return r.write(ctx, doc)
}

// Load reads the map stored under name.
//
// A missing or empty entry yields a bootstrapped map, unparseable data a
// bootstrapped map with [StatusCorrupt]. Neither case is an error; the
// returned error reports storage failures only. The result is not saved.
// Extra options apply after the manager's own.
func (r *Manager) Load(ctx context.Context, name string, extra ...mindmap.Option) (*mindmap.Map, LoadStatus, error) {
	r.mu.Lock()
	doc, err := r.read(ctx)
	r.mu.Unlock()
	if err != nil {
		if errors.Is(err, errors.ErrCodeCorruptState) {
			return r.Bootstrap(name, extra...), StatusCorrupt, nil
		}
		return nil, 0, err
	}

	raw, ok := doc.maps.Get(name)
	if !ok {
		return r.Bootstrap(name, extra...), StatusBootstrapped, nil
	}
	records, err := decodeMap(raw)
	if err != nil {
		r.corrupt(ctx, name, err)
		return r.Bootstrap(name, extra...), StatusCorrupt, nil
	}
	if len(records) == 0 {
		return r.Bootstrap(name, extra...), StatusBootstrapped, nil
	}

	m, repairs := mindmap.Restore(name, records, r.MapOptions(extra...)...)
	if m.Len() == 0 {
		r.corrupt(ctx, name, errors.New(errors.ErrCodeCorruptState, "no usable node records"))
		return r.Bootstrap(name, extra...), StatusCorrupt, nil
	}
	if len(repairs) > 0 {
		r.logger.Warn("repaired stored map", "map", name, "repairs", repairs)
		return m, StatusRepaired, nil
	}
	return m, StatusLoaded, nil
}

// List returns the map names in registry order. An unreadable registry
// lists as empty.
func (r *Manager) List(ctx context.Context) (Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.read(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCodeCorruptState) {
			return Listing{}, nil
		}
		return nil, err
	}
	return Listing(doc.names()), nil
}

// Exists reports whether a map is stored under name.
func (r *Manager) Exists(ctx context.Context, name string) (bool, error) {
	names, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the entry for name. It fails with MAP_NOT_FOUND when no
// such entry exists. Choosing the next active map is up to the caller.
func (r *Manager) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCodeCorruptState) {
			return errors.New(errors.ErrCodeMapNotFound, "map %q not found", name)
		}
		return err
	}
	if _, ok := doc.maps.Delete(name); !ok {
		return errors.New(errors.ErrCodeMapNotFound, "map %q not found", name)
	}
	return r.write(ctx, doc)
}

// read loads and parses the registry. Parse failures come back as
// CORRUPT_STATE after being logged and reported; callers that write treat
// them as an empty registry.
func (r *Manager) read(ctx context.Context) (*document, error) {
	data, found, err := r.store.Get(ctx, r.opts.Key)
	if err != nil {
		return nil, err
	}
	if !found {
		return newDocument(), nil
	}
	doc, err := parseDocument(data)
	if err != nil {
		r.corrupt(ctx, "", err)
		return nil, errors.Wrap(errors.ErrCodeCorruptState, err, "registry %q", r.opts.Key)
	}
	return doc, nil
}

// readForWrite is read with a corrupt registry replaced by an empty one, so
// the next write starts over instead of failing forever.
func (r *Manager) readForWrite(ctx context.Context) (*document, error) {
	doc, err := r.read(ctx)
	if errors.Is(err, errors.ErrCodeCorruptState) {
		return newDocument(), nil
	}
	return doc, err
}

func (r *Manager) write(ctx context.Context, doc *document) error {
	data, err := doc.bytes()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode registry")
	}
	return r.store.Set(ctx, r.opts.Key, data)
}

func (r *Manager) corrupt(ctx context.Context, name string, err error) {
	fields := []any{"key", r.opts.Key, "err", err}
	if name = strings.TrimSpace(name); name != "" {
		fields = append(fields, "map", name)
	}
	r.logger.Warn("ignoring unreadable stored data", fields...)
	observability.Storage().OnCorrupt(ctx, r.opts.Key, name, err)
}
