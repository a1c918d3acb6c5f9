package mindmap

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator allocates node ids for one map.
//
// Next must never return an id it returned before. Observe is called for
// every id that enters the map from outside (restored from storage) so that
// generators with a counter can skip past it.
type IDGenerator interface {
	Next() string
	Observe(id string)
}

// DefaultIDPrefix is the prefix of ids produced by [Sequential].
const DefaultIDPrefix = "node-"

// Sequential produces ids of the form "<prefix><n>" with a strictly
// increasing counter.
type Sequential struct {
	prefix string
	next   int
}

// NewSequential creates a generator that starts at "<prefix>0".
// An empty prefix selects [DefaultIDPrefix].
func NewSequential(prefix string) *Sequential {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &Sequential{prefix: prefix}
}

// Next returns the next id and advances the counter.
func (s *Sequential) Next() string {
	id := s.prefix + strconv.Itoa(s.next)
	s.next++
	return id
}

// Observe advances the counter past id when id has this generator's shape.
// Foreign ids are ignored.
func (s *Sequential) Observe(id string) {
	rest, ok := strings.CutPrefix(id, s.prefix)
	if !ok {
		return
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return
	}
	if n >= s.next {
		s.next = n + 1
	}
}

// UUIDs produces random version 4 UUIDs.
type UUIDs struct{}

// Next returns a new random UUID string.
func (UUIDs) Next() string { return uuid.NewString() }

// Observe does nothing; random ids do not collide in practice.
func (UUIDs) Observe(string) {}

// ID schemes accepted by [NewIDGenerator].
const (
	IDSchemeSequential = "sequential"
	IDSchemeUUID       = "uuid"
)

// NewIDGenerator returns a fresh generator for the named scheme.
// Unknown or empty schemes fall back to sequential ids.
func NewIDGenerator(scheme string) IDGenerator {
	if scheme == IDSchemeUUID {
		return UUIDs{}
	}
	return NewSequential("")
}

var (
	_ IDGenerator = (*Sequential)(nil)
	_ IDGenerator = UUIDs{}
)
