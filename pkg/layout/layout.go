package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Mode names a layout strategy.
type Mode string

const (
	ModeFreeform     Mode = "freeform"
	ModeHierarchical Mode = "hierarchical"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = ModeFreeform

// Modes lists every supported mode.
var Modes = []Mode{ModeFreeform, ModeHierarchical}

// ParseMode resolves a mode name, case-insensitively. The empty string
// selects [DefaultMode].
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeFreeform:
		return ModeFreeform, nil
	case ModeHierarchical:
		return ModeHierarchical, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLayout, "unknown layout mode %q (want freeform or hierarchical)", s)
}

func (m Mode) String() string { return string(m) }

// Size is the rendered size of a node.
type Size struct {
	W, H float64
}

// Center returns the centre of a box of this size placed at p.
func (s Size) Center(p mindmap.Position) mindmap.Position {
	return mindmap.Position{X: p.X + s.W/2, Y: p.Y + s.H/2}
}

// Container is the bounded area in which positions are interpreted.
type Container struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Positions maps node ids to container-local top-left corners.
type Positions map[string]mindmap.Position

// Default spacing values.
const (
	DefaultLevelSpacing = 150.0
	DefaultSiblingGap   = 50.0
	DefaultChildGap     = 50.0
	DefaultBaseOffset   = 50.0
)

// Options configures an [Engine].
type Options struct {
	Container Container

	// LevelSpacing is the vertical distance between hierarchical levels.
	LevelSpacing float64
	// SiblingGap is the horizontal gap added after each child in a
	// hierarchical children block.
	SiblingGap float64
	// ChildGap is the vertical gap between a parent and a freeform child
	// placed below it.
	ChildGap float64
	// BaseOffset is the y coordinate of level 0.
	BaseOffset float64

	// Seed drives freeform root placement. Zero picks a random seed.
	Seed uint64
}

// SetDefaults fills zero spacing values with the package defaults.
func (o *Options) SetDefaults() {
	if o.LevelSpacing == 0 {
		o.LevelSpacing = DefaultLevelSpacing
	}
	if o.SiblingGap == 0 {
		o.SiblingGap = DefaultSiblingGap
	}
	if o.ChildGap == 0 {
		o.ChildGap = DefaultChildGap
	}
	if o.BaseOffset == 0 {
		o.BaseOffset = DefaultBaseOffset
	}
}

// Validate rejects negative or non-finite dimensions.
func (o Options) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"container width", o.Container.Width},
		{"container height", o.Container.Height},
		{"level spacing", o.LevelSpacing},
		{"sibling gap", o.SiblingGap},
		{"child gap", o.ChildGap},
		{"base offset", o.BaseOffset},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidLayout, "%s must be a finite non-negative number, got %v", f.name, f.v)
		}
	}
	return nil
}

// Engine positions the nodes of a map.
type Engine interface {
	// Mode reports the strategy.
	Mode() Mode

	// Place applies the creation policy to a freshly created node. It may
	// store a position on the node.
	Place(m *mindmap.Map, n *mindmap.Node)

	// Arrange returns the display position of every node that has one.
	Arrange(m *mindmap.Map) Positions
}

// New builds the engine for mode. Zero spacing options take defaults.
func New(mode Mode, opts Options, sizer Sizer) (Engine, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sizer == nil {
		sizer = PixelSizer()
	}
	switch mode {
	case ModeFreeform, "":
		return NewFreeform(opts, sizer), nil
	case ModeHierarchical:
		return NewHierarchical(opts, sizer), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown layout mode %q", mode)
}
