package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Sizer reports the rendered size of a node.
type Sizer interface {
	Size(n *mindmap.Node) Size
}

// SizerFunc adapts a function to [Sizer].
type SizerFunc func(n *mindmap.Node) Size

// Size calls f(n).
func (f SizerFunc) Size(n *mindmap.Node) Size { return f(n) }

// TextSizer sizes a node from its label. The label width is measured in
// terminal cells with go-runewidth, so East Asian wide runes and emoji
// count as two cells.
type TextSizer struct {
	CellWidth  float64 // width of one cell
	LineHeight float64
	PadX       float64 // per side
	PadY       float64 // per side
	MinWidth   float64
}

// Size implements [Sizer].
func (s TextSizer) Size(n *mindmap.Node) Size {
	text := ""
	if n != nil {
		text = n.Text
	}
	w := float64(runewidth.StringWidth(text))*s.CellWidth + 2*s.PadX
	return Size{
		W: max(w, s.MinWidth),
		H: s.LineHeight + 2*s.PadY,
	}
}

// PixelSizer approximates a browser box with a 14px sans-serif label and
// 10px padding.
func PixelSizer() TextSizer {
	return TextSizer{CellWidth: 8, LineHeight: 18, PadX: 10, PadY: 10, MinWidth: 60}
}

// CellSizer sizes terminal boxes: one cell per column, a border and a
// space on each side, and room for the control strip in the top border.
func CellSizer() TextSizer {
	return TextSizer{CellWidth: 1, LineHeight: 1, PadX: 2, PadY: 1, MinWidth: 9}
}
