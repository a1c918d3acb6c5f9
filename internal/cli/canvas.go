package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/mindmap/pkg/drag"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/session"
)

// =============================================================================
// Box geometry
// =============================================================================

// control is an interactive control in the top border of a node box.
type control int

const (
	controlNone control = iota
	controlAdd
	controlDelete
	controlEdit
)

// Column offsets of the controls from the left edge of a box. The top
// border reads "┌+─x─e──┐".
var controlColumns = map[int]control{1: controlAdd, 3: controlDelete, 5: controlEdit}

var controlGlyphs = map[control]rune{controlAdd: '+', controlDelete: 'x', controlEdit: 'e'}

// box is a node rectangle in cell coordinates.
type box struct {
	id         string
	text       string
	x, y, w, h int
}

func cellBox(n session.NodeView) (box, bool) {
	if n.Position == nil {
		return box{}, false
	}
	return box{
		id:   n.ID,
		text: n.Text,
		x:    int(math.Round(n.Position.X)),
		y:    int(math.Round(n.Position.Y)),
		w:    int(math.Round(n.Width)),
		h:    int(math.Round(n.Height)),
	}, true
}

func (b box) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// hit is the result of a hit test.
type hit struct {
	id     string
	target drag.Target
	ctrl   control
}

// hitTest finds the topmost box under the cell (x, y). Boxes later in the
// view are drawn on top, so they are tested first.
func hitTest(v session.View, x, y int) (hit, bool) {
	for i := len(v.Nodes) - 1; i >= 0; i-- {
		b, ok := cellBox(v.Nodes[i])
		if !ok || !b.contains(x, y) {
			continue
		}
		if y == b.y {
			if c, ok := controlColumns[x-b.x]; ok && x-b.x < b.w-1 {
				return hit{id: b.id, target: drag.TargetControl, ctrl: c}, true
			}
		}
		return hit{id: b.id, target: drag.TargetBody}, true
	}
	return hit{}, false
}

// =============================================================================
// Canvas
// =============================================================================

type cellStyle uint8

const (
	styleBlank cellStyle = iota
	styleEdge
	styleBox
	styleSelected
	styleDragged
	styleControl
)

var canvasStyles = map[cellStyle]lipgloss.Style{
	styleBlank:    lipgloss.NewStyle(),
	styleEdge:     lipgloss.NewStyle().Foreground(colorDim),
	styleBox:      lipgloss.NewStyle().Foreground(colorWhite),
	styleSelected: lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	styleDragged:  lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
	styleControl:  lipgloss.NewStyle().Foreground(colorBlue),
}

// cell holds one terminal cell. A zero rune marks the second half of a
// wide rune.
type cell struct {
	r     rune
	style cellStyle
}

// canvas is a fixed-size grid of cells.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s cellStyle) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: s}
}

// text writes s from (x, y), clipped to maxW cells.
func (c *canvas) text(x, y int, s string, maxW int, style cellStyle) {
	s = runewidth.Truncate(s, maxW, "…")
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		c.set(x, y, r, style)
		if rw == 2 {
			c.set(x+1, y, 0, style)
		}
		x += rw
	}
}

// line rasterises a connector with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, '·', styleEdge)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) box(b box, style cellStyle) {
	if b.w < 2 || b.h < 2 {
		return
	}
	right, bottom := b.x+b.w-1, b.y+b.h-1
	for x := b.x + 1; x < right; x++ {
		c.set(x, b.y, '─', style)
		c.set(x, bottom, '─', style)
	}
	for y := b.y + 1; y < bottom; y++ {
		c.set(b.x, y, '│', style)
		c.set(right, y, '│', style)
		for x := b.x + 1; x < right; x++ {
			c.set(x, y, ' ', style)
		}
	}
	c.set(b.x, b.y, '┌', style)
	c.set(right, b.y, '┐', style)
	c.set(b.x, bottom, '└', style)
	c.set(right, bottom, '┘', style)
	for off, ctrl := range controlColumns {
		if off < b.w-1 {
			c.set(b.x+off, b.y, controlGlyphs[ctrl], styleControl)
		}
	}
	c.text(b.x+2, b.y+b.h/2, b.text, b.w-4, style)
}

// String renders the canvas, one styled run per style change.
func (c *canvas) String() string {
	var out strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		var run strings.Builder
		cur := styleBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(canvasStyles[cur].Render(run.String()))
			run.Reset()
		}
		for _, cl := range row {
			if cl.r == 0 {
				continue
			}
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return out.String()
}

// renderView draws connectors first and node boxes over them.
func renderView(v session.View, w, h int, selected string) string {
	c := newCanvas(w, h)
	for _, conn := range v.Connectors {
		x0, y0 := cellXY(conn.From)
		x1, y1 := cellXY(conn.To)
		c.line(x0, y0, x1, y1)
	}
	for _, n := range v.Nodes {
		b, ok := cellBox(n)
		if !ok {
			continue
		}
		style := styleBox
		switch n.ID {
		case v.Dragging:
			style = styleDragged
		case selected:
			style = styleSelected
		}
		c.box(b, style)
	}
	return c.String()
}

func cellXY(p mindmap.Position) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
