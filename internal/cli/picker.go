package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// mapPicker - Map selection overlay of the editor
// =============================================================================

// mapEntry is one row of the picker.
type mapEntry struct {
	Name  string
	Nodes int
}

// mapPicker lists the stored maps with a scrolling cursor.
type mapPicker struct {
	Maps   []mapEntry
	Active string
	Cursor int
	Height int
	Offset int
}

// newMapPicker creates a picker with the cursor on the active map.
func newMapPicker(maps []mapEntry, active string, height int) mapPicker {
	p := mapPicker{Maps: maps, Active: active, Height: max(height, 5)}
	for i, m := range maps {
		if m.Name == active {
			p.Cursor = i
		}
	}
	if p.Cursor >= p.Height {
		p.Offset = p.Cursor - p.Height + 1
	}
	return p
}

// up moves the cursor one row up.
func (p mapPicker) up() mapPicker {
	if p.Cursor > 0 {
		p.Cursor--
		if p.Cursor < p.Offset {
			p.Offset = p.Cursor
		}
	}
	return p
}

// down moves the cursor one row down.
func (p mapPicker) down() mapPicker {
	if p.Cursor < len(p.Maps)-1 {
		p.Cursor++
		if p.Cursor >= p.Offset+p.Height {
			p.Offset = p.Cursor - p.Height + 1
		}
	}
	return p
}

// selected returns the map under the cursor.
func (p mapPicker) selected() (string, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Maps) {
		return "", false
	}
	return p.Maps[p.Cursor].Name, true
}

func (p mapPicker) view() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Map"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  esc back"))
	b.WriteString("\n\n")

	end := min(p.Offset+p.Height, len(p.Maps))
	rows := [][]string{}
	for i := p.Offset; i < end; i++ {
		m := p.Maps[i]
		cursor := "  "
		if i == p.Cursor {
			cursor = "▸ "
		}
		active := ""
		if m.Name == p.Active {
			active = iconActive
		}
		rows = append(rows, []string{cursor, m.Name, strconv.Itoa(m.Nodes), active})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Map", "Nodes", "Open").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if p.Offset+row == p.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", p.Cursor+1, len(p.Maps))))

	return b.String()
}
