package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/drag"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/session"
)

// editCommand creates the interactive terminal editor command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [MAP]",
		Short: "Edit maps in an interactive terminal editor",
		Long: `Edit maps in an interactive terminal editor.

Drag boxes with the mouse. The controls in the top border of every box add a
child (+), delete the node and its subtree (x), or edit the text (e). Press
? for all key bindings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			// The editor owns the terminal; problems show up in its status line.
			s, err := e.openSession(ctx, log.New(io.Discard), layout.CellSizer(), name)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newEditorModel(ctx, s),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)
			_, err = p.Run()
			return err
		},
		ValidArgsFunction: c.completeMapNames,
	}
}

// =============================================================================
// Key bindings
// =============================================================================

type editorKeys struct {
	Next      key.Binding
	Prev      key.Binding
	AddChild  key.Binding
	AddRoot   key.Binding
	Rename    key.Binding
	Delete    key.Binding
	Nudge     key.Binding
	Layout    key.Binding
	NewMap    key.Binding
	Maps      key.Binding
	NextMap   key.Binding
	PrevMap   key.Binding
	DeleteMap key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultEditorKeys() editorKeys {
	return editorKeys{
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next node")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev node")),
		AddChild:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
		AddRoot:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add root")),
		Rename:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit text")),
		Delete:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete node")),
		Nudge:     key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "move node")),
		Layout:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle layout")),
		NewMap:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new map")),
		Maps:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "list maps")),
		NextMap:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next map")),
		PrevMap:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev map")),
		DeleteMap: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete map")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.AddChild, k.Rename, k.Delete, k.Layout, k.Maps, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Nudge, k.Cancel},
		{k.AddChild, k.AddRoot, k.Rename, k.Delete},
		{k.Layout, k.NewMap, k.Maps, k.NextMap, k.PrevMap, k.DeleteMap},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// editorModel - Interactive map editor
// =============================================================================

// Rows above and below the canvas.
const (
	headerLines = 1
	footerLines = 2
)

type editorState int

const (
	stateNormal editorState = iota
	statePrompt
	stateConfirm
	statePicker
)

type promptKind int

const (
	promptAddChild promptKind = iota
	promptAddRoot
	promptRename
	promptNewMap
)

type confirmKind int

const (
	confirmDeleteNode confirmKind = iota
	confirmDeleteMap
)

// editorModel is the bubbletea model of the terminal editor. All editing
// goes through the session; the model only tracks input state.
type editorModel struct {
	ctx  context.Context
	s    *session.Session
	keys editorKeys
	help help.Model

	input  textinput.Model
	picker mapPicker

	state    editorState
	prompt   promptKind
	confirm  confirmKind
	target   string
	selected string

	width, height int
	status        string
	statusErr     bool
}

func newEditorModel(ctx context.Context, s *session.Session) editorModel {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Prompt = "› "

	m := editorModel{
		ctx:   ctx,
		s:     s,
		keys:  defaultEditorKeys(),
		help:  help.New(),
		input: ti,
	}
	if roots := s.Map().Roots(); len(roots) > 0 {
		m.selected = roots[0].ID
	}
	return m
}

func (m editorModel) Init() tea.Cmd {
	return tea.WindowSize()
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		c := layout.Container{Width: float64(msg.Width), Height: float64(max(msg.Height-headerLines-footerLines, 1))}
		if err := m.s.Resize(m.ctx, c); err != nil {
			m.fail(err)
		}
		return m, nil

	case tea.BlurMsg:
		if m.s.LostCapture() {
			m.info("drag cancelled")
		}
		return m, nil

	case tea.MouseMsg:
		if m.state != stateNormal {
			return m, nil
		}
		return m.mouse(msg)

	case tea.KeyMsg:
		switch m.state {
		case statePrompt:
			return m.promptKey(msg)
		case stateConfirm:
			return m.confirmKey(msg)
		case statePicker:
			return m.pickerKey(msg)
		}
		return m.normalKey(msg)
	}

	if m.state == statePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// Mouse
// =============================================================================

func (m editorModel) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := drag.Point{X: float64(msg.X), Y: float64(msg.Y - headerLines)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			return m, nil
		}
		h, ok := hitTest(m.s.View(), msg.X, msg.Y-headerLines)
		if !ok {
			return m, nil
		}
		m.selected = h.id
		if h.target == drag.TargetControl {
			return m.runControl(h)
		}
		button := drag.ButtonOther
		if msg.Button == tea.MouseButtonLeft {
			button = drag.ButtonPrimary
		}
		m.s.PointerDown(h.id, h.target, button, p)

	case tea.MouseActionMotion:
		if m.s.Dragging() != "" {
			m.s.PointerMove(p)
		}

	case tea.MouseActionRelease:
		if m.s.Dragging() != "" {
			if err := m.s.PointerUp(m.ctx); err != nil {
				m.fail(err)
			}
		}
	}
	return m, nil
}

func (m editorModel) runControl(h hit) (tea.Model, tea.Cmd) {
	switch h.ctrl {
	case controlAdd:
		return m.startPrompt(promptAddChild, h.id, "")
	case controlDelete:
		return m.startConfirm(confirmDeleteNode, h.id)
	case controlEdit:
		n, _ := m.s.Map().Node(h.id)
		return m.startPrompt(promptRename, h.id, n.Text)
	}
	return m, nil
}

// =============================================================================
// Keys
// =============================================================================

func (m editorModel) normalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Cancel):
		if m.s.LostCapture() {
			m.info("drag cancelled")
		}
	case key.Matches(msg, m.keys.Next):
		m.selected = m.cycle(1)
	case key.Matches(msg, m.keys.Prev):
		m.selected = m.cycle(-1)
	case key.Matches(msg, m.keys.AddChild):
		if _, ok := m.s.Map().Node(m.selected); ok {
			return m.startPrompt(promptAddChild, m.selected, "")
		}
		return m.startPrompt(promptAddRoot, "", "")
	case key.Matches(msg, m.keys.AddRoot):
		return m.startPrompt(promptAddRoot, "", "")
	case key.Matches(msg, m.keys.Rename):
		if n, ok := m.s.Map().Node(m.selected); ok {
			return m.startPrompt(promptRename, n.ID, n.Text)
		}
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.s.Map().Node(m.selected); ok {
			return m.startConfirm(confirmDeleteNode, m.selected)
		}
	case key.Matches(msg, m.keys.Nudge):
		m.nudge(msg.String())
	case key.Matches(msg, m.keys.Layout):
		next := layout.ModeHierarchical
		if m.s.Mode() == layout.ModeHierarchical {
			next = layout.ModeFreeform
		}
		if err := m.s.SetMode(m.ctx, next); err != nil {
			m.fail(err)
		} else {
			m.info("%s layout", next)
		}
	case key.Matches(msg, m.keys.NewMap):
		return m.startPrompt(promptNewMap, "", "")
	case key.Matches(msg, m.keys.Maps):
		return m.openPicker()
	case key.Matches(msg, m.keys.NextMap):
		m.switchMap(1)
	case key.Matches(msg, m.keys.PrevMap):
		m.switchMap(-1)
	case key.Matches(msg, m.keys.DeleteMap):
		return m.startConfirm(confirmDeleteMap, m.s.Name())
	}
	return m, nil
}

func (m editorModel) promptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = stateNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.state = stateNormal
		m.input.Blur()
		m.submit(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editorModel) confirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.state = stateNormal
	if s := strings.ToLower(msg.String()); s != "y" {
		m.info("cancelled")
		return m, nil
	}
	switch m.confirm {
	case confirmDeleteNode:
		removed, err := m.s.DeleteNode(m.ctx, m.target)
		if err != nil {
			m.fail(err)
			break
		}
		if _, ok := m.s.Map().Node(m.selected); !ok {
			m.selected = ""
		}
		m.info("deleted %d nodes", len(removed))
	case confirmDeleteMap:
		if err := m.s.DeleteMap(m.ctx, m.target); err != nil {
			m.fail(err)
			break
		}
		m.selectFirstRoot()
		m.info("deleted map %q, now editing %q", m.target, m.s.Name())
	}
	return m, nil
}

func (m editorModel) pickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.state = stateNormal
	case "up", "k":
		m.picker = m.picker.up()
	case "down", "j":
		m.picker = m.picker.down()
	case "enter":
		m.state = stateNormal
		if name, ok := m.picker.selected(); ok {
			m.open(name)
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// =============================================================================
// Actions
// =============================================================================

func (m editorModel) startPrompt(kind promptKind, target, value string) (tea.Model, tea.Cmd) {
	m.state = statePrompt
	m.prompt = kind
	m.target = target
	m.input.Reset()
	m.input.SetValue(value)
	switch kind {
	case promptAddChild:
		m.input.Placeholder = "text of the new child"
	case promptAddRoot:
		m.input.Placeholder = "text of the new root"
	case promptRename:
		m.input.Placeholder = "new text"
	case promptNewMap:
		m.input.Placeholder = "name of the new map"
	}
	return m, tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m editorModel) startConfirm(kind confirmKind, target string) (tea.Model, tea.Cmd) {
	m.state = stateConfirm
	m.confirm = kind
	m.target = target
	return m, nil
}

func (m *editorModel) submit(value string) {
	switch m.prompt {
	case promptAddChild, promptAddRoot:
		var (
			n   *mindmap.Node
			err error
		)
		if m.prompt == promptAddRoot {
			n, err = m.s.AddRoot(m.ctx, value)
		} else {
			n, err = m.s.AddChild(m.ctx, m.target, value)
		}
		if err != nil {
			m.fail(err)
			return
		}
		m.selected = n.ID
		m.info("added %s", n.ID)
	case promptRename:
		if err := m.s.Rename(m.ctx, m.target, value); err != nil {
			m.fail(err)
			return
		}
		m.info("renamed %s", m.target)
	case promptNewMap:
		if err := m.s.NewMap(m.ctx, value); err != nil {
			m.fail(err)
			return
		}
		m.selectFirstRoot()
		m.info("created map %q", m.s.Name())
	}
}

func (m *editorModel) nudge(dir string) {
	n, ok := m.s.Map().Node(m.selected)
	if !ok || n.Position == nil {
		return
	}
	x, y := n.Position.X, n.Position.Y
	switch dir {
	case "up":
		y--
	case "down":
		y++
	case "left":
		x--
	case "right":
		x++
	}
	if _, err := m.s.MoveNode(m.ctx, n.ID, x, y); err != nil {
		m.fail(err)
	}
}

func (m editorModel) openPicker() (tea.Model, tea.Cmd) {
	maps, err := m.s.Maps(m.ctx)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	entries := make([]mapEntry, 0, len(maps))
	for _, name := range maps {
		nodes := 0
		if name == m.s.Name() {
			nodes = m.s.Map().Len()
		}
		entries = append(entries, mapEntry{Name: name, Nodes: nodes})
	}
	m.picker = newMapPicker(entries, m.s.Name(), m.height-8)
	m.state = statePicker
	return m, nil
}

func (m *editorModel) switchMap(step int) {
	maps, err := m.s.Maps(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	if len(maps) < 2 {
		return
	}
	i := 0
	for j, name := range maps {
		if name == m.s.Name() {
			i = j
		}
	}
	m.open(maps[(i+step+len(maps))%len(maps)])
}

func (m *editorModel) open(name string) {
	if err := m.s.Select(m.ctx, name); err != nil {
		m.fail(err)
		return
	}
	m.selectFirstRoot()
	m.info("editing %q", name)
}

func (m *editorModel) selectFirstRoot() {
	m.selected = ""
	if roots := m.s.Map().Roots(); len(roots) > 0 {
		m.selected = roots[0].ID
	}
}

// cycle returns the node step positions away from the selection in
// insertion order.
func (m editorModel) cycle(step int) string {
	ids := m.s.Map().IDs()
	if len(ids) == 0 {
		return ""
	}
	i := -1
	for j, id := range ids {
		if id == m.selected {
			i = j
		}
	}
	if i < 0 {
		return ids[0]
	}
	return ids[(i+step+len(ids))%len(ids)]
}

func (m *editorModel) info(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *editorModel) fail(err error) {
	m.status = errors.UserMessage(err)
	m.statusErr = true
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) View() string {
	v := m.s.View()

	header := StyleTitle.Render(appName) + " " + StyleValue.Render(v.Map) + " " +
		StyleDim.Render(fmt.Sprintf("· %s · %d nodes", v.Mode, len(v.Nodes)))

	canvasHeight := max(m.height-headerLines-footerLines, 0)
	overlay := lipgloss.NewStyle().Height(canvasHeight).MaxHeight(canvasHeight)
	var body string
	switch {
	case m.state == statePicker:
		body = overlay.Render(m.picker.view())
	case m.help.ShowAll:
		body = overlay.Render(StyleTitle.Render("Keys") + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()))
	default:
		body = renderView(v, m.width, canvasHeight, m.selected)
	}

	status := StyleDim.Render(m.status)
	if m.statusErr {
		status = styleIconError.Render(iconError + " " + m.status)
	}

	var footer string
	switch m.state {
	case statePrompt:
		footer = m.input.View()
	case stateConfirm:
		q := fmt.Sprintf("Delete %s and everything below it?", m.target)
		if m.confirm == confirmDeleteMap {
			q = fmt.Sprintf("Delete map %q?", m.target)
		}
		footer = StyleWarning.Render(q) + " " + StyleDim.Render("[y/N]")
	default:
		footer = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	return strings.Join([]string{header, body, status, footer}, "\n")
}

var _ tea.Model = editorModel{}
