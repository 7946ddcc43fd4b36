// Package tui is the terminal front end of basisview: one panel per image
// with a format selector and the decoded sizes.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/woozymasta/basisview/internal/view"
)

// RefreshInterval is how often panels re-read view state.
const RefreshInterval = 250 * time.Millisecond

// Viewer is the view surface the model drives.
type Viewer interface {
	State() view.State
	SelectFormat(name string) error
	Reload(ctx context.Context) error
}

// SnapshotFunc saves the current frame of image index and returns where.
type SnapshotFunc func(index int) (string, error)

// RefreshMsg asks the model to re-read view state, e.g. after a reload
// triggered outside the UI.
type RefreshMsg struct{}

type tickMsg time.Time

type snapshotMsg struct {
	path string
	err  error
}

type reloadMsg struct {
	index int
	err   error
}

// Model is the bubbletea model. It holds no view state of its own beyond
// what was last read from the views.
type Model struct {
	views    []Viewer
	snapshot SnapshotFunc
	theme    *Theme
	printer  *message.Printer

	active int
	states []view.State
	status string
	err    error
	table  table.Model
	width  int
}

// New creates a model over views. snapshot may be nil.
func New(views []Viewer, snapshot SnapshotFunc) Model {
	m := Model{
		views:    views,
		snapshot: snapshot,
		theme:    DefaultTheme(),
		printer:  message.NewPrinter(language.English),
		width:    80,
	}
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithHeight(min(len(views)+1, 8)),
		table.WithStyles(m.theme.tableStyles()),
	)
	m.refresh()

	return m
}

// Active returns the index of the selected image.
func (m Model) Active() int {
	return m.active
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(m.columns())

	case tickMsg:
		m.refresh()
		return m, tick()

	case RefreshMsg:
		m.refresh()

	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "saved " + msg.path
		}

	case reloadMsg:
		m.err = msg.err
		m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.views) == 0 {
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "tab", "down", "j":
		m.active = (m.active + 1) % len(m.views)
		m.table.SetCursor(m.active)

	case "shift+tab", "up", "k":
		m.active = (m.active + len(m.views) - 1) % len(m.views)
		m.table.SetCursor(m.active)

	case "right", "l":
		m.cycleFormat(1)

	case "left", "h":
		m.cycleFormat(-1)

	case "r":
		return m, m.reload(m.active)

	case "s":
		if m.snapshot != nil {
			return m, m.takeSnapshot(m.active)
		}
	}

	return m, nil
}

// cycleFormat selects the next or previous supported format of the active
// image.
func (m *Model) cycleFormat(step int) {
	st := m.states[m.active]
	if len(st.Formats) == 0 {
		return
	}

	i := indexOf(st.Formats, st.Format)
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = len(st.Formats) - 1
	default:
		i = (i + step + len(st.Formats)) % len(st.Formats)
	}

	m.err = m.views[m.active].SelectFormat(st.Formats[i])
	m.status = ""
	m.refresh()
}

func (m Model) reload(index int) tea.Cmd {
	v := m.views[index]
	return func() tea.Msg {
		return reloadMsg{index: index, err: v.Reload(context.Background())}
	}
}

func (m Model) takeSnapshot(index int) tea.Cmd {
	fn := m.snapshot
	return func() tea.Msg {
		path, err := fn(index)
		return snapshotMsg{path: path, err: err}
	}
}

func (m *Model) refresh() {
	m.states = make([]view.State, len(m.views))
	rows := make([]table.Row, len(m.views))
	for i, v := range m.views {
		st := v.State()
		m.states[i] = st
		rows[i] = table.Row{
			filepath.Base(st.Source),
			st.Phase.String(),
			st.Format,
			m.bytes(st.DecodedSize),
		}
	}
	m.table.SetRows(rows)
}

func (m Model) columns() []table.Column {
	name := max(m.width-4-10-12-14-8, 16)
	return []table.Column{
		{Title: "Image", Width: name},
		{Title: "State", Width: 10},
		{Title: "Format", Width: 12},
		{Title: "Size", Width: 14},
	}
}

func (m Model) bytes(n int) string {
	return m.printer.Sprintf("%d", n)
}

// View implements tea.Model.
func (m Model) View() string {
	t := m.theme
	if len(m.views) == 0 {
		return t.Box.Render(t.Muted.Render("no images"))
	}

	st := m.states[m.active]

	var b strings.Builder
	b.WriteString(t.Title.Render(st.Source))
	b.WriteString("\n\n")
	b.WriteString(m.row("Extract Format", m.selector(st)))
	b.WriteString(m.row("Resolution", fmt.Sprintf("%dx%d", st.Width, st.Height)))
	b.WriteString(m.row("Container Size", m.bytes(st.CompressedSize)))
	b.WriteString(m.row(st.Format+" Size", m.bytes(st.DecodedSize)))
	b.WriteString(m.row("State", st.Phase.String()))

	parts := []string{t.Box.Render(strings.TrimRight(b.String(), "\n"))}
	if len(m.views) > 1 {
		parts = append(parts, m.table.View())
	}

	switch {
	case m.err != nil:
		parts = append(parts, t.Error.Render("Error: "+m.err.Error()))
	case m.status != "":
		parts = append(parts, t.Muted.Render(m.status))
	}

	help := "←/→ format • r reload • q quit"
	if m.snapshot != nil {
		help = "←/→ format • s snapshot • r reload • q quit"
	}
	if len(m.views) > 1 {
		help = "tab image • " + help
	}
	parts = append(parts, t.Muted.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) row(label, value string) string {
	return m.theme.Label.Render(label) + m.theme.Value.Render(value) + "\n"
}

func (m Model) selector(st view.State) string {
	if len(st.Formats) == 0 {
		return m.theme.Muted.Render("none")
	}

	opts := make([]string, len(st.Formats))
	for i, name := range st.Formats {
		if name == st.Format {
			opts[i] = m.theme.Selected.Render(name)
			continue
		}
		opts[i] = m.theme.Option.Render(name)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, opts...)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}

	return -1
}
