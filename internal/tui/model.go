// Package tui provides a bubbletea viewer for month-by-month series.
package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finlens/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	maxCellWidth  = 24
	// Lines taken by the tab bar, status bar and help line.
	chromeHeight = 6
)

// Model holds the viewer state.
type Model struct {
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	table    table.Model
	views    []Series
	active   int
	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the color theme.
func WithTheme(t themes.Theme) Option {
	return func(m *Model) {
		m.theme = t
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// New creates a viewer over views. The first view is shown initially.
func New(views []Series, opts ...Option) Model {
	m := Model{
		theme:  themes.Default,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		views:  views,
		width:  defaultWidth,
		height: defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.table = table.New(
		table.WithFocused(true),
		table.WithKeyMap(m.keymap.Table),
	)
	m.table.SetStyles(table.Styles{
		Header:   m.theme.Header,
		Cell:     m.theme.Cell,
		Selected: m.theme.Selected,
	})
	m.resize()
	m.showView(0)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.keymap.NextView):
			m.showView(m.active + 1)
			return m, nil
		case key.Matches(msg, m.keymap.PrevView):
			m.showView(m.active - 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.views) == 0 {
		return m.theme.Subtitle.Render("Nothing to show.") + "\n"
	}

	sections := []string{
		m.renderTabs(),
		m.theme.RoundedBox.Render(m.table.View()),
		m.renderStatusBar(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Active returns the index of the view being shown.
func (m Model) Active() int {
	return m.active
}

// Cursor returns the selected row of the current view.
func (m Model) Cursor() int {
	return m.table.Cursor()
}

// showView switches to view i, wrapping around at both ends.
func (m *Model) showView(i int) {
	if len(m.views) == 0 {
		return
	}
	n := len(m.views)
	m.active = ((i % n) + n) % n
	s := m.views[m.active]

	rows := make([]table.Row, len(s.Rows))
	for r, cells := range s.Rows {
		rows[r] = table.Row(cells)
	}

	// Rows of the previous view must not outlive its columns.
	m.table.SetRows(nil)
	m.table.SetColumns(columnsFor(s))
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *Model) resize() {
	m.help.Width = m.width
	helpLines := 1
	if m.help.ShowAll {
		helpLines = 4
	}
	m.table.SetWidth(m.width - 2)
	m.table.SetHeight(max(3, m.height-chromeHeight-helpLines))
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(m.views))
	for i, s := range m.views {
		if i == m.active {
			tabs[i] = m.theme.TabActive.Render(s.Title)
		} else {
			tabs[i] = m.theme.TabIdle.Render(s.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatusBar() string {
	rows := len(m.views[m.active].Rows)
	pos := 0
	if rows > 0 {
		pos = m.table.Cursor() + 1
	}
	status := fmt.Sprintf("view %d/%d • row %d of %d", m.active+1, len(m.views), pos, rows)
	return m.theme.StatusBar.Render(status)
}

// columnsFor sizes each column to its widest cell.
func columnsFor(s Series) []table.Column {
	cols := make([]table.Column, len(s.Columns))
	for i, title := range s.Columns {
		width := lipgloss.Width(title)
		for _, row := range s.Rows {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		cols[i] = table.Column{Title: strings.TrimSpace(title), Width: min(width, maxCellWidth)}
	}
	return cols
}
