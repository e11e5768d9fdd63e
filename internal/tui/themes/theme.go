// Package themes holds the color schemes of the series viewer.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
	Selected   lipgloss.Style
	TabActive  lipgloss.Style
	TabIdle    lipgloss.Style
	StatusBar  lipgloss.Style
	Warning    lipgloss.Style
	RoundedBox lipgloss.Style
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Alert      lipgloss.Color
}

type palette struct {
	primary, foreground, muted, border, accent, alert, selectedText lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Muted:      p.muted,
		Border:     p.border,
		Foreground: p.foreground,
		Accent:     p.accent,
		Alert:      p.alert,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.muted),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.border).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Foreground(p.foreground).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.selectedText).
			Bold(true),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			Underline(true).
			Padding(0, 1),
		TabIdle: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.muted),
		Warning: lipgloss.NewStyle().
			Foreground(p.alert).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:      lipgloss.Color("#3b82f6"),
	foreground:   lipgloss.Color("#fafafa"),
	muted:        lipgloss.Color("#737373"),
	border:       lipgloss.Color("#404040"),
	accent:       lipgloss.Color("#10b981"),
	alert:        lipgloss.Color("#f59e0b"),
	selectedText: lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:      lipgloss.Color("#89b4fa"),
	foreground:   lipgloss.Color("#cdd6f4"),
	muted:        lipgloss.Color("#6c7086"),
	border:       lipgloss.Color("#45475a"),
	accent:       lipgloss.Color("#a6e3a1"),
	alert:        lipgloss.Color("#f9e2af"),
	selectedText: lipgloss.Color("#1e1e2e"),
})

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
