package ui

import (
	"github.com/charmbracelet/lipgloss"

	"kmadmin/internal/grid"
)

// Color palette
var (
	ColorBase    = lipgloss.Color("#141A23")
	ColorSurface = lipgloss.Color("#1F2835")
	ColorMuted   = lipgloss.Color("#6B7A8F")
	ColorText    = lipgloss.Color("#D8DEE9")
	ColorAccent  = lipgloss.Color("#5FA8D3")
	ColorGreen   = lipgloss.Color("#7FC97F")
	ColorRed     = lipgloss.Color("#E06C75")
	ColorYellow  = lipgloss.Color("#E5C07B")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Padding(0, 1).
				Background(ColorSurface)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorBase).
				Background(ColorAccent)

	NormalRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorSurface).
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorAccent)

	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BreadcrumbActiveStyle = lipgloss.NewStyle().
				Foreground(ColorAccent)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(2, 4)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	LinkStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Underline(true)

	ActionStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

var toneStyles = map[grid.Tone]lipgloss.Style{
	grid.ToneSuccess: lipgloss.NewStyle().Foreground(ColorGreen),
	grid.ToneFail:    lipgloss.NewStyle().Foreground(ColorRed),
	grid.ToneMuted:   lipgloss.NewStyle().Foreground(ColorMuted),
	grid.ToneWarn:    lipgloss.NewStyle().Foreground(ColorYellow),
}

// ToneStyle returns the foreground style for a cell tone.
func ToneStyle(t grid.Tone) lipgloss.Style {
	if s, ok := toneStyles[t]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
