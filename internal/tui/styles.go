package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBrand  = lipgloss.Color("#8B5CF6")
	colorMuted  = lipgloss.Color("#94A3B8")
	colorBorder = lipgloss.Color("#334155")
	colorError  = lipgloss.Color("#F87171")
	colorOK     = lipgloss.Color("#34D399")
)

// Styles groups the lipgloss styles used by the renderers.
type Styles struct {
	Brand     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Price     lipgloss.Style
	Card      lipgloss.Style
	Stars     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
}

// DefaultStyles returns the shop palette.
func DefaultStyles() Styles {
	return Styles{
		Brand:     lipgloss.NewStyle().Bold(true).Foreground(colorBrand),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true),
		Title:     lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Price:     lipgloss.NewStyle().Bold(true).Foreground(colorBrand),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1),
		Stars:     lipgloss.NewStyle().Foreground(colorBrand),
		Error:     lipgloss.NewStyle().Foreground(colorError),
		Success:   lipgloss.NewStyle().Foreground(colorOK),
	}
}
