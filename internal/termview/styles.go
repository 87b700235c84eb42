// Package termview previews renders in the terminal: encoding heatmaps as
// coloured cells, encoding dimensions as line charts, and braille frames
// played back through bubbletea.
package termview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/attnviz/internal/palette"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Frame  lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

func NewStyles(t palette.Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			MarginBottom(1),
		Label: lipgloss.NewStyle().Foreground(t.Secondary),
		Muted: lipgloss.NewStyle().Foreground(t.Muted),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Foreground(t.Text).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(t.Accent),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}
