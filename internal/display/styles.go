package display

import "github.com/charmbracelet/lipgloss"

// styles are bound to a renderer so output adapts to its colour profile.
type styles struct {
	header lipgloss.Style
	hole   lipgloss.Style
	empty  lipgloss.Style
	store  lipgloss.Style
	index  lipgloss.Style
	turn   lipgloss.Style
	result lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		hole: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")),
		empty: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		store: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		index: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		turn: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		result: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
	}
}
