package palette

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Box      lipgloss.Style
	Header   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Key      lipgloss.Style
	Format   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Item:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("231")),
		Key:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Format:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
