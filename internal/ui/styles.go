package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Cursor   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Faint    lipgloss.Style
	Box      lipgloss.Style
	Args     lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:    base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle: base.Faint(true),
		Header:   base.Bold(true).Foreground(lipgloss.Color("#60A5FA")),
		Label:    base.Foreground(lipgloss.Color("#A3A3A3")),
		Value:    base.Foreground(lipgloss.Color("#D1D5DB")),
		Cursor:   base.Bold(true).Foreground(lipgloss.Color("#22D3EE")),
		Success:  base.Foreground(lipgloss.Color("#22C55E")),
		Error:    base.Foreground(lipgloss.Color("#EF4444")),
		Warning:  base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:    base.Faint(true),
		Box:      base.Padding(0, 1),
		Args:     base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#D946EF")).Padding(0, 1),
	}
}
