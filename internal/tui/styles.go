package tui

import "github.com/charmbracelet/lipgloss"

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	journalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	devErrorTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	devErrorStyle      = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("196")).
				Padding(1, 2)
)
