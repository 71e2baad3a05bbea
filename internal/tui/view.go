package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/inapp/internal/ui"
)

const helpText = "tab focus • enter tap • esc close • q quit"

// View renders the current state of the model.
func (m Model) View() string {
	if m.devError != nil {
		box := devErrorStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			devErrorTitleStyle.Render(m.devError.Title),
			"",
			m.devError.Body,
			"",
			helpStyle.Render("enter to close"),
		))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	screen := m.painter.Paint(m.tree, ui.State{
		Focused:   m.focused(),
		Spinner:   m.spinner.View(),
		Remaining: m.remaining(),
	})

	footer := make([]string, 0, footerLines)
	footer = append(footer, helpStyle.Render(helpText))
	for i := range journalSize {
		line := ""
		if i < len(m.journal) {
			line = journalStyle.Render(m.journal[i])
		}
		footer = append(footer, line)
	}

	return screen + "\n" + strings.Join(footer, "\n")
}
