package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tree.Resize(m.painter.Grid().Viewport(m.width, max(m.height-footerLines, 1)))
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tickMsg:
		if m.finished || m.controller.AutoCloseDelay() <= 0 {
			return m, nil
		}
		return m, tick()
	case imageDoneMsg:
		msg.apply()
		return m, m.hub.listen()
	case JournalMsg:
		m.journal = append(m.journal, msg.Line)
		if len(m.journal) > journalSize {
			m.journal = m.journal[len(m.journal)-journalSize:]
		}
		return m, m.hub.listen()
	case DevErrorMsg:
		m.devError = &msg
		return m, m.hub.listen()
	case DismissedMsg:
		m.reason = msg.Reason
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancelled = true
		m.finished = true
		return m, tea.Quit
	}

	if m.devError != nil {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			done := m.devError.done
			m.devError = nil
			if done != nil {
				done()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.cancelled = true
		m.finished = true
		return m, tea.Quit
	case "tab", "right", "down":
		if n := len(m.tree.Interactive()); n > 0 {
			m.focus = (m.focus + 1) % n
		}
	case "shift+tab", "left", "up":
		if n := len(m.tree.Interactive()); n > 0 {
			m.focus = (m.focus - 1 + n) % n
		}
	case "enter", " ":
		if v := m.focused(); v != nil {
			v.OnTap()
		}
	case "esc":
		m.controller.Close()
	}
	return m, nil
}
