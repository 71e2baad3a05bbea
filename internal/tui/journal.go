package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/inapp/internal/presentation"
)

// journal stands in for the host during a preview: analytics, actions and
// developer diagnostics become messages shown in the footer.
type journal struct {
	presentation.EventLog
	post func(tea.Msg)
}

func newJournal(post func(tea.Msg)) journal {
	return journal{
		EventLog: presentation.EventLog{Emit: func(line string) { post(JournalMsg{Line: line}) }},
		post:     post,
	}
}

func (j journal) ShowDevError(title, body string, done func()) {
	j.post(DevErrorMsg{Title: title, Body: body, done: done})
}
