package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const countdownInterval = 100 * time.Millisecond

// hub carries messages produced off the UI goroutine into the program. Posting
// after close is a no-op.
type hub struct {
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

func newHub(size int) *hub {
	return &hub{events: make(chan tea.Msg, size), done: make(chan struct{})}
}

func (h *hub) post(msg tea.Msg) {
	select {
	case h.events <- msg:
	case <-h.done:
	}
}

// listen waits for the next posted message.
func (h *hub) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-h.events:
			return msg
		case <-h.done:
			return nil
		}
	}
}

func (h *hub) close() {
	h.once.Do(func() { close(h.done) })
}

func tick() tea.Cmd {
	return tea.Tick(countdownInterval, func(time.Time) tea.Msg { return tickMsg{} })
}
