package presentation

import (
	"fmt"

	"github.com/alexisbeaulieu97/inapp/internal/message"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

// EventLog is an AnalyticsDelegate and ActionDispatcher that describes every
// call as one line of text. Actions always succeed.
type EventLog struct {
	Emit func(line string)
}

func (l EventLog) line(format string, args ...any) {
	if l.Emit != nil {
		l.Emit(fmt.Sprintf(format, args...))
	}
}

func (l EventLog) OnClosed() {
	l.line("analytics: closed")
}

func (l EventLog) OnCTAClicked(componentID string, kind message.CTAType, cta message.CTA) {
	l.line("analytics: %s %q clicked (%s)", kind, componentID, cta.Label)
}

func (l EventLog) OnClosedError(cause inapperrors.ErrorCause) {
	l.line("analytics: closed on error (%s)", cause)
}

func (l EventLog) OnAutoClosedAfterDelay() {
	l.line("analytics: auto closed")
}

func (l EventLog) OnWebViewClickTracked(action message.Action, analyticsID string) {
	l.line("analytics: web click %s id=%q", action.Name, analyticsID)
}

func (l EventLog) PerformAction(_ *message.Message, action message.Action) error {
	l.line("action: %s %v", action.Name, action.Args)
	return nil
}
