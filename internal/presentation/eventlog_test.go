package presentation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/inapp/internal/message"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

func TestEventLogLines(t *testing.T) {
	t.Parallel()

	var lines []string
	log := EventLog{Emit: func(line string) { lines = append(lines, line) }}

	log.OnClosed()
	log.OnCTAClicked("ok", message.CTAButton, message.CTA{Label: "Shop now"})
	log.OnClosedError(inapperrors.CauseInvalidImage)
	log.OnAutoClosedAfterDelay()
	log.OnWebViewClickTracked(message.Action{Name: ActionDismiss}, "cta-1")
	require.NoError(t, log.PerformAction(nil, message.Action{Name: ActionDeeplink, Args: map[string]any{"l": "app://shop"}}))

	require.Equal(t, []string{
		"analytics: closed",
		`analytics: button "ok" clicked (Shop now)`,
		"analytics: closed on error (invalid_image)",
		"analytics: auto closed",
		`analytics: web click batch.dismiss id="cta-1"`,
		"action: batch.deeplink map[l:app://shop]",
	}, lines)
}

func TestEventLogWithoutEmitDiscards(t *testing.T) {
	t.Parallel()

	var log EventLog
	require.NotPanics(t, func() {
		log.OnClosed()
		require.NoError(t, log.PerformAction(nil, message.Action{Name: ActionDismiss}))
	})
}

func TestEventLogDrivesController(t *testing.T) {
	t.Parallel()

	var lines []string
	events := EventLog{Emit: func(line string) { lines = append(lines, line) }}
	msg := message.New(message.Params{TrackingID: "campaign-1"})
	c := NewController(msg, Deps{Analytics: events, Actions: events, Scheduler: &fakeScheduler{}})
	require.NoError(t, c.Present())

	action := message.Action{Name: "batch.noop", Args: map[string]any{}}
	c.OnCTAAction("ok", message.CTAButton, message.CTA{Label: "Go", Action: &action})

	require.Equal(t, []string{
		`analytics: button "ok" clicked (Go)`,
		"action: batch.noop map[]",
	}, lines)
}
