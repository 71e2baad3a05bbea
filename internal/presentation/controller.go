// Package presentation drives the lifecycle of one displayed message: presenting it,
// reacting to taps and web actions, and dismissing it exactly once.
package presentation

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/metrics"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

const (
	// ActionDismiss closes the message without doing anything else.
	ActionDismiss = "batch.dismiss"
	// ActionDeeplink opens the url in its "l" argument.
	ActionDeeplink = "batch.deeplink"

	// AnalyticsIDParam is the query parameter a web link can carry its analytics id in.
	AnalyticsIDParam = "batchAnalyticsID"

	maxAnalyticsIDLength = 30
)

// ErrNotPresentable is returned by Present once the controller left the created state.
var ErrNotPresentable = errors.New("message already presented or dismissed")

// State is the lifecycle position of a controller.
type State int

const (
	StateCreated State = iota
	StatePresented
	StateDismissed
)

func (s State) String() string {
	switch s {
	case StatePresented:
		return "presented"
	case StateDismissed:
		return "dismissed"
	default:
		return "created"
	}
}

// Reason says why a message was dismissed.
type Reason string

const (
	ReasonClosed     Reason = "closed"
	ReasonCTA        Reason = "cta"
	ReasonAutoClosed Reason = "auto_closed"
	ReasonError      Reason = "error"
	ReasonWebAction  Reason = "web_action"
)

// AnalyticsDelegate receives the events of a presentation.
type AnalyticsDelegate interface {
	OnClosed()
	OnCTAClicked(componentID string, kind message.CTAType, cta message.CTA)
	OnClosedError(cause inapperrors.ErrorCause)
	OnAutoClosedAfterDelay()
	// OnWebViewClickTracked receives an empty analyticsID when none was given or it was invalid.
	OnWebViewClickTracked(action message.Action, analyticsID string)
}

// ActionDispatcher performs host actions.
type ActionDispatcher interface {
	PerformAction(msg *message.Message, action message.Action) error
}

// DevErrorPresenter shows a diagnostic to developers and calls done once it is closed.
type DevErrorPresenter interface {
	ShowDevError(title, body string, done func())
}

// Deps are the collaborators of a Controller. Every field is optional.
type Deps struct {
	Analytics AnalyticsDelegate
	Actions   ActionDispatcher
	Scheduler Scheduler
	DevErrors DevErrorPresenter
	// OnDismiss tears the message UI down. It is called once, outside any lock.
	OnDismiss func(Reason)
	Logger    *logger.Logger
	Metrics   *metrics.Recorder
	Now       func() time.Time
}

// Controller owns the dismissal state of one presentation. It is safe for
// concurrent use: the auto-close timer may fire on another goroutine.
type Controller struct {
	msg  *message.Message
	deps Deps
	id   string
	log  *logger.Logger

	mu          sync.Mutex
	state       State
	timer       Timer
	presentedAt time.Time
}

// NewController creates a controller in the created state.
func NewController(msg *message.Message, deps Deps) *Controller {
	if deps.Scheduler == nil {
		deps.Scheduler = ClockScheduler{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	id := uuid.NewString()
	return &Controller{
		msg:  msg,
		deps: deps,
		id:   id,
		log: deps.Logger.WithFields(map[string]any{
			"presentation_id": id,
			"tracking_id":     msg.TrackingID,
		}),
	}
}

// ID identifies this presentation in logs.
func (c *Controller) ID() string { return c.id }

// Message returns the presented message.
func (c *Controller) Message() *message.Message { return c.msg }

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Present marks the message as shown and starts the auto-close countdown if any.
func (c *Controller) Present() error {
	c.mu.Lock()
	if c.state != StateCreated {
		c.mu.Unlock()
		return ErrNotPresentable
	}
	c.state = StatePresented
	c.presentedAt = c.deps.Now()
	c.mu.Unlock()

	c.log.WithFields(map[string]any{"format": c.msg.Format.String()}).Info("message presented")

	if delay := c.AutoCloseDelay(); delay > 0 {
		timer := c.deps.Scheduler.AfterFunc(delay, c.AutoClose)
		c.mu.Lock()
		if c.state == StatePresented {
			c.timer = timer
			timer = nil
		}
		c.mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return nil
}

// AutoCloseDelay returns the countdown duration, zero when the message does not auto-close.
func (c *Controller) AutoCloseDelay() time.Duration {
	if auto := c.msg.CloseOptions.Auto; auto != nil && auto.Delay > 0 {
		return auto.Delay
	}
	return 0
}

// dismiss is the only way into the dismissed state. It reports whether this call
// performed the transition; side effects run after the lock is released.
func (c *Controller) dismiss(reason Reason) bool {
	c.mu.Lock()
	if c.state == StateDismissed {
		c.mu.Unlock()
		return false
	}
	c.state = StateDismissed
	timer := c.timer
	c.timer = nil
	var shown time.Duration
	if !c.presentedAt.IsZero() {
		shown = c.deps.Now().Sub(c.presentedAt)
	}
	c.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	c.deps.Metrics.Dismissed(string(reason), shown)
	c.log.WithFields(map[string]any{"reason": string(reason), "shown": shown.String()}).Info("message dismissed")
	if c.deps.OnDismiss != nil {
		c.deps.OnDismiss(reason)
	}
	return true
}

func (c *Controller) perform(action message.Action) {
	if c.deps.Actions == nil {
		return
	}
	if err := c.deps.Actions.PerformAction(c.msg, action); err != nil {
		c.log.With("action", action.Name).Error(err, "action failed")
	}
}

// Close dismisses the message on user request.
func (c *Controller) Close() {
	if c.dismiss(ReasonClosed) && c.deps.Analytics != nil {
		c.deps.Analytics.OnClosed()
	}
}

// OnCloseAction is the close button callback.
func (c *Controller) OnCloseAction() { c.Close() }

// OnCTAAction dismisses, reports the click and then performs the CTA action.
func (c *Controller) OnCTAAction(componentID string, kind message.CTAType, cta message.CTA) {
	if !c.dismiss(ReasonCTA) {
		return
	}
	if c.deps.Analytics != nil {
		c.deps.Analytics.OnCTAClicked(componentID, kind, cta)
	}
	if cta.Action != nil {
		c.perform(*cta.Action)
	}
}

// AutoClose is called when the countdown elapses.
func (c *Controller) AutoClose() {
	if c.dismiss(ReasonAutoClosed) && c.deps.Analytics != nil {
		c.deps.Analytics.OnAutoClosedAfterDelay()
	}
}

// DismissForError closes the message because it cannot be displayed.
func (c *Controller) DismissForError(err error) {
	if !c.dismiss(ReasonError) {
		return
	}
	cause := inapperrors.CauseOf(err)
	c.log.With("cause", cause.String()).Error(err, "message dismissed because of an error")
	if c.deps.Analytics != nil {
		c.deps.Analytics.OnClosedError(cause)
	}
}

// OnDismissAction is the web bridge dismiss call.
func (c *Controller) OnDismissAction(analyticsID string) {
	c.OnPerformAction(ActionDismiss, map[string]any{}, analyticsID)
}

// OnOpenDeeplinkAction opens a link from web content. openInApp overrides the web
// view's in-app setting when non-nil. Without an explicit analyticsID, the link's
// batchAnalyticsID query parameter is used.
func (c *Controller) OnOpenDeeplinkAction(link string, openInApp *bool, analyticsID string) {
	if analyticsID == "" {
		analyticsID = AnalyticsIDFromURL(link)
	}
	web, ok := c.msg.WebViewComponent()
	if !ok {
		c.log.Warn("cannot open deeplink: web view component not found")
		return
	}
	inApp := web.InAppDeeplinks
	if openInApp != nil {
		inApp = *openInApp
	}
	c.OnPerformAction(ActionDeeplink, map[string]any{"l": link, "li": inApp}, analyticsID)
}

// OnPerformAction dismisses, performs the action and reports the web click.
func (c *Controller) OnPerformAction(name string, args map[string]any, analyticsID string) {
	if !c.dismiss(ReasonWebAction) {
		return
	}
	if args == nil {
		args = map[string]any{}
	}
	action := message.Action{Name: name, Args: args}
	c.perform(action)
	if c.deps.Analytics != nil {
		c.deps.Analytics.OnWebViewClickTracked(action, c.sanitizeAnalyticsID(analyticsID))
	}
}

func (c *Controller) sanitizeAnalyticsID(id string) string {
	if len(id) > maxAnalyticsIDLength {
		c.log.Error(
			fmt.Errorf("analytics id %q is longer than %d characters", id, maxAnalyticsIDLength),
			"could not track web view event with its analytics id, tracking it without one",
		)
		return ""
	}
	return id
}

// AnalyticsIDFromURL extracts the batchAnalyticsID query parameter of a link.
func AnalyticsIDFromURL(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return parsed.Query().Get(AnalyticsIDParam)
}
