// Package tui previews a message in the terminal with Bubbletea. The program
// goroutine plays the UI thread: image completions, dismissals and diagnostics
// raised elsewhere are posted to it as messages.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/inapp/internal/config"
	"github.com/alexisbeaulieu97/inapp/internal/images"
	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/metrics"
	"github.com/alexisbeaulieu97/inapp/internal/presentation"
	"github.com/alexisbeaulieu97/inapp/internal/render"
	"github.com/alexisbeaulieu97/inapp/internal/ui"
)

const (
	journalSize = 3
	footerLines = journalSize + 1
	hubSize     = 64
)

// JournalMsg is a host event recorded during the preview.
type JournalMsg struct {
	Line string
}

// DevErrorMsg asks the preview to show a developer diagnostic.
type DevErrorMsg struct {
	Title string
	Body  string
	done  func()
}

// DismissedMsg reports that the message was dismissed.
type DismissedMsg struct {
	Reason presentation.Reason
}

type imageDoneMsg struct {
	apply func()
}

type tickMsg struct{}

// Options configures a preview Model.
type Options struct {
	Message *message.Message
	// Config supplies the render context and image settings; nil uses the defaults.
	Config *config.Config
	// Downloader defaults to an HTTP downloader built from Config.
	Downloader images.Downloader
	Painter    *ui.Painter
	Scheduler  presentation.Scheduler
	Logger     *logger.Logger
	Metrics    *metrics.Recorder
	Now        func() time.Time
	// Width and Height are the initial terminal size in cells.
	Width  int
	Height int
}

// Model contains the Bubbletea state of a message preview.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	hub        *hub
	msg        *message.Message
	controller *presentation.Controller
	session    *images.Session
	tree       *render.Tree
	painter    *ui.Painter
	spinner    spinner.Model
	now        func() time.Time

	width       int
	height      int
	focus       int
	presentedAt time.Time
	journal     []string
	devError    *DevErrorMsg
	reason      presentation.Reason
	finished    bool
	cancelled   bool
}

// NewModel renders msg, presents it and starts loading its images.
// Close must be called once the program is done.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	painter := opts.Painter
	if painter == nil {
		painter = ui.NewPainter(ui.Options{})
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = 80, 24
	}

	h := newHub(hubSize)
	host := newJournal(h.post)
	controller := presentation.NewController(opts.Message, presentation.Deps{
		Analytics: host,
		Actions:   host,
		Scheduler: opts.Scheduler,
		DevErrors: host,
		OnDismiss: func(reason presentation.Reason) { h.post(DismissedMsg{Reason: reason}) },
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
		Now:       now,
	})

	downloader := opts.Downloader
	if downloader == nil {
		httpOpts := cfg.DownloaderOptions()
		httpOpts.Logger, httpOpts.Metrics = opts.Logger, opts.Metrics
		downloader = images.NewHTTPDownloader(httpOpts)
	}
	sessionOpts := cfg.SessionOptions()
	sessionOpts.Logger = opts.Logger
	session := images.NewSession(downloader, images.DispatcherFunc(func(fn func()) {
		h.post(imageDoneMsg{apply: fn})
	}), sessionOpts)

	grid := painter.Grid()
	renderCtx := cfg.RenderContext()
	renderCtx.Layout = grid.Layout()
	renderCtx.Viewport = grid.Viewport(width, max(height-footerLines, 1))
	tree := render.New(renderCtx, controller, opts.Logger).Render(opts.Message, session)

	if err := controller.Present(); err != nil {
		h.close()
		return Model{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		ctx:         ctx,
		cancel:      cancel,
		hub:         h,
		msg:         opts.Message,
		controller:  controller,
		session:     session,
		tree:        tree,
		painter:     painter,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		now:         now,
		width:       width,
		height:      height,
		presentedAt: now(),
	}
	session.Load(ctx, opts.Message, tree, controller.DismissForError)
	return m, nil
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.hub.listen(), m.spinner.Tick, tick())
}

// Close stops pending downloads and drops late events.
func (m Model) Close() {
	m.cancel()
	m.session.Close()
	m.hub.close()
	m.session.Wait()
}

// Controller exposes the presentation controller, e.g. to route web bridge calls.
func (m Model) Controller() *presentation.Controller {
	return m.controller
}

// Tree returns the rendered view tree.
func (m Model) Tree() *render.Tree {
	return m.tree
}

// Reason is the dismissal reason, empty while the message is shown.
func (m Model) Reason() presentation.Reason {
	return m.reason
}

// Journal returns the host events recorded so far, newest last.
func (m Model) Journal() []string {
	return append([]string(nil), m.journal...)
}

// IsFinished reports whether the preview has ended.
func (m Model) IsFinished() bool {
	return m.finished
}

// Cancelled reports whether the user quit before the message was dismissed.
func (m Model) Cancelled() bool {
	return m.cancelled
}

func (m Model) focused() *render.View {
	views := m.tree.Interactive()
	if len(views) == 0 {
		return nil
	}
	return views[m.focus%len(views)]
}

// remaining is the time left before auto close, zero when the message does not auto close.
func (m Model) remaining() time.Duration {
	delay := m.controller.AutoCloseDelay()
	if delay <= 0 {
		return 0
	}
	left := delay - m.now().Sub(m.presentedAt)
	return max(left, time.Nanosecond)
}
