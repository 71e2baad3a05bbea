package images

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/parser"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

type fakeDownloader struct {
	results map[string]Result
	errs    map[string]error
	gate    chan struct{}

	mu     sync.Mutex
	calls  map[string]int
	active int
	peak   int
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{
		results: map[string]Result{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeDownloader) Download(ctx context.Context, url string) (Result, error) {
	f.mu.Lock()
	f.calls[url]++
	f.active++
	f.peak = max(f.peak, f.active)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if err := f.errs[url]; err != nil {
		return Result{}, err
	}
	return f.results[url], nil
}

func (f *fakeDownloader) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type recordingTarget struct {
	mu     sync.Mutex
	events []string
	errs   map[string]error
}

func (r *recordingTarget) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTarget) ShowLoading(id string)        { r.record("loading:" + id) }
func (r *recordingTarget) SetImage(id string, _ Result) { r.record("loaded:" + id) }
func (r *recordingTarget) ShowFailed(id string, err error) {
	r.record("failed:" + id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errs == nil {
		r.errs = map[string]error{}
	}
	r.errs[id] = err
}

func (r *recordingTarget) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func mustParse(t *testing.T, payload string) *message.Message {
	t.Helper()
	msg, err := parser.ParseMessage([]byte(payload))
	require.NoError(t, err)
	return msg
}

const twoImages = `{
  "format": "fullscreen",
  "root": {"children": [
    {"type": "image", "id": "a", "height": "100px"},
    {"type": "columns", "ratios": [1], "children": [{"type": "image", "id": "b", "height": "auto"}]}
  ]},
  "urls": {"a": "https://cdn/a.png", "b": "https://cdn/b.png"}
}`

const soleImage = `{
  "format": "modal",
  "root": {"children": [{"type": "image", "id": "only", "height": "auto"}]},
  "urls": {"only": "https://cdn/only.png"}
}`

func nextN(t *testing.T, q *QueueDispatcher, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for range n {
		require.NoError(t, q.Next(ctx))
	}
}

func TestSessionLoadsThroughDispatcher(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.results["https://cdn/a.png"] = Result{URL: "https://cdn/a.png", Width: 10, Height: 5}
	d.results["https://cdn/b.png"] = Result{URL: "https://cdn/b.png", Width: 20, Height: 5}
	q := NewQueueDispatcher(8)
	defer q.Close()

	s := NewSession(d, q, Options{Workers: 2, Logger: logger.Nop()})
	target := &recordingTarget{}
	s.Load(context.Background(), mustParse(t, twoImages), target, nil)

	require.Equal(t, []string{"loading:a", "loading:b"}, target.Events())
	_, cached := s.Cached("a")
	require.False(t, cached)

	nextN(t, q, 2)
	s.Wait()

	require.ElementsMatch(t, []string{"loading:a", "loading:b", "loaded:a", "loaded:b"}, target.Events())
	a, ok := s.Cached("a")
	require.True(t, ok)
	require.Equal(t, 10, a.Width)
	require.Zero(t, s.InFlight())
}

func TestSessionSkipsCachedAndInFlightImages(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.gate = make(chan struct{})
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{})
	msg := mustParse(t, twoImages)
	target := &recordingTarget{}

	s.Load(context.Background(), msg, target, nil)
	s.Load(context.Background(), msg, target, nil)
	require.Equal(t, 2, s.InFlight())

	close(d.gate)
	nextN(t, q, 2)
	s.Wait()

	s.Load(context.Background(), msg, target, nil)
	s.Wait()
	require.Equal(t, 2, d.totalCalls())
	require.Zero(t, q.Drain())
}

func TestSessionBoundsConcurrentDownloads(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.gate = make(chan struct{})
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{Workers: 1})

	s.Load(context.Background(), mustParse(t, twoImages), &recordingTarget{}, nil)
	require.Eventually(t, func() bool { return d.totalCalls() == 1 }, time.Second, time.Millisecond)
	require.Never(t, func() bool { return d.totalCalls() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	close(d.gate)
	nextN(t, q, 2)
	s.Wait()
	require.Equal(t, 1, d.peak)
}

func TestSessionReportsFatalFailureOfSoleImage(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.errs["https://cdn/only.png"] = inapperrors.NewDisplayError(inapperrors.CauseServerFailure, "", errors.New("status 500"))
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{})
	target := &recordingTarget{}

	var fatal error
	s.Load(context.Background(), mustParse(t, soleImage), target, func(err error) { fatal = err })
	nextN(t, q, 1)
	s.Wait()

	require.Equal(t, []string{"loading:only", "failed:only"}, target.Events())
	var display *inapperrors.DisplayError
	require.ErrorAs(t, fatal, &display)
	require.Equal(t, inapperrors.CauseServerFailure, display.Cause)
	require.Equal(t, "only", display.ComponentID)
	_, cached := s.Cached("only")
	require.False(t, cached)
}

func TestSessionFailureOfOneImageAmongMany(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.errs["https://cdn/a.png"] = errors.New("boom")
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{})
	target := &recordingTarget{}

	called := false
	s.Load(context.Background(), mustParse(t, twoImages), target, func(error) { called = true })
	nextN(t, q, 2)
	s.Wait()

	require.False(t, called)
	require.Contains(t, target.Events(), "failed:a")
	require.Contains(t, target.Events(), "loaded:b")
	require.Equal(t, inapperrors.CauseUnknown, inapperrors.CauseOf(target.errs["a"]))
}

func TestSessionFailsImagesWithoutURL(t *testing.T) {
	t.Parallel()

	msg := mustParse(t, `{
  "format": "modal",
  "root": {"children": [{"type": "image", "id": "only", "height": "auto"}]}
}`)
	d := newFakeDownloader()
	q := NewQueueDispatcher(1)
	defer q.Close()
	s := NewSession(d, q, Options{})
	target := &recordingTarget{}

	var fatal error
	s.Load(context.Background(), msg, target, func(err error) { fatal = err })

	require.Equal(t, []string{"failed:only"}, target.Events())
	require.Equal(t, inapperrors.CauseInvalidImage, inapperrors.CauseOf(fatal))
	require.Zero(t, d.totalCalls())
}

func TestSessionCloseCancelsInFlightDownloads(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.gate = make(chan struct{})
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{})
	target := &recordingTarget{}

	s.Load(context.Background(), mustParse(t, twoImages), target, nil)
	require.Eventually(t, func() bool { return d.totalCalls() == 2 }, time.Second, time.Millisecond)

	s.Close()
	s.Wait()
	require.Equal(t, 2, q.Drain())

	require.Equal(t, []string{"loading:a", "loading:b"}, target.Events())
	require.Zero(t, s.InFlight())

	s.Load(context.Background(), mustParse(t, twoImages), target, nil)
	require.Equal(t, 2, d.totalCalls())
	s.Close()
}

func TestSessionAttachReplaysOntoNewTarget(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.results["https://cdn/a.png"] = Result{Width: 1, Height: 1}
	d.errs["https://cdn/b.png"] = errors.New("boom")
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{})

	first := &recordingTarget{}
	s.Load(context.Background(), mustParse(t, twoImages), first, nil)
	nextN(t, q, 2)
	s.Wait()

	second := &recordingTarget{}
	s.Attach(second)
	require.Equal(t, []string{"loaded:a", "failed:b"}, second.Events())
}

func TestSessionAttachRedirectsInFlightCompletions(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.gate = make(chan struct{})
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{})

	first := &recordingTarget{}
	s.Load(context.Background(), mustParse(t, soleImage), first, nil)

	second := &recordingTarget{}
	s.Attach(second)
	require.Equal(t, []string{"loading:only"}, second.Events())

	close(d.gate)
	nextN(t, q, 1)
	s.Wait()

	require.Equal(t, []string{"loading:only"}, first.Events())
	require.Equal(t, []string{"loading:only", "loaded:only"}, second.Events())
}

func TestSessionCallerCancellationFailsImage(t *testing.T) {
	t.Parallel()

	d := newFakeDownloader()
	d.gate = make(chan struct{})
	q := NewQueueDispatcher(8)
	defer q.Close()
	s := NewSession(d, q, Options{})
	target := &recordingTarget{}

	ctx, cancel := context.WithCancel(context.Background())
	s.Load(ctx, mustParse(t, soleImage), target, nil)
	cancel()
	nextN(t, q, 1)
	s.Wait()

	require.Equal(t, []string{"loading:only", "failed:only"}, target.Events())
	require.Equal(t, inapperrors.CauseClientNetwork, inapperrors.CauseOf(target.errs["only"]))
}

func TestQueueDispatcher(t *testing.T) {
	t.Parallel()

	q := NewQueueDispatcher(4)
	ran := 0
	q.Dispatch(func() { ran++ })
	q.Dispatch(func() { ran++ })
	require.Equal(t, 2, q.Drain())
	require.Equal(t, 2, ran)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, q.Next(ctx), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() { done <- q.Run(context.Background()) }()
	ranInLoop := make(chan struct{})
	q.Dispatch(func() { close(ranInLoop) })
	<-ranInLoop
	q.Close()
	require.NoError(t, <-done)

	q.Dispatch(func() { ran++ })
	require.Zero(t, q.Drain())
	require.Equal(t, 2, ran)

	var direct bool
	DispatcherFunc(func(fn func()) { fn() }).Dispatch(func() { direct = true })
	require.True(t, direct)
}
