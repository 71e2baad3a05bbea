package images

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

// DefaultWorkers bounds concurrent downloads when Options.Workers is unset.
const DefaultWorkers = 4

// Target is the view side of an image: the rendered tree of a presentation.
// It is only called from the dispatcher goroutine.
type Target interface {
	ShowLoading(id string)
	SetImage(id string, result Result)
	ShowFailed(id string, err error)
}

// Options configures a Session.
type Options struct {
	Workers int
	Logger  *logger.Logger
}

// Session owns the image cache and the listeners of one presentation.
type Session struct {
	downloader Downloader
	dispatcher Dispatcher
	log        *logger.Logger
	pool       chan struct{}
	wg         sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	cache     map[string]Result
	failed    map[string]error
	inFlight  map[string]struct{}
	listeners map[string]Target
	cancels   []context.CancelFunc
}

// NewSession creates a Session.
func NewSession(downloader Downloader, dispatcher Dispatcher, opts Options) *Session {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Session{
		downloader: downloader,
		dispatcher: dispatcher,
		log:        opts.Logger.With("component", "images"),
		pool:       make(chan struct{}, workers),
		cache:      make(map[string]Result),
		failed:     make(map[string]error),
		inFlight:   make(map[string]struct{}),
		listeners:  make(map[string]Target),
	}
}

// Cached returns a downloaded image.
func (s *Session) Cached(id string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.cache[id]
	return r, ok
}

// InFlight reports how many downloads have not completed yet.
func (s *Session) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}

// Load starts downloading every image of msg that is neither cached nor already
// downloading, and binds all of them to target. onFatal, when set, is called with a
// *errors.DisplayError if the only image of an image-format message fails.
// Load must be called from the dispatcher goroutine.
func (s *Session) Load(ctx context.Context, msg *message.Message, target Target, onFatal func(error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancels = append(s.cancels, cancel)

	type job struct{ id, url string }
	var jobs []job
	var missing []string
	for _, img := range msg.ImageComponents() {
		id := img.ID
		s.listeners[id] = target
		if _, ok := s.cache[id]; ok {
			continue
		}
		if _, busy := s.inFlight[id]; busy {
			continue
		}
		url, ok := msg.URL(id)
		if !ok || url == "" {
			missing = append(missing, id)
			continue
		}
		delete(s.failed, id)
		s.inFlight[id] = struct{}{}
		jobs = append(jobs, job{id: id, url: url})
	}
	s.wg.Add(len(jobs))
	s.mu.Unlock()

	fatalFor := fatalImage(msg, onFatal)
	for _, id := range missing {
		s.finish(id, Result{}, inapperrors.NewDisplayError(inapperrors.CauseInvalidImage, id, errors.New("no url")), fatalFor(id))
	}
	for _, j := range jobs {
		target.ShowLoading(j.id)
		go s.download(ctx, j.id, j.url, fatalFor(j.id))
	}

	s.log.WithFields(map[string]any{
		"tracking_id": msg.TrackingID,
		"downloads":   len(jobs),
	}).Debug("image loading started")
}

// fatalImage returns the fatal callback of each image id: only the sole image of an
// image-format message gets one.
func fatalImage(msg *message.Message, onFatal func(error)) func(id string) func(error) {
	sole := ""
	if onFatal != nil && msg.IsImageFormat() {
		sole = msg.Root.Children[0].(*message.Image).ID
	}
	return func(id string) func(error) {
		if sole == "" || id != sole {
			return nil
		}
		return onFatal
	}
}

func (s *Session) download(ctx context.Context, id, url string, onFatal func(error)) {
	defer s.wg.Done()

	select {
	case s.pool <- struct{}{}:
	case <-ctx.Done():
		err := ctx.Err()
		s.dispatcher.Dispatch(func() { s.finish(id, Result{}, err, onFatal) })
		return
	}
	result, err := s.downloader.Download(ctx, url)
	<-s.pool

	s.dispatcher.Dispatch(func() { s.finish(id, result, err, onFatal) })
}

// finish runs on the dispatcher goroutine.
func (s *Session) finish(id string, result Result, err error, onFatal func(error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.inFlight, id)
	target := s.listeners[id]
	if err != nil {
		err = withComponent(err, id)
		s.failed[id] = err
	} else {
		s.cache[id] = result
	}
	s.mu.Unlock()

	log := s.log.With("image_id", id)
	if err != nil {
		log.Error(err, "image failed to load")
		if target != nil {
			target.ShowFailed(id, err)
		}
		if onFatal != nil {
			onFatal(err)
		}
		return
	}

	log.Debug("image loaded")
	if target != nil {
		target.SetImage(id, result)
	}
}

// withComponent makes err a DisplayError naming the image it belongs to.
func withComponent(err error, id string) error {
	var display *inapperrors.DisplayError
	if errors.As(err, &display) {
		if display.ComponentID != "" {
			return err
		}
		tagged := *display
		tagged.ComponentID = id
		return &tagged
	}
	cause := inapperrors.CauseUnknown
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		cause = inapperrors.CauseClientNetwork
	}
	return inapperrors.NewDisplayError(cause, id, err)
}

// Attach redirects every image listener to target after the views were rebuilt,
// replaying cached, failed and in-flight images onto it.
func (s *Session) Attach(target Target) {
	if target == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	for id := range s.listeners {
		s.listeners[id] = target
	}
	cached := maps.Clone(s.cache)
	failed := maps.Clone(s.failed)
	loading := slices.Sorted(maps.Keys(s.inFlight))
	s.mu.Unlock()

	for _, id := range slices.Sorted(maps.Keys(cached)) {
		target.SetImage(id, cached[id])
	}
	for _, id := range slices.Sorted(maps.Keys(failed)) {
		target.ShowFailed(id, failed[id])
	}
	for _, id := range loading {
		target.ShowLoading(id)
	}
}

// Close cancels in-flight downloads and discards the cache. Completions arriving
// afterwards are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancels := s.cancels
	s.cancels = nil
	s.cache = make(map[string]Result)
	s.failed = make(map[string]error)
	s.inFlight = make(map[string]struct{})
	s.listeners = make(map[string]Target)
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	s.log.Debug("image session closed")
}

// Wait blocks until every download goroutine has returned. The dispatcher must keep
// accepting callbacks meanwhile.
func (s *Session) Wait() {
	s.wg.Wait()
}
