package images

import (
	"context"
	"sync"
)

// Dispatcher runs callbacks on the goroutine that owns the UI.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// QueueDispatcher buffers callbacks until the owning goroutine runs them.
// Callbacks dispatched after Close are dropped.
type QueueDispatcher struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueueDispatcher creates a QueueDispatcher holding up to size pending callbacks.
func NewQueueDispatcher(size int) *QueueDispatcher {
	if size < 0 {
		size = 0
	}
	return &QueueDispatcher{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Dispatch enqueues fn, blocking while the queue is full.
func (q *QueueDispatcher) Dispatch(fn func()) {
	select {
	case <-q.done:
		return
	default:
	}
	select {
	case q.queue <- fn:
	case <-q.done:
	}
}

// Next waits for one callback and runs it.
func (q *QueueDispatcher) Next(ctx context.Context) error {
	select {
	case fn := <-q.queue:
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs every pending callback without waiting and reports how many ran.
func (q *QueueDispatcher) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run executes callbacks until ctx is done or the dispatcher is closed.
func (q *QueueDispatcher) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-q.queue:
			fn()
		case <-q.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops accepting callbacks and releases blocked Dispatch calls.
func (q *QueueDispatcher) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}
