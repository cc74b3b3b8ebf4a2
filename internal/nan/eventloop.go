package nan

import (
	"context"
	"log/slog"
	"runtime"
)

// EventLoop is the single-consumer FIFO dispatcher that is the manager's
// sole concurrency primitive (spec §5): every client API call and every HAL
// callback is a closure posted to the loop, and the loop runs each to
// completion before starting the next.
//
// EventLoop is safe for concurrent Post calls; Run/DispatchAll must only be
// driven by one goroutine at a time.
type EventLoop struct {
	logger *slog.Logger
	queue  chan func()
}

// NewEventLoop returns an EventLoop with the given queue depth.
func NewEventLoop(logger *slog.Logger, depth int) *EventLoop {
	if depth <= 0 {
		depth = 256
	}
	return &EventLoop{logger: logger, queue: make(chan func(), depth)}
}

// Post enqueues fn for execution on the loop goroutine and returns without
// waiting for fn to run, matching the "enqueue-and-return" contract spec
// §4.4/§6 require of every manager API method. While the queue is full,
// Post blocks until the loop dequeues an entry.
func (l *EventLoop) Post(fn func()) {
	l.queue <- fn
}

// Run drains the queue until ctx is cancelled, executing each posted
// closure to completion before dequeuing the next (FIFO, spec §5
// "Ordering guarantees"). A panicking handler is recovered and logged so
// one bad handler cannot take down the loop.
func (l *EventLoop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.runOne(fn)
		}
	}
}

// DispatchAll drains every closure currently queued, running each to
// completion, and returns once the queue is empty. This is the explicit
// test hook spec §5 and §9 require the event loop preserve: tests post
// calls and callbacks, then call DispatchAll to synchronize before
// asserting on results.
//
// DispatchAll does not block waiting for new work to arrive; it only drains
// what is queued at the moment each iteration checks.
func (l *EventLoop) DispatchAll() {
	for {
		select {
		case fn := <-l.queue:
			l.runOne(fn)
		default:
			return
		}
	}
}

func (l *EventLoop) runOne(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			if l.logger != nil {
				l.logger.Error("panic recovered in event loop handler",
					slog.Any("panic", r),
					slog.String("stack", string(buf[:n])),
				)
			}
		}
	}()
	fn()
}

