package mainloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/datasource/pkg/errors"
)

// Loop is a single-owner task queue. Callbacks queued with Dispatch run in
// FIFO order on whichever goroutine is draining the loop, and only one
// goroutine owns the loop at a time.
type Loop struct {
	mu    sync.Mutex
	queue []func()

	// runMu is held by the goroutine currently executing loop tasks.
	runMu sync.Mutex
	owner atomic.Int64
	wake  chan struct{}

	// OnNeedsDrain is called after a callback is queued, signalling the host
	// that the loop has work. Hosts that drain from a frame callback use it to
	// request a frame. It may be called from any goroutine.
	OnNeedsDrain func()
}

var (
	mainOnce sync.Once
	mainLoop *Loop
)

// Main returns the process-wide loop used by data sources that are not given
// one explicitly.
func Main() *Loop {
	mainOnce.Do(func() {
		mainLoop = New()
	})
	return mainLoop
}

// New creates an idle loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Dispatch schedules a callback to run on the loop and is safe to call from
// any goroutine. Returns false if the callback is nil.
func (l *Loop) Dispatch(callback func()) bool {
	if callback == nil {
		return false
	}
	l.mu.Lock()
	l.queue = append(l.queue, callback)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	if l.OnNeedsDrain != nil {
		l.OnNeedsDrain()
	}
	return true
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run executes fn as a loop task on the calling goroutine and returns when it
// completes. It blocks while another goroutine owns the loop. Calling Run from
// inside a loop task runs fn immediately.
func (l *Loop) Run(fn func()) {
	if fn == nil {
		return
	}
	if l.IsCurrent() {
		fn()
		return
	}
	l.runMu.Lock()
	l.owner.Store(goid())
	defer func() {
		l.owner.Store(0)
		l.runMu.Unlock()
	}()
	fn()
}

// Drain runs queued callbacks, including ones queued while draining, until
// the queue is empty. Returns the number of callbacks run.
func (l *Loop) Drain() int {
	n := 0
	l.Run(func() {
		for {
			callbacks := l.take()
			if len(callbacks) == 0 {
				return
			}
			for _, callback := range callbacks {
				l.invoke(callback)
				n++
			}
		}
	})
	return n
}

// Serve drains the loop on the calling goroutine whenever work is queued,
// until ctx is done. It returns ctx.Err().
func (l *Loop) Serve(ctx context.Context) error {
	l.Drain()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.Drain()
		}
	}
}

// IsCurrent reports whether the calling goroutine owns the loop.
func (l *Loop) IsCurrent() bool {
	owner := l.owner.Load()
	return owner != 0 && owner == goid()
}

// AssertCurrent panics with an [errors.ThreadError] if the calling goroutine
// does not own the loop.
func (l *Loop) AssertCurrent(op string) {
	if !l.IsCurrent() {
		errors.Fatal(op)
	}
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	callbacks := l.queue
	l.queue = nil
	return callbacks
}

// invoke runs one callback. Panics are reported and swallowed so one bad
// callback does not wedge the loop, except thread violations which stay fatal.
func (l *Loop) invoke(callback func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if te, ok := r.(*errors.ThreadError); ok {
			panic(te)
		}
		errors.ReportPanic(&errors.PanicError{
			Op:         "mainloop.Dispatch",
			Value:      r,
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		})
	}()
	callback()
}
