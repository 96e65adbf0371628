package datasource

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-drift/datasource/pkg/errors"
	"github.com/go-drift/datasource/pkg/mainloop"
)

// LoadHandler performs the work of loading a data source's content and
// reports the outcome through the loader, usually from a background goroutine.
type LoadHandler func(l *Loader)

// Outcome is the result of a background fetch started with [Loader.Go].
type Outcome struct {
	// Update applies the fetched content. It runs on the UI loop.
	Update func()
	// NoContent reports that the fetch succeeded with nothing to show.
	NoContent bool
	// Err reports a failed fetch.
	Err error
}

// Loader is the handle for one in-flight load. A data source creates a fresh
// loader on every LoadContent call; starting another load or resetting the
// data source supersedes it. A loader reports at most once, and reports from
// a superseded loader are discarded.
//
// All reporting methods are safe to call from any goroutine. The report is
// delivered to the data source on the UI loop.
type Loader struct {
	loop    *mainloop.Loop
	limiter *mainloop.Limiter
	current atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	complete func(state *LoadingState, update func())
}

func newLoader(loop *mainloop.Loop, limiter *mainloop.Limiter, complete func(*LoadingState, func())) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		loop:     loop,
		limiter:  limiter,
		ctx:      ctx,
		cancel:   cancel,
		complete: complete,
	}
	l.current.Store(true)
	return l
}

// IsCurrent reports whether this loader is still the data source's active
// load. Handlers may poll it to abandon work early.
func (l *Loader) IsCurrent() bool {
	return l.current.Load()
}

// Context is cancelled once the loader is superseded or has completed.
func (l *Loader) Context() context.Context {
	return l.ctx
}

// Done reports that loading finished with content and nothing to apply.
func (l *Loader) Done() {
	l.finish(&Loaded, nil)
}

// UpdateWithContent reports content and the update that applies it.
func (l *Loader) UpdateWithContent(update func()) {
	l.finish(&Loaded, update)
}

// UpdateWithNoContent reports that there is nothing to show. update, if
// non-nil, clears whatever content the data source held.
func (l *Loader) UpdateWithNoContent(update func()) {
	l.finish(&NoContent, update)
}

// DoneWithError reports a failed load. A nil err is treated as Done.
func (l *Loader) DoneWithError(err error) {
	if err == nil {
		l.Done()
		return
	}
	state := Failed(err)
	l.finish(&state, nil)
}

// Ignore completes the loader without changing the data source.
func (l *Loader) Ignore() {
	l.finish(nil, nil)
}

// Report delivers a fetch outcome.
func (l *Loader) Report(out Outcome) {
	switch {
	case out.Err != nil:
		l.DoneWithError(out.Err)
	case out.NoContent:
		l.UpdateWithNoContent(out.Update)
	default:
		l.UpdateWithContent(out.Update)
	}
}

// Go runs fetch on a background goroutine, subject to the data source's
// fetch limit, and reports its outcome. fetch receives the loader's context,
// which is cancelled when the loader is superseded. A panic in fetch is
// reported as a failed load.
func (l *Loader) Go(fetch func(ctx context.Context) Outcome) {
	l.limiter.Go(l.ctx, func(ctx context.Context) {
		var out Outcome
		func() {
			defer errors.RecoverWithCallback("datasource.Loader.Go", func(r any) {
				out = Outcome{Err: fmt.Errorf("load panicked: %v", r)}
			})
			out = fetch(ctx)
		}()
		l.Report(out)
	})
}

// finish hands the report to the UI loop exactly once. A nil state completes
// the loader without effect.
func (l *Loader) finish(state *LoadingState, update func()) {
	l.mu.Lock()
	complete := l.complete
	l.complete = nil
	l.mu.Unlock()
	if complete == nil {
		return
	}
	l.loop.Dispatch(func() {
		complete(state, update)
	})
}

// invalidate marks the loader superseded and drops its completion.
func (l *Loader) invalidate() {
	l.current.Store(false)
	l.mu.Lock()
	l.complete = nil
	l.mu.Unlock()
	l.cancel()
}
