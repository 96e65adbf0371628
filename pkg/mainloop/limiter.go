package mainloop

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds how many background fetches run at once. The zero value and
// a nil *Limiter impose no limit.
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter returns a limiter admitting at most n concurrent fetches.
// n <= 0 means unlimited.
func NewLimiter(n int64) *Limiter {
	if n <= 0 {
		return &Limiter{}
	}
	return &Limiter{sem: semaphore.NewWeighted(n)}
}

// Go runs fn on a new goroutine once a slot is free. If ctx is done before a
// slot frees up, fn never runs.
func (l *Limiter) Go(ctx context.Context, fn func(ctx context.Context)) {
	go func() {
		if l != nil && l.sem != nil {
			if err := l.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer l.sem.Release(1)
		}
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	}()
}
