package mainloop

import (
	"sync/atomic"
	"time"
)

// Timer is a callback scheduled onto the loop after a delay.
type Timer struct {
	stopped atomic.Bool
	timer   *time.Timer
}

// After dispatches callback onto the loop once delay has elapsed. A delay of
// zero or less dispatches immediately, so the callback runs on the next drain.
func (l *Loop) After(delay time.Duration, callback func()) *Timer {
	t := &Timer{}
	fire := func() {
		l.Dispatch(func() {
			if t.stopped.Load() {
				return
			}
			callback()
		})
	}
	if delay <= 0 {
		fire()
		return t
	}
	t.timer = time.AfterFunc(delay, fire)
	return t
}

// Stop cancels the callback if it has not started running yet. Returns false
// if the timer was already stopped.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return !t.stopped.Swap(true)
}
