package dstest

import (
	"errors"
	"testing"
	"time"

	dserrors "github.com/go-drift/datasource/pkg/errors"
	"github.com/go-drift/datasource/pkg/mainloop"
)

// DefaultAwaitTimeout bounds Await.
const DefaultAwaitTimeout = 2 * time.Second

// ErrAwaitTimeout is returned when Await exceeds its timeout.
var ErrAwaitTimeout = errors.New("Await timed out: condition never held")

// Harness bundles a private loop, a recording host and an error recorder.
type Harness struct {
	Loop   *mainloop.Loop
	Host   *Host
	Errors *ErrorRecorder
}

// NewHarness creates a harness and installs its error recorder as the global
// error handler until the test ends. Tests using a harness must not run in
// parallel with other tests that report errors.
func NewHarness(t testing.TB) *Harness {
	h := &Harness{
		Loop:   mainloop.New(),
		Host:   NewHost(),
		Errors: &ErrorRecorder{},
	}
	dserrors.SetHandler(h.Errors)
	t.Cleanup(func() { dserrors.SetHandler(nil) })
	return h
}

// Do runs fn on the loop, then drains everything it queued.
func (h *Harness) Do(fn func()) {
	h.Loop.Run(fn)
	h.Loop.Drain()
}

// Pump drains the loop and returns the number of callbacks run.
func (h *Harness) Pump() int {
	return h.Loop.Drain()
}

// Await pumps the loop until cond holds or DefaultAwaitTimeout passes. cond
// is evaluated on the loop.
func (h *Harness) Await(cond func() bool) error {
	return h.AwaitTimeout(cond, DefaultAwaitTimeout)
}

// AwaitTimeout is Await with an explicit timeout.
func (h *Harness) AwaitTimeout(cond func() bool, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		h.Loop.Drain()
		var ok bool
		h.Loop.Run(func() { ok = cond() })
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrAwaitTimeout
		}
		time.Sleep(time.Millisecond)
	}
}
