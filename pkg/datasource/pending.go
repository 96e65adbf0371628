package datasource

import "sync"

// UpdateQueue holds UI mutations deferred while a placeholder hides a data
// source's sections. Actions run in the order they were enqueued. It is owned
// by the UI loop and is not safe for concurrent use.
type UpdateQueue struct {
	actions []func()
}

// Enqueue appends fn after any actions already queued.
func (q *UpdateQueue) Enqueue(fn func()) {
	if fn == nil {
		return
	}
	q.actions = append(q.actions, fn)
}

// Execute runs every queued action once and leaves the queue empty. Actions
// enqueued while executing are kept for the next call.
func (q *UpdateQueue) Execute() int {
	actions := q.actions
	q.actions = nil
	for _, fn := range actions {
		fn()
	}
	return len(actions)
}

// Len returns the number of queued actions.
func (q *UpdateQueue) Len() int {
	return len(q.actions)
}

// waiters holds whenLoaded callbacks. Registration may come from any
// goroutine; the lock covers the slice only, never the callbacks, so a waiter
// may register another waiter.
type waiters struct {
	mu  sync.Mutex
	fns []func(error)
}

func (w *waiters) add(fn func(error)) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	w.fns = append(w.fns, fn)
	w.mu.Unlock()
}

func (w *waiters) fire(err error) {
	w.mu.Lock()
	fns := w.fns
	w.fns = nil
	w.mu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}

func (w *waiters) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.fns)
}
