package dstest

import (
	"sync"

	dserrors "github.com/go-drift/datasource/pkg/errors"
)

// ErrorRecorder is an [dserrors.ErrorHandler] that keeps what it receives.
type ErrorRecorder struct {
	mu     sync.Mutex
	errors []*dserrors.Error
	panics []*dserrors.PanicError
}

func (r *ErrorRecorder) HandleError(err *dserrors.Error) {
	r.mu.Lock()
	r.errors = append(r.errors, err)
	r.mu.Unlock()
}

func (r *ErrorRecorder) HandlePanic(err *dserrors.PanicError) {
	r.mu.Lock()
	r.panics = append(r.panics, err)
	r.mu.Unlock()
}

// Errors returns the reported errors in order.
func (r *ErrorRecorder) Errors() []*dserrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*dserrors.Error(nil), r.errors...)
}

// Panics returns the reported panics in order.
func (r *ErrorRecorder) Panics() []*dserrors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*dserrors.PanicError(nil), r.panics...)
}

// OfKind returns the reported errors of kind.
func (r *ErrorRecorder) OfKind(kind dserrors.ErrorKind) []*dserrors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*dserrors.Error
	for _, err := range r.errors {
		if err.Kind == kind {
			out = append(out, err)
		}
	}
	return out
}
