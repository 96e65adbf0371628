// Package errors provides structured error reporting for data sources.
//
// Load failures are not returned as Go errors: a data source records them in
// its loading state and reports them here for logging. The package also
// surfaces refused state transitions, misuse of the UI loop, invalid
// configuration and panics recovered from load handlers.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindLoad indicates a failure while loading content.
	KindLoad
	// KindTransition indicates a refused loading state transition.
	KindTransition
	// KindThread indicates a UI loop operation called from the wrong goroutine.
	KindThread
	// KindConfig indicates an invalid configuration file or value.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindTransition:
		return "transition"
	case KindThread:
		return "thread"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error raised by a data source.
type Error struct {
	// Op is the operation that failed (e.g., "datasource.EndLoading").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Source is the title of the data source involved, if any.
	Source string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s [%s] source=%s: %v", e.Op, e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "datasource.LoadContent").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// TransitionError reports a loading state change the state machine refused.
type TransitionError struct {
	// From is the state the data source was in.
	From string
	// To is the requested state.
	To string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid loading state transition from %s to %s", e.From, e.To)
}

// ThreadError is the panic value of a UI loop assertion failure.
type ThreadError struct {
	// Op is the operation that was called off the UI loop.
	Op string
}

func (e *ThreadError) Error() string {
	return fmt.Sprintf("%s must be called on the UI loop", e.Op)
}

// ErrorHandler receives errors reported by data sources.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
