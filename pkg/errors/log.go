package errors

import (
	"fmt"
	"io"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr. Load failures
// are logged only when Verbose is set.
type LogHandler struct {
	// Verbose enables detailed output including stack traces and load
	// failures.
	Verbose bool
	// Out overrides the destination. Nil means os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleError logs an Error.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil || (err.Kind == KindLoad && !h.Verbose) {
		return
	}
	w := h.out()
	if h.Verbose {
		fmt.Fprintf(w, "[datasource error] %s [%s]", err.Op, err.Kind)
		if err.Source != "" {
			fmt.Fprintf(w, " source=%s", err.Source)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "[datasource error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	if err.Op != "" {
		fmt.Fprintf(w, "[datasource panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "[datasource panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
