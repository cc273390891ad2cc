package middlewares

import (
	"errors"
	"fmt"
)

// PanicError is returned by Recover in place of a handler that panicked.
// The app's error handler sees it like any other error and answers 500.
type PanicError struct {
	Value     any    // what was passed to panic
	Stack     []byte // nil when stack capture is disabled
	Method    string
	Path      string
	RequestID string // empty unless RequestID ran first
}

func (e *PanicError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic in %s %s: %v", e.Method, e.Path, e.Value)
}

// Unwrap exposes the panic value when it is itself an error, so
// errors.Is(err, http.ErrAbortHandler) keeps working.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanicError reports whether err wraps a *PanicError.
func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

// AsPanicError extracts the *PanicError from err.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
