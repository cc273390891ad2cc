package internal

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/carrier/pkg/api"
)

// HTTPError is an error carrying the status code and the user-facing
// messages of the response it should produce.
type HTTPError struct {
	// Err is the underlying error. It is logged, never shown.
	Err error

	Messages []string
	Code     int
}

func (e *HTTPError) Error() string {
	if len(e.Messages) == 0 {
		return http.StatusText(e.Code)
	}
	return strings.Join(e.Messages, "; ")
}

func (e *HTTPError) Unwrap() error { return e.Err }

func (e *HTTPError) StatusCode() int { return e.Code }

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithError attaches the underlying cause.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

// WithMessages appends further user-facing messages.
func WithMessages(msgs ...string) HTTPErrorOption {
	return func(e *HTTPError) { e.Messages = append(e.Messages, msgs...) }
}

// NewHTTPError creates an HTTPError. An empty message yields no messages.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code}
	if message != "" {
		e.Messages = []string{message}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError finds an HTTPError in err's chain. Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// DefaultErrorHandler answers JSON clients with an api envelope and
// everyone else with plain text. Errors without a status become a 500,
// and only those are logged with their cause.
func DefaultErrorHandler(c Context, err error) error {
	he := AsHTTPError(err)
	if he == nil {
		c.LogError("handler failed", "error", err)
		he = ErrInternal(http.StatusText(http.StatusInternalServerError))
	} else if he.Code >= http.StatusInternalServerError && he.Err != nil {
		c.LogError("handler failed", "error", he.Err, "status", he.Code)
	}

	if wantsJSON(c.Request()) {
		return api.Respond(c.Response(), he.Code, nil, he.Messages...)
	}
	return c.String(he.Code, he.Error())
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}
