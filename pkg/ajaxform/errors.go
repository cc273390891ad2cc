package ajaxform

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrEmptyID           = errors.New("ajaxform: form id is empty")
	ErrUnsupportedMethod = errors.New("ajaxform: unsupported submit method")
	ErrAlreadyWritten    = errors.New("ajaxform: response already written")
)

// Fixed messages of the protocol errors.
const (
	MsgContentType   = "Content type not supported"
	MsgMethod        = "Method not supported"
	MsgCSRF          = "La validación CSRF ha fallado. Por favor, vuelve a cargar el formulario."
	MsgInternalError = "Internal server error"
)

// Error is a failure reported to the client as an error envelope.
// Providers return it to have the handler write the envelope.
type Error struct {
	Code     int
	Messages []string
}

// NewError builds an Error. A code outside 400-599 becomes 500.
func NewError(code int, messages ...string) *Error {
	if code < 400 || code > 599 {
		code = http.StatusInternalServerError
	}
	return &Error{Code: code, Messages: messages}
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return "ajaxform: " + http.StatusText(e.Code)
	}
	return "ajaxform: " + strings.Join(e.Messages, "; ")
}
