package ajaxform

import (
	"encoding/json"
	"maps"
	"net/http"

	"github.com/dmitrymomot/carrier/pkg/csrf"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Responder writes the single response of a request.
// Only the first OK or Error call writes; later calls return
// ErrAlreadyWritten.
type Responder struct {
	w       http.ResponseWriter
	form    *Form
	storage csrf.Storage
	written bool
	code    int
}

func newResponder(w http.ResponseWriter, f *Form, st csrf.Storage) *Responder {
	return &Responder{w: w, form: f, storage: st}
}

// OK writes a 200 envelope with fields merged in. The status and form-id
// keys are reserved and always reflect the handler.
func (r *Responder) OK(fields Data) error {
	return r.write(http.StatusOK, r.envelope(statusOK, fields))
}

// Error writes an error envelope with a fresh token.
func (r *Responder) Error(code int, messages ...string) error {
	e := NewError(code, messages...)
	return r.fail(e)
}

// Written reports whether the response has been sent.
func (r *Responder) Written() bool { return r.written }

// Status returns the status code sent, or zero.
func (r *Responder) Status() int { return r.code }

// okWithToken answers the initial data request; the new token is what the
// client submits with.
func (r *Responder) okWithToken(fields Data) error {
	env := r.envelope(statusOK, fields)
	env[FieldCSRFToken] = csrf.Issue(r.storage, r.form.CSRFKey())
	return r.write(http.StatusOK, env)
}

func (r *Responder) fail(e *Error) error {
	if r.written {
		return ErrAlreadyWritten
	}
	messages := e.Messages
	if messages == nil {
		messages = []string{}
	}
	env := r.envelope(statusError, nil)
	env[FieldCSRFToken] = csrf.Issue(r.storage, r.form.CSRFKey())
	env["error"] = e.Code
	env["messages"] = messages
	return r.write(e.Code, env)
}

func (r *Responder) envelope(status string, fields Data) Data {
	env := make(Data, len(fields)+5)
	maps.Copy(env, fields)
	env["status"] = status
	env[FieldFormID] = r.form.id
	return env
}

func (r *Responder) write(code int, body Data) error {
	if r.written {
		return ErrAlreadyWritten
	}
	r.written = true
	r.code = code

	r.w.Header().Set("Content-Type", ContentType)
	r.w.WriteHeader(code)
	return json.NewEncoder(r.w).Encode(body)
}
