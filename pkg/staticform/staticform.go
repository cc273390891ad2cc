package staticform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/carrier/pkg/csrf"
	"github.com/dmitrymomot/carrier/pkg/session"
	"github.com/dmitrymomot/carrier/pkg/toast"
)

const (
	// FieldAction carries the form id; a POST is ours only when it matches.
	FieldAction = "action"
	// FieldCSRFToken carries the anti-forgery token.
	FieldCSRFToken = "csrf-token"

	csrfPrefix = "carrier_csrf_"
)

// MsgCSRF is queued as an error toast when the token check fails.
const MsgCSRF = "Hubo un fallo en una verificación de seguridad. Por favor, vuelve a intentarlo."

// ErrInvalidToken is returned by Handle after a failed token check.
// The error toast has already been queued by then.
var ErrInvalidToken = errors.New("staticform: invalid csrf token")

// ErrEmptyID is returned by New for a blank form id.
var ErrEmptyID = errors.New("staticform: empty form id")

// ProcessFunc consumes the posted values of a form that passed the token check.
type ProcessFunc func(ctx context.Context, values url.Values) error

// Form is a classic full-page POST form protected by a session token.
type Form struct {
	id          string
	action      string
	devMode     bool
	disableCSRF bool
}

// Option configures a Form.
type Option func(*Form)

// WithAction sets the URL the form posts to. Empty posts to the current URL.
func WithAction(u string) Option { return func(f *Form) { f.action = u } }

// WithDevMode skips token checks while still rendering the token field.
func WithDevMode(on bool) Option { return func(f *Form) { f.devMode = on } }

// DisableCSRF turns token handling off for this form entirely.
func DisableCSRF() Option { return func(f *Form) { f.disableCSRF = true } }

func New(id string, opts ...Option) (*Form, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	f := &Form{id: id}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// MustNew is New that panics on error, for package-level form declarations.
func MustNew(id string, opts ...Option) *Form {
	f, err := New(id, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Form) ID() string { return f.id }

// CSRFKey is the session key holding this form's token.
func (f *Form) CSRFKey() string { return csrfPrefix + f.id }

// Sent reports whether r is a POST of this form.
func (f *Form) Sent(r *http.Request) bool {
	return r.Method == http.MethodPost && r.PostFormValue(FieldAction) == f.id
}

func (f *Form) checksToken() bool {
	return !f.devMode && !f.disableCSRF
}

// Handle runs process when r is a POST of this form carrying a valid token.
// The boolean reports whether the form was sent at all. On a token
// mismatch an error toast is queued on s and ErrInvalidToken is returned.
func (f *Form) Handle(r *http.Request, s *session.Session, process ProcessFunc) (bool, error) {
	if !f.Sent(r) {
		return false, nil
	}

	if f.checksToken() {
		if s == nil || !csrf.Validate(s, f.CSRFKey(), r.PostFormValue(FieldCSRFToken)) {
			if s != nil {
				if err := toast.AddError(s, MsgCSRF); err != nil {
					return true, errors.Join(ErrInvalidToken, err)
				}
			}
			return true, ErrInvalidToken
		}
	}

	return true, process(r.Context(), r.PostForm)
}

// Render writes the form element with its hidden fields followed by
// fields. A fresh token is stored in st unless token checks are off.
func (f *Form) Render(st csrf.Storage, fields templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		action := ""
		if f.action != "" {
			action = fmt.Sprintf(` action="%s"`, templ.EscapeString(f.action))
		}
		id := templ.EscapeString(f.id)

		if _, err := fmt.Fprintf(w, `<form method="post"%s id="%s" class="default-form">`, action, id); err != nil {
			return err
		}

		if !f.disableCSRF {
			token := ""
			if f.checksToken() && st != nil {
				token = csrf.Issue(st, f.CSRFKey())
			}
			if _, err := fmt.Fprintf(w, `<input type="hidden" name="%s" value="%s">`, FieldCSRFToken, token); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<input type="hidden" name="%s" value="%s">`, FieldAction, id); err != nil {
			return err
		}

		if fields != nil {
			if err := fields.Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</form>`)
		return err
	})
}
