package ajaxform

import (
	"fmt"
	"net/http"
	"slices"
)

// Wire names shared with the client script.
const (
	FieldFormID    = "form-id"
	FieldCSRFToken = "csrf-token"

	// ContentType is the only content type the handler admits.
	ContentType = "application/json; charset=utf-8"

	csrfPrefix = "csrf_"
)

// SubmitMethods lists the methods a form may submit with.
var SubmitMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
}

// Form is the immutable description of a modal form.
type Form struct {
	id                 string
	name               string
	targetObjectName   string
	submitURL          string
	submitMethod       string
	onSuccessEventName string
	onSuccessTarget    string
	readOnly           bool
}

// Option configures a Form.
type Option func(*Form)

// WithTarget names the kind of object the form edits.
func WithTarget(objectName string) Option {
	return func(f *Form) { f.targetObjectName = objectName }
}

// WithSubmit sets where and how the form submits.
func WithSubmit(url, method string) Option {
	return func(f *Form) {
		f.submitURL = url
		f.submitMethod = method
	}
}

// WithOnSuccess makes the client fire event on target after a successful
// submission.
func WithOnSuccess(event, target string) Option {
	return func(f *Form) {
		f.onSuccessEventName = event
		f.onSuccessTarget = target
	}
}

// ReadOnly makes the form display-only. Every submission is rejected.
func ReadOnly() Option {
	return func(f *Form) { f.readOnly = true }
}

// New creates a form. It fails when id is empty or the submit method is
// not one of SubmitMethods.
func New(id, name string, opts ...Option) (*Form, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	f := &Form{id: id, name: name}
	for _, opt := range opts {
		opt(f)
	}
	if f.submitMethod != "" && !slices.Contains(SubmitMethods, f.submitMethod) {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMethod, f.submitMethod)
	}
	return f, nil
}

// MustNew is like New but panics on error.
func MustNew(id, name string, opts ...Option) *Form {
	f, err := New(id, name, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Form) ID() string           { return f.id }
func (f *Form) Name() string         { return f.name }
func (f *Form) TargetObject() string { return f.targetObjectName }
func (f *Form) SubmitURL() string    { return f.submitURL }
func (f *Form) SubmitMethod() string { return f.submitMethod }
func (f *Form) IsReadOnly() bool     { return f.readOnly }

// CSRFKey is the session key holding the form's pending token.
func (f *Form) CSRFKey() string { return csrfPrefix + f.id }

// accepts reports whether method may carry a submission.
func (f *Form) accepts(method string) bool {
	return !f.readOnly && f.submitMethod != "" && method == f.submitMethod
}
