package internal

import (
	"github.com/dmitrymomot/carrier/pkg/ajaxform"
	"github.com/dmitrymomot/carrier/pkg/staticform"
)

// AjaxForm serves one or more AJAX forms from a single endpoint. CSRF
// tokens live in the visitor's session, which is created on first use.
// Requests naming none of the forms get no output.
//
//	r.Handle("/ajax/contact", carrier.AjaxForm(contactForm, groupsForm))
func AjaxForm(handlers ...*ajaxform.Handler) HandlerFunc {
	chain := ajaxform.Chain(handlers)
	return func(c Context) error {
		sess, err := c.EnsureSession()
		if err != nil {
			return err
		}
		chain.Handle(c.Response(), c.Request(), sess)
		return nil
	}
}

// StaticForm runs f against the current request with the visitor's
// session. The boolean reports whether the form was submitted; a failed
// token check queues an error toast and returns staticform.ErrInvalidToken.
func StaticForm(c Context, f *staticform.Form, process staticform.ProcessFunc) (bool, error) {
	sess, err := c.EnsureSession()
	if err != nil {
		return false, err
	}
	return f.Handle(c.Request(), sess, process)
}

// RenderStaticForm renders f with a fresh token stored in the session.
func RenderStaticForm(c Context, f *staticform.Form, fields Component) (Component, error) {
	sess, err := c.EnsureSession()
	if err != nil {
		return nil, err
	}
	return f.Render(sess, fields), nil
}
