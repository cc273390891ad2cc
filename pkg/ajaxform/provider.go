package ajaxform

import (
	"context"
	"net/url"
)

// Provider supplies the business behavior of one form.
type Provider interface {
	// DefaultData returns the initial field values for a GET request.
	// query is the request query string, which may carry a unique ID of
	// the object to load. Returning *Error produces an error envelope.
	DefaultData(ctx context.Context, query url.Values) (Data, error)

	// ProcessSubmit handles a submission whose token was already verified.
	// It answers through res. Returning *Error before answering produces
	// an error envelope; other errors produce a 500 envelope.
	ProcessSubmit(ctx context.Context, res *Responder, data Data) error
}

// ProviderFuncs adapts plain functions to Provider.
// A nil Default yields no extra fields; a nil Submit answers with an
// empty OK envelope.
type ProviderFuncs struct {
	Default func(ctx context.Context, query url.Values) (Data, error)
	Submit  func(ctx context.Context, res *Responder, data Data) error
}

func (p ProviderFuncs) DefaultData(ctx context.Context, query url.Values) (Data, error) {
	if p.Default == nil {
		return Data{}, nil
	}
	return p.Default(ctx, query)
}

func (p ProviderFuncs) ProcessSubmit(ctx context.Context, res *Responder, data Data) error {
	if p.Submit == nil {
		return res.OK(nil)
	}
	return p.Submit(ctx, res, data)
}
