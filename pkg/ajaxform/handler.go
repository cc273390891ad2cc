package ajaxform

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/carrier/pkg/csrf"
	"github.com/dmitrymomot/carrier/pkg/logger"
)

// Handler runs the request lifecycle of one form.
type Handler struct {
	form     *Form
	provider Provider
	logger   *slog.Logger
	maxBody  int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger for provider failures.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxBodySize caps the submission body. Larger bodies are treated as
// unreadable. Default: 1 MiB.
func WithMaxBodySize(n int64) HandlerOption {
	return func(h *Handler) { h.maxBody = n }
}

// NewHandler binds a form to its provider.
func NewHandler(form *Form, provider Provider, opts ...HandlerOption) *Handler {
	h := &Handler{
		form:     form,
		provider: provider,
		logger:   logger.NewNope(),
		maxBody:  1 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Form() *Form { return h.form }

// Handle reads r and serves it. It reports whether a response was
// addressed to this form.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, st csrf.Storage) bool {
	return h.Serve(w, ReadRequest(r, h.maxBody), st)
}

// Serve runs the lifecycle for an already read request:
//
//  1. a content type other than ContentType is rejected;
//  2. GET addressed to the form returns the initial data with a new token;
//  3. a method the form does not submit with is rejected;
//  4. a submission addressed to the form has its token consumed and
//     checked, then goes to the provider.
//
// Requests addressed to another form produce no output and Serve
// returns false.
func (h *Handler) Serve(w http.ResponseWriter, req *Request, st csrf.Storage) bool {
	res := newResponder(w, h.form, st)

	if !strings.EqualFold(req.ContentType, ContentType) {
		_ = res.fail(NewError(http.StatusBadRequest, MsgContentType))
		return true
	}

	if req.Method == http.MethodGet {
		if req.FormID() != h.form.id {
			return false
		}
		h.initialData(res, req)
		return true
	}

	if !h.form.accepts(req.Method) {
		_ = res.fail(NewError(http.StatusBadRequest, MsgMethod))
		return true
	}

	if req.Payload == nil || req.FormID() != h.form.id {
		return false
	}

	if !csrf.Validate(st, h.form.CSRFKey(), req.Payload.String(FieldCSRFToken)) {
		_ = res.fail(NewError(http.StatusBadRequest, MsgCSRF))
		return true
	}

	h.finish(res, req, "submit", h.provider.ProcessSubmit(req.Context(), res, req.Payload))
	return true
}

func (h *Handler) initialData(res *Responder, req *Request) {
	data, err := h.provider.DefaultData(req.Context(), req.Query)
	if err != nil {
		h.finish(res, req, "default data", err)
		return
	}
	_ = res.okWithToken(data)
}

// finish turns a provider error into the response, unless the provider
// already answered.
func (h *Handler) finish(res *Responder, req *Request, stage string, err error) {
	if err == nil {
		return
	}

	var fe *Error
	if errors.As(err, &fe) {
		if !res.Written() {
			_ = res.fail(fe)
		}
		return
	}

	h.logger.ErrorContext(req.Context(), "ajax form provider failed",
		slog.String("form_id", h.form.id),
		slog.String("stage", stage),
		slog.Any("error", err),
	)
	if !res.Written() {
		_ = res.fail(NewError(http.StatusInternalServerError, MsgInternalError))
	}
}
