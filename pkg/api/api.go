package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"maps"
	"net/http"
)

// DefaultMaxBodySize caps request bodies read by Handler.
const DefaultMaxBodySize int64 = 1 << 20

// MsgInvalidBody is returned when the request body is not valid JSON.
const MsgInvalidBody = "Invalid request body"

// Envelope is the body of every API response.
type Envelope struct {
	Data     any      `json:"data"`
	Messages []string `json:"messages"`
}

// Respond writes {data, messages} with the given status code.
func Respond(w http.ResponseWriter, code int, data any, messages ...string) error {
	if messages == nil {
		messages = []string{}
	}
	return writeJSON(w, code, Envelope{Data: data, Messages: messages})
}

// RespondOK writes 200 with data merged over {"status":"ok"}.
func RespondOK(w http.ResponseWriter, data map[string]any) error {
	body := map[string]any{"status": "ok"}
	maps.Copy(body, data)
	return writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// Consumer handles a decoded JSON request body and writes the response.
// An empty body is passed as nil.
type Consumer interface {
	Consume(w http.ResponseWriter, r *http.Request, body json.RawMessage) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(w http.ResponseWriter, r *http.Request, body json.RawMessage) error

func (f ConsumerFunc) Consume(w http.ResponseWriter, r *http.Request, body json.RawMessage) error {
	return f(w, r, body)
}

// Decode unmarshals a consumer body into T.
func Decode[T any](body json.RawMessage) (T, error) {
	var v T
	if len(body) == 0 {
		return v, ErrEmptyBody
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, errors.Join(ErrInvalidBody, err)
	}
	return v, nil
}

var (
	ErrEmptyBody   = errors.New("api: empty body")
	ErrInvalidBody = errors.New("api: invalid body")
)

// Option configures Handler.
type Option func(*handler)

func WithLogger(l *slog.Logger) Option { return func(h *handler) { h.logger = l } }

func WithMaxBodySize(n int64) Option { return func(h *handler) { h.maxBody = n } }

type handler struct {
	consumer Consumer
	logger   *slog.Logger
	maxBody  int64
}

// Handler reads the request body, checks it is JSON and passes it to c.
// Errors returned by c after nothing was written become a 500 envelope.
func Handler(c Consumer, opts ...Option) http.Handler {
	h := &handler{consumer: c, logger: slog.Default(), maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		_ = Respond(w, http.StatusBadRequest, nil, MsgInvalidBody)
		return
	}

	var body json.RawMessage
	if len(raw) > 0 {
		if !json.Valid(raw) {
			_ = Respond(w, http.StatusBadRequest, nil, MsgInvalidBody)
			return
		}
		body = raw
	}

	tw := &trackingWriter{ResponseWriter: w}
	if err := h.consumer.Consume(tw, r, body); err != nil {
		h.logger.ErrorContext(r.Context(), "api consumer failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		if !tw.written {
			_ = Respond(w, http.StatusInternalServerError, nil, http.StatusText(http.StatusInternalServerError))
		}
	}
}

type trackingWriter struct {
	http.ResponseWriter
	written bool
}

func (t *trackingWriter) WriteHeader(code int) {
	t.written = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.written = true
	return t.ResponseWriter.Write(b)
}
