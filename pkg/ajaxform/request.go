package ajaxform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// Request is the transport-independent view of an inbound form request.
type Request struct {
	ctx         context.Context
	Method      string
	ContentType string
	Query       url.Values

	// Payload is the decoded JSON object of a mutating request.
	// It is nil when the body is absent or not a JSON object.
	Payload Data
}

// ReadRequest extracts a Request from r. The body of a non-GET request is
// read up to maxBody bytes; zero or less means no limit.
func ReadRequest(r *http.Request, maxBody int64) *Request {
	req := &Request{
		ctx:         r.Context(),
		Method:      r.Method,
		ContentType: r.Header.Get("Content-Type"),
		Query:       r.URL.Query(),
	}
	if r.Method == http.MethodGet || r.Body == nil {
		return req
	}

	var body io.Reader = r.Body
	if maxBody > 0 {
		body = io.LimitReader(r.Body, maxBody+1)
	}
	raw, err := io.ReadAll(body)
	if err != nil || (maxBody > 0 && int64(len(raw)) > maxBody) {
		return req
	}
	req.Payload = decodePayload(raw)
	return req
}

func decodePayload(raw []byte) Data {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return d
}

// Context returns the request context, never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// FormID returns the form id the request is addressed to.
func (r *Request) FormID() string {
	if r.Method == http.MethodGet {
		return r.Query.Get(FieldFormID)
	}
	return r.Payload.String(FieldFormID)
}
