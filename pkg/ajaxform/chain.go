package ajaxform

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/carrier/pkg/csrf"
)

// Chain serves several forms from one endpoint. The request is read once
// and routed by its form-id, so a form that rejects a method never
// answers a submission meant for a sibling form.
type Chain []*Handler

// Handle reports whether any handler answered. A request with a foreign
// content type is answered by the first handler; a request naming no
// form of the chain gets no output.
func (c Chain) Handle(w http.ResponseWriter, r *http.Request, st csrf.Storage) bool {
	if len(c) == 0 {
		return false
	}
	maxBody := int64(0)
	for _, h := range c {
		if h.maxBody <= 0 {
			maxBody = 0
			break
		}
		maxBody = max(maxBody, h.maxBody)
	}

	req := ReadRequest(r, maxBody)
	if !strings.EqualFold(req.ContentType, ContentType) {
		return c[0].Serve(w, req, st)
	}

	id := req.FormID()
	for _, h := range c {
		if h.form.id == id {
			return h.Serve(w, req, st)
		}
	}
	return false
}
