package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/carrier/internal"
	"github.com/dmitrymomot/carrier/pkg/session"
)

// requestVia builds an App, registers fn at GET / and serves req.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context) error) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/", fn)
	})))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

// routes adapts a function to internal.Handler.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

// sessionCookie returns the last session cookie set on w, or nil.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "__sid" {
			found = c
		}
	}
	return found
}

func newStore() *session.CacheStore {
	return session.NewMemoryStore()
}
