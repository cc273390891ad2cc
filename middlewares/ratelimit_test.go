package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/internal"
	"github.com/dmitrymomot/carrier/middlewares"
)

func TestRateLimit(t *testing.T) {
	t.Parallel()

	limited := 0
	handler := middlewares.RateLimit(1, 2, middlewares.WithRateLimitHook(func(internal.Context) { limited++ }))(ok)

	call := func(remote string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		return handler(newTestContext(httptest.NewRecorder(), req))
	}

	require.NoError(t, call("10.0.0.1:1000"))
	require.NoError(t, call("10.0.0.1:1001"), "burst of two, port ignored")

	err := call("10.0.0.1:1002")
	he := internal.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, []string{middlewares.MsgRateLimited}, he.Messages)
	assert.Equal(t, 1, limited)

	require.NoError(t, call("10.0.0.2:1000"), "other clients keep their own bucket")
}

func TestRateLimit_RetryAfter(t *testing.T) {
	t.Parallel()

	handler := middlewares.RateLimit(0.5, 1)(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, handler(newTestContext(httptest.NewRecorder(), req)))

	rec := httptest.NewRecorder()
	err := handler(newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Error(t, err)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestRateLimit_CustomKey(t *testing.T) {
	t.Parallel()

	handler := middlewares.RateLimit(1, 1,
		middlewares.WithRateLimitKey(internal.NewExtractor(internal.FromHeader("X-API-Key"))),
		middlewares.WithRateLimitSize(1),
	)(ok)

	call := func(key string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", key)
		return handler(newTestContext(httptest.NewRecorder(), req))
	}

	require.NoError(t, call("a"))
	require.Error(t, call("a"))
	require.NoError(t, call("b"))
	// "a" was evicted by "b" and starts over with a full bucket.
	require.NoError(t, call("a"))
}

func TestRateLimit_InApp(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithMiddleware(middlewares.RateLimit(1, 1)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", ok)
		})),
	)

	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		app.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, serve().Code)
	w := serve()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"data":null,"messages":["Too many requests"]}`, w.Body.String())
}
