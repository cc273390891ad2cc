package middlewares_test

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/carrier/internal"
	"github.com/dmitrymomot/carrier/pkg/job"
	"github.com/dmitrymomot/carrier/pkg/session"
)

// testContext is a minimal internal.Context for unit-testing middleware
// without an App. Identity and toasts are plain fields.
type testContext struct {
	response http.ResponseWriter
	request  *http.Request

	userID string
	groups []string
	toasts []string
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{response: w, request: r}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Param(name string) string      { return "" }
func (c *testContext) Query(name string) string      { return c.request.URL.Query().Get(name) }
func (c *testContext) Form(name string) string       { return c.request.FormValue(name) }

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *testContext) AppName() string        { return "Carrier" }
func (c *testContext) DevMode() bool          { return false }
func (c *testContext) URL(path string) string { return path }

func (c *testContext) UserID() string               { return c.userID }
func (c *testContext) IsAuthenticated() bool        { return c.userID != "" }
func (c *testContext) IsCurrentUser(id string) bool { return c.userID != "" && c.userID == id }

func (c *testContext) HasPermissionGroup(groups ...string) bool {
	for _, g := range groups {
		if slices.Contains(c.groups, g) {
			return true
		}
	}
	return false
}

func (c *testContext) Header(name string) string    { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.response.Header().Set(name, value) }
func (c *testContext) JSON(code int, v any) error   { c.response.WriteHeader(code); return nil }
func (c *testContext) NoContent(code int) error     { c.response.WriteHeader(code); return nil }

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func (c *testContext) Render(code int, component internal.Component) error {
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *testContext) BindJSON(v any) (internal.ValidationErrors, error) { return nil, nil }

func (c *testContext) Written() bool                     { return false }
func (c *testContext) Logger() *slog.Logger              { return slog.New(slog.DiscardHandler) }
func (c *testContext) LogDebug(msg string, attrs ...any) {}
func (c *testContext) LogInfo(msg string, attrs ...any)  {}
func (c *testContext) LogWarn(msg string, attrs ...any)  {}
func (c *testContext) LogError(msg string, attrs ...any) {}

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Get(key any) any { return c.request.Context().Value(key) }

func (c *testContext) Cookie(name string) (string, error) {
	cookie, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (c *testContext) SetCookie(name, value string, maxAge int) {
	http.SetCookie(c.response, &http.Cookie{Name: name, Value: value, MaxAge: maxAge})
}

func (c *testContext) DeleteCookie(name string) {
	http.SetCookie(c.response, &http.Cookie{Name: name, MaxAge: -1})
}

func (c *testContext) CookieSigned(name string) (string, error)             { return "", nil }
func (c *testContext) SetCookieSigned(name, value string, maxAge int) error { return nil }

func (c *testContext) Session() (*session.Session, error)                { return nil, nil }
func (c *testContext) EnsureSession() (*session.Session, error)          { return nil, session.ErrNotConfigured }
func (c *testContext) AuthenticateSession(string, ...string) error       { return nil }
func (c *testContext) SessionValue(key string) (string, bool, error)     { return "", false, nil }
func (c *testContext) SetSessionValue(key, val string) error             { return nil }
func (c *testContext) DeleteSessionValue(key string) error               { return nil }
func (c *testContext) DestroySession() error                             { return nil }
func (c *testContext) SaveSession() error                                { return nil }
func (c *testContext) ReloadSession()                                    {}
func (c *testContext) ToastSuccess(msg string) error                     { c.toasts = append(c.toasts, msg); return nil }
func (c *testContext) ToastError(msg string) error                       { c.toasts = append(c.toasts, msg); return nil }
func (c *testContext) Toasts() internal.Component                        { return nil }
func (c *testContext) ResponseWriter() *internal.ResponseWriter          { return nil }
func (c *testContext) Enqueue(string, any, ...job.EnqueueOption) error   { return nil }
func (c *testContext) EnqueueTx(pgx.Tx, string, any, ...job.EnqueueOption) error {
	return nil
}

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }

// routes adapts a function to internal.Handler.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

var _ internal.Context = (*testContext)(nil)
