package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/carrier/pkg/cookie"
	"github.com/dmitrymomot/carrier/pkg/job"
	"github.com/dmitrymomot/carrier/pkg/sanitizer"
	"github.com/dmitrymomot/carrier/pkg/session"
	"github.com/dmitrymomot/carrier/pkg/toast"
	"github.com/dmitrymomot/carrier/pkg/validator"
)

// ValidationErrors is a collection of validation errors.
type ValidationErrors = validator.ValidationErrors

// Component is the interface for renderable templates.
// This is compatible with templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// DefaultMaxBodySize caps bodies read by BindJSON.
const DefaultMaxBodySize int64 = 1 << 20

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
// One Context is shared by every middleware and the handler of a request.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	Form(name string) string

	// AppName is the configured application name.
	AppName() string

	// DevMode reports whether the app runs in development mode.
	DevMode() bool

	// URL prefixes path with the app's path base.
	URL(path string) string

	// UserID returns the logged-in user's ID, or "" for anonymous visitors.
	UserID() string

	// IsAuthenticated reports whether a user is logged in.
	IsAuthenticated() bool

	// IsCurrentUser reports whether id is the logged-in user.
	IsCurrentUser(id string) bool

	// HasPermissionGroup reports whether the logged-in user belongs to
	// at least one of groups.
	HasPermissionGroup(groups ...string) bool

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to url with the given status code.
	Redirect(code int, url string) error

	// Error creates an HTTPError without writing a response.
	// Return it from the handler to reach the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render renders a component as text/html with the given status code.
	Render(code int, component Component) error

	// BindJSON decodes the JSON body into v, sanitizes it and validates it.
	// Validation failures are returned separately from system errors.
	BindJSON(v any) (ValidationErrors, error)

	// Written returns true if a response has already been written.
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context, or nil.
	Get(key any) any

	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)

	// CookieSigned returns cookie.ErrNoSecret if no secret is configured.
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge int) error

	// Session returns the visitor's session, or nil if there is none yet.
	// Returns session.ErrNotConfigured if WithSession was not used.
	Session() (*session.Session, error)

	// EnsureSession returns the visitor's session, creating it if needed.
	EnsureSession() (*session.Session, error)

	// AuthenticateSession logs userID in with its permission groups and
	// rotates the session token.
	AuthenticateSession(userID string, groups ...string) error

	// SessionValue returns a session value. A missing key or session is
	// reported as ok == false.
	SessionValue(key string) (string, bool, error)

	// SetSessionValue stores a value, creating the session if needed.
	SetSessionValue(key, val string) error

	DeleteSessionValue(key string) error

	// DestroySession removes the session and clears its cookie.
	DestroySession() error

	// SaveSession persists pending session changes now instead of
	// waiting for the response to be written.
	SaveSession() error

	// ReloadSession drops the cached session unless it holds unsaved
	// changes, so the next access reads the store again.
	ReloadSession()

	// ToastError queues an error toast for the next rendered page.
	ToastError(msg string) error

	// ToastSuccess queues a success toast for the next rendered page.
	ToastSuccess(msg string) error

	// Toasts renders and clears the queued toasts.
	Toasts() Component

	// ResponseWriter returns the wrapped writer for advanced usage.
	ResponseWriter() *ResponseWriter

	// Enqueue adds a job for background processing.
	// Returns job.ErrNotConfigured if no enqueuer was configured.
	Enqueue(name string, payload any, opts ...job.EnqueueOption) error

	// EnqueueTx adds a job inside tx; it becomes visible on commit.
	EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error
}

type contextKey struct{}

// requestContext implements the Context interface.
type requestContext struct {
	response       http.ResponseWriter
	request        *http.Request
	responseWriter *ResponseWriter
	app            *App

	session               *session.Session
	sessionLoaded         bool
	sessionHookRegistered bool
}

// contextFor returns the Context already attached to r by an outer
// middleware, or attaches a new one. w and r replace the stored pair so
// the handler sees wrappers and values added on the way in.
func (a *App) contextFor(w http.ResponseWriter, r *http.Request) *requestContext {
	if c, ok := r.Context().Value(contextKey{}).(*requestContext); ok && c.app == a {
		c.request = r
		c.response = w
		return c
	}

	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	c := &requestContext{
		response:       rw,
		responseWriter: rw,
		app:            a,
	}
	c.request = r.WithContext(context.WithValue(r.Context(), contextKey{}, c))
	return c
}

func (c *requestContext) Request() *http.Request { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.response }
func (c *requestContext) Context() context.Context { return c.request.Context() }
func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{} { return c.request.Context().Done() }
func (c *requestContext) Err() error { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any { return c.request.Context().Value(key) }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.responseWriter }

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) AppName() string { return c.app.name }
func (c *requestContext) DevMode() bool { return c.app.devMode }

func (c *requestContext) URL(path string) string {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.app.pathBase + path
}

func (c *requestContext) UserID() string {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return ""
	}
	return sess.UserID
}

func (c *requestContext) IsAuthenticated() bool {
	return c.UserID() != ""
}

func (c *requestContext) IsCurrentUser(id string) bool {
	uid := c.UserID()
	return uid != "" && uid == id
}

func (c *requestContext) HasPermissionGroup(groups ...string) bool {
	sess, err := c.Session()
	if err != nil || sess == nil || !sess.IsAuthenticated() {
		return false
	}
	return sess.HasGroup(groups...)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) BindJSON(v any) (ValidationErrors, error) {
	body := http.MaxBytesReader(c.response, c.request.Body, DefaultMaxBodySize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return nil, ErrBadRequest("Invalid request body", WithError(fmt.Errorf("bind json: %w", err)))
	}
	if err := sanitizer.SanitizeStruct(v); err != nil {
		return nil, fmt.Errorf("sanitize: %w", err)
	}
	if err := validator.ValidateStruct(v); err != nil {
		if validator.IsValidationError(err) {
			return validator.ExtractValidationErrors(err), nil
		}
		return nil, fmt.Errorf("validate: %w", err)
	}
	return nil, nil
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) cookies() *cookie.Manager { return c.app.cookieManager }

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies().Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookies().Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies().Delete(c.response, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookies().GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookies().SetSigned(c.response, name, value, maxAge)
}

// registerSessionHook persists a dirty session right before the response
// is written, or when the handler returns without writing.
func (c *requestContext) registerSessionHook() {
	if c.sessionHookRegistered {
		return
	}
	c.sessionHookRegistered = true
	c.responseWriter.OnBeforeWrite(c.flushSession)
}

func (c *requestContext) flushSession() {
	// Best effort: a failed save must not break the response.
	if err := c.SaveSession(); err != nil {
		c.LogError("failed to save session", "error", err)
	}
}

func (c *requestContext) SaveSession() error {
	if c.session == nil || !c.session.IsDirty() {
		return nil
	}
	if err := c.app.sessionManager.Store().Update(c.Context(), c.session); err != nil {
		return err
	}
	c.session.ClearDirty()
	return nil
}

func (c *requestContext) ReloadSession() {
	if c.session != nil && c.session.IsDirty() {
		return
	}
	c.session = nil
	c.sessionLoaded = false
}

func (c *requestContext) Session() (*session.Session, error) {
	sm := c.app.sessionManager
	if sm == nil {
		return nil, session.ErrNotConfigured
	}
	c.registerSessionHook()

	if c.sessionLoaded {
		return c.session, nil
	}

	sess, err := sm.LoadSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}
	c.session = sess
	c.sessionLoaded = true
	return sess, nil
}

func (c *requestContext) EnsureSession() (*session.Session, error) {
	sess, err := c.Session()
	if err != nil {
		if errors.Is(err, session.ErrNotConfigured) {
			return nil, err
		}
		c.LogWarn("failed to load session", "error", err)
	}
	if sess != nil {
		return sess, nil
	}

	sm := c.app.sessionManager
	sess, err = sm.CreateSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}
	c.session = sess
	c.sessionLoaded = true
	sm.SaveSession(c.response, sess)
	return sess, nil
}

func (c *requestContext) AuthenticateSession(userID string, groups ...string) error {
	sess, err := c.EnsureSession()
	if err != nil {
		return err
	}

	sess.Authenticate(userID, groups...)

	sm := c.app.sessionManager
	if err := sm.RotateToken(c.Context(), sess); err != nil {
		return err
	}
	sm.SaveSession(c.response, sess)
	return nil
}

func (c *requestContext) SessionValue(key string) (string, bool, error) {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return "", false, err
	}
	v, ok := sess.Get(key)
	return v, ok, nil
}

func (c *requestContext) SetSessionValue(key, val string) error {
	sess, err := c.EnsureSession()
	if err != nil {
		return err
	}
	sess.Set(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return err
	}
	sess.Delete(key)
	return nil
}

func (c *requestContext) DestroySession() error {
	sm := c.app.sessionManager
	if sm == nil {
		return session.ErrNotConfigured
	}
	if _, err := c.Session(); err != nil {
		return err
	}

	if c.session != nil {
		if err := sm.Store().Delete(c.Context(), c.session.ID); err != nil {
			return err
		}
	}
	sm.DeleteSession(c.response)

	c.session = nil
	c.sessionLoaded = true
	return nil
}

func (c *requestContext) ToastError(msg string) error {
	sess, err := c.EnsureSession()
	if err != nil {
		return err
	}
	return toast.AddError(sess, msg)
}

func (c *requestContext) ToastSuccess(msg string) error {
	sess, err := c.EnsureSession()
	if err != nil {
		return err
	}
	return toast.AddSuccess(sess, msg)
}

func (c *requestContext) Toasts() Component {
	sess, _ := c.Session()
	return toast.Toasts(sess, c.app.name, c.app.devMode)
}

func (c *requestContext) Enqueue(name string, payload any, opts ...job.EnqueueOption) error {
	if c.app.jobEnqueuer == nil {
		return job.ErrNotConfigured
	}
	return c.app.jobEnqueuer.Enqueue(c.Context(), name, payload, opts...)
}

func (c *requestContext) EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error {
	if c.app.jobEnqueuer == nil {
		return job.ErrNotConfigured
	}
	return c.app.jobEnqueuer.EnqueueTx(c.Context(), tx, name, payload, opts...)
}
