package carrier

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/carrier/internal"
	"github.com/dmitrymomot/carrier/pkg/ajaxform"
	"github.com/dmitrymomot/carrier/pkg/cookie"
	"github.com/dmitrymomot/carrier/pkg/health"
	"github.com/dmitrymomot/carrier/pkg/job"
	"github.com/dmitrymomot/carrier/pkg/session"
	"github.com/dmitrymomot/carrier/pkg/staticform"
)

// Type aliases - public API
type (
	// App owns the router, sessions, background worker and server lifecycle.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	Option    = internal.Option
	RunOption = internal.RunOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	ValidationErrors = internal.ValidationErrors
	HealthOption     = internal.HealthOption
	CookieOption     = cookie.Option
	SessionOption    = internal.SessionOption

	Session      = session.Session
	SessionStore = session.Store

	// ResponseWriter wraps http.ResponseWriter with pre-write hooks.
	ResponseWriter = internal.ResponseWriter

	HTTPError       = internal.HTTPError
	HTTPErrorOption = internal.HTTPErrorOption

	// Extractor reads a value from the first request source that has one.
	Extractor       = internal.Extractor
	ExtractorSource = internal.ExtractorSource

	JobEnqueuer   = internal.JobEnqueuer
	JobWorker     = internal.JobWorker
	JobManager    = job.Manager
	EnqueueOption = job.EnqueueOption
)

// New creates a new application with the given options.
// The App is immutable after creation.
//
//	app := carrier.New(
//	    carrier.WithName(cfg.Name),
//	    carrier.WithPathBase(cfg.PathBase),
//	    carrier.WithSession(store),
//	    carrier.WithHandlers(pages, forms),
//	)
//
//	err := app.Run(cfg.Addr, carrier.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithName sets the application name shown in toasts and emails.
func WithName(name string) Option {
	return internal.WithName(name)
}

// WithPathBase serves every route under base, e.g. "/app".
// Health endpoints and mounts stay at the root.
func WithPathBase(base string) Option {
	return internal.WithPathBase(base)
}

// WithDevMode relaxes CSRF checks on static forms and keeps toasts on screen.
func WithDevMode(on bool) Option {
	return internal.WithDevMode(on)
}

// WithHTTPMiddleware adds plain net/http middleware on the root router,
// e.g. chi's middleware.RealIP.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithHTTPMiddleware(mw...)
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithMount attaches h at pattern on the root router.
//
//	carrier.WithMount("/metrics", promhttp.Handler())
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled.
//
//	//go:embed public
//	var assets embed.FS
//
//	carrier.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
//
//	carrier.WithHealthChecks(
//	    carrier.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger sets the application logger, tagged with component.
func WithLogger(l *slog.Logger, component string) Option {
	return internal.WithLogger(l, component)
}

// WithCookieOptions configures the cookie manager. The session cookie is
// signed once a secret is set.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// Health check options

func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the logger used by the server lifecycle.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown, hooks included.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn after the port is bound and before serving.
// A failing hook stops the server.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function run in registration order.
//
//	carrier.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Cookie options

// WithCookieSecret sets the signing secret. Must be at least 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// Cookie errors for checking return values.
var (
	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieNoSecret = cookie.ErrNoSecret
	ErrCookieBadSig   = cookie.ErrBadSig
)

// Session options

// WithSession enables server-side sessions kept in store.
//
//	carrier.WithSession(session.NewRedisStore(client, "carrier"),
//	    carrier.WithSessionMaxAge(cfg.SessionTTL),
//	)
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithSessionCookieName sets the session cookie name. Defaults to "__sid".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime. Defaults to 30 days.
func WithSessionMaxAge(ttl time.Duration) SessionOption {
	return internal.WithSessionMaxAge(ttl)
}

// Session errors for checking return values.
var (
	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrSessionNotFound      = session.ErrNotFound
	ErrSessionExpired       = session.ErrExpired
	ErrSessionInvalidToken  = session.ErrInvalidToken
)

// Jobs

// WithJobs enables enqueueing and runs the manager's workers with the app.
//
//	jobs, err := job.NewManager(pool,
//	    job.WithTask(mailer.NewSendTask(sender)),
//	    job.WithScheduledTask(appsetting.NewRefreshTask(settings)),
//	)
//	carrier.New(carrier.WithJobs(jobs))
func WithJobs(m *JobManager) Option {
	return internal.WithJobs(m)
}

// WithJobEnqueuer enables c.Enqueue without running workers.
func WithJobEnqueuer(e JobEnqueuer) Option {
	return internal.WithJobEnqueuer(e)
}

// WithJobWorker runs w with the app without enabling c.Enqueue.
func WithJobWorker(w JobWorker) Option {
	return internal.WithJobWorker(w)
}

// Job errors for checking return values.
var (
	ErrJobNotConfigured  = job.ErrNotConfigured
	ErrJobUnknownTask    = job.ErrUnknownTask
	ErrJobInvalidPayload = job.ErrInvalidPayload
)

// JobHealthcheck returns a readiness check for the job manager.
func JobHealthcheck(m *JobManager) health.CheckFunc {
	return job.Healthcheck(m)
}

// Forms

// AjaxForm serves one or more AJAX forms from a single endpoint.
//
//	r.Handle("/ajax/contact", carrier.AjaxForm(contactForm))
func AjaxForm(handlers ...*ajaxform.Handler) HandlerFunc {
	return internal.AjaxForm(handlers...)
}

// StaticForm processes a submitted static form. The boolean reports
// whether f was submitted at all.
func StaticForm(c Context, f *staticform.Form, process staticform.ProcessFunc) (bool, error) {
	return internal.StaticForm(c, f, process)
}

// RenderStaticForm renders f with a fresh CSRF token.
func RenderStaticForm(c Context, f *staticform.Form, fields Component) (Component, error) {
	return internal.RenderStaticForm(c, f, fields)
}

// Errors

// NewHTTPError creates an error carrying a status code and user-facing message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

var (
	ErrBadRequest    = internal.ErrBadRequest
	ErrUnauthorized  = internal.ErrUnauthorized
	ErrForbidden     = internal.ErrForbidden
	ErrNotFound      = internal.ErrNotFound
	ErrConflict      = internal.ErrConflict
	ErrUnprocessable = internal.ErrUnprocessable
	ErrInternal      = internal.ErrInternal
)

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// DefaultErrorHandler answers JSON clients with the API envelope and
// everyone else with plain text.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// Extractors

func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromHeader(name string) ExtractorSource       { return internal.FromHeader(name) }
func FromQuery(name string) ExtractorSource        { return internal.FromQuery(name) }
func FromParam(name string) ExtractorSource        { return internal.FromParam(name) }
func FromForm(name string) ExtractorSource         { return internal.FromForm(name) }
func FromCookie(name string) ExtractorSource       { return internal.FromCookie(name) }
func FromCookieSigned(name string) ExtractorSource { return internal.FromCookieSigned(name) }
func FromSession(key string) ExtractorSource       { return internal.FromSession(key) }
func FromUserID() ExtractorSource                  { return internal.FromUserID() }
func FromClientIP() ExtractorSource                { return internal.FromClientIP() }

// Context helpers

// ContextValue retrieves a typed value stored with c.Set.
// Returns the zero value of T if the key is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// SessionJSON decodes a JSON session value into T.
func SessionJSON[T any](c Context, key string) (T, error) {
	return internal.SessionJSON[T](c, key)
}

// Scalar lists the types Param and Query convert to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Param returns a URL parameter converted to T, or T's zero value.
//
//	id := carrier.Param[int64](c, "id")
func Param[T Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a query parameter converted to T, or T's zero value.
func Query[T Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns a query parameter converted to T, or def.
func QueryDefault[T Scalar](c Context, name string, def T) T {
	return internal.QueryDefault(c, name, def)
}
