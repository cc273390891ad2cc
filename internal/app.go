package internal

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/carrier/pkg/cookie"
	"github.com/dmitrymomot/carrier/pkg/health"
	"github.com/dmitrymomot/carrier/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

const defaultAppName = "Carrier"

// App orchestrates the application lifecycle.
// It manages HTTP routing, middleware, and graceful shutdown.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookieManager           *cookie.Manager
	sessionManager          *SessionManager
	jobEnqueuer             JobEnqueuer
	jobWorker               JobWorker
	name                    string
	pathBase                string
	devMode                 bool
	httpMiddlewares         []func(http.Handler) http.Handler
	middlewares             []Middleware
	handlers                []Handler
	staticRoutes            []mountPoint
	mounts                  []mountPoint
}

// mountPoint is an http.Handler attached under a pattern.
type mountPoint struct {
	handler http.Handler
	pattern string
}

// New creates a new application with the given options.
//
// Example:
//
//	app := carrier.New(
//	    carrier.WithName(cfg.Name),
//	    carrier.WithPathBase(cfg.PathBase),
//	    carrier.WithSession(store),
//	    carrier.WithHandlers(handlers.NewContact(mailer)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
		errorHandler:  DefaultErrorHandler,
		name:          defaultAppName,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.sessionManager != nil {
		a.sessionManager.setLogger(a.logger)
		a.sessionManager.setCookies(a.cookieManager)
	}

	a.setupRoutes()
	return a
}

// Router returns the root chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP makes App usable as a plain http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run starts the HTTP server on addr and blocks until shutdown.
// A configured job worker is started before serving and stopped after
// the server drains.
//
// Example:
//
//	err := app.Run(cfg.Addr,
//	    carrier.Logger(log),
//	    carrier.ShutdownHook(db.Shutdown(pool)),
//	)
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	startupHooks := cfg.startupHooks
	shutdownHooks := cfg.shutdownHooks
	if a.jobWorker != nil {
		startupHooks = append([]func(context.Context) error{a.jobWorker.Start}, startupHooks...)
		shutdownHooks = append([]func(context.Context) error{stopWorker(a.jobWorker)}, shutdownHooks...)
	}

	if addr == "" {
		addr = cfg.address
	}
	log := cfg.logger
	if log == nil {
		log = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          log,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes wires infrastructure endpoints on the root router and the
// application routes under the path base.
func (a *App) setupRoutes() {
	// chi requires middleware before any route on the same mux.
	for _, mw := range a.httpMiddlewares {
		a.router.Use(mw)
	}

	base := a.router
	if a.pathBase != "" {
		base = chi.NewRouter()
	}
	for _, mw := range a.middlewares {
		base.Use(a.adaptMiddleware(mw))
	}

	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
		base.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
		base.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath,
			health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}
	for _, m := range a.mounts {
		a.router.Mount(m.pattern, m.handler)
	}

	for _, sr := range a.staticRoutes {
		prefix := strings.TrimSuffix(a.pathBase+sr.pattern, "/")
		base.Mount(sr.pattern, http.StripPrefix(prefix, sr.handler))
	}

	r := &routerAdapter{router: base, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}

	if base != a.router {
		a.router.Mount(a.pathBase, base)
	}
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := a.contextFor(w, r)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
		c.finish()
	}
}

// handleError hands err to the error handler unless a response is out.
func (a *App) handleError(c *requestContext, err error) {
	if c.Written() {
		c.LogError("handler failed after response was written", "error", err)
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		c.LogError("error handler failed", "error", herr)
		if !c.Written() {
			http.Error(c.response, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// finish persists session changes made after the response went out,
// including toasts popped while rendering.
func (c *requestContext) finish() {
	c.responseWriter.Finish()
	c.flushSession()
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
//
//	carrier.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
