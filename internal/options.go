package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/carrier/pkg/cookie"
	"github.com/dmitrymomot/carrier/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithName sets the application name shown in toasts and emails.
func WithName(name string) Option {
	return func(a *App) {
		if name != "" {
			a.name = name
		}
	}
}

// WithPathBase serves every application route under base, e.g. "/app".
// Health checks and WithMount endpoints stay at the root.
func WithPathBase(base string) Option {
	return func(a *App) {
		base = strings.Trim(base, "/")
		if base == "" {
			a.pathBase = ""
			return
		}
		a.pathBase = "/" + base
	}
}

// WithDevMode toggles development behavior: toasts stay on screen and
// static forms skip token checks.
func WithDevMode(on bool) Option {
	return func(a *App) {
		a.devMode = on
	}
}

// WithHTTPMiddleware adds plain net/http middleware, such as chi's, on
// the root router. It runs before Middleware added with WithMiddleware.
//
//	carrier.WithHTTPMiddleware(middleware.RealIP)
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithMiddleware adds global middleware to the application routes.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithMount attaches h at pattern on the root router, outside the path
// base. Use it for infrastructure endpoints.
//
//	carrier.WithMount("/metrics", promhttp.Handler())
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mountPoint{h, pattern})
		}
	}
}

// WithStaticFiles mounts fsys/subDir at pattern under the path base.
// Directory listings are disabled.
//
//	//go:embed public
//	var assets embed.FS
//
//	carrier.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		fileServer := http.FileServerFS(subFS)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, mountPoint{handler, pattern})
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets a custom 404 handler.
//
//	carrier.WithNotFoundHandler(func(c carrier.Context) error {
//	    return c.Render(http.StatusNotFound, views.NotFound())
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables /health/live and /health/ready.
//
//	carrier.WithHealthChecks(
//	    carrier.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    carrier.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger sets the application logger, tagged with component.
//
//	carrier.WithLogger(logger.New(cfg.Log, requestIDExtractor), "web")
func WithLogger(l *slog.Logger, component string) Option {
	return func(a *App) {
		if l == nil {
			return
		}
		if component != "" {
			l = l.With("component", component)
		}
		a.logger = l
	}
}

// WithCookieOptions configures the cookie manager. The session cookie is
// signed once a secret is set.
//
//	carrier.WithCookieOptions(
//	    cookie.WithSecret(cfg.SessionSecret),
//	    cookie.WithSecure(!cfg.DevMode),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithSession enables server-side sessions kept in store.
// Sessions are loaded lazily and saved before the response is written.
//
//	carrier.WithSession(session.NewRedisStore(client, "carrier"),
//	    carrier.WithSessionMaxAge(cfg.SessionTTL),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}
