// Package middlewares provides HTTP middleware for Carrier applications.
//
// # Request ID
//
// RequestID tags each request with an ID, reusing a well-formed upstream
// X-Request-ID or X-Correlation-ID header. Pair it with RequestIDExtractor
// so every log line carries the ID:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	app := carrier.New(
//	    carrier.WithLogger(log, "web"),
//	    carrier.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns panics into *PanicError values handled by the app's error
// handler, which answers 500 without leaking the panic value.
//
// # Session lock
//
// SessionLock serializes requests sharing a session cookie. Install it
// ahead of any middleware that reads the session, such as RateLimit keyed
// by user, so two tabs cannot race over CSRF tokens or toasts:
//
//	carrier.WithMiddleware(
//	    middlewares.SessionLock(),
//	    middlewares.RateLimit(10, 20),
//	)
//
// # Access control
//
// RequireLoggedIn, RequireNotLoggedIn and RequirePermissionGroups guard
// routes by session identity. Pages get an error toast and a redirect;
// with ForAPI() the guards answer 401, 409 or 403 in the JSON envelope.
//
//	r.GET("/admin", admin.index, middlewares.RequirePermissionGroups([]string{"admin"}))
//	r.Route("/api", func(r carrier.Router) {
//	    r.Use(middlewares.RequireLoggedIn(middlewares.ForAPI()))
//	    r.GET("/me", profile.show)
//	})
//
// # Rate limiting and metrics
//
// RateLimit keeps a token bucket per client in a bounded LRU table.
// Metrics exports request counts and latencies to Prometheus:
//
//	m := middlewares.NewMetrics(prometheus.DefaultRegisterer, "carrier")
//	carrier.WithMiddleware(
//	    m.Middleware(),
//	    middlewares.RateLimit(10, 20, middlewares.WithRateLimitHook(m.RateLimitHook())),
//	)
package middlewares
