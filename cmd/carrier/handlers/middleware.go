package handlers

import (
	"github.com/dmitrymomot/carrier"
	"github.com/dmitrymomot/carrier/middlewares"
)

// Middleware returns the global middleware of the app, in order.
// SessionLock comes before the rate limiter, whose default key reads the
// session, so every session read happens under the lock.
func Middleware(m *middlewares.Metrics, rps float64, burst int) []carrier.Middleware {
	return []carrier.Middleware{
		middlewares.RequestID(),
		middlewares.Recover(),
		middlewares.SessionLock(),
		m.Middleware(),
		middlewares.RateLimit(rps, burst, middlewares.WithRateLimitHook(m.RateLimitHook())),
	}
}
