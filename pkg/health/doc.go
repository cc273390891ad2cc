// Package health serves liveness and readiness probes.
//
// Readiness runs every named [CheckFunc] concurrently under a shared
// timeout and answers 503 when any of them fails. Both probes answer
// plain text, or JSON when asked with ?format=json or an Accept header
// naming application/json:
//
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}))
package health
