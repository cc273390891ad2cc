// Package logger builds the structured slog loggers used across Carrier.
//
// Every logger writes to stdout (JSON in production, text in development)
// and runs records through context extractors, so request-scoped values
// such as the request ID show up on each line without being passed around.
// When a Sentry DSN is configured, warnings and errors are also forwarded to
// Sentry; errors become issues.
//
// Usage:
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//	    middlewares.RequestIDExtractor(),
//	)
//	log.InfoContext(ctx, "form submitted", slog.String("form_id", "contact-form"))
//
// Packages that accept an optional logger fall back to NewNope.
package logger
