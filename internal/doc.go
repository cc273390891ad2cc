// Package internal provides the core types and implementation for the Carrier framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/carrier"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Orchestrates the HTTP router, sessions, background jobs, and graceful shutdown
//   - Context: Request/response access plus sessions, toasts, identity, and job enqueueing
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns like auth or rate limiting
//   - ErrorHandler: Custom error handling function for handler errors
//
// # One Context Per Request
//
// Every middleware and the handler of a request receive the same Context.
// The session is loaded lazily on first access and persisted once, right
// before the response header is written, or after the handler returns if
// nothing was written. Toasts popped while rendering a page are therefore
// removed from the store even though the page body is already streaming.
//
//	func (h *Pages) home(c carrier.Context) error {
//	    return c.Render(http.StatusOK, views.Home(c.Toasts()))
//	}
//
// # Application Structure
//
//	app := internal.New(
//	    internal.WithName("Carrier"),
//	    internal.WithPathBase("/app"),
//	    internal.WithSession(store),
//	    internal.WithHandlers(pages, forms),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("db", dbCheck)),
//	)
//
// Routes declared by handlers live under the path base. Health endpoints and
// anything attached with WithMount stay at the root so probes and metrics
// scrapers do not need to know the prefix.
//
// # Forms
//
// AjaxForm serves the JSON envelope protocol used by client-side forms;
// StaticForm and RenderStaticForm drive plain POST forms guarded by a
// session-stored CSRF token.
//
//	r.POST("/ajax/contact", internal.AjaxForm(contactForm))
//
// # Error Handling
//
// Handlers return errors. HTTPError values carry their status code and
// user-facing messages; DefaultErrorHandler answers JSON clients with the
// api envelope and everyone else with plain text.
//
// # Lifecycle
//
// Run starts the job worker and startup hooks, serves until the context is
// cancelled or SIGINT/SIGTERM arrives, then runs shutdown hooks in order.
package internal
