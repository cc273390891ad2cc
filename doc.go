// Package carrier is a small web framework for server-rendered sites
// whose forms talk to the server over AJAX.
//
// An AJAX form is declared once, with a provider that supplies its
// initial data and processes its submissions. Carrier answers every call
// with a JSON envelope and guards each submission with a single-use CSRF
// token kept in the visitor's session. Plain POST forms, toasts, API
// endpoints, background jobs and email delivery round out the toolkit.
//
// # Quick Start
//
//	app := carrier.New(
//	    carrier.WithName("Carrier"),
//	    carrier.WithSession(session.NewMemoryStore()),
//	    carrier.WithHandlers(handlers.NewContact(repo)),
//	)
//
//	if err := app.Run(":8080", carrier.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type Contact struct {
//	    form *ajaxform.Handler
//	}
//
//	func (h *Contact) Routes(r carrier.Router) {
//	    r.GET("/contact", h.page)
//	    r.Handle("/ajax/contact", carrier.AjaxForm(h.form))
//	}
//
//	func (h *Contact) page(c carrier.Context) error {
//	    return c.Render(http.StatusOK, views.Contact(h.form.Form(), c.Toasts()))
//	}
//
// # Static forms
//
// Pages without JavaScript use [StaticForm] and [RenderStaticForm]. A
// failed CSRF check queues an error toast that the next page shows.
//
// # Shutdown
//
// Run handles SIGINT and SIGTERM. Register cleanup with [ShutdownHook]:
//
//	app.Run(cfg.Addr,
//	    carrier.ShutdownHook(db.Shutdown(pool)),
//	    carrier.ShutdownHook(redis.Shutdown(client)),
//	)
package carrier
