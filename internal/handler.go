package internal

// Handler declares routes on a router.
//
// Example:
//
//	type ContactHandler struct {
//	    forms []*ajaxform.Handler
//	}
//
//	func (h *ContactHandler) Routes(r carrier.Router) {
//	    r.POST("/ajax", carrier.AjaxForm(h.forms...))
//	    r.GET("/contact", h.page)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func Auth(next carrier.HandlerFunc) carrier.HandlerFunc {
//	    return func(c carrier.Context) error {
//	        if !c.IsAuthenticated() {
//	            return c.Redirect(http.StatusSeeOther, c.URL("/login"))
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
