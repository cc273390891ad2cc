package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/carrier/internal"
	"github.com/dmitrymomot/carrier/pkg/api"
)

// Page messages are queued as error toasts before redirecting.
const (
	MsgLoginRequired   = "Necesitas haber iniciado sesión para acceder a este contenido."
	MsgAlreadyLoggedIn = "No puedes acceder a esta página habiendo iniciado sesión."
	MsgForbidden       = "No tienes permiso para acceder a este contenido."
)

// API messages travel in the response envelope.
const (
	MsgAPIUnauthenticated = "No autenticado."
	MsgAPIAuthenticated   = "No debería estar autenticado."
	MsgAPIForbidden       = "No autorizado."
)

// Default redirect targets, relative to the app's path base.
const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/"
)

type authConfig struct {
	api       bool
	loginPath string
	homePath  string
}

// AuthOption configures the Require* middlewares.
type AuthOption func(*authConfig)

// ForAPI answers with a JSON envelope and status code instead of a toast
// and a redirect.
func ForAPI() AuthOption {
	return func(cfg *authConfig) { cfg.api = true }
}

func WithLoginPath(path string) AuthOption {
	return func(cfg *authConfig) { cfg.loginPath = path }
}

func WithHomePath(path string) AuthOption {
	return func(cfg *authConfig) { cfg.homePath = path }
}

func newAuthConfig(opts []AuthOption) *authConfig {
	cfg := &authConfig{loginPath: DefaultLoginPath, homePath: DefaultHomePath}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RequireLoggedIn lets only logged-in visitors through. Pages redirect
// to the login path; API routes get 401.
func RequireLoggedIn(opts ...AuthOption) internal.Middleware {
	cfg := newAuthConfig(opts)
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return cfg.deny(c, http.StatusUnauthorized, MsgAPIUnauthenticated, MsgLoginRequired, cfg.loginPath)
			}
			return next(c)
		}
	}
}

// RequireNotLoggedIn keeps logged-in users off pages such as the login
// form. Pages redirect home; API routes get 409.
func RequireNotLoggedIn(opts ...AuthOption) internal.Middleware {
	cfg := newAuthConfig(opts)
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if c.IsAuthenticated() {
				return cfg.deny(c, http.StatusConflict, MsgAPIAuthenticated, MsgAlreadyLoggedIn, cfg.homePath)
			}
			return next(c)
		}
	}
}

// RequirePermissionGroups requires a logged-in user who belongs to every
// one of groups. Anonymous visitors are treated as by RequireLoggedIn;
// users missing a group are redirected home, or get 403 on API routes.
func RequirePermissionGroups(groups []string, opts ...AuthOption) internal.Middleware {
	cfg := newAuthConfig(opts)
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return cfg.deny(c, http.StatusUnauthorized, MsgAPIUnauthenticated, MsgLoginRequired, cfg.loginPath)
			}
			for _, g := range groups {
				if !c.HasPermissionGroup(g) {
					c.LogWarn("permission group missing", "user_id", c.UserID(), "group", g)
					return cfg.deny(c, http.StatusForbidden, MsgAPIForbidden, MsgForbidden, cfg.homePath)
				}
			}
			return next(c)
		}
	}
}

func (cfg *authConfig) deny(c internal.Context, code int, apiMsg, pageMsg, target string) error {
	if cfg.api {
		return api.Respond(c.Response(), code, nil, apiMsg)
	}
	if err := c.ToastError(pageMsg); err != nil {
		c.LogWarn("failed to queue toast", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, c.URL(target))
}
