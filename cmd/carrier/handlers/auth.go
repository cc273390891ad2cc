package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/carrier"
	"github.com/dmitrymomot/carrier/cmd/carrier/views"
	"github.com/dmitrymomot/carrier/middlewares"
	"github.com/dmitrymomot/carrier/pkg/password"
	"github.com/dmitrymomot/carrier/pkg/staticform"
)

// Setting keys holding the administrator credentials.
const (
	SettingAdminEmail    = "admin-email"
	SettingAdminPassword = "admin-password-hash"
)

const (
	MsgBadCredentials = "El correo o la contraseña no son correctos."
	MsgLoggedIn       = "Has iniciado sesión."
	MsgLoggedOut      = "Has cerrado sesión."
)

var errBadCredentials = errors.New("handlers: bad credentials")

// SettingSource reads application settings, e.g. appsetting.Store.
type SettingSource interface {
	Value(ctx context.Context, key, def string) (string, error)
}

// Auth serves the login and logout pages of the single administrator.
type Auth struct {
	Settings    SettingSource
	DevMode     bool
	DisableCSRF bool

	form       *staticform.Form
	logoutForm *staticform.Form
}

const (
	loginFormID  = "login"
	logoutFormID = "logout"
	logoutPath   = "/logout"
)

func (a *Auth) formOptions(extra ...staticform.Option) []staticform.Option {
	opts := append([]staticform.Option{staticform.WithDevMode(a.DevMode)}, extra...)
	if a.DisableCSRF {
		opts = append(opts, staticform.DisableCSRF())
	}
	return opts
}

// Routes implements carrier.Handler.
func (a *Auth) Routes(r carrier.Router) {
	a.form = staticform.MustNew(loginFormID, a.formOptions()...)
	a.logoutForm = staticform.MustNew(logoutFormID, a.formOptions()...)

	r.GET("/login", a.page, middlewares.RequireNotLoggedIn())
	r.POST("/login", a.login, middlewares.RequireNotLoggedIn())
	r.POST(logoutPath, a.logout, middlewares.RequireLoggedIn())
}

// LogoutButton renders the logout form. It posts to the logout route with
// a token kept under the same session key the route checks.
func (a *Auth) LogoutButton(c carrier.Context) (templ.Component, error) {
	form := staticform.MustNew(logoutFormID, a.formOptions(staticform.WithAction(c.URL(logoutPath)))...)
	return carrier.RenderStaticForm(c, form, views.Submit("Salir"))
}

func (a *Auth) page(c carrier.Context) error {
	form, err := carrier.RenderStaticForm(c, a.form, views.Group(
		views.Input("email", "Correo electrónico", "email"),
		views.Input("password", "Contraseña", "password"),
		views.Submit("Entrar"),
	))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.Page(c.URL(AssetsPath), c.AppName(), "Entrar", c.Toasts(), views.Heading("Entrar", form)))
}

func (a *Auth) login(c carrier.Context) error {
	sent, err := carrier.StaticForm(c, a.form, func(ctx context.Context, values url.Values) error {
		return a.check(ctx, values.Get("email"), values.Get("password"))
	})
	if !sent {
		return carrier.ErrBadRequest("form not sent")
	}

	switch {
	case err == nil:
		email := strings.ToLower(strings.TrimSpace(c.Form("email")))
		if err := c.AuthenticateSession(email, AdminGroup); err != nil {
			return err
		}
		if err := c.ToastSuccess(MsgLoggedIn); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, c.URL(middlewares.DefaultHomePath))
	case errors.Is(err, staticform.ErrInvalidToken):
		return c.Redirect(http.StatusSeeOther, c.URL(middlewares.DefaultLoginPath))
	case errors.Is(err, errBadCredentials):
		if err := c.ToastError(MsgBadCredentials); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, c.URL(middlewares.DefaultLoginPath))
	default:
		return err
	}
}

func (a *Auth) check(ctx context.Context, email, plain string) error {
	want, err := a.Settings.Value(ctx, SettingAdminEmail, "")
	if err != nil {
		return err
	}
	hash, err := a.Settings.Value(ctx, SettingAdminPassword, "")
	if err != nil {
		return err
	}
	if want == "" || hash == "" || !strings.EqualFold(strings.TrimSpace(email), want) {
		return errBadCredentials
	}
	if err := password.Compare(hash, plain); err != nil {
		return errBadCredentials
	}
	return nil
}

func (a *Auth) logout(c carrier.Context) error {
	sent, err := carrier.StaticForm(c, a.logoutForm, func(context.Context, url.Values) error { return nil })
	if !sent {
		return carrier.ErrBadRequest("form not sent")
	}
	if errors.Is(err, staticform.ErrInvalidToken) {
		return c.Redirect(http.StatusSeeOther, c.URL(middlewares.DefaultHomePath))
	}
	if err != nil {
		return err
	}

	if err := c.DestroySession(); err != nil {
		return err
	}
	if err := c.ToastSuccess(MsgLoggedOut); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, c.URL(middlewares.DefaultHomePath))
}
