package carrier_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier"
	"github.com/dmitrymomot/carrier/pkg/ajaxform"
	"github.com/dmitrymomot/carrier/pkg/session"
	"github.com/dmitrymomot/carrier/pkg/staticform"
)

type pages struct {
	contact *ajaxform.Handler
	login   *staticform.Form
}

func (p *pages) Routes(r carrier.Router) {
	r.Handle("/ajax/contact", carrier.AjaxForm(p.contact))
	r.GET("/items/{id}", func(c carrier.Context) error {
		id := carrier.Param[int64](c, "id")
		page := carrier.QueryDefault(c, "page", 1)
		if id == 0 {
			return carrier.ErrNotFound("no such item")
		}
		return c.JSON(http.StatusOK, map[string]int64{"id": id, "page": int64(page)})
	})
	r.POST("/login", func(c carrier.Context) error {
		sent, err := carrier.StaticForm(c, p.login, func(context.Context, url.Values) error {
			return nil
		})
		if !sent {
			return carrier.ErrBadRequest("form not sent")
		}
		if errors.Is(err, staticform.ErrInvalidToken) {
			return c.Redirect(http.StatusSeeOther, c.URL("/login"))
		}
		return err
	})
}

func newApp(t *testing.T) *carrier.App {
	t.Helper()

	form, err := ajaxform.New("contact-form", "Contact", ajaxform.WithSubmit("/app/ajax/contact", http.MethodPost))
	require.NoError(t, err)

	return carrier.New(
		carrier.WithName("Test"),
		carrier.WithPathBase("/app"),
		carrier.WithSession(session.NewMemoryStore()),
		carrier.WithHealthChecks(),
		carrier.WithHandlers(&pages{
			contact: ajaxform.NewHandler(form, ajaxform.ProviderFuncs{
				Default: func(context.Context, url.Values) (ajaxform.Data, error) {
					return ajaxform.Data{"greeting": "hola"}, nil
				},
			}),
			login: staticform.MustNew("login"),
		}),
	)
}

func TestApp_TypedParams(t *testing.T) {
	t.Parallel()

	app := newApp(t)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/items/42?page=3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"page":3}`, w.Body.String())

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/items/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_AjaxFormUnderPathBase(t *testing.T) {
	t.Parallel()

	app := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/app/ajax/contact?form-id=contact-form", nil)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"greeting":"hola"`)
	assert.Contains(t, w.Body.String(), `"csrf-token"`)
}

func TestApp_StaticFormRejectsForgedToken(t *testing.T) {
	t.Parallel()

	app := newApp(t)

	body := url.Values{"action": {"login"}, "csrf-token": {"forged"}}
	req := httptest.NewRequest(http.MethodPost, "/app/login", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/app/login", w.Header().Get("Location"))
}

func TestApp_HealthAtRoot(t *testing.T) {
	t.Parallel()

	app := newApp(t)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	err := carrier.NewHTTPError(http.StatusTeapot, "short and stout")
	he := carrier.AsHTTPError(errors.Join(errors.New("ctx"), err))
	require.NotNil(t, he)
	assert.Equal(t, http.StatusTeapot, he.Code)
	assert.Nil(t, carrier.AsHTTPError(errors.New("plain")))
}
