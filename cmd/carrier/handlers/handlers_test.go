package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier"
	"github.com/dmitrymomot/carrier/cmd/carrier/emails"
	"github.com/dmitrymomot/carrier/cmd/carrier/handlers"
	"github.com/dmitrymomot/carrier/domain"
	"github.com/dmitrymomot/carrier/domain/permissiongroup"
	"github.com/dmitrymomot/carrier/pkg/job"
	"github.com/dmitrymomot/carrier/middlewares"
	"github.com/dmitrymomot/carrier/pkg/mailer"
	"github.com/dmitrymomot/carrier/pkg/password"
	"github.com/dmitrymomot/carrier/pkg/session"
)

const (
	adminEmail    = "admin@carrier.test"
	adminPassword = "Secreto-123"
	jsonType      = "application/json; charset=utf-8"
)

type fakeGroups struct {
	mu       sync.Mutex
	groups   []permissiongroup.PermissionGroup
	inserted []permissiongroup.PermissionGroup
}

func (f *fakeGroups) RetrieveByID(_ context.Context, id int64) (*permissiongroup.PermissionGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGroups) RetrieveAll(context.Context) ([]permissiongroup.PermissionGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]permissiongroup.PermissionGroup(nil), f.groups...), nil
}

func (f *fakeGroups) Insert(_ context.Context, g *permissiongroup.PermissionGroup) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = int64(len(f.groups) + 1)
	f.groups = append(f.groups, *g)
	f.inserted = append(f.inserted, *g)
	return g.ID, nil
}

type fakeQueue struct {
	mu       sync.Mutex
	names    []string
	payloads []any

	// entered and hold, when set, park Enqueue until hold is closed.
	entered chan struct{}
	hold    chan struct{}
}

func (q *fakeQueue) Enqueue(_ context.Context, name string, payload any, _ ...job.EnqueueOption) error {
	if q.hold != nil {
		q.entered <- struct{}{}
		<-q.hold
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.names = append(q.names, name)
	q.payloads = append(q.payloads, payload)
	return nil
}

type fakeSettings map[string]string

func (s fakeSettings) Value(_ context.Context, key, def string) (string, error) {
	if v, ok := s[key]; ok {
		return v, nil
	}
	return def, nil
}

type fixture struct {
	app    *carrier.App
	groups *fakeGroups
	queue  *fakeQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := password.Hash(adminPassword)
	require.NoError(t, err)

	f := &fixture{
		groups: &fakeGroups{groups: []permissiongroup.PermissionGroup{
			{ID: 1, Type: permissiongroup.TypeSystem, ShortName: "admin", FullName: "Administradores", CreatedAt: time.Now()},
			{ID: 2, Type: permissiongroup.TypeManual, ShortName: "staff", FullName: "Personal", CreatedAt: time.Now()},
		}},
		queue: &fakeQueue{},
	}

	mail := mailer.New(mailer.SenderFunc(func(context.Context, *mailer.Email) error { return nil }),
		mailer.NewRenderer(emails.FS, "layouts"),
		mailer.Config{From: "no-reply@carrier.test", Layout: "base.html", AppName: "Carrier", AppURL: "https://carrier.test"},
	)
	contact := handlers.NewContactForm(&handlers.ContactProvider{
		Mailer:  mail,
		Queue:   f.queue,
		Support: mailer.Recipient{Email: "support@carrier.test"},
	}, handlers.AjaxPath)
	group := handlers.NewGroupForm(&handlers.GroupProvider{Groups: f.groups}, nil)
	auth := &handlers.Auth{Settings: fakeSettings{
		handlers.SettingAdminEmail:    adminEmail,
		handlers.SettingAdminPassword: hash,
	}}
	metrics := middlewares.NewMetrics(prometheus.NewRegistry(), "carrier")

	f.app = carrier.New(
		carrier.WithName("Carrier"),
		carrier.WithSession(session.NewMemoryStore()),
		carrier.WithMiddleware(handlers.Middleware(metrics, 1000, 1000)...),
		carrier.WithHandlers(
			&handlers.Pages{Contact: contact, Group: group, Groups: f.groups, Auth: auth},
			auth,
			&handlers.GroupAPI{Groups: f.groups},
		),
	)
	return f
}

func (f *fixture) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.app.ServeHTTP(w, req)
	return w
}

// sessionCookie returns the last session cookie set on w, or fallback.
func sessionCookie(w *httptest.ResponseRecorder, fallback *http.Cookie) *http.Cookie {
	found := fallback
	for _, c := range w.Result().Cookies() {
		if c.Name == "__sid" && c.MaxAge >= 0 {
			found = c
		}
	}
	return found
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (f *fixture) initialData(t *testing.T, query string, cookie *http.Cookie) (map[string]any, *http.Cookie, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, handlers.AjaxPath+"?"+query, nil)
	req.Header.Set("Content-Type", jsonType)
	w := f.do(req, cookie)
	return decode(t, w), sessionCookie(w, cookie), w
}

func (f *fixture) submit(t *testing.T, body map[string]any, cookie *http.Cookie) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := f.post(raw, cookie)
	return decode(t, w), w
}

// post sends a raw form submission; it is safe to call from any goroutine.
func (f *fixture) post(raw []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, handlers.AjaxPath, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", jsonType)
	return f.do(req, cookie)
}

var (
	tokenRe       = regexp.MustCompile(`name="csrf-token" value="([0-9a-f]+)"`)
	logoutTokenRe = regexp.MustCompile(`id="logout"[^>]*><input type="hidden" name="csrf-token" value="([0-9a-f]+)"`)
)

// logout posts the logout form rendered on the home page. An empty token
// sends the form without one.
func (f *fixture) logout(t *testing.T, cookie *http.Cookie, token string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"action": {"logout"}, "csrf-token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req, cookie)
}

func logoutToken(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	m := logoutTokenRe.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2, w.Body.String())
	return m[1]
}

// login signs the administrator in and returns the session cookie.
func (f *fixture) login(t *testing.T, pass string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()

	w := f.do(httptest.NewRequest(http.MethodGet, "/login", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := tokenRe.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2, w.Body.String())
	cookie := sessionCookie(w, nil)
	require.NotNil(t, cookie)

	form := url.Values{
		"action":     {"login"},
		"csrf-token": {m[1]},
		"email":      {strings.ToUpper(adminEmail)},
		"password":   {pass},
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = f.do(req, cookie)
	return w, sessionCookie(w, cookie)
}

func TestContactForm(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	env, cookie, w := f.initialData(t, "form-id="+handlers.ContactFormID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", env["name"])
	require.NotNil(t, cookie)

	t.Run("validation errors keep the form open", func(t *testing.T) {
		env, w := f.submit(t, map[string]any{
			"form-id":    handlers.ContactFormID,
			"csrf-token": env["csrf-token"],
			"name":       "Ana",
			"email":      "not-an-email",
			"message":    "hola",
		}, cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "error", env["status"])
		assert.NotEmpty(t, env["messages"])
		assert.NotEmpty(t, env["csrf-token"], "a fresh token is issued after an error")
	})

	env, _, _ = f.initialData(t, "form-id="+handlers.ContactFormID, cookie)
	env, w = f.submit(t, map[string]any{
		"form-id":    handlers.ContactFormID,
		"csrf-token": env["csrf-token"],
		"name":       "  Ana   García ",
		"email":      " ANA@example.com",
		"message":    "<b>Hola</b>, necesito ayuda",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ok", env["status"])
	assert.Equal(t, handlers.MsgContactSent, env["message"])

	f.queue.mu.Lock()
	defer f.queue.mu.Unlock()
	require.Equal(t, []string{mailer.SendTaskName}, f.queue.names)
	msg, ok := f.queue.payloads[0].(mailer.Message)
	require.True(t, ok)
	assert.Equal(t, "support@carrier.test", msg.To.Email)
	assert.Equal(t, "contact.md", msg.Template)
	assert.Equal(t, "Ana García", msg.Data["name"])
	assert.Equal(t, "ana@example.com", msg.Data["email"])
	assert.Equal(t, "Hola, necesito ayuda", msg.Data["message"])
}

func TestContactForm_ReusedTokenIsRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	env, cookie, _ := f.initialData(t, "form-id="+handlers.ContactFormID, nil)

	body := map[string]any{
		"form-id":    handlers.ContactFormID,
		"csrf-token": env["csrf-token"],
		"name":       "Ana",
		"email":      "ana@example.com",
		"message":    "hola",
	}
	_, w := f.submit(t, body, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	_, w = f.submit(t, body, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactForm_ConcurrentSubmitsShareOneToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.queue.entered = make(chan struct{}, 2)
	f.queue.hold = make(chan struct{})

	env, cookie, _ := f.initialData(t, "form-id="+handlers.ContactFormID, nil)
	require.NotNil(t, cookie)
	body := map[string]any{
		"form-id":    handlers.ContactFormID,
		"csrf-token": env["csrf-token"],
		"name":       "Ana",
		"email":      "ana@example.com",
		"message":    "hola",
	}

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	codes := make(chan int, 2)
	post := func() { codes <- f.post(raw, cookie).Code }

	go post()
	<-f.queue.entered

	// The second submit loads the session in the rate limiter and then
	// waits for the first one to finish.
	go post()
	time.Sleep(50 * time.Millisecond)
	close(f.queue.hold)

	got := []int{<-codes, <-codes}
	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusBadRequest}, got)

	f.queue.mu.Lock()
	defer f.queue.mu.Unlock()
	assert.Len(t, f.queue.names, 1, "the token was accepted once")
}

func TestHome_DoesNotResurrectConsumedToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.queue.entered = make(chan struct{}, 2)
	f.queue.hold = make(chan struct{})

	// Logged in, the home page issues a logout token and saves the session.
	_, cookie := f.login(t, adminPassword)
	env, cookie, _ := f.initialData(t, "form-id="+handlers.ContactFormID, cookie)
	body := map[string]any{
		"form-id":    handlers.ContactFormID,
		"csrf-token": env["csrf-token"],
		"name":       "Ana",
		"email":      "ana@example.com",
		"message":    "hola",
	}

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	done := make(chan int, 1)
	go func() { done <- f.post(raw, cookie).Code }()
	<-f.queue.entered

	home := make(chan int, 1)
	go func() {
		home <- f.do(httptest.NewRequest(http.MethodGet, "/", nil), cookie).Code
	}()
	time.Sleep(50 * time.Millisecond)
	close(f.queue.hold)

	require.Equal(t, http.StatusOK, <-done)
	require.Equal(t, http.StatusOK, <-home)

	_, w := f.submit(t, body, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code, "a page view must not restore a consumed token")
}

func TestGroupForm(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	env, _, w := f.initialData(t, "form-id="+handlers.GroupFormID+"&uniqueId=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Personal", env["full-name"])
	assert.Equal(t, "Manual", env["type-title"])

	links, ok := env["links"].([]any)
	require.True(t, ok)
	require.Len(t, links, 1)
	link := links[0].(map[string]any)
	assert.Equal(t, "parent", link["rel"])
	assert.Len(t, link["data"], 1, "the group itself is not a parent candidate")

	env, _, w = f.initialData(t, "form-id="+handlers.GroupFormID+"&uniqueId=99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []any{handlers.MsgGroupNotFound}, env["messages"])

	_, _, w = f.initialData(t, "form-id="+handlers.GroupFormID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHome(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-ajax-form-id="contact-form"`)
	assert.Contains(t, body, `data-ajax-endpoint="/ajax"`)
	assert.NotContains(t, body, "Grupos de permisos")
	assert.NotContains(t, body, `id="logout"`)

	_, cookie := f.login(t, adminPassword)
	w = f.do(httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "Grupos de permisos")
	assert.Contains(t, body, `action="/logout" id="logout"`)
	assert.Contains(t, body, `data-ajax-unique-id="2"`)
	assert.Contains(t, body, handlers.MsgLoggedIn)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, cookie := f.login(t, adminPassword)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		w = f.do(httptest.NewRequest(http.MethodGet, "/login", nil), cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code, "logged in users are sent home")
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, cookie := f.login(t, "incorrecta")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		w = f.do(httptest.NewRequest(http.MethodGet, "/login", nil), cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), handlers.MsgBadCredentials)
	})

	t.Run("logout", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, cookie := f.login(t, adminPassword)
		home := f.do(httptest.NewRequest(http.MethodGet, "/", nil), cookie)
		require.Equal(t, http.StatusOK, home.Code)
		token := logoutToken(t, home)

		w := f.logout(t, cookie, token)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		w = f.logout(t, sessionCookie(w, nil), token)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"), "the session is gone")
	})

	t.Run("logout without a valid token keeps the session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, cookie := f.login(t, adminPassword)

		w := f.do(httptest.NewRequest(http.MethodPost, "/logout", nil), cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = f.logout(t, cookie, "deadbeef")
		assert.Equal(t, http.StatusSeeOther, w.Code)

		w = f.do(httptest.NewRequest(http.MethodGet, "/", nil), sessionCookie(w, cookie))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Grupos de permisos", "still logged in")
	})
}

func TestGroupAPI(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/permission-groups", nil)
	req.Header.Set("Accept", "application/json")
	w := f.do(req, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, cookie := f.login(t, adminPassword)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/permission-groups", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"short-name":"staff"`)

	req = httptest.NewRequest(http.MethodPost, "/api/permission-groups",
		strings.NewReader(`{"full-name":"Editores de Contenido"}`))
	req.Header.Set("Content-Type", "application/json")
	w = f.do(req, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	f.groups.mu.Lock()
	require.Len(t, f.groups.inserted, 1)
	g := f.groups.inserted[0]
	f.groups.mu.Unlock()
	assert.Equal(t, "editores-de-contenido", g.ShortName)
	assert.Equal(t, permissiongroup.TypeManual, g.Type)
	require.NotNil(t, g.CreatorID)
	assert.Equal(t, adminEmail, *g.CreatorID)

	req = httptest.NewRequest(http.MethodPost, "/api/permission-groups", strings.NewReader(`{"short-name":""}`))
	w = f.do(req, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
