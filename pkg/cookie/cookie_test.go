package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/pkg/cookie"
)

const secret = "0123456789abcdef0123456789abcdef"

// roundTrip copies the cookies written to rec into a new request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithDomain("example.com"), cookie.WithSecure(true))
	rec := httptest.NewRecorder()
	m.Set(rec, "a", "value", 60)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	v, err := m.Get(roundTrip(rec), "a")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = m.Get(roundTrip(rec), "missing")
	require.ErrorIs(t, err, cookie.ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	cookie.New().Delete(rec, "a")
	c := rec.Result().Cookies()[0]
	assert.Equal(t, -1, c.MaxAge)
	assert.Empty(t, c.Value)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecret(secret))
	require.True(t, m.Signed())

	rec := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(rec, "sid", "token-1", 60))

	v, err := m.GetSigned(roundTrip(rec), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-1", v)

	t.Run("tampered", func(t *testing.T) {
		raw := rec.Result().Cookies()[0].Value
		enc, sig, _ := strings.Cut(raw, ".")
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sid", Value: enc + "x." + sig})
		_, err := m.GetSigned(r, "sid")
		require.ErrorIs(t, err, cookie.ErrBadSig)

		r = httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sid", Value: "no-signature"})
		_, err = m.GetSigned(r, "sid")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("other secret", func(t *testing.T) {
		other := cookie.New(cookie.WithSecret(strings.Repeat("z", 32)))
		_, err := other.GetSigned(roundTrip(rec), "sid")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})
}

func TestManager_ReadWrite(t *testing.T) {
	t.Parallel()

	t.Run("short secret falls back to plain", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret("short"))
		assert.False(t, m.Signed())

		rec := httptest.NewRecorder()
		m.Write(rec, "sid", "tok", 60)
		assert.Equal(t, "tok", rec.Result().Cookies()[0].Value)

		_, err := m.GetSigned(roundTrip(rec), "sid")
		require.ErrorIs(t, err, cookie.ErrNoSecret)

		v, err := m.Read(roundTrip(rec), "sid")
		require.NoError(t, err)
		assert.Equal(t, "tok", v)
	})

	t.Run("signed", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret(secret))
		rec := httptest.NewRecorder()
		m.Write(rec, "sid", "tok", 60)
		assert.NotEqual(t, "tok", rec.Result().Cookies()[0].Value)

		v, err := m.Read(roundTrip(rec), "sid")
		require.NoError(t, err)
		assert.Equal(t, "tok", v)
	})
}
