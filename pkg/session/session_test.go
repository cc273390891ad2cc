package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/pkg/session"
)

func TestSession_New(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	s := session.New("id-1", "tok-1", exp)

	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, "tok-1", s.Token)
	assert.Equal(t, exp, s.ExpiresAt)
	assert.True(t, s.IsNew())
	assert.True(t, s.IsDirty())
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsExpired())
}

func TestSession_Values(t *testing.T) {
	t.Parallel()

	s := session.New("id", "tok", time.Now().Add(time.Hour))
	s.ClearDirty()

	_, ok := s.Get("k")
	assert.False(t, ok)

	s.Set("k", "v")
	assert.True(t, s.IsDirty())
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	s.ClearDirty()
	s.Delete("missing")
	assert.False(t, s.IsDirty(), "deleting an absent key leaves the session clean")

	v, ok = s.Pop("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.True(t, s.IsDirty())
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestSession_Authenticate(t *testing.T) {
	t.Parallel()

	s := session.New("id", "tok", time.Now().Add(time.Hour))
	s.Authenticate("user-1", "admin", "editor")

	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.HasGroup("viewer", "editor"))
	assert.False(t, s.HasGroup("viewer"))
	assert.False(t, s.HasGroup())
}

func TestSession_JSON(t *testing.T) {
	t.Parallel()

	type item struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}

	s := session.New("id", "tok", time.Now().Add(time.Hour))
	require.NoError(t, s.SetJSON("items", []item{{Kind: "error", Text: "x"}}))

	got, err := session.JSON[[]item](s, "items")
	require.NoError(t, err)
	assert.Equal(t, []item{{Kind: "error", Text: "x"}}, got)

	_, err = session.JSON[[]item](s, "none")
	require.ErrorIs(t, err, session.ErrNotFound)

	s.Set("broken", "{")
	_, err = session.JSON[[]item](s, "broken")
	require.Error(t, err)

	_, err = session.JSON[int](nil, "x")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSession_Clone(t *testing.T) {
	t.Parallel()

	s := session.New("id", "tok", time.Now().Add(time.Hour))
	s.Set("a", "1")
	s.Authenticate("u", "g")

	c := s.Clone()
	c.Set("a", "2")
	c.Groups[0] = "other"

	assert.Equal(t, "1", session.ValueOr(s, "a", ""))
	assert.Equal(t, []string{"g"}, s.Groups)
}

func TestValueOr(t *testing.T) {
	t.Parallel()

	s := session.New("id", "tok", time.Now().Add(time.Hour))
	s.Set("present", "yes")

	assert.Equal(t, "yes", session.ValueOr(s, "present", "no"))
	assert.Equal(t, "no", session.ValueOr(s, "absent", "no"))
	assert.Equal(t, "no", session.ValueOr(nil, "present", "no"))
}
