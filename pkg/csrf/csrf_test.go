package csrf_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/pkg/csrf"
	"github.com/dmitrymomot/carrier/pkg/session"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestGenerate(t *testing.T) {
	t.Parallel()

	a, b := csrf.Generate(), csrf.Generate()
	assert.Regexp(t, hex64, a)
	assert.Regexp(t, hex64, b)
	assert.NotEqual(t, a, b)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("single use", func(t *testing.T) {
		t.Parallel()
		st := csrf.MapStorage{}
		tok := csrf.Issue(st, "csrf_contact")

		assert.True(t, csrf.Validate(st, "csrf_contact", tok))
		assert.False(t, csrf.Validate(st, "csrf_contact", tok))
	})

	t.Run("mismatch still consumes", func(t *testing.T) {
		t.Parallel()
		st := csrf.MapStorage{}
		tok := csrf.Issue(st, "csrf_contact")

		assert.False(t, csrf.Validate(st, "csrf_contact", "wrong"))
		_, ok := st.Get("csrf_contact")
		assert.False(t, ok)
		assert.False(t, csrf.Validate(st, "csrf_contact", tok))
	})

	t.Run("absent token", func(t *testing.T) {
		t.Parallel()
		st := csrf.MapStorage{}
		assert.False(t, csrf.Validate(st, "csrf_contact", ""))
		assert.False(t, csrf.Validate(st, "csrf_contact", csrf.Generate()))
	})

	t.Run("empty submission", func(t *testing.T) {
		t.Parallel()
		st := csrf.MapStorage{"k": ""}
		assert.False(t, csrf.Validate(st, "k", ""))
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()
		st := csrf.MapStorage{}
		a := csrf.Issue(st, "csrf_a")
		b := csrf.Issue(st, "csrf_b")

		assert.False(t, csrf.Validate(st, "csrf_a", b))
		assert.True(t, csrf.Validate(st, "csrf_b", b))
		assert.NotEqual(t, a, b)
	})

	t.Run("reissue replaces", func(t *testing.T) {
		t.Parallel()
		st := csrf.MapStorage{}
		old := csrf.Issue(st, "k")
		fresh := csrf.Issue(st, "k")
		assert.False(t, csrf.Validate(st, "k", old))
		csrf.Issue(st, "k")
		assert.NotEqual(t, old, fresh)
	})
}

func TestSessionStorage(t *testing.T) {
	t.Parallel()

	s := session.New("id", "tok", time.Now().Add(time.Hour))
	s.ClearDirty()

	var st csrf.Storage = s
	tok := csrf.Issue(st, "csrf_form")
	require.True(t, s.IsDirty())

	assert.True(t, csrf.Validate(st, "csrf_form", tok))
	_, ok := s.Get("csrf_form")
	assert.False(t, ok)
}
