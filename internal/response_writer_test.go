package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/carrier/internal"
)

func TestResponseWriter_HooksRunOnce(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := internal.NewResponseWriter(rec)

	calls := 0
	w.OnBeforeWrite(func() {
		calls++
		w.Header().Set("X-Hook", "ran")
	})

	assert.False(t, w.Written())
	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("hello"))
	w.Finish()

	assert.Equal(t, 1, calls)
	assert.True(t, w.Written())
	assert.Equal(t, http.StatusCreated, w.Status())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(5), w.Size())
	assert.Equal(t, "ran", rec.Header().Get("X-Hook"))
}

func TestResponseWriter_ImplicitStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := internal.NewResponseWriter(rec)

	calls := 0
	w.OnBeforeWrite(func() { calls++ })
	_, _ = w.Write([]byte("x"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusOK, w.Status())
}

func TestResponseWriter_FinishWithoutWrite(t *testing.T) {
	t.Parallel()

	w := internal.NewResponseWriter(httptest.NewRecorder())

	calls := 0
	w.OnBeforeWrite(func() { calls++ })
	w.Finish()
	w.Finish()

	assert.Equal(t, 1, calls)
	assert.False(t, w.Written())
}
