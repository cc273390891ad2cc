package ajaxform_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/pkg/ajaxform"
	"github.com/dmitrymomot/carrier/pkg/csrf"
)

func TestChain(t *testing.T) {
	t.Parallel()

	var hit string
	mk := func(id string) *ajaxform.Handler {
		f := ajaxform.MustNew(id, id, ajaxform.WithSubmit("/ajax", http.MethodPost))
		return ajaxform.NewHandler(f, ajaxform.ProviderFuncs{
			Submit: func(_ context.Context, res *ajaxform.Responder, _ ajaxform.Data) error {
				hit = id
				return res.OK(nil)
			},
		})
	}
	chain := ajaxform.Chain{mk("first"), mk("second")}
	st := csrf.MapStorage{}

	t.Run("submission reaches the addressed form", func(t *testing.T) {
		tok := csrf.Issue(st, "csrf_second")
		rec := httptest.NewRecorder()
		require.True(t, chain.Handle(rec, submitReq(http.MethodPost, map[string]any{
			"form-id": "second", "csrf-token": tok,
		}), st))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "second", hit)
		assert.Equal(t, "second", decode(t, rec)["form-id"])
	})

	t.Run("initial data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.True(t, chain.Handle(rec, getReq("second"), st))
		assert.Equal(t, "second", decode(t, rec)["form-id"])
	})

	t.Run("unclaimed request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.False(t, chain.Handle(rec, getReq("third"), st))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown form id with a method no form accepts", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.False(t, chain.Handle(rec, submitReq(http.MethodPut, map[string]any{"form-id": "third"}), st))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("empty chain", func(t *testing.T) {
		assert.False(t, ajaxform.Chain{}.Handle(httptest.NewRecorder(), getReq("x"), st))
	})
}

func TestChain_MethodRejectionStaysWithItsForm(t *testing.T) {
	t.Parallel()

	readOnly := ajaxform.NewHandler(ajaxform.MustNew("groups", "Groups", ajaxform.ReadOnly()), ajaxform.ProviderFuncs{})
	contact := contactHandler(t, func(_ context.Context, res *ajaxform.Responder, _ ajaxform.Data) error {
		return res.OK(nil)
	})
	chain := ajaxform.Chain{readOnly, contact}
	st := csrf.MapStorage{}

	tok := csrf.Issue(st, "csrf_contact-form")
	rec := httptest.NewRecorder()
	require.True(t, chain.Handle(rec, submitReq(http.MethodPost, map[string]any{
		"form-id": "contact-form", "csrf-token": tok,
	}), st))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	require.True(t, chain.Handle(rec, submitReq(http.MethodPost, map[string]any{"form-id": "groups"}), st))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{ajaxform.MsgMethod}, decode(t, rec)["messages"])
}
