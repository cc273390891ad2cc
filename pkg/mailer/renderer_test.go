package mailer

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`<html><title>{{.Subject}}</title><body>{{.Content}}</body></html>`)},
		"welcome.md": {Data: []byte("---\nsubject: Bienvenido a {{index . \"app-name\"}}\n---\n" +
			"Hola **{{index . \"user-first-name\"}}**.\n\nEntra en {{index . \"app-url\"}}\n")},
		"reset.md":   {Data: []byte("Tu código es {{.code}}")},
		"reset.txt":  {Data: []byte("CODIGO {{.code}}")},
		"broken.md":  {Data: []byte("{{.code")},
		"nolayout.md": {Data: []byte("x")},
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewRenderer(testFS(), "")
	out, err := r.Render("base.html", "welcome.md", map[string]any{
		KeyAppName:       "Carrier",
		KeyAppURL:        "https://carrier.test",
		KeyUserFirstName: "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bienvenido a Carrier", out.Subject)
	assert.Contains(t, out.HTML, "<title>Bienvenido a Carrier</title>")
	assert.Contains(t, out.HTML, "<strong>Ana</strong>")
	assert.Contains(t, out.HTML, `<a href="https://carrier.test">`)
	assert.Contains(t, out.Text, "Hola **Ana**.")
	assert.NotContains(t, out.Text, "<strong>")
}

func TestRenderer_PlainTextSibling(t *testing.T) {
	t.Parallel()

	r := NewRenderer(testFS(), "layouts")
	out, err := r.Render("base.html", "reset.md", map[string]any{"code": "1234"})
	require.NoError(t, err)
	assert.Equal(t, "CODIGO 1234", out.Text)
	assert.Contains(t, out.HTML, "Tu código es 1234")
	assert.Empty(t, out.Subject)
}

func TestRenderer_Errors(t *testing.T) {
	t.Parallel()

	r := NewRenderer(testFS(), "layouts")

	_, err := r.Render("base.html", "missing.md", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = r.Render("missing.html", "nolayout.md", nil)
	assert.ErrorIs(t, err, ErrLayoutNotFound)

	_, err = r.Render("base.html", "broken.md", nil)
	assert.ErrorIs(t, err, ErrRenderFailed)
}

func TestRenderer_ConcurrentRendersShareCache(t *testing.T) {
	t.Parallel()

	r := NewRenderer(testFS(), "layouts")

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := string(rune('a' + i))
			out, err := r.Render("base.html", "reset.md", map[string]any{"code": code})
			assert.NoError(t, err)
			assert.Equal(t, "CODIGO "+code, out.Text)
		}()
	}
	wg.Wait()

	assert.Len(t, r.templates, 1)
	assert.Len(t, r.layouts, 1)
}
