package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Rendered is the output of Renderer.Render.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
	Meta    map[string]any
}

type compiled struct {
	meta    map[string]any
	subject *texttemplate.Template
	body    *texttemplate.Template
	plain   *texttemplate.Template
}

// Renderer turns markdown templates into HTML wrapped in a layout. Parsed
// templates are cached; rendering runs with fresh data every time.
//
// A template name.md may have a sibling name.txt used verbatim as the plain
// text part. Without it the rendered markdown source is the plain text.
type Renderer struct {
	fsys      fs.FS
	layoutDir string
	md        goldmark.Markdown

	mu        sync.RWMutex
	templates map[string]*compiled
	layouts   map[string]*template.Template
}

// NewRenderer reads templates from the root of fsys and layouts from layoutDir.
func NewRenderer(fsys fs.FS, layoutDir string) *Renderer {
	if layoutDir == "" {
		layoutDir = "layouts"
	}
	return &Renderer{
		fsys:      fsys,
		layoutDir: layoutDir,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		templates: make(map[string]*compiled),
		layouts:   make(map[string]*template.Template),
	}
}

// Render executes templateName with data and wraps the result in layout.
func (r *Renderer) Render(layout, templateName string, data any) (*Rendered, error) {
	c, err := r.template(templateName)
	if err != nil {
		return nil, err
	}

	var src bytes.Buffer
	if err := c.body.Execute(&src, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, templateName, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(src.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: %s: markdown: %v", ErrRenderFailed, templateName, err)
	}

	text := src.String()
	if c.plain != nil {
		var plain bytes.Buffer
		if err := c.plain.Execute(&plain, data); err != nil {
			return nil, fmt.Errorf("%w: %s plain text: %v", ErrRenderFailed, templateName, err)
		}
		text = plain.String()
	}

	var subject bytes.Buffer
	if c.subject != nil {
		if err := c.subject.Execute(&subject, data); err != nil {
			return nil, fmt.Errorf("%w: %s subject: %v", ErrRenderFailed, templateName, err)
		}
	}

	lt, err := r.layout(layout)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	err = lt.Execute(&out, map[string]any{
		"Content": template.HTML(body.String()), //nolint:gosec // produced by goldmark from our own templates
		"Subject": subject.String(),
		"Meta":    c.meta,
		"Data":    data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &Rendered{
		Subject: subject.String(),
		HTML:    out.String(),
		Text:    text,
		Meta:    c.meta,
	}, nil
}

func (r *Renderer) template(name string) (*compiled, error) {
	r.mu.RLock()
	c, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	raw, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	tpl, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	c = &compiled{meta: tpl.Meta}
	if c.body, err = texttemplate.New(name).Option("missingkey=zero").Parse(tpl.Body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	if s := tpl.Subject(); s != "" {
		if c.subject, err = texttemplate.New(name + ":subject").Parse(s); err != nil {
			return nil, fmt.Errorf("%w: %s subject: %v", ErrRenderFailed, name, err)
		}
	}

	plainName := name[:len(name)-len(path.Ext(name))] + ".txt"
	if rawPlain, err := fs.ReadFile(r.fsys, plainName); err == nil {
		if c.plain, err = texttemplate.New(plainName).Parse(string(rawPlain)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, plainName, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.templates[name]; ok {
		return existing, nil
	}
	r.templates[name] = c
	return c, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	lt, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return lt, nil
	}

	raw, err := fs.ReadFile(r.fsys, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	lt, err = template.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.layouts[name]; ok {
		return existing, nil
	}
	r.layouts[name] = lt
	return lt, nil
}
