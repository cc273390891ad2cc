// Package views renders the demo pages. The markup is deliberately plain:
// Bootstrap classes plus the data attributes read by the ajax form script.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Page wraps body in the HTML document shell. assets is the URL the static
// files are served from. toasts may be nil.
func Page(assets, appName, title string, toasts, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!doctype html><html lang="es"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s | %s</title>`+
				`<link rel="stylesheet" href="%s/app.css"></head><body><main class="container">`,
			templ.EscapeString(title), templ.EscapeString(appName), templ.EscapeString(assets),
		); err != nil {
			return err
		}
		for _, c := range []templ.Component{toasts, body} {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `</main><script src="%s/ajax-form.js"></script></body></html>`, templ.EscapeString(assets))
		return err
	})
}

// Heading renders an h1 followed by the given components.
func Heading(text string, rest ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>`, templ.EscapeString(text)); err != nil {
			return err
		}
		for _, c := range rest {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Input renders a labelled Bootstrap input.
func Input(name, label, kind string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="form-group"><label for="%[1]s">%[2]s</label>`+
				`<input class="form-control" type="%[3]s" id="%[1]s" name="%[1]s"></div>`,
			templ.EscapeString(name), templ.EscapeString(label), templ.EscapeString(kind),
		)
		return err
	})
}

// Textarea renders a labelled Bootstrap textarea.
func Textarea(name, label string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="form-group"><label for="%[1]s">%[2]s</label>`+
				`<textarea class="form-control" id="%[1]s" name="%[1]s" rows="4"></textarea></div>`,
			templ.EscapeString(name), templ.EscapeString(label),
		)
		return err
	})
}

// Submit renders a submit button.
func Submit(label string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<button type="submit" class="btn btn-primary">%s</button>`, templ.EscapeString(label))
		return err
	})
}

// Group renders components one after another.
func Group(items ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range items {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Endpoint wraps body in an element telling the ajax form script where to
// load initial data from.
func Endpoint(url string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div data-ajax-endpoint="%s">`, templ.EscapeString(url)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
