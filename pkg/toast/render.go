package toast

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/carrier/pkg/session"
)

// Toasts renders every queued message as a Bootstrap toast and empties the
// queue. Toasts stay on screen until dismissed when devMode is set.
func Toasts(s *session.Session, appName string, devMode bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return Render(w, Pop(s), appName, devMode)
	})
}

// Render writes the toast container for msgs.
func Render(w io.Writer, msgs []Message, appName string, devMode bool) error {
	if _, err := io.WriteString(w, `<div id="toasts-container" aria-live="polite" aria-atomic="true">`); err != nil {
		return err
	}
	autohide := strconv.FormatBool(!devMode)
	for _, m := range msgs {
		if _, err := fmt.Fprintf(w,
			`<div class="toast toast-%s" role="alert" aria-live="assertive" aria-atomic="true" data-autohide="%s">`+
				`<div class="toast-header"><strong class="mr-auto">%s</strong>`+
				`<button type="button" class="ml-2 mb-1 close" data-dismiss="toast" aria-label="Close"><span aria-hidden="true">&times;</span></button></div>`+
				`<div class="toast-body">%s</div></div>`,
			templ.EscapeString(string(m.Kind)), autohide, templ.EscapeString(appName), templ.EscapeString(m.Content),
		); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</div>`)
	return err
}
