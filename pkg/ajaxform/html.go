package ajaxform

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// data-* attributes read by the client script.
const (
	attrFormID         = "data-ajax-form-id"
	attrUniqueID       = "data-ajax-unique-id"
	attrTargetObject   = "data-ajax-target-object-name"
	attrReadOnly       = "data-ajax-read-only"
	attrSubmitURL      = "data-ajax-submit-url"
	attrSubmitMethod   = "data-ajax-submit-method"
	attrOnSuccessEvent = "data-ajax-on-success-event-name"
	attrOnSuccessTgt   = "data-ajax-on-success-event-target"
)

// Modal renders the Bootstrap modal hosting the form. inputs renders the
// form-specific fields, whose names must match the keys of the initial
// data. A nil inputs renders an empty body. Read-only forms get no footer.
func (f *Form) Modal(inputs templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := templ.EscapeString(f.id)

		attrs := []string{
			attr(attrFormID, f.id),
			attr(attrReadOnly, strconv.FormatBool(f.readOnly)),
		}
		if f.onSuccessEventName != "" {
			attrs = append(attrs, attr(attrOnSuccessEvent, f.onSuccessEventName))
		}
		if f.onSuccessTarget != "" {
			attrs = append(attrs, attr(attrOnSuccessTgt, f.onSuccessTarget))
		}
		attrs = append(attrs,
			attr(attrSubmitURL, f.submitURL),
			attr(attrSubmitMethod, f.submitMethod),
			attr(attrTargetObject, f.targetObjectName),
		)

		if _, err := fmt.Fprintf(w,
			`<div class="modal fade ajax-modal" %s tabindex="-1" role="dialog" aria-labelledby="%s-modal-label" aria-hidden="true">`+
				`<div class="modal-dialog modal-dialog-centered" role="document">`+
				`<form class="modal-content" id="%s">`+
				`<input type="hidden" name="%s"><input type="hidden" name="%s">`+
				`<div class="modal-header"><h5 class="modal-title" id="%s-modal-label">%s</h5>`+
				`<button type="button" class="close" data-dismiss="modal" aria-label="Close"><span aria-hidden="true">&times;</span></button></div>`+
				`<div class="modal-body">`,
			strings.Join(attrs, " "), id, id, FieldFormID, FieldCSRFToken, id, templ.EscapeString(f.name),
		); err != nil {
			return err
		}

		if inputs != nil {
			if err := inputs.Render(ctx, w); err != nil {
				return err
			}
		}

		footer := ""
		if !f.readOnly {
			footer = `<div class="modal-footer">` +
				`<button type="button" class="btn btn-secondary" data-dismiss="modal">Cancel</button>` +
				`<button type="submit" class="btn btn-primary">Continue</button></div>`
		}
		_, err := io.WriteString(w, `</div>`+footer+`</form></div></div>`)
		return err
	})
}

// ButtonOption configures Button.
type ButtonOption func(*button)

type button struct {
	label    string
	uniqueID string
	small    bool
}

// Label overrides the button text, which defaults to the form name.
func Label(text string) ButtonOption { return func(b *button) { b.label = text } }

// ForObject makes the modal load the object with the given unique ID.
func ForObject(uniqueID string) ButtonOption { return func(b *button) { b.uniqueID = uniqueID } }

// Small renders a btn-sm button.
func Small() ButtonOption { return func(b *button) { b.small = true } }

// Button renders the button that opens the form's modal.
func (f *Form) Button(opts ...ButtonOption) templ.Component {
	b := button{label: f.name}
	for _, opt := range opts {
		opt(&b)
	}

	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		classes := []string{"btn-ajax-modal-fire", "btn"}
		if b.small {
			classes = append(classes, "btn-sm")
		}
		classes = append(classes, "btn-primary", "mb-1", "mx-1")

		extra := ""
		if b.uniqueID != "" {
			extra = " " + attr(attrUniqueID, b.uniqueID)
		}
		_, err := fmt.Fprintf(w, `<button class="%s" %s%s>%s</button>`,
			strings.Join(classes, " "), attr(attrFormID, f.id), extra, templ.EscapeString(b.label))
		return err
	})
}

func attr(name, value string) string {
	return name + `="` + templ.EscapeString(value) + `"`
}
