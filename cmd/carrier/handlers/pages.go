// Package handlers holds the routes of the carrier demo application.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/carrier"
	"github.com/dmitrymomot/carrier/cmd/carrier/views"
	"github.com/dmitrymomot/carrier/pkg/ajaxform"
)

const (
	// AjaxPath is the single endpoint serving every AJAX form of the app.
	AjaxPath = "/ajax"
	// AssetsPath is where the embedded static files are mounted.
	AssetsPath = "/static"
)

// Pages serves the home page and the shared form endpoint.
type Pages struct {
	Contact *ajaxform.Handler
	Group   *ajaxform.Handler
	Groups  GroupRepository
	// Auth, when set, renders the logout form for logged-in visitors.
	Auth *Auth
}

// Routes implements carrier.Handler.
func (p *Pages) Routes(r carrier.Router) {
	r.GET("/", p.home)
	r.Handle(AjaxPath, carrier.AjaxForm(p.Contact, p.Group))
}

func (p *Pages) home(c carrier.Context) error {
	contact := p.Contact.Form()
	body := []templ.Component{
		contact.Button(ajaxform.Label("Escríbenos")),
		contact.Modal(views.Group(
			views.Input("name", "Nombre", "text"),
			views.Input("email", "Correo electrónico", "email"),
			views.Textarea("message", "Mensaje"),
		)),
	}

	if p.Auth != nil && c.IsAuthenticated() {
		logout, err := p.Auth.LogoutButton(c)
		if err != nil {
			return err
		}
		body = append(body, logout)
	}

	if c.HasPermissionGroup(AdminGroup) {
		groups, err := p.Groups.RetrieveAll(c.Context())
		if err != nil {
			return err
		}
		form := p.Group.Form()
		body = append(body, groupList(form, len(groups), func(i int) (string, string) {
			return strconv.FormatInt(groups[i].ID, 10), groups[i].FullName
		}))
		body = append(body, form.Modal(views.Group(
			views.Input("short-name", "Nombre corto", "text"),
			views.Input("full-name", "Nombre completo", "text"),
			views.Textarea("description", "Descripción"),
			views.Input("type-title", "Tipo", "text"),
		)))
	}

	return c.Render(http.StatusOK, views.Page(c.URL(AssetsPath), c.AppName(), "Inicio", c.Toasts(),
		views.Endpoint(c.URL(AjaxPath), views.Heading(c.AppName(), body...))))
}

// groupList renders one small viewer button per group.
func groupList(form *ajaxform.Form, n int, item func(i int) (id, title string)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h2>Grupos de permisos</h2><ul class="list-unstyled">`); err != nil {
			return err
		}
		for i := range n {
			id, title := item(i)
			if _, err := fmt.Fprintf(w, `<li>%s `, templ.EscapeString(title)); err != nil {
				return err
			}
			if err := form.Button(ajaxform.Label("Ver"), ajaxform.ForObject(id), ajaxform.Small()).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
