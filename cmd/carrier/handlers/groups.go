package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/carrier"
	"github.com/dmitrymomot/carrier/domain"
	"github.com/dmitrymomot/carrier/domain/permissiongroup"
	"github.com/dmitrymomot/carrier/middlewares"
	"github.com/dmitrymomot/carrier/pkg/ajaxform"
	"github.com/dmitrymomot/carrier/pkg/api"
	"github.com/dmitrymomot/carrier/pkg/sanitizer"
	"github.com/dmitrymomot/carrier/pkg/slug"
	"github.com/dmitrymomot/carrier/pkg/validator"
)

// GroupFormID identifies the read-only permission group viewer.
const GroupFormID = "permission-group-form"

// AdminGroup is the permission group allowed to manage groups.
const AdminGroup = "admin"

// MsgGroupNotFound is returned when the requested group does not exist.
const MsgGroupNotFound = "El grupo solicitado no existe."

// GroupRepository is the subset of permissiongroup.Repository used here.
type GroupRepository interface {
	RetrieveByID(ctx context.Context, id int64) (*permissiongroup.PermissionGroup, error)
	RetrieveAll(ctx context.Context) ([]permissiongroup.PermissionGroup, error)
	Insert(ctx context.Context, g *permissiongroup.PermissionGroup) (int64, error)
}

// GroupProvider shows one permission group in a read-only modal.
type GroupProvider struct {
	Groups GroupRepository
}

// NewGroupForm builds the read-only group viewer.
func NewGroupForm(p *GroupProvider, logger *slog.Logger) *ajaxform.Handler {
	form := ajaxform.MustNew(GroupFormID, "Grupo de permisos",
		ajaxform.WithTarget("PermissionGroup"),
		ajaxform.ReadOnly(),
	)
	return ajaxform.NewHandler(form, p, ajaxform.WithLogger(logger))
}

// DefaultData loads the group named by the "uniqueId" query parameter and
// links every other group as a parent candidate.
func (p *GroupProvider) DefaultData(ctx context.Context, query url.Values) (ajaxform.Data, error) {
	id, err := strconv.ParseInt(query.Get("uniqueId"), 10, 64)
	if err != nil || id <= 0 {
		return nil, ajaxform.NewError(http.StatusBadRequest, MsgGroupNotFound)
	}

	g, err := p.Groups.RetrieveByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ajaxform.NewError(http.StatusNotFound, MsgGroupNotFound)
	}
	if err != nil {
		return nil, err
	}

	all, err := p.Groups.RetrieveAll(ctx)
	if err != nil {
		return nil, err
	}
	parents := make([]any, 0, len(all))
	for _, other := range all {
		if other.ID == g.ID {
			continue
		}
		parents = append(parents, map[string]any{"value": other.ID, "title": other.FullName})
	}

	data := ajaxform.Data{
		"short-name":  g.ShortName,
		"full-name":   g.FullName,
		"description": g.Description,
		"type":        g.Type,
		"type-title":  g.TypeTitle(),
		"types":       permissiongroup.Types,
		"links":       []ajaxform.SelectLink{ajaxform.NewSelectLink("parent", ajaxform.SelectSingle, parents...)},
	}
	if g.Parent != nil {
		data["parent"] = *g.Parent
	}
	return data, nil
}

// ProcessSubmit is never reached for a read-only form.
func (p *GroupProvider) ProcessSubmit(_ context.Context, res *ajaxform.Responder, _ ajaxform.Data) error {
	return res.Error(http.StatusMethodNotAllowed)
}

// CreateGroupRequest is the body of POST /api/permission-groups.
// A blank short name is derived from the full name.
type CreateGroupRequest struct {
	ShortName   string `json:"short-name" sanitize:"trim" validate:"required,max=50"`
	FullName    string `json:"full-name" sanitize:"trim,strip" validate:"required,max=200"`
	Description string `json:"description" sanitize:"trim,strip" validate:"max=2000"`
	Parent      *int64 `json:"parent,omitempty"`
}

type creatorKey struct{}

// GroupAPI exposes permission groups as JSON to administrators.
type GroupAPI struct {
	Groups GroupRepository
	Logger *slog.Logger
}

// Routes implements carrier.Handler.
func (a *GroupAPI) Routes(r carrier.Router) {
	guard := middlewares.RequirePermissionGroups([]string{AdminGroup}, middlewares.ForAPI())
	h := api.Handler(api.ConsumerFunc(a.consume), api.WithLogger(a.Logger))
	serve := func(c carrier.Context) error {
		ctx := context.WithValue(c.Context(), creatorKey{}, c.UserID())
		h.ServeHTTP(c.Response(), c.Request().WithContext(ctx))
		return nil
	}
	r.GET("/api/permission-groups", serve, guard)
	r.POST("/api/permission-groups", serve, guard)
}

func (a *GroupAPI) consume(w http.ResponseWriter, r *http.Request, body json.RawMessage) error {
	switch r.Method {
	case http.MethodGet:
		groups, err := a.Groups.RetrieveAll(r.Context())
		if err != nil {
			return err
		}
		return api.RespondOK(w, map[string]any{"groups": groups})
	case http.MethodPost:
		return a.create(w, r, body)
	default:
		return api.Respond(w, http.StatusMethodNotAllowed, nil, http.StatusText(http.StatusMethodNotAllowed))
	}
}

func (a *GroupAPI) create(w http.ResponseWriter, r *http.Request, body json.RawMessage) error {
	req, err := api.Decode[CreateGroupRequest](body)
	if err != nil {
		return api.Respond(w, http.StatusBadRequest, nil, api.MsgInvalidBody)
	}
	if err := sanitizer.SanitizeStruct(&req); err != nil {
		return err
	}
	if req.ShortName == "" {
		req.ShortName = req.FullName
	}
	req.ShortName = slug.Make(req.ShortName, slug.MaxLength(50))
	if err := validator.ValidateStruct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return api.Respond(w, http.StatusUnprocessableEntity, nil, verrs.Messages()...)
		}
		return err
	}

	g := &permissiongroup.PermissionGroup{
		Type:        permissiongroup.TypeManual,
		ShortName:   req.ShortName,
		FullName:    req.FullName,
		Description: req.Description,
		Parent:      req.Parent,
	}
	if uid, _ := r.Context().Value(creatorKey{}).(string); uid != "" {
		g.CreatorID = &uid
	}

	id, err := a.Groups.Insert(r.Context(), g)
	if err != nil {
		return err
	}
	g.ID = id
	return api.Respond(w, http.StatusCreated, map[string]any{"group": g})
}
