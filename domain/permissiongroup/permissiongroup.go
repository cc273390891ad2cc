// Package permissiongroup stores the groups a session can be authorized for.
package permissiongroup

import (
	"time"

	"github.com/dmitrymomot/carrier/domain"
)

// Group types.
const (
	TypeManual = "manual"
	TypeSystem = "system"
)

// Types lists the group types with their display texts.
var Types = domain.HumanValues[string]{
	{Value: TypeManual, Title: "Manual", Description: "Grupo creado y gestionado por un administrador."},
	{Value: TypeSystem, Title: "Sistema", Description: "Grupo gestionado por la aplicación. No se puede eliminar."},
}

// PermissionGroup is a row of permission_groups.
type PermissionGroup struct {
	ID          int64     `db:"id" json:"id"`
	Type        string    `db:"type" json:"type"`
	ShortName   string    `db:"short_name" json:"short-name"`
	FullName    string    `db:"full_name" json:"full-name"`
	Description string    `db:"description" json:"description"`
	Parent      *int64    `db:"parent" json:"parent,omitempty"`
	CreatedAt   time.Time `db:"creation_date" json:"creation-date"`
	CreatorID   *string   `db:"creator_id" json:"creator-id,omitempty"`
}

// TypeTitle returns the display title of the group type.
func (g PermissionGroup) TypeTitle() string {
	return Types.Title(g.Type)
}
