package permissiongroup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/carrier/domain"
	"github.com/dmitrymomot/carrier/pkg/db"
)

const columns = `id, type, short_name, full_name, description, parent, creation_date, creator_id`

var _ domain.Repository[int64, PermissionGroup] = (*Repository)(nil)

// Repository reads and writes permission_groups.
type Repository struct {
	db db.DBTX
}

// NewRepository creates a Repository over a pool, connection or transaction.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// With returns a copy bound to tx.
func (r *Repository) With(tx db.DBTX) *Repository {
	return &Repository{db: tx}
}

// Insert stores g and sets its ID and creation date.
func (r *Repository) Insert(ctx context.Context, g *PermissionGroup) (int64, error) {
	if g.Type == "" {
		g.Type = TypeManual
	}
	if !Types.Valid(g.Type) {
		return 0, fmt.Errorf("permissiongroup: unknown type %q", g.Type)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO permission_groups (type, short_name, full_name, description, parent, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, creation_date`,
		g.Type, g.ShortName, g.FullName, g.Description, g.Parent, g.CreatorID,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("permissiongroup: insert: %w", err)
	}
	return g.ID, nil
}

// Update overwrites the editable columns of g.
func (r *Repository) Update(ctx context.Context, g *PermissionGroup) error {
	if g.Parent != nil && *g.Parent == g.ID {
		return fmt.Errorf("%w: a group cannot be its own parent", domain.ErrConstraint)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE permission_groups
		SET type = $2, short_name = $3, full_name = $4, description = $5, parent = $6
		WHERE id = $1`,
		g.ID, g.Type, g.ShortName, g.FullName, g.Description, g.Parent,
	)
	if err != nil {
		return fmt.Errorf("permissiongroup: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByID reports whether the group exists.
func (r *Repository) FindByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM permission_groups WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("permissiongroup: find: %w", err)
	}
	return ok, nil
}

// RetrieveByID loads one group.
func (r *Repository) RetrieveByID(ctx context.Context, id int64) (*PermissionGroup, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM permission_groups WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return nil, fmt.Errorf("permissiongroup: retrieve: %w", err)
	}
	g, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PermissionGroup])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("permissiongroup: retrieve: %w", err)
	}
	return g, nil
}

// RetrieveByShortName loads the group with the given short name.
func (r *Repository) RetrieveByShortName(ctx context.Context, name string) (*PermissionGroup, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM permission_groups WHERE short_name = $1 LIMIT 1`, name)
	if err != nil {
		return nil, fmt.Errorf("permissiongroup: retrieve: %w", err)
	}
	g, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PermissionGroup])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("permissiongroup: retrieve: %w", err)
	}
	return g, nil
}

// RetrieveAll lists every group ordered by ID.
func (r *Repository) RetrieveAll(ctx context.Context) ([]PermissionGroup, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM permission_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("permissiongroup: retrieve all: %w", err)
	}
	groups, err := pgx.CollectRows(rows, pgx.RowToStructByName[PermissionGroup])
	if err != nil {
		return nil, fmt.Errorf("permissiongroup: retrieve all: %w", err)
	}
	return groups, nil
}

// VerifyConstraintsByID lists why the group cannot be deleted: system
// groups are protected and child groups must be removed first.
func (r *Repository) VerifyConstraintsByID(ctx context.Context, id int64) ([]string, error) {
	g, err := r.RetrieveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var reasons []string
	if g.Type == TypeSystem {
		reasons = append(reasons, "Los grupos de sistema no se pueden eliminar.")
	}

	var children int
	err = r.db.QueryRow(ctx, `SELECT count(*) FROM permission_groups WHERE parent = $1`, id).Scan(&children)
	if err != nil {
		return nil, fmt.Errorf("permissiongroup: constraints: %w", err)
	}
	if children > 0 {
		reasons = append(reasons, fmt.Sprintf("El grupo tiene %d grupos dependientes.", children))
	}
	return reasons, nil
}

// DeleteByID removes the group after checking its constraints.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	reasons, err := r.VerifyConstraintsByID(ctx, id)
	if err != nil {
		return err
	}
	if len(reasons) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrConstraint, reasons)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM permission_groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("permissiongroup: delete: %w", err)
	}
	return nil
}
