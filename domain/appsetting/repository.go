package appsetting

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/carrier/domain"
	"github.com/dmitrymomot/carrier/pkg/db"
)

const columns = `id, short_name, full_name, description, value, updated_at`

var _ domain.Repository[int64, AppSetting] = (*Repository)(nil)

// Repository reads and writes app_settings.
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

func (r *Repository) Insert(ctx context.Context, s *AppSetting) (int64, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO app_settings (short_name, full_name, description, value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, updated_at`,
		s.ShortName, s.FullName, s.Description, s.Value,
	).Scan(&s.ID, &s.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("appsetting: insert: %w", err)
	}
	return s.ID, nil
}

func (r *Repository) Update(ctx context.Context, s *AppSetting) error {
	err := r.db.QueryRow(ctx, `
		UPDATE app_settings
		SET short_name = $2, full_name = $3, description = $4, value = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID, s.ShortName, s.FullName, s.Description, s.Value,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("appsetting: update: %w", err)
	}
	return nil
}

// SetValue updates the value of the setting named key.
func (r *Repository) SetValue(ctx context.Context, key, value string) error {
	tag, err := r.db.Exec(ctx, `UPDATE app_settings SET value = $2, updated_at = now() WHERE short_name = $1`, key, value)
	if err != nil {
		return fmt.Errorf("appsetting: set %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM app_settings WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("appsetting: find: %w", err)
	}
	return ok, nil
}

func (r *Repository) RetrieveByID(ctx context.Context, id int64) (*AppSetting, error) {
	return r.one(ctx, `SELECT `+columns+` FROM app_settings WHERE id = $1`, id)
}

// RetrieveByShortName loads the setting named key.
func (r *Repository) RetrieveByShortName(ctx context.Context, key string) (*AppSetting, error) {
	return r.one(ctx, `SELECT `+columns+` FROM app_settings WHERE short_name = $1`, key)
}

func (r *Repository) one(ctx context.Context, query string, arg any) (*AppSetting, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("appsetting: retrieve: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AppSetting])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appsetting: retrieve: %w", err)
	}
	return s, nil
}

func (r *Repository) RetrieveAll(ctx context.Context) ([]AppSetting, error) {
	rows, err := r.db.Query(ctx, `SELECT `+columns+` FROM app_settings ORDER BY short_name`)
	if err != nil {
		return nil, fmt.Errorf("appsetting: retrieve all: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[AppSetting])
	if err != nil {
		return nil, fmt.Errorf("appsetting: retrieve all: %w", err)
	}
	return out, nil
}

// VerifyConstraintsByID always allows deletion once the row exists;
// nothing references app_settings.
func (r *Repository) VerifyConstraintsByID(ctx context.Context, id int64) ([]string, error) {
	ok, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return nil, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM app_settings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appsetting: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
