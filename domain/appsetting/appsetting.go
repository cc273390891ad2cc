// Package appsetting stores runtime settings editable without a deploy.
package appsetting

import "time"

// AppSetting is a row of app_settings.
type AppSetting struct {
	ID          int64     `db:"id" json:"id"`
	ShortName   string    `db:"short_name" json:"short-name"`
	FullName    string    `db:"full_name" json:"full-name"`
	Description string    `db:"description" json:"description"`
	Value       string    `db:"value" json:"value"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated-at"`
}
