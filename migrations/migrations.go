// Package migrations embeds the goose SQL migrations of carrier's schema.
package migrations

import "embed"

// FS holds the *.sql files at its root.
//
//go:embed *.sql
var FS embed.FS
