// Package emails embeds the mail templates of the demo application.
package emails

import "embed"

// FS holds the markdown templates and their layouts/ directory.
//
//go:embed *.md layouts/*.html
var FS embed.FS
