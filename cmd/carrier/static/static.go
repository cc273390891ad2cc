// Package static embeds the stylesheet and the ajax form script.
package static

import "embed"

//go:embed *.css *.js
var FS embed.FS
