package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

// TemplatesFS exposes the built-in form templates. Callers can copy them as a
// starting point for WithTemplatesDir overrides.
func TemplatesFS() fs.FS {
	return templatesFS
}
