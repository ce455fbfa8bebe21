package formbuilder

import (
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// EmbeddedTemplates exposes the built-in form templates so callers can copy
// or extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
