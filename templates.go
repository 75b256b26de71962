package exampledoc

import (
	"io/fs"

	"github.com/goliatone/go-exampledoc/pkg/render"
)

// EmbeddedTemplates exposes the built-in fragment templates so callers can
// copy or extend them and pass the result back via render.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
