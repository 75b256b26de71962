package render

import (
	"embed"
	"io/fs"
)

// Template names resolved through the template engine.
const (
	TemplateJSON    = "json"
	TemplateHeaders = "headers"
	TemplateBody    = "body"
	TemplateCharts  = "charts"
)

//go:embed templates/*.tpl
var templateFS embed.FS

// TemplatesFS exposes the embedded fragment templates rooted at the template
// directory, suitable for gotemplate.WithFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return templateFS
	}
	return sub
}
