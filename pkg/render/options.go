package render

import (
	"io/fs"

	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/highlight"
	"github.com/goliatone/go-exampledoc/pkg/render/template"
	"github.com/goliatone/go-exampledoc/pkg/status"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	registry    *examples.Registry
	statuses    *status.Table
	highlighter highlight.Highlighter
	templates   template.TemplateRenderer
	templatesFS fs.FS
	lenient     bool
}

// WithRegistry sets the example registry. Without it only inline keys
// resolve.
func WithRegistry(reg *examples.Registry) Option {
	return func(cfg *config) {
		cfg.registry = reg
	}
}

// WithStatusTable overrides status.Default().
func WithStatusTable(table *status.Table) Option {
	return func(cfg *config) {
		if table != nil {
			cfg.statuses = table
		}
	}
}

// WithHighlighter overrides the chroma highlighter.
func WithHighlighter(h highlight.Highlighter) Option {
	return func(cfg *config) {
		if h != nil {
			cfg.highlighter = h
		}
	}
}

// WithTemplateRenderer supplies a ready engine. It must provide the json,
// headers, body and charts templates.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.templates = renderer
	}
}

// WithTemplatesFS replaces the embedded templates with files from fsys.
// Ignored when WithTemplateRenderer is set.
func WithTemplatesFS(fsys fs.FS) Option {
	return func(cfg *config) {
		cfg.templatesFS = fsys
	}
}

// WithLenientStatus renders status.Placeholder for unknown status codes
// instead of failing.
func WithLenientStatus() Option {
	return func(cfg *config) {
		cfg.lenient = true
	}
}
