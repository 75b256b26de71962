// Package page renders Markdown documentation pages that embed example
// fragments. A page is a pongo2 template whose helper calls expand to
// rendered fragments before the Markdown is converted to HTML:
//
//	## Get the current user
//
//	{{ json("USER") }}
//
//	{{ body("<h1>Not Found</h1>", 404) }}
//
// Helpers must start on their own line so the fragments become raw HTML
// blocks.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-exampledoc/pkg/charts"
	"github.com/goliatone/go-exampledoc/pkg/render"
	"github.com/goliatone/go-exampledoc/pkg/render/template/gotemplate"
)

// Extension is the file extension of page sources.
const Extension = ".md"

// Renderer expands helper calls and converts pages to HTML.
type Renderer struct {
	fragments *render.Renderer
	engine    *gotemplate.Engine
	markdown  goldmark.Markdown
	dashboard *charts.Dashboard
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	dashboard *charts.Dashboard
	global    map[string]any
}

// WithDashboard sets the dashboard used by the charts() helper.
func WithDashboard(d *charts.Dashboard) Option {
	return func(o *options) {
		o.dashboard = d
	}
}

// WithGlobalData exposes data to every page, e.g. a site title.
func WithGlobalData(data map[string]any) Option {
	return func(o *options) {
		o.global = data
	}
}

// New constructs a Renderer that loads named pages from pages.
func New(fragments *render.Renderer, pages fs.FS, opts ...Option) (*Renderer, error) {
	if fragments == nil {
		return nil, errors.New("page: fragment renderer is required")
	}
	if pages == nil {
		return nil, errors.New("page: pages filesystem is required")
	}
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.dashboard == nil {
		d, err := charts.Load()
		if err != nil {
			return nil, fmt.Errorf("page: %w", err)
		}
		cfg.dashboard = d
	}

	engineOpts := []gotemplate.Option{
		gotemplate.WithFS(pages),
		gotemplate.WithExtension(Extension),
	}
	if len(cfg.global) > 0 {
		engineOpts = append(engineOpts, gotemplate.WithGlobalData(cfg.global))
	}
	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("page: template engine: %w", err)
	}

	return &Renderer{
		fragments: fragments,
		engine:    engine,
		dashboard: cfg.dashboard,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			// Fragments are already escaped and sanitized.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}, nil
}

// Render renders the named page (".md" is appended when missing).
func (p *Renderer) Render(name string) (render.Fragment, error) {
	h := p.helpers()
	source, err := p.engine.RenderTemplate(name, h.context())
	return p.convert(source, h.failure(err))
}

// RenderString renders inline page source.
func (p *Renderer) RenderString(source string) (render.Fragment, error) {
	h := p.helpers()
	expanded, err := p.engine.RenderString(source, h.context())
	return p.convert(expanded, h.failure(err))
}

func (p *Renderer) convert(source string, err error) (render.Fragment, error) {
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("page: markdown: %w", err)
	}
	return render.Fragment(buf.String()), nil
}

// helperSet binds template helpers to one render call and keeps the first
// helper error, which pongo2 would otherwise flatten into a string.
type helperSet struct {
	page *Renderer
	mu   sync.Mutex
	err  error
}

func (p *Renderer) helpers() *helperSet {
	return &helperSet{page: p}
}

func (h *helperSet) failure(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	if err != nil {
		return fmt.Errorf("page: %w", err)
	}
	return nil
}

func (h *helperSet) wrap(fragment render.Fragment, err error) (*pongo2.Value, error) {
	if err != nil {
		h.mu.Lock()
		if h.err == nil {
			h.err = err
		}
		h.mu.Unlock()
		return nil, err
	}
	// Leading newline keeps the fragment a separate HTML block.
	return pongo2.AsSafeValue("\n" + fragment.String() + "\n"), nil
}

func (h *helperSet) context() map[string]any {
	r := h.page.fragments
	return map[string]any{
		"json": func(name string, sets ...string) (*pongo2.Value, error) {
			transform, err := render.ParseAssignments(sets)
			if err != nil {
				return h.wrap("", err)
			}
			return h.wrap(r.RenderJSON(render.Name(name), transform))
		},
		"json_body": func(name string, code int, sets ...string) (*pongo2.Value, error) {
			transform, err := render.ParseAssignments(sets)
			if err != nil {
				return h.wrap("", err)
			}
			return h.wrap(r.RenderJSONBody(render.Name(name), code, transform))
		},
		"body": func(text string, code int, headers ...string) (*pongo2.Value, error) {
			extra, err := ParseHeaders(headers)
			if err != nil {
				return h.wrap("", err)
			}
			return h.wrap(r.RenderEscapedBody(text, code, extra...))
		},
		"headers": func(code int, headers ...string) (*pongo2.Value, error) {
			extra, err := ParseHeaders(headers)
			if err != nil {
				return h.wrap("", err)
			}
			return h.wrap(r.RenderHeaders(code, extra...))
		},
		"charts": func() (*pongo2.Value, error) {
			return h.wrap(r.RenderCharts(h.page.dashboard))
		},
	}
}

// ParseHeaders parses "Name: Value" pairs.
func ParseHeaders(raw []string) ([]render.Header, error) {
	out := make([]render.Header, 0, len(raw))
	for _, item := range raw {
		name, v, ok := strings.Cut(item, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("header %q must look like Name: Value", item)
		}
		out = append(out, render.H(name, strings.TrimSpace(v)))
	}
	return out, nil
}
