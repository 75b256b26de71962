package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/goliatone/go-exampledoc/pkg/charts"
	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/highlight"
	"github.com/goliatone/go-exampledoc/pkg/render/template"
	"github.com/goliatone/go-exampledoc/pkg/render/template/gotemplate"
	"github.com/goliatone/go-exampledoc/pkg/status"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

const (
	headersClass          = "headers"
	headersNoContentClass = "headers no-response"
)

// Renderer turns examples into documentation fragments. All dependencies are
// fixed at construction and never mutated, so one Renderer can serve
// concurrent callers.
type Renderer struct {
	registry    *examples.Registry
	statuses    *status.Table
	highlighter highlight.Highlighter
	templates   template.TemplateRenderer
	lenient     bool
}

// New constructs a Renderer. Defaults: an empty registry, status.Default(),
// a chroma highlighter and the embedded templates.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.registry == nil {
		cfg.registry = examples.NewBuilder().Build()
	}
	if cfg.statuses == nil {
		cfg.statuses = status.Default()
	}
	if cfg.highlighter == nil {
		cfg.highlighter = highlight.New()
	}
	if cfg.templates == nil {
		files := cfg.templatesFS
		if files == nil {
			files = TemplatesFS()
		}
		engine, err := gotemplate.New(gotemplate.WithFS(files))
		if err != nil {
			return nil, fmt.Errorf("render: template engine: %w", err)
		}
		cfg.templates = engine
	}

	return &Renderer{
		registry:    cfg.registry,
		statuses:    cfg.statuses,
		highlighter: cfg.highlighter,
		templates:   cfg.templates,
		lenient:     cfg.lenient,
	}, nil
}

// MustNew panics when New fails.
func MustNew(options ...Option) *Renderer {
	r, err := New(options...)
	if err != nil {
		panic(err)
	}
	return r
}

// Registry returns the registry the renderer resolves names against.
func (r *Renderer) Registry() *examples.Registry {
	return r.registry
}

// Statuses returns the status table.
func (r *Renderer) Statuses() *status.Table {
	return r.statuses
}

// Resolve returns the value selected by key. Unknown names yield a
// *LookupError; inline content is converted but otherwise not validated.
func (r *Renderer) Resolve(key Key) (value.Value, error) {
	switch k := key.(type) {
	case NamedKey:
		return r.registry.Lookup(string(k))
	case InlineMapping:
		fields := make([]value.Field, 0, len(k))
		for i, pair := range k {
			v, err := value.FromGo(pair.Value)
			if err != nil {
				return value.Value{}, fmt.Errorf("render: inline mapping entry %d: %w", i, err)
			}
			fields = append(fields, value.F(fmt.Sprint(pair.Key), v))
		}
		return value.Map(fields...), nil
	case InlineSequence:
		items := make([]value.Value, 0, len(k))
		for i, item := range k {
			v, err := value.FromGo(item)
			if err != nil {
				return value.Value{}, fmt.Errorf("render: inline sequence item %d: %w", i, err)
			}
			items = append(items, v)
		}
		return value.Seq(items...), nil
	case nil:
		return value.Value{}, errors.New("render: key is required")
	default:
		return value.Value{}, fmt.Errorf("render: unsupported key type %T", key)
	}
}

// FormatJSON resolves key, applies transform when non-nil and returns the
// result as two-space indented JSON in insertion order. Transform failures
// and unserializable results are reported as *SerializationError.
func (r *Renderer) FormatJSON(key Key, transform Transform) ([]byte, error) {
	v, err := r.Resolve(key)
	if err != nil {
		return nil, err
	}
	if transform != nil {
		out, err := transform(v)
		if err != nil {
			var serr *SerializationError
			if errors.As(err, &serr) {
				return nil, err
			}
			return nil, &SerializationError{Path: "$", Err: fmt.Errorf("transform: %w", err)}
		}
		v = out
	}
	return value.MarshalIndent(v)
}

// RenderJSON highlights the formatted JSON and wraps it in a pre block.
func (r *Renderer) RenderJSON(key Key, transform Transform) (Fragment, error) {
	data, err := r.FormatJSON(key, transform)
	if err != nil {
		return "", err
	}
	code, err := r.highlighter.Highlight(string(data), "json")
	if err != nil {
		return "", fmt.Errorf("render: highlight: %w", err)
	}
	return r.execute(TemplateJSON, map[string]any{"code": code})
}

// RenderEscapedBody renders a header block for statusCode followed by text
// escaped as HTML inside a pre block. Content-Type is always text/html.
func (r *Renderer) RenderEscapedBody(text string, statusCode int, extra ...Header) (Fragment, error) {
	headers, err := r.RenderHeaders(statusCode, MergeHeaders(extra, H("Content-Type", ContentTypeHTML))...)
	if err != nil {
		return "", err
	}
	return r.execute(TemplateBody, map[string]any{
		"headers": string(headers),
		"body":    EscapeHTML(text),
	})
}

// RenderJSONBody is the JSON counterpart of RenderEscapedBody: a header block
// with an application/json content type followed by the highlighted example.
func (r *Renderer) RenderJSONBody(key Key, statusCode int, transform Transform, extra ...Header) (Fragment, error) {
	headers, err := r.RenderHeaders(statusCode, MergeHeaders(extra, H("Content-Type", ContentTypeJSON))...)
	if err != nil {
		return "", err
	}
	body, err := r.RenderJSON(key, transform)
	if err != nil {
		return "", err
	}
	return Fragment(string(headers) + "\n" + string(body)), nil
}

// RenderHeaders renders the status line and headers as given.
func (r *Renderer) RenderHeaders(statusCode int, headers ...Header) (Fragment, error) {
	label, err := r.statusLabel(statusCode)
	if err != nil {
		return "", err
	}

	class := headersClass
	if statusCode == http.StatusNoContent || statusCode == http.StatusNotFound {
		class = headersNoContentClass
	}

	rows := make([]map[string]any, 0, len(headers))
	for _, header := range headers {
		name := strings.TrimSpace(header.Name)
		if name == "" {
			continue
		}
		rows = append(rows, map[string]any{"name": name, "value": header.Value})
	}

	return r.execute(TemplateHeaders, map[string]any{
		"class":   class,
		"status":  label,
		"headers": rows,
	})
}

// RenderCharts emits a canvas and a JSON data block per mounted chart plus
// the global defaults. The JSON is HTML-escaped so template strings inside
// the configs cannot close the script element.
func (r *Renderer) RenderCharts(dashboard *charts.Dashboard) (Fragment, error) {
	if dashboard == nil {
		return "", errors.New("render: dashboard is required")
	}

	global, err := scriptJSON(dashboard.Global())
	if err != nil {
		return "", fmt.Errorf("render: chart defaults: %w", err)
	}

	mounted := dashboard.Mounted()
	items := make([]map[string]any, 0, len(mounted))
	for _, chart := range mounted {
		config, err := scriptJSON(chart.Config())
		if err != nil {
			return "", fmt.Errorf("render: chart %s: %w", chart.ID, err)
		}
		items = append(items, map[string]any{
			"id":     chart.ID,
			"type":   chart.Type,
			"config": config,
		})
	}

	return r.execute(TemplateCharts, map[string]any{
		"charts": items,
		"global": global,
	})
}

func (r *Renderer) statusLabel(code int) (string, error) {
	label, err := r.statuses.Label(code)
	if err == nil {
		return label, nil
	}
	if r.lenient {
		return status.Placeholder(code), nil
	}
	return "", err
}

func (r *Renderer) execute(name string, data map[string]any) (Fragment, error) {
	out, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("render: %s fragment: %w", name, err)
	}
	return Fragment(out), nil
}

// EscapeHTML escapes &, <, >, " and ' so text renders literally.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

func scriptJSON(v value.Value) (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	json.HTMLEscape(&buf, raw)
	return buf.String(), nil
}
