// Package build renders the fragments listed in a config manifest into an
// output directory.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/goliatone/go-exampledoc/internal/config"
	"github.com/goliatone/go-exampledoc/pkg/charts"
	"github.com/goliatone/go-exampledoc/pkg/page"
	"github.com/goliatone/go-exampledoc/pkg/render"
)

// Extension is appended to every fragment name.
const Extension = ".html"

// Failure records a fragment that could not be rendered or written.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("fragment %q: %v", f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result lists written files and failed fragments in manifest order.
type Result struct {
	Written []string
	Failed  []Failure
}

// Err joins every failure, or returns nil when all fragments were written.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, failure := range r.Failed {
		errs = append(errs, failure)
	}
	return fmt.Errorf("build: %d fragment(s) failed: %w", len(r.Failed), errors.Join(errs...))
}

// Builder renders manifest fragments with a Renderer.
type Builder struct {
	renderer  *render.Renderer
	dashboard *charts.Dashboard
	outputDir string
	baseDir   string

	pagesOnce sync.Once
	pages     *page.Renderer
	pagesErr  error
}

// Option configures a Builder.
type Option func(*Builder)

// WithDashboard overrides the embedded chart dashboard.
func WithDashboard(d *charts.Dashboard) Option {
	return func(b *Builder) {
		if d != nil {
			b.dashboard = d
		}
	}
}

// WithBaseDir resolves relative body_file and page paths against dir.
func WithBaseDir(dir string) Option {
	return func(b *Builder) {
		b.baseDir = dir
	}
}

// New constructs a Builder writing into outputDir.
func New(renderer *render.Renderer, outputDir string, options ...Option) (*Builder, error) {
	if renderer == nil {
		return nil, errors.New("build: renderer is required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, errors.New("build: output directory is required")
	}
	b := &Builder{renderer: renderer, outputDir: outputDir}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	if b.dashboard == nil {
		d, err := charts.Load()
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		b.dashboard = d
	}
	return b, nil
}

// Build renders every fragment. A failing fragment is recorded and skipped;
// only a cancelled context or an unusable output directory stops the run.
func (b *Builder) Build(ctx context.Context, fragments []config.Fragment) (Result, error) {
	var result Result
	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return result, fmt.Errorf("build: create output dir: %w", err)
	}

	for _, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		out, err := b.Render(fragment)
		if err == nil {
			var path string
			path, err = b.write(fragment.Name, out)
			if err == nil {
				result.Written = append(result.Written, path)
				continue
			}
		}
		result.Failed = append(result.Failed, Failure{Name: fragment.Name, Err: err})
	}
	return result, nil
}

// Render produces the fragment without writing it.
func (b *Builder) Render(fragment config.Fragment) (render.Fragment, error) {
	headers := canonicalHeaders(fragment.Headers)

	switch fragment.Kind {
	case config.KindJSON:
		transform, err := render.ParseAssignments(fragment.Set)
		if err != nil {
			return "", err
		}
		return b.renderer.RenderJSON(render.Name(fragment.Example), transform)
	case config.KindJSONBody:
		transform, err := render.ParseAssignments(fragment.Set)
		if err != nil {
			return "", err
		}
		return b.renderer.RenderJSONBody(render.Name(fragment.Example), fragment.Status, transform, headers...)
	case config.KindBody:
		body, err := b.body(fragment)
		if err != nil {
			return "", err
		}
		return b.renderer.RenderEscapedBody(body, fragment.Status, headers...)
	case config.KindHeaders:
		return b.renderer.RenderHeaders(fragment.Status, headers...)
	case config.KindCharts:
		return b.renderer.RenderCharts(b.dashboard)
	case config.KindPage:
		pages, err := b.pageRenderer()
		if err != nil {
			return "", err
		}
		return pages.Render(filepath.ToSlash(filepath.Clean(fragment.Page)))
	default:
		return "", fmt.Errorf("unknown kind %q", fragment.Kind)
	}
}

func (b *Builder) body(fragment config.Fragment) (string, error) {
	if fragment.BodyFile == "" {
		return fragment.Body, nil
	}
	path := fragment.BodyFile
	if !filepath.IsAbs(path) && b.baseDir != "" {
		path = filepath.Join(b.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

func (b *Builder) pageRenderer() (*page.Renderer, error) {
	b.pagesOnce.Do(func() {
		dir := b.baseDir
		if dir == "" {
			dir = "."
		}
		b.pages, b.pagesErr = page.New(b.renderer, os.DirFS(dir), page.WithDashboard(b.dashboard))
	})
	return b.pages, b.pagesErr
}

func (b *Builder) write(name string, fragment render.Fragment) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid fragment name %q", name)
	}
	path := filepath.Join(b.outputDir, clean+Extension)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader([]byte(fragment.String()+"\n"))); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// canonicalHeaders restores header casing, which viper folds to lower case.
func canonicalHeaders(in map[string]string) []render.Header {
	if len(in) == 0 {
		return nil
	}
	canonical := make(map[string]string, len(in))
	for name, v := range in {
		canonical[http.CanonicalHeaderKey(strings.TrimSpace(name))] = v
	}
	return render.HeadersFromMap(canonical)
}
