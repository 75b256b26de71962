// Package exampledoc renders API documentation fragments from named example
// payloads: highlighted JSON blocks and escaped response bodies with a status
// and header block.
//
// The root package is a thin facade over pkg/render, pkg/examples and the
// internal loaders; most callers only need NewRenderer.
package exampledoc

import (
	"context"
	"fmt"
	"time"

	internalLoader "github.com/goliatone/go-exampledoc/internal/examples/loader"
	"github.com/goliatone/go-exampledoc/pkg/charts"
	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/examples/builtin"
	"github.com/goliatone/go-exampledoc/pkg/render"
)

// Renderer aliases render.Renderer for callers of the top-level package.
type Renderer = render.Renderer

// Fragment aliases render.Fragment.
type Fragment = render.Fragment

// RegistryOptions selects the documents merged into a registry. Builtin
// examples and chart configs come first, then fixtures, then OpenAPI
// documents; a name defined twice is an error.
type RegistryOptions struct {
	SkipBuiltin bool
	SkipCharts  bool

	// Fixtures are file paths or http(s) URLs of name → payload documents.
	Fixtures []string
	// OpenAPI documents contribute components.examples.
	OpenAPI []string
	// OpenAPIOptions configure the OpenAPI importer.
	OpenAPIOptions OpenAPIOptions

	// HTTPTimeout enables URL sources when positive.
	HTTPTimeout time.Duration
	// LoaderOptions are applied after the HTTP fallback.
	LoaderOptions []examples.LoaderOption
}

// BuildRegistry loads every configured source into an immutable registry.
func BuildRegistry(ctx context.Context, opts RegistryOptions) (*examples.Registry, error) {
	b := examples.NewBuilder()

	if !opts.SkipBuiltin {
		if err := builtin.Register(b); err != nil {
			return nil, err
		}
	}
	if !opts.SkipCharts {
		dashboard, err := charts.Load()
		if err != nil {
			return nil, err
		}
		if err := charts.Register(b, dashboard); err != nil {
			return nil, err
		}
	}

	if len(opts.Fixtures) == 0 && len(opts.OpenAPI) == 0 {
		return b.Build(), nil
	}

	loaderOpts := make([]examples.LoaderOption, 0, len(opts.LoaderOptions)+1)
	if opts.HTTPTimeout > 0 {
		loaderOpts = append(loaderOpts, examples.WithHTTPFallback(opts.HTTPTimeout))
	}
	loaderOpts = append(loaderOpts, opts.LoaderOptions...)
	loader := internalLoader.New(examples.NewLoaderOptions(loaderOpts...))

	load := func(raw []string, importer examples.Importer) error {
		sources, err := parseSources(raw)
		if err != nil {
			return err
		}
		entries, err := loader.LoadAll(ctx, importer, sources...)
		if err != nil {
			return err
		}
		return b.AddEntries(entries)
	}

	if err := load(opts.Fixtures, examples.FixtureImporter); err != nil {
		return nil, err
	}
	if err := load(opts.OpenAPI, NewOpenAPIImporter(opts.OpenAPIOptions)); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// NewRenderer returns a renderer over the builtin examples and chart configs.
// Options are applied after the default registry, so render.WithRegistry
// replaces it.
func NewRenderer(options ...render.Option) (*render.Renderer, error) {
	reg, err := BuildRegistry(context.Background(), RegistryOptions{})
	if err != nil {
		return nil, fmt.Errorf("exampledoc: %w", err)
	}
	return render.New(append([]render.Option{render.WithRegistry(reg)}, options...)...)
}

func parseSources(raw []string) ([]examples.Source, error) {
	sources := make([]examples.Source, 0, len(raw))
	for _, item := range raw {
		src, err := examples.ParseSource(item)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
