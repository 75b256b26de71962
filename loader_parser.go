package exampledoc

import (
	internalLoader "github.com/goliatone/go-exampledoc/internal/examples/loader"
	internalOpenAPI "github.com/goliatone/go-exampledoc/internal/examples/openapi"
	"github.com/goliatone/go-exampledoc/pkg/examples"
)

// OpenAPIOptions aliases the importer options for callers outside the module.
type OpenAPIOptions = internalOpenAPI.Options

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...examples.LoaderOption) examples.Loader {
	cfg := examples.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewOpenAPIImporter constructs an importer for components.examples backed by
// kin-openapi.
func NewOpenAPIImporter(options OpenAPIOptions) examples.Importer {
	return internalOpenAPI.New(options)
}
