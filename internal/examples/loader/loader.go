// Package loader reads fixture and OpenAPI documents for the example
// registry from disk, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-exampledoc/pkg/examples"
)

// Loader implements examples.Loader by delegating to file, fs.FS or HTTP
// strategies. Construction helpers live in the top-level exampledoc package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ examples.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options. Injected HTTP clients are
// copied so the request timeout never leaks into the caller's client.
func New(options examples.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load reads src and wraps the bytes in a Document.
func (l *Loader) Load(ctx context.Context, src examples.Source) (examples.Document, error) {
	if src == nil {
		return examples.Document{}, errors.New("examples loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case examples.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case examples.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case examples.SourceKindURL:
		if !l.allowHTTP {
			return examples.Document{}, errors.New("examples loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("examples loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return examples.Document{}, fmt.Errorf("examples loader: %s: %w", src.Location(), err)
	}

	return examples.NewDocument(src, data)
}

// LoadAll loads every source, decodes it with importer and collects the
// entries in source order. The first failure aborts.
func (l *Loader) LoadAll(ctx context.Context, importer examples.Importer, sources ...examples.Source) ([]examples.Entry, error) {
	if importer == nil {
		importer = examples.FixtureImporter
	}
	var out []examples.Entry
	for _, src := range sources {
		doc, err := l.Load(ctx, src)
		if err != nil {
			return nil, err
		}
		entries, err := importer.Import(ctx, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}
