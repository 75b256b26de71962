package loader_test

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-exampledoc/internal/examples/loader"
	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/testsupport"
)

const fixtureYAML = `
user:
  id: 1
  username: bob
facility:
  id: 2
  name: Sunrise
`

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := loader.New(examples.NewLoaderOptions())
	doc, err := l.Load(testsupport.Context(), examples.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Location() != path {
		t.Fatalf("unexpected location %q", doc.Location())
	}

	entries, err := examples.DecodeDocument(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	if diff := cmp.Diff([]string{"USER", "FACILITY"}, names); diff != "" {
		t.Fatalf("entry names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_FileMissing(t *testing.T) {
	l := loader.New(examples.NewLoaderOptions())
	_, err := l.Load(testsupport.Context(), examples.SourceFromFile(filepath.Join(t.TempDir(), "missing.json")))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{
		"fixtures/extra.json": {Data: []byte(`{"token": {"key": "abc"}}`)},
	}
	l := loader.New(examples.NewLoaderOptions(examples.WithFileSystem(files)))

	entries, err := l.LoadAll(testsupport.Context(), nil, examples.SourceFromFS("fixtures/extra.json"))
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "TOKEN" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[0].Origin != "fixtures/extra.json" {
		t.Fatalf("unexpected origin %q", entries[0].Origin)
	}
}

func TestLoader_FSNotConfigured(t *testing.T) {
	l := loader.New(examples.NewLoaderOptions())
	if _, err := l.Load(testsupport.Context(), examples.SourceFromFS("a.json")); err == nil {
		t.Fatal("expected error without filesystem")
	}
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"plan": {"id": 7}}`))
	}))
	defer srv.Close()

	l := loader.New(examples.NewLoaderOptions(examples.WithHTTPFallback(time.Second)))

	doc, err := l.Load(testsupport.Context(), examples.SourceFromURL(srv.URL+"/fixtures.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if examples.FormatOf(doc.Source()) != examples.FormatJSON {
		t.Fatal("expected json format from url path")
	}

	_, err = l.Load(testsupport.Context(), examples.SourceFromURL(srv.URL+"/missing.json"))
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoader_HTTPDisabled(t *testing.T) {
	l := loader.New(examples.NewLoaderOptions())
	_, err := l.Load(testsupport.Context(), examples.SourceFromURL("https://example.com/fixtures.json"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := loader.New(examples.NewLoaderOptions())
	if _, err := l.Load(ctx, examples.SourceFromFile("whatever.yaml")); err == nil {
		t.Fatal("expected cancelled context error")
	}
}
