package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

// LoadDocument reads a fixture and builds an examples.Document using a file
// source.
func LoadDocument(t *testing.T, path string) examples.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (examples.Document, error) {
	if path == "" {
		return examples.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return examples.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := examples.NewDocument(examples.SourceFromFile(path), data)
	if err != nil {
		return examples.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadRegistry decodes a fixture document into a registry.
func MustLoadRegistry(t *testing.T, path string) *examples.Registry {
	t.Helper()

	entries, err := examples.DecodeDocument(LoadDocument(t, path))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	builder := examples.NewBuilder()
	if err := builder.AddEntries(entries); err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return builder.Build()
}

// Registry builds a registry from name/value pairs, failing the test on
// duplicates.
func Registry(t *testing.T, fields ...value.Field) *examples.Registry {
	t.Helper()

	builder := examples.NewBuilder()
	for _, field := range fields {
		if err := builder.Add(field.Key, field.Value, "test"); err != nil {
			t.Fatalf("registry: %v", err)
		}
	}
	return builder.Build()
}

// MustParseJSON parses data with value.ParseJSON.
func MustParseJSON(t *testing.T, data string) value.Value {
	t.Helper()

	v, err := value.ParseJSON([]byte(data))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	return v
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, v any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
