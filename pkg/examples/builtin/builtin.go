// Package builtin ships the stock example payloads used by the API
// documentation (AUTH_TOKEN, USER, FACILITY, TASK, ...). The payloads are
// content: they live in examples.json and are embedded at build time.
package builtin

import (
	_ "embed"
	"fmt"

	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

// Origin tags entries registered from the embedded document.
const Origin = "builtin:examples.json"

//go:embed examples.json
var document []byte

// Entries decodes the embedded document. Each call returns fresh values.
func Entries() ([]examples.Entry, error) {
	root, err := value.ParseJSON(document)
	if err != nil {
		return nil, fmt.Errorf("builtin: %w", err)
	}
	return examples.EntriesFromValue(root, Origin)
}

// Register adds every built-in example to b.
func Register(b *examples.Builder) error {
	entries, err := Entries()
	if err != nil {
		return err
	}
	return b.AddEntries(entries)
}

// Load returns a registry holding only the built-in examples.
func Load() (*examples.Registry, error) {
	b := examples.NewBuilder()
	if err := Register(b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// MustLoad panics if the embedded document is broken.
func MustLoad() *examples.Registry {
	reg, err := Load()
	if err != nil {
		panic(err)
	}
	return reg
}

// Raw returns a copy of the embedded document.
func Raw() []byte {
	return append([]byte(nil), document...)
}
