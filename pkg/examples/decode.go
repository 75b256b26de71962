package examples

import (
	"context"
	"fmt"

	"github.com/goliatone/go-exampledoc/pkg/value"
)

// DecodeDocument parses a fixture document whose top level is a mapping of
// example name to payload. Entry order follows the document.
func DecodeDocument(doc Document) ([]Entry, error) {
	root, err := decodeRaw(FormatOf(doc.Source()), doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("examples: decode %s: %w", doc.Location(), err)
	}
	return EntriesFromValue(root, doc.Location())
}

// EntriesFromValue splits a top-level mapping into entries tagged with origin.
func EntriesFromValue(root value.Value, origin string) ([]Entry, error) {
	if root.Kind() != value.KindMapping {
		return nil, fmt.Errorf("examples: %s: top level must be a mapping of name to example, got %s", originLabel(origin), root.Kind())
	}
	fields := root.Fields()
	entries := make([]Entry, 0, len(fields))
	for _, field := range fields {
		entries = append(entries, Entry{
			Name:   NormalizeName(field.Key),
			Value:  field.Value,
			Origin: origin,
		})
	}
	return entries, nil
}

// FixtureImporter decodes plain fixture documents.
var FixtureImporter Importer = ImporterFunc(func(ctx context.Context, doc Document) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeDocument(doc)
})

func decodeRaw(format Format, raw []byte) (value.Value, error) {
	if format == FormatJSON {
		return value.ParseJSON(raw)
	}
	return value.ParseYAML(raw)
}
