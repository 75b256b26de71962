package render

import (
	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

// LookupError reports an unknown example name or status code.
type LookupError = examples.LookupError

// SerializationError reports a value that cannot be encoded as JSON, either
// because a transform failed or because it produced unsupported data.
type SerializationError = value.SerializationError

var (
	// ErrNotFound matches every LookupError via errors.Is.
	ErrNotFound = examples.ErrNotFound
	// ErrUnserializable matches every SerializationError via errors.Is.
	ErrUnserializable = value.ErrUnserializable
)
