// Package value implements the variant type system example payloads are
// written in: null, booleans, numbers, strings, ordered sequences and
// insertion-ordered mappings. Values are immutable once built so a registry
// can hand them to transforms without copying. Decoders for JSON, YAML nodes
// and arbitrary Go data keep key order wherever the source has one.
package value
