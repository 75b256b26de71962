package examples

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-exampledoc/pkg/value"
)

// ErrNotFound is matched by every LookupError.
var ErrNotFound = errors.New("examples: not found")

// LookupError reports a missing registry entry or status code.
type LookupError struct {
	Kind string
	Key  string
}

func (e *LookupError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "example"
	}
	return fmt.Sprintf("no such %s %q", kind, e.Key)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// Entry is a registered example and where it came from.
type Entry struct {
	Name   string
	Value  value.Value
	Origin string
}

// NormalizeName trims and upper-cases an example name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Registry is an immutable name to example mapping. It is safe for
// concurrent readers; there is no way to mutate it after Build.
type Registry struct {
	entries map[string]Entry
	names   []string
}

// Lookup resolves name after upper-casing it.
func (r *Registry) Lookup(name string) (value.Value, error) {
	entry, err := r.Entry(name)
	if err != nil {
		return value.Value{}, err
	}
	return entry.Value, nil
}

// MustLookup panics when the example is missing.
func (r *Registry) MustLookup(name string) value.Value {
	v, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Entry returns the full entry for name.
func (r *Registry) Entry(name string) (Entry, error) {
	key := NormalizeName(name)
	if r != nil {
		if entry, ok := r.entries[key]; ok {
			return entry, nil
		}
	}
	return Entry{}, &LookupError{Kind: "example", Key: key}
}

// Has reports whether an example is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.entries[NormalizeName(name)]
	return ok
}

// Names returns the sorted example names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// Len returns the number of examples.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Entries returns a snapshot sorted by name.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.entries[name])
	}
	return out
}

// Builder accumulates entries before freezing them into a Registry. A
// Builder is not safe for concurrent use.
type Builder struct {
	entries map[string]Entry
	order   []string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Entry)}
}

// Add registers an example. Empty names, invalid values and duplicates are
// rejected.
func (b *Builder) Add(name string, v value.Value, origin string) error {
	key := NormalizeName(name)
	if key == "" {
		return errors.New("examples: name is required")
	}
	if !v.IsValid() {
		return fmt.Errorf("examples: %s: value is invalid", key)
	}
	if existing, ok := b.entries[key]; ok {
		return fmt.Errorf("examples: %s already registered (from %s)", key, originLabel(existing.Origin))
	}
	b.entries[key] = Entry{Name: key, Value: v, Origin: origin}
	b.order = append(b.order, key)
	return nil
}

// MustAdd panics on registration failure. Useful for init-time wiring.
func (b *Builder) MustAdd(name string, v value.Value, origin string) {
	if err := b.Add(name, v, origin); err != nil {
		panic(err)
	}
}

// AddEntries registers entries in order, stopping at the first failure.
func (b *Builder) AddEntries(entries []Entry) error {
	for _, entry := range entries {
		if err := b.Add(entry.Name, entry.Value, entry.Origin); err != nil {
			return err
		}
	}
	return nil
}

// Merge copies every entry of an existing registry into the builder.
func (b *Builder) Merge(r *Registry) error {
	return b.AddEntries(r.Entries())
}

// Build freezes the accumulated entries. The builder can keep being used;
// later additions do not affect registries already built.
func (b *Builder) Build() *Registry {
	entries := make(map[string]Entry, len(b.entries))
	names := make([]string, 0, len(b.entries))
	for _, key := range b.order {
		entries[key] = b.entries[key]
		names = append(names, key)
	}
	sort.Strings(names)
	return &Registry{entries: entries, names: names}
}

func originLabel(origin string) string {
	if origin == "" {
		return "unknown origin"
	}
	return origin
}
