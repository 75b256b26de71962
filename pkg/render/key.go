package render

// Key selects what a render call resolves. The concrete variants are
// NamedKey, InlineMapping and InlineSequence.
type Key interface {
	isKey()
}

// NamedKey refers to a registry entry. Matching upper-cases the name.
type NamedKey string

// Pair is one inline mapping entry. Keys are coerced with fmt.Sprint.
type Pair struct {
	Key   any
	Value any
}

// InlineMapping is an ordered literal mapping. Later duplicate keys replace
// earlier values in place.
type InlineMapping []Pair

// InlineSequence is a literal sequence returned as-is.
type InlineSequence []any

func (NamedKey) isKey()       {}
func (InlineMapping) isKey()  {}
func (InlineSequence) isKey() {}

// Name is shorthand for NamedKey.
func Name(name string) Key {
	return NamedKey(name)
}

// Mapping builds an InlineMapping from alternating key, value arguments. A
// trailing key without a value maps to null.
func Mapping(kv ...any) InlineMapping {
	out := make(InlineMapping, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		pair := Pair{Key: kv[i]}
		if i+1 < len(kv) {
			pair.Value = kv[i+1]
		}
		out = append(out, pair)
	}
	return out
}

// Sequence builds an InlineSequence.
func Sequence(items ...any) InlineSequence {
	return InlineSequence(items)
}
