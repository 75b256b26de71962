package value

import (
	"math"
	"strconv"
)

// Kind enumerates the variant types an example payload may contain.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// Field is a single key/value pair inside a mapping.
type Field struct {
	Key   string
	Value Value
}

// F is shorthand for building a Field.
func F(key string, v Value) Field {
	return Field{Key: key, Value: v}
}

// Value is an immutable JSON-compatible datum. Mappings preserve insertion
// order. The zero Value is invalid and fails serialization.
type Value struct {
	kind   Kind
	b      bool
	lit    string
	items  []Value
	fields []Field
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int wraps an integer.
func Int(i int64) Value {
	return Value{kind: KindNumber, lit: strconv.FormatInt(i, 10)}
}

// Uint wraps an unsigned integer.
func Uint(u uint64) Value {
	return Value{kind: KindNumber, lit: strconv.FormatUint(u, 10)}
}

// Float wraps a float. NaN and infinities are kept but fail serialization.
func Float(f float64) Value {
	return Value{kind: KindNumber, lit: formatFloat(f)}
}

// Number wraps a numeric literal. The literal is canonicalised; anything that
// does not parse as a number yields an invalid value.
func Number(literal string) Value {
	canonical, ok := canonicalNumber(literal)
	if !ok {
		return Value{}
	}
	return Value{kind: KindNumber, lit: canonical}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, lit: s}
}

// Seq builds a sequence from the supplied items.
func Seq(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// Map builds a mapping. Duplicate keys replace the earlier value in place.
func Map(fields ...Field) Value {
	out := Value{kind: KindMapping, fields: make([]Field, 0, len(fields))}
	for _, field := range fields {
		if idx := out.indexOf(field.Key); idx >= 0 {
			out.fields[idx].Value = field.Value
			continue
		}
		out.fields = append(out.fields, field)
	}
	return out
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds one of the supported variants.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.lit, true
}

// AsFloat returns the numeric payload as float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.lit, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Literal returns the canonical numeric literal for number values.
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.lit
}

// Len returns the number of items or fields; zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.fields)
	default:
		return 0
	}
}

// Index returns the i-th sequence item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Items returns a copy of the sequence items.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Get returns the value stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	idx := v.indexOf(key)
	if idx < 0 {
		return Value{}, false
	}
	return v.fields[idx].Value, true
}

// Keys returns mapping keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for _, field := range v.fields {
		keys = append(keys, field.Key)
	}
	return keys
}

// Fields returns a copy of the mapping fields in insertion order.
func (v Value) Fields() []Field {
	if v.kind != KindMapping {
		return nil
	}
	return append([]Field(nil), v.fields...)
}

// With returns a copy of the mapping with key set to val. Existing keys keep
// their position; new keys are appended. Non-mapping receivers are returned
// unchanged.
func (v Value) With(key string, val Value) Value {
	if v.kind != KindMapping {
		return v
	}
	out := Value{kind: KindMapping, fields: append(make([]Field, 0, len(v.fields)+1), v.fields...)}
	if idx := out.indexOf(key); idx >= 0 {
		out.fields[idx].Value = val
		return out
	}
	out.fields = append(out.fields, Field{Key: key, Value: val})
	return out
}

// Without returns a copy of the mapping with key removed.
func (v Value) Without(key string) Value {
	idx := v.indexOf(key)
	if idx < 0 {
		return v
	}
	fields := make([]Field, 0, len(v.fields)-1)
	fields = append(fields, v.fields[:idx]...)
	fields = append(fields, v.fields[idx+1:]...)
	return Value{kind: KindMapping, fields: fields}
}

// Append returns a copy of the sequence with items appended.
func (v Value) Append(items ...Value) Value {
	if v.kind != KindSequence {
		return v
	}
	out := make([]Value, 0, len(v.items)+len(items))
	out = append(out, v.items...)
	out = append(out, items...)
	return Value{kind: KindSequence, items: out}
}

// Equal reports deep equality. Mapping comparison is order sensitive.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInvalid, KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber, KindString:
		return v.lit == other.lit
	case KindSequence:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != other.fields[i].Key || !v.fields[i].Value.Equal(other.fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v into the plain Go form produced by encoding/json when
// decoding into an any: map[string]any, []any, float64, string, bool, nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		f, _ := v.AsFloat()
		return f
	case KindString:
		return v.lit
	case KindSequence:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.fields))
		for _, field := range v.fields {
			out[field.Key] = field.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

func (v Value) indexOf(key string) int {
	if v.kind != KindMapping {
		return -1
	}
	for i, field := range v.fields {
		if field.Key == key {
			return i
		}
	}
	return -1
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "+Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.FormatFloat(f, format, -1, 64)
}

func canonicalNumber(literal string) (string, bool) {
	if literal == "" {
		return "", false
	}
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return strconv.FormatInt(i, 10), true
	}
	if u, err := strconv.ParseUint(literal, 10, 64); err == nil {
		return strconv.FormatUint(u, 10), true
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return "", false
	}
	return formatFloat(f), true
}

func isFiniteLiteral(lit string) bool {
	switch lit {
	case "NaN", "+Inf", "-Inf", "":
		return false
	default:
		return true
	}
}
