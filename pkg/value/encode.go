package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnserializable marks values that fall outside the supported variant
// types (invalid zero values, NaN/Inf numbers, unsupported Go kinds).
var ErrUnserializable = errors.New("value: unserializable")

// SerializationError reports where in a structure serialization failed.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("value: cannot serialize: %v", e.Err)
	}
	return fmt.Sprintf("value: cannot serialize %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() []error {
	return []error{ErrUnserializable, e.Err}
}

// MarshalJSON encodes v as compact JSON with mapping keys in insertion order.
// Strings are not HTML-escaped; escaping is the caller's concern.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf, "$"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent encodes v as JSON using two-space indentation.
func MarshalIndent(v Value) ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, &SerializationError{Path: "$", Err: err}
	}
	return out.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer, path string) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if !isFiniteLiteral(v.lit) {
			return &SerializationError{Path: path, Err: fmt.Errorf("non-finite number %s", v.lit)}
		}
		buf.WriteString(v.lit)
	case KindString:
		if err := writeString(buf, v.lit); err != nil {
			return &SerializationError{Path: path, Err: err}
		}
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, field := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, field.Key); err != nil {
				return &SerializationError{Path: path, Err: err}
			}
			buf.WriteByte(':')
			if err := field.Value.encode(buf, path+"."+field.Key); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return &SerializationError{Path: path, Err: errors.New("invalid value")}
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
