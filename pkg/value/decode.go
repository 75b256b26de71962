package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

const maxDepth = 512

// ParseJSON decodes a JSON document while keeping object keys in document
// order. Duplicate keys keep the position of the first occurrence and the
// value of the last.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec, 0)
	if err != nil {
		return Value{}, fmt.Errorf("value: parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("value: parse json: unexpected trailing data")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, errors.New("nesting too deep")
	}
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		v := Number(t.String())
		if !v.IsValid() {
			return Value{}, fmt.Errorf("invalid number %q", t.String())
		}
		return v, nil
	case json.Delim:
		switch t {
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				item, err := decodeJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindSequence, items: items}, nil
		case '{':
			var fields []Field
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				fields = append(fields, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Map(fields...), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// ParseYAML decodes a YAML (or JSON) document keeping mapping order. An empty
// document decodes to null.
func ParseYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Value{}, fmt.Errorf("value: parse yaml: %w", err)
	}
	if node.Kind == 0 {
		return Null(), nil
	}
	v, err := FromNode(&node)
	if err != nil {
		return Value{}, fmt.Errorf("value: parse yaml: %w", err)
	}
	return v, nil
}

// FromNode converts a yaml.v3 node tree. Aliases are expanded and merge keys
// (<<) are honoured, with explicit keys taking precedence.
func FromNode(node *yaml.Node) (Value, error) {
	return fromNode(node, 0)
}

func fromNode(node *yaml.Node, depth int) (Value, error) {
	if node == nil {
		return Null(), nil
	}
	if depth > maxDepth {
		return Value{}, fmt.Errorf("line %d: nesting too deep", node.Line)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromNode(node.Content[0], depth+1)
	case yaml.AliasNode:
		return fromNode(node.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := fromNode(child, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindSequence, items: items}, nil
	case yaml.MappingNode:
		return fromMappingNode(node, depth)
	case yaml.ScalarNode:
		return fromScalar(node)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported yaml node kind %d", node.Line, node.Kind)
	}
}

func fromMappingNode(node *yaml.Node, depth int) (Value, error) {
	if len(node.Content)%2 != 0 {
		return Value{}, fmt.Errorf("line %d: malformed mapping", node.Line)
	}

	explicit := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i]
		if !isMergeKey(key) {
			explicit[key.Value] = struct{}{}
		}
	}

	out := Value{kind: KindMapping, fields: make([]Field, 0, len(node.Content)/2)}
	for i := 0; i < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if isMergeKey(keyNode) {
			merged, err := mergeSources(valNode, depth)
			if err != nil {
				return Value{}, err
			}
			for _, field := range merged {
				if _, ok := explicit[field.Key]; ok {
					continue
				}
				if out.indexOf(field.Key) >= 0 {
					continue
				}
				out.fields = append(out.fields, field)
			}
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		val, err := fromNode(valNode, depth+1)
		if err != nil {
			return Value{}, err
		}
		if idx := out.indexOf(keyNode.Value); idx >= 0 {
			out.fields[idx].Value = val
			continue
		}
		out.fields = append(out.fields, Field{Key: keyNode.Value, Value: val})
	}
	return out, nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Value == "<<" && node.ShortTag() == "!!merge"
}

func mergeSources(node *yaml.Node, depth int) ([]Field, error) {
	var sources []*yaml.Node
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	} else {
		sources = []*yaml.Node{node}
	}

	var out []Field
	for _, src := range sources {
		v, err := fromNode(src, depth+1)
		if err != nil {
			return nil, err
		}
		if v.Kind() != KindMapping {
			return nil, fmt.Errorf("line %d: merge source must be a mapping", src.Line)
		}
		out = append(out, v.fields...)
	}
	return out, nil
}

func fromScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := node.Decode(&u); err == nil {
			return Uint(u), nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}

// FromGo converts arbitrary Go data into a Value. Maps are emitted with
// sorted keys; structs and types implementing json.Marshaler go through
// encoding/json so their field order is kept. Channels, funcs and complex
// numbers return a *SerializationError.
func FromGo(in any) (Value, error) {
	return fromGo(reflect.ValueOf(in), "$", 0)
}

var (
	valueType     = reflect.TypeOf(Value{})
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	numberType    = reflect.TypeOf(json.Number(""))
)

func fromGo(rv reflect.Value, path string, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, &SerializationError{Path: path, Err: errors.New("nesting too deep")}
	}
	if !rv.IsValid() {
		return Null(), nil
	}

	switch rv.Type() {
	case valueType:
		return rv.Interface().(Value), nil
	case numberType:
		v := Number(rv.String())
		if !v.IsValid() {
			return Value{}, &SerializationError{Path: path, Err: fmt.Errorf("invalid number %q", rv.String())}
		}
		return v, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Type().Implements(marshalerType) {
			return fromJSONMarshal(rv, path)
		}
		return fromGo(rv.Elem(), path, depth+1)
	}

	if rv.Type().Implements(marshalerType) {
		return fromJSONMarshal(rv, path)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, &SerializationError{Path: path, Err: fmt.Errorf("non-finite number %v", f)}
		}
		return Float(f), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return fromJSONMarshal(rv, path)
		}
		return fromGoSequence(rv, path, depth)
	case reflect.Array:
		return fromGoSequence(rv, path, depth)
	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromGoMap(rv, path, depth)
	case reflect.Struct:
		return fromJSONMarshal(rv, path)
	default:
		return Value{}, &SerializationError{Path: path, Err: fmt.Errorf("unsupported kind %s", rv.Kind())}
	}
}

func fromGoSequence(rv reflect.Value, path string, depth int) (Value, error) {
	items := make([]Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, err := fromGo(rv.Index(i), fmt.Sprintf("%s[%d]", path, i), depth+1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	return Value{kind: KindSequence, items: items}, nil
}

func fromGoMap(rv reflect.Value, path string, depth int) (Value, error) {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: fmt.Sprint(iter.Key().Interface()), val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	fields := make([]Field, 0, len(entries))
	for _, e := range entries {
		val, err := fromGo(e.val, path+"."+e.key, depth+1)
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, Field{Key: e.key, Value: val})
	}
	return Map(fields...), nil
}

func fromJSONMarshal(rv reflect.Value, path string) (Value, error) {
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return Value{}, &SerializationError{Path: path, Err: err}
	}
	v, err := ParseJSON(data)
	if err != nil {
		return Value{}, &SerializationError{Path: path, Err: err}
	}
	return v, nil
}
