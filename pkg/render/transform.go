package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-exampledoc/pkg/value"
)

// Transform replaces a resolved value before serialization. Values are
// immutable, so a transform returns a modified copy.
type Transform func(value.Value) (value.Value, error)

// Set returns a Transform that sets key on a mapping value.
func Set(key string, v value.Value) Transform {
	return SetPath([]string{key}, v)
}

// SetPath sets a nested mapping member, creating intermediate mappings as
// needed. Existing keys keep their position.
func SetPath(path []string, v value.Value) Transform {
	return func(in value.Value) (value.Value, error) {
		if len(path) == 0 {
			return v, nil
		}
		return setPath(in, path, v)
	}
}

func setPath(in value.Value, path []string, v value.Value) (value.Value, error) {
	if in.Kind() != value.KindMapping {
		return value.Value{}, fmt.Errorf("set %q: expected mapping, got %s", strings.Join(path, "."), in.Kind())
	}
	if len(path) == 1 {
		return in.With(path[0], v), nil
	}
	child, ok := in.Get(path[0])
	if !ok {
		child = value.Map()
	}
	updated, err := setPath(child, path[1:], v)
	if err != nil {
		return value.Value{}, err
	}
	return in.With(path[0], updated), nil
}

// ParseAssignment parses "path.to.key=value" into a Transform. The right hand
// side is decoded as JSON when possible and kept as a string otherwise, so
// "id=7" sets a number and "name=bob" a string.
func ParseAssignment(expr string) (Transform, error) {
	lhs, rhs, ok := strings.Cut(expr, "=")
	if !ok {
		return nil, fmt.Errorf("render: assignment %q must look like key=value", expr)
	}
	lhs = strings.TrimSpace(lhs)
	if lhs == "" {
		return nil, fmt.Errorf("render: assignment %q has an empty key", expr)
	}
	path := strings.Split(lhs, ".")
	for _, segment := range path {
		if segment == "" {
			return nil, fmt.Errorf("render: assignment %q has an empty path segment", expr)
		}
	}

	v, err := value.ParseJSON([]byte(rhs))
	if err != nil {
		v = value.String(rhs)
	}
	return SetPath(path, v), nil
}

// Chain composes transforms left to right, skipping nils.
func Chain(transforms ...Transform) Transform {
	return func(in value.Value) (value.Value, error) {
		out := in
		for _, fn := range transforms {
			if fn == nil {
				continue
			}
			var err error
			if out, err = fn(out); err != nil {
				return value.Value{}, err
			}
		}
		return out, nil
	}
}

// ParseAssignments parses each expression with ParseAssignment and chains
// the results. It returns nil when exprs is empty.
func ParseAssignments(exprs []string) (Transform, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	transforms := make([]Transform, 0, len(exprs))
	for _, expr := range exprs {
		t, err := ParseAssignment(expr)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return Chain(transforms...), nil
}
