package render_test

import (
	"testing"

	"github.com/goliatone/go-exampledoc/pkg/render"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

func TestParseAssignment(t *testing.T) {
	base := value.Map(
		value.F("id", value.Int(1)),
		value.F("facility", value.Map(value.F("name", value.String("Sunrise")))),
	)

	cases := []struct {
		expr string
		want value.Value
	}{
		{"id=7", base.With("id", value.Int(7))},
		{"name=bob", base.With("name", value.String("bob"))},
		{`name="7"`, base.With("name", value.String("7"))},
		{"active=true", base.With("active", value.Bool(true))},
		{"facility.name=Dawn", base.With("facility", value.Map(value.F("name", value.String("Dawn"))))},
		{"meta.tag=x", base.With("meta", value.Map(value.F("tag", value.String("x"))))},
		{"note=", base.With("note", value.String(""))},
	}
	for _, tc := range cases {
		transform, err := render.ParseAssignment(tc.expr)
		if err != nil {
			t.Fatalf("%s: %v", tc.expr, err)
		}
		got, err := transform(base)
		if err != nil {
			t.Fatalf("%s: apply: %v", tc.expr, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("%s: got %v", tc.expr, got.Interface())
		}
	}
}

func TestParseAssignment_Rejects(t *testing.T) {
	for _, expr := range []string{"novalue", "=1", "a..b=1"} {
		if _, err := render.ParseAssignment(expr); err == nil {
			t.Errorf("%q: expected error", expr)
		}
	}
}

func TestSetPath_ThroughScalar(t *testing.T) {
	transform := render.SetPath([]string{"id", "x"}, value.Null())
	if _, err := transform(value.Map(value.F("id", value.Int(1)))); err == nil {
		t.Fatal("expected error when descending into a scalar")
	}
}
