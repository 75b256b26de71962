package value_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-exampledoc/pkg/value"
)

func TestMarshalIndent_PreservesInsertionOrder(t *testing.T) {
	v := value.Map(
		value.F("id", value.Int(1)),
		value.F("username", value.String("bob")),
		value.F("tags", value.Seq(value.String("a"), value.Bool(true), value.Null())),
		value.F("empty", value.Map()),
		value.F("ratio", value.Float(0.4)),
	)

	got, err := value.MarshalIndent(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{
  "id": 1,
  "username": "bob",
  "tags": [
    "a",
    true,
    null
  ],
  "empty": {},
  "ratio": 0.4
}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("indent mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSON_DoesNotEscapeHTML(t *testing.T) {
	got, err := value.String(`<b>"x" & y</b>`).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `"<b>\"x\" & y</b>"`
	if string(got) != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestMarshal_InvalidValues(t *testing.T) {
	cases := map[string]value.Value{
		"zero":   {},
		"nan":    value.Float(math.NaN()),
		"inf":    value.Float(math.Inf(1)),
		"nested": value.Map(value.F("user", value.Seq(value.Int(1), value.Value{}))),
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := value.MarshalIndent(v)
			if err == nil {
				t.Fatalf("expected serialization error")
			}
			var serr *value.SerializationError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SerializationError, got %T", err)
			}
			if !errors.Is(err, value.ErrUnserializable) {
				t.Fatalf("expected ErrUnserializable in chain: %v", err)
			}
		})
	}

	_, err := value.MarshalIndent(cases["nested"])
	var serr *value.SerializationError
	if errors.As(err, &serr) && serr.Path != "$.user[1]" {
		t.Fatalf("expected path $.user[1], got %q", serr.Path)
	}
}

func TestWith_DoesNotMutateReceiver(t *testing.T) {
	original := value.Map(
		value.F("id", value.Int(1)),
		value.F("username", value.String("bob")),
	)

	updated := original.With("username", value.String("alice")).With("email", value.String("a@example.com"))

	if got, _ := original.Get("username"); !got.Equal(value.String("bob")) {
		t.Fatalf("original mutated: %v", got.Interface())
	}
	if diff := cmp.Diff([]string{"id", "username", "email"}, updated.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	removed := updated.Without("id")
	if diff := cmp.Diff([]string{"username", "email"}, removed.Keys()); diff != "" {
		t.Fatalf("keys mismatch after Without (-want +got):\n%s", diff)
	}
	if updated.Len() != 3 {
		t.Fatalf("Without mutated receiver, len=%d", updated.Len())
	}
}

func TestMap_DuplicateKeysReplaceInPlace(t *testing.T) {
	v := value.Map(
		value.F("a", value.Int(1)),
		value.F("b", value.Int(2)),
		value.F("a", value.Int(3)),
	)
	got, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"a":3,"b":2}` {
		t.Fatalf("unexpected encoding %s", got)
	}
}

func TestNumber_Canonicalises(t *testing.T) {
	cases := map[string]string{
		"28":     "28",
		"0.40":   "0.4",
		"1.0":    "1",
		"-0":     "0",
		"1e3":    "1000",
		"2.5e-7": "2.5e-07",
	}
	for in, want := range cases {
		if got := value.Number(in).Literal(); got != want {
			t.Errorf("Number(%q) = %q, want %q", in, got, want)
		}
	}
	if value.Number("twelve").IsValid() {
		t.Fatalf("expected invalid number literal to produce invalid value")
	}
}

func TestInterface_MatchesEncodingJSON(t *testing.T) {
	v := value.Map(
		value.F("id", value.Int(106)),
		value.F("avatar", value.Null()),
		value.F("positions", value.Seq(value.Int(1), value.Int(2))),
		value.F("facility_user", value.Map(value.F("can_see_staff", value.Bool(true)))),
	)

	raw, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(decoded, v.Interface()); diff != "" {
		t.Fatalf("interface mismatch (-json +value):\n%s", diff)
	}
}

func TestProperty_IndentRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := genValue(rt, 0)

		text, err := value.MarshalIndent(v)
		if err != nil {
			rt.Fatalf("marshal: %v", err)
		}
		parsed, err := value.ParseJSON(text)
		if err != nil {
			rt.Fatalf("parse %s: %v", text, err)
		}
		if !parsed.Equal(v) {
			rt.Fatalf("round trip mismatch:\n%s", text)
		}
	})
}

func genValue(t *rapid.T, depth int) value.Value {
	maxKind := 6
	if depth >= 3 {
		maxKind = 4
	}
	switch rapid.IntRange(0, maxKind).Draw(t, "kind") {
	case 0:
		return value.Null()
	case 1:
		return value.Bool(rapid.Bool().Draw(t, "bool"))
	case 2:
		return value.Int(rapid.Int64().Draw(t, "int"))
	case 3:
		return value.Float(rapid.Float64Range(-1e12, 1e12).Draw(t, "float"))
	case 4:
		return value.String(rapid.String().Draw(t, "string"))
	case 5:
		n := rapid.IntRange(0, 4).Draw(t, "len")
		items := make([]value.Value, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, genValue(t, depth+1))
		}
		return value.Seq(items...)
	default:
		n := rapid.IntRange(0, 4).Draw(t, "fields")
		fields := make([]value.Field, 0, n)
		for i := 0; i < n; i++ {
			fields = append(fields, value.F(rapid.String().Draw(t, "key"), genValue(t, depth+1)))
		}
		return value.Map(fields...)
	}
}
