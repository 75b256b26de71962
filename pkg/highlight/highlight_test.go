package highlight_test

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/goliatone/go-exampledoc/pkg/highlight"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func textContent(fragment string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(fragment, ""))
}

func TestChroma_HighlightPreservesText(t *testing.T) {
	source := "{\n  \"name\": \"<b>bob</b> & 'co'\",\n  \"count\": 3\n}"

	out, err := highlight.New().Highlight(source, "json")
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.Contains(out, `<span class="`) {
		t.Fatalf("expected class annotated spans, got %q", out)
	}
	if strings.Contains(out, "<b>") {
		t.Fatalf("literal markup leaked into fragment: %q", out)
	}
	if strings.Contains(out, "<pre") {
		t.Fatalf("fragment should not carry its own pre wrapper: %q", out)
	}
	if got := textContent(out); got != source {
		t.Fatalf("text content mismatch:\nwant %q\ngot  %q", source, got)
	}
}

func TestChroma_UnknownLanguageFallsBack(t *testing.T) {
	out, err := highlight.New().Highlight("a < b", "no-such-language")
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if got := textContent(out); got != "a < b" {
		t.Fatalf("unexpected text %q", got)
	}
	if strings.Contains(out, "a < b") {
		t.Fatalf("expected escaped output, got %q", out)
	}
}

func TestChroma_ClassPrefix(t *testing.T) {
	out, err := highlight.New(highlight.WithClassPrefix("hl-")).Highlight(`{"a": 1}`, "json")
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.Contains(out, `class="hl-`) {
		t.Fatalf("expected prefixed classes, got %q", out)
	}
}

func TestChroma_CSS(t *testing.T) {
	h := highlight.New(highlight.WithStyle("monokai"))
	if h.StyleName() != "monokai" {
		t.Fatalf("unexpected style %q", h.StyleName())
	}
	var buf bytes.Buffer
	if err := h.CSS(&buf); err != nil {
		t.Fatalf("css: %v", err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Fatalf("expected chroma selectors, got %q", buf.String())
	}
}

func TestStyles(t *testing.T) {
	names := highlight.Styles()
	if len(names) == 0 {
		t.Fatal("expected registered styles")
	}
	if !highlight.HasStyle(highlight.DefaultStyle) {
		t.Fatalf("default style %q not registered", highlight.DefaultStyle)
	}
	if highlight.HasStyle("definitely-not-a-style") {
		t.Fatal("unexpected style match")
	}
}

func TestSanitize_StripsForeignMarkup(t *testing.T) {
	in := `<span class="s">ok</span><script>alert(1)</script><span onclick="x()" class="k">k</span>`
	out := highlight.Sanitize(in)

	if strings.Contains(out, "<script") || strings.Contains(out, "onclick") {
		t.Fatalf("sanitizer kept unsafe markup: %q", out)
	}
	if !strings.Contains(out, `<span class="s">ok</span>`) {
		t.Fatalf("sanitizer dropped allowed span: %q", out)
	}
	if highlight.Sanitize("   ") != "" {
		t.Fatal("expected blank input to sanitize to empty")
	}
}

func TestFunc_Adapter(t *testing.T) {
	var h highlight.Highlighter = highlight.Func(func(source, language string) (string, error) {
		return language + ":" + source, nil
	})
	got, _ := h.Highlight("x", "txt")
	if got != "txt:x" {
		t.Fatalf("unexpected %q", got)
	}
}
