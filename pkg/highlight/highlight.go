// Package highlight turns source text into class-annotated HTML. The default
// implementation is backed by chroma and runs its output through a
// bluemonday policy that only lets span elements with class attributes
// through, so highlighted fragments can be embedded without re-escaping.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = "github"

// Highlighter consumes raw source and a language tag and returns an HTML
// fragment. Implementations are responsible for escaping literal content.
type Highlighter interface {
	Highlight(source, language string) (string, error)
}

// Func adapts a function to the Highlighter interface.
type Func func(source, language string) (string, error)

// Highlight calls f.
func (f Func) Highlight(source, language string) (string, error) {
	return f(source, language)
}

// Option configures a Chroma highlighter.
type Option func(*config)

type config struct {
	style       string
	classPrefix string
	sanitize    bool
}

// WithStyle selects the chroma style used for CSS generation.
func WithStyle(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.style = trimmed
		}
	}
}

// WithClassPrefix prefixes every generated CSS class.
func WithClassPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.classPrefix = strings.TrimSpace(prefix)
	}
}

// WithoutSanitizer skips the bluemonday pass. Only use it with a formatter
// you trust to escape everything.
func WithoutSanitizer() Option {
	return func(cfg *config) {
		cfg.sanitize = false
	}
}

// Chroma highlights with github.com/alecthomas/chroma/v2. It is safe for
// concurrent use.
type Chroma struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
	styleName string
	policy    *bluemonday.Policy
}

// Ensure Chroma implements the Highlighter interface.
var _ Highlighter = (*Chroma)(nil)

// New constructs a chroma-backed highlighter.
func New(options ...Option) *Chroma {
	cfg := config{style: DefaultStyle, sanitize: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	formatterOptions := []chromahtml.Option{
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	}
	if cfg.classPrefix != "" {
		formatterOptions = append(formatterOptions, chromahtml.ClassPrefix(cfg.classPrefix))
	}

	h := &Chroma{
		formatter: chromahtml.New(formatterOptions...),
		style:     styles.Get(cfg.style),
		styleName: cfg.style,
	}
	if cfg.sanitize {
		h.policy = fragmentSanitizer()
	}
	return h
}

// Highlight tokenises source with the lexer registered for language, falling
// back to plain text for unknown tags.
func (h *Chroma) Highlight(source, language string) (string, error) {
	if h == nil || h.formatter == nil {
		return "", errors.New("highlight: highlighter is nil")
	}

	lexer := lexers.Get(strings.TrimSpace(language))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenise %s: %w", language, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("highlight: format %s: %w", language, err)
	}

	if h.policy == nil {
		return buf.String(), nil
	}
	return h.policy.Sanitize(buf.String()), nil
}

// StyleName reports the configured style.
func (h *Chroma) StyleName() string {
	return h.styleName
}

// CSS writes the stylesheet matching the generated classes.
func (h *Chroma) CSS(w io.Writer) error {
	if err := h.formatter.WriteCSS(w, h.style); err != nil {
		return fmt.Errorf("highlight: write css: %w", err)
	}
	return nil
}

// Styles lists the registered chroma style names.
func Styles() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

// HasStyle reports whether name is a registered style.
func HasStyle(name string) bool {
	_, ok := styles.Registry[strings.TrimSpace(name)]
	return ok
}
