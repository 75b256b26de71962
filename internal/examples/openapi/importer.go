// Package openapi imports named examples from OpenAPI 3 documents into the
// example registry.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

const localExamplePrefix = "#/components/examples/"

// maxRefHops bounds chains of example $refs.
const maxRefHops = 16

var methods = []string{"get", "put", "post", "delete", "patch", "head", "options", "trace"}

// Options configure an Importer.
type Options struct {
	// Prefix is prepended to every imported name, e.g. "API_".
	Prefix string
	// ResolveReferences allows kin-openapi to follow external $refs.
	ResolveReferences bool
	// SkipValidation disables document validation.
	SkipValidation bool
	// ResponseExamples also imports response media examples, named
	// OPERATION_ID_STATUS (plus the example name for "examples" maps).
	ResponseExamples bool
}

// Importer implements examples.Importer for OpenAPI documents.
type Importer struct {
	options Options
}

var _ examples.Importer = (*Importer)(nil)

// New constructs an Importer.
func New(options Options) *Importer {
	return &Importer{options: options}
}

// Import validates doc with kin-openapi and returns components.examples (and
// optionally response examples) as registry entries in document order.
func (i *Importer) Import(ctx context.Context, doc examples.Document) ([]examples.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi importer: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.options.ResolveReferences,
	}
	api, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi importer: load document: %w", err)
	}
	if !i.options.SkipValidation {
		if err := api.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi importer: validate document: %w", err)
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("openapi importer: parse document: %w", err)
	}
	top := documentRoot(&root)

	c := &collector{
		importer: i,
		api:      api,
		origin:   doc.Location(),
		named:    mappingValue(mappingValue(top, "components"), "examples"),
		seen:     make(map[string]struct{}),
	}
	if err := c.components(); err != nil {
		return nil, err
	}
	if i.options.ResponseExamples {
		if err := c.responses(mappingValue(top, "paths")); err != nil {
			return nil, err
		}
	}
	return c.entries, nil
}

type collector struct {
	importer *Importer
	api      *openapi3.T
	origin   string
	named    *yaml.Node
	seen     map[string]struct{}
	entries  []examples.Entry
}

func (c *collector) components() error {
	return eachPair(c.named, func(name string, node *yaml.Node) error {
		v, ok, err := c.exampleValue(name, node)
		if err != nil {
			return fmt.Errorf("openapi importer: example %q: %w", name, err)
		}
		if !ok {
			return nil
		}
		return c.add(name, v, localExamplePrefix+name)
	})
}

func (c *collector) responses(paths *yaml.Node) error {
	return eachPair(paths, func(path string, item *yaml.Node) error {
		for _, method := range methods {
			op := mappingValue(item, method)
			if op == nil {
				continue
			}
			opID := scalarValue(mappingValue(op, "operationId"))
			if opID == "" {
				continue
			}
			err := eachPair(mappingValue(op, "responses"), func(code string, resp *yaml.Node) error {
				return eachPair(mappingValue(resp, "content"), func(mediaType string, media *yaml.Node) error {
					if !strings.Contains(mediaType, "json") {
						return nil
					}
					pointer := fmt.Sprintf("#/paths/%s/%s/responses/%s/content/%s", escapePointer(path), method, code, escapePointer(mediaType))
					base := opID + "_" + code
					if example := mappingValue(media, "example"); example != nil {
						v, err := value.FromNode(example)
						if err != nil {
							return fmt.Errorf("openapi importer: %s example: %w", opID, err)
						}
						if err := c.add(base, v, pointer+"/example"); err != nil {
							return err
						}
					}
					return eachPair(mappingValue(media, "examples"), func(name string, node *yaml.Node) error {
						v, ok, err := c.exampleValue(name, node)
						if err != nil {
							return fmt.Errorf("openapi importer: %s example %q: %w", opID, name, err)
						}
						if !ok {
							return nil
						}
						return c.add(base+"_"+name, v, pointer+"/examples/"+escapePointer(name))
					})
				})
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// exampleValue returns the inline value of an Example Object, following
// local $refs through the node tree and external ones through kin-openapi.
// Examples that only carry externalValue are skipped.
func (c *collector) exampleValue(name string, node *yaml.Node) (value.Value, bool, error) {
	for hop := 0; hop < maxRefHops; hop++ {
		if node == nil || node.Kind != yaml.MappingNode {
			return value.Value{}, false, errors.New("example must be a mapping")
		}
		ref := scalarValue(mappingValue(node, "$ref"))
		if ref == "" {
			v := mappingValue(node, "value")
			if v == nil {
				return value.Value{}, false, nil
			}
			out, err := value.FromNode(v)
			return out, err == nil, err
		}
		if !strings.HasPrefix(ref, localExamplePrefix) {
			return c.resolvedValue(name)
		}
		target := strings.TrimPrefix(ref, localExamplePrefix)
		node = mappingValue(c.named, target)
		if node == nil {
			return value.Value{}, false, fmt.Errorf("unresolved reference %q", ref)
		}
	}
	return value.Value{}, false, errors.New("reference chain too long")
}

// resolvedValue falls back to the value kin-openapi resolved. Mapping keys
// come back sorted since the original order is not available.
func (c *collector) resolvedValue(name string) (value.Value, bool, error) {
	if c.api.Components == nil {
		return value.Value{}, false, fmt.Errorf("no resolved example %q", name)
	}
	ref := c.api.Components.Examples[name]
	if ref == nil || ref.Value == nil {
		return value.Value{}, false, fmt.Errorf("no resolved example %q", name)
	}
	if ref.Value.Value == nil {
		return value.Value{}, false, nil
	}
	v, err := value.FromGo(ref.Value.Value)
	return v, err == nil, err
}

func (c *collector) add(name string, v value.Value, pointer string) error {
	symbol := examples.NormalizeName(c.importer.options.Prefix) + examples.SymbolName(name)
	if _, dup := c.seen[symbol]; dup {
		return fmt.Errorf("openapi importer: %q maps to duplicate name %s", name, symbol)
	}
	c.seen[symbol] = struct{}{}
	c.entries = append(c.entries, examples.Entry{
		Name:   symbol,
		Value:  v,
		Origin: c.origin + pointer,
	})
	return nil
}

func documentRoot(node *yaml.Node) *yaml.Node {
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return node
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func eachPair(node *yaml.Node, fn func(key string, v *yaml.Node) error) error {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func scalarValue(node *yaml.Node) string {
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}
	return strings.TrimSpace(node.Value)
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
