// Package charts carries the literal chart-library configuration used by the
// dashboard demo page. Nothing here draws charts; the values are handed to the
// external charting library untouched.
package charts

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

// Origin tags registry entries contributed by the embedded dashboard.
const Origin = "builtin:dashboard.json"

// GlobalDefaultsName is the registry name of the global chart defaults.
const GlobalDefaultsName = "CHART_GLOBAL_DEFAULTS"

//go:embed dashboard.json
var dashboardJSON []byte

// Palette holds the theme colours referenced by the chart configs.
type Palette struct {
	Primary   string
	Secondary string
}

// Chart is one chart configuration. ID is the canvas element identifier; it
// is empty for configs that are defined but never mounted.
type Chart struct {
	ID      string
	Name    string
	Type    string
	Data    value.Value
	Options value.Value
}

// Mounted reports whether the chart is bound to a canvas.
func (c Chart) Mounted() bool {
	return c.ID != ""
}

// Label returns the canvas id, falling back to the chart name.
func (c Chart) Label() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Name
}

// ExampleName is the registry name for the chart ("myBarGraph" becomes
// "CHART_MY_BAR_GRAPH").
func (c Chart) ExampleName() string {
	return "CHART_" + examples.SymbolName(c.Label())
}

// Config is the object handed to the chart library.
func (c Chart) Config() value.Value {
	return value.Map(
		value.F("type", value.String(c.Type)),
		value.F("data", c.Data),
		value.F("options", c.Options),
	)
}

// Dashboard is the immutable set of chart configs for the demo page.
type Dashboard struct {
	palette Palette
	global  value.Value
	charts  []Chart
}

// Load parses the embedded dashboard document.
func Load() (*Dashboard, error) {
	return Parse(dashboardJSON)
}

// MustLoad panics when the embedded document is malformed.
func MustLoad() *Dashboard {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Raw returns a copy of the embedded document.
func Raw() []byte {
	return append([]byte(nil), dashboardJSON...)
}

// Parse decodes a dashboard document with "palette", "global" and "charts"
// members.
func Parse(data []byte) (*Dashboard, error) {
	root, err := value.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("charts: parse dashboard: %w", err)
	}
	if root.Kind() != value.KindMapping {
		return nil, fmt.Errorf("charts: dashboard must be a mapping, got %s", root.Kind())
	}

	d := &Dashboard{global: value.Map()}
	if palette, ok := root.Get("palette"); ok {
		d.palette = Palette{
			Primary:   stringField(palette, "primary"),
			Secondary: stringField(palette, "secondary"),
		}
	}
	if global, ok := root.Get("global"); ok {
		if global.Kind() != value.KindMapping {
			return nil, fmt.Errorf("charts: global defaults must be a mapping, got %s", global.Kind())
		}
		d.global = global
	}

	list, _ := root.Get("charts")
	seen := make(map[string]struct{}, list.Len())
	for i, item := range list.Items() {
		chart, err := parseChart(item)
		if err != nil {
			return nil, fmt.Errorf("charts: chart %d: %w", i, err)
		}
		key := chart.ExampleName()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("charts: chart %d: duplicate chart %q", i, chart.Label())
		}
		seen[key] = struct{}{}
		d.charts = append(d.charts, chart)
	}
	return d, nil
}

func parseChart(item value.Value) (Chart, error) {
	if item.Kind() != value.KindMapping {
		return Chart{}, fmt.Errorf("expected mapping, got %s", item.Kind())
	}
	chart := Chart{
		ID:   strings.TrimSpace(stringField(item, "id")),
		Name: strings.TrimSpace(stringField(item, "name")),
		Type: strings.TrimSpace(stringField(item, "type")),
	}
	if chart.Label() == "" {
		return Chart{}, fmt.Errorf("chart needs an id or a name")
	}
	if chart.Type == "" {
		return Chart{}, fmt.Errorf("chart %q has no type", chart.Label())
	}

	var ok bool
	if chart.Data, ok = item.Get("data"); !ok {
		chart.Data = value.Null()
	}
	if chart.Options, ok = item.Get("options"); !ok {
		chart.Options = value.Map()
	}
	return chart, nil
}

func stringField(v value.Value, key string) string {
	field, ok := v.Get(key)
	if !ok {
		return ""
	}
	s, _ := field.AsString()
	return s
}

// Palette returns the theme colours.
func (d *Dashboard) Palette() Palette {
	return d.palette
}

// Global returns the library-wide defaults.
func (d *Dashboard) Global() value.Value {
	return d.global
}

// Charts returns every chart in document order, mounted or not.
func (d *Dashboard) Charts() []Chart {
	return append([]Chart(nil), d.charts...)
}

// Mounted returns the charts bound to a canvas.
func (d *Dashboard) Mounted() []Chart {
	out := make([]Chart, 0, len(d.charts))
	for _, chart := range d.charts {
		if chart.Mounted() {
			out = append(out, chart)
		}
	}
	return out
}

// Chart finds a chart by canvas id or name.
func (d *Dashboard) Chart(id string) (Chart, error) {
	id = strings.TrimSpace(id)
	for _, chart := range d.charts {
		if chart.ID == id || (chart.ID == "" && chart.Name == id) {
			return chart, nil
		}
	}
	return Chart{}, &examples.LookupError{Kind: "chart", Key: id}
}

// Register adds the global defaults and every chart config to b.
func Register(b *examples.Builder, d *Dashboard) error {
	if err := b.Add(GlobalDefaultsName, d.Global(), Origin); err != nil {
		return err
	}
	for _, chart := range d.charts {
		if err := b.Add(chart.ExampleName(), chart.Config(), Origin); err != nil {
			return err
		}
	}
	return nil
}
