package schema

import (
	"fmt"
	"sort"
)

// ============================================================================
// SCHEMA — Chart specs: which axes a chart has and which parameters it takes
// ============================================================================
// The host reads these specs to build its settings panel (axis drop zones and
// parameter widgets). The engine reads them to classify assigned columns into
// keys, aggregators and groups, and to decode parameters.
// ============================================================================

// Axis dimensions.
const (
	DimensionSingle   = "single"
	DimensionMultiple = "multiple"
)

// Axis types.
const (
	AxisKey        = "key"
	AxisAggregator = "aggregator"
	AxisGroup      = "group"
)

// Transform methods.
const (
	TransformArray     = "array"
	TransformArray2Key = "array:2-key"
)

// Chart names.
const (
	ChartScatter = "scatter"
	ChartBubble  = "bubble"
)

// ChartSpec describes one chart type.
type ChartSpec struct {
	Name       string          `json:"name"`
	Transform  string          `json:"transform"`
	SharedAxis bool            `json:"sharedAxis"`
	Axes       []AxisSpec      `json:"axes"`
	Parameters []ParameterSpec `json:"parameters"`
}

// AxisSpec describes one axis drop zone.
type AxisSpec struct {
	Name         string `json:"name"`
	Dimension    string `json:"dimension"` // "single" or "multiple"
	Type         string `json:"type"`      // "key", "aggregator", "group"
	MinAxisCount int    `json:"minAxisCount,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Value types for parameters.
const (
	ValueString = "string"
	ValueInt    = "int"
	ValueBool   = "boolean"
)

// Widgets for parameters.
const (
	WidgetInput    = "input"
	WidgetCheckbox = "checkbox"
	WidgetOption   = "option"
)

// ParameterSpec describes one named chart option.
type ParameterSpec struct {
	Name         string   `json:"name"`
	ValueType    string   `json:"valueType"`
	Default      any      `json:"defaultValue"`
	Description  string   `json:"description"`
	Widget       string   `json:"widget,omitempty"`
	OptionValues []string `json:"optionValues,omitempty"`
}

// InputWidget is the widget a host shows for the parameter. Parameters
// without one are edited as free text.
func (p ParameterSpec) InputWidget() string {
	if p.Widget == "" {
		return WidgetInput
	}
	return p.Widget
}

// Parameter returns the spec of the named parameter.
func (c ChartSpec) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// AxesOfType returns the names of axes with the given type, in spec order.
func (c ChartSpec) AxesOfType(axisType string) []string {
	var names []string
	for _, a := range c.Axes {
		if a.Type == axisType {
			names = append(names, a.Name)
		}
	}
	return names
}

// ============================================================================
// REGISTRY
// ============================================================================

var charts = map[string]ChartSpec{
	ChartScatter: {
		Name:      ChartScatter,
		Transform: TransformArray,
		Axes: []AxisSpec{
			{Name: "xAxis", Dimension: DimensionSingle, Type: AxisKey, MinAxisCount: 1, Description: "serial"},
			{Name: "yAxis", Dimension: DimensionMultiple, Type: AxisAggregator, MinAxisCount: 1, Description: "serial"},
			{Name: "category", Dimension: DimensionMultiple, Type: AxisGroup},
		},
		Parameters: ScatterParameters,
	},
	ChartBubble: {
		Name:      ChartBubble,
		Transform: TransformArray2Key,
		Axes: []AxisSpec{
			{Name: "xAxis", Dimension: DimensionSingle, Type: AxisKey, MinAxisCount: 1, Description: "serial"},
			{Name: "yAxis", Dimension: DimensionSingle, Type: AxisKey, MinAxisCount: 1, Description: "serial"},
			{Name: "zAxis", Dimension: DimensionMultiple, Type: AxisAggregator, MinAxisCount: 1},
			{Name: "category", Dimension: DimensionMultiple, Type: AxisGroup},
		},
		Parameters: BubbleParameters,
	},
}

// Lookup returns the spec of a chart by name.
func Lookup(name string) (ChartSpec, error) {
	spec, ok := charts[name]
	if !ok {
		return ChartSpec{}, fmt.Errorf("unknown chart %q (supported: %v)", name, ChartNames())
	}
	return spec, nil
}

// Charts returns all chart specs sorted by name.
func Charts() []ChartSpec {
	out := make([]ChartSpec, 0, len(charts))
	for _, name := range ChartNames() {
		out = append(out, charts[name])
	}
	return out
}

// ChartNames returns the supported chart names, sorted.
func ChartNames() []string {
	names := make([]string, 0, len(charts))
	for name := range charts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
