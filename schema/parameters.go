package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// PARAMETERS — Named, typed chart options with defaults and allow-lists
// ============================================================================

const formatDocLink = "(http://www.highcharts.com/docs/chart-concepts/labels-and-string-formatting)"

// Shared parameter specs. Order is the order a settings panel shows them.
var (
	paramFloatingLegend = ParameterSpec{Name: "floatingLegend", ValueType: ValueString, Default: "default", Description: "floating legend", Widget: WidgetOption, OptionValues: []string{"default", "top-right", "top-left"}}
	paramRotateX        = ParameterSpec{Name: "rotateXAxisLabel", ValueType: ValueInt, Default: 0, Description: "rotate xAxis labels"}
	paramRotateY        = ParameterSpec{Name: "rotateYAxisLabel", ValueType: ValueInt, Default: 0, Description: "rotate yAxis labels"}
	paramTooltip        = ParameterSpec{Name: "tooltipPrecision", ValueType: ValueString, Default: ".1f", Description: "precision of tooltip format without ':' " + formatDocLink}
	paramLegendFormat   = ParameterSpec{Name: "legendLabelFormat", ValueType: ValueString, Default: "", Description: "text format of legend " + formatDocLink}
	paramXAxisPosition  = ParameterSpec{Name: "xAxisPosition", ValueType: ValueString, Default: "bottom", Description: "xAxis position", Widget: WidgetOption, OptionValues: []string{"bottom", "top"}}
	paramYAxisPosition  = ParameterSpec{Name: "yAxisPosition", ValueType: ValueString, Default: "left", Description: "yAxis position", Widget: WidgetOption, OptionValues: []string{"left", "right"}}
	paramShowLegend     = ParameterSpec{Name: "showLegend", ValueType: ValueBool, Default: true, Description: "show legend", Widget: WidgetCheckbox}
	paramLegendPosition = ParameterSpec{Name: "legendPosition", ValueType: ValueString, Default: "bottom", Description: "position of legend", Widget: WidgetOption, OptionValues: []string{"bottom", "top"}}
	paramLegendLayout   = ParameterSpec{Name: "legendLayout", ValueType: ValueString, Default: "horizontal", Description: "layout of legend", Widget: WidgetOption, OptionValues: []string{"horizontal", "vertical"}}
	paramZoomType       = ParameterSpec{Name: "zoomType", ValueType: ValueString, Default: "xy", Description: "type of zoom", Widget: WidgetOption, OptionValues: []string{"xy", "none"}}
	paramSubTitle       = ParameterSpec{Name: "subTitle", ValueType: ValueString, Default: "", Description: "sub title of chart"}
	paramMainTitle      = ParameterSpec{Name: "mainTitle", ValueType: ValueString, Default: "", Description: "main title of chart"}
	paramXAxisUnit      = ParameterSpec{Name: "xAxisUnit", ValueType: ValueString, Default: "", Description: "unit of xAxis"}
	paramYAxisUnit      = ParameterSpec{Name: "yAxisUnit", ValueType: ValueString, Default: "", Description: "unit of yAxis"}
	paramXAxisName      = ParameterSpec{Name: "xAxisName", ValueType: ValueString, Default: "", Description: "name of xAxis"}
	paramYAxisName      = ParameterSpec{Name: "yAxisName", ValueType: ValueString, Default: "", Description: "name of yAxis"}
)

// ScatterParameters are the options of the scatter chart.
var ScatterParameters = []ParameterSpec{
	{Name: "usePredefinedColorSet", ValueType: ValueBool, Default: true, Description: "use predefined color set", Widget: WidgetCheckbox},
	{Name: "markerRadius", ValueType: ValueInt, Default: 3, Description: "radius size of markers"},
	paramFloatingLegend,
	paramRotateX,
	paramRotateY,
	paramTooltip,
	paramLegendFormat,
	paramXAxisPosition,
	paramYAxisPosition,
	paramShowLegend,
	paramLegendPosition,
	paramLegendLayout,
	paramZoomType,
	paramSubTitle,
	paramMainTitle,
	paramXAxisUnit,
	paramYAxisUnit,
	paramXAxisName,
	paramYAxisName,
}

// BubbleParameters are the options of the bubble chart.
var BubbleParameters = []ParameterSpec{
	{Name: "minBubbleSize", ValueType: ValueInt, Default: 3, Description: "minimum size of bubble"},
	{Name: "maxBubbleSize", ValueType: ValueInt, Default: 50, Description: "maximum size of bubble"},
	{Name: "plotBorderWidth", ValueType: ValueInt, Default: 1, Description: "border width of plot"},
	{Name: "xGridLineWidth", ValueType: ValueInt, Default: 1, Description: "grid line width of X axis"},
	{Name: "yGridLineWidth", ValueType: ValueInt, Default: 1, Description: "grid line width of Y axis"},
	paramFloatingLegend,
	paramRotateX,
	paramRotateY,
	paramTooltip,
	paramLegendFormat,
	paramXAxisPosition,
	paramYAxisPosition,
	paramShowLegend,
	paramLegendPosition,
	paramLegendLayout,
	paramZoomType,
	paramSubTitle,
	paramMainTitle,
	paramXAxisUnit,
	paramYAxisUnit,
	{Name: "zAxisUnit", ValueType: ValueString, Default: "", Description: "unit of zAxis"},
	paramXAxisName,
	paramYAxisName,
}

// Parameters is the decoded, typed option set of a chart. Fields a chart does
// not declare keep their zero value.
type Parameters struct {
	UsePredefinedColorSet bool   `json:"usePredefinedColorSet" toml:"usePredefinedColorSet"`
	MarkerRadius          int    `json:"markerRadius" toml:"markerRadius"`
	FloatingLegend        string `json:"floatingLegend" toml:"floatingLegend"`
	RotateXAxisLabel      int    `json:"rotateXAxisLabel" toml:"rotateXAxisLabel"`
	RotateYAxisLabel      int    `json:"rotateYAxisLabel" toml:"rotateYAxisLabel"`
	TooltipPrecision      string `json:"tooltipPrecision" toml:"tooltipPrecision"`
	LegendLabelFormat     string `json:"legendLabelFormat" toml:"legendLabelFormat"`
	XAxisPosition         string `json:"xAxisPosition" toml:"xAxisPosition"`
	YAxisPosition         string `json:"yAxisPosition" toml:"yAxisPosition"`
	ShowLegend            bool   `json:"showLegend" toml:"showLegend"`
	LegendPosition        string `json:"legendPosition" toml:"legendPosition"`
	LegendLayout          string `json:"legendLayout" toml:"legendLayout"`
	ZoomType              string `json:"zoomType" toml:"zoomType"`
	SubTitle              string `json:"subTitle" toml:"subTitle"`
	MainTitle             string `json:"mainTitle" toml:"mainTitle"`
	XAxisUnit             string `json:"xAxisUnit" toml:"xAxisUnit"`
	YAxisUnit             string `json:"yAxisUnit" toml:"yAxisUnit"`
	ZAxisUnit             string `json:"zAxisUnit" toml:"zAxisUnit"`
	XAxisName             string `json:"xAxisName" toml:"xAxisName"`
	YAxisName             string `json:"yAxisName" toml:"yAxisName"`
	MinBubbleSize         int    `json:"minBubbleSize" toml:"minBubbleSize"`
	MaxBubbleSize         int    `json:"maxBubbleSize" toml:"maxBubbleSize"`
	PlotBorderWidth       int    `json:"plotBorderWidth" toml:"plotBorderWidth"`
	XGridLineWidth        int    `json:"xGridLineWidth" toml:"xGridLineWidth"`
	YGridLineWidth        int    `json:"yGridLineWidth" toml:"yGridLineWidth"`
}

// ParameterError reports one rejected parameter.
type ParameterError struct {
	Name   string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Name, e.Reason)
}

// Defaults returns the chart's parameters with every documented default applied.
func Defaults(spec ChartSpec) Parameters {
	var p Parameters
	for _, ps := range spec.Parameters {
		p.set(ps.Name, ps.Default)
	}
	return p
}

// Decode applies raw on top of the chart defaults.
//
// Every rejected entry (unknown name, wrong type, value outside the
// allow-list) keeps its default and is reported in the returned error, which
// joins one *ParameterError per entry. The returned Parameters are always
// usable, so callers may treat the error as a warning.
func Decode(spec ChartSpec, raw map[string]any) (Parameters, error) {
	p := Defaults(spec)

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		ps, ok := spec.Parameter(name)
		if !ok {
			errs = append(errs, &ParameterError{Name: name, Reason: "unknown parameter for " + spec.Name + " chart"})
			continue
		}
		v, err := coerce(ps, raw[name])
		if err != nil {
			errs = append(errs, &ParameterError{Name: name, Reason: err.Error()})
			continue
		}
		p.set(name, v)
	}

	return p, errors.Join(errs...)
}

// coerce converts raw to the parameter's value type and checks its allow-list.
func coerce(ps ParameterSpec, raw any) (any, error) {
	switch ps.ValueType {
	case ValueInt:
		n, ok := toInt(raw)
		if !ok {
			return nil, fmt.Errorf("expected int, got %v", raw)
		}
		return n, nil

	case ValueBool:
		switch b := raw.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return nil, fmt.Errorf("expected boolean, got %q", b)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected boolean, got %v", raw)

	default:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %v", raw)
		}
		if len(ps.OptionValues) > 0 && !contains(ps.OptionValues, s) {
			return nil, fmt.Errorf("%q is not one of %v", s, ps.OptionValues)
		}
		return s, nil
	}
}

// toInt accepts integral values that fit in an int, including floats such
// as 4.0 and json.Number text such as "4.0".
func toInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if int64(int(n)) == n {
			return int(n), true
		}
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		if uint64(n) <= math.MaxInt {
			return int(n), true
		}
	case float64:
		if n == math.Trunc(n) && n >= float64(math.MinInt) && n < -float64(math.MinInt) {
			return int(n), true
		}
	case float32:
		return toInt(float64(n))
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return toInt(i)
		}
		if f, err := n.Float64(); err == nil {
			return toInt(f)
		}
	}
	return 0, false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// set assigns a coerced value to the field of the same name.
func (p *Parameters) set(name string, v any) {
	switch name {
	case "usePredefinedColorSet":
		p.UsePredefinedColorSet = v.(bool)
	case "markerRadius":
		p.MarkerRadius = v.(int)
	case "floatingLegend":
		p.FloatingLegend = v.(string)
	case "rotateXAxisLabel":
		p.RotateXAxisLabel = v.(int)
	case "rotateYAxisLabel":
		p.RotateYAxisLabel = v.(int)
	case "tooltipPrecision":
		p.TooltipPrecision = v.(string)
	case "legendLabelFormat":
		p.LegendLabelFormat = v.(string)
	case "xAxisPosition":
		p.XAxisPosition = v.(string)
	case "yAxisPosition":
		p.YAxisPosition = v.(string)
	case "showLegend":
		p.ShowLegend = v.(bool)
	case "legendPosition":
		p.LegendPosition = v.(string)
	case "legendLayout":
		p.LegendLayout = v.(string)
	case "zoomType":
		p.ZoomType = v.(string)
	case "subTitle":
		p.SubTitle = v.(string)
	case "mainTitle":
		p.MainTitle = v.(string)
	case "xAxisUnit":
		p.XAxisUnit = v.(string)
	case "yAxisUnit":
		p.YAxisUnit = v.(string)
	case "zAxisUnit":
		p.ZAxisUnit = v.(string)
	case "xAxisName":
		p.XAxisName = v.(string)
	case "yAxisName":
		p.YAxisName = v.(string)
	case "minBubbleSize":
		p.MinBubbleSize = v.(int)
	case "maxBubbleSize":
		p.MaxBubbleSize = v.(int)
	case "plotBorderWidth":
		p.PlotBorderWidth = v.(int)
	case "xGridLineWidth":
		p.XGridLineWidth = v.(int)
	case "yGridLineWidth":
		p.YGridLineWidth = v.(int)
	}
}
