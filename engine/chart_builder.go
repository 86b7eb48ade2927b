package engine

import (
	"strconv"
	"strings"

	"github.com/spektr-org/spektr-scatter/schema"
)

// ============================================================================
// CHART BUILDER — Series + Parameters → ChartConfig
// ============================================================================
// A fixed skeleton per chart type, then one independent override per
// parameter, always applied in the same order. Only the floating legend
// preset touches several fields at once.
//
// The config is library-agnostic data. Field names follow the common
// JSON chart-option vocabulary so a thin host adapter can pass it through.
// ============================================================================

// ChartConfig is the declarative chart configuration.
type ChartConfig struct {
	Chart       ChartSection `json:"chart"`
	Title       Title        `json:"title"`
	Subtitle    *Title       `json:"subtitle,omitempty"`
	XAxis       Axis         `json:"xAxis"`
	YAxis       Axis         `json:"yAxis"`
	Legend      Legend       `json:"legend"`
	Tooltip     Tooltip      `json:"tooltip"`
	PlotOptions PlotOptions  `json:"plotOptions"`

	// Exactly one of these is set, matching Chart.Type.
	ScatterSeries []ScatterSeries `json:"-"`
	BubbleSeries  []BubbleSeries  `json:"-"`
	Series        any             `json:"series"`

	// UsePredefinedColorSet is passed through for the host's palette.
	UsePredefinedColorSet bool `json:"usePredefinedColorSet,omitempty"`
}

// ChartSection holds chart-wide settings.
type ChartSection struct {
	Type            string `json:"type"`
	ZoomType        string `json:"zoomType,omitempty"`
	PlotBorderWidth *int   `json:"plotBorderWidth,omitempty"`
}

// Title is a chart, subtitle or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures one chart axis.
type Axis struct {
	Title         *Title     `json:"title,omitempty"`
	Labels        AxisLabels `json:"labels"`
	Opposite      bool       `json:"opposite,omitempty"`
	GridLineWidth *int       `json:"gridLineWidth,omitempty"`
	StartOnTick   *bool      `json:"startOnTick,omitempty"`
	EndOnTick     *bool      `json:"endOnTick,omitempty"`
	ShowLastLabel *bool      `json:"showLastLabel,omitempty"`
	Unit          string     `json:"unit,omitempty"`
}

// AxisLabels configures axis tick labels.
type AxisLabels struct {
	Rotation int `json:"rotation"`
}

// Legend configures the series legend.
type Legend struct {
	Enabled         bool   `json:"enabled"`
	LabelFormat     string `json:"labelFormat"`
	VerticalAlign   string `json:"verticalAlign,omitempty"`
	Layout          string `json:"layout,omitempty"`
	Align           string `json:"align,omitempty"`
	Floating        bool   `json:"floating,omitempty"`
	X               *int   `json:"x,omitempty"`
	Y               *int   `json:"y,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty"`
	BorderWidth     *int   `json:"borderWidth,omitempty"`
	Shadow          *bool  `json:"shadow,omitempty"`
}

// Tooltip carries the numeric precision and units hosts use when formatting
// point tooltips. Precision -1 leaves numbers unrounded.
type Tooltip struct {
	Precision     int    `json:"precision"`
	XUnit         string `json:"xUnit,omitempty"`
	YUnit         string `json:"yUnit,omitempty"`
	ZUnit         string `json:"zUnit,omitempty"`
	UseHTML       bool   `json:"useHTML,omitempty"`
	FollowPointer bool   `json:"followPointer,omitempty"`
}

// PlotOptions holds per-chart-type plot settings.
type PlotOptions struct {
	Scatter *ScatterPlotOptions `json:"scatter,omitempty"`
	Bubble  *BubblePlotOptions  `json:"bubble,omitempty"`
}

// ScatterPlotOptions configures scatter markers.
type ScatterPlotOptions struct {
	Marker Marker `json:"marker"`
}

// Marker configures a point marker.
type Marker struct {
	Radius int `json:"radius"`
}

// BubblePlotOptions bounds the rendered bubble diameter in pixels.
type BubblePlotOptions struct {
	MinSize int `json:"minSize"`
	MaxSize int `json:"maxSize"`
}

// Floating legend preset.
const (
	floatingLegendDefault  = "default"
	floatingLegendTopRight = "top-right"
)

// BuildScatterChart assembles the scatter chart configuration.
func BuildScatterChart(series []ScatterSeries, p schema.Parameters) *ChartConfig {
	cfg := &ChartConfig{
		Chart: ChartSection{Type: schema.ChartScatter},
		Title: Title{Text: " "},
		XAxis: Axis{
			Labels:        AxisLabels{Rotation: p.RotateXAxisLabel},
			StartOnTick:   boolPtr(true),
			EndOnTick:     boolPtr(true),
			ShowLastLabel: boolPtr(true),
		},
		YAxis: Axis{
			Labels: AxisLabels{Rotation: p.RotateYAxisLabel},
		},
		Legend: Legend{Enabled: p.ShowLegend, LabelFormat: "{name}"},
		Tooltip: Tooltip{
			Precision: TooltipPrecision(p.TooltipPrecision),
			XUnit:     p.XAxisUnit,
			YUnit:     p.YAxisUnit,
		},
		PlotOptions: PlotOptions{
			Scatter: &ScatterPlotOptions{Marker: Marker{Radius: p.MarkerRadius}},
		},
		ScatterSeries:         series,
		Series:                series,
		UsePredefinedColorSet: p.UsePredefinedColorSet,
	}

	applyCommon(cfg, p)
	return cfg
}

// BuildBubbleChart assembles the bubble chart configuration.
func BuildBubbleChart(series []BubbleSeries, p schema.Parameters) *ChartConfig {
	cfg := &ChartConfig{
		Chart: ChartSection{Type: schema.ChartBubble, PlotBorderWidth: intPtr(p.PlotBorderWidth)},
		Title: Title{Text: " "},
		XAxis: Axis{
			GridLineWidth: intPtr(p.XGridLineWidth),
			Labels:        AxisLabels{Rotation: p.RotateXAxisLabel},
		},
		YAxis: Axis{
			GridLineWidth: intPtr(p.YGridLineWidth),
			StartOnTick:   boolPtr(false),
			EndOnTick:     boolPtr(false),
			Labels:        AxisLabels{Rotation: p.RotateYAxisLabel},
		},
		Legend: Legend{Enabled: p.ShowLegend, LabelFormat: "{name}"},
		Tooltip: Tooltip{
			Precision:     TooltipPrecision(p.TooltipPrecision),
			XUnit:         p.XAxisUnit,
			YUnit:         p.YAxisUnit,
			ZUnit:         p.ZAxisUnit,
			UseHTML:       true,
			FollowPointer: true,
		},
		PlotOptions: PlotOptions{
			Bubble: &BubblePlotOptions{MinSize: p.MinBubbleSize, MaxSize: p.MaxBubbleSize},
		},
		BubbleSeries: series,
		Series:       series,
	}

	applyCommon(cfg, p)
	return cfg
}

// applyCommon applies the overrides both chart types share.
func applyCommon(cfg *ChartConfig, p schema.Parameters) {
	if p.MainTitle != "" {
		cfg.Title.Text = p.MainTitle
	}
	if p.SubTitle != "" {
		cfg.Subtitle = &Title{Text: p.SubTitle}
	}
	if p.XAxisName != "" {
		cfg.XAxis.Title = &Title{Text: p.XAxisName}
	}
	if p.YAxisName != "" {
		cfg.YAxis.Title = &Title{Text: p.YAxisName}
	}
	cfg.XAxis.Unit = p.XAxisUnit
	cfg.YAxis.Unit = p.YAxisUnit
	if p.ZoomType != "none" {
		cfg.Chart.ZoomType = p.ZoomType
	}
	if p.XAxisPosition == "top" {
		cfg.XAxis.Opposite = true
	}
	if p.YAxisPosition == "right" {
		cfg.YAxis.Opposite = true
	}
	if p.LegendPosition == "top" {
		cfg.Legend.VerticalAlign = "top"
	}
	if p.LegendLayout == "vertical" {
		cfg.Legend.Layout = p.LegendLayout
	}
	if p.LegendLabelFormat != "" {
		cfg.Legend.LabelFormat = p.LegendLabelFormat
	}
	if p.FloatingLegend != "" && p.FloatingLegend != floatingLegendDefault {
		applyFloatingLegend(&cfg.Legend, p.FloatingLegend)
	}
}

// applyFloatingLegend pins the legend inside the plot area.
func applyFloatingLegend(l *Legend, preset string) {
	l.VerticalAlign = "top"
	l.Floating = true
	l.BackgroundColor = "white"
	l.BorderColor = "#CCC"
	l.BorderWidth = intPtr(1)
	l.Shadow = boolPtr(false)
	l.Y = intPtr(25)

	if preset == floatingLegendTopRight {
		l.Align = "right"
		l.X = intPtr(-30)
	} else {
		l.Align = "left"
		l.X = intPtr(50)
	}
}

// TooltipPrecision converts a ".Nf" style precision into a decimal count.
// An empty string means one decimal; anything unparseable returns -1.
func TooltipPrecision(precision string) int {
	if precision == "" {
		return 1
	}
	p := precision
	if strings.HasPrefix(p, ".") && strings.HasSuffix(p, "f") && len(p) >= 2 {
		p = p[1 : len(p)-1]
	}
	n, err := strconv.Atoi(p)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
