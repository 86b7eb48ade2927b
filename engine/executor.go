package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spektr-org/spektr-scatter/schema"
)

// ============================================================================
// EXECUTOR — Dispatcher from render request to Result
// ============================================================================
// Entry point: Render(req, view, opts...)
//
// Pipeline:
//   1. Resolve the chart spec and decode its parameters
//   2. Classify assigned columns into keys, aggregators and groups
//   3. Hide the chart when required axes are unset
//   4. Apply filters → SubView
//   5. Pivot → series → ChartConfig
//
// Render never returns an error. Failures, including panics, come back as a
// Result of type "error" whose Message replaces the chart.
// ============================================================================

// RenderRequest is one render of one chart.
type RenderRequest struct {
	Chart     string         `json:"chart" toml:"chart"`
	Parameter map[string]any `json:"parameter,omitempty" toml:"parameter"`
	Column    ColumnConfig   `json:"column" toml:"column"`
	Filters   Filters        `json:"filters,omitempty" toml:"filters"`
}

// axes is a request's columns classified by axis type.
type axes struct {
	keys        []string
	aggregators []Column
	groups      []string
}

// Render pivots view according to req and returns a render-ready Result.
//
// Options:
//   - WithLogger(l) — render logging
//   - WithStrictParameters() — invalid parameters fail the render
//   - WithHooks(h) — observe the render
func Render(req RenderRequest, view RecordView, opts ...Option) (result *Result) {
	cfg := applyOptions(opts)
	defer finish(cfg, req.Chart, &result)

	spec, err := schema.Lookup(req.Chart)
	if err != nil {
		return errorResult(cfg, req.Chart, WrapError(ErrCodeUnsupportedChart, err, "cannot render chart"))
	}
	if cfg.Hooks.BeforeRender != nil {
		cfg.Hooks.BeforeRender(spec.Name)
	}

	params, warnings, err := decodeParameters(cfg, spec, req.Parameter)
	if err != nil {
		return errorResult(cfg, spec.Name, err)
	}

	a, err := classify(spec, req.Column)
	if err != nil {
		return errorResult(cfg, spec.Name, err)
	}

	if hidden(spec.Name, a) {
		cfg.Logger.Debug("chart hidden", "chart", spec.Name, "keys", len(a.keys), "aggregators", len(a.aggregators))
		return &Result{Success: true, Type: ResultHidden, Chart: spec.Name, Message: HiddenMessage, Warnings: warnings}
	}

	if view == nil {
		return errorResult(cfg, spec.Name, NewError(ErrCodeInvalidInput, "no data to render"))
	}
	if err := checkColumns(view, a); err != nil {
		return errorResult(cfg, spec.Name, err)
	}

	filtered := ApplyFilters(view, req.Filters)
	cfg.Logger.Debug("rendering", "chart", spec.Name, "records", filtered.Len(), "of", view.Len())

	switch spec.Name {
	case schema.ChartScatter:
		in := PivotScatter(filtered, a.keys[0], a.aggregators, a.groups)
		return renderScatter(cfg, in, params, warnings)
	case schema.ChartBubble:
		if len(a.keys) < 2 {
			return errorResult(cfg, spec.Name, NewError(ErrCodeMissingAxis, "bubble chart needs a column on both xAxis and yAxis"))
		}
		in := PivotBubble(filtered, a.keys[0], a.keys[1], a.aggregators, a.groups)
		return renderBubble(cfg, in, params, warnings)
	}
	return errorResult(cfg, spec.Name, NewError(ErrCodeUnsupportedChart, "no renderer for chart %q", spec.Name))
}

// RenderScatter renders already-pivoted scatter input.
func RenderScatter(in ScatterInput, parameter map[string]any, opts ...Option) (result *Result) {
	cfg := applyOptions(opts)
	defer finish(cfg, schema.ChartScatter, &result)

	spec, _ := schema.Lookup(schema.ChartScatter)
	if cfg.Hooks.BeforeRender != nil {
		cfg.Hooks.BeforeRender(spec.Name)
	}
	params, warnings, err := decodeParameters(cfg, spec, parameter)
	if err != nil {
		return errorResult(cfg, spec.Name, err)
	}
	return renderScatter(cfg, in, params, warnings)
}

// RenderBubble renders already-pivoted bubble input.
func RenderBubble(in BubbleInput, parameter map[string]any, opts ...Option) (result *Result) {
	cfg := applyOptions(opts)
	defer finish(cfg, schema.ChartBubble, &result)

	spec, _ := schema.Lookup(schema.ChartBubble)
	if cfg.Hooks.BeforeRender != nil {
		cfg.Hooks.BeforeRender(spec.Name)
	}
	params, warnings, err := decodeParameters(cfg, spec, parameter)
	if err != nil {
		return errorResult(cfg, spec.Name, err)
	}
	return renderBubble(cfg, in, params, warnings)
}

func renderScatter(cfg *config, in ScatterInput, params schema.Parameters, warnings []string) *Result {
	series, dropped := buildScatterSeries(in)
	stats := SeriesStats{Series: len(series), Dropped: dropped}
	for _, s := range series {
		stats.Points += len(s.Data)
	}
	return chartResult(cfg, schema.ChartScatter, BuildScatterChart(series, params), stats, warnings)
}

func renderBubble(cfg *config, in BubbleInput, params schema.Parameters, warnings []string) *Result {
	series, dropped := buildBubbleSeries(in)
	stats := SeriesStats{Series: len(series), Dropped: dropped}
	for _, s := range series {
		stats.Points += len(s.Data)
	}
	return chartResult(cfg, schema.ChartBubble, BuildBubbleChart(series, params), stats, warnings)
}

func chartResult(cfg *config, chart string, cc *ChartConfig, stats SeriesStats, warnings []string) *Result {
	if cfg.Hooks.AfterSeries != nil {
		cfg.Hooks.AfterSeries(chart, stats)
	}
	cfg.Logger.Debug("series built", "chart", chart, "series", stats.Series, "points", stats.Points, "dropped", stats.Dropped)

	return &Result{
		Success:  true,
		Type:     ResultChart,
		Chart:    chart,
		ChartID:  uuid.NewString(),
		Config:   cc,
		Warnings: warnings,
		Stats:    &stats,
	}
}

// finish converts a panic into an error result and runs the AfterRender hook.
func finish(cfg *config, chart string, result **Result) {
	if r := recover(); r != nil {
		*result = errorResult(cfg, chart, NewError(ErrCodeInternal, "render failed: %v", r))
	}
	if cfg.Hooks.AfterRender != nil {
		cfg.Hooks.AfterRender(*result)
	}
}

func errorResult(cfg *config, chart string, err error) *Result {
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	cfg.Logger.Error("render failed", "chart", chart, "code", code, "err", err)
	return &Result{
		Success: false,
		Type:    ResultError,
		Chart:   chart,
		Code:    code,
		Message: UserMessage(err),
	}
}

// ============================================================================
// REQUEST HELPERS
// ============================================================================

// decodeParameters decodes raw chart options. Rejected entries become
// warnings, or an error under WithStrictParameters.
func decodeParameters(cfg *config, spec schema.ChartSpec, raw map[string]any) (schema.Parameters, []string, error) {
	params, err := schema.Decode(spec, raw)
	if err == nil {
		return params, nil, nil
	}
	if cfg.StrictParameters {
		return params, nil, WrapError(ErrCodeInvalidParameter, err, "invalid %s parameters", spec.Name)
	}

	var warnings []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			warnings = append(warnings, e.Error())
		}
	} else {
		warnings = append(warnings, err.Error())
	}
	for _, w := range warnings {
		cfg.Logger.Warn("parameter ignored", "chart", spec.Name, "reason", w)
	}
	return params, warnings, nil
}

// classify sorts the request's columns into keys, aggregators and groups
// following the chart's axis spec.
func classify(spec schema.ChartSpec, cc ColumnConfig) (axes, error) {
	var a axes
	for _, axis := range spec.Axes {
		cols := cc.Axis(axis.Name)
		if axis.Dimension == schema.DimensionSingle && len(cols) > 1 {
			return a, NewError(ErrCodeInvalidInput, "%s accepts a single column, got %d", axis.Name, len(cols))
		}
		for _, c := range cols {
			if c.Name == "" {
				return a, NewError(ErrCodeInvalidInput, "%s has a column without a name", axis.Name)
			}
			switch axis.Type {
			case schema.AxisKey:
				a.keys = append(a.keys, c.Name)
			case schema.AxisAggregator:
				aggr, ok := NormalizeAggregation(c.Aggr)
				if !ok {
					return a, NewError(ErrCodeInvalidInput, "unknown aggregation %q on %s (supported: %v)", c.Aggr, c.Name, Aggregations)
				}
				a.aggregators = append(a.aggregators, Column{Name: c.Name, Aggr: aggr})
			case schema.AxisGroup:
				a.groups = append(a.groups, c.Name)
			}
		}
	}
	return a, nil
}

// hidden reports whether the chart has too few axes to draw. Scatter needs
// a key and an aggregator; bubble needs an aggregator.
func hidden(chart string, a axes) bool {
	if len(a.aggregators) == 0 {
		return true
	}
	return chart == schema.ChartScatter && len(a.keys) == 0
}

// checkColumns rejects columns the view does not have. Views that expose no
// column names are not checked.
func checkColumns(view RecordView, a axes) error {
	keys := view.DimensionKeys()
	if len(keys) == 0 {
		return nil
	}
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}

	var missing []error
	check := func(name string) {
		if !known[name] {
			missing = append(missing, fmt.Errorf("unknown column %q", name))
		}
	}
	for _, k := range a.keys {
		check(k)
	}
	for _, c := range a.aggregators {
		check(c.Name)
	}
	for _, g := range a.groups {
		check(g)
	}
	if len(missing) > 0 {
		return WrapError(ErrCodeInvalidInput, errors.Join(missing...), "column not found")
	}
	return nil
}
