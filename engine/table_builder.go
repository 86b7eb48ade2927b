package engine

import (
	"fmt"

	"github.com/spektr-org/spektr-scatter/schema"
)

// ============================================================================
// TABLE BUILDER — Flattens a chart's series into rows
// ============================================================================
// One row per point, series first. Used for CSV export and for hosts that
// show the plotted data next to the chart.
// ============================================================================

// TableColumn describes one table column.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text" or "number"
	Align string `json:"align"` // "left" or "right"
}

// TableData is a flat tabular rendering of chart series.
type TableData struct {
	Title   string        `json:"title,omitempty"`
	Columns []TableColumn `json:"columns"`
	Rows    [][]string    `json:"rows"`
	Summary *Summary      `json:"summary,omitempty"`
}

// Summary is a footer line under a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// BuildTable flattens cfg's series. It returns nil for a nil config.
func BuildTable(cfg *ChartConfig) *TableData {
	if cfg == nil {
		return nil
	}

	title := ""
	if cfg.Title.Text != " " {
		title = cfg.Title.Text
	}

	if cfg.Chart.Type == schema.ChartBubble {
		return buildBubbleTable(title, cfg.BubbleSeries, cfg.XAxis, cfg.YAxis)
	}
	return buildScatterTable(title, cfg.ScatterSeries, cfg.XAxis, cfg.YAxis)
}

func buildScatterTable(title string, series []ScatterSeries, x, y Axis) *TableData {
	t := &TableData{
		Title: title,
		Columns: []TableColumn{
			{Key: "series", Label: "Series", Type: "text", Align: "left"},
			{Key: "x", Label: axisLabel(x, "X"), Type: "number", Align: "right"},
			{Key: "y", Label: axisLabel(y, "Y"), Type: "number", Align: "right"},
		},
		Rows: [][]string{},
	}
	for _, s := range series {
		for _, p := range s.Data {
			t.Rows = append(t.Rows, []string{s.Name, formatFloat(p.X), formatFloat(p.Y)})
		}
	}
	t.Summary = pointSummary(len(series), len(t.Rows))
	return t
}

func buildBubbleTable(title string, series []BubbleSeries, x, y Axis) *TableData {
	t := &TableData{
		Title: title,
		Columns: []TableColumn{
			{Key: "series", Label: "Series", Type: "text", Align: "left"},
			{Key: "x", Label: axisLabel(x, "X"), Type: "number", Align: "right"},
			{Key: "y", Label: axisLabel(y, "Y"), Type: "number", Align: "right"},
			{Key: "z", Label: "Z", Type: "number", Align: "right"},
		},
		Rows: [][]string{},
	}
	for _, s := range series {
		for _, p := range s.Data {
			t.Rows = append(t.Rows, []string{s.Name, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)})
		}
	}
	t.Summary = pointSummary(len(series), len(t.Rows))
	return t
}

// axisLabel prefers the axis title, then falls back.
func axisLabel(a Axis, fallback string) string {
	if a.Title != nil && a.Title.Text != "" {
		fallback = a.Title.Text
	}
	if a.Unit != "" {
		return fallback + " (" + a.Unit + ")"
	}
	return fallback
}

func pointSummary(series, points int) *Summary {
	return &Summary{
		Label: "Total",
		Values: map[string]string{
			"series": fmt.Sprintf("%d", series),
			"points": fmt.Sprintf("%d", points),
		},
	}
}
