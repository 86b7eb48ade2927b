package engine

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func quiet() Option {
	return WithLogger(log.New(io.Discard))
}

func scatterRequest() RenderRequest {
	return RenderRequest{
		Chart: "scatter",
		Column: ColumnConfig{
			XAxis: []Column{{Name: "year"}},
			YAxis: []Column{{Name: "price", Aggr: "sum"}},
		},
	}
}

func TestRenderScatterChart(t *testing.T) {
	res := Render(scatterRequest(), salesView(), quiet())

	if !res.Success || res.Type != ResultChart || res.Chart != "scatter" {
		t.Fatalf("result = %+v", res)
	}
	if res.ChartID == "" {
		t.Error("ChartID should be set")
	}
	want := []ScatterSeries{{Name: "price(sum)", Data: []ScatterPoint{{2020, 35}, {2021, 30}}}}
	if !reflect.DeepEqual(res.Config.ScatterSeries, want) {
		t.Errorf("series = %+v, want %+v", res.Config.ScatterSeries, want)
	}
	if res.Stats == nil || res.Stats.Points != 2 || res.Stats.Dropped != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRenderFreshChartID(t *testing.T) {
	a := Render(scatterRequest(), salesView(), quiet())
	b := Render(scatterRequest(), salesView(), quiet())
	if a.ChartID == b.ChartID {
		t.Error("each render should get its own chart id")
	}
	if !reflect.DeepEqual(a.Config, b.Config) {
		t.Error("same input should give the same config")
	}
}

func TestRenderHidden(t *testing.T) {
	tests := []struct {
		name string
		req  RenderRequest
	}{
		{"scatter without aggregator", RenderRequest{Chart: "scatter", Column: ColumnConfig{XAxis: []Column{{Name: "year"}}}}},
		{"scatter without key", RenderRequest{Chart: "scatter", Column: ColumnConfig{YAxis: []Column{{Name: "price"}}}}},
		{"bubble without aggregator", RenderRequest{Chart: "bubble", Column: ColumnConfig{XAxis: []Column{{Name: "year"}}, YAxis: []Column{{Name: "qty"}}}}},
	}

	for _, tt := range tests {
		res := Render(tt.req, salesView(), quiet())
		if res.Type != ResultHidden || res.Message != HiddenMessage || !res.Success {
			t.Errorf("%s: result = %+v", tt.name, res)
		}
		if res.Config != nil {
			t.Errorf("%s: hidden result should carry no config", tt.name)
		}
	}
}

func TestRenderBubbleMissingKey(t *testing.T) {
	req := RenderRequest{
		Chart:  "bubble",
		Column: ColumnConfig{XAxis: []Column{{Name: "year"}}, ZAxis: []Column{{Name: "price"}}},
	}
	res := Render(req, salesView(), quiet())
	if res.Type != ResultError || res.Code != ErrCodeMissingAxis {
		t.Errorf("result = %+v", res)
	}
}

func TestRenderBubbleChart(t *testing.T) {
	req := RenderRequest{
		Chart: "bubble",
		Column: ColumnConfig{
			XAxis:    []Column{{Name: "year"}},
			YAxis:    []Column{{Name: "qty"}},
			ZAxis:    []Column{{Name: "price", Aggr: "max"}},
			Category: []Column{{Name: "region"}},
		},
		Parameter: map[string]any{"maxBubbleSize": 40},
	}

	res := Render(req, salesView(), quiet())
	if res.Type != ResultChart {
		t.Fatalf("result = %+v", res)
	}
	if res.Config.PlotOptions.Bubble.MaxSize != 40 {
		t.Errorf("maxSize = %d, want 40", res.Config.PlotOptions.Bubble.MaxSize)
	}
	series := res.Config.BubbleSeries
	if len(series) != 2 || series[0].Name != "EU" || series[1].Name != "US" {
		t.Fatalf("series = %+v", series)
	}
	if want := []BubblePoint{{2020, 1, 10}, {2021, 3, 30}, {2020, 4, 5}}; !reflect.DeepEqual(series[0].Data, want) {
		t.Errorf("EU = %+v, want %+v", series[0].Data, want)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		req  RenderRequest
		code Code
	}{
		{"unknown chart", RenderRequest{Chart: "pie"}, ErrCodeUnsupportedChart},
		{"unknown column", RenderRequest{Chart: "scatter", Column: ColumnConfig{
			XAxis: []Column{{Name: "year"}}, YAxis: []Column{{Name: "cost"}},
		}}, ErrCodeInvalidInput},
		{"unknown aggregation", RenderRequest{Chart: "scatter", Column: ColumnConfig{
			XAxis: []Column{{Name: "year"}}, YAxis: []Column{{Name: "price", Aggr: "median"}},
		}}, ErrCodeInvalidInput},
		{"two keys on a single axis", RenderRequest{Chart: "scatter", Column: ColumnConfig{
			XAxis: []Column{{Name: "year"}, {Name: "qty"}}, YAxis: []Column{{Name: "price"}},
		}}, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		res := Render(tt.req, salesView(), quiet())
		if res.Success || res.Type != ResultError || res.Code != tt.code {
			t.Errorf("%s: result = %+v", tt.name, res)
		}
		if res.Message == "" {
			t.Errorf("%s: error result needs a message", tt.name)
		}
	}
}

func TestRenderNilView(t *testing.T) {
	res := Render(scatterRequest(), nil, quiet())
	if res.Type != ResultError || res.Code != ErrCodeInvalidInput {
		t.Errorf("result = %+v", res)
	}
}

func TestRenderParameterWarnings(t *testing.T) {
	req := scatterRequest()
	req.Parameter = map[string]any{"zoomType": "x", "mainTitle": "T"}

	res := Render(req, salesView(), quiet())
	if res.Type != ResultChart {
		t.Fatalf("lenient render should succeed: %+v", res)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "zoomType") {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if res.Config.Chart.ZoomType != "xy" || res.Config.Title.Text != "T" {
		t.Errorf("config = %+v", res.Config)
	}

	strict := Render(req, salesView(), quiet(), WithStrictParameters())
	if strict.Type != ResultError || strict.Code != ErrCodeInvalidParameter {
		t.Errorf("strict result = %+v", strict)
	}
}

// panicView blows up on first access.
type panicView struct{ RecordView }

func (panicView) Len() int { panic("boom") }

func TestRenderRecoversPanic(t *testing.T) {
	var after *Result
	res := Render(scatterRequest(), panicView{salesView()}, quiet(), WithHooks(Hooks{
		AfterRender: func(r *Result) { after = r },
	}))

	if res.Type != ResultError || res.Code != ErrCodeInternal || !strings.Contains(res.Message, "boom") {
		t.Errorf("result = %+v", res)
	}
	if after != res {
		t.Error("AfterRender should see the recovered result")
	}
}

func TestRenderHooks(t *testing.T) {
	var before string
	var stats SeriesStats
	Render(scatterRequest(), salesView(), quiet(), WithHooks(Hooks{
		BeforeRender: func(chart string) { before = chart },
		AfterSeries:  func(_ string, s SeriesStats) { stats = s },
	}))

	if before != "scatter" {
		t.Errorf("BeforeRender chart = %q", before)
	}
	if stats.Series != 1 || stats.Points != 2 {
		t.Errorf("AfterSeries stats = %+v", stats)
	}
}

func TestRenderFilters(t *testing.T) {
	req := scatterRequest()
	req.Filters = Filters{"region": {"US"}}

	res := Render(req, salesView(), quiet())
	want := []ScatterPoint{{2020, 20}}
	if !reflect.DeepEqual(res.Config.ScatterSeries[0].Data, want) {
		t.Errorf("data = %+v, want %+v", res.Config.ScatterSeries[0].Data, want)
	}
}

func TestRenderPrePivoted(t *testing.T) {
	sc := RenderScatter(ScatterInput{
		KeyNames:  []string{"1", "2", "x"},
		Selectors: []string{"s"},
		Rows:      []ScatterRow{{Value: []any{10, 20, 30}}},
	}, nil, quiet())
	if sc.Type != ResultChart || len(sc.Config.ScatterSeries[0].Data) != 2 {
		t.Errorf("scatter = %+v", sc)
	}

	bu := RenderBubble(BubbleInput{
		Selectors: []string{"s"},
		Rows:      []BubbleRow{{Value: []BubbleRecord{{1, 2, "5"}, {"a", 2, "5"}}}},
	}, map[string]any{"mainTitle": "B"}, quiet())
	if bu.Type != ResultChart || bu.Config.Title.Text != "B" {
		t.Fatalf("bubble = %+v", bu)
	}
	if want := []BubblePoint{{1, 2, 5}}; !reflect.DeepEqual(bu.Config.BubbleSeries[0].Data, want) {
		t.Errorf("bubble data = %+v", bu.Config.BubbleSeries[0].Data)
	}
}
