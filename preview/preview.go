// Package preview draws a static image of a chart configuration with
// gonum/plot, for terminals, CI artifacts and hosts without a JS charting
// library.
package preview

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/spektr-scatter/engine"
	"github.com/spektr-org/spektr-scatter/schema"
)

// Default image size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Formats lists the image formats Write accepts.
var Formats = []string{"png", "svg", "pdf", "jpg"}

// Plot builds the plot for cfg, dispatching on the chart type.
func Plot(cfg *engine.ChartConfig) (*plot.Plot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no chart configuration")
	}
	switch cfg.Chart.Type {
	case schema.ChartScatter:
		return Scatter(cfg.ScatterSeries, cfg)
	case schema.ChartBubble:
		return Bubble(cfg.BubbleSeries, cfg)
	}
	return nil, fmt.Errorf("cannot preview chart type %q", cfg.Chart.Type)
}

// Scatter plots one glyph series per scatter series.
func Scatter(series []engine.ScatterSeries, cfg *engine.ChartConfig) (*plot.Plot, error) {
	p := newPlot(cfg)

	radius := vg.Points(3)
	if cfg.PlotOptions.Scatter != nil && cfg.PlotOptions.Scatter.Marker.Radius > 0 {
		radius = vg.Points(float64(cfg.PlotOptions.Scatter.Marker.Radius))
	}

	points := 0
	for i, s := range series {
		if len(s.Data) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Data))
		for j, pt := range s.Data {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: seriesColor(i), Radius: radius, Shape: draw.CircleGlyph{}}

		p.Add(sc)
		if cfg.Legend.Enabled {
			p.Legend.Add(s.Name, sc)
		}
		points += len(s.Data)
	}

	finishPlot(p, points)
	return p, nil
}

// Bubble plots each bubble series with its z value mapped linearly onto a
// diameter between the configured min and max bubble sizes.
func Bubble(series []engine.BubbleSeries, cfg *engine.ChartConfig) (*plot.Plot, error) {
	p := newPlot(cfg)

	minSize, maxSize := 3.0, 50.0
	if b := cfg.PlotOptions.Bubble; b != nil {
		minSize, maxSize = float64(b.MinSize), float64(b.MaxSize)
	}
	zMin, zMax := zRange(series)

	points := 0
	for i, s := range series {
		if len(s.Data) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Data))
		zs := make([]float64, len(s.Data))
		for j, pt := range s.Data {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
			zs[j] = pt.Z
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		c := seriesColor(i)
		sc.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(minSize / 2), Shape: draw.CircleGlyph{}}
		sc.GlyphStyleFunc = func(j int) draw.GlyphStyle {
			d := BubbleDiameter(zs[j], zMin, zMax, minSize, maxSize)
			return draw.GlyphStyle{Color: c, Radius: vg.Points(d / 2), Shape: draw.CircleGlyph{}}
		}

		p.Add(sc)
		if cfg.Legend.Enabled {
			p.Legend.Add(s.Name, sc)
		}
		points += len(s.Data)
	}

	finishPlot(p, points)
	return p, nil
}

// BubbleDiameter maps z from [zMin, zMax] onto [minSize, maxSize]. When all
// z values are equal every bubble gets maxSize.
func BubbleDiameter(z, zMin, zMax, minSize, maxSize float64) float64 {
	if maxSize < minSize {
		minSize, maxSize = maxSize, minSize
	}
	if zMax <= zMin {
		return maxSize
	}
	return minSize + (z-zMin)/(zMax-zMin)*(maxSize-minSize)
}

func zRange(series []engine.BubbleSeries) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, pt := range s.Data {
			lo = math.Min(lo, pt.Z)
			hi = math.Max(hi, pt.Z)
		}
	}
	return lo, hi
}

// Write encodes p in the given format at the given size.
func Write(w io.Writer, p *plot.Plot, format string, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// Render builds and writes the preview of cfg in one step.
func Render(w io.Writer, cfg *engine.ChartConfig, format string, width, height vg.Length) error {
	p, err := Plot(cfg)
	if err != nil {
		return err
	}
	return Write(w, p, format, width, height)
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

func newPlot(cfg *engine.ChartConfig) *plot.Plot {
	p := plot.New()

	if cfg.Title.Text != " " {
		p.Title.Text = cfg.Title.Text
	}
	if cfg.Subtitle != nil && cfg.Subtitle.Text != "" {
		if p.Title.Text != "" {
			p.Title.Text += "\n"
		}
		p.Title.Text += cfg.Subtitle.Text
	}
	p.X.Label.Text = axisTitle(cfg.XAxis)
	p.Y.Label.Text = axisTitle(cfg.YAxis)

	p.X.Tick.Label.Rotation = clockwise(cfg.XAxis.Labels.Rotation)
	p.Y.Tick.Label.Rotation = clockwise(cfg.YAxis.Labels.Rotation)

	p.Legend.Top = cfg.Legend.VerticalAlign == "top"
	p.Legend.Left = cfg.Legend.Align == "left"

	if w := cfg.XAxis.GridLineWidth; w == nil || *w > 0 {
		p.Add(plotter.NewGrid())
	}
	return p
}

// finishPlot gives an empty plot a unit range so it still draws.
func finishPlot(p *plot.Plot, points int) {
	if points > 0 {
		return
	}
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
}

func axisTitle(a engine.Axis) string {
	title := ""
	if a.Title != nil {
		title = a.Title.Text
	}
	if a.Unit != "" {
		if title == "" {
			return a.Unit
		}
		return title + " (" + a.Unit + ")"
	}
	return title
}

// clockwise converts clockwise degrees to gonum's counter-clockwise radians.
func clockwise(d int) float64 {
	return -float64(d) * math.Pi / 180
}

func seriesColor(i int) color.Color {
	return plotutil.Color(i)
}
