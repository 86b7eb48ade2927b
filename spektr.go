// Package spektr turns tabular query results into scatter and bubble chart
// series plus a charting-library-agnostic chart configuration.
//
// Usage:
//
//	import "github.com/spektr-org/spektr-scatter/engine"
//
//	result := engine.Render(engine.RenderRequest{
//	    Chart:     "scatter",
//	    Parameter: map[string]any{"mainTitle": "Price by year"},
//	    Column: engine.ColumnConfig{
//	        XAxis: []engine.Column{{Name: "year"}},
//	        YAxis: []engine.Column{{Name: "price", Aggr: "avg"}},
//	    },
//	}, view, engine.WithLogger(logger))
//
// The view is any engine.RecordView; the helpers package loads one from CSV,
// XLSX or a SQLite query. Render never fails outright: a chart that lacks
// required axes comes back hidden, and bad input comes back as an error
// result carrying a code and a message.
//
// Series that were already pivoted upstream go through engine.RenderScatter
// and engine.RenderBubble. The preview package draws a static image of a
// rendered configuration.
package spektr
