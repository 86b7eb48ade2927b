package engine

import "encoding/json"

// ============================================================================
// ENGINE TYPES — Tabular rows in, chart-ready series out
// ============================================================================
// Data flows one way on every render:
//
//   RecordView ──Pivot──▶ ScatterInput / BubbleInput ──Build*Series──▶ series
//                                                       ──Build*Chart──▶ ChartConfig
//
// Nothing here is retained between renders.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row. Every cell is kept as its raw string in
// Dimensions; cells that parse as numbers are also present in Measures.
//
// A key column such as "year" therefore reads as "2024" through Dimension and
// as 2024 through Measure.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// TRANSFORMER CONTRACT — Pivoted input for the series builders
// ============================================================================

// ScatterRow holds the aggregate values of one selector, one per key name.
// Values may be numbers, numeric strings, or nil.
type ScatterRow struct {
	Selector string `json:"selector,omitempty"`
	Value    []any  `json:"value"`
}

// ScatterInput is the "array" transform output: Rows[i] belongs to Selectors[i].
type ScatterInput struct {
	Rows      []ScatterRow `json:"rows"`
	KeyNames  []string     `json:"keyNames"`
	Selectors []string     `json:"selectors"`
}

// BubbleRecord is one (key1, key2) cell of a selector with its aggregate.
type BubbleRecord struct {
	Key1       any `json:"key1"`
	Key2       any `json:"key2"`
	Aggregated any `json:"aggregated"`
}

// BubbleRow holds the key-pair records of one selector.
type BubbleRow struct {
	Selector string         `json:"selector,omitempty"`
	Value    []BubbleRecord `json:"value"`
}

// BubbleInput is the "array:2-key" transform output: Rows[i] belongs to Selectors[i].
type BubbleInput struct {
	Rows      []BubbleRow `json:"rows"`
	Selectors []string    `json:"selectors"`
}

// ============================================================================
// SERIES — Library-agnostic output
// ============================================================================

// ScatterPoint is an (x, y) pair. It encodes as a two-element JSON array.
type ScatterPoint struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as [x, y].
func (p ScatterPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a point from [x, y].
func (p *ScatterPoint) UnmarshalJSON(b []byte) error {
	var xy [2]float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return err
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// ScatterSeries is one named, ordered collection of scatter points.
type ScatterSeries struct {
	Name string         `json:"name"`
	Data []ScatterPoint `json:"data"`
}

// BubblePoint is an (x, y, z) triple; z drives the bubble size.
type BubblePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BubbleSeries is one named, ordered collection of bubble points.
type BubbleSeries struct {
	Name string        `json:"name"`
	Data []BubblePoint `json:"data"`
}

// ============================================================================
// RESULT — Render outcome handed to the host
// ============================================================================

// Result types.
const (
	ResultChart  = "chart"
	ResultHidden = "hidden"
	ResultError  = "error"
)

// HiddenMessage is shown in place of the chart when required axes are unset.
const HiddenMessage = "Please set axes in Settings"

// Result is the engine's render-ready output.
//
// Exactly one of Config or Message is meaningful: Config for Type "chart",
// Message for "hidden" and "error".
type Result struct {
	Success  bool         `json:"success"`
	Type     string       `json:"type"`
	Chart    string       `json:"chart"`
	ChartID  string       `json:"chartId,omitempty"`
	Message  string       `json:"message,omitempty"`
	Code     Code         `json:"code,omitempty"`
	Config   *ChartConfig `json:"config,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`

	Stats *SeriesStats `json:"stats,omitempty"`
}

// SeriesStats summarizes how many candidate points survived coercion.
type SeriesStats struct {
	Series  int `json:"series"`
	Points  int `json:"points"`
	Dropped int `json:"dropped"`
}
