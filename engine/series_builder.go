package engine

// ============================================================================
// SERIES BUILDERS — Pivoted rows → per-selector point arrays
// ============================================================================
// A point is emitted only when every coordinate coerces to a finite number.
// Anything else (unparseable key, missing row, short value slice, nil
// aggregate) silently drops that point. Builders never fail and never mutate
// their input.
// ============================================================================

// BuildScatterSeries turns an "array" transform into one series per selector.
// Series follow selector order; points follow key order.
func BuildScatterSeries(in ScatterInput) []ScatterSeries {
	series, _ := buildScatterSeries(in)
	return series
}

func buildScatterSeries(in ScatterInput) ([]ScatterSeries, int) {
	xs := ParseKeys(in.KeyNames)
	series := make([]ScatterSeries, 0, len(in.Selectors))
	dropped := 0

	for i, selector := range in.Selectors {
		s := ScatterSeries{Name: selector, Data: []ScatterPoint{}}

		var values []any
		if i < len(in.Rows) {
			values = in.Rows[i].Value
		}

		for j, x := range xs {
			if j >= len(values) {
				dropped++
				continue
			}
			y, ok := TryParseNumber(values[j])
			if !x.Valid || !ok {
				dropped++
				continue
			}
			s.Data = append(s.Data, ScatterPoint{X: x.Value, Y: y})
		}

		series = append(series, s)
	}

	return series, dropped
}

// BuildBubbleSeries turns an "array:2-key" transform into one series per
// selector. Series follow selector order; points follow record order.
func BuildBubbleSeries(in BubbleInput) []BubbleSeries {
	series, _ := buildBubbleSeries(in)
	return series
}

func buildBubbleSeries(in BubbleInput) ([]BubbleSeries, int) {
	series := make([]BubbleSeries, 0, len(in.Selectors))
	dropped := 0

	for i, selector := range in.Selectors {
		s := BubbleSeries{Name: selector, Data: []BubblePoint{}}

		if i < len(in.Rows) {
			for _, rec := range in.Rows[i].Value {
				p, ok := bubblePoint(rec)
				if !ok {
					dropped++
					continue
				}
				s.Data = append(s.Data, p)
			}
		}

		series = append(series, s)
	}

	return series, dropped
}

func bubblePoint(rec BubbleRecord) (BubblePoint, bool) {
	x, ok := TryParseNumber(rec.Key1)
	if !ok {
		return BubblePoint{}, false
	}
	y, ok := TryParseNumber(rec.Key2)
	if !ok {
		return BubblePoint{}, false
	}
	z, ok := TryParseNumber(rec.Aggregated)
	if !ok {
		return BubblePoint{}, false
	}
	return BubblePoint{X: x, Y: y, Z: z}, true
}

// ============================================================================
// GRID FORM — key1 × key2 table per selector
// ============================================================================

// BubbleGridRow holds a selector's aggregates indexed as Value[key1][key2].
type BubbleGridRow struct {
	Selector string  `json:"selector,omitempty"`
	Value    [][]any `json:"value"`
}

// BuildBubbleSeriesFromGrid builds bubble series from the 2-D table form,
// where rows[i].Value[x][y] is the aggregate for key1Names[x], key2Names[y].
// Points follow key1-major, key2-minor order. Missing cells are skipped.
func BuildBubbleSeriesFromGrid(rows []BubbleGridRow, key1Names, key2Names, selectors []string) []BubbleSeries {
	xs := ParseKeys(key1Names)
	ys := ParseKeys(key2Names)
	series := make([]BubbleSeries, 0, len(selectors))

	for i, selector := range selectors {
		s := BubbleSeries{Name: selector, Data: []BubblePoint{}}

		var grid [][]any
		if i < len(rows) {
			grid = rows[i].Value
		}

		for xi, x := range xs {
			if xi >= len(grid) || !x.Valid {
				continue
			}
			cells := grid[xi]
			for yi, y := range ys {
				if yi >= len(cells) || !y.Valid {
					continue
				}
				z, ok := TryParseNumber(cells[yi])
				if !ok {
					continue
				}
				s.Data = append(s.Data, BubblePoint{X: x.Value, Y: y.Value, Z: z})
			}
		}

		series = append(series, s)
	}

	return series
}
