package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// PIVOT — Raw rows → transformer contract (ScatterInput / BubbleInput)
// ============================================================================
// Two transform methods:
//
//   array        — one key column; per selector, one aggregate per key value
//   array:2-key  — two key columns; per selector, one record per key pair
//
// A selector is one (category combination × aggregator column). Key values
// are kept as raw strings; parsing them into coordinates is the series
// builders' job, so an unparseable key still occupies its slot here.
// ============================================================================

// Column is a column assigned to a chart axis. Aggr only applies to
// aggregator axes and defaults to sum.
type Column struct {
	Name string `json:"name" toml:"name"`
	Aggr string `json:"aggr,omitempty" toml:"aggr"`
}

// ColumnConfig assigns table columns to chart axes. Which axes are keys,
// aggregators or groups depends on the chart (see schema.ChartSpec).
type ColumnConfig struct {
	XAxis    []Column `json:"xAxis,omitempty" toml:"xAxis"`
	YAxis    []Column `json:"yAxis,omitempty" toml:"yAxis"`
	ZAxis    []Column `json:"zAxis,omitempty" toml:"zAxis"`
	Category []Column `json:"category,omitempty" toml:"category"`
}

// Axis returns the columns assigned to the named axis.
func (c ColumnConfig) Axis(name string) []Column {
	switch name {
	case "xAxis":
		return c.XAxis
	case "yAxis":
		return c.YAxis
	case "zAxis":
		return c.ZAxis
	case "category":
		return c.Category
	}
	return nil
}

// PivotScatter applies the "array" transform.
func PivotScatter(view RecordView, key string, aggregators []Column, groups []string) ScatterInput {
	keyNames := UniqueValues(view, key)
	keyIndex := make(map[string]int, len(keyNames))
	for i, k := range keyNames {
		keyIndex[k] = i
	}

	in := ScatterInput{KeyNames: keyNames, Rows: []ScatterRow{}, Selectors: []string{}}
	names := selectorNames{}
	if keyNames == nil {
		in.KeyNames = []string{}
	}

	for _, g := range GroupBy(view, groups) {
		byKey := GroupBy(g.View, []string{key})
		for _, a := range aggregators {
			aggr, _ := NormalizeAggregation(a.Aggr)
			selector := names.unique(selectorName(g, len(groups) > 0, a, aggr, len(aggregators)))

			values := make([]any, len(keyNames))
			for _, kg := range byKey {
				if v, ok := Aggregate(kg.View, a.Name, aggr); ok {
					values[keyIndex[kg.Values[0]]] = v
				}
			}

			in.Selectors = append(in.Selectors, selector)
			in.Rows = append(in.Rows, ScatterRow{Selector: selector, Value: values})
		}
	}

	return in
}

// PivotBubble applies the "array:2-key" transform.
func PivotBubble(view RecordView, key1, key2 string, aggregators []Column, groups []string) BubbleInput {
	in := BubbleInput{Rows: []BubbleRow{}, Selectors: []string{}}
	names := selectorNames{}

	for _, g := range GroupBy(view, groups) {
		byPair := GroupBy(g.View, []string{key1, key2})
		for _, a := range aggregators {
			aggr, _ := NormalizeAggregation(a.Aggr)
			selector := names.unique(selectorName(g, len(groups) > 0, a, aggr, len(aggregators)))

			records := make([]BubbleRecord, 0, len(byPair))
			for _, pg := range byPair {
				rec := BubbleRecord{Key1: pg.Values[0], Key2: pg.Values[1]}
				if v, ok := Aggregate(pg.View, a.Name, aggr); ok {
					rec.Aggregated = v
				}
				records = append(records, rec)
			}

			in.Selectors = append(in.Selectors, selector)
			in.Rows = append(in.Rows, BubbleRow{Selector: selector, Value: records})
		}
	}

	return in
}

// selectorName: "price(sum)" without categories, the category label with a
// single aggregator, "label / price(sum)" otherwise.
func selectorName(g Group, grouped bool, a Column, aggr string, aggregatorCount int) string {
	col := LabelForAggregator(a.Name, aggr)
	if !grouped {
		return col
	}
	label := strings.Join(g.Values, ".")
	if aggregatorCount == 1 {
		return label
	}
	return label + " / " + col
}

// selectorNames keeps selectors distinct. Category values may themselves
// contain ".", so ("a.b", "c") and ("a", "b.c") share a label; repeats get
// " (2)", " (3)" and so on.
type selectorNames map[string]int

func (s selectorNames) unique(name string) string {
	s[name]++
	if s[name] == 1 {
		return name
	}
	for n := s[name]; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if s[candidate] == 0 {
			s[candidate]++
			return candidate
		}
	}
}
