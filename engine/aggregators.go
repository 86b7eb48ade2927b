package engine

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping and Aggregation via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// Aggregates report false when no record carries a numeric value, so an empty
// pivot cell stays absent instead of becoming a zero.
// ============================================================================

// Aggregation names accepted on aggregator columns.
const (
	AggrSum   = "sum"
	AggrCount = "count"
	AggrAvg   = "avg"
	AggrMin   = "min"
	AggrMax   = "max"
)

// Aggregations lists the supported aggregations; the first is the default.
var Aggregations = []string{AggrSum, AggrCount, AggrAvg, AggrMin, AggrMax}

// NormalizeAggregation lower-cases aggr and maps "" to sum.
// It reports false for unknown names.
func NormalizeAggregation(aggr string) (string, bool) {
	a := strings.ToLower(strings.TrimSpace(aggr))
	if a == "" {
		return AggrSum, true
	}
	if a == "average" || a == "mean" {
		return AggrAvg, true
	}
	for _, known := range Aggregations {
		if a == known {
			return a, true
		}
	}
	return "", false
}

// Aggregate folds measure over view with the named aggregation.
func Aggregate(view RecordView, measure, aggregation string) (float64, bool) {
	switch aggregation {
	case AggrCount:
		if view.Len() == 0 {
			return 0, false
		}
		return float64(view.Len()), true
	case AggrAvg:
		return AvgMeasure(view, measure)
	case AggrMin:
		return MinMeasure(view, measure)
	case AggrMax:
		return MaxMeasure(view, measure)
	default:
		return SumMeasure(view, measure)
	}
}

// SumMeasure sums the numeric cells of measure.
func SumMeasure(view RecordView, measure string) (float64, bool) {
	var sum float64
	found := false
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			sum += v
			found = true
		}
	}
	return sum, found
}

// AvgMeasure averages the numeric cells of measure.
func AvgMeasure(view RecordView, measure string) (float64, bool) {
	var sum float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// MaxMeasure returns the largest numeric cell of measure.
func MaxMeasure(view RecordView, measure string) (float64, bool) {
	best := math.Inf(-1)
	found := false
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok && v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// MinMeasure returns the smallest numeric cell of measure.
func MinMeasure(view RecordView, measure string) (float64, bool) {
	best := math.Inf(1)
	found := false
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok && v < best {
			best = v
			found = true
		}
	}
	return best, found
}

// ============================================================================
// GROUPING
// ============================================================================

// Group is a set of records sharing the same values on some columns.
type Group struct {
	Key    string     // joined dimension values, unique within a grouping
	Values []string   // one value per grouped column
	View   RecordView // records in this group (zero-copy)
}

// groupSep never appears in CSV-derived cell text, so joined keys are unique.
const groupSep = "\x1f"

// GroupBy partitions view by the given columns, preserving first-seen order.
// With no columns the whole view is returned as a single group.
func GroupBy(view RecordView, columns []string) []Group {
	if len(columns) == 0 {
		return []Group{{Key: "", View: view}}
	}

	grouped := make(map[string][]int)
	values := make(map[string][]string)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		vals := make([]string, len(columns))
		for c, col := range columns {
			vals[c] = view.Dimension(i, col)
		}
		key := strings.Join(vals, groupSep)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
			values[key] = vals
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:    key,
			Values: values[key],
			View:   newSubView(view, grouped[key]),
		})
	}
	return groups
}

// UniqueValues returns the distinct values of a column in first-seen order.
func UniqueValues(view RecordView, column string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < view.Len(); i++ {
		v := view.Dimension(i, column)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// LABELS
// ============================================================================

// LabelForAggregator names an aggregator column the way selectors show it,
// e.g. "price(avg)".
func LabelForAggregator(column, aggregation string) string {
	return column + "(" + aggregation + ")"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
