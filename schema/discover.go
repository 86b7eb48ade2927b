package schema

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification and axis suggestion
// ============================================================================
// Inspects a table and classifies each column:
//   numeric     — every non-null cell parses as a number → key or aggregator
//   categorical — text with few distinct values          → category
//   text        — everything else (IDs, free text)       → unused
//
// Suggest then fills a chart's axes from the classified columns so a table
// can be plotted without explicit axis flags.
// ============================================================================

// Table is the read access discovery needs; engine.RecordView satisfies it.
type Table interface {
	Len() int
	Dimension(index int, key string) string
	DimensionKeys() []string
}

// Column kinds.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
	KindText        = "text"
	KindEmpty       = "empty"
)

// maxCategories caps how many distinct values a category column may have.
const maxCategories = 20

// ColumnInfo describes one discovered column.
type ColumnInfo struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"displayName"`
	Kind         string   `json:"kind"`
	UniqueCount  int      `json:"uniqueCount"`
	NullCount    int      `json:"nullCount"`
	SampleValues []string `json:"sampleValues"`
}

// DiscoverColumns classifies every column of t, in column order.
func DiscoverColumns(t Table) []ColumnInfo {
	keys := t.DimensionKeys()
	out := make([]ColumnInfo, 0, len(keys))
	for _, key := range keys {
		out = append(out, analyzeColumn(t, key))
	}
	return out
}

func analyzeColumn(t Table, key string) ColumnInfo {
	col := ColumnInfo{Name: key, DisplayName: toDisplayName(key)}

	uniqueSet := make(map[string]bool)
	numeric := 0
	values := 0

	for i := 0; i < t.Len(); i++ {
		val := strings.TrimSpace(t.Dimension(i, key))
		if isNull(val) {
			col.NullCount++
			continue
		}
		values++
		uniqueSet[val] = true
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			numeric++
		}
	}

	col.UniqueCount = len(uniqueSet)
	col.SampleValues = collectSamples(uniqueSet, 5)

	switch {
	case values == 0:
		col.Kind = KindEmpty
	case numeric == values:
		col.Kind = KindNumeric
	case col.UniqueCount <= maxCategories && col.UniqueCount < values:
		col.Kind = KindCategorical
	default:
		col.Kind = KindText
	}
	return col
}

func isNull(v string) bool {
	switch v {
	case "", "null", "NULL", "N/A", "n/a", "NaN":
		return true
	}
	return false
}

// Assignment maps axis names to column names.
type Assignment map[string][]string

// Suggest assigns discovered columns to the axes of spec.
//
// Key axes take numeric columns in order, then aggregator axes take the next
// numeric column, and the first categorical column becomes the category.
// Axes that cannot be filled stay empty; rendering then reports them unset.
func Suggest(spec ChartSpec, columns []ColumnInfo) Assignment {
	var numeric, categorical []string
	for _, c := range columns {
		switch c.Kind {
		case KindNumeric:
			numeric = append(numeric, c.Name)
		case KindCategorical:
			categorical = append(categorical, c.Name)
		}
	}

	out := Assignment{}
	next := 0
	take := func() (string, bool) {
		if next >= len(numeric) {
			return "", false
		}
		next++
		return numeric[next-1], true
	}

	for _, axis := range spec.Axes {
		if axis.Type != AxisKey {
			continue
		}
		if name, ok := take(); ok {
			out[axis.Name] = []string{name}
		}
	}
	for _, axis := range spec.Axes {
		if axis.Type != AxisAggregator {
			continue
		}
		if name, ok := take(); ok {
			out[axis.Name] = []string{name}
		}
	}
	for _, axis := range spec.Axes {
		if axis.Type == AxisGroup && len(categorical) > 0 {
			out[axis.Name] = []string{categorical[0]}
			break
		}
	}
	return out
}

// MissingAxes lists the axes of spec whose assigned column count is below
// MinAxisCount.
func MissingAxes(spec ChartSpec, counts map[string]int) []string {
	var missing []string
	for _, a := range spec.Axes {
		if counts[a.Name] < a.MinAxisCount {
			missing = append(missing, a.Name)
		}
	}
	return missing
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toDisplayName cleans a header for human display.
// "unit_price" → "Unit Price"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values, sorted for deterministic output.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
