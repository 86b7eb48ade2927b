package engine

import "sort"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns consumer data. It reads through this interface.
//
// Implementations:
//   SliceView      — wraps []Record (CSV, XLSX, SQLite sources)
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   SubView        — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a dataset.
// Pivoting calls Dimension/Measure in tight loops; keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	// Measure reports false when the cell is absent or not numeric.
	Measure(index int, key string) (float64, bool)
	DimensionKeys() []string // available column keys, in source order
	MeasureKeys() []string   // columns holding at least one numeric cell
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from a []Record slice.
func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys(nil)
	return v
}

// NewOrderedSliceView is NewSliceView with an explicit column order,
// typically the source header row.
func NewOrderedSliceView(records []Record, columns []string) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys(columns)
	return v
}

func (v *SliceView) cacheKeys(columns []string) {
	dimSeen := make(map[string]bool)
	for _, c := range columns {
		if !dimSeen[c] {
			dimSeen[c] = true
			v.dimKeys = append(v.dimKeys, c)
		}
	}

	// Columns missing from the header follow it, sorted so output is deterministic.
	var extra []string
	mesSeen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			if !dimSeen[k] {
				dimSeen[k] = true
				extra = append(extra, k)
			}
		}
		for k := range r.Measures {
			if !dimSeen[k] {
				dimSeen[k] = true
				extra = append(extra, k)
			}
			mesSeen[k] = true
		}
	}
	sort.Strings(extra)
	v.dimKeys = append(v.dimKeys, extra...)

	for _, k := range v.dimKeys {
		if mesSeen[k] {
			v.mesKeys = append(v.mesKeys, k)
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	r := v.records[i]
	if d, ok := r.Dimensions[key]; ok {
		return d
	}
	if f, ok := r.Measures[key]; ok {
		return formatFloat(f)
	}
	return ""
}

func (v *SliceView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.records) {
		return 0, false
	}
	f, ok := v.records[i].Measures[key]
	return f, ok
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Sample]().
//	    Dimension("year", func(s Sample) string { return strconv.Itoa(s.Year) }).
//	    Measure("price", func(s Sample) (float64, bool) { return s.Price, true })
//
//	view := adapter.Bind(samples)
//	result := engine.Render(req, view, opts...)
//
// Measure columns are also readable as dimensions, formatted with %g, so a
// numeric field can serve as an axis key.
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) (float64, bool)),
	}
}

// Dimension registers a string column accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a numeric column accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) (float64, bool)) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy: holds a reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	keys := append([]string(nil), a.dimOrder...)
	for _, k := range a.mesOrder {
		if _, dup := a.dims[k]; !dup {
			keys = append(keys, k)
		}
	}
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  keys,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	if fn, ok := v.meas[key]; ok {
		if f, ok := fn(v.data[i]); ok {
			return formatFloat(f)
		}
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.data) {
		return 0, false
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	if fn, ok := v.dims[key]; ok {
		return TryParseNumber(fn(v.data[i]))
	}
	return 0, false
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }
