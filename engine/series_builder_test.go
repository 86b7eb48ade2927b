package engine

import (
	"reflect"
	"testing"
)

// ============================================================================
// SCATTER
// ============================================================================

func TestBuildScatterSeriesSkipsUnparseableKey(t *testing.T) {
	in := ScatterInput{
		KeyNames:  []string{"1", "2", "x"},
		Selectors: []string{"s"},
		Rows:      []ScatterRow{{Value: []any{10, 20, 30}}},
	}

	got := BuildScatterSeries(in)
	want := []ScatterSeries{{Name: "s", Data: []ScatterPoint{{1, 10}, {2, 20}}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBuildScatterSeriesMissingAggregate(t *testing.T) {
	in := ScatterInput{
		KeyNames:  []string{"1", "2", "3"},
		Selectors: []string{"a"},
		Rows:      []ScatterRow{{Value: []any{"5", nil, "abc"}}},
	}

	got := BuildScatterSeries(in)
	if len(got) != 1 || len(got[0].Data) != 1 {
		t.Fatalf("want one point, got %+v", got)
	}
	if got[0].Data[0] != (ScatterPoint{1, 5}) {
		t.Errorf("point = %+v, want {1 5}", got[0].Data[0])
	}
}

func TestBuildScatterSeriesZeroIsValid(t *testing.T) {
	in := ScatterInput{
		KeyNames:  []string{"0"},
		Selectors: []string{"a"},
		Rows:      []ScatterRow{{Value: []any{0}}},
	}

	got := BuildScatterSeries(in)
	if len(got[0].Data) != 1 || got[0].Data[0] != (ScatterPoint{0, 0}) {
		t.Errorf("zero point dropped: %+v", got)
	}
}

func TestBuildScatterSeriesOrderAndShortRows(t *testing.T) {
	in := ScatterInput{
		KeyNames:  []string{"3", "1", "2"},
		Selectors: []string{"b", "a", "missing"},
		Rows: []ScatterRow{
			{Value: []any{30, 10, 20}},
			{Value: []any{1}},
		},
	}

	got, dropped := buildScatterSeries(in)
	if len(got) != 3 {
		t.Fatalf("series = %d, want 3", len(got))
	}
	for i, name := range []string{"b", "a", "missing"} {
		if got[i].Name != name {
			t.Errorf("series %d = %q, want %q", i, got[i].Name, name)
		}
	}
	// Points keep key order, not numeric order.
	if want := []ScatterPoint{{3, 30}, {1, 10}, {2, 20}}; !reflect.DeepEqual(got[0].Data, want) {
		t.Errorf("b data = %+v, want %+v", got[0].Data, want)
	}
	if want := []ScatterPoint{{3, 1}}; !reflect.DeepEqual(got[1].Data, want) {
		t.Errorf("a data = %+v, want %+v", got[1].Data, want)
	}
	if got[2].Data == nil || len(got[2].Data) != 0 {
		t.Errorf("missing row should give an empty, non-nil series: %+v", got[2])
	}
	if dropped != 5 {
		t.Errorf("dropped = %d, want 5", dropped)
	}
}

func TestBuildScatterSeriesEmpty(t *testing.T) {
	if got := BuildScatterSeries(ScatterInput{}); len(got) != 0 {
		t.Errorf("empty selectors: got %+v", got)
	}

	got := BuildScatterSeries(ScatterInput{Selectors: []string{"a"}, Rows: []ScatterRow{{}}})
	if len(got) != 1 || len(got[0].Data) != 0 {
		t.Errorf("empty keys: got %+v", got)
	}
}

func TestBuildScatterSeriesIdempotent(t *testing.T) {
	in := ScatterInput{
		KeyNames:  []string{"1", "2"},
		Selectors: []string{"a", "b"},
		Rows:      []ScatterRow{{Value: []any{1, "2"}}, {Value: []any{nil, 4.5}}},
	}
	before := reflect.ValueOf(in.Rows[0].Value).Pointer()

	first := BuildScatterSeries(in)
	second := BuildScatterSeries(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("outputs differ: %+v vs %+v", first, second)
	}
	if reflect.ValueOf(in.Rows[0].Value).Pointer() != before || in.Rows[0].Value[1] != "2" {
		t.Error("input was mutated")
	}
}

// ============================================================================
// BUBBLE
// ============================================================================

func TestBuildBubbleSeriesSkipsUnparseable(t *testing.T) {
	in := BubbleInput{
		Selectors: []string{"s"},
		Rows: []BubbleRow{{Value: []BubbleRecord{
			{Key1: 1, Key2: 2, Aggregated: "5"},
			{Key1: "a", Key2: 2, Aggregated: "5"},
		}}},
	}

	got := BuildBubbleSeries(in)
	want := []BubbleSeries{{Name: "s", Data: []BubblePoint{{X: 1, Y: 2, Z: 5}}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBuildBubbleSeriesZeroAndNil(t *testing.T) {
	in := BubbleInput{
		Selectors: []string{"s"},
		Rows: []BubbleRow{{Value: []BubbleRecord{
			{Key1: 0, Key2: "0", Aggregated: 0},
			{Key1: 1, Key2: 1, Aggregated: nil},
			{Key1: 1, Key2: nil, Aggregated: 3},
		}}},
	}

	got, dropped := buildBubbleSeries(in)
	if want := []BubblePoint{{0, 0, 0}}; !reflect.DeepEqual(got[0].Data, want) {
		t.Errorf("data = %+v, want %+v", got[0].Data, want)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
}

func TestBuildBubbleSeriesMissingRow(t *testing.T) {
	in := BubbleInput{Selectors: []string{"a", "b"}, Rows: []BubbleRow{{Value: []BubbleRecord{{1, 1, 1}}}}}

	got := BuildBubbleSeries(in)
	if len(got) != 2 || got[1].Name != "b" || len(got[1].Data) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestBuildBubbleSeriesFromGrid(t *testing.T) {
	rows := []BubbleGridRow{{Value: [][]any{
		{1, nil},
		{"3", 4},
		{5, 6}, // key1 "x" is skipped
	}}}

	got := BuildBubbleSeriesFromGrid(rows, []string{"10", "20", "x"}, []string{"1", "2"}, []string{"s"})
	want := []BubblePoint{{10, 1, 1}, {20, 1, 3}, {20, 2, 4}}
	if len(got) != 1 || !reflect.DeepEqual(got[0].Data, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
