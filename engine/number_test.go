package engine

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTryParseNumber(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{10, 10, true},
		{int64(-3), -3, true},
		{uint8(7), 7, true},
		{2.5, 2.5, true},
		{float32(0.5), 0.5, true},
		{0, 0, true},
		{"0", 0, true},
		{"42", 42, true},
		{" 3.14 ", 3.14, true},
		{"-1e3", -1000, true},
		{json.Number("12.5"), 12.5, true},
		{[]byte("8"), 8, true},

		{nil, 0, false},
		{true, 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"x", 0, false},
		{"12abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{[]int{1}, 0, false},
	}

	for _, tt := range tests {
		got, ok := TryParseNumber(tt.in)
		if ok != tt.wantOK {
			t.Errorf("TryParseNumber(%#v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("TryParseNumber(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseKeys(t *testing.T) {
	got := ParseKeys([]string{"1", "x", "0", ""})
	want := []Number{{1, true}, {0, false}, {0, true}, {0, false}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
