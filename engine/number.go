package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// TryParseNumber coerces v to a finite float64.
//
// Numbers pass through; strings and json.Number are parsed after trimming
// whitespace. Everything else (nil, bool, empty or non-numeric strings, NaN,
// ±Inf) reports false. Zero is a valid value.
func TryParseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		return parseNumberString(string(n))
	case string:
		return parseNumberString(n)
	case []byte:
		return parseNumberString(string(n))
	default:
		return 0, false
	}
	return f, isFinite(f)
}

func parseNumberString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, isFinite(f)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Number is an optional numeric coordinate.
type Number struct {
	Value float64
	Valid bool
}

// ParseKeys parses axis-key labels once so builders can reuse them per selector.
func ParseKeys(keys []string) []Number {
	out := make([]Number, len(keys))
	for i, k := range keys {
		v, ok := TryParseNumber(k)
		out[i] = Number{Value: v, Valid: ok}
	}
	return out
}
