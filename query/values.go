package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// toNumber coerces a value the way a loosely typed Number() would: null and
// the empty string become 0, anything unparsable becomes NaN.
func toNumber(v interface{}) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		if !hasDigit(s) {
			return math.NaN()
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return math.NaN()
		}
		return f
	}
}

// hasDigit reports whether s contains an ASCII digit. Spellings such as
// inf or nan parse as floats but are not numbers here.
func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// isNumeric reports whether v holds a numeric field value.
func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}

// stringify renders a value for case-insensitive string comparison.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case float64:
		return formatNumber(val)
	case float32:
		return formatNumber(float64(val))
	default:
		return cast.ToString(val)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
