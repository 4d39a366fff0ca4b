package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Positive requires a number greater than zero.
func Positive() Rule {
	return numberRule("positive", "gt=0", "Must be a positive number")
}

// NonNegative requires a number greater than or equal to zero.
func NonNegative() Rule {
	return numberRule("nonNegative", "gte=0", "Must be zero or positive")
}

// Min requires a number of at least n.
func Min(n float64) Rule {
	return numberRule("min", "gte="+formatNumber(n), fmt.Sprintf("Must be at least %s", formatNumber(n)))
}

// Max requires a number of at most n.
func Max(n float64) Rule {
	return numberRule("max", "lte="+formatNumber(n), fmt.Sprintf("Must be at most %s", formatNumber(n)))
}

// Range bounds a number on both sides.
func Range(min, max float64) []Rule {
	return []Rule{Min(min), Max(max)}
}

func numberRule(kind, tag, message string) Rule {
	return Rule{
		kind:      kind,
		message:   message,
		skipEmpty: true,
		check: func(value any, _ map[string]any) bool {
			n, ok := toNumber(value)
			if !ok {
				return false
			}
			return varOK(n, tag)
		},
	}
}

// toNumber accepts Go numeric types and numeric strings, the latter being
// what HTML forms submit.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
