package schema

import (
	"fmt"
	"strings"
	"time"
)

var now = time.Now

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses the formats produced by date and datetime-local inputs,
// plus RFC 3339.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PastDate requires a date before now.
func PastDate() Rule {
	return dateRule("pastDate", "Date must be in the past", func(t time.Time) bool {
		return t.Before(now())
	})
}

// FutureDate requires a date after now.
func FutureDate() Rule {
	return dateRule("futureDate", "Date must be in the future", func(t time.Time) bool {
		return t.After(now())
	})
}

// DateRange bounds a date; an empty bound is open. Bounds are inclusive
// and must be in a format ParseDate reads, otherwise every date fails the
// bound. CheckedDateRange reports such bounds instead.
func DateRange(min, max string) []Rule {
	var rules []Rule
	if min != "" {
		lower, ok := ParseDate(min)
		rules = append(rules, dateRule("minDate", fmt.Sprintf("Date must be after %s", min), func(t time.Time) bool {
			return ok && !t.Before(lower)
		}))
	}
	if max != "" {
		upper, ok := ParseDate(max)
		rules = append(rules, dateRule("maxDate", fmt.Sprintf("Date must be before %s", max), func(t time.Time) bool {
			return ok && !t.After(upper)
		}))
	}
	return rules
}

// CheckedDateRange is DateRange for bounds that come from configuration.
func CheckedDateRange(min, max string) ([]Rule, error) {
	for _, bound := range []string{min, max} {
		if bound == "" {
			continue
		}
		if _, ok := ParseDate(bound); !ok {
			return nil, fmt.Errorf("%w: date bound %q", ErrInvalidRuleArgs, bound)
		}
	}
	return DateRange(min, max), nil
}

func dateRule(kind, message string, accept func(time.Time) bool) Rule {
	return Rule{
		kind:      kind,
		message:   message,
		skipEmpty: true,
		check: func(value any, _ map[string]any) bool {
			var t time.Time
			switch v := value.(type) {
			case time.Time:
				t = v
			default:
				s, ok := stringValue(value)
				if !ok {
					return false
				}
				parsed, ok := ParseDate(s)
				if !ok {
					return false
				}
				t = parsed
			}
			return accept(t)
		},
	}
}
