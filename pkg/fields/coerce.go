package fields

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

func coerceString(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

func coerceStrings(value any) any {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item != "" {
				out = append(out, item)
			}
		}
		return out
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, _ := coerceString(item).(string); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{fmt.Sprint(value)}
}

// coerceBool treats an absent value as false and accepts the strings a
// browser or a definition file may send for a checked box.
func coerceBool(value any) any {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return parseBool(v)
	case []string:
		for _, item := range v {
			if parseBool(item) {
				return true
			}
		}
		return false
	}
	return false
}

func parseBool(raw string) bool {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "on", "yes", "checked":
		return true
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}

func coerceFiles(value any) any {
	switch v := value.(type) {
	case nil:
		return []model.File{}
	case []model.File:
		if v == nil {
			return []model.File{}
		}
		return v
	case model.File:
		return []model.File{v}
	}
	return []model.File{}
}
