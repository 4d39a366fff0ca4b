package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ErrorMapping splits a server error payload into per-field messages and
// form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// First returns the first message for each field, the shape the form
// controller stores.
func (m ErrorMapping) First() map[string]string {
	if len(m.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Fields))
	for name, messages := range m.Fields {
		if len(messages) > 0 {
			out[name] = messages[0]
		}
	}
	return out
}

// MapErrorPayload assigns each payload key to a configured field. Keys may
// be plain names or paths such as JSON pointers ("/body/email"), dotted
// paths ("data.email") or indexed paths ("tags[0]"); wrapper segments and
// indexes are skipped. Keys that match no field become form-level messages.
func MapErrorPayload(fields []model.FieldConfig, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	names := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			names[name] = struct{}{}
		}
	}

	for key, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		if name := matchField(key, names); name != "" {
			mapping.Fields[name] = append(mapping.Fields[name], messages...)
			continue
		}
		mapping.Form = append(mapping.Form, messages...)
	}

	for name, messages := range mapping.Fields {
		mapping.Fields[name] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming blanks and
// duplicates while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return normalizeMessages(append(append([]string(nil), existing...), extras...))
}

func matchField(key string, names map[string]struct{}) string {
	if isFormLevelKey(key) {
		return ""
	}
	for _, segment := range pathSegments(key) {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if _, ok := names[segment]; ok {
			return segment
		}
		if isWrapper(segment) {
			continue
		}
		// The first meaningful segment decides; nested paths under an
		// unknown parent are not fields of this form.
		return ""
	}
	return ""
}

func pathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

func isWrapper(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data", "attributes", "fields":
		return true
	}
	return false
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	}
	return false
}

func normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		if _, dup := seen[message]; dup {
			continue
		}
		seen[message] = struct{}{}
		out = append(out, message)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
