package model

import (
	"regexp"
	"strings"
	"unicode"
)

var labelSeparators = regexp.MustCompile(`[_\-.\s]+`)

// DisplayLabel returns the configured label or one derived from the field
// name ("confirmPassword" -> "Confirm Password").
func DisplayLabel(cfg FieldConfig) string {
	if label := strings.TrimSpace(cfg.Label); label != "" {
		return label
	}
	return HumanizeName(cfg.Name)
}

// HumanizeName splits a field name on separators and camelCase boundaries
// and title-cases each word.
func HumanizeName(name string) string {
	var words []string
	for _, chunk := range labelSeparators.Split(strings.TrimSpace(name), -1) {
		words = append(words, splitCamelWords(chunk)...)
	}
	for idx, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[idx] = string(runes)
	}
	return strings.Join(words, " ")
}

func splitCamelWords(chunk string) []string {
	if chunk == "" {
		return nil
	}
	runes := []rune(chunk)
	var (
		words []string
		start int
	)
	for idx := 1; idx < len(runes); idx++ {
		prev, cur := runes[idx-1], runes[idx]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if boundary {
			words = append(words, string(runes[start:idx]))
			start = idx
		}
	}
	return append(words, string(runes[start:]))
}
