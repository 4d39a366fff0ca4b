package form

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/fields"
)

// resolveStyles merges manifest tokens with the selected variant's tokens
// and maps them onto field classes.
func resolveStyles(cfg config) (fields.Styles, error) {
	if cfg.selector == nil {
		return fields.DefaultStyles(), nil
	}
	selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
	if err != nil {
		return fields.Styles{}, fmt.Errorf("form: select theme %q/%q: %w", cfg.themeName, cfg.themeVariant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return fields.DefaultStyles(), nil
	}

	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for k, v := range selection.Manifest.Tokens {
		tokens[k] = v
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for k, v := range variant.Tokens {
			tokens[k] = v
		}
	}
	return fields.StylesFromTokens(tokens), nil
}
