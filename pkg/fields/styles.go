package fields

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Class tokens understood by StylesFromTokens.
const (
	TokenField         = "form-field"
	TokenLabel         = "form-label"
	TokenInput         = "form-input"
	TokenError         = "form-error"
	TokenInputError    = "form-input-error"
	TokenInputDisabled = "form-input-disabled"
	TokenHelp          = "form-help"
	TokenCounter       = "form-counter"
	TokenRequired      = "form-required"
)

// Styles holds the class names applied to field chrome.
type Styles struct {
	Field         string
	Label         string
	Input         string
	Error         string
	InputError    string
	InputDisabled string
	Help          string
	Counter       string
	Required      string
}

// DefaultStyles returns the stock class names.
func DefaultStyles() Styles {
	return Styles{
		Field:         TokenField,
		Label:         TokenLabel,
		Input:         TokenInput,
		Error:         TokenError,
		InputError:    TokenInputError,
		InputDisabled: TokenInputDisabled,
		Help:          TokenHelp,
		Counter:       TokenCounter,
		Required:      "text-red-500 ml-1",
	}
}

// StylesFromTokens overrides the defaults with theme tokens keyed by the
// Token* names. Blank tokens are ignored.
func StylesFromTokens(tokens map[string]string) Styles {
	styles := DefaultStyles()
	for key, slot := range map[string]*string{
		TokenField:         &styles.Field,
		TokenLabel:         &styles.Label,
		TokenInput:         &styles.Input,
		TokenError:         &styles.Error,
		TokenInputError:    &styles.InputError,
		TokenInputDisabled: &styles.InputDisabled,
		TokenHelp:          &styles.Help,
		TokenCounter:       &styles.Counter,
		TokenRequired:      &styles.Required,
	} {
		if value := strings.TrimSpace(tokens[key]); value != "" {
			*slot = value
		}
	}
	return styles
}

func (s Styles) withDefaults() Styles {
	if s == (Styles{}) {
		return DefaultStyles()
	}
	return s
}

var requiredRule = schema.Required().StateRule()

var (
	richPolicyOnce sync.Once
	richPolicy     *bluemonday.Policy
)

// sanitizeRich keeps simple inline formatting and links in helper text and
// descriptions and strips everything else.
func sanitizeRich(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(richSanitizer().Sanitize(trimmed))
}

func richSanitizer() *bluemonday.Policy {
	richPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br", "small")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		richPolicy = policy
	})
	return richPolicy
}
