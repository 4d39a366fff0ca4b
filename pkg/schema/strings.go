package schema

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var phonePattern = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)

// Required rejects empty values (see IsEmpty).
func Required() Rule {
	return Custom("required", "This field is required", func(value any, _ map[string]any) bool {
		return !IsEmpty(value)
	})
}

// RequiredWithLabel is Required reporting "<label> is required".
func RequiredWithLabel(label string) Rule {
	return Required().WithMessage(fmt.Sprintf("%s is required", label))
}

// OptionalString accepts any value; it documents that a field is part of
// the schema without constraining it.
func OptionalString() Rule {
	return Rule{kind: "optional"}
}

// Email validates an email address.
func Email() Rule {
	return tagRule("email", "email", "Please enter a valid email address")
}

// URL validates an absolute URL.
func URL() Rule {
	return tagRule("url", "url", "Please enter a valid URL")
}

// Phone validates an international phone number: optional leading plus,
// no leading zero, at most 16 digits.
func Phone() Rule {
	return tagRule("phone", "phone", "Please enter a valid phone number")
}

// Password requires at least min characters; min <= 0 means 8.
func Password(min int) Rule {
	if min <= 0 {
		min = 8
	}
	return tagRule("password", fmt.Sprintf("min=%d", min),
		fmt.Sprintf("Password must be at least %d characters long", min))
}

// MinLength requires at least n characters.
func MinLength(n int) Rule {
	return tagRule("minLength", fmt.Sprintf("min=%d", n),
		fmt.Sprintf("Must be at least %d characters", n))
}

// MaxLength allows at most n characters. Unlike the format rules it also
// runs on empty values, which always pass.
func MaxLength(n int) Rule {
	return Custom("maxLength", fmt.Sprintf("Maximum %d characters allowed", n), func(value any, _ map[string]any) bool {
		s, ok := stringValue(value)
		if !ok {
			return true
		}
		return utf8.RuneCountInString(s) <= n
	})
}

// Pattern requires the value to match expr. It panics on an invalid
// expression, like regexp.MustCompile.
func Pattern(expr, message string) Rule {
	re := regexp.MustCompile(expr)
	if message == "" {
		message = "Invalid format"
	}
	return Rule{
		kind:      "pattern",
		message:   message,
		skipEmpty: true,
		check: func(value any, _ map[string]any) bool {
			s, ok := stringValue(value)
			return ok && re.MatchString(s)
		},
	}
}

// RequiredIf behaves like Required only when cond holds for the form
// values. An empty message means "This field is required".
func RequiredIf(cond func(values map[string]any) bool, message string) Rule {
	if message == "" {
		message = "This field is required"
	}
	return Custom("requiredIf", message, func(value any, values map[string]any) bool {
		if cond != nil && !cond(values) {
			return true
		}
		return !IsEmpty(value)
	})
}
