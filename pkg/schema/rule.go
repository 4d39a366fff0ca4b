package schema

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

// CheckFunc reports whether value is acceptable. values holds the whole
// form so cross-field rules can look at siblings.
type CheckFunc func(value any, values map[string]any) bool

// Rule is a single named validation constraint with its failure message.
type Rule struct {
	kind      string
	message   string
	skipEmpty bool
	check     CheckFunc
}

// Custom builds a rule from an arbitrary check. Empty values are passed to
// check unchanged.
func Custom(kind, message string, check CheckFunc) Rule {
	return Rule{kind: kind, message: message, check: check}
}

// Kind identifies the rule ("email", "minLength", ...).
func (r Rule) Kind() string {
	return r.kind
}

// Message is the text reported when the rule fails.
func (r Rule) Message() string {
	return r.message
}

// WithMessage returns a copy of r reporting msg instead.
func (r Rule) WithMessage(msg string) Rule {
	r.message = msg
	return r
}

// Check runs the rule, returning the failure message and false when value
// is rejected.
func (r Rule) Check(value any, values map[string]any) (string, bool) {
	if r.check == nil {
		return "", true
	}
	if r.skipEmpty && IsEmpty(value) {
		return "", true
	}
	if r.check(value, values) {
		return "", true
	}
	return r.message, false
}

// StateRule adapts r for registration with a state.Controller.
func (r Rule) StateRule() state.Rule {
	return func(value any, values map[string]any) string {
		msg, _ := r.Check(value, values)
		return msg
	}
}

// IsEmpty reports whether value counts as "not provided": nil, blank
// strings, false, and empty collections.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case []string:
		return len(v) == 0
	case []model.File:
		return len(v) == 0
	case model.File:
		return v.Name == "" && v.Size == 0
	case []any:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine returns the shared validator instance with the custom tags used
// by this package registered.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		engine = v
	})
	return engine
}

func tagRule(kind, tag, message string) Rule {
	return Rule{
		kind:      kind,
		message:   message,
		skipEmpty: true,
		check: func(value any, _ map[string]any) bool {
			return varOK(value, tag)
		},
	}
}

// varOK runs a validator tag against value. The validator panics on
// unsupported kinds; those values are treated as invalid.
func varOK(value any, tag string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return Engine().Var(value, tag) == nil
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

func trimmed(value any) string {
	s, _ := stringValue(value)
	return strings.TrimSpace(s)
}
