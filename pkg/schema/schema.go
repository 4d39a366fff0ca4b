package schema

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Fields maps a field name to the rules applied to its value, in order.
type Fields map[string][]Rule

// Refinement is a form-level check whose failure is reported on Path.
type Refinement struct {
	Path    string
	Message string
	Check   func(values map[string]any) bool
}

// Schema validates a complete form value map. The zero value accepts
// everything. Schemas are immutable; Merge and Refine return copies.
type Schema struct {
	fields      Fields
	refinements []Refinement
}

// Object builds a schema from per-field rules.
func Object(fields Fields, refinements ...Refinement) Schema {
	s := Schema{fields: make(Fields, len(fields))}
	for name, rules := range fields {
		s.fields[name] = append([]Rule(nil), rules...)
	}
	s.refinements = append(s.refinements, refinements...)
	return s
}

// Names returns the constrained field names, sorted.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules returns the rules declared for name.
func (s Schema) Rules(name string) []Rule {
	return append([]Rule(nil), s.fields[name]...)
}

// Merge returns a schema holding the rules of both. Rules declared for the
// same field in other are appended after those of s.
func (s Schema) Merge(other Schema) Schema {
	merged := Object(s.fields, s.refinements...)
	for name, rules := range other.fields {
		merged.fields[name] = append(merged.fields[name], rules...)
	}
	merged.refinements = append(merged.refinements, other.refinements...)
	return merged
}

// Refine returns a copy of s with a form-level check added.
func (s Schema) Refine(path, message string, check func(values map[string]any) bool) Schema {
	refined := Object(s.fields, s.refinements...)
	refined.refinements = append(refined.refinements, Refinement{Path: path, Message: message, Check: check})
	return refined
}

// Validate returns the first failing rule message per field, or nil when
// values satisfy the schema. Refinements only report on fields that have
// no rule error yet.
func (s Schema) Validate(values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, name := range s.Names() {
		value := values[name]
		for _, rule := range s.fields[name] {
			if msg, ok := rule.Check(value, values); !ok {
				errs[name] = msg
				break
			}
		}
	}
	for _, ref := range s.refinements {
		if ref.Check == nil {
			continue
		}
		if _, failed := errs[ref.Path]; failed {
			continue
		}
		if !ref.Check(values) {
			errs[ref.Path] = ref.Message
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Result is the outcome of Check.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// Check is Validate with an explicit success flag.
func (s Schema) Check(values map[string]any) Result {
	errs := s.Validate(values)
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// EqualsField requires the value to equal the value of the other field.
func EqualsField(other, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("Must match %s", model.HumanizeName(other))
	}
	return Custom("equals", message, func(value any, values map[string]any) bool {
		return equalValues(value, values[other])
	})
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return IsEmpty(a) && IsEmpty(b)
	}
	defer func() { _ = recover() }()
	return Engine().VarWithValue(a, b, "eqfield") == nil
}

// FromFields builds the schema implied by field configuration alone:
// required fields must be non-empty, everything else is optional.
func FromFields(fields []model.FieldConfig) Schema {
	out := make(Fields, len(fields))
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		if field.Required {
			out[field.Name] = []Rule{RequiredWithLabel(model.DisplayLabel(field))}
			continue
		}
		out[field.Name] = []Rule{OptionalString()}
	}
	return Object(out)
}
