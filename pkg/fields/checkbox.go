package fields

import (
	"io"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

// CheckboxField renders a single boolean checkbox with an optional
// description under its label.
type CheckboxField struct {
	base
	props model.CheckboxProps
}

// NewCheckbox builds a checkbox renderer.
func NewCheckbox(common Common, props model.CheckboxProps) *CheckboxField {
	return &CheckboxField{base: base{common: common}, props: props}
}

// CheckboxProps returns the type-specific props.
func (f *CheckboxField) CheckboxProps() model.CheckboxProps {
	return f.props
}

// Register adds the field to c. A missing value reads as false.
func (f *CheckboxField) Register(c *state.Controller) error {
	return f.register(c, state.FieldOptions{
		Empty:  false,
		Coerce: coerceBool,
		Rules:  f.common.rules(),
	})
}

// Toggle flips the current value.
func (f *CheckboxField) Toggle() error {
	c, err := f.bound()
	if err != nil {
		return err
	}
	current, _ := c.Value(f.common.Name)
	checked, _ := coerceBool(current).(bool)
	return f.set(!checked)
}

// Render writes the control.
func (f *CheckboxField) Render(w io.Writer, view View) error {
	id := f.common.Name + "-checkbox"
	ch := newChrome(f.common, id, view)
	checked, _ := coerceBool(view.value(f.common.Name)).(bool)

	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(escape(joinClasses(ch.styles.Field, f.props.ClassName)))
	b.WriteString(`" data-field="`)
	b.WriteString(escape(f.common.Name))
	b.WriteString(`">`)
	b.WriteString(`<div class="flex items-start"><div class="flex items-center h-5">`)
	b.WriteString(`<input`)
	writeAttr(&b, "id", id)
	writeAttr(&b, "name", f.common.Name)
	writeAttr(&b, "type", "checkbox")
	writeAttr(&b, "value", "true")
	writeBoolAttr(&b, "checked", checked)
	classes := []string{"h-4 w-4 rounded"}
	if ch.err != "" {
		classes = append(classes, ch.styles.InputError)
	}
	if f.common.Disabled {
		classes = append(classes, ch.styles.InputDisabled)
	}
	writeAttr(&b, "class", joinClasses(classes...))
	ch.writeControlAttrs(&b)
	b.WriteString(`></div>`)

	b.WriteString(`<div class="ml-3 text-sm">`)
	ch.writeLabel(&b, "label", "font-medium text-gray-700 cursor-pointer")
	if desc := sanitizeRich(f.props.Description); desc != "" {
		b.WriteString(`<p class="text-gray-500 mt-1">`)
		b.WriteString(desc)
		b.WriteString(`</p>`)
	}
	b.WriteString(`</div></div>`)
	ch.writeFeedback(&b, "ml-7")
	b.WriteString(`</div>`)
	return flush(w, &b)
}
