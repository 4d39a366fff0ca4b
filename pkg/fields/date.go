package fields

import (
	"io"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

// DateField renders date, datetime-local and time inputs.
type DateField struct {
	base
	props model.DateProps
}

// NewDate builds a date renderer. The input type defaults to date.
func NewDate(common Common, props model.DateProps) *DateField {
	if props.InputType == "" {
		props.InputType = "date"
	}
	return &DateField{base: base{common: common}, props: props}
}

// DateProps returns the type-specific props.
func (f *DateField) DateProps() model.DateProps {
	return f.props
}

// Register adds the field to c.
func (f *DateField) Register(c *state.Controller) error {
	return f.register(c, state.FieldOptions{
		Empty:  "",
		Coerce: coerceString,
		Rules:  f.common.rules(),
	})
}

// Render writes the control.
func (f *DateField) Render(w io.Writer, view View) error {
	id := f.common.Name + "-date"
	ch := newChrome(f.common, id, view)
	value, _ := coerceString(view.value(f.common.Name)).(string)

	var b strings.Builder
	ch.writeOpen(&b, "")
	b.WriteString(`<input`)
	writeAttr(&b, "id", id)
	writeAttr(&b, "name", f.common.Name)
	writeAttr(&b, "type", f.props.InputType)
	writeAttr(&b, "value", value)
	writeOptionalAttr(&b, "min", f.props.Min)
	writeOptionalAttr(&b, "max", f.props.Max)
	writeAttr(&b, "class", ch.inputClass(f.props.ClassName))
	ch.writeControlAttrs(&b)
	b.WriteString(">")
	ch.writeFeedback(&b, "")
	b.WriteString(`</div>`)
	return flush(w, &b)
}
