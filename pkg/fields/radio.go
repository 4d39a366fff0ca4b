package fields

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

// RadioField renders a group of mutually exclusive options.
type RadioField struct {
	base
	props model.RadioProps
}

// NewRadio builds a radio group renderer.
func NewRadio(common Common, props model.RadioProps) *RadioField {
	return &RadioField{base: base{common: common}, props: props}
}

// RadioProps returns the type-specific props.
func (f *RadioField) RadioProps() model.RadioProps {
	return f.props
}

// Register adds the field to c.
func (f *RadioField) Register(c *state.Controller) error {
	return f.register(c, state.FieldOptions{
		Empty:  "",
		Coerce: coerceString,
		Rules:  f.common.rules(),
	})
}

// Choose selects the option with the given value.
func (f *RadioField) Choose(value string) error {
	for _, opt := range f.props.Options {
		if opt.Value == value && !opt.Disabled {
			return f.set(value)
		}
	}
	return fmt.Errorf("%w: %q for field %q", ErrUnknownOption, value, f.common.Name)
}

// Render writes the group as a fieldset.
func (f *RadioField) Render(w io.Writer, view View) error {
	id := f.common.Name + "-radio-group"
	ch := newChrome(f.common, id, view)
	value, _ := coerceString(view.value(f.common.Name)).(string)

	var b strings.Builder
	b.WriteString(`<fieldset`)
	writeAttr(&b, "id", id)
	writeAttr(&b, "class", joinClasses(ch.styles.Field, f.props.ClassName))
	writeAttr(&b, "data-field", f.common.Name)
	if f.common.Label == "" {
		writeAttr(&b, "aria-label", model.HumanizeName(f.common.Name))
	}
	if described := ch.describedBy(); described != "" {
		writeAttr(&b, "aria-describedby", described)
	}
	b.WriteString(">")
	ch.writeLabel(&b, "legend", ch.styles.Label)

	container := "space-y-2"
	if f.props.Inline {
		container = "flex flex-wrap gap-4"
	}
	b.WriteString(`<div class="`)
	b.WriteString(container)
	b.WriteString(`" role="radiogroup">`)
	for idx, opt := range f.props.Options {
		optionID := f.common.Name + "-" + strconv.Itoa(idx)
		b.WriteString(`<div class="flex items-center"><input`)
		writeAttr(&b, "id", optionID)
		writeAttr(&b, "name", f.common.Name)
		writeAttr(&b, "type", "radio")
		writeAttr(&b, "value", opt.Value)
		writeBoolAttr(&b, "checked", opt.Value == value)
		writeBoolAttr(&b, "disabled", f.common.Disabled || opt.Disabled)
		if ch.err != "" {
			writeAttr(&b, "aria-invalid", "true")
		}
		writeAttr(&b, "class", joinClasses("h-4 w-4", ch.errorClass()))
		b.WriteString(`><label`)
		writeAttr(&b, "for", optionID)
		labelClass := "ml-2 text-sm text-gray-700"
		if f.common.Disabled || opt.Disabled {
			labelClass = joinClasses(labelClass, "opacity-50 cursor-not-allowed")
		}
		writeAttr(&b, "class", labelClass)
		b.WriteString(">")
		b.WriteString(escape(opt.Label))
		b.WriteString(`</label></div>`)
	}
	b.WriteString(`</div>`)
	ch.writeFeedback(&b, "")
	b.WriteString(`</fieldset>`)
	return flush(w, &b)
}
