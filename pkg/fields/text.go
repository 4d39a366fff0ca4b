package fields

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/state"
)

// TextField renders single-line inputs and textareas.
type TextField struct {
	base
	props model.TextProps
}

// NewText builds a text renderer. Rows defaults to 3 for multiline fields.
func NewText(common Common, props model.TextProps) *TextField {
	if props.InputType == "" {
		props.InputType = "text"
	}
	if props.Rows <= 0 {
		props.Rows = 3
	}
	return &TextField{base: base{common: common}, props: props}
}

// TextProps returns the type-specific props.
func (f *TextField) TextProps() model.TextProps {
	return f.props
}

// Register adds the field to c with its required and max-length rules.
func (f *TextField) Register(c *state.Controller) error {
	rules := f.common.rules()
	if f.props.MaxLength > 0 {
		rules = append(rules, schema.MaxLength(f.props.MaxLength).StateRule())
	}
	return f.register(c, state.FieldOptions{
		Empty:  "",
		Coerce: coerceString,
		Rules:  rules,
	})
}

// Counter returns the "len/max" character counter, or "" when the field
// has no max length or the counter is hidden.
func (f *TextField) Counter(value string) string {
	if f.props.MaxLength <= 0 || f.props.HideCounter {
		return ""
	}
	return strconv.Itoa(utf8.RuneCountInString(value)) + "/" + strconv.Itoa(f.props.MaxLength)
}

// Render writes the control.
func (f *TextField) Render(w io.Writer, view View) error {
	id := f.common.Name + "-input"
	ch := newChrome(f.common, id, view)
	value, _ := coerceString(view.value(f.common.Name)).(string)

	var b strings.Builder
	ch.writeOpen(&b, "")

	if f.props.Multiline {
		b.WriteString(`<textarea`)
		writeAttr(&b, "id", id)
		writeAttr(&b, "name", f.common.Name)
		writeAttr(&b, "rows", strconv.Itoa(f.props.Rows))
	} else {
		b.WriteString(`<input`)
		writeAttr(&b, "id", id)
		writeAttr(&b, "name", f.common.Name)
		writeAttr(&b, "type", f.props.InputType)
		writeAttr(&b, "value", value)
	}
	writeAttr(&b, "class", ch.inputClass(f.props.ClassName))
	writeOptionalAttr(&b, "placeholder", f.common.Placeholder)
	if f.props.MaxLength > 0 {
		writeAttr(&b, "maxlength", strconv.Itoa(f.props.MaxLength))
	}
	ch.writeControlAttrs(&b)
	if f.props.Multiline {
		b.WriteString(">")
		b.WriteString(escape(value))
		b.WriteString("</textarea>")
	} else {
		b.WriteString(">")
	}

	ch.writeFeedback(&b, "")

	if counter := f.Counter(value); counter != "" {
		b.WriteString(`<div class="`)
		b.WriteString(escape(ch.styles.Counter))
		b.WriteString(`" aria-live="polite">`)
		b.WriteString(counter)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return flush(w, &b)
}
