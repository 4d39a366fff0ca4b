package fields

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

// DefaultSelectPlaceholder is shown as the empty option of single selects.
const DefaultSelectPlaceholder = "Select an option..."

// SelectField renders a select box, or a search box with a filtered option
// list when Searchable is set. Searchable selects hold a single value.
type SelectField struct {
	base
	props model.SelectProps

	mu   sync.Mutex
	term string
}

// NewSelect builds a select renderer.
func NewSelect(common Common, props model.SelectProps) *SelectField {
	if props.Searchable {
		props.Multiple = false
	}
	return &SelectField{base: base{common: common}, props: props}
}

// SelectProps returns the type-specific props.
func (f *SelectField) SelectProps() model.SelectProps {
	return f.props
}

// Register adds the field to c.
func (f *SelectField) Register(c *state.Controller) error {
	options := state.FieldOptions{
		Empty:  "",
		Coerce: coerceString,
		Rules:  f.common.rules(),
	}
	if f.props.Multiple {
		options.Empty = []string{}
		options.Coerce = coerceStrings
	}
	return f.register(c, options)
}

// Filter returns the options whose label contains term, ignoring case.
// The option set itself is never modified.
func (f *SelectField) Filter(term string) []model.SelectOption {
	needle := strings.ToLower(term)
	out := make([]model.SelectOption, 0, len(f.props.Options))
	for _, opt := range f.props.Options {
		if strings.Contains(strings.ToLower(opt.Label), needle) {
			out = append(out, opt)
		}
	}
	return out
}

// Search records the search term typed into a searchable select.
func (f *SelectField) Search(term string) {
	f.mu.Lock()
	f.term = term
	f.mu.Unlock()
}

// Term returns the current search term.
func (f *SelectField) Term() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.term
}

// Results lists the options matching the current term. Nothing is listed
// while the term is empty.
func (f *SelectField) Results() []model.SelectOption {
	term := f.Term()
	if term == "" {
		return nil
	}
	return f.Filter(term)
}

// Choose sets the field to the option with the given value. For
// searchable selects the option label is echoed into the search box.
func (f *SelectField) Choose(value string) error {
	opt, ok := f.option(value)
	if !ok || opt.Disabled {
		return fmt.Errorf("%w: %q for field %q", ErrUnknownOption, value, f.common.Name)
	}
	var next any = opt.Value
	if f.props.Multiple {
		c, err := f.bound()
		if err != nil {
			return err
		}
		current, _ := c.Value(f.common.Name)
		selected, _ := coerceStrings(current).([]string)
		for _, v := range selected {
			if v == opt.Value {
				return nil
			}
		}
		next = append(selected, opt.Value)
	}
	if err := f.set(next); err != nil {
		return err
	}
	if f.props.Searchable {
		f.Search(opt.Label)
	}
	return nil
}

// ResetView clears the search term.
func (f *SelectField) ResetView() {
	f.Search("")
}

func (f *SelectField) option(value string) (model.SelectOption, bool) {
	for _, opt := range f.props.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return model.SelectOption{}, false
}

// Render writes the control.
func (f *SelectField) Render(w io.Writer, view View) error {
	id := f.common.Name + "-select"
	ch := newChrome(f.common, id, view)
	placeholder := f.common.Placeholder
	if placeholder == "" {
		placeholder = DefaultSelectPlaceholder
	}

	var b strings.Builder
	ch.writeOpen(&b, "")
	if f.props.Searchable {
		f.renderSearchable(&b, ch, id, placeholder, view)
	} else {
		f.renderSelect(&b, ch, id, placeholder, view)
	}
	ch.writeFeedback(&b, "")
	b.WriteString(`</div>`)
	return flush(w, &b)
}

func (f *SelectField) renderSelect(b *strings.Builder, ch chrome, id, placeholder string, view View) {
	selected := make(map[string]bool)
	if f.props.Multiple {
		values, _ := coerceStrings(view.value(f.common.Name)).([]string)
		for _, v := range values {
			selected[v] = true
		}
	} else if v, _ := coerceString(view.value(f.common.Name)).(string); v != "" {
		selected[v] = true
	}

	b.WriteString(`<select`)
	writeAttr(b, "id", id)
	writeAttr(b, "name", f.common.Name)
	writeBoolAttr(b, "multiple", f.props.Multiple)
	writeAttr(b, "class", ch.inputClass(f.props.ClassName))
	ch.writeControlAttrs(b)
	b.WriteString(">")
	if !f.props.Multiple {
		b.WriteString(`<option value="" disabled`)
		writeBoolAttr(b, "selected", len(selected) == 0)
		b.WriteString(">")
		b.WriteString(escape(placeholder))
		b.WriteString(`</option>`)
	}
	for _, opt := range f.props.Options {
		b.WriteString(`<option`)
		writeAttr(b, "value", opt.Value)
		writeBoolAttr(b, "selected", selected[opt.Value])
		writeBoolAttr(b, "disabled", opt.Disabled)
		b.WriteString(">")
		b.WriteString(escape(opt.Label))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
}

func (f *SelectField) renderSearchable(b *strings.Builder, ch chrome, id, placeholder string, view View) {
	value, _ := coerceString(view.value(f.common.Name)).(string)
	listID := f.common.Name + "-listbox"
	results := f.Results()

	b.WriteString(`<div class="relative">`)
	b.WriteString(`<input`)
	writeAttr(b, "id", id)
	writeAttr(b, "name", SearchParam(f.common.Name))
	writeAttr(b, "type", "text")
	writeAttr(b, "value", f.Term())
	writeAttr(b, "placeholder", placeholder)
	writeAttr(b, "autocomplete", "off")
	writeAttr(b, "role", "combobox")
	writeAttr(b, "aria-controls", listID)
	if len(results) > 0 {
		writeAttr(b, "aria-expanded", "true")
	} else {
		writeAttr(b, "aria-expanded", "false")
	}
	writeAttr(b, "class", ch.inputClass(f.props.ClassName))
	ch.writeControlAttrs(b)
	b.WriteString(">")

	b.WriteString(`<input type="hidden"`)
	writeAttr(b, "name", f.common.Name)
	writeAttr(b, "value", value)
	b.WriteString(">")

	b.WriteString(`<button type="submit" class="sr-only"`)
	writeAttr(b, "name", ActionParam)
	writeAttr(b, "value", SearchAction(f.common.Name))
	writeBoolAttr(b, "disabled", f.common.Disabled)
	b.WriteString(`>Search</button>`)

	if len(results) > 0 {
		b.WriteString(`<div role="listbox"`)
		writeAttr(b, "id", listID)
		b.WriteString(` class="absolute z-10 w-full mt-1 bg-white border border-gray-300 rounded-md shadow-lg max-h-60 overflow-auto">`)
		for _, opt := range results {
			b.WriteString(`<button type="submit" role="option" class="w-full px-3 py-2 text-left hover:bg-gray-50"`)
			writeAttr(b, "name", ActionParam)
			writeAttr(b, "value", ChooseAction(f.common.Name, opt.Value))
			if opt.Value == value {
				writeAttr(b, "aria-selected", "true")
			} else {
				writeAttr(b, "aria-selected", "false")
			}
			writeBoolAttr(b, "disabled", opt.Disabled || f.common.Disabled)
			b.WriteString(">")
			b.WriteString(escape(opt.Label))
			b.WriteString(`</button>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}
