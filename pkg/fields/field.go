package fields

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

var (
	// ErrNotRegistered is returned by event operations invoked before the
	// renderer was registered with a controller.
	ErrNotRegistered = errors.New("fields: renderer not registered")
	// ErrUnknownOption is returned when a choice does not match an enabled
	// option.
	ErrUnknownOption = errors.New("fields: unknown option")
	// ErrDisabled is returned when an event targets a disabled field.
	ErrDisabled = errors.New("fields: field is disabled")
)

// Field is implemented by every renderer.
type Field interface {
	Name() string
	Register(c *state.Controller) error
	Render(w io.Writer, view View) error
}

// Resetter is implemented by renderers that keep view-local state (such as
// a search term) which must be cleared when the form resets.
type Resetter interface {
	ResetView()
}

// Common carries the props shared by every field.
type Common struct {
	Name        string
	Label       string
	Placeholder string
	Required    bool
	Disabled    bool
	// Error overrides the controller error when set.
	Error      string
	HelperText string
}

// CommonFromConfig extracts the shared props from a field configuration.
func CommonFromConfig(cfg model.FieldConfig) Common {
	return Common{
		Name:        cfg.Name,
		Label:       cfg.Label,
		Placeholder: cfg.Placeholder,
		Required:    cfg.Required,
		Disabled:    cfg.Disabled,
		HelperText:  cfg.HelperText,
	}
}

// View is the render-time context shared by all fields of a form.
type View struct {
	Snapshot state.Snapshot
	Styles   Styles
}

func (v View) value(name string) any {
	if v.Snapshot.Values == nil {
		return nil
	}
	return v.Snapshot.Values[name]
}

func (c Common) displayError(view View) string {
	if c.Error != "" {
		return c.Error
	}
	return view.Snapshot.Errors[c.Name]
}

func (c Common) rules() []state.Rule {
	if !c.Required {
		return nil
	}
	return []state.Rule{requiredRule}
}

// base holds what every renderer shares: props and the controller it was
// registered with.
type base struct {
	common     Common
	controller *state.Controller
}

// Name returns the field name.
func (b *base) Name() string {
	return b.common.Name
}

// Props returns the common props.
func (b *base) Props() Common {
	return b.common
}

func (b *base) register(c *state.Controller, options state.FieldOptions) error {
	if c == nil {
		return fmt.Errorf("fields: register %q: nil controller", b.common.Name)
	}
	if err := c.Register(b.common.Name, options); err != nil {
		return fmt.Errorf("fields: register %q: %w", b.common.Name, err)
	}
	b.controller = c
	return nil
}

func (b *base) bound() (*state.Controller, error) {
	if b.controller == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, b.common.Name)
	}
	return b.controller, nil
}

// set writes value through the controller.
func (b *base) set(value any) error {
	c, err := b.bound()
	if err != nil {
		return err
	}
	if b.common.Disabled {
		return fmt.Errorf("%w: %q", ErrDisabled, b.common.Name)
	}
	return c.SetValue(b.common.Name, value)
}

// SetValue records a change from user input. The value is coerced to the
// field's representation by the controller.
func (b *base) SetValue(value any) error {
	return b.set(value)
}

type chrome struct {
	common    Common
	controlID string
	err       string
	styles    Styles
}

func newChrome(common Common, controlID string, view View) chrome {
	return chrome{
		common:    common,
		controlID: controlID,
		err:       common.displayError(view),
		styles:    view.Styles.withDefaults(),
	}
}

func (c chrome) errorID() string {
	return c.controlID + "-error"
}

func (c chrome) helpID() string {
	return c.controlID + "-help"
}

// describedBy points at the error, or at the helper text when there is no
// error.
func (c chrome) describedBy() string {
	switch {
	case c.err != "":
		return c.errorID()
	case strings.TrimSpace(c.common.HelperText) != "":
		return c.helpID()
	default:
		return ""
	}
}

func (c chrome) inputClass(extra string) string {
	classes := []string{c.styles.Input}
	if c.err != "" {
		classes = append(classes, c.styles.InputError)
	}
	if c.common.Disabled {
		classes = append(classes, c.styles.InputDisabled)
	}
	classes = append(classes, extra)
	return joinClasses(classes...)
}

// writeOpen writes the field wrapper and label.
func (c chrome) writeOpen(b *strings.Builder, extraClass string) {
	b.WriteString(`<div class="`)
	b.WriteString(html.EscapeString(joinClasses(c.styles.Field, extraClass)))
	b.WriteString(`" data-field="`)
	b.WriteString(html.EscapeString(c.common.Name))
	b.WriteString(`">`)
	c.writeLabel(b, "label", c.styles.Label)
}

func (c chrome) writeLabel(b *strings.Builder, tag, class string) {
	if c.common.Label == "" {
		return
	}
	b.WriteString("<")
	b.WriteString(tag)
	if tag == "label" {
		b.WriteString(` for="`)
		b.WriteString(html.EscapeString(c.controlID))
		b.WriteString(`"`)
	}
	b.WriteString(` class="`)
	b.WriteString(html.EscapeString(class))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(c.common.Label))
	if c.common.Required {
		b.WriteString(`<span class="`)
		b.WriteString(html.EscapeString(c.styles.Required))
		b.WriteString(`">*</span>`)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}

// writeFeedback writes the error, or the helper text when there is none.
func (c chrome) writeFeedback(b *strings.Builder, extraClass string) {
	if c.err != "" {
		b.WriteString(`<p id="`)
		b.WriteString(html.EscapeString(c.errorID()))
		b.WriteString(`" class="`)
		b.WriteString(html.EscapeString(joinClasses(c.styles.Error, extraClass)))
		b.WriteString(`" role="alert">`)
		b.WriteString(html.EscapeString(c.err))
		b.WriteString(`</p>`)
		return
	}
	if help := sanitizeRich(c.common.HelperText); help != "" {
		b.WriteString(`<p id="`)
		b.WriteString(html.EscapeString(c.helpID()))
		b.WriteString(`" class="`)
		b.WriteString(html.EscapeString(joinClasses(c.styles.Help, extraClass)))
		b.WriteString(`">`)
		b.WriteString(help)
		b.WriteString(`</p>`)
	}
}

// writeControlAttrs writes the accessibility and state attributes shared
// by input-like controls.
func (c chrome) writeControlAttrs(b *strings.Builder) {
	if c.common.Label == "" {
		writeAttr(b, "aria-label", model.HumanizeName(c.common.Name))
	}
	if c.common.Required {
		writeAttr(b, "aria-required", "true")
	}
	if c.err != "" {
		writeAttr(b, "aria-invalid", "true")
	} else {
		writeAttr(b, "aria-invalid", "false")
	}
	if described := c.describedBy(); described != "" {
		writeAttr(b, "aria-describedby", described)
	}
	if c.common.Disabled {
		b.WriteString(" disabled")
	}
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}

func writeOptionalAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	writeAttr(b, name, value)
}

func writeBoolAttr(b *strings.Builder, name string, on bool) {
	if on {
		b.WriteByte(' ')
		b.WriteString(name)
	}
}

func joinClasses(classes ...string) string {
	keep := make([]string, 0, len(classes))
	for _, class := range classes {
		if class = strings.TrimSpace(class); class != "" {
			keep = append(keep, class)
		}
	}
	return strings.Join(keep, " ")
}

func flush(w io.Writer, b *strings.Builder) error {
	_, err := io.WriteString(w, b.String())
	return err
}

func escape(s string) string {
	return html.EscapeString(s)
}

func (c chrome) errorClass() string {
	if c.err == "" {
		return ""
	}
	return c.styles.InputError
}
