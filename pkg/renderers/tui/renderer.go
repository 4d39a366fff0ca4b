package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions. It fills a
// form by prompting for each field, validates every answer through the
// form's controller, submits, and returns the collected values.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	styles            Styles
	title             string
	formOptions       []form.Option
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		styles:       DefaultStyles(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every enabled field, re-prompting until the field's
// rules pass, then submits. Fields that still fail form-level validation
// are prompted again.
func (r *Renderer) Render(ctx context.Context, configs []model.FieldConfig, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var submitted map[string]any
	handler := func(_ context.Context, data map[string]any) error {
		submitted = data
		return nil
	}
	formOpts := []form.Option{
		form.WithLogger(discardLogger()),
		form.WithDefaults(opts.Values),
	}
	formOpts = append(formOpts, r.formOptions...)
	f, err := form.New(configs, handler, formOpts...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	if r.title != "" {
		if err := r.driver.Info(ctx, r.styles.Title.Render(r.title)); err != nil {
			return nil, err
		}
	}
	if len(opts.Errors) > 0 {
		for _, msg := range f.ApplyErrors(opts.Errors) {
			_ = r.driver.Info(ctx, r.styles.Error.Render(msg))
		}
	}

	pending := f.Fields()
	for {
		for _, cfg := range pending {
			if cfg.Disabled {
				continue
			}
			if err := r.promptField(ctx, f, cfg); err != nil {
				return nil, err
			}
		}

		result, err := f.Submit(ctx)
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		if result.Status == form.StatusSubmitted {
			break
		}

		pending = pending[:0]
		for _, cfg := range f.Fields() {
			msg, failed := result.Errors[cfg.Name]
			if !failed {
				continue
			}
			_ = r.driver.Info(ctx, r.styles.errorLine(model.DisplayLabel(cfg), msg))
			if !cfg.Disabled {
				pending = append(pending, cfg)
			}
		}
		if len(pending) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, result.Errors)
		}
	}

	values := submitted
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

// promptField asks for one field until its rules pass.
func (r *Renderer) promptField(ctx context.Context, f *form.Form, cfg model.FieldConfig) error {
	field, ok := f.Field(cfg.Name)
	if !ok {
		return fmt.Errorf("tui: field %q is not rendered", cfg.Name)
	}
	label := promptLabel(cfg)
	for {
		var err error
		switch fr := field.(type) {
		case *fields.TextField:
			err = r.promptText(ctx, f, fr, cfg, label)
		case *fields.SelectField:
			err = r.promptSelect(ctx, f, fr, cfg, label)
		case *fields.DateField:
			err = r.promptDate(ctx, f, fr, cfg, label)
		case *fields.FileField:
			err = r.promptFiles(ctx, f, fr, cfg, label)
		case *fields.CheckboxField:
			err = r.promptCheckbox(ctx, f, fr, cfg, label)
		case *fields.RadioField:
			err = r.promptRadio(ctx, f, fr, cfg, label)
		default:
			return fmt.Errorf("tui: no prompt for field %q", cfg.Name)
		}

		var retry retryError
		switch {
		case errors.As(err, &retry):
			_ = r.driver.Info(ctx, r.styles.errorLine(model.DisplayLabel(cfg), retry.msg))
			continue
		case err != nil:
			return err
		}

		msg, err := f.Controller().ValidateField(cfg.Name)
		if err != nil {
			return err
		}
		if msg == "" {
			return nil
		}
		_ = r.driver.Info(ctx, r.styles.errorLine(model.DisplayLabel(cfg), msg))
	}
}

// retryError asks promptField to show msg and prompt again without
// running validation.
type retryError struct {
	msg string
}

func (e retryError) Error() string {
	return e.msg
}

func (r *Renderer) promptText(ctx context.Context, f *form.Form, field *fields.TextField, cfg model.FieldConfig, label string) error {
	props := field.TextProps()
	current := stringValue(f, cfg.Name)
	help := r.help(cfg)
	if props.MaxLength > 0 && !props.HideCounter {
		help = joinHelp(help, fmt.Sprintf("max %d characters", props.MaxLength))
	}

	prompt := Prompt{Kind: PromptText, Message: label, Default: current, Help: help}
	switch {
	case props.InputType == "password":
		prompt.Kind, prompt.Default = PromptPassword, ""
	case props.Multiline:
		prompt.Kind = PromptMultiline
	}
	answer, err := r.driver.Ask(ctx, prompt)
	if err != nil {
		return err
	}
	return field.SetValue(answer.Text)
}

func (r *Renderer) promptDate(ctx context.Context, f *form.Form, field *fields.DateField, cfg model.FieldConfig, label string) error {
	props := field.DateProps()
	help := joinHelp(r.help(cfg), dateHint(props))
	answer, err := r.driver.Ask(ctx, Prompt{Kind: PromptText, Message: label, Default: stringValue(f, cfg.Name), Help: help})
	if err != nil {
		return err
	}
	return field.SetValue(strings.TrimSpace(answer.Text))
}

func (r *Renderer) promptSelect(ctx context.Context, f *form.Form, field *fields.SelectField, cfg model.FieldConfig, label string) error {
	props := field.SelectProps()
	help := r.help(cfg)

	if props.Multiple {
		options := enabledOptions(props.Options)
		current, _ := f.Controller().Value(cfg.Name)
		selected, _ := current.([]string)
		answer, err := r.driver.Ask(ctx, Prompt{
			Kind:     PromptMultiSelect,
			Message:  label,
			Options:  optionLabels(options),
			Selected: indicesOfValues(options, selected),
			Help:     help,
		})
		if err != nil {
			return err
		}
		return field.SetValue(valuesAt(options, answer.Indices))
	}

	options := enabledOptions(props.Options)
	if props.Searchable {
		search, err := r.driver.Ask(ctx, Prompt{Kind: PromptText, Message: "Search " + model.DisplayLabel(cfg), Default: field.Term(), Help: help})
		if err != nil {
			return err
		}
		field.Search(strings.TrimSpace(search.Text))
		if field.Term() != "" {
			options = enabledOptions(field.Results())
			if len(options) == 0 {
				return retryError{msg: fmt.Sprintf("no options match %q", field.Term())}
			}
		}
	}

	labels := optionLabels(options)
	offset := 0
	if !cfg.Required {
		labels = append([]string{fields.DefaultSelectPlaceholder}, labels...)
		offset = 1
	}
	answer, err := r.driver.Ask(ctx, Prompt{
		Kind:     PromptSelect,
		Message:  label,
		Options:  labels,
		Selected: []int{indexOfValue(options, stringValue(f, cfg.Name)) + offset},
		Help:     help,
	})
	if err != nil {
		return err
	}
	idx := answer.Index() - offset
	if idx < 0 || idx >= len(options) {
		return field.SetValue("")
	}
	return field.Choose(options[idx].Value)
}

func (r *Renderer) promptRadio(ctx context.Context, f *form.Form, field *fields.RadioField, cfg model.FieldConfig, label string) error {
	options := enabledOptions(field.RadioProps().Options)
	answer, err := r.driver.Ask(ctx, Prompt{
		Kind:     PromptSelect,
		Message:  label,
		Options:  optionLabels(options),
		Selected: []int{indexOfValue(options, stringValue(f, cfg.Name))},
		Help:     r.help(cfg),
	})
	if err != nil {
		return err
	}
	idx := answer.Index()
	if idx < 0 || idx >= len(options) {
		return retryError{msg: "choose one of the listed options"}
	}
	return field.Choose(options[idx].Value)
}

func (r *Renderer) promptCheckbox(ctx context.Context, f *form.Form, field *fields.CheckboxField, cfg model.FieldConfig, label string) error {
	current, _ := f.Controller().Value(cfg.Name)
	checked, _ := current.(bool)
	help := joinHelp(plainText(field.CheckboxProps().Description), r.help(cfg))
	answer, err := r.driver.Ask(ctx, Prompt{Kind: PromptConfirm, Message: label, Checked: checked, Help: help})
	if err != nil {
		return err
	}
	return field.SetValue(answer.Checked)
}

// promptFiles reads a comma separated list of paths and applies it as one
// selection.
func (r *Renderer) promptFiles(ctx context.Context, f *form.Form, field *fields.FileField, cfg model.FieldConfig, label string) error {
	props := field.FileProps()
	hint := fmt.Sprintf("comma separated paths, up to %d file(s)", props.MaxFiles)
	if props.Accept != "" {
		hint += ", accepted: " + props.Accept
	}
	answer, err := r.driver.Ask(ctx, Prompt{Kind: PromptText, Message: label, Help: joinHelp(r.help(cfg), hint)})
	if err != nil {
		return err
	}

	var files []model.File
	for _, path := range strings.Split(answer.Text, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return retryError{msg: fmt.Sprintf("cannot read %q", path)}
		}
		if info.IsDir() {
			return retryError{msg: fmt.Sprintf("%q is a directory", path)}
		}
		files = append(files, model.File{
			Name:        filepath.Base(path),
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
		})
	}
	if len(files) == 0 {
		return nil
	}
	if err := field.Select(files); err != nil {
		if errors.Is(err, fields.ErrFileRejected) {
			return retryError{msg: f.Controller().Error(cfg.Name)}
		}
		return err
	}
	return nil
}

func (r *Renderer) help(cfg model.FieldConfig) string {
	return plainText(cfg.HelperText)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func promptLabel(cfg model.FieldConfig) string {
	label := model.DisplayLabel(cfg)
	if cfg.Required {
		label += " *"
	}
	return label
}

func stringValue(f *form.Form, name string) string {
	value, _ := f.Controller().Value(name)
	s, _ := value.(string)
	return s
}

func dateHint(props model.DateProps) string {
	format := "YYYY-MM-DD"
	switch props.InputType {
	case "datetime-local":
		format = "YYYY-MM-DDTHH:MM"
	case "time":
		format = "HH:MM"
	}
	switch {
	case props.Min != "" && props.Max != "":
		return fmt.Sprintf("%s, between %s and %s", format, props.Min, props.Max)
	case props.Min != "":
		return fmt.Sprintf("%s, from %s", format, props.Min)
	case props.Max != "":
		return fmt.Sprintf("%s, until %s", format, props.Max)
	}
	return format
}

func joinHelp(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " · ")
}

var stripPolicy = bluemonday.StrictPolicy()

// plainText drops markup from helper text and descriptions.
func plainText(markup string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(markup))
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func enabledOptions(options []model.SelectOption) []model.SelectOption {
	out := make([]model.SelectOption, 0, len(options))
	for _, opt := range options {
		if !opt.Disabled {
			out = append(out, opt)
		}
	}
	return out
}

func optionLabels(opts []model.SelectOption) []string {
	out := make([]string, len(opts))
	for i, opt := range opts {
		out[i] = opt.Label
		if out[i] == "" {
			out[i] = opt.Value
		}
	}
	return out
}

func indexOfValue(opts []model.SelectOption, value string) int {
	for i, opt := range opts {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

func indicesOfValues(opts []model.SelectOption, values []string) []int {
	var out []int
	for _, v := range values {
		if idx := indexOfValue(opts, v); idx >= 0 {
			out = append(out, idx)
		}
	}
	return out
}

func valuesAt(opts []model.SelectOption, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(opts) {
			out = append(out, opts[idx].Value)
		}
	}
	return out
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			for _, item := range v {
				flattened.Add(key+"[]", item)
			}
		case []model.File:
			for _, file := range v {
				flattened.Add(key+"[]", file.Name)
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%s\n", key, idx, item)
			}
		case []model.File:
			for idx, file := range v {
				fmt.Fprintf(&b, "%s[%d]=%s (%d bytes)\n", key, idx, file.Name, file.Size)
			}
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
