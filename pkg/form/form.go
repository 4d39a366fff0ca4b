// Package form renders a list of field configurations as one form, owns the
// state controller behind it and runs submissions.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/state"
)

var (
	// ErrSubmitInProgress is returned when a submission is already running
	// or the form is in the loading state.
	ErrSubmitInProgress = errors.New("form: submission in progress")
	// ErrHandlerPanic wraps a panic recovered from the submit handler.
	ErrHandlerPanic = errors.New("form: submit handler panicked")
)

// SubmitHandler receives the validated values keyed by field name.
type SubmitHandler func(ctx context.Context, data map[string]any) error

// Status is the outcome of a submission attempt.
type Status int

const (
	// StatusNone means no submission was attempted.
	StatusNone Status = iota
	// StatusInvalid means validation failed and the handler did not run.
	StatusInvalid
	// StatusSubmitted means the handler ran and returned nil.
	StatusSubmitted
	// StatusFailed means the handler returned an error or panicked. The
	// failure is logged; form state is unchanged.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusSubmitted:
		return "submitted"
	case StatusFailed:
		return "failed"
	default:
		return "none"
	}
}

// Result reports what a Submit or Handle call did.
type Result struct {
	Action string
	Status Status
	Errors map[string]string
}

// Form is a dynamic form instance. It is safe for concurrent use.
type Form struct {
	id         string
	cfg        config
	configs    []model.FieldConfig
	renderers  []fields.Field
	byName     map[string]fields.Field
	controller *state.Controller
	handler    SubmitHandler
	logger     logrus.FieldLogger
	styles     fields.Styles
	multipart  bool

	loading atomic.Bool

	mu         sync.Mutex
	formErrors []string
}

// New builds a form from field configurations. The configurations are
// copied. A field whose type is outside the supported set fails with
// model.ErrUnknownFieldType unless WithLenientFieldTypes is given, in which
// case it is logged and skipped.
func New(configs []model.FieldConfig, handler SubmitHandler, opts ...Option) (*Form, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	f := &Form{
		id:      cfg.id,
		cfg:     cfg,
		byName:  make(map[string]fields.Field, len(configs)),
		handler: handler,
		logger:  cfg.logger,
	}
	if f.id == "" {
		f.id = "form-" + uuid.NewString()
	}
	if f.logger == nil {
		f.logger = logrus.StandardLogger()
	}
	f.logger = f.logger.WithField("form", f.id)
	f.loading.Store(cfg.loading)

	controllerOpts := []state.Option{
		state.WithDefaults(cfg.defaults),
		state.WithMode(cfg.mode),
	}
	if cfg.validator != nil {
		controllerOpts = append(controllerOpts, state.WithValidator(cfg.validator))
	}
	f.controller = state.New(controllerOpts...)

	for idx, fc := range configs {
		fc = fc.Clone()
		if !fc.Type.Valid() {
			if cfg.lenient {
				f.logger.WithFields(logrus.Fields{"field": fc.Name, "type": fc.Type}).
					Warn("form: skipping field with unknown type")
				continue
			}
			return nil, fmt.Errorf("form: field %d: %w %q for field %q", idx, model.ErrUnknownFieldType, fc.Type, fc.Name)
		}
		if err := model.ValidateField(fc); err != nil {
			return nil, fmt.Errorf("form: field %d: %w", idx, err)
		}
		if _, dup := f.byName[fc.Name]; dup {
			return nil, fmt.Errorf("form: %w %q", model.ErrDuplicateFieldName, fc.Name)
		}

		renderer, err := newRenderer(fc)
		if err != nil {
			return nil, fmt.Errorf("form: field %d: %w", idx, err)
		}
		if err := renderer.Register(f.controller); err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
		f.configs = append(f.configs, fc)
		f.renderers = append(f.renderers, renderer)
		f.byName[fc.Name] = renderer
		if fc.Type == model.FieldTypeFile {
			f.multipart = true
		}
	}

	styles, err := resolveStyles(cfg)
	if err != nil {
		return nil, err
	}
	f.styles = styles
	return f, nil
}

// newRenderer maps a configuration to its renderer.
func newRenderer(cfg model.FieldConfig) (fields.Field, error) {
	common := fields.CommonFromConfig(cfg)
	switch cfg.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		props, err := model.TextPropsOf(cfg)
		if err != nil {
			return nil, err
		}
		return fields.NewText(common, props), nil
	case model.FieldTypeSelect:
		props, err := model.SelectPropsOf(cfg)
		if err != nil {
			return nil, err
		}
		return fields.NewSelect(common, props), nil
	case model.FieldTypeDate:
		props, err := model.DatePropsOf(cfg)
		if err != nil {
			return nil, err
		}
		return fields.NewDate(common, props), nil
	case model.FieldTypeFile:
		props, err := model.FilePropsOf(cfg)
		if err != nil {
			return nil, err
		}
		return fields.NewFile(common, props), nil
	case model.FieldTypeCheckbox:
		props, err := model.CheckboxPropsOf(cfg)
		if err != nil {
			return nil, err
		}
		return fields.NewCheckbox(common, props), nil
	case model.FieldTypeRadio:
		props, err := model.RadioPropsOf(cfg)
		if err != nil {
			return nil, err
		}
		return fields.NewRadio(common, props), nil
	default:
		return nil, fmt.Errorf("%w %q for field %q", model.ErrUnknownFieldType, cfg.Type, cfg.Name)
	}
}

// ID returns the instance id.
func (f *Form) ID() string {
	return f.id
}

// Fields returns a copy of the rendered field configurations, excluding
// skipped ones.
func (f *Form) Fields() []model.FieldConfig {
	out := make([]model.FieldConfig, len(f.configs))
	for i, cfg := range f.configs {
		out[i] = cfg.Clone()
	}
	return out
}

// Field returns the renderer bound to name.
func (f *Form) Field(name string) (fields.Field, bool) {
	r, ok := f.byName[name]
	return r, ok
}

// Controller exposes the state owner, e.g. to subscribe to changes.
func (f *Form) Controller() *state.Controller {
	return f.controller
}

// Snapshot returns the current form state.
func (f *Form) Snapshot() state.Snapshot {
	return f.controller.Snapshot()
}

// Loading reports the externally controlled loading flag.
func (f *Form) Loading() bool {
	return f.loading.Load()
}

// SetLoading toggles the loading flag. While loading, submit and reset are
// disabled.
func (f *Form) SetLoading(loading bool) {
	f.loading.Store(loading)
}

// Busy reports whether the submit and reset controls are disabled.
func (f *Form) Busy() bool {
	return f.Loading() || f.controller.Submitting()
}

// Submit validates the form and, when valid, runs the handler with the
// current values. Handler errors and panics are logged and reported as
// StatusFailed; they are not returned.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	result := Result{Action: fields.ActionSubmit}
	if f.Loading() || !f.controller.BeginSubmit() {
		return result, ErrSubmitInProgress
	}
	defer f.controller.EndSubmit()

	f.clearFormErrors()
	values, valid := f.controller.ValidateValues()
	if !valid {
		result.Status = StatusInvalid
		result.Errors = f.controller.Snapshot().Errors
		f.logger.WithField("errors", len(result.Errors)).Debug("form: validation failed")
		return result, nil
	}

	if err := f.invoke(ctx, values); err != nil {
		f.logger.WithError(err).Error("form: submission failed")
		result.Status = StatusFailed
		return result, nil
	}
	f.logger.Debug("form: submitted")
	result.Status = StatusSubmitted
	return result, nil
}

func (f *Form) invoke(ctx context.Context, values map[string]any) (err error) {
	if f.handler == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return f.handler(ctx, values)
}

// Reset restores defaults (or empty values), clears every error, the
// dirty and touched flags, and any select search terms.
func (f *Form) Reset() {
	f.controller.Reset()
	for _, r := range f.renderers {
		if resetter, ok := r.(fields.Resetter); ok {
			resetter.ResetView()
		}
	}
	f.clearFormErrors()
	f.logger.Debug("form: reset")
}

// ApplyErrors records server-side errors. Keys are mapped to fields with
// render.MapErrorPayload; unmatched messages are shown above the fields and
// returned.
func (f *Form) ApplyErrors(payload map[string][]string) []string {
	mapping := render.MapErrorPayload(f.configs, payload)
	for name, msg := range mapping.First() {
		f.controller.SetError(name, msg)
	}
	f.mu.Lock()
	f.formErrors = render.MergeFormErrors(f.formErrors, mapping.Form...)
	out := append([]string(nil), f.formErrors...)
	f.mu.Unlock()
	return out
}

// FormErrors returns the form-level messages currently shown.
func (f *Form) FormErrors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.formErrors...)
}

func (f *Form) clearFormErrors() {
	f.mu.Lock()
	f.formErrors = nil
	f.mu.Unlock()
}

// Render writes the form.
func (f *Form) Render(w io.Writer) error {
	return f.renderShell(w)
}
