package state

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	// ErrUnknownField is returned when an operation targets an unregistered name.
	ErrUnknownField = errors.New("state: unknown field")
	// ErrAlreadyRegistered is returned when a name is registered twice.
	ErrAlreadyRegistered = errors.New("state: field already registered")
)

// Rule checks one field value. It returns an empty string when the value is
// acceptable, otherwise the message to display.
type Rule func(value any, values map[string]any) string

// Validator runs whole-form validation (typically a schema) and returns
// messages keyed by field name. A nil or empty map means valid.
type Validator interface {
	Validate(values map[string]any) map[string]string
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(values map[string]any) map[string]string

// Validate calls fn.
func (fn ValidatorFunc) Validate(values map[string]any) map[string]string {
	return fn(values)
}

// Mode selects when field rules run outside of an explicit Validate call.
type Mode int

const (
	// ModeOnSubmit validates on Validate only; after the first submission a
	// changed field is re-validated so fixed errors clear.
	ModeOnSubmit Mode = iota
	// ModeOnChange validates a field every time its value changes.
	ModeOnChange
)

// FieldOptions describes a field at registration time.
type FieldOptions struct {
	// Empty is the value used when no default is configured.
	Empty any
	// Coerce normalises incoming values (defaults included). Optional.
	Coerce func(any) any
	// Rules run in order; the first failing rule sets the field error.
	Rules []Rule
}

// Listener receives a snapshot after every state change.
type Listener func(Snapshot)

type fieldState struct {
	options FieldOptions
	initial any
	value   any
	touched bool
}

// Controller is the state owner for one form instance. It is safe for
// concurrent use.
type Controller struct {
	mu          sync.Mutex
	order       []string
	fields      map[string]*fieldState
	defaults    map[string]any
	errors      map[string]string
	validator   Validator
	mode        Mode
	submitting  bool
	submitCount int

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

// Option configures a Controller.
type Option func(*Controller)

// WithDefaults seeds default values keyed by field name.
func WithDefaults(defaults map[string]any) Option {
	return func(c *Controller) {
		for name, value := range defaults {
			c.defaults[name] = value
		}
	}
}

// WithValidator installs a whole-form validator consulted by Validate.
func WithValidator(v Validator) Option {
	return func(c *Controller) {
		c.validator = v
	}
}

// WithMode selects the validation mode.
func WithMode(mode Mode) Option {
	return func(c *Controller) {
		c.mode = mode
	}
}

// New constructs an empty controller.
func New(options ...Option) *Controller {
	c := &Controller{
		fields:    make(map[string]*fieldState),
		defaults:  make(map[string]any),
		errors:    make(map[string]string),
		listeners: make(map[int]Listener),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Register adds a field. Its initial value is the configured default (if
// any) or options.Empty.
func (c *Controller) Register(name string, options FieldOptions) error {
	if name == "" {
		return fmt.Errorf("state: register: field name is required")
	}

	_, err := c.mutate(func(c *Controller) (bool, error) {
		if _, exists := c.fields[name]; exists {
			return false, fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
		}
		initial := options.Empty
		if value, ok := c.defaults[name]; ok {
			initial = value
		}
		initial = coerce(options, initial)
		c.fields[name] = &fieldState{
			options: options,
			initial: initial,
			value:   cloneValue(initial),
		}
		c.order = append(c.order, name)
		return true, nil
	})
	return err
}

// Registered reports whether name has been registered.
func (c *Controller) Registered(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.fields[name]
	return ok
}

// Names returns registered field names in registration order.
func (c *Controller) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

// Value returns the current value of name.
func (c *Controller) Value(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	field, ok := c.fields[name]
	if !ok {
		return nil, false
	}
	return cloneValue(field.value), true
}

// Values returns a copy of every current value.
func (c *Controller) Values() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valuesLocked()
}

// Error returns the current error for name, if any.
func (c *Controller) Error(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[name]
}

// SetValue records a user change. The field is marked touched, and
// re-validated according to the controller mode.
func (c *Controller) SetValue(name string, value any) error {
	_, err := c.mutate(func(c *Controller) (bool, error) {
		field, ok := c.fields[name]
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		next := cloneValue(coerce(field.options, value))
		changed := !reflect.DeepEqual(field.value, next)
		field.value = next
		field.touched = true
		if changed && (c.mode == ModeOnChange || c.submitCount > 0) {
			c.validateFieldLocked(name)
		}
		return true, nil
	})
	return err
}

// Touch marks name as touched without changing its value.
func (c *Controller) Touch(name string) error {
	_, err := c.mutate(func(c *Controller) (bool, error) {
		field, ok := c.fields[name]
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		if field.touched {
			return false, nil
		}
		field.touched = true
		return true, nil
	})
	return err
}

// SetError attaches msg to name. An empty msg clears the error.
func (c *Controller) SetError(name, msg string) {
	_, _ = c.mutate(func(c *Controller) (bool, error) {
		if msg == "" {
			if _, ok := c.errors[name]; !ok {
				return false, nil
			}
			delete(c.errors, name)
			return true, nil
		}
		if c.errors[name] == msg {
			return false, nil
		}
		c.errors[name] = msg
		return true, nil
	})
}

// SetErrors replaces every error with errs.
func (c *Controller) SetErrors(errs map[string]string) {
	_, _ = c.mutate(func(c *Controller) (bool, error) {
		c.errors = make(map[string]string, len(errs))
		for name, msg := range errs {
			if msg != "" {
				c.errors[name] = msg
			}
		}
		return true, nil
	})
}

// ClearErrors removes every error.
func (c *Controller) ClearErrors() {
	c.SetErrors(nil)
}

// Validate runs every field's rules followed by the form validator and
// replaces the error set. It reports whether the form is valid.
func (c *Controller) Validate() bool {
	_, valid := c.ValidateValues()
	return valid
}

// ValidateValues is Validate that also returns the values it validated,
// taken under the same lock. Submitters must hand these values on instead
// of reading Values afterwards.
func (c *Controller) ValidateValues() (map[string]any, bool) {
	var (
		values map[string]any
		valid  bool
	)
	_, _ = c.mutate(func(c *Controller) (bool, error) {
		c.errors = make(map[string]string)
		for _, name := range c.order {
			c.validateFieldLocked(name)
		}
		if c.validator != nil {
			for name, msg := range c.validator.Validate(c.valuesLocked()) {
				if msg == "" {
					continue
				}
				if _, exists := c.errors[name]; !exists {
					c.errors[name] = msg
				}
			}
		}
		valid = len(c.errors) == 0
		values = c.valuesLocked()
		return true, nil
	})
	return values, valid
}

// ValidateField re-runs the rules of a single field and, when they pass,
// the validator's message for that field.
func (c *Controller) ValidateField(name string) (string, error) {
	var msg string
	_, err := c.mutate(func(c *Controller) (bool, error) {
		if _, ok := c.fields[name]; !ok {
			return false, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		c.validateFieldLocked(name)
		if _, failed := c.errors[name]; !failed && c.validator != nil {
			if m := c.validator.Validate(c.valuesLocked())[name]; m != "" {
				c.errors[name] = m
			}
		}
		msg = c.errors[name]
		return true, nil
	})
	return msg, err
}

// Reset restores every field to its initial value and clears errors,
// dirty/touched flags and the submit count.
func (c *Controller) Reset() {
	_, _ = c.mutate(func(c *Controller) (bool, error) {
		for _, field := range c.fields {
			field.value = cloneValue(field.initial)
			field.touched = false
		}
		c.errors = make(map[string]string)
		c.submitCount = 0
		return true, nil
	})
}

// BeginSubmit flags the start of a submission. It returns false when a
// submission is already in flight.
func (c *Controller) BeginSubmit() bool {
	started, _ := c.mutate(func(c *Controller) (bool, error) {
		if c.submitting {
			return false, nil
		}
		c.submitting = true
		c.submitCount++
		return true, nil
	})
	return started
}

// EndSubmit clears the in-flight flag.
func (c *Controller) EndSubmit() {
	_, _ = c.mutate(func(c *Controller) (bool, error) {
		if !c.submitting {
			return false, nil
		}
		c.submitting = false
		return true, nil
	})
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Snapshot returns a copy of the full state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription.
func (c *Controller) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	c.listenerMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}

// mutate is the only path that writes controller state. fn reports whether
// anything changed; listeners are notified outside the lock.
func (c *Controller) mutate(fn func(*Controller) (bool, error)) (bool, error) {
	c.mu.Lock()
	changed, err := fn(c)
	var snap Snapshot
	if changed && err == nil {
		snap = c.snapshotLocked()
	}
	c.mu.Unlock()

	if changed && err == nil {
		c.notify(snap)
	}
	return changed, err
}

func (c *Controller) notify(snap Snapshot) {
	c.listenerMu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, c.listeners[id])
	}
	c.listenerMu.Unlock()

	for _, listener := range listeners {
		listener(snap)
	}
}

func (c *Controller) validateFieldLocked(name string) {
	field := c.fields[name]
	delete(c.errors, name)
	values := c.valuesLocked()
	for _, rule := range field.options.Rules {
		if rule == nil {
			continue
		}
		if msg := rule(field.value, values); msg != "" {
			c.errors[name] = msg
			return
		}
	}
}

func (c *Controller) valuesLocked() map[string]any {
	out := make(map[string]any, len(c.fields))
	for name, field := range c.fields {
		out[name] = cloneValue(field.value)
	}
	return out
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Values:      c.valuesLocked(),
		Errors:      make(map[string]string, len(c.errors)),
		Dirty:       make(map[string]bool, len(c.fields)),
		Touched:     make(map[string]bool, len(c.fields)),
		Submitting:  c.submitting,
		SubmitCount: c.submitCount,
	}
	for name, msg := range c.errors {
		snap.Errors[name] = msg
	}
	for name, field := range c.fields {
		if !reflect.DeepEqual(field.value, field.initial) {
			snap.Dirty[name] = true
		}
		if field.touched {
			snap.Touched[name] = true
		}
	}
	return snap
}

func coerce(options FieldOptions, value any) any {
	if options.Coerce != nil {
		return options.Coerce(value)
	}
	return value
}
