package form

import (
	"strings"

	"github.com/sirupsen/logrus"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/layout"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/state"
)

const (
	// DefaultSubmitLabel is the submit button text when none is set.
	DefaultSubmitLabel = "Submit"
	// BusyLabel replaces the submit label while a submission is in flight.
	BusyLabel = "Processing..."
)

// Option configures a Form.
type Option func(*config)

type config struct {
	id          string
	defaults    map[string]any
	validator   state.Validator
	mode        state.Mode
	layout      layout.Kind
	columns     int
	submitLabel string
	loading     bool
	class       string
	children    string
	hidden      map[string]string
	action      string
	method      string
	logger      logrus.FieldLogger
	lenient     bool

	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	templates    template.TemplateRenderer
}

func defaultConfig() config {
	return config{
		mode:        state.ModeOnSubmit,
		layout:      layout.Vertical,
		columns:     layout.DefaultColumns,
		submitLabel: DefaultSubmitLabel,
		method:      "post",
	}
}

// WithID sets the form instance id. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(c *config) {
		c.id = strings.TrimSpace(id)
	}
}

// WithDefaults sets initial values keyed by field name. Fields without a
// default start empty.
func WithDefaults(values map[string]any) Option {
	return func(c *config) {
		if len(values) == 0 {
			return
		}
		if c.defaults == nil {
			c.defaults = make(map[string]any, len(values))
		}
		for k, v := range values {
			c.defaults[k] = v
		}
	}
}

// WithSchema validates the whole value map on submit, after field rules. A
// schema.Schema satisfies state.Validator.
func WithSchema(v state.Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithValidationMode controls when changes are re-validated. The default
// re-validates changed fields only after the first submit.
func WithValidationMode(mode state.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithLayout arranges the fields.
func WithLayout(kind layout.Kind) Option {
	return func(c *config) {
		if kind != "" {
			c.layout = kind
		}
	}
}

// WithGridColumns sets the column count of the grid layout.
func WithGridColumns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.columns = n
		}
	}
}

// WithSubmitLabel overrides the submit button text.
func WithSubmitLabel(label string) Option {
	return func(c *config) {
		if label = strings.TrimSpace(label); label != "" {
			c.submitLabel = label
		}
	}
}

// WithLoading starts the form in the loading state; see Form.SetLoading.
func WithLoading(loading bool) Option {
	return func(c *config) {
		c.loading = loading
	}
}

// WithClass appends classes to the form element.
func WithClass(class string) Option {
	return func(c *config) {
		c.class = strings.TrimSpace(class)
	}
}

// WithChildren inserts markup between the fields and the buttons. The
// markup is written as is.
func WithChildren(markup string) Option {
	return func(c *config) {
		c.children = markup
	}
}

// WithHidden adds hidden inputs such as CSRF tokens.
func WithHidden(fields ...render.HiddenField) Option {
	return func(c *config) {
		c.hidden = render.MergeHiddenFields(c.hidden, fields...)
	}
}

// WithAction sets the form action and method attributes.
func WithAction(action, method string) Option {
	return func(c *config) {
		c.action = strings.TrimSpace(action)
		if method = strings.TrimSpace(method); method != "" {
			c.method = strings.ToLower(method)
		}
	}
}

// WithLogger sets the logger used for skipped fields and failed
// submissions. Defaults to the logrus standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLenientFieldTypes logs and skips fields with an unknown type instead
// of failing construction.
func WithLenientFieldTypes() Option {
	return func(c *config) {
		c.lenient = true
	}
}

// WithThemeSelector resolves class tokens from a go-theme selection. Tokens
// named after the fields.Token* constants override the default classes;
// variant tokens win over manifest tokens.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(c *config) {
		c.selector = selector
		c.themeName = name
		c.themeVariant = variant
	}
}

// WithTemplateRenderer replaces the engine used for the form shell. The
// engine must provide a "form" template.
func WithTemplateRenderer(r template.TemplateRenderer) Option {
	return func(c *config) {
		c.templates = r
	}
}
