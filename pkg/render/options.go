package render

import "github.com/goliatone/go-formkit/pkg/layout"

// RenderOptions carry per-request data renderers use without changing the
// field configuration.
type RenderOptions struct {
	// Action and Method are copied onto the form element. Method defaults
	// to POST.
	Action string
	Method string
	// Values pre-populate the controls, keyed by field name.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field name
	// or error path (see MapErrorPayload).
	Errors map[string][]string
	// Hidden inputs are emitted in name order.
	Hidden map[string]string

	Layout      layout.Kind
	Columns     int
	SubmitLabel string
}
