// Package render defines the renderer contract shared by the HTML and
// terminal front ends, a registry to select one by name, and helpers for
// server error payloads and hidden inputs.
package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Renderer turns a field list into a representation such as an HTML page or
// the JSON answers collected from a terminal session.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, fields []model.FieldConfig, options RenderOptions) ([]byte, error)
}
