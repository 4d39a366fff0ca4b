package form

import (
	"bytes"
	"context"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

// HTMLRenderer is the "html" render.Renderer: it builds a one-off form for
// the field list and returns its markup.
type HTMLRenderer struct {
	opts []Option
}

var _ render.Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer returns a renderer applying opts to every form it builds.
func NewHTMLRenderer(opts ...Option) *HTMLRenderer {
	return &HTMLRenderer{opts: opts}
}

// Name implements render.Renderer.
func (r *HTMLRenderer) Name() string {
	return "html"
}

// ContentType implements render.Renderer.
func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements render.Renderer.
func (r *HTMLRenderer) Render(_ context.Context, configs []model.FieldConfig, options render.RenderOptions) ([]byte, error) {
	opts := append([]Option(nil), r.opts...)
	opts = append(opts,
		WithDefaults(options.Values),
		WithLayout(options.Layout),
		WithGridColumns(options.Columns),
		WithSubmitLabel(options.SubmitLabel),
		WithAction(options.Action, options.Method),
	)
	for _, h := range render.SortedHiddenFields(options.Hidden) {
		opts = append(opts, WithHidden(h))
	}

	f, err := New(configs, nil, opts...)
	if err != nil {
		return nil, err
	}
	if len(options.Errors) > 0 {
		f.ApplyErrors(options.Errors)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
