package form

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/layout"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var templateFiles embed.FS

const formClasses = "w-full max-w-4xl mx-auto p-6 bg-white rounded-lg shadow-sm border border-gray-200"

var (
	defaultEngineOnce sync.Once
	defaultEngine     template.TemplateRenderer
	defaultEngineErr  error
)

// Templates returns the embedded shell templates, for callers that build
// their own engine and want to extend them.
func Templates() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

func shellEngine(cfg config) (template.TemplateRenderer, error) {
	if cfg.templates != nil {
		return cfg.templates, nil
	}
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = gotemplate.New(gotemplate.WithFS(Templates()))
	})
	return defaultEngine, defaultEngineErr
}

// RenderFields writes only the laid-out fields, without the form element
// and buttons.
func (f *Form) RenderFields(w io.Writer) error {
	view := fields.View{Snapshot: f.controller.Snapshot(), Styles: f.styles}
	children := make([]layout.Child, 0, len(f.renderers))
	for _, r := range f.renderers {
		r := r
		children = append(children, func(w io.Writer) error {
			return r.Render(w, view)
		})
	}
	l := layout.Layout{Kind: f.cfg.layout, Columns: f.cfg.columns}
	return l.Render(w, children...)
}

func (f *Form) renderShell(w io.Writer) error {
	engine, err := shellEngine(f.cfg)
	if err != nil {
		return fmt.Errorf("form: template engine: %w", err)
	}

	var body strings.Builder
	if err := f.RenderFields(&body); err != nil {
		return fmt.Errorf("form: render fields: %w", err)
	}

	busy := f.Busy()
	hidden := make([]map[string]any, 0, len(f.cfg.hidden))
	for _, h := range render.SortedHiddenFields(f.cfg.hidden) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}
	submitExtra := ""
	if busy || !f.controller.Snapshot().IsValid() {
		submitExtra = "bg-gray-400 hover:bg-gray-400"
	}

	data := map[string]any{
		"id":           f.id,
		"classes":      strings.TrimSpace(formClasses + " " + f.cfg.class),
		"action":       f.cfg.action,
		"method":       f.cfg.method,
		"multipart":    f.multipart,
		"busy":         busy,
		"hidden":       hidden,
		"form_errors":  f.FormErrors(),
		"fields_html":  body.String(),
		"children":     f.cfg.children,
		"action_param": fields.ActionParam,
		"submit_label": f.cfg.submitLabel,
		"submit_extra": submitExtra,
		"busy_label":   BusyLabel,
	}
	if _, err := engine.RenderTemplate("form", data, w); err != nil {
		return fmt.Errorf("form: render shell: %w", err)
	}
	return nil
}
