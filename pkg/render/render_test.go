package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	fields := []model.FieldConfig{
		{Name: "name", Type: model.FieldTypeText},
		{Name: "email", Type: model.FieldTypeText},
		{Name: "tags", Type: model.FieldTypeSelect},
	}
	payload := map[string][]string{
		"/body/name":            {"Name is required", " Name is required "},
		"data.email":            {"Email invalid"},
		"$.body.tags[0]":        {"Tags must be unique"},
		"non_field_errors":      {"Form level error"},
		"request/body/unknown":  {"Unknown field"},
		"owner.email":           {"Nested under unknown parent"},
		"":                      {"Unscoped"},
		"email~1ignored/blanks": {"  "},
	}

	mapped := render.MapErrorPayload(fields, payload)

	wantFields := map[string][]string{
		"name":  {"Name is required"},
		"email": {"Email invalid"},
		"tags":  {"Tags must be unique"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"Form level error", "Nested under unknown parent", "Unknown field", "Unscoped"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"name": "Name is required", "email": "Email invalid", "tags": "Tags must be unique"}, mapped.First()); diff != "" {
		t.Fatalf("first messages mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" existing ": "keep", "": "ignored"},
		render.CSRFToken("_csrf", "token123"),
		render.VersionField("version", 4),
		render.Hidden("  ", "skip"),
	)
	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(want, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
	if render.SortedHiddenFields(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, []model.FieldConfig, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry, err := render.NewRegistry(stubRenderer{"tui"}, stubRenderer{"html"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := registry.Register(stubRenderer{"html"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := registry.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	r, err := registry.Get("html")
	if err != nil || r.Name() != "html" {
		t.Fatalf("get html: %v %v", r, err)
	}
}
