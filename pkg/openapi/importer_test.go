package openapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func loadOperations(t *testing.T) []openapi.Operation {
	t.Helper()
	data, err := openapi.NewLoader().Load(testsupport.Context(), openapi.SourceFromFile("testdata/accounts.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ops, err := openapi.Parse(testsupport.Context(), data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ops
}

func TestParseSkipsOperationsWithoutBody(t *testing.T) {
	ops := loadOperations(t)
	var ids []string
	for _, op := range ops {
		ids = append(ids, op.ID)
	}
	if diff := cmp.Diff([]string{"createUser", "put:/users/{id}/avatar"}, ids); diff != "" {
		t.Fatalf("operation ids mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMapsPropertiesToFields(t *testing.T) {
	op, ok := openapi.Find(loadOperations(t), "createUser")
	if !ok {
		t.Fatalf("createUser not found")
	}
	if op.Method != "POST" || op.Path != "/users" || op.ContentType != "application/json" {
		t.Fatalf("unexpected operation header: %+v", op)
	}

	want := []model.FieldConfig{
		{Name: "age", Type: model.FieldTypeText, Label: "Age"},
		{Name: "bio", Type: model.FieldTypeTextarea, Label: "Bio", HelperText: "A short introduction.", Props: map[string]any{"maxLength": 500}},
		{Name: "birthday", Type: model.FieldTypeDate, Label: "Birthday"},
		{Name: "email", Type: model.FieldTypeText, Label: "Email address", Required: true, Props: map[string]any{"type": "email"}},
		{Name: "newsletter", Type: model.FieldTypeCheckbox, Label: "Newsletter"},
		{Name: "password", Type: model.FieldTypeText, Label: "Password", Required: true, Props: map[string]any{"type": "password"}},
		{Name: "role", Type: model.FieldTypeRadio, Label: "Role", Required: true, Props: map[string]any{"options": []any{
			map[string]any{"value": "admin", "label": "Admin"},
			map[string]any{"value": "editor", "label": "Editor"},
			map[string]any{"value": "viewer", "label": "Viewer"},
		}}},
		{Name: "tags", Type: model.FieldTypeSelect, Label: "Tags", Props: map[string]any{"multiple": true, "options": []any{
			map[string]any{"value": "news", "label": "News"},
			map[string]any{"value": "offers", "label": "Offers"},
		}}},
	}
	if diff := cmp.Diff(want, op.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	wantRules := map[string][]string{
		"age":      {"min:18", "max:130"},
		"email":    {"email"},
		"password": {"minLength:8"},
		"tags":     {"minItems:1", "unique"},
	}
	if diff := cmp.Diff(wantRules, op.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"role": "viewer"}, op.Defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"address", "id"}, op.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBinaryArraysBecomeMultipartFileFields(t *testing.T) {
	op, ok := openapi.Find(loadOperations(t), "put:/users/{id}/avatar")
	if !ok {
		t.Fatalf("avatar operation not found")
	}
	if op.ContentType != "multipart/form-data" {
		t.Fatalf("content type = %q", op.ContentType)
	}
	want := []model.FieldConfig{{
		Name:  "photos",
		Type:  model.FieldTypeFile,
		Label: "Photos",
		Props: map[string]any{"multiple": true, "maxFiles": 3},
	}}
	if diff := cmp.Diff(want, op.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestOperationDefinitionBuildsForm(t *testing.T) {
	op, _ := openapi.Find(loadOperations(t), "createUser")
	def := op.Definition()
	if def.Title != "Create user" || def.Action != "/users" || def.Method != "post" {
		t.Fatalf("unexpected definition header: %+v", def)
	}

	opts, err := def.FormOptions()
	if err != nil {
		t.Fatalf("form options: %v", err)
	}
	f, err := form.New(def.Fields, nil, opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if v, _ := f.Controller().Value("role"); v != "viewer" {
		t.Fatalf("role default = %v", v)
	}
	_ = f.Controller().SetValue("email", "not-an-email")
	_ = f.Controller().SetValue("password", "short")
	_ = f.Controller().SetValue("age", "12")
	result, err := f.Submit(testsupport.Context())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := map[string]string{
		"email":    "Please enter a valid email address",
		"password": "Must be at least 8 characters",
		"age":      "Must be at least 18",
		"tags":     "At least 1 item(s) required",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderSources(t *testing.T) {
	ctx := testsupport.Context()
	raw, err := os.ReadFile("testdata/accounts.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	fsys := fstest.MapFS{"specs/accounts.yaml": {Data: raw}}
	got, err := openapi.NewLoader(openapi.WithFileSystem(fsys)).Load(ctx, openapi.SourceFromFS("specs/accounts.yaml"))
	if err != nil || len(got) != len(raw) {
		t.Fatalf("fs load = %d bytes, %v", len(got), err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(raw)
	}))
	defer server.Close()

	src, err := openapi.ParseSource(server.URL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	if _, err := openapi.NewLoader().Load(ctx, src); err == nil {
		t.Fatalf("expected URL sources to be disabled without a client")
	}
	got, err = openapi.NewLoader(openapi.WithHTTPClient(server.Client())).Load(ctx, src)
	if err != nil || len(got) != len(raw) {
		t.Fatalf("http load = %d bytes, %v", len(got), err)
	}

	missing, _ := openapi.ParseSource(server.URL + "/missing.yaml")
	if _, err := openapi.NewLoader(openapi.WithHTTPClient(server.Client())).Load(ctx, missing); err == nil {
		t.Fatalf("expected error for 404")
	}

	if _, err := openapi.SourceFromURL("ftp://example.com/spec.yaml"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
}

func TestParseRejectsDocumentsWithoutBodies(t *testing.T) {
	doc := []byte(`{"openapi":"3.0.3","info":{"title":"x","version":"1"},"paths":{"/ping":{"get":{"responses":{"200":{"description":"ok"}}}}}}`)
	if _, err := openapi.Parse(context.Background(), doc); !errors.Is(err, openapi.ErrNoOperations) {
		t.Fatalf("expected ErrNoOperations, got %v", err)
	}
}
