package loader_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/layout"
	"github.com/goliatone/go-formkit/pkg/loader"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func TestLoadFileParsesYAML(t *testing.T) {
	def, err := loader.LoadFile("testdata/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if def.ID != "signup" || def.Title != "Create your account" || def.SubmitLabel != "Create account" {
		t.Fatalf("unexpected header: %+v", def)
	}
	if def.Layout != layout.Grid || def.Columns != 2 || def.Theme != "acme" || def.Variant != "dark" {
		t.Fatalf("unexpected layout or theme: %+v", def)
	}
	var names []string
	for _, f := range def.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"email", "password", "confirmPassword", "country", "agree"}, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if def.Fields[3].Type != model.FieldTypeSelect {
		t.Fatalf("country type = %q", def.Fields[3].Type)
	}
	wantRules := map[string][]string{
		"email":           {"email"},
		"password":        {"password:10"},
		"confirmPassword": {"equals:password"},
	}
	if diff := cmp.Diff(wantRules, def.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinitionSchemaValidates(t *testing.T) {
	def, err := loader.LoadFile("testdata/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, err := def.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	got := s.Validate(map[string]any{
		"email":           "nope",
		"password":        "short",
		"confirmPassword": "other",
	})
	want := map[string]string{
		"email":           "Please enter a valid email address",
		"password":        "Password must be at least 10 characters long",
		"confirmPassword": "Must match Password",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinitionBuildsForm(t *testing.T) {
	def, err := loader.LoadFile("testdata/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts, err := def.FormOptions()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	logger, _ := logtest.NewNullLogger()
	f, err := form.New(def.Fields, nil, append(opts, form.WithLogger(logger))...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if f.ID() != "signup" {
		t.Fatalf("id = %q", f.ID())
	}
	if v, _ := f.Controller().Value("country"); v != "gb" {
		t.Fatalf("default country = %v", v)
	}

	var b strings.Builder
	if err := f.Render(&b); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`action="/signup" method="post"`, "md:grid-cols-2", ">Create account</button>"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("expected %q in:\n%s", want, b.String())
		}
	}

	_ = f.Controller().SetValue("email", "a@b.co")
	_ = f.Controller().SetValue("password", "longenough1")
	_ = f.Controller().SetValue("confirmPassword", "different")
	_ = f.Controller().SetValue("agree", true)
	result, err := f.Submit(testsupport.Context())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"confirmPassword": "Must match Password"}, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSCollectsDefinitions(t *testing.T) {
	store, err := loader.LoadFS(os.DirFS("testdata/forms"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff([]string{"contact", "upload"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	contact, ok := store.Definition("contact")
	if !ok || contact.Title != "Contact us" || contact.Layout != layout.Vertical {
		t.Fatalf("contact = %+v", contact)
	}
	props, err := model.TextPropsOf(contact.Fields[1])
	if err != nil || props.MaxLength != 500 {
		t.Fatalf("message props = %+v, %v", props, err)
	}

	upload, _ := store.Definition("upload")
	s, err := upload.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	got := s.Validate(map[string]any{"images": []model.File{}})
	if diff := cmp.Diff(map[string]string{"images": "At least 1 item(s) required"}, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	empty, err := loader.LoadFS(nil)
	if err != nil || !empty.Empty() {
		t.Fatalf("nil fs should give an empty store")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{name: "empty", data: "  \n", want: loader.ErrEmptyDefinition},
		{name: "unknown type", data: "fields:\n  - {name: a, type: color}\n", want: model.ErrUnknownFieldType},
		{name: "duplicate", data: "fields:\n  - {name: a, type: text}\n  - {name: a, type: date}\n", want: model.ErrDuplicateFieldName},
		{name: "unknown rule", data: "fields:\n  - {name: a, type: text, rules: [shiny]}\n", want: schema.ErrUnknownRule},
		{name: "bad layout", data: "layout: spiral\nfields:\n  - {name: a, type: text}\n", want: layout.ErrUnknownKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tc.data), tc.name+".yaml")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	def, err := loader.Parse([]byte("lenientFieldTypes: true\nfields:\n  - {name: a, type: color}\n"), "lenient.yaml")
	if err != nil {
		t.Fatalf("lenient parse: %v", err)
	}
	if def.ID != "lenient" || !def.Lenient {
		t.Fatalf("lenient definition = %+v", def)
	}
}

func TestDefinitionRoundTripsThroughYAML(t *testing.T) {
	def, err := loader.LoadFile("testdata/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	data, err := yaml.Marshal(def)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := loader.Parse(data, "again.yaml")
	if err != nil {
		t.Fatalf("parse marshalled definition: %v\n%s", err, data)
	}
	again.Source = def.Source
	if diff := cmp.Diff(def, again); diff != "" {
		t.Fatalf("definition changed (-want +got):\n%s", diff)
	}
}

func TestNewStoreRejectsDuplicateIDs(t *testing.T) {
	a := loader.Definition{ID: "signup", Source: "a.yaml"}
	b := loader.Definition{ID: "signup", Source: "b.yaml"}
	if _, err := loader.NewStore(a, b); !errors.Is(err, loader.ErrDuplicateForm) {
		t.Fatalf("expected ErrDuplicateForm, got %v", err)
	}

	store, err := loader.NewStore(a)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if got, ok := store.Definition("signup"); !ok || got.Source != "a.yaml" {
		t.Fatalf("definition lookup = %+v, %v", got, ok)
	}
	if diff := cmp.Diff([]string{"signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}
