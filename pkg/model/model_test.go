package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
)

func TestValidateFields(t *testing.T) {
	options := []any{
		map[string]any{"value": "a", "label": "A"},
	}

	cases := []struct {
		name   string
		fields []model.FieldConfig
		want   error
	}{
		{
			name: "valid",
			fields: []model.FieldConfig{
				{Name: "email", Type: model.FieldTypeText},
				{Name: "color", Type: model.FieldTypeSelect, Props: map[string]any{"options": options}},
			},
		},
		{
			name:   "missing name",
			fields: []model.FieldConfig{{Type: model.FieldTypeText}},
			want:   model.ErrFieldNameRequired,
		},
		{
			name:   "unknown type",
			fields: []model.FieldConfig{{Name: "rating", Type: "stars"}},
			want:   model.ErrUnknownFieldType,
		},
		{
			name: "duplicate",
			fields: []model.FieldConfig{
				{Name: "email", Type: model.FieldTypeText},
				{Name: "email", Type: model.FieldTypeTextarea},
			},
			want: model.ErrDuplicateFieldName,
		},
		{
			name:   "radio without options",
			fields: []model.FieldConfig{{Name: "plan", Type: model.FieldTypeRadio}},
			want:   model.ErrOptionsRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := model.ValidateFields(tc.fields)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSelectPropsOfAcceptsNumericValues(t *testing.T) {
	cfg := model.FieldConfig{
		Name: "size",
		Type: model.FieldTypeSelect,
		Props: map[string]any{
			"options": []any{
				map[string]any{"value": 1, "label": "Small"},
				map[string]any{"value": 2.5, "label": "Medium", "disabled": true},
				map[string]any{"value": "xl", "label": "Large"},
			},
			"searchable": true,
		},
	}

	props, err := model.SelectPropsOf(cfg)
	if err != nil {
		t.Fatalf("decode props: %v", err)
	}

	want := model.SelectProps{
		Options: []model.SelectOption{
			{Value: "1", Label: "Small"},
			{Value: "2.5", Label: "Medium", Disabled: true},
			{Value: "xl", Label: "Large"},
		},
		Searchable: true,
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestFilePropsOfDefaults(t *testing.T) {
	props, err := model.FilePropsOf(model.FieldConfig{Name: "avatar", Type: model.FieldTypeFile})
	if err != nil {
		t.Fatalf("decode props: %v", err)
	}
	if props.MaxSize != model.DefaultMaxFileSize {
		t.Fatalf("expected default max size, got %d", props.MaxSize)
	}
	if props.MaxFiles != 1 {
		t.Fatalf("expected default max files 1, got %d", props.MaxFiles)
	}
}

func TestTextPropsOfTextareaForcesMultiline(t *testing.T) {
	props, err := model.TextPropsOf(model.FieldConfig{Name: "bio", Type: model.FieldTypeTextarea})
	if err != nil {
		t.Fatalf("decode props: %v", err)
	}
	if !props.Multiline || props.Rows != 3 || props.InputType != "text" {
		t.Fatalf("unexpected textarea props: %+v", props)
	}
}

func TestDatePropsOfRejectsUnknownInputType(t *testing.T) {
	_, err := model.DatePropsOf(model.FieldConfig{
		Name:  "when",
		Type:  model.FieldTypeDate,
		Props: map[string]any{"type": "week"},
	})
	if err == nil {
		t.Fatalf("expected error for unsupported date type")
	}
}

func TestDisplayLabel(t *testing.T) {
	cases := map[string]string{
		"confirmPassword": "Confirm Password",
		"first_name":      "First Name",
		"address-line2":   "Address Line 2",
	}
	for name, want := range cases {
		if got := model.DisplayLabel(model.FieldConfig{Name: name}); got != want {
			t.Fatalf("DisplayLabel(%q) = %q, want %q", name, got, want)
		}
	}
	if got := model.DisplayLabel(model.FieldConfig{Name: "x", Label: "Custom"}); got != "Custom" {
		t.Fatalf("expected explicit label, got %q", got)
	}
}

func TestCreateHelpersArePassThrough(t *testing.T) {
	field := model.CreateFormField(model.FieldConfig{Name: "email", Type: model.FieldTypeText, Required: true})
	fields := model.CreateFormConfig(field, model.FieldConfig{Name: "agree", Type: model.FieldTypeCheckbox})
	if len(fields) != 2 || fields[0].Name != "email" || !fields[0].Required {
		t.Fatalf("unexpected helper output: %+v", fields)
	}
}
