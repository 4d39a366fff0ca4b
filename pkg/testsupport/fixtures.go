// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-formkit/pkg/model"
)

// SignupFields is the field list used across form tests: a required email
// and a required consent checkbox.
func SignupFields() []model.FieldConfig {
	return model.CreateFormConfig(
		model.CreateFormField(model.FieldConfig{
			Name:     "email",
			Type:     model.FieldTypeText,
			Label:    "Email",
			Required: true,
			Props:    map[string]any{"type": "email"},
		}),
		model.CreateFormField(model.FieldConfig{
			Name:     "agree",
			Type:     model.FieldTypeCheckbox,
			Label:    "I agree",
			Required: true,
		}),
	)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
