package state_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

func requiredRule(value any, _ map[string]any) string {
	if s, _ := value.(string); s == "" {
		return "This field is required"
	}
	return ""
}

func TestControllerRegisterUsesDefaults(t *testing.T) {
	c := state.New(state.WithDefaults(map[string]any{"name": "Ada"}))
	if err := c.Register("name", state.FieldOptions{Empty: ""}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register("email", state.FieldOptions{Empty: ""}); err != nil {
		t.Fatalf("register: %v", err)
	}

	want := map[string]any{"name": "Ada", "email": ""}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := c.Register("name", state.FieldOptions{}); !errors.Is(err, state.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if got := c.Names(); !cmp.Equal(got, []string{"name", "email"}) {
		t.Fatalf("unexpected registration order: %v", got)
	}
}

func TestControllerSetValueTracksDirtyAndTouched(t *testing.T) {
	c := state.New()
	if err := c.Register("name", state.FieldOptions{Empty: ""}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := c.SetValue("name", "Grace"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	snap := c.Snapshot()
	if !snap.Dirty["name"] || !snap.Touched["name"] {
		t.Fatalf("expected dirty and touched, got %+v", snap)
	}

	if err := c.SetValue("name", ""); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if c.Snapshot().IsDirty() {
		t.Fatalf("expected field to be clean after restoring initial value")
	}

	if err := c.SetValue("missing", "x"); !errors.Is(err, state.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestControllerValidateCombinesRulesAndValidator(t *testing.T) {
	validator := state.ValidatorFunc(func(values map[string]any) map[string]string {
		return map[string]string{
			"name":  "schema message is shadowed by the rule",
			"email": "Please enter a valid email address",
		}
	})
	c := state.New(state.WithValidator(validator))
	for _, name := range []string{"name", "email"} {
		if err := c.Register(name, state.FieldOptions{Empty: "", Rules: []state.Rule{requiredRule}}); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	_ = c.SetValue("email", "not-an-email")

	if c.Validate() {
		t.Fatalf("expected validation to fail")
	}
	want := map[string]string{
		"name":  "This field is required",
		"email": "Please enter a valid email address",
	}
	if diff := cmp.Diff(want, c.Snapshot().Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerValidateValuesReturnsValidatedSnapshot(t *testing.T) {
	c := state.New(state.WithDefaults(map[string]any{"email": "a@b.co"}))
	if err := c.Register("email", state.FieldOptions{Empty: "", Rules: []state.Rule{requiredRule}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	var once sync.Once
	c.Subscribe(func(state.Snapshot) {
		once.Do(func() { _ = c.SetValue("email", "") })
	})

	values, valid := c.ValidateValues()
	if !valid {
		t.Fatalf("expected valid form")
	}
	if diff := cmp.Diff(map[string]any{"email": "a@b.co"}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if v, _ := c.Value("email"); v != "" {
		t.Fatalf("listener change not applied: %#v", v)
	}

	values, valid = c.ValidateValues()
	if valid || values["email"] != "" {
		t.Fatalf("second validation = %v, %#v", valid, values)
	}
}

func TestControllerRevalidatesAfterFirstSubmit(t *testing.T) {
	c := state.New()
	if err := c.Register("name", state.FieldOptions{Empty: "", Rules: []state.Rule{requiredRule}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_ = c.SetValue("name", "x")
	_ = c.SetValue("name", "")
	if c.Error("name") != "" {
		t.Fatalf("expected no validation before submit in ModeOnSubmit")
	}

	if !c.BeginSubmit() {
		t.Fatalf("expected submission to start")
	}
	c.Validate()
	c.EndSubmit()
	if c.Error("name") == "" {
		t.Fatalf("expected required error after submit")
	}

	_ = c.SetValue("name", "fixed")
	if msg := c.Error("name"); msg != "" {
		t.Fatalf("expected error to clear on change after submit, got %q", msg)
	}
}

func TestControllerModeOnChange(t *testing.T) {
	c := state.New(state.WithMode(state.ModeOnChange))
	if err := c.Register("name", state.FieldOptions{Empty: "x", Rules: []state.Rule{requiredRule}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_ = c.SetValue("name", "")
	if c.Error("name") == "" {
		t.Fatalf("expected on-change validation")
	}
}

func TestControllerResetRestoresInitialValues(t *testing.T) {
	c := state.New(state.WithDefaults(map[string]any{"files": []model.File{{Name: "a.txt", Size: 1}}}))
	if err := c.Register("files", state.FieldOptions{Empty: []model.File{}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register("agree", state.FieldOptions{Empty: false}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_ = c.SetValue("files", []model.File{})
	_ = c.SetValue("agree", true)
	c.SetError("agree", "boom")

	c.Reset()

	snap := c.Snapshot()
	want := map[string]any{
		"files": []model.File{{Name: "a.txt", Size: 1}},
		"agree": false,
	}
	if diff := cmp.Diff(want, snap.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(snap.Errors) != 0 || snap.IsDirty() || len(snap.Touched) != 0 {
		t.Fatalf("expected clean state after reset, got %+v", snap)
	}
}

func TestControllerCoerce(t *testing.T) {
	c := state.New(state.WithDefaults(map[string]any{"agree": nil}))
	toBool := func(v any) any {
		b, _ := v.(bool)
		return b
	}
	if err := c.Register("agree", state.FieldOptions{Empty: false, Coerce: toBool}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if value, _ := c.Value("agree"); value != false {
		t.Fatalf("expected coerced false, got %#v", value)
	}
}

func TestControllerSubscribe(t *testing.T) {
	c := state.New()
	if err := c.Register("name", state.FieldOptions{Empty: ""}); err != nil {
		t.Fatalf("register: %v", err)
	}

	var (
		mu    sync.Mutex
		seen  []string
		calls int
	)
	unsubscribe := c.Subscribe(func(s state.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		seen = append(seen, s.Values["name"].(string))
	})

	_ = c.SetValue("name", "a")
	_ = c.SetValue("name", "b")
	unsubscribe()
	_ = c.SetValue("name", "c")

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerBeginSubmitSerialises(t *testing.T) {
	c := state.New()
	if !c.BeginSubmit() {
		t.Fatalf("expected first submit to start")
	}
	if c.BeginSubmit() {
		t.Fatalf("expected concurrent submit to be rejected")
	}
	c.EndSubmit()
	if !c.BeginSubmit() {
		t.Fatalf("expected submit after EndSubmit")
	}
}

func TestControllerValidateFieldConsultsValidator(t *testing.T) {
	validator := state.ValidatorFunc(func(values map[string]any) map[string]string {
		if values["confirm"] != values["password"] {
			return map[string]string{"confirm": "Passwords don't match"}
		}
		return nil
	})
	c := state.New(state.WithValidator(validator))
	for _, name := range []string{"password", "confirm"} {
		if err := c.Register(name, state.FieldOptions{Empty: "", Rules: []state.Rule{requiredRule}}); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	_ = c.SetValue("password", "secret12")

	if msg, _ := c.ValidateField("password"); msg != "" {
		t.Fatalf("password error = %q", msg)
	}
	if msg, _ := c.ValidateField("confirm"); msg != "This field is required" {
		t.Fatalf("rule should run before the validator, got %q", msg)
	}
	_ = c.SetValue("confirm", "secret13")
	if msg, _ := c.ValidateField("confirm"); msg != "Passwords don't match" {
		t.Fatalf("confirm error = %q", msg)
	}
	if _, err := c.ValidateField("missing"); !errors.Is(err, state.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}
