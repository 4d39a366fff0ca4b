package fields

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/state"
)

func render(t *testing.T, f Field, c *state.Controller) string {
	t.Helper()
	var b strings.Builder
	if err := f.Render(&b, View{Snapshot: c.Snapshot()}); err != nil {
		t.Fatalf("render %s: %v", f.Name(), err)
	}
	return b.String()
}

func registered(t *testing.T, f Field, opts ...state.Option) *state.Controller {
	t.Helper()
	c := state.New(opts...)
	if err := f.Register(c); err != nil {
		t.Fatalf("register %s: %v", f.Name(), err)
	}
	return c
}

func TestTextFieldRendersChromeAndCounter(t *testing.T) {
	field := NewText(Common{Name: "bio", Label: "Bio", Required: true, HelperText: "Tell us <b>briefly</b>"},
		model.TextProps{Multiline: true, MaxLength: 10})
	c := registered(t, field, state.WithDefaults(map[string]any{"bio": "héllo"}))

	html := render(t, field, c)
	for _, want := range []string{
		`<label for="bio-input" class="form-label">Bio<span class="text-red-500 ml-1">*</span></label>`,
		`<textarea id="bio-input" name="bio" rows="3"`,
		`maxlength="10"`,
		`aria-describedby="bio-input-help"`,
		`>héllo</textarea>`,
		`<p id="bio-input-help" class="form-help">Tell us <b>briefly</b></p>`,
		`<div class="form-counter" aria-live="polite">5/10</div>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in:\n%s", want, html)
		}
	}
}

func TestTextFieldErrorReplacesHelp(t *testing.T) {
	field := NewText(Common{Name: "email", Label: "Email", Required: true, HelperText: "We never share it"},
		model.TextProps{InputType: "email"})
	c := registered(t, field)
	if c.Validate() {
		t.Fatalf("expected required failure")
	}

	html := render(t, field, c)
	if !strings.Contains(html, `<p id="email-input-error" class="form-error" role="alert">This field is required</p>`) {
		t.Fatalf("missing error paragraph:\n%s", html)
	}
	if strings.Contains(html, "We never share it") {
		t.Fatalf("helper text shown alongside error:\n%s", html)
	}
	if !strings.Contains(html, `class="form-input form-input-error"`) || !strings.Contains(html, `aria-invalid="true"`) {
		t.Fatalf("expected error styling:\n%s", html)
	}
}

func TestExplicitErrorTakesPrecedence(t *testing.T) {
	field := NewDate(Common{Name: "when", Error: "Server says no"}, model.DateProps{Min: "2024-01-01"})
	c := registered(t, field)
	c.SetError("when", "controller error")

	html := render(t, field, c)
	if !strings.Contains(html, "Server says no") || strings.Contains(html, "controller error") {
		t.Fatalf("explicit error not preferred:\n%s", html)
	}
	if !strings.Contains(html, `type="date"`) || !strings.Contains(html, `min="2024-01-01"`) {
		t.Fatalf("date attributes missing:\n%s", html)
	}
}

func TestTextMaxLengthRule(t *testing.T) {
	field := NewText(Common{Name: "code"}, model.TextProps{MaxLength: 3, HideCounter: true})
	c := registered(t, field)
	if err := field.SetValue("abcd"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if msg, _ := c.ValidateField("code"); msg != "Maximum 3 characters allowed" {
		t.Fatalf("unexpected message %q", msg)
	}
	if field.Counter("abcd") != "" {
		t.Fatalf("counter should be hidden")
	}
}

func TestSelectSearchFiltersAndChooses(t *testing.T) {
	field := NewSelect(Common{Name: "country", Label: "Country"}, model.SelectProps{
		Searchable: true,
		Options: []model.SelectOption{
			{Value: "us", Label: "United States"},
			{Value: "gb", Label: "United Kingdom"},
			{Value: "fr", Label: "France"},
		},
	})
	c := registered(t, field)

	if got := field.Results(); got != nil {
		t.Fatalf("expected no results for empty term, got %v", got)
	}

	field.Search("uNiTeD")
	var labels []string
	for _, opt := range field.Results() {
		labels = append(labels, opt.Label)
	}
	if diff := cmp.Diff([]string{"United States", "United Kingdom"}, labels); diff != "" {
		t.Fatalf("filtered labels mismatch (-want +got):\n%s", diff)
	}
	if len(field.SelectProps().Options) != 3 {
		t.Fatalf("filtering mutated the option set")
	}

	if err := field.Choose("gb"); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if v, _ := c.Value("country"); v != "gb" {
		t.Fatalf("value = %v, want gb", v)
	}
	if field.Term() != "United Kingdom" {
		t.Fatalf("term = %q, want chosen label", field.Term())
	}

	html := render(t, field, c)
	if !strings.Contains(html, `<input type="hidden" name="country" value="gb">`) {
		t.Fatalf("hidden value missing:\n%s", html)
	}
	if !strings.Contains(html, `value="choose:country:gb" aria-selected="true"`) {
		t.Fatalf("chosen option not marked:\n%s", html)
	}

	if err := field.Choose("xx"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}

	field.ResetView()
	if field.Term() != "" {
		t.Fatalf("reset view kept term %q", field.Term())
	}
}

func TestSelectRendersPlaceholderAndSelection(t *testing.T) {
	field := NewSelect(Common{Name: "size"}, model.SelectProps{Options: []model.SelectOption{
		{Value: "s", Label: "Small"},
		{Value: "l", Label: "Large", Disabled: true},
	}})
	c := registered(t, field, state.WithDefaults(map[string]any{"size": "s"}))

	html := render(t, field, c)
	for _, want := range []string{
		`<option value="" disabled>Select an option...</option>`,
		`<option value="s" selected>Small</option>`,
		`<option value="l" disabled>Large</option>`,
		`aria-label="Size"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in:\n%s", want, html)
		}
	}
}

func TestMultipleSelectValues(t *testing.T) {
	field := NewSelect(Common{Name: "tags"}, model.SelectProps{Multiple: true, Options: []model.SelectOption{
		{Value: "a", Label: "A"}, {Value: "b", Label: "B"},
	}})
	c := registered(t, field)

	if v, _ := c.Value("tags"); !cmp.Equal(v, []string{}) {
		t.Fatalf("initial value = %#v", v)
	}
	if err := field.Choose("b"); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if err := field.Choose("a"); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if v, _ := c.Value("tags"); !cmp.Equal(v, []string{"b", "a"}) {
		t.Fatalf("value = %#v", v)
	}
}

func TestFileSelectRejectsTooManyFiles(t *testing.T) {
	field := NewFile(Common{Name: "docs"}, model.FileProps{Multiple: true, MaxFiles: 2})
	c := registered(t, field)
	keep := []model.File{{Name: "a.pdf", Size: 10}}
	if err := field.Select(keep); err != nil {
		t.Fatalf("select: %v", err)
	}

	err := field.Select([]model.File{{Name: "1"}, {Name: "2"}, {Name: "3"}})
	if !errors.Is(err, ErrFileRejected) {
		t.Fatalf("expected ErrFileRejected, got %v", err)
	}
	if v, _ := c.Value("docs"); !cmp.Equal(v, keep) {
		t.Fatalf("value changed after rejection: %#v", v)
	}
	if got := c.Error("docs"); got != "Maximum 2 file(s) allowed" {
		t.Fatalf("error = %q", got)
	}
}

func TestFileSelectRejectsOversizedFile(t *testing.T) {
	field := NewFile(Common{Name: "avatar"}, model.FileProps{MaxSize: 1024 * 1024})
	c := registered(t, field)

	err := field.Select([]model.File{{Name: "big.png", Size: 2 * 1024 * 1024}})
	if !errors.Is(err, ErrFileRejected) {
		t.Fatalf("expected ErrFileRejected, got %v", err)
	}
	if got := c.Error("avatar"); got != `File "big.png" is too large. Maximum size: 1MB` {
		t.Fatalf("error = %q", got)
	}
	if v, _ := c.Value("avatar"); !cmp.Equal(v, []model.File{}) {
		t.Fatalf("value changed: %#v", v)
	}

	if err := field.Select([]model.File{{Name: "ok.png", Size: 10}}); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := c.Error("avatar"); got != "" {
		t.Fatalf("error not cleared: %q", got)
	}
}

func TestFileRemoveKeepsOthers(t *testing.T) {
	field := NewFile(Common{Name: "docs"}, model.FileProps{Multiple: true, MaxFiles: 3})
	c := registered(t, field)
	if err := field.Select([]model.File{{Name: "a"}, {Name: "b"}, {Name: "c"}}); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := field.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if v, _ := c.Value("docs"); !cmp.Equal(v, []model.File{{Name: "a"}, {Name: "c"}}) {
		t.Fatalf("value = %#v", v)
	}
	if err := field.Remove(5); err == nil {
		t.Fatalf("expected out of range error")
	}

	html := render(t, field, c)
	if !strings.Contains(html, `value="remove:docs:1" aria-label="Remove c"`) {
		t.Fatalf("remove button missing:\n%s", html)
	}
	if !strings.Contains(html, "2 file(s) selected") || !strings.Contains(html, "Max files: 3") {
		t.Fatalf("summary missing:\n%s", html)
	}
}

func TestFileDropIgnoredWhenDisabled(t *testing.T) {
	field := NewFile(Common{Name: "docs", Disabled: true}, model.FileProps{})
	c := registered(t, field)
	if err := field.Drop([]model.File{{Name: "a"}}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if v, _ := c.Value("docs"); !cmp.Equal(v, []model.File{}) {
		t.Fatalf("disabled drop changed value: %#v", v)
	}
}

func TestFileInputCoversDropZone(t *testing.T) {
	field := NewFile(Common{Name: "docs"}, model.FileProps{Multiple: true, MaxFiles: 3})
	html := render(t, field, registered(t, field))

	zone := strings.Index(html, `<div data-dropzone class="relative `)
	input := strings.Index(html, `type="file"`)
	closing := strings.Index(html, `</label></div>`)
	if zone < 0 || input < zone || closing < input {
		t.Fatalf("file input not inside the drop zone:\n%s", html)
	}
	if !strings.Contains(html, `class="absolute inset-0 w-full h-full opacity-0 cursor-pointer"`) {
		t.Fatalf("file input does not cover the zone:\n%s", html)
	}
	if strings.Contains(html, "sr-only") {
		t.Fatalf("file input hidden from pointer input:\n%s", html)
	}

	disabled := NewFile(Common{Name: "docs", Disabled: true}, model.FileProps{})
	if html := render(t, disabled, registered(t, disabled)); !strings.Contains(html, "opacity-0 cursor-not-allowed") {
		t.Fatalf("disabled file input cursor:\n%s", html)
	}
}

func TestCheckboxCoercesAndRenders(t *testing.T) {
	field := NewCheckbox(Common{Name: "agree", Label: "I agree", Required: true},
		model.CheckboxProps{Description: "Read the <script>x</script>terms"})
	c := registered(t, field)

	if v, _ := c.Value("agree"); v != false {
		t.Fatalf("initial value = %#v", v)
	}
	if err := field.SetValue("on"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := c.Value("agree"); v != true {
		t.Fatalf("value = %#v", v)
	}
	if err := field.Toggle(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if v, _ := c.Value("agree"); v != false {
		t.Fatalf("value after toggle = %#v", v)
	}

	html := render(t, field, c)
	if strings.Contains(html, "<script>") {
		t.Fatalf("description not sanitised:\n%s", html)
	}
	if !strings.Contains(html, `id="agree-checkbox"`) || !strings.Contains(html, "terms") {
		t.Fatalf("unexpected markup:\n%s", html)
	}
}

func TestRadioRendersGroup(t *testing.T) {
	field := NewRadio(Common{Name: "plan", Label: "Plan"}, model.RadioProps{Inline: true, Options: []model.SelectOption{
		{Value: "free", Label: "Free"}, {Value: "pro", Label: "Pro"},
	}})
	c := registered(t, field)
	if err := field.Choose("pro"); err != nil {
		t.Fatalf("choose: %v", err)
	}

	html := render(t, field, c)
	for _, want := range []string{
		`<fieldset id="plan-radio-group"`,
		`<legend class="form-label">Plan</legend>`,
		`<div class="flex flex-wrap gap-4" role="radiogroup">`,
		`value="pro" checked`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in:\n%s", want, html)
		}
	}
	if err := field.Choose("enterprise"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestEventsRequireRegistration(t *testing.T) {
	field := NewFile(Common{Name: "docs"}, model.FileProps{})
	if err := field.Select(nil); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestStylesFromTokens(t *testing.T) {
	styles := StylesFromTokens(map[string]string{TokenInput: "input input-bordered", TokenError: " "})
	if styles.Input != "input input-bordered" {
		t.Fatalf("input override ignored: %q", styles.Input)
	}
	if styles.Error != TokenError {
		t.Fatalf("blank token should keep default, got %q", styles.Error)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		raw  string
		want Action
	}{
		{"", Action{Kind: ActionSubmit}},
		{"reset", Action{Kind: ActionReset}},
		{RemoveAction("docs", 2), Action{Kind: ActionRemove, Field: "docs", Index: 2}},
		{SearchAction("country"), Action{Kind: ActionSearch, Field: "country"}},
		{ChooseAction("country", "a:b"), Action{Kind: ActionChoose, Field: "country", Value: "a:b"}},
		{ChooseAction("doc:a", "x"), Action{Kind: ActionChoose, Field: "doc:a", Value: "x"}},
		{RemoveAction("files:2024", 1), Action{Kind: ActionRemove, Field: "files:2024", Index: 1}},
		{SearchAction("a b:c"), Action{Kind: ActionSearch, Field: "a b:c"}},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.raw)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", tt.raw, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("ParseAction(%q) mismatch (-want +got):\n%s", tt.raw, diff)
		}
	}
	for _, raw := range []string{"remove:docs:x", "choose:%zz:x", "search:"} {
		if _, err := ParseAction(raw); !errors.Is(err, ErrInvalidAction) {
			t.Fatalf("ParseAction(%q): expected ErrInvalidAction, got %v", raw, err)
		}
	}
}
