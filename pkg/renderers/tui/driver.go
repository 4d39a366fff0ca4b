package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// PromptKind selects the control used to ask for a value.
type PromptKind int

const (
	// PromptText asks for one line (text, date and file path fields and
	// the search term of a searchable select).
	PromptText PromptKind = iota
	// PromptPassword asks for one line without echo.
	PromptPassword
	// PromptMultiline asks for a textarea value.
	PromptMultiline
	// PromptConfirm asks a yes/no question (checkbox fields).
	PromptConfirm
	// PromptSelect picks one entry of Options (select and radio fields).
	PromptSelect
	// PromptMultiSelect picks any entries of Options (multiple selects).
	PromptMultiSelect
)

func (k PromptKind) String() string {
	switch k {
	case PromptText:
		return "text"
	case PromptPassword:
		return "password"
	case PromptMultiline:
		return "multiline"
	case PromptConfirm:
		return "confirm"
	case PromptSelect:
		return "select"
	case PromptMultiSelect:
		return "multiselect"
	default:
		return fmt.Sprintf("PromptKind(%d)", int(k))
	}
}

// Prompt is one question asked for a field.
type Prompt struct {
	Kind    PromptKind
	Message string
	Help    string
	// Default pre-fills text kinds.
	Default string
	// Checked is the confirm default.
	Checked bool
	// Options are the labels offered by select kinds.
	Options []string
	// Selected holds indices into Options pre-selected by select kinds;
	// PromptSelect uses the first one.
	Selected []int
}

// Answer carries the reply to a Prompt. Text is set for text kinds,
// Checked for PromptConfirm and Indices for select kinds (-1 when a
// PromptSelect reply matched no option).
type Answer struct {
	Text    string
	Checked bool
	Indices []int
}

// Index returns the first selected index, or -1.
func (a Answer) Index() int {
	if len(a.Indices) == 0 {
		return -1
	}
	return a.Indices[0]
}

// PromptDriver asks prompts and shows messages. The renderer validates
// every answer through the form controller, so drivers only collect input.
type PromptDriver interface {
	Ask(ctx context.Context, p Prompt) (Answer, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns the terminal driver. Info messages go to out,
// or stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, p Prompt) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}

	var (
		answer Answer
		err    error
	)
	switch p.Kind {
	case PromptText:
		err = survey.AskOne(&survey.Input{Message: p.Message, Help: p.Help, Default: p.Default}, &answer.Text)
	case PromptPassword:
		err = survey.AskOne(&survey.Password{Message: p.Message, Help: p.Help}, &answer.Text)
	case PromptMultiline:
		err = survey.AskOne(&survey.Multiline{Message: p.Message, Help: p.Help, Default: p.Default}, &answer.Text)
	case PromptConfirm:
		err = survey.AskOne(&survey.Confirm{Message: p.Message, Help: p.Help, Default: p.Checked}, &answer.Checked)
	case PromptSelect:
		prompt := &survey.Select{Message: p.Message, Help: p.Help, Options: p.Options}
		if idx := (Answer{Indices: p.Selected}).Index(); idx >= 0 && idx < len(p.Options) {
			prompt.Default = p.Options[idx]
		}
		var picked string
		if err = survey.AskOne(prompt, &picked); err == nil {
			answer.Indices = []int{indexOf(p.Options, picked)}
		}
	case PromptMultiSelect:
		prompt := &survey.MultiSelect{Message: p.Message, Help: p.Help, Options: p.Options}
		if defaults := labelsAt(p.Options, p.Selected); len(defaults) > 0 {
			prompt.Default = defaults
		}
		var picked []string
		if err = survey.AskOne(prompt, &picked); err == nil {
			answer.Indices = indicesOf(p.Options, picked)
		}
	default:
		return Answer{}, fmt.Errorf("tui: unsupported prompt kind %s", p.Kind)
	}
	if errors.Is(err, terminal.InterruptErr) {
		return Answer{}, ErrAborted
	}
	return answer, err
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func indexOf(options []string, label string) int {
	for i, option := range options {
		if option == label {
			return i
		}
	}
	return -1
}

func indicesOf(options, labels []string) []int {
	picked := make(map[string]bool, len(labels))
	for _, label := range labels {
		picked[label] = true
	}
	var out []int
	for i, option := range options {
		if picked[option] {
			out = append(out, i)
		}
	}
	return out
}

func labelsAt(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
