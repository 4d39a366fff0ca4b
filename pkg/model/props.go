package model

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxFileSize is applied when a file field does not set maxSize.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// TextProps configures text and textarea fields.
type TextProps struct {
	// InputType is one of text, email, password, tel or url.
	InputType   string `json:"type,omitempty"`
	Multiline   bool   `json:"multiline,omitempty"`
	Rows        int    `json:"rows,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
	HideCounter bool   `json:"hideCounter,omitempty"`
	ClassName   string `json:"className,omitempty"`
}

// SelectProps configures select fields.
type SelectProps struct {
	Options    []SelectOption `json:"options,omitempty"`
	Multiple   bool           `json:"multiple,omitempty"`
	Searchable bool           `json:"searchable,omitempty"`
	ClassName  string         `json:"className,omitempty"`
}

// DateProps configures date, datetime-local and time inputs. Min and Max are
// passed to the control verbatim.
type DateProps struct {
	InputType string `json:"type,omitempty"`
	Min       string `json:"min,omitempty"`
	Max       string `json:"max,omitempty"`
	ClassName string `json:"className,omitempty"`
}

// FileProps configures file fields. MaxSize is in bytes.
type FileProps struct {
	Accept    string `json:"accept,omitempty"`
	Multiple  bool   `json:"multiple,omitempty"`
	MaxSize   int64  `json:"maxSize,omitempty"`
	MaxFiles  int    `json:"maxFiles,omitempty"`
	ClassName string `json:"className,omitempty"`
}

// CheckboxProps configures checkbox fields.
type CheckboxProps struct {
	Description string `json:"description,omitempty"`
	ClassName   string `json:"className,omitempty"`
}

// RadioProps configures radio groups.
type RadioProps struct {
	Options   []SelectOption `json:"options,omitempty"`
	Inline    bool           `json:"inline,omitempty"`
	ClassName string         `json:"className,omitempty"`
}

// DecodeProps copies the untyped props bag into dst (a pointer to one of the
// *Props structs). Unknown keys are ignored.
func DecodeProps(props map[string]any, dst any) error {
	if len(props) == 0 {
		return nil
	}
	payload, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("model: marshal props: %w", err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("model: decode props: %w", err)
	}
	return nil
}

// TextPropsOf decodes text props, forcing Multiline for textarea fields.
func TextPropsOf(cfg FieldConfig) (TextProps, error) {
	var props TextProps
	if err := DecodeProps(cfg.Props, &props); err != nil {
		return TextProps{}, fieldError(cfg.Name, err)
	}
	if cfg.Type == FieldTypeTextarea {
		props.Multiline = true
	}
	if props.InputType == "" {
		props.InputType = "text"
	}
	if props.Rows <= 0 {
		props.Rows = 3
	}
	return props, nil
}

// SelectPropsOf decodes select props.
func SelectPropsOf(cfg FieldConfig) (SelectProps, error) {
	var props SelectProps
	if err := DecodeProps(cfg.Props, &props); err != nil {
		return SelectProps{}, fieldError(cfg.Name, err)
	}
	return props, nil
}

// DatePropsOf decodes date props, defaulting the input type to date.
func DatePropsOf(cfg FieldConfig) (DateProps, error) {
	var props DateProps
	if err := DecodeProps(cfg.Props, &props); err != nil {
		return DateProps{}, fieldError(cfg.Name, err)
	}
	switch props.InputType {
	case "date", "datetime-local", "time":
	case "":
		props.InputType = "date"
	default:
		return DateProps{}, fieldError(cfg.Name, fmt.Errorf("unsupported date input type %q", props.InputType))
	}
	return props, nil
}

// FilePropsOf decodes file props and applies the size/count defaults.
func FilePropsOf(cfg FieldConfig) (FileProps, error) {
	var props FileProps
	if err := DecodeProps(cfg.Props, &props); err != nil {
		return FileProps{}, fieldError(cfg.Name, err)
	}
	if props.MaxSize <= 0 {
		props.MaxSize = DefaultMaxFileSize
	}
	if props.MaxFiles <= 0 {
		props.MaxFiles = 1
	}
	return props, nil
}

// CheckboxPropsOf decodes checkbox props.
func CheckboxPropsOf(cfg FieldConfig) (CheckboxProps, error) {
	var props CheckboxProps
	if err := DecodeProps(cfg.Props, &props); err != nil {
		return CheckboxProps{}, fieldError(cfg.Name, err)
	}
	return props, nil
}

// RadioPropsOf decodes radio props.
func RadioPropsOf(cfg FieldConfig) (RadioProps, error) {
	var props RadioProps
	if err := DecodeProps(cfg.Props, &props); err != nil {
		return RadioProps{}, fieldError(cfg.Name, err)
	}
	return props, nil
}

func fieldError(name string, err error) error {
	return fmt.Errorf("model: field %q: %w", name, err)
}
