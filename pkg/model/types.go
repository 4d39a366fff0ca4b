package model

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
)

// FieldType is the closed set of controls a FieldConfig can describe.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDate     FieldType = "date"
	FieldTypeFile     FieldType = "file"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// FieldTypes lists every supported field type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeDate,
		FieldTypeFile,
		FieldTypeCheckbox,
		FieldTypeRadio,
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeDate,
		FieldTypeFile, FieldTypeCheckbox, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// FieldConfig describes one form field. Props carries type specific settings
// (see TextProps, SelectProps, DateProps, FileProps, CheckboxProps and
// RadioProps) so configurations can be loaded from YAML/JSON unchanged.
type FieldConfig struct {
	Name        string         `json:"name" yaml:"name"`
	Type        FieldType      `json:"type" yaml:"type"`
	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled    bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	HelperText  string         `json:"helperText,omitempty" yaml:"helperText,omitempty"`
	Props       map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Clone returns a copy of the config with its own Props map.
func (c FieldConfig) Clone() FieldConfig {
	out := c
	if len(c.Props) > 0 {
		out.Props = make(map[string]any, len(c.Props))
		for key, value := range c.Props {
			out.Props[key] = value
		}
	}
	return out
}

// SelectOption is a single choice offered by select and radio fields. Values
// are kept as strings because that is what a browser submits; numeric values
// in YAML/JSON configs are accepted and formatted.
type SelectOption struct {
	Value    string `json:"value" yaml:"value"`
	Label    string `json:"label" yaml:"label"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// UnmarshalJSON accepts string or numeric option values.
func (o *SelectOption) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value    any    `json:"value"`
		Label    string `json:"label"`
		Disabled bool   `json:"disabled"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Value = formatOptionValue(raw.Value)
	o.Label = raw.Label
	o.Disabled = raw.Disabled
	return nil
}

func formatOptionValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// File is an accepted upload held as a file field value.
type File struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`

	// Header points at the multipart part when the file came from an HTTP
	// request; it is nil for files constructed in code. net/http removes
	// spooled parts when that request ends, so open it before returning.
	Header *multipart.FileHeader `json:"-"`
}

// FileFromHeader converts a multipart header into a File.
func FileFromHeader(header *multipart.FileHeader) File {
	if header == nil {
		return File{}
	}
	return File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Header:      header,
	}
}
