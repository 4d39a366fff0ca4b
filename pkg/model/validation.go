package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFieldNameRequired is returned for configs without a name.
	ErrFieldNameRequired = errors.New("model: field name is required")
	// ErrDuplicateFieldName is returned when two configs share a name.
	ErrDuplicateFieldName = errors.New("model: duplicate field name")
	// ErrUnknownFieldType is returned for types outside the closed set.
	ErrUnknownFieldType = errors.New("model: unknown field type")
	// ErrOptionsRequired is returned for select/radio fields without options.
	ErrOptionsRequired = errors.New("model: options are required")
)

// ValidateField checks a single configuration in isolation.
func ValidateField(cfg FieldConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return ErrFieldNameRequired
	}
	if !cfg.Type.Valid() {
		return fmt.Errorf("%w %q for field %q", ErrUnknownFieldType, cfg.Type, cfg.Name)
	}

	switch cfg.Type {
	case FieldTypeSelect:
		props, err := SelectPropsOf(cfg)
		if err != nil {
			return err
		}
		if len(props.Options) == 0 {
			return fmt.Errorf("%w for select field %q", ErrOptionsRequired, cfg.Name)
		}
	case FieldTypeRadio:
		props, err := RadioPropsOf(cfg)
		if err != nil {
			return err
		}
		if len(props.Options) == 0 {
			return fmt.Errorf("%w for radio field %q", ErrOptionsRequired, cfg.Name)
		}
	case FieldTypeText, FieldTypeTextarea:
		if _, err := TextPropsOf(cfg); err != nil {
			return err
		}
	case FieldTypeDate:
		if _, err := DatePropsOf(cfg); err != nil {
			return err
		}
	case FieldTypeFile:
		if _, err := FilePropsOf(cfg); err != nil {
			return err
		}
	case FieldTypeCheckbox:
		if _, err := CheckboxPropsOf(cfg); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFields checks every config and the uniqueness of names.
func ValidateFields(fields []FieldConfig) error {
	seen := make(map[string]struct{}, len(fields))
	for idx, cfg := range fields {
		if err := ValidateField(cfg); err != nil {
			return fmt.Errorf("field %d: %w", idx, err)
		}
		if _, exists := seen[cfg.Name]; exists {
			return fmt.Errorf("%w %q", ErrDuplicateFieldName, cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
	}
	return nil
}
