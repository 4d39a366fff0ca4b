package model

// CreateFormField returns cfg unchanged. It exists so literal configs read
// the same way in Go as in a form definition file.
func CreateFormField(cfg FieldConfig) FieldConfig {
	return cfg
}

// CreateFormConfig returns fields unchanged.
func CreateFormConfig(fields ...FieldConfig) []FieldConfig {
	return fields
}
