// Package model defines the declarative field configuration consumed by the
// field renderers and the dynamic form. A FieldConfig names one control, its
// closed FieldType and an untyped Props bag that each renderer decodes into
// its own typed props struct (TextProps, SelectProps, ...). Configurations are
// plain data so they can be written in Go, YAML or JSON and are treated as
// immutable once a form has been built from them.
package model
