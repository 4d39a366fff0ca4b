package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/loader"
	"github.com/goliatone/go-formkit/pkg/model"
)

// WidgetExtension picks a control for a property: "textarea", "radio" or
// "searchable".
const WidgetExtension = "x-formkit-widget"

// defaultMaxFiles caps array-of-binary properties without maxItems.
const defaultMaxFiles = 10

// ErrNoOperations is returned when a document has no operation with a
// request body.
var ErrNoOperations = errors.New("openapi: no operations with a request body")

// Operation is the form imported from one operation's request body.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	ContentType string
	Fields      []model.FieldConfig
	Rules       map[string][]string
	Defaults    map[string]any
	// Skipped lists properties no field type can represent (objects,
	// arrays of objects, read-only values).
	Skipped []string
}

// Parse reads an OpenAPI 3 document and returns the operations that accept
// a request body, sorted by id. Operations without an operationId get
// "<method>:<path>".
func Parse(ctx context.Context, data []byte) ([]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	kin := &openapi3.Loader{Context: ctx}
	spec, err := kin.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	var operations []Operation
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
					continue
				}
				operations = append(operations, convertOperation(method, path, op))
			}
		}
	}
	if len(operations) == 0 {
		return nil, ErrNoOperations
	}
	sort.Slice(operations, func(i, j int) bool {
		return operations[i].ID < operations[j].ID
	})
	return operations, nil
}

// Find returns the operation with the given id.
func Find(operations []Operation, id string) (Operation, bool) {
	for _, op := range operations {
		if op.ID == id {
			return op, true
		}
	}
	return Operation{}, false
}

func convertOperation(method, path string, op *openapi3.Operation) Operation {
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	out := Operation{
		ID:          id,
		Method:      strings.ToUpper(method),
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
	}

	contentType, media := pickMedia(op.RequestBody.Value.Content)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return out
	}
	out.ContentType = contentType
	out.Fields, out.Rules, out.Defaults, out.Skipped = FieldsFromSchema(media.Schema.Value)
	for _, f := range out.Fields {
		if f.Type == model.FieldTypeFile {
			out.ContentType = "multipart/form-data"
			break
		}
	}
	return out
}

func pickMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	for _, contentType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[contentType]; ok {
			return contentType, mt
		}
	}
	types := make([]string, 0, len(content))
	for contentType := range content {
		types = append(types, contentType)
	}
	sort.Strings(types)
	if len(types) == 0 {
		return "", nil
	}
	return types[0], content[types[0]]
}

// FieldsFromSchema maps the properties of an object schema to fields,
// sorted by name, with their named rules and defaults.
func FieldsFromSchema(s *openapi3.Schema) ([]model.FieldConfig, map[string][]string, map[string]any, []string) {
	var (
		fields   []model.FieldConfig
		rules    = make(map[string][]string)
		defaults = make(map[string]any)
		skipped  []string
	)
	if s == nil {
		return nil, rules, defaults, nil
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := s.Properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			skipped = append(skipped, name)
			continue
		}
		prop := ref.Value
		cfg, propRules, ok := fieldFromProperty(name, prop)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		cfg.Required = required[name]
		fields = append(fields, cfg)
		if len(propRules) > 0 {
			rules[name] = propRules
		}
		if prop.Default != nil {
			defaults[name] = defaultValue(prop.Default)
		}
	}
	return fields, rules, defaults, skipped
}

func fieldFromProperty(name string, s *openapi3.Schema) (model.FieldConfig, []string, bool) {
	cfg := model.FieldConfig{
		Name:       name,
		Label:      s.Title,
		HelperText: s.Description,
	}
	if cfg.Label == "" {
		cfg.Label = model.HumanizeName(name)
	}
	widget, _ := s.Extensions[WidgetExtension].(string)

	switch primaryType(s.Type) {
	case openapi3.TypeBoolean:
		cfg.Type = model.FieldTypeCheckbox
		return cfg, nil, true
	case openapi3.TypeInteger, openapi3.TypeNumber:
		cfg.Type = model.FieldTypeText
		var rules []string
		if s.Min != nil {
			rules = append(rules, "min:"+formatNumber(*s.Min))
		}
		if s.Max != nil {
			rules = append(rules, "max:"+formatNumber(*s.Max))
		}
		return cfg, rules, true
	case openapi3.TypeString:
		return stringField(cfg, s, widget)
	case openapi3.TypeArray:
		return arrayField(cfg, s)
	default:
		return cfg, nil, false
	}
}

func stringField(cfg model.FieldConfig, s *openapi3.Schema, widget string) (model.FieldConfig, []string, bool) {
	if len(s.Enum) > 0 {
		cfg.Type = model.FieldTypeSelect
		props := map[string]any{"options": enumOptions(s.Enum)}
		switch widget {
		case "radio":
			cfg.Type = model.FieldTypeRadio
		case "searchable":
			props["searchable"] = true
		}
		cfg.Props = props
		return cfg, nil, true
	}

	switch s.Format {
	case "binary":
		cfg.Type = model.FieldTypeFile
		return cfg, nil, true
	case "date":
		cfg.Type = model.FieldTypeDate
		return cfg, nil, true
	case "date-time":
		cfg.Type = model.FieldTypeDate
		cfg.Props = map[string]any{"type": "datetime-local"}
		return cfg, nil, true
	case "time":
		cfg.Type = model.FieldTypeDate
		cfg.Props = map[string]any{"type": "time"}
		return cfg, nil, true
	}

	cfg.Type = model.FieldTypeText
	props := make(map[string]any)
	var rules []string
	switch s.Format {
	case "email":
		props["type"] = "email"
		rules = append(rules, "email")
	case "uri", "url":
		props["type"] = "url"
		rules = append(rules, "url")
	case "password":
		props["type"] = "password"
	case "phone", "tel":
		props["type"] = "tel"
		rules = append(rules, "phone")
	}
	if widget == "textarea" {
		cfg.Type = model.FieldTypeTextarea
	}
	if s.MaxLength != nil {
		props["maxLength"] = int(*s.MaxLength)
	}
	if s.MinLength > 0 {
		rules = append(rules, "minLength:"+strconv.FormatUint(s.MinLength, 10))
	}
	if s.Pattern != "" {
		rules = append(rules, "pattern:"+s.Pattern)
	}
	if len(props) > 0 {
		cfg.Props = props
	}
	return cfg, rules, true
}

func arrayField(cfg model.FieldConfig, s *openapi3.Schema) (model.FieldConfig, []string, bool) {
	if s.Items == nil || s.Items.Value == nil {
		return cfg, nil, false
	}
	items := s.Items.Value
	var rules []string
	if s.MinItems > 0 {
		rules = append(rules, "minItems:"+strconv.FormatUint(s.MinItems, 10))
	}

	switch {
	case primaryType(items.Type) == openapi3.TypeString && len(items.Enum) > 0:
		cfg.Type = model.FieldTypeSelect
		cfg.Props = map[string]any{"options": enumOptions(items.Enum), "multiple": true}
		if s.UniqueItems {
			rules = append(rules, "unique")
		}
		return cfg, rules, true
	case primaryType(items.Type) == openapi3.TypeString && items.Format == "binary":
		maxFiles := defaultMaxFiles
		if s.MaxItems != nil {
			maxFiles = int(*s.MaxItems)
		}
		cfg.Type = model.FieldTypeFile
		cfg.Props = map[string]any{"multiple": true, "maxFiles": maxFiles}
		return cfg, rules, true
	default:
		return cfg, nil, false
	}
}

// primaryType returns the first type other than "null".
func primaryType(types *openapi3.Types) string {
	for _, t := range types.Slice() {
		if t != openapi3.TypeNull {
			return t
		}
	}
	return ""
}

func enumOptions(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		s := fmt.Sprint(v)
		out = append(out, map[string]any{"value": s, "label": model.HumanizeName(s)})
	}
	return out
}

func defaultValue(v any) any {
	switch n := v.(type) {
	case float64:
		return formatNumber(n)
	case []any:
		out := make([]string, 0, len(n))
		for _, item := range n {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return v
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Definition converts the operation into a form definition, e.g. to be
// written out as YAML.
func (op Operation) Definition() loader.Definition {
	method := strings.ToLower(op.Method)
	if method != "get" {
		method = "post"
	}
	title := op.Summary
	if title == "" {
		title = model.HumanizeName(op.ID)
	}
	def := loader.Definition{
		ID:       op.ID,
		Title:    title,
		Fields:   make([]model.FieldConfig, len(op.Fields)),
		Rules:    make(map[string][]string, len(op.Rules)),
		Defaults: make(map[string]any, len(op.Defaults)),
		Action:   op.Path,
		Method:   method,
	}
	for i, f := range op.Fields {
		def.Fields[i] = f.Clone()
	}
	for k, v := range op.Rules {
		def.Rules[k] = append([]string(nil), v...)
	}
	for k, v := range op.Defaults {
		def.Defaults[k] = v
	}
	return def
}
