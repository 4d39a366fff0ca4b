// Package loader reads form definitions from YAML or JSON files.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/layout"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
)

var (
	// ErrEmptyDefinition is returned for files without content.
	ErrEmptyDefinition = errors.New("loader: definition is empty")
	// ErrUnknownRuleField is returned when rules name a field the
	// definition does not declare.
	ErrUnknownRuleField = errors.New("loader: rules reference unknown field")
	// ErrDuplicateForm is returned when two definitions share an id.
	ErrDuplicateForm = errors.New("loader: duplicate form id")
)

// Definition is a parsed form file.
type Definition struct {
	ID          string
	Title       string
	Source      string
	Fields      []model.FieldConfig
	Rules       map[string][]string
	Defaults    map[string]any
	Layout      layout.Kind
	Columns     int
	SubmitLabel string
	Action      string
	Method      string
	Theme       string
	Variant     string
	Lenient     bool
}

type documentFile struct {
	ID                string         `json:"id,omitempty" yaml:"id,omitempty"`
	Title             string         `json:"title,omitempty" yaml:"title,omitempty"`
	SubmitLabel       string         `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Layout            string         `json:"layout,omitempty" yaml:"layout,omitempty"`
	Columns           int            `json:"columns,omitempty" yaml:"columns,omitempty"`
	Action            string         `json:"action,omitempty" yaml:"action,omitempty"`
	Method            string         `json:"method,omitempty" yaml:"method,omitempty"`
	Defaults          map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	LenientFieldTypes bool           `json:"lenientFieldTypes,omitempty" yaml:"lenientFieldTypes,omitempty"`
	Theme             themeFile      `json:"theme,omitempty" yaml:"theme,omitempty"`
	Fields            []fieldFile    `json:"fields" yaml:"fields"`
}

type themeFile struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

type fieldFile struct {
	model.FieldConfig `yaml:",inline"`
	Rules             []string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Parse decodes one definition. source names the file in errors and is
// used as the id when the document has none.
func Parse(data []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("%w: %s", ErrEmptyDefinition, source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Definition{}, fmt.Errorf("loader: parse %s: %w", source, err)
		}
	}
	return normaliseDocument(doc, source)
}

func normaliseDocument(doc documentFile, source string) (Definition, error) {
	kind, err := layout.ParseKind(doc.Layout)
	if err != nil {
		return Definition{}, fmt.Errorf("loader: %s: %w", source, err)
	}

	def := Definition{
		ID:          strings.TrimSpace(doc.ID),
		Title:       doc.Title,
		Source:      source,
		Defaults:    doc.Defaults,
		Layout:      kind,
		Columns:     doc.Columns,
		SubmitLabel: doc.SubmitLabel,
		Action:      doc.Action,
		Method:      doc.Method,
		Theme:       doc.Theme.Name,
		Variant:     doc.Theme.Variant,
		Lenient:     doc.LenientFieldTypes,
		Rules:       make(map[string][]string),
	}
	if def.ID == "" {
		base := path.Base(filepath.ToSlash(source))
		def.ID = strings.TrimSuffix(base, path.Ext(base))
	}

	for _, f := range doc.Fields {
		def.Fields = append(def.Fields, f.FieldConfig)
		if len(f.Rules) > 0 {
			def.Rules[f.Name] = append([]string(nil), f.Rules...)
		}
	}
	if !def.Lenient {
		if err := model.ValidateFields(def.Fields); err != nil {
			return Definition{}, fmt.Errorf("loader: %s: %w", source, err)
		}
	}
	if _, err := def.Schema(); err != nil {
		return Definition{}, fmt.Errorf("loader: %s: %w", source, err)
	}
	return def, nil
}

// Schema resolves the named rules of every field.
func (d Definition) Schema() (schema.Schema, error) {
	known := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		known[f.Name] = struct{}{}
	}
	fields := make(schema.Fields, len(d.Rules))
	for name, refs := range d.Rules {
		if _, ok := known[name]; !ok {
			return schema.Schema{}, fmt.Errorf("%w %q", ErrUnknownRuleField, name)
		}
		rules, err := schema.LookupAll(refs)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = rules
	}
	return schema.Object(fields), nil
}

// FormOptions translates the definition into form options. Callers add
// their own (logger, theme selector) after these.
func (d Definition) FormOptions() ([]form.Option, error) {
	s, err := d.Schema()
	if err != nil {
		return nil, err
	}
	opts := []form.Option{
		form.WithID(d.ID),
		form.WithDefaults(d.Defaults),
		form.WithLayout(d.Layout),
		form.WithGridColumns(d.Columns),
		form.WithSubmitLabel(d.SubmitLabel),
		form.WithAction(d.Action, d.Method),
	}
	if len(s.Names()) > 0 {
		opts = append(opts, form.WithSchema(s))
	}
	if d.Lenient {
		opts = append(opts, form.WithLenientFieldTypes())
	}
	return opts, nil
}

// MarshalYAML writes the definition in the format Parse reads.
func (d Definition) MarshalYAML() (any, error) {
	doc := documentFile{
		ID:                d.ID,
		Title:             d.Title,
		SubmitLabel:       d.SubmitLabel,
		Columns:           d.Columns,
		Action:            d.Action,
		Method:            d.Method,
		Defaults:          d.Defaults,
		LenientFieldTypes: d.Lenient,
		Theme:             themeFile{Name: d.Theme, Variant: d.Variant},
	}
	if d.Layout != "" && d.Layout != layout.Vertical {
		doc.Layout = string(d.Layout)
	}
	if len(doc.Defaults) == 0 {
		doc.Defaults = nil
	}
	for _, f := range d.Fields {
		doc.Fields = append(doc.Fields, fieldFile{FieldConfig: f, Rules: d.Rules[f.Name]})
	}
	return doc, nil
}

// LoadFile parses the definition at path.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Store holds definitions keyed by id.
type Store struct {
	definitions map[string]Definition
}

// LoadFS walks fsys and parses every JSON or YAML file. When fsys is nil
// the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{definitions: make(map[string]Definition)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", p, err)
		}
		def, err := Parse(data, p)
		if err != nil {
			return err
		}
		return store.add(def)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewStore holds the given definitions. Duplicate ids are an error.
func NewStore(defs ...Definition) (*Store, error) {
	store := &Store{definitions: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := store.add(def); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *Store) add(def Definition) error {
	if prev, exists := s.definitions[def.ID]; exists {
		return fmt.Errorf("%w: %q (%s and %s)", ErrDuplicateForm, def.ID, prev.Source, def.Source)
	}
	s.definitions[def.ID] = def
	return nil
}

// Definition returns the form with the given id.
func (s *Store) Definition(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.definitions[id]
	return def, ok
}

// IDs returns the sorted form ids.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.definitions))
	for id := range s.definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any definitions.
func (s *Store) Empty() bool {
	return s == nil || len(s.definitions) == 0
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
