package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	theme "github.com/goliatone/go-theme"
)

// ErrUnknownTheme is returned when a theme or variant is not in the
// manifest file.
var ErrUnknownTheme = errors.New("cli: unknown theme")

// themeFile is the manifest file read by --theme-file:
//
//	themes:
//	  - name: acme
//	    tokens: {form-input: "..."}
//	    variants:
//	      dark:
//	        tokens: {form-input: "..."}
type themeFile struct {
	Themes []themeManifest `yaml:"themes"`
}

type themeManifest struct {
	Name     string                  `yaml:"name"`
	Version  string                  `yaml:"version"`
	Tokens   map[string]string       `yaml:"tokens"`
	Variants map[string]themeVariant `yaml:"variants"`
}

type themeVariant struct {
	Tokens map[string]string `yaml:"tokens"`
}

// manifestSelector serves go-theme selections from manifests read from
// disk. An empty name selects the first manifest in the file.
type manifestSelector struct {
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*manifestSelector)(nil)

func loadThemeFile(path string) (*manifestSelector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read theme file: %w", err)
	}
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cli: decode theme file %s: %w", path, err)
	}
	if len(file.Themes) == 0 {
		return nil, fmt.Errorf("cli: theme file %s declares no themes", path)
	}

	selector := &manifestSelector{manifests: make(map[string]*theme.Manifest, len(file.Themes))}
	for _, m := range file.Themes {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("cli: theme file %s: theme name is required", path)
		}
		if _, exists := selector.manifests[name]; exists {
			return nil, fmt.Errorf("cli: theme file %s: duplicate theme %q", path, name)
		}
		manifest := &theme.Manifest{
			Name:     name,
			Version:  m.Version,
			Tokens:   m.Tokens,
			Variants: make(map[string]theme.Variant, len(m.Variants)),
		}
		for key, v := range m.Variants {
			manifest.Variants[key] = theme.Variant{Tokens: v.Tokens}
		}
		selector.manifests[name] = manifest
		if selector.fallback == "" {
			selector.fallback = name
		}
	}
	return selector, nil
}

func (s *manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.fallback
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTheme, name, strings.Join(s.names(), ", "))
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrUnknownTheme, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func (s *manifestSelector) names() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// themeSelector loads --theme-file once. It returns nil when no file is
// configured.
func (a *app) themeSelector() (theme.ThemeSelector, error) {
	if a.selectorLoaded {
		return a.selector, nil
	}
	path := strings.TrimSpace(a.v.GetString("theme.file"))
	if path == "" {
		a.selectorLoaded = true
		return nil, nil
	}
	selector, err := loadThemeFile(path)
	if err != nil {
		return nil, err
	}
	a.selector, a.selectorLoaded = selector, true
	return a.selector, nil
}
