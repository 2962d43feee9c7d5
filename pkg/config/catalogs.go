package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalogs holds the taxonomies the API consumes but does not manage.
type Catalogs struct {
	Components   []string          `yaml:"components"`
	Visibility   []string          `yaml:"visibility"`
	TypeLabels   map[string]string `yaml:"type_labels"`
	Translations map[string]string `yaml:"translations"`
}

// DefaultCatalogs returns the built-in component registry and visibility keys.
func DefaultCatalogs() Catalogs {
	return Catalogs{
		Components: []string{
			"activity", "blogs", "friends", "groups", "members",
			"messages", "notifications", "settings", "xprofile",
		},
		Visibility:   []string{"public", "loggedin", "friends", "onlyme", "grouponly"},
		TypeLabels:   map[string]string{},
		Translations: map[string]string{},
	}
}

// LoadCatalogs reads the YAML catalog file at path. A missing file yields the
// defaults; keys present in the file replace the corresponding default.
func LoadCatalogs(path string) (Catalogs, error) {
	c := DefaultCatalogs()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read catalog file %s: %w", path, err)
	}
	return ParseCatalogs(data)
}

// ParseCatalogs merges a YAML document over the defaults.
func ParseCatalogs(data []byte) (Catalogs, error) {
	c := DefaultCatalogs()
	var file Catalogs
	if err := yaml.Unmarshal(data, &file); err != nil {
		return c, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(file.Components) > 0 {
		c.Components = file.Components
	}
	if len(file.Visibility) > 0 {
		c.Visibility = file.Visibility
	}
	for k, v := range file.TypeLabels {
		c.TypeLabels[k] = v
	}
	for k, v := range file.Translations {
		c.Translations[k] = v
	}
	return c, nil
}

// HasComponent reports whether id is a registered component.
func (c Catalogs) HasComponent(id string) bool {
	for _, comp := range c.Components {
		if comp == id {
			return true
		}
	}
	return false
}

func (c Catalogs) HasVisibility(key string) bool {
	for _, v := range c.Visibility {
		if v == key {
			return true
		}
	}
	return false
}
