// Package config loads the render-time Bundle (layout tunables + theme)
// from a store.Store, the same "decode strict YAML at the boundary"
// pattern the teacher's own config package uses.
package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dnswlt/layoutctl/internal/layout"
	"github.com/dnswlt/layoutctl/internal/store"
	"github.com/dnswlt/layoutctl/internal/theme"
)

// Bundle is the umbrella struct for the serialized render configuration.
// It nests the layout engine's tunables and the theme to render with.
type Bundle struct {
	Layout layout.Config     `yaml:"layout"`
	Theme  theme.ThemeConfig `yaml:"theme"`
}

// DefaultBundle returns the Bundle used when no config file is supplied.
func DefaultBundle() Bundle {
	return Bundle{
		Layout: layout.DefaultConfig(),
		Theme:  defaultThemeConfig,
	}
}

// defaultThemeConfig mirrors theme.Default(), expressed as a ThemeConfig
// so DefaultBundle() and a YAML-loaded Bundle decode to the same shape.
var defaultThemeConfig = theme.ThemeConfig{
	FontFamily:       `"trebuchet ms", verdana, arial, sans-serif`,
	BaseFontSize:     16,
	Primary:          "#ECECFF",
	Secondary:        "#ffffde",
	Tertiary:         "#f4fdea",
	TextColor:        "#333333",
	PrimaryTextColor: "#131300",
	LineColor:        "#333333",
	SectionPalette:   []theme.ColorString{"#ECECFF", "#ffffde", "#f4fdea"},
	BranchPalette:    []theme.ColorString{"#ECECFF", "#ffffde", "#f4fdea"},
}

// Load reads configPath from st and decodes it into a Bundle, starting
// from DefaultBundle() so a config file only needs to override the
// fields it cares about. Unknown fields are rejected.
func Load(st store.Store, configPath string) (*Bundle, error) {
	bs, err := st.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", configPath, err)
	}
	bundle := DefaultBundle()
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true)
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("invalid configuration YAML in %q: %w", configPath, err)
	}
	return &bundle, nil
}
