// Package theme resolves the color and font values a diagram is rendered
// with (spec.md §6 "Theme supplies: font family, base font size,
// primary/secondary/tertiary colors, text colors, palette arrays for
// sections/branches").
package theme

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ColorString is a validated CSS color: either a bare name ("white") or a
// 6-digit hex code ("#f7f7f7").
type ColorString string

var colorStringRegex = regexp.MustCompile(`(?i)^(#[0-9a-f]{6}|[a-z]+)$`)

// UnmarshalYAML implements yaml.Unmarshaler for ColorString.
func (s *ColorString) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color string must be a string scalar, but got %s", value.Tag)
	}
	if !colorStringRegex.MatchString(value.Value) {
		return fmt.Errorf("invalid color string %q", value.Value)
	}
	*s = ColorString(value.Value)
	return nil
}

// Theme is the resolved set of colors and fonts a Layout is rendered with.
// It is an input to compute_layout, not something the layout engine
// derives: callers build one (directly, or via ThemeConfig.Resolve) and
// pass it in alongside the Graph.
type Theme struct {
	FontFamily   string
	BaseFontSize float64

	Primary   ColorString
	Secondary ColorString
	Tertiary  ColorString

	TextColor        ColorString
	PrimaryTextColor ColorString
	LineColor        ColorString

	// SectionPalette/BranchPalette back sequence/class-diagram-adjacent
	// bespoke diagrams that cycle through a fixed set of colors per
	// section or git branch.
	SectionPalette []ColorString
	BranchPalette  []ColorString
}

// ThemeConfig is the YAML-serializable form of a Theme (config §10/§11).
type ThemeConfig struct {
	FontFamily   string  `yaml:"fontFamily"`
	BaseFontSize float64 `yaml:"baseFontSize"`

	Primary   ColorString `yaml:"primary"`
	Secondary ColorString `yaml:"secondary"`
	Tertiary  ColorString `yaml:"tertiary"`

	TextColor        ColorString `yaml:"textColor"`
	PrimaryTextColor ColorString `yaml:"primaryTextColor"`
	LineColor        ColorString `yaml:"lineColor"`

	SectionPalette []ColorString `yaml:"sectionPalette"`
	BranchPalette  []ColorString `yaml:"branchPalette"`
}

// Default returns the built-in theme used when no ThemeConfig is supplied,
// matching mermaid's "default" theme values closely enough for layout
// purposes (exact color fidelity is the serializer's concern, not the
// layout engine's).
func Default() Theme {
	return ThemeConfig{
		FontFamily:       `"trebuchet ms", verdana, arial, sans-serif`,
		BaseFontSize:     16,
		Primary:          "#ECECFF",
		Secondary:        "#ffffde",
		Tertiary:         "#f4fdea",
		TextColor:        "#333333",
		PrimaryTextColor: "#131300",
		LineColor:        "#333333",
		SectionPalette:   []ColorString{"#ECECFF", "#ffffde", "#f4fdea"},
		BranchPalette:    []ColorString{"#ECECFF", "#ffffde", "#f4fdea"},
	}.Resolve()
}

// Resolve converts a ThemeConfig into a Theme, filling in Default()'s
// values for any field left at its zero value.
func (c ThemeConfig) Resolve() Theme {
	d := Theme{
		FontFamily:       c.FontFamily,
		BaseFontSize:     c.BaseFontSize,
		Primary:          c.Primary,
		Secondary:        c.Secondary,
		Tertiary:         c.Tertiary,
		TextColor:        c.TextColor,
		PrimaryTextColor: c.PrimaryTextColor,
		LineColor:        c.LineColor,
		SectionPalette:   c.SectionPalette,
		BranchPalette:    c.BranchPalette,
	}
	if d.FontFamily == "" {
		d.FontFamily = `"trebuchet ms", verdana, arial, sans-serif`
	}
	if d.BaseFontSize == 0 {
		d.BaseFontSize = 16
	}
	if d.Primary == "" {
		d.Primary = "#ECECFF"
	}
	if d.Secondary == "" {
		d.Secondary = "#ffffde"
	}
	if d.Tertiary == "" {
		d.Tertiary = "#f4fdea"
	}
	if d.TextColor == "" {
		d.TextColor = "#333333"
	}
	if d.PrimaryTextColor == "" {
		d.PrimaryTextColor = "#131300"
	}
	if d.LineColor == "" {
		d.LineColor = "#333333"
	}
	if len(d.SectionPalette) == 0 {
		d.SectionPalette = []ColorString{d.Primary, d.Secondary, d.Tertiary}
	}
	if len(d.BranchPalette) == 0 {
		d.BranchPalette = []ColorString{d.Primary, d.Secondary, d.Tertiary}
	}
	return d
}

// Section returns the i-th section palette color, cycling when i exceeds
// the palette's length (bespoke diagrams with more sections than palette
// colors simply repeat).
func (t Theme) Section(i int) ColorString {
	if len(t.SectionPalette) == 0 {
		return t.Primary
	}
	return t.SectionPalette[i%len(t.SectionPalette)]
}

// Branch returns the i-th branch palette color, cycling as Section does.
func (t Theme) Branch(i int) ColorString {
	if len(t.BranchPalette) == 0 {
		return t.Primary
	}
	return t.BranchPalette[i%len(t.BranchPalette)]
}
