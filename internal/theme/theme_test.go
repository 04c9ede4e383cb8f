package theme

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestColorString_UnmarshalYAML(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"white", false},
		{"#f7f7f7", false},
		{"#F7F7F7", false},
		{"123", true},
		{"#ggg", true},
		{"not a color", true},
	}
	for _, c := range cases {
		var s ColorString
		err := yaml.Unmarshal([]byte(c.in), &s)
		if (err != nil) != c.wantErr {
			t.Errorf("Unmarshal(%q) err=%v, wantErr=%v", c.in, err, c.wantErr)
		}
	}
}

func TestResolve_FillsDefaults(t *testing.T) {
	got := ThemeConfig{Primary: "#112233"}.Resolve()
	if got.Primary != "#112233" {
		t.Errorf("Primary = %q, want override preserved", got.Primary)
	}
	if got.Secondary == "" {
		t.Errorf("expected Secondary to be filled with a default")
	}
	if got.FontFamily == "" {
		t.Errorf("expected FontFamily to be filled with a default")
	}
	if len(got.SectionPalette) == 0 {
		t.Errorf("expected SectionPalette to be filled with a default")
	}
}

func TestDefault_IsSelfConsistent(t *testing.T) {
	d := Default()
	if !strings.Contains(d.FontFamily, "sans-serif") {
		t.Errorf("FontFamily = %q, expected a sans-serif fallback", d.FontFamily)
	}
	if d.Section(0) != d.SectionPalette[0] {
		t.Errorf("Section(0) should return the first palette entry")
	}
	if d.Section(len(d.SectionPalette)) != d.SectionPalette[0] {
		t.Errorf("Section should cycle past the end of the palette")
	}
}
