package textmetrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// systemFontSource resolves a normalized family name to a font file by
// walking the platform's usual font directories, the same best-effort
// system-font-discovery fontdb does on the original implementation's side;
// Go has no equivalent library in this module's dependency set, so this is
// a small, deliberately narrow stand-in (see DESIGN.md).
type systemFontSource struct{}

func (systemFontSource) Load(family string) ([]byte, error) {
	path, ok := findFontFile(family)
	if !ok {
		return nil, fmt.Errorf("textmetrics: no font file found for family %q", family)
	}
	return os.ReadFile(path)
}

func fontSearchDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", os.ExpandEnv("$HOME/Library/Fonts")}
	case "windows":
		return []string{os.ExpandEnv("${SystemRoot}\\Fonts")}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", os.ExpandEnv("$HOME/.local/share/fonts"), os.ExpandEnv("$HOME/.fonts")}
	}
}

// genericCandidates lists filename fragments to look for, in order of
// preference, for each generic family name this package maps to.
var genericCandidates = map[string][]string{
	"sans-serif": {"dejavusans", "arial", "helvetica", "liberationsans", "notosans", "opensans"},
	"serif":      {"dejavuserif", "times", "georgia", "liberationserif", "notoserif"},
	"monospace":  {"dejavusansmono", "consola", "couriernew", "liberationmono", "notomono"},
	"cursive":    {"comicsans", "brushscript"},
	"fantasy":    {"papyrus", "impact"},
}

// findFontFile searches the platform font directories for a .ttf/.otf file
// whose name matches family (or one of its generic-family candidates, if
// family itself is a generic name).
func findFontFile(family string) (string, bool) {
	candidates := []string{family}
	if alts, ok := genericCandidates[family]; ok {
		candidates = append(candidates, alts...)
	}

	var found string
	for _, dir := range fontSearchDirs() {
		if dir == "" {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || found != "" {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), ext))
			base = strings.ReplaceAll(base, " ", "")
			base = strings.ReplaceAll(base, "-", "")
			base = strings.ReplaceAll(base, "_", "")
			for _, c := range candidates {
				c = strings.ReplaceAll(strings.ToLower(c), " ", "")
				if c != "" && strings.Contains(base, c) {
					found = path
					return filepath.SkipAll
				}
			}
			return nil
		})
		if found != "" {
			break
		}
	}
	if found == "" {
		return "", false
	}
	return found, true
}
