// Package textmetrics measures the rendered pixel width of a line of text
// for a given font family and size (spec.md §4.1).
//
// Two measurement paths are supported. The fast path sums a per-character
// width factor and is only used for pure-ASCII strings when the caller
// opts in (config field fast_text_metrics, spec.md §6). The precise path
// loads the matching font file once per family, maps each rune to a glyph
// id, and reads its horizontal advance from the font's own tables, scaled
// by size/units_per_em. A failed font load never propagates an error: it
// falls back to the fast path for that family, permanently, for the life
// of the process (spec.md §5: "a failed font load falls back to the fast
// ASCII path").
package textmetrics

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// fallbackAdvance is the width (in multiples of font size) attributed to a
// glyph the loaded font doesn't contain.
const fallbackAdvance = 0.56

// faceCacheSize bounds the number of distinct font families kept parsed in
// memory at once. Diagrams rarely reference more than a handful of
// families; this is generous headroom, not a tuned limit.
const faceCacheSize = 64

// Source loads the raw bytes of a font file best matching the given CSS
// font-family value. Implementations may return an error for any family
// they cannot resolve; Metrics treats that as permanent for the family and
// falls back to the fast path.
type Source interface {
	Load(family string) ([]byte, error)
}

// face is the parsed, cached form of one font family.
type face struct {
	font *sfnt.Font

	mu       sync.Mutex // guards buf and the derived caches below
	buf      sfnt.Buffer
	glyphs   map[rune]sfnt.GlyphIndex
	advances map[sfnt.GlyphIndex]float64 // pixel advance at fixedPPEm
}

func newFace(data []byte) (*face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	var buf sfnt.Buffer
	return &face{
		font:     f,
		buf:      buf,
		glyphs:   make(map[rune]sfnt.GlyphIndex),
		advances: make(map[sfnt.GlyphIndex]float64),
	}, nil
}

// advanceUnits returns r's pixel advance at fixedPPEm, and whether r maps
// to a glyph in this face at all.
func (f *face) advanceUnits(r rune) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gi, ok := f.glyphs[r]
	if !ok {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil || idx == 0 {
			f.glyphs[r] = 0
			return 0, false
		}
		f.glyphs[r] = idx
		gi = idx
	}
	if gi == 0 {
		return 0, false
	}
	if adv, ok := f.advances[gi]; ok {
		return adv, true
	}
	fixedAdv, err := f.font.GlyphAdvance(&f.buf, gi, fixedPPEm, font.HintingNone)
	if err != nil {
		f.advances[gi] = 0
		return 0, false
	}
	adv := float64(fixedAdv) / 64 // 26.6 fixed point, in the same units as fixedPPEm
	f.advances[gi] = adv
	return adv, true
}

// fixedPPEm is the pixels-per-em used when querying glyph advances; we
// query at a fixed resolution and rescale by size/fixedPPEmFloat ourselves
// so that advances can be cached per-glyph independent of requested size.
const fixedPPEmFloat = 2048

var fixedPPEm = fixed.I(fixedPPEmFloat)

// Metrics is a process-wide, concurrency-safe text measurer with an
// internal font cache (spec.md §5). The zero value is not usable; use New
// or NewWithSource.
type Metrics struct {
	src Source

	mu     sync.Mutex
	faces  *lru.Cache[string, *face]
	failed map[string]bool // families whose font load failed permanently
}

// New returns a Metrics backed by the default system font source.
func New() *Metrics {
	return NewWithSource(systemFontSource{})
}

// NewWithSource returns a Metrics backed by a caller-supplied font Source,
// primarily for tests.
func NewWithSource(src Source) *Metrics {
	c, _ := lru.New[string, *face](faceCacheSize)
	return &Metrics{
		src:    src,
		faces:  c,
		failed: make(map[string]bool),
	}
}

// Width returns the pixel width of text set in fontFamily at fontSize.
// When fast is true and text is pure ASCII, the fast per-character-class
// path is used; otherwise the precise glyph-advance path is used, falling
// back to the fast path if no font could be loaded for fontFamily.
func (m *Metrics) Width(text string, fontFamily string, fontSize float64, fast bool) float64 {
	text = expandTabs(text)
	if fast && isASCII(text) {
		return fastWidth(text, fontSize)
	}
	f, ok := m.faceFor(fontFamily)
	if !ok {
		return fastWidth(text, fontSize)
	}
	// advanceUnits returns pixel advances measured at fixedPPEm; rescale to
	// the requested size the same way the original scales by
	// size/units_per_em, just with ppem standing in for units_per_em.
	scale := fontSize / fixedPPEmFloat
	var total float64
	for _, r := range text {
		adv, ok := f.advanceUnits(r)
		if !ok {
			total += fallbackAdvance * fontSize
			continue
		}
		total += adv * scale
	}
	return total
}

// faceFor returns the cached, parsed face for family, loading and parsing
// it on first use. A family that previously failed to load is remembered
// and never retried.
func (m *Metrics) faceFor(family string) (*face, bool) {
	key := normalizeFamily(family)

	m.mu.Lock()
	if m.failed[key] {
		m.mu.Unlock()
		return nil, false
	}
	if f, ok := m.faces.Get(key); ok {
		m.mu.Unlock()
		return f, true
	}
	m.mu.Unlock()

	data, err := m.src.Load(key)
	if err != nil {
		m.mu.Lock()
		m.failed[key] = true
		m.mu.Unlock()
		return nil, false
	}
	f, err := newFace(data)
	if err != nil {
		m.mu.Lock()
		m.failed[key] = true
		m.mu.Unlock()
		return nil, false
	}

	m.mu.Lock()
	m.faces.Add(key, f)
	m.mu.Unlock()
	return f, true
}

// normalizeFamily picks the first family in a CSS-style font-family list
// and maps known generic names to a canonical lookup key.
func normalizeFamily(family string) string {
	first := family
	if i := strings.IndexByte(family, ','); i >= 0 {
		first = family[:i]
	}
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if first == "" {
		first = "sans-serif"
	}
	switch strings.ToLower(first) {
	case "-apple-system", "system-ui", "blinkmacsystemfont", "segoe ui":
		return "sans-serif"
	case "ui-monospace", "sfmono-regular", "menlo", "consolas":
		return "monospace"
	case "ui-serif":
		return "serif"
	}
	return strings.ToLower(first)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	return strings.ReplaceAll(s, "\t", "    ")
}

// fastWidth sums a per-character-class width factor (spec.md §4.1:
// "0.45–0.65 of font size depending on character class").
func fastWidth(s string, fontSize float64) float64 {
	var total float64
	for i := 0; i < len(s); i++ {
		total += charFactor(s[i])
	}
	return total * fontSize
}

// charFactor classifies a single ASCII byte into a width factor. Narrow
// punctuation and 'i'/'l'/'I' are cheapest; digits and lowercase letters
// sit in the middle; uppercase and the handful of notoriously wide glyphs
// are the most expensive.
func charFactor(b byte) float64 {
	switch {
	case b == ' ':
		return 0.45
	case strings.IndexByte(".,;:'`|!iIl1()[]{}", b) >= 0:
		return 0.45
	case b >= '0' && b <= '9':
		return 0.5
	case b >= 'a' && b <= 'z':
		return 0.5
	case strings.IndexByte("WMwm@%&#", b) >= 0:
		return 0.65
	case b >= 'A' && b <= 'Z':
		return 0.6
	default:
		return 0.55
	}
}
