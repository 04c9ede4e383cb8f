package textmetrics

import (
	"errors"
	"testing"
)

// failingSource always fails to load, forcing every family onto the fast
// path — this is what "no font installed" looks like in production too.
type failingSource struct{ calls int }

func (s *failingSource) Load(family string) ([]byte, error) {
	s.calls++
	return nil, errors.New("no such font")
}

func TestWidth_FastPathASCII(t *testing.T) {
	src := &failingSource{}
	m := NewWithSource(src)

	got := m.Width("hello", "sans-serif", 10, true)
	if got <= 0 {
		t.Fatalf("expected positive width, got %v", got)
	}

	// Fast path must not touch the font source at all.
	if src.calls != 0 {
		t.Fatalf("fast path loaded a font: %d calls", src.calls)
	}
}

func TestWidth_FallsBackToFastPathOnLoadFailure(t *testing.T) {
	src := &failingSource{}
	m := NewWithSource(src)

	precise := m.Width("hello", "sans-serif", 10, false)
	fast := m.Width("hello", "sans-serif", 10, true)

	if precise != fast {
		t.Fatalf("expected fallback to match fast path: precise=%v fast=%v", precise, fast)
	}
	if src.calls != 1 {
		t.Fatalf("expected exactly one load attempt before caching the failure, got %d", src.calls)
	}

	// A second call for the same family must not retry the load.
	m.Width("world", "sans-serif", 10, false)
	if src.calls != 1 {
		t.Fatalf("expected failed family to be remembered, got %d load calls", src.calls)
	}
}

func TestWidth_WiderTextIsWider(t *testing.T) {
	m := NewWithSource(&failingSource{})
	short := m.Width("il", "sans-serif", 12, true)
	long := m.Width("WWWW", "sans-serif", 12, true)
	if long <= short {
		t.Fatalf("expected four wide capitals to measure wider than two narrow chars: short=%v long=%v", short, long)
	}
}

func TestWidth_ScalesLinearlyWithFontSize(t *testing.T) {
	m := NewWithSource(&failingSource{})
	at10 := m.Width("hello world", "sans-serif", 10, true)
	at20 := m.Width("hello world", "sans-serif", 20, true)
	if at20 != 2*at10 {
		t.Fatalf("expected width to double with font size: at10=%v at20=%v", at10, at20)
	}
}

func TestWidth_TabExpandsToFourSpaces(t *testing.T) {
	m := NewWithSource(&failingSource{})
	tabbed := m.Width("\t", "sans-serif", 10, true)
	spaced := m.Width("    ", "sans-serif", 10, true)
	if tabbed != spaced {
		t.Fatalf("expected tab to expand to four spaces: tab=%v spaces=%v", tabbed, spaced)
	}
}

func TestWidth_NonASCIIUsesPreciseOrFallback(t *testing.T) {
	// Non-ASCII text is never eligible for the fast path, even when
	// requested; with a failing font source it still falls back instead
	// of measuring zero-width.
	m := NewWithSource(&failingSource{})
	got := m.Width("café", "sans-serif", 10, true)
	if got <= 0 {
		t.Fatalf("expected positive fallback width, got %v", got)
	}
}

func TestNormalizeFamily(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`"Helvetica Neue", Arial, sans-serif`, "helvetica neue"},
		{"-apple-system", "sans-serif"},
		{"ui-monospace", "monospace"},
		{"", "sans-serif"},
		{"  'Courier New'  ", "courier new"},
	}
	for _, c := range cases {
		if got := normalizeFamily(c.in); got != c.want {
			t.Errorf("normalizeFamily(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNew(t *testing.T) {
	// New must build a usable Metrics backed by the real system font
	// source without panicking, even in environments with no fonts
	// installed (falls back to fast path transparently).
	m := New()
	if got := m.Width("hello", "sans-serif", 10, true); got <= 0 {
		t.Fatalf("expected positive width, got %v", got)
	}
}
