package label

import (
	"strings"
	"testing"

	"github.com/dnswlt/layoutctl/internal/textmetrics"
)

func newWrapper(maxChars int) Wrapper {
	return Wrapper{
		Metrics:       textmetrics.NewWithSource(failingSource{}),
		FontFamily:    "sans-serif",
		FontSize:      14,
		LineHeight:    1.25,
		MaxWidthChars: maxChars,
		FastTextMetrics: true,
	}
}

type failingSource struct{}

func (failingSource) Load(string) ([]byte, error) { return nil, errNoFont }

var errNoFont = errNoFontErr("no font")

type errNoFontErr string

func (e errNoFontErr) Error() string { return string(e) }

func TestBlock_Empty(t *testing.T) {
	b := newWrapper(20).Block("")
	if len(b.Lines) != 0 || b.Width != 0 || b.Height != 0 {
		t.Fatalf("expected zero-value block for empty text, got %+v", b)
	}
}

func TestBlock_WrapsLongParagraph(t *testing.T) {
	b := newWrapper(10).Block("the quick brown fox jumps")
	if len(b.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %v", b.Lines)
	}
	for _, l := range b.Lines {
		// A single overlong word is allowed to exceed the limit.
		if len(l) > 10 && strings.Contains(l, " ") {
			t.Errorf("line %q exceeds the 10-char limit", l)
		}
	}
}

func TestBlock_PreservesExplicitNewlines(t *testing.T) {
	b := newWrapper(100).Block("line one\nline two")
	if len(b.Lines) != 2 {
		t.Fatalf("expected explicit newline to produce 2 lines, got %d: %v", len(b.Lines), b.Lines)
	}
	if b.Lines[0] != "line one" || b.Lines[1] != "line two" {
		t.Fatalf("unexpected line contents: %v", b.Lines)
	}
}

func TestBlock_SingleOverlongWordNeverSplits(t *testing.T) {
	b := newWrapper(5).Block("supercalifragilisticexpialidocious")
	if len(b.Lines) != 1 {
		t.Fatalf("expected a single unsplit word to stay on one line, got %v", b.Lines)
	}
}

func TestBlock_HeightScalesWithLineCount(t *testing.T) {
	one := newWrapper(100).Block("short")
	two := newWrapper(100).Block("short\nshort")
	if two.Height != 2*one.Height {
		t.Fatalf("expected height to double with line count: one=%v two=%v", one.Height, two.Height)
	}
}
