// Package label wraps and measures the text that ends up inside a node,
// edge, or subgraph box (spec.md §4.2).
package label

import (
	"strings"

	"github.com/dnswlt/layoutctl/internal/ir"
	"github.com/dnswlt/layoutctl/internal/textmetrics"
)

// Wrapper measures and word-wraps label text for a fixed font and
// character budget.
type Wrapper struct {
	Metrics         *textmetrics.Metrics
	FontFamily      string
	FontSize        float64
	LineHeight      float64 // multiplier applied to FontSize for line pitch
	MaxWidthChars   int
	FastTextMetrics bool
}

// Block wraps and measures text, producing the TextBlock the rest of the
// layout engine sizes boxes and places labels from. An empty string
// produces a zero-size, zero-line block.
func (w Wrapper) Block(text string) ir.TextBlock {
	if text == "" {
		return ir.TextBlock{}
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, w.MaxWidthChars)...)
	}

	var maxWidth float64
	for _, line := range lines {
		if width := w.Metrics.Width(line, w.FontFamily, w.FontSize, w.FastTextMetrics); width > maxWidth {
			maxWidth = width
		}
	}

	return ir.TextBlock{
		Lines:  lines,
		Width:  maxWidth,
		Height: float64(len(lines)) * w.FontSize * w.LineHeight,
	}
}

// wrapParagraph greedily packs whitespace-separated words into lines no
// longer than limit characters, mirroring the teacher's joinWrap: a single
// word longer than limit is never split and stands alone on its line.
func wrapParagraph(paragraph string, limit int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	if limit <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var b strings.Builder
	lineLen := 0
	for _, word := range words {
		if lineLen == 0 {
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > limit {
			lines = append(lines, b.String())
			b.Reset()
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(word)
		lineLen += 1 + len(word)
	}
	lines = append(lines, b.String())
	return lines
}
