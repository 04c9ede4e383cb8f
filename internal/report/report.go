// Package report builds the human-readable "explain" report for a
// computed layout: a rank table, crossing counts and routing stats.
// The report is authored as Markdown (the same text/template idiom
// docs.Generator uses for its markdown doc site) and rendered to HTML
// via goldmark for the --explain flag.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/yuin/goldmark"

	"github.com/dnswlt/layoutctl/internal/ir"
)

// RankEntry summarizes one rank (a band of nodes sharing a coordinate
// along the layout's main axis).
type RankEntry struct {
	Index int
	Nodes []string
	Span  float64
}

// Stats collects the figures the report renders.
type Stats struct {
	Direction      string
	Width, Height  float64
	NodeCount      int
	EdgeCount      int
	SubgraphCount  int
	Ranks          []RankEntry
	CrossingCount  int
	RoutedEdges    int
	StraightEdges  int
	MaxSegments    int
	TotalPathLen   float64
}

// Explain computes the report statistics for a finished layout.
func Explain(l *ir.Layout) Stats {
	s := Stats{
		Direction:     l.Direction.String(),
		Width:         l.Width,
		Height:        l.Height,
		NodeCount:     len(l.Nodes),
		EdgeCount:     len(l.Edges),
		SubgraphCount: len(l.Subgraphs),
	}
	s.Ranks = computeRanks(l)
	s.CrossingCount = countCrossings(l.Edges)
	for _, e := range l.Edges {
		n := len(e.Points)
		if n-1 > s.MaxSegments {
			s.MaxSegments = n - 1
		}
		if n > 2 {
			s.RoutedEdges++
		} else if n == 2 {
			s.StraightEdges++
		}
		s.TotalPathLen += pathLength(e.Points)
	}
	return s
}

// computeRanks buckets nodes by their position along the layout's
// main axis (Y for top-down/bottom-up, X for left-right/right-left)
// and reports each bucket as one rank, ordered by that coordinate.
func computeRanks(l *ir.Layout) []RankEntry {
	horizontal := false
	switch l.Direction {
	case ir.LeftRight, ir.RightLeft:
		horizontal = true
	}

	type bucket struct {
		coord float64
		ids   []string
		lo, hi float64
	}
	buckets := map[float64]*bucket{}
	var coords []float64
	for _, n := range l.Nodes {
		if n.Hidden {
			continue
		}
		coord := n.Y
		lo, hi := n.X, n.X+n.Width
		if horizontal {
			coord = n.X
			lo, hi = n.Y, n.Y+n.Height
		}
		b, ok := buckets[coord]
		if !ok {
			b = &bucket{coord: coord, lo: lo, hi: hi}
			buckets[coord] = b
			coords = append(coords, coord)
		}
		b.ids = append(b.ids, n.ID)
		b.lo = min(b.lo, lo)
		b.hi = max(b.hi, hi)
	}
	sort.Float64s(coords)

	ranks := make([]RankEntry, 0, len(coords))
	for i, c := range coords {
		b := buckets[c]
		sort.Strings(b.ids)
		ranks = append(ranks, RankEntry{Index: i, Nodes: b.ids, Span: b.hi - b.lo})
	}
	return ranks
}

// countCrossings reports the number of edge-segment pairs that cross,
// a cheap proxy for the layout's visual clutter (spec.md's crossing
// minimization objective).
func countCrossings(edges []ir.EdgeLayout) int {
	count := 0
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			if edges[i].From == edges[j].From && edges[i].To == edges[j].To {
				continue
			}
			count += countPathCrossings(edges[i].Points, edges[j].Points)
		}
	}
	return count
}

func countPathCrossings(a, b []ir.Point) int {
	count := 0
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				count++
			}
		}
	}
	return count
}

func segmentsIntersect(p1, p2, p3, p4 ir.Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

func cross(a, b, p ir.Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func pathLength(points []ir.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		dx := points[i+1].X - points[i].X
		dy := points[i+1].Y - points[i].Y
		total += abs(dx) + abs(dy)
	}
	return total
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Markdown renders the report as Markdown text.
func Markdown(s Stats) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("error executing report template: %w", err)
	}
	return buf.String(), nil
}

// HTML renders the report as a full HTML fragment by converting the
// Markdown report through goldmark.
func HTML(s Stats) ([]byte, error) {
	md, err := Markdown(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("error converting report to HTML: %w", err)
	}
	return buf.Bytes(), nil
}

var reportTemplate = template.Must(template.New("report").Parse(`# Layout report

- Direction: {{ .Direction }}
- Canvas: {{ printf "%.1f" .Width }} x {{ printf "%.1f" .Height }}
- Nodes: {{ .NodeCount }}
- Edges: {{ .EdgeCount }}
- Subgraphs: {{ .SubgraphCount }}
- Edge crossings: {{ .CrossingCount }}
- Routed edges (bends): {{ .RoutedEdges }}
- Straight edges: {{ .StraightEdges }}
- Longest path segment count: {{ .MaxSegments }}
- Total edge path length: {{ printf "%.1f" .TotalPathLen }}

## Ranks

| Rank | Nodes | Span |
|-----:|-------|-----:|
{{- range .Ranks }}
| {{ .Index }} | {{ range $i, $n := .Nodes }}{{ if $i }}, {{ end }}{{ $n }}{{ end }} | {{ printf "%.1f" .Span }} |
{{- end }}
`))
