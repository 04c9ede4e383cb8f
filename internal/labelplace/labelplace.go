// Package labelplace places the labels not already anchored by a
// label-dummy: endpoint labels, and center labels on diagrams routed
// without dummies (spec.md §4.11).
package labelplace

import (
	"math"

	"github.com/dnswlt/layoutctl/internal/ir"
)

// targetGap is the preferred distance between a label and its edge's
// polyline (spec.md §4.11: "target ≈ 2.5 units").
const targetGap = 2.5

// Candidate is one offset, relative to an anchor point, a label's box
// could be placed at.
type Candidate struct{ DX, DY float64 }

// defaultCandidates is a small grid of offsets around the anchor,
// covering the four cardinal and four diagonal directions at two
// distances.
func defaultCandidates() []Candidate {
	var out []Candidate
	for _, dist := range []float64{6, 14} {
		for _, dir := range [][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
			out = append(out, Candidate{DX: dir[0] * dist, DY: dir[1] * dist})
		}
	}
	return out
}

// Placer scores and chooses a position for one label at a time, tracking
// already-occupied rectangles so later labels repel from earlier ones
// (spec.md §4.11 "Occupied rectangles are accumulated in placement
// order").
type Placer struct {
	occupied []ir.Rectangle
}

// NewPlacer seeds a Placer with the node/cluster rectangles already on the
// page.
func NewPlacer(initialOccupied []ir.Rectangle) *Placer {
	return &Placer{occupied: append([]ir.Rectangle(nil), initialOccupied...)}
}

// Place scores defaultCandidates() around anchor for a label box of the
// given size, against path (the label's edge, for distance-from-path
// scoring) and crossingEdges (other edges' polylines, for the crossing
// count term), returning the chosen top-left position. The winning
// rectangle is added to the occupied set before returning.
func (p *Placer) Place(anchor ir.Point, w, h float64, path []ir.Point, crossingEdges [][]ir.Point) ir.Point {
	best := Candidate{}
	bestScore := math.Inf(1)
	for _, c := range defaultCandidates() {
		rect := ir.Rectangle{X: anchor.X + c.DX - w/2, Y: anchor.Y + c.DY - h/2, W: w, H: h}
		score := p.score(rect, anchor, path, crossingEdges)
		if score < bestScore {
			bestScore = score
			best = c
		}
	}
	rect := ir.Rectangle{X: anchor.X + best.DX - w/2, Y: anchor.Y + best.DY - h/2, W: w, H: h}
	p.occupied = append(p.occupied, rect)
	return ir.Point{X: rect.X, Y: rect.Y}
}

func (p *Placer) score(rect ir.Rectangle, anchor ir.Point, path []ir.Point, crossingEdges [][]ir.Point) float64 {
	var s float64

	for _, occ := range p.occupied {
		s += rect.IntersectionArea(occ) * 10 // heaviest term
	}

	crossings := 0
	for _, edge := range crossingEdges {
		if rectCrossesPolyline(rect, edge) {
			crossings++
		}
	}
	s += float64(crossings) * 5 // high weight

	if len(path) > 0 {
		gap := distanceToPolyline(rect.X+rect.W/2, rect.Y+rect.H/2, path)
		s += gapPenalty(gap)
	}

	cx, cy := rect.X+rect.W/2, rect.Y+rect.H/2
	s += math.Hypot(cx-anchor.X, cy-anchor.Y) * 0.1

	return s
}

// gapPenalty is 0.1·(gap−targetGap)², plus a flat 20 when gap lies
// outside [eps, farGap], so it is smallest at targetGap (spec.md §4.11).
func gapPenalty(gap float64) float64 {
	const eps = 0.5
	const farGap = 12
	d := gap - targetGap
	if gap >= eps && gap <= farGap {
		return d * d * 0.1
	}
	return d*d*0.1 + 20
}

func distanceToPolyline(x, y float64, path []ir.Point) float64 {
	best := math.Inf(1)
	for i := 1; i < len(path); i++ {
		d := distanceToSegment(x, y, path[i-1], path[i])
		if d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

func distanceToSegment(px, py float64, a, b ir.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return math.Hypot(px-a.X, py-a.Y)
	}
	t := ((px-a.X)*dx + (py-a.Y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	cx, cy := a.X+t*dx, a.Y+t*dy
	return math.Hypot(px-cx, py-cy)
}

func rectCrossesPolyline(r ir.Rectangle, path []ir.Point) bool {
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		seg := ir.Rectangle{
			X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y),
			W: math.Abs(b.X - a.X), H: math.Abs(b.Y - a.Y),
		}
		if seg.IntersectionArea(r) > 0 {
			return true
		}
	}
	return false
}
