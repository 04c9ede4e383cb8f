// Package route computes orthogonal polylines between ports (spec.md
// §4.10): a default heuristic router and a grid A* alternative, plus the
// shared occupancy tracking, routing order, and label via-point insertion
// both depend on.
package route

import (
	"math"
	"sort"

	"github.com/dnswlt/layoutctl/internal/ir"
)

// Point is a routed waypoint, in the same coordinate space as node
// rectangles.
type Point struct{ X, Y float64 }

// Request is everything one edge's route needs: start/end points
// (already on their respective node's port), the direction each stub must
// initially travel, and its routing-order key. Obstacles are passed to the
// routers separately.
type Request struct {
	EdgeIndex       int
	Start, End      Point
	StartHorizontal bool // true if the start stub leaves horizontally (E/W side)
	EndHorizontal   bool
	// ParallelIndex is this edge's position among parallel edges sharing
	// the same endpoint pair, used to offset otherwise-identical routes.
	ParallelIndex int
	// Secondary marks non-primary edges (dotted, labeled, or backward) for
	// routing-order purposes.
	Secondary bool
	// CrossAxisLength/MainAxisLength feed the routing-order sort key.
	CrossAxisLength, MainAxisLength float64
	DeclarationOrder                int
}

// Order sorts requests by the composite routing-order key (spec.md
// §4.10): primary before secondary, then shorter cross-axis length,
// longer main-axis length, then declaration order. When the graph is
// steep-heavy (>= 10 edges, >= 25% steep, defined by the caller passing
// steepHeavy=true), cross-axis length alone drives the order.
func Order(requests []Request, steepHeavy bool) {
	sort.SliceStable(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if steepHeavy {
			if a.CrossAxisLength != b.CrossAxisLength {
				return a.CrossAxisLength < b.CrossAxisLength
			}
			return a.DeclarationOrder < b.DeclarationOrder
		}
		if a.Secondary != b.Secondary {
			return !a.Secondary // primary (false) first
		}
		if a.CrossAxisLength != b.CrossAxisLength {
			return a.CrossAxisLength < b.CrossAxisLength
		}
		if a.MainAxisLength != b.MainAxisLength {
			return a.MainAxisLength > b.MainAxisLength // negated: longer first
		}
		return a.DeclarationOrder < b.DeclarationOrder
	})
}

// Occupancy is a coarse spatial hash of already-routed segments, used to
// penalize new routes that share or cross a lane (spec.md §4.10
// "Occupancy tracking").
type Occupancy struct {
	cell  float64
	lanes map[[2]int]int // cell -> number of segments occupying it
}

// NewOccupancy returns an empty Occupancy bucketed at the given cell size.
func NewOccupancy(cell float64) *Occupancy {
	if cell <= 0 {
		cell = 10
	}
	return &Occupancy{cell: cell, lanes: make(map[[2]int]int)}
}

func (o *Occupancy) key(p Point) [2]int {
	return [2]int{int(math.Floor(p.X / o.cell)), int(math.Floor(p.Y / o.cell))}
}

// Add records path's segments as occupied.
func (o *Occupancy) Add(path []Point) {
	for i := 1; i < len(path); i++ {
		for _, p := range sampleSegment(path[i-1], path[i], o.cell) {
			o.lanes[o.key(p)]++
		}
	}
}

// Penalty returns the crossing/sharing penalty for routing through path:
// a small cost per cell already occupied once, a larger cost per cell
// occupied by more than one prior route.
func (o *Occupancy) Penalty(path []Point) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		for _, p := range sampleSegment(path[i-1], path[i], o.cell) {
			switch n := o.lanes[o.key(p)]; {
			case n == 0:
			case n == 1:
				total += 1
			default:
				total += 4
			}
		}
	}
	return total
}

func sampleSegment(a, b Point, step float64) []Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return []Point{a}
	}
	n := int(length/step) + 1
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, Point{X: a.X + dx*t, Y: a.Y + dy*t})
	}
	return pts
}

// Heuristic routes req as a stub-then-turn orthogonal polyline (L, Z, or
// U shape) around obstacles, widening the detour when a direct route
// would cross one (spec.md §4.10, default router). nodeSpacing tunes the
// detour step size.
func Heuristic(req Request, obstacles []ir.Rectangle, nodeSpacing float64) []Point {
	stubLen := 12.0 + 6.0*float64(req.ParallelIndex)
	startStub := stepFrom(req.Start, req.StartHorizontal, stubLen, req.End)
	endStub := stepFrom(req.End, req.EndHorizontal, stubLen, req.Start)

	candidates := [][]Point{
		lRoute(req.Start, startStub, endStub, req.End),
		zRoute(req.Start, startStub, endStub, req.End),
	}

	step := nodeSpacing * 0.35
	if step <= 0 {
		step = 4
	}
	const maxAttempts = 8
	for attempt := 0; attempt < maxAttempts; attempt++ {
		for _, path := range candidates {
			if !intersectsAny(path, obstacles) {
				return path
			}
		}
		candidates = widen(candidates, step*float64(attempt+1), req)
	}
	// Give up: return the best-effort (first) candidate even if it still
	// intersects an obstacle.
	return candidates[0]
}

func stepFrom(p Point, horizontal bool, length float64, toward Point) Point {
	if horizontal {
		if toward.X >= p.X {
			return Point{X: p.X + length, Y: p.Y}
		}
		return Point{X: p.X - length, Y: p.Y}
	}
	if toward.Y >= p.Y {
		return Point{X: p.X, Y: p.Y + length}
	}
	return Point{X: p.X, Y: p.Y - length}
}

// lRoute: one bend, through the corner formed by startStub's axis and
// endStub's position.
func lRoute(start, startStub, endStub, end Point) []Point {
	corner := Point{X: startStub.X, Y: endStub.Y}
	if startStub.Y != start.Y { // start stub was vertical
		corner = Point{X: endStub.X, Y: startStub.Y}
	}
	return dedup([]Point{start, startStub, corner, endStub, end})
}

// zRoute: two bends, through the midpoint between the two stubs.
func zRoute(start, startStub, endStub, end Point) []Point {
	mid := Point{X: (startStub.X + endStub.X) / 2, Y: (startStub.Y + endStub.Y) / 2}
	c1, c2 := Point{X: mid.X, Y: startStub.Y}, Point{X: mid.X, Y: endStub.Y}
	if startStub.Y == start.Y && endStub.Y == end.Y && startStub.X != endStub.X {
		c1, c2 = Point{X: startStub.X, Y: mid.Y}, Point{X: endStub.X, Y: mid.Y}
	}
	return dedup([]Point{start, startStub, c1, c2, endStub, end})
}

func widen(candidates [][]Point, amount float64, req Request) [][]Point {
	base := candidates[0]
	start, startStub := base[0], base[1]
	endStub, end := base[len(base)-2], base[len(base)-1]
	out := make([][]Point, 0, 2)
	for _, d := range []float64{amount, -amount} {
		a := Point{X: startStub.X, Y: startStub.Y + d}
		b := Point{X: endStub.X, Y: startStub.Y + d}
		if !req.StartHorizontal {
			a = Point{X: startStub.X + d, Y: startStub.Y}
			b = Point{X: startStub.X + d, Y: endStub.Y}
		}
		out = append(out, dedup([]Point{start, startStub, a, b, endStub, end}))
	}
	return out
}

func dedup(pts []Point) []Point {
	out := pts[:0:0]
	for i, p := range pts {
		if i > 0 && p == pts[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func intersectsAny(path []Point, obstacles []ir.Rectangle) bool {
	for i := 1; i < len(path); i++ {
		for _, r := range obstacles {
			if segmentIntersectsRect(path[i-1], path[i], r) {
				return true
			}
		}
	}
	return false
}

func segmentIntersectsRect(a, b Point, r ir.Rectangle) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return minX < r.X+r.W && maxX > r.X && minY < r.Y+r.H && maxY > r.Y
}

// InsertLabelWaypoint finds the first segment of path whose extent along
// the main axis (X when horizontal, Y otherwise) contains labelCenter's
// coordinate on that axis, and splits it so the polyline passes exactly
// through labelCenter, returning the resulting path; path is returned
// unchanged if no segment contains it (spec.md §4.10 "Label via-point
// insertion").
func InsertLabelWaypoint(path []Point, labelCenter Point, horizontal bool) []Point {
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if horizontal {
			if between(labelCenter.X, a.X, b.X) {
				out := append([]Point(nil), path[:i]...)
				out = append(out, labelCenter)
				out = append(out, path[i:]...)
				return out
			}
		} else {
			if between(labelCenter.Y, a.Y, b.Y) {
				out := append([]Point(nil), path[:i]...)
				out = append(out, labelCenter)
				out = append(out, path[i:]...)
				return out
			}
		}
	}
	return path
}

func between(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}
