package route

import (
	"container/heap"
	"math"

	"github.com/dnswlt/layoutctl/internal/ir"
)

// Grid rasterizes obstacles into cells and runs A* between two cells,
// preferring straight runs via a turn penalty (spec.md §4.10 "Grid A*").
type Grid struct {
	cell    float64
	originX float64
	originY float64
	cols    int
	rows    int
	blocked map[[2]int]bool
}

// NewGrid builds a grid covering bounds (inflated by padding) at the
// given cell size, marking every obstacle rectangle's cells blocked.
func NewGrid(bounds ir.Rectangle, obstacles []ir.Rectangle, cellSize, padding float64) *Grid {
	if cellSize <= 0 {
		cellSize = 10
	}
	b := bounds.Inflate(padding)
	g := &Grid{
		cell:    cellSize,
		originX: b.X,
		originY: b.Y,
		cols:    int(math.Ceil(b.W/cellSize)) + 1,
		rows:    int(math.Ceil(b.H/cellSize)) + 1,
		blocked: make(map[[2]int]bool),
	}
	for _, r := range obstacles {
		inflated := r.Inflate(padding)
		c0, r0 := g.cellOf(Point{X: inflated.X, Y: inflated.Y})
		c1, r1 := g.cellOf(Point{X: inflated.X + inflated.W, Y: inflated.Y + inflated.H})
		for c := c0; c <= c1; c++ {
			for row := r0; row <= r1; row++ {
				g.blocked[[2]int{c, row}] = true
			}
		}
	}
	return g
}

func (g *Grid) cellOf(p Point) (int, int) {
	return int(math.Floor((p.X - g.originX) / g.cell)), int(math.Floor((p.Y - g.originY) / g.cell))
}

func (g *Grid) pointOf(c, r int) Point {
	return Point{X: g.originX + (float64(c)+0.5)*g.cell, Y: g.originY + (float64(r)+0.5)*g.cell}
}

type astarNode struct {
	cell     [2]int
	priority float64
	dir      [2]int
}

type astarHeap []astarNode

func (h astarHeap) Len() int            { return len(h) }
func (h astarHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h astarHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *astarHeap) Push(x any)         { *h = append(*h, x.(astarNode)) }
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// turnPenalty exceeds the per-step cost so straight runs are preferred.
const stepCost = 1.0
const turnPenalty = 1.5

var directions = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Route finds an orthogonal path from start to end on the grid, avoiding
// blocked cells, and merges collinear segments in the result. Returns
// (path, true) on success, or (nil, false) if no path exists.
func (g *Grid) Route(start, end Point) ([]Point, bool) {
	sc, sr := g.cellOf(start)
	ec, er := g.cellOf(end)
	startKey := [2]int{sc, sr}
	endKey := [2]int{ec, er}

	type state struct {
		cell [2]int
		dir  [2]int
	}
	gScore := map[state]float64{}
	cameFrom := map[state]state{}
	startState := state{cell: startKey, dir: [2]int{0, 0}}
	gScore[startState] = 0

	h := &astarHeap{{cell: startKey, priority: heuristic(startKey, endKey), dir: [2]int{0, 0}}}
	heap.Init(h)
	visited := map[state]bool{}

	var goalState state
	found := false

	for h.Len() > 0 {
		cur := heap.Pop(h).(astarNode)
		curState := state{cell: cur.cell, dir: cur.dir}
		if visited[curState] {
			continue
		}
		visited[curState] = true
		if cur.cell == endKey {
			goalState = curState
			found = true
			break
		}
		for _, d := range directions {
			next := [2]int{cur.cell[0] + d[0], cur.cell[1] + d[1]}
			if next[0] < 0 || next[1] < 0 || next[0] >= g.cols || next[1] >= g.rows {
				continue
			}
			if g.blocked[next] && next != endKey {
				continue
			}
			cost := stepCost
			if cur.dir != ([2]int{0, 0}) && cur.dir != d {
				cost += turnPenalty
			}
			nextState := state{cell: next, dir: d}
			tentative := gScore[curState] + cost
			if existing, ok := gScore[nextState]; !ok || tentative < existing {
				gScore[nextState] = tentative
				cameFrom[nextState] = curState
				heap.Push(h, astarNode{cell: next, dir: d, priority: tentative + heuristic(next, endKey)})
			}
		}
	}
	if !found {
		return nil, false
	}

	var cells []state
	cur := goalState
	for {
		cells = append([]state{cur}, cells...)
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		cur = prev
	}

	pts := make([]Point, 0, len(cells)+2)
	pts = append(pts, start)
	for _, s := range cells {
		pts = append(pts, g.pointOf(s.cell[0], s.cell[1]))
	}
	pts = append(pts, end)
	return mergeCollinear(pts), true
}

func heuristic(a, b [2]int) float64 {
	return math.Abs(float64(a[0]-b[0])) + math.Abs(float64(a[1]-b[1]))
}

func mergeCollinear(pts []Point) []Point {
	if len(pts) <= 2 {
		return pts
	}
	out := []Point{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		prev, cur, next := out[len(out)-1], pts[i], pts[i+1]
		if collinear(prev, cur, next) {
			continue
		}
		out = append(out, cur)
	}
	out = append(out, pts[len(pts)-1])
	return out
}

func collinear(a, b, c Point) bool {
	return (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
}
