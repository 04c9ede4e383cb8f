// Package layout implements the top-level compute_layout entry point
// (spec.md §4.12, §5, §6, §7): it wires text measurement, style
// resolution, ranking, long-edge splitting, ordering, coordinate
// assignment, subgraph handling, port assignment, routing, and label
// placement into one synchronous pass over a Graph, and always returns a
// renderable Layout (falling back to an error-layout diagram rather than
// propagating an error, per spec.md §7).
package layout

import (
	"fmt"
	"sort"

	"golang.org/x/mod/semver"

	"github.com/dnswlt/layoutctl/internal/cluster"
	"github.com/dnswlt/layoutctl/internal/coord"
	"github.com/dnswlt/layoutctl/internal/ir"
	"github.com/dnswlt/layoutctl/internal/label"
	"github.com/dnswlt/layoutctl/internal/labelplace"
	"github.com/dnswlt/layoutctl/internal/order"
	"github.com/dnswlt/layoutctl/internal/port"
	"github.com/dnswlt/layoutctl/internal/rank"
	"github.com/dnswlt/layoutctl/internal/route"
	"github.com/dnswlt/layoutctl/internal/style"
	"github.com/dnswlt/layoutctl/internal/textmetrics"
	"github.com/dnswlt/layoutctl/internal/theme"
)

// Version is the engine's version string, embedded in the error-layout
// fallback diagram so a broken layout is at least traceable to a build.
const Version = "v0.1.0"

func init() {
	if !semver.IsValid(Version) {
		panic(fmt.Sprintf("layout: Version %q is not valid semver", Version))
	}
}

const outerPadding = 8

// Compute runs the full layout pipeline over graph and returns a Layout.
// It never panics on data-dependent input: any internal failure produces
// an error-layout diagram (spec.md §7).
func Compute(graph *ir.Graph, th theme.Theme, cfg Config) (l *ir.Layout) {
	defer func() {
		if r := recover(); r != nil {
			l = errorLayout(fmt.Sprintf("layout panic: %v", r))
		}
	}()
	return compute(graph, th, cfg)
}

func compute(graph *ir.Graph, th theme.Theme, cfg Config) *ir.Layout {
	metrics := textmetrics.New()
	wrapper := label.Wrapper{
		Metrics:         metrics,
		FontFamily:      th.FontFamily,
		FontSize:        th.BaseFontSize,
		LineHeight:      cfg.LabelLineHeight,
		MaxWidthChars:   cfg.MaxLabelWidthChars,
		FastTextMetrics: cfg.FastTextMetrics,
	}
	styles := style.New(graph)

	nodeIDs := append([]string(nil), graph.NodeOrder()...)
	if len(nodeIDs) == 0 {
		return emptyLayout(graph.Direction)
	}

	horizontal := graph.Direction.Horizontal()

	blocks := make(map[string]ir.TextBlock, len(nodeIDs))
	extents := make(map[string]coord.Extent, len(nodeIDs))
	for _, id := range nodeIDs {
		n, _ := graph.Node(id)
		b := wrapper.Block(n.Label)
		blocks[id] = b
		w := b.Width + 2*cfg.NodePaddingX
		h := b.Height + 2*cfg.NodePaddingY
		if horizontal {
			extents[id] = coord.Extent{Main: w, Cross: h}
		} else {
			extents[id] = coord.Extent{Main: h, Cross: w}
		}
	}

	edgeLabelBlocks := make(map[int]ir.TextBlock, len(graph.Edges))
	for i, e := range graph.Edges {
		if e.HasLabel {
			edgeLabelBlocks[i] = wrapper.Block(e.Label)
		}
	}

	declOrderReal := func(id string) int {
		if i, ok := graph.DeclarationIndex(id); ok {
			return i
		}
		return len(nodeIDs)
	}

	rankEdges := rank.FilterPrimaryEdges(nodeIDs, graph)
	ranks := rank.Compute(nodeIDs, rankEdges, declOrderReal)

	// Long-edge splitting and label-dummies (spec.md §4.5): every edge
	// spanning more than one rank is expanded into a chain of unit hops
	// through hidden span-dummy nodes; a labeled edge gets a label-dummy
	// reserved at (or inserted into) the chain, sized to the label block.
	planEdges := make([]rank.Edge, len(graph.Edges))
	for i, e := range graph.Edges {
		planEdges[i] = rank.Edge{From: e.From, To: e.To}
	}
	plan := rank.PlanDummies(planEdges, ranks, func(i int) bool { return graph.Edges[i].HasLabel })

	idToEdge := make(map[string]int, len(plan.LabelDummy))
	for ei, id := range plan.LabelDummy {
		idToEdge[id] = ei
	}

	slotOf := make(map[string]int, len(nodeIDs)+len(plan.Extra))
	for _, id := range nodeIDs {
		slotOf[id] = 2 * ranks[id]
	}
	for _, id := range plan.Extra {
		slotOf[id] = plan.Slot[id]
		if ei, ok := idToEdge[id]; ok {
			// A label-dummy's size is the label's size, rotated relative to
			// a normal node: its thin dimension (height) always consumes the
			// main-axis rank slot, whether the layout is horizontal or not
			// (spec.md §4.5).
			b := edgeLabelBlocks[ei]
			extents[id] = coord.Extent{Main: b.Height, Cross: b.Width}
		} else {
			extents[id] = coord.Extent{} // span-dummy: zero-footprint waypoint
		}
	}

	sortedSlots := make([]int, 0, len(slotOf))
	seen := make(map[int]bool, len(slotOf))
	for _, s := range slotOf {
		if !seen[s] {
			seen[s] = true
			sortedSlots = append(sortedSlots, s)
		}
	}
	sort.Ints(sortedSlots)
	compactIndex := make(map[int]int, len(sortedSlots))
	for idx, s := range sortedSlots {
		compactIndex[s] = idx
	}

	rankNodes := make([][]string, len(sortedSlots))
	for _, id := range nodeIDs {
		idx := compactIndex[slotOf[id]]
		rankNodes[idx] = append(rankNodes[idx], id)
	}
	for _, id := range plan.Extra {
		idx := compactIndex[slotOf[id]]
		rankNodes[idx] = append(rankNodes[idx], id)
	}

	isLabelRank := make(map[int]bool, len(plan.LabelDummy))
	for _, id := range plan.LabelDummy {
		isLabelRank[compactIndex[slotOf[id]]] = true
	}

	dummyDeclOrder := make(map[string]int, len(plan.Extra))
	for idx, id := range plan.Extra {
		dummyDeclOrder[id] = len(nodeIDs) + idx
	}
	declOrderAll := func(id string) int {
		if i, ok := graph.DeclarationIndex(id); ok {
			return i
		}
		if i, ok := dummyDeclOrder[id]; ok {
			return i
		}
		return len(nodeIDs) + len(plan.Extra)
	}

	orderEdges := make([]order.Edge, len(plan.ChainEdges))
	for i, e := range plan.ChainEdges {
		orderEdges[i] = order.Edge{From: e.From, To: e.To}
	}
	passes := cfg.Flowchart.OrderPasses
	order.Reduce(rankNodes, orderEdges, declOrderAll, passes)

	neighborsIn, neighborsOut := buildNeighborMaps(plan.ChainEdges)

	// Adaptive spacing (spec.md §4.7): scale node/rank spacing down for
	// small-extent graphs, floored when the graph is dense.
	effNodeSpacing, effRankSpacing := cfg.NodeSpacing, cfg.RankSpacing
	if cfg.Flowchart.AutoSpacing.Enabled {
		var sum float64
		for _, id := range nodeIDs {
			e := extents[id]
			sum += (e.Main + e.Cross) / 2
		}
		avgExtent := sum / float64(len(nodeIDs))
		edgeNodeRatio := float64(len(graph.Edges)) / float64(len(nodeIDs))
		effNodeSpacing, effRankSpacing = coord.AdaptiveSpacing(
			avgExtent, cfg.NodeSpacing, cfg.RankSpacing, edgeNodeRatio,
			cfg.Flowchart.AutoSpacing.DensityThreshold,
			cfg.Flowchart.AutoSpacing.DenseScaleFloor,
			cfg.Flowchart.AutoSpacing.MinSpacing,
		)
	}

	labelRankGap := max(th.BaseFontSize*0.5, 8)
	rankGap := func(r int) float64 {
		if r == 0 {
			return 0
		}
		if isLabelRank[r] || isLabelRank[r-1] {
			return labelRankGap
		}
		return effRankSpacing
	}
	cp := coord.Pass{
		RankNodes:    rankNodes,
		Extents:      extents,
		NeighborsIn:  neighborsIn,
		NeighborsOut: neighborsOut,
		RankGap:      rankGap,
		NodeSpacing:  effNodeSpacing,
		OrderPasses:  max(passes, 1),
	}
	coords := cp.Run()

	// Label-dummy anchors: the exact via-point spec.md §4.10 wants routing
	// to pass through for a center label (fed to route.InsertLabelWaypoint
	// below), computed in the same coordinate space as node rects.
	labelDummyPoint := make(map[int]ir.Point, len(plan.LabelDummy))
	for ei, id := range plan.LabelDummy {
		main, cross := coords.MainCenter[id], coords.CrossCenter[id]
		if horizontal {
			labelDummyPoint[ei] = ir.Point{X: main, Y: cross}
		} else {
			labelDummyPoint[ei] = ir.Point{X: cross, Y: main}
		}
	}

	nodeRects := make(map[string]ir.Rectangle, len(nodeIDs))
	for _, id := range nodeIDs {
		ext := extents[id]
		main, cross := coords.MainCenter[id], coords.CrossCenter[id]
		var x, y, w, h float64
		if horizontal {
			w, h = ext.Main, ext.Cross
			x, y = main-w/2, cross-h/2
		} else {
			w, h = ext.Cross, ext.Main
			x, y = cross-w/2, main-h/2
		}
		nodeRects[id] = ir.Rectangle{X: x, Y: y, W: w, H: h}
	}

	// Subgraph post-placement passes (spec.md §4.8). Pass 3 (cluster
	// bands) and pass 6 (sibling separation) run when the graph declares
	// subgraphs; pass 7 (disconnected-component alignment) runs only when
	// it doesn't, per its own scope note. The anchor hide/resize mechanism
	// and recursive isolated sub-layout (passes 1, 2, 4, 5, 8) are not
	// re-entered here, see DESIGN.md.
	nodeGroup := make(map[string]string, len(nodeIDs))
	for gi, sg := range graph.Subgraphs {
		gid := fmt.Sprintf("sg%d", gi)
		for _, id := range sg.Nodes {
			if _, already := nodeGroup[id]; !already {
				nodeGroup[id] = gid
			}
		}
	}

	boxes := make([]cluster.Box, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		r := nodeRects[id]
		boxes = append(boxes, cluster.Box{ID: id, X: r.X, Y: r.Y, W: r.W, H: r.H, GroupID: nodeGroup[id]})
	}
	if len(graph.Subgraphs) > 0 {
		cluster.ClusterBands(boxes, horizontal, effRankSpacing)
		cluster.SiblingSeparation(boxes, horizontal, effNodeSpacing)
	} else {
		componentOf := weaklyConnectedComponents(nodeIDs, graph.Edges)
		cluster.AlignDisconnectedComponents(boxes, componentOf, horizontal, effRankSpacing)
	}
	// Post-placement pass 9 (overlap resolution): push apart any
	// remaining overlaps among visible node rectangles.
	cluster.ResolveOverlaps(boxes, horizontal, effNodeSpacing*0.5, 6)
	for _, b := range boxes {
		nodeRects[b.ID] = b.Rect()
	}

	// Subgraph bounding boxes (simple bounding-box-of-members form; the
	// full recursive two-phase anchor layout of spec.md §4.8 is not
	// re-entered here, see DESIGN.md), computed after the post-placement
	// passes above so it reflects final member positions.
	subgraphRects := make([]ir.Rectangle, len(graph.Subgraphs))
	for i, sg := range graph.Subgraphs {
		var r ir.Rectangle
		for _, id := range sg.Nodes {
			if nr, ok := nodeRects[id]; ok {
				r = r.Union(nr)
			}
		}
		subgraphRects[i] = r.Inflate(cfg.NodePaddingY + 12)
	}

	// Routing.
	obstacles := make([]ir.Rectangle, 0, len(nodeRects))
	var sceneBounds ir.Rectangle
	for _, r := range nodeRects {
		inflated := r.Inflate(2)
		obstacles = append(obstacles, inflated)
		sceneBounds = sceneBounds.Union(inflated)
	}

	skip := make(map[int]bool)
	for i, e := range graph.Edges {
		if _, ok := nodeRects[e.From]; !ok {
			skip[i] = true
			continue
		}
		if _, ok := nodeRects[e.To]; !ok {
			skip[i] = true
		}
	}

	// Port assignment (spec.md §4.9): side selection per edge endpoint,
	// balanced across a node's two candidate sides, then an Offset pass
	// per (node, side) group so same-side attachments spread out instead
	// of all landing on the side's midpoint.
	edgeSides, startPort, endPort := assignPorts(graph, nodeRects, skip, horizontal, cfg)

	requests := make([]route.Request, 0, len(graph.Edges))
	parallelSeen := make(map[[2]string]int)
	for i, e := range graph.Edges {
		if skip[i] {
			continue
		}
		srcRect, dstRect := nodeRects[e.From], nodeRects[e.To]
		sides := edgeSides[i]
		start := portPointAbs(srcRect, sides[0], startPort[i])
		end := portPointAbs(dstRect, sides[1], endPort[i])

		key := [2]string{e.From, e.To}
		pIdx := parallelSeen[key]
		parallelSeen[key] = pIdx + 1

		requests = append(requests, route.Request{
			EdgeIndex:        i,
			Start:            route.Point{X: start.X, Y: start.Y},
			End:              route.Point{X: end.X, Y: end.Y},
			StartHorizontal:  sides[0] == port.East || sides[0] == port.West,
			EndHorizontal:    sides[1] == port.East || sides[1] == port.West,
			ParallelIndex:    pIdx,
			Secondary:        e.Style == ir.LineDotted || e.HasLabel || ranks[e.To] <= ranks[e.From],
			CrossAxisLength:  crossAxisLength(start, end, horizontal),
			MainAxisLength:   mainAxisLength(start, end, horizontal),
			DeclarationOrder: i,
		})
	}
	steepHeavy := isSteepHeavy(requests, horizontal)
	route.Order(requests, steepHeavy)

	occupancy := route.NewOccupancy(max(1.0, effNodeSpacing/4))
	paths := make(map[int][]route.Point, len(requests))
	for _, req := range requests {
		srcRect := nodeRects[graph.Edges[req.EdgeIndex].From]
		dstRect := nodeRects[graph.Edges[req.EdgeIndex].To]
		localObstacles := filterOut(obstacles, srcRect, dstRect)

		var path []route.Point
		if cfg.Flowchart.Routing.EnableGridRouter {
			g := route.NewGrid(sceneBounds, localObstacles, cfg.Flowchart.Routing.GridCell, 4)
			if p, ok := g.Route(req.Start, req.End); ok {
				path = p
			}
		}
		if path == nil {
			path = route.Heuristic(req, localObstacles, effNodeSpacing)
		}
		if pt, ok := labelDummyPoint[req.EdgeIndex]; ok {
			path = route.InsertLabelWaypoint(path, route.Point{X: pt.X, Y: pt.Y}, horizontal)
		}
		occupancy.Add(path)
		paths[req.EdgeIndex] = path
	}

	pointsByIndex := make(map[int][]ir.Point, len(graph.Edges))
	for i := range graph.Edges {
		if skip[i] {
			continue
		}
		path := paths[i]
		points := make([]ir.Point, len(path))
		for j, p := range path {
			points[j] = ir.Point{X: p.X, Y: p.Y}
		}
		pointsByIndex[i] = points
	}

	// Final label placement (spec.md §4.11): every measured label already
	// anchored by a label-dummy uses that anchor directly; everything else
	// (single-rank labeled edges, which get no label-dummy) falls back to
	// the placer.
	placer := labelplace.NewPlacer(obstacles)
	edgeLayouts := make([]ir.EdgeLayout, len(graph.Edges))
	for i, e := range graph.Edges {
		if skip[i] {
			continue
		}
		points := pointsByIndex[i]

		el := ir.EdgeLayout{
			From: e.From, To: e.To,
			Points:          points,
			Directed:        e.Directed,
			ArrowStartKind:  e.ArrowStart,
			ArrowEndKind:    e.ArrowEnd,
			DecorationStart: e.DecorationStart,
			DecorationEnd:   e.DecorationEnd,
			Style:           e.Style,
		}
		if e.HasLabel && len(points) > 0 {
			b := edgeLabelBlocks[i]
			el.Label = &b
			if pt, ok := labelDummyPoint[i]; ok {
				el.LabelAnchor = pt
				el.HasLabelAnchor = true
			} else {
				mid := points[len(points)/2]
				var others [][]ir.Point
				for j, p := range pointsByIndex {
					if j != i {
						others = append(others, p)
					}
				}
				el.LabelAnchor = placer.Place(mid, b.Width, b.Height, points, others)
				el.HasLabelAnchor = true
			}
		}
		edgeLayouts[i] = el
	}

	nodeLayouts := make([]ir.NodeLayout, 0, len(nodeIDs)+len(plan.Extra))
	for _, id := range nodeIDs {
		n, _ := graph.Node(id)
		r := nodeRects[id]
		nodeLayouts = append(nodeLayouts, ir.NodeLayout{
			ID: id, X: r.X, Y: r.Y, Width: r.W, Height: r.H,
			Label: blocks[id], Shape: n.Shape, Style: styles.Node(id),
		})
	}
	for _, id := range plan.Extra {
		ext := extents[id]
		main, cross := coords.MainCenter[id], coords.CrossCenter[id]
		var x, y, w, h float64
		if horizontal {
			w, h = ext.Main, ext.Cross
			x, y = main-w/2, cross-h/2
		} else {
			w, h = ext.Cross, ext.Main
			x, y = cross-w/2, main-h/2
		}
		nodeLayouts = append(nodeLayouts, ir.NodeLayout{ID: id, X: x, Y: y, Width: w, Height: h, Hidden: true})
	}

	subgraphLayouts := make([]ir.SubgraphLayout, len(graph.Subgraphs))
	for i, sg := range graph.Subgraphs {
		labelBlock := wrapper.Block(sg.Label)
		r := subgraphRects[i]
		subgraphLayouts[i] = ir.SubgraphLayout{
			Label: sg.Label, LabelBlock: labelBlock, Nodes: sg.Nodes,
			X: r.X, Y: r.Y, Width: r.W, Height: r.H,
			Style: styles.Subgraph(i),
		}
	}

	l := &ir.Layout{
		Direction: graph.Direction,
		Nodes:     nodeLayouts,
		Edges:     edgeLayouts,
		Subgraphs: subgraphLayouts,
	}
	finalize(l)
	return l
}

// portSlot is one edge endpoint's port assignment before an Offset pass
// has spread it out along its side.
type portSlot struct {
	edgeIndex int
	role      int // 0 = source endpoint, 1 = target endpoint
	side      port.Side
	ideal     float64
}

// assignPorts runs the full spec.md §4.9 pipeline: PickSide per edge,
// Balance across a node's two candidate sides, then Offsets per (node,
// side) group. It returns, per edge index, the chosen (srcSide, dstSide)
// pair and the absolute offset along each side.
func assignPorts(graph *ir.Graph, nodeRects map[string]ir.Rectangle, skip map[int]bool, horizontal bool, cfg Config) (sides map[int][2]port.Side, startOffset, endOffset map[int]float64) {
	sides = make(map[int][2]port.Side, len(graph.Edges))
	startOffset = make(map[int]float64, len(graph.Edges))
	endOffset = make(map[int]float64, len(graph.Edges))

	byNode := make(map[string][]portSlot)
	for i, e := range graph.Edges {
		if skip[i] {
			continue
		}
		srcRect, dstRect := nodeRects[e.From], nodeRects[e.To]
		srcCenter := [2]float64{srcRect.X + srcRect.W/2, srcRect.Y + srcRect.H/2}
		dstCenter := [2]float64{dstRect.X + dstRect.W/2, dstRect.Y + dstRect.H/2}
		srcSide, dstSide := port.PickSide(srcCenter, dstCenter, horizontal)
		sides[i] = [2]port.Side{srcSide, dstSide}

		byNode[e.From] = append(byNode[e.From], portSlot{
			edgeIndex: i, role: 0, side: srcSide, ideal: portIdeal(srcRect, dstCenter, horizontal),
		})
		byNode[e.To] = append(byNode[e.To], portSlot{
			edgeIndex: i, role: 1, side: dstSide, ideal: portIdeal(dstRect, srcCenter, horizontal),
		})
	}

	sideA, sideB := port.North, port.South
	if horizontal {
		sideA, sideB = port.East, port.West
	}
	for node, slots := range byNode {
		pref := make([]int, len(slots))
		for i, s := range slots {
			if s.side == sideB {
				pref[i] = 1
			}
		}
		balanced := port.Balance(pref)
		for i := range slots {
			if balanced[i] == 1 {
				slots[i].side = sideB
			} else {
				slots[i].side = sideA
			}
		}
		byNode[node] = slots
		// The balanced side may differ from PickSide's original pick;
		// reflect that back into the per-edge side pair.
		for _, s := range slots {
			pair := sides[s.edgeIndex]
			pair[s.role] = s.side
			sides[s.edgeIndex] = pair
		}
	}

	snapGrid := 0.0
	if cfg.Flowchart.Routing.SnapPortsToGrid {
		snapGrid = cfg.Flowchart.Routing.GridCell
	}
	for node, slots := range byNode {
		rect := nodeRects[node]
		bySide := make(map[port.Side][]portSlot)
		for _, s := range slots {
			bySide[s.side] = append(bySide[s.side], s)
		}
		for side, group := range bySide {
			sideLength := rect.W
			if side == port.East || side == port.West {
				sideLength = rect.H
			}
			attachments := make([]port.Attachment, len(group))
			for i, s := range group {
				attachments[i] = port.Attachment{EdgeIndex: s.edgeIndex*2 + s.role, Ideal: s.ideal}
			}
			assignments := port.Offsets(attachments, sideLength, cfg.Flowchart.PortPadRatio, cfg.Flowchart.PortPadMin, cfg.Flowchart.PortPadMax, snapGrid)
			for _, a := range assignments {
				edgeIndex, role := a.EdgeIndex/2, a.EdgeIndex%2
				if role == 0 {
					startOffset[edgeIndex] = a.Offset
				} else {
					endOffset[edgeIndex] = a.Offset
				}
			}
		}
	}
	return sides, startOffset, endOffset
}

// portIdeal is the coordinate, relative to rect's origin and along the
// axis the node's eventual side runs on, where a straight line from
// other's center would cross rect's border (spec.md §4.9 "Offset" step
// 1).
func portIdeal(rect ir.Rectangle, other [2]float64, horizontal bool) float64 {
	if horizontal {
		return other[1] - rect.Y
	}
	return other[0] - rect.X
}

func crossAxisLength(start, end ir.Point, horizontal bool) float64 {
	if horizontal {
		return absf(end.Y - start.Y)
	}
	return absf(end.X - start.X)
}

func mainAxisLength(start, end ir.Point, horizontal bool) float64 {
	if horizontal {
		return absf(end.X - start.X)
	}
	return absf(end.Y - start.Y)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// isSteepHeavy reports whether the graph's routing requests are
// dominated by steep (long cross-axis, short main-axis) edges, in which
// case Order should sort purely by cross-axis length (spec.md §4.10).
func isSteepHeavy(requests []route.Request, horizontal bool) bool {
	if len(requests) < 10 {
		return false
	}
	steep := 0
	for _, r := range requests {
		if r.CrossAxisLength > r.MainAxisLength {
			steep++
		}
	}
	return float64(steep)/float64(len(requests)) >= 0.25
}

func filterOut(rects []ir.Rectangle, exclude ...ir.Rectangle) []ir.Rectangle {
	out := make([]ir.Rectangle, 0, len(rects))
	for _, r := range rects {
		skip := false
		for _, e := range exclude {
			if r == e.Inflate(2) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, r)
		}
	}
	return out
}

// portPointAbs returns the point at the given absolute offset (in the
// same units as the side's length) along side's edge of r.
func portPointAbs(r ir.Rectangle, side port.Side, offset float64) ir.Point {
	switch side {
	case port.North:
		return ir.Point{X: r.X + offset, Y: r.Y}
	case port.South:
		return ir.Point{X: r.X + offset, Y: r.Y + r.H}
	case port.East:
		return ir.Point{X: r.X + r.W, Y: r.Y + offset}
	default: // West
		return ir.Point{X: r.X, Y: r.Y + offset}
	}
}

func buildNeighborMaps(edges []rank.Edge) (in, out map[string][]string) {
	in = make(map[string][]string)
	out = make(map[string][]string)
	for _, e := range edges {
		out[e.From] = append(out[e.From], e.To)
		in[e.To] = append(in[e.To], e.From)
	}
	return in, out
}

// weaklyConnectedComponents returns a componentOf function labeling
// every id in nodeIDs with its weakly-connected-component index
// (spec.md §4.8 pass 7), numbered in the order components are first
// encountered by the caller.
func weaklyConnectedComponents(nodeIDs []string, edges []ir.Edge) func(id string) int {
	parent := make(map[string]string, len(nodeIDs))
	for _, id := range nodeIDs {
		parent[id] = id
	}
	var find func(string) string
	find = func(id string) string {
		if parent[id] != id {
			parent[id] = find(parent[id])
		}
		return parent[id]
	}
	for _, e := range edges {
		if _, ok := parent[e.From]; !ok {
			continue
		}
		if _, ok := parent[e.To]; !ok {
			continue
		}
		ra, rb := find(e.From), find(e.To)
		if ra != rb {
			parent[ra] = rb
		}
	}
	index := make(map[string]int)
	next := 0
	return func(id string) int {
		root := find(id)
		if idx, ok := index[root]; ok {
			return idx
		}
		index[root] = next
		next++
		return index[root]
	}
}

// finalize mirrors coordinates for RightLeft/BottomTop directions,
// translates the scene so its minimum coordinate sits at outerPadding, and
// computes the final width/height (spec.md §4.12).
func finalize(l *ir.Layout) {
	var bounds ir.Rectangle
	for _, n := range l.Nodes {
		bounds = bounds.Union(n.Rect())
	}
	for _, sg := range l.Subgraphs {
		bounds = bounds.Union(sg.Rect())
	}
	for _, e := range l.Edges {
		for _, p := range e.Points {
			bounds = bounds.Union(ir.Rectangle{X: p.X, Y: p.Y, W: 0, H: 0})
		}
	}

	if l.Direction.Reversed() {
		mirrorX := l.Direction == ir.RightLeft
		mirrorY := l.Direction == ir.BottomTop
		mirror(l, bounds, mirrorX, mirrorY)
		// Recompute bounds post-mirror (mirroring is reflection, same
		// extents, but recomputing keeps this robust to future changes).
		bounds = ir.Rectangle{}
		for _, n := range l.Nodes {
			bounds = bounds.Union(n.Rect())
		}
		for _, sg := range l.Subgraphs {
			bounds = bounds.Union(sg.Rect())
		}
		for _, e := range l.Edges {
			for _, p := range e.Points {
				bounds = bounds.Union(ir.Rectangle{X: p.X, Y: p.Y})
			}
		}
	}

	dx := outerPadding - bounds.X
	dy := outerPadding - bounds.Y
	translate(l, dx, dy)

	l.Width = bounds.W + 2*outerPadding
	l.Height = bounds.H + 2*outerPadding
}

func mirror(l *ir.Layout, bounds ir.Rectangle, mirrorX, mirrorY bool) {
	flipX := func(x float64) float64 { return bounds.X + (bounds.X + bounds.W - x) }
	flipY := func(y float64) float64 { return bounds.Y + (bounds.Y + bounds.H - y) }
	for i := range l.Nodes {
		n := &l.Nodes[i]
		if mirrorX {
			n.X = flipX(n.X + n.Width)
		}
		if mirrorY {
			n.Y = flipY(n.Y + n.Height)
		}
	}
	for i := range l.Subgraphs {
		s := &l.Subgraphs[i]
		if mirrorX {
			s.X = flipX(s.X + s.Width)
		}
		if mirrorY {
			s.Y = flipY(s.Y + s.Height)
		}
	}
	for i := range l.Edges {
		e := &l.Edges[i]
		for j := range e.Points {
			if mirrorX {
				e.Points[j].X = flipX(e.Points[j].X)
			}
			if mirrorY {
				e.Points[j].Y = flipY(e.Points[j].Y)
			}
		}
		if e.HasLabelAnchor {
			if mirrorX {
				e.LabelAnchor.X = flipX(e.LabelAnchor.X)
			}
			if mirrorY {
				e.LabelAnchor.Y = flipY(e.LabelAnchor.Y)
			}
		}
	}
}

func translate(l *ir.Layout, dx, dy float64) {
	for i := range l.Nodes {
		l.Nodes[i].X += dx
		l.Nodes[i].Y += dy
	}
	for i := range l.Subgraphs {
		l.Subgraphs[i].X += dx
		l.Subgraphs[i].Y += dy
	}
	for i := range l.Edges {
		for j := range l.Edges[i].Points {
			l.Edges[i].Points[j].X += dx
			l.Edges[i].Points[j].Y += dy
		}
		if l.Edges[i].HasLabelAnchor {
			l.Edges[i].LabelAnchor.X += dx
			l.Edges[i].LabelAnchor.Y += dy
		}
	}
}

func emptyLayout(dir ir.Direction) *ir.Layout {
	return &ir.Layout{Direction: dir, Width: 2 * outerPadding, Height: 2 * outerPadding}
}

// errorLayout builds the fallback diagram spec.md §7 requires when a
// bespoke placement can't be computed: a single rectangle carrying the
// error message and the engine version.
func errorLayout(message string) *ir.Layout {
	w, h := 240.0, 80.0
	return &ir.Layout{
		Direction: ir.TopDown,
		Width:     w + 2*outerPadding,
		Height:    h + 2*outerPadding,
		Nodes: []ir.NodeLayout{{
			ID: "error", X: outerPadding, Y: outerPadding, Width: w, Height: h,
			Label: ir.TextBlock{Lines: []string{"layout error", message, Version}, Width: w, Height: h},
			Shape: ir.ShapeRectangle,
		}},
	}
}
