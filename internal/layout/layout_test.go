package layout

import (
	"testing"

	"github.com/dnswlt/layoutctl/internal/ir"
	"github.com/dnswlt/layoutctl/internal/theme"
)

func linearGraph(dir ir.Direction) *ir.Graph {
	g := ir.NewGraph(dir)
	g.EnsureNode("a").Label = "Start"
	g.EnsureNode("b").Label = "Middle step with a longer label"
	g.EnsureNode("c").Label = "End"
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true, ArrowEnd: ir.ArrowNormal})
	g.AddEdge(ir.Edge{From: "b", To: "c", Directed: true, ArrowEnd: ir.ArrowNormal, HasLabel: true, Label: "next"})
	return g
}

func visibleNodeCount(l *ir.Layout) int {
	n := 0
	for _, node := range l.Nodes {
		if !node.Hidden {
			n++
		}
	}
	return n
}

func TestCompute_LinearChain_TopDown(t *testing.T) {
	g := linearGraph(ir.TopDown)
	l := Compute(g, theme.Default(), DefaultConfig())

	if visibleNodeCount(l) != 3 {
		t.Fatalf("expected 3 visible nodes, got %d (of %d total)", visibleNodeCount(l), len(l.Nodes))
	}
	if len(l.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(l.Edges))
	}
	a, _ := l.NodeByID("a")
	b, _ := l.NodeByID("b")
	c, _ := l.NodeByID("c")
	if !(a.Y < b.Y && b.Y < c.Y) {
		t.Fatalf("expected ranks to increase in Y for top-down: a=%v b=%v c=%v", a.Y, b.Y, c.Y)
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Fatalf("expected positive bounding box, got %vx%v", l.Width, l.Height)
	}
	for _, n := range l.Nodes {
		if n.X < 0 || n.Y < 0 {
			t.Fatalf("expected non-negative coordinates after padding translation, got %+v", n)
		}
	}
}

func TestCompute_LeftRight_SwapsAxes(t *testing.T) {
	g := linearGraph(ir.LeftRight)
	l := Compute(g, theme.Default(), DefaultConfig())
	a, _ := l.NodeByID("a")
	c, _ := l.NodeByID("c")
	if !(a.X < c.X) {
		t.Fatalf("expected rank axis to run along X for left-right, got a.X=%v c.X=%v", a.X, c.X)
	}
}

func TestCompute_RightLeft_MirrorsMainAxis(t *testing.T) {
	g := linearGraph(ir.RightLeft)
	l := Compute(g, theme.Default(), DefaultConfig())
	a, _ := l.NodeByID("a")
	c, _ := l.NodeByID("c")
	if !(a.X > c.X) {
		t.Fatalf("expected right-to-left mirroring to put the first node rightmost, got a.X=%v c.X=%v", a.X, c.X)
	}
}

func TestCompute_EmptyGraph(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	l := Compute(g, theme.Default(), DefaultConfig())
	if len(l.Nodes) != 0 || l.Width <= 0 || l.Height <= 0 {
		t.Fatalf("expected an empty-but-valid layout, got %+v", l)
	}
}

func TestCompute_CyclicGraph_DoesNotPanic(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.EnsureNode("c")
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true})
	g.AddEdge(ir.Edge{From: "b", To: "c", Directed: true})
	g.AddEdge(ir.Edge{From: "c", To: "a", Directed: true})
	l := Compute(g, theme.Default(), DefaultConfig())
	if visibleNodeCount(l) != 3 {
		t.Fatalf("expected all 3 nodes placed despite the cycle, got %d visible (of %d total)", visibleNodeCount(l), len(l.Nodes))
	}
}

func TestCompute_Subgraph_BoundsContainMembers(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true})
	g.Subgraphs = append(g.Subgraphs, ir.Subgraph{Label: "group", Nodes: []string{"a", "b"}})

	l := Compute(g, theme.Default(), DefaultConfig())
	if len(l.Subgraphs) != 1 {
		t.Fatalf("expected one subgraph layout, got %d", len(l.Subgraphs))
	}
	sg := l.Subgraphs[0]
	for _, id := range sg.Nodes {
		n, ok := l.NodeByID(id)
		if !ok {
			t.Fatalf("member %q missing from layout", id)
		}
		if !sg.Rect().Contains(n.Rect()) {
			t.Fatalf("expected subgraph bounds to contain member %q: sg=%+v node=%+v", id, sg.Rect(), n.Rect())
		}
	}
}

func TestCompute_GridRouter_ProducesPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Flowchart.Routing.EnableGridRouter = true
	g := linearGraph(ir.TopDown)
	l := Compute(g, theme.Default(), cfg)
	for _, e := range l.Edges {
		if len(e.Points) < 2 {
			t.Fatalf("expected a routed polyline for edge %s->%s, got %v", e.From, e.To, e.Points)
		}
	}
}

func TestCompute_LongEdge_GetsHiddenSpanDummy(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.EnsureNode("c")
	g.EnsureNode("d")
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true})
	g.AddEdge(ir.Edge{From: "b", To: "c", Directed: true})
	g.AddEdge(ir.Edge{From: "c", To: "d", Directed: true})
	g.AddEdge(ir.Edge{From: "a", To: "d", Directed: true}) // spans 3 ranks

	l := Compute(g, theme.Default(), DefaultConfig())
	if visibleNodeCount(l) != 4 {
		t.Fatalf("expected 4 visible nodes, got %d", visibleNodeCount(l))
	}
	hidden := 0
	for _, n := range l.Nodes {
		if n.Hidden {
			hidden++
			if n.Width != 0 || n.Height != 0 {
				t.Fatalf("expected a span-dummy to be zero-sized, got %+v", n)
			}
		}
	}
	if hidden != 2 {
		t.Fatalf("expected 2 hidden span-dummies for a 3-rank edge, got %d", hidden)
	}
}

func TestCompute_LabeledAdjacentRankEdge_AnchorsOnLabelDummy(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true, HasLabel: true, Label: "flows to"})

	l := Compute(g, theme.Default(), DefaultConfig())
	hiddenCount := 0
	for _, n := range l.Nodes {
		if n.Hidden {
			hiddenCount++
		}
	}
	if hiddenCount != 1 {
		t.Fatalf("expected exactly one label-dummy for the labeled edge, got %d", hiddenCount)
	}
	if len(l.Edges) != 1 || !l.Edges[0].HasLabelAnchor {
		t.Fatalf("expected the edge to carry a label anchor, got %+v", l.Edges)
	}
}

func TestCompute_ParallelEdges_GetDistinctPaths(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true})
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true, Style: ir.LineDotted})

	l := Compute(g, theme.Default(), DefaultConfig())
	if len(l.Edges) != 2 {
		t.Fatalf("expected 2 parallel edges, got %d", len(l.Edges))
	}
	if pointsEqual(l.Edges[0].Points, l.Edges[1].Points) {
		t.Fatalf("expected parallel edges to route distinct polylines, got identical paths %v", l.Edges[0].Points)
	}
}

func pointsEqual(a, b []ir.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompute_MultipleEdgesOnOneSide_GetDistinctOffsets(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("hub")
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.EnsureNode("c")
	g.AddEdge(ir.Edge{From: "hub", To: "a", Directed: true})
	g.AddEdge(ir.Edge{From: "hub", To: "b", Directed: true})
	g.AddEdge(ir.Edge{From: "hub", To: "c", Directed: true})

	l := Compute(g, theme.Default(), DefaultConfig())
	starts := make(map[ir.Point]bool)
	for _, e := range l.Edges {
		if e.From != "hub" || len(e.Points) == 0 {
			continue
		}
		start := e.Points[0]
		if starts[start] {
			t.Fatalf("expected every hub edge to leave from a distinct port, got a repeated start %v", start)
		}
		starts[start] = true
	}
	if len(starts) != 3 {
		t.Fatalf("expected 3 distinct hub port offsets, got %d", len(starts))
	}
}

func TestCompute_Subgraphs_DoNotOverlap(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a1")
	g.EnsureNode("a2")
	g.EnsureNode("b1")
	g.EnsureNode("b2")
	g.AddEdge(ir.Edge{From: "a1", To: "a2", Directed: true})
	g.AddEdge(ir.Edge{From: "b1", To: "b2", Directed: true})
	g.Subgraphs = append(g.Subgraphs, ir.Subgraph{Label: "groupA", Nodes: []string{"a1", "a2"}})
	g.Subgraphs = append(g.Subgraphs, ir.Subgraph{Label: "groupB", Nodes: []string{"b1", "b2"}})

	l := Compute(g, theme.Default(), DefaultConfig())
	if len(l.Subgraphs) != 2 {
		t.Fatalf("expected 2 subgraph layouts, got %d", len(l.Subgraphs))
	}
	ra, rb := l.Subgraphs[0].Rect(), l.Subgraphs[1].Rect()
	if ra.Intersects(rb) {
		t.Fatalf("expected sibling subgraph clusters to be kept apart, got overlapping rects %+v and %+v", ra, rb)
	}
}

func TestErrorLayout_EmbedsVersion(t *testing.T) {
	l := errorLayout("boom")
	if len(l.Nodes) != 1 {
		t.Fatalf("expected a single placeholder node, got %d", len(l.Nodes))
	}
	found := false
	for _, line := range l.Nodes[0].Label.Lines {
		if line == Version {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the error layout to embed the engine version, got %v", l.Nodes[0].Label.Lines)
	}
}
