package rank

import (
	"testing"

	"github.com/dnswlt/layoutctl/internal/ir"
)

func declOrder(order []string) func(string) int {
	idx := make(map[string]int, len(order))
	for i, id := range order {
		idx[id] = i
	}
	return func(id string) int {
		if i, ok := idx[id]; ok {
			return i
		}
		return len(order)
	}
}

func TestCompute_LinearChain(t *testing.T) {
	nodes := []string{"A", "B", "C"}
	edges := []Edge{{From: "A", To: "B"}, {From: "B", To: "C"}}
	ranks := Compute(nodes, edges, declOrder(nodes))
	if ranks["A"] != 0 || ranks["B"] != 1 || ranks["C"] != 2 {
		t.Fatalf("unexpected ranks: %v", ranks)
	}
}

func TestCompute_Diamond(t *testing.T) {
	nodes := []string{"A", "B", "C", "D"}
	edges := []Edge{
		{From: "A", To: "B"}, {From: "A", To: "C"},
		{From: "B", To: "D"}, {From: "C", To: "D"},
	}
	ranks := Compute(nodes, edges, declOrder(nodes))
	if ranks["A"] != 0 || ranks["D"] != 2 {
		t.Fatalf("unexpected ranks: %v", ranks)
	}
	if ranks["B"] != 1 || ranks["C"] != 1 {
		t.Fatalf("expected B and C at rank 1: %v", ranks)
	}
}

func TestCompute_Cycle(t *testing.T) {
	nodes := []string{"A", "B", "C"}
	edges := []Edge{{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "C", To: "A"}}
	ranks := Compute(nodes, edges, declOrder(nodes))
	// Must be dense and non-negative; no panics, no infinite loop.
	for _, id := range nodes {
		if ranks[id] < 0 {
			t.Fatalf("rank for %s is negative: %d", id, ranks[id])
		}
	}
	if ranks["A"] != 0 {
		t.Fatalf("expected declaration-earliest node A to root the cycle at rank 0, got %d", ranks["A"])
	}
}

func TestCompute_DisconnectedNodes(t *testing.T) {
	nodes := []string{"A", "B"}
	ranks := Compute(nodes, nil, declOrder(nodes))
	if ranks["A"] != 0 || ranks["B"] != 0 {
		t.Fatalf("unconnected nodes should both rank 0: %v", ranks)
	}
}

func TestFilterPrimaryEdges_FewEdgesReturnsAll(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("A")
	g.EnsureNode("B")
	g.AddEdge(ir.Edge{From: "A", To: "B", Style: ir.LineDotted})

	got := FilterPrimaryEdges([]string{"A", "B"}, g)
	if len(got) != 1 {
		t.Fatalf("expected unfiltered edge set for < 3 edges, got %v", got)
	}
}

func TestFilterPrimaryEdges_PrimaryCoversMost(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	for _, id := range []string{"A", "B", "C", "D"} {
		g.EnsureNode(id)
	}
	g.AddEdge(ir.Edge{From: "A", To: "B"})
	g.AddEdge(ir.Edge{From: "B", To: "C"})
	g.AddEdge(ir.Edge{From: "A", To: "D", Style: ir.LineDotted})

	got := FilterPrimaryEdges([]string{"A", "B", "C", "D"}, g)
	if len(got) != 2 {
		t.Fatalf("expected the dotted edge dropped, got %d edges: %v", len(got), got)
	}
	for _, e := range got {
		if !e.Primary {
			t.Fatalf("filtered set must contain only primary edges: %v", got)
		}
	}
}

func TestFilterPrimaryEdges_PrimaryCoversTooLittle(t *testing.T) {
	g := ir.NewGraph(ir.TopDown)
	for _, id := range []string{"A", "B", "C", "D", "E", "F"} {
		g.EnsureNode(id)
	}
	g.AddEdge(ir.Edge{From: "A", To: "B"})
	g.AddEdge(ir.Edge{From: "C", To: "D", Style: ir.LineDotted})
	g.AddEdge(ir.Edge{From: "D", To: "E", Style: ir.LineDotted})
	g.AddEdge(ir.Edge{From: "E", To: "F", Style: ir.LineDotted})

	got := FilterPrimaryEdges([]string{"A", "B", "C", "D", "E", "F"}, g)
	if len(got) != 4 {
		t.Fatalf("expected the full edge set when primary coverage is too small, got %d: %v", len(got), got)
	}
}
