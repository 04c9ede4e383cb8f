package order

import (
	"reflect"
	"testing"
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

func TestReduce_UncrossesSimpleBipartite(t *testing.T) {
	// A1-B2, A2-B1 crossed; median ordering should swap rank 1 to uncross.
	rankNodes := [][]string{
		{"A1", "A2"},
		{"B2", "B1"},
	}
	edges := []Edge{
		{From: "A1", To: "B1"},
		{From: "A2", To: "B2"},
	}
	declared := []string{"A1", "A2", "B1", "B2"}
	Reduce(rankNodes, edges, declOrder(declared), 2)

	want := []string{"B1", "B2"}
	if !reflect.DeepEqual(rankNodes[1], want) {
		t.Fatalf("rank 1 = %v, want %v", rankNodes[1], want)
	}
}

func TestReduce_SingleRankNoop(t *testing.T) {
	rankNodes := [][]string{{"A", "B"}}
	Reduce(rankNodes, nil, declOrder([]string{"A", "B"}), 3)
	if !reflect.DeepEqual(rankNodes[0], []string{"A", "B"}) {
		t.Fatalf("single rank should be left untouched, got %v", rankNodes[0])
	}
}

func TestReduce_TiesBreakByDeclarationOrder(t *testing.T) {
	// Two nodes in rank 1 with no neighbors at all keep their current
	// position (median falls back to current position for both).
	rankNodes := [][]string{
		{"X"},
		{"B", "A"},
	}
	Reduce(rankNodes, nil, declOrder([]string{"A", "B", "X"}), 1)
	if !reflect.DeepEqual(rankNodes[1], []string{"B", "A"}) {
		t.Fatalf("expected order preserved when no neighbors exist, got %v", rankNodes[1])
	}
}

func TestMedianPosition_EvenNeighborsAverages(t *testing.T) {
	positions := map[string]int{"n1": 0, "n2": 3}
	neighbors := map[string][]string{"x": {"n1", "n2"}}
	got := medianPosition("x", neighbors, positions, map[string]int{"x": 5})
	if got != 1.5 {
		t.Fatalf("medianPosition = %v, want 1.5", got)
	}
}
