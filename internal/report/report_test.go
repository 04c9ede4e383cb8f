package report

import (
	"strings"
	"testing"

	"github.com/dnswlt/layoutctl/internal/ir"
	"github.com/dnswlt/layoutctl/internal/layout"
	"github.com/dnswlt/layoutctl/internal/theme"
)

func chainGraph() *ir.Graph {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.EnsureNode("c")
	g.AddEdge(ir.Edge{From: "a", To: "b", Directed: true})
	g.AddEdge(ir.Edge{From: "b", To: "c", Directed: true})
	return g
}

func crossingGraph() *ir.Graph {
	g := ir.NewGraph(ir.TopDown)
	g.EnsureNode("a")
	g.EnsureNode("b")
	g.EnsureNode("c")
	g.EnsureNode("d")
	g.AddEdge(ir.Edge{From: "a", To: "d", Directed: true})
	g.AddEdge(ir.Edge{From: "b", To: "c", Directed: true})
	return g
}

func TestExplain_BasicCounts(t *testing.T) {
	l := layout.Compute(chainGraph(), theme.Default(), layout.DefaultConfig())
	s := Explain(l)
	if s.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", s.NodeCount)
	}
	if s.EdgeCount != 2 {
		t.Errorf("EdgeCount = %d, want 2", s.EdgeCount)
	}
	if len(s.Ranks) != 3 {
		t.Errorf("len(Ranks) = %d, want 3 for a linear chain, got %+v", len(s.Ranks), s.Ranks)
	}
}

func TestExplain_RanksOrderedAlongMainAxis(t *testing.T) {
	l := layout.Compute(chainGraph(), theme.Default(), layout.DefaultConfig())
	s := Explain(l)
	want := [][]string{{"a"}, {"b"}, {"c"}}
	for i, r := range s.Ranks {
		if len(r.Nodes) != len(want[i]) || r.Nodes[0] != want[i][0] {
			t.Errorf("Ranks[%d].Nodes = %v, want %v", i, r.Nodes, want[i])
		}
	}
}

func TestMarkdown_ContainsKeyFigures(t *testing.T) {
	l := layout.Compute(chainGraph(), theme.Default(), layout.DefaultConfig())
	s := Explain(l)
	md, err := Markdown(s)
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	for _, want := range []string{"Layout report", "Nodes: 3", "Edges: 2", "## Ranks"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestHTML_RendersValidFragment(t *testing.T) {
	l := layout.Compute(chainGraph(), theme.Default(), layout.DefaultConfig())
	s := Explain(l)
	html, err := HTML(s)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(string(html), "<h1>Layout report</h1>") {
		t.Errorf("expected an <h1> heading in HTML output, got:\n%s", html)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Errorf("expected a <table> for the rank table, got:\n%s", html)
	}
}

func TestExplain_CountsNoNegativeCrossings(t *testing.T) {
	l := layout.Compute(crossingGraph(), theme.Default(), layout.DefaultConfig())
	s := Explain(l)
	if s.CrossingCount < 0 {
		t.Errorf("CrossingCount = %d, want >= 0", s.CrossingCount)
	}
}
