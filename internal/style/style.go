// Package style resolves the cascade of class styles and per-element
// overrides into a final, concrete style for each node, subgraph, and edge
// (spec.md §4.3).
package style

import "github.com/dnswlt/layoutctl/internal/ir"

// Resolver computes final styles against one Graph's class/override
// tables.
type Resolver struct {
	graph *ir.Graph
}

// New returns a Resolver bound to graph.
func New(graph *ir.Graph) Resolver {
	return Resolver{graph: graph}
}

// Node resolves the final style for the node with the given id: default
// style, overlaid by each of its classes in order, overlaid by its
// per-node override.
func (r Resolver) Node(id string) ir.NodeStyle {
	var s ir.NodeStyle
	for _, class := range r.graph.NodeClasses[id] {
		if cs, ok := r.graph.ClassDefs[class]; ok {
			s = s.Merge(cs)
		}
	}
	if override, ok := r.graph.NodeStyles[id]; ok {
		s = s.Merge(override)
	}
	return s
}

// Subgraph resolves the final style for the subgraph at index i: default
// style overlaid by its own explicit style, if any (subgraphs don't carry
// a class list of their own in the IR — spec.md §3).
func (r Resolver) Subgraph(i int) ir.NodeStyle {
	sg := r.graph.Subgraphs[i]
	var s ir.NodeStyle
	if sg.HasStyle {
		s = s.Merge(sg.Style)
	}
	if override, ok := r.graph.SubgraphStyles[sg.AnchorID]; ok {
		s = s.Merge(override)
	}
	return s
}

// Edge resolves the final style override for the edge at index i: the
// graph's default edge style, overlaid by that edge's own override, if
// any.
func (r Resolver) Edge(i int) ir.EdgeStyleOverride {
	var s ir.EdgeStyleOverride
	if r.graph.HasDefaultEdgeStyle {
		s = s.Merge(r.graph.DefaultEdgeStyle)
	}
	if override, ok := r.graph.EdgeStyles[i]; ok {
		s = s.Merge(override)
	}
	return s
}
