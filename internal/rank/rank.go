// Package rank computes a topological rank for a node set (spec.md §4.4)
// and, as a supplemented feature, filters a flowchart's edges down to its
// "primary" (non-dotted) subset for ranking purposes when that subset
// already reaches most of the graph (original_source/src/layout/
// ranking.rs, rank_edges_for_manual_layout).
package rank

import (
	"container/heap"

	"github.com/dnswlt/layoutctl/internal/ir"
)

// Edge is the minimal edge shape ranking needs: endpoints plus whether it
// counts as "primary" (non-dotted) for FilterPrimaryEdges.
type Edge struct {
	From, To string
	Primary  bool
}

func edgesFromIR(edges []ir.Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{From: e.From, To: e.To, Primary: e.Style != ir.LineDotted}
	}
	return out
}

// FilterPrimaryEdges returns only the primary (non-dotted) edges among
// graph's edges when at least half of nodeIDs are endpoints of a primary
// edge, so ranking ignores decorative dotted edges unless they're load
// bearing. Graphs with fewer than 3 edges, or where primary edges cover
// too little of the node set, return every edge unfiltered.
func FilterPrimaryEdges(nodeIDs []string, graph *ir.Graph) []Edge {
	all := edgesFromIR(graph.Edges)
	if len(all) < 3 {
		return all
	}

	var primary []Edge
	for _, e := range all {
		if e.Primary {
			primary = append(primary, e)
		}
	}
	if len(primary) == 0 {
		return all
	}

	covered := make(map[string]bool)
	for _, e := range primary {
		covered[e.From] = true
		covered[e.To] = true
	}
	minCovered := (len(nodeIDs) + 1) / 2 // div_ceil(len, 2)
	if len(covered) >= minCovered {
		return primary
	}
	return all
}

// ranksHeapItem is a (declaration-order-key, node id) pair ordered by key.
type ranksHeapItem struct {
	key int
	id  string
}

type minHeap []ranksHeapItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].key < h[j].key }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)         { *h = append(*h, x.(ranksHeapItem)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Compute assigns a dense, non-negative rank to every id in nodeIDs using
// only the edges whose endpoints are both in nodeIDs. orderKey supplies
// each node's declaration-order index, used both to break topological-sort
// ties and to pick a synthetic source when a cycle leaves nodes stranded
// (spec.md §4.4).
func Compute(nodeIDs []string, edges []Edge, orderKey func(id string) int) map[string]int {
	set := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		set[id] = true
	}

	adj := make(map[string][]string)
	indeg := make(map[string]int, len(nodeIDs))
	for _, id := range nodeIDs {
		indeg[id] = 0
	}
	for _, e := range edges {
		if !set[e.From] || !set[e.To] {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		indeg[e.To]++
	}

	h := &minHeap{}
	heap.Init(h)
	for _, id := range nodeIDs {
		if indeg[id] == 0 {
			heap.Push(h, ranksHeapItem{key: orderKey(id), id: id})
		}
	}

	order := make([]string, 0, len(nodeIDs))
	processed := make(map[string]bool, len(nodeIDs))

	for {
		for h.Len() > 0 {
			item := heap.Pop(h).(ranksHeapItem)
			if processed[item.id] {
				continue
			}
			order = append(order, item.id)
			processed[item.id] = true
			for _, next := range adj[item.id] {
				if processed[next] {
					continue
				}
				indeg[next]--
				if indeg[next] == 0 {
					heap.Push(h, ranksHeapItem{key: orderKey(next), id: next})
				}
			}
		}
		if len(processed) >= len(set) {
			break
		}

		// Cycle: pick the earliest-declared unprocessed node as a synthetic
		// source, implicitly reversing one edge in its strongly connected
		// component.
		best := ""
		bestKey := 0
		haveBest := false
		for _, id := range nodeIDs {
			if processed[id] {
				continue
			}
			k := orderKey(id)
			if !haveBest || k < bestKey {
				best, bestKey, haveBest = id, k, true
			}
		}
		if !haveBest {
			break
		}
		heap.Push(h, ranksHeapItem{key: bestKey, id: best})
	}

	orderIndex := make(map[string]int, len(order))
	for i, id := range order {
		orderIndex[id] = i
	}

	ranks := make(map[string]int, len(nodeIDs))
	for _, id := range nodeIDs {
		ranks[id] = 0
	}
	for _, node := range order {
		r := ranks[node]
		fromIdx := orderIndex[node]
		for _, next := range adj[node] {
			toIdx, ok := orderIndex[next]
			if !ok {
				toIdx = fromIdx
			}
			if toIdx <= fromIdx {
				continue // back-edge: tolerated, left for the router (spec.md §4.4)
			}
			if r+1 > ranks[next] {
				ranks[next] = r + 1
			}
		}
	}
	return ranks
}
