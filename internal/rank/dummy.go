package rank

import (
	"fmt"
	"sort"
)

// DummyPlan is the result of splitting every edge spanning more than one
// rank into a chain of unit-hop edges joined by hidden placeholder nodes
// (spec.md §4.5).
type DummyPlan struct {
	// Extra lists every synthetic dummy id introduced, in a stable
	// (edge-index, then ascending slot) order.
	Extra []string
	// Slot gives each dummy id's position in the doubled rank-slot space
	// (2*originalRank), so a label-dummy can land on the odd slot strictly
	// between two adjacent original ranks.
	Slot map[string]int
	// ChainEdges replaces the original edge set with unit hops (From/To
	// either real or dummy ids) for ordering and neighbor-adjacency
	// purposes: every original edge becomes a path through its dummies,
	// and a same-rank edge (e.g. a back-edge) passes through unchanged.
	ChainEdges []Edge
	// LabelDummy maps an edge's index to the id of its label-dummy, for
	// edges that got one.
	LabelDummy map[int]string

	// labelSlots records the chosen label slot per edge index while the
	// chain is still being built, so PlanDummies can recognize which slot
	// it's visiting is the one to reuse as the label-dummy.
	labelSlots map[int]int
}

// PlanDummies expands edges into span-dummy/label-dummy chains (spec.md
// §4.5). hasLabel reports whether edge i carries a center label. Edges
// with an endpoint missing from ranks are left out of the plan entirely;
// the caller is expected to have already decided to skip them.
func PlanDummies(edges []Edge, ranks map[string]int, hasLabel func(edgeIndex int) bool) DummyPlan {
	plan := DummyPlan{Slot: map[string]int{}, LabelDummy: map[int]string{}}

	for i, e := range edges {
		rf, okf := ranks[e.From]
		rt, okt := ranks[e.To]
		if !okf || !okt {
			continue
		}

		lo, hi := rf, rt
		reversed := false
		if lo > hi {
			lo, hi = hi, lo
			reversed = true
		}
		if hi == lo {
			// Same-rank edge (typically a tolerated back-edge): no room to
			// split, route it directly.
			plan.ChainEdges = append(plan.ChainEdges, Edge{From: e.From, To: e.To})
			continue
		}

		lo2, hi2 := 2*lo, 2*hi
		var slots []int
		for s := lo2 + 2; s < hi2; s += 2 {
			slots = append(slots, s)
		}

		if hasLabel(i) {
			if len(slots) > 0 {
				mid := (lo2 + hi2) / 2
				best := slots[0]
				for _, s := range slots {
					if absInt(s-mid) < absInt(best-mid) {
						best = s
					}
				}
				plan.registerLabel(i, best)
			} else {
				labelSlot := lo2 + 1
				slots = append(slots, labelSlot)
				sort.Ints(slots)
				plan.registerLabel(i, labelSlot)
			}
		}

		startID, endID := e.From, e.To
		if reversed {
			startID, endID = e.To, e.From
		}

		chain := make([]string, 0, len(slots)+2)
		chain = append(chain, startID)
		for _, s := range slots {
			id := fmt.Sprintf("__dummy_e%d_r%d", i, s)
			if _, exists := plan.Slot[id]; !exists {
				plan.Slot[id] = s
				plan.Extra = append(plan.Extra, id)
			}
			if s == plan.labelSlotOf(i) {
				plan.LabelDummy[i] = id
			}
			chain = append(chain, id)
		}
		chain = append(chain, endID)

		for h := 0; h+1 < len(chain); h++ {
			plan.ChainEdges = append(plan.ChainEdges, Edge{From: chain[h], To: chain[h+1]})
		}
	}

	return plan
}

func (p *DummyPlan) registerLabel(edgeIndex, slot int) {
	if p.labelSlots == nil {
		p.labelSlots = map[int]int{}
	}
	p.labelSlots[edgeIndex] = slot
}

func (p *DummyPlan) labelSlotOf(edgeIndex int) int {
	if p.labelSlots == nil {
		return -1
	}
	s, ok := p.labelSlots[edgeIndex]
	if !ok {
		return -1
	}
	return s
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
