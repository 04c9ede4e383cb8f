// Package order performs two-layer crossing reduction within each rank
// (spec.md §4.6), grounded on original_source/src/layout/ranking.rs's
// order_rank_nodes/median_position.
package order

import "sort"

// Edge is the minimal edge shape ordering needs.
type Edge struct {
	From, To string
}

// Reduce reorders the node ids within each bucket of rankNodes in place to
// reduce two-layer crossings against edges, repeating for passes sweeps
// (top-to-bottom by incoming neighbors, then bottom-to-top by outgoing
// neighbors). orderKey supplies each node's declaration-order index, used
// as the final tie-break. passes below 1 is treated as 1.
func Reduce(rankNodes [][]string, edges []Edge, orderKey func(id string) int, passes int) {
	if len(rankNodes) <= 1 {
		return
	}
	if passes < 1 {
		passes = 1
	}

	incoming := make(map[string][]string)
	outgoing := make(map[string][]string)
	for _, e := range edges {
		outgoing[e.From] = append(outgoing[e.From], e.To)
		incoming[e.To] = append(incoming[e.To], e.From)
	}

	positions := make(map[string]int)
	updatePositions := func() {
		for k := range positions {
			delete(positions, k)
		}
		for _, bucket := range rankNodes {
			for idx, id := range bucket {
				positions[id] = idx
			}
		}
	}
	updatePositions()

	sortBucket := func(bucket []string, neighbors map[string][]string) {
		currentPositions := make(map[string]int, len(bucket))
		for idx, id := range bucket {
			currentPositions[id] = idx
		}
		scores := make(map[string]float64, len(bucket))
		for _, id := range bucket {
			scores[id] = medianPosition(id, neighbors, positions, currentPositions)
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			a, b := bucket[i], bucket[j]
			if scores[a] != scores[b] {
				return scores[a] < scores[b]
			}
			if currentPositions[a] != currentPositions[b] {
				return currentPositions[a] < currentPositions[b]
			}
			return orderKey(a) < orderKey(b)
		})
	}

	for p := 0; p < passes; p++ {
		for rank := 1; rank < len(rankNodes); rank++ {
			if len(rankNodes[rank]) <= 1 {
				continue
			}
			sortBucket(rankNodes[rank], incoming)
			updatePositions()
		}
		for rank := len(rankNodes) - 2; rank >= 0; rank-- {
			if len(rankNodes[rank]) <= 1 {
				continue
			}
			sortBucket(rankNodes[rank], outgoing)
			updatePositions()
		}
	}
}

// medianPosition returns the median, among neighbors[id], of their current
// positions in the adjacent rank (per the global positions map), falling
// back to id's own current position when it has no positioned neighbors.
func medianPosition(id string, neighbors map[string][]string, positions, currentPositions map[string]int) float64 {
	list, ok := neighbors[id]
	if !ok {
		return float64(currentPositions[id])
	}
	var values []float64
	for _, n := range list {
		if pos, ok := positions[n]; ok {
			values = append(values, float64(pos))
		}
	}
	if len(values) == 0 {
		return float64(currentPositions[id])
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) * 0.5
}
