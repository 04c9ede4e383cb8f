// Package coord assigns absolute main-axis and cross-axis coordinates to
// already-ranked, already-ordered nodes (spec.md §4.7).
package coord

import "sort"

// Extent is the size, along both axes, of a single placeable element
// (node, span-dummy, or label-dummy).
type Extent struct {
	Main  float64 // extent along the main (rank) axis
	Cross float64 // extent along the cross axis
}

// Pass computes per-node Main and Cross center coordinates for a sequence
// of ranks. rankNodes[r] lists node ids in rank r, in crossing-reduction
// order; extents gives each node's size; neighborsIn/neighborsOut give,
// for each node, the ids of its neighbors in the adjacent rank during a
// top-down/bottom-up sweep respectively. rankGap(r) returns the gap to
// place before rank r (already reduced for label-dummy ranks, per spec.md
// §4.5); nodeSpacing is the minimum cross-axis gap between siblings.
type Pass struct {
	RankNodes    [][]string
	Extents      map[string]Extent
	NeighborsIn  map[string][]string
	NeighborsOut map[string][]string
	RankGap      func(rankIndex int) float64
	NodeSpacing  float64
	OrderPasses  int
}

// Result is the computed center coordinates, keyed by node id.
type Result struct {
	MainCenter  map[string]float64
	CrossCenter map[string]float64
}

// Run computes main-axis and cross-axis centers for every node across all
// ranks.
func (p Pass) Run() Result {
	res := Result{
		MainCenter:  make(map[string]float64),
		CrossCenter: make(map[string]float64),
	}
	p.assignMainAxis(res)
	p.assignCrossAxis(res)
	return res
}

// assignMainAxis walks ranks in order, placing each rank's main-axis
// cursor at the previous rank's maximum extent plus the rank gap.
func (p Pass) assignMainAxis(res Result) {
	cursor := 0.0
	for r, bucket := range p.RankNodes {
		if r > 0 {
			cursor += p.RankGap(r)
		}
		maxExtent := 0.0
		for _, id := range bucket {
			if e := p.Extents[id].Main; e > maxExtent {
				maxExtent = e
			}
		}
		center := cursor + maxExtent/2
		for _, id := range bucket {
			res.MainCenter[id] = center
		}
		cursor += maxExtent
	}
}

// assignCrossAxis iterates the blend/sort/separate/re-center pass for
// OrderPasses rounds (spec.md §4.7).
func (p Pass) assignCrossAxis(res Result) {
	passes := p.OrderPasses
	if passes < 1 {
		passes = 1
	}

	// Seed an initial position: index within the rank, spaced by node
	// extent, so the first blend has something plausible to work from.
	for _, bucket := range p.RankNodes {
		cursor := 0.0
		for _, id := range bucket {
			half := p.Extents[id].Cross / 2
			res.CrossCenter[id] = cursor + half
			cursor += p.Extents[id].Cross + p.NodeSpacing
		}
	}

	for round := 0; round < passes; round++ {
		topDown := round%2 == 0
		if topDown {
			for r := 0; r < len(p.RankNodes); r++ {
				p.settleRank(r, p.NeighborsIn, res)
			}
		} else {
			for r := len(p.RankNodes) - 1; r >= 0; r-- {
				p.settleRank(r, p.NeighborsOut, res)
			}
		}
	}
}

// settleRank blends each node's desired center (median of neighbor
// centers) with its previous position, sorts by desired center, enforces
// minimum separation in both sweep directions, and re-centers the rank.
func (p Pass) settleRank(r int, neighbors map[string][]string, res Result) {
	bucket := p.RankNodes[r]
	if len(bucket) == 0 {
		return
	}

	desired := make(map[string]float64, len(bucket))
	prevMean := 0.0
	for _, id := range bucket {
		prev := res.CrossCenter[id]
		prevMean += prev
		d := neighborMedian(id, neighbors, res.CrossCenter)
		desired[id] = 0.85*d + 0.15*prev
	}
	prevMean /= float64(len(bucket))

	ordered := append([]string(nil), bucket...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return desired[ordered[i]] < desired[ordered[j]]
	})

	centers := make(map[string]float64, len(bucket))
	for _, id := range ordered {
		centers[id] = desired[id]
	}

	// Left-to-right sweep: push right to satisfy minimum separation.
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		minGap := p.Extents[prev].Cross/2 + p.Extents[cur].Cross/2 + p.NodeSpacing
		if centers[cur]-centers[prev] < minGap {
			centers[cur] = centers[prev] + minGap
		}
	}
	// Right-to-left sweep: pull left symmetrically.
	for i := len(ordered) - 2; i >= 0; i-- {
		next, cur := ordered[i+1], ordered[i]
		minGap := p.Extents[next].Cross/2 + p.Extents[cur].Cross/2 + p.NodeSpacing
		if centers[next]-centers[cur] < minGap {
			centers[cur] = centers[next] - minGap
		}
	}

	// Re-center so the rank's mean matches its desired (pre-separation)
	// mean, preserving global centering.
	newMean := 0.0
	for _, id := range ordered {
		newMean += centers[id]
	}
	newMean /= float64(len(ordered))
	shift := prevMeanOfDesired(desired, ordered) - newMean
	for _, id := range ordered {
		res.CrossCenter[id] = centers[id] + shift
	}

	// Persist the crossing-reduction order for the next sweep's min-gap
	// calculation; RankNodes is shared state the caller also uses for
	// serialization, so reorder it too.
	copy(bucket, ordered)
}

func prevMeanOfDesired(desired map[string]float64, ids []string) float64 {
	sum := 0.0
	for _, id := range ids {
		sum += desired[id]
	}
	if len(ids) == 0 {
		return 0
	}
	return sum / float64(len(ids))
}

// neighborMedian returns the median current center among id's neighbors,
// falling back to id's own current center if it has none.
func neighborMedian(id string, neighbors map[string][]string, centers map[string]float64) float64 {
	list := neighbors[id]
	if len(list) == 0 {
		return centers[id]
	}
	values := make([]float64, 0, len(list))
	for _, n := range list {
		if c, ok := centers[n]; ok {
			values = append(values, c)
		}
	}
	if len(values) == 0 {
		return centers[id]
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// AdaptiveSpacing scales nodeSpacing/rankSpacing down when the average
// node extent is small, and holds them at a floor when the graph is dense
// (spec.md §4.7 "Adaptive spacing").
func AdaptiveSpacing(avgExtent, nodeSpacing, rankSpacing, edgeNodeRatio, densityThreshold, denseScaleFloor, minSpacing float64) (float64, float64) {
	scale := 1.0
	if avgExtent > 0 && avgExtent < nodeSpacing {
		scale = avgExtent / nodeSpacing
	}
	if edgeNodeRatio > densityThreshold && scale < denseScaleFloor {
		scale = denseScaleFloor
	}
	ns := nodeSpacing * scale
	rs := rankSpacing * scale
	if ns < minSpacing {
		ns = minSpacing
	}
	if rs < minSpacing {
		rs = minSpacing
	}
	return ns, rs
}
