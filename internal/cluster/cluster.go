// Package cluster implements subgraph anchoring and the post-placement
// adjustment passes that turn a flat rank/order/coordinate placement into
// one respecting subgraph grouping (spec.md §4.8).
package cluster

import (
	"sort"

	"github.com/dnswlt/layoutctl/internal/ir"
)

// FindAnchor returns the id of the node that stands in for sg during
// top-level layout: sg's declared AnchorID, unless that id is itself a
// member of sg (spec.md §4.8). The match is by id only: nodeLabel is not
// consulted, so a node whose label (rather than id) equals the declared
// anchor is not found, and the returned id is not checked against the
// graph's nodes.
func FindAnchor(sg ir.Subgraph, nodeLabel func(id string) string) (string, bool) {
	if !sg.HasAnchor {
		return "", false
	}
	members := make(map[string]bool, len(sg.Nodes))
	for _, id := range sg.Nodes {
		members[id] = true
	}
	if members[sg.AnchorID] {
		return "", false
	}
	return sg.AnchorID, true
}

// Box is a mutable axis-aligned placement used by the post-placement
// passes; it is deliberately decoupled from ir.NodeLayout/SubgraphLayout
// so these passes can be unit-tested against plain geometry.
type Box struct {
	ID         string
	X, Y, W, H float64
	GroupID    string // top-level subgraph this box belongs to, "" if none
}

func (b Box) Rect() ir.Rectangle { return ir.Rectangle{X: b.X, Y: b.Y, W: b.W, H: b.H} }

// ClusterBands groups boxes by GroupID and arranges the groups
// sequentially along the main axis (spec.md §4.8 pass 3, sequential
// mode) via SequenceGroups. It always uses this arrangement; no
// chain-aligned or grid arrangement of groups is implemented.
func ClusterBands(boxes []Box, mainAxisHorizontal bool, gap float64) {
	groups := groupByID(boxes)
	order := sortedGroupIDs(groups)
	SequenceGroups(boxes, groups, order, mainAxisHorizontal, gap)
}

func groupByID(boxes []Box) map[string][]int {
	groups := make(map[string][]int)
	for i, b := range boxes {
		if b.GroupID == "" {
			continue
		}
		groups[b.GroupID] = append(groups[b.GroupID], i)
	}
	return groups
}

func sortedGroupIDs(groups map[string][]int) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SequenceGroups lays groups out one after another along the main axis,
// each group's members keeping their relative offsets.
func SequenceGroups(boxes []Box, groups map[string][]int, order []string, mainAxisHorizontal bool, gap float64) {
	cursor := 0.0
	for _, gid := range order {
		idxs := groups[gid]
		minMain, maxMain := groupExtent(boxes, idxs, mainAxisHorizontal)
		shift := cursor - minMain
		for _, i := range idxs {
			if mainAxisHorizontal {
				boxes[i].X += shift
			} else {
				boxes[i].Y += shift
			}
		}
		cursor += (maxMain - minMain) + gap
	}
}

func groupExtent(boxes []Box, idxs []int, horizontal bool) (min, max float64) {
	first := true
	for _, i := range idxs {
		b := boxes[i]
		lo, hi := b.Y, b.Y+b.H
		if horizontal {
			lo, hi = b.X, b.X+b.W
		}
		if first {
			min, max = lo, hi
			first = false
			continue
		}
		if lo < min {
			min = lo
		}
		if hi > max {
			max = hi
		}
	}
	return min, max
}

// SiblingSeparation shifts overlapping top-level groups apart along the
// cross axis until no two group bounding boxes overlap (spec.md §4.8 pass
// 6).
func SiblingSeparation(boxes []Box, mainAxisHorizontal bool, spacing float64) {
	groups := groupByID(boxes)
	order := sortedGroupIDs(groups)
	rects := make(map[string]ir.Rectangle, len(order))
	for _, gid := range order {
		rects[gid] = groupRect(boxes, groups[gid])
	}

	for i := 1; i < len(order); i++ {
		cur := rects[order[i]]
		for j := 0; j < i; j++ {
			prev := rects[order[j]]
			if !cur.Intersects(prev) {
				continue
			}
			var shift float64
			if mainAxisHorizontal {
				shift = (prev.Y + prev.H + spacing) - cur.Y
			} else {
				shift = (prev.X + prev.W + spacing) - cur.X
			}
			if shift <= 0 {
				continue
			}
			for _, idx := range groups[order[i]] {
				if mainAxisHorizontal {
					boxes[idx].Y += shift
				} else {
					boxes[idx].X += shift
				}
			}
			cur = groupRect(boxes, groups[order[i]])
			rects[order[i]] = cur
		}
	}
}

func groupRect(boxes []Box, idxs []int) ir.Rectangle {
	var r ir.Rectangle
	for _, i := range idxs {
		r = r.Union(boxes[i].Rect())
	}
	return r
}

// ResolveOverlaps pushes any two overlapping, non-hidden boxes apart along
// the cross axis, iterating up to maxIterations times (spec.md §4.8 pass
// 9).
func ResolveOverlaps(boxes []Box, mainAxisHorizontal bool, spacing float64, maxIterations int) {
	if maxIterations <= 0 {
		maxIterations = 6
	}
	for iter := 0; iter < maxIterations; iter++ {
		moved := false
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if !boxes[i].Rect().Intersects(boxes[j].Rect()) {
					continue
				}
				var shift float64
				if mainAxisHorizontal {
					shift = (boxes[i].Y+boxes[i].H+spacing - boxes[j].Y) / 2
					boxes[j].Y += shift
					boxes[i].Y -= shift
				} else {
					shift = (boxes[i].X+boxes[i].W+spacing - boxes[j].X) / 2
					boxes[j].X += shift
					boxes[i].X -= shift
				}
				moved = true
			}
		}
		if !moved {
			break
		}
	}
}

// AlignDisconnectedComponents aligns each component's cross-axis origin
// and lays components out sequentially along the main axis (spec.md §4.8
// pass 7, used only when the graph has no subgraphs at all).
func AlignDisconnectedComponents(boxes []Box, componentOf func(id string) int, mainAxisHorizontal bool, gap float64) {
	byComponent := make(map[int][]int)
	for i, b := range boxes {
		c := componentOf(b.ID)
		byComponent[c] = append(byComponent[c], i)
	}
	components := make([]int, 0, len(byComponent))
	for c := range byComponent {
		components = append(components, c)
	}
	sort.Ints(components)

	cursor := 0.0
	for _, c := range components {
		idxs := byComponent[c]
		minCross, _ := groupExtent(boxes, idxs, !mainAxisHorizontal)
		minMain, maxMain := groupExtent(boxes, idxs, mainAxisHorizontal)
		crossShift := -minCross
		mainShift := cursor - minMain
		for _, i := range idxs {
			if mainAxisHorizontal {
				boxes[i].X += mainShift
				boxes[i].Y += crossShift
			} else {
				boxes[i].Y += mainShift
				boxes[i].X += crossShift
			}
		}
		cursor += (maxMain - minMain) + gap
	}
}
