// Package port assigns, for every edge endpoint, which side of its node
// to leave/enter from and at what offset along that side (spec.md §4.9).
package port

import (
	"math"
	"sort"
)

// Side is one of the four sides of a node's bounding rectangle.
type Side int

const (
	North Side = iota
	East
	South
	West
)

// Attachment is one edge endpoint that needs a port on a given node.
type Attachment struct {
	EdgeIndex int
	// Ideal is the coordinate, along the assigned side, where a straight
	// line from the remote endpoint's center would cross this node's
	// border.
	Ideal float64
}

// Assignment is the resolved (side, offset) pair for one attachment.
type Assignment struct {
	EdgeIndex int
	Side      Side
	Offset    float64
}

// PickSide picks the source and target sides for one edge from the
// relative geometry of the two endpoints' centers and whether the layout's
// main axis is horizontal (spec.md §4.9 "Side"). When dstCenter lies at or
// beyond srcCenter along the main axis, the edge leaves the source's far
// side (East or South) and enters the target's near side (West or North);
// otherwise both sides are mirrored.
func PickSide(srcCenter, dstCenter [2]float64, horizontal bool) (srcSide, dstSide Side) {
	if horizontal {
		if dstCenter[0] >= srcCenter[0] {
			return East, West
		}
		return West, East
	}
	if dstCenter[1] >= srcCenter[1] {
		return South, North
	}
	return North, South
}

// Offsets computes the final offset for every attachment on one (node,
// side) group (spec.md §4.9 "Offset", steps 1-6). sideLength is the
// length of that side; padRatio/padMin/padMax bound the usable margin;
// snapGrid, if > 0, quantizes the result to that grid size.
func Offsets(attachments []Attachment, sideLength, padRatio, padMin, padMax, snapGrid float64) []Assignment {
	n := len(attachments)
	if n == 0 {
		return nil
	}
	pad := clamp(sideLength*padRatio, padMin, padMax)
	lo, hi := pad, sideLength-pad
	if hi < lo {
		lo, hi = sideLength/2, sideLength/2
	}

	ordered := append([]Attachment(nil), attachments...)
	for i := range ordered {
		ordered[i].Ideal = clamp(ordered[i].Ideal, lo, hi)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Ideal < ordered[j].Ideal })

	span := 0.0
	if n > 1 {
		span = ordered[n-1].Ideal - ordered[0].Ideal
	}
	usable := hi - lo
	posWeight := 0.50
	if usable > 0 {
		posWeight = 0.50 + 0.35*clamp(span/usable, 0, 1)
	}
	rankWeight := 1 - posWeight

	blended := make([]float64, n)
	for i, a := range ordered {
		evenSpaced := lo
		if n > 1 {
			evenSpaced = lo + (usable)*float64(i)/float64(n-1)
		} else {
			evenSpaced = (lo + hi) / 2
		}
		blended[i] = posWeight*a.Ideal + rankWeight*evenSpaced
	}

	minSep := usable / float64(n+1)
	// Forward sweep: enforce minimum separation.
	for i := 1; i < n; i++ {
		if blended[i]-blended[i-1] < minSep {
			blended[i] = blended[i-1] + minSep
		}
	}
	// Backward sweep: enforce the reverse constraint too, keeping the
	// result monotonic and packed within bounds.
	for i := n - 2; i >= 0; i-- {
		if blended[i+1]-blended[i] < minSep {
			blended[i] = blended[i+1] - minSep
		}
	}

	out := make([]Assignment, n)
	for i, a := range ordered {
		v := clamp(blended[i], lo, hi)
		if snapGrid > 0 {
			v = math.Round(v/snapGrid) * snapGrid
		}
		out[i] = Assignment{EdgeIndex: a.EdgeIndex, Offset: v}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Balance distributes attachments for one node across its two opposing
// candidate sides so that neither side carries much more than
// ceil(degree/2) (spec.md §4.9 "balanced across sides"). sidePreference
// gives each attachment's preferred side (e.g. its default PickSide
// outcome), encoded as 0 for the first side or 1 for the second;
// Balance reassigns the minimum number of attachments needed to bring the
// larger side down to ceil(degree/2).
func Balance(sidePreference []int) []int {
	n := len(sidePreference)
	if n == 0 {
		return nil
	}
	countA, countB := 0, 0
	for _, s := range sidePreference {
		if s == 0 {
			countA++
		} else {
			countB++
		}
	}
	limit := (n + 1) / 2
	out := append([]int(nil), sidePreference...)
	if countA > limit {
		move := countA - limit
		for i := range out {
			if move == 0 {
				break
			}
			if out[i] == 0 {
				out[i] = 1
				move--
			}
		}
	} else if countB > limit {
		move := countB - limit
		for i := range out {
			if move == 0 {
				break
			}
			if out[i] == 1 {
				out[i] = 0
				move--
			}
		}
	}
	return out
}
