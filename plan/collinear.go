package plan

import "math"

// axisEps is the slack for treating a snapped segment as exactly
// horizontal or vertical. The axis snapper emits bit-identical coordinates,
// so this only exists to absorb float noise from other producers.
const axisEps = 1e-9

// exactAxis classifies a segment that is already axis-aligned.
func exactAxis(s Segment) (Axis, bool) {
	if math.Abs(s.A.Y-s.B.Y) <= axisEps {
		return Horizontal, true
	}
	if math.Abs(s.A.X-s.B.X) <= axisEps {
		return Vertical, true
	}
	return 0, false
}

// perpCoord returns the segment's constant off-axis coordinate.
func perpCoord(s Segment, axis Axis) float64 {
	if axis == Horizontal {
		return s.A.Y
	}
	return s.A.X
}

// sharesEndpoint reports whether any endpoint of a lies within tol of any
// endpoint of b.
func sharesEndpoint(a, b Segment, tol float64) bool {
	t2 := tol * tol
	return dist2(a.A, b.A) <= t2 || dist2(a.A, b.B) <= t2 ||
		dist2(a.B, b.A) <= t2 || dist2(a.B, b.B) <= t2
}

// MergeCollinear merges pairs of axis-aligned segments that share a welded
// endpoint (within mergeTolerancePx), lie on the same line (off-axis
// coordinates within mergeTolerancePx), and whose 1-D projections overlap
// by at least overlapPx. The pair collapses into one segment spanning the
// union of the two projections at the survivor's off-axis coordinate.
//
// The survivor is always the first segment in iteration order; the other's
// ID lands in dropped. A survivor keeps absorbing later candidates within
// the same scan, so chains of overlapping strokes collapse in one pass.
// The scan is O(n²), acceptable at floor-plan scale (hundreds to low
// thousands of segments).
func MergeCollinear(segments []Segment, mergeTolerancePx, overlapPx float64) (merged []Segment, dropped []int) {
	work := make([]Segment, len(segments))
	copy(work, segments)
	alive := make([]bool, len(work))
	for i := range alive {
		alive[i] = true
	}

	for i := 0; i < len(work); i++ {
		if !alive[i] {
			continue
		}
		axisI, ok := exactAxis(work[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(work); j++ {
			if !alive[j] {
				continue
			}
			axisJ, ok := exactAxis(work[j])
			if !ok || axisJ != axisI {
				continue
			}
			if math.Abs(perpCoord(work[i], axisI)-perpCoord(work[j], axisI)) > mergeTolerancePx {
				continue
			}
			if !sharesEndpoint(work[i], work[j], mergeTolerancePx) {
				continue
			}
			if overlap1D(work[i].span(axisI), work[j].span(axisI)) < overlapPx {
				continue
			}
			work[i] = unionSpanSegment(work[i], work[j], axisI)
			alive[j] = false
			dropped = append(dropped, work[j].ID)
		}
	}

	merged = make([]Segment, 0, len(work))
	for i, s := range work {
		if alive[i] {
			merged = append(merged, s)
		}
	}
	return merged, dropped
}

// unionSpanSegment spans the union of both projections at the survivor's
// off-axis coordinate, oriented from low to high.
func unionSpanSegment(survivor, other Segment, axis Axis) Segment {
	a := survivor.span(axis)
	b := other.span(axis)
	lo := math.Min(a.Lo, b.Lo)
	hi := math.Max(a.Hi, b.Hi)
	c := perpCoord(survivor, axis)
	if axis == Horizontal {
		return Segment{A: Point2{X: lo, Y: c}, B: Point2{X: hi, Y: c}, ID: survivor.ID}
	}
	return Segment{A: Point2{X: c, Y: lo}, B: Point2{X: c, Y: hi}, ID: survivor.ID}
}
