package plan

import "math"

// degenerateEps is the length below which a segment is considered
// degenerate and dropped at ingestion.
const degenerateEps = 1e-9

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// dist2 returns the squared distance, avoiding the sqrt for comparisons.
func dist2(a, b Point2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// Length returns the segment's Euclidean length.
func (s Segment) Length() float64 { return Distance(s.A, s.B) }

// AngleDeg returns the segment's angle against the X axis in [0, 180).
func (s Segment) AngleDeg() float64 {
	deg := math.Atan2(s.B.Y-s.A.Y, s.B.X-s.A.X) * 180.0 / math.Pi
	deg = math.Mod(deg, 180.0)
	if deg < 0 {
		deg += 180.0
	}
	return deg
}

// axisWithin classifies a segment as horizontal or vertical when its angle
// is within tolDeg of 0/180 or 90 degrees. ok is false otherwise.
func (s Segment) axisWithin(tolDeg float64) (axis Axis, ok bool) {
	deg := s.AngleDeg()
	dh := math.Min(deg, 180.0-deg)
	dv := math.Abs(deg - 90.0)
	if dh <= dv {
		return Horizontal, dh <= tolDeg
	}
	return Vertical, dv <= tolDeg
}

// span returns the segment's 1-D projection onto the given axis as an
// ordered interval (X extent for horizontal, Y extent for vertical).
func (s Segment) span(axis Axis) Interval {
	var lo, hi float64
	if axis == Horizontal {
		lo, hi = s.A.X, s.B.X
	} else {
		lo, hi = s.A.Y, s.B.Y
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Lo: lo, Hi: hi}
}

// overlap1D returns the length of the intersection of two intervals;
// negative values indicate the gap between them.
func overlap1D(a, b Interval) float64 {
	return math.Min(a.Hi, b.Hi) - math.Max(a.Lo, b.Lo)
}

// mergeIntervals coalesces a set of intervals, joining neighbors whose gap
// is at most tol. The result is sorted by Lo.
func mergeIntervals(ivs []Interval, tol float64) []Interval {
	if len(ivs) <= 1 {
		return ivs
	}
	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Lo < sorted[j-1].Lo; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	out := sorted[:1]
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Lo <= last.Hi+tol {
			if iv.Hi > last.Hi {
				last.Hi = iv.Hi
			}
		} else {
			out = append(out, iv)
		}
	}
	return out
}

// coveredLength returns the total length of side covered by the union of
// the (already coalesced) intervals.
func coveredLength(intervals []Interval, side Interval) float64 {
	total := 0.0
	for _, iv := range intervals {
		if ov := overlap1D(iv, side); ov > 0 {
			total += ov
		}
	}
	return total
}
