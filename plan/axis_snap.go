package plan

// SnapToAxes forces segments that are nearly horizontal or vertical exactly
// onto the closer axis by replacing both endpoints' off-axis coordinate
// with their average. Only segments at least minLengthPx long and within
// tolDeg of an axis are touched; everything else passes through unchanged.
//
// The snap is lossy by design: a small positional drift is traded for exact
// orthogonality, which room inference depends on. For an accepted segment
// the snapped coordinate of both endpoints is bit-identical.
func SnapToAxes(segments []Segment, tolDeg, minLengthPx float64) []Segment {
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = snapSegment(s, tolDeg, minLengthPx)
	}
	return out
}

func snapSegment(s Segment, tolDeg, minLengthPx float64) Segment {
	if s.Length() < minLengthPx {
		return s
	}
	axis, ok := s.axisWithin(tolDeg)
	if !ok {
		return s
	}
	if axis == Horizontal {
		y := (s.A.Y + s.B.Y) / 2.0
		s.A.Y = y
		s.B.Y = y
	} else {
		x := (s.A.X + s.B.X) / 2.0
		s.A.X = x
		s.B.X = x
	}
	return s
}
