package plan

// WeldSegments clusters near-duplicate endpoints into shared vertices and
// rewrites each segment's endpoints to its cluster's centroid.
//
// The weld is two-pass: every endpoint is inserted first, then resolved
// against the final centroids, so the result does not depend on where in
// the input a cluster happened to stop moving. Segments shorter than
// minLengthPx after welding are not re-emitted; their IDs are returned in
// dropped. Welding always succeeds; a tolerance large enough to collapse
// the whole drawing into one vertex is the caller's problem, not a
// validated error.
func WeldSegments(segments []Segment, weldTolerancePx, minLengthPx float64) (welded []Segment, dropped []int) {
	if len(segments) == 0 {
		return nil, nil
	}

	ix := NewSpatialIndex(weldTolerancePx)

	// Pass 1: insert all endpoints, remembering each segment's cluster IDs.
	type endpoints struct{ a, b int }
	ids := make([]endpoints, len(segments))
	for i, s := range segments {
		ids[i] = endpoints{
			a: ix.LookupOrInsert(s.A),
			b: ix.LookupOrInsert(s.B),
		}
	}

	// Pass 2: resolve against final centroids.
	welded = make([]Segment, 0, len(segments))
	for i, s := range segments {
		out := Segment{
			A:  ix.Centroid(ids[i].a),
			B:  ix.Centroid(ids[i].b),
			ID: s.ID,
		}
		if out.Length() < minLengthPx {
			dropped = append(dropped, s.ID)
			continue
		}
		welded = append(welded, out)
	}
	return welded, dropped
}
