package plan

import "sort"

// Refine runs the full cleanup pipeline over the caller's segments:
// weld, axis snap, collinear merge, gap close, and (when enabled) parallel
// stack thinning, each exactly once, in that order. It is a pure function
// of (segments, params): no state survives between invocations and the
// input slice is never mutated, so concurrent calls over independent
// drawings need no locking.
//
// The result reports replacements keyed by the caller's segment IDs,
// synthesized closure segments, and IDs to delete. Degenerate (zero-length)
// input segments are reported as deletions. There are no failure modes;
// empty input yields an empty result.
func Refine(segments []Segment, p RefineParams) *RefineResult {
	result := NewRefineResult()
	deleted := make(map[int]bool)

	// Ingestion: silently drop degenerate segments.
	work := make([]Segment, 0, len(segments))
	original := make(map[int]Segment, len(segments))
	for _, s := range segments {
		if s.Length() <= degenerateEps {
			deleted[s.ID] = true
			continue
		}
		work = append(work, s)
		original[s.ID] = s
	}

	work, dropped := WeldSegments(work, p.WeldTolerancePx, p.MinLengthPx)
	for _, id := range dropped {
		deleted[id] = true
	}

	work = SnapToAxes(work, p.AxisSnapDegrees, p.AxisSnapMinLengthPx)

	work, dropped = MergeCollinear(work, p.MergeTolerancePx, p.CollinearOverlapPx)
	for _, id := range dropped {
		deleted[id] = true
	}

	result.Closures = CloseGaps(work, p.CloseTolerancePx, p.MinLengthPx)

	if p.StackEnabled {
		work, dropped = ThinParallelStacks(work, StackThinParams{
			SeparationPx: p.StackSeparationPx,
			AngleDegrees: p.StackAngleDegrees,
			MinOverlapPx: p.StackMinOverlapPx,
		})
		for _, id := range dropped {
			deleted[id] = true
		}
	}

	for _, s := range work {
		if orig, ok := original[s.ID]; ok && (s.A != orig.A || s.B != orig.B) {
			result.Replacements[s.ID] = s
		}
	}
	for id := range deleted {
		result.Deletions = append(result.Deletions, id)
	}
	sort.Ints(result.Deletions)
	return result
}

// RefinedSegments applies a result back onto the input list: deletions
// removed, replacements substituted, closures appended, order preserved.
// This is the segment list room detection should run on after a refine.
func RefinedSegments(segments []Segment, result *RefineResult) []Segment {
	out := make([]Segment, 0, len(segments)+len(result.Closures))
	for _, s := range segments {
		if result.IsDeleted(s.ID) {
			continue
		}
		if r, ok := result.Replacements[s.ID]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, s)
	}
	out = append(out, result.Closures...)
	return out
}
