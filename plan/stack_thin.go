package plan

import "math"

// StackThinParams are the predicates for grouping double-drawn walls.
type StackThinParams struct {
	SeparationPx float64
	AngleDegrees float64
	MinOverlapPx float64
}

// ThinParallelStacks collapses groups of near-parallel, laterally close
// segments (the same wall traced twice) into a single centerline segment.
// The first ungrouped segment in input order seeds each
// group; every later segment whose direction is within AngleDegrees of the
// seed, whose lateral offset from the seed line is within SeparationPx, and
// whose projection onto the seed axis overlaps the seed's by at least
// MinOverlapPx joins it. Grouping is single-level: candidates are tested
// against the seed only, never re-evaluated against members that already
// joined, so results are deterministic in input order.
//
// Each group collapses to the union of its members' projections placed at
// the arithmetic mean of their lateral offsets. The seed's ID survives as
// the group's segment; all other members are dropped.
func ThinParallelStacks(segments []Segment, p StackThinParams) (thinned []Segment, dropped []int) {
	work := make([]Segment, len(segments))
	copy(work, segments)
	grouped := make([]bool, len(work))

	thinned = make([]Segment, 0, len(work))
	for i := range work {
		if grouped[i] {
			continue
		}
		grouped[i] = true
		seed := work[i]
		if seed.Length() <= degenerateEps {
			thinned = append(thinned, seed)
			continue
		}

		frame := newSeedFrame(seed)
		members := []seedProjection{frame.project(seed)}

		for j := i + 1; j < len(work); j++ {
			if grouped[j] {
				continue
			}
			cand := work[j]
			if angleDelta180(seed.AngleDeg(), cand.AngleDeg()) > p.AngleDegrees {
				continue
			}
			proj := frame.project(cand)
			if math.Abs(proj.offset) > p.SeparationPx {
				continue
			}
			if overlap1D(members[0].span, proj.span) < p.MinOverlapPx {
				continue
			}
			grouped[j] = true
			members = append(members, proj)
			dropped = append(dropped, cand.ID)
		}

		if len(members) == 1 {
			thinned = append(thinned, seed)
			continue
		}
		thinned = append(thinned, frame.collapse(members, seed.ID))
	}
	return thinned, dropped
}

// angleDelta180 returns the distance between two [0,180) direction angles,
// treating 0 and 180 as the same direction.
func angleDelta180(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 90 {
		d = 180 - d
	}
	return d
}

// seedFrame is the seed segment's local coordinate frame: origin at the
// seed's A endpoint, u along the seed, n perpendicular to it.
type seedFrame struct {
	origin Point2
	ux, uy float64
	nx, ny float64
}

// seedProjection is a member segment expressed in the seed frame: its span
// along u and its mean lateral offset along n.
type seedProjection struct {
	span   Interval
	offset float64
}

func newSeedFrame(seed Segment) seedFrame {
	length := seed.Length()
	ux := (seed.B.X - seed.A.X) / length
	uy := (seed.B.Y - seed.A.Y) / length
	return seedFrame{
		origin: seed.A,
		ux:     ux, uy: uy,
		nx: -uy, ny: ux,
	}
}

func (f seedFrame) project(s Segment) seedProjection {
	ta := (s.A.X-f.origin.X)*f.ux + (s.A.Y-f.origin.Y)*f.uy
	tb := (s.B.X-f.origin.X)*f.ux + (s.B.Y-f.origin.Y)*f.uy
	sa := (s.A.X-f.origin.X)*f.nx + (s.A.Y-f.origin.Y)*f.ny
	sb := (s.B.X-f.origin.X)*f.nx + (s.B.Y-f.origin.Y)*f.ny
	if ta > tb {
		ta, tb = tb, ta
	}
	return seedProjection{
		span:   Interval{Lo: ta, Hi: tb},
		offset: (sa + sb) / 2.0,
	}
}

// collapse builds the centerline segment for a group: union span along the
// seed axis at the mean lateral offset.
func (f seedFrame) collapse(members []seedProjection, id int) Segment {
	lo, hi := members[0].span.Lo, members[0].span.Hi
	sum := 0.0
	for _, m := range members {
		lo = math.Min(lo, m.span.Lo)
		hi = math.Max(hi, m.span.Hi)
		sum += m.offset
	}
	offset := sum / float64(len(members))

	at := func(t float64) Point2 {
		return Point2{
			X: f.origin.X + f.ux*t + f.nx*offset,
			Y: f.origin.Y + f.uy*t + f.ny*offset,
		}
	}
	return Segment{A: at(lo), B: at(hi), ID: id}
}
