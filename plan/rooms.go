package plan

import (
	"math"
	"sort"
)

// railKey buckets a rail's perpendicular coordinate at weld-tolerance
// granularity, so slightly misaligned wall runs land on the same rail.
type railKey struct {
	Axis   Axis
	Bucket int64
}

// BuildRails groups the segments that snap to a common horizontal or
// vertical coordinate into rails and merges each rail's covered intervals,
// coalescing neighbors whose gap is within the weld tolerance. Segments
// shorter than MinWallPx or outside the axis-snap angle tolerance
// contribute nothing. Returned rails are sorted by coordinate.
func BuildRails(segments []Segment, p RoomParams) (horizontal, vertical []Rail) {
	tol := p.WeldTolerancePx
	if tol <= 0 {
		tol = 1.0
	}

	rails := make(map[railKey]*Rail)
	var order []railKey
	for _, s := range segments {
		if s.Length() < p.MinWallPx {
			continue
		}
		axis, ok := s.axisWithin(p.AxisSnapDegrees)
		if !ok {
			continue
		}
		var coord float64
		if axis == Horizontal {
			coord = (s.A.Y + s.B.Y) / 2.0
		} else {
			coord = (s.A.X + s.B.X) / 2.0
		}
		key := railKey{Axis: axis, Bucket: int64(math.Round(coord / tol))}
		r, exists := rails[key]
		if !exists {
			r = &Rail{Axis: axis}
			rails[key] = r
			order = append(order, key)
		}
		r.coordSum += coord
		r.count++
		r.Intervals = append(r.Intervals, s.span(axis))
	}

	for _, key := range order {
		r := rails[key]
		r.Coordinate = r.coordSum / float64(r.count)
		r.Intervals = mergeIntervals(r.Intervals, tol)
		if key.Axis == Horizontal {
			horizontal = append(horizontal, *r)
		} else {
			vertical = append(vertical, *r)
		}
	}
	sort.Slice(horizontal, func(i, j int) bool { return horizontal[i].Coordinate < horizontal[j].Coordinate })
	sort.Slice(vertical, func(i, j int) bool { return vertical[i].Coordinate < vertical[j].Coordinate })
	return horizontal, vertical
}

// coverage is the two-tier side test.
//
// Strong coverage requires one single interval to cover at least
// coverFraction of the side's span: a solid wall run, not a patchwork of
// fragments whose union happens to add up.
//
// When strong coverage fails the soft test tolerates a combined uncovered
// remainder of at most doorGapMaxPx across the union of intervals, modeling
// a doorway opening in an otherwise solid wall.
func (r *Rail) coverage(side Interval, coverFraction, doorGapMaxPx float64) (passed, strong bool) {
	span := side.Length()
	if span <= 0 {
		return false, false
	}
	for _, iv := range r.Intervals {
		if overlap1D(iv, side) >= coverFraction*span {
			return true, true
		}
	}
	uncovered := span - coveredLength(r.Intervals, side)
	return uncovered <= doorGapMaxPx, false
}

// DetectRooms infers closed room rectangles from a wall wireframe. It
// builds rails from the (optionally pre-refined) segments, forms the grid
// of cells between consecutive rail coordinates, and accepts every cell
// whose four sides are covered (strongly, or softly with a door-sized gap)
// with at least MinStrongSides strong sides and a real-world area of at
// least MinAreaM2 under the given scale.
//
// Cells at the drawing's outer boundary have no rail beyond them, so no
// cell exists there and no phantom exterior room is emitted. Rooms with
// non-rectangular footprints are not detected; inference operates on the
// axis grid only.
func DetectRooms(segments []Segment, p RoomParams, scale Scale) []RoomPolygon {
	hRails, vRails := BuildRails(segments, p)
	if len(hRails) < 2 || len(vRails) < 2 {
		return nil
	}

	var rooms []RoomPolygon
	for i := 0; i+1 < len(vRails); i++ {
		x1 := vRails[i].Coordinate
		x2 := vRails[i+1].Coordinate
		if x2-x1 < p.MinSidePx {
			continue
		}
		for j := 0; j+1 < len(hRails); j++ {
			y1 := hRails[j].Coordinate
			y2 := hRails[j+1].Coordinate
			if y2-y1 < p.MinSidePx {
				continue
			}

			spanX := Interval{Lo: x1, Hi: x2}
			spanY := Interval{Lo: y1, Hi: y2}

			strongCount := 0
			allPassed := true
			for _, side := range []struct {
				rail *Rail
				span Interval
			}{
				{&hRails[j], spanX},   // bottom
				{&hRails[j+1], spanX}, // top
				{&vRails[i], spanY},   // left
				{&vRails[i+1], spanY}, // right
			} {
				passed, strong := side.rail.coverage(side.span, p.RailCoverFraction, p.DoorGapMaxPx)
				if !passed {
					allPassed = false
					break
				}
				if strong {
					strongCount++
				}
			}
			if !allPassed || strongCount < p.MinStrongSides {
				continue
			}

			areaPx2 := (x2 - x1) * (y2 - y1)
			if scale.AreaM2(areaPx2) < p.MinAreaM2 {
				continue
			}

			// Counter-clockwise in the y-up plane, from the min corner.
			rooms = append(rooms, RoomPolygon{
				Vertices: []Point2{
					{X: x1, Y: y1},
					{X: x2, Y: y1},
					{X: x2, Y: y2},
					{X: x1, Y: y2},
				},
				AreaPx2: areaPx2,
			})
		}
	}
	return rooms
}
