package plan

import "sort"

// Point2 is a 2D coordinate in drawing pixels.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a straight wall segment between two endpoints. ID is a
// caller-supplied correlation token (e.g. an index into the host's item
// list); the engine never mutates caller state, it only reports changes
// keyed by ID. Synthesized segments (gap closures) carry ID == -1 and the
// caller assigns a real handle when committing them.
type Segment struct {
	A  Point2 `json:"a"`
	B  Point2 `json:"b"`
	ID int    `json:"id"`
}

// Interval is a closed range [Lo, Hi] along one axis, Lo <= Hi.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Length returns Hi - Lo.
func (iv Interval) Length() float64 { return iv.Hi - iv.Lo }

// Axis identifies the orientation of a rail or snapped segment.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Rail is the merged coverage along one fixed horizontal or vertical
// coordinate, built from every segment that snaps to that coordinate.
// Rails are derived, read-only artifacts of one room-detection run.
type Rail struct {
	Coordinate float64    `json:"coordinate"`
	Axis       Axis       `json:"axis"`
	Intervals  []Interval `json:"intervals"`

	coordSum float64
	count    int
}

// RoomPolygon is one detected room: an axis-aligned rectangle with exactly
// four vertices, ordered counter-clockwise in the y-up drawing plane
// starting at the minimum corner (x1,y1),(x2,y1),(x2,y2),(x1,y2).
type RoomPolygon struct {
	Vertices []Point2 `json:"vertices"`
	AreaPx2  float64  `json:"areaPx2"`
}

// RefineResult is the complete, non-destructive output of one pipeline run.
// The engine never deletes or mutates caller objects; it reports what
// should change and the caller applies it.
type RefineResult struct {
	// Replacements maps a segment ID to its refined geometry. IDs absent
	// from both Replacements and Deletions are unchanged.
	Replacements map[int]Segment `json:"replacements"`
	// Closures are synthesized gap-closing segments with no ID assigned.
	Closures []Segment `json:"closures"`
	// Deletions lists segment IDs that should be removed, sorted ascending.
	Deletions []int `json:"deletions"`
}

// NewRefineResult returns an empty result with allocated containers.
func NewRefineResult() *RefineResult {
	return &RefineResult{
		Replacements: make(map[int]Segment),
		Closures:     []Segment{},
		Deletions:    []int{},
	}
}

// EditCount returns the total number of edits the result describes.
func (r *RefineResult) EditCount() int {
	return len(r.Replacements) + len(r.Closures) + len(r.Deletions)
}

// IsDeleted reports whether the given segment ID is marked for deletion.
func (r *RefineResult) IsDeleted(id int) bool {
	i := sort.SearchInts(r.Deletions, id)
	return i < len(r.Deletions) && r.Deletions[i] == id
}

// RefineParams holds the tuning knobs for the cleanup pipeline. All
// distances are in drawing pixels, angles in degrees. The engine performs
// no sanity validation on these values; pathologically large tolerances
// over-merge distinct walls and the caller is responsible for choosing
// reasonable ones.
type RefineParams struct {
	WeldTolerancePx     float64 `yaml:"weldTolerancePx" json:"weldTolerancePx"`
	AxisSnapDegrees     float64 `yaml:"axisSnapDegrees" json:"axisSnapDegrees"`
	AxisSnapMinLengthPx float64 `yaml:"axisSnapMinLengthPx" json:"axisSnapMinLengthPx"`
	MergeTolerancePx    float64 `yaml:"mergeTolerancePx" json:"mergeTolerancePx"`
	CollinearOverlapPx  float64 `yaml:"collinearOverlapPx" json:"collinearOverlapPx"`
	CloseTolerancePx    float64 `yaml:"closeTolerancePx" json:"closeTolerancePx"`
	MinLengthPx         float64 `yaml:"minLengthPx" json:"minLengthPx"`

	StackEnabled      bool    `yaml:"stackEnabled" json:"stackEnabled"`
	StackSeparationPx float64 `yaml:"stackSeparationPx" json:"stackSeparationPx"`
	StackAngleDegrees float64 `yaml:"stackAngleDegrees" json:"stackAngleDegrees"`
	StackMinOverlapPx float64 `yaml:"stackMinOverlapPx" json:"stackMinOverlapPx"`
}

// DefaultRefineParams mirrors the interactive defaults of the original
// editor's refine dialog.
func DefaultRefineParams() RefineParams {
	return RefineParams{
		WeldTolerancePx:     8.0,
		AxisSnapDegrees:     8.0,
		AxisSnapMinLengthPx: 50.0,
		MergeTolerancePx:    1.0,
		CollinearOverlapPx:  2.0,
		CloseTolerancePx:    12.0,
		MinLengthPx:         20.0,
		StackEnabled:        false,
		StackSeparationPx:   3.0,
		StackAngleDegrees:   3.0,
		StackMinOverlapPx:   30.0,
	}
}

// LightOverlapParams is a preset for de-duplicating lightly overlapping
// traces (double-drawn walls) without touching anything else: welding and
// gap closing are effectively off, stack thinning runs with tight
// tolerances.
func LightOverlapParams() RefineParams {
	return RefineParams{
		WeldTolerancePx:     0.5,
		AxisSnapDegrees:     3.0,
		AxisSnapMinLengthPx: 10.0,
		MergeTolerancePx:    0.5,
		CollinearOverlapPx:  1.0,
		CloseTolerancePx:    0.0,
		MinLengthPx:         1.0,
		StackEnabled:        true,
		StackSeparationPx:   2.0,
		StackAngleDegrees:   3.0,
		StackMinOverlapPx:   30.0,
	}
}

// RoomParams holds the acceptance thresholds for room inference.
type RoomParams struct {
	WeldTolerancePx   float64 `yaml:"weldTolerancePx" json:"weldTolerancePx"`
	AxisSnapDegrees   float64 `yaml:"axisSnapDegrees" json:"axisSnapDegrees"`
	MinAreaM2         float64 `yaml:"minAreaM2" json:"minAreaM2"`
	MinSidePx         float64 `yaml:"minSidePx" json:"minSidePx"`
	MinWallPx         float64 `yaml:"minWallPx" json:"minWallPx"`
	RailCoverFraction float64 `yaml:"railCoverFraction" json:"railCoverFraction"`
	DoorGapMaxPx      float64 `yaml:"doorGapMaxPx" json:"doorGapMaxPx"`
	MinStrongSides    int     `yaml:"minStrongSides" json:"minStrongSides"`
}

// DefaultRoomParams mirrors the Auto-rooms dialog defaults.
func DefaultRoomParams() RoomParams {
	return RoomParams{
		WeldTolerancePx:   8.0,
		AxisSnapDegrees:   8.0,
		MinAreaM2:         0.30,
		MinSidePx:         35.0,
		MinWallPx:         12.0,
		RailCoverFraction: 0.70,
		DoorGapMaxPx:      18.0,
		MinStrongSides:    3,
	}
}
