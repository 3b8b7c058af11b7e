package plan

import "testing"

func TestWeldCornerJoins(t *testing.T) {
	// Two wall strokes meeting at a sloppy corner near (100, 100).
	segments := []Segment{
		seg(0, 0, 100, 100, 1),
		seg(102, 101, 200, 100, 2),
	}

	welded, dropped := WeldSegments(segments, 8.0, 0)
	if len(dropped) != 0 {
		t.Fatalf("unexpected drops: %v", dropped)
	}
	if len(welded) != 2 {
		t.Fatalf("got %d segments, want 2", len(welded))
	}

	// Both segments get the bit-identical cluster centroid.
	if welded[0].B != welded[1].A {
		t.Errorf("corner endpoints differ: %v vs %v", welded[0].B, welded[1].A)
	}
	want := Point2{X: 101, Y: 100.5}
	if welded[0].B != want {
		t.Errorf("corner centroid = %v, want %v", welded[0].B, want)
	}

	// Far endpoints stay where they were.
	if welded[0].A != (Point2{X: 0, Y: 0}) {
		t.Errorf("far endpoint moved: %v", welded[0].A)
	}
}

func TestWeldDropsShortSegments(t *testing.T) {
	segments := []Segment{
		seg(0, 0, 100, 0, 1),
		seg(500, 500, 505, 500, 2), // 5px, below min length
	}

	welded, dropped := WeldSegments(segments, 8.0, 20.0)
	if len(welded) != 1 || welded[0].ID != 1 {
		t.Fatalf("welded = %v, want only segment 1", welded)
	}
	if len(dropped) != 1 || dropped[0] != 2 {
		t.Fatalf("dropped = %v, want [2]", dropped)
	}
}

func TestWeldCollapsesSegmentBetweenMergedEndpoints(t *testing.T) {
	// A 4px stub whose endpoints weld into one cluster becomes
	// zero-length and falls below any positive length threshold.
	segments := []Segment{
		seg(0, 0, 4, 0, 1),
	}
	welded, dropped := WeldSegments(segments, 8.0, 1.0)
	if len(welded) != 0 {
		t.Fatalf("degenerate welded segment survived: %v", welded)
	}
	if len(dropped) != 1 || dropped[0] != 1 {
		t.Fatalf("dropped = %v, want [1]", dropped)
	}
}

func TestWeldTwoPassOrderIndependence(t *testing.T) {
	// The endpoint at (0,0) is inserted before the cluster partner at
	// (6,0) exists; the two-pass resolve must still rewrite it to the
	// final centroid.
	segments := []Segment{
		seg(0, 0, 200, 0, 1),
		seg(6, 0, 6, 200, 2),
	}
	welded, _ := WeldSegments(segments, 8.0, 0)
	if len(welded) != 2 {
		t.Fatalf("got %d segments, want 2", len(welded))
	}
	want := Point2{X: 3, Y: 0}
	if welded[0].A != want || welded[1].A != want {
		t.Errorf("endpoints = %v, %v, want both %v", welded[0].A, welded[1].A, want)
	}
}

func TestWeldEmptyInput(t *testing.T) {
	welded, dropped := WeldSegments(nil, 8.0, 20.0)
	if welded != nil || dropped != nil {
		t.Errorf("empty input produced %v, %v", welded, dropped)
	}
}

func TestWeldIdempotent(t *testing.T) {
	segments := []Segment{
		seg(0, 0, 100, 2, 1),
		seg(101, 1, 200, 0, 2),
		seg(199, 2, 199, 150, 3),
	}
	once, _ := WeldSegments(segments, 8.0, 0)
	twice, _ := WeldSegments(once, 8.0, 0)
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("segment %d changed on second weld: %v -> %v", i, once[i], twice[i])
		}
	}
}
