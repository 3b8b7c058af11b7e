package plan

import "testing"

func TestSnapNearlyHorizontal(t *testing.T) {
	got := SnapToAxes([]Segment{seg(0, 0, 100, 3, 1)}, 8.0, 50.0)

	s := got[0]
	if s.A.Y != s.B.Y {
		t.Fatalf("snapped Y coordinates differ: %v vs %v", s.A.Y, s.B.Y)
	}
	if s.A.Y != 1.5 {
		t.Errorf("snapped Y = %v, want the endpoint average 1.5", s.A.Y)
	}
	if s.A.X != 0 || s.B.X != 100 {
		t.Errorf("X coordinates moved: %v, %v", s.A.X, s.B.X)
	}
}

func TestSnapNearlyVertical(t *testing.T) {
	got := SnapToAxes([]Segment{seg(0, 0, 4, 100, 1)}, 8.0, 50.0)

	s := got[0]
	if s.A.X != s.B.X {
		t.Fatalf("snapped X coordinates differ: %v vs %v", s.A.X, s.B.X)
	}
	if s.A.X != 2 {
		t.Errorf("snapped X = %v, want 2", s.A.X)
	}
}

func TestSnapLeavesSteepSegmentsAlone(t *testing.T) {
	in := seg(0, 0, 100, 40, 1) // ~21.8 degrees, well outside 8
	got := SnapToAxes([]Segment{in}, 8.0, 50.0)
	if got[0] != in {
		t.Errorf("steep segment changed: %v -> %v", in, got[0])
	}
}

func TestSnapSkipsShortSegments(t *testing.T) {
	in := seg(0, 0, 30, 1, 1) // nearly horizontal but below min length
	got := SnapToAxes([]Segment{in}, 8.0, 50.0)
	if got[0] != in {
		t.Errorf("short segment snapped: %v -> %v", in, got[0])
	}
}

func TestSnapPreservesIDsAndOrder(t *testing.T) {
	in := []Segment{
		seg(0, 0, 100, 2, 7),
		seg(0, 0, 100, 100, 3),
		seg(0, 0, 2, 100, 9),
	}
	got := SnapToAxes(in, 8.0, 50.0)
	if len(got) != len(in) {
		t.Fatalf("got %d segments, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i].ID != in[i].ID {
			t.Errorf("segment %d ID = %d, want %d", i, got[i].ID, in[i].ID)
		}
	}
}
