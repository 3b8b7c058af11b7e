package plan

import (
	"path/filepath"
	"testing"
)

const sceneJSON = `{
  "items": [
    {"type": "line", "x1": 0, "y1": 0, "x2": 200, "y2": 0, "layer": 0},
    {"type": "rect", "x": 300, "y": 100, "w": 80, "h": 60, "layer": 1},
    {"type": "ellipse", "x": 500, "y": 500, "w": 40, "h": 40, "layer": 0},
    {"type": "polygon", "points": [{"x": 0, "y": 0}, {"x": 10, "y": 0}, {"x": 10, "y": 10}], "layer": 2}
  ]
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sceneJSON))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(doc.Items))
	}
	if doc.Items[1].Type != "rect" || doc.Items[1].W != 80 {
		t.Errorf("rect item decoded wrong: %+v", doc.Items[1])
	}
}

func TestParseDocumentBadJSON(t *testing.T) {
	if _, err := ParseDocument([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestSegmentIDRoundTrip(t *testing.T) {
	id := SegmentID(7, 3)
	item, edge := SplitSegmentID(id)
	if item != 7 || edge != 3 {
		t.Errorf("SplitSegmentID(%d) = (%d, %d), want (7, 3)", id, item, edge)
	}
	if SegmentID(0, 0) != 0 {
		t.Errorf("SegmentID(0, 0) = %d", SegmentID(0, 0))
	}
}

func TestDocumentSegments(t *testing.T) {
	doc, err := ParseDocument([]byte(sceneJSON))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	segs := doc.Segments(nil)

	// 1 line edge + 4 rect edges + 3 polygon edges; the ellipse contributes
	// nothing.
	if len(segs) != 8 {
		t.Fatalf("got %d segments, want 8", len(segs))
	}

	if segs[0].ID != SegmentID(0, 0) {
		t.Errorf("line segment ID = %d, want %d", segs[0].ID, SegmentID(0, 0))
	}
	if segs[0].B != (Point2{X: 200, Y: 0}) {
		t.Errorf("line endpoint = %v", segs[0].B)
	}

	// Rect edges walk the corners in order and close the loop.
	rect := segs[1:5]
	if rect[0].A != (Point2{X: 300, Y: 100}) || rect[0].B != (Point2{X: 380, Y: 100}) {
		t.Errorf("first rect edge = %v - %v", rect[0].A, rect[0].B)
	}
	if rect[3].B != rect[0].A {
		t.Errorf("rect edges do not close: %v vs %v", rect[3].B, rect[0].A)
	}
	for e, s := range rect {
		if s.ID != SegmentID(1, e) {
			t.Errorf("rect edge %d has ID %d, want %d", e, s.ID, SegmentID(1, e))
		}
	}

	// Polygon with 3 points closes back to the first.
	poly := segs[5:]
	if poly[2].B != poly[0].A {
		t.Errorf("polygon does not close: %v vs %v", poly[2].B, poly[0].A)
	}
}

func TestDocumentSegmentsLayerFilter(t *testing.T) {
	doc, err := ParseDocument([]byte(sceneJSON))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	filter := &LayerFilter{
		Hidden: map[int]bool{1: true},
		Locked: map[int]bool{2: true},
	}
	segs := doc.Segments(filter)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want only the layer-0 line", len(segs))
	}
	if segs[0].ID != SegmentID(0, 0) {
		t.Errorf("surviving segment ID = %d", segs[0].ID)
	}
}

func TestApplyRefine(t *testing.T) {
	doc := &Document{Items: []Item{
		{Type: "line", X1: 0, Y1: 1, X2: 200, Y2: 3, Layer: 0},
		{Type: "line", X1: 50, Y1: 50, X2: 50, Y2: 50, Layer: 0},
		{Type: "rect", X: 300, Y: 100, W: 80, H: 60, Layer: 0},
	}}

	result := NewRefineResult()
	result.Replacements[SegmentID(0, 0)] = seg(0, 2, 200, 2, SegmentID(0, 0))
	result.Deletions = []int{SegmentID(1, 0)}
	result.Closures = []Segment{seg(200, 2, 200, 10, -1)}

	out := doc.ApplyRefine(result)

	if len(out.Items) != 3 {
		t.Fatalf("got %d items, want 3 (one deleted, one closure added)", len(out.Items))
	}
	if out.Items[0].Y1 != 2 || out.Items[0].Y2 != 2 {
		t.Errorf("replacement not applied: %+v", out.Items[0])
	}
	if out.Items[1].Type != "rect" {
		t.Errorf("rect item did not pass through: %+v", out.Items[1])
	}
	closure := out.Items[2]
	if closure.Type != "line" || closure.Layer != ClosureLayer {
		t.Errorf("closure item = %+v", closure)
	}
	if closure.Color != closureColor {
		t.Errorf("closure color = %q", closure.Color)
	}

	// The source document is untouched.
	if len(doc.Items) != 3 || doc.Items[0].Y1 != 1 {
		t.Error("ApplyRefine mutated the source document")
	}
}

func TestAppendRooms(t *testing.T) {
	doc := &Document{}
	rooms := []RoomPolygon{{
		Vertices: []Point2{{0, 0}, {200, 0}, {200, 150}, {0, 150}},
		AreaPx2:  30000,
	}}
	if n := doc.AppendRooms(rooms); n != 1 {
		t.Fatalf("AppendRooms returned %d, want 1", n)
	}
	item := doc.Items[0]
	if item.Type != "polygon" || item.Layer != RoomLayer {
		t.Errorf("room item = %+v", item)
	}
	if len(item.Points) != 4 {
		t.Errorf("room polygon has %d points", len(item.Points))
	}
}

func TestDocumentSaveLoad(t *testing.T) {
	doc, err := ParseDocument([]byte(sceneJSON))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(loaded.Items) != len(doc.Items) {
		t.Errorf("round trip lost items: %d vs %d", len(loaded.Items), len(doc.Items))
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	if _, err := LoadDocument(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
