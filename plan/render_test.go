package plan

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func previewFixture() *PreviewRenderer {
	segments := []Segment{
		seg(2, 1, 198, 3, 1),
		seg(201, 2, 199, 148, 2),
		seg(200, 151, 1, 149, 3),
		seg(0, 152, 2, 2, 4),
	}
	result := Refine(segments, DefaultRefineParams())
	rooms := []RoomPolygon{{
		Vertices: []Point2{{0, 0}, {200, 0}, {200, 150}, {0, 150}},
		AreaPx2:  30000,
	}}
	return NewPreviewRenderer(segments, result, rooms, DefaultScale())
}

func TestRenderToSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := previewFixture().RenderToSVG(&buf); err != nil {
		t.Fatalf("RenderToSVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("output does not look like SVG: %.80s", out)
	}
	if !strings.Contains(out, "<path") {
		t.Error("SVG contains no paths")
	}
}

func TestRenderToPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := previewFixture().RenderToPNG(&buf); err != nil {
		t.Fatalf("RenderToPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	b := img.Bounds()
	// 200 px of drawing plus 40 px padding each side at 1 dot per px.
	if b.Dx() < 200 || b.Dy() < 150 {
		t.Errorf("image unexpectedly small: %v", b)
	}
}

func TestRenderEmptyInput(t *testing.T) {
	r := NewPreviewRenderer(nil, nil, nil, DefaultScale())
	var buf bytes.Buffer
	if err := r.RenderToSVG(&buf); err != nil {
		t.Fatalf("RenderToSVG on empty input: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty input produced no SVG at all")
	}

	buf.Reset()
	if err := r.RenderToPNG(&buf); err != nil {
		t.Fatalf("RenderToPNG on empty input: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decoding empty-input PNG: %v", err)
	}
}
