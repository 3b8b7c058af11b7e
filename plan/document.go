package plan

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the editor's scene file: a flat list of drawable items.
// The format matches the host editor's JSON save files.
type Document struct {
	Items []Item `json:"items"`
}

// Item is one drawable. Type selects which geometry fields are meaningful:
// "line" uses X1/Y1/X2/Y2, "rect" and "ellipse" use X/Y/W/H, "polygon"
// uses Points. Color is #AARRGGBB hex as written by the editor.
type Item struct {
	Type string `json:"type"`

	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	W float64 `json:"w,omitempty"`
	H float64 `json:"h,omitempty"`

	Points []Point2 `json:"points,omitempty"`

	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Fill  string  `json:"fill,omitempty"`
	Layer int     `json:"layer"`
}

// LayerFilter excludes hidden or locked layers from refinement input,
// mirroring the editor's layer panel state. A nil filter excludes nothing.
type LayerFilter struct {
	Hidden map[int]bool
	Locked map[int]bool
}

// Excluded reports whether items on the given layer should be skipped.
func (f *LayerFilter) Excluded(layer int) bool {
	if f == nil {
		return false
	}
	return f.Hidden[layer] || f.Locked[layer]
}

// edgeShift packs (item index, edge index) into one correlation ID:
// id = itemIndex<<edgeShift | edgeIndex.
const edgeShift = 16

// SegmentID builds the correlation ID for one edge of one item.
func SegmentID(itemIndex, edgeIndex int) int {
	return itemIndex<<edgeShift | edgeIndex
}

// SplitSegmentID recovers the item and edge indices from a correlation ID.
func SplitSegmentID(id int) (itemIndex, edgeIndex int) {
	return id >> edgeShift, id & (1<<edgeShift - 1)
}

// ParseDocument decodes a scene document from JSON.
func ParseDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing document JSON: %w", err)
	}
	return &d, nil
}

// LoadDocument reads and decodes a scene document file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return ParseDocument(data)
}

// Save writes the document as indented JSON.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Segments flattens the document into the engine's input: every line,
// rectangle edge, and polygon edge becomes one Segment whose ID encodes the
// item and edge it came from. Ellipses contribute nothing (the engine has
// no arc geometry) and items on excluded layers are skipped. The engine
// itself never sees shape types, colors, or layers.
func (d *Document) Segments(filter *LayerFilter) []Segment {
	var segs []Segment
	add := func(itemIdx, edgeIdx int, a, b Point2) {
		segs = append(segs, Segment{A: a, B: b, ID: SegmentID(itemIdx, edgeIdx)})
	}

	for i, item := range d.Items {
		if filter.Excluded(item.Layer) {
			continue
		}
		switch item.Type {
		case "line":
			add(i, 0, Point2{X: item.X1, Y: item.Y1}, Point2{X: item.X2, Y: item.Y2})
		case "rect":
			corners := []Point2{
				{X: item.X, Y: item.Y},
				{X: item.X + item.W, Y: item.Y},
				{X: item.X + item.W, Y: item.Y + item.H},
				{X: item.X, Y: item.Y + item.H},
			}
			for e := 0; e < 4; e++ {
				add(i, e, corners[e], corners[(e+1)%4])
			}
		case "polygon":
			n := len(item.Points)
			if n < 2 {
				continue
			}
			for e := 0; e+1 < n; e++ {
				add(i, e, item.Points[e], item.Points[e+1])
			}
			if n >= 3 {
				add(i, n-1, item.Points[n-1], item.Points[0])
			}
		}
	}
	return segs
}

const (
	// ClosureLayer receives synthesized gap-closing lines on apply, so the
	// editor can style and review them as a group.
	ClosureLayer = 90
	// RoomLayer receives detected room polygons on apply.
	RoomLayer = 91

	closureColor = "#ffcc6600"
	roomColor    = "#ff2266cc"
	roomFill     = "#302266cc"
)

// ApplyRefine commits a refine result onto a copy of the document:
// deleted line items are dropped, replaced line items get their refined
// coordinates, and closures are appended as new lines on ClosureLayer.
// Rect and polygon items pass through unchanged: per-edge edits cannot be
// represented on a compound item, so the engine's suggestions for their
// edges are preview-only.
func (d *Document) ApplyRefine(result *RefineResult) *Document {
	out := &Document{Items: make([]Item, 0, len(d.Items)+len(result.Closures))}
	for i, item := range d.Items {
		if item.Type == "line" {
			id := SegmentID(i, 0)
			if result.IsDeleted(id) {
				continue
			}
			if r, ok := result.Replacements[id]; ok {
				item.X1, item.Y1 = r.A.X, r.A.Y
				item.X2, item.Y2 = r.B.X, r.B.Y
			}
		}
		out.Items = append(out.Items, item)
	}
	for _, c := range result.Closures {
		out.Items = append(out.Items, Item{
			Type:  "line",
			X1:    c.A.X,
			Y1:    c.A.Y,
			X2:    c.B.X,
			Y2:    c.B.Y,
			Color: closureColor,
			Width: 1.0,
			Layer: ClosureLayer,
		})
	}
	return out
}

// AppendRooms adds detected room polygons to the document on RoomLayer,
// the commit half of the editor's rooms preview/apply flow. It returns the
// number of items added.
func (d *Document) AppendRooms(rooms []RoomPolygon) int {
	for _, room := range rooms {
		d.Items = append(d.Items, Item{
			Type:   "polygon",
			Points: room.Vertices,
			Color:  roomColor,
			Width:  1.0,
			Fill:   roomFill,
			Layer:  RoomLayer,
		})
	}
	return len(rooms)
}
