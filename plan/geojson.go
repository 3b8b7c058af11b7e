package plan

import (
	"encoding/json"

	"github.com/paulmach/orb"
)

// GeometryType is the GeoJSON geometry type.
type GeometryType string

const (
	GeometryLineString GeometryType = "LineString"
	GeometryPolygon    GeometryType = "Polygon"
)

// Geometry is a GeoJSON geometry object. Coordinates stay raw so features
// of different types share one container.
type Geometry struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature is a GeoJSON feature with geometry and properties.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
	ID         interface{}            `json:"id,omitempty"`
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection creates an empty FeatureCollection.
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]*Feature, 0),
	}
}

// AddFeature appends a feature to the collection.
func (fc *FeatureCollection) AddFeature(f *Feature) {
	fc.Features = append(fc.Features, f)
}

// NewFeature creates a Feature with the given geometry and properties.
func NewFeature(geom *Geometry, props map[string]interface{}) *Feature {
	if props == nil {
		props = make(map[string]interface{})
	}
	return &Feature{
		Type:       "Feature",
		Geometry:   geom,
		Properties: props,
	}
}

// SegmentToLineString converts a segment to a GeoJSON LineString geometry.
// Coordinates are drawing pixels (x, y).
func SegmentToLineString(s Segment) *Geometry {
	coords := [][2]float64{{s.A.X, s.A.Y}, {s.B.X, s.B.Y}}
	coordsJSON, _ := json.Marshal(coords)
	return &Geometry{
		Type:        GeometryLineString,
		Coordinates: coordsJSON,
	}
}

// RoomToOrbPolygon converts a room rectangle to an orb.Polygon with a
// closed outer ring.
func RoomToOrbPolygon(room RoomPolygon) orb.Polygon {
	ring := make(orb.Ring, 0, len(room.Vertices)+1)
	for _, v := range room.Vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// polygonToGeometry converts an orb.Polygon to a GeoJSON geometry.
func polygonToGeometry(poly orb.Polygon) *Geometry {
	coords := make([][][2]float64, len(poly))
	for i, ring := range poly {
		coords[i] = make([][2]float64, len(ring))
		for j, pt := range ring {
			coords[i][j] = [2]float64{pt[0], pt[1]}
		}
	}
	coordsJSON, _ := json.Marshal(coords)
	return &Geometry{
		Type:        GeometryPolygon,
		Coordinates: coordsJSON,
	}
}

// RoomsToFeatureCollection exports detected rooms as GeoJSON polygons with
// pixel and real-world areas in the properties.
func RoomsToFeatureCollection(rooms []RoomPolygon, scale Scale) *FeatureCollection {
	fc := NewFeatureCollection()
	for i, room := range rooms {
		f := NewFeature(polygonToGeometry(RoomToOrbPolygon(room)), map[string]interface{}{
			"areaPx2": room.AreaPx2,
			"areaM2":  scale.AreaM2(room.AreaPx2),
		})
		f.ID = i
		fc.AddFeature(f)
	}
	return fc
}

// RefineToFeatureCollection exports the refined wireframe as GeoJSON lines.
// Each feature's "status" property is "unchanged", "replaced", or
// "closure", so a host can style the suggestions distinctly before
// committing them.
func RefineToFeatureCollection(segments []Segment, result *RefineResult) *FeatureCollection {
	fc := NewFeatureCollection()
	for _, s := range segments {
		if result.IsDeleted(s.ID) {
			continue
		}
		status := "unchanged"
		out := s
		if r, ok := result.Replacements[s.ID]; ok {
			status = "replaced"
			out = r
		}
		f := NewFeature(SegmentToLineString(out), map[string]interface{}{"status": status})
		f.ID = s.ID
		fc.AddFeature(f)
	}
	for _, c := range result.Closures {
		fc.AddFeature(NewFeature(SegmentToLineString(c), map[string]interface{}{"status": "closure"}))
	}
	return fc
}
