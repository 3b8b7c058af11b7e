package plan

import "fmt"

// Unit is the project's base measurement unit.
type Unit string

const (
	UnitMillimeter Unit = "millimeter"
	UnitCentimeter Unit = "centimeter"
	UnitMeter      Unit = "meter"
	UnitInch       Unit = "inch"
	UnitFoot       Unit = "foot"
)

// MetersPerUnit returns the conversion factor from the unit to meters.
func (u Unit) MetersPerUnit() float64 {
	switch u {
	case UnitCentimeter:
		return 0.01
	case UnitMeter:
		return 1.0
	case UnitInch:
		return 0.0254
	case UnitFoot:
		return 0.3048
	default:
		return 0.001 // millimeter
	}
}

// Valid reports whether the unit is one of the supported values.
func (u Unit) Valid() bool {
	switch u {
	case UnitMillimeter, UnitCentimeter, UnitMeter, UnitInch, UnitFoot:
		return true
	}
	return false
}

// Scale converts between drawing pixels and real-world lengths. It is the
// only place the engine touches physical units: the room detector's minimum
// area threshold is specified in square meters.
type Scale struct {
	PixelsPerUnit float64 `yaml:"pixelsPerUnit" json:"pixelsPerUnit"`
	Unit          Unit    `yaml:"unit" json:"unit"`
}

// DefaultScale is 10 px per centimeter, the original editor's startup scale.
func DefaultScale() Scale {
	return Scale{PixelsPerUnit: 10.0, Unit: UnitCentimeter}
}

// MetersPerPixel returns the real-world length of one drawing pixel.
func (s Scale) MetersPerPixel() float64 {
	if s.PixelsPerUnit <= 0 {
		return 0
	}
	return s.Unit.MetersPerUnit() / s.PixelsPerUnit
}

// AreaM2 converts a pixel-squared area to square meters.
func (s Scale) AreaM2(areaPx2 float64) float64 {
	mpp := s.MetersPerPixel()
	return areaPx2 * mpp * mpp
}

// Validate checks the scale for usable values.
func (s Scale) Validate() error {
	if s.PixelsPerUnit <= 0 {
		return fmt.Errorf("scale.pixelsPerUnit must be positive, got %g", s.PixelsPerUnit)
	}
	if !s.Unit.Valid() {
		return fmt.Errorf("scale.unit %q is not one of millimeter/centimeter/meter/inch/foot", s.Unit)
	}
	return nil
}
