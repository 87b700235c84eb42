package coord

import (
	"fmt"
	"math"

	"github.com/san-kum/attnviz/internal/geom"
)

// AxisSpec describes one axis: the data domain [Min, Max] and the device
// length it spans.
type AxisSpec struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Length float64 `yaml:"length"`
}

// Validate checks Max > Min and Length > 0 with all values finite.
func (a AxisSpec) Validate() error {
	for _, v := range []float64{a.Min, a.Max, a.Length} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidAxisSpec, a)
		}
	}
	if a.Max <= a.Min {
		return fmt.Errorf("%w: max %g must exceed min %g", ErrInvalidAxisSpec, a.Max, a.Min)
	}
	if a.Length <= 0 {
		return fmt.Errorf("%w: device length %g must be positive", ErrInvalidAxisSpec, a.Length)
	}
	return nil
}

// Span returns Max - Min.
func (a AxisSpec) Span() float64 { return a.Max - a.Min }

// unit maps v onto [-0.5, 0.5]. Going through the normalized position keeps
// both domain extremes exact: (Max-Min)/(Max-Min) is exactly 1.
func (a AxisSpec) unit(v float64) float64 {
	return (v-a.Min)/(a.Max-a.Min) - 0.5
}

// Mapper is an immutable affine map from data space to device space.
type Mapper struct {
	x, y   AxisSpec
	origin geom.Point
	// device units per data unit
	sx, sy float64
}

// Option configures a Mapper at construction.
type Option func(*Mapper)

// WithOrigin places the device-space center of the mapped area at p.
func WithOrigin(p geom.Point) Option {
	return func(m *Mapper) { m.origin = p }
}

// New validates both axes and returns a Mapper. Validation is eager: a bad
// axis is reported here and never at first use.
func New(x, y AxisSpec, opts ...Option) (*Mapper, error) {
	if err := x.Validate(); err != nil {
		return nil, fmt.Errorf("x axis: %w", err)
	}
	if err := y.Validate(); err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}

	m := &Mapper{x: x, y: y}
	for _, opt := range opts {
		opt(m)
	}
	m.sx = x.Length / x.Span()
	m.sy = y.Length / y.Span()
	return m, nil
}

// ToDevice maps the data-space point (x, y) into device space. Values outside
// the domain are extrapolated along the same affine map.
func (m *Mapper) ToDevice(x, y float64) geom.Point {
	return geom.Point{
		X: m.origin.X + m.x.unit(x)*m.x.Length,
		Y: m.origin.Y + m.y.unit(y)*m.y.Length,
	}
}

// ToDevicePoint maps p.
func (m *Mapper) ToDevicePoint(p geom.Point) geom.Point {
	return m.ToDevice(p.X, p.Y)
}

// ToDeviceVec maps the endpoint of v.
func (m *Mapper) ToDeviceVec(v geom.Vector) geom.Point {
	return m.ToDevice(v.X, v.Y)
}

// ToData is the inverse of ToDevice.
func (m *Mapper) ToData(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X-m.origin.X+m.x.Length/2)/m.sx + m.x.Min,
		Y: (p.Y-m.origin.Y+m.y.Length/2)/m.sy + m.y.Min,
	}
}

// Bounds returns the device-space corners reached by the domain extremes.
func (m *Mapper) Bounds() (lo, hi geom.Point) {
	return m.ToDevice(m.x.Min, m.y.Min), m.ToDevice(m.x.Max, m.y.Max)
}

// Scale returns device units per data unit along each axis.
func (m *Mapper) Scale() (sx, sy float64) { return m.sx, m.sy }

func (m *Mapper) Origin() geom.Point { return m.origin }
func (m *Mapper) XAxis() AxisSpec    { return m.x }
func (m *Mapper) YAxis() AxisSpec    { return m.y }
