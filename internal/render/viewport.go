package render

import (
	"fmt"
	"math"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
)

// Viewport maps device units onto a pixel frame.
type Viewport struct {
	Width      int           `yaml:"width" json:"width"`
	Height     int           `yaml:"height" json:"height"`
	UnitsWide  float64       `yaml:"units_wide" json:"units_wide"`
	Background palette.Color `yaml:"background" json:"background"`
}

// DefaultViewport is a 16:9 frame eight units tall.
func DefaultViewport() Viewport {
	return Viewport{
		Width:      1280,
		Height:     720,
		UnitsWide:  8.0 * 16 / 9,
		Background: palette.Black,
	}
}

func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidViewport, v.Width, v.Height)
	}
	if !(v.UnitsWide > 0) || math.IsInf(v.UnitsWide, 0) {
		return fmt.Errorf("%w: units wide %g", ErrInvalidViewport, v.UnitsWide)
	}
	return nil
}

// PixelsPerUnit is the scale from device units to pixels.
func (v Viewport) PixelsPerUnit() float64 {
	return float64(v.Width) / v.UnitsWide
}

// UnitsHigh is the device height visible in the frame.
func (v Viewport) UnitsHigh() float64 {
	return float64(v.Height) / v.PixelsPerUnit()
}

// ToPixel returns the pixel position of a device point, y down.
func (v Viewport) ToPixel(p geom.Point) (x, y float64) {
	s := v.PixelsPerUnit()
	return float64(v.Width)/2 + p.X*s, float64(v.Height)/2 - p.Y*s
}

// Length converts a device length to pixels.
func (v Viewport) Length(d float64) float64 {
	return d * v.PixelsPerUnit()
}
