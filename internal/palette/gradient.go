package palette

import (
	"fmt"
	"math"
	"sort"
)

// Stop anchors a color at a value of the gradient domain.
type Stop struct {
	Value float64
	Color Color
}

// Gradient maps scalars onto colors through an ordered list of stops.
// A Gradient is immutable once built.
type Gradient struct {
	stops []Stop
}

// New builds a gradient. Stops must number at least two and be strictly
// increasing in value.
func New(stops ...Stop) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 stops, got %d", ErrInvalidGradient, len(stops))
	}
	for i, s := range stops {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, fmt.Errorf("%w: stop %d is not finite", ErrInvalidGradient, i)
		}
		if i > 0 && s.Value <= stops[i-1].Value {
			return nil, fmt.Errorf("%w: stop %d (%g) does not follow %g", ErrInvalidGradient, i, s.Value, stops[i-1].Value)
		}
	}

	g := &Gradient{stops: make([]Stop, len(stops))}
	copy(g.stops, stops)
	return g, nil
}

// Diverging builds the three-stop gradient used for signed data: neg at lo,
// mid at the domain midpoint and pos at hi.
func Diverging(neg, mid, pos Color, lo, hi float64) (*Gradient, error) {
	return New(
		Stop{Value: lo, Color: neg},
		Stop{Value: lo + (hi-lo)/2, Color: mid},
		Stop{Value: hi, Color: pos},
	)
}

// Heatmap is the Blue -> White -> Red gradient over [-1, 1].
func Heatmap() *Gradient {
	g, err := Diverging(Blue, White, Red, -1, 1)
	if err != nil {
		panic(err)
	}
	return g
}

// Domain returns the values of the first and last stop.
func (g *Gradient) Domain() (lo, hi float64) {
	return g.stops[0].Value, g.stops[len(g.stops)-1].Value
}

// Stops returns a copy of the gradient's stops.
func (g *Gradient) Stops() []Stop {
	out := make([]Stop, len(g.stops))
	copy(out, g.stops)
	return out
}

// Interpolate returns the color for v. Values outside the domain are clamped
// to it; NaN maps to the lowest stop.
func (g *Gradient) Interpolate(v float64) Color {
	lo, hi := g.Domain()
	if math.IsNaN(v) || v <= lo {
		return g.stops[0].Color
	}
	if v >= hi {
		return g.stops[len(g.stops)-1].Color
	}

	// first stop with Value >= v; lo < v < hi so 0 < idx < len
	idx := sort.Search(len(g.stops), func(i int) bool {
		return g.stops[i].Value >= v
	})
	right := g.stops[idx]
	if right.Value == v {
		return right.Color
	}
	left := g.stops[idx-1]
	t := (v - left.Value) / (right.Value - left.Value)
	return Lerp(left.Color, right.Color, t)
}
