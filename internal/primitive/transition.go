package primitive

import (
	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
)

// Transition describes the interpolation from one primitive to its
// replacement. Neither endpoint is modified; At produces snapshots.
type Transition struct {
	From Primitive
	To   Primitive
}

// Transform pairs old with its replacement.
func Transform(old, replacement Primitive) Transition {
	return Transition{From: old, To: replacement}
}

// At returns the shape at progress alpha in [0, 1]. Snapshots carry the ID of
// To. Primitives of the same kind are interpolated geometrically; different
// kinds cross-fade, showing From during the first half and To during the
// second.
func (t Transition) At(alpha float64) Primitive {
	alpha = clamp01(alpha)
	if alpha == 0 {
		out := t.From
		out.id = t.To.id
		return out
	}
	if alpha == 1 {
		return t.To
	}

	a, b := t.From, t.To
	if a.kind != b.kind {
		if alpha < 0.5 {
			out := a.Dimmed(1 - 2*alpha)
			out.id = b.id
			return out
		}
		return b.Dimmed(2*alpha - 1)
	}

	out := b
	out.style = lerpStyle(a.style, b.style, alpha)
	out.from = a.from.Lerp(b.from, alpha)
	out.to = a.to.Lerp(b.to, alpha)
	out.tip = lerp(a.tip, b.tip, alpha)
	out.center = a.center.Lerp(b.center, alpha)
	out.width = lerp(a.width, b.width, alpha)
	out.height = lerp(a.height, b.height, alpha)
	out.radius = lerp(a.radius, b.radius, alpha)
	out.fontSize = lerp(a.fontSize, b.fontSize, alpha)
	if alpha < 0.5 {
		out.text = a.text
	}
	if a.kind == KindWavePath {
		out.points = lerpPath(a.points, b.points, alpha)
	}
	return out
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpStyle(a, b Style, t float64) Style {
	return Style{
		Stroke:      palette.Lerp(a.Stroke, b.Stroke, t),
		Fill:        palette.Lerp(a.Fill, b.Fill, t),
		StrokeWidth: lerp(a.StrokeWidth, b.StrokeWidth, t),
		FillOpacity: lerp(a.FillOpacity, b.FillOpacity, t),
		Opacity:     lerp(a.Opacity, b.Opacity, t),
		Dash:        b.Dash,
	}
}

// lerpPath resamples both paths to the longer vertex count and interpolates
// vertex by vertex.
func lerpPath(a, b []geom.Point, t float64) []geom.Point {
	n := max(len(a), len(b))
	if n == 0 {
		return nil
	}
	ra, rb := resample(a, n), resample(b, n)
	out := make([]geom.Point, n)
	for i := range out {
		out[i] = ra[i].Lerp(rb[i], t)
	}
	return out
}

func resample(pts []geom.Point, n int) []geom.Point {
	if len(pts) == n {
		return pts
	}
	out := make([]geom.Point, n)
	if len(pts) == 0 {
		return out
	}
	if len(pts) == 1 {
		for i := range out {
			out[i] = pts[0]
		}
		return out
	}
	last := float64(len(pts) - 1)
	for i := range out {
		pos := float64(i) / float64(n-1) * last
		j := int(pos)
		if j >= len(pts)-1 {
			out[i] = pts[len(pts)-1]
			continue
		}
		out[i] = pts[j].Lerp(pts[j+1], pos-float64(j))
	}
	return out
}
