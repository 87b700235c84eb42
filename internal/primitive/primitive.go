package primitive

import (
	"math"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
)

// Kind tags which variant a Primitive holds.
type Kind int

const (
	KindArrow Kind = iota
	KindBox
	KindLabel
	KindGridCell
	KindWavePath
)

func (k Kind) String() string {
	switch k {
	case KindArrow:
		return "arrow"
	case KindBox:
		return "box"
	case KindLabel:
		return "label"
	case KindGridCell:
		return "cell"
	case KindWavePath:
		return "wave"
	default:
		return "unknown"
	}
}

// ID identifies a primitive. IDs are handed out by a Builder and never reused.
type ID uint64

// Style is the paint of a primitive.
type Style struct {
	Stroke      palette.Color `yaml:"stroke"`
	Fill        palette.Color `yaml:"fill"`
	StrokeWidth float64       `yaml:"stroke_width"`
	FillOpacity float64       `yaml:"fill_opacity"`

	// Opacity multiplies both stroke and fill.
	Opacity float64 `yaml:"opacity"`

	// Dash is the dash length for stroked paths; zero draws a solid stroke.
	Dash float64 `yaml:"dash"`
}

// Stroked returns a style with only a stroke.
func Stroked(c palette.Color, width float64) Style {
	return Style{Stroke: c, Fill: c, StrokeWidth: width, Opacity: 1}
}

// Filled returns a style with a fill and no stroke.
func Filled(c palette.Color, fillOpacity float64) Style {
	return Style{Stroke: c, Fill: c, FillOpacity: fillOpacity, Opacity: 1}
}

// Primitive is an immutable renderable shape in device space.
type Primitive struct {
	id    ID
	kind  Kind
	style Style

	// arrow
	from, to geom.Point
	tip      float64

	// box, cell, label
	center        geom.Point
	width, height float64
	radius        float64

	// wave path
	points []geom.Point

	// label
	text     string
	fontSize float64
}

func (p Primitive) ID() ID {
	return p.id
}

func (p Primitive) Kind() Kind {
	return p.kind
}

func (p Primitive) Style() Style {
	return p.style
}

func (p Primitive) Text() string {
	return p.text
}

func (p Primitive) Opacity() float64 {
	return p.style.Opacity
}

// Valid reports whether p was produced by a Builder.
func (p Primitive) Valid() bool {
	return p.id != 0
}

// Endpoints returns the tail and tip of an arrow.
func (p Primitive) Endpoints() (from, to geom.Point) { return p.from, p.to }

// TipLength returns the length of an arrow's head.
func (p Primitive) TipLength() float64 { return p.tip }

// Center returns the center of a box, cell or label, or the midpoint of an
// arrow or the center of a path's bounds.
func (p Primitive) Center() geom.Point {
	switch p.kind {
	case KindArrow:
		return p.from.Lerp(p.to, 0.5)
	case KindWavePath:
		lo, hi := p.Bounds()
		return lo.Lerp(hi, 0.5)
	default:
		return p.center
	}
}

// Size returns the width and height of a box, cell or label.
func (p Primitive) Size() (w, h float64) { return p.width, p.height }

// CornerRadius returns the rounding radius of a box.
func (p Primitive) CornerRadius() float64 { return p.radius }

// FontSize returns the font size of a label in device units.
func (p Primitive) FontSize() float64 { return p.fontSize }

// Points returns a copy of a wave path's vertices.
func (p Primitive) Points() []geom.Point {
	out := make([]geom.Point, len(p.points))
	copy(out, p.points)
	return out
}

// Length returns the drawn length of an arrow or path.
func (p Primitive) Length() float64 {
	switch p.kind {
	case KindArrow:
		return p.from.Distance(p.to)
	case KindWavePath:
		total := 0.0
		for i := 1; i < len(p.points); i++ {
			total += p.points[i-1].Distance(p.points[i])
		}
		return total
	default:
		return 0
	}
}

// Bounds returns the axis-aligned device-space bounding box.
func (p Primitive) Bounds() (lo, hi geom.Point) {
	switch p.kind {
	case KindArrow:
		return extent([]geom.Point{p.from, p.to})
	case KindWavePath:
		return extent(p.points)
	default:
		half := geom.Pt(p.width/2, p.height/2)
		return p.center.Sub(half), p.center.Add(half)
	}
}

// Contains reports whether q's bounds lie inside p's bounds.
func (p Primitive) Contains(q Primitive) bool {
	plo, phi := p.Bounds()
	qlo, qhi := q.Bounds()
	return qlo.X >= plo.X && qlo.Y >= plo.Y && qhi.X <= phi.X && qhi.Y <= phi.Y
}

// Dimmed returns a draw-time snapshot of p with its opacity multiplied by
// alpha. The snapshot keeps p's ID.
func (p Primitive) Dimmed(alpha float64) Primitive {
	p.style.Opacity *= clamp01(alpha)
	return p
}

// Partial returns the part of p drawn after alpha of a create animation:
// arrows grow from their tail, paths are traced from their first vertex and
// filled shapes fade in. The result keeps p's ID.
func (p Primitive) Partial(alpha float64) Primitive {
	alpha = clamp01(alpha)
	switch p.kind {
	case KindArrow:
		p.to = p.from.Lerp(p.to, alpha)
		p.tip *= alpha
		return p
	case KindWavePath:
		p.points = tracePrefix(p.points, alpha)
		return p
	default:
		return p.Dimmed(alpha)
	}
}

func tracePrefix(pts []geom.Point, alpha float64) []geom.Point {
	if len(pts) < 2 || alpha >= 1 {
		return pts
	}
	segs := float64(len(pts) - 1)
	pos := alpha * segs
	whole := int(math.Floor(pos))
	out := make([]geom.Point, 0, whole+2)
	out = append(out, pts[:whole+1]...)
	if frac := pos - float64(whole); frac > 0 {
		out = append(out, pts[whole].Lerp(pts[whole+1], frac))
	} else if whole == 0 {
		out = append(out, pts[0])
	}
	return out
}

func extent(pts []geom.Point) (lo, hi geom.Point) {
	if len(pts) == 0 {
		return geom.Point{}, geom.Point{}
	}
	lo, hi = pts[0], pts[0]
	for _, q := range pts[1:] {
		lo.X = math.Min(lo.X, q.X)
		lo.Y = math.Min(lo.Y, q.Y)
		hi.X = math.Max(hi.X, q.X)
		hi.Y = math.Max(hi.Y, q.Y)
	}
	return lo, hi
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
