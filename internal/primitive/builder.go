package primitive

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/san-kum/attnviz/internal/coord"
	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
)

// Options configures a Builder.
type Options struct {
	// MinArrowLength is the shortest device length an arrow is drawn with.
	MinArrowLength float64 `yaml:"min_arrow_length"`

	// TipLength is the largest arrow head; heads shrink to TipRatio of the
	// arrow length on short arrows.
	TipLength float64 `yaml:"tip_length"`
	TipRatio  float64 `yaml:"tip_ratio"`

	// ChipPadX and ChipPadY are added on each side of a chip label.
	ChipPadX   float64 `yaml:"chip_pad_x"`
	ChipPadY   float64 `yaml:"chip_pad_y"`
	ChipRadius float64 `yaml:"chip_radius"`

	FontSize float64 `yaml:"font_size"`

	// LabelBuff is the gap between an arrow tip and its label.
	LabelBuff   float64 `yaml:"label_buff"`
	StrokeWidth float64 `yaml:"stroke_width"`

	Measurer Measurer `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		MinArrowLength: 0.25,
		TipLength:      0.35,
		TipRatio:       0.12,
		ChipPadX:       0.35,
		ChipPadY:       0.225,
		ChipRadius:     0.2,
		FontSize:       0.34,
		LabelBuff:      0.15,
		StrokeWidth:    0.04,
		Measurer:       DefaultMeasurer(),
	}
}

// Builder constructs primitives and hands out their IDs. The zero value is
// not usable; call NewBuilder.
type Builder struct {
	opts Options
	next atomic.Uint64
}

// Validate rejects non-finite or negative sizes, a non-positive font size
// and a tip ratio outside [0, 1].
func (o Options) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"min_arrow_length", o.MinArrowLength},
		{"tip_length", o.TipLength},
		{"tip_ratio", o.TipRatio},
		{"chip_pad_x", o.ChipPadX},
		{"chip_pad_y", o.ChipPadY},
		{"chip_radius", o.ChipRadius},
		{"font_size", o.FontSize},
		{"label_buff", o.LabelBuff},
		{"stroke_width", o.StrokeWidth},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s %g", ErrInvalidOptions, f.name, f.v)
		}
	}
	if o.FontSize == 0 {
		return fmt.Errorf("%w: font_size must be positive", ErrInvalidOptions)
	}
	if o.TipRatio > 1 {
		return fmt.Errorf("%w: tip_ratio %g above 1", ErrInvalidOptions, o.TipRatio)
	}
	return nil
}

// NewBuilder clamps negative chip padding to zero so a chip box always
// contains its label; callers that want an error should Validate first.
func NewBuilder(opts Options) *Builder {
	if opts.Measurer == nil {
		opts.Measurer = DefaultMeasurer()
	}
	opts.ChipPadX = max(opts.ChipPadX, 0)
	opts.ChipPadY = max(opts.ChipPadY, 0)
	return &Builder{opts: opts}
}

func (b *Builder) Options() Options { return b.opts }

func (b *Builder) id() ID {
	return ID(b.next.Add(1))
}

// Arrow builds an arrow from the mapped tail to the mapped tip. When the
// mapped length is below MinArrowLength the tip is pushed out along the
// arrow's direction (along +x for a zero vector) so degenerate vectors stay
// visible.
func (b *Builder) Arrow(m *coord.Mapper, from, to geom.Vector, style Style) Primitive {
	return b.ArrowBetween(m.ToDeviceVec(from), m.ToDeviceVec(to), style)
}

// ArrowBetween builds an arrow between two device-space points with the same
// minimum-length floor as Arrow.
func (b *Builder) ArrowBetween(from, to geom.Point, style Style) Primitive {
	d := to.Sub(from)
	length := math.Hypot(d.X, d.Y)
	if floor := b.opts.MinArrowLength; length < floor {
		dir := geom.Pt(1, 0)
		if length > 1e-12 {
			dir = d.Mul(1 / length)
		}
		to = from.Add(dir.Mul(floor))
		length = floor
	}
	if style.StrokeWidth == 0 {
		style.StrokeWidth = b.opts.StrokeWidth
	}
	return Primitive{
		id:    b.id(),
		kind:  KindArrow,
		style: style,
		from:  from,
		to:    to,
		tip:   math.Min(b.opts.TipLength, b.opts.TipRatio*length),
	}
}

// Label builds a text label centered at center. A non-positive fontSize uses
// the builder default.
func (b *Builder) Label(text string, center geom.Point, fontSize float64, c palette.Color) Primitive {
	if fontSize <= 0 {
		fontSize = b.opts.FontSize
	}
	w, h := b.opts.Measurer.Measure(text, fontSize)
	return Primitive{
		id:       b.id(),
		kind:     KindLabel,
		style:    Filled(c, 1),
		center:   center,
		width:    w,
		height:   h,
		text:     text,
		fontSize: fontSize,
	}
}

// LabelBeside places a label so that its nearest edge sits buff away from
// anchor in direction dir (components in {-1, 0, 1}, e.g. (1, 1) for
// up-right).
func (b *Builder) LabelBeside(text string, anchor, dir geom.Point, buff, fontSize float64, c palette.Color) Primitive {
	if fontSize <= 0 {
		fontSize = b.opts.FontSize
	}
	w, h := b.opts.Measurer.Measure(text, fontSize)
	center := anchor.Add(geom.Pt(dir.X*(buff+w/2), dir.Y*(buff+h/2)))
	return b.Label(text, center, fontSize, c)
}

// ArrowLabel labels an arrow up-right of its tip.
func (b *Builder) ArrowLabel(arrow Primitive, text string, c palette.Color) Primitive {
	_, tip := arrow.Endpoints()
	return b.LabelBeside(text, tip, geom.Pt(1, 1), b.opts.LabelBuff, 0, c)
}

// Box builds a rectangle centered at center. radius rounds the corners.
func (b *Builder) Box(center geom.Point, w, h, radius float64, style Style) Primitive {
	return Primitive{
		id:     b.id(),
		kind:   KindBox,
		style:  style,
		center: center,
		width:  w,
		height: h,
		radius: radius,
	}
}

// Dot builds a filled circle.
func (b *Builder) Dot(center geom.Point, radius float64, c palette.Color) Primitive {
	return b.Box(center, 2*radius, 2*radius, radius, Filled(c, 1))
}

// ChipSize returns the box size TokenChip would use for text.
func (b *Builder) ChipSize(text string) (w, h float64) {
	lw, lh := b.opts.Measurer.Measure(text, b.opts.FontSize)
	return lw + 2*b.opts.ChipPadX, lh + 2*b.opts.ChipPadY
}

// TokenChip builds a rounded box sized to fit text with fixed padding and the
// label centered inside it, both at the origin.
func (b *Builder) TokenChip(text string, c palette.Color) (box, label Primitive) {
	return b.TokenChipAt(text, c, geom.Point{})
}

// TokenChipAt is TokenChip centered at center.
func (b *Builder) TokenChipAt(text string, c palette.Color, center geom.Point) (box, label Primitive) {
	label = b.Label(text, center, b.opts.FontSize, c)
	w, h := b.ChipSize(text)
	style := Style{
		Stroke:      c,
		Fill:        c,
		StrokeWidth: b.opts.StrokeWidth,
		FillOpacity: 0.08,
		Opacity:     1,
	}
	box = b.Box(center, w, h, math.Min(b.opts.ChipRadius, h/2), style)
	return box, label
}

// Cell builds one heatmap cell: a square of side size filled with fill.
func (b *Builder) Cell(center geom.Point, size float64, fill palette.Color, strokeWidth float64) Primitive {
	return Primitive{
		id:   b.id(),
		kind: KindGridCell,
		style: Style{
			Stroke:      fill,
			Fill:        fill,
			StrokeWidth: strokeWidth,
			FillOpacity: 1,
			Opacity:     1,
		},
		center: center,
		width:  size,
		height: size,
	}
}

// Wave builds a polyline through the data-space samples (xs[i], ys[i]).
func (b *Builder) Wave(m *coord.Mapper, xs, ys []float64, style Style) (Primitive, error) {
	if len(xs) != len(ys) {
		return Primitive{}, fmt.Errorf("%w: %d x values, %d y values", ErrInvalidPath, len(xs), len(ys))
	}
	pts := make([]geom.Point, len(xs))
	for i := range xs {
		pts[i] = m.ToDevice(xs[i], ys[i])
	}
	return b.Path(pts, style)
}

// Path builds a polyline through device-space points.
func (b *Builder) Path(pts []geom.Point, style Style) (Primitive, error) {
	if len(pts) < 2 {
		return Primitive{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidPath, len(pts))
	}
	if style.StrokeWidth == 0 {
		style.StrokeWidth = b.opts.StrokeWidth
	}
	own := make([]geom.Point, len(pts))
	copy(own, pts)
	return Primitive{
		id:     b.id(),
		kind:   KindWavePath,
		style:  style,
		points: own,
	}, nil
}

// DashedLine builds a two-point dashed path.
func (b *Builder) DashedLine(from, to geom.Point, dash float64, style Style) Primitive {
	style.Dash = dash
	p, _ := b.Path([]geom.Point{from, to}, style)
	return p
}

// Moved returns a copy of p translated so that its center is at center,
// under a new ID.
func (b *Builder) Moved(p Primitive, center geom.Point) Primitive {
	shift := center.Sub(p.Center())
	q := p
	q.id = b.id()
	q.from = p.from.Add(shift)
	q.to = p.to.Add(shift)
	q.center = p.center.Add(shift)
	if len(p.points) > 0 {
		q.points = make([]geom.Point, len(p.points))
		for i, pt := range p.points {
			q.points[i] = pt.Add(shift)
		}
	}
	return q
}

// Scaled returns a copy of p scaled by f about its center, under a new ID.
func (b *Builder) Scaled(p Primitive, f float64) Primitive {
	c := p.Center()
	q := p
	q.id = b.id()
	q.from = c.Add(p.from.Sub(c).Mul(f))
	q.to = c.Add(p.to.Sub(c).Mul(f))
	q.tip = p.tip * f
	q.width = p.width * f
	q.height = p.height * f
	q.radius = p.radius * f
	q.fontSize = p.fontSize * f
	if len(p.points) > 0 {
		q.points = make([]geom.Point, len(p.points))
		for i, pt := range p.points {
			q.points[i] = c.Add(pt.Sub(c).Mul(f))
		}
	}
	return q
}

// Restyled returns a copy of p with a new style, under a new ID.
func (b *Builder) Restyled(p Primitive, style Style) Primitive {
	q := p
	q.id = b.id()
	q.style = style
	return q
}

// WithOpacity returns a copy of p at the given opacity, under a new ID.
func (b *Builder) WithOpacity(p Primitive, opacity float64) Primitive {
	s := p.style
	s.Opacity = clamp01(opacity)
	return b.Restyled(p, s)
}
