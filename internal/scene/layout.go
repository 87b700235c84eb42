package scene

import (
	"math"

	"github.com/san-kum/attnviz/internal/coord"
	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// row returns the centers of items of the given widths laid out left to
// right with buff between them, the whole row centered on center.
func row(widths []float64, buff float64, center geom.Point) []geom.Point {
	total := buff * float64(max(len(widths)-1, 0))
	for _, w := range widths {
		total += w
	}
	out := make([]geom.Point, len(widths))
	x := center.X - total/2
	for i, w := range widths {
		out[i] = geom.Pt(x+w/2, center.Y)
		x += w + buff
	}
	return out
}

// column stacks items of the given heights top to bottom with buff between
// them, the whole column centered on center.
func column(heights []float64, buff float64, center geom.Point) []geom.Point {
	total := buff * float64(max(len(heights)-1, 0))
	for _, h := range heights {
		total += h
	}
	out := make([]geom.Point, len(heights))
	y := center.Y + total/2
	for i, h := range heights {
		out[i] = geom.Pt(center.X, y-h/2)
		y -= h + buff
	}
	return out
}

func parts(groups ...[]primitive.Primitive) []primitive.Primitive {
	var out []primitive.Primitive
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Chip is a token label inside a rounded box.
type Chip struct {
	Box   primitive.Primitive
	Label primitive.Primitive
}

func (c Chip) Parts() []primitive.Primitive {
	return []primitive.Primitive{c.Box, c.Label}
}

func (c *Composer) Chip(text string, color palette.Color, center geom.Point) Chip {
	box, label := c.Builder.TokenChipAt(text, color, center)
	return Chip{Box: box, Label: label}
}

// ChipRow lays chips out left to right around center.
func (c *Composer) ChipRow(texts []string, colors []palette.Color, buff float64, center geom.Point) []Chip {
	widths := make([]float64, len(texts))
	for i, t := range texts {
		widths[i], _ = c.Builder.ChipSize(t)
	}
	centers := row(widths, buff, center)
	chips := make([]Chip, len(texts))
	for i, t := range texts {
		chips[i] = c.Chip(t, colors[i%len(colors)], centers[i])
	}
	return chips
}

// Restyle derives the chip drawn at opacity and scale, under new IDs.
func (c *Composer) Restyle(ch Chip, opacity, scale float64) Chip {
	b := c.Builder
	return Chip{
		Box:   b.Scaled(b.WithOpacity(ch.Box, opacity), scale),
		Label: b.Scaled(b.WithOpacity(ch.Label, opacity), scale),
	}
}

// Panel is a titled box of text lines.
type Panel struct {
	Box   primitive.Primitive
	Title primitive.Primitive
	Lines []primitive.Primitive
}

func (p Panel) Parts() []primitive.Primitive {
	return append([]primitive.Primitive{p.Box, p.Title}, p.Lines...)
}

func (p Panel) Height() float64 {
	_, h := p.Box.Size()
	return h
}

const (
	panelTitleSize = 26
	panelLineSize  = 22
	panelPad       = 0.3
	panelTitleGap  = 0.25
	panelLineGap   = 0.18
)

// Panel builds a panel of the given width centered on center. Lines are left
// aligned under the title.
func (c *Composer) Panel(title string, lines []string, width float64, center geom.Point) Panel {
	b := c.Builder
	text := c.Palette.Text
	_, th := b.Options().Measurer.Measure(title, fs(panelTitleSize))
	_, lh := b.Options().Measurer.Measure("M", fs(panelLineSize))

	content := th
	if len(lines) > 0 {
		content += panelTitleGap + float64(len(lines))*lh + float64(len(lines)-1)*panelLineGap
	}
	height := content + 2*panelPad

	style := primitive.Style{
		Stroke:      text,
		Fill:        palette.Black,
		StrokeWidth: 0.02,
		FillOpacity: 0.65,
		Opacity:     1,
	}
	box := b.Box(center, width, height, 0.25, style)

	left := center.X - width/2 + panelPad
	y := center.Y + content/2
	p := Panel{Box: box}
	p.Title = b.LabelBeside(title, geom.Pt(left, y-th/2), geom.Pt(1, 0), 0, fs(panelTitleSize), text)
	y -= th + panelTitleGap
	for _, l := range lines {
		p.Lines = append(p.Lines, b.LabelBeside(l, geom.Pt(left, y-lh/2), geom.Pt(1, 0), 0, fs(panelLineSize), text))
		y -= lh + panelLineGap
	}
	return p
}

// Morph transforms the primitives of old into their counterparts in next.
// Unmatched old parts fade out and unmatched new parts fade in.
func Morph(old, next []primitive.Primitive) []timeline.Action {
	out := make([]timeline.Action, 0, max(len(old), len(next)))
	n := min(len(old), len(next))
	for i := 0; i < n; i++ {
		out = append(out, timeline.Transform(old[i], next[i]))
	}
	if len(old) > n {
		out = append(out, timeline.FadeOut(old[n:]...))
	}
	if len(next) > n {
		out = append(out, timeline.FadeIn(next[n:]...))
	}
	return out
}

// Axes draws the x and y axis lines of m through the data origin, clamped
// to the domain when the origin lies outside it.
func (c *Composer) Axes(m *coord.Mapper, color palette.Color, width float64) []primitive.Primitive {
	x, y := m.XAxis(), m.YAxis()
	ox := clampTo(0, x)
	oy := clampTo(0, y)
	style := primitive.Stroked(color, width)
	xa, _ := c.Builder.Path([]geom.Point{m.ToDevice(x.Min, oy), m.ToDevice(x.Max, oy)}, style)
	ya, _ := c.Builder.Path([]geom.Point{m.ToDevice(ox, y.Min), m.ToDevice(ox, y.Max)}, style)
	return []primitive.Primitive{xa, ya}
}

// maxGridLines bounds the grid lines Plane draws along one axis.
const maxGridLines = 32

// gridStep is 1 for spans up to maxGridLines units and the smallest power
// of ten keeping the line count within maxGridLines otherwise.
func gridStep(span float64) float64 {
	return math.Max(1, math.Pow(10, math.Ceil(math.Log10(span/maxGridLines))))
}

// Plane draws faint grid lines at whole data units of m (coarser on wide
// axes), then the axes on top.
func (c *Composer) Plane(m *coord.Mapper) []primitive.Primitive {
	x, y := m.XAxis(), m.YAxis()
	style := primitive.Stroked(c.Palette.Vector, 0.01)
	style.Opacity = 0.25

	var out []primitive.Primitive
	sx, sy := gridStep(x.Span()), gridStep(y.Span())
	for i := math.Ceil(x.Min / sx); i*sx <= x.Max; i++ {
		v := i * sx
		p, _ := c.Builder.Path([]geom.Point{m.ToDevice(v, y.Min), m.ToDevice(v, y.Max)}, style)
		out = append(out, p)
	}
	for i := math.Ceil(y.Min / sy); i*sy <= y.Max; i++ {
		v := i * sy
		p, _ := c.Builder.Path([]geom.Point{m.ToDevice(x.Min, v), m.ToDevice(x.Max, v)}, style)
		out = append(out, p)
	}
	return append(out, c.Axes(m, c.Palette.Text, 0.02)...)
}

// ValueBox is a rounded box holding a short column of numbers, optionally
// captioned above.
type ValueBox struct {
	Box     primitive.Primitive
	Values  []primitive.Primitive
	Caption *primitive.Primitive
}

func (v ValueBox) Parts() []primitive.Primitive {
	out := append([]primitive.Primitive{v.Box}, v.Values...)
	if v.Caption != nil {
		out = append(out, *v.Caption)
	}
	return out
}

const (
	valueBoxW    = 1.0
	valueBoxH    = 1.4
	valueSize    = 16
	valueGap     = 0.08
	captionSize  = 18
	captionBuff  = 0.15
	roundedSmall = 0.1
)

// ValueBox builds a box with values stacked inside and an ellipsis below
// them. An empty caption is left out.
func (c *Composer) ValueBox(values []string, color palette.Color, caption string, center geom.Point) ValueBox {
	b := c.Builder
	vb := ValueBox{Box: b.Box(center, valueBoxW, valueBoxH, roundedSmall, boxStyle(color, 0.15))}

	texts := append(append([]string{}, values...), "...")
	_, h := b.Options().Measurer.Measure("0", fs(valueSize))
	heights := make([]float64, len(texts))
	for i := range heights {
		heights[i] = h
	}
	for i, pt := range column(heights, valueGap, center) {
		col := c.Palette.Text
		if i == len(texts)-1 {
			col = c.Palette.Muted
		}
		vb.Values = append(vb.Values, b.Label(texts[i], pt, fs(valueSize), col))
	}
	if caption != "" {
		top := geom.Pt(center.X, center.Y+valueBoxH/2)
		l := b.LabelBeside(caption, top, geom.Pt(0, 1), captionBuff, fs(captionSize), c.Palette.Muted)
		vb.Caption = &l
	}
	return vb
}

func boxStyle(c palette.Color, fill float64) primitive.Style {
	return primitive.Style{Stroke: c, Fill: c, StrokeWidth: 0.02, FillOpacity: fill, Opacity: 1}
}

func clampTo(v float64, a coord.AxisSpec) float64 {
	return min(max(v, a.Min), a.Max)
}
