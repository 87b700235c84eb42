package render

import (
	"math"
	"time"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
)

// Braille draws frames as text on a braille canvas. Colour is reduced to
// on and off: faint primitives are skipped and heatmap cells are filled
// when their colour stands out from the neutral white.
type Braille struct {
	vp     Viewport
	canvas *Canvas
	frames []string
	delays []time.Duration

	// MinOpacity hides primitives fainter than this.
	MinOpacity float64

	// CellContrast is the colour distance from white above which a heatmap
	// cell is filled.
	CellContrast float64
}

// NewBraille creates a canvas of cols x rows characters showing unitsWide
// device units across.
func NewBraille(cols, rows int, unitsWide float64) *Braille {
	return &Braille{
		vp:           Viewport{Width: cols * 2, Height: rows * 4, UnitsWide: unitsWide},
		canvas:       NewCanvas(cols, rows),
		MinOpacity:   0.35,
		CellContrast: 0.3,
	}
}

func (b *Braille) dot(p geom.Point) (int, int) {
	x, y := b.vp.ToPixel(p)
	return int(math.Round(x)), int(math.Round(y))
}

func (b *Braille) line(from, to geom.Point) {
	x0, y0 := b.dot(from)
	x1, y1 := b.dot(to)
	b.canvas.DrawLine(x0, y0, x1, y1)
}

func (b *Braille) Draw(p primitive.Primitive) error {
	if p.Opacity() < b.MinOpacity {
		return nil
	}
	switch p.Kind() {
	case primitive.KindArrow:
		from, to := p.Endpoints()
		b.line(from, to)
		left, right := arrowHead(from, to, p.TipLength())
		b.line(to, left)
		b.line(to, right)
	case primitive.KindBox:
		x0, y0, x1, y1 := b.rect(p)
		b.canvas.DrawRect(x0, y0, x1, y1)
	case primitive.KindGridCell:
		if palette.Distance(p.Style().Fill, palette.White) > b.CellContrast {
			x0, y0, x1, y1 := b.rect(p)
			b.canvas.FillRect(x0, y0, x1-1, y1-1)
		}
	case primitive.KindLabel:
		x, y := b.dot(p.Center())
		b.canvas.Text(x, y, p.Text())
	case primitive.KindWavePath:
		pts := p.Points()
		for i := 1; i < len(pts); i++ {
			b.line(pts[i-1], pts[i])
		}
	}
	return nil
}

func (b *Braille) rect(p primitive.Primitive) (x0, y0, x1, y1 int) {
	c := p.Center()
	w, h := p.Size()
	x0, y0 = b.dot(geom.Pt(c.X-w/2, c.Y+h/2))
	x1, y1 = b.dot(geom.Pt(c.X+w/2, c.Y-h/2))
	return x0, y0, x1, y1
}

// Advance stores the finished frame and clears the canvas.
func (b *Braille) Advance(dt time.Duration) error {
	b.frames = append(b.frames, b.canvas.String())
	b.delays = append(b.delays, dt)
	b.canvas.Clear()
	return nil
}

func (b *Braille) Close() error { return nil }

// Frames returns every finished frame.
func (b *Braille) Frames() []string { return b.frames }

// Delays returns the duration of each frame.
func (b *Braille) Delays() []time.Duration { return b.delays }

// arrowHead returns the two back corners of an arrow's tip triangle.
func arrowHead(from, to geom.Point, tip float64) (left, right geom.Point) {
	d := to.Sub(from)
	n := math.Hypot(d.X, d.Y)
	if n == 0 || tip <= 0 {
		return to, to
	}
	ux, uy := d.X/n, d.Y/n
	base := to.Sub(geom.Pt(ux*tip, uy*tip))
	half := tip / 2
	return geom.Pt(base.X-uy*half, base.Y+ux*half), geom.Pt(base.X+uy*half, base.Y-ux*half)
}
