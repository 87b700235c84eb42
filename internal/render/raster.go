package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
)

// FrameSink receives finished raster frames.
type FrameSink interface {
	WriteFrame(img image.Image, dt time.Duration) error
	Close() error
}

// Raster draws primitives with gg's software rasterizer and hands each
// finished frame to a sink. A nil sink keeps only the latest frame.
type Raster struct {
	vp     Viewport
	dc     *gg.Context
	sink   FrameSink
	font   *text.FontSource
	faces  map[int]text.Face
	fresh  bool
	frames int
	closed bool
}

func NewRaster(vp Viewport, sink FrameSink) (*Raster, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	font, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	r := &Raster{
		vp:    vp,
		dc:    gg.NewContext(vp.Width, vp.Height),
		sink:  sink,
		font:  font,
		faces: make(map[int]text.Face),
		fresh: true,
	}
	r.clear()
	return r, nil
}

func (r *Raster) clear() {
	bg := r.vp.Background
	r.dc.ClearWithColor(gg.RGB(bg.R, bg.G, bg.B))
}

func (r *Raster) setColor(c palette.Color, alpha float64) {
	r.dc.SetRGBA(c.R, c.G, c.B, math.Max(0, math.Min(1, alpha)))
}

func (r *Raster) face(px float64) text.Face {
	size := max(int(math.Round(px)), 1)
	f, ok := r.faces[size]
	if !ok {
		f = r.font.Face(float64(size))
		r.faces[size] = f
	}
	return f
}

func (r *Raster) Draw(p primitive.Primitive) error {
	if r.closed {
		return ErrClosed
	}
	if r.fresh {
		r.clear()
		r.fresh = false
	}
	if p.Opacity() <= 0 {
		return nil
	}

	switch p.Kind() {
	case primitive.KindArrow:
		return r.arrow(p)
	case primitive.KindBox, primitive.KindGridCell:
		return r.box(p)
	case primitive.KindLabel:
		x, y := r.vp.ToPixel(p.Center())
		r.dc.SetFont(r.face(r.vp.Length(p.FontSize())))
		r.setColor(p.Style().Fill, p.Opacity())
		r.dc.DrawStringAnchored(p.Text(), x, y, 0.5, 0.5)
		return nil
	case primitive.KindWavePath:
		return r.path(p)
	}
	return nil
}

func (r *Raster) arrow(p primitive.Primitive) error {
	st := p.Style()
	from, to := p.Endpoints()
	left, right := arrowHead(from, to, p.TipLength())
	base := left.Lerp(right, 0.5)

	x0, y0 := r.vp.ToPixel(from)
	x1, y1 := r.vp.ToPixel(base)
	r.setColor(st.Stroke, p.Opacity())
	r.dc.SetLineWidth(r.vp.Length(st.StrokeWidth))
	r.dc.DrawLine(x0, y0, x1, y1)
	if err := r.dc.Stroke(); err != nil {
		return err
	}

	tx, ty := r.vp.ToPixel(to)
	lx, ly := r.vp.ToPixel(left)
	rx, ry := r.vp.ToPixel(right)
	r.dc.MoveTo(tx, ty)
	r.dc.LineTo(lx, ly)
	r.dc.LineTo(rx, ry)
	r.dc.ClosePath()
	return r.dc.Fill()
}

func (r *Raster) box(p primitive.Primitive) error {
	st := p.Style()
	c := p.Center()
	w, h := p.Size()
	x, y := r.vp.ToPixel(c)
	pw, ph := r.vp.Length(w), r.vp.Length(h)

	shape := func() {
		if rad := r.vp.Length(p.CornerRadius()); rad > 0 {
			r.dc.DrawRoundedRectangle(x-pw/2, y-ph/2, pw, ph, rad)
		} else {
			r.dc.DrawRectangle(x-pw/2, y-ph/2, pw, ph)
		}
	}

	if st.FillOpacity > 0 {
		shape()
		r.setColor(st.Fill, st.FillOpacity*p.Opacity())
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}
	if st.StrokeWidth > 0 {
		shape()
		r.setColor(st.Stroke, p.Opacity())
		r.dc.SetLineWidth(r.vp.Length(st.StrokeWidth))
		return r.dc.Stroke()
	}
	return nil
}

func (r *Raster) path(p primitive.Primitive) error {
	st := p.Style()
	pts := p.Points()
	if len(pts) < 2 {
		return nil
	}
	for i, pt := range pts {
		x, y := r.vp.ToPixel(pt)
		if i == 0 {
			r.dc.MoveTo(x, y)
		} else {
			r.dc.LineTo(x, y)
		}
	}
	r.setColor(st.Stroke, p.Opacity())
	r.dc.SetLineWidth(r.vp.Length(st.StrokeWidth))
	if st.Dash > 0 {
		d := r.vp.Length(st.Dash)
		r.dc.SetDash(d, d)
		defer r.dc.ClearDash()
	}
	return r.dc.Stroke()
}

// Advance finishes the frame and passes it to the sink.
func (r *Raster) Advance(dt time.Duration) error {
	if r.closed {
		return ErrClosed
	}
	if r.fresh {
		r.clear()
	}
	r.fresh = true
	r.frames++
	if err := r.dc.FlushGPU(); err != nil {
		return fmt.Errorf("render: flush frame %d: %w", r.frames, err)
	}
	if r.sink == nil {
		return nil
	}
	if err := r.sink.WriteFrame(r.dc.Image(), dt); err != nil {
		return fmt.Errorf("render: write frame %d: %w", r.frames, err)
	}
	return nil
}

// Image returns the most recent frame.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the most recent frame as PNG.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

// Frames is the number of completed frames.
func (r *Raster) Frames() int { return r.frames }

// Close flushes the sink and releases the drawing context.
func (r *Raster) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var err error
	if r.sink != nil {
		err = r.sink.Close()
	}
	if cerr := r.dc.Close(); err == nil {
		err = cerr
	}
	return err
}
