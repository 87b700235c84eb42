package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// PEVectorAdd adds a positional encoding to one word's embedding, slot by
// slot. Each sin/cos pair of the encoding has its own colour and a small
// waveform that oscillates faster for later pairs.
type PEVectorAdd struct {
	Word   string
	DModel int
}

func DefaultPEVectorAdd() PEVectorAdd {
	return PEVectorAdd{Word: "love", DModel: 8}
}

func (PEVectorAdd) Name() string { return "pe-vector-add" }

const (
	slotSize    = 0.75
	slotBuff    = 0.12
	slotLabel   = 26
	vecCaption  = 26
	captionGap  = 0.3
	waveSamples = 32
)

// slots lays n square slots out in a row centered on (0, y).
func slots(n int, size, y float64) []geom.Point {
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = size
	}
	return row(widths, slotBuff, geom.Pt(0, y))
}

// miniWave traces (pair+1) periods of sin or cos across a w-by-w square,
// with a faint baseline.
func (c *Composer) miniWave(center geom.Point, w float64, pair int, sin bool, col palette.Color) []primitive.Primitive {
	b := c.Builder
	f := float64(pair + 1)
	pts := make([]geom.Point, waveSamples)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / float64(waveSamples-1)
		v := math.Cos(f * t)
		if sin {
			v = math.Sin(f * t)
		}
		pts[i] = geom.Pt(center.X-w/2+w*t/(2*math.Pi), center.Y+v/1.2*w/2)
	}
	wave, _ := b.Path(pts, primitive.Stroked(col, 0.025))
	axis, _ := b.Path([]geom.Point{geom.Pt(center.X-w/2, center.Y), geom.Pt(center.X+w/2, center.Y)}, primitive.Stroked(col, 0.0075))
	return []primitive.Primitive{axis, wave}
}

func (a PEVectorAdd) Build(c *Composer) error {
	if a.DModel <= 0 {
		return fmt.Errorf("%w: d_model %d", ErrEmptyScript, a.DModel)
	}
	b, pal := c.Builder, c.Palette
	meas := b.Options().Measurer
	n := a.DModel
	size := min(slotSize, (c.Right()-c.Left()-1.5-float64(n-1)*slotBuff)/float64(n))
	pairColor := func(d int) palette.Color { return pal.Wave(posenc.PairIndex(d)) }

	_, lh := meas.Measure("E", fs(vecCaption))
	groupH := lh + captionGap + size

	embY := 2.8 - groupH/2 + size/2
	peY := embY - size/2 - 0.9 - lh - captionGap - size/2
	outY := peY - size/2 - 1.4 - lh - captionGap - size/2
	caption := func(text string, y float64) primitive.Primitive {
		return b.LabelBeside(text, geom.Pt(0, y+size/2), geom.Pt(0, 1), captionGap, fs(vecCaption), pal.Text)
	}

	var embBoxes, embInner []primitive.Primitive
	for i, ct := range slots(n, size, embY) {
		embBoxes = append(embBoxes, b.Box(ct, size, size, 0, primitive.Style{
			Stroke: pal.Text, Fill: pal.Muted, StrokeWidth: 0.02, FillOpacity: 0.15, Opacity: 1,
		}))
		embInner = append(embInner, b.Label(fmt.Sprintf("e_%d", i), ct, fs(slotLabel), pal.Text))
	}
	embCap := caption(fmt.Sprintf("Embedding for %q", a.Word), embY)
	c.PlayPar(0,
		timeline.FadeIn(embCap),
		timeline.FadeIn(embBoxes...),
		timeline.FadeIn(embInner...),
	)

	var peBoxes, peInner []primitive.Primitive
	for d, ct := range slots(n, size, peY) {
		col := pairColor(d)
		peBoxes = append(peBoxes, b.Box(ct, size, size, 0, primitive.Style{
			Stroke: col, Fill: col, StrokeWidth: 0.02, FillOpacity: 0.18, Opacity: 1,
		}))
		fn := "cos"
		if posenc.IsSin(d) {
			fn = "sin"
		}
		peInner = append(peInner, c.miniWave(geom.Pt(ct.X, ct.Y-0.07), size*0.5, posenc.PairIndex(d), posenc.IsSin(d), col)...)
		peInner = append(peInner, b.Label(fn, geom.Pt(ct.X, ct.Y+size/2-0.15), fs(18), col))
	}
	peCap := caption("Positional Encoding (different frequencies)", peY)
	c.PlayPar(0,
		timeline.FadeIn(peCap),
		timeline.FadeIn(peBoxes...),
		timeline.FadeIn(peInner...),
	)

	left := -(float64(n)*size + float64(n-1)*slotBuff) / 2
	plus := b.LabelBeside("+", geom.Pt(left, (embY+peY)/2), geom.Pt(-1, 0), 0.3, fs(64), pal.Text)
	c.PlayPar(0, timeline.FadeIn(plus))

	var outBoxes, outInner []primitive.Primitive
	for d, ct := range slots(n, size, outY) {
		col := pairColor(d)
		outBoxes = append(outBoxes, b.Box(ct, size, size, 0, primitive.Style{
			Stroke: col, Fill: pal.Muted, StrokeWidth: 0.02, FillOpacity: 0.15, Opacity: 1,
		}))
		outInner = append(outInner, b.Label(fmt.Sprintf("e_%d+", d), geom.Pt(ct.X-0.2*size/slotSize, ct.Y), fs(20), pal.Text))
		outInner = append(outInner, c.miniWave(geom.Pt(ct.X+0.15*size/slotSize, ct.Y), size*0.35, posenc.PairIndex(d), posenc.IsSin(d), col)...)
	}
	outCap := caption("Positional-aware embedding", outY)
	_, capHi := outCap.Bounds()
	link := b.ArrowBetween(geom.Pt(0, peY-size/2-0.1), geom.Pt(0, capHi.Y+0.1), primitive.Stroked(pal.Text, 0.03))

	c.PlayPar(0, timeline.Create(link))
	c.PlayPar(0,
		timeline.FadeIn(outCap),
		timeline.FadeIn(outBoxes...),
		timeline.FadeIn(outInner...),
	)
	c.Wait(secs(2.5))
	return c.Err()
}
