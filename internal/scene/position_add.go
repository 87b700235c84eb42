package scene

import (
	"fmt"
	"strconv"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// PositionAdd adds a position vector to every word embedding and shows the
// sums. Each position vector repeats its index in every dimension.
type PositionAdd struct {
	Words []string

	// Values is the embedding shown for every word; the first few entries
	// are printed.
	Values []float64
}

func DefaultPositionAdd() PositionAdd {
	return PositionAdd{
		Words:  []string{"I", "love", "transformers"},
		Values: []float64{0.3, -0.7, 0.2},
	}
}

func (PositionAdd) Name() string { return "position-add" }

const (
	rowBuff    = 0.5
	leftShift  = 2.5
	signSize   = 40
	rowLabel   = 20
	signBuff   = 0.2
	equalsBuff = 0.4
)

func (e PositionAdd) matrices() (embed, pos, sum *posenc.Matrix, err error) {
	ev := make([][]float64, len(e.Words))
	pv := make([][]float64, len(e.Words))
	for i := range e.Words {
		ev[i] = append([]float64(nil), e.Values...)
		pv[i] = make([]float64, len(e.Values))
		for j := range pv[i] {
			pv[i][j] = float64(i)
		}
	}
	if embed, err = posenc.NewMatrix(ev); err != nil {
		return nil, nil, nil, err
	}
	if pos, err = posenc.NewMatrix(pv); err != nil {
		return nil, nil, nil, err
	}
	if sum, err = posenc.Add(embed, pos); err != nil {
		return nil, nil, nil, err
	}
	return embed, pos, sum, nil
}

func (e PositionAdd) Build(c *Composer) error {
	if len(e.Words) == 0 || len(e.Values) == 0 {
		return fmt.Errorf("%w: position add needs words and values", ErrEmptyScript)
	}
	embed, pos, sum, err := e.matrices()
	if err != nil {
		return err
	}
	b, pal := c.Builder, c.Palette
	meas := b.Options().Measurer

	widths := make([]float64, len(e.Words))
	for i := range widths {
		widths[i] = valueBoxW
	}
	_, signH := meas.Measure("+", fs(signSize))
	rowY := signH/2 + signBuff + valueBoxH/2

	boxes := func(m *posenc.Matrix, y, x float64, captions bool, format func(float64) string, col palette.Color) []primitive.Primitive {
		var out []primitive.Primitive
		for i, center := range row(widths, rowBuff, geom.Pt(x, y)) {
			vals := make([]string, m.Cols())
			for j, v := range m.Row(i) {
				vals[j] = format(v)
			}
			caption := ""
			if captions {
				caption = strconv.Quote(e.Words[i])
			}
			out = append(out, c.ValueBox(vals, col, caption, center).Parts()...)
		}
		return out
	}
	tenth := func(v float64) string { return fmt.Sprintf("%.1f", v) }
	whole := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	rowW := float64(len(widths))*valueBoxW + float64(len(widths)-1)*rowBuff
	leftX := -leftShift
	embedRow := boxes(embed, rowY, leftX, true, tenth, pal.Vector)
	posRow := boxes(pos, -rowY, leftX, false, whole, pal.Position)

	groupLeft := leftX - rowW/2
	embedLab := b.LabelBeside("Word Embeddings", geom.Pt(groupLeft, rowY), geom.Pt(-1, 0), 0.3, fs(rowLabel), pal.Vector)
	posLab := b.LabelBeside("Position Vectors", geom.Pt(groupLeft, -rowY), geom.Pt(-1, 0), 0.3, fs(rowLabel), pal.Position)
	plus := b.Label("+", geom.Pt(leftX, 0), fs(signSize), pal.Text)

	equals := b.LabelBeside("=", geom.Pt(leftX+rowW/2, 0), geom.Pt(1, 0), equalsBuff, fs(signSize), pal.Text)
	_, eqHi := equals.Bounds()
	resultX := eqHi.X + equalsBuff + rowW/2
	resultRow := boxes(sum, 0, resultX, true, tenth, pal.Result)
	resultLab := b.LabelBeside("Position-Encoded Word Vectors", geom.Pt(resultX, -valueBoxH/2), geom.Pt(0, -1), 0.3, fs(rowLabel), pal.Result)

	c.PlayPar(secs(0.6), timeline.FadeIn(embedRow...), timeline.FadeIn(embedLab))
	c.Wait(secs(0.3))
	c.PlayPar(secs(0.3), timeline.FadeIn(plus))
	c.PlayPar(secs(0.6), timeline.FadeIn(posRow...), timeline.FadeIn(posLab))
	c.Wait(secs(0.3))
	c.PlayPar(secs(0.3), timeline.FadeIn(equals))
	c.PlayPar(secs(0.6), timeline.FadeIn(resultRow...), timeline.FadeIn(resultLab))
	c.Wait(secs(1.5))
	return c.Err()
}
