package scene

import (
	"github.com/san-kum/attnviz/internal/coord"
	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// Analogy shows queen - woman + man landing on king in a 2D embedding
// space, drawing each term tip to tail.
type Analogy struct{}

func (Analogy) Name() string { return "analogy" }

var (
	queenColor = palette.MustHex("#e91e63")
	womanColor = palette.MustHex("#9c27b0")
	manColor   = palette.MustHex("#2196f3")
	kingColor  = palette.MustHex("#ff9800")
)

var (
	queenVec = geom.Vec(3, 4)
	womanVec = geom.Vec(1, 3)
	manVec   = geom.Vec(2, 1)
	kingVec  = geom.Vec(4, 2)
)

const analogyLabel = 24

func (Analogy) Build(c *Composer) error {
	m, err := coord.New(
		coord.AxisSpec{Min: -1, Max: 5, Length: 7},
		coord.AxisSpec{Min: -1, Max: 5, Length: 7},
	)
	if err != nil {
		return err
	}
	b := c.Builder
	size := fs(analogyLabel)
	arrow := func(from, to geom.Vector, col palette.Color) primitive.Primitive {
		return b.Arrow(m, from, to, primitive.Stroked(col, 0.04))
	}
	mid := func(from, to geom.Vector) geom.Point {
		return m.ToDeviceVec(from).Lerp(m.ToDeviceVec(to), 0.5)
	}

	afterWoman := queenVec.Sub(womanVec)
	result := afterWoman.Add(manVec)
	c.log.Debug("analogy", "result", result, "king", kingVec, "distance", result.Sub(kingVec).Len())

	queen := arrow(geom.Vector{}, queenVec, queenColor)
	queenLab := b.LabelBeside("queen", m.ToDeviceVec(queenVec), geom.Pt(1, 1), 0.1, size, queenColor)

	woman := arrow(queenVec, afterWoman, womanColor)
	womanLab := b.LabelBeside("-woman", mid(queenVec, afterWoman), geom.Pt(-1, 0), 0.2, size, womanColor)

	man := arrow(afterWoman, result, manColor)
	manLab := b.LabelBeside("+man", mid(afterWoman, result), geom.Pt(0, -1), 0.2, size, manColor)

	king := arrow(geom.Vector{}, kingVec, kingColor)
	kingLab := b.LabelBeside("king", m.ToDeviceVec(kingVec), geom.Pt(1, 0), 0.15, size, kingColor)
	approx := b.LabelBeside("≈", m.ToDeviceVec(result), geom.Pt(-1, 1), 0.15, fs(36), c.Palette.Text)

	formula := "queen - woman + man ≈ king"
	_, fh := b.Options().Measurer.Measure(formula, fs(32))
	formulaLab := b.Label(formula, geom.Pt(0, c.Bottom()+0.5+fh/2), fs(32), c.Palette.Text)

	c.Add(c.Axes(m, c.Palette.Muted, 0.02)...)

	c.PlayPar(0, timeline.Create(queen), timeline.FadeIn(queenLab))
	c.Wait(secs(0.5))
	c.PlayPar(0, timeline.Create(woman), timeline.FadeIn(womanLab))
	c.Wait(secs(0.5))
	c.PlayPar(0, timeline.Create(man), timeline.FadeIn(manLab))
	c.Wait(secs(0.5))
	c.PlayPar(0, timeline.Create(king), timeline.FadeIn(kingLab, approx))
	c.Wait(secs(0.5))
	c.PlayPar(0, timeline.FadeIn(formulaLab))
	c.Wait(secs(1.5))
	return c.Err()
}
