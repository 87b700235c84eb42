package scene

import (
	"fmt"
	"strings"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// SelfAttention walks one query through the attention pipeline: the query
// meets every key to give a score, softmax turns scores into weights, and
// the weighted values sum into the query's output.
type SelfAttention struct {
	Words []string
	Query string
}

func DefaultSelfAttention() SelfAttention {
	return SelfAttention{
		Words: []string{"He", "sat", "on", "the", "river", "bank"},
		Query: "bank",
	}
}

func (SelfAttention) Name() string { return "self-attention" }

const (
	qBoxW, qBoxH   = 0.8, 0.4
	kBoxW, kBoxH   = 0.4, 0.6
	vBoxW, vBoxH   = 0.7, 0.4
	softmaxW       = 4.0
	softmaxH       = 0.6
	outBoxW        = 1.2
	outBoxH        = 0.6
	pairBuff       = 0.6
	qkBuff         = 0.1
	attnArrowBuff  = 0.1
	fanSpacing     = 0.6
	scoreSize      = 14
	attentionTitle = 36
)

// block is a filled rectangle with dark text on it.
func (c *Composer) block(text string, size float64, col palette.Color, w, h float64, center geom.Point) Chip {
	b := c.Builder
	return Chip{
		Box:   b.Box(center, w, h, 0, boxStyle(col, 0.8)),
		Label: b.Label(text, center, fs(size), palette.Black),
	}
}

func (a SelfAttention) Build(c *Composer) error {
	n := len(a.Words)
	if n == 0 || a.Query == "" {
		return fmt.Errorf("%w: self-attention needs words and a query", ErrEmptyScript)
	}
	b, pal := c.Builder, c.Palette
	meas := b.Options().Measurer
	arrowStyle := primitive.Stroked(pal.Arrow, 0.02)

	_, th := meas.Measure("S", fs(attentionTitle))
	titleY := c.Top() - 0.3 - th/2
	title := b.Label("Self-Attention", geom.Pt(0, titleY), fs(attentionTitle), pal.Text)
	explain := b.LabelBeside("X = ["+strings.Join(a.Words, ", ")+"]",
		geom.Pt(0, titleY-th/2), geom.Pt(0, -1), 0.2, fs(22), pal.Muted)

	c.PlayPar(0, timeline.FadeIn(title))
	c.PlayPar(0, timeline.FadeIn(explain))
	c.Wait(secs(0.5))

	// query/key pairs with their score to the right of the query
	sw := 0.0
	for i := range a.Words {
		w, _ := meas.Measure(fmt.Sprintf("s%d", i+1), fs(scoreSize))
		sw = max(sw, w)
	}
	pairW := qBoxW + qkBuff + sw
	pairH := qBoxH + qkBuff + kBoxH
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = pairW
	}
	var (
		pairs  []timeline.Action
		scores []primitive.Primitive
	)
	for i, center := range row(widths, pairBuff, geom.Pt(0, 1.8)) {
		left, top := center.X-pairW/2, center.Y+pairH/2
		qc := geom.Pt(left+qBoxW/2, top-qBoxH/2)
		kc := geom.Pt(qc.X, qc.Y-qBoxH/2-qkBuff-kBoxH/2)
		q := c.block("q_"+a.Query, 10, pal.Query, qBoxW, qBoxH, qc)
		k := c.block("k_"+a.Words[i], 9, pal.Key, kBoxW, kBoxH, kc)
		pairs = append(pairs, timeline.FadeIn(parts(q.Parts(), k.Parts())...))
		scores = append(scores, b.LabelBeside(fmt.Sprintf("s%d", i+1), geom.Pt(left+qBoxW, qc.Y), geom.Pt(1, 0), qkBuff, fs(scoreSize), pal.Text))
	}
	c.PlayLagged(0, 0.1, pairs...)
	c.Wait(secs(0.3))
	c.PlayLagged(0, 0.1, fadeEach(scores)...)
	c.Wait(secs(0.5))

	sm := c.block("Softmax", 20, pal.Softmax, softmaxW, softmaxH, geom.Pt(0, 0.3))
	spacing := fanSpacing
	if n > 1 {
		spacing = min(fanSpacing, (softmaxW-0.4)/float64(n-1))
	}
	fan := func(i int) float64 { return (float64(i) - float64(n-1)/2) * spacing }

	toSoftmax := []timeline.Action{timeline.FadeIn(sm.Parts()...)}
	for i, s := range scores {
		lo, _ := s.Bounds()
		from := geom.Pt(s.Center().X, lo.Y-attnArrowBuff)
		to := geom.Pt(fan(i), 0.3+softmaxH/2+attnArrowBuff)
		toSoftmax = append(toSoftmax, timeline.Create(b.ArrowBetween(from, to, arrowStyle)))
	}
	c.PlayLagged(0, 0.05, toSoftmax...)
	c.Wait(secs(0.5))

	wWidths := make([]float64, n)
	for i := range wWidths {
		wWidths[i], _ = meas.Measure(fmt.Sprintf("w%d", i+1), fs(scoreSize))
	}
	var (
		weights   []primitive.Primitive
		toWeights []timeline.Action
	)
	for i, center := range row(wWidths, 0.7, geom.Pt(0, -0.8)) {
		w := b.Label(fmt.Sprintf("w%d", i+1), center, fs(scoreSize), pal.Text)
		weights = append(weights, w)
		_, hi := w.Bounds()
		from := geom.Pt(fan(i), 0.3-softmaxH/2-attnArrowBuff)
		toWeights = append(toWeights,
			timeline.Create(b.ArrowBetween(from, geom.Pt(center.X, hi.Y+attnArrowBuff), arrowStyle)),
			timeline.FadeIn(w))
	}
	c.PlayLagged(0, 0.05, toWeights...)
	c.Wait(secs(0.5))

	var toValues []timeline.Action
	valuesLo := 0.0
	for i, w := range weights {
		lo, _ := w.Bounds()
		vc := geom.Pt(w.Center().X, lo.Y-0.3-vBoxH/2)
		v := c.block("v_"+a.Words[i], 9, pal.Value, vBoxW, vBoxH, vc)
		valuesLo = vc.Y - vBoxH/2
		toValues = append(toValues,
			timeline.Create(b.ArrowBetween(geom.Pt(vc.X, lo.Y-attnArrowBuff), geom.Pt(vc.X, vc.Y+vBoxH/2+attnArrowBuff), arrowStyle)),
			timeline.FadeIn(v.Parts()...))
	}
	c.PlayLagged(0, 0.05, toValues...)
	c.Wait(secs(0.5))

	outY := -2.5
	out := c.block("y_"+a.Query, 14, pal.Output, outBoxW, outBoxH, geom.Pt(0, outY))
	toOut := b.ArrowBetween(geom.Pt(0, valuesLo-0.15), geom.Pt(0, outY+outBoxH/2+0.15), arrowStyle)
	c.PlayPar(0, timeline.Create(toOut), timeline.FadeIn(out.Parts()...))
	c.Wait(secs(0.5))

	formula := fmt.Sprintf("y_%s = Σᵢ wᵢ · vᵢ", a.Query)
	fw, fh := meas.Measure(formula, fs(26))
	const surround = 0.15
	fc := geom.Pt(0, c.Bottom()+0.2+surround+fh/2)
	formulaLab := b.Label(formula, fc, fs(26), pal.Text)
	frame := b.Box(fc, fw+2*surround, fh+2*surround, 0.1, primitive.Stroked(pal.Base, 0.03))
	c.PlayPar(0, timeline.FadeIn(formulaLab), timeline.Create(frame))
	c.Wait(secs(2))
	return c.Err()
}

func fadeEach(ps []primitive.Primitive) []timeline.Action {
	out := make([]timeline.Action, len(ps))
	for i, p := range ps {
		out[i] = timeline.FadeIn(p)
	}
	return out
}
