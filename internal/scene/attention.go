package scene

import (
	"fmt"

	"github.com/san-kum/attnviz/internal/config"
	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// Attention walks a token vector through the weighted updates of its context
// tokens, once per configured example. Every example but the last is cleared
// before the next begins.
type Attention struct{}

func (Attention) Name() string { return "attention" }

const (
	panelWidth    = 4.6
	panelEdgeBuff = 0.25
	chipBuff      = 0.35
	chipDim       = 0.25
	chipSettled   = 0.6
	chipPulse     = 1.05
	trailDash     = 0.15
	arrowWidth    = 0.06
	sentenceSize  = 32
)

func (a Attention) Build(c *Composer) error {
	examples := c.Config.Attention
	if len(examples) == 0 {
		return fmt.Errorf("%w: no attention examples", ErrEmptyScript)
	}

	c.Add(c.Plane(c.Mapper)...)
	for i, ex := range examples {
		g, err := a.shift(c, ex)
		if err != nil {
			return fmt.Errorf("example %d: %w", i, err)
		}
		if i < len(examples)-1 {
			c.Wait(secs(0.8))
			c.PlayPar(secs(0.7), timeline.FadeOut(g.parts()...))
			continue
		}

		c.Wait(secs(1.2))
		restore := make([]timeline.Action, 0, 2*len(g.chips))
		for _, ch := range g.chips {
			restore = append(restore, timeline.FadeTo(ch.Box, 1), timeline.FadeTo(ch.Label, 1))
		}
		c.PlayPar(0, restore...)
		c.Wait(secs(1.5))
	}
	return c.Err()
}

// shifted holds what one example left on stage, by current ID.
type shifted struct {
	sentence           *primitive.Primitive
	panel              Panel
	baseArrow, baseLab primitive.Primitive
	cur, curLab        primitive.Primitive
	chips              []Chip
	trail              []primitive.Primitive
}

func (s shifted) parts() []primitive.Primitive {
	out := parts(
		s.panel.Parts(),
		[]primitive.Primitive{s.baseArrow, s.baseLab, s.cur, s.curLab},
		s.trail,
	)
	for _, ch := range s.chips {
		out = append(out, ch.Parts()...)
	}
	if s.sentence != nil {
		out = append(out, *s.sentence)
	}
	return out
}

func (c *Composer) vecArrow(v geom.Vector, color palette.Color, label string) (arrow, lab primitive.Primitive) {
	arrow = c.Builder.Arrow(c.Mapper, geom.Vector{}, v, primitive.Stroked(color, arrowWidth))
	return arrow, c.Builder.ArrowLabel(arrow, label, color)
}

func (a Attention) shift(c *Composer, ex config.AttentionExample) (shifted, error) {
	updates, err := ex.AttentionUpdates()
	if err != nil {
		return shifted{}, err
	}
	path, err := geom.Apply(ex.BaseVector(), updates)
	if err != nil {
		return shifted{}, err
	}

	b := c.Builder
	pal := c.Palette
	token := ex.Token
	if token == "" {
		token = "token"
	}
	primed := token + "'"

	var g shifted
	g.baseArrow, g.baseLab = c.vecArrow(path[0], pal.Base, token)
	g.cur, g.curLab = c.vecArrow(path[0], pal.Current, primed)

	texts := make([]string, len(updates))
	colors := make([]palette.Color, len(updates))
	for i, u := range updates {
		texts[i], colors[i] = u.Token, u.Color
	}
	chips := c.ChipRow(texts, colors, chipBuff, geom.Pt(ex.Anchor[0], ex.Anchor[1]))
	for i := range chips {
		chips[i] = c.Restyle(chips[i], chipDim, 1)
	}

	intro := []string{"start with: " + token, "add tokens → " + token + " shifts"}
	g.panel = c.Panel(ex.Title, intro, panelWidth, geom.Point{})
	center := geom.Pt(
		c.Right()-panelEdgeBuff-panelWidth/2,
		c.Bottom()+panelEdgeBuff+g.panel.Height()/2,
	)
	g.panel = c.Panel(ex.Title, intro, panelWidth, center)

	if ex.Sentence != "" {
		_, h := b.Options().Measurer.Measure(ex.Sentence, fs(sentenceSize))
		s := b.Label(ex.Sentence, geom.Pt(0, c.Top()-0.5-h/2-0.35), fs(sentenceSize), pal.Text)
		g.sentence = &s
		c.PlayPar(0, timeline.FadeIn(s))
	}
	c.PlayPar(0, timeline.FadeIn(g.panel.Parts()...))
	c.PlayPar(0, timeline.Create(g.baseArrow), timeline.FadeIn(g.baseLab))
	c.PlayPar(0, timeline.Create(g.cur), timeline.FadeIn(g.curLab))

	var chipParts []primitive.Primitive
	for _, ch := range chips {
		chipParts = append(chipParts, ch.Parts()...)
	}
	c.PlayPar(0, timeline.FadeIn(chipParts...))

	for i, u := range updates {
		lit := c.Restyle(chips[i], 1, chipPulse)
		c.PlayPar(secs(0.3), Morph(chips[i].Parts(), lit.Parts())...)
		settled := c.Restyle(lit, 1, 1/chipPulse)
		c.PlayPar(secs(0.2), Morph(lit.Parts(), settled.Parts())...)
		chips[i] = settled

		lines := []string{
			"start with: " + token,
			fmt.Sprintf("add: %s  (w=%.2f)", u.Token, u.Weight),
			"→ update " + primed,
		}
		next := c.Panel(ex.Title, lines, panelWidth, center)
		c.PlayPar(secs(0.35), Morph(g.panel.Parts(), next.Parts())...)
		g.panel = next

		from := c.Mapper.ToDeviceVec(path[i])
		to := c.Mapper.ToDeviceVec(path[i+1])
		dot := b.Dot(from, 0.06, pal.Current)
		trail := b.DashedLine(from, to, trailDash, primitive.Stroked(u.Color, 0.03))
		c.PlayPar(secs(0.35), timeline.FadeIn(dot), timeline.Create(trail))

		arrow, lab := c.vecArrow(path[i+1], pal.Current, primed)
		c.PlayPar(secs(0.7), timeline.Transform(g.cur, arrow), timeline.Transform(g.curLab, lab))
		g.cur, g.curLab = arrow, lab
		g.trail = append(g.trail, dot, trail)

		c.PlayPar(secs(0.25), timeline.FadeTo(settled.Box, chipSettled), timeline.FadeTo(settled.Label, chipSettled))
	}

	final := c.Panel(ex.Title, []string{
		primed + " = " + token + " + Σ (wᵢ · tokenᵢ)",
		"context-specific meaning",
	}, panelWidth, center)
	c.PlayPar(secs(0.5), Morph(g.panel.Parts(), final.Parts())...)
	g.panel = final
	g.chips = chips
	return g, nil
}
