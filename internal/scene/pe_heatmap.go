package scene

import (
	"fmt"
	"time"

	"github.com/san-kum/attnviz/internal/coord"
	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/heatmap"
	"github.com/san-kum/attnviz/internal/posenc"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// PEHeatmap plots the configured encoding dimensions as waves over position
// while the encoding matrix fills in as a heatmap beside them. Every wave
// reveals all heatmap columns up to its own dimension, so the heatmap grows
// without gaps; the columns no wave reached are filled in chunks at the end.
type PEHeatmap struct{}

func (PEHeatmap) Name() string { return "pe-heatmap" }

const (
	waveW      = 5.0
	waveH      = 3.0
	waveYRange = 1.2
	edgeBuff   = 0.5
	liftY      = 0.5
	pairSize   = 32
	captionPE  = 28
	axisLabel  = 24
)

// pairText names a sin/cos pair and its angular frequency.
func pairText(pair, dModel int, base float64) string {
	return fmt.Sprintf("%s  %s  ω=%.3g", posenc.Label(2*pair), posenc.Label(2*pair+1),
		posenc.Frequency(2*pair, dModel, base))
}

func (PEHeatmap) Build(c *Composer) error {
	pe := c.Config.PositionalEncoding
	if pe.SeqLen < 2 {
		return fmt.Errorf("%w: need at least two positions, got %d", ErrEmptyScript, pe.SeqLen)
	}
	if len(pe.Dims) == 0 {
		return fmt.Errorf("%w: no wave dimensions", ErrEmptyScript)
	}
	m, err := posenc.Generate(pe.SeqLen, pe.DModel, pe.Base)
	if err != nil {
		return err
	}

	b, pal := c.Builder, c.Palette
	meas := b.Options().Measurer

	waveCenter := geom.Pt(c.Left()+edgeBuff+waveW/2, liftY)
	wm, err := coord.New(
		coord.AxisSpec{Min: 0, Max: float64(pe.SeqLen - 1), Length: waveW},
		coord.AxisSpec{Min: -waveYRange, Max: waveYRange, Length: waveH},
		coord.WithOrigin(waveCenter),
	)
	if err != nil {
		return err
	}
	axes := c.Axes(wm, pal.Muted, 0.02)
	xLab := b.LabelBeside("pos", wm.ToDevice(float64(pe.SeqLen-1), 0), geom.Pt(1, -1), 0.1, fs(axisLabel), pal.Muted)
	yLab := b.LabelBeside("value", wm.ToDevice(0, waveYRange), geom.Pt(1, 1), 0.1, fs(axisLabel), pal.Muted)

	xs := make([]float64, pe.SeqLen)
	for i := range xs {
		xs[i] = float64(i)
	}
	waves := make([]primitive.Primitive, len(pe.Dims))
	for i, d := range pe.Dims {
		waves[i], err = b.Wave(wm, xs, m.Column(d), primitive.Stroked(pal.Wave(i), 0.03))
		if err != nil {
			return fmt.Errorf("wave %s: %w", posenc.Label(d), err)
		}
	}

	cell := c.Config.Layout.CellSize
	gridW := float64(pe.DModel) * cell
	grid, err := heatmap.Build(b, m, cell, heatmap.WithCenter(geom.Pt(c.Right()-edgeBuff-gridW/2, liftY)))
	if err != nil {
		return err
	}

	_, ph := meas.Measure("sin", fs(pairSize))
	pairAt := geom.Pt(waveCenter.X, waveCenter.Y-waveH/2-0.4-ph/2)
	pair := b.Label(pairText(0, pe.DModel, pe.Base), pairAt, fs(pairSize), pal.Text)

	_, ch := meas.Measure("M", fs(captionPE))
	captionAt := geom.Pt(0, c.Bottom()+edgeBuff+ch/2)
	caption := b.Label("lower dims → high freq", captionAt, fs(captionPE), pal.Text)

	c.PlayPar(0,
		timeline.Create(axes...),
		timeline.FadeIn(xLab, yLab, pair, caption),
	)
	c.Wait(secs(0.2))

	late := len(pe.Dims)
	if len(pe.Dims) >= 3 {
		late = len(pe.Dims) * 2 / 3
	}
	for i, d := range pe.Dims {
		if i == late || (i >= 8 && i < late && i%4 == 0) {
			c.Wait(secs(0.3))
		}

		acts := []timeline.Action{timeline.Create(waves[i])}
		cells, err := grid.RevealThrough(d)
		if err != nil {
			return err
		}
		if len(cells) > 0 {
			acts = append(acts, timeline.FadeIn(cells...))
		}
		if posenc.IsSin(d) {
			next := b.Label(pairText(posenc.PairIndex(d), pe.DModel, pe.Base), pairAt, fs(pairSize), pal.Text)
			acts = append(acts, timeline.Transform(pair, next))
			pair = next
		}

		var run time.Duration
		if i == late {
			low := b.Label("higher dims → low freq", captionAt, fs(captionPE), pal.Text)
			acts = append(acts, timeline.FadeOut(caption), timeline.FadeIn(low))
			caption = low
			run = secs(1.2)
		}
		c.PlayPar(run, acts...)
	}

	chunk := max(pe.ChunkSize, 1)
	for _, cols := range grid.Remaining(chunk) {
		cells, err := grid.Reveal(cols)
		if err != nil {
			return err
		}
		c.PlayPar(secs(0.15), timeline.FadeIn(cells...))
	}
	c.Wait(secs(1.5))
	return c.Err()
}
