package scene

import (
	"fmt"
	"strconv"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// EmbeddingLookup passes token IDs through the embedding table and shows
// the vector each one selects.
type EmbeddingLookup struct {
	IDs   []int
	Words []string

	// Values holds the leading components printed for each word's vector.
	Values [][]float64
}

func DefaultEmbeddingLookup() EmbeddingLookup {
	return EmbeddingLookup{
		IDs:    []int{42, 891, 2048},
		Words:  []string{"I", "love", "transformers"},
		Values: [][]float64{{0.2, -0.5}, {0.7, 0.1}, {-0.3, 0.9}},
	}
}

func (EmbeddingLookup) Name() string { return "embedding-lookup" }

const (
	lookupW, lookupH = 4.5, 1.0
	lookupBuff       = 0.8
	vectorsBuff      = 0.7
)

func (e EmbeddingLookup) Build(c *Composer) error {
	if len(e.IDs) == 0 || len(e.IDs) != len(e.Words) || len(e.Values) != len(e.Words) {
		return fmt.Errorf("%w: %d ids, %d words, %d vectors", ErrEmptyScript, len(e.IDs), len(e.Words), len(e.Values))
	}
	b, pal := c.Builder, c.Palette
	arrowStyle := primitive.Stroked(pal.Arrow, 0.02)

	arrayY := c.Top() - 0.6 - idChipH/2
	array := c.idArray(e.IDs, arrayY, pal.Token)
	arrayLab := b.LabelBeside("Token IDs", geom.Pt(array.left, arrayY), geom.Pt(-1, 0), 0.3, fs(20), pal.Muted)
	c.Add(append(array.parts, arrayLab)...)
	c.Wait(secs(0.3))

	tableY := array.bottom - lookupBuff - lookupH/2
	lookup := Chip{
		Box:   b.Box(geom.Pt(0, tableY), lookupW, lookupH, 0.15, boxStyle(pal.Embed, 0.2)),
		Label: b.Label("Embedding Lookup Table", geom.Pt(0, tableY), fs(22), pal.Embed),
	}
	toTable := b.ArrowBetween(geom.Pt(0, array.bottom-0.1), geom.Pt(0, tableY+lookupH/2+0.1), arrowStyle)
	c.PlayPar(secs(0.6), timeline.Create(toTable), timeline.FadeIn(lookup.Parts()...))
	c.Wait(secs(0.5))

	widths := make([]float64, len(e.Words))
	for i := range widths {
		widths[i] = valueBoxW
	}
	vecY := tableY - lookupH/2 - vectorsBuff - valueBoxH/2
	var vectors []timeline.Action
	lowest := vecY - valueBoxH/2
	for i, center := range row(widths, 0.5, geom.Pt(0, vecY)) {
		vals := make([]string, len(e.Values[i]))
		for j, v := range e.Values[i] {
			vals[j] = strconv.FormatFloat(v, 'f', 1, 64)
		}
		vb := c.ValueBox(vals, pal.Vector, "", center)
		word := b.LabelBeside(strconv.Quote(e.Words[i]), geom.Pt(center.X, vecY-valueBoxH/2), geom.Pt(0, -1), 0.15, fs(16), pal.Muted)
		lo, _ := word.Bounds()
		lowest = min(lowest, lo.Y)
		vectors = append(vectors, timeline.FadeIn(append(vb.Parts(), word)...))
	}
	toVectors := b.ArrowBetween(geom.Pt(0, tableY-lookupH/2-0.1), geom.Pt(0, vecY+valueBoxH/2+0.1), arrowStyle)
	dims := b.LabelBeside("d-dimensional vectors", geom.Pt(0, lowest), geom.Pt(0, -1), 0.3, fs(18), pal.Muted)

	c.PlayPar(secs(0.4), timeline.Create(toVectors))
	c.PlayPar(secs(0.8), vectors...)
	c.PlayPar(secs(0.4), timeline.FadeIn(dims))
	c.Wait(secs(1.5))
	return c.Err()
}
