package scene

import (
	"fmt"
	"strconv"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

// Tokenization follows a sentence through a vocabulary lookup into an array
// of token IDs and on into the model input.
type Tokenization struct {
	Sentence string
	Words    []string
	IDs      []int
}

func DefaultTokenization() Tokenization {
	return Tokenization{
		Sentence: "I love transformers",
		Words:    []string{"I", "love", "transformers"},
		IDs:      []int{42, 891, 2048},
	}
}

func (Tokenization) Name() string { return "tokenization" }

// table is a bordered grid of text cells.
type table struct {
	parts       []primitive.Primitive
	top, bottom float64
}

func (c *Composer) table(rows [][]string, size, padX, padY float64, center geom.Point, col palette.Color) table {
	b := c.Builder
	meas := b.Options().Measurer
	ncols := len(rows[0])

	widths := make([]float64, ncols)
	var cellH float64
	for _, r := range rows {
		for j, s := range r {
			w, h := meas.Measure(s, size)
			widths[j] = max(widths[j], w+2*padX)
			cellH = max(cellH, h+2*padY)
		}
	}
	var total float64
	for _, w := range widths {
		total += w
	}
	height := cellH * float64(len(rows))
	left, top := center.X-total/2, center.Y+height/2

	line := primitive.Stroked(col, 0.01)
	t := table{top: top, bottom: top - height}
	t.parts = append(t.parts, b.Box(center, total, height, 0, line))
	for i := 1; i < len(rows); i++ {
		y := top - float64(i)*cellH
		p, _ := b.Path([]geom.Point{geom.Pt(left, y), geom.Pt(left+total, y)}, line)
		t.parts = append(t.parts, p)
	}
	x := left
	for j := 0; j < ncols; j++ {
		if j > 0 {
			p, _ := b.Path([]geom.Point{geom.Pt(x, top), geom.Pt(x, top-height)}, line)
			t.parts = append(t.parts, p)
		}
		for i, r := range rows {
			at := geom.Pt(x+widths[j]/2, top-(float64(i)+0.5)*cellH)
			t.parts = append(t.parts, b.Label(r[j], at, size, c.Palette.Text))
		}
		x += widths[j]
	}
	return t
}

// idChip is a fixed-size token box around its ID.
func (c *Composer) idChip(text string, col palette.Color, center geom.Point) Chip {
	b := c.Builder
	return Chip{
		Box:   b.Box(center, idChipW, idChipH, 0.12, boxStyle(col, 0.15)),
		Label: b.Label(text, center, fs(28), col),
	}
}

const (
	idChipW, idChipH = 0.9, 0.7
	idChipBuff       = 0.15
)

// idArray is a bracketed row of token ID chips.
type idArray struct {
	parts        []primitive.Primitive
	left, bottom float64
}

// idArray lays ids out as chips centered at (0, y) with brackets on both
// sides; left is the outer edge of the opening bracket.
func (c *Composer) idArray(ids []int, y float64, col palette.Color) idArray {
	b := c.Builder
	widths := make([]float64, len(ids))
	for i := range widths {
		widths[i] = idChipW
	}
	centers := row(widths, idChipBuff, geom.Pt(0, y))
	var a idArray
	for i, id := range ids {
		a.parts = append(a.parts, c.idChip(strconv.Itoa(id), col, centers[i]).Parts()...)
	}
	leftEdge := centers[0].X - idChipW/2
	rightEdge := centers[len(centers)-1].X + idChipW/2
	open := b.LabelBeside("[", geom.Pt(leftEdge, y), geom.Pt(-1, 0), 0.1, fs(40), col)
	closing := b.LabelBeside("]", geom.Pt(rightEdge, y), geom.Pt(1, 0), 0.1, fs(40), col)
	a.parts = append(a.parts, open, closing)
	lo, _ := open.Bounds()
	a.left = lo.X
	a.bottom = min(lo.Y, y-idChipH/2)
	return a
}

func (t Tokenization) Build(c *Composer) error {
	if len(t.Words) == 0 || len(t.Words) != len(t.IDs) {
		return fmt.Errorf("%w: %d words for %d token ids", ErrEmptyScript, len(t.Words), len(t.IDs))
	}
	b, pal := c.Builder, c.Palette
	meas := b.Options().Measurer
	arrowStyle := primitive.Stroked(pal.Arrow, 0.02)

	_, ih := meas.Measure("M", fs(20))
	input := b.Label("Input Sentence", geom.Pt(0, c.Top()-0.4-ih/2), fs(20), pal.Muted)
	_, sh := meas.Measure("M", fs(36))
	sentenceY := c.Top() - 0.4 - ih - 0.15 - sh/2
	sentence := b.Label(t.Sentence, geom.Pt(0, sentenceY), fs(36), pal.Text)

	c.Add(input, sentence)
	c.Wait(secs(0.5))

	rows := [][]string{{"Word", "Token ID"}}
	for i, w := range t.Words {
		rows = append(rows, []string{w, strconv.Itoa(t.IDs[i])})
	}
	tbl := c.table(rows, fs(24), 0.45, 0.225, geom.Pt(0, 0.2), pal.Muted)

	lookup := b.ArrowBetween(geom.Pt(0, sentenceY-sh/2-0.1), geom.Pt(0, tbl.top+0.1), arrowStyle)
	from, to := lookup.Endpoints()
	lookupLab := b.LabelBeside("Token ID Lookup", from.Lerp(to, 0.5), geom.Pt(1, 0), 0.1, fs(18), pal.Muted)

	c.PlayPar(secs(0.8),
		timeline.Create(lookup),
		timeline.FadeIn(lookupLab),
		timeline.FadeIn(tbl.parts...),
	)
	c.Wait(secs(1))

	arrayY := tbl.bottom - 0.8 - idChipH/2
	array := c.idArray(t.IDs, arrayY, pal.Token)
	arrayLab := b.LabelBeside("Token IDs", geom.Pt(array.left, arrayY), geom.Pt(-1, 0), 0.4, fs(20), pal.Muted)

	toIDs := b.ArrowBetween(geom.Pt(0, tbl.bottom-0.1), geom.Pt(0, arrayY+idChipH/2+0.1), arrowStyle)
	c.PlayPar(secs(0.8),
		timeline.Create(toIDs),
		timeline.FadeIn(array.parts...),
		timeline.FadeIn(arrayLab),
	)
	c.Wait(secs(0.8))

	inputY := arrayY - idChipH/2 - 0.5 - 0.45
	layer := Chip{
		Box:   b.Box(geom.Pt(0, inputY), 2.0, 0.9, 0.15, boxStyle(pal.Embed, 0.2)),
		Label: b.Label("Input", geom.Pt(0, inputY), fs(24), pal.Embed),
	}
	toInput := b.ArrowBetween(geom.Pt(0, arrayY-idChipH/2-0.08), geom.Pt(0, inputY+0.45+0.08), arrowStyle)
	c.PlayPar(secs(0.6), timeline.Create(toInput), timeline.FadeIn(layer.Parts()...))
	c.Wait(secs(1.5))
	return c.Err()
}
