package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
)

// HeatmapOptions control the terminal heatmap.
type HeatmapOptions struct {
	// CellWidth is the number of terminal columns per matrix column.
	CellWidth int

	// MaxCols truncates wide matrices; zero shows every column.
	MaxCols int

	// LabelEvery prints a column index above every n-th column.
	LabelEvery int
}

func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{CellWidth: 2, MaxCols: 64, LabelEvery: 8}
}

// Heatmap renders m as rows of coloured cells, one row per position.
func Heatmap(m *posenc.Matrix, g *palette.Gradient, st Styles, opts HeatmapOptions) string {
	cols := m.Cols()
	if opts.MaxCols > 0 && cols > opts.MaxCols {
		cols = opts.MaxCols
	}
	width := max(opts.CellWidth, 1)
	cell := strings.Repeat(" ", width)
	gutter := len(fmt.Sprint(m.Rows()-1)) + 1

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutter))
	if opts.LabelEvery > 0 {
		header := []byte(strings.Repeat(" ", cols*width))
		for c := 0; c < cols; c += opts.LabelEvery {
			copy(header[c*width:], fmt.Sprint(c))
		}
		b.WriteString(st.Muted.Render(string(header)))
	}
	b.WriteByte('\n')

	for r := 0; r < m.Rows(); r++ {
		b.WriteString(st.Muted.Render(fmt.Sprintf("%*d ", gutter-1, r)))
		for c := 0; c < cols; c++ {
			color := palette.Lipgloss(g.Interpolate(m.At(r, c)))
			b.WriteString(lipgloss.NewStyle().Background(color).Render(cell))
		}
		b.WriteByte('\n')
	}
	if cols < m.Cols() {
		b.WriteString(st.Muted.Render(fmt.Sprintf("(%d of %d dims shown)", cols, m.Cols())))
		b.WriteByte('\n')
	}
	return b.String()
}

// Legend renders the gradient from its low end to its high end.
func Legend(g *palette.Gradient, steps int, st Styles) string {
	lo, hi := g.Domain()
	steps = max(steps, 2)
	var b strings.Builder
	b.WriteString(st.Muted.Render(fmt.Sprintf("%+.1f ", lo)))
	for i := 0; i < steps; i++ {
		v := lo + (hi-lo)*float64(i)/float64(steps-1)
		b.WriteString(lipgloss.NewStyle().Background(palette.Lipgloss(g.Interpolate(v))).Render(" "))
	}
	b.WriteString(st.Muted.Render(fmt.Sprintf(" %+.1f", hi)))
	return b.String()
}
