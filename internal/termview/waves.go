package termview

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/attnviz/internal/posenc"
)

// Waves plots the chosen encoding dimensions against position, one series
// per dimension.
func Waves(m *posenc.Matrix, dims []int, width, height int) (string, error) {
	if len(dims) == 0 {
		return "", fmt.Errorf("termview: no dimensions to plot")
	}
	series := make([][]float64, len(dims))
	labels := make([]string, len(dims))
	for i, d := range dims {
		if d < 0 || d >= m.Cols() {
			return "", fmt.Errorf("termview: dimension %d: %w", d, posenc.ErrInvalidShape)
		}
		series[i] = m.Column(d)
		labels[i] = posenc.Label(d)
	}
	if m.Rows() < 2 {
		return "", fmt.Errorf("termview: need at least two positions: %w", posenc.ErrInvalidShape)
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(-1),
		asciigraph.UpperBound(1),
		asciigraph.Caption(strings.Join(labels, "  ")),
	), nil
}
