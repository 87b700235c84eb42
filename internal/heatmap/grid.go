// Package heatmap lays a numeric matrix out as a grid of colored cells and
// reveals it column by column without gaps.
package heatmap

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
	"github.com/san-kum/attnviz/internal/primitive"
)

// Grid is the cell layout of one matrix plus the reveal cursor. Cells are
// immutable; only the cursor moves, and only forward.
type Grid struct {
	rows, cols int
	cellSize   float64
	origin     geom.Point
	gradient   *palette.Gradient
	cells      []primitive.Primitive // row-major
	last       int                   // highest revealed column, -1 before any reveal
}

type settings struct {
	gradient    *palette.Gradient
	origin      geom.Point
	center      *geom.Point
	strokeWidth float64
}

// Option configures Build.
type Option func(*settings)

// WithGradient replaces the default Blue/White/Red gradient over [-1, 1].
func WithGradient(g *palette.Gradient) Option {
	return func(s *settings) { s.gradient = g }
}

// WithOrigin sets the device-space center of cell (0, 0).
func WithOrigin(p geom.Point) Option {
	return func(s *settings) { s.origin = p }
}

// WithCenter positions the grid so that its overall center is at p. It wins
// over WithOrigin.
func WithCenter(p geom.Point) Option {
	return func(s *settings) { s.center = &p }
}

// WithStroke sets the cell outline width.
func WithStroke(w float64) Option {
	return func(s *settings) { s.strokeWidth = w }
}

// Build creates one cell per matrix entry. Row r sits at y offset
// -r*cellSize and column c at x offset c*cellSize from the origin, so the
// first row is on top.
func Build(b *primitive.Builder, m *posenc.Matrix, cellSize float64, opts ...Option) (*Grid, error) {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidCellSize, cellSize)
	}
	s := settings{gradient: palette.Heatmap()}
	for _, opt := range opts {
		opt(&s)
	}

	rows, cols := m.Rows(), m.Cols()
	origin := s.origin
	if s.center != nil {
		origin = geom.Pt(
			s.center.X-float64(cols-1)*cellSize/2,
			s.center.Y+float64(rows-1)*cellSize/2,
		)
	}

	g := &Grid{
		rows:     rows,
		cols:     cols,
		cellSize: cellSize,
		origin:   origin,
		gradient: s.gradient,
		cells:    make([]primitive.Primitive, 0, rows*cols),
		last:     -1,
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			fill := s.gradient.Interpolate(m.At(r, c))
			g.cells = append(g.cells, b.Cell(g.cellCenter(r, c), cellSize, fill, s.strokeWidth))
		}
	}
	return g, nil
}

func (g *Grid) cellCenter(r, c int) geom.Point {
	return g.origin.Add(geom.Pt(float64(c)*g.cellSize, -float64(r)*g.cellSize))
}

func (g *Grid) Rows() int                   { return g.rows }
func (g *Grid) Cols() int                   { return g.cols }
func (g *Grid) CellSize() float64           { return g.cellSize }
func (g *Grid) Gradient() *palette.Gradient { return g.gradient }

// LastRevealed returns the highest revealed column, or -1.
func (g *Grid) LastRevealed() int { return g.last }

// Complete reports whether every column has been revealed.
func (g *Grid) Complete() bool { return g.last == g.cols-1 }

// Cell returns the cell at row r, column c.
func (g *Grid) Cell(r, c int) primitive.Primitive {
	return g.cells[r*g.cols+c]
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []primitive.Primitive {
	return slices.Clone(g.cells)
}

// Column returns the cells of column c from top to bottom.
func (g *Grid) Column(c int) ([]primitive.Primitive, error) {
	if c < 0 || c >= g.cols {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrColumnOutOfRange, c, g.cols)
	}
	out := make([]primitive.Primitive, g.rows)
	for r := range out {
		out[r] = g.Cell(r, c)
	}
	return out, nil
}

// Reveal exposes columns for one animation step and returns the cells that
// became visible, column by column. Columns already revealed are ignored.
// The rest must run without a hole from LastRevealed()+1 up to the largest
// requested column; otherwise nothing is revealed and the error wraps
// ErrColumnOutOfRange.
func (g *Grid) Reveal(columns []int) ([]primitive.Primitive, error) {
	for _, c := range columns {
		if c < 0 || c >= g.cols {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrColumnOutOfRange, c, g.cols)
		}
	}

	pending := make([]int, 0, len(columns))
	for _, c := range columns {
		if c > g.last {
			pending = append(pending, c)
		}
	}
	slices.Sort(pending)
	pending = slices.Compact(pending)
	if len(pending) == 0 {
		return nil, nil
	}

	for i, c := range pending {
		if c != g.last+1+i {
			return nil, fmt.Errorf("%w: requested %d after column %d", ErrRevealGap, pending[len(pending)-1], g.last)
		}
	}

	out := make([]primitive.Primitive, 0, len(pending)*g.rows)
	for _, c := range pending {
		for r := 0; r < g.rows; r++ {
			out = append(out, g.Cell(r, c))
		}
	}
	g.last = pending[len(pending)-1]
	return out, nil
}

// RevealThrough reveals every column from LastRevealed()+1 through c.
func (g *Grid) RevealThrough(c int) ([]primitive.Primitive, error) {
	if c < 0 || c >= g.cols {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrColumnOutOfRange, c, g.cols)
	}
	return g.Reveal(g.span(g.last+1, c))
}

// Remaining splits the unrevealed columns into consecutive chunks of at most
// size columns, in reveal order.
func (g *Grid) Remaining(size int) [][]int {
	if size < 1 {
		size = 1
	}
	var chunks [][]int
	for start := g.last + 1; start < g.cols; start += size {
		end := min(start+size-1, g.cols-1)
		chunks = append(chunks, g.span(start, end))
	}
	return chunks
}

// VisibleColumns returns the revealed column indices.
func (g *Grid) VisibleColumns() []int {
	return g.span(0, g.last)
}

// Visible returns the revealed cells, column by column.
func (g *Grid) Visible() []primitive.Primitive {
	out := make([]primitive.Primitive, 0, (g.last+1)*g.rows)
	for c := 0; c <= g.last; c++ {
		for r := 0; r < g.rows; r++ {
			out = append(out, g.Cell(r, c))
		}
	}
	return out
}

// Bounds returns the device-space box covering every cell.
func (g *Grid) Bounds() (lo, hi geom.Point) {
	half := g.cellSize / 2
	topLeft := g.cellCenter(0, 0)
	bottomRight := g.cellCenter(g.rows-1, g.cols-1)
	return geom.Pt(topLeft.X-half, bottomRight.Y-half), geom.Pt(bottomRight.X+half, topLeft.Y+half)
}

func (g *Grid) span(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for c := from; c <= to; c++ {
		out = append(out, c)
	}
	return out
}
