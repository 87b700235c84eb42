package posenc

import "fmt"

// Matrix is a dense, read-only rows x cols array. Rows are positions and
// columns are feature dimensions.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix copies values into a matrix. Every row must have the same
// non-zero length.
func NewMatrix(values [][]float64) (*Matrix, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidShape)
	}
	m := &Matrix{rows: len(values), cols: len(values[0])}
	m.data = make([]float64, 0, m.rows*m.cols)
	for r, row := range values {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidShape, r, len(row), m.cols)
		}
		m.data = append(m.data, row...)
	}
	return m, nil
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at row r, column c. It panics when out of range, like
// slice indexing.
func (m *Matrix) At(r, c int) float64 {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("posenc: index (%d, %d) out of range for %dx%d matrix", r, c, m.rows, m.cols))
	}
	return m.data[r*m.cols+c]
}

// Row returns a copy of row r.
func (m *Matrix) Row(r int) []float64 {
	out := make([]float64, m.cols)
	copy(out, m.data[r*m.cols:(r+1)*m.cols])
	return out
}

// Column returns a copy of column c.
func (m *Matrix) Column(c int) []float64 {
	out := make([]float64, m.rows)
	for r := range out {
		out[r] = m.data[r*m.cols+c]
	}
	return out
}

// Values returns a copy of the matrix as nested slices.
func (m *Matrix) Values() [][]float64 {
	out := make([][]float64, m.rows)
	for r := range out {
		out[r] = m.Row(r)
	}
	return out
}

// Range returns the smallest and largest entry.
func (m *Matrix) Range() (lo, hi float64) {
	lo, hi = m.data[0], m.data[0]
	for _, v := range m.data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Add returns the elementwise sum of two equally shaped matrices.
func Add(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, fmt.Errorf("%w: cannot add %dx%d and %dx%d", ErrInvalidShape, a.rows, a.cols, b.rows, b.cols)
	}
	out := &Matrix{rows: a.rows, cols: a.cols, data: make([]float64, len(a.data))}
	for i := range out.data {
		out.data[i] = a.data[i] + b.data[i]
	}
	return out, nil
}
