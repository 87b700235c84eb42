package posenc

import (
	"fmt"
	"math"
)

// DefaultBase is the frequency base from "Attention Is All You Need".
const DefaultBase = 10000.0

// Generate returns the (seqLen, dModel) positional-encoding matrix. The
// result depends only on its arguments.
func Generate(seqLen, dModel int, base float64) (*Matrix, error) {
	if seqLen <= 0 || dModel <= 0 {
		return nil, fmt.Errorf("%w: seq_len=%d d_model=%d", ErrInvalidShape, seqLen, dModel)
	}
	if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidBase, base)
	}

	m := &Matrix{rows: seqLen, cols: dModel, data: make([]float64, seqLen*dModel)}
	denom := make([]float64, dModel)
	for d := range denom {
		denom[d] = math.Pow(base, float64(2*PairIndex(d))/float64(dModel))
	}
	for p := 0; p < seqLen; p++ {
		row := m.data[p*dModel : (p+1)*dModel]
		for d := range row {
			angle := float64(p) / denom[d]
			if IsSin(d) {
				row[d] = math.Sin(angle)
			} else {
				row[d] = math.Cos(angle)
			}
		}
	}
	return m, nil
}

// GenerateDefault is Generate with DefaultBase.
func GenerateDefault(seqLen, dModel int) (*Matrix, error) {
	return Generate(seqLen, dModel, DefaultBase)
}

// PairIndex returns d / 2, the index of the sin/cos pair dimension d belongs to.
func PairIndex(d int) int { return d / 2 }

// IsSin reports whether dimension d carries the sine of its pair.
func IsSin(d int) bool { return d%2 == 0 }

// Frequency returns the angular frequency (radians per position) of
// dimension d.
func Frequency(d, dModel int, base float64) float64 {
	return 1 / math.Pow(base, float64(2*PairIndex(d))/float64(dModel))
}

// Label names dimension d, e.g. "sin_3" or "cos_3".
func Label(d int) string {
	if IsSin(d) {
		return fmt.Sprintf("sin_%d", PairIndex(d))
	}
	return fmt.Sprintf("cos_%d", PairIndex(d))
}
