package posenc

import (
	"errors"
	"math"
	"testing"
)

func TestGeneratePositionZero(t *testing.T) {
	m, err := GenerateDefault(1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 0, 1}
	got := m.Row(0)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PE[0][%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateBounded(t *testing.T) {
	m, err := GenerateDefault(10, 64)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 10 || m.Cols() != 64 {
		t.Fatalf("expected 10x64, got %dx%d", m.Rows(), m.Cols())
	}
	for p := 0; p < m.Rows(); p++ {
		for d := 0; d < m.Cols(); d++ {
			if v := m.At(p, d); v < -1 || v > 1 {
				t.Errorf("PE[%d][%d] = %v out of [-1, 1]", p, d, v)
			}
		}
	}
}

func TestGenerateFormula(t *testing.T) {
	const base = 10000.0
	m, err := Generate(48, 64, base)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct{ p, d int }{{5, 0}, {5, 1}, {17, 10}, {47, 63}, {3, 31}} {
		angle := float64(tc.p) / math.Pow(base, float64(2*(tc.d/2))/64)
		want := math.Cos(angle)
		if tc.d%2 == 0 {
			want = math.Sin(angle)
		}
		if got := m.At(tc.p, tc.d); math.Abs(got-want) > 1e-12 {
			t.Errorf("PE[%d][%d] = %v, want %v", tc.p, tc.d, got, want)
		}
	}
}

func TestGeneratePairsShareFrequency(t *testing.T) {
	m, _ := GenerateDefault(20, 16)
	for p := 0; p < 20; p++ {
		for d := 0; d < 16; d += 2 {
			s, c := m.At(p, d), m.At(p, d+1)
			if math.Abs(s*s+c*c-1) > 1e-12 {
				t.Fatalf("pair %d at position %d is not on the unit circle", d/2, p)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := Generate(12, 8, 500)
	b, _ := Generate(12, 8, 500)
	for r := 0; r < 12; r++ {
		for c := 0; c < 8; c++ {
			if a.At(r, c) != b.At(r, c) {
				t.Fatalf("entry (%d,%d) differs", r, c)
			}
		}
	}
}

func TestGenerateOddModel(t *testing.T) {
	m, err := GenerateDefault(3, 5)
	if err != nil {
		t.Fatalf("odd d_model should be accepted: %v", err)
	}
	if m.Cols() != 5 {
		t.Errorf("expected 5 columns, got %d", m.Cols())
	}
	if m.At(0, 4) != 0 {
		t.Errorf("last column is a sine, expected 0 at position 0")
	}
}

func TestGenerateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		seq, d int
		base   float64
		want   error
	}{
		{"zero seq", 0, 4, DefaultBase, ErrInvalidShape},
		{"negative seq", -1, 4, DefaultBase, ErrInvalidShape},
		{"zero model", 4, 0, DefaultBase, ErrInvalidShape},
		{"zero base", 4, 4, 0, ErrInvalidBase},
		{"nan base", 4, 4, math.NaN(), ErrInvalidBase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Generate(tt.seq, tt.d, tt.base)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if m != nil {
				t.Error("expected nil matrix")
			}
		})
	}
}

func TestColumnIsCopy(t *testing.T) {
	m, _ := GenerateDefault(4, 4)
	col := m.Column(1)
	col[0] = 42
	if m.At(0, 1) != 1 {
		t.Error("modifying a column copy changed the matrix")
	}
}

func TestAdd(t *testing.T) {
	a, _ := NewMatrix([][]float64{{0.3, -0.7}, {0.3, -0.7}})
	b, _ := NewMatrix([][]float64{{0, 0}, {1, 1}})
	sum, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sum.At(1, 0)-1.3) > 1e-12 || math.Abs(sum.At(1, 1)-0.3) > 1e-12 {
		t.Errorf("unexpected sum %v", sum.Values())
	}

	c, _ := NewMatrix([][]float64{{1}})
	if _, err := Add(a, c); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	if Label(6) != "sin_3" || Label(7) != "cos_3" {
		t.Errorf("unexpected labels %s %s", Label(6), Label(7))
	}
}

func TestFrequency(t *testing.T) {
	tests := []struct {
		d, dModel int
		want      float64
	}{
		{0, 64, 1},
		{1, 64, 1},
		{2, 64, math.Pow(DefaultBase, -2.0/64)},
		{63, 64, math.Pow(DefaultBase, -62.0/64)},
	}
	for _, tt := range tests {
		if got := Frequency(tt.d, tt.dModel, DefaultBase); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("Frequency(%d, %d) = %v, want %v", tt.d, tt.dModel, got, tt.want)
		}
	}

	m, _ := GenerateDefault(5, 8)
	w := Frequency(4, 8, DefaultBase)
	for p := 0; p < 5; p++ {
		if math.Abs(m.At(p, 4)-math.Sin(float64(p)*w)) > 1e-12 {
			t.Errorf("position %d: encoding does not follow Frequency", p)
		}
	}
}
