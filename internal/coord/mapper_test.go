package coord

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attnviz/internal/geom"
)

const eps = 1e-9

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestToDeviceExtremes(t *testing.T) {
	tests := []struct {
		name   string
		x, y   AxisSpec
		origin geom.Point
	}{
		{"attention plane", AxisSpec{-6, 6, 12}, AxisSpec{-3.5, 3.5, 7}, geom.Pt(0, 0)},
		{"analogy plane", AxisSpec{-1, 5, 7}, AxisSpec{-1, 5, 7}, geom.Pt(0, 0)},
		{"wave panel", AxisSpec{0, 47, 5}, AxisSpec{-1.2, 1.2, 3}, geom.Pt(-3.5, 0.5)},
		{"tiny", AxisSpec{1e-6, 2e-6, 0.01}, AxisSpec{100, 1000, 2}, geom.Pt(3, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.x, tt.y, WithOrigin(tt.origin))
			if err != nil {
				t.Fatalf("new failed: %v", err)
			}
			lo := m.ToDevice(tt.x.Min, tt.y.Min)
			hi := m.ToDevice(tt.x.Max, tt.y.Max)

			wantLo := geom.Pt(tt.origin.X-tt.x.Length/2, tt.origin.Y-tt.y.Length/2)
			wantHi := geom.Pt(tt.origin.X+tt.x.Length/2, tt.origin.Y+tt.y.Length/2)
			if !near(lo, wantLo) {
				t.Errorf("min maps to %v, want %v", lo, wantLo)
			}
			if !near(hi, wantHi) {
				t.Errorf("max maps to %v, want %v", hi, wantHi)
			}
		})
	}
}

func TestToDeviceAffine(t *testing.T) {
	m, err := New(AxisSpec{-6, 6, 12}, AxisSpec{-3.5, 3.5, 7}, WithOrigin(geom.Pt(1, -2)))
	if err != nil {
		t.Fatal(err)
	}

	a, b := geom.Pt(-4.2, 1.3), geom.Pt(5.5, -3.1)
	da, db := m.ToDevicePoint(a), m.ToDevicePoint(b)
	for _, tv := range []float64{0, 0.1, 0.25, 0.5, 0.9, 1} {
		lhs := da.Add(db.Sub(da).Mul(tv))
		rhs := m.ToDevicePoint(a.Add(b.Sub(a).Mul(tv)))
		if !near(lhs, rhs) {
			t.Errorf("t=%v: interpolated %v != mapped %v", tv, lhs, rhs)
		}
	}
}

func TestToDeviceDeterministic(t *testing.T) {
	m, _ := New(AxisSpec{0, 1, 3}, AxisSpec{0, 1, 3})
	p1 := m.ToDevice(0.123456789, 0.987654321)
	p2 := m.ToDevice(0.123456789, 0.987654321)
	if p1 != p2 {
		t.Errorf("expected identical output, got %v and %v", p1, p2)
	}
}

func TestToDataInverts(t *testing.T) {
	m, _ := New(AxisSpec{-1, 5, 7}, AxisSpec{-1, 5, 7}, WithOrigin(geom.Pt(2, 1)))
	p := geom.Pt(3, 4)
	back := m.ToData(m.ToDevicePoint(p))
	if !near(p, back) {
		t.Errorf("round trip gave %v, want %v", back, p)
	}
}

func TestNewInvalidAxis(t *testing.T) {
	good := AxisSpec{0, 1, 1}
	tests := []struct {
		name string
		x, y AxisSpec
	}{
		{"inverted x", AxisSpec{1, 0, 1}, good},
		{"empty y", good, AxisSpec{2, 2, 1}},
		{"zero length", AxisSpec{0, 1, 0}, good},
		{"negative length", good, AxisSpec{0, 1, -3}},
		{"nan", AxisSpec{math.NaN(), 1, 1}, good},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.x, tt.y)
			if !errors.Is(err, ErrInvalidAxisSpec) {
				t.Errorf("expected ErrInvalidAxisSpec, got %v", err)
			}
			if m != nil {
				t.Error("expected nil mapper on error")
			}
		})
	}
}
