package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attnviz/internal/palette"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestApplySingleUpdate(t *testing.T) {
	base := Vec(2.0, 0.6)
	updates := []AttentionUpdate{
		{Token: "river", Delta: Vec(-1.2, 1.3), Weight: 0.75, Color: palette.Teal},
	}

	path, err := Apply(base, updates)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(path) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(path))
	}
	got := path[1]
	if !approx(got.X, 1.1) || !approx(got.Y, 1.575) {
		t.Errorf("expected (1.1, 1.575), got (%v, %v)", got.X, got.Y)
	}
	if path[0] != base {
		t.Errorf("first element should be the base vector")
	}
}

func TestApplyAccumulates(t *testing.T) {
	base := Vec(2.0, 0.6)
	updates := []AttentionUpdate{
		{Token: "cash", Delta: Vec(1.4, 0.6), Weight: 0.70, Color: palette.Orange},
		{Token: "deposited", Delta: Vec(0.8, 1.0), Weight: 0.60, Color: palette.Red},
	}

	path, err := Apply(base, updates)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	want := Vec(2.0+1.4*0.70+0.8*0.60, 0.6+0.6*0.70+1.0*0.60)
	last := path[len(path)-1]
	if !approx(last.X, want.X) || !approx(last.Y, want.Y) {
		t.Errorf("expected %v, got %v", want, last)
	}
}

func TestApplyInvalid(t *testing.T) {
	tests := []struct {
		name string
		u    AttentionUpdate
	}{
		{"empty token", AttentionUpdate{Delta: Vec(1, 1), Weight: 1}},
		{"nan delta", AttentionUpdate{Token: "x", Delta: Vec(math.NaN(), 0), Weight: 1}},
		{"inf weight", AttentionUpdate{Token: "x", Delta: Vec(0, 0), Weight: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(Vec(0, 0), []AttentionUpdate{tt.u})
			if !errors.Is(err, ErrInvalidUpdate) {
				t.Errorf("expected ErrInvalidUpdate, got %v", err)
			}
		})
	}
}

func TestPointLerp(t *testing.T) {
	a, b := Pt(0, 0), Pt(4, -2)
	mid := a.Lerp(b, 0.5)
	if mid != Pt(2, -1) {
		t.Errorf("expected (2,-1), got %v", mid)
	}
	if a.Lerp(b, 0) != a || a.Lerp(b, 1) != b {
		t.Error("lerp endpoints should be exact")
	}
}
