package geom

import (
	"fmt"
	"math"

	"github.com/san-kum/attnviz/internal/palette"
)

// AttentionUpdate is one context token's contribution to a contextualized
// vector: the vector moves by Weight*Delta.
type AttentionUpdate struct {
	Token  string
	Delta  Vector
	Weight float64
	Color  palette.Color
}

func (u AttentionUpdate) Validate() error {
	if u.Token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidUpdate)
	}
	if !u.Delta.IsFinite() {
		return fmt.Errorf("%w: token %q has non-finite delta", ErrInvalidUpdate, u.Token)
	}
	if math.IsNaN(u.Weight) || math.IsInf(u.Weight, 0) {
		return fmt.Errorf("%w: token %q has non-finite weight", ErrInvalidUpdate, u.Token)
	}
	return nil
}

// Shift returns the displacement this update applies.
func (u AttentionUpdate) Shift() Vector {
	return u.Delta.Scale(u.Weight)
}

// Apply walks base through every update in order and returns the visited
// vectors. The first element is base and the last is base + Σ wᵢ·δᵢ, so the
// result always has len(updates)+1 entries.
func Apply(base Vector, updates []AttentionUpdate) ([]Vector, error) {
	path := make([]Vector, 0, len(updates)+1)
	path = append(path, base)

	cur := base
	for i, u := range updates {
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("update %d: %w", i, err)
		}
		cur = cur.AddWeighted(u.Delta, u.Weight)
		path = append(path, cur)
	}
	return path, nil
}
