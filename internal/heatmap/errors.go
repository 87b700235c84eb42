package heatmap

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnOutOfRange indicates a reveal request naming a column outside
	// [0, cols) or one that would leave unrevealed columns behind it.
	ErrColumnOutOfRange = errors.New("heatmap: column out of range")

	// ErrRevealGap is the ErrColumnOutOfRange case where every column is in
	// bounds but the request skips columns after the last revealed one.
	ErrRevealGap = fmt.Errorf("%w: reveal would leave a gap", ErrColumnOutOfRange)

	ErrInvalidCellSize = errors.New("heatmap: cell size must be positive")
)
