package palette

import "errors"

var (
	// ErrInvalidColor indicates a malformed hex color string.
	ErrInvalidColor = errors.New("palette: invalid color")

	// ErrInvalidGradient indicates fewer than two stops or stops whose values
	// are not strictly increasing.
	ErrInvalidGradient = errors.New("palette: invalid gradient")
)
