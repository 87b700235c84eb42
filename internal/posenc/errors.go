package posenc

import "errors"

var (
	// ErrInvalidShape indicates a non-positive sequence length or model
	// width, or matrices whose shapes do not match.
	ErrInvalidShape = errors.New("posenc: invalid matrix shape")

	// ErrInvalidBase indicates a non-positive or non-finite frequency base.
	ErrInvalidBase = errors.New("posenc: invalid base")
)
