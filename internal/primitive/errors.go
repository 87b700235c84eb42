package primitive

import "errors"

// ErrInvalidPath indicates a wave path with mismatched coordinate slices or
// fewer than two points.
var ErrInvalidPath = errors.New("primitive: invalid path")

// ErrInvalidOptions indicates builder options that would produce malformed
// primitives, such as negative chip padding.
var ErrInvalidOptions = errors.New("primitive: invalid options")
