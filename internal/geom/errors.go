package geom

import "errors"

// ErrInvalidUpdate indicates an AttentionUpdate with a missing token or a
// non-finite delta or weight.
var ErrInvalidUpdate = errors.New("geom: invalid attention update")
