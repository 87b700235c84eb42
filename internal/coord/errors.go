package coord

import "errors"

// ErrInvalidAxisSpec indicates an axis whose domain is empty or inverted, or
// whose device length is not positive.
var ErrInvalidAxisSpec = errors.New("coord: invalid axis spec")
