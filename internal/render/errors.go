package render

import "errors"

var (
	ErrInvalidViewport = errors.New("render: invalid viewport")
	ErrClosed          = errors.New("render: renderer closed")
	ErrUnknownBackend  = errors.New("render: unknown backend")
	ErrNoFrames        = errors.New("render: no frames to encode")
)
