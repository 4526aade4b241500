package renderer

import "errors"

var (
	ErrInvalidConfig = errors.New("renderer: invalid configuration")
	ErrNoWorld       = errors.New("renderer: no world to render")
	ErrNoCamera      = errors.New("renderer: no camera")
	ErrInterrupted   = errors.New("renderer: interrupted while rendering")
	ErrNoPasses      = errors.New("renderer: every pass was lost")
	ErrPassPanicked  = errors.New("renderer: pass panicked")
	ErrCanvasSize    = errors.New("renderer: canvas dimensions differ")
)
