package device

import (
	"github.com/jypelle/hygrodisplay/internal/srv/render"
)

// Screen is where frames end up: the OLED panel or its simulation.
type Screen interface {
	Push(frame *render.Frame) error
	SetOn(on bool) error
	Close() error
}
