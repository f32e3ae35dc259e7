package event

import (
	"github.com/jypelle/hygrodisplay/internal/srv/measure"
	"github.com/jypelle/hygrodisplay/internal/srv/sysinfo"
)

// State events, applied to the display state by the event loop
type StateEvent struct {
	Data interface{}
}

type StateEventNewReadingData struct {
	Reading measure.Reading
}

type StateEventParseFailedData struct {
	Err *measure.ParseError
}

// StateEventStreamEndedData marks the end of the input stream. Err is nil on a clean EOF.
type StateEventStreamEndedData struct {
	Err error
}

type StateEventSystemSampledData struct {
	Info sysinfo.Info
}

// Clock
type TickerEvent struct {
	Data interface{}
}

type TickerEventTickData struct{}

// Buttons
type ButtonEventType int

const (
	PRESS_EVENT_TYPE ButtonEventType = iota
	RELEASE_EVENT_TYPE
)

type ButtonEvent struct {
	ButtonEventType ButtonEventType
	PressStepCount  int64
}
