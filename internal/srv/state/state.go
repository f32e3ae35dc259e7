// Package state holds what the panel should show. The event loop is its only writer.
package state

import (
	"github.com/jypelle/hygrodisplay/internal/srv/event"
	"github.com/jypelle/hygrodisplay/internal/srv/measure"
	"github.com/jypelle/hygrodisplay/internal/srv/sysinfo"
	"time"
)

type DisplayState struct {
	LastReading     *measure.Reading
	LastError       *measure.ParseError
	LastUpdate      time.Time
	StreamConnected bool
	System          *sysinfo.Info

	streamEnded bool
}

// NewDisplayState returns the "no data yet" state of a freshly opened stream.
func NewDisplayState() *DisplayState {
	return &DisplayState{StreamConnected: true}
}

// Apply folds one event into the state and reports whether the state changed.
func (s *DisplayState) Apply(ev event.StateEvent) bool {
	switch data := ev.Data.(type) {
	case event.StateEventNewReadingData:
		reading := data.Reading
		s.LastReading = &reading
		s.LastError = nil
		s.LastUpdate = reading.ObservedAt
		// a stream that ended stays disconnected for the rest of the run
		s.StreamConnected = !s.streamEnded
		return true
	case event.StateEventParseFailedData:
		if data.Err == nil {
			return false
		}
		s.LastError = data.Err
		return true
	case event.StateEventStreamEndedData:
		changed := s.StreamConnected
		s.streamEnded = true
		s.StreamConnected = false
		return changed
	case event.StateEventSystemSampledData:
		info := data.Info
		s.System = &info
		return true
	default:
		return false
	}
}

// Stale reports whether the last reading is older than threshold at now.
func (s *DisplayState) Stale(now time.Time, threshold time.Duration) bool {
	if s.LastReading == nil {
		return false
	}
	return now.Sub(s.LastUpdate) > threshold
}

func (s *DisplayState) Ended() bool {
	return s.streamEnded
}
