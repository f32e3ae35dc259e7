package device

import (
	"errors"
	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygrodisplay/internal/srv/event"
	"github.com/jypelle/hygrodisplay/internal/srv/measure"
	"github.com/sirupsen/logrus"
	"io"
	"sync"
)

// Input turns the lines of a stream into state events. The stream ends with
// exactly one StateEventStreamEndedData.
type Input struct {
	eventChannel chan event.StateEvent

	reader *measure.LineReader
	parser *measure.Parser
	clock  clockwork.Clock

	stopOnce sync.Once
	askDone  chan bool
	done     chan bool
}

func NewInput(r io.Reader, maxLineLength int, parser *measure.Parser, clock clockwork.Clock) *Input {
	return &Input{
		eventChannel: make(chan event.StateEvent),
		reader:       measure.NewLineReader(r, maxLineLength),
		parser:       parser,
		clock:        clock,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
}

func (d *Input) Start() {
	logrus.Infof("Start input device")

	go func() {
		defer close(d.done)
		for {
			line, err := d.reader.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				d.send(event.StateEvent{Data: event.StateEventStreamEndedData{Err: err}})
				return
			}

			if !d.send(d.toEvent(line)) {
				return
			}
		}
	}()
}

func (d *Input) toEvent(line measure.Line) event.StateEvent {
	reading, err := d.parser.ParseLine(line, d.clock.Now())
	if err != nil {
		var parseErr *measure.ParseError
		if !errors.As(err, &parseErr) {
			parseErr = &measure.ParseError{Kind: measure.MalformedFormat, Raw: line.Text, Err: err}
		}
		return event.StateEvent{Data: event.StateEventParseFailedData{Err: parseErr}}
	}
	return event.StateEvent{Data: event.StateEventNewReadingData{Reading: reading}}
}

func (d *Input) send(ev event.StateEvent) bool {
	select {
	case d.eventChannel <- ev:
		return true
	case <-d.askDone:
		return false
	}
}

// StopSendingEvent stops the delivery of events. A read blocked on the
// underlying stream cannot be interrupted: it is abandoned, not waited for.
func (d *Input) StopSendingEvent() {
	logrus.Infof("Stop input device")
	d.stopOnce.Do(func() { close(d.askDone) })
}

// Done is closed once the input goroutine returned.
func (d *Input) Done() <-chan bool {
	return d.done
}

func (d *Input) EventChannel() chan event.StateEvent {
	return d.eventChannel
}
