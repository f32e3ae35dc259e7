package device

import (
	"fmt"
	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygrodisplay/internal/srv/event"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"sync"
	"time"
)

const (
	buttonCheckPeriod = 5 * time.Millisecond
	buttonStepPeriod  = 160 * time.Millisecond
)

// Button polls a push button wired between a GPIO and ground. While the
// button is held a press event is emitted every step with an increasing
// count, a release event closes the sequence.
type Button struct {
	lock         sync.Mutex
	eventChannel chan event.ButtonEvent

	pin            gpio.PinIO
	clock          clockwork.Clock
	isPressed      bool
	pressStepCount int64
	lastChange     time.Time

	checkTicker clockwork.Ticker

	askDone chan bool
	done    chan bool
}

// OpenButton looks the pin up by name (e.g. "GPIO16").
func OpenButton(name string, clock clockwork.Clock) (*Button, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("failed to find %s button", name)
	}
	return NewButton(pin, clock)
}

func NewButton(pin gpio.PinIO, clock clockwork.Clock) (*Button, error) {
	// Set it as input, with an internal pull up resistor:
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to setup %s button: %w", pin, err)
	}
	return &Button{
		eventChannel: make(chan event.ButtonEvent),
		pin:          pin,
		clock:        clock,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}, nil
}

// refresh samples the pin once and returns the event to emit, if any.
func (b *Button) refresh(now time.Time) *event.ButtonEvent {
	wasPressed := b.isPressed
	b.isPressed = bool(!b.pin.Read())

	if !b.isPressed && wasPressed {
		if b.pressStepCount == 0 {
			// contact bounce: released before any press step was emitted
			return nil
		}
		b.lastChange = now
		ev := &event.ButtonEvent{ButtonEventType: event.RELEASE_EVENT_TYPE, PressStepCount: b.pressStepCount}
		b.pressStepCount = 0
		return ev
	} else if b.isPressed && b.lastChange.Add(buttonStepPeriod).Before(now) {
		b.lastChange = now
		b.pressStepCount++
		return &event.ButtonEvent{ButtonEventType: event.PRESS_EVENT_TYPE, PressStepCount: b.pressStepCount}
	}
	return nil
}

func (b *Button) Start() {
	logrus.Infof("Start button device on %s", b.pin)

	b.lock.Lock()
	defer b.lock.Unlock()

	b.checkTicker = b.clock.NewTicker(buttonCheckPeriod)
	go func() {
		for loop := true; loop; {
			select {
			case now := <-b.checkTicker.Chan():
				if ev := b.refresh(now); ev != nil {
					select {
					case b.eventChannel <- *ev:
					case <-b.askDone:
						loop = false
					}
				}
			case <-b.askDone:
				loop = false
			}
		}
		b.done <- true
	}()
}

func (b *Button) StopSendingEvent() {
	logrus.Infof("Stop button device")

	b.lock.Lock()
	defer b.lock.Unlock()

	b.checkTicker.Stop()
	b.askDone <- true
	<-b.done
}

func (b *Button) EventChannel() chan event.ButtonEvent {
	return b.eventChannel
}
