package device

import (
	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygrodisplay/internal/srv/event"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

// Clock wakes the event loop up at a fixed period so that the staleness
// indicator and the header clock move on while no input arrives.
type Clock struct {
	lock         sync.Mutex
	eventChannel chan event.TickerEvent

	clock              clockwork.Clock
	period             time.Duration
	refreshClockTicker clockwork.Ticker

	askDone chan bool
	done    chan bool
}

func NewClock(clock clockwork.Clock, period time.Duration) *Clock {
	return &Clock{
		eventChannel: make(chan event.TickerEvent),
		clock:        clock,
		period:       period,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
}

func (d *Clock) Start() {
	logrus.Infof("Start clock device (every %v)", d.period)
	d.lock.Lock()
	defer d.lock.Unlock()

	d.refreshClockTicker = d.clock.NewTicker(d.period)

	go func() {
		for loop := true; loop; {
			select {
			case <-d.refreshClockTicker.Chan():
				select {
				case d.eventChannel <- event.TickerEvent{Data: event.TickerEventTickData{}}:
				case <-d.askDone:
					loop = false
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Clock) StopSendingEvent() {
	logrus.Infof("Stop clock device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.refreshClockTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Clock) EventChannel() chan event.TickerEvent {
	return d.eventChannel
}
