package device

import (
	"context"
	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygrodisplay/internal/srv/event"
	"github.com/jypelle/hygrodisplay/internal/srv/sysinfo"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

type Sampler interface {
	Sample(ctx context.Context, now time.Time) sysinfo.Info
}

// Monitor samples the host status once at start, then every period.
type Monitor struct {
	lock         sync.Mutex
	eventChannel chan event.StateEvent

	sampler Sampler
	clock   clockwork.Clock
	period  time.Duration
	ticker  clockwork.Ticker

	cancel context.CancelFunc
	done   chan bool
}

func NewMonitor(sampler Sampler, clock clockwork.Clock, period time.Duration) *Monitor {
	return &Monitor{
		eventChannel: make(chan event.StateEvent),
		sampler:      sampler,
		clock:        clock,
		period:       period,
		done:         make(chan bool),
	}
}

func (d *Monitor) Start() {
	logrus.Infof("Start system monitor device (every %v)", d.period)

	d.lock.Lock()
	defer d.lock.Unlock()

	var ctx context.Context
	ctx, d.cancel = context.WithCancel(context.Background())
	d.ticker = d.clock.NewTicker(d.period)

	go func() {
		defer close(d.done)
		for {
			info := d.sampler.Sample(ctx, d.clock.Now())
			select {
			case d.eventChannel <- event.StateEvent{Data: event.StateEventSystemSampledData{Info: info}}:
			case <-ctx.Done():
				return
			}

			select {
			case <-d.ticker.Chan():
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (d *Monitor) StopSendingEvent() {
	logrus.Infof("Stop system monitor device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.ticker.Stop()
	d.cancel()
	<-d.done
}

func (d *Monitor) EventChannel() chan event.StateEvent {
	return d.eventChannel
}
