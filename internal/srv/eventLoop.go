package srv

import (
	"context"
	"fmt"
	"github.com/jypelle/hygrodisplay/internal/srv/device"
	"github.com/jypelle/hygrodisplay/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// Run shows the measures read from the input until the input ends or ctx is
// cancelled, then leaves a final frame on the screen. It returns an error
// only when the screen failed.
func (s *ServerApp) Run(ctx context.Context) error {
	logrus.Printf("Starting hygrodisplay server ...")
	s.setPhase(STARTING_PHASE)

	screen, err := s.openScreen()
	if err != nil {
		s.setPhase(STOPPED_PHASE)
		return fmt.Errorf("unable to open screen: %w", err)
	}
	s.screen = screen
	defer s.closeScreen()

	// Display placeholder
	if err = s.refreshDisplay(true); err != nil {
		s.setPhase(STOPPED_PHASE)
		return err
	}

	logrus.Printf("Starting devices ...")
	s.startDevices()
	s.setPhase(RUNNING_PHASE)

	err = s.eventLoop(ctx)
	s.stopDevices()
	if err != nil {
		s.setPhase(STOPPED_PHASE)
		return err
	}

	s.setPhase(DRAINING_PHASE)
	s.applyStateEvent(event.StateEvent{Data: event.StateEventStreamEndedData{}})
	if !s.screenOn {
		err = s.setScreenOn(true)
	}
	if err == nil {
		err = s.refreshDisplay(true)
	}

	s.setPhase(STOPPED_PHASE)
	logrus.Printf("Server stopped")
	return err
}

func (s *ServerApp) startDevices() {
	s.inputDevice.Start()
	s.clockDevice.Start()
	if s.monitorDevice != nil {
		s.monitorDevice.Start()
	}

	if s.buttonDevice == nil && s.Display.TogglePin != "" {
		button, err := device.OpenButton(s.Display.TogglePin, s.clock)
		if err != nil {
			logrus.Warnf("Toggle button disabled: %v", err)
		} else {
			s.buttonDevice = button
		}
	}
	if s.buttonDevice != nil {
		s.buttonDevice.Start()
	}
}

func (s *ServerApp) stopDevices() {
	if s.buttonDevice != nil {
		s.buttonDevice.StopSendingEvent()
	}
	if s.monitorDevice != nil {
		s.monitorDevice.StopSendingEvent()
	}
	s.clockDevice.StopSendingEvent()
	s.inputDevice.StopSendingEvent()
}

func (s *ServerApp) closeScreen() {
	if err := s.screen.Close(); err != nil {
		logrus.Warnf("Unable to close screen: %v", err)
	}
}

// eventLoop returns nil when the input ended or ctx was cancelled.
func (s *ServerApp) eventLoop(ctx context.Context) error {
	var monitorChannel chan event.StateEvent
	if s.monitorDevice != nil {
		monitorChannel = s.monitorDevice.EventChannel()
	}
	var buttonChannel chan event.ButtonEvent
	if s.buttonDevice != nil {
		buttonChannel = s.buttonDevice.EventChannel()
	}

	for {
		select {
		case ev := <-s.inputDevice.EventChannel():
			if s.applyStateEvent(ev) {
				return nil
			}
			if err := s.refreshDisplay(false); err != nil {
				return err
			}
		case ev := <-monitorChannel:
			s.applyStateEvent(ev)
			if err := s.refreshDisplay(false); err != nil {
				return err
			}
		case <-s.clockDevice.EventChannel():
			logrus.Debugf("Receive clock tick event")
			// fresher data wins over the tick
			if s.applyPendingInput() {
				return nil
			}
			if err := s.refreshDisplay(false); err != nil {
				return err
			}
		case ev := <-buttonChannel:
			logrus.Debugf("Receive button event: %d, %d", ev.ButtonEventType, ev.PressStepCount)
			if ev.ButtonEventType == event.RELEASE_EVENT_TYPE && ev.PressStepCount < 5 {
				if err := s.setScreenOn(!s.screenOn); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			logrus.Infof("Stop requested: %v", context.Cause(ctx))
			return nil
		}
	}
}

// applyPendingInput applies the input events already waiting and reports
// whether the input ended.
func (s *ServerApp) applyPendingInput() bool {
	for {
		select {
		case ev := <-s.inputDevice.EventChannel():
			if s.applyStateEvent(ev) {
				return true
			}
		default:
			return false
		}
	}
}

// applyStateEvent folds ev into the display state and reports whether it
// ended the input stream.
func (s *ServerApp) applyStateEvent(ev event.StateEvent) bool {
	switch data := ev.Data.(type) {
	case event.StateEventNewReadingData:
		logrus.Debugf("Receive reading: %s", data.Reading)
	case event.StateEventParseFailedData:
		logrus.Warnf("Rejected input line: %v", data.Err)
	case event.StateEventStreamEndedData:
		if data.Err != nil {
			logrus.Warnf("Input stream failed: %v", data.Err)
		} else if !s.displayState.Ended() {
			logrus.Infof("End of input stream")
		}
		s.displayState.Apply(ev)
		return true
	case event.StateEventSystemSampledData:
		logrus.Debugf("Receive system sample: %+v", data.Info)
	}
	s.displayState.Apply(ev)
	return false
}

func (s *ServerApp) setScreenOn(on bool) error {
	logrus.Infof("Switch screen on: %v", on)
	err := s.retryPolicy.Do(s.clock, "switch", func() error {
		return s.screen.SetOn(on)
	})
	if err != nil {
		return err
	}
	s.screenOn = on
	return nil
}
