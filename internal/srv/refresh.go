package srv

import (
	"github.com/sirupsen/logrus"
)

// refreshDisplay renders the current state and pushes it unless the screen
// already shows the same pixels. force pushes in any case.
func (s *ServerApp) refreshDisplay(force bool) error {
	frame := s.renderer.Render(*s.displayState, s.clock.Now())
	if !force && frame.Equal(s.lastFrame) {
		return nil
	}

	err := s.retryPolicy.Do(s.clock, "push", func() error {
		return s.screen.Push(frame)
	})
	if err != nil {
		logrus.Errorf("Unable to refresh display: %v", err)
		return err
	}
	s.lastFrame = frame
	logrus.Debugf("Frame pushed (%d lit pixels)", frame.LitCount())
	return nil
}
