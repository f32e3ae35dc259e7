package device

import (
	"fmt"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"time"
)

// RetryPolicy bounds how long a display write may keep the loop busy.
type RetryPolicy struct {
	Retries int
	Base    time.Duration
}

// Do runs fn until it succeeds. Transient failures are retried up to Retries
// times, sleeping Backoff(Base, attempt) in between; any other failure is
// returned at once.
func (p RetryPolicy) Do(clock clockwork.Clock, op string, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := Classify(op, fn())
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt >= p.Retries {
			return fmt.Errorf("giving up after %d attempts: %w", attempt+1, err)
		}

		delay := Backoff(p.Base, attempt)
		logrus.Warnf("%v, retry %d/%d in %v", err, attempt+1, p.Retries, delay)
		if delay > 0 {
			clock.Sleep(delay)
		}
	}
}
