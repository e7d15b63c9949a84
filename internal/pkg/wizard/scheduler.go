package wizard

import (
	"time"

	"github.com/benbjohnson/clock"
)

// ClockScheduler implements Scheduler on top of a clock.
type ClockScheduler struct {
	clock clock.Clock
}

// NewClockScheduler returns a scheduler backed by c, or by the wall clock when c is nil.
func NewClockScheduler(c clock.Clock) *ClockScheduler {
	if c == nil {
		c = clock.New()
	}

	return &ClockScheduler{clock: c}
}

func (s *ClockScheduler) AfterFunc(d time.Duration, f func()) CancelFunc {
	return s.clock.AfterFunc(d, f).Stop
}
