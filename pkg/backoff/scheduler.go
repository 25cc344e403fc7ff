package backoff

import (
	"sync"
	"time"
)

// Scheduler arms a single one-shot timer for the next reconnect
// attempt. Arming replaces any pending timer; the callback runs on the
// timer-service goroutine, deliberately distinct from the driver's
// event-delivery path so issuing driver commands from it cannot
// deadlock against event handling.
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Arm schedules fn to run once after d, replacing any pending timer.
func (s *Scheduler) Arm(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		if s.timer == t {
			s.timer = nil
		}
		s.mu.Unlock()
		fn()
	})
	s.timer = t
}

// Cancel disarms any pending timer. A callback that has already begun
// executing is not interrupted.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Pending reports whether a timer is currently armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
