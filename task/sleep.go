package task

import "avrtick/core"

// Sleep completes once the clock has advanced by a number of milliseconds
// counted from its first poll.
type Sleep struct {
	clock    *core.Clock
	duration uint32
	deadline uint32
	started  bool
}

// NewSleep creates a Sleep for ms milliseconds on clock
func NewSleep(clock *core.Clock, ms uint32) *Sleep {
	return &Sleep{clock: clock, duration: ms}
}

// Deadline returns the millisecond timestamp the sleep waits for.
// It is only meaningful after the first poll.
func (s *Sleep) Deadline() uint32 {
	return s.deadline
}

func (s *Sleep) Poll(w core.Waker) bool {
	now := s.clock.Millis()
	if !s.started {
		s.deadline = now + s.duration
		s.started = true
	}
	if due(now, s.deadline) {
		return true
	}
	if err := s.clock.RegisterTimedWaker(s.deadline, w); err != nil {
		// No room in the wait queue: poll again on the next pass
		w.Wake()
	}
	return false
}

// extend moves the deadline forward by ms without restarting from now,
// so periodic tasks do not accumulate drift
func (s *Sleep) extend(ms uint32) {
	s.deadline += ms
}

// due reports whether now has reached deadline, tolerating one wrap
func due(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}

// Every calls fn once per period until fn returns false
type Every struct {
	sleep  Sleep
	period uint32
	fn     func() bool
}

// NewEvery creates a periodic task; the first call happens one period
// after the first poll
func NewEvery(clock *core.Clock, periodMS uint32, fn func() bool) *Every {
	if periodMS == 0 {
		periodMS = 1
	}
	return &Every{
		sleep:  Sleep{clock: clock, duration: periodMS},
		period: periodMS,
		fn:     fn,
	}
}

func (e *Every) Poll(w core.Waker) bool {
	for e.sleep.Poll(w) {
		if !e.fn() {
			return true
		}
		e.sleep.extend(e.period)
	}
	return false
}
