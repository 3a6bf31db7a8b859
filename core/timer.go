package core

import "errors"

var ErrAlreadyInitialized = errors.New("timer already initialized")

// Clock keeps software time on top of one 8-bit hardware counter.
//
// The overflow handler is the only writer of overflows and the compare-match
// handler is the only writer of elapsed and the wait queue. Foreground code
// reads them inside a critical section, except MicrosNoInterrupt whose caller
// must already be inside one.
type Clock struct {
	regs   *TimerRegisters
	timing Timing
	cfg    TimerConfig

	overflows uint32 // Full counter wraps since Init
	elapsed   uint32 // Milliseconds since Init
	dropped   uint32 // Registrations rejected with ErrQueueFull
	waiters   *WaitQueue
	fire      func(deadline uint32, w Waker) // bound once; interrupts must not allocate

	initialized bool
}

// NewClock validates cfg and claims the registers of drv.
// No register is written until Init.
func NewClock(cfg TimerConfig, drv TimerDriver) (*Clock, error) {
	cfg.applyDefaults()
	timing, err := cfg.Timing()
	if err != nil {
		return nil, err
	}
	regs, err := ClaimRegisters(drv)
	if err != nil {
		return nil, err
	}
	c := &Clock{
		regs:    regs,
		timing:  timing,
		cfg:     cfg,
		waiters: NewWaitQueue(cfg.WakeCapacity),
	}
	c.fire = c.fireWaker
	return c, nil
}

// Timing returns the derived clock constants
func (c *Clock) Timing() Timing {
	return c.timing
}

// Init programs the counter and resets software time to zero.
// It must run once before any other method.
func (c *Clock) Init() error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if c.initialized {
		return ErrAlreadyInitialized
	}

	drv := c.regs.drv
	if err := drv.ConfigurePrescaler(c.cfg.Prescaler); err != nil {
		return err
	}
	drv.SetCounter(0)
	drv.EnableInterrupts(FlagOverflow | FlagCompareMatch)
	drv.SetCompare(c.timing.TicksPerMilli)

	storeCounter(&c.overflows, 0)
	storeCounter(&c.elapsed, 0)
	storeCounter(&c.dropped, 0)
	c.waiters.Reset()
	c.initialized = true

	RecordTiming(EvtTimerInit, 0, c.timing.TickMicros, uint32(c.timing.TicksPerMilli))
	DebugPrintln("[TIMER] init tick_us=" + utoa(c.timing.TickMicros) +
		" ticks_per_ms=" + utoa(uint32(c.timing.TicksPerMilli)))
	return nil
}

// Attach binds the clock's interrupt handlers to their vectors
func (c *Clock) Attach(ic InterruptController) {
	ic.Attach(VectorOverflow, c.HandleOverflow)
	ic.Attach(VectorCompareMatch, c.HandleCompareMatch)
}

// Micros returns microseconds since Init. Wraps after about 71 minutes.
func (c *Clock) Micros() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return c.MicrosNoInterrupt()
}

// MicrosNoInterrupt is Micros for callers that already disabled interrupts.
//
// While interrupts are off the counter keeps wrapping but the overflow
// handler cannot run, so the pending overflow flag is added in. If the wrap
// happens between reading the counter and the flag the result is one wrap
// too large until the handler has run.
func (c *Clock) MicrosNoInterrupt() uint32 {
	count := c.regs.counter()
	pending := c.regs.overflowPending()
	return count*c.timing.TickMicros + (loadCounter(&c.overflows)+pending)*c.timing.WrapMicros
}

// Millis returns milliseconds since Init. Wraps after about 49.7 days.
func (c *Clock) Millis() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return loadCounter(&c.elapsed)
}

// Dropped returns how many registrations were rejected because the queue was full
func (c *Clock) Dropped() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return loadCounter(&c.dropped)
}

// Overflows returns the number of counter wraps handled since Init
func (c *Clock) Overflows() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return loadCounter(&c.overflows)
}

// PendingWakers returns the number of queued timed wakers
func (c *Clock) PendingWakers() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return c.waiters.Len()
}

// RegisterTimedWaker queues w to be woken once Millis() exceeds deadline.
// A waker registered for deadline D is woken by the compare match that takes
// elapsed time to D+1. Returns ErrQueueFull when no slot is free, in which
// case w is never woken by the clock.
func (c *Clock) RegisterTimedWaker(deadline uint32, w Waker) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	now := loadCounter(&c.elapsed)
	if err := c.waiters.Push(deadline, w); err != nil {
		storeCounter(&c.dropped, loadCounter(&c.dropped)+1)
		RecordTiming(EvtWakeDropped, now, deadline, uint32(c.waiters.Cap()))
		return err
	}
	RecordTiming(EvtWakeQueued, now, deadline, uint32(c.waiters.Len()))
	return nil
}

// HandleOverflow is the counter overflow interrupt handler
func (c *Clock) HandleOverflow() {
	storeCounter(&c.overflows, loadCounter(&c.overflows)+1)
}

// HandleCompareMatch is the compare-match interrupt handler. It advances
// elapsed time by one millisecond, wakes every waker whose deadline is now
// in the past and moves the compare point one millisecond forward.
func (c *Clock) HandleCompareMatch() {
	now := loadCounter(&c.elapsed) + 1
	storeCounter(&c.elapsed, now)

	if now > c.waiters.Min() {
		c.waiters.TakeLessThan(now, c.fire)
	}

	c.regs.advanceCompare(c.timing.TicksPerMilli)
}

func (c *Clock) fireWaker(deadline uint32, w Waker) {
	RecordTiming(EvtWakeFired, loadCounter(&c.elapsed), deadline, 0)
	w.Wake()
}
