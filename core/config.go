package core

import "errors"

var (
	ErrInvalidPrescaler = errors.New("prescaler must be one of 1, 8, 32, 64, 128, 256, 1024")
	ErrTickNotWhole     = errors.New("timer tick is not a whole number of microseconds")
	ErrTicksPerMilli    = errors.New("one millisecond must be 1-255 whole timer ticks")
	ErrWakeCapacity     = errors.New("wake queue capacity must be at least 1")
)

// Defaults for an ATmega328P at 16MHz.
// Prescaler 64 gives 4us per tick, a wrap every 256 ticks (1024us)
// and 250 ticks per millisecond.
const (
	DefaultCPUFrequency = 16000000
	DefaultPrescaler    = 64
	DefaultWakeCapacity = 8
)

// TimerConfig describes how the 8-bit counter is clocked
type TimerConfig struct {
	CPUFrequency uint32 // Core clock in Hz
	Prescaler    uint16 // Counter clock divisor
	WakeCapacity int    // Maximum number of pending timed wakers
}

// Timing holds the constants derived from a TimerConfig
type Timing struct {
	TickMicros    uint32 // Microseconds per counter tick
	WrapMicros    uint32 // Microseconds per full 256-tick wrap
	TicksPerMilli uint8  // Compare-match interval
}

// DefaultTimerConfig returns the configuration used by the AVR target
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		CPUFrequency: DefaultCPUFrequency,
		Prescaler:    DefaultPrescaler,
		WakeCapacity: DefaultWakeCapacity,
	}
}

// applyDefaults fills in missing configuration values
func (c *TimerConfig) applyDefaults() {
	if c.CPUFrequency == 0 {
		c.CPUFrequency = DefaultCPUFrequency
	}
	if c.Prescaler == 0 {
		c.Prescaler = DefaultPrescaler
	}
	if c.WakeCapacity == 0 {
		c.WakeCapacity = DefaultWakeCapacity
	}
}

// Timing validates the configuration and derives the clock constants.
// Only configurations whose tick and millisecond interval are exact are accepted,
// so the clock never accumulates rounding error.
func (c TimerConfig) Timing() (Timing, error) {
	c.applyDefaults()

	switch c.Prescaler {
	case 1, 8, 32, 64, 128, 256, 1024:
	default:
		return Timing{}, ErrInvalidPrescaler
	}
	if c.WakeCapacity < 1 {
		return Timing{}, ErrWakeCapacity
	}

	// tick = prescaler / f seconds = prescaler * 1e6 / f microseconds
	num := uint64(c.Prescaler) * 1000000
	if num%uint64(c.CPUFrequency) != 0 {
		return Timing{}, ErrTickNotWhole
	}
	tick := uint32(num / uint64(c.CPUFrequency))
	if tick == 0 || 1000%tick != 0 {
		return Timing{}, ErrTicksPerMilli
	}
	perMilli := 1000 / tick
	if perMilli > 255 {
		return Timing{}, ErrTicksPerMilli
	}

	return Timing{
		TickMicros:    tick,
		WrapMicros:    tick * 256,
		TicksPerMilli: uint8(perMilli),
	}, nil
}
