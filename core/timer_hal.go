package core

import "errors"

// Flag and interrupt-mask bits of an 8-bit timer/counter.
// Positions match the AVR TIFRn/TIMSKn layout (TOVn, OCFnA).
const (
	FlagOverflow     uint8 = 1 << 0
	FlagCompareMatch uint8 = 1 << 1
)

// Vector identifies one of the timer interrupt sources
type Vector uint8

const (
	VectorOverflow Vector = iota
	VectorCompareMatch
)

var ErrRegistersClaimed = errors.New("timer registers already claimed")

// TimerDriver is the abstract 8-bit timer/counter interface that core code uses.
// Platform-specific implementations handle actual register access.
type TimerDriver interface {
	// ConfigurePrescaler selects the clock divisor feeding the counter
	ConfigurePrescaler(prescaler uint16) error

	// Counter reads the live counter value
	Counter() uint8

	// SetCounter writes the counter value
	SetCounter(v uint8)

	// Flags reads the interrupt flag register (FlagOverflow, FlagCompareMatch)
	Flags() uint8

	// EnableInterrupts writes the interrupt mask register
	EnableInterrupts(mask uint8)

	// Compare reads the compare-target register
	Compare() uint8

	// SetCompare writes the compare-target register
	SetCompare(v uint8)
}

// InterruptController binds timer interrupt vectors to handlers.
type InterruptController interface {
	Attach(v Vector, handler func())
}

// TimerRegisters is the exclusive accessor for one TimerDriver.
// Only one TimerRegisters can exist per driver; see ClaimRegisters.
type TimerRegisters struct {
	drv TimerDriver
}

var claimedDrivers []TimerDriver

// ClaimRegisters hands out the register accessor for drv exactly once.
// Drivers are told apart with ==, so drv must be a pointer or a comparable
// value such as an empty struct; a struct holding a slice or map panics.
func ClaimRegisters(drv TimerDriver) (*TimerRegisters, error) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for _, d := range claimedDrivers {
		if d == drv {
			return nil, ErrRegistersClaimed
		}
	}
	claimedDrivers = append(claimedDrivers, drv)
	return &TimerRegisters{drv: drv}, nil
}

// counter reads the live counter value
func (r *TimerRegisters) counter() uint32 {
	return uint32(r.drv.Counter())
}

// overflowPending returns 1 if an overflow has happened that the
// handler has not accounted for yet
func (r *TimerRegisters) overflowPending() uint32 {
	return uint32(r.drv.Flags() & FlagOverflow)
}

// advanceCompare moves the compare target forward; the 8-bit register wraps
func (r *TimerRegisters) advanceCompare(ticks uint8) {
	r.drv.SetCompare(r.drv.Compare() + ticks)
}
