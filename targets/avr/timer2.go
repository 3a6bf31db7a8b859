//go:build arduino || arduino_nano

package main

import (
	"device/avr"
	"errors"
	"runtime/interrupt"

	"avrtick/core"
)

// Timer/Counter2 is used rather than Timer0 because the TinyGo runtime
// may own Timer0, and Timer2 supports every prescaler TimerConfig accepts.
//
// TIMSK2 (TOIE2, OCIE2A) and TIFR2 (TOV2, OCF2A) use the same bit positions
// as core.FlagOverflow and core.FlagCompareMatch.

var errPrescaler = errors.New("timer2: unsupported prescaler")

// timer2 implements core.TimerDriver over the ATmega328P Timer/Counter2 registers
type timer2 struct{}

func (timer2) ConfigurePrescaler(prescaler uint16) error {
	var cs uint8
	switch prescaler {
	case 1:
		cs = 1
	case 8:
		cs = 2
	case 32:
		cs = 3
	case 64:
		cs = 4
	case 128:
		cs = 5
	case 256:
		cs = 6
	case 1024:
		cs = 7
	default:
		return errPrescaler
	}
	avr.TCCR2A.Set(0) // Normal mode, outputs disconnected
	avr.TCCR2B.Set(cs)
	return nil
}

func (timer2) Counter() uint8 {
	return avr.TCNT2.Get()
}

func (timer2) SetCounter(v uint8) {
	avr.TCNT2.Set(v)
}

func (timer2) Flags() uint8 {
	return avr.TIFR2.Get()
}

func (timer2) EnableInterrupts(mask uint8) {
	avr.TIMSK2.Set(mask & (core.FlagOverflow | core.FlagCompareMatch))
}

func (timer2) Compare() uint8 {
	return avr.OCR2A.Get()
}

func (timer2) SetCompare(v uint8) {
	avr.OCR2A.Set(v)
}

var (
	overflowHandler func()
	compareHandler  func()
)

// timer2Interrupts implements core.InterruptController. TinyGo binds
// vectors at compile time, so each vector has a fixed trampoline that
// calls whatever handler was attached.
type timer2Interrupts struct{}

func (timer2Interrupts) Attach(v core.Vector, handler func()) {
	switch v {
	case core.VectorOverflow:
		overflowHandler = handler
		interrupt.New(avr.IRQ_TIMER2_OVF, func(interrupt.Interrupt) {
			overflowHandler()
		})
	case core.VectorCompareMatch:
		compareHandler = handler
		interrupt.New(avr.IRQ_TIMER2_COMPA, func(interrupt.Interrupt) {
			compareHandler()
		})
	}
}
