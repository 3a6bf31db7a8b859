//go:build arduino || arduino_nano

package main

import (
	"device/avr"
	"machine"

	"avrtick/core"
	"avrtick/protocol"
	"avrtick/task"
)

const (
	baudRate       = 115200
	reportPeriodMS = 250
	blinkPeriodMS  = 500
	taskSlots      = 4
)

func main() {
	machine.UART0.Configure(machine.UARTConfig{BaudRate: baudRate})
	// Debug text shares UART0 with report frames. Only halt writes it, and
	// halt never runs once the executor has started; the host scanner
	// resyncs past stray text anyway.
	core.SetDebugWriter(func(s string) {
		machine.UART0.Write([]byte(s))
		machine.UART0.Write([]byte("\r\n"))
	})

	clock, err := core.NewClock(core.DefaultTimerConfig(), timer2{})
	if err != nil {
		halt()
	}
	// Handlers must be bound before Init unmasks the interrupts
	clock.Attach(timer2Interrupts{})
	if err := clock.Init(); err != nil {
		halt()
	}

	executor, err := task.NewExecutor(taskSlots)
	if err != nil {
		halt()
	}

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	executor.Spawn(task.NewEvery(clock, blinkPeriodMS, func() bool {
		led.Set(!led.Get())
		return true
	}))
	executor.Spawn(newReporter(clock, reportPeriodMS))
	executor.Spawn(newUptimeDisplay(clock, machine.D2, machine.D3))

	executor.Run(sleepUntilInterrupt)
}

// sleepUntilInterrupt idles the core. A wake that lands between the last
// poll and the sleep instruction is picked up after the next compare match,
// at most one millisecond later.
func sleepUntilInterrupt() {
	avr.SMCR.Set(avr.SMCR_SE) // Idle mode
	avr.Asm("sleep")
	avr.SMCR.Set(0)
}

// halt stops the firmware with the LED lit
func halt() {
	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	machine.LED.High()
	core.DumpTimingRing()
	for {
		avr.Asm("sleep")
	}
}

// newReporter sends a clock report frame every period milliseconds
func newReporter(clock *core.Clock, period uint32) task.Future {
	out := protocol.NewScratchOutput()
	var seq uint8
	var lastDropped uint32

	return task.NewEvery(clock, period, func() bool {
		// Both timestamps from the same instant
		state := core.DisableInterrupts()
		report := protocol.ClockReport{
			Seq:       seq,
			Millis:    clock.Millis(),
			Micros:    clock.MicrosNoInterrupt(),
			Overflows: clock.Overflows(),
			Dropped:   clock.Dropped(),
			Pending:   uint32(clock.PendingWakers()),
		}
		core.RestoreInterrupts(state)

		out.Reset()
		protocol.EncodeClockReport(out, report)
		machine.UART0.Write(out.Result())
		seq++

		if report.Dropped != lastDropped {
			core.DebugPrintln("[TIMER] wake queue full")
			lastDropped = report.Dropped
		}
		return true
	})
}
