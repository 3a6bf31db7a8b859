//go:build arduino || arduino_nano

package main

import (
	"machine"

	"avrtick/core"
	"avrtick/task"

	"tinygo.org/x/drivers/tm1637"
)

const displayBrightness = 2

// newUptimeDisplay shows mm:ss since boot on a TM1637 4-digit module,
// rolling over every hour
func newUptimeDisplay(clock *core.Clock, clk, dio machine.Pin) task.Future {
	display := tm1637.New(clk, dio, displayBrightness)
	display.Configure()
	display.DisplayClock(0, 0, true)

	return task.NewEvery(clock, 1000, func() bool {
		seconds := clock.Millis() / 1000
		display.DisplayClock(uint8(seconds/60%60), uint8(seconds%60), seconds%2 == 0)
		return true
	})
}
