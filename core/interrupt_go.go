//go:build !tinygo

package core

// State is the saved interrupt-enable flag on regular Go
type State uintptr

// interruptsDisabled emulates the global interrupt flag for host tests.
// There is a single core, so no locking.
var interruptsDisabled bool

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() State {
	prev := State(0)
	if interruptsDisabled {
		prev = 1
	}
	interruptsDisabled = true
	return prev
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state State) {
	interruptsDisabled = state != 0
}

// InterruptsDisabled reports whether the caller is inside a critical section
func InterruptsDisabled() bool {
	return interruptsDisabled
}
