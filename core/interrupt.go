package core

// DisableInterrupts starts a critical section and returns the state to
// hand back to RestoreInterrupts. Critical sections may nest.
func DisableInterrupts() State {
	return disableInterrupts()
}

// RestoreInterrupts ends a critical section started by DisableInterrupts
func RestoreInterrupts(state State) {
	restoreInterrupts(state)
}
