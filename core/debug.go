package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a clock event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Millis    uint32 // Elapsed milliseconds at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtTimerInit   = 1 // Hardware timer configured (v1=tick us, v2=ticks per ms)
	EvtWakeQueued  = 2 // Timed waker registered (v1=deadline, v2=queue length)
	EvtWakeFired   = 3 // Timed waker woken from compare match (v1=deadline)
	EvtWakeDropped = 4 // Registration rejected, queue full (v1=deadline, v2=capacity)
)

const (
	TimingRingSize = 16 // Keep last 16 events; RAM is scarce on AVR
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer. Written from interrupt context or with
	// interrupts disabled, never both at once.
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  bool = true
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled turns capture into the timing ring on or off
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures a timing event in the ring buffer.
// Never blocks; safe to call from the compare-match handler.
func RecordTiming(eventType uint8, millis, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Millis:    millis,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the captured events from oldest to newest
func TimingEvents() []TimingEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpTimingRing outputs the timing ring buffer through the debug writer
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		var name string
		switch evt.EventType {
		case EvtTimerInit:
			name = "TIMER_INIT"
		case EvtWakeQueued:
			name = "WAKE_QUEUED"
		case EvtWakeFired:
			name = "WAKE_FIRED"
		case EvtWakeDropped:
			name = "WAKE_DROPPED!"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TIMING] " + name +
			" ms=" + utoa(evt.Millis) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
