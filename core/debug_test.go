package core

import (
	"strings"
	"testing"
)

func TestTimingRingKeepsNewest(t *testing.T) {
	ClearTimingRing()
	defer ClearTimingRing()

	for i := uint32(0); i < TimingRingSize+4; i++ {
		RecordTiming(EvtWakeQueued, i, i, 0)
	}

	events := TimingEvents()
	if len(events) != TimingRingSize {
		t.Fatalf("Expected %d events, got %d", TimingRingSize, len(events))
	}
	if events[0].Millis != 4 {
		t.Errorf("Expected oldest event at 4ms, got %d", events[0].Millis)
	}
	if events[len(events)-1].Millis != TimingRingSize+3 {
		t.Errorf("Expected newest event at %dms, got %d", TimingRingSize+3, events[len(events)-1].Millis)
	}
}

func TestTimingDisabled(t *testing.T) {
	ClearTimingRing()
	SetTimingEnabled(false)
	defer SetTimingEnabled(true)

	RecordTiming(EvtWakeFired, 1, 2, 3)
	if len(TimingEvents()) != 0 {
		t.Error("Event recorded while timing capture was disabled")
	}
}

func TestDumpTimingRing(t *testing.T) {
	ClearTimingRing()
	defer ClearTimingRing()

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	RecordTiming(EvtWakeDropped, 42, 50, 8)
	DumpTimingRing()

	out := strings.Join(lines, "\n")
	if !strings.Contains(out, "WAKE_DROPPED! ms=42 v1=50 v2=8") {
		t.Errorf("Dump missing dropped event:\n%s", out)
	}
}

func TestDebugPrintlnGate(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	DebugPrintln("hidden")
	SetDebugEnabled(true)
	DebugPrintln("shown")
	SetDebugEnabled(false)

	if len(lines) != 1 || lines[0] != "shown" {
		t.Errorf("Expected only the enabled message, got %v", lines)
	}
}

func TestUtoa(t *testing.T) {
	testCases := map[uint32]string{
		0:          "0",
		7:          "7",
		250:        "250",
		4294967295: "4294967295",
	}
	for n, expected := range testCases {
		if got := utoa(n); got != expected {
			t.Errorf("utoa(%d) = %q, expected %q", n, got, expected)
		}
	}
}
