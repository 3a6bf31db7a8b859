package core

import (
	"errors"
	"testing"
)

func TestTimerConfigTiming(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      TimerConfig
		expected Timing
		err      error
	}{
		{"defaults", TimerConfig{}, Timing{TickMicros: 4, WrapMicros: 1024, TicksPerMilli: 250}, nil},
		{"16MHz/64", DefaultTimerConfig(), Timing{TickMicros: 4, WrapMicros: 1024, TicksPerMilli: 250}, nil},
		{"8MHz/64", TimerConfig{CPUFrequency: 8000000, Prescaler: 64}, Timing{TickMicros: 8, WrapMicros: 2048, TicksPerMilli: 125}, nil},
		{"16MHz/128", TimerConfig{CPUFrequency: 16000000, Prescaler: 128}, Timing{TickMicros: 8, WrapMicros: 2048, TicksPerMilli: 125}, nil},
		{"bad prescaler", TimerConfig{Prescaler: 100}, Timing{}, ErrInvalidPrescaler},
		{"fractional tick", TimerConfig{CPUFrequency: 16000000, Prescaler: 8}, Timing{}, ErrTickNotWhole},
		{"tick does not divide 1ms", TimerConfig{CPUFrequency: 16000000, Prescaler: 256}, Timing{}, ErrTicksPerMilli},
		{"too many ticks per ms", TimerConfig{CPUFrequency: 1000000, Prescaler: 1}, Timing{}, ErrTicksPerMilli},
		{"negative capacity", TimerConfig{WakeCapacity: -1}, Timing{}, ErrWakeCapacity},
	}

	for _, tc := range testCases {
		timing, err := tc.cfg.Timing()
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: expected error %v, got %v", tc.name, tc.err, err)
			continue
		}
		if timing != tc.expected {
			t.Errorf("%s: expected %+v, got %+v", tc.name, tc.expected, timing)
		}
	}
}

func TestTimerConfigDefaults(t *testing.T) {
	cfg := TimerConfig{}
	cfg.applyDefaults()

	if cfg != DefaultTimerConfig() {
		t.Errorf("Expected defaults %+v, got %+v", DefaultTimerConfig(), cfg)
	}
}

func TestClockUsesConfiguredCapacity(t *testing.T) {
	clock, _, _ := newTestClock(t, TimerConfig{WakeCapacity: 3})

	if clock.waiters.Cap() != 3 {
		t.Errorf("Expected capacity 3, got %d", clock.waiters.Cap())
	}
	if clock.Timing().TicksPerMilli != 250 {
		t.Errorf("Expected default timing, got %+v", clock.Timing())
	}
}
