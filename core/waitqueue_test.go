package core

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func TestWaitQueueEmpty(t *testing.T) {
	q := NewWaitQueue(4)

	if q.Min() != math.MaxUint32 {
		t.Errorf("Expected empty min to be MaxUint32, got %d", q.Min())
	}
	if q.Len() != 0 || q.Cap() != 4 {
		t.Errorf("Expected len 0 cap 4, got len %d cap %d", q.Len(), q.Cap())
	}

	called := false
	q.TakeLessThan(math.MaxUint32, func(uint32, Waker) { called = true })
	if called {
		t.Error("Drain of empty queue yielded an entry")
	}
}

func TestWaitQueueTracksMin(t *testing.T) {
	q := NewWaitQueue(4)
	w := WakerFunc(func() {})

	q.Push(30, w)
	q.Push(10, w)
	q.Push(20, w)
	if q.Min() != 10 {
		t.Errorf("Expected min 10, got %d", q.Min())
	}

	q.TakeLessThan(15, func(uint32, Waker) {})
	if q.Min() != 20 {
		t.Errorf("Expected min 20 after drain, got %d", q.Min())
	}

	q.TakeLessThan(100, func(uint32, Waker) {})
	if q.Min() != math.MaxUint32 {
		t.Errorf("Expected min reset after full drain, got %d", q.Min())
	}
}

func TestWaitQueueTakeLessThan(t *testing.T) {
	q := NewWaitQueue(8)
	w := WakerFunc(func() {})

	for _, d := range []uint32{5, 1, 9, 5, 3, 7} {
		if err := q.Push(d, w); err != nil {
			t.Fatalf("Push(%d) failed: %v", d, err)
		}
	}

	var taken []int
	q.TakeLessThan(6, func(d uint32, _ Waker) { taken = append(taken, int(d)) })
	sort.Ints(taken)

	expected := []int{1, 3, 5, 5}
	if len(taken) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, taken)
	}
	for i := range expected {
		if taken[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, taken)
			break
		}
	}
	if q.Len() != 2 {
		t.Errorf("Expected 2 remaining entries, got %d", q.Len())
	}

	// Threshold is exclusive
	count := 0
	q.TakeLessThan(7, func(uint32, Waker) { count++ })
	if count != 0 {
		t.Errorf("Entry equal to threshold was taken")
	}
}

func TestWaitQueuePushDuringTake(t *testing.T) {
	q := NewWaitQueue(4)
	w := WakerFunc(func() {})
	q.Push(2, w)
	q.Push(8, w)

	var taken []uint32
	yield := func(d uint32, w Waker) {
		taken = append(taken, d)
		// Already overdue, but must wait for the next drain
		q.Push(0, w)
	}
	q.TakeLessThan(5, yield)

	if len(taken) != 1 || taken[0] != 2 {
		t.Fatalf("Expected only deadline 2 taken, got %v", taken)
	}
	if q.Len() != 2 {
		t.Errorf("Expected 2 entries after drain, got %d", q.Len())
	}
	if q.Min() != 0 {
		t.Errorf("Expected min 0 from entry pushed during drain, got %d", q.Min())
	}

	taken = nil
	q.TakeLessThan(5, func(d uint32, _ Waker) { taken = append(taken, d) })
	if len(taken) != 1 || taken[0] != 0 {
		t.Errorf("Expected deadline 0 taken on the next drain, got %v", taken)
	}
	if q.Min() != 8 {
		t.Errorf("Expected min 8, got %d", q.Min())
	}
}

func TestWaitQueueFull(t *testing.T) {
	q := NewWaitQueue(2)
	w := WakerFunc(func() {})

	q.Push(1, w)
	q.Push(2, w)
	if err := q.Push(3, w); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
	if q.Min() != 1 {
		t.Errorf("Rejected push changed min to %d", q.Min())
	}
}

func TestWaitQueueReset(t *testing.T) {
	q := NewWaitQueue(2)
	woken := false
	q.Push(1, WakerFunc(func() { woken = true }))

	q.Reset()
	if q.Len() != 0 || q.Min() != math.MaxUint32 {
		t.Errorf("Reset left len %d min %d", q.Len(), q.Min())
	}
	if woken {
		t.Error("Reset woke a pending waker")
	}
}
