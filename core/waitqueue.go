package core

import (
	"errors"
	"math"
)

var ErrQueueFull = errors.New("wait queue full")

// waitEntry is a pending wake request
type waitEntry struct {
	deadline uint32
	waker    Waker
}

// WaitQueue is a bounded set of (deadline, waker) pairs that tracks its
// smallest deadline. Storage is allocated once so the queue can be
// drained from the compare-match interrupt.
type WaitQueue struct {
	entries []waitEntry
	min     uint32
}

// NewWaitQueue creates an empty queue holding at most capacity entries
func NewWaitQueue(capacity int) *WaitQueue {
	return &WaitQueue{
		entries: make([]waitEntry, 0, capacity),
		min:     math.MaxUint32,
	}
}

// Push adds a wake request. Deadlines do not need to be unique.
func (q *WaitQueue) Push(deadline uint32, w Waker) error {
	if len(q.entries) == cap(q.entries) {
		return ErrQueueFull
	}
	q.entries = append(q.entries, waitEntry{deadline: deadline, waker: w})
	if deadline < q.min {
		q.min = deadline
	}
	return nil
}

// Min returns the smallest pending deadline, or math.MaxUint32 when empty
func (q *WaitQueue) Min() uint32 {
	return q.min
}

// Len returns the number of pending entries
func (q *WaitQueue) Len() int {
	return len(q.entries)
}

// Cap returns the fixed capacity
func (q *WaitQueue) Cap() int {
	return cap(q.entries)
}

// TakeLessThan removes every entry whose deadline is below threshold and
// passes it to yield. Order across entries is unspecified. Entries pushed
// from inside yield are kept for the next call, so a drain visits at most
// the entries present when it started.
func (q *WaitQueue) TakeLessThan(threshold uint32, yield func(deadline uint32, w Waker)) {
	// Walk down so swap-remove only ever moves a visited or newly pushed
	// entry into the current slot
	for i := len(q.entries) - 1; i >= 0; i-- {
		e := q.entries[i]
		if e.deadline >= threshold {
			continue
		}
		last := len(q.entries) - 1
		q.entries[i] = q.entries[last]
		q.entries[last] = waitEntry{}
		q.entries = q.entries[:last]
		yield(e.deadline, e.waker)
	}

	lowest := uint32(math.MaxUint32)
	for _, e := range q.entries {
		if e.deadline < lowest {
			lowest = e.deadline
		}
	}
	q.min = lowest
}

// Reset drops every pending entry without waking it
func (q *WaitQueue) Reset() {
	for i := range q.entries {
		q.entries[i] = waitEntry{}
	}
	q.entries = q.entries[:0]
	q.min = math.MaxUint32
}
