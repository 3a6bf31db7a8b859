// Package task runs cooperative futures on top of the core clock.
//
// There are no goroutines on the device: every task is a Future polled by
// the Executor when its waker has fired. Wakers may fire from interrupt
// context (the compare-match handler), so the ready set is only touched
// inside a critical section.
package task

import (
	"errors"

	"avrtick/core"
)

const MaxSlots = 32 // ready set is a uint32 bitmask

var (
	ErrNoFreeSlot = errors.New("no free task slot")
	ErrSlotCount  = errors.New("task slot count must be 1-32")
)

// Future is a unit of cooperative work. Poll returns true once the work is
// complete. A future that returns false must have arranged for w to be
// woken, otherwise it is never polled again.
type Future interface {
	Poll(w core.Waker) bool
}

// FuncFuture adapts a plain function to the Future interface
type FuncFuture func(w core.Waker) bool

func (f FuncFuture) Poll(w core.Waker) bool {
	return f(w)
}

// slotWaker marks one slot ready
type slotWaker struct {
	e   *Executor
	bit uint32
}

func (w *slotWaker) Wake() {
	state := core.DisableInterrupts()
	w.e.ready |= w.bit
	core.RestoreInterrupts(state)
}

type slot struct {
	future Future
	waker  slotWaker
}

// Executor polls a fixed number of task slots
type Executor struct {
	slots []slot
	ready uint32
}

// NewExecutor creates an executor with the given number of task slots.
// All storage is allocated here.
func NewExecutor(slots int) (*Executor, error) {
	if slots < 1 || slots > MaxSlots {
		return nil, ErrSlotCount
	}
	e := &Executor{slots: make([]slot, slots)}
	for i := range e.slots {
		e.slots[i].waker = slotWaker{e: e, bit: 1 << uint(i)}
	}
	return e, nil
}

// Spawn places f in a free slot and schedules its first poll
func (e *Executor) Spawn(f Future) error {
	for i := range e.slots {
		s := &e.slots[i]
		if s.future != nil {
			continue
		}
		s.future = f
		s.waker.Wake()
		return nil
	}
	return ErrNoFreeSlot
}

// RunOnce polls every task that has been woken since the last call and
// returns how many were polled. Completed tasks free their slot.
func (e *Executor) RunOnce() int {
	state := core.DisableInterrupts()
	ready := e.ready
	e.ready = 0
	core.RestoreInterrupts(state)

	polled := 0
	for i := range e.slots {
		if ready&(1<<uint(i)) == 0 {
			continue
		}
		s := &e.slots[i]
		if s.future == nil {
			continue
		}
		polled++
		if s.future.Poll(&s.waker) {
			s.future = nil
		}
	}
	return polled
}

// Pending returns the number of tasks that have not completed
func (e *Executor) Pending() int {
	n := 0
	for i := range e.slots {
		if e.slots[i].future != nil {
			n++
		}
	}
	return n
}

// Run polls tasks forever. idle, if set, is called whenever a pass found
// nothing to do; on the device it puts the core to sleep until the next
// interrupt.
func (e *Executor) Run(idle func()) {
	for {
		if e.RunOnce() == 0 && idle != nil {
			idle()
		}
	}
}
