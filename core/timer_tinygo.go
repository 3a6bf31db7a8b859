//go:build tinygo

package core

import "runtime/volatile"

// loadCounter reads a counter shared with an interrupt handler
func loadCounter(p *uint32) uint32 {
	return volatile.LoadUint32(p)
}

// storeCounter writes a counter shared with an interrupt handler
func storeCounter(p *uint32, v uint32) {
	volatile.StoreUint32(p, v)
}
