//go:build !tinygo

package core

// loadCounter reads a shared counter (regular Go implementation)
func loadCounter(p *uint32) uint32 {
	return *p
}

// storeCounter writes a shared counter (regular Go implementation)
func storeCounter(p *uint32, v uint32) {
	*p = v
}
