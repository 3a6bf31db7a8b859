package serial

import (
	"errors"
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; must match the firmware's UART setting
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is the UART rate used by the AVR firmware
const DefaultBaud = 115200

// DefaultConfig returns a default configuration for an AVR board
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 500, // Reports arrive every 250ms
	}
}

// IgnoreTimeouts wraps r so that a read returning no data with io.EOF,
// which is how tarm/serial reports an expired ReadTimeout, yields (0, nil).
// A read that returns data keeps its error.
func IgnoreTimeouts(r io.Reader) io.Reader {
	return timeoutReader{r: r}
}

type timeoutReader struct {
	r io.Reader
}

func (t timeoutReader) Read(b []byte) (int, error) {
	n, err := t.r.Read(b)
	if n == 0 && errors.Is(err, io.EOF) {
		return 0, nil
	}
	return n, err
}
