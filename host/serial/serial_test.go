package serial

import (
	"errors"
	"io"
	"testing"
)

// scriptedReader returns one canned result per Read call
type scriptedReader struct {
	reads []scriptedRead
}

type scriptedRead struct {
	data []byte
	err  error
}

func (r *scriptedReader) Read(b []byte) (int, error) {
	if len(r.reads) == 0 {
		return 0, io.ErrClosedPipe
	}
	next := r.reads[0]
	r.reads = r.reads[1:]
	return copy(b, next.data), next.err
}

func TestIgnoreTimeouts(t *testing.T) {
	failure := errors.New("device unplugged")
	reader := IgnoreTimeouts(&scriptedReader{reads: []scriptedRead{
		{nil, io.EOF},             // Read timeout
		{[]byte{1, 2, 3}, io.EOF}, // Data keeps its error
		{nil, failure},
	}})

	tests := []struct {
		name    string
		wantN   int
		wantErr error
	}{
		{"timeout", 0, nil},
		{"data with EOF", 3, io.EOF},
		{"read error", 0, failure},
	}

	buf := make([]byte, 8)
	for _, tt := range tests {
		n, err := reader.Read(buf)
		if n != tt.wantN || !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
			t.Errorf("%s: got (%d, %v), expected (%d, %v)", tt.name, n, err, tt.wantN, tt.wantErr)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" || cfg.Baud != DefaultBaud {
		t.Errorf("Unexpected default config %+v", cfg)
	}
	if cfg.ReadTimeout <= 0 {
		t.Errorf("Expected a read timeout, got %d", cfg.ReadTimeout)
	}
}
