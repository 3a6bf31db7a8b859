package protocol

import "errors"

var ErrUnexpectedMessage = errors.New("payload is not a clock report")

// ClockReport is the MCU's periodic view of its own clock
type ClockReport struct {
	Seq       uint8  // Block sequence, wraps at 16
	Millis    uint32 // Elapsed milliseconds
	Micros    uint32 // Microsecond timestamp taken in the same critical section
	Overflows uint32 // Counter wraps handled
	Dropped   uint32 // Timed wakers rejected for a full queue
	Pending   uint32 // Timed wakers waiting
}

// EncodeClockReport writes r as one message block
func EncodeClockReport(output OutputBuffer, r ClockReport) {
	EncodeFrame(output, r.Seq, func(output OutputBuffer) {
		EncodeVLQUint(output, MsgClockReport)
		EncodeVLQUint(output, r.Millis)
		EncodeVLQUint(output, r.Micros)
		EncodeVLQUint(output, r.Overflows)
		EncodeVLQUint(output, r.Dropped)
		EncodeVLQUint(output, r.Pending)
	})
}

// ParseClockReport decodes the payload of a block produced by EncodeClockReport
func ParseClockReport(seq uint8, payload []byte) (ClockReport, error) {
	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return ClockReport{}, err
	}
	if id != MsgClockReport {
		return ClockReport{}, ErrUnexpectedMessage
	}

	r := ClockReport{Seq: seq}
	for _, field := range []*uint32{&r.Millis, &r.Micros, &r.Overflows, &r.Dropped, &r.Pending} {
		if *field, err = DecodeVLQUint(&payload); err != nil {
			return ClockReport{}, err
		}
	}
	return r, nil
}
