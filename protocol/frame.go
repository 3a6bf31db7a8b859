package protocol

// EncodeFrame writes one message block to output. body writes the payload;
// the length byte and CRC are filled in afterwards.
func EncodeFrame(output OutputBuffer, seq uint8, body func(output OutputBuffer)) {
	cursor := output.CurPosition()

	// Length placeholder and sequence
	output.Output([]byte{0, MessageDest | (seq & MessageSeqMask)})

	body(output)

	changed := len(output.DataSince(cursor))
	output.Update(cursor, uint8(changed+MessageTrailerSize))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
}

// FrameHandler receives the sequence number and payload of a valid block.
// The payload is only valid for the duration of the call.
type FrameHandler func(seq uint8, payload []byte)

// FrameStats counts what a FrameScanner has seen
type FrameStats struct {
	Valid    uint64 // Blocks delivered to the handler
	BadCRC   uint64 // Blocks dropped for a checksum mismatch
	Resyncs  uint64 // Times the scanner lost framing
	Discards uint64 // Bytes skipped while resynchronising
}

// FrameScanner splits a byte stream into message blocks.
// On any framing error it drops bytes up to the next sync byte.
type FrameScanner struct {
	handler      FrameHandler
	pending      []byte
	synchronized bool
	stats        FrameStats
}

// NewFrameScanner creates a scanner that passes each valid block to handler
func NewFrameScanner(handler FrameHandler) *FrameScanner {
	return &FrameScanner{
		handler:      handler,
		pending:      make([]byte, 0, 2*MessageMax),
		synchronized: true,
	}
}

// Stats returns the scanner counters
func (s *FrameScanner) Stats() FrameStats {
	return s.stats
}

// Feed appends received bytes and delivers every complete block
func (s *FrameScanner) Feed(data []byte) {
	s.pending = append(s.pending, data...)
	buf := s.pending

	for len(buf) > 0 {
		if !s.synchronized {
			syncPos := -1
			for i, b := range buf {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				s.stats.Discards += uint64(len(buf))
				buf = buf[:0]
				break
			}
			s.stats.Discards += uint64(syncPos + 1)
			buf = buf[syncPos+1:]
			s.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if buf[0] == MessageValueSync {
			buf = buf[1:]
			continue
		}

		if len(buf) < MessageLengthMin {
			break
		}

		msgLen := int(buf[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageMax {
			s.lostSync()
			continue
		}

		seq := buf[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			s.lostSync()
			continue
		}

		// Wait for the full block
		if len(buf) < msgLen {
			break
		}

		if buf[msgLen-MessageTrailerSync] != MessageValueSync {
			s.lostSync()
			continue
		}

		frameCRC := uint16(buf[msgLen-MessageTrailerCRC])<<8 |
			uint16(buf[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(buf[:msgLen-MessageTrailerSize]) {
			s.stats.BadCRC++
			s.lostSync()
			continue
		}

		s.stats.Valid++
		if s.handler != nil {
			s.handler(seq&MessageSeqMask, buf[MessageHeaderSize:msgLen-MessageTrailerSize])
		}
		buf = buf[msgLen:]
	}

	// Keep the unconsumed tail at the front of the buffer
	n := copy(s.pending, buf)
	s.pending = s.pending[:n]
}

func (s *FrameScanner) lostSync() {
	s.synchronized = false
	s.stats.Resyncs++
}
