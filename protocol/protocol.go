// Package protocol frames clock reports sent from the MCU to the host.
//
// The framing follows Klipper's message blocks:
//
//	len | seq | payload... | crc16 hi | crc16 lo | 0x7E
//
// where len counts the whole block and the CRC covers len, seq and payload.
package protocol

// Protocol constants
const (
	MessageMax         = 64 // Largest block, AVR UART buffers are small
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence mask
	MessageSeqMask = 0x0F
)

// Message IDs carried as the first VLQ of a payload
const (
	MsgClockReport = 1
)
