// Package protocol implements the ELS telemetry link: small framed status
// messages sent by the control loop and decoded by host tools.
//
// A frame is
//
//	[len][seq][payload...][crc16 hi][crc16 lo][0x7E]
//
// where len counts the whole frame, seq carries MessageDest in its high bits
// and a rolling 4 bit counter in its low bits, and the payload is a VLQ
// message id followed by VLQ encoded fields.
package protocol

import "errors"

// Framing constants
const (
	MessageMax         = 64 // Largest frame, header and trailer included
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
	MessageSeqMask     = 0x0F
)

// Message ids
const (
	MsgStatus = 1
)

var (
	ErrFrameTooLong   = errors.New("frame exceeds maximum length")
	ErrUnknownMessage = errors.New("unknown message id")
	ErrShortPayload   = errors.New("payload truncated")
)
