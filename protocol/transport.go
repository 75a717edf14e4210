package protocol

import "io"

// Transport frames messages onto a byte stream. It keeps no state beyond the
// rolling sequence number and a single scratch frame, so it can run inside
// the control loop.
type Transport struct {
	w      io.Writer
	seq    uint8
	output ScratchOutput
}

// NewTransport creates a Transport writing to w
func NewTransport(w io.Writer) *Transport {
	return &Transport{w: w, seq: MessageDest}
}

// EncodeFrame builds one frame from the payload written by frameData and
// returns it. The result is valid until the next call.
func (t *Transport) EncodeFrame(frameData func(output OutputBuffer)) ([]byte, error) {
	t.output.Reset()
	t.output.Output([]byte{0, t.seq})

	frameData(&t.output)

	msgLen := t.output.CurPosition() + MessageTrailerSize
	if t.output.Overflowed() || msgLen > MessageMax {
		return nil, ErrFrameTooLong
	}
	t.output.Update(MessagePositionLen, uint8(msgLen))

	crc := CRC16(t.output.Result())
	t.output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	t.seq = ((t.seq + 1) & MessageSeqMask) | MessageDest
	return t.output.Result(), nil
}

// SendStatus frames s and writes it
func (t *Transport) SendStatus(s *Status) error {
	frame, err := t.EncodeFrame(s.Encode)
	if err != nil {
		return err
	}
	_, err = t.w.Write(frame)
	return err
}

// Sequence returns the sequence byte the next frame will carry
func (t *Transport) Sequence() uint8 {
	return t.seq
}

// Frame is a validated frame handed out by the Decoder
type Frame struct {
	Sequence uint8  // Rolling counter 0-15, with the destination bits stripped
	Payload  []byte // Aliases the input; copy it to keep it
}

// DecoderStats counts what the Decoder has seen
type DecoderStats struct {
	Frames   uint32 // Valid frames delivered
	Resyncs  uint32 // Times the stream lost framing
	Lost     uint32 // Frames missing according to the sequence numbers
	Discards uint32 // Bytes skipped while resynchronising
}

// Decoder splits a byte stream into frames. A bad length, sequence byte,
// trailer or CRC drops framing, and the decoder skips to the next sync byte.
type Decoder struct {
	unsynced bool
	started  bool
	nextSeq  uint8
	stats    DecoderStats
}

// Receive decodes every complete frame in input, calling handle for each,
// and pops the bytes it consumed. A partial trailing frame is left in input.
func (d *Decoder) Receive(input InputBuffer, handle func(Frame)) {
	data := input.Data()

	for len(data) > 0 {
		if d.unsynced {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				d.stats.Discards += uint32(len(data))
				data = nil
				break
			}
			d.stats.Discards += uint32(syncPos)
			data = data[syncPos+1:]
			d.unsynced = false
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		if d.started && seq != d.nextSeq {
			d.stats.Lost += uint32((seq - d.nextSeq) & MessageSeqMask)
		}
		d.started = true
		d.nextSeq = ((seq + 1) & MessageSeqMask) | MessageDest
		d.stats.Frames++

		handle(Frame{
			Sequence: seq & MessageSeqMask,
			Payload:  data[MessageHeaderSize : msgLen-MessageTrailerSize],
		})
		data = data[msgLen:]
	}

	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

func (d *Decoder) desync() {
	d.unsynced = true
	d.stats.Resyncs++
}

// Stats returns the decoder counters
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}
