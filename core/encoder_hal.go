package core

// Encoder is a quadrature input whose position accumulates signed pulses.
// tinygo.org/x/drivers/encoders devices satisfy it directly.
type Encoder interface {
	Position() int
}

// EncoderDelta tracks the pulses seen on an Encoder between reads
type EncoderDelta struct {
	enc  Encoder
	last int32
}

// NewEncoderDelta latches the current position of enc
func NewEncoderDelta(enc Encoder) EncoderDelta {
	return EncoderDelta{enc: enc, last: int32(enc.Position())}
}

// Read returns the raw position and the signed pulses since the previous Read.
// The subtraction wraps, so a counter rolling over still gives the right delta.
func (e *EncoderDelta) Read() (pos int32, delta int32) {
	pos = int32(e.enc.Position())
	delta = pos - e.last
	e.last = pos
	return pos, delta
}
