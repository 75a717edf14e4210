package protocol

// Status flag bits
const (
	FlagServoOK   = 1 << 0
	FlagEnable    = 1 << 1
	FlagDirection = 1 << 2 // Set when the direction line is high
	FlagDebug     = 1 << 3
	FlagOverrun   = 1 << 4 // An iteration overran since the previous status
)

// Status is one control loop snapshot, sent once per UI tick
type Status struct {
	NowMs       uint32 // Millisecond clock, low 32 bits
	RPM         int32
	Mode        uint8
	FeedRate    int32  // µm/rev
	Pulses      uint32 // Motor pulses since the previous status
	TotalPulses uint32
	Carry       uint32 // Top 16 bits of the fractional pulse carry
	Flags       uint32
}

// Has reports whether every bit of flag is set
func (s *Status) Has(flag uint32) bool {
	return s.Flags&flag == flag
}

// Encode appends the status message to output
func (s *Status) Encode(output OutputBuffer) {
	EncodeVLQUint(output, MsgStatus)
	EncodeVLQUint(output, s.NowMs)
	EncodeVLQInt(output, s.RPM)
	EncodeVLQUint(output, uint32(s.Mode))
	EncodeVLQInt(output, s.FeedRate)
	EncodeVLQUint(output, s.Pulses)
	EncodeVLQUint(output, s.TotalPulses)
	EncodeVLQUint(output, s.Carry)
	EncodeVLQUint(output, s.Flags)
}

// ParseStatus decodes a frame payload holding a status message
func ParseStatus(payload []byte) (Status, error) {
	var s Status
	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return s, err
	}
	if id != MsgStatus {
		return s, ErrUnknownMessage
	}

	var mode uint32
	u := func(dst *uint32) {
		if err == nil {
			*dst, err = DecodeVLQUint(&payload)
		}
	}
	i := func(dst *int32) {
		if err == nil {
			*dst, err = DecodeVLQInt(&payload)
		}
	}
	u(&s.NowMs)
	i(&s.RPM)
	u(&mode)
	i(&s.FeedRate)
	u(&s.Pulses)
	u(&s.TotalPulses)
	u(&s.Carry)
	u(&s.Flags)
	if err == ErrBufferTooSmall {
		return Status{}, ErrShortPayload
	}
	if err != nil {
		return Status{}, err
	}
	s.Mode = uint8(mode)
	return s, nil
}
