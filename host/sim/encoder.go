package sim

import (
	"sync"
	"sync/atomic"

	"els/core"
)

// Encoder is a quadrature counter moved by the simulation
type Encoder struct {
	pos atomic.Int64
}

// Position implements core.Encoder
func (e *Encoder) Position() int {
	return int(e.pos.Load())
}

// Turn moves the encoder by n pulses
func (e *Encoder) Turn(n int) {
	e.pos.Add(int64(n))
}

// Dial is a detented UI encoder
type Dial struct {
	Encoder
}

// Click turns the dial by n detents
func (d *Dial) Click(n int) {
	d.Turn(n * 2)
}

// Spindle turns its encoder at a set speed, one millisecond per Advance
type Spindle struct {
	Encoder

	mu  sync.Mutex
	rpm int
	num int64 // encoder pulses per minute
	den int64 // 60000ms per minute, signed by the encoder ratio
	acc int64
}

// NewSpindle creates a stopped spindle geared like mech
func NewSpindle(mech core.Mechanics) *Spindle {
	return &Spindle{
		num: mech.EncoderPPR * mech.EncoderRatioEncoder,
		den: mech.EncoderRatioSpindle * 60000,
	}
}

// SetRPM changes the spindle speed
func (s *Spindle) SetRPM(rpm int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rpm = rpm
}

// RPM returns the commanded spindle speed
func (s *Spindle) RPM() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rpm
}

// Advance moves the encoder by one millisecond of rotation, carrying the
// fractional pulse so none are lost
func (s *Spindle) Advance() {
	s.mu.Lock()
	s.acc += int64(s.rpm) * s.num
	pulses := s.acc / s.den
	s.acc -= pulses * s.den
	s.mu.Unlock()

	if pulses != 0 {
		s.Turn(int(pulses))
	}
}
