package core

// PulseGenerator emits software-timed step pulses on a StepLine.
// The holds between edges are busy waits calibrated per target (see duty_*.go);
// a burst is never interrupted by the main loop and runs to completion.
type PulseGenerator struct {
	line StepLine
}

// NewPulseGenerator creates a generator driving line
func NewPulseGenerator(line StepLine) *PulseGenerator {
	return &PulseGenerator{line: line}
}

// Pulse emits count step pulses. The caller must not ask for more pulses than
// the drive can accept at the burst rate.
func (p *PulseGenerator) Pulse(count uint32) {
	if count == 0 {
		return
	}
	line := p.line
	for ; count > 0; count-- {
		line.Set()
		holdHigh()
		line.Clear()
		holdLow()
	}
}

// Info returns the calibrated timing of this generator
func (p *PulseGenerator) Info() PulserInfo {
	return PulserInfo{
		Name:        "GPIO",
		HighNs:      dutyHighNs,
		LowNs:       dutyLowNs,
		MaxStepRate: 1000000000 / (dutyHighNs + dutyLowNs),
	}
}
