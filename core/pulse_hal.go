package core

// StepLine is the hardware abstraction for the motor step output.
// Implementations must switch the line with a single store, without a
// read-modify-write of the port, so that Set and Clear have a fixed latency.
type StepLine interface {
	// Set drives the step line high
	Set()

	// Clear drives the step line low
	Clear()
}

// Pulser emits bursts of step pulses. The main loop only depends on this, so a
// target may replace the software PulseGenerator with hardware pulse generation.
type Pulser interface {
	// Pulse emits exactly count pulses and returns when the burst is complete.
	// A zero count returns at once without touching the line.
	Pulse(count uint32)
}

// PulserInfo describes the timing of a pulse backend
type PulserInfo struct {
	Name        string
	HighNs      uint32 // Target step high time (ns)
	LowNs       uint32 // Target step low time (ns)
	MaxStepRate uint32 // Maximum pulses/second within one burst
}
