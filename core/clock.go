package core

import "math"

// Clock is the state shared between the periodic tick and the main loop:
// a monotonic millisecond counter, the spindle pulses accumulated since the
// last filter sample and the last published smoothed RPM. Every access to
// these three happens inside a critical section.
//
// The RPM filter belongs to the tick alone and is never read elsewhere.
type Clock struct {
	mech Mechanics

	nowMs         int64
	encoderPulses int32
	smoothedRPM   int32

	rpmFir FirFilter
}

// NewClock creates a clock at t=0 converting RPM with the given mechanics
func NewClock(mech Mechanics) *Clock {
	return &Clock{mech: mech}
}

// Tick advances the clock by one millisecond. Call it from the 1kHz timer
// interrupt; it never blocks.
func (c *Clock) Tick() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	// Fails after a few hundred million years of uptime
	if c.nowMs < math.MaxInt64 {
		c.nowMs++
	}
	ms := c.nowMs

	if ms%(TickRate/RpmSmoothUpdateRate) == 0 {
		c.rpmFir.Update(c.encoderPulses)
		c.encoderPulses = 0
	}
	if ms%(TickRate/RpmSmoothDisplayRate) == 0 {
		c.smoothedRPM = c.pulsesToRPM(c.rpmFir.FilteredValue())
	}
}

// pulsesToRPM converts the mean pulse count per filter interval to spindle RPM
func (c *Clock) pulsesToRPM(pulses int32) int32 {
	val := int64(pulses)
	val *= RpmSmoothUpdateRate // pulses per second
	val *= 60                  // pulses per minute
	val = (val * c.mech.EncoderRatioSpindle) / c.mech.EncoderRatioEncoder
	val /= c.mech.EncoderPPR
	return int32(val)
}

// Exchange adds the spindle pulses seen by the main loop since its previous
// iteration and returns the current time and smoothed RPM, all in one
// critical section.
func (c *Clock) Exchange(spindleDelta int32) (nowMs int64, rpm int32) {
	state := disableInterrupts()
	c.encoderPulses += spindleDelta
	nowMs = c.nowMs
	rpm = c.smoothedRPM
	restoreInterrupts(state)
	return nowMs, rpm
}

// Now returns the millisecond counter
func (c *Clock) Now() int64 {
	state := disableInterrupts()
	ms := c.nowMs
	restoreInterrupts(state)
	return ms
}

// RPM returns the last published smoothed RPM
func (c *Clock) RPM() int32 {
	state := disableInterrupts()
	rpm := c.smoothedRPM
	restoreInterrupts(state)
	return rpm
}
