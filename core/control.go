package core

// Feed/thread ratio control between spindle encoder and leadscrew motor

// Direction is the commanded leadscrew motor direction
type Direction uint8

const (
	Forward Direction = iota
	Backwards
)

// Level returns the direction line level for this direction
func (d Direction) Level() bool {
	return d == Forward
}

// String returns a short name used by debug output
func (d Direction) String() string {
	if d == Forward {
		return "+"
	}
	return "-"
}

const (
	fixedPointShift = 32
	micronsPerInch  = 25400
)

// FeedController converts spindle encoder pulses into motor pulses at the
// configured feed rate. The ratio is held as a 32.32 fixed-point factor and the
// fractional remainder is carried between calls so that no pulses are lost.
type FeedController struct {
	mech Mechanics

	feedRateMicronPerRev      int32
	feedPerRevFactor          int64 // 32.32 motor pulses per encoder pulse
	fractionalPulsesRemaining int64 // 32.32 carry into the next call
	lastDirection             Direction
}

// NewFeedController creates a controller with a zero feed rate
func NewFeedController(mech Mechanics) *FeedController {
	return &FeedController{
		mech:          mech,
		lastDirection: Forward,
	}
}

// FeedPerRev consumes the net spindle encoder pulses since the previous call and
// returns the direction and number of motor pulses to issue now.
// elapsedMs is reserved for acceleration control and is currently unused.
func (c *FeedController) FeedPerRev(encoderPulses int32, elapsedMs uint32) (Direction, uint32) {
	t := int64(encoderPulses) * c.feedPerRevFactor
	t += c.fractionalPulsesRemaining

	// Arithmetic shift floors, leaving a non-negative remainder for next round
	pulses := t >> fixedPointShift
	c.fractionalPulsesRemaining = t - pulses<<fixedPointShift

	direction := c.lastDirection
	if pulses > 0 {
		direction = Forward
	} else if pulses < 0 {
		pulses = -pulses
		direction = Backwards
	}
	c.lastDirection = direction

	return direction, uint32(pulses)
}

// SetFeedRateMicronPerRev sets the leadscrew travel per spindle revolution.
// The carried remainder is discarded; the rate is not range checked.
func (c *FeedController) SetFeedRateMicronPerRev(feed int32) {
	c.feedRateMicronPerRev = feed
	c.fractionalPulsesRemaining = 0

	// Encoder pulses to fractional spindle turns
	t := int64(1) << fixedPointShift
	t *= c.mech.EncoderRatioSpindle
	t /= c.mech.EncoderPPR * c.mech.EncoderRatioEncoder

	// Spindle turns to fractional leadscrew turns
	t *= int64(feed)
	t *= c.mech.DriveRatioLeadscrew
	t /= c.mech.DriveRatioMotor * c.mech.LeadscrewPitch

	// Leadscrew turns to motor pulses
	t *= c.mech.MotorPPR
	c.feedPerRevFactor = t
}

// SetFeedRateTPI sets an imperial thread pitch in threads per inch.
// The pitch is rounded to the nearest µm/rev.
func (c *FeedController) SetFeedRateTPI(tpi int32) {
	c.SetFeedRateMicronPerRev(TPIToMicronPerRev(tpi))
}

// TPIToMicronPerRev converts threads per inch to µm of travel per revolution
func TPIToMicronPerRev(tpi int32) int32 {
	if tpi == 0 {
		return 0
	}
	return (2*micronsPerInch/tpi + 1) / 2
}

// FeedRateMicronPerRev returns the configured feed rate
func (c *FeedController) FeedRateMicronPerRev() int32 {
	return c.feedRateMicronPerRev
}

// Factor returns the 32.32 fixed-point motor pulses per encoder pulse
func (c *FeedController) Factor() int64 {
	return c.feedPerRevFactor
}

// LastDirection returns the direction of the most recent non-zero command
func (c *FeedController) LastDirection() Direction {
	return c.lastDirection
}

// FractionalPulsesRemaining returns the 32.32 carry held for the next call
func (c *FeedController) FractionalPulsesRemaining() int64 {
	return c.fractionalPulsesRemaining
}
