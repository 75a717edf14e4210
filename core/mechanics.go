package core

// Mechanics describes the gear train between spindle, encoder, leadscrew and motor.
// Negative ratios encode a direction inversion through the gears.
type Mechanics struct {
	EncoderPPR          int64 // Encoder pulses per encoder revolution
	EncoderRatioSpindle int64 // Spindle side of the spindle:encoder gearing
	EncoderRatioEncoder int64 // Encoder side of the spindle:encoder gearing

	LeadscrewPitch      int64 // Leadscrew pitch in µm
	DriveRatioMotor     int64 // Motor side of the motor:leadscrew drive
	DriveRatioLeadscrew int64 // Leadscrew side of the motor:leadscrew drive

	MotorPPR int64 // Motor pulses per motor revolution
}

// DefaultMechanics is the lathe this firmware was built for.
var DefaultMechanics = Mechanics{
	EncoderPPR:          2000,
	EncoderRatioSpindle: -40,
	EncoderRatioEncoder: 80,

	LeadscrewPitch:      3000,
	DriveRatioMotor:     -20,
	DriveRatioLeadscrew: 80, // 40 tooth pulley and x0.5 gearbox

	MotorPPR: 3200,
}

// Timing constants shared by the tick and the main loop
const (
	TickRate = 1000 // Hz, periodic interrupt

	RpmSmoothUpdateRate  = 50 // Hz, filter sample rate
	RpmSmoothDisplayRate = 10 // Hz, published RPM rate (equal to the display refresh)
	RpmSmoothFirDepth    = 20 // Filter depth in samples

	// Enable and direction changes need at least 1µs to be recognised by the drive
	MotorSetupDelayUS = 2
)
