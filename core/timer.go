package core

// DelayFunc blocks for at least us microseconds
type DelayFunc func(us uint32)

// setupDelay defaults to the platform busy-wait; targets with a hardware
// delay timer may replace it
var setupDelay DelayFunc = platformDelayUs

// SetDelayFunc installs the microsecond delay used for drive setup times
func SetDelayFunc(f DelayFunc) {
	if f == nil {
		f = platformDelayUs
	}
	setupDelay = f
}

// DelayUs waits for the drive to recognise a change on the enable or
// direction line before the next signal edge
func DelayUs(us uint32) {
	setupDelay(us)
}
