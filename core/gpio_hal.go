package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the digital I/O the control loop needs from a target.
// Platform-specific implementations handle the actual hardware.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a push-pull output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as an input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// ReadPin reads the current pin level
	ReadPin(pin GPIOPin) bool
}

// Pins maps the ELS signals onto GPIO pins. The step line is not listed
// here; it belongs to the pulse generator.
type Pins struct {
	MotorEnable GPIOPin // Optocoupled drive enable output
	MotorDir    GPIOPin // Optocoupled drive direction output
	LED         GPIOPin // Heartbeat LED

	Button1    GPIOPin // General purpose button, active high
	ServoOK    GPIOPin // Drive alarm input, low when the drive is OK
	ModeButton GPIOPin // Mode dial push button, active low
	FeedButton GPIOPin // Feed dial push button, active low
}

// ConfigurePins sets up every pin in p and drives the outputs low
func ConfigurePins(d GPIODriver, p Pins) error {
	for _, pin := range []GPIOPin{p.MotorEnable, p.MotorDir, p.LED} {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		if err := d.SetPin(pin, false); err != nil {
			return err
		}
	}
	for _, pin := range []GPIOPin{p.Button1, p.ServoOK, p.ModeButton, p.FeedButton} {
		if err := d.ConfigureInputPullUp(pin); err != nil {
			return err
		}
	}
	return nil
}

// Global singleton registered by target-specific code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
