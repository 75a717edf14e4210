//go:build tinygo

// Package board holds the device wiring shared by the firmware targets
package board

import (
	"machine"

	"els/core"
)

// GPIO implements core.GPIODriver on machine pins. Pin numbers map
// directly to machine.Pin on every supported chip.
type GPIO struct {
	configured map[core.GPIOPin]machine.Pin
}

// NewGPIO creates a driver with no pins configured
func NewGPIO() *GPIO {
	return &GPIO{
		configured: make(map[core.GPIOPin]machine.Pin),
	}
}

// ConfigureOutput configures a pin as a push-pull output
func (d *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	if _, ok := d.configured[pin]; ok {
		return nil
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configured[pin] = p
	return nil
}

// ConfigureInputPullUp configures a pin as an input with pull-up resistor
func (d *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	if _, ok := d.configured[pin]; ok {
		return nil
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	d.configured[pin] = p
	return nil
}

// SetPin drives an output, configuring it first if needed
func (d *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	p, ok := d.configured[pin]
	if !ok {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		p = d.configured[pin]
	}
	p.Set(value)
	return nil
}

// ReadPin reads a configured pin. Unconfigured pins read low.
func (d *GPIO) ReadPin(pin core.GPIOPin) bool {
	p, ok := d.configured[pin]
	if !ok {
		return false
	}
	return p.Get()
}
