// Package serial opens the USB/UART link that carries controller telemetry
package serial

import (
	"io"
)

// Port is an open serial link. Tests and the simulator substitute in-memory
// implementations.
type Port interface {
	io.ReadWriteCloser

	// Flush pushes out any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string `yaml:"device"`

	// Baud rate; USB CDC links ignore it
	Baud int `yaml:"baud"`

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int `yaml:"read_timeout_ms"`
}

// DefaultBaud matches the firmware UART setup
const DefaultBaud = 115200

// DefaultConfig returns the telemetry link settings for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
