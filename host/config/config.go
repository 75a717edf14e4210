// Package config loads machine profiles for the hosted simulator
package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v2"

	"els/core"
	"els/host/serial"
)

// Scripted event actions
const (
	ActionModeDial   = "mode_dial"   // Turn the mode dial by Value detents
	ActionFeedDial   = "feed_dial"   // Turn the feed dial by Value detents
	ActionModeButton = "mode_button" // Value 1 presses, 0 releases
	ActionFeedButton = "feed_button" // Value 1 presses, 0 releases
	ActionButton1    = "button1"     // Value 1 presses, 0 releases
	ActionServoFault = "servo_fault" // Value 1 raises the drive alarm, 0 clears it
	ActionSpindleRPM = "spindle_rpm" // Set the spindle speed to Value RPM
)

const defaultLoopPeriod = 200 * time.Microsecond

var actions = map[string]bool{
	ActionModeDial:   true,
	ActionFeedDial:   true,
	ActionModeButton: true,
	ActionFeedButton: true,
	ActionButton1:    true,
	ActionServoFault: true,
	ActionSpindleRPM: true,
}

// Mechanics is the lathe gearing; zero fields take the firmware defaults
type Mechanics struct {
	EncoderPPR          int64 `yaml:"encoder_ppr"`
	EncoderRatioSpindle int64 `yaml:"encoder_ratio_spindle"`
	EncoderRatioEncoder int64 `yaml:"encoder_ratio_encoder"`
	LeadscrewPitch      int64 `yaml:"leadscrew_pitch_um"`
	DriveRatioMotor     int64 `yaml:"drive_ratio_motor"`
	DriveRatioLeadscrew int64 `yaml:"drive_ratio_leadscrew"`
	MotorPPR            int64 `yaml:"motor_ppr"`
}

// Core converts the profile gearing to the controller's type
func (m Mechanics) Core() core.Mechanics {
	return core.Mechanics{
		EncoderPPR:          m.EncoderPPR,
		EncoderRatioSpindle: m.EncoderRatioSpindle,
		EncoderRatioEncoder: m.EncoderRatioEncoder,
		LeadscrewPitch:      m.LeadscrewPitch,
		DriveRatioMotor:     m.DriveRatioMotor,
		DriveRatioLeadscrew: m.DriveRatioLeadscrew,
		MotorPPR:            m.MotorPPR,
	}
}

// Event is one scripted operator or machine action
type Event struct {
	At     time.Duration `yaml:"at"`
	Action string        `yaml:"action"`
	Value  int           `yaml:"value"`
}

// Metrics configures the Prometheus exporter
type Metrics struct {
	Listen string `yaml:"listen"` // Empty disables the exporter
}

// Config is a simulator profile
type Config struct {
	Mechanics Mechanics `yaml:"mechanics"`

	// SpindleRPM is the spindle speed at start
	SpindleRPM int `yaml:"spindle_rpm"`

	// Duration stops the run; zero runs until interrupted
	Duration time.Duration `yaml:"duration"`

	// LoopPeriod paces the main loop
	LoopPeriod time.Duration `yaml:"loop_period"`

	Events []Event `yaml:"events"`

	// Telemetry streams status frames to a serial device when set
	Telemetry *serial.Config `yaml:"telemetry"`

	Metrics Metrics `yaml:"metrics"`
}

// LoadConfig parses a YAML profile and fills in defaults
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadConfig loads the profile at path
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return LoadConfig(data)
}

// Default returns the profile used when none is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in missing values from the firmware constants
func applyDefaults(cfg *Config) {
	m := &cfg.Mechanics
	d := core.DefaultMechanics
	if m.EncoderPPR == 0 {
		m.EncoderPPR = d.EncoderPPR
	}
	if m.EncoderRatioSpindle == 0 {
		m.EncoderRatioSpindle = d.EncoderRatioSpindle
	}
	if m.EncoderRatioEncoder == 0 {
		m.EncoderRatioEncoder = d.EncoderRatioEncoder
	}
	if m.LeadscrewPitch == 0 {
		m.LeadscrewPitch = d.LeadscrewPitch
	}
	if m.DriveRatioMotor == 0 {
		m.DriveRatioMotor = d.DriveRatioMotor
	}
	if m.DriveRatioLeadscrew == 0 {
		m.DriveRatioLeadscrew = d.DriveRatioLeadscrew
	}
	if m.MotorPPR == 0 {
		m.MotorPPR = d.MotorPPR
	}

	if cfg.LoopPeriod == 0 {
		cfg.LoopPeriod = defaultLoopPeriod
	}
	if cfg.Telemetry != nil {
		def := serial.DefaultConfig(cfg.Telemetry.Device)
		if cfg.Telemetry.Baud == 0 {
			cfg.Telemetry.Baud = def.Baud
		}
		if cfg.Telemetry.ReadTimeout == 0 {
			cfg.Telemetry.ReadTimeout = def.ReadTimeout
		}
	}

	sort.SliceStable(cfg.Events, func(i, j int) bool {
		return cfg.Events[i].At < cfg.Events[j].At
	})
}

// Validate checks the profile for values the simulator cannot run with
func (c *Config) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration %v is negative", c.Duration)
	}
	if c.LoopPeriod < 0 {
		return fmt.Errorf("loop_period %v is negative", c.LoopPeriod)
	}
	for i, ev := range c.Events {
		if !actions[ev.Action] {
			return fmt.Errorf("event %d: unknown action %q", i, ev.Action)
		}
		if ev.At < 0 {
			return fmt.Errorf("event %d: time %v is negative", i, ev.At)
		}
	}
	if c.Telemetry != nil && c.Telemetry.Device == "" {
		return fmt.Errorf("telemetry: device is required")
	}
	return nil
}
