// Package controller runs the ELS main loop: it samples the spindle encoder
// and the shared clock, runs the user interface at 10Hz, asks the feed
// controller for a motor command and emits the step pulses.
package controller

import (
	"context"
	"io"
	"math"

	"els/core"
	"els/display"
	"els/protocol"
	"els/ui"
)

const (
	DisplayUpdateRate = 10                       // Hz
	UIPeriodMs        = 1000 / DisplayUpdateRate // ms
	HeartbeatPeriodMs = 200                      // ms
)

// Hardware is everything the loop touches on a target
type Hardware struct {
	GPIO     core.GPIODriver
	Pins     core.Pins
	Spindle  core.Encoder
	ModeDial core.Encoder
	FeedDial core.Encoder
	Pulser   core.Pulser

	// Telemetry receives one status frame per UI tick when set
	Telemetry io.Writer

	// Idle is called after every iteration when set. Hosted builds use it
	// to yield; firmware leaves it nil and runs flat out.
	Idle func()
}

// Stats counts loop activity since start
type Stats struct {
	Iterations      uint64
	UIUpdates       uint64
	Overruns        uint32
	TelemetryErrors uint32
}

// Loop is the cooperative main loop. It is not safe for concurrent use; the
// only state it shares is the Clock.
type Loop struct {
	hw        Hardware
	clock     *core.Clock
	ctl       *core.FeedController
	ui        *ui.UI
	spindle   core.EncoderDelta
	transport *protocol.Transport

	cold          bool
	lastMs        int64
	nextUIMs      int64
	lastEnable    bool
	lastDir       bool
	lastFeedRate  int32
	pulsesSinceUI uint32
	overrun       bool

	stats Stats
}

// New creates a loop. The spindle encoder position is latched now so the
// first iteration sees no motion.
func New(clock *core.Clock, ctl *core.FeedController, u *ui.UI, hw Hardware) *Loop {
	l := &Loop{
		hw:      hw,
		clock:   clock,
		ctl:     ctl,
		ui:      u,
		spindle: core.NewEncoderDelta(hw.Spindle),
		cold:    true,
	}
	if hw.Telemetry != nil {
		l.transport = protocol.NewTransport(hw.Telemetry)
	}
	return l
}

// Splash shows a start-up banner for as long as hold blocks, then clears
// the display
func Splash(d display.CharacterDisplay, hold func()) {
	display.WriteAt(d, 6, 0, "ELS")
	display.WriteAt(d, 4, 1, core.Version)
	if hold != nil {
		hold()
	}
	d.Clear()
}

// Run steps the loop until ctx is cancelled
func (l *Loop) Run(ctx context.Context) {
	done := ctx.Done()
	for {
		select {
		case <-done:
			return
		default:
		}
		l.Step()
		if l.hw.Idle != nil {
			l.hw.Idle()
		}
	}
}

// Step runs one iteration
func (l *Loop) Step() {
	gpio, pins := l.hw.GPIO, l.hw.Pins
	l.stats.Iterations++

	spindlePos, spindleDelta := l.spindle.Read()
	now, rpm := l.clock.Exchange(spindleDelta)

	gpio.SetPin(pins.LED, now%HeartbeatPeriodMs < HeartbeatPeriodMs/2)

	var elapsed uint32
	if l.cold {
		l.cold = false
	} else if d := now - l.lastMs; d > 0 && d <= math.MaxUint32 {
		elapsed = uint32(d)
	}
	l.lastMs = now
	if elapsed > UIPeriodMs {
		l.stats.Overruns++
		l.overrun = true
		core.RecordTiming(core.EvtOverrun, uint32(now), elapsed, 0)
		core.DebugPrintln(core.FormatOverrun(now, elapsed))
	}

	// Servo OK input is inverted
	servoOK := !gpio.ReadPin(pins.ServoOK)

	if l.nextUIMs < now {
		l.updateUI(now, rpm, servoOK, spindlePos)
		l.nextUIMs = now + UIPeriodMs
	}

	var enable, dirLevel bool
	var pulses uint32
	if l.ui.Mode().Drives() {
		var dir core.Direction
		dir, pulses = l.ctl.FeedPerRev(spindleDelta, elapsed)
		dirLevel = dir.Level()
		enable = true
	}

	// The drive needs the enable and direction lines stable for a short
	// time before it acts on them
	if enable != l.lastEnable {
		gpio.SetPin(pins.MotorEnable, enable)
		core.DelayUs(core.MotorSetupDelayUS)
		l.lastEnable = enable
		core.RecordTiming(core.EvtEnable, uint32(now), boolToU32(enable), 0)
	}
	if !servoOK || !enable {
		return
	}
	if dirLevel != l.lastDir {
		gpio.SetPin(pins.MotorDir, dirLevel)
		core.DelayUs(core.MotorSetupDelayUS)
		l.lastDir = dirLevel
		core.RecordTiming(core.EvtDirection, uint32(now), boolToU32(dirLevel), 0)
	}

	l.hw.Pulser.Pulse(pulses)
	l.pulsesSinceUI += pulses
	core.AddPulseCount(pulses)
	if pulses >= core.PulseBurstRecordThreshold {
		core.RecordTiming(core.EvtPulseBurst, uint32(now), pulses, boolToU32(dirLevel))
	}
}

func (l *Loop) updateUI(now int64, rpm int32, servoOK bool, spindlePos int32) {
	gpio, pins := l.hw.GPIO, l.hw.Pins
	in := ui.Inputs{
		NowMs:           now,
		RPM:             rpm,
		ServoOK:         servoOK,
		Button1:         gpio.ReadPin(pins.Button1),
		ModeDialPos:     int16(l.hw.ModeDial.Position()),
		ModeDialPressed: !gpio.ReadPin(pins.ModeButton),
		FeedDialPos:     int16(l.hw.FeedDial.Position()),
		FeedDialPressed: !gpio.ReadPin(pins.FeedButton),
		SpindlePos:      spindlePos,
		MotorPulses:     l.pulsesSinceUI,
		MotorEnable:     l.lastEnable,
		MotorDirection:  l.lastDir,
	}
	l.ui.Update(l.ctl, in)
	l.stats.UIUpdates++

	if feed := l.ctl.FeedRateMicronPerRev(); feed != l.lastFeedRate {
		core.RecordTiming(core.EvtUIUpdate, uint32(now), uint32(l.ui.Mode()), uint32(feed))
		l.lastFeedRate = feed
	}

	l.sendStatus(in)
	l.pulsesSinceUI = 0
	l.overrun = false
}

func (l *Loop) sendStatus(in ui.Inputs) {
	if l.transport == nil {
		return
	}
	s := protocol.Status{
		NowMs:       uint32(in.NowMs),
		RPM:         in.RPM,
		Mode:        uint8(l.ui.Mode()),
		FeedRate:    l.ctl.FeedRateMicronPerRev(),
		Pulses:      in.MotorPulses,
		TotalPulses: core.GetTotalPulseCount(),
		Carry:       uint32(l.ctl.FractionalPulsesRemaining() >> 16),
	}
	if in.ServoOK {
		s.Flags |= protocol.FlagServoOK
	}
	if l.lastEnable {
		s.Flags |= protocol.FlagEnable
	}
	if l.lastDir {
		s.Flags |= protocol.FlagDirection
	}
	if l.ui.DebugMode() {
		s.Flags |= protocol.FlagDebug
	}
	if l.overrun {
		s.Flags |= protocol.FlagOverrun
	}
	if err := l.transport.SendStatus(&s); err != nil {
		l.stats.TelemetryErrors++
	}
}

// Stats returns the loop counters
func (l *Loop) Stats() Stats {
	return l.stats
}

// MotorEnabled reports the last level driven on the enable line
func (l *Loop) MotorEnabled() bool {
	return l.lastEnable
}

// MotorDirection reports the last level driven on the direction line
func (l *Loop) MotorDirection() bool {
	return l.lastDir
}

// UI returns the user interface the loop drives
func (l *Loop) UI() *ui.UI {
	return l.ui
}

func boolToU32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
