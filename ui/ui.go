// Package ui is the lathe operator interface: two detented rotary encoders
// with push buttons select the operating mode and the feed rate or thread
// pitch, and a 16x2 character display shows the result. Update runs once per
// UI tick and is the only place the FeedController is reconfigured.
package ui

import (
	"els/core"
	"els/display"
)

const (
	WelcomeMessageTimeout = 2500 // ms
	WarnMessageTimeout    = 500  // ms
	ButtonHoldDebugTime   = 1000 // ms

	EncoderPulsesPerDetent = 2

	// Spindle speeds above this magnitude lock out mode and pitch changes
	SpindleMovingRPM = 3
)

const (
	welcomeLine1 = "LEADSCREW ELS"
	welcomeLine2 = core.Version
)

// Inputs is everything the UI samples on one tick
type Inputs struct {
	NowMs   int64
	RPM     int32
	ServoOK bool
	Button1 bool

	ModeDialPos     int16
	ModeDialPressed bool
	FeedDialPos     int16
	FeedDialPressed bool

	SpindlePos     int32
	MotorPulses    uint32 // issued since the previous tick
	MotorEnable    bool
	MotorDirection bool
}

// UI is the mode and parameter state machine
type UI struct {
	disp display.CharacterDisplay

	mode      Mode
	debugMode bool
	debugPage DebugPage

	message1, message2 string
	messageDeadline    int64

	feedRate      Selection
	metricPitch   Selection
	imperialPitch Selection

	modeDialLast int16
	feedDialLast int16
	debugHold    int64
	spindleLast  int32
	lastUpdateMs int64
	cold         bool

	line lineBuf
}

// New creates the UI in ServoOff with default selections. Nothing is drawn
// until the first Update.
func New(disp display.CharacterDisplay) *UI {
	return &UI{
		disp:            disp,
		mode:            ServoOff,
		debugPage:       PageHelp,
		messageDeadline: -1,
		feedRate:        newSelection(FeedRates[:], DefaultFeedRateIndex),
		metricPitch:     newSelection(MetricThreadPitches[:], DefaultMetricPitchIndex),
		imperialPitch:   newSelection(ImperialThreadPitches[:], DefaultImperialPitchIndex),
		cold:            true,
	}
}

// Update consumes one tick of input, applies accepted changes to ctl and
// redraws the display.
func (u *UI) Update(ctl *core.FeedController, in Inputs) {
	now := in.NowMs
	if u.cold {
		u.lastUpdateMs = now
		u.modeDialLast = in.ModeDialPos
		u.feedDialLast = in.FeedDialPos
		ctl.SetFeedRateMicronPerRev(u.feedRate.Value())
		u.post(now, welcomeLine1, welcomeLine2, WelcomeMessageTimeout)
		u.cold = false
	}

	// Partial detents are dropped along with the rest of the delta
	modeDetents := int((in.ModeDialPos - u.modeDialLast) / EncoderPulsesPerDetent)
	feedDetents := int((in.FeedDialPos - u.feedDialLast) / EncoderPulsesPerDetent)
	u.modeDialLast = in.ModeDialPos
	u.feedDialLast = in.FeedDialPos

	spindleMoving := in.RPM > SpindleMovingRPM || in.RPM < -SpindleMovingRPM

	u.updateDebugGesture(in)
	idle := u.debugHold == 0

	modeChanged := false
	if modeDetents != 0 && idle {
		switch {
		case u.debugMode:
			u.debugPage = u.debugPage.Add(modeDetents)
		case spindleMoving:
			u.post(now, "STOP SPINDLE", "TO CHANGE MODE", WarnMessageTimeout)
		case !in.ModeDialPressed:
			u.post(now, "PRESS KNOB TO", "CHANGE MODE", WarnMessageTimeout)
		default:
			next := u.mode.Add(modeDetents)
			if next != u.mode {
				core.RecordTiming(core.EvtModeChange, uint32(now), uint32(u.mode), uint32(next))
				modeChanged = true
			}
			u.mode = next
		}
	}

	feedAccepted := false
	if feedDetents != 0 && idle && !u.debugMode {
		feedAccepted = true
		if u.mode.IsThreading() {
			switch {
			case spindleMoving:
				u.post(now, "STOP SPINDLE TO", "CHANGE PITCH", WarnMessageTimeout)
				feedAccepted = false
			case !in.FeedDialPressed:
				u.post(now, "PRESS KNOB TO", "CHANGE PITCH", WarnMessageTimeout)
				feedAccepted = false
			}
		}
	}

	if !u.debugMode && idle && (modeChanged || feedAccepted) {
		step := 0
		if feedAccepted {
			step = feedDetents
		}
		u.apply(ctl, step)
	}

	u.render(ctl, in)
	u.lastUpdateMs = now
}

// updateDebugGesture toggles debug mode once both dial buttons have been held
// for ButtonHoldDebugTime. Releasing either button cancels the hold.
func (u *UI) updateDebugGesture(in Inputs) {
	if !in.ModeDialPressed || !in.FeedDialPressed {
		u.debugHold = 0
		return
	}
	if u.debugHold == 0 {
		u.debugHold = in.NowMs + ButtonHoldDebugTime
		return
	}
	if in.NowMs >= u.debugHold {
		u.debugMode = !u.debugMode
		u.debugPage = PageHelp
		u.debugHold = 0
	}
}

// apply steps the active mode's selection and pushes it to the controller
func (u *UI) apply(ctl *core.FeedController, step int) {
	switch u.mode {
	case Feed:
		u.feedRate.Step(step)
		ctl.SetFeedRateMicronPerRev(u.feedRate.Value())
	case ThreadMetric:
		u.metricPitch.Step(step)
		ctl.SetFeedRateMicronPerRev(u.metricPitch.Value())
	case ThreadImperial:
		u.imperialPitch.Step(step)
		ctl.SetFeedRateTPI(u.imperialPitch.Value())
	}
}

func (u *UI) post(now int64, line1, line2 string, timeout int64) {
	u.message1 = line1
	u.message2 = line2
	u.messageDeadline = now + timeout
}

// Mode returns the operating mode
func (u *UI) Mode() Mode {
	return u.mode
}

// DebugMode reports whether the diagnostic pages are shown
func (u *UI) DebugMode() bool {
	return u.debugMode
}

// DebugPage returns the selected diagnostic page
func (u *UI) DebugPage() DebugPage {
	return u.debugPage
}

// Message returns the posted overlay and the time it expires
func (u *UI) Message() (line1, line2 string, deadline int64) {
	return u.message1, u.message2, u.messageDeadline
}

// MessageActive reports whether the overlay is shown at nowMs
func (u *UI) MessageActive(nowMs int64) bool {
	return u.messageDeadline > nowMs
}

// FeedRate returns the feed mode selection
func (u *UI) FeedRate() Selection {
	return u.feedRate
}

// MetricPitch returns the metric thread selection
func (u *UI) MetricPitch() Selection {
	return u.metricPitch
}

// ImperialPitch returns the imperial thread selection
func (u *UI) ImperialPitch() Selection {
	return u.imperialPitch
}
