package ui

import (
	"els/core"
	"els/display"
)

func (u *UI) render(ctl *core.FeedController, in Inputs) {
	if u.MessageActive(in.NowMs) {
		u.line.reset()
		u.line.text(u.message1, display.Columns, alignCenter)
		u.row(0)
		u.line.reset()
		u.line.text(u.message2, display.Columns, alignCenter)
		u.row(1)
		return
	}

	if u.debugMode {
		u.renderDebug(ctl, in)
		u.spindleLast = in.SpindlePos
		return
	}

	u.line.reset()
	switch u.mode {
	case ServoOff:
		u.line.text("Servo off", display.Columns, alignLeft)
	case Feed:
		u.line.text("Feed ", 0, alignLeft)
		u.line.num(int64(u.feedRate.Value()), 7, alignRight, true)
		u.line.text("μm/r", 0, alignLeft)
	case ThreadMetric:
		pitch := u.metricPitch.Value()
		frac := pitch % 1000
		if frac < 0 {
			frac = -frac
		}
		u.line.text("Thread", 0, alignLeft)
		u.line.num(int64(pitch/1000), 3, alignRight, true)
		u.line.text(".", 0, alignLeft)
		if frac/10 < 10 {
			u.line.text("0", 0, alignLeft)
		}
		u.line.num(int64(frac/10), 0, alignLeft, false)
		u.line.text("mm/r", 0, alignLeft)
	case ThreadImperial:
		u.line.text("Thread Im ", 0, alignLeft)
		u.line.num(int64(u.imperialPitch.Value()), 3, alignRight, true)
		u.line.text("TPI", 0, alignLeft)
	}
	u.row(0)
	u.statusRow(in)
}

// statusRow draws "RPM <rpm> <status>" on the second row
func (u *UI) statusRow(in Inputs) {
	status := "OK"
	if u.mode == ServoOff {
		status = "OFF"
	} else if !in.ServoOK {
		status = "!SERVO"
	}
	u.line.reset()
	u.line.text("RPM ", 0, alignLeft)
	u.line.num(int64(in.RPM), 5, alignLeft, true)
	u.line.text(" ", 0, alignLeft)
	u.line.text(status, 6, alignRight)
	u.row(1)
}

func (u *UI) renderDebug(ctl *core.FeedController, in Inputs) {
	u.line.reset()
	switch u.debugPage {
	case PageHelp:
		u.title("Debug0: help")
		u.line.text("↑↓ w/ mode dial", display.Columns, alignLeft)
	case PageStatus:
		u.title("Debug1: Status")
		u.statusRow(in)
		return
	case PageUIControls:
		u.title("Debug2: UI input")
		u.line.text(onOff(in.Button1), 0, alignLeft)
		u.line.text(onOff(in.ModeDialPressed), 0, alignLeft)
		u.line.num(int64(in.ModeDialPos), 6, alignLeft, true)
		u.line.text(" ", 0, alignLeft)
		u.line.text(onOff(in.FeedDialPressed), 0, alignLeft)
		u.line.num(int64(in.FeedDialPos), 6, alignLeft, true)
	case PageMotor:
		u.title("Debug3: motor")
		u.line.text(pick(in.ServoOK, "OK", "ERR"), 3, alignRight)
		u.line.text(" ", 0, alignLeft)
		u.line.text(pick(in.MotorEnable, "EN", "DIS"), 3, alignRight)
		u.line.text(" ", 0, alignLeft)
		u.line.text(pick(in.MotorDirection, "+", "-"), 0, alignLeft)
		u.line.num(int64(in.MotorPulses), 7, alignRight, false)
	case PageSpindle:
		u.title("Debug4: spindle")
		u.line.hex(uint64(uint32(in.SpindlePos)), 8, true)
		u.line.text(" ", 0, alignLeft)
		u.line.num(int64(in.SpindlePos-u.spindleLast), 7, alignRight, true)
	case PageControl:
		feed := ctl.FeedRateMicronPerRev()
		if ctl.LastDirection() == core.Backwards {
			feed = -feed
		}
		u.title("Debug5: control")
		u.line.text("F", 0, alignLeft)
		u.line.num(int64(feed), 5, alignRight, true)
		// The carry is a 32 bit fraction; hex keeps it inside the row
		u.line.text(" R", 0, alignLeft)
		u.line.hex(uint64(ctl.FractionalPulsesRemaining()), 8, true)
	case PageTime:
		u.title("Debug6: time")
		u.line.text("N", 0, alignLeft)
		u.line.hex(uint64(in.NowMs), 8, false)
		u.line.text(" L", 0, alignLeft)
		u.line.num(in.NowMs-u.lastUpdateMs, 5, alignRight, false)
	}
	u.row(1)
}

// title draws s on the first row, leaving the line buffer empty for the second
func (u *UI) title(s string) {
	u.line.reset()
	u.line.text(s, display.Columns, alignLeft)
	u.row(0)
	u.line.reset()
}

func (u *UI) row(y uint8) {
	display.WriteBytesAt(u.disp, 0, y, u.line.Bytes())
}

func onOff(v bool) string {
	return pick(v, "●", "○")
}

func pick(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
