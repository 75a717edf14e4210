package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"els/core"
	"els/display"
)

type harness struct {
	t    *testing.T
	disp *display.Buffer
	ui   *UI
	ctl  *core.FeedController
	in   Inputs
}

// newHarness runs the cold start at t=0 with the servo healthy
func newHarness(t *testing.T) *harness {
	h := &harness{
		t:    t,
		disp: display.NewBuffer(),
		ctl:  core.NewFeedController(core.DefaultMechanics),
		in:   Inputs{ServoOK: true},
	}
	h.ui = New(h.disp)
	h.at(0)
	return h
}

func (h *harness) at(ms int64) {
	h.in.NowMs = ms
	h.ui.Update(h.ctl, h.in)
}

func (h *harness) lines() [display.Rows]string {
	return h.disp.Lines()
}

// turnMode moves the mode dial by whole detents
func (h *harness) turnMode(detents int16) {
	h.in.ModeDialPos += detents * EncoderPulsesPerDetent
}

func (h *harness) turnFeed(detents int16) {
	h.in.FeedDialPos += detents * EncoderPulsesPerDetent
}

func (h *harness) selectMode(ms int64, m Mode) {
	h.in.ModeDialPressed = true
	h.turnMode(int16(m) - int16(h.ui.Mode()))
	h.at(ms)
	h.in.ModeDialPressed = false
	require.Equal(h.t, m, h.ui.Mode())
}

// enterDebug holds both dial buttons from ms for the full hold time
func (h *harness) enterDebug(ms int64) int64 {
	h.in.ModeDialPressed = true
	h.in.FeedDialPressed = true
	h.at(ms)
	h.at(ms + ButtonHoldDebugTime)
	h.in.ModeDialPressed = false
	h.in.FeedDialPressed = false
	require.True(h.t, h.ui.DebugMode())
	return ms + ButtonHoldDebugTime
}

func referenceFactor(feed int32) int64 {
	ctl := core.NewFeedController(core.DefaultMechanics)
	ctl.SetFeedRateMicronPerRev(feed)
	return ctl.Factor()
}

func TestModeAddClamps(t *testing.T) {
	assert.Equal(t, ServoOff, ServoOff.Add(-5))
	assert.Equal(t, ThreadImperial, ThreadImperial.Add(5))
	assert.Equal(t, ThreadMetric, Feed.Add(1))
	assert.Equal(t, Feed, ThreadImperial.Add(-2))
	assert.Equal(t, ServoOff, ThreadImperial.Add(-100))

	assert.Equal(t, PageHelp, PageSpindle.Add(-9))
	assert.Equal(t, PageTime, PageHelp.Add(40))
	assert.Equal(t, PageMotor, PageStatus.Add(2))
}

func TestModeProperties(t *testing.T) {
	assert.False(t, ServoOff.Drives())
	assert.True(t, Feed.Drives())
	assert.False(t, Feed.IsThreading())
	assert.True(t, ThreadMetric.IsThreading())
	assert.True(t, ThreadImperial.IsThreading())
	assert.Equal(t, "thread-imperial", ThreadImperial.String())
}

func TestTables(t *testing.T) {
	assert.Len(t, FeedRates, 58)
	assert.Len(t, MetricThreadPitches, 20)
	assert.Len(t, ImperialThreadPitches, 21)
	assert.Equal(t, int32(80), FeedRates[DefaultFeedRateIndex])
	assert.Equal(t, int32(1000), MetricThreadPitches[DefaultMetricPitchIndex])
	assert.Equal(t, int32(20), ImperialThreadPitches[DefaultImperialPitchIndex])
}

func TestSelectionClamps(t *testing.T) {
	s := newSelection(MetricThreadPitches[:], DefaultMetricPitchIndex)
	s.Step(100)
	assert.Equal(t, 19, s.Index())
	assert.Equal(t, int32(4000), s.Value())
	s.Step(-1000)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, int32(200), s.Value())
	assert.Equal(t, 20, s.Len())

	s = newSelection(FeedRates[:], 99)
	assert.Equal(t, 57, s.Index())
}

func TestColdStart(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, ServoOff, h.ui.Mode())
	assert.Equal(t, int32(80), h.ctl.FeedRateMicronPerRev())
	assert.Equal(t, referenceFactor(80), h.ctl.Factor())

	line1, line2, deadline := h.ui.Message()
	assert.Equal(t, welcomeLine1, line1)
	assert.Equal(t, welcomeLine2, line2)
	assert.Equal(t, int64(WelcomeMessageTimeout), deadline)
	assert.Equal(t, [display.Rows]string{" LEADSCREW ELS  ", "     v0.1.0     "}, h.lines())

	h.at(2400)
	assert.Equal(t, " LEADSCREW ELS  ", h.lines()[0])

	h.at(2500)
	assert.Equal(t, [display.Rows]string{"Servo off       ", "RPM +0       OFF"}, h.lines())
}

func TestColdStartLatchesDialPositions(t *testing.T) {
	h := &harness{
		t:    t,
		disp: display.NewBuffer(),
		ctl:  core.NewFeedController(core.DefaultMechanics),
		in:   Inputs{ServoOK: true, ModeDialPos: 300, FeedDialPos: -77, ModeDialPressed: true},
	}
	h.ui = New(h.disp)
	h.at(0)
	h.at(100)
	assert.Equal(t, ServoOff, h.ui.Mode())
	assert.Equal(t, DefaultFeedRateIndex, h.ui.FeedRate().Index())
}

func TestGuardedModeChange(t *testing.T) {
	for _, rpm := range []int32{100, -100, 4, -4} {
		h := newHarness(t)
		h.selectMode(100, Feed)

		h.in.RPM = rpm
		h.in.ModeDialPressed = true
		h.turnMode(1)
		h.at(200)

		assert.Equal(t, Feed, h.ui.Mode(), "rpm %d", rpm)
		line1, line2, deadline := h.ui.Message()
		assert.Equal(t, "STOP SPINDLE", line1)
		assert.Equal(t, "TO CHANGE MODE", line2)
		assert.Equal(t, int64(200+WarnMessageTimeout), deadline)
		assert.Equal(t, [display.Rows]string{"  STOP SPINDLE  ", " TO CHANGE MODE "}, h.lines())
		assert.Equal(t, int32(80), h.ctl.FeedRateMicronPerRev())
	}
}

func TestSlowSpindleAllowsModeChange(t *testing.T) {
	h := newHarness(t)
	h.in.RPM = 3
	h.selectMode(100, Feed)
	h.in.RPM = -3
	h.selectMode(200, ThreadMetric)
}

func TestUnguardedModeChange(t *testing.T) {
	h := newHarness(t)
	h.selectMode(100, Feed)

	h.in.ModeDialPressed = true
	h.turnMode(1)
	h.at(200)

	assert.Equal(t, ThreadMetric, h.ui.Mode())
	assert.Equal(t, MetricThreadPitches[DefaultMetricPitchIndex], h.ctl.FeedRateMicronPerRev())
	assert.Equal(t, referenceFactor(1000), h.ctl.Factor())
	assert.Zero(t, h.ctl.FractionalPulsesRemaining())
}

func TestModeChangeRequiresKnob(t *testing.T) {
	h := newHarness(t)
	h.turnMode(1)
	h.at(100)

	assert.Equal(t, ServoOff, h.ui.Mode())
	line1, line2, deadline := h.ui.Message()
	assert.Equal(t, "PRESS KNOB TO", line1)
	assert.Equal(t, "CHANGE MODE", line2)
	assert.Equal(t, int64(600), deadline)

	// The overlay expires and the rejected detent is not replayed
	h.at(3000)
	assert.Equal(t, ServoOff, h.ui.Mode())
	assert.Equal(t, "Servo off       ", h.lines()[0])
}

func TestModeChangeAppliesSelection(t *testing.T) {
	h := newHarness(t)
	h.selectMode(100, ThreadImperial)
	assert.Equal(t, core.TPIToMicronPerRev(20), h.ctl.FeedRateMicronPerRev())
	assert.Equal(t, int32(1270), h.ctl.FeedRateMicronPerRev())

	h.selectMode(200, Feed)
	assert.Equal(t, int32(80), h.ctl.FeedRateMicronPerRev())

	// Servo off leaves the controller alone
	h.selectMode(300, ServoOff)
	assert.Equal(t, int32(80), h.ctl.FeedRateMicronPerRev())
}

func TestPartialDetentsAreDropped(t *testing.T) {
	h := newHarness(t)
	h.in.ModeDialPressed = true
	for i := int64(1); i <= 5; i++ {
		h.in.ModeDialPos++
		h.at(i * 100)
	}
	assert.Equal(t, ServoOff, h.ui.Mode())
}

func TestFeedRateUnguarded(t *testing.T) {
	h := newHarness(t)
	h.selectMode(100, Feed)

	h.in.RPM = 500
	h.turnFeed(2)
	h.at(200)
	assert.Equal(t, DefaultFeedRateIndex+2, h.ui.FeedRate().Index())
	assert.Equal(t, int32(90), h.ctl.FeedRateMicronPerRev())

	h.turnFeed(-100)
	h.at(300)
	assert.Equal(t, 0, h.ui.FeedRate().Index())
	assert.Equal(t, int32(0), h.ctl.FeedRateMicronPerRev())

	h.turnFeed(200)
	h.at(3000)
	assert.Equal(t, int32(1000), h.ctl.FeedRateMicronPerRev())
	assert.Equal(t, "Feed   +1000μm/r", h.lines()[0])
	assert.Equal(t, "RPM +500      OK", h.lines()[1])
}

func TestThreadPitchGuards(t *testing.T) {
	h := newHarness(t)
	h.selectMode(100, ThreadMetric)

	h.in.RPM = 200
	h.in.FeedDialPressed = true
	h.turnFeed(1)
	h.at(200)
	assert.Equal(t, int32(1000), h.ctl.FeedRateMicronPerRev())
	line1, line2, _ := h.ui.Message()
	assert.Equal(t, "STOP SPINDLE TO", line1)
	assert.Equal(t, "CHANGE PITCH", line2)

	h.in.RPM = 0
	h.in.FeedDialPressed = false
	h.turnFeed(1)
	h.at(300)
	assert.Equal(t, int32(1000), h.ctl.FeedRateMicronPerRev())
	line1, line2, deadline := h.ui.Message()
	assert.Equal(t, "PRESS KNOB TO", line1)
	assert.Equal(t, "CHANGE PITCH", line2)
	assert.Equal(t, int64(800), deadline)

	h.in.FeedDialPressed = true
	h.turnFeed(1)
	h.at(400)
	assert.Equal(t, int32(1250), h.ctl.FeedRateMicronPerRev())
	assert.Equal(t, DefaultMetricPitchIndex+1, h.ui.MetricPitch().Index())

	h.at(3000)
	assert.Equal(t, "Thread +1.25mm/r", h.lines()[0])
}

func TestImperialPitch(t *testing.T) {
	h := newHarness(t)
	h.selectMode(100, ThreadImperial)

	h.in.FeedDialPressed = true
	h.turnFeed(-4)
	h.at(200)
	assert.Equal(t, int32(40), h.ui.ImperialPitch().Value())
	assert.Equal(t, int32(635), h.ctl.FeedRateMicronPerRev())

	h.in.FeedDialPressed = false
	h.at(3000)
	assert.Equal(t, "Thread Im +40TPI", h.lines()[0])
}

func TestModeScreens(t *testing.T) {
	h := newHarness(t)
	h.selectMode(100, ThreadMetric)
	h.in.FeedDialPressed = true
	h.turnFeed(-100)
	h.at(200)
	h.in.FeedDialPressed = false
	h.in.ServoOK = false
	h.in.RPM = -1234
	h.at(3000)
	assert.Equal(t, [display.Rows]string{"Thread +0.20mm/r", "RPM -1234 !SERVO"}, h.lines())

	h.in.RPM = 0
	h.selectMode(3100, Feed)
	h.at(3200)
	assert.Equal(t, [display.Rows]string{"Feed     +80μm/r", "RPM +0    !SERVO"}, h.lines())
}

func TestDebugGesture(t *testing.T) {
	h := newHarness(t)

	h.in.ModeDialPressed = true
	h.in.FeedDialPressed = true
	h.at(3000)
	// Rotation while the gesture is held is ignored
	h.turnMode(2)
	h.at(3500)
	assert.Equal(t, ServoOff, h.ui.Mode())
	assert.False(t, h.ui.DebugMode())

	h.at(3999)
	assert.False(t, h.ui.DebugMode())
	h.at(4000)
	assert.True(t, h.ui.DebugMode())
	assert.Equal(t, PageHelp, h.ui.DebugPage())
	assert.Equal(t, [display.Rows]string{"Debug0: help    ", "↑↓ w/ mode dial "}, h.lines())

	// Still held: a new hold starts rather than toggling back
	h.at(4100)
	assert.True(t, h.ui.DebugMode())

	h.in.ModeDialPressed = false
	h.at(4200)
	h.in.ModeDialPressed = true
	h.at(4300)
	h.at(5200)
	assert.True(t, h.ui.DebugMode(), "released hold must not toggle")
	h.at(5300)
	assert.False(t, h.ui.DebugMode())
}

func TestDebugPageNavigation(t *testing.T) {
	h := newHarness(t)
	now := h.enterDebug(3000)

	h.turnMode(2)
	h.turnFeed(5)
	now += 100
	h.at(now)
	assert.Equal(t, PageUIControls, h.ui.DebugPage())
	assert.Equal(t, int32(80), h.ctl.FeedRateMicronPerRev(), "feed dial is inert in debug mode")
	assert.Equal(t, ServoOff, h.ui.Mode())
	assert.Equal(t, "Debug2: UI input", h.lines()[0])
	assert.Equal(t, "○○+4     ○+10   ", h.lines()[1])

	h.turnMode(-20)
	now += 100
	h.at(now)
	assert.Equal(t, PageHelp, h.ui.DebugPage())
}

func TestDebugPages(t *testing.T) {
	h := newHarness(t)
	now := h.enterDebug(3000)

	h.in.Button1 = true
	h.in.MotorEnable = true
	h.in.MotorDirection = true
	h.in.MotorPulses = 1234
	h.turnMode(int16(PageMotor))
	now += 100
	h.at(now)
	assert.Equal(t, [display.Rows]string{"Debug3: motor   ", " OK  EN +   1234"}, h.lines())

	h.in.SpindlePos = 0x100
	h.turnMode(1)
	now += 100
	h.at(now)
	assert.Equal(t, [display.Rows]string{"Debug4: spindle ", "00000100    +256"}, h.lines())

	h.in.SpindlePos = -1
	now += 100
	h.at(now)
	assert.Equal(t, "ffffffff    -257", h.lines()[1])

	h.turnMode(1)
	now += 100
	h.at(now)
	assert.Equal(t, [display.Rows]string{"Debug5: control ", "F  +80 R00000000"}, h.lines())

	h.ctl.FeedPerRev(-1, 0)
	now += 100
	h.at(now)
	assert.Equal(t, "F  -80 R", h.lines()[1][:8])
	assert.Equal(t, core.Backwards, h.ctl.LastDirection())

	h.turnMode(1)
	h.at(0x2000)
	assert.Equal(t, "Debug6: time    ", h.lines()[0])
	h.at(0x2000 + 92)
	assert.Equal(t, "N    205c L   92", h.lines()[1])

	h.turnMode(-5)
	h.in.ServoOK = false
	h.at(0x2100)
	assert.Equal(t, PageStatus, h.ui.DebugPage())
	assert.Equal(t, [display.Rows]string{"Debug1: Status  ", "RPM +0       OFF"}, h.lines())
}

func TestMessageOverlayKeepsStateChanges(t *testing.T) {
	h := newHarness(t)
	// The welcome overlay is still up, but the change applies
	h.selectMode(100, Feed)
	assert.True(t, h.ui.MessageActive(100))
	assert.Equal(t, " LEADSCREW ELS  ", h.lines()[0])
	assert.Equal(t, int32(80), h.ctl.FeedRateMicronPerRev())
}

func TestLineBuf(t *testing.T) {
	var l lineBuf
	l.text("ab", 5, alignCenter)
	l.num(-7, 4, alignRight, true)
	l.hex(0xbeef, 6, true)
	assert.Equal(t, " ab    -700beef", string(l.Bytes()))

	l.reset()
	l.num(12345678, 3, alignRight, true)
	assert.Equal(t, "+12345678", string(l.Bytes()))
}

func TestUpdateDoesNotAllocate(t *testing.T) {
	h := newHarness(t)
	h.selectMode(100, Feed)
	now := int64(3000)
	tick := func() {
		now += 100
		h.at(now)
	}

	assert.Zero(t, testing.AllocsPerRun(20, tick))
	assert.Equal(t, "Feed     +80μm/r", h.lines()[0])

	// Feed changes and the warning overlay
	assert.Zero(t, testing.AllocsPerRun(20, func() {
		h.turnFeed(1)
		tick()
	}))
	assert.Zero(t, testing.AllocsPerRun(5, func() {
		h.turnMode(1)
		tick()
	}))
	require.True(t, h.ui.MessageActive(now))

	now = h.enterDebug(now + WarnMessageTimeout)
	for page := PageHelp; page <= PageTime; page++ {
		if page != PageHelp {
			h.turnMode(1)
			tick()
		}
		require.Equal(t, page, h.ui.DebugPage())
		assert.Zero(t, testing.AllocsPerRun(5, tick), "debug page %d", page)
	}
}
