// Package sim runs the ELS control chain on a workstation. The spindle,
// dials, buttons and drive alarm are simulated and driven by a scripted
// profile; the display is logged as it changes and the loop state is
// exported to Prometheus.
package sim

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"els/controller"
	"els/core"
	"els/display"
	"els/host/config"
	"els/ui"
)

// Options are the simulator's outside connections
type Options struct {
	// Telemetry receives status frames when set
	Telemetry io.Writer

	// Logger defaults to the logrus standard logger
	Logger *log.Logger
}

// Simulator owns one simulated lathe
type Simulator struct {
	cfg *config.Config
	log *log.Logger

	GPIO     *GPIO
	Spindle  *Spindle
	ModeDial *Dial
	FeedDial *Dial
	Step     *StepLine

	Clock      *core.Clock
	Controller *core.FeedController
	Display    *display.Buffer
	UI         *ui.UI
	Loop       *controller.Loop
	Metrics    *Metrics

	ms        int64 // ticks delivered
	nextEvent int

	lines      [display.Rows]string
	lastMode   ui.Mode
	observedAt int64
}

// New builds a simulator for cfg
func New(cfg *config.Config, opts Options) (*Simulator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	mech := cfg.Mechanics.Core()
	s := &Simulator{
		cfg:        cfg,
		log:        logger,
		GPIO:       NewGPIO(),
		Spindle:    NewSpindle(mech),
		ModeDial:   &Dial{},
		FeedDial:   &Dial{},
		Step:       &StepLine{},
		Clock:      core.NewClock(mech),
		Controller: core.NewFeedController(mech),
		Display:    display.NewBuffer(),
		Metrics:    NewMetrics(),
		observedAt: -1,
	}
	if err := core.ConfigurePins(s.GPIO, Pins); err != nil {
		return nil, err
	}
	// Drive healthy, dial buttons released
	s.GPIO.Drive(Pins.ServoOK, false)
	s.GPIO.Drive(Pins.Button1, false)
	s.Spindle.SetRPM(cfg.SpindleRPM)

	pulser := core.NewPulseGenerator(s.Step)
	info := pulser.Info()
	logger.WithFields(log.Fields{
		"pulser":  info.Name,
		"high_ns": info.HighNs,
		"low_ns":  info.LowNs,
		"max_pps": info.MaxStepRate,
	}).Debug("pulse generator")

	s.UI = ui.New(s.Display)
	s.lastMode = s.UI.Mode()
	s.Loop = controller.New(s.Clock, s.Controller, s.UI, controller.Hardware{
		GPIO:      s.GPIO,
		Pins:      Pins,
		Spindle:   s.Spindle,
		ModeDial:  s.ModeDial,
		FeedDial:  s.FeedDial,
		Pulser:    pulser,
		Telemetry: opts.Telemetry,
		Idle:      s.idle,
	})
	return s, nil
}

// tick delivers one millisecond: due events, spindle motion, then the
// clock interrupt
func (s *Simulator) tick() {
	for s.nextEvent < len(s.cfg.Events) {
		ev := s.cfg.Events[s.nextEvent]
		if ev.At > time.Duration(s.ms)*time.Millisecond {
			break
		}
		s.apply(ev)
		s.nextEvent++
	}
	s.Spindle.Advance()
	s.Clock.Tick()
	s.ms++
}

func (s *Simulator) apply(ev config.Event) {
	s.log.WithFields(log.Fields{
		"ms":     s.ms,
		"action": ev.Action,
		"value":  ev.Value,
	}).Debug("event")

	switch ev.Action {
	case config.ActionModeDial:
		s.ModeDial.Click(ev.Value)
	case config.ActionFeedDial:
		s.FeedDial.Click(ev.Value)
	case config.ActionModeButton:
		s.GPIO.Drive(Pins.ModeButton, ev.Value == 0)
	case config.ActionFeedButton:
		s.GPIO.Drive(Pins.FeedButton, ev.Value == 0)
	case config.ActionButton1:
		s.GPIO.Drive(Pins.Button1, ev.Value != 0)
	case config.ActionServoFault:
		s.GPIO.Drive(Pins.ServoOK, ev.Value != 0)
	case config.ActionSpindleRPM:
		s.Spindle.SetRPM(ev.Value)
	}
}

// Advance runs ms milliseconds of simulated time with one loop iteration
// per tick, all on the calling goroutine
func (s *Simulator) Advance(ms int) {
	for i := 0; i < ms; i++ {
		s.tick()
		s.Loop.Step()
		s.observe()
	}
}

// Run drives the simulation in real time until ctx is cancelled or the
// profile duration has passed
func (s *Simulator) Run(ctx context.Context) error {
	if s.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Duration)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(time.Second / core.TickRate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.tick()
			}
		}
	})

	g.Go(func() error {
		s.Loop.Run(ctx)
		return nil
	})

	if addr := s.cfg.Metrics.Listen; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.Metrics.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}

		g.Go(func() error {
			s.log.Infof("serving metrics on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	err := g.Wait()
	s.log.WithFields(s.summary()).Info("simulation stopped")
	return err
}

// idle runs on the loop goroutine between iterations
func (s *Simulator) idle() {
	s.observe()
	if s.cfg.LoopPeriod > 0 {
		time.Sleep(s.cfg.LoopPeriod)
	}
}

// observe logs display and mode changes and samples metrics once per UI
// period. It must run on the loop goroutine.
func (s *Simulator) observe() {
	now := s.Clock.Now()

	if lines := s.Display.Lines(); lines != s.lines {
		s.lines = lines
		s.log.WithFields(log.Fields{
			"ms":    now,
			"line0": lines[0],
			"line1": lines[1],
		}).Info("display")
	}
	if mode := s.UI.Mode(); mode != s.lastMode {
		s.log.WithFields(log.Fields{
			"ms":   now,
			"from": s.lastMode.String(),
			"to":   mode.String(),
		}).Info("mode changed")
		s.lastMode = mode
	}

	if period := now / controller.UIPeriodMs; period != s.observedAt {
		s.observedAt = period
		s.Metrics.Observe(s.Snapshot())
	}
}

// Snapshot reads the current state. It must run on the loop goroutine.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		NowMs:       s.Clock.Now(),
		RPM:         s.Clock.RPM(),
		Mode:        s.UI.Mode(),
		FeedRate:    s.Controller.FeedRateMicronPerRev(),
		TotalPulses: s.Step.Steps(),
		MotorEnable: s.Loop.MotorEnabled(),
		Loop:        s.Loop.Stats(),
	}
}

func (s *Simulator) summary() log.Fields {
	snap := s.Snapshot()
	return log.Fields{
		"ms":         snap.NowMs,
		"mode":       snap.Mode.String(),
		"pulses":     snap.TotalPulses,
		"iterations": snap.Loop.Iterations,
		"ui_updates": snap.Loop.UIUpdates,
		"overruns":   snap.Loop.Overruns,
	}
}
