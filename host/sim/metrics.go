package sim

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"els/controller"
	"els/ui"
)

// Snapshot is the state exported on each observation
type Snapshot struct {
	NowMs       int64
	RPM         int32
	Mode        ui.Mode
	FeedRate    int32
	TotalPulses uint64
	MotorEnable bool
	Loop        controller.Stats
}

// Metrics exports simulator state to Prometheus
type Metrics struct {
	registry *prometheus.Registry

	rpm         prometheus.Gauge
	feedRate    prometheus.Gauge
	mode        *prometheus.GaugeVec
	enabled     prometheus.Gauge
	pulses      prometheus.Counter
	iterations  prometheus.Counter
	uiUpdates   prometheus.Counter
	overruns    prometheus.Counter
	telemetryEr prometheus.Counter

	last Snapshot
}

// NewMetrics creates the collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "els_spindle_rpm",
			Help: "Filtered spindle speed",
		}),
		feedRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "els_feed_rate_micron_per_rev",
			Help: "Leadscrew feed per spindle revolution",
		}),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "els_mode",
			Help: "1 for the active operating mode",
		}, []string{"mode"}),
		enabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "els_motor_enabled",
			Help: "Motor enable line level",
		}),
		pulses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "els_motor_pulses_total",
			Help: "Step pulses issued",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "els_loop_iterations_total",
			Help: "Main loop iterations",
		}),
		uiUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "els_ui_updates_total",
			Help: "User interface ticks",
		}),
		overruns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "els_loop_overruns_total",
			Help: "Loop iterations slower than the UI period",
		}),
		telemetryEr: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "els_telemetry_errors_total",
			Help: "Status frames that could not be sent",
		}),
	}
	m.registry.MustRegister(
		m.rpm, m.feedRate, m.mode, m.enabled, m.pulses,
		m.iterations, m.uiUpdates, m.overruns, m.telemetryEr,
	)
	return m
}

// Observe records s. Counters advance by the change since the last call.
func (m *Metrics) Observe(s Snapshot) {
	m.rpm.Set(float64(s.RPM))
	m.feedRate.Set(float64(s.FeedRate))
	for _, mode := range []ui.Mode{ui.ServoOff, ui.Feed, ui.ThreadMetric, ui.ThreadImperial} {
		v := 0.0
		if mode == s.Mode {
			v = 1
		}
		m.mode.WithLabelValues(mode.String()).Set(v)
	}
	if s.MotorEnable {
		m.enabled.Set(1)
	} else {
		m.enabled.Set(0)
	}

	last := m.last
	m.pulses.Add(float64(s.TotalPulses - last.TotalPulses))
	m.iterations.Add(float64(s.Loop.Iterations - last.Loop.Iterations))
	m.uiUpdates.Add(float64(s.Loop.UIUpdates - last.Loop.UIUpdates))
	m.overruns.Add(float64(s.Loop.Overruns - last.Loop.Overruns))
	m.telemetryEr.Add(float64(s.Loop.TelemetryErrors - last.Loop.TelemetryErrors))
	m.last = s
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
