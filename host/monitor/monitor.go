// Package monitor follows the telemetry stream of a running controller
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"els/host/serial"
	"els/protocol"
	"els/ui"
)

// ErrNotConnected is returned by operations that need an open port
var ErrNotConnected = errors.New("not connected to controller")

// Summary counts what the monitor has seen
type Summary struct {
	Statuses    uint64
	Decoder     protocol.DecoderStats
	BadPayloads uint32
}

// Monitor decodes status frames from a controller and logs them
type Monitor struct {
	log *log.Logger

	reader *protocol.HostReader

	mu       sync.Mutex
	last     protocol.Status
	statuses uint64
	handler  protocol.StatusHandler

	connected bool
}

// New creates a monitor that is not yet connected. A nil logger uses the
// logrus standard logger.
func New(logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Monitor{log: logger}
}

// OnStatus registers fn to be called for every decoded status after it has
// been logged. It must be set before connecting.
func (m *Monitor) OnStatus(fn protocol.StatusHandler) {
	m.handler = fn
}

// Connect opens device with the default link settings
func (m *Monitor) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the port described by cfg
func (m *Monitor) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	// Drop whatever the driver buffered before we attached
	if err := port.Flush(); err != nil {
		port.Close()
		return fmt.Errorf("failed to flush serial port: %w", err)
	}
	m.log.Infof("connected to %s", cfg.Device)
	return m.Attach(port)
}

// Attach starts decoding from an already open port
func (m *Monitor) Attach(port io.ReadCloser) error {
	if m.connected {
		return errors.New("already connected")
	}
	m.reader = protocol.NewHostReader(port, m.handle)
	m.connected = true
	return nil
}

func (m *Monitor) handle(seq uint8, s protocol.Status) {
	m.mu.Lock()
	prev, first := m.last, m.statuses == 0
	m.last = s
	m.statuses++
	m.mu.Unlock()

	mode := ui.Mode(s.Mode)
	m.log.WithFields(log.Fields{
		"seq":    seq,
		"ms":     s.NowMs,
		"rpm":    s.RPM,
		"mode":   mode.String(),
		"feed":   s.FeedRate,
		"pulses": s.Pulses,
		"total":  s.TotalPulses,
		"enable": s.Has(protocol.FlagEnable),
		"debug":  s.Has(protocol.FlagDebug),
	}).Debug("status")

	if !first && prev.Mode != s.Mode {
		m.log.WithFields(log.Fields{
			"ms":   s.NowMs,
			"from": ui.Mode(prev.Mode).String(),
			"to":   mode.String(),
		}).Info("mode changed")
	}
	if !first && prev.FeedRate != s.FeedRate {
		m.log.WithFields(log.Fields{"ms": s.NowMs, "feed": s.FeedRate}).Info("feed rate changed")
	}
	if (first || prev.Has(protocol.FlagServoOK)) && !s.Has(protocol.FlagServoOK) {
		m.log.WithField("ms", s.NowMs).Warn("servo alarm")
	}
	if s.Has(protocol.FlagOverrun) {
		m.log.WithField("ms", s.NowMs).Warn("loop overrun")
	}

	if m.handler != nil {
		m.handler(seq, s)
	}
}

// Last returns the most recent status and whether one has been received
func (m *Monitor) Last() (protocol.Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.statuses > 0
}

// Summary returns the counters since connecting
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	sum := Summary{Statuses: m.statuses}
	m.mu.Unlock()
	if m.reader != nil {
		sum.Decoder, sum.BadPayloads = m.reader.Stats()
	}
	return sum
}

// Wait blocks until the stream ends or ctx is cancelled. The end of the
// stream is not an error.
func (m *Monitor) Wait(ctx context.Context) error {
	if !m.connected {
		return ErrNotConnected
	}
	select {
	case <-ctx.Done():
		return nil
	case <-m.reader.Done():
	}
	if err := m.reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Close stops decoding and closes the port
func (m *Monitor) Close() error {
	if !m.connected {
		return nil
	}
	m.connected = false
	err := m.reader.Close()

	sum := m.Summary()
	m.log.WithFields(log.Fields{
		"statuses": sum.Statuses,
		"frames":   sum.Decoder.Frames,
		"lost":     sum.Decoder.Lost,
		"resyncs":  sum.Decoder.Resyncs,
		"bad":      sum.BadPayloads,
	}).Info("monitor closed")
	return err
}

// IsConnected reports whether a port is attached
func (m *Monitor) IsConnected() bool {
	return m.connected
}
