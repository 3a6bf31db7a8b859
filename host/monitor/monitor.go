// Package monitor follows the clock reports an avrtick MCU writes to its
// UART and compares the MCU's millisecond clock with host time.
package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"avrtick/protocol"
)

// Sample is one decoded report with the host's view of it
type Sample struct {
	Report   protocol.ClockReport
	HostTime time.Time
	Elapsed  uint64  // MCU milliseconds since the baseline, unwrapped
	DriftPPM float64 // Zero until at least MinDriftWindow has passed
	Reset    bool    // MCU restarted; a new baseline was taken
}

// MinDriftWindow is the host time needed before drift is reported
const MinDriftWindow = time.Second

// Options configures a Monitor
type Options struct {
	Logger   *slog.Logger
	Metrics  *Metrics
	Now      func() time.Time
	OnSample func(Sample)
}

// Monitor decodes clock reports and tracks drift
type Monitor struct {
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
	onSample func(Sample)

	scanner   *protocol.FrameScanner
	lastStats protocol.FrameStats

	haveBase   bool
	baseHost   time.Time
	lastMillis uint32
	elapsed    uint64
}

// New creates a Monitor. Zero-valued options get defaults.
func New(opts Options) *Monitor {
	m := &Monitor{
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		now:      opts.Now,
		onSample: opts.OnSample,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.metrics == nil {
		m.metrics = NewMetrics()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.scanner = protocol.NewFrameScanner(m.handleFrame)
	return m
}

// Metrics returns the collector updated by this monitor
func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

// Run reads from r until ctx is cancelled, r returns io.EOF or a read fails.
// Empty reads are retried, so a serial port should report timeouts as
// (0, nil); serial.NativePort does, and serial.IgnoreTimeouts adapts others.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			m.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Feed processes raw bytes received from the MCU
func (m *Monitor) Feed(data []byte) {
	m.scanner.Feed(data)

	stats := m.scanner.Stats()
	m.metrics.recordFrames("bad_crc", stats.BadCRC-m.lastStats.BadCRC)
	m.metrics.recordFrames("resync", stats.Resyncs-m.lastStats.Resyncs)
	m.lastStats = stats
}

func (m *Monitor) handleFrame(seq uint8, payload []byte) {
	report, err := protocol.ParseClockReport(seq, payload)
	if err != nil {
		m.metrics.recordFrames("bad_payload", 1)
		m.logger.Warn("dropping undecodable frame", "seq", seq, "error", err)
		return
	}
	m.metrics.recordFrames("valid", 1)
	m.observe(report)
}

func (m *Monitor) observe(r protocol.ClockReport) {
	host := m.now()
	sample := Sample{Report: r, HostTime: host}

	delta := r.Millis - m.lastMillis
	switch {
	case !m.haveBase:
		m.rebase(r, host)
	case delta > 1<<31:
		// Millis went backwards: a 32-bit wrap shows up as a small forward step
		m.logger.Warn("mcu clock restarted", "previous_ms", m.lastMillis, "reported_ms", r.Millis)
		m.metrics.resets.Inc()
		m.rebase(r, host)
		sample.Reset = true
	default:
		m.elapsed += uint64(delta)
		m.lastMillis = r.Millis
	}

	sample.Elapsed = m.elapsed
	hostElapsed := host.Sub(m.baseHost)
	if hostElapsed >= MinDriftWindow {
		hostMS := float64(hostElapsed) / float64(time.Millisecond)
		sample.DriftPPM = (float64(m.elapsed) - hostMS) / hostMS * 1e6
	}

	skew := int32(r.Micros - r.Millis*1000)
	if skew < 0 || skew > 2048 {
		m.logger.Debug("micros and millis disagree", "millis", r.Millis, "micros", r.Micros, "skew_us", skew)
	}

	m.metrics.mcuMillis.Set(float64(r.Millis))
	m.metrics.mcuMicros.Set(float64(r.Micros))
	m.metrics.driftPPM.Set(sample.DriftPPM)
	m.metrics.microsSkew.Set(float64(skew))
	m.metrics.wakeDropped.Set(float64(r.Dropped))
	m.metrics.pendingWakers.Set(float64(r.Pending))

	if r.Dropped > 0 {
		m.logger.Debug("mcu dropped timed wakers", "dropped", r.Dropped, "pending", r.Pending)
	}
	if m.onSample != nil {
		m.onSample(sample)
	}
}

func (m *Monitor) rebase(r protocol.ClockReport, host time.Time) {
	m.haveBase = true
	m.baseHost = host
	m.lastMillis = r.Millis
	m.elapsed = 0
	m.logger.Info("clock baseline", "mcu_ms", r.Millis, "seq", r.Seq)
}
