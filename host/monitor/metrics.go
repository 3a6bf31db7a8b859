package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the monitored MCU clock to Prometheus.
type Metrics struct {
	mcuMillis     prometheus.Gauge
	mcuMicros     prometheus.Gauge
	driftPPM      prometheus.Gauge
	microsSkew    prometheus.Gauge
	wakeDropped   prometheus.Gauge
	pendingWakers prometheus.Gauge
	frames        *prometheus.CounterVec
	resets        prometheus.Counter
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		mcuMillis: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "avrtick_mcu_millis",
			Help: "Last reported MCU milliseconds since boot",
		}),
		mcuMicros: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "avrtick_mcu_micros",
			Help: "Last reported MCU microsecond timestamp (wraps every ~71 minutes)",
		}),
		driftPPM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "avrtick_clock_drift_ppm",
			Help: "MCU millisecond clock drift against host time, parts per million",
		}),
		microsSkew: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "avrtick_micros_skew_us",
			Help: "Reported micros minus millis*1000; 0-999 when both clocks agree",
		}),
		wakeDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "avrtick_wake_dropped_total",
			Help: "Timed waker registrations the MCU rejected because its queue was full",
		}),
		pendingWakers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "avrtick_pending_wakers",
			Help: "Timed wakers queued on the MCU",
		}),
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avrtick_frames_total",
				Help: "Message blocks received by result",
			},
			[]string{"result"},
		),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "avrtick_mcu_resets_total",
			Help: "Times the MCU clock restarted from zero",
		}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.mcuMillis.Describe(ch)
	m.mcuMicros.Describe(ch)
	m.driftPPM.Describe(ch)
	m.microsSkew.Describe(ch)
	m.wakeDropped.Describe(ch)
	m.pendingWakers.Describe(ch)
	m.frames.Describe(ch)
	m.resets.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.mcuMillis.Collect(ch)
	m.mcuMicros.Collect(ch)
	m.driftPPM.Collect(ch)
	m.microsSkew.Collect(ch)
	m.wakeDropped.Collect(ch)
	m.pendingWakers.Collect(ch)
	m.frames.Collect(ch)
	m.resets.Collect(ch)
}

func (m *Metrics) recordFrames(result string, n uint64) {
	if n > 0 {
		m.frames.WithLabelValues(result).Add(float64(n))
	}
}
