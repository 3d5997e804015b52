package report

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Metrics are counters derived from finished measurements only. Every value
// can be explained by a single Calibration or scoped-timer report.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	scopedSeconds *prometheus.HistogramVec
	calibrations  *prometheus.CounterVec
	bestSeconds   *prometheus.GaugeVec
	loops         *prometheus.GaugeVec
	failures      *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scopedSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "benchtime_scoped_seconds",
				Help:    "Elapsed time of scoped timer regions",
				Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
			},
			[]string{"label"},
		),
		calibrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchtime_calibrations_total",
				Help: "Auto-calibration runs by outcome",
			},
			[]string{"outcome"},
		),
		bestSeconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "benchtime_calibration_best_seconds",
				Help: "Best trial total of the last calibration, unscaled",
			},
			[]string{"target"},
		),
		loops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "benchtime_calibration_loops",
				Help: "Iteration count chosen by the last calibration",
			},
			[]string{"target"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchtime_target_failures_total",
				Help: "Target failures by calibration phase",
			},
			[]string{"phase"},
		),
	}

	m.registry.MustRegister(m.scopedSeconds, m.calibrations, m.bestSeconds, m.loops, m.failures)
	return m
}

// ObserveScoped records one scoped timer region.
func (m *Metrics) ObserveScoped(label string, seconds float64) {
	if m == nil {
		return
	}
	m.scopedSeconds.WithLabelValues(label).Observe(seconds)
}

// RecordCalibration records a successful calibration.
func (m *Metrics) RecordCalibration(c *Calibration) {
	if m == nil || c == nil {
		return
	}
	m.calibrations.WithLabelValues("success").Inc()
	m.bestSeconds.WithLabelValues(c.Target).Set(c.Best)
	m.loops.WithLabelValues(c.Target).Set(float64(c.Loops))
}

// RecordFailure records a calibration aborted by the target in phase.
func (m *Metrics) RecordFailure(phase string) {
	if m == nil {
		return
	}
	m.calibrations.WithLabelValues("failure").Inc()
	m.failures.WithLabelValues(phase).Inc()
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format. A nil
// *Metrics serves an empty registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteText dumps all metric families in text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
