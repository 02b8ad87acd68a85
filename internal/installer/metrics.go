package installer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSucceeded = "succeeded"
	resultFailed    = "failed"
)

// Metrics collects installation metrics on a private registry so a short
// lived CLI process can dump them to a node-exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration  *prometheus.HistogramVec
	runsTotal      *prometheus.CounterVec
	pollIterations *prometheus.CounterVec
}

// NewMetrics creates and registers the installer metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dg",
				Subsystem: "install",
				Name:      "stage_duration_seconds",
				Help:      "Duration of installation stages in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 13), // 1s to ~68min
			},
			[]string{"stage"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dg",
				Subsystem: "install",
				Name:      "runs_total",
				Help:      "Total number of installation runs by result",
			},
			[]string{"result"},
		),
		pollIterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dg",
				Name:      "poll_iterations_total",
				Help:      "Total number of completion checks by wait label",
			},
			[]string{"label"},
		),
	}
	m.registry.MustRegister(m.stageDuration, m.runsTotal, m.pollIterations)
	return m
}

// Registry exposes the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile writes all metrics in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// ObservePoll counts one completion check.
func (m *Metrics) ObservePoll(label string) {
	if m == nil {
		return
	}
	m.pollIterations.WithLabelValues(label).Inc()
}

func (m *Metrics) observeStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) observeRun(result string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(result).Inc()
}
