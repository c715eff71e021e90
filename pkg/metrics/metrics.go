package metrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Metric holds data points from one cleanup run.
type Metric struct {
	Repositories int // Number of repositories scanned.
	Scanned      int // Number of tagged images evaluated.
	Deleted      int // Number of images selected for deletion.
	Kept         int // Number of images kept within their retention window.
	Ignored      int // Number of images kept by the ignore set.
}

// Metrics handles processing and exposing cleanup run metrics.
type Metrics struct {
	repositories prometheus.Gauge   // Gauge for repositories scanned in the last run.
	scanned      prometheus.Gauge   // Gauge for images scanned in the last run.
	deleted      prometheus.Gauge   // Gauge for images deleted in the last run.
	kept         prometheus.Gauge   // Gauge for images kept in the last run.
	ignored      prometheus.Gauge   // Gauge for images ignored in the last run.
	deletedTotal prometheus.Counter // Counter for total deleted images.
	runsTotal    prometheus.Counter // Counter for total cleanup runs.
}

// NewWithRegistry creates a new Metrics handler with a custom Prometheus
// registry.
//
// Parameters:
//   - registry: Prometheus registerer to use for metric registration.
//
// Returns:
//   - (*Metrics, error): Metrics handler, or an error if registration fails.
func NewWithRegistry(registry prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		repositories: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "janitor_repositories_scanned",
			Help: "Number of repositories scanned during the last cleanup run",
		}),
		scanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "janitor_images_scanned",
			Help: "Number of tagged images evaluated during the last cleanup run",
		}),
		deleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "janitor_images_deleted",
			Help: "Number of images selected for deletion during the last cleanup run",
		}),
		kept: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "janitor_images_kept",
			Help: "Number of images kept within their retention window during the last cleanup run",
		}),
		ignored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "janitor_images_ignored",
			Help: "Number of images kept by the ignore set during the last cleanup run",
		}),
		deletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "janitor_images_deleted_total",
			Help: "Total number of images selected for deletion since the janitor started",
		}),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "janitor_runs_total",
			Help: "Number of cleanup runs since the janitor started",
		}),
	}

	collectors := []prometheus.Collector{
		metrics.repositories,
		metrics.scanned,
		metrics.deleted,
		metrics.kept,
		metrics.ignored,
		metrics.deletedTotal,
		metrics.runsTotal,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			alreadyRegistered := &prometheus.AlreadyRegisteredError{}
			if !errors.As(err, alreadyRegistered) {
				return nil, fmt.Errorf("failed to register metric: %w", err)
			}
		}
	}

	return metrics, nil
}

// Default returns the singleton Metrics handler registered on the default
// Prometheus registry, creating it on first use.
func Default() *Metrics {
	defaultOnce.Do(func() {
		handler, err := NewWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			logrus.WithError(err).Error("Failed to register janitor metrics")

			return
		}

		defaultMetrics = handler
	})

	return defaultMetrics
}

// RegisterRun records the outcome of one cleanup run. A nil metric counts
// the run without touching the per-run gauges.
func (m *Metrics) RegisterRun(metric *Metric) {
	if m == nil {
		return
	}

	m.runsTotal.Inc()

	if metric == nil {
		return
	}

	m.repositories.Set(float64(metric.Repositories))
	m.scanned.Set(float64(metric.Scanned))
	m.deleted.Set(float64(metric.Deleted))
	m.kept.Set(float64(metric.Kept))
	m.ignored.Set(float64(metric.Ignored))
	m.deletedTotal.Add(float64(metric.Deleted))
}
