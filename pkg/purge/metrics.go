package purge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Label constants for metrics.
const (
	LabelResult = "result"
	LabelReason = "reason"
	LabelStage  = "stage"
)

// Result label values.
const (
	ResultDeleted = "deleted"
	ResultFailed  = "failed"
)

// Stage names used for metrics, spans and logs.
const (
	StageCatalog = "catalog"
	StageScan    = "scan"
	StageResolve = "resolve"
	StageExecute = "execute"
)

// Metrics provides Prometheus metrics for purge runs.
//
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	attempts       *prometheus.CounterVec
	catalogBlocks  prometheus.Gauge
	inactiveBlocks prometheus.Gauge
	stageDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers purge metrics.
// If registry is nil, metrics are created but not registered.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "blockpurge",
				Subsystem: "purge",
				Name:      "attempts_total",
				Help:      "Total number of block deletion attempts by result and failure reason",
			},
			[]string{LabelResult, LabelReason},
		),

		catalogBlocks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "blockpurge",
				Name:      "catalog_blocks",
				Help:      "Number of block definitions in the last scanned catalog",
			},
		),

		inactiveBlocks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "blockpurge",
				Name:      "inactive_blocks",
				Help:      "Number of inactive block definitions found by the last analysis",
			},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "blockpurge",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each pipeline stage",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
			},
			[]string{LabelStage},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.attempts,
			m.catalogBlocks,
			m.inactiveBlocks,
			m.stageDuration,
		)
	}

	return m
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// SetCatalogBlocks records the catalog size.
func (m *Metrics) SetCatalogBlocks(n int) {
	if m == nil {
		return
	}
	m.catalogBlocks.Set(float64(n))
}

// SetInactiveBlocks records the number of inactive candidates.
func (m *Metrics) SetInactiveBlocks(n int) {
	if m == nil {
		return
	}
	m.inactiveBlocks.Set(float64(n))
}

// RecordOutcome counts one deletion attempt.
func (m *Metrics) RecordOutcome(o Outcome) {
	if m == nil {
		return
	}
	if o.Succeeded {
		m.attempts.WithLabelValues(ResultDeleted, "").Inc()
		return
	}
	m.attempts.WithLabelValues(ResultFailed, string(o.Reason)).Inc()
}
