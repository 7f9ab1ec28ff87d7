package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	backtests   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	precision   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		backtests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpilot_backtests_total",
				Help: "Total number of completed backtests",
			},
			[]string{"symbol", "decision"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpilot_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		precision: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpilot_decision_precision",
				Help: "Walk-forward precision of the latest backtest per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpilot_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBacktest records a completed backtest and its decision.
func (r *Recorder) RecordBacktest(symbol, decision string) {
	r.backtests.WithLabelValues(symbol, decision).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordDecisionPrecision records the latest precision score for a symbol.
func (r *Recorder) RecordDecisionPrecision(symbol string, precision float64) {
	r.precision.WithLabelValues(symbol).Set(precision)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
