package eval

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Evaluation outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeNotConverged = "not_converged"
	OutcomeError        = "error"
)

// PrometheusCollector is a MetricsCollector backed by Prometheus metrics.
type PrometheusCollector struct {
	// EvaluationsTotal counts batch evaluations by outcome.
	EvaluationsTotal *prometheus.CounterVec

	// PointsTotal counts x values evaluated.
	PointsTotal prometheus.Counter

	// DurationSeconds measures batch evaluation time.
	DurationSeconds prometheus.Histogram

	// AdvisoriesTotal counts advisories by kind.
	AdvisoriesTotal *prometheus.CounterVec
}

// NewPrometheusCollector creates the collector's metrics and registers them
// on reg. A nil reg leaves the metrics unregistered.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "eval",
				Name:      "evaluations_total",
				Help:      "Total batch evaluations by outcome",
			},
			[]string{"outcome"},
		),
		PointsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "eval",
				Name:      "points_total",
				Help:      "Total x values evaluated",
			},
		),
		DurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "eval",
				Name:      "duration_seconds",
				Help:      "Batch evaluation duration",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		AdvisoriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "eval",
				Name:      "advisories_total",
				Help:      "Total advisories by kind",
			},
			[]string{"kind"},
		),
	}
}

// RecordEval implements MetricsCollector.
func (c *PrometheusCollector) RecordEval(req Request, resp *Response, duration time.Duration, err error) {
	c.DurationSeconds.Observe(duration.Seconds())

	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeError
	case resp != nil && resp.Report != nil && !resp.Report.Converged():
		outcome = OutcomeNotConverged
	}
	c.EvaluationsTotal.WithLabelValues(outcome).Inc()

	if err != nil {
		return
	}
	c.PointsTotal.Add(float64(len(req.Xs)))
	if resp == nil || resp.Report == nil {
		return
	}
	for _, a := range resp.Report.Advisories() {
		c.AdvisoriesTotal.WithLabelValues(string(a.Kind)).Inc()
	}
}

var _ MetricsCollector = (*PrometheusCollector)(nil)
