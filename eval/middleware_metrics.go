package eval

import (
	"context"
	"time"
)

// MetricsCollector receives evaluation metrics.
type MetricsCollector interface {
	// RecordEval records one batch evaluation with its outcome.
	// resp is nil when err is non-nil.
	RecordEval(req Request, resp *Response, duration time.Duration, err error)
}

// WithMetrics creates middleware that records evaluation metrics.
func WithMetrics(collector MetricsCollector) Middleware {
	return func(next EvalFunc) EvalFunc {
		return func(ctx context.Context, req Request) (*Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			collector.RecordEval(req, resp, duration, err)
			return resp, err
		}
	}
}
