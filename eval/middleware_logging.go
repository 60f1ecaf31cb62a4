package eval

import (
	"context"
	"time"
)

// Logger is the interface for logging middleware.
type Logger interface {
	Printf(format string, v ...any)
}

// WithLogging creates middleware that logs batch evaluations.
func WithLogging(logger Logger) Middleware {
	return func(next EvalFunc) EvalFunc {
		return func(ctx context.Context, req Request) (*Response, error) {
			id := runID(ctx)
			logger.Printf("eval start: run=%s points=%d eta=%g l=%s", id, len(req.Xs), req.Eta, req.Range)
			start := time.Now()

			resp, err := next(ctx, req)

			duration := time.Since(start)
			switch {
			case err != nil:
				logger.Printf("eval error: run=%s, duration=%v, error=%v", id, duration, err)
			case resp.Report != nil && !resp.Report.Converged():
				logger.Printf("eval done (not converged): run=%s, duration=%v", id, duration)
			default:
				logger.Printf("eval success: run=%s, duration=%v", id, duration)
			}
			return resp, err
		}
	}
}
