package eval

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WithTimeout creates middleware that bounds evaluation time. The solver
// checks the context between rows, so a row in progress always completes.
func WithTimeout(d time.Duration) Middleware {
	return func(next EvalFunc) EvalFunc {
		return func(ctx context.Context, req Request) (*Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			resp, err := next(ctx, req)
			if err != nil && errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("evaluation timeout after %v: %w", d, err)
			}
			return resp, err
		}
	}
}
