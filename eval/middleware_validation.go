package eval

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrLimitExceeded is returned when a request is larger than allowed.
var ErrLimitExceeded = errors.New("request exceeds limits")

// Limits bounds the size of accepted requests. Zero fields are unlimited.
type Limits struct {
	MaxPoints int     // Maximum number of x values
	MaxL      int     // Maximum l_max
	MaxAbsEta float64 // Maximum |η|
}

// WithValidation creates middleware that rejects malformed or oversized
// requests before they reach the solver.
func WithValidation(limits Limits) Middleware {
	return func(next EvalFunc) EvalFunc {
		return func(ctx context.Context, req Request) (*Response, error) {
			if err := req.Validate(); err != nil {
				return nil, err
			}
			if limits.MaxPoints > 0 && len(req.Xs) > limits.MaxPoints {
				return nil, fmt.Errorf("%w: %d points, max %d", ErrLimitExceeded, len(req.Xs), limits.MaxPoints)
			}
			if limits.MaxL > 0 && req.Range.Max > limits.MaxL {
				return nil, fmt.Errorf("%w: l_max %d, max %d", ErrLimitExceeded, req.Range.Max, limits.MaxL)
			}
			if limits.MaxAbsEta > 0 && math.Abs(req.Eta) > limits.MaxAbsEta {
				return nil, fmt.Errorf("%w: |eta| %g, max %g", ErrLimitExceeded, math.Abs(req.Eta), limits.MaxAbsEta)
			}
			return next(ctx, req)
		}
	}
}
