// Package eval wraps a core.Solver in a middleware pipeline for batch
// evaluation: logging, timeouts, metrics, caching and request limits.
package eval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/petal-labs/coulomb/core"
)

// Request describes one batch evaluation on a grid of real x values.
type Request struct {
	Xs    []float64
	Eta   float64
	Range core.LRange

	// SkipG leaves the irregular solution uncomputed; Response.Values.G
	// and Gp are nil.
	SkipG bool
}

// Validate checks the request shape. Per-x checks are done by the solver.
func (r Request) Validate() error {
	if len(r.Xs) == 0 {
		return fmt.Errorf("%w: no x values", core.ErrInvalidArgument)
	}
	return r.Range.Validate()
}

// Response is the result of a batch evaluation. Values must be treated as
// read-only when the pipeline caches responses.
type Response struct {
	Values *core.Matrices
	Report *core.BatchReport
}

// EvalFunc is the function signature for batch evaluation.
// Middleware wraps this function to add behavior.
type EvalFunc func(ctx context.Context, req Request) (*Response, error)

// Middleware wraps an EvalFunc to add behavior before and/or after evaluation.
type Middleware func(next EvalFunc) EvalFunc

// EvalContext provides metadata about the current evaluation to middleware.
// It's stored in the context and accessible via EvalContextFromContext.
type EvalContext struct {
	// RunID uniquely identifies this evaluation.
	RunID string

	// Metadata allows middleware to share data with each other.
	Metadata map[string]any
}

type evalContextKey struct{}

// ContextWithEvalContext adds EvalContext to a context.
func ContextWithEvalContext(ctx context.Context, ec *EvalContext) context.Context {
	return context.WithValue(ctx, evalContextKey{}, ec)
}

// EvalContextFromContext retrieves EvalContext from a context.
// Returns nil if not present.
func EvalContextFromContext(ctx context.Context) *EvalContext {
	ec, _ := ctx.Value(evalContextKey{}).(*EvalContext)
	return ec
}

func runID(ctx context.Context) string {
	if ec := EvalContextFromContext(ctx); ec != nil {
		return ec.RunID
	}
	return "unknown"
}

// Chain combines multiple middleware into a single middleware.
// Middleware are executed in the order provided (first middleware is outermost).
func Chain(middlewares ...Middleware) Middleware {
	return func(next EvalFunc) EvalFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Handler returns the terminal EvalFunc that runs the solver.
func Handler(s *core.Solver) EvalFunc {
	return func(ctx context.Context, req Request) (*Response, error) {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		out := core.NewMatrices(len(req.Xs), req.Range, !req.SkipG)
		rep, err := s.ComputeAll(ctx, out, req.Xs, req.Eta, req.Range)
		if err != nil {
			return nil, err
		}
		return &Response{Values: out, Report: rep}, nil
	}
}

// New wraps next with middleware and makes sure every call carries an
// EvalContext with a run ID.
func New(next EvalFunc, middlewares ...Middleware) EvalFunc {
	wrapped := Chain(middlewares...)(next)
	return func(ctx context.Context, req Request) (*Response, error) {
		ec := EvalContextFromContext(ctx)
		if ec == nil {
			ec = &EvalContext{Metadata: make(map[string]any)}
			ctx = ContextWithEvalContext(ctx, ec)
		}
		if ec.RunID == "" {
			ec.RunID = uuid.NewString()
		}
		if ec.Metadata == nil {
			ec.Metadata = make(map[string]any)
		}
		return wrapped(ctx, req)
	}
}
