package core

import (
	"errors"
	"fmt"
)

// Stage names the step of Steed's method that failed.
type Stage string

// Stages reported by ComputationError.
const (
	StageSeedG     Stage = "seed_g"
	StageWronskian Stage = "wronskian"
)

// ComputationError reports a numerical failure with full context.
type ComputationError struct {
	Stage Stage
	X     complex128
	L     int
	Value complex128
	Err   error
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s at x=%v, l=%d: %v (value=%v)", e.Stage, e.X, e.L, e.Err, e.Value)
}

// Unwrap returns the underlying error for error chaining.
func (e *ComputationError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidRange      = errors.New("invalid l range")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrDegenerate        = errors.New("degenerate normalization")
)
