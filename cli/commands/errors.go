package commands

import (
	"context"
	"errors"

	"github.com/petal-labs/coulomb/core"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitValidation  = 1
	ExitComputation = 2
)

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// classify maps a solver or pipeline error to an exit code.
func classify(err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	switch {
	case errors.Is(err, core.ErrDegenerate),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return exitWithCode(ExitComputation, err)
	default:
		return exitWithCode(ExitValidation, err)
	}
}
