package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestComputationErrorImplementsError(t *testing.T) {
	err := &ComputationError{
		Stage: StageWronskian,
		X:     complex(2.5, 0),
		L:     3,
		Value: 0,
		Err:   ErrDegenerate,
	}

	var _ error = err

	errStr := err.Error()
	if errStr == "" {
		t.Error("Error() returned empty string")
	}
	for _, want := range []string{"wronskian", "l=3", "(2.5+0i)", "degenerate normalization"} {
		if !strings.Contains(errStr, want) {
			t.Errorf("Error() = %q, should contain %q", errStr, want)
		}
	}
}

func TestComputationErrorUnwrap(t *testing.T) {
	err := &ComputationError{Stage: StageSeedG, Err: ErrDegenerate}

	if unwrapped := err.Unwrap(); unwrapped != ErrDegenerate {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrDegenerate)
	}
	if !errors.Is(err, ErrDegenerate) {
		t.Error("errors.Is(err, ErrDegenerate) should be true")
	}

	wrapped := fmt.Errorf("row 4: %w", err)
	var ce *ComputationError
	if !errors.As(wrapped, &ce) {
		t.Fatal("errors.As should find ComputationError through wrapping")
	}
	if ce.Stage != StageSeedG {
		t.Errorf("Stage = %v, want %v", ce.Stage, StageSeedG)
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{ErrInvalidArgument, ErrInvalidRange, ErrDimensionMismatch, ErrDegenerate}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
