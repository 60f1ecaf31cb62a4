package core

import (
	"runtime"
	"testing"

	"github.com/petal-labs/coulomb/special"
)

func TestNewSolverDefaults(t *testing.T) {
	s := NewSolver()
	cfg := s.Config()

	if cfg.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %g, want %g", cfg.Tolerance, DefaultTolerance)
	}
	if cfg.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", cfg.MaxIterations, DefaultMaxIterations)
	}
	if cfg.Verbosity != VerbosityWarn {
		t.Errorf("Verbosity = %v, want warn", cfg.Verbosity)
	}
	if cfg.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers = %d, want GOMAXPROCS", cfg.Workers)
	}
	if s.Gamma().Name() != special.DefaultGamma {
		t.Errorf("Gamma() = %s, want %s", s.Gamma().Name(), special.DefaultGamma)
	}
}

func TestSolverOptions(t *testing.T) {
	s := NewSolver(
		WithTolerance(1e-12),
		WithMaxIterations(500),
		WithVerbosity(VerbosityDebug),
		WithWorkers(3),
		WithGamma(special.NewStirling()),
	)
	cfg := s.Config()

	if cfg.Tolerance != 1e-12 || cfg.MaxIterations != 500 || cfg.Verbosity != VerbosityDebug || cfg.Workers != 3 {
		t.Errorf("Config() = %+v", cfg)
	}
	if s.Gamma().Name() != "stirling" {
		t.Errorf("Gamma() = %s, want stirling", s.Gamma().Name())
	}
}

func TestSolverNilOptionsKeepDefaults(t *testing.T) {
	s := NewSolver(WithGamma(nil), WithFractionEvaluator(nil), WithDiagnostics(nil))
	if s.Gamma() == nil || s.cf == nil || s.hook == nil {
		t.Error("nil options should not clear defaults")
	}
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Config
	}{
		{name: "zero numerics", in: Config{Verbosity: VerbosityWarn}},
		{name: "negative", in: Config{Tolerance: -1, MaxIterations: -5, Verbosity: -1, Workers: -2}},
		{name: "tolerance too large", in: Config{Tolerance: 2, Verbosity: 9}},
	}

	d := DefaultConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSolver(WithConfig(tt.in)).Config()
			if got != d {
				t.Errorf("Config() = %+v, want %+v", got, d)
			}
		})
	}
}
