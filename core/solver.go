package core

import (
	"runtime"

	"github.com/petal-labs/coulomb/special"
)

// Config holds the numerical settings shared by every call of a Solver.
type Config struct {
	Tolerance     float64   // Continued-fraction convergence threshold (default: 1e-15)
	MaxIterations int       // Continued-fraction iteration cap (default: 100000)
	Verbosity     Verbosity // Highest advisory level forwarded to the hook (default: Warn)
	Workers       int       // Row workers for vectorized calls (default: GOMAXPROCS)
}

// Default numerical settings.
const (
	DefaultTolerance     = 1e-15
	DefaultMaxIterations = 100000
	DefaultVerbosity     = VerbosityWarn
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Verbosity:     DefaultVerbosity,
		Workers:       runtime.GOMAXPROCS(0),
	}
}

// normalize replaces out-of-range values with defaults.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if !(c.Tolerance > 0 && c.Tolerance < 1) {
		c.Tolerance = d.Tolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Verbosity < VerbosityQuiet || c.Verbosity > VerbosityDebug {
		c.Verbosity = d.Verbosity
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}

// Solver computes Coulomb wave functions with Steed's method.
// A Solver is immutable after construction and safe for concurrent use.
type Solver struct {
	cfg   Config
	gamma special.GammaProvider
	cf    special.Evaluator
	hook  DiagnosticsHook
}

// Option configures a Solver.
type Option func(*Solver)

// NewSolver creates a Solver with default settings and the given options.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		cfg:   DefaultConfig(),
		gamma: special.NewLanczos(),
		cf:    special.Lentz,
		hook:  NoopDiagnosticsHook{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.normalize()
	return s
}

// WithConfig replaces the whole numerical configuration.
func WithConfig(cfg Config) Option {
	return func(s *Solver) {
		s.cfg = cfg
	}
}

// WithTolerance sets the continued-fraction convergence threshold.
func WithTolerance(tol float64) Option {
	return func(s *Solver) {
		s.cfg.Tolerance = tol
	}
}

// WithMaxIterations sets the continued-fraction iteration cap.
func WithMaxIterations(n int) Option {
	return func(s *Solver) {
		s.cfg.MaxIterations = n
	}
}

// WithVerbosity sets the highest advisory level forwarded to the hook.
func WithVerbosity(v Verbosity) Option {
	return func(s *Solver) {
		s.cfg.Verbosity = v
	}
}

// WithWorkers sets the number of concurrent row workers for vectorized calls.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		s.cfg.Workers = n
	}
}

// WithGamma injects the Gamma function used by the x = 0 branch.
func WithGamma(g special.GammaProvider) Option {
	return func(s *Solver) {
		if g != nil {
			s.gamma = g
		}
	}
}

// WithFractionEvaluator injects the continued-fraction evaluator.
func WithFractionEvaluator(cf special.Evaluator) Option {
	return func(s *Solver) {
		if cf != nil {
			s.cf = cf
		}
	}
}

// WithDiagnostics sets the hook receiving advisories and evaluation events.
func WithDiagnostics(h DiagnosticsHook) Option {
	return func(s *Solver) {
		if h != nil {
			s.hook = h
		}
	}
}

// Config returns the effective configuration.
func (s *Solver) Config() Config {
	return s.cfg
}

// Gamma returns the configured Gamma provider.
func (s *Solver) Gamma() special.GammaProvider {
	return s.gamma
}

// emit records the advisory and forwards it to the hook when enabled.
func (s *Solver) emit(rep *Report, a Advisory) {
	rep.add(a)
	if a.Level <= s.cfg.Verbosity {
		s.hook.OnAdvisory(a)
	}
}
