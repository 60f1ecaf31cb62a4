package core

import (
	"fmt"
	"time"
)

// Verbosity gates which advisories reach the DiagnosticsHook.
type Verbosity int

// Verbosity levels, from least to most verbose.
const (
	VerbosityQuiet Verbosity = iota
	VerbosityWarn
	VerbosityInfo
	VerbosityDebug
)

// String implements fmt.Stringer.
func (v Verbosity) String() string {
	switch v {
	case VerbosityQuiet:
		return "quiet"
	case VerbosityWarn:
		return "warn"
	case VerbosityInfo:
		return "info"
	case VerbosityDebug:
		return "debug"
	default:
		return fmt.Sprintf("verbosity(%d)", int(v))
	}
}

// ParseVerbosity converts a level name or digit to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "quiet", "0":
		return VerbosityQuiet, nil
	case "warn", "1":
		return VerbosityWarn, nil
	case "info", "2":
		return VerbosityInfo, nil
	case "debug", "3":
		return VerbosityDebug, nil
	}
	return VerbosityQuiet, fmt.Errorf("%w: unknown verbosity %q", ErrInvalidArgument, s)
}

// AdvisoryKind classifies a non-fatal diagnostic.
type AdvisoryKind string

// Advisory kinds.
const (
	AdvisoryTurningPoint     AdvisoryKind = "turning_point"
	AdvisoryCF1NotConverged  AdvisoryKind = "cf1_not_converged"
	AdvisoryCF2NotConverged  AdvisoryKind = "cf2_not_converged"
	AdvisoryOriginUnreliable AdvisoryKind = "origin_unreliable"
	AdvisoryFractionStats    AdvisoryKind = "fraction_stats"
)

// Advisory is a structured, non-fatal diagnostic attached to a Report.
type Advisory struct {
	Kind    AdvisoryKind
	Level   Verbosity
	X       complex128
	L       int
	Message string
}

// String implements fmt.Stringer.
func (a Advisory) String() string {
	return fmt.Sprintf("%s (x=%v, l=%d): %s", a.Kind, a.X, a.L, a.Message)
}

// DiagnosticsHook receives advisories and per-evaluation events.
// Hooks are invoked from worker goroutines during vectorized calls and
// MUST be safe for concurrent use. Results never depend on whether a
// hook observes anything.
type DiagnosticsHook interface {
	// OnAdvisory is called for each advisory at or below the configured verbosity.
	OnAdvisory(a Advisory)

	// OnEvaluation is called when a scalar evaluation completes.
	OnEvaluation(e EvaluationEvent)
}

// EvaluationEvent contains metadata about a completed scalar evaluation.
type EvaluationEvent struct {
	X             complex128
	Eta           float64
	Range         LRange
	CF1Iterations int
	CF2Iterations int
	Converged     bool
	Start         time.Time
	End           time.Time
	Err           error
}

// Duration returns the elapsed time for the evaluation.
func (e EvaluationEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopDiagnosticsHook is a no-op implementation of DiagnosticsHook.
type NoopDiagnosticsHook struct{}

// OnAdvisory does nothing.
func (NoopDiagnosticsHook) OnAdvisory(Advisory) {}

// OnEvaluation does nothing.
func (NoopDiagnosticsHook) OnEvaluation(EvaluationEvent) {}

// Logger is the minimal logging interface accepted by LoggerHook.
type Logger interface {
	Printf(format string, v ...any)
}

// LoggerHook adapts a Printf-style logger to DiagnosticsHook.
// Evaluation events are logged only when they failed or did not converge.
func LoggerHook(logger Logger) DiagnosticsHook {
	return loggerHook{logger: logger}
}

type loggerHook struct {
	logger Logger
}

func (h loggerHook) OnAdvisory(a Advisory) {
	h.logger.Printf("coulomb %s: %s", a.Level, a)
}

func (h loggerHook) OnEvaluation(e EvaluationEvent) {
	switch {
	case e.Err != nil:
		h.logger.Printf("coulomb evaluation failed: x=%v, eta=%g, l=%s, error=%v", e.X, e.Eta, e.Range, e.Err)
	case !e.Converged:
		h.logger.Printf("coulomb evaluation not converged: x=%v, eta=%g, l=%s, cf1=%d, cf2=%d",
			e.X, e.Eta, e.Range, e.CF1Iterations, e.CF2Iterations)
	}
}

// Compile-time checks.
var (
	_ DiagnosticsHook = NoopDiagnosticsHook{}
	_ DiagnosticsHook = loggerHook{}
)
