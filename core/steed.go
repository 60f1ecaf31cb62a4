package core

import (
	"fmt"
	"math"
	"math/cmplx"
	"time"
)

// minQ is the smallest |q| accepted when seeding G from CF2.
const minQ = 1e-290

// workspace holds the complex scratch arrays of one evaluation.
// Vectorized calls keep one workspace per worker.
type workspace struct {
	f, fp, g, gp []complex128
}

func newWorkspace(n int) *workspace {
	return &workspace{
		f:  make([]complex128, n),
		fp: make([]complex128, n),
		g:  make([]complex128, n),
		gp: make([]complex128, n),
	}
}

// Compute evaluates F_l, F'_l and optionally G_l, G'_l at a real x >= 0
// for every l in lr, writing into out. Pass nil out.G and out.Gp to skip
// the irregular solution.
//
// A non-nil error is returned for invalid arguments, mismatched sink
// lengths (before anything is written) and degenerate normalization.
// Non-convergence is reported through Report.Converged and advisories.
func (s *Solver) Compute(x, eta float64, lr LRange, out Values) (*Report, error) {
	if err := validateArgs(complex(x, 0), eta, lr); err != nil {
		return nil, err
	}
	wantG, err := out.check(lr.Len())
	if err != nil {
		return nil, err
	}

	w := newWorkspace(lr.Len())
	rep, err := s.evaluate(complex(x, 0), eta, lr, wantG, w)
	if err != nil {
		return rep, err
	}
	w.storeReal(out.F, out.Fp, out.G, out.Gp, wantG)
	return rep, nil
}

// ComputeComplex is Compute for a complex argument x.
func (s *Solver) ComputeComplex(x complex128, eta float64, lr LRange, out ComplexValues) (*Report, error) {
	if err := validateArgs(x, eta, lr); err != nil {
		return nil, err
	}
	wantG, err := out.check(lr.Len())
	if err != nil {
		return nil, err
	}

	w := newWorkspace(lr.Len())
	rep, err := s.evaluate(x, eta, lr, wantG, w)
	if err != nil {
		return rep, err
	}
	w.storeComplex(out.F, out.Fp, out.G, out.Gp, wantG)
	return rep, nil
}

func validateArgs(x complex128, eta float64, lr LRange) error {
	if !finite(x) {
		return fmt.Errorf("%w: x must be finite, got %v", ErrInvalidArgument, x)
	}
	if math.IsNaN(eta) || math.IsInf(eta, 0) {
		return fmt.Errorf("%w: eta must be finite, got %v", ErrInvalidArgument, eta)
	}
	if imag(x) == 0 && real(x) < 0 {
		return fmt.Errorf("%w: real x must be non-negative, got %v", ErrInvalidArgument, real(x))
	}
	return lr.Validate()
}

// evaluate runs Steed's method and reports the outcome to the hook.
func (s *Solver) evaluate(x complex128, eta float64, lr LRange, wantG bool, w *workspace) (*Report, error) {
	start := time.Now()
	rep, err := s.steed(x, eta, lr, wantG, w)
	s.hook.OnEvaluation(EvaluationEvent{
		X:             x,
		Eta:           eta,
		Range:         lr,
		CF1Iterations: rep.CF1.Iterations,
		CF2Iterations: rep.CF2.Iterations,
		Converged:     rep.Converged,
		Start:         start,
		End:           time.Now(),
		Err:           err,
	})
	return rep, err
}

// steed computes normalized F, F' (and G, G' when wantG) into w for one x.
// The returned report is never nil.
func (s *Solver) steed(x complex128, eta float64, lr LRange, wantG bool, w *workspace) (*Report, error) {
	rep := &Report{X: x}
	n := lr.Len()
	if x == 0 {
		s.origin(eta, lr, wantG, w, rep)
		return rep, nil
	}
	complexX := imag(x) != 0

	if tp := TurningPoint(eta, lr.Min); tp > cmplx.Abs(x) {
		s.emit(rep, Advisory{
			Kind:    AdvisoryTurningPoint,
			Level:   VerbosityInfo,
			X:       x,
			L:       lr.Min,
			Message: fmt.Sprintf("|x| is inside the turning point %.6g; accuracy may degrade", tp),
		})
	}

	// F'/F at l_max, then F, F' down to l_min from an arbitrary unit seed.
	r1 := s.cf1(x, eta, lr.Max)
	rep.CF1 = r1
	if !r1.Converged {
		s.emit(rep, notConverged(AdvisoryCF1NotConverged, x, lr.Max, r1.Iterations))
	}
	seed := 1.0
	if r1.Sign < 0 {
		seed = -1
	}
	f, fp := w.f[:n], w.fp[:n]
	f[n-1] = complex(seed, 0)
	fp[n-1] = r1.Value * f[n-1]
	recurDown(x, eta, lr.Min, f, fp)
	balance(f, fp)

	// p + iq from the outgoing (and for complex x, incoming) fraction.
	out := s.cf2(x, eta, lr.Min, 1)
	rep.CF2 = out
	rep.Converged = r1.Converged && out.Converged
	if !out.Converged {
		s.emit(rep, notConverged(AdvisoryCF2NotConverged, x, lr.Min, out.Iterations))
	}
	var p, q complex128
	if complexX {
		in := s.cf2(x, eta, lr.Min, -1)
		rep.CF2Incoming = &in
		rep.Converged = rep.Converged && in.Converged
		if !in.Converged {
			s.emit(rep, notConverged(AdvisoryCF2NotConverged, x, lr.Min, in.Iterations))
		}
		p = (out.Value + in.Value) / 2
		q = (out.Value - in.Value) / complex(0, 2)
	} else {
		p = complex(real(out.Value), 0)
		q = complex(imag(out.Value), 0)
	}

	if !finite(p) || !finite(q) || cmplx.Abs(q) < minQ {
		return rep, &ComputationError{Stage: StageSeedG, X: x, L: lr.Min, Value: q, Err: ErrDegenerate}
	}
	g0 := (fp[0] - p*f[0]) / q
	gp0 := p*g0 - q*f[0]

	wr := fp[0]*g0 - f[0]*gp0
	if !finite(wr) || wr == 0 || (!complexX && real(wr) <= 0) {
		return rep, &ComputationError{Stage: StageWronskian, X: x, L: lr.Min, Value: wr, Err: ErrDegenerate}
	}
	scale := 1 / cmplx.Sqrt(wr)
	for i := range f {
		f[i] *= scale
		fp[i] *= scale
	}

	if wantG {
		g, gp := w.g[:n], w.gp[:n]
		g[0] = g0 * scale
		gp[0] = gp0 * scale
		recurUp(x, eta, lr.Min, g, gp)
	}

	if s.cfg.Verbosity >= VerbosityDebug {
		s.emit(rep, Advisory{
			Kind:    AdvisoryFractionStats,
			Level:   VerbosityDebug,
			X:       x,
			L:       lr.Min,
			Message: fmt.Sprintf("cf1 %d terms, cf2 %d terms, p=%v, q=%v", r1.Iterations, out.Iterations, p, q),
		})
	}
	return rep, nil
}

func notConverged(kind AdvisoryKind, x complex128, l, iterations int) Advisory {
	return Advisory{
		Kind:    kind,
		Level:   VerbosityWarn,
		X:       x,
		L:       l,
		Message: fmt.Sprintf("continued fraction did not converge in %d terms; using best approximant", iterations),
	}
}

func (w *workspace) storeReal(f, fp, g, gp []float64, wantG bool) {
	for i := range f {
		f[i] = real(w.f[i])
		fp[i] = real(w.fp[i])
	}
	if !wantG {
		return
	}
	for i := range g {
		g[i] = real(w.g[i])
		gp[i] = real(w.gp[i])
	}
}

func (w *workspace) storeComplex(f, fp, g, gp []complex128, wantG bool) {
	copy(f, w.f)
	copy(fp, w.fp)
	if wantG {
		copy(g, w.g)
		copy(gp, w.gp)
	}
}

func finite(z complex128) bool {
	return !math.IsNaN(real(z)) && !math.IsNaN(imag(z)) &&
		!math.IsInf(real(z), 0) && !math.IsInf(imag(z), 0)
}
