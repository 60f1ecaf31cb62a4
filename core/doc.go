// Package core computes the regular and irregular Coulomb wave functions
// F_l(η,x), G_l(η,x) and their x-derivatives with Steed's method.
//
// Steed's method combines two continued fractions with two recurrences in l
// and fixes the overall scale with the Wronskian F'G - FG' = 1:
//
//  1. CF1 gives F'/F at l_max.
//  2. F, F' are recurred downwards to l_min from an arbitrary seed.
//  3. CF2 gives p + iq = H'/H at l_min for H = G + iF.
//  4. G, G' at l_min follow from p, q and the unnormalized F, F'.
//  5. Everything is rescaled so the Wronskian equals one.
//  6. G, G' are recurred upwards to l_max.
//
// # Solver
//
// The entry point is [Solver], configured with functional options:
//
//	s := core.NewSolver(
//	    core.WithTolerance(1e-15),
//	    core.WithVerbosity(core.VerbosityInfo),
//	    core.WithDiagnostics(core.LoggerHook(log.Default())),
//	)
//
// A Solver is immutable and safe for concurrent use.
//
// # Scalar and vectorized forms
//
// [Solver.Compute] writes into caller-provided slices for a single x:
//
//	lr, _ := core.Range(0, 5)
//	out := core.NewValues(lr, true)
//	rep, err := s.Compute(2.5, 1.0, lr, out)
//
// [Solver.ComputeAll] writes into caller-provided gonum matrices, one row per
// x, and [Solver.Evaluate] allocates them:
//
//	m, batch, err := s.Evaluate(ctx, []float64{1, 2, 4}, 0.5, lr)
//	f01 := m.F.At(0, 1) // F_1 at x=1
//
// Rows are computed concurrently and independently.
//
// # Diagnostics
//
// Advisories (turning point, non-converged fractions, the x = 0 branch) are
// recorded in every [Report] and forwarded to the [DiagnosticsHook] when
// their level does not exceed the configured [Verbosity]. They never
// change the returned values. Hard failures are [ErrInvalidArgument],
// [ErrInvalidRange], [ErrDimensionMismatch] and [ErrDegenerate].
//
// # The x = 0 branch
//
// At x = 0 closed forms based on the normalization constant are used. G' is
// a -Inf sentinel and G for l >= 1 is unverified; such reports are marked
// [Report.Unreliable].
package core
