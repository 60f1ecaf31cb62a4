package special

import (
	"math"
	"math/cmplx"
)

// tiny replaces exact zeros in the Lentz recurrences.
const tiny = 1e-300

// TermFunc returns the k-th partial numerator or denominator, k >= 1.
type TermFunc func(k int) complex128

// Result is the outcome of a continued-fraction evaluation.
type Result struct {
	// Value is the best available approximant.
	Value complex128

	// Iterations is the number of terms consumed.
	Iterations int

	// LastTerm is the final multiplicative correction C_k*D_k.
	LastTerm complex128

	// Sign is +1 or -1: the product of the signs of the real parts of the
	// denominators D_k. For a three-term recurrence this counts the sign
	// changes of the minimal solution past the starting index.
	Sign int

	// Converged reports whether |LastTerm-1| dropped below the tolerance
	// before the iteration cap was reached.
	Converged bool
}

// Evaluator evaluates b0 + a1/(b1 + a2/(b2 + ...)).
type Evaluator func(b0 complex128, a, b TermFunc, tol float64, maxIter int) Result

// Lentz evaluates b0 + a1/(b1 + a2/(b2 + ...)) with the modified
// Lentz-Thompson algorithm. Non-convergence is reported through
// Result.Converged, never as an error.
func Lentz(b0 complex128, a, b TermFunc, tol float64, maxIter int) Result {
	f := b0
	if f == 0 {
		f = tiny
	}
	c := f
	d := complex128(0)
	sign := 1

	res := Result{Value: f, Sign: sign}
	for k := 1; k <= maxIter; k++ {
		ak, bk := a(k), b(k)

		d = bk + ak*d
		if d == 0 {
			d = tiny
		}
		c = bk + ak/c
		if c == 0 {
			c = tiny
		}
		d = 1 / d
		if real(d) < 0 {
			sign = -sign
		}

		delta := c * d
		f *= delta

		res.Value = f
		res.Iterations = k
		res.LastTerm = delta
		res.Sign = sign

		if cmplx.Abs(delta-1) < tol {
			res.Converged = true
			return res
		}
		if isBad(f) {
			return res
		}
	}
	return res
}

func isBad(z complex128) bool {
	return math.IsNaN(real(z)) || math.IsNaN(imag(z)) ||
		math.IsInf(real(z), 0) || math.IsInf(imag(z), 0)
}
