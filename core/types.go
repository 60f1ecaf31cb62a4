package core

import (
	"fmt"

	"github.com/petal-labs/coulomb/special"
)

// LRange is a contiguous ascending range of angular momenta Min..Max.
// The zero value is the single index l=0.
type LRange struct {
	Min int
	Max int
}

// Range returns the range lmin..lmax inclusive.
func Range(lmin, lmax int) (LRange, error) {
	lr := LRange{Min: lmin, Max: lmax}
	if err := lr.Validate(); err != nil {
		return LRange{}, err
	}
	return lr, nil
}

// FirstN returns the range 0..n-1.
func FirstN(n int) (LRange, error) {
	if n <= 0 {
		return LRange{}, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRange, n)
	}
	return LRange{Min: 0, Max: n - 1}, nil
}

// RangeOf converts an explicit sequence of angular momenta.
// The sequence must be non-empty and increase by exactly one.
func RangeOf(ls []int) (LRange, error) {
	if len(ls) == 0 {
		return LRange{}, fmt.Errorf("%w: empty sequence", ErrInvalidRange)
	}
	for i := 1; i < len(ls); i++ {
		if ls[i] != ls[i-1]+1 {
			return LRange{}, fmt.Errorf("%w: sequence not contiguous at index %d (%d after %d)",
				ErrInvalidRange, i, ls[i], ls[i-1])
		}
	}
	return Range(ls[0], ls[len(ls)-1])
}

// Validate checks that the range is non-empty and non-negative.
func (r LRange) Validate() error {
	if r.Min < 0 {
		return fmt.Errorf("%w: negative l_min %d", ErrInvalidRange, r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%w: l_max %d < l_min %d", ErrInvalidRange, r.Max, r.Min)
	}
	return nil
}

// Len returns the number of angular momenta in the range.
func (r LRange) Len() int { return r.Max - r.Min + 1 }

// Ls returns the explicit sequence Min..Max.
func (r LRange) Ls() []int {
	ls := make([]int, r.Len())
	for i := range ls {
		ls[i] = r.Min + i
	}
	return ls
}

// String implements fmt.Stringer.
func (r LRange) String() string { return fmt.Sprintf("%d..%d", r.Min, r.Max) }

// Values is a caller-provided output sink for one real x.
// Index i corresponds to l = Min+i. G and Gp may both be nil to skip
// the irregular solution; all non-nil slices must have the range length.
// The slices are written exclusively by the call and must not alias.
type Values struct {
	F  []float64
	Fp []float64
	G  []float64
	Gp []float64
}

// NewValues allocates a sink for the range, with G/G' when withG is true.
func NewValues(lr LRange, withG bool) Values {
	n := lr.Len()
	v := Values{F: make([]float64, n), Fp: make([]float64, n)}
	if withG {
		v.G = make([]float64, n)
		v.Gp = make([]float64, n)
	}
	return v
}

func (v Values) check(n int) (wantG bool, err error) {
	if len(v.F) != n || len(v.Fp) != n {
		return false, fmt.Errorf("%w: F/F' length %d/%d, want %d", ErrDimensionMismatch, len(v.F), len(v.Fp), n)
	}
	if v.G == nil && v.Gp == nil {
		return false, nil
	}
	if len(v.G) != n || len(v.Gp) != n {
		return false, fmt.Errorf("%w: G/G' length %d/%d, want %d", ErrDimensionMismatch, len(v.G), len(v.Gp), n)
	}
	return true, nil
}

// ComplexValues is the complex-argument counterpart of Values.
type ComplexValues struct {
	F  []complex128
	Fp []complex128
	G  []complex128
	Gp []complex128
}

// NewComplexValues allocates a complex sink for the range.
func NewComplexValues(lr LRange, withG bool) ComplexValues {
	n := lr.Len()
	v := ComplexValues{F: make([]complex128, n), Fp: make([]complex128, n)}
	if withG {
		v.G = make([]complex128, n)
		v.Gp = make([]complex128, n)
	}
	return v
}

func (v ComplexValues) check(n int) (wantG bool, err error) {
	if len(v.F) != n || len(v.Fp) != n {
		return false, fmt.Errorf("%w: F/F' length %d/%d, want %d", ErrDimensionMismatch, len(v.F), len(v.Fp), n)
	}
	if v.G == nil && v.Gp == nil {
		return false, nil
	}
	if len(v.G) != n || len(v.Gp) != n {
		return false, fmt.Errorf("%w: G/G' length %d/%d, want %d", ErrDimensionMismatch, len(v.G), len(v.Gp), n)
	}
	return true, nil
}

// Report carries the diagnostics of one scalar evaluation.
// Advisories never change the computed values, only their trustworthiness.
type Report struct {
	X complex128

	// CF1 is the F'/F fraction at l_max. Zero when x = 0.
	CF1 special.Result

	// CF2 is the outgoing (ω=+1) fraction at l_min. Zero when x = 0.
	CF2 special.Result

	// CF2Incoming is the ω=-1 fraction, evaluated only for complex x.
	CF2Incoming *special.Result

	// Converged is false when any continued fraction hit its iteration cap.
	Converged bool

	// Unreliable marks the x = 0 branch when G/G' were requested.
	Unreliable bool

	Advisories []Advisory
}

func (r *Report) add(a Advisory) {
	r.Advisories = append(r.Advisories, a)
}

// BatchReport collects per-row reports of a vectorized call.
// Rows[i] corresponds to x[i]; rows not reached before a failure are nil.
type BatchReport struct {
	Rows []*Report
}

// Converged reports whether every computed row converged.
func (b *BatchReport) Converged() bool {
	for _, r := range b.Rows {
		if r != nil && !r.Converged {
			return false
		}
	}
	return true
}

// Unreliable reports whether any row was flagged unreliable.
func (b *BatchReport) Unreliable() bool {
	for _, r := range b.Rows {
		if r != nil && r.Unreliable {
			return true
		}
	}
	return false
}

// Advisories returns the advisories of every row in row order.
func (b *BatchReport) Advisories() []Advisory {
	var out []Advisory
	for _, r := range b.Rows {
		if r != nil {
			out = append(out, r.Advisories...)
		}
	}
	return out
}
