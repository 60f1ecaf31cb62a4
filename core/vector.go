package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Matrices holds the outputs of a vectorized call. Row i corresponds to
// x[i], column j to l = Min+j. G and Gp may both be nil to skip the
// irregular solution. The four matrices must not share storage.
type Matrices struct {
	F  *mat.Dense
	Fp *mat.Dense
	G  *mat.Dense
	Gp *mat.Dense
}

// NewMatrices allocates (rows, lr.Len()) outputs.
func NewMatrices(rows int, lr LRange, withG bool) *Matrices {
	cols := lr.Len()
	m := &Matrices{F: mat.NewDense(rows, cols, nil), Fp: mat.NewDense(rows, cols, nil)}
	if withG {
		m.G = mat.NewDense(rows, cols, nil)
		m.Gp = mat.NewDense(rows, cols, nil)
	}
	return m
}

func (m *Matrices) check(rows, cols int) (wantG bool, err error) {
	if m == nil || m.F == nil || m.Fp == nil {
		return false, fmt.Errorf("%w: F and F' outputs are required", ErrDimensionMismatch)
	}
	if err := checkDims("F", m.F, rows, cols); err != nil {
		return false, err
	}
	if err := checkDims("F'", m.Fp, rows, cols); err != nil {
		return false, err
	}
	if m.G == nil && m.Gp == nil {
		return false, nil
	}
	if m.G == nil || m.Gp == nil {
		return false, fmt.Errorf("%w: G and G' must both be set or both be nil", ErrDimensionMismatch)
	}
	if err := checkDims("G", m.G, rows, cols); err != nil {
		return false, err
	}
	if err := checkDims("G'", m.Gp, rows, cols); err != nil {
		return false, err
	}
	return true, nil
}

// ComplexMatrices is the complex-argument counterpart of Matrices.
type ComplexMatrices struct {
	F  *mat.CDense
	Fp *mat.CDense
	G  *mat.CDense
	Gp *mat.CDense
}

// NewComplexMatrices allocates (rows, lr.Len()) complex outputs.
func NewComplexMatrices(rows int, lr LRange, withG bool) *ComplexMatrices {
	cols := lr.Len()
	m := &ComplexMatrices{F: mat.NewCDense(rows, cols, nil), Fp: mat.NewCDense(rows, cols, nil)}
	if withG {
		m.G = mat.NewCDense(rows, cols, nil)
		m.Gp = mat.NewCDense(rows, cols, nil)
	}
	return m
}

func (m *ComplexMatrices) check(rows, cols int) (wantG bool, err error) {
	if m == nil || m.F == nil || m.Fp == nil {
		return false, fmt.Errorf("%w: F and F' outputs are required", ErrDimensionMismatch)
	}
	if err := checkDims("F", m.F, rows, cols); err != nil {
		return false, err
	}
	if err := checkDims("F'", m.Fp, rows, cols); err != nil {
		return false, err
	}
	if m.G == nil && m.Gp == nil {
		return false, nil
	}
	if m.G == nil || m.Gp == nil {
		return false, fmt.Errorf("%w: G and G' must both be set or both be nil", ErrDimensionMismatch)
	}
	if err := checkDims("G", m.G, rows, cols); err != nil {
		return false, err
	}
	if err := checkDims("G'", m.Gp, rows, cols); err != nil {
		return false, err
	}
	return true, nil
}

type dimensioned interface {
	Dims() (r, c int)
}

func checkDims(name string, m dimensioned, rows, cols int) error {
	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrDimensionMismatch, name, r, c, rows, cols)
	}
	return nil
}

// ComputeAll evaluates every x in xs, writing row i of each output matrix.
// Shapes are validated before any row is computed. Rows are independent and
// run on up to Config.Workers goroutines; the first hard failure stops
// scheduling further rows and is returned.
func (s *Solver) ComputeAll(ctx context.Context, out *Matrices, xs []float64, eta float64, lr LRange) (*BatchReport, error) {
	if err := lr.Validate(); err != nil {
		return nil, err
	}
	wantG, err := out.check(len(xs), lr.Len())
	if err != nil {
		return nil, err
	}
	for _, x := range xs {
		if err := validateArgs(complex(x, 0), eta, lr); err != nil {
			return nil, err
		}
	}

	batch := &BatchReport{Rows: make([]*Report, len(xs))}
	err = s.forRows(ctx, len(xs), lr.Len(), func(i int, w *workspace) error {
		rep, err := s.evaluate(complex(xs[i], 0), eta, lr, wantG, w)
		batch.Rows[i] = rep
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		var g, gp []float64
		if wantG {
			g, gp = out.G.RawRowView(i), out.Gp.RawRowView(i)
		}
		w.storeReal(out.F.RawRowView(i), out.Fp.RawRowView(i), g, gp, wantG)
		return nil
	})
	return batch, err
}

// Evaluate allocates fresh (len(xs), lr.Len()) matrices for F, F', G, G'
// and fills them with ComputeAll.
func (s *Solver) Evaluate(ctx context.Context, xs []float64, eta float64, lr LRange) (*Matrices, *BatchReport, error) {
	if err := lr.Validate(); err != nil {
		return nil, nil, err
	}
	if len(xs) == 0 {
		return nil, nil, fmt.Errorf("%w: no x values", ErrInvalidArgument)
	}
	out := NewMatrices(len(xs), lr, true)
	rep, err := s.ComputeAll(ctx, out, xs, eta, lr)
	if err != nil {
		return nil, rep, err
	}
	return out, rep, nil
}

// ComputeAllComplex is ComputeAll for complex arguments.
func (s *Solver) ComputeAllComplex(ctx context.Context, out *ComplexMatrices, xs []complex128, eta float64, lr LRange) (*BatchReport, error) {
	if err := lr.Validate(); err != nil {
		return nil, err
	}
	wantG, err := out.check(len(xs), lr.Len())
	if err != nil {
		return nil, err
	}
	for _, x := range xs {
		if err := validateArgs(x, eta, lr); err != nil {
			return nil, err
		}
	}

	batch := &BatchReport{Rows: make([]*Report, len(xs))}
	err = s.forRows(ctx, len(xs), lr.Len(), func(i int, w *workspace) error {
		rep, err := s.evaluate(xs[i], eta, lr, wantG, w)
		batch.Rows[i] = rep
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		for j := range w.f {
			out.F.Set(i, j, w.f[j])
			out.Fp.Set(i, j, w.fp[j])
			if wantG {
				out.G.Set(i, j, w.g[j])
				out.Gp.Set(i, j, w.gp[j])
			}
		}
		return nil
	})
	return batch, err
}

// EvaluateComplex allocates fresh complex matrices and fills them with
// ComputeAllComplex.
func (s *Solver) EvaluateComplex(ctx context.Context, xs []complex128, eta float64, lr LRange) (*ComplexMatrices, *BatchReport, error) {
	if err := lr.Validate(); err != nil {
		return nil, nil, err
	}
	if len(xs) == 0 {
		return nil, nil, fmt.Errorf("%w: no x values", ErrInvalidArgument)
	}
	out := NewComplexMatrices(len(xs), lr, true)
	rep, err := s.ComputeAllComplex(ctx, out, xs, eta, lr)
	if err != nil {
		return nil, rep, err
	}
	return out, rep, nil
}

// forRows partitions rows across workers by stride. Each worker owns one
// workspace; fn must only touch row i of shared outputs.
func (s *Solver) forRows(ctx context.Context, rows, cols int, fn func(i int, w *workspace) error) error {
	workers := s.cfg.Workers
	if workers > rows {
		workers = rows
	}

	g, ctx := errgroup.WithContext(ctx)
	for k := 0; k < workers; k++ {
		k := k
		g.Go(func() error {
			w := newWorkspace(cols)
			for i := k; i < rows; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(i, w); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
