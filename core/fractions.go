package core

import "github.com/petal-labs/coulomb/special"

// cf1 evaluates f = F'_n/F_n at fixed l = n:
//
//	f = (n+1)/x + η/(n+1) + a1/(b1 + a2/(b2 + ...))
//	a_k = -(1 + η²/(n+k)²)
//	b_k = (2(n+k)+1) (1/x + η/((n+k)(n+k+1)))
//
// The Sign of the result is the sign of F_n relative to the minimal
// solution and seeds the downward recurrence.
func (s *Solver) cf1(x complex128, eta float64, n int) special.Result {
	nn := float64(n)
	inv := 1 / x
	b0 := complex(nn+1, 0)*inv + complex(eta/(nn+1), 0)

	a := func(k int) complex128 {
		m := nn + float64(k)
		return complex(-(1 + eta*eta/(m*m)), 0)
	}
	b := func(k int) complex128 {
		m := nn + float64(k)
		return complex(2*m+1, 0) * (inv + complex(eta/(m*m+m), 0))
	}
	return s.cf(b0, a, b, s.cfg.Tolerance, s.cfg.MaxIterations)
}

// cf2 evaluates H'_n/H_n for H = G ± iF at l = n, with direction
// omega = +1 (outgoing) or -1 (incoming):
//
//	r = (x-η) + a1/(b1 + a2/(b2 + ...))
//	a_k = (iωη - n - 1 + k)(iωη + n + k)
//	b_k = 2(x - η + iωk)
//
// The returned Value is already rescaled by iω/x.
func (s *Solver) cf2(x complex128, eta float64, n int, omega float64) special.Result {
	nn := float64(n)
	iwEta := complex(0, omega*eta)
	xe := x - complex(eta, 0)

	a := func(k int) complex128 {
		kk := float64(k)
		return (iwEta - complex(nn+1-kk, 0)) * (iwEta + complex(nn+kk, 0))
	}
	b := func(k int) complex128 {
		return 2 * (xe + complex(0, omega*float64(k)))
	}

	res := s.cf(xe, a, b, s.cfg.Tolerance, s.cfg.MaxIterations)
	res.Value *= complex(0, omega) / x
	return res
}
