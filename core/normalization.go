package core

import (
	"math"

	"github.com/petal-labs/coulomb/special"
)

// Normalization returns the Coulomb normalization constant
//
//	C_l(η) = 2^l exp(-πη/2) |Γ(l+1+iη)| / Γ(2l+2)
//
// evaluated in logarithms so that large l does not overflow the Gamma ratio.
func Normalization(g special.GammaProvider, eta float64, l int) float64 {
	ll := float64(l)
	lnAbs := real(g.LogGamma(complex(ll+1, eta)))
	lnDen := real(g.LogGamma(complex(2*ll+2, 0)))
	return math.Exp(ll*math.Ln2 - math.Pi*eta/2 + lnAbs - lnDen)
}

// origin fills w with the closed-form values at x = 0.
// F' = (l+1) C x^l reduces to C for l = 0 and 0 otherwise. G' is the
// -Inf sentinel; G for l >= 1 and G' are flagged unreliable.
func (s *Solver) origin(eta float64, lr LRange, wantG bool, w *workspace, rep *Report) {
	for i := 0; i < lr.Len(); i++ {
		l := lr.Min + i
		c := Normalization(s.gamma, eta, l)

		w.f[i] = 0
		w.fp[i] = complex(float64(l+1)*c*math.Pow(0, float64(l)), 0)
		if wantG {
			w.g[i] = complex(1/(float64(2*l+1)*c), 0)
			w.gp[i] = complex(math.Inf(-1), 0)
		}
	}

	rep.Converged = true
	if !wantG {
		return
	}
	rep.Unreliable = true
	msg := "G' at x=0 is a -Inf sentinel"
	if lr.Max >= 1 {
		msg += "; G for l>=1 uses an unverified closed form"
	}
	s.emit(rep, Advisory{
		Kind:    AdvisoryOriginUnreliable,
		Level:   VerbosityWarn,
		X:       0,
		L:       lr.Max,
		Message: msg,
	})
}
