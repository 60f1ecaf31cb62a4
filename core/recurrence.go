package core

import (
	"math"
	"math/cmplx"
)

// rescaleAt bounds |F| during the downward sweep; the Wronskian
// normalization removes any common scale afterwards.
const rescaleAt = 1e250

// coefficients returns S_n = n/x + η/n and R_n = sqrt(1 + η²/n²), n >= 1.
func coefficients(x complex128, eta float64, n int) (sn complex128, rn complex128) {
	nn := float64(n)
	sn = complex(nn, 0)/x + complex(eta/nn, 0)
	rn = complex(math.Sqrt(1+eta*eta/(nn*nn)), 0)
	return sn, rn
}

// recurDown propagates F, F' from index len(f)-1 (l = lmin+len-1) to index 0.
// f and fp must be seeded at the last index.
func recurDown(x complex128, eta float64, lmin int, f, fp []complex128) {
	for i := len(f) - 1; i > 0; i-- {
		sn, rn := coefficients(x, eta, lmin+i)
		f[i-1] = (sn*f[i] + fp[i]) / rn
		fp[i-1] = sn*f[i-1] - rn*f[i]

		if cmplx.Abs(f[i-1]) > rescaleAt {
			for j := i - 1; j < len(f); j++ {
				f[j] /= rescaleAt
				fp[j] /= rescaleAt
			}
		}
	}
}

// balance divides f and fp by the larger of |f[0]|, |f'[0]| when it exceeds
// one, so the Wronskian of the seed values stays representable.
func balance(f, fp []complex128) {
	m := math.Max(cmplx.Abs(f[0]), cmplx.Abs(fp[0]))
	if m <= 1 {
		return
	}
	inv := complex(1/m, 0)
	for i := range f {
		f[i] *= inv
		fp[i] *= inv
	}
}

// recurUp propagates G, G' from index 0 (l = lmin) to the last index.
// g and gp must be seeded at index 0.
func recurUp(x complex128, eta float64, lmin int, g, gp []complex128) {
	for i := 0; i < len(g)-1; i++ {
		sn, rn := coefficients(x, eta, lmin+i+1)
		g[i+1] = (sn*g[i] - gp[i]) / rn
		gp[i+1] = rn*g[i] - sn*g[i+1]
	}
}
