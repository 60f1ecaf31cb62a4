package core

import "math"

// TurningPoint returns ρ_TP = η + sqrt(η² + l(l+1)), the radius separating
// the classically forbidden region from the oscillatory one.
func TurningPoint(eta float64, l int) float64 {
	ll := float64(l)
	return eta + math.Sqrt(eta*eta+ll*(ll+1))
}
