// Package special provides the numerical collaborators used by the Coulomb
// wave function solver: a modified Lentz-Thompson continued-fraction
// evaluator and complex Gamma function providers.
//
// # Continued fractions
//
// [Lentz] evaluates b0 + a1/(b1 + a2/(b2 + ...)) for complex terms supplied
// by [TermFunc] generators:
//
//	res := special.Lentz(b0, a, b, 1e-15, 10000)
//	if !res.Converged {
//	    // res.Value is still the best available approximant
//	}
//
// # Gamma providers
//
// Providers are looked up by name so configuration files can select one:
//
//	g, err := special.Create("stirling")
//
// The "lanczos" and "stirling" providers are registered by default.
package special
