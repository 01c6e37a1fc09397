// Package analysis derives radial profiles and diagnostics from composite
// potentials.
//
//   - [RadialProfile]: Φ, ρ, dΦ/dr, d²Φ/dr², enclosed mass and circular
//     velocity on a log-spaced radius grid along one direction
//   - [GradientCheck]: analytic gradient against central differences
//   - [HessianCheck]: Hessian engine against differences of the gradient
//   - [ParallelFor]: chunked fan-out used by the profile builder
//
// # Example
//
//	prof, err := analysis.RadialProfile(ctx, c, analysis.ProfileSpec{
//	    RMin: 0.1, RMax: 100, N: 64, G: 1,
//	})
//	vc, _ := prof.Column(analysis.ColVCirc)
package analysis
