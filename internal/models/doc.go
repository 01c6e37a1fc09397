// Package models provides potential component formulas.
//
// Each model satisfies the capability set expected by [potential.Component]
// (value, density, gradient, Hessian) for coordinates in its own local
// frame:
//
//   - [Kepler]: point mass
//   - [Plummer], [Hernquist], [Isochrone], [NFW]: spherical profiles
//   - [MiyamotoNagai]: axisymmetric disk (3-D only)
//   - [Harmonic]: anisotropic harmonic oscillator in any dimension
//
// Models hold their own gravitational constant so that any unit system can
// be used. Parameters are plain exported fields and are never mutated during
// evaluation.
//
// Spherical models share one radial helper: given Φ(r), Φ'(r) and Φ''(r),
// the gradient is Φ'·q/r and the Hessian is Φ''·q̂q̂ᵀ + (Φ'/r)(I − q̂q̂ᵀ).
package models
