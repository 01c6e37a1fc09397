package models

import "math"

// Kepler is the potential of a point mass, Φ = −GM/r.
type Kepler struct {
	G float64
	M float64
}

// NewKepler returns a point mass of mass m.
func NewKepler(g, m float64) *Kepler {
	return &Kepler{G: g, M: m}
}

func (k *Kepler) phi(r float64) float64   { return -k.G * k.M / r }
func (k *Kepler) dphi(r float64) float64  { return k.G * k.M / (r * r) }
func (k *Kepler) d2phi(r float64) float64 { return -2 * k.G * k.M / (r * r * r) }

// rho is zero away from the point mass.
func (k *Kepler) rho(r float64) float64 {
	if r == 0 {
		return math.Inf(1)
	}
	return 0
}

func (k *Kepler) Value(t float64, q []float64) float64   { return spherical{k}.Value(t, q) }
func (k *Kepler) Density(t float64, q []float64) float64 { return spherical{k}.Density(t, q) }
func (k *Kepler) Gradient(t float64, q, grad []float64)  { spherical{k}.Gradient(t, q, grad) }
func (k *Kepler) Hessian(t float64, q, hess []float64)   { spherical{k}.Hessian(t, q, hess) }
