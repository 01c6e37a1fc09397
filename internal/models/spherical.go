package models

import "math"

// radial describes a spherically symmetric profile by its derivatives in r.
type radial interface {
	phi(r float64) float64
	dphi(r float64) float64
	d2phi(r float64) float64
	rho(r float64) float64
}

type spherical struct {
	prof radial
}

func radius(q []float64) float64 {
	sum := 0.0
	for _, v := range q {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s spherical) Value(t float64, q []float64) float64 {
	return s.prof.phi(radius(q))
}

func (s spherical) Density(t float64, q []float64) float64 {
	return s.prof.rho(radius(q))
}

// Gradient adds Φ'(r)·q/r. The gradient of a smooth profile vanishes at
// the centre, so r == 0 adds nothing.
func (s spherical) Gradient(t float64, q, grad []float64) {
	r := radius(q)
	if r == 0 {
		return
	}
	f := s.prof.dphi(r) / r
	for i, v := range q {
		grad[i] += f * v
	}
}

// Hessian adds Φ''·q̂q̂ᵀ + (Φ'/r)(I − q̂q̂ᵀ). At r == 0 the limit Φ''(0)·I
// is used.
func (s spherical) Hessian(t float64, q, hess []float64) {
	n := len(q)
	r := radius(q)
	if r == 0 {
		d2 := s.prof.d2phi(0)
		for i := 0; i < n; i++ {
			hess[i*n+i] += d2
		}
		return
	}

	d1r := s.prof.dphi(r) / r
	d2 := s.prof.d2phi(r)
	r2 := r * r
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			qq := q[i] * q[j] / r2
			h := (d2 - d1r) * qq
			if i == j {
				h += d1r
			}
			hess[i*n+j] += h
		}
	}
}
