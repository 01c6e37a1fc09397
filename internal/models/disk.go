package models

import "math"

// MiyamotoNagai is an axisymmetric disk, Φ = −GM/√(R² + (a + √(z²+b²))²).
// Coordinates must be 3-D with z along the symmetry axis.
type MiyamotoNagai struct {
	G float64
	M float64
	A float64
	B float64
}

// NewMiyamotoNagai returns a disk of mass m, scale length a and scale height b.
func NewMiyamotoNagai(g, m, a, b float64) *MiyamotoNagai {
	return &MiyamotoNagai{G: g, M: m, A: a, B: b}
}

// terms returns ζ = √(z²+b²), A = a+ζ and D = √(R²+A²).
func (d *MiyamotoNagai) terms(q []float64) (zeta, aZeta, dd float64) {
	zeta = math.Sqrt(q[2]*q[2] + d.B*d.B)
	aZeta = d.A + zeta
	dd = math.Sqrt(q[0]*q[0] + q[1]*q[1] + aZeta*aZeta)
	return
}

func (d *MiyamotoNagai) Value(t float64, q []float64) float64 {
	_, _, dd := d.terms(q)
	return -d.G * d.M / dd
}

func (d *MiyamotoNagai) Density(t float64, q []float64) float64 {
	zeta, aZeta, dd := d.terms(q)
	R2 := q[0]*q[0] + q[1]*q[1]
	num := d.A*R2 + (d.A+3*zeta)*aZeta*aZeta
	den := math.Pow(dd, 5) * zeta * zeta * zeta
	return d.B * d.B * d.M / (4 * math.Pi) * num / den
}

func (d *MiyamotoNagai) Gradient(t float64, q, grad []float64) {
	zeta, aZeta, dd := d.terms(q)
	f := d.G * d.M / (dd * dd * dd)
	grad[0] += f * q[0]
	grad[1] += f * q[1]
	grad[2] += f * q[2] * aZeta / zeta
}

func (d *MiyamotoNagai) Hessian(t float64, q, hess []float64) {
	zeta, aZeta, dd := d.terms(q)
	gm := d.G * d.M
	d3 := dd * dd * dd
	d5 := d3 * dd * dd
	x, y, z := q[0], q[1], q[2]
	xz := -3 * gm * x * z * aZeta / (zeta * d5)
	yz := -3 * gm * y * z * aZeta / (zeta * d5)
	xy := -3 * gm * x * y / d5

	hess[0] += gm * (1/d3 - 3*x*x/d5)
	hess[1] += xy
	hess[2] += xz
	hess[3] += xy
	hess[4] += gm * (1/d3 - 3*y*y/d5)
	hess[5] += yz
	hess[6] += xz
	hess[7] += yz
	hess[8] += gm * ((1+d.A*d.B*d.B/(zeta*zeta*zeta))/d3 - 3*z*z*aZeta*aZeta/(zeta*zeta*d5))
}
