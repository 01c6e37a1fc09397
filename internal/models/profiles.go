package models

import "math"

// Plummer is a cored sphere, Φ = −GM/√(r²+b²).
type Plummer struct {
	G float64
	M float64
	B float64
}

// NewPlummer returns a Plummer sphere of mass m and scale radius b.
func NewPlummer(g, m, b float64) *Plummer {
	return &Plummer{G: g, M: m, B: b}
}

func (p *Plummer) phi(r float64) float64 {
	return -p.G * p.M / math.Sqrt(r*r+p.B*p.B)
}

func (p *Plummer) dphi(r float64) float64 {
	s2 := r*r + p.B*p.B
	return p.G * p.M * r / (s2 * math.Sqrt(s2))
}

func (p *Plummer) d2phi(r float64) float64 {
	s2 := r*r + p.B*p.B
	return p.G * p.M * (p.B*p.B - 2*r*r) / (s2 * s2 * math.Sqrt(s2))
}

func (p *Plummer) rho(r float64) float64 {
	x2 := r * r / (p.B * p.B)
	return 3 * p.M / (4 * math.Pi * p.B * p.B * p.B) * math.Pow(1+x2, -2.5)
}

func (p *Plummer) Value(t float64, q []float64) float64   { return spherical{p}.Value(t, q) }
func (p *Plummer) Density(t float64, q []float64) float64 { return spherical{p}.Density(t, q) }
func (p *Plummer) Gradient(t float64, q, grad []float64)  { spherical{p}.Gradient(t, q, grad) }
func (p *Plummer) Hessian(t float64, q, hess []float64)   { spherical{p}.Hessian(t, q, hess) }

// Hernquist is a cusped sphere, Φ = −GM/(r+c). The centre is singular for
// the gradient and Hessian.
type Hernquist struct {
	G float64
	M float64
	C float64
}

// NewHernquist returns a Hernquist sphere of mass m and scale radius c.
func NewHernquist(g, m, c float64) *Hernquist {
	return &Hernquist{G: g, M: m, C: c}
}

func (h *Hernquist) phi(r float64) float64 { return -h.G * h.M / (r + h.C) }

func (h *Hernquist) dphi(r float64) float64 {
	s := r + h.C
	return h.G * h.M / (s * s)
}

func (h *Hernquist) d2phi(r float64) float64 {
	s := r + h.C
	return -2 * h.G * h.M / (s * s * s)
}

func (h *Hernquist) rho(r float64) float64 {
	s := r + h.C
	return h.M * h.C / (2 * math.Pi * r * s * s * s)
}

func (h *Hernquist) Value(t float64, q []float64) float64   { return spherical{h}.Value(t, q) }
func (h *Hernquist) Density(t float64, q []float64) float64 { return spherical{h}.Density(t, q) }
func (h *Hernquist) Gradient(t float64, q, grad []float64)  { spherical{h}.Gradient(t, q, grad) }
func (h *Hernquist) Hessian(t float64, q, hess []float64)   { spherical{h}.Hessian(t, q, hess) }

// Isochrone is Hénon's isochrone sphere, Φ = −GM/(b+√(r²+b²)).
type Isochrone struct {
	G float64
	M float64
	B float64
}

// NewIsochrone returns an isochrone sphere of mass m and scale radius b.
func NewIsochrone(g, m, b float64) *Isochrone {
	return &Isochrone{G: g, M: m, B: b}
}

func (p *Isochrone) phi(r float64) float64 {
	s := math.Sqrt(r*r + p.B*p.B)
	return -p.G * p.M / (p.B + s)
}

func (p *Isochrone) dphi(r float64) float64 {
	s := math.Sqrt(r*r + p.B*p.B)
	bs := p.B + s
	return p.G * p.M * r / (s * bs * bs)
}

func (p *Isochrone) d2phi(r float64) float64 {
	s := math.Sqrt(r*r + p.B*p.B)
	bs := p.B + s
	r2 := r * r
	return p.G * p.M * (1/(s*bs*bs) - r2/(s*s*s*bs*bs) - 2*r2/(s*s*bs*bs*bs))
}

func (p *Isochrone) rho(r float64) float64 {
	s := math.Sqrt(r*r + p.B*p.B)
	bs := p.B + s
	num := 3*bs*s*s - r*r*(p.B+3*s)
	return p.M * num / (4 * math.Pi * bs * bs * bs * s * s * s)
}

func (p *Isochrone) Value(t float64, q []float64) float64   { return spherical{p}.Value(t, q) }
func (p *Isochrone) Density(t float64, q []float64) float64 { return spherical{p}.Density(t, q) }
func (p *Isochrone) Gradient(t float64, q, grad []float64)  { spherical{p}.Gradient(t, q, grad) }
func (p *Isochrone) Hessian(t float64, q, hess []float64)   { spherical{p}.Hessian(t, q, hess) }

// NFW is the Navarro-Frenk-White halo, Φ = −GM·ln(1+r/rs)/r, where M is
// the scale mass. The centre is singular.
type NFW struct {
	G  float64
	M  float64
	Rs float64
}

// NewNFW returns an NFW halo with scale mass m and scale radius rs.
func NewNFW(g, m, rs float64) *NFW {
	return &NFW{G: g, M: m, Rs: rs}
}

func (n *NFW) phi(r float64) float64 {
	return -n.G * n.M * math.Log1p(r/n.Rs) / r
}

func (n *NFW) dphi(r float64) float64 {
	l := math.Log1p(r / n.Rs)
	return n.G * n.M * (l/(r*r) - 1/(r*(r+n.Rs)))
}

func (n *NFW) d2phi(r float64) float64 {
	l := math.Log1p(r / n.Rs)
	s := r + n.Rs
	r2 := r * r
	return n.G * n.M * (1/(r2*s) - 2*l/(r2*r) + (2*r+n.Rs)/(r2*s*s))
}

func (n *NFW) rho(r float64) float64 {
	x := r / n.Rs
	return n.M / (4 * math.Pi * n.Rs * n.Rs * n.Rs) / (x * (1 + x) * (1 + x))
}

func (n *NFW) Value(t float64, q []float64) float64   { return spherical{n}.Value(t, q) }
func (n *NFW) Density(t float64, q []float64) float64 { return spherical{n}.Density(t, q) }
func (n *NFW) Gradient(t float64, q, grad []float64)  { spherical{n}.Gradient(t, q, grad) }
func (n *NFW) Hessian(t float64, q, hess []float64)   { spherical{n}.Hessian(t, q, hess) }
