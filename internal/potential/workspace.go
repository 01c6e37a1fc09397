package potential

import (
	"math"

	"github.com/san-kum/gravpot/internal/frame"
)

// Finite-difference steps for the radial derivatives. The first and second
// derivative use different steps.
const (
	StepFirst  = 1e-4
	StepSecond = 1e-2
)

// Workspace holds the scratch vectors needed to evaluate a composite.
// Reusing one across calls avoids per-call allocation in any dimension.
type Workspace struct {
	c     *Composite
	local []float64
	grad  []float64
	eps   []float64
	buf   [3 * frame.MaxDim]float64
}

// NewWorkspace returns a workspace bound to c.
func NewWorkspace(c *Composite) *Workspace {
	ws := &Workspace{}
	ws.bind(c)
	return ws
}

func (ws *Workspace) bind(c *Composite) {
	ws.c = c
	n := c.nDim
	if n <= frame.MaxDim {
		ws.local = ws.buf[0:n]
		ws.grad = ws.buf[frame.MaxDim : frame.MaxDim+n]
		ws.eps = ws.buf[2*frame.MaxDim : 2*frame.MaxDim+n]
		return
	}
	block := make([]float64, 3*n)
	ws.local = block[0:n]
	ws.grad = block[n : 2*n]
	ws.eps = block[2*n : 3*n]
}

// Composite returns the composite the workspace evaluates.
func (ws *Workspace) Composite() *Composite { return ws.c }

// toLocal overwrites ws.local with component p's view of q.
func (ws *Workspace) toLocal(p *placed, q []float64) {
	for j := range ws.local {
		ws.local[j] = 0
	}
	frame.ShiftRotate(ws.local, q, p.origin, p.rot, ws.c.nDim, false)
}

// Value returns the total potential at q.
func (ws *Workspace) Value(t float64, q []float64) float64 {
	v := 0.0
	for i := range ws.c.parts {
		p := &ws.c.parts[i]
		ws.toLocal(p, q)
		v += p.comp.Value(t, ws.local)
	}
	return v
}

// Density returns the total density at q.
func (ws *Workspace) Density(t float64, q []float64) float64 {
	v := 0.0
	for i := range ws.c.parts {
		p := &ws.c.parts[i]
		ws.toLocal(p, q)
		v += p.comp.Density(t, ws.local)
	}
	return v
}

// Gradient overwrites grad with the total gradient at q. Each local
// gradient is rotated back by the transpose of the component rotation.
func (ws *Workspace) Gradient(t float64, q, grad []float64) {
	n := ws.c.nDim
	for j := 0; j < n; j++ {
		grad[j] = 0
	}
	for i := range ws.c.parts {
		p := &ws.c.parts[i]
		ws.toLocal(p, q)
		for j := range ws.grad {
			ws.grad[j] = 0
		}
		p.comp.Gradient(t, ws.local, ws.grad)
		frame.Rotate(grad, ws.grad, p.rot, n, true)
	}
}

// Acceleration overwrites acc with −∇Φ at q.
func (ws *Workspace) Acceleration(t float64, q, acc []float64) {
	ws.Gradient(t, q, acc)
	for j := range acc[:ws.c.nDim] {
		acc[j] = -acc[j]
	}
}

// Hessian overwrites hess with the sum of component Hessians, each taken in
// its own local frame.
//
// TODO: conjugate each local Hessian by its rotation (RᵀHR) once callers
// agree on the contract for rotated components; until then results are
// only correct when Rotated reports false.
func (ws *Workspace) Hessian(t float64, q, hess []float64) {
	n := ws.c.nDim
	for j := 0; j < n*n; j++ {
		hess[j] = 0
	}
	for i := range ws.c.parts {
		p := &ws.c.parts[i]
		ws.toLocal(p, q)
		p.comp.Hessian(t, ws.local, hess)
	}
}

// radialStep fills ws.eps with q + sign·h·q/|q|.
func (ws *Workspace) radialStep(q []float64, h, r, sign float64) {
	for j := range ws.eps {
		ws.eps[j] = q[j] + sign*h*q[j]/r
	}
}

// DPhiDr estimates dΦ/dr at q with a central difference of step
// StepFirst along q/|q|. The result is not finite at the origin.
func (ws *Workspace) DPhiDr(t float64, q []float64) float64 {
	h := StepFirst
	r := norm(q[:ws.c.nDim])

	ws.radialStep(q, h, r, 1)
	dPhi := ws.Value(t, ws.eps)

	ws.radialStep(q, h, r, -1)
	dPhi -= ws.Value(t, ws.eps)

	return dPhi / (2 * h)
}

// D2PhiDr2 estimates d²Φ/dr² at q with a central second difference of
// step StepSecond along q/|q|. The result is not finite at the origin.
func (ws *Workspace) D2PhiDr2(t float64, q []float64) float64 {
	h := StepSecond
	r := norm(q[:ws.c.nDim])

	ws.radialStep(q, h, r, 1)
	d2Phi := ws.Value(t, ws.eps)

	d2Phi -= 2 * ws.Value(t, q)

	ws.radialStep(q, h, r, -1)
	d2Phi += ws.Value(t, ws.eps)

	return d2Phi / (h * h)
}

// MassEnclosed returns |r²·dΦ/dr / G|, the mass a spherical distribution
// would need inside |q| to produce the measured radial force.
func (ws *Workspace) MassEnclosed(t float64, q []float64, G float64) float64 {
	r2 := 0.0
	for _, v := range q[:ws.c.nDim] {
		r2 += v * v
	}
	return math.Abs(r2 * ws.DPhiDr(t, q) / G)
}

func norm(q []float64) float64 {
	sum := 0.0
	for _, v := range q {
		sum += v * v
	}
	return math.Sqrt(sum)
}
