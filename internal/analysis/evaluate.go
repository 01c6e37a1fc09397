package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravpot/internal/potential"
)

// Evaluation gathers every quantity the engines produce at one point.
// Rotated reports that Hess omits the rotation correction for some
// component.
type Evaluation struct {
	Time     float64
	Q        []float64
	Phi      float64
	Rho      float64
	Grad     []float64
	GradNorm float64
	Hess     []float64
	DPhiDr   float64
	D2PhiDr2 float64
	Mass     float64
	VCirc    float64
	Rotated  bool
}

func Evaluate(c *potential.Composite, t float64, q []float64, g float64) Evaluation {
	n := c.NDim()
	ws := potential.NewWorkspace(c)

	ev := Evaluation{
		Time:    t,
		Q:       append([]float64(nil), q...),
		Grad:    make([]float64, n),
		Hess:    make([]float64, n*n),
		Rotated: c.Rotated(),
	}

	ev.Phi = ws.Value(t, q)
	ev.Rho = ws.Density(t, q)
	ws.Gradient(t, q, ev.Grad)
	ev.GradNorm = floats.Norm(ev.Grad, 2)
	ws.Hessian(t, q, ev.Hess)
	ev.DPhiDr = ws.DPhiDr(t, q)
	ev.D2PhiDr2 = ws.D2PhiDr2(t, q)
	ev.Mass = ws.MassEnclosed(t, q, g)
	ev.VCirc = math.Sqrt(math.Abs(floats.Norm(q, 2) * ev.DPhiDr))
	return ev
}
