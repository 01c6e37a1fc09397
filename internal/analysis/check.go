package analysis

import (
	"math"

	"github.com/san-kum/gravpot/internal/potential"
)

// CheckReport compares an engine result with a finite-difference estimate.
type CheckReport struct {
	Analytic  []float64
	Numeric   []float64
	MaxRelErr float64
}

// GradientCheck compares the gradient engine at q with central differences
// of the potential using step h.
func GradientCheck(c *potential.Composite, t float64, q []float64, h float64) CheckReport {
	n := c.NDim()
	ws := potential.NewWorkspace(c)

	rep := CheckReport{
		Analytic: make([]float64, n),
		Numeric:  make([]float64, n),
	}
	ws.Gradient(t, q, rep.Analytic)

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		copy(x, q)
		x[i] = q[i] + h
		fp := ws.Value(t, x)
		x[i] = q[i] - h
		fm := ws.Value(t, x)
		rep.Numeric[i] = (fp - fm) / (2 * h)
	}

	rep.MaxRelErr = maxRelErr(rep.Analytic, rep.Numeric)
	return rep
}

// HessianCheck compares the Hessian engine at q with central differences
// of the gradient using step h. Composites with rotated components show a
// large error because the engine omits the rotation correction.
func HessianCheck(c *potential.Composite, t float64, q []float64, h float64) CheckReport {
	n := c.NDim()
	ws := potential.NewWorkspace(c)

	rep := CheckReport{
		Analytic: make([]float64, n*n),
		Numeric:  make([]float64, n*n),
	}
	ws.Hessian(t, q, rep.Analytic)

	x := make([]float64, n)
	gp := make([]float64, n)
	gm := make([]float64, n)
	for j := 0; j < n; j++ {
		copy(x, q)
		x[j] = q[j] + h
		ws.Gradient(t, x, gp)
		x[j] = q[j] - h
		ws.Gradient(t, x, gm)
		for i := 0; i < n; i++ {
			rep.Numeric[i*n+j] = (gp[i] - gm[i]) / (2 * h)
		}
	}

	rep.MaxRelErr = maxRelErr(rep.Analytic, rep.Numeric)
	return rep
}

func maxRelErr(got, want []float64) float64 {
	worst := 0.0
	for i := range got {
		e := math.Abs(got[i]-want[i]) / math.Max(1, math.Abs(want[i]))
		if e > worst || math.IsNaN(e) {
			worst = e
		}
	}
	return worst
}
