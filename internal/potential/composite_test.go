package potential_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/gravpot/internal/frame"
	"github.com/san-kum/gravpot/internal/models"
	"github.com/san-kum/gravpot/internal/potential"
)

func mustNew(t *testing.T, nDim int, parts ...potential.Placement) *potential.Composite {
	t.Helper()
	c, err := potential.New(nDim, parts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Max(1, math.Abs(want))
}

func TestNewValidation(t *testing.T) {
	kepler := models.NewKepler(1, 1)

	tests := []struct {
		name  string
		nDim  int
		parts []potential.Placement
		want  error
		index int
	}{
		{"zero dimension", 0, nil, potential.ErrDimension, -1},
		{"nil component", 3, []potential.Placement{{Name: "a", Component: kepler}, {Name: "b"}}, potential.ErrNilComponent, 1},
		{"short origin", 3, []potential.Placement{{Component: kepler, Origin: []float64{1, 2}}}, potential.ErrOriginLength, 0},
		{"2d matrix in 3d", 3, []potential.Placement{{Component: kepler, Rotation: frame.Rotation2D(0.1)}}, potential.ErrRotationShape, 0},
		{"bad matrix in 4d", 4, []potential.Placement{{Component: kepler, Rotation: frame.Identity(3)}}, potential.ErrRotationShape, 0},
		{"two frequencies in 3d", 3, []potential.Placement{{Component: kepler}, {Component: models.NewHarmonic(1, 1, 2)}}, models.ErrOmegaLength, 1},
		{"no frequencies", 2, []potential.Placement{{Component: models.NewHarmonic(1)}}, models.ErrOmegaLength, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := potential.New(tt.nDim, tt.parts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
			if tt.index < 0 {
				return
			}
			var ce *potential.ComponentError
			if !errors.As(err, &ce) {
				t.Fatalf("error %v is not a *ComponentError", err)
			}
			if ce.Index != tt.index {
				t.Errorf("ComponentError.Index = %d, want %d", ce.Index, tt.index)
			}
		})
	}
}

func TestZeroComponents(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		c := mustNew(t, n)
		q := make([]float64, n)
		for i := range q {
			q[i] = float64(i) + 0.5
		}

		if v := c.Value(0, q); v != 0 {
			t.Errorf("n=%d: Value = %v, want 0", n, v)
		}
		if v := c.Density(0, q); v != 0 {
			t.Errorf("n=%d: Density = %v, want 0", n, v)
		}

		grad := make([]float64, n)
		for i := range grad {
			grad[i] = 99
		}
		c.Gradient(0, q, grad)
		for i, g := range grad {
			if g != 0 {
				t.Errorf("n=%d: grad[%d] = %v, want 0", n, i, g)
			}
		}

		hess := make([]float64, n*n)
		for i := range hess {
			hess[i] = 99
		}
		c.Hessian(0, q, hess)
		for i, h := range hess {
			if h != 0 {
				t.Errorf("n=%d: hess[%d] = %v, want 0", n, i, h)
			}
		}
	}
}

func TestAdditivity(t *testing.T) {
	a := potential.Placement{Name: "bulge", Component: models.NewHernquist(1, 2, 0.5), Origin: []float64{0.1, 0, 0}}
	b := potential.Placement{Name: "disk", Component: models.NewMiyamotoNagai(1, 5, 3, 0.3), Rotation: frame.Euler(0.2, 0.4, 0)}

	ca := mustNew(t, 3, a)
	cb := mustNew(t, 3, b)
	cab := mustNew(t, 3, a, b)

	points := [][]float64{{1, 2, 3}, {-0.5, 0.2, 0.1}, {8, 0, 0.01}}
	for _, q := range points {
		for _, tm := range []float64{0, 1.5} {
			got := cab.Value(tm, q)
			want := ca.Value(tm, q) + cb.Value(tm, q)
			if relErr(got, want) > 1e-14 {
				t.Errorf("Value(%v) = %v, want %v", q, got, want)
			}

			gotRho := cab.Density(tm, q)
			wantRho := ca.Density(tm, q) + cb.Density(tm, q)
			if relErr(gotRho, wantRho) > 1e-14 {
				t.Errorf("Density(%v) = %v, want %v", q, gotRho, wantRho)
			}
		}
	}
}

func TestFrameInvariance(t *testing.T) {
	comp := models.NewIsochrone(1, 2, 0.7)
	c := mustNew(t, 3, potential.Placement{Component: comp})

	q := []float64{0.3, -1.2, 0.8}
	if got, want := c.Value(0, q), comp.Value(0, q); got != want {
		t.Errorf("Value = %v, want %v", got, want)
	}
	if got, want := c.Density(0, q), comp.Density(0, q); got != want {
		t.Errorf("Density = %v, want %v", got, want)
	}
}

func TestShiftMovesCentre(t *testing.T) {
	comp := models.NewPlummer(1, 1, 0.5)
	origin := []float64{2, -1, 0.5}
	c := mustNew(t, 3, potential.Placement{Component: comp, Origin: origin})

	if got, want := c.Value(0, origin), comp.Value(0, []float64{0, 0, 0}); got != want {
		t.Errorf("Value at shifted centre = %v, want %v", got, want)
	}

	grad := make([]float64, 3)
	c.Gradient(0, origin, grad)
	for i, g := range grad {
		if g != 0 {
			t.Errorf("grad[%d] at shifted centre = %v, want 0", i, g)
		}
	}
}

func numericGradient(c *potential.Composite, q []float64, h float64) []float64 {
	n := len(q)
	out := make([]float64, n)
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		copy(x, q)
		x[i] = q[i] + h
		fp := c.Value(0, x)
		x[i] = q[i] - h
		fm := c.Value(0, x)
		out[i] = (fp - fm) / (2 * h)
	}
	return out
}

func TestGradientConsistency(t *testing.T) {
	tests := []struct {
		name string
		c    func(t *testing.T) *potential.Composite
		q    []float64
	}{
		{"single plummer", func(t *testing.T) *potential.Composite {
			return mustNew(t, 3, potential.Placement{Component: models.NewPlummer(1, 1, 0.3)})
		}, []float64{0.5, 0.2, -0.4}},
		{"single disk", func(t *testing.T) *potential.Composite {
			return mustNew(t, 3, potential.Placement{Component: models.NewMiyamotoNagai(1, 1, 0.65, 0.26)})
		}, []float64{1.5, -0.3, 0.2}},
		{"shifted and rotated mix", func(t *testing.T) *potential.Composite {
			return mustNew(t, 3,
				potential.Placement{Component: models.NewNFW(1, 3, 2), Origin: []float64{0.2, 0.1, 0}},
				potential.Placement{Component: models.NewMiyamotoNagai(1, 1, 1, 0.2), Rotation: frame.Euler(0.5, 0.9, 1.3)},
				potential.Placement{Component: models.NewHarmonic(1, 0.1, 0.2, 0.3), Rotation: frame.Euler(-0.4, 0.2, 0)},
			)
		}, []float64{1.1, -0.7, 0.45}},
		{"rotated 2d", func(t *testing.T) *potential.Composite {
			return mustNew(t, 2, potential.Placement{
				Component: models.NewHarmonic(1, 1, 3),
				Origin:    []float64{0.5, 0},
				Rotation:  frame.Rotation2D(0.6),
			})
		}, []float64{0.2, 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c(t)
			grad := make([]float64, c.NDim())
			c.Gradient(0, tt.q, grad)
			want := numericGradient(c, tt.q, 1e-6)
			for i := range grad {
				if relErr(grad[i], want[i]) > 1e-4 {
					t.Errorf("grad[%d] = %v, finite difference %v", i, grad[i], want[i])
				}
			}

			acc := make([]float64, c.NDim())
			c.Acceleration(0, tt.q, acc)
			for i := range acc {
				if acc[i] != -grad[i] {
					t.Errorf("acc[%d] = %v, want %v", i, acc[i], -grad[i])
				}
			}
		})
	}
}

func mulVec(R []float64, v []float64) []float64 {
	n := len(v)
	out := make([]float64, n)
	frame.Rotate(out, v, R, n, false)
	return out
}

func TestRotationRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		comp potential.Component
		R    []float64
		q    []float64
	}{
		{"3d disk", models.NewMiyamotoNagai(1, 1, 1.2, 0.3), frame.Euler(0.7, 1.1, -0.4), []float64{0.8, -0.5, 0.3}},
		{"3d harmonic", models.NewHarmonic(1, 1, 2, 3), frame.Euler(-1.2, 0.3, 2.2), []float64{0.1, 0.4, -0.9}},
		{"2d harmonic", models.NewHarmonic(1, 0.5, 2), frame.Rotation2D(1.0), []float64{1.5, -0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.q)
			plain := mustNew(t, n, potential.Placement{Component: tt.comp})
			// Rotating the component by Rᵀ co-rotates its field by R.
			rotated := mustNew(t, n, potential.Placement{Component: tt.comp, Rotation: frame.Transpose(tt.R, n)})

			g := make([]float64, n)
			plain.Gradient(0, tt.q, g)
			want := mulVec(tt.R, g)

			Rq := mulVec(tt.R, tt.q)
			got := make([]float64, n)
			rotated.Gradient(0, Rq, got)

			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-12 {
					t.Errorf("grad[%d] = %v, want %v", i, got[i], want[i])
				}
			}
			if relErr(rotated.Value(0, Rq), plain.Value(0, tt.q)) > 1e-13 {
				t.Errorf("rotated Value = %v, want %v", rotated.Value(0, Rq), plain.Value(0, tt.q))
			}
		})
	}
}

// The Hessian engine sums local-frame Hessians without conjugating them by
// the component rotation. This test pins that behaviour: a fix must update
// it deliberately.
func TestHessianIgnoresRotation(t *testing.T) {
	comp := models.NewHarmonic(1, 1, 2, 3)
	R := frame.Euler(0.4, 0.8, 1.2)
	c := mustNew(t, 3, potential.Placement{Component: comp, Rotation: R})

	if !c.Rotated() {
		t.Fatal("Rotated() = false for a rotated component")
	}

	q := []float64{0.3, -0.2, 0.5}
	got := make([]float64, 9)
	c.Hessian(0, q, got)

	local := []float64{1, 0, 0, 0, 4, 0, 0, 0, 9}
	for i := range got {
		if got[i] != local[i] {
			t.Errorf("hess[%d] = %v, want uncorrected local value %v", i, got[i], local[i])
		}
	}

	Rm := mat.NewDense(3, 3, R)
	Hm := mat.NewDense(3, 3, local)
	var tmp, correct mat.Dense
	tmp.Mul(Rm.T(), Hm)
	correct.Mul(&tmp, Rm)

	// The gradient engine does rotate, so differencing it recovers RᵀHR.
	h := 1e-5
	x := make([]float64, 3)
	gp := make([]float64, 3)
	gm := make([]float64, 3)
	for j := 0; j < 3; j++ {
		copy(x, q)
		x[j] += h
		c.Gradient(0, x, gp)
		x[j] -= 2 * h
		c.Gradient(0, x, gm)
		for i := 0; i < 3; i++ {
			fd := (gp[i] - gm[i]) / (2 * h)
			if math.Abs(fd-correct.At(i, j)) > 1e-6 {
				t.Errorf("differenced gradient (%d,%d) = %v, want RᵀHR %v", i, j, fd, correct.At(i, j))
			}
		}
	}

	if mat.EqualApprox(mat.NewDense(3, 3, got), &correct, 1e-3) {
		t.Error("Hessian matches the rotated tensor; update this test and the package docs")
	}
}

func TestHessianUnrotated(t *testing.T) {
	comp := models.NewPlummer(1, 2, 0.4)
	c := mustNew(t, 3,
		potential.Placement{Component: comp, Origin: []float64{0.1, 0.2, 0.3}},
		potential.Placement{Component: models.NewHarmonic(1, 0.5)},
	)
	if c.Rotated() {
		t.Fatal("Rotated() = true with identity rotations")
	}

	q := []float64{0.6, -0.1, 0.2}
	got := make([]float64, 9)
	c.Hessian(0, q, got)

	want := make([]float64, 9)
	comp.Hessian(0, []float64{0.5, -0.3, -0.1}, want)
	for i := 0; i < 3; i++ {
		want[i*3+i] += 0.25
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("hess[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

type growth struct {
	gm   float64
	rate float64
}

func TestTimeAndParamsPassThrough(t *testing.T) {
	var seen []float64
	comp := potential.Bind(growth{gm: 2, rate: 0.5}, potential.Funcs[growth]{
		Value: func(tm float64, p growth, q []float64) float64 {
			seen = append(seen, tm)
			return -p.gm * (1 + p.rate*tm)
		},
		Gradient: func(tm float64, p growth, q, grad []float64) {
			for i := range q {
				grad[i] += p.rate * tm * q[i]
			}
		},
	})

	c := mustNew(t, 2, potential.Placement{Component: comp}, potential.Placement{Component: comp})

	if got := c.Value(4, []float64{1, 1}); got != -12 {
		t.Errorf("Value = %v, want -12", got)
	}
	if len(seen) != 2 || seen[0] != 4 || seen[1] != 4 {
		t.Errorf("components saw times %v, want [4 4]", seen)
	}

	grad := make([]float64, 2)
	c.Gradient(2, []float64{1, -1}, grad)
	if grad[0] != 2 || grad[1] != -2 {
		t.Errorf("Gradient = %v, want [2 -2]", grad)
	}

	if d := c.Density(1, []float64{0, 0}); d != 0 {
		t.Errorf("Density with nil callback = %v, want 0", d)
	}
	hess := make([]float64, 4)
	c.Hessian(1, []float64{0, 0}, hess)
	for i, h := range hess {
		if h != 0 {
			t.Errorf("hess[%d] with nil callback = %v, want 0", i, h)
		}
	}
}

func TestCompositeIsImmutable(t *testing.T) {
	origin := []float64{1, 0, 0}
	R := frame.Identity(3)
	base := mustNew(t, 3, potential.Placement{Name: "a", Component: models.NewKepler(1, 1), Origin: origin, Rotation: R})

	q := []float64{2, 0, 0}
	before := base.Value(0, q)

	origin[0] = 5
	R[0] = -1
	if after := base.Value(0, q); after != before {
		t.Errorf("mutating inputs changed Value: %v -> %v", before, after)
	}
	if base.Rotated() {
		t.Error("mutating the input matrix changed Rotated()")
	}

	grown, err := base.With(potential.Placement{Name: "b", Component: models.NewKepler(1, 1)})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
	if base.Len() != 1 || grown.Len() != 2 {
		t.Errorf("Len() = %d/%d, want 1/2", base.Len(), grown.Len())
	}
	if grown.Name(1) != "b" {
		t.Errorf("Name(1) = %q, want b", grown.Name(1))
	}

	o := base.Origin(0)
	o[0] = 42
	if base.Origin(0)[0] != 1 {
		t.Error("Origin() exposed internal storage")
	}
}

func TestHighDimensionIgnoresRotation(t *testing.T) {
	R := make([]float64, 16)
	for i := range R {
		R[i] = float64(i)
	}
	comp := models.NewHarmonic(1, 1, 2, 3, 4)
	c := mustNew(t, 4, potential.Placement{Component: comp, Rotation: R, Origin: []float64{0, 0, 0, 1}})

	if c.Rotated() {
		t.Error("Rotated() = true in 4 dimensions")
	}

	q := []float64{1, 1, 1, 2}
	if got, want := c.Value(0, q), comp.Value(0, []float64{1, 1, 1, 1}); got != want {
		t.Errorf("Value = %v, want %v", got, want)
	}

	grad := make([]float64, 4)
	c.Gradient(0, q, grad)
	want := []float64{1, 4, 9, 16}
	for i := range grad {
		if grad[i] != want[i] {
			t.Errorf("grad[%d] = %v, want %v", i, grad[i], want[i])
		}
	}
}

func TestCompositeMethodsDoNotAllocate(t *testing.T) {
	c := mustNew(t, 3,
		potential.Placement{Name: "core", Component: models.NewPlummer(1, 1, 0.5)},
		potential.Placement{Name: "disk", Component: models.NewMiyamotoNagai(1, 2, 1.5, 0.3), Rotation: frame.Euler(0.2, 0.4, 0)},
	)
	q := []float64{0.8, -0.3, 0.4}
	grad := make([]float64, 3)
	hess := make([]float64, 9)

	tests := []struct {
		name string
		fn   func()
	}{
		{"Value", func() { c.Value(0, q) }},
		{"Density", func() { c.Density(0, q) }},
		{"Gradient", func() { c.Gradient(0, q, grad) }},
		{"Acceleration", func() { c.Acceleration(0, q, grad) }},
		{"Hessian", func() { c.Hessian(0, q, hess) }},
		{"DPhiDr", func() { c.DPhiDr(0, q) }},
		{"D2PhiDr2", func() { c.D2PhiDr2(0, q) }},
		{"MassEnclosed", func() { c.MassEnclosed(0, q, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if allocs := testing.AllocsPerRun(200, tt.fn); allocs != 0 {
				t.Errorf("%s allocs/op = %v, want 0", tt.name, allocs)
			}
		})
	}
}

func TestCompositeConcurrentEvaluation(t *testing.T) {
	c := mustNew(t, 3,
		potential.Placement{Component: models.NewHernquist(1, 1, 0.5)},
		potential.Placement{Component: models.NewHarmonic(1, 0.3, 0.2, 0.1), Origin: []float64{0.5, 0, 0}},
	)
	q := []float64{1.1, 0.4, -0.7}
	want := make([]float64, 3)
	c.Gradient(0, q, want)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			grad := make([]float64, 3)
			for i := 0; i < 500; i++ {
				c.Gradient(0, q, grad)
				for j := range grad {
					if grad[j] != want[j] {
						errs <- "concurrent gradient differs"
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestWithUsesItsOwnWorkspaces(t *testing.T) {
	base := mustNew(t, 2, potential.Placement{Component: models.NewKepler(1, 1)})
	grown, err := base.With(potential.Placement{Component: models.NewHarmonic(1, 1), Origin: []float64{1, 0}})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	q := []float64{2, 0}
	if got, want := base.Value(0, q), -0.5; math.Abs(got-want) > 1e-15 {
		t.Errorf("base Value = %v, want %v", got, want)
	}
	if got, want := grown.Value(0, q), -0.5+0.5; math.Abs(got-want) > 1e-15 {
		t.Errorf("grown Value = %v, want %v", got, want)
	}
}
