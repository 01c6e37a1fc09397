package models_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravpot/internal/models"
)

type evaluator interface {
	Value(t float64, q []float64) float64
	Density(t float64, q []float64) float64
	Gradient(t float64, q, grad []float64)
	Hessian(t float64, q, hess []float64)
}

func numericGradient(m evaluator, q []float64, h float64) []float64 {
	n := len(q)
	grad := make([]float64, n)
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		copy(x, q)
		x[i] = q[i] + h
		fp := m.Value(0, x)
		x[i] = q[i] - h
		fm := m.Value(0, x)
		grad[i] = (fp - fm) / (2 * h)
	}
	return grad
}

func numericHessian(m evaluator, q []float64, h float64) []float64 {
	n := len(q)
	hess := make([]float64, n*n)
	x := make([]float64, n)
	gp := make([]float64, n)
	gm := make([]float64, n)
	for j := 0; j < n; j++ {
		copy(x, q)
		x[j] = q[j] + h
		for i := range gp {
			gp[i] = 0
			gm[i] = 0
		}
		m.Gradient(0, x, gp)
		x[j] = q[j] - h
		m.Gradient(0, x, gm)
		for i := 0; i < n; i++ {
			hess[i*n+j] = (gp[i] - gm[i]) / (2 * h)
		}
	}
	return hess
}

func closeTo(want, rel float64) OmegaMatcher {
	return BeNumerically("~", want, rel*math.Max(1, math.Abs(want)))
}

var _ = Describe("component models", func() {
	q3 := []float64{0.7, -0.4, 1.1}

	DescribeTable("analytic gradient matches central differences",
		func(m evaluator, q []float64) {
			grad := make([]float64, len(q))
			m.Gradient(0, q, grad)
			want := numericGradient(m, q, 1e-6)
			for i := range q {
				Expect(grad[i]).To(closeTo(want[i], 1e-6), "axis %d", i)
			}
		},
		Entry("kepler", models.NewKepler(1, 1), q3),
		Entry("plummer", models.NewPlummer(1, 2, 0.5), q3),
		Entry("hernquist", models.NewHernquist(1, 3, 0.8), q3),
		Entry("isochrone", models.NewIsochrone(1, 1.5, 0.6), q3),
		Entry("nfw", models.NewNFW(1, 5, 2), q3),
		Entry("miyamoto-nagai", models.NewMiyamotoNagai(1, 1, 0.65, 0.26), q3),
		Entry("harmonic 4d", models.NewHarmonic(1, 1, 2, 3, 4), []float64{0.1, -0.2, 0.3, 0.4}),
		Entry("plummer 2d", models.NewPlummer(1, 1, 1), []float64{0.3, 0.9}),
	)

	DescribeTable("analytic Hessian matches differences of the gradient",
		func(m evaluator, q []float64) {
			n := len(q)
			hess := make([]float64, n*n)
			m.Hessian(0, q, hess)
			want := numericHessian(m, q, 1e-5)
			for i := range hess {
				Expect(hess[i]).To(closeTo(want[i], 1e-6), "element %d", i)
			}
		},
		Entry("kepler", models.NewKepler(1, 1), q3),
		Entry("plummer", models.NewPlummer(1, 2, 0.5), q3),
		Entry("hernquist", models.NewHernquist(1, 3, 0.8), q3),
		Entry("isochrone", models.NewIsochrone(1, 1.5, 0.6), q3),
		Entry("nfw", models.NewNFW(1, 5, 2), q3),
		Entry("miyamoto-nagai", models.NewMiyamotoNagai(1, 1, 0.65, 0.26), q3),
		Entry("harmonic", models.NewHarmonic(1, 1, 2, 3), q3),
	)

	DescribeTable("density satisfies Poisson's equation",
		func(m evaluator, g float64, q []float64) {
			n := len(q)
			hess := make([]float64, n*n)
			m.Hessian(0, q, hess)
			lap := 0.0
			for i := 0; i < n; i++ {
				lap += hess[i*n+i]
			}
			Expect(m.Density(0, q)).To(closeTo(lap/(4*math.Pi*g), 1e-10))
		},
		Entry("kepler", models.NewKepler(1, 1), 1.0, q3),
		Entry("plummer", models.NewPlummer(2, 2, 0.5), 2.0, q3),
		Entry("hernquist", models.NewHernquist(1, 3, 0.8), 1.0, q3),
		Entry("isochrone", models.NewIsochrone(1, 1.5, 0.6), 1.0, q3),
		Entry("nfw", models.NewNFW(0.5, 5, 2), 0.5, q3),
		Entry("miyamoto-nagai", models.NewMiyamotoNagai(1, 1, 0.65, 0.26), 1.0, q3),
		Entry("harmonic", models.NewHarmonic(3, 1, 2, 3), 3.0, q3),
	)

	Describe("Hessian symmetry", func() {
		It("is symmetric for the disk", func() {
			hess := make([]float64, 9)
			models.NewMiyamotoNagai(1, 1, 3, 0.3).Hessian(0, q3, hess)
			Expect(hess[1]).To(Equal(hess[3]))
			Expect(hess[2]).To(Equal(hess[6]))
			Expect(hess[5]).To(Equal(hess[7]))
		})
	})

	Describe("limiting cases", func() {
		It("reduces Miyamoto-Nagai with a = 0 to a Plummer sphere", func() {
			disk := models.NewMiyamotoNagai(1, 2, 0, 0.7)
			sphere := models.NewPlummer(1, 2, 0.7)
			Expect(disk.Value(0, q3)).To(closeTo(sphere.Value(0, q3), 1e-12))
			Expect(disk.Density(0, q3)).To(closeTo(sphere.Density(0, q3), 1e-12))
		})

		It("gives zero force and an isotropic Hessian at the centre of a cored sphere", func() {
			p := models.NewPlummer(1, 2, 0.5)
			origin := []float64{0, 0, 0}

			grad := make([]float64, 3)
			p.Gradient(0, origin, grad)
			Expect(grad).To(Equal([]float64{0, 0, 0}))

			hess := make([]float64, 9)
			p.Hessian(0, origin, hess)
			want := p.G * p.M / (p.B * p.B * p.B)
			for i := 0; i < 3; i++ {
				Expect(hess[i*3+i]).To(closeTo(want, 1e-12))
			}
			Expect(hess[1]).To(BeZero())
		})

		It("matches the point mass far outside a Hernquist scale radius", func() {
			h := models.NewHernquist(1, 1, 1e-6)
			k := models.NewKepler(1, 1)
			far := []float64{100, 0, 0}
			Expect(h.Value(0, far)).To(closeTo(k.Value(0, far), 1e-7))
		})

		It("applies a single harmonic frequency to every axis", func() {
			h := models.NewHarmonic(1, 2)
			Expect(h.Value(0, []float64{1, 1, 1})).To(BeNumerically("==", 6))
		})

		It("is flat without frequencies", func() {
			h := models.NewHarmonic(1)
			q := []float64{1, 2, 3}
			grad := make([]float64, 3)
			hess := make([]float64, 9)
			Expect(h.Value(0, q)).To(BeZero())
			Expect(h.Density(0, q)).To(BeZero())
			h.Gradient(0, q, grad)
			h.Hessian(0, q, hess)
			Expect(grad).To(Equal([]float64{0, 0, 0}))
			Expect(hess).To(HaveEach(BeZero()))
		})

		It("leaves axes beyond a short frequency list unconfined", func() {
			h := models.NewHarmonic(1, 1, 2)
			grad := make([]float64, 3)
			h.Gradient(0, []float64{1, 1, 1}, grad)
			Expect(grad).To(Equal([]float64{1, 4, 0}))
		})
	})

	Describe("frequency count", func() {
		It("accepts one frequency or one per axis", func() {
			Expect(models.NewHarmonic(1, 2).CheckDim(3)).To(Succeed())
			Expect(models.NewHarmonic(1, 1, 2, 3).CheckDim(3)).To(Succeed())
		})

		It("rejects any other count", func() {
			Expect(models.NewHarmonic(1).CheckDim(3)).To(MatchError(models.ErrOmegaLength))
			Expect(models.NewHarmonic(1, 1, 2).CheckDim(3)).To(MatchError(models.ErrOmegaLength))
			Expect(models.NewHarmonic(1, 1, 2, 3, 4).CheckDim(3)).To(MatchError(models.ErrOmegaLength))
		})
	})

	Describe("accumulation", func() {
		It("adds into the gradient instead of overwriting", func() {
			grad := []float64{1, 1, 1}
			models.NewHarmonic(1, 1).Gradient(0, []float64{1, 2, 3}, grad)
			Expect(grad).To(Equal([]float64{2, 3, 4}))
		})

		It("adds into the Hessian instead of overwriting", func() {
			hess := []float64{1, 0, 0, 1}
			models.NewHarmonic(1, 3).Hessian(0, []float64{0, 0}, hess)
			Expect(hess).To(Equal([]float64{10, 0, 0, 10}))
		})
	})
})
