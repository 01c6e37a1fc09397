package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrOmegaLength indicates a frequency list that is neither isotropic nor
// one value per axis.
var ErrOmegaLength = errors.New("models: harmonic needs one frequency or one per axis")

// Harmonic is the anisotropic oscillator Φ = ½ Σ ωᵢ² qᵢ² in any dimension.
// A single frequency applies to every axis.
type Harmonic struct {
	G     float64
	Omega []float64
}

// NewHarmonic returns an oscillator with the given frequencies: a single
// isotropic value or one per axis. Use CheckDim to validate the length
// against a dimension. With no frequencies the oscillator is flat.
func NewHarmonic(g float64, omega ...float64) *Harmonic {
	w := make([]float64, len(omega))
	copy(w, omega)
	return &Harmonic{G: g, Omega: w}
}

// CheckDim reports whether the frequencies fit an nDim space.
func (h *Harmonic) CheckDim(nDim int) error {
	switch len(h.Omega) {
	case 1, nDim:
		return nil
	}
	return fmt.Errorf("%w: got %d for %d axes", ErrOmegaLength, len(h.Omega), nDim)
}

// omega2 is zero for axes beyond a short frequency list.
func (h *Harmonic) omega2(i int) float64 {
	var w float64
	switch {
	case len(h.Omega) == 1:
		w = h.Omega[0]
	case i < len(h.Omega):
		w = h.Omega[i]
	}
	return w * w
}

func (h *Harmonic) Value(t float64, q []float64) float64 {
	v := 0.0
	for i, x := range q {
		v += 0.5 * h.omega2(i) * x * x
	}
	return v
}

// Density follows from Poisson's equation, ∇²Φ/(4πG).
func (h *Harmonic) Density(t float64, q []float64) float64 {
	lap := 0.0
	for i := range q {
		lap += h.omega2(i)
	}
	return lap / (4 * math.Pi * h.G)
}

func (h *Harmonic) Gradient(t float64, q, grad []float64) {
	for i, x := range q {
		grad[i] += h.omega2(i) * x
	}
}

func (h *Harmonic) Hessian(t float64, q, hess []float64) {
	n := len(q)
	for i := 0; i < n; i++ {
		hess[i*n+i] += h.omega2(i)
	}
}
