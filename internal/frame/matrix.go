package frame

import "math"

// Identity returns the row-major n×n identity matrix.
func Identity(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}
	return m
}

// IsIdentity reports whether R is exactly the n×n identity.
func IsIdentity(R []float64, n int) bool {
	if len(R) != n*n {
		return false
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if R[i*n+j] != want {
				return false
			}
		}
	}
	return true
}

// Rotation2D returns the counter-clockwise rotation by angle radians.
func Rotation2D(angle float64) []float64 {
	s, c := math.Sincos(angle)
	return []float64{
		c, -s,
		s, c,
	}
}

// Euler returns the z-x-z rotation Rz(alpha)·Rx(beta)·Rz(gamma).
func Euler(alpha, beta, gamma float64) []float64 {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	sg, cg := math.Sincos(gamma)

	return []float64{
		ca*cg - sa*cb*sg, -ca*sg - sa*cb*cg, sa * sb,
		sa*cg + ca*cb*sg, -sa*sg + ca*cb*cg, -ca * sb,
		sb * sg, sb * cg, cb,
	}
}

// Transpose returns the transpose of the row-major n×n matrix R.
func Transpose(R []float64, n int) []float64 {
	t := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			t[j*n+i] = R[i*n+j]
		}
	}
	return t
}
