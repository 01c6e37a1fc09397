package frame

// MaxDim is the largest dimension with a real rotation.
const MaxDim = 3

// Rotate adds R·in to out, or Rᵀ·in when transpose is set. R is row-major
// nDim×nDim. For nDim other than 2 or 3, in is added unchanged.
func Rotate(out, in, R []float64, nDim int, transpose bool) {
	switch nDim {
	case 3:
		if !transpose {
			out[0] += R[0]*in[0] + R[1]*in[1] + R[2]*in[2]
			out[1] += R[3]*in[0] + R[4]*in[1] + R[5]*in[2]
			out[2] += R[6]*in[0] + R[7]*in[1] + R[8]*in[2]
		} else {
			out[0] += R[0]*in[0] + R[3]*in[1] + R[6]*in[2]
			out[1] += R[1]*in[0] + R[4]*in[1] + R[7]*in[2]
			out[2] += R[2]*in[0] + R[5]*in[1] + R[8]*in[2]
		}
	case 2:
		if !transpose {
			out[0] += R[0]*in[0] + R[1]*in[1]
			out[1] += R[2]*in[0] + R[3]*in[1]
		} else {
			out[0] += R[0]*in[0] + R[2]*in[1]
			out[1] += R[1]*in[0] + R[3]*in[1]
		}
	default:
		for j := 0; j < nDim; j++ {
			out[j] += in[j]
		}
	}
}

// ShiftRotate adds R·(in − origin) to out (Rᵀ when transpose is set).
func ShiftRotate(out, in, origin, R []float64, nDim int, transpose bool) {
	if nDim != 2 && nDim != 3 {
		for j := 0; j < nDim; j++ {
			out[j] += in[j] - origin[j]
		}
		return
	}

	var tmp [MaxDim]float64
	for j := 0; j < nDim; j++ {
		tmp[j] = in[j] - origin[j]
	}
	Rotate(out, tmp[:nDim], R, nDim, transpose)
}

// Apply overwrites out with R·in (Rᵀ·in when transpose is set).
// out and in must not alias.
func Apply(out, in, R []float64, nDim int, transpose bool) {
	for j := 0; j < nDim; j++ {
		out[j] = 0
	}
	Rotate(out, in, R, nDim, transpose)
}
