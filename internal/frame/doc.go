// Package frame moves coordinate vectors between a global frame and the
// local frame of a potential component.
//
// A local frame is reached by shifting to the component origin and then
// applying a row-major rotation matrix:
//
//   - [Rotate]: accumulate R·v (or Rᵀ·v) into an output vector
//   - [ShiftRotate]: accumulate R·(v − origin) into an output vector
//   - [Apply]: the non-accumulating form of [Rotate]
//
// Rotation only exists in 2 and 3 dimensions. For any other dimension the
// rotation is treated as the identity and the matrix argument is ignored.
//
// # Accumulation
//
// [Rotate] and [ShiftRotate] add into their output and never assign. Zero
// the output first, or use [Apply], when a fresh result is wanted:
//
//	local := make([]float64, 3)
//	frame.ShiftRotate(local, q, origin, R, 3, false)
//
// Matrices are never checked for orthonormality.
package frame
