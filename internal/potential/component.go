package potential

// Component is one additive term of a composite potential. Every method
// receives coordinates already shifted and rotated into the component's
// local frame; len(q) is the dimension.
//
// Gradient adds into grad (length len(q)) and Hessian adds into hess
// (row-major, length len(q)²). Implementations must not retain q or the
// output slices, and must not mutate their own parameters while evaluating.
type Component interface {
	Value(t float64, q []float64) float64
	Density(t float64, q []float64) float64
	Gradient(t float64, q, grad []float64)
	Hessian(t float64, q, hess []float64)
}

// Funcs is a callback capability set over an opaque parameter payload P.
// Any field may be nil, in which case it contributes nothing.
type Funcs[P any] struct {
	Value    func(t float64, params P, q []float64) float64
	Density  func(t float64, params P, q []float64) float64
	Gradient func(t float64, params P, q, grad []float64)
	Hessian  func(t float64, params P, q, hess []float64)
}

// Bind pairs a parameter payload with callbacks and returns a Component.
// The payload is forwarded to the callbacks and never inspected.
func Bind[P any](params P, fns Funcs[P]) Component {
	return &bound[P]{params: params, fns: fns}
}

type bound[P any] struct {
	params P
	fns    Funcs[P]
}

func (b *bound[P]) Value(t float64, q []float64) float64 {
	if b.fns.Value == nil {
		return 0
	}
	return b.fns.Value(t, b.params, q)
}

func (b *bound[P]) Density(t float64, q []float64) float64 {
	if b.fns.Density == nil {
		return 0
	}
	return b.fns.Density(t, b.params, q)
}

func (b *bound[P]) Gradient(t float64, q, grad []float64) {
	if b.fns.Gradient != nil {
		b.fns.Gradient(t, b.params, q, grad)
	}
}

func (b *bound[P]) Hessian(t float64, q, hess []float64) {
	if b.fns.Hessian != nil {
		b.fns.Hessian(t, b.params, q, hess)
	}
}
