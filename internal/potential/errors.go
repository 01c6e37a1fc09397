package potential

import (
	"errors"
	"fmt"
)

// Construction errors. Evaluation itself never fails; numerical anomalies
// surface as NaN or Inf.
var (
	// ErrDimension indicates a non-positive dimensionality.
	ErrDimension = errors.New("potential: dimension must be positive")

	// ErrNilComponent indicates a placement without a component.
	ErrNilComponent = errors.New("potential: nil component")

	// ErrOriginLength indicates an origin whose length differs from the dimension.
	ErrOriginLength = errors.New("potential: origin length does not match dimension")

	// ErrRotationShape indicates a rotation matrix that is not nDim×nDim.
	ErrRotationShape = errors.New("potential: rotation matrix shape does not match dimension")
)

// DimChecker is implemented by components whose parameters depend on the
// dimension. New and With reject a component whose CheckDim fails.
type DimChecker interface {
	CheckDim(nDim int) error
}

// ComponentError wraps a construction error with the offending component.
type ComponentError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *ComponentError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("component %d (%s): %v", e.Index, e.Name, e.Wrapped)
	}
	return fmt.Sprintf("component %d: %v", e.Index, e.Wrapped)
}

func (e *ComponentError) Unwrap() error {
	return e.Wrapped
}
