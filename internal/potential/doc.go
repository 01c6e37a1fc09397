// Package potential evaluates composite gravitational potentials.
//
// A [Composite] is an ordered sum of [Component] values, each placed at its
// own origin and orientation. The package provides:
//
//   - [Composite.Value] and [Composite.Density]: sums over components
//   - [Composite.Gradient]: local gradients rotated back to the global frame
//   - [Composite.Hessian]: local Hessians summed without rotation correction
//   - [Composite.DPhiDr], [Composite.D2PhiDr2]: finite-difference radial derivatives
//   - [Composite.MassEnclosed]: mass implied by the radial derivative
//   - [Workspace]: a reusable scratch arena for hot loops
//
// # Example
//
//	c, err := potential.New(3,
//		potential.Placement{Name: "halo", Component: models.NewHernquist(1, 1e12, 20)},
//		potential.Placement{Name: "disk", Component: disk, Rotation: frame.Euler(0, 0.2, 0)},
//	)
//	phi := c.Value(0, []float64{8, 0, 0})
//
// # Hessian and rotation
//
// Component Hessians are accumulated as computed in each local frame. No
// rotation back-correction is applied, so the result is only correct when
// every component has an identity rotation. [Composite.Rotated] reports
// whether that is the case.
//
// # Thread Safety
//
// A Composite is immutable after [New] and may be evaluated from many
// goroutines as long as its components are reentrant. Its methods borrow a
// [Workspace] from a pool owned by the composite, so steady-state calls do
// not allocate. A Workspace itself is NOT thread-safe; use one per
// goroutine.
package potential
