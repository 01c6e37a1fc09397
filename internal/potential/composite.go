package potential

import (
	"sync"

	"github.com/san-kum/gravpot/internal/frame"
)

// Placement positions a component in the global frame. A nil Origin is the
// zero vector and a nil Rotation is the identity.
type Placement struct {
	Name      string
	Component Component
	Origin    []float64
	Rotation  []float64
}

type placed struct {
	name   string
	comp   Component
	origin []float64
	rot    []float64
}

// Composite is an immutable ordered sum of placed components.
type Composite struct {
	nDim    int
	parts   []placed
	rotated bool
	pool    *sync.Pool
}

func (c *Composite) initPool() {
	c.pool = &sync.Pool{
		New: func() interface{} {
			return NewWorkspace(c)
		},
	}
}

// acquire returns a pooled workspace bound to c.
func (c *Composite) acquire() *Workspace {
	return c.pool.Get().(*Workspace)
}

func (c *Composite) release(ws *Workspace) {
	c.pool.Put(ws)
}

// New validates and copies the placements. Shapes are checked here once so
// that evaluation never has to.
func New(nDim int, parts ...Placement) (*Composite, error) {
	if nDim < 1 {
		return nil, ErrDimension
	}
	c := &Composite{
		nDim:  nDim,
		parts: make([]placed, 0, len(parts)),
	}
	if err := c.add(parts); err != nil {
		return nil, err
	}
	c.initPool()
	return c, nil
}

// With returns a new composite holding the receiver's components followed
// by parts. The receiver is not modified.
func (c *Composite) With(parts ...Placement) (*Composite, error) {
	next := &Composite{
		nDim:    c.nDim,
		parts:   make([]placed, len(c.parts), len(c.parts)+len(parts)),
		rotated: c.rotated,
	}
	copy(next.parts, c.parts)
	if err := next.add(parts); err != nil {
		return nil, err
	}
	next.initPool()
	return next, nil
}

func (c *Composite) add(parts []Placement) error {
	n := c.nDim
	for _, p := range parts {
		idx := len(c.parts)
		if p.Component == nil {
			return &ComponentError{Index: idx, Name: p.Name, Wrapped: ErrNilComponent}
		}
		if dc, ok := p.Component.(DimChecker); ok {
			if err := dc.CheckDim(n); err != nil {
				return &ComponentError{Index: idx, Name: p.Name, Wrapped: err}
			}
		}

		origin := make([]float64, n)
		if p.Origin != nil {
			if len(p.Origin) != n {
				return &ComponentError{Index: idx, Name: p.Name, Wrapped: ErrOriginLength}
			}
			copy(origin, p.Origin)
		}

		var rot []float64
		switch {
		case p.Rotation == nil:
			rot = frame.Identity(n)
		case len(p.Rotation) != n*n:
			return &ComponentError{Index: idx, Name: p.Name, Wrapped: ErrRotationShape}
		default:
			rot = make([]float64, n*n)
			copy(rot, p.Rotation)
		}

		if (n == 2 || n == 3) && !frame.IsIdentity(rot, n) {
			c.rotated = true
		}

		c.parts = append(c.parts, placed{
			name:   p.Name,
			comp:   p.Component,
			origin: origin,
			rot:    rot,
		})
	}
	return nil
}

// NDim returns the dimensionality of the coordinate space.
func (c *Composite) NDim() int { return c.nDim }

// Len returns the number of components.
func (c *Composite) Len() int { return len(c.parts) }

// Name returns the label of component i.
func (c *Composite) Name(i int) string { return c.parts[i].name }

// Component returns component i.
func (c *Composite) Component(i int) Component { return c.parts[i].comp }

// Origin returns a copy of the origin of component i.
func (c *Composite) Origin(i int) []float64 {
	o := make([]float64, c.nDim)
	copy(o, c.parts[i].origin)
	return o
}

// Rotation returns a copy of the rotation matrix of component i.
func (c *Composite) Rotation(i int) []float64 {
	r := make([]float64, len(c.parts[i].rot))
	copy(r, c.parts[i].rot)
	return r
}

// Rotated reports whether any component has a non-identity rotation in a
// dimension where rotation applies. Hessians of such composites lack the
// rotation back-correction.
func (c *Composite) Rotated() bool { return c.rotated }

// Value returns the total potential at q.
func (c *Composite) Value(t float64, q []float64) float64 {
	ws := c.acquire()
	defer c.release(ws)
	return ws.Value(t, q)
}

// Density returns the total density at q.
func (c *Composite) Density(t float64, q []float64) float64 {
	ws := c.acquire()
	defer c.release(ws)
	return ws.Density(t, q)
}

// Gradient overwrites grad with the total gradient at q.
func (c *Composite) Gradient(t float64, q, grad []float64) {
	ws := c.acquire()
	defer c.release(ws)
	ws.Gradient(t, q, grad)
}

// Acceleration overwrites acc with −∇Φ at q.
func (c *Composite) Acceleration(t float64, q, acc []float64) {
	ws := c.acquire()
	defer c.release(ws)
	ws.Acceleration(t, q, acc)
}

// Hessian overwrites hess (row-major, NDim²) with the summed local-frame
// Hessians at q. See the package documentation for the rotation caveat.
func (c *Composite) Hessian(t float64, q, hess []float64) {
	ws := c.acquire()
	defer c.release(ws)
	ws.Hessian(t, q, hess)
}

// DPhiDr estimates dΦ/dr at q by central difference with step StepFirst.
func (c *Composite) DPhiDr(t float64, q []float64) float64 {
	ws := c.acquire()
	defer c.release(ws)
	return ws.DPhiDr(t, q)
}

// D2PhiDr2 estimates d²Φ/dr² at q by central difference with step StepSecond.
func (c *Composite) D2PhiDr2(t float64, q []float64) float64 {
	ws := c.acquire()
	defer c.release(ws)
	return ws.D2PhiDr2(t, q)
}

// MassEnclosed returns |r²·dΦ/dr / G| at q.
func (c *Composite) MassEnclosed(t float64, q []float64, G float64) float64 {
	ws := c.acquire()
	defer c.release(ws)
	return ws.MassEnclosed(t, q, G)
}
