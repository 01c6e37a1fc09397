package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravpot/internal/potential"
)

// Profile column names.
const (
	ColRadius   = "r"
	ColPhi      = "phi"
	ColDensity  = "rho"
	ColDPhiDr   = "dphi_dr"
	ColD2PhiDr2 = "d2phi_dr2"
	ColMass     = "mass"
	ColVCirc    = "vcirc"
)

var columnOrder = []string{ColRadius, ColPhi, ColDensity, ColDPhiDr, ColD2PhiDr2, ColMass, ColVCirc}

var (
	ErrBadSpec  = errors.New("analysis: invalid profile spec")
	ErrNoRadius = errors.New("analysis: profile has no " + ColRadius + " column")
)

// ProfileSpec selects the radii and direction of a radial profile. A nil
// Direction means the first coordinate axis.
type ProfileSpec struct {
	RMin      float64
	RMax      float64
	N         int
	Direction []float64
	Time      float64
	G         float64
}

// Profile is a table of derived quantities sampled at log-spaced radii.
type Profile struct {
	Direction []float64
	columns   map[string][]float64
}

// NewProfile wraps existing columns, e.g. ones read back from storage.
// The radius column is required and every column must have the same length.
func NewProfile(direction []float64, columns map[string][]float64) (*Profile, error) {
	if _, ok := columns[ColRadius]; !ok {
		return nil, ErrNoRadius
	}
	n := -1
	for name, col := range columns {
		if n >= 0 && len(col) != n {
			return nil, fmt.Errorf("analysis: column %s has %d rows, want %d", name, len(col), n)
		}
		n = len(col)
	}
	return &Profile{Direction: direction, columns: columns}, nil
}

func newProfile(direction []float64, n int) *Profile {
	p := &Profile{
		Direction: direction,
		columns:   make(map[string][]float64, len(columnOrder)),
	}
	for _, name := range columnOrder {
		p.columns[name] = make([]float64, n)
	}
	return p
}

// Columns returns the column names present, in canonical order.
func (p *Profile) Columns() []string {
	names := make([]string, 0, len(p.columns))
	for _, name := range columnOrder {
		if _, ok := p.columns[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (p *Profile) Column(name string) ([]float64, error) {
	col, ok := p.columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown column: %s", name)
	}
	return col, nil
}

func (p *Profile) Len() int {
	return len(p.columns[ColRadius])
}

// Row returns sample i in Columns order.
func (p *Profile) Row(i int) []float64 {
	names := p.Columns()
	row := make([]float64, len(names))
	for j, name := range names {
		row[j] = p.columns[name][i]
	}
	return row
}

// RadialProfile samples c along spec.Direction. Radii are split into chunks
// evaluated concurrently, each with its own workspace.
func RadialProfile(ctx context.Context, c *potential.Composite, spec ProfileSpec) (*Profile, error) {
	dir, err := spec.unitDirection(c.NDim())
	if err != nil {
		return nil, err
	}
	if spec.N < 2 || spec.RMin <= 0 || spec.RMax <= spec.RMin {
		return nil, fmt.Errorf("%w: need 0 < rmin < rmax and n >= 2", ErrBadSpec)
	}
	if spec.G <= 0 {
		return nil, fmt.Errorf("%w: g must be positive", ErrBadSpec)
	}

	prof := newProfile(dir, spec.N)
	radii := prof.columns[ColRadius]
	floats.LogSpan(radii, spec.RMin, spec.RMax)

	phi := prof.columns[ColPhi]
	rho := prof.columns[ColDensity]
	d1 := prof.columns[ColDPhiDr]
	d2 := prof.columns[ColD2PhiDr2]
	mass := prof.columns[ColMass]
	vc := prof.columns[ColVCirc]

	ParallelFor(spec.N, 8, func(start, end int) {
		ws := potential.NewWorkspace(c)
		q := make([]float64, c.NDim())
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			r := radii[i]
			for j := range q {
				q[j] = r * dir[j]
			}
			phi[i] = ws.Value(spec.Time, q)
			rho[i] = ws.Density(spec.Time, q)
			d1[i] = ws.DPhiDr(spec.Time, q)
			d2[i] = ws.D2PhiDr2(spec.Time, q)
			mass[i] = ws.MassEnclosed(spec.Time, q, spec.G)
			vc[i] = math.Sqrt(math.Abs(r * d1[i]))
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s ProfileSpec) unitDirection(nDim int) ([]float64, error) {
	dir := make([]float64, nDim)
	if s.Direction == nil {
		dir[0] = 1
		return dir, nil
	}
	if len(s.Direction) != nDim {
		return nil, fmt.Errorf("%w: direction has %d entries, want %d", ErrBadSpec, len(s.Direction), nDim)
	}
	norm := floats.Norm(s.Direction, 2)
	if norm == 0 {
		return nil, fmt.Errorf("%w: zero direction", ErrBadSpec)
	}
	floats.ScaleTo(dir, 1/norm, s.Direction)
	return dir, nil
}

// CircularVelocity returns sqrt(|r·dΦ/dr|) at q.
func CircularVelocity(c *potential.Composite, t float64, q []float64) float64 {
	r := floats.Norm(q, 2)
	return math.Sqrt(math.Abs(r * c.DPhiDr(t, q)))
}
