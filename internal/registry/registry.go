package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/gravpot/internal/config"
	"github.com/san-kum/gravpot/internal/frame"
	"github.com/san-kum/gravpot/internal/models"
	"github.com/san-kum/gravpot/internal/potential"
)

var (
	ErrMissingParam = errors.New("registry: missing parameter")
	ErrParamRange   = errors.New("registry: parameter out of range")
	ErrDimension    = errors.New("registry: kind does not support this dimension")
)

// Factory builds a component for an nDim space with gravitational constant g.
type Factory func(nDim int, g float64, params map[string]float64) (potential.Component, error)

type Registry struct {
	kinds map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Factory)}

	r.kinds["kepler"] = func(nDim int, g float64, params map[string]float64) (potential.Component, error) {
		m, err := need(params, "m")
		if err != nil {
			return nil, err
		}
		return models.NewKepler(g, m), nil
	}
	r.kinds["plummer"] = func(nDim int, g float64, params map[string]float64) (potential.Component, error) {
		m, b, err := massAndScale(params, "b")
		if err != nil {
			return nil, err
		}
		return models.NewPlummer(g, m, b), nil
	}
	r.kinds["hernquist"] = func(nDim int, g float64, params map[string]float64) (potential.Component, error) {
		m, c, err := massAndScale(params, "c")
		if err != nil {
			return nil, err
		}
		return models.NewHernquist(g, m, c), nil
	}
	r.kinds["isochrone"] = func(nDim int, g float64, params map[string]float64) (potential.Component, error) {
		m, b, err := massAndScale(params, "b")
		if err != nil {
			return nil, err
		}
		return models.NewIsochrone(g, m, b), nil
	}
	r.kinds["nfw"] = func(nDim int, g float64, params map[string]float64) (potential.Component, error) {
		m, rs, err := massAndScale(params, "rs")
		if err != nil {
			return nil, err
		}
		return models.NewNFW(g, m, rs), nil
	}
	r.kinds["miyamoto_nagai"] = func(nDim int, g float64, params map[string]float64) (potential.Component, error) {
		if nDim != 3 {
			return nil, fmt.Errorf("%w: miyamoto_nagai needs ndim 3, got %d", ErrDimension, nDim)
		}
		m, b, err := massAndScale(params, "b")
		if err != nil {
			return nil, err
		}
		a, err := need(params, "a")
		if err != nil {
			return nil, err
		}
		if a < 0 {
			return nil, fmt.Errorf("%w: a = %g", ErrParamRange, a)
		}
		return models.NewMiyamotoNagai(g, m, a, b), nil
	}
	r.kinds["harmonic"] = func(nDim int, g float64, params map[string]float64) (potential.Component, error) {
		if w, ok := params["omega"]; ok {
			return models.NewHarmonic(g, w), nil
		}
		omega := make([]float64, nDim)
		for i := range omega {
			w, err := need(params, fmt.Sprintf("omega%d", i))
			if err != nil {
				return nil, err
			}
			omega[i] = w
		}
		return models.NewHarmonic(g, omega...), nil
	}

	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(kind string, f Factory) {
	r.kinds[kind] = f
}

func (r *Registry) Build(kind string, nDim int, g float64, params map[string]float64) (potential.Component, error) {
	fn, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind: %s", kind)
	}
	return fn(nDim, g, params)
}

func (r *Registry) ListKinds() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Composite builds the composite potential a config describes.
func (r *Registry) Composite(cfg *config.Config) (*potential.Composite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	parts := make([]potential.Placement, 0, len(cfg.Components))
	for i, cc := range cfg.Components {
		comp, err := r.Build(cc.Kind, cfg.NDim, cfg.G, cc.Params)
		if err != nil {
			return nil, fmt.Errorf("component %d (%s): %w", i, cc.Name, err)
		}
		rot, err := rotation(cc, cfg.NDim)
		if err != nil {
			return nil, fmt.Errorf("component %d (%s): %w", i, cc.Name, err)
		}
		parts = append(parts, potential.Placement{
			Name:      cc.Name,
			Component: comp,
			Origin:    cc.Origin,
			Rotation:  rot,
		})
	}

	return potential.New(cfg.NDim, parts...)
}

func rotation(cc config.ComponentConfig, nDim int) ([]float64, error) {
	if cc.Rotation != nil || cc.Angles == nil {
		return cc.Rotation, nil
	}
	switch {
	case nDim == 2 && len(cc.Angles) == 1:
		return frame.Rotation2D(cc.Angles[0]), nil
	case nDim == 3 && len(cc.Angles) == 3:
		return frame.Euler(cc.Angles[0], cc.Angles[1], cc.Angles[2]), nil
	}
	return nil, fmt.Errorf("%w: %d angles for ndim %d", ErrDimension, len(cc.Angles), nDim)
}

func need(params map[string]float64, name string) (float64, error) {
	v, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	return v, nil
}

func massAndScale(params map[string]float64, scale string) (float64, float64, error) {
	m, err := need(params, "m")
	if err != nil {
		return 0, 0, err
	}
	s, err := need(params, scale)
	if err != nil {
		return 0, 0, err
	}
	if s <= 0 {
		return 0, 0, fmt.Errorf("%w: %s = %g", ErrParamRange, scale, s)
	}
	return m, s, nil
}
