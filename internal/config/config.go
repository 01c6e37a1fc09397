package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNDim    = 3
	DefaultG       = 1.0
	DefaultRMin    = 0.01
	DefaultRMax    = 100.0
	DefaultSamples = 64
)

// GKpcMsunMyr is G in kpc³ / (M☉ Myr²).
const GKpcMsunMyr = 4.498502151469554e-12

var (
	ErrNoComponents = errors.New("config: no components")
	ErrBadDimension = errors.New("config: ndim must be positive")
	ErrBadG         = errors.New("config: g must be positive")
	ErrBadProfile   = errors.New("config: profile needs 0 < rmin < rmax and n >= 2")
	ErrBadName      = errors.New("config: name must not contain path separators or ..")
)

type Config struct {
	Name       string            `yaml:"name"`
	NDim       int               `yaml:"ndim"`
	G          float64           `yaml:"g"`
	Time       float64           `yaml:"time"`
	Components []ComponentConfig `yaml:"components"`
	Profile    ProfileConfig     `yaml:"profile"`
}

// ComponentConfig places one component. Rotation is a row-major matrix;
// Angles is the shorthand [angle] in 2-D or z-x-z Euler [alpha, beta, gamma]
// in 3-D. Rotation wins when both are set.
type ComponentConfig struct {
	Name     string             `yaml:"name"`
	Kind     string             `yaml:"kind"`
	Params   map[string]float64 `yaml:"params"`
	Origin   []float64          `yaml:"origin,omitempty"`
	Rotation []float64          `yaml:"rotation,omitempty"`
	Angles   []float64          `yaml:"angles,omitempty"`
}

type ProfileConfig struct {
	RMin      float64   `yaml:"rmin"`
	RMax      float64   `yaml:"rmax"`
	N         int       `yaml:"n"`
	Direction []float64 `yaml:"direction,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "kepler",
		NDim: DefaultNDim,
		G:    DefaultG,
		Components: []ComponentConfig{
			{Name: "point", Kind: "kepler", Params: map[string]float64{"m": 1}},
		},
		Profile: DefaultProfile(),
	}
}

func DefaultProfile() ProfileConfig {
	return ProfileConfig{
		RMin: DefaultRMin,
		RMax: DefaultRMax,
		N:    DefaultSamples,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Components = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields the registry cannot check on its own.
// Component kinds and parameters are validated when the composite is built.
func (c *Config) Validate() error {
	if err := CheckName(c.Name); err != nil {
		return err
	}
	if c.NDim < 1 {
		return ErrBadDimension
	}
	if c.G <= 0 {
		return ErrBadG
	}
	if len(c.Components) == 0 {
		return ErrNoComponents
	}
	p := c.Profile
	if p.RMin <= 0 || p.RMax <= p.RMin || p.N < 2 {
		return ErrBadProfile
	}
	if p.Direction != nil && len(p.Direction) != c.NDim {
		return fmt.Errorf("config: profile direction has %d entries, want %d", len(p.Direction), c.NDim)
	}
	for i, comp := range c.Components {
		if comp.Kind == "" {
			return fmt.Errorf("config: component %d has no kind", i)
		}
	}
	return nil
}

// CheckName rejects names that cannot be used as a single path element.
// Run directories are named after the config.
func CheckName(name string) error {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// Clone returns a deep copy so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Components = make([]ComponentConfig, len(c.Components))
	for i, comp := range c.Components {
		cc := comp
		cc.Params = make(map[string]float64, len(comp.Params))
		for k, v := range comp.Params {
			cc.Params[k] = v
		}
		cc.Origin = cloneFloats(comp.Origin)
		cc.Rotation = cloneFloats(comp.Rotation)
		cc.Angles = cloneFloats(comp.Angles)
		out.Components[i] = cc
	}
	out.Profile.Direction = cloneFloats(c.Profile.Direction)
	return &out
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
