package config

import "sort"

var Presets = map[string]*Config{
	"kepler": {
		Name: "kepler", NDim: 3, G: 1,
		Components: []ComponentConfig{
			{Name: "point", Kind: "kepler", Params: map[string]float64{"m": 1}},
		},
		Profile: ProfileConfig{RMin: 0.1, RMax: 10, N: 50},
	},
	"plummer": {
		Name: "plummer", NDim: 3, G: 1,
		Components: []ComponentConfig{
			{Name: "cluster", Kind: "plummer", Params: map[string]float64{"m": 1, "b": 1}},
		},
		Profile: ProfileConfig{RMin: 0.01, RMax: 20, N: 64},
	},
	"hernquist": {
		Name: "hernquist", NDim: 3, G: 1,
		Components: []ComponentConfig{
			{Name: "spheroid", Kind: "hernquist", Params: map[string]float64{"m": 1, "c": 1}},
		},
		Profile: ProfileConfig{RMin: 0.01, RMax: 50, N: 64},
	},
	// Bulge, nucleus, disk and halo in kpc, M☉ and Myr.
	"milkyway": {
		Name: "milkyway", NDim: 3, G: GKpcMsunMyr,
		Components: []ComponentConfig{
			{Name: "nucleus", Kind: "hernquist", Params: map[string]float64{"m": 1.71e9, "c": 0.07}},
			{Name: "bulge", Kind: "hernquist", Params: map[string]float64{"m": 5e9, "c": 1.0}},
			{Name: "disk", Kind: "miyamoto_nagai", Params: map[string]float64{"m": 6.8e10, "a": 3.0, "b": 0.28}},
			{Name: "halo", Kind: "nfw", Params: map[string]float64{"m": 5.4e11, "rs": 15.62}},
		},
		Profile: ProfileConfig{RMin: 0.1, RMax: 200, N: 80, Direction: []float64{1, 0, 0}},
	},
	// A tilted anisotropic oscillator; its Hessian lacks the rotation correction.
	"bar": {
		Name: "bar", NDim: 3, G: 1,
		Components: []ComponentConfig{
			{Name: "bar", Kind: "harmonic", Params: map[string]float64{"omega0": 1, "omega1": 2, "omega2": 3}, Angles: []float64{0.5, 0.3, 0}},
			{Name: "core", Kind: "plummer", Params: map[string]float64{"m": 1, "b": 0.5}},
		},
		Profile: ProfileConfig{RMin: 0.05, RMax: 5, N: 40},
	},
	"plane": {
		Name: "plane", NDim: 2, G: 1,
		Components: []ComponentConfig{
			{Name: "left", Kind: "plummer", Params: map[string]float64{"m": 1, "b": 0.3}, Origin: []float64{-1, 0}},
			{Name: "right", Kind: "plummer", Params: map[string]float64{"m": 1, "b": 0.3}, Origin: []float64{1, 0}},
			{Name: "trap", Kind: "harmonic", Params: map[string]float64{"omega0": 0.2, "omega1": 0.4}, Angles: []float64{0.25}},
		},
		Profile: ProfileConfig{RMin: 0.05, RMax: 10, N: 40, Direction: []float64{0, 1}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
