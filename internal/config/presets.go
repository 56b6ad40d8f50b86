package config

import "sort"

// Presets are named starting points; "reference" matches the classic
// hard-wired 20000-particle, 10-step teaching run.
var Presets = map[string]*Config{
	"smoke": {
		Particles: 64, Steps: 10, Seed: 1,
	},
	"cluster": {
		Particles: 2048, Steps: 100, Seed: 7,
	},
	"reference": {
		Particles: 20000, Steps: 10, Seed: 42,
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := Default()
	cfg.Particles = p.Particles
	cfg.Steps = p.Steps
	cfg.Seed = p.Seed
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
