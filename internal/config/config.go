package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravlab/internal/gravity"
)

const (
	DefaultParticles = 1000
	DefaultSteps     = 10
	DefaultSeed      = 42
	DefaultDataDir   = ".gravlab"
)

// Config describes one simulation run. Workers zero means one worker per
// CPU.
type Config struct {
	Particles int     `yaml:"particles"`
	Steps     int     `yaml:"steps"`
	Seed      int64   `yaml:"seed"`
	Workers   int     `yaml:"workers"`
	G         float64 `yaml:"g"`
	Softening float64 `yaml:"softening"`
	DataDir   string  `yaml:"data_dir"`
}

func Default() *Config {
	return &Config{
		Particles: DefaultParticles,
		Steps:     DefaultSteps,
		Seed:      DefaultSeed,
		G:         gravity.DefaultG,
		Softening: gravity.DefaultSoftening,
		DataDir:   DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// Validate reports configuration problems a run cannot start with.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", c.Particles)
	}
	if c.Steps < 0 {
		return fmt.Errorf("config: steps must not be negative, got %d", c.Steps)
	}
	if c.Softening < 0 {
		return fmt.Errorf("config: softening must not be negative, got %g", c.Softening)
	}
	return nil
}
