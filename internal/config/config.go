package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dronelab/tellosim/internal/sim"
)

const (
	DefaultDataDir    = ".tellosim"
	DefaultTakeoffAlt = sim.DefaultTakeoffAlt
	DefaultMargin     = 0.05
)

type Config struct {
	DataDir    string          `yaml:"data_dir"`
	TakeoffAlt float64         `yaml:"takeoff_alt"`
	Seed       int64           `yaml:"seed"`
	Drift      sim.DriftConfig `yaml:"drift"`
	Bounds     sim.Bounds      `yaml:"bounds"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		TakeoffAlt: DefaultTakeoffAlt,
		Drift:      sim.DriftConfig{Mode: sim.DriftUniform, Margin: DefaultMargin},
		Bounds:     sim.DefaultBounds(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

func (c *Config) Validate() error {
	switch c.Drift.Mode {
	case sim.DriftNone, sim.DriftUniform, sim.DriftFixed, "":
	default:
		return fmt.Errorf("unknown drift mode: %s", c.Drift.Mode)
	}
	if c.Drift.Margin < 0 || c.Drift.Margin > 1 {
		return fmt.Errorf("drift margin must be in [0,1], got %f", c.Drift.Margin)
	}
	if c.Bounds.MinDist <= 0 || c.Bounds.MaxDist < c.Bounds.MinDist {
		return fmt.Errorf("invalid distance bounds %d-%d", c.Bounds.MinDist, c.Bounds.MaxDist)
	}
	if c.Bounds.MinDeg <= 0 || c.Bounds.MaxDeg < c.Bounds.MinDeg {
		return fmt.Errorf("invalid rotation bounds %d-%d", c.Bounds.MinDeg, c.Bounds.MaxDeg)
	}
	return nil
}

// SimOptions converts the file config into simulator options.
func (c *Config) SimOptions() sim.Options {
	opts := sim.Options{
		TakeoffAlt: c.TakeoffAlt,
		Bounds:     c.Bounds,
		Drift:      c.Drift,
		Seed:       c.Seed,
	}
	if opts.TakeoffAlt <= 0 {
		opts.TakeoffAlt = DefaultTakeoffAlt
	}
	if opts.Drift.Mode == "" {
		opts.Drift.Mode = sim.DriftNone
	}
	return opts
}
