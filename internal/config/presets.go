package config

import (
	"sort"

	"github.com/dronelab/tellosim/internal/sim"
)

// Presets bundle a drift setting with a name so classroom sessions can
// switch between flying conditions without a config file.
var presets = map[string]*Config{
	"exact": {
		DataDir:    DefaultDataDir,
		TakeoffAlt: DefaultTakeoffAlt,
		Drift:      sim.DriftConfig{Mode: sim.DriftNone},
		Bounds:     sim.DefaultBounds(),
	},
	"indoor": {
		DataDir:    DefaultDataDir,
		TakeoffAlt: DefaultTakeoffAlt,
		Drift:      sim.DriftConfig{Mode: sim.DriftUniform, Margin: 0.05},
		Bounds:     sim.DefaultBounds(),
	},
	"outdoor": {
		DataDir:    DefaultDataDir,
		TakeoffAlt: DefaultTakeoffAlt,
		Drift:      sim.DriftConfig{Mode: sim.DriftUniform, Margin: 0.15},
		Bounds:     sim.DefaultBounds(),
	},
	"worst-case": {
		DataDir:    DefaultDataDir,
		TakeoffAlt: DefaultTakeoffAlt,
		Drift:      sim.DriftConfig{Mode: sim.DriftFixed, Margin: 0.15},
		Bounds:     sim.DefaultBounds(),
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
