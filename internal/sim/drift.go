package sim

import "math/rand"

// DriftMode selects how movement error is applied.
type DriftMode string

const (
	// DriftNone applies movements exactly.
	DriftNone DriftMode = "none"
	// DriftUniform adds uniform random noise to each axis, bounded by
	// Margin times the commanded distance.
	DriftUniform DriftMode = "uniform"
	// DriftFixed scales every movement by exactly 1+Margin, for
	// reproducible worst-case paths.
	DriftFixed DriftMode = "fixed"
)

// DriftConfig is the user-facing drift setting.
type DriftConfig struct {
	Mode   DriftMode `yaml:"mode" json:"mode"`
	Margin float64   `yaml:"margin" json:"margin"`
}

type drift struct {
	mode   DriftMode
	margin float64
	rng    *rand.Rand
}

func newDrift(cfg DriftConfig, seed int64) *drift {
	return &drift{
		mode:   cfg.Mode,
		margin: cfg.Margin,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// perturb applies the configured error margin to a movement vector.
// dist is the commanded distance; the noise bound scales with it.
func (d *drift) perturb(dx, dy, dz, dist float64) (float64, float64, float64) {
	switch d.mode {
	case DriftUniform:
		bound := d.margin * dist
		return dx + d.noise(bound), dy + d.noise(bound), dz + d.noise(bound)
	case DriftFixed:
		s := 1 + d.margin
		return dx * s, dy * s, dz * s
	default:
		return dx, dy, dz
	}
}

func (d *drift) noise(bound float64) float64 {
	return (2*d.rng.Float64() - 1) * bound
}
