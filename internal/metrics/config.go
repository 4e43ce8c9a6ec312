package metrics

import (
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights configures the score combination. Each component weight must be
// below 1 so no single signal can dominate the overall score on its own;
// weights that do not sum to 1 are renormalized at load time.
type Weights struct {
	Sanctions    float64 `yaml:"sanctions"`
	PEP          float64 `yaml:"pep"`
	AdverseMedia float64 `yaml:"adverse_media"`
}

// Config holds the full scoring configuration.
type Config struct {
	Weights Weights `yaml:"weights"`

	// SaturationRate is the exponent k in the hit-count curve 1-exp(-k*n).
	// Higher values reach the ceiling faster.
	SaturationRate float64 `yaml:"saturation_rate"`

	// PEPBaseline is the fixed score assigned when a source reports a
	// categorical PEP flag without a hit count. Kept below 1 to reserve the
	// top of the range for corroborated matches.
	PEPBaseline float64 `yaml:"pep_baseline"`
}

// DefaultConfig returns the documented scoring defaults: sanctions findings
// dominate but never fully override the other components.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Sanctions:    0.40,
			PEP:          0.35,
			AdverseMedia: 0.25,
		},
		SaturationRate: 0.35,
		PEPBaseline:    0.70,
	}
}

// LoadConfig reads scoring configuration from a YAML file. Missing values
// fall back to defaults; out-of-range weights are renormalized.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "metrics: read config %s", path)
	}

	var wrapper struct {
		Scoring Config `yaml:"scoring"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Config{}, eris.Wrap(err, "metrics: parse config")
	}

	return wrapper.Scoring.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SaturationRate <= 0 {
		c.SaturationRate = def.SaturationRate
	}
	if c.PEPBaseline <= 0 || c.PEPBaseline >= 1 {
		c.PEPBaseline = def.PEPBaseline
	}
	w := c.Weights
	if w.Sanctions <= 0 && w.PEP <= 0 && w.AdverseMedia <= 0 {
		c.Weights = def.Weights
		return c
	}
	// Clamp negatives, then renormalize so the weights form a convex
	// combination.
	w.Sanctions = math.Max(w.Sanctions, 0)
	w.PEP = math.Max(w.PEP, 0)
	w.AdverseMedia = math.Max(w.AdverseMedia, 0)
	sum := w.Sanctions + w.PEP + w.AdverseMedia
	if sum == 0 {
		c.Weights = def.Weights
		return c
	}
	c.Weights = Weights{
		Sanctions:    w.Sanctions / sum,
		PEP:          w.PEP / sum,
		AdverseMedia: w.AdverseMedia / sum,
	}
	return c
}
