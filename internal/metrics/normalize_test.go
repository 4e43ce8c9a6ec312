package metrics

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_NoSignals(t *testing.T) {
	m := Normalize(Signals{}, DefaultConfig())
	assert.Zero(t, m.Sanctions)
	assert.Zero(t, m.PEP)
	assert.Zero(t, m.AdverseMedia)
	assert.Zero(t, m.OverallRisk)
	assert.Zero(t, m.Matches)
	assert.Zero(t, m.Alerts)
}

func TestNormalize_ScoresBounded(t *testing.T) {
	cfg := DefaultConfig()
	for _, hits := range []int{0, 1, 3, 10, 100, 100000} {
		m := Normalize(Signals{SanctionHits: hits, PEPHits: hits, AdverseHits: hits}, cfg)
		for name, score := range map[string]float64{
			"sanctions":     m.Sanctions,
			"pep":           m.PEP,
			"adverse_media": m.AdverseMedia,
			"overall_risk":  m.OverallRisk,
		} {
			assert.GreaterOrEqual(t, score, 0.0, "%s hits=%d", name, hits)
			assert.LessOrEqual(t, score, 1.0, "%s hits=%d", name, hits)
		}
	}
}

func TestNormalize_SaturatingMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	one := Normalize(Signals{SanctionHits: 1}, cfg)
	three := Normalize(Signals{SanctionHits: 3}, cfg)

	assert.Greater(t, one.Sanctions, 0.0)
	assert.Less(t, one.Sanctions, 1.0)
	assert.Greater(t, three.Sanctions, one.Sanctions)
	assert.Less(t, three.Sanctions, 1.0)

	// Diminishing returns: the second and third hits add less than the first.
	assert.Less(t, three.Sanctions-one.Sanctions, 2*one.Sanctions)
}

func TestNormalize_OverallIsExactConvexCombination(t *testing.T) {
	cfg := DefaultConfig()
	m := Normalize(Signals{SanctionHits: 2, PEPHits: 5, AdverseHits: 1}, cfg)
	want := 0.40*m.Sanctions + 0.35*m.PEP + 0.25*m.AdverseMedia
	assert.InDelta(t, want, m.OverallRisk, 1e-12)
}

func TestNormalize_PEPFlagBaseline(t *testing.T) {
	cfg := DefaultConfig()
	m := Normalize(Signals{PEPFlag: true}, cfg)
	assert.Equal(t, 0.70, m.PEP)

	// Corroborated hits can exceed the baseline; the flag never lowers them.
	many := Normalize(Signals{PEPFlag: true, PEPHits: 10}, cfg)
	assert.Greater(t, many.PEP, 0.70)
}

func TestNormalize_SeverityModulatesSanctions(t *testing.T) {
	cfg := DefaultConfig()
	countOnly := Normalize(Signals{SanctionHits: 3}, cfg)
	severe := Normalize(Signals{SanctionHits: 3, SanctionSeverities: []float64{1, 1, 1}}, cfg)
	mild := Normalize(Signals{SanctionHits: 3, SanctionSeverities: []float64{0.1, 0.1, 0.1}}, cfg)

	assert.Equal(t, countOnly.Sanctions, severe.Sanctions)
	assert.Less(t, mild.Sanctions, countOnly.Sanctions)
	assert.Greater(t, mild.Sanctions, 0.0)
}

func TestNormalize_MalformedSeveritiesIgnored(t *testing.T) {
	cfg := DefaultConfig()
	countOnly := Normalize(Signals{SanctionHits: 2}, cfg)
	garbage := Normalize(Signals{
		SanctionHits:       2,
		SanctionSeverities: []float64{math.NaN(), math.Inf(1), -3, 42},
	}, cfg)
	assert.Equal(t, countOnly.Sanctions, garbage.Sanctions)
}

func TestNormalize_MatchesAndAlerts(t *testing.T) {
	m := Normalize(Signals{SanctionHits: 1, PEPHits: 2, AdverseHits: 3, Alerts: 4}, DefaultConfig())
	assert.Equal(t, 6, m.Matches)
	assert.Equal(t, 4, m.Alerts)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-1))
	assert.Equal(t, 1.0, Clamp01(2))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
	assert.Equal(t, 1.0, Clamp01(math.Inf(1)))
	assert.Equal(t, 0.5, Clamp01(0.5))
}

func TestLoadConfig_RenormalizesWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scoring:
  weights:
    sanctions: 2.0
    pep: 1.0
    adverse_media: 1.0
  saturation_rate: 0.5
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cfg.Weights.Sanctions, 1e-9)
	assert.InDelta(t, 0.25, cfg.Weights.PEP, 1e-9)
	assert.InDelta(t, 0.25, cfg.Weights.AdverseMedia, 1e-9)
	assert.Equal(t, 0.5, cfg.SaturationRate)
	assert.Equal(t, 0.70, cfg.PEPBaseline)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/scoring.yaml")
	assert.Error(t, err)
}

func TestDefaultConfig_WeightsSumToOne(t *testing.T) {
	w := DefaultConfig().Weights
	assert.InDelta(t, 1.0, w.Sanctions+w.PEP+w.AdverseMedia, 1e-12)
	assert.Less(t, w.Sanctions, 1.0)
	assert.Less(t, w.PEP, 1.0)
	assert.Less(t, w.AdverseMedia, 1.0)
}
