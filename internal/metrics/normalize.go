// Package metrics converts raw screening findings into bounded risk scores.
package metrics

import (
	"math"

	"github.com/sells-group/diligence-cli/internal/model"
)

// Signals are the partial inputs gathered from the collaborators. Zero values
// mean "no signal", which contributes 0 to every score; absence of data
// never raises risk.
type Signals struct {
	SanctionHits int
	// SanctionSeverities holds optional per-hit severities in [0,1].
	// Malformed upstream values must be dropped before they reach here;
	// an empty slice means count-only scoring.
	SanctionSeverities []float64

	PEPHits int
	// PEPFlag is set when a source reports a categorical PEP confirmation
	// instead of a hit count.
	PEPFlag bool

	AdverseHits int
	Alerts      int
}

// Normalize produces the four-field metrics object from whatever signals are
// present. It never fails: with no signal at all every score is 0.
func Normalize(sig Signals, cfg Config) model.Metrics {
	m := model.Metrics{
		Sanctions:    sanctionsScore(sig, cfg),
		PEP:          pepScore(sig, cfg),
		AdverseMedia: saturate(sig.AdverseHits, cfg.SaturationRate),
		Matches:      maxInt(sig.SanctionHits, 0) + maxInt(sig.PEPHits, 0) + maxInt(sig.AdverseHits, 0),
		Alerts:       maxInt(sig.Alerts, 0),
	}
	m.OverallRisk = Clamp01(cfg.Weights.Sanctions*m.Sanctions +
		cfg.Weights.PEP*m.PEP +
		cfg.Weights.AdverseMedia*m.AdverseMedia)
	return m
}

func sanctionsScore(sig Signals, cfg Config) float64 {
	if sig.SanctionHits <= 0 {
		return 0
	}
	score := saturate(sig.SanctionHits, cfg.SaturationRate)
	if sev, ok := meanSeverity(sig.SanctionSeverities); ok {
		// Severity modulates the count-derived score without ever zeroing a
		// confirmed hit.
		score = Clamp01(score * (0.5 + 0.5*sev))
	}
	return score
}

func pepScore(sig Signals, cfg Config) float64 {
	score := saturate(sig.PEPHits, cfg.SaturationRate)
	if sig.PEPFlag && score < cfg.PEPBaseline {
		score = cfg.PEPBaseline
	}
	return Clamp01(score)
}

// saturate maps a hit count to [0,1) with diminishing returns: a single
// match never maxes the score, repeated matches approach 1.
func saturate(hits int, rate float64) float64 {
	if hits <= 0 {
		return 0
	}
	return Clamp01(1 - math.Exp(-rate*float64(hits)))
}

// meanSeverity averages well-formed severities, ignoring NaN/Inf and
// out-of-range values. Returns ok=false when nothing usable remains.
func meanSeverity(severities []float64) (float64, bool) {
	var sum float64
	var n int
	for _, s := range severities {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s > 1 {
			continue
		}
		sum += s
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Clamp01 bounds a score to [0,1]. Non-finite inputs clamp to 0 so upstream
// garbage never propagates.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
