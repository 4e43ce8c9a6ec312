// Package monitoring gathers screening health metrics and raises webhook
// alerts when failure thresholds are breached.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/resilience"
	"github.com/sells-group/diligence-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of screening health.
type MetricsSnapshot struct {
	// Run metrics within the lookback window.
	RunsTotal    int     `json:"runs_total"`
	RunsComplete int     `json:"runs_complete"`
	RunsFailed   int     `json:"runs_failed"`
	RunsQueued   int     `json:"runs_queued"`
	RunsRunning  int     `json:"runs_running"`
	RunFailRate  float64 `json:"run_fail_rate"`

	// Risk metrics across completed runs in the window.
	AvgOverallRisk float64 `json:"avg_overall_risk"`
	HighRiskCount  int     `json:"high_risk_count"`

	// Per-provider availability: fraction of completed runs in the window
	// where the provider contributed data.
	ProviderAvailability map[string]float64 `json:"provider_availability,omitempty"`

	// Circuit breaker states at collection time.
	BreakerStates map[string]string `json:"breaker_states,omitempty"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers metrics from the store and the provider breakers.
type Collector struct {
	store    store.Store
	breakers *resilience.ProviderBreakers
}

// NewCollector creates a metrics collector. breakers may be nil.
func NewCollector(st store.Store, breakers *resilience.ProviderBreakers) *Collector {
	return &Collector{store: st, breakers: breakers}
}

// Collect gathers a snapshot of screening metrics over the lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	cutoff := time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)

	runs, err := c.store.ListRuns(ctx, store.RunFilter{
		CreatedAfter: cutoff,
		Limit:        10000,
	})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	snap.RunsTotal = len(runs)
	var totalRisk float64
	var reported int
	available := make(map[string]int)
	seen := make(map[string]int)

	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			snap.RunsComplete++
		case model.RunStatusFailed:
			snap.RunsFailed++
		case model.RunStatusQueued:
			snap.RunsQueued++
		case model.RunStatusRunning:
			snap.RunsRunning++
		}
		if r.Report == nil {
			continue
		}
		reported++
		totalRisk += r.Report.Metrics.OverallRisk
		if r.Report.RiskLevel() == model.RiskHigh {
			snap.HighRiskCount++
		}
		for provider, ok := range r.Report.ProviderStatus {
			seen[provider]++
			if ok {
				available[provider]++
			}
		}
	}

	finished := snap.RunsComplete + snap.RunsFailed
	if finished > 0 {
		snap.RunFailRate = float64(snap.RunsFailed) / float64(finished)
	}
	if reported > 0 {
		snap.AvgOverallRisk = totalRisk / float64(reported)
	}
	if len(seen) > 0 {
		snap.ProviderAvailability = make(map[string]float64, len(seen))
		for provider, n := range seen {
			snap.ProviderAvailability[provider] = float64(available[provider]) / float64(n)
		}
	}

	if c.breakers != nil {
		states := c.breakers.States()
		if len(states) > 0 {
			snap.BreakerStates = make(map[string]string, len(states))
			for provider, state := range states {
				snap.BreakerStates[provider] = state.String()
			}
		}
	}

	return snap, nil
}
