// Package assemble merges independent collaborator outcomes into one Report.
// Each collaborator may succeed, return partial data, or fail; a failure
// yields an absent section, never an assembly error.
package assemble

import (
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/diligence-cli/internal/metrics"
	"github.com/sells-group/diligence-cli/internal/model"
)

// Provider names used in report status maps.
const (
	ProviderAI         = "ai_analysis"
	ProviderSearch     = "web_search"
	ProviderCompliance = "compliance"
	ProviderRegistry   = "registry"
)

// Outcome captures one collaborator call as a value. Err is diagnostic only;
// it never aborts assembly.
type Outcome struct {
	State model.ProviderState
	Data  model.Document
	Err   error
}

// Unavailable builds a non-OK outcome.
func Unavailable(state model.ProviderState, err error) Outcome {
	return Outcome{State: state, Err: err}
}

// OK builds a successful outcome from a raw provider document.
func OK(data model.Document) Outcome {
	return Outcome{State: model.ProviderOK, Data: data}
}

// Input is everything the assembler needs for one report. The registry and
// compliance lookups arrive separately (they are distinct services) but form
// one logical branch of the fan-out.
type Input struct {
	Subject    model.Subject
	TaskID     string
	AI         Outcome
	Search     Outcome
	Compliance Outcome
	Registry   Outcome
}

// Assembler builds reports under a fixed scoring configuration.
type Assembler struct {
	scoring metrics.Config
	now     func() time.Time
}

// New creates an assembler.
func New(scoring metrics.Config) *Assembler {
	return &Assembler{scoring: scoring, now: time.Now}
}

// WithNow fixes the assembly clock for testing.
func (a *Assembler) WithNow(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble produces one Report from whatever outcomes are present. It is
// free of side effects and never fails: the worst outcome is a report with
// empty sections and zero scores.
func (a *Assembler) Assemble(in Input) *model.Report {
	report := &model.Report{
		TaskID:    in.TaskID,
		Subject:   in.Subject,
		Timestamp: a.now().UTC(),
	}
	if report.TaskID == "" {
		report.TaskID = uuid.New().String()
	}

	report.ProviderDetail = map[string]model.ProviderState{
		ProviderAI:         outcomeState(in.AI),
		ProviderSearch:     outcomeState(in.Search),
		ProviderCompliance: outcomeState(in.Compliance),
		ProviderRegistry:   outcomeState(in.Registry),
	}
	report.ProviderStatus = make(map[string]bool, len(report.ProviderDetail))
	for name, state := range report.ProviderDetail {
		report.ProviderStatus[name] = state.Available()
	}

	if in.AI.State.Available() || in.Search.State.Available() {
		report.AISummary = buildAISummary(in.AI.Data, in.Search.Data)
	}
	if in.Compliance.State.Available() {
		report.ComplianceHits = buildComplianceHits(in.Compliance.Data)
	}
	if in.Registry.State.Available() {
		report.RegistryRecord = buildRegistryRecord(in.Registry.Data)
	}

	report.Metrics = metrics.Normalize(extractSignals(report), a.scoring)
	return report
}

func outcomeState(o Outcome) model.ProviderState {
	if o.State == "" {
		return model.ProviderUnconfigured
	}
	return o.State
}

// extractSignals reads scoring inputs from the assembled sections. Missing
// sections contribute nothing.
func extractSignals(r *model.Report) metrics.Signals {
	var sig metrics.Signals

	if ch := r.ComplianceHits; ch != nil {
		sig.SanctionHits = ch.Sanctions.TotalHits
		sig.PEPHits = ch.PEP.TotalHits
		sig.PEPFlag = ch.PEPStatus
		sig.Alerts = ch.TotalHits
	}
	if ai := r.AISummary; ai != nil {
		sig.AdverseHits = len(ai.AdverseMedia)
		sig.Alerts += len(ai.AdverseMedia)
	}
	return sig
}
