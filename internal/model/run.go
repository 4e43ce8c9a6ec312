package model

import "time"

// RunStatus tracks a screening run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one screening request tracked in the store. The ID doubles as the
// opaque task id clients poll for progress.
type Run struct {
	ID        string    `json:"id"`
	Subject   Subject   `json:"subject"`
	Status    RunStatus `json:"status"`
	Report    *Report   `json:"report,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhaseStatus tracks a single collaborator call within a run.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// RunPhase records one collaborator call's outcome for diagnostics.
type RunPhase struct {
	ID        string      `json:"id"`
	RunID     string      `json:"run_id"`
	Name      string      `json:"name"`
	Status    PhaseStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
	Duration  int64       `json:"duration_ms"`
	StartedAt time.Time   `json:"started_at"`
}
