package store

import (
	"context"
	"time"

	"github.com/sells-group/diligence-cli/internal/model"
)

// RunFilter specifies criteria for listing screening runs.
type RunFilter struct {
	Status       model.RunStatus   `json:"status,omitempty"`
	Kind         model.SubjectKind `json:"kind,omitempty"`
	Subject      string            `json:"subject,omitempty"` // exact name match
	CreatedAfter time.Time         `json:"created_after,omitempty"`
	Limit        int               `json:"limit,omitempty"`
	Offset       int               `json:"offset,omitempty"`
}

// Store defines the persistence interface for screening runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, subject model.Subject) (*model.Run, error)
	BulkCreateRuns(ctx context.Context, subjects []model.Subject) ([]model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	SetRunReport(ctx context.Context, runID string, report *model.Report) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Phases
	CreatePhase(ctx context.Context, runID string, name string) (*model.RunPhase, error)
	CompletePhase(ctx context.Context, phase *model.RunPhase) error
	ListPhases(ctx context.Context, runID string) ([]model.RunPhase, error)

	// Report cache, keyed by subject slug. A fresh cache hit lets repeat
	// screenings skip the provider fan-out entirely.
	GetCachedReport(ctx context.Context, slug string) (*model.Report, error)
	SetCachedReport(ctx context.Context, slug string, report *model.Report, ttl time.Duration) error
	DeleteExpiredReports(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
