package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/diligence-cli/internal/model"
)

// BatchResult pairs a subject with its screening outcome.
type BatchResult struct {
	Subject model.Subject
	Run     *model.Run
	Err     error
}

// ScreenBatch screens many subjects with bounded concurrency. All runs are
// queued up front in one bulk insert, so every task id exists before the
// first provider call. A subject whose screening errors (store failures;
// provider failures never error) is reported in its BatchResult and does not
// stop the batch.
func (s *Screener) ScreenBatch(ctx context.Context, subjects []model.Subject) []BatchResult {
	results := make([]BatchResult, len(subjects))

	runs, err := s.store.BulkCreateRuns(ctx, subjects)
	if err != nil {
		err = eris.Wrap(err, "pipeline: bulk create runs")
		zap.L().Error("batch run creation failed", zap.Error(err))
		for i, subject := range subjects {
			results[i] = BatchResult{Subject: subject, Err: err}
		}
		return results
	}

	limit := s.cfg.Screening.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range runs {
		g.Go(func() error {
			run, err := s.ScreenRun(gCtx, &runs[i])
			results[i] = BatchResult{Subject: runs[i].Subject, Run: run, Err: err}
			if err != nil {
				zap.L().Error("batch screening failed",
					zap.String("subject", runs[i].Subject.Name),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
