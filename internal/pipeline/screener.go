package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/diligence-cli/internal/assemble"
	"github.com/sells-group/diligence-cli/internal/config"
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/resilience"
	"github.com/sells-group/diligence-cli/internal/store"
)

// Screener runs the provider fan-out for one subject and persists the result.
type Screener struct {
	cfg       *config.Config
	store     store.Store
	providers Providers
	assembler *assemble.Assembler
	breakers  *resilience.ProviderBreakers
	retry     resilience.RetryConfig
}

// New creates a Screener with all dependencies.
func New(cfg *config.Config, st store.Store, providers Providers, assembler *assemble.Assembler) *Screener {
	return &Screener{
		cfg:       cfg,
		store:     st,
		providers: providers,
		assembler: assembler,
		breakers: resilience.NewProviderBreakers(
			resilience.FromCircuitConfig(cfg.Circuit.FailureThreshold, cfg.Circuit.ResetTimeoutSecs),
		),
		retry: resilience.FromRetryConfig(
			cfg.Retry.MaxAttempts,
			cfg.Retry.InitialBackoffMs,
			cfg.Retry.MaxBackoffMs,
			cfg.Retry.Multiplier,
			cfg.Retry.JitterFraction,
		),
	}
}

// Breakers exposes the per-provider circuit breakers for monitoring.
func (s *Screener) Breakers() *resilience.ProviderBreakers { return s.breakers }

// Screen runs a full screening for one subject. Provider failures never fail
// the run; the returned run carries a report with whatever sections survived.
func (s *Screener) Screen(ctx context.Context, subject model.Subject) (*model.Run, error) {
	run, err := s.store.CreateRun(ctx, subject)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	return s.ScreenRun(ctx, run)
}

// ScreenRun executes the fan-out for an already-created run. Callers that
// need the task id before the screening finishes create the run themselves
// and call this asynchronously.
func (s *Screener) ScreenRun(ctx context.Context, run *model.Run) (*model.Run, error) {
	subject := run.Subject
	log := zap.L().With(
		zap.String("subject", subject.Name),
		zap.String("kind", string(subject.Kind)),
		zap.String("run_id", run.ID),
	)

	if cached := s.cachedReport(ctx, subject, log); cached != nil {
		if err := s.store.SetRunReport(ctx, run.ID, cached); err != nil {
			return nil, eris.Wrap(err, "pipeline: save cached report")
		}
		return s.store.GetRun(ctx, run.ID)
	}
	log.Info("screening started")

	if err := s.store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		log.Warn("failed to update run status", zap.Error(err))
	}

	if s.cfg.Screening.GlobalTimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.Screening.GlobalTimeoutSecs)*time.Second)
		defer cancel()
	}

	var aiOut, searchOut, complianceOut, registryOut assemble.Outcome

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		aiOut = s.runBranch(gCtx, run.ID, assemble.ProviderAI, s.cfg.Screening.AITimeoutSecs,
			wrapAI(s.providers.AI, subject))
		return nil
	})
	g.Go(func() error {
		searchOut = s.runBranch(gCtx, run.ID, assemble.ProviderSearch, s.cfg.Screening.SearchTimeoutSecs,
			wrapSearch(s.providers.Search, subject))
		return nil
	})
	g.Go(func() error {
		complianceOut = s.runBranch(gCtx, run.ID, assemble.ProviderCompliance, s.cfg.Screening.ComplianceTimeoutSecs,
			wrapCompliance(s.providers.Compliance, subject))
		return nil
	})
	g.Go(func() error {
		registryOut = s.runBranch(gCtx, run.ID, assemble.ProviderRegistry, s.cfg.Screening.RegistryTimeoutSecs,
			wrapRegistry(s.providers.Registry, subject))
		return nil
	})
	_ = g.Wait()

	report := s.assembler.Assemble(assemble.Input{
		Subject:    subject,
		TaskID:     run.ID,
		AI:         aiOut,
		Search:     searchOut,
		Compliance: complianceOut,
		Registry:   registryOut,
	})

	if err := s.store.SetRunReport(ctx, run.ID, report); err != nil {
		if statusErr := s.store.UpdateRunStatus(context.WithoutCancel(ctx), run.ID, model.RunStatusFailed); statusErr != nil {
			log.Warn("failed to mark run failed", zap.Error(statusErr))
		}
		return nil, eris.Wrap(err, "pipeline: save report")
	}

	s.cacheReport(ctx, subject, report, log)

	log.Info("screening complete",
		zap.Float64("overall_risk", report.Metrics.OverallRisk),
		zap.String("risk_level", string(report.RiskLevel())),
	)

	return s.store.GetRun(ctx, run.ID)
}

// runBranch executes one provider call under its own deadline with retries
// and circuit breaking, recording a phase row for diagnostics.
func (s *Screener) runBranch(ctx context.Context, runID, name string, timeoutSecs int, call func(ctx context.Context) (model.Document, error)) assemble.Outcome {
	if call == nil {
		s.recordSkipped(ctx, runID, name)
		return assemble.Outcome{State: model.ProviderUnconfigured}
	}

	phase, phaseErr := s.store.CreatePhase(ctx, runID, name)
	if phaseErr != nil {
		zap.L().Warn("failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
	}

	if timeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
		defer cancel()
	}

	breaker := s.breakers.Get(name)
	retryCfg := s.retry
	retryCfg.OnRetry = resilience.RetryLogger(name, "fetch")

	start := time.Now()
	doc, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (model.Document, error) {
		return resilience.ExecuteVal(ctx, breaker, call)
	})
	duration := time.Since(start).Milliseconds()

	if phase != nil {
		phase.Duration = duration
		if err != nil {
			phase.Status = model.PhaseStatusFailed
			phase.Error = err.Error()
			if resilience.Classify(err) == resilience.ClassUnconfigured {
				phase.Status = model.PhaseStatusSkipped
			}
		} else {
			phase.Status = model.PhaseStatusComplete
		}
		if completeErr := s.store.CompletePhase(context.WithoutCancel(ctx), phase); completeErr != nil {
			zap.L().Warn("failed to complete phase", zap.String("phase", name), zap.Error(completeErr))
		}
	}

	if err != nil {
		zap.L().Warn("provider branch failed",
			zap.String("provider", name),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
		return assemble.Unavailable(resilience.StateFor(err), err)
	}

	zap.L().Debug("provider branch complete",
		zap.String("provider", name),
		zap.Int64("duration_ms", duration),
	)
	return assemble.OK(doc)
}

func (s *Screener) recordSkipped(ctx context.Context, runID, name string) {
	phase, err := s.store.CreatePhase(ctx, runID, name)
	if err != nil || phase == nil {
		return
	}
	phase.Status = model.PhaseStatusSkipped
	if err := s.store.CompletePhase(ctx, phase); err != nil {
		zap.L().Warn("failed to complete phase", zap.String("phase", name), zap.Error(err))
	}
}

// cachedReport returns a fresh cached report for the subject, or nil.
func (s *Screener) cachedReport(ctx context.Context, subject model.Subject, log *zap.Logger) *model.Report {
	if s.cfg.Screening.CacheTTLHours <= 0 {
		return nil
	}
	cached, err := s.store.GetCachedReport(ctx, subject.Slug())
	if err != nil {
		log.Warn("report cache lookup failed", zap.Error(err))
		return nil
	}
	if cached != nil {
		log.Info("report cache hit", zap.String("slug", subject.Slug()))
	}
	return cached
}

func (s *Screener) cacheReport(ctx context.Context, subject model.Subject, report *model.Report, log *zap.Logger) {
	if s.cfg.Screening.CacheTTLHours <= 0 {
		return
	}
	ttl := time.Duration(s.cfg.Screening.CacheTTLHours) * time.Hour
	if err := s.store.SetCachedReport(context.WithoutCancel(ctx), subject.Slug(), report, ttl); err != nil {
		log.Warn("failed to cache report", zap.Error(err))
	}
}

// The wrap helpers adapt each provider interface to the branch signature.
// A nil provider yields a nil call, which runBranch records as skipped.

func wrapAI(p AIAnalyzer, subject model.Subject) func(ctx context.Context) (model.Document, error) {
	if p == nil {
		return nil
	}
	return func(ctx context.Context) (model.Document, error) { return p.Analyze(ctx, subject) }
}

func wrapSearch(p Searcher, subject model.Subject) func(ctx context.Context) (model.Document, error) {
	if p == nil {
		return nil
	}
	return func(ctx context.Context) (model.Document, error) { return p.Search(ctx, subject) }
}

func wrapCompliance(p ComplianceChecker, subject model.Subject) func(ctx context.Context) (model.Document, error) {
	if p == nil {
		return nil
	}
	return func(ctx context.Context) (model.Document, error) { return p.Check(ctx, subject) }
}

func wrapRegistry(p RegistryLookup, subject model.Subject) func(ctx context.Context) (model.Document, error) {
	if p == nil {
		return nil
	}
	return func(ctx context.Context) (model.Document, error) { return p.Lookup(ctx, subject) }
}
