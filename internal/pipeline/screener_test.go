package pipeline

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/diligence-cli/internal/assemble"
	"github.com/sells-group/diligence-cli/internal/config"
	"github.com/sells-group/diligence-cli/internal/metrics"
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/resilience"
	"github.com/sells-group/diligence-cli/internal/store"
)

// stubProvider satisfies all four provider interfaces.
type stubProvider struct {
	doc   model.Document
	err   error
	calls atomic.Int64
	block bool
}

func (s *stubProvider) fetch(ctx context.Context) (model.Document, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.doc, s.err
}

func (s *stubProvider) Analyze(ctx context.Context, _ model.Subject) (model.Document, error) {
	return s.fetch(ctx)
}

func (s *stubProvider) Search(ctx context.Context, _ model.Subject) (model.Document, error) {
	return s.fetch(ctx)
}

func (s *stubProvider) Check(ctx context.Context, _ model.Subject) (model.Document, error) {
	return s.fetch(ctx)
}

func (s *stubProvider) Lookup(ctx context.Context, _ model.Subject) (model.Document, error) {
	return s.fetch(ctx)
}

func testConfig() *config.Config {
	return &config.Config{
		Screening: config.ScreeningConfig{
			GlobalTimeoutSecs: 30,
			MaxConcurrent:     2,
		},
		Retry: config.RetryConfig{MaxAttempts: 1, InitialBackoffMs: 1},
	}
}

func newTestScreener(t *testing.T, cfg *config.Config, providers Providers) (*Screener, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	return New(cfg, st, providers, assemble.New(metrics.DefaultConfig())), st
}

func companySubject() model.Subject {
	return model.Subject{Kind: model.SubjectCompany, Name: "Hanmi Systems Ltd"}
}

func TestScreen_AllProvidersSucceed(t *testing.T) {
	providers := Providers{
		AI: &stubProvider{doc: model.Document{
			"industry":          "Electronics",
			"executive_summary": "Mid-size electronics manufacturer.",
		}},
		Search: &stubProvider{doc: model.Document{
			"articles": []any{map[string]any{"title": "Hanmi fined by regulator"}},
		}},
		Compliance: &stubProvider{doc: model.Document{
			"sanctions": map[string]any{"total_hits": 1, "found_records": []any{
				map[string]any{"name": "Hanmi Systems", "source_id": "ofac_sdn"},
			}},
		}},
		Registry: &stubProvider{doc: model.Document{"registry_id": "00126380"}},
	}

	s, st := newTestScreener(t, testConfig(), providers)
	run, err := s.Screen(context.Background(), companySubject())
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Report)
	assert.Equal(t, run.ID, run.Report.TaskID)

	require.NotNil(t, run.Report.AISummary)
	assert.Equal(t, "Electronics", run.Report.AISummary.CompanyInfo["industry"])
	assert.Len(t, run.Report.AISummary.AdverseMedia, 1)
	require.NotNil(t, run.Report.ComplianceHits)
	assert.Equal(t, 1, run.Report.ComplianceHits.Sanctions.TotalHits)
	require.NotNil(t, run.Report.RegistryRecord)
	assert.Equal(t, "00126380", run.Report.RegistryRecord.RegistryID)

	for _, name := range []string{"ai_analysis", "web_search", "compliance", "registry"} {
		assert.True(t, run.Report.ProviderStatus[name], name)
	}
	assert.Positive(t, run.Report.Metrics.OverallRisk)

	phases, err := st.ListPhases(context.Background(), run.ID)
	require.NoError(t, err)
	require.Len(t, phases, 4)
	for _, p := range phases {
		assert.Equal(t, model.PhaseStatusComplete, p.Status, p.Name)
	}
}

func TestScreen_ProviderFailureIsolated(t *testing.T) {
	providers := Providers{
		AI:         &stubProvider{err: resilience.Unavailable(eris.New("auth rejected"))},
		Search:     &stubProvider{doc: model.Document{"articles": []any{}}},
		Compliance: &stubProvider{doc: model.Document{"total_hits": 0}},
		Registry:   &stubProvider{doc: model.Document{"registry_id": "00126380"}},
	}

	s, st := newTestScreener(t, testConfig(), providers)
	run, err := s.Screen(context.Background(), companySubject())
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.False(t, run.Report.ProviderStatus["ai_analysis"])
	assert.True(t, run.Report.ProviderStatus["compliance"])
	assert.Equal(t, model.ProviderFailed, run.Report.ProviderDetail["ai_analysis"])
	assert.NotNil(t, run.Report.RegistryRecord)

	phases, err := st.ListPhases(context.Background(), run.ID)
	require.NoError(t, err)
	byName := map[string]model.RunPhase{}
	for _, p := range phases {
		byName[p.Name] = p
	}
	assert.Equal(t, model.PhaseStatusFailed, byName["ai_analysis"].Status)
	assert.Contains(t, byName["ai_analysis"].Error, "auth rejected")
	assert.Equal(t, model.PhaseStatusComplete, byName["compliance"].Status)
}

func TestScreen_AllProvidersDown(t *testing.T) {
	failing := func() *stubProvider {
		return &stubProvider{err: resilience.Unavailable(eris.New("down"))}
	}
	providers := Providers{
		AI: failing(), Search: failing(), Compliance: failing(), Registry: failing(),
	}

	s, _ := newTestScreener(t, testConfig(), providers)
	run, err := s.Screen(context.Background(), companySubject())
	require.NoError(t, err)

	// The screening itself still completes with an empty report.
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Nil(t, run.Report.AISummary)
	assert.Nil(t, run.Report.ComplianceHits)
	assert.Nil(t, run.Report.RegistryRecord)
	assert.Zero(t, run.Report.Metrics.OverallRisk)
	for _, ok := range run.Report.ProviderStatus {
		assert.False(t, ok)
	}
}

func TestScreen_BranchTimeoutDropped(t *testing.T) {
	cfg := testConfig()
	cfg.Screening.RegistryTimeoutSecs = 1

	providers := Providers{
		AI:         &stubProvider{doc: model.Document{"industry": "Electronics"}},
		Compliance: &stubProvider{doc: model.Document{"total_hits": 0}},
		Registry:   &stubProvider{block: true},
	}

	s, _ := newTestScreener(t, cfg, providers)
	run, err := s.Screen(context.Background(), companySubject())
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Nil(t, run.Report.RegistryRecord)
	assert.Equal(t, model.ProviderFailed, run.Report.ProviderDetail["registry"])
	// The other branches are unaffected by the lost one.
	assert.NotNil(t, run.Report.AISummary)
	assert.NotNil(t, run.Report.ComplianceHits)
}

func TestScreen_UnconfiguredProvidersSkipped(t *testing.T) {
	providers := Providers{
		Compliance: &stubProvider{doc: model.Document{"total_hits": 0}},
	}

	s, st := newTestScreener(t, testConfig(), providers)
	run, err := s.Screen(context.Background(), companySubject())
	require.NoError(t, err)

	assert.Equal(t, model.ProviderUnconfigured, run.Report.ProviderDetail["ai_analysis"])
	assert.Equal(t, model.ProviderUnconfigured, run.Report.ProviderDetail["web_search"])
	assert.Equal(t, model.ProviderUnconfigured, run.Report.ProviderDetail["registry"])
	assert.Equal(t, model.ProviderOK, run.Report.ProviderDetail["compliance"])

	phases, err := st.ListPhases(context.Background(), run.ID)
	require.NoError(t, err)
	skipped := 0
	for _, p := range phases {
		if p.Status == model.PhaseStatusSkipped {
			skipped++
		}
	}
	assert.Equal(t, 3, skipped)
}

func TestScreen_CacheHitSkipsProviders(t *testing.T) {
	cfg := testConfig()
	cfg.Screening.CacheTTLHours = 1

	compliance := &stubProvider{doc: model.Document{"total_hits": 0}}
	providers := Providers{Compliance: compliance}

	s, _ := newTestScreener(t, cfg, providers)
	ctx := context.Background()

	first, err := s.Screen(ctx, companySubject())
	require.NoError(t, err)
	assert.Equal(t, int64(1), compliance.calls.Load())

	second, err := s.Screen(ctx, companySubject())
	require.NoError(t, err)

	// Second run is satisfied from the cache: no new provider calls, same
	// report, distinct run record.
	assert.Equal(t, int64(1), compliance.calls.Load())
	assert.Equal(t, model.RunStatusComplete, second.Status)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Report.Metrics, second.Report.Metrics)
}

func TestScreenBatch(t *testing.T) {
	providers := Providers{
		Compliance: &stubProvider{doc: model.Document{"total_hits": 0}},
	}

	s, st := newTestScreener(t, testConfig(), providers)
	subjects := []model.Subject{
		{Kind: model.SubjectCompany, Name: "Alpha Corp"},
		{Kind: model.SubjectCompany, Name: "Beta Ltd"},
		{Kind: model.SubjectIndividual, Name: "Jane Roe"},
	}

	results := s.ScreenBatch(context.Background(), subjects)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, subjects[i].Name, r.Subject.Name)
		assert.Equal(t, model.RunStatusComplete, r.Run.Status)
	}

	// The whole batch is queued up front in one bulk insert; every subject
	// gets exactly one run row.
	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestScreen_RetriesTransientFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Retry.MaxAttempts = 3

	flaky := &stubProvider{err: resilience.Transient(eris.New("503 from upstream"), 503)}
	providers := Providers{Compliance: flaky}

	s, _ := newTestScreener(t, cfg, providers)
	run, err := s.Screen(context.Background(), companySubject())
	require.NoError(t, err)

	// All attempts exhausted; the branch still resolves to a failed state.
	assert.Equal(t, int64(3), flaky.calls.Load())
	assert.Equal(t, model.ProviderFailed, run.Report.ProviderDetail["compliance"])
}
