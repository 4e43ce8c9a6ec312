package assemble

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/diligence-cli/internal/metrics"
	"github.com/sells-group/diligence-cli/internal/model"
)

func testAssembler() *Assembler {
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	return New(metrics.DefaultConfig()).WithNow(func() time.Time { return fixed })
}

func companySubject() model.Subject {
	return model.Subject{Kind: model.SubjectCompany, Name: "Hanmi Systems", Country: "KR"}
}

func TestAssemble_AllProvidersDown(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject:    companySubject(),
		AI:         Unavailable(model.ProviderFailed, errors.New("timeout")),
		Search:     Unavailable(model.ProviderFailed, errors.New("503")),
		Compliance: Unavailable(model.ProviderUnconfigured, nil),
		Registry:   Unavailable(model.ProviderUnconfigured, nil),
	})

	require.NotNil(t, report)
	assert.Nil(t, report.AISummary)
	assert.Nil(t, report.ComplianceHits)
	assert.Nil(t, report.RegistryRecord)
	assert.Equal(t, model.Metrics{}, report.Metrics)
	assert.NotEmpty(t, report.TaskID)

	// Failed and unconfigured collapse to unavailable for display but stay
	// distinguishable in the detail map.
	assert.False(t, report.ProviderStatus[ProviderAI])
	assert.False(t, report.ProviderStatus[ProviderCompliance])
	assert.Equal(t, model.ProviderFailed, report.ProviderDetail[ProviderAI])
	assert.Equal(t, model.ProviderUnconfigured, report.ProviderDetail[ProviderCompliance])
}

func TestAssemble_PartialFailureIsolated(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject: companySubject(),
		AI: OK(model.Document{
			"executives": []any{map[string]any{"name": "Kim Min-jun", "position": "CEO"}},
		}),
		Search:     Unavailable(model.ProviderFailed, errors.New("rate limited")),
		Compliance: Unavailable(model.ProviderFailed, errors.New("down")),
		Registry:   Unavailable(model.ProviderUnconfigured, nil),
	})

	require.NotNil(t, report.AISummary)
	assert.Len(t, report.AISummary.Executives, 1)
	assert.Nil(t, report.ComplianceHits)
	assert.True(t, report.ProviderStatus[ProviderAI])
	assert.False(t, report.ProviderStatus[ProviderSearch])
}

func TestAssemble_FallbackKeyNormalization(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject: companySubject(),
		AI: OK(model.Document{
			"adverse_media": []any{
				map[string]any{"title": "Probe opened", "published_date": "2026-01-02", "citation_url": "https://news.example/1"},
			},
			"key_people": []any{
				map[string]any{"name": "Lee Ji-woo", "role": "CFO", "url": "https://example.com/lee"},
			},
		}),
	})

	require.NotNil(t, report.AISummary)
	require.Len(t, report.AISummary.AdverseMedia, 1)
	item := report.AISummary.AdverseMedia[0]
	assert.Equal(t, "Probe opened", item.Headline)
	assert.Equal(t, "2026-01-02", item.Date)
	assert.Equal(t, "https://news.example/1", item.SourceURL)

	require.Len(t, report.AISummary.Executives, 1)
	assert.Equal(t, "CFO", report.AISummary.Executives[0].Position)
	assert.Equal(t, "https://example.com/lee", report.AISummary.Executives[0].SourceURL)
}

func TestAssemble_SearchMergesAdverseMedia(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject: companySubject(),
		AI: OK(model.Document{
			"adverse_media": []any{map[string]any{"headline": "From AI"}},
		}),
		Search: OK(model.Document{
			"articles": []any{map[string]any{"title": "From search", "source_name": "Reuters"}},
		}),
	})

	require.NotNil(t, report.AISummary)
	require.Len(t, report.AISummary.AdverseMedia, 2)
	assert.Equal(t, "From search", report.AISummary.AdverseMedia[1].Headline)
	assert.Equal(t, "Reuters", report.AISummary.AdverseMedia[1].Source)
}

func TestAssemble_ComplianceSignalsDriveMetrics(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject: model.Subject{Kind: model.SubjectIndividual, Name: "Kim Min-jun"},
		Compliance: OK(model.Document{
			"sanctions": map[string]any{"total_hits": float64(3)},
			"pep": map[string]any{
				"total_hits": float64(1),
				"found_records": []any{
					map[string]any{"name": "KIM, Min-jun", "list_name": "dilisense-pep", "country": "KR", "type": "senator"},
				},
			},
			"pep_status": true,
		}),
	})

	require.NotNil(t, report.ComplianceHits)
	assert.Equal(t, 3, report.ComplianceHits.Sanctions.TotalHits)
	assert.True(t, report.ComplianceHits.PEPStatus)
	require.Len(t, report.ComplianceHits.PEP.FoundRecords, 1)
	assert.Equal(t, "dilisense-pep", report.ComplianceHits.PEP.FoundRecords[0].SourceID)
	assert.Equal(t, "senator", report.ComplianceHits.PEP.FoundRecords[0].PEPType)

	assert.Greater(t, report.Metrics.Sanctions, 0.0)
	assert.GreaterOrEqual(t, report.Metrics.PEP, 0.70) // categorical flag baseline
	assert.Zero(t, report.Metrics.AdverseMedia)
	assert.Equal(t, 4, report.Metrics.Matches)
}

func TestAssemble_MalformedFieldsTreatedAbsent(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject: companySubject(),
		AI: OK(model.Document{
			"executives":    "not-a-list",
			"adverse_media": []any{"bare string", map[string]any{"no_headline": true}},
		}),
		Compliance: OK(model.Document{
			"sanctions": "garbage",
			"pep":       map[string]any{"total_hits": "not-a-number"},
		}),
	})

	require.NotNil(t, report.AISummary)
	assert.Empty(t, report.AISummary.Executives)
	assert.Empty(t, report.AISummary.AdverseMedia)
	require.NotNil(t, report.ComplianceHits)
	assert.Zero(t, report.ComplianceHits.Sanctions.TotalHits)
	assert.Equal(t, model.Metrics{}, report.Metrics)
}

func TestAssemble_RegistryRecord(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject: companySubject(),
		Registry: OK(model.Document{
			"registry_id":       "KR12345",
			"status":            "Active",
			"industry_name":     "Healthcare",
			"industry_code":     "60100",
			"registration_date": "2015-04-01",
			"financial_summary": map[string]any{
				"currency": "KRW",
				"revenue":  map[string]any{"2023": float64(1e9), "bad": "x"},
			},
			"documents": []any{
				map[string]any{"id": "DOC001", "title": "Annual Report", "date": "2024-03-31", "url": "https://dart.example/1"},
			},
			"major_shareholders": []any{
				map[string]any{"name": "SK Holdings", "ownership": "23%", "relationship": "Parent Company"},
			},
		}),
	})

	reg := report.RegistryRecord
	require.NotNil(t, reg)
	assert.Equal(t, "KR12345", reg.RegistryID)
	require.NotNil(t, reg.FinancialSummary)
	assert.Equal(t, "KRW", reg.FinancialSummary.Currency)
	assert.Equal(t, map[string]float64{"2023": 1e9}, reg.FinancialSummary.Revenue)
	require.Len(t, reg.Documents, 1)
	require.Len(t, reg.MajorShareholders, 1)
	assert.Equal(t, "Parent Company", reg.MajorShareholders[0].Relationship)
}

func TestAssemble_HitCountFallsBackToRecordCount(t *testing.T) {
	report := testAssembler().Assemble(Input{
		Subject: companySubject(),
		Compliance: OK(model.Document{
			"sanctions": map[string]any{
				"found_records": []any{
					map[string]any{"name": "A"},
					map[string]any{"name": "B"},
				},
			},
		}),
	})
	assert.Equal(t, 2, report.ComplianceHits.Sanctions.TotalHits)
}

func TestAssemble_NoPersistenceSideEffects(t *testing.T) {
	// Assembly is a pure function of its input; identical inputs (with a
	// fixed clock and task id) produce identical reports.
	in := Input{
		Subject: companySubject(),
		TaskID:  "task-1",
		AI:      OK(model.Document{"executive_summary": "Clean screening."}),
	}
	a := testAssembler()
	assert.Equal(t, a.Assemble(in), a.Assemble(in))
}

func TestAssemble_TimestampUTC(t *testing.T) {
	report := testAssembler().Assemble(Input{Subject: companySubject()})
	assert.Equal(t, time.UTC, report.Timestamp.Location())
}
