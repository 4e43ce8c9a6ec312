package pipeline

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/resilience"
	"github.com/sells-group/diligence-cli/pkg/dart"
)

// registryProvider fetches corporate registry records from DART.
type registryProvider struct {
	client dart.Client
	now    func() time.Time
}

// NewRegistryProvider creates the corporate registry provider.
func NewRegistryProvider(client dart.Client) RegistryLookup {
	return &registryProvider{client: client, now: time.Now}
}

func (p *registryProvider) Lookup(ctx context.Context, subject model.Subject) (model.Document, error) {
	if subject.Kind != model.SubjectCompany || subject.RegistryCode == "" {
		return nil, resilience.Unconfigured(eris.New("pipeline: no registry code for subject"))
	}

	profile, err := p.client.Company(ctx, subject.RegistryCode)
	if err != nil {
		if errors.Is(err, dart.ErrNoData) {
			return nil, resilience.Unavailable(eris.Wrap(err, "pipeline: registry lookup"))
		}
		return nil, eris.Wrap(err, "pipeline: registry lookup")
	}

	doc := model.Document{
		"registry_id":       profile.CorpCode,
		"industry_code":     profile.IndustryCode,
		"registration_date": formatDARTDate(profile.Established),
		"address":           profile.Address,
		"representative":    profile.CEOName,
	}

	// Filings and financials are enrichment; their failure does not void
	// the profile we already have.
	end := p.now()
	begin := end.AddDate(-1, 0, 0)
	list, err := p.client.Disclosures(ctx, dart.DisclosureRequest{
		CorpCode:  subject.RegistryCode,
		BeginDate: begin.Format("20060102"),
		EndDate:   end.Format("20060102"),
		PageCount: 20,
	})
	if err != nil {
		zap.L().Warn("pipeline: registry disclosures unavailable",
			zap.String("corp_code", subject.RegistryCode), zap.Error(err))
	} else if len(list.List) > 0 {
		docs := make([]any, 0, len(list.List))
		for _, d := range list.List {
			docs = append(docs, map[string]any{
				"id":    d.ReceiptNo,
				"title": d.ReportName,
				"date":  formatDARTDate(d.ReceiptDate),
				"url":   d.FilingURL(),
			})
		}
		doc["documents"] = docs
	}

	if fin := p.financialSummary(ctx, subject.RegistryCode, end); fin != nil {
		doc["financial_summary"] = fin
	}

	return doc, nil
}

// dartAccounts maps statement line names to summary metrics.
var dartAccounts = map[string]string{
	"매출액":   "revenue",
	"당기순이익": "profit",
	"자산총계":  "assets",
}

// financialSummary pulls the two most recent annual statements into
// year-keyed series.
func (p *registryProvider) financialSummary(ctx context.Context, corpCode string, end time.Time) map[string]any {
	series := map[string]map[string]any{}

	for offset := 1; offset <= 2; offset++ {
		year := strconv.Itoa(end.Year() - offset)
		accounts, err := p.client.Financials(ctx, corpCode, year, dart.ReportAnnual)
		if err != nil {
			zap.L().Warn("pipeline: registry financials unavailable",
				zap.String("corp_code", corpCode), zap.String("year", year), zap.Error(err))
			continue
		}
		for _, acct := range accounts {
			metric, ok := dartAccounts[acct.AccountName]
			if !ok || acct.FSDiv != "CFS" {
				continue
			}
			value, err := parseDARTAmount(acct.CurrentAmount)
			if err != nil {
				continue
			}
			if series[metric] == nil {
				series[metric] = map[string]any{}
			}
			series[metric][year] = value
		}
	}

	if len(series) == 0 {
		return nil
	}
	out := map[string]any{"currency": "KRW"}
	for metric, years := range series {
		out[metric] = years
	}
	return out
}

// parseDARTAmount parses a comma-grouped amount string.
func parseDARTAmount(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, eris.New("pipeline: empty amount")
	}
	return strconv.ParseFloat(cleaned, 64)
}

// formatDARTDate converts YYYYMMDD to YYYY-MM-DD.
func formatDARTDate(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}
