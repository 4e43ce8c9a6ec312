package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/pkg/dilisense"
)

// complianceProvider screens subjects through the dilisense API.
type complianceProvider struct {
	client dilisense.Client
}

// NewComplianceProvider creates the sanctions/PEP screening provider.
func NewComplianceProvider(client dilisense.Client) ComplianceChecker {
	return &complianceProvider{client: client}
}

func (p *complianceProvider) Check(ctx context.Context, subject model.Subject) (model.Document, error) {
	req := dilisense.CheckRequest{Names: subject.Name}

	var resp *dilisense.CheckResponse
	var err error
	if subject.Kind == model.SubjectIndividual {
		req.DOB = dilisenseDOB(subject.DateOfBirth)
		resp, err = p.client.CheckIndividual(ctx, req)
	} else {
		resp, err = p.client.CheckEntity(ctx, req)
	}
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: compliance check")
	}

	return complianceDocument(resp), nil
}

// complianceDocument regroups flat watchlist records into the per-category
// shape the assembler consumes.
func complianceDocument(resp *dilisense.CheckResponse) model.Document {
	categories := map[string][]any{}
	var aliases []any
	seenAlias := map[string]bool{}

	for _, rec := range resp.FoundRecords {
		key := categoryKey(rec.SourceType)
		entry := map[string]any{
			"name":      rec.Name,
			"source_id": rec.SourceID,
		}
		if rec.PEPType != "" {
			entry["pep_type"] = rec.PEPType
		}
		if len(rec.Jurisdiction) > 0 {
			entry["source_country"] = rec.Jurisdiction[0]
		}
		categories[key] = append(categories[key], entry)

		for _, a := range rec.AliasNames {
			if !seenAlias[a] {
				seenAlias[a] = true
				aliases = append(aliases, a)
			}
		}
	}

	doc := model.Document{"total_hits": resp.TotalHits}
	for _, key := range []string{"sanctions", "pep", "criminal"} {
		records := categories[key]
		if records == nil {
			continue
		}
		doc[key] = map[string]any{
			"total_hits":    len(records),
			"found_records": records,
		}
	}
	if len(aliases) > 0 {
		doc["aliases"] = aliases
	}
	return doc
}

func categoryKey(sourceType string) string {
	switch strings.ToUpper(sourceType) {
	case "SANCTION":
		return "sanctions"
	case "PEP":
		return "pep"
	default:
		return "criminal"
	}
}

// dilisenseDOB converts YYYY-MM-DD to the MM/YYYY format the API expects.
func dilisenseDOB(dob string) string {
	parts := strings.Split(dob, "-")
	if len(parts) != 3 {
		return dob
	}
	return parts[1] + "/" + parts[0]
}
