package assemble

import "github.com/sells-group/diligence-cli/internal/model"

// Field-name normalization: collaborators use differing keys for equivalent
// concepts. Every read below goes through an ordered fallback-key lookup so
// downstream consumers see exactly one canonical key per field.

// buildAISummary merges the AI analysis payload with the web/news search
// payload. The AI document contributes company info, executives and
// narrative; the search document contributes adverse media and citations.
// Either side may be nil.
func buildAISummary(ai, search model.Document) *model.AISummary {
	out := &model.AISummary{}

	if ai != nil {
		out.CompanyInfo = companyInfo(ai)
		out.Executives = parseExecutives(ai)
		out.AdverseMedia = parseAdverseMedia(ai)
		out.ExecutiveSummary, _ = ai.Str("executive_summary", "summary")
		out.RiskAssessment, _ = ai.Str("risk_assessment")
		out.Background = parseBackground(ai)
		out.Citations = parseCitations(ai)
	}
	if search != nil {
		out.AdverseMedia = append(out.AdverseMedia, parseAdverseMedia(search)...)
		out.Citations = append(out.Citations, parseCitations(search)...)
	}

	return out
}

// companyInfo collects the flat descriptive fields the company summary table
// shows, under their canonical keys.
func companyInfo(doc model.Document) map[string]string {
	info := make(map[string]string)
	for canonical, keys := range map[string][]string{
		"industry":     {"industry", "sector"},
		"founded_year": {"founded_year", "founded"},
		"headquarters": {"headquarters", "address"},
		"website":      {"website", "official_website"},
	} {
		if v, ok := doc.Str(keys...); ok {
			info[canonical] = v
		}
	}
	// Nested website_info shape from the AI provider.
	if wi, ok := doc.Child("website_info"); ok {
		if v, ok := wi.Str("official_website", "url"); ok {
			info["website"] = v
		}
	}
	if len(info) == 0 {
		return nil
	}
	return info
}

func parseExecutives(doc model.Document) []model.Executive {
	var out []model.Executive
	for _, e := range doc.Objects("executives", "key_people") {
		name, ok := e.Str("name")
		if !ok {
			continue
		}
		position, _ := e.Str("position", "role", "title")
		risk, _ := e.Str("risk_level")
		sourceURL, _ := e.Str("source_url", "url")
		out = append(out, model.Executive{
			Name:      name,
			Position:  position,
			RiskLevel: model.RiskLevel(risk),
			SourceURL: sourceURL,
		})
	}
	return out
}

func parseAdverseMedia(doc model.Document) []model.AdverseMediaItem {
	var out []model.AdverseMediaItem
	for _, m := range doc.Objects("adverse_media", "news", "articles") {
		headline, ok := m.Str("headline", "title")
		if !ok {
			continue
		}
		source, _ := m.Str("source", "source_name", "outlet")
		date, _ := m.Str("date", "published_date")
		sourceURL, _ := m.Str("source_url", "url", "citation_url")
		out = append(out, model.AdverseMediaItem{
			Headline:  headline,
			Source:    source,
			Date:      date,
			SourceURL: sourceURL,
		})
	}
	return out
}

func parseBackground(doc model.Document) []model.BackgroundEntry {
	var out []model.BackgroundEntry
	for _, b := range doc.Objects("background", "professional_background") {
		org, ok := b.Str("organization", "company")
		if !ok {
			continue
		}
		role, _ := b.Str("role", "position")
		period, _ := b.Str("period", "years")
		out = append(out, model.BackgroundEntry{Organization: org, Role: role, Period: period})
	}
	return out
}

func parseCitations(doc model.Document) []model.Citation {
	var out []model.Citation
	for _, c := range doc.Objects("citations", "sources") {
		u, ok := c.Str("url", "source_url")
		if !ok {
			continue
		}
		title, _ := c.Str("title")
		out = append(out, model.Citation{Title: title, URL: u})
	}
	// Bare string citations also occur.
	for _, u := range doc.Strings("citations", "sources") {
		out = append(out, model.Citation{URL: u})
	}
	return out
}

// buildComplianceHits normalizes the sanctions/PEP provider payload.
func buildComplianceHits(doc model.Document) *model.ComplianceHits {
	out := &model.ComplianceHits{
		Sanctions: parseHitCategory(doc, "sanctions"),
		PEP:       parseHitCategory(doc, "pep", "peps"),
		Criminal:  parseHitCategory(doc, "criminal"),
	}
	if total, ok := doc.Int("total_hits"); ok {
		out.TotalHits = total
	} else {
		out.TotalHits = out.Sanctions.TotalHits + out.PEP.TotalHits + out.Criminal.TotalHits
	}
	if pep, ok := doc.Bool("pep_status"); ok {
		out.PEPStatus = pep
	} else {
		out.PEPStatus = out.PEP.TotalHits > 0
	}
	if details, ok := doc.Child("pep_details"); ok {
		position, _ := details.Str("position")
		country, _ := details.Str("country", "source_country")
		since, _ := details.Str("since")
		source, _ := details.Str("source")
		if position != "" || country != "" || since != "" || source != "" {
			out.PEPDetails = &model.PEPDetails{Position: position, Country: country, Since: since, Source: source}
		}
	}
	out.Aliases = doc.Strings("aliases", "name_variations")
	return out
}

func parseHitCategory(doc model.Document, keys ...string) model.HitCategory {
	cat, ok := doc.Child(keys...)
	if !ok {
		return model.HitCategory{}
	}
	out := model.HitCategory{}
	if total, ok := cat.Int("total_hits", "count"); ok && total > 0 {
		out.TotalHits = total
	}
	for _, rec := range cat.Objects("found_records", "records", "matches") {
		name, ok := rec.Str("name", "entity_name", "matched_name")
		if !ok {
			continue
		}
		sourceID, _ := rec.Str("source_id", "list_name")
		sourceCountry, _ := rec.Str("source_country", "country")
		pepType, _ := rec.Str("pep_type", "type")
		out.FoundRecords = append(out.FoundRecords, model.HitRecord{
			Name:          name,
			SourceID:      sourceID,
			SourceCountry: sourceCountry,
			PEPType:       pepType,
		})
	}
	if out.TotalHits == 0 {
		out.TotalHits = len(out.FoundRecords)
	}
	return out
}

// buildRegistryRecord normalizes the corporate registry payload.
func buildRegistryRecord(doc model.Document) *model.RegistryRecord {
	out := &model.RegistryRecord{}
	out.RegistryID, _ = doc.Str("registry_id", "corp_code", "company_number")
	out.Status, _ = doc.Str("status")
	out.IndustryCode, _ = doc.Str("industry_code")
	out.IndustryName, _ = doc.Str("industry_name", "industry")
	out.RegistrationDate, _ = doc.Str("registration_date", "incorporation_date")
	out.Address, _ = doc.Str("address")
	out.Representative, _ = doc.Str("representative", "ceo_name")
	out.Capital, _ = doc.Str("capital")

	if fin, ok := doc.Child("financial_summary", "financials"); ok {
		fs := &model.FinancialSummary{
			Revenue: yearSeries(fin, "revenue"),
			Profit:  yearSeries(fin, "profit", "net_income"),
			Assets:  yearSeries(fin, "assets", "total_assets"),
		}
		fs.Currency, _ = fin.Str("currency")
		if fs.Currency != "" || fs.Revenue != nil || fs.Profit != nil || fs.Assets != nil {
			out.FinancialSummary = fs
		}
	}

	for _, d := range doc.Objects("documents", "filings") {
		title, ok := d.Str("title", "report_name")
		if !ok {
			continue
		}
		id, _ := d.Str("id", "rcept_no")
		date, _ := d.Str("date", "published_date", "rcept_dt")
		u, _ := d.Str("url", "source_url")
		out.Documents = append(out.Documents, model.RegistryDocument{ID: id, Title: title, Date: date, URL: u})
	}

	for _, s := range doc.Objects("subsidiaries") {
		name, ok := s.Str("name")
		if !ok {
			continue
		}
		ownership, _ := s.Str("ownership", "percentage")
		business, _ := s.Str("business")
		out.Subsidiaries = append(out.Subsidiaries, model.Subsidiary{Name: name, Ownership: ownership, Business: business})
	}

	for _, s := range doc.Objects("major_shareholders", "shareholders") {
		name, ok := s.Str("name")
		if !ok {
			continue
		}
		ownership, _ := s.Str("ownership", "percentage")
		relationship, _ := s.Str("relationship")
		out.MajorShareholders = append(out.MajorShareholders, model.Shareholder{Name: name, Ownership: ownership, Relationship: relationship})
	}

	return out
}

// yearSeries reads a metric's year→value map, dropping malformed values.
func yearSeries(fin model.Document, keys ...string) map[string]float64 {
	series, ok := fin.Child(keys...)
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(series))
	for year := range series {
		if v, ok := series.Num(year); ok {
			out[year] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
