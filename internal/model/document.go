package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Document is a loosely-shaped JSON object, the currency between the
// assembler and the presentation layers. Every optional-field read goes
// through a typed accessor so "missing" and "malformed" are both an explicit
// ok=false, never a panic or a zero value masquerading as data.
type Document map[string]any

// ParseDocument decodes raw JSON bytes into a Document. Non-object payloads
// return an empty document rather than an error; the presentation layer
// treats them as Generic.
func ParseDocument(raw []byte) Document {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return Document{}
	}
	return doc
}

// Has reports whether any of the given keys is present with a non-nil value.
func (d Document) Has(keys ...string) bool {
	for _, k := range keys {
		if v, ok := d[k]; ok && v != nil {
			return true
		}
	}
	return false
}

// Str returns the first present string value among key and fallbacks.
// Numeric values are stringified; other shapes count as absent.
func (d Document) Str(keys ...string) (string, bool) {
	for _, k := range keys {
		switch v := d[k].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(v), true
		}
	}
	return "", false
}

// Num returns the first present finite numeric value among key and fallbacks.
// Numeric strings parse; NaN/Inf and other shapes count as absent.
func (d Document) Num(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := d[k].(type) {
		case float64:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return v, true
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, true
			}
		case int:
			return float64(v), true
		}
	}
	return 0, false
}

// Int returns the first present numeric value truncated to int.
func (d Document) Int(keys ...string) (int, bool) {
	f, ok := d.Num(keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns the first present boolean value among key and fallbacks.
func (d Document) Bool(keys ...string) (bool, bool) {
	for _, k := range keys {
		if v, ok := d[k].(bool); ok {
			return v, true
		}
	}
	return false, false
}

// List returns the first present array value among key and fallbacks.
func (d Document) List(keys ...string) ([]any, bool) {
	for _, k := range keys {
		if v, ok := d[k].([]any); ok {
			return v, true
		}
	}
	return nil, false
}

// Child returns a nested object as a Document.
func (d Document) Child(keys ...string) (Document, bool) {
	for _, k := range keys {
		switch v := d[k].(type) {
		case map[string]any:
			return Document(v), true
		case Document:
			return v, true
		}
	}
	return nil, false
}

// Objects returns a list field's elements that are objects, skipping any
// malformed entries.
func (d Document) Objects(keys ...string) []Document {
	items, ok := d.List(keys...)
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Document(m))
		}
	}
	return out
}

// Strings returns a list field's string elements, skipping malformed entries.
func (d Document) Strings(keys ...string) []string {
	items, ok := d.List(keys...)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Flatten projects a Report into the flat display document consumed by the
// classifier, the renderer, and the tree view. The projection goes through a
// JSON round-trip so the result carries only plain JSON shapes and never
// aliases the report's own structures.
func (r *Report) Flatten() Document {
	doc := Document{
		"country":   r.Subject.Country,
		"timestamp": r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		"metrics":   roundTrip(r.Metrics),
	}
	if r.Subject.Kind == SubjectIndividual {
		doc["name"] = r.Subject.Name
		if r.Subject.DateOfBirth != "" {
			doc["date_of_birth"] = r.Subject.DateOfBirth
		}
	} else {
		doc["company_name"] = r.Subject.Name
		if r.Subject.Domain != "" {
			doc["domain"] = r.Subject.Domain
		}
	}
	doc["overall_risk_level"] = string(r.RiskLevel())
	if len(r.ProviderStatus) > 0 {
		doc["provider_status"] = roundTrip(r.ProviderStatus)
	}

	if ai := r.AISummary; ai != nil {
		for k, v := range ai.CompanyInfo {
			if v != "" {
				doc[k] = v
			}
		}
		if len(ai.Executives) > 0 {
			doc["executives"] = roundTrip(ai.Executives)
		}
		if len(ai.AdverseMedia) > 0 {
			doc["adverse_media"] = roundTrip(ai.AdverseMedia)
		}
		if ai.ExecutiveSummary != "" {
			doc["executive_summary"] = ai.ExecutiveSummary
		}
		if ai.RiskAssessment != "" {
			doc["risk_assessment"] = ai.RiskAssessment
		}
		if len(ai.Background) > 0 {
			doc["background"] = roundTrip(ai.Background)
		}
		if len(ai.Citations) > 0 {
			doc["citations"] = roundTrip(ai.Citations)
		}
	}

	if ch := r.ComplianceHits; ch != nil {
		doc["pep_status"] = ch.PEPStatus
		if ch.PEPDetails != nil {
			doc["pep_details"] = roundTrip(ch.PEPDetails)
		}
		if len(ch.Aliases) > 0 {
			doc["aliases"] = roundTrip(ch.Aliases)
		}
		doc["compliance_hits"] = roundTrip(ch)
	}

	if reg := r.RegistryRecord; reg != nil {
		for k, v := range map[string]string{
			"registry_id":       reg.RegistryID,
			"status":            reg.Status,
			"industry_code":     reg.IndustryCode,
			"industry_name":     reg.IndustryName,
			"registration_date": reg.RegistrationDate,
			"address":           reg.Address,
			"representative":    reg.Representative,
			"capital":           reg.Capital,
		} {
			if v != "" {
				doc[k] = v
			}
		}
		if reg.FinancialSummary != nil {
			doc["financial_summary"] = roundTrip(reg.FinancialSummary)
		}
		if len(reg.Documents) > 0 {
			doc["documents"] = roundTrip(reg.Documents)
		}
		if len(reg.Subsidiaries) > 0 {
			doc["subsidiaries"] = roundTrip(reg.Subsidiaries)
		}
		if len(reg.MajorShareholders) > 0 {
			doc["major_shareholders"] = roundTrip(reg.MajorShareholders)
		}
	}

	return doc
}

// roundTrip converts a typed value to plain JSON shapes (map[string]any,
// []any, float64, ...). Marshal errors cannot occur for our own types.
func roundTrip(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
