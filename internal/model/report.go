// Package model defines the screening domain types shared across the pipeline.
package model

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// SubjectKind discriminates the two screenable entity types.
type SubjectKind string

const (
	SubjectCompany    SubjectKind = "company"
	SubjectIndividual SubjectKind = "individual"
)

// Subject identifies the entity being screened.
type Subject struct {
	Kind        SubjectKind `json:"kind"`
	Name        string      `json:"name"`
	Country     string      `json:"country,omitempty"`
	Domain      string      `json:"domain,omitempty"`        // company only
	DateOfBirth string      `json:"date_of_birth,omitempty"` // individual only, YYYY-MM-DD
	// RegistryCode is the subject's identifier in its national corporate
	// registry (DART corp_code for Korean companies). Without it the
	// registry branch is skipped.
	RegistryCode string `json:"registry_code,omitempty"`
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug returns a filesystem-safe identifier for export filenames.
func (s Subject) Slug() string {
	slug := slugRe.ReplaceAllString(strings.ToLower(s.Name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = string(s.Kind)
	}
	return slug
}

// Metrics holds the normalized risk scores for a report. All four scores are
// clamped to [0,1]; OverallRisk is a fixed convex combination of the other
// three (see internal/metrics).
type Metrics struct {
	Sanctions    float64 `json:"sanctions"`
	PEP          float64 `json:"pep"`
	AdverseMedia float64 `json:"adverse_media"`
	OverallRisk  float64 `json:"overall_risk"`
	Matches      int     `json:"matches"`
	Alerts       int     `json:"alerts"`
}

// RiskLevel is the coarse label shown on report badges.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevelFor maps an overall risk score to its display band.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score < 0.25:
		return RiskLow
	case score < 0.6:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Executive is a company officer surfaced by the AI analysis step.
type Executive struct {
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	RiskLevel RiskLevel `json:"risk_level,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
}

// AdverseMediaItem is one negative-news finding.
type AdverseMediaItem struct {
	Headline  string `json:"headline"`
	Source    string `json:"source,omitempty"`
	Date      string `json:"date,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// AISummary carries the free-text commentary and categorized findings
// produced by the AI analysis collaborator.
type AISummary struct {
	CompanyInfo      map[string]string  `json:"company_info,omitempty"`
	Executives       []Executive        `json:"executives,omitempty"`
	AdverseMedia     []AdverseMediaItem `json:"adverse_media,omitempty"`
	ExecutiveSummary string             `json:"executive_summary,omitempty"`
	RiskAssessment   string             `json:"risk_assessment,omitempty"`
	Background       []BackgroundEntry  `json:"background,omitempty"` // individual only
	Citations        []Citation         `json:"citations,omitempty"`
}

// BackgroundEntry is one row of an individual's professional history.
type BackgroundEntry struct {
	Organization string `json:"organization"`
	Role         string `json:"role,omitempty"`
	Period       string `json:"period,omitempty"`
}

// Citation is a source reference attached to a report.
type Citation struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// PEPDetails describes a confirmed politically exposed person finding.
type PEPDetails struct {
	Position string `json:"position,omitempty"`
	Country  string `json:"country,omitempty"`
	Since    string `json:"since,omitempty"`
	Source   string `json:"source,omitempty"`
}

// HitRecord is one matched entry from a sanctions/PEP/criminal list.
type HitRecord struct {
	Name          string `json:"name"`
	SourceID      string `json:"source_id,omitempty"`
	SourceCountry string `json:"source_country,omitempty"`
	PEPType       string `json:"pep_type,omitempty"`
}

// HitCategory groups matches from a single compliance list category.
type HitCategory struct {
	TotalHits    int         `json:"total_hits"`
	FoundRecords []HitRecord `json:"found_records,omitempty"`
}

// ComplianceHits is the structured sanctions/PEP detail from the
// registry/sanctions collaborator.
type ComplianceHits struct {
	TotalHits  int         `json:"total_hits"`
	Sanctions  HitCategory `json:"sanctions"`
	PEP        HitCategory `json:"pep"`
	Criminal   HitCategory `json:"criminal"`
	PEPStatus  bool        `json:"pep_status"`
	PEPDetails *PEPDetails `json:"pep_details,omitempty"`
	Aliases    []string    `json:"aliases,omitempty"`
}

// RegistryDocument is a filing in a corporate registry record.
type RegistryDocument struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Shareholder is one major-shareholder row.
type Shareholder struct {
	Name         string `json:"name"`
	Ownership    string `json:"ownership,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// Subsidiary is one subsidiary row.
type Subsidiary struct {
	Name      string `json:"name"`
	Ownership string `json:"ownership,omitempty"`
	Business  string `json:"business,omitempty"`
}

// FinancialSummary holds per-metric yearly series from a registry filing.
type FinancialSummary struct {
	Currency string             `json:"currency,omitempty"`
	Revenue  map[string]float64 `json:"revenue,omitempty"`
	Profit   map[string]float64 `json:"profit,omitempty"`
	Assets   map[string]float64 `json:"assets,omitempty"`
}

// Years returns the distinct years across all three series, ascending.
// A year present in any one series appears exactly once.
func (f FinancialSummary) Years() []string {
	seen := make(map[string]bool)
	for _, series := range []map[string]float64{f.Revenue, f.Profit, f.Assets} {
		for year := range series {
			seen[year] = true
		}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// RegistryRecord is the structured output of the corporate registry lookup.
type RegistryRecord struct {
	RegistryID        string             `json:"registry_id"`
	Status            string             `json:"status,omitempty"`
	IndustryCode      string             `json:"industry_code,omitempty"`
	IndustryName      string             `json:"industry_name,omitempty"`
	RegistrationDate  string             `json:"registration_date,omitempty"`
	Address           string             `json:"address,omitempty"`
	Representative    string             `json:"representative,omitempty"`
	Capital           string             `json:"capital,omitempty"`
	FinancialSummary  *FinancialSummary  `json:"financial_summary,omitempty"`
	Documents         []RegistryDocument `json:"documents,omitempty"`
	Subsidiaries      []Subsidiary       `json:"subsidiaries,omitempty"`
	MajorShareholders []Shareholder      `json:"major_shareholders,omitempty"`
}

// ProviderState tracks a collaborator's outcome. Unconfigured and failed
// providers both display as unavailable but stay distinguishable for
// diagnostics.
type ProviderState string

const (
	ProviderOK           ProviderState = "ok"
	ProviderFailed       ProviderState = "failed"
	ProviderUnconfigured ProviderState = "unconfigured"
)

// Available reports whether the provider contributed data.
func (s ProviderState) Available() bool { return s == ProviderOK }

// Report is the unit produced per screening request. It is immutable once
// handed to the renderer; display layers build new structures from it.
type Report struct {
	TaskID         string                   `json:"task_id,omitempty"`
	Subject        Subject                  `json:"subject"`
	Timestamp      time.Time                `json:"timestamp"`
	Metrics        Metrics                  `json:"metrics"`
	ProviderStatus map[string]bool          `json:"provider_status,omitempty"`
	ProviderDetail map[string]ProviderState `json:"provider_detail,omitempty"`
	AISummary      *AISummary               `json:"ai_summary,omitempty"`
	RegistryRecord *RegistryRecord          `json:"registry_record,omitempty"`
	ComplianceHits *ComplianceHits          `json:"compliance_hits,omitempty"`
}

// RiskLevel returns the display band for the report's overall risk.
func (r *Report) RiskLevel() RiskLevel { return RiskLevelFor(r.Metrics.OverallRisk) }
