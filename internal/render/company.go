package render

import "github.com/sells-group/diligence-cli/internal/model"

// companySections lays out the company screening view: header, summary,
// metric cards, executives, risk narrative, ownership structure. Each
// section drops out silently when its backing field is absent.
func companySections(doc model.Document) []Section {
	var sections []Section

	name, _ := doc.Str("company_name", "name")
	sections = append(sections, Section{
		Kind:  SectionHeader,
		Title: name,
		Badge: riskBadge(doc),
	})

	if rows := summaryRows(doc, [][2]string{
		{"Country", "country"},
		{"Industry", "industry"},
		{"Founded", "founded_year"},
		{"Headquarters", "headquarters"},
		{"Website", "website"},
	}); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:  SectionSummary,
			Title: "Company Profile",
			Rows:  rows,
		})
	}

	if cards := companyCards(doc); len(cards) > 0 {
		sections = append(sections, Section{
			Kind:  SectionCards,
			Title: "Risk Indicators",
			Cards: cards,
		})
	}

	if rows := executiveRows(doc); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:    SectionTable,
			Title:   "Key Executives",
			Columns: []string{"Name", "Position", "Risk Level"},
			Rows:    rows,
		})
	}

	if text, ok := doc.Str("risk_assessment"); ok {
		sections = append(sections, Section{
			Kind:  SectionParagraph,
			Title: "Risk Assessment",
			Text:  text,
		})
	}

	if rows := shareholderRows(doc, "major_shareholders", "ownership_structure"); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:    SectionTable,
			Title:   "Ownership Structure",
			Columns: []string{"Shareholder", "Ownership"},
			Rows:    rows,
		})
	}

	return sections
}

// companyCards sources the count cards from the compliance detail when
// present, falling back to the adverse media list length and metric counters.
func companyCards(doc model.Document) []Card {
	var cards []Card

	if n, ok := complianceCount(doc, "sanctions"); ok {
		cards = append(cards, countCard("Sanctions", n, true))
	} else if metrics, ok := doc.Child("metrics"); ok {
		if matches, ok := metrics.Int("matches"); ok {
			cards = append(cards, countCard("Sanctions", matches, true))
		}
	}

	if items := doc.Objects("adverse_media"); items != nil {
		cards = append(cards, countCard("Adverse Media", len(items), true))
	}

	if metrics, ok := doc.Child("metrics"); ok {
		if alerts, ok := metrics.Int("alerts"); ok {
			cards = append(cards, countCard("Alerts", alerts, true))
		}
	}

	return cards
}

// complianceCount reads compliance_hits.<category>.total_hits.
func complianceCount(doc model.Document, category string) (int, bool) {
	hits, ok := doc.Child("compliance_hits")
	if !ok {
		return 0, false
	}
	cat, ok := hits.Child(category)
	if !ok {
		return 0, false
	}
	return cat.Int("total_hits")
}

func executiveRows(doc model.Document) []Row {
	var rows []Row
	for _, exec := range doc.Objects("executives") {
		name, ok := exec.Str("name")
		if !ok {
			continue
		}
		position, _ := exec.Str("position", "role", "title")
		risk, _ := exec.Str("risk_level")
		nameCell := Cell{Text: name}
		if u, ok := exec.Str("source_url", "url"); ok {
			nameCell.URL = u
		}
		rows = append(rows, Row{nameCell, {Text: position}, {Text: risk}})
	}
	return rows
}

func shareholderRows(doc model.Document, keys ...string) []Row {
	var rows []Row
	for _, sh := range doc.Objects(keys...) {
		name, ok := sh.Str("name", "shareholder")
		if !ok {
			continue
		}
		ownership, _ := sh.Str("ownership", "percentage")
		rows = append(rows, Row{{Text: name}, {Text: ownership}})
	}
	return rows
}
