package render

import "github.com/sells-group/diligence-cli/internal/model"

// individualSections lays out the individual screening view: header, summary
// with PEP status, PEP details, metric cards, aliases, risk narrative,
// professional background.
func individualSections(doc model.Document) []Section {
	var sections []Section

	name, _ := doc.Str("name")
	sections = append(sections, Section{
		Kind:  SectionHeader,
		Title: name,
		Badge: riskBadge(doc),
	})

	rows := summaryRows(doc, [][2]string{
		{"Country", "country"},
		{"Date of Birth", "date_of_birth"},
	})
	if pep, ok := doc.Bool("pep_status"); ok {
		label := "No"
		if pep {
			label = "Yes"
		}
		rows = append(rows, Row{{Text: "PEP"}, {Text: label}})
	}
	if len(rows) > 0 {
		sections = append(sections, Section{
			Kind:  SectionSummary,
			Title: "Profile",
			Rows:  rows,
		})
	}

	if details, ok := doc.Child("pep_details"); ok {
		if detailRows := summaryRows(details, [][2]string{
			{"Position", "position"},
			{"Country", "country"},
			{"Since", "since"},
			{"Source", "source"},
		}); len(detailRows) > 0 {
			sections = append(sections, Section{
				Kind:  SectionSummary,
				Title: "PEP Details",
				Rows:  detailRows,
			})
		}
	}

	if cards := individualCards(doc); len(cards) > 0 {
		sections = append(sections, Section{
			Kind:  SectionCards,
			Title: "Risk Indicators",
			Cards: cards,
		})
	}

	if aliases := doc.Strings("aliases"); len(aliases) > 0 {
		sections = append(sections, Section{
			Kind:  SectionList,
			Title: "Known Aliases",
			Items: aliases,
		})
	}

	if text, ok := doc.Str("risk_assessment"); ok {
		sections = append(sections, Section{
			Kind:  SectionParagraph,
			Title: "Risk Assessment",
			Text:  text,
		})
	}

	if rows := backgroundRows(doc); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:    SectionTable,
			Title:   "Professional Background",
			Columns: []string{"Organization", "Role", "Period"},
			Rows:    rows,
		})
	}
	if text, ok := doc.Str("executive_summary"); ok {
		sections = append(sections, Section{
			Kind:  SectionParagraph,
			Title: "Summary",
			Text:  text,
		})
	}

	return sections
}

func individualCards(doc model.Document) []Card {
	var cards []Card

	if n, ok := complianceCount(doc, "sanctions"); ok {
		cards = append(cards, countCard("Sanctions", n, true))
	}

	if metrics, ok := doc.Child("metrics"); ok {
		score, ok := metrics.Num("pep")
		cards = append(cards, Card{Label: "PEP Score", Value: FormatPercent(score, ok)})
	}

	if items := doc.Objects("adverse_media"); items != nil {
		cards = append(cards, countCard("Adverse Media", len(items), true))
	} else if n, ok := complianceCount(doc, "criminal"); ok {
		cards = append(cards, countCard("Criminal Records", n, true))
	}

	return cards
}

func backgroundRows(doc model.Document) []Row {
	var rows []Row
	for _, entry := range doc.Objects("background", "professional_background") {
		org, ok := entry.Str("organization", "company")
		if !ok {
			continue
		}
		role, _ := entry.Str("role", "position")
		period, _ := entry.Str("period", "years")
		rows = append(rows, Row{{Text: org}, {Text: role}, {Text: period}})
	}
	return rows
}
