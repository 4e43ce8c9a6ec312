package render

import "github.com/sells-group/diligence-cli/internal/model"

// registrySections lays out the corporate registry view: header with the
// registry id, registration summary, financial time series, filings,
// subsidiaries, and major shareholders.
func registrySections(doc model.Document) []Section {
	var sections []Section

	name, _ := doc.Str("company_name", "name")
	registryID, _ := doc.Str("registry_id")
	sections = append(sections, Section{
		Kind:  SectionHeader,
		Title: name,
		Badge: registryID,
	})

	if rows := registrySummaryRows(doc); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:  SectionSummary,
			Title: "Registration",
			Rows:  rows,
		})
	}

	if sec, ok := financialSection(doc); ok {
		sections = append(sections, sec)
	}

	if rows := documentRows(doc); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:    SectionTable,
			Title:   "Filings",
			Columns: []string{"ID", "Title", "Date", "Link"},
			Rows:    rows,
		})
	}

	if rows := subsidiaryRows(doc); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:    SectionTable,
			Title:   "Subsidiaries",
			Columns: []string{"Name", "Ownership", "Business"},
			Rows:    rows,
		})
	}

	if rows := majorShareholderRows(doc); len(rows) > 0 {
		sections = append(sections, Section{
			Kind:    SectionTable,
			Title:   "Major Shareholders",
			Columns: []string{"Name", "Ownership", "Relationship"},
			Rows:    rows,
		})
	}

	return sections
}

func registrySummaryRows(doc model.Document) []Row {
	rows := summaryRows(doc, [][2]string{
		{"Country", "country"},
		{"Registration Date", "registration_date"},
		{"Status", "status"},
	})
	// Industry renders as "Name (Code)" when both are present.
	indName, hasName := doc.Str("industry_name", "industry")
	indCode, hasCode := doc.Str("industry_code")
	switch {
	case hasName && hasCode:
		rows = append(rows, Row{{Text: "Industry"}, {Text: indName + " (" + indCode + ")"}})
	case hasName:
		rows = append(rows, Row{{Text: "Industry"}, {Text: indName}})
	case hasCode:
		rows = append(rows, Row{{Text: "Industry"}, {Text: indCode}})
	}
	rows = append(rows, summaryRows(doc, [][2]string{
		{"Address", "address"},
		{"Representative", "representative"},
		{"Capital", "capital"},
	})...)
	return rows
}

// financialMetrics fixes the row order of the financial summary table.
var financialMetrics = []struct {
	label string
	key   string
}{
	{"Revenue", "revenue"},
	{"Profit", "profit"},
	{"Assets", "assets"},
}

// financialSection builds the year-by-metric table. Columns are the sorted
// distinct years found across all three series; a year missing from one
// series renders as "N/A", never breaks the row.
func financialSection(doc model.Document) (Section, bool) {
	fin, ok := doc.Child("financial_summary", "financials")
	if !ok {
		return Section{}, false
	}
	currency, _ := fin.Str("currency")

	years := model.FinancialSummary{
		Revenue: numericSeries(fin, "revenue"),
		Profit:  numericSeries(fin, "profit"),
		Assets:  numericSeries(fin, "assets"),
	}.Years()
	if len(years) == 0 {
		return Section{}, false
	}

	columns := append([]string{"Metric"}, years...)
	rows := make([]Row, 0, len(financialMetrics))
	for _, m := range financialMetrics {
		series := numericSeries(fin, m.key)
		row := Row{{Text: m.label}}
		for _, year := range years {
			if v, ok := series[year]; ok {
				row = append(row, Cell{Text: FormatCurrency(v, currency)})
			} else {
				row = append(row, Cell{Text: "N/A"})
			}
		}
		rows = append(rows, row)
	}

	return Section{
		Kind:    SectionTable,
		Title:   "Financial Summary",
		Columns: columns,
		Rows:    rows,
	}, true
}

// numericSeries extracts a year→value map, dropping malformed entries.
func numericSeries(fin model.Document, key string) map[string]float64 {
	series, ok := fin.Child(key)
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

func documentRows(doc model.Document) []Row {
	var rows []Row
	for _, d := range doc.Objects("documents") {
		title, ok := d.Str("title", "name")
		if !ok {
			continue
		}
		id, _ := d.Str("id")
		date, _ := d.Str("date", "published_date")
		link := Cell{}
		if u, ok := d.Str("url", "source_url"); ok {
			link = Cell{Text: "View", URL: u}
		}
		rows = append(rows, Row{{Text: id}, {Text: title}, {Text: date}, link})
	}
	return rows
}

func subsidiaryRows(doc model.Document) []Row {
	var rows []Row
	for _, s := range doc.Objects("subsidiaries") {
		name, ok := s.Str("name")
		if !ok {
			continue
		}
		ownership, _ := s.Str("ownership", "percentage")
		business, _ := s.Str("business")
		rows = append(rows, Row{{Text: name}, {Text: ownership}, {Text: business}})
	}
	return rows
}

func majorShareholderRows(doc model.Document) []Row {
	var rows []Row
	for _, s := range doc.Objects("major_shareholders", "shareholders") {
		name, ok := s.Str("name")
		if !ok {
			continue
		}
		ownership, _ := s.Str("ownership", "percentage")
		relationship, _ := s.Str("relationship")
		rows = append(rows, Row{{Text: name}, {Text: ownership}, {Text: relationship}})
	}
	return rows
}
