// Package render projects an assembled report document into a structured
// visual document: a flat list of typed sections consumed by the
// presentation layer. A missing underlying field removes its section, never
// produces an error or a broken row.
package render

import (
	"fmt"
	"math"

	"github.com/sells-group/diligence-cli/internal/classify"
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/tree"
)

// SectionKind identifies the visual form of a section.
type SectionKind string

const (
	SectionHeader    SectionKind = "header"
	SectionSummary   SectionKind = "summary"   // two-column key/value table
	SectionCards     SectionKind = "cards"     // metric card row
	SectionTable     SectionKind = "table"     // entity table with fixed columns
	SectionParagraph SectionKind = "paragraph" // free text
	SectionList      SectionKind = "list"      // plain item list
	SectionTree      SectionKind = "tree"      // collapsible raw-data tree
)

// Cell is a single table cell; URL marks it clickable.
type Cell struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// Row is one table row.
type Row []Cell

// Card is one metric card.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is one block of the rendered document.
type Section struct {
	Kind    SectionKind `json:"kind"`
	Title   string      `json:"title,omitempty"`
	Badge   string      `json:"badge,omitempty"` // header only
	Columns []string    `json:"columns,omitempty"`
	Rows    []Row       `json:"rows,omitempty"`
	Cards   []Card      `json:"cards,omitempty"`
	Text    string      `json:"text,omitempty"`
	Items   []string    `json:"items,omitempty"`
	Tree    *tree.Node  `json:"tree,omitempty"`
}

// View is the rendered document.
type View struct {
	Kind     classify.ViewKind `json:"kind"`
	Sections []Section         `json:"sections"`
}

// Render builds the visual document for a report document under the given
// classification. It never mutates doc and never fails; at worst it falls
// back to the generic tree dump.
func Render(doc model.Document, kind classify.ViewKind) *View {
	switch kind {
	case classify.ViewCompany:
		return &View{Kind: kind, Sections: companySections(doc)}
	case classify.ViewIndividual:
		return &View{Kind: kind, Sections: individualSections(doc)}
	case classify.ViewRegistryRecord:
		return &View{Kind: kind, Sections: registrySections(doc)}
	default:
		return &View{Kind: classify.ViewGeneric, Sections: genericSections(doc)}
	}
}

// Placeholder renders in place of a missing or non-finite score, keeping
// "no data" visually distinct from "zero risk".
const Placeholder = "—"

// FormatScore renders a risk score at fixed 3-decimal precision.
func FormatScore(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return fmt.Sprintf("%.3f", v)
}

// FormatPercent renders a [0,1] score as a whole percentage.
func FormatPercent(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return fmt.Sprintf("%.0f%%", v*100)
}

// riskBadge derives the header badge from the explicit risk level field or,
// failing that, from the overall risk score band.
func riskBadge(doc model.Document) string {
	if level, ok := doc.Str("overall_risk_level", "risk_level"); ok {
		return level + " Risk"
	}
	if metrics, ok := doc.Child("metrics"); ok {
		if score, ok := metrics.Num("overall_risk"); ok {
			return string(model.RiskLevelFor(score)) + " Risk"
		}
	}
	return ""
}

// summaryRows builds a key/value summary from label/key pairs, skipping
// absent fields.
func summaryRows(doc model.Document, pairs [][2]string) []Row {
	rows := make([]Row, 0, len(pairs))
	for _, p := range pairs {
		if v, ok := doc.Str(p[1]); ok {
			rows = append(rows, Row{{Text: p[0]}, {Text: v}})
		}
	}
	return rows
}

// countCard formats a count metric, with the placeholder for missing data.
func countCard(label string, n int, ok bool) Card {
	if !ok {
		return Card{Label: label, Value: Placeholder}
	}
	return Card{Label: label, Value: fmt.Sprintf("%d", n)}
}
