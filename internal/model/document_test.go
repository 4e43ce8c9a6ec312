package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStr_FallbackKeys(t *testing.T) {
	doc := Document{"url": "https://example.com"}
	v, ok := doc.Str("source_url", "url")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", v)
}

func TestDocumentStr_NumberStringifies(t *testing.T) {
	doc := Document{"founded_year": float64(1987)}
	v, ok := doc.Str("founded_year")
	require.True(t, ok)
	assert.Equal(t, "1987", v)
}

func TestDocumentStr_EmptyAndMissing(t *testing.T) {
	doc := Document{"a": "", "b": nil}
	_, ok := doc.Str("a", "b", "c")
	assert.False(t, ok)
}

func TestDocumentNum_MalformedTreatedAbsent(t *testing.T) {
	doc := Document{"score": map[string]any{"oops": true}}
	_, ok := doc.Num("score")
	assert.False(t, ok)
}

func TestDocumentNum_NumericString(t *testing.T) {
	doc := Document{"hits": "3"}
	v, ok := doc.Num("hits")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestDocumentBool(t *testing.T) {
	doc := Document{"pep_status": true}
	v, ok := doc.Bool("pep_status")
	require.True(t, ok)
	assert.True(t, v)
}

func TestDocumentObjects_SkipsMalformed(t *testing.T) {
	doc := Document{"executives": []any{
		map[string]any{"name": "Jane Kim"},
		"not-an-object",
		map[string]any{"name": "Lee Park"},
	}}
	objs := doc.Objects("executives")
	require.Len(t, objs, 2)
	name, _ := objs[1].Str("name")
	assert.Equal(t, "Lee Park", name)
}

func TestParseDocument_NonObject(t *testing.T) {
	assert.Empty(t, ParseDocument([]byte(`[1,2,3]`)))
	assert.Empty(t, ParseDocument([]byte(`not json`)))
}

func TestFinancialSummaryYears_SortedDistinct(t *testing.T) {
	fs := FinancialSummary{
		Revenue: map[string]float64{"2023": 10, "2022": 9},
		Assets:  map[string]float64{"2023": 30},
	}
	assert.Equal(t, []string{"2022", "2023"}, fs.Years())
}

func TestFlatten_CompanySubject(t *testing.T) {
	r := &Report{
		Subject: Subject{Kind: SubjectCompany, Name: "Hanmi Systems", Country: "KR", Domain: "hanmi.example"},
		AISummary: &AISummary{
			CompanyInfo: map[string]string{"industry": "Technology"},
			Executives:  []Executive{{Name: "Kim Min-jun", Position: "CEO"}},
		},
	}
	doc := r.Flatten()

	name, ok := doc.Str("company_name")
	require.True(t, ok)
	assert.Equal(t, "Hanmi Systems", name)
	assert.Equal(t, "Technology", doc["industry"])
	assert.Len(t, doc.Objects("executives"), 1)
	assert.False(t, doc.Has("registry_id"))
}

func TestFlatten_RegistryFieldsSurface(t *testing.T) {
	r := &Report{
		Subject: Subject{Kind: SubjectCompany, Name: "Hanmi Systems"},
		RegistryRecord: &RegistryRecord{
			RegistryID: "KR12345",
			Documents:  []RegistryDocument{{ID: "DOC001", Title: "Annual Report 2024"}},
		},
	}
	doc := r.Flatten()
	assert.True(t, doc.Has("registry_id"))
	assert.Len(t, doc.Objects("documents"), 1)
}

func TestFlatten_DoesNotAliasReport(t *testing.T) {
	r := &Report{
		Subject:   Subject{Kind: SubjectCompany, Name: "Acme"},
		AISummary: &AISummary{Executives: []Executive{{Name: "A"}}},
	}
	doc := r.Flatten()
	doc.Objects("executives")[0]["name"] = "mutated"
	assert.Equal(t, "A", r.AISummary.Executives[0].Name)
}

func TestSubjectSlug(t *testing.T) {
	assert.Equal(t, "rawabi-holding-co", Subject{Name: "RAWABI Holding & Co."}.Slug())
	assert.Equal(t, "company", Subject{Kind: SubjectCompany, Name: "!!"}.Slug())
}

func TestRiskLevelFor_Bands(t *testing.T) {
	assert.Equal(t, RiskLow, RiskLevelFor(0.0))
	assert.Equal(t, RiskLow, RiskLevelFor(0.249))
	assert.Equal(t, RiskMedium, RiskLevelFor(0.25))
	assert.Equal(t, RiskMedium, RiskLevelFor(0.599))
	assert.Equal(t, RiskHigh, RiskLevelFor(0.6))
	assert.Equal(t, RiskHigh, RiskLevelFor(1.0))
}
