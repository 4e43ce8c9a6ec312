package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/diligence-cli/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		doc  model.Document
		want ViewKind
	}{
		{
			name: "empty document is generic",
			doc:  model.Document{},
			want: ViewGeneric,
		},
		{
			name: "nil document is generic",
			doc:  nil,
			want: ViewGeneric,
		},
		{
			name: "registry record",
			doc: model.Document{
				"registry_id": "KR12345",
				"documents":   []any{},
			},
			want: ViewRegistryRecord,
		},
		{
			name: "registry wins over company when both present",
			doc: model.Document{
				"registry_id":  "KR12345",
				"documents":    []any{},
				"company_name": "Hanmi Systems",
				"executives":   []any{},
			},
			want: ViewRegistryRecord,
		},
		{
			name: "individual",
			doc: model.Document{
				"name":       "Kim Min-jun",
				"pep_status": false,
			},
			want: ViewIndividual,
		},
		{
			name: "individual wins over company",
			doc: model.Document{
				"name":         "Kim Min-jun",
				"pep_status":   true,
				"company_name": "Hanmi Systems",
				"executives":   []any{},
			},
			want: ViewIndividual,
		},
		{
			name: "company",
			doc: model.Document{
				"company_name": "Hanmi Systems",
				"executives":   []any{map[string]any{"name": "Kim Min-jun"}},
			},
			want: ViewCompany,
		},
		{
			name: "company name without executives is generic",
			doc:  model.Document{"company_name": "Hanmi Systems"},
			want: ViewGeneric,
		},
		{
			name: "registry id without documents is not registry",
			doc:  model.Document{"registry_id": "KR12345"},
			want: ViewGeneric,
		},
		{
			name: "nil-valued keys count as absent",
			doc:  model.Document{"registry_id": nil, "documents": nil},
			want: ViewGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.doc))
		})
	}
}

func TestClassify_TotalOverArbitraryShapes(t *testing.T) {
	// Classification must never panic, whatever the value shapes are.
	weird := model.Document{
		"registry_id": 42,
		"documents":   "not-a-list",
		"pep_status":  []any{1, 2},
		"name":        map[string]any{"x": 1},
	}
	kind := Classify(weird)
	assert.Contains(t, []ViewKind{ViewCompany, ViewIndividual, ViewRegistryRecord, ViewGeneric}, kind)
}
