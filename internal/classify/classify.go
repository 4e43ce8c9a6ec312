// Package classify decides which specialized view renders a report document.
package classify

import "github.com/sells-group/diligence-cli/internal/model"

// ViewKind selects a renderer layout.
type ViewKind string

const (
	ViewCompany        ViewKind = "company"
	ViewIndividual     ViewKind = "individual"
	ViewRegistryRecord ViewKind = "registry_record"
	ViewGeneric        ViewKind = "generic"
)

// predicate pairs a view with its structural required-field check.
type predicate struct {
	kind  ViewKind
	match func(model.Document) bool
}

// Classification is structural, by required-field presence, checked in a
// fixed priority order: a document carrying both registry and company fields
// is a registry record. Collaborators may omit the subject tag entirely, so
// no stored tag is consulted.
var predicates = []predicate{
	{ViewRegistryRecord, func(d model.Document) bool {
		return d.Has("registry_id") && d.Has("documents")
	}},
	{ViewIndividual, func(d model.Document) bool {
		return d.Has("pep_status") && d.Has("name")
	}},
	{ViewCompany, func(d model.Document) bool {
		return d.Has("company_name") && d.Has("executives")
	}},
}

// Classify returns exactly one ViewKind for any document, including nil and
// empty ones. It never fails.
func Classify(doc model.Document) ViewKind {
	for _, p := range predicates {
		if p.match(doc) {
			return p.kind
		}
	}
	return ViewGeneric
}
