package render

import (
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/tree"
)

// genericSections is the fallback for anything unrecognized: a pretty-printed
// structural dump with stable key ordering, carried both as a collapsible
// tree and as indented text.
func genericSections(doc model.Document) []Section {
	node := tree.Build("report", map[string]any(doc))

	sec := Section{
		Kind:  SectionTree,
		Title: "Raw Data",
		Tree:  node,
	}
	if data, err := node.Serialize(); err == nil {
		sec.Text = string(data)
	}
	return []Section{sec}
}
