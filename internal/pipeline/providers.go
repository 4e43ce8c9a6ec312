// Package pipeline orchestrates the four-way provider fan-out that produces a
// screening report. Each provider branch runs under its own deadline; a branch
// that fails or times out yields an absent section, never a failed screening.
package pipeline

import (
	"context"

	"github.com/sells-group/diligence-cli/internal/config"
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/pkg/anthropic"
	"github.com/sells-group/diligence-cli/pkg/dart"
	"github.com/sells-group/diligence-cli/pkg/dilisense"
	"github.com/sells-group/diligence-cli/pkg/perplexity"
)

// AIAnalyzer produces the narrative analysis document for a subject.
type AIAnalyzer interface {
	Analyze(ctx context.Context, subject model.Subject) (model.Document, error)
}

// Searcher produces the adverse-media search document for a subject.
type Searcher interface {
	Search(ctx context.Context, subject model.Subject) (model.Document, error)
}

// ComplianceChecker screens a subject against sanctions/PEP watchlists.
type ComplianceChecker interface {
	Check(ctx context.Context, subject model.Subject) (model.Document, error)
}

// RegistryLookup fetches the subject's corporate registry record.
type RegistryLookup interface {
	Lookup(ctx context.Context, subject model.Subject) (model.Document, error)
}

// Providers bundles the four collaborators. A nil entry means the provider is
// not configured; its branch is skipped and reported as unconfigured.
type Providers struct {
	AI         AIAnalyzer
	Search     Searcher
	Compliance ComplianceChecker
	Registry   RegistryLookup
}

// NewProviders wires providers from configuration. Providers without an API
// key stay nil.
func NewProviders(cfg *config.Config) Providers {
	var p Providers
	if cfg.Anthropic.Key != "" {
		p.AI = NewAIProvider(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	}
	if cfg.Perplexity.Key != "" {
		client := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
		p.Search = NewSearchProvider(client)
	}
	if cfg.Dilisense.Key != "" {
		client := dilisense.NewClient(cfg.Dilisense.Key,
			dilisense.WithBaseURL(cfg.Dilisense.BaseURL),
		)
		p.Compliance = NewComplianceProvider(client)
	}
	if cfg.DART.Key != "" {
		client := dart.NewClient(cfg.DART.Key,
			dart.WithBaseURL(cfg.DART.BaseURL),
		)
		p.Registry = NewRegistryProvider(client)
	}
	return p
}
