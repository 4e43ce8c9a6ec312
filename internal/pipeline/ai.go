package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/config"
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/pkg/anthropic"
)

const companyAnalysisSystem = `You are a due-diligence analyst. Research the company the user names and respond with a single JSON object, no prose, with these keys:
  "industry", "founded_year", "headquarters", "website" (strings, omit if unknown),
  "executives": [{"name", "position", "risk_level": "Low"|"Medium"|"High", "source_url"}],
  "adverse_media": [{"headline", "source", "date", "source_url"}],
  "executive_summary": one-paragraph overview,
  "risk_assessment": one-paragraph risk narrative.
Only include findings you can support; leave arrays empty rather than guessing.`

const individualAnalysisSystem = `You are a due-diligence analyst. Research the person the user names and respond with a single JSON object, no prose, with these keys:
  "background": [{"organization", "role", "period"}],
  "adverse_media": [{"headline", "source", "date", "source_url"}],
  "executive_summary": one-paragraph overview,
  "risk_assessment": one-paragraph risk narrative.
Only include findings you can support; leave arrays empty rather than guessing.`

// aiProvider runs the narrative analysis through the Anthropic API.
type aiProvider struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewAIProvider creates the AI analysis provider.
func NewAIProvider(client anthropic.Client, cfg config.AnthropicConfig) AIAnalyzer {
	return &aiProvider{client: client, cfg: cfg}
}

func (p *aiProvider) Analyze(ctx context.Context, subject model.Subject) (model.Document, error) {
	system := companyAnalysisSystem
	if subject.Kind == model.SubjectIndividual {
		system = individualAnalysisSystem
	}

	maxTokens := int64(p.cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.cfg.Model,
		MaxTokens: maxTokens,
		System: []anthropic.SystemBlock{
			{Text: system, CacheControl: &anthropic.CacheControl{TTL: "5m"}},
		},
		Messages: []anthropic.Message{
			{Role: "user", Content: subjectPrompt(subject)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: ai analysis")
	}
	resp.Usage.LogCost(p.cfg.Model, "ai_analysis")

	doc, err := anthropic.UnmarshalResponse(resp.Text())
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: ai analysis")
	}
	return doc, nil
}

// subjectPrompt renders the subject identity for a model prompt.
func subjectPrompt(subject model.Subject) string {
	s := fmt.Sprintf("%s: %s", subject.Kind, subject.Name)
	if subject.Country != "" {
		s += fmt.Sprintf(" (country: %s)", subject.Country)
	}
	if subject.Domain != "" {
		s += fmt.Sprintf(" (website: %s)", subject.Domain)
	}
	if subject.DateOfBirth != "" {
		s += fmt.Sprintf(" (born: %s)", subject.DateOfBirth)
	}
	return s
}
