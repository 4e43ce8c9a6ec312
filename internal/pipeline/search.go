package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/pkg/anthropic"
	"github.com/sells-group/diligence-cli/pkg/perplexity"
)

const searchSystem = `You are a compliance researcher looking for negative news. Search for adverse media about the subject: lawsuits, regulatory actions, fraud allegations, sanctions exposure. Respond with a single JSON object, no prose:
  {"articles": [{"title", "source_name", "published_date", "citation_url"}]}
Leave the array empty if nothing adverse is found.`

// searchProvider runs adverse-media search through the Perplexity API.
type searchProvider struct {
	client perplexity.Client
}

// NewSearchProvider creates the web search provider.
func NewSearchProvider(client perplexity.Client) Searcher {
	return &searchProvider{client: client}
}

func (p *searchProvider) Search(ctx context.Context, subject model.Subject) (model.Document, error) {
	resp, err := p.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "system", Content: searchSystem},
			{Role: "user", Content: fmt.Sprintf("Adverse media for %s", subjectPrompt(subject))},
		},
		SearchRecency: "year",
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: web search")
	}

	doc, err := anthropic.UnmarshalResponse(resp.Content())
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: web search")
	}

	// Sonar returns source URLs out of band; surface them as citations.
	if len(resp.Citations) > 0 {
		cites := make([]any, len(resp.Citations))
		for i, u := range resp.Citations {
			cites[i] = u
		}
		doc["citations"] = cites
	}
	return doc, nil
}
