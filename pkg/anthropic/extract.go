package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractJSON pulls a JSON document out of a model response. Responses
// frequently arrive wrapped in a markdown code fence, sometimes with prose
// around it; this strips the fence and any surrounding text.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)

	if start := strings.Index(s, "```json"); start >= 0 {
		s = s[start+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	if start := strings.Index(s, "```"); start >= 0 {
		s = s[start+len("```"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	// No fence: trim leading prose up to the first brace.
	if start := strings.IndexAny(s, "{["); start > 0 {
		s = s[start:]
	}
	return strings.TrimSpace(s)
}

// UnmarshalResponse decodes a model response into a generic document,
// stripping code fences first.
func UnmarshalResponse(text string) (map[string]any, error) {
	cleaned := ExtractJSON(text)
	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, eris.Wrap(err, "anthropic: unmarshal response JSON")
	}
	return doc, nil
}
