package tree

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() map[string]any {
	return map[string]any{
		"company_name": "Hanmi Systems",
		"metrics": map[string]any{
			"sanctions": float64(0),
			"alerts":    float64(3),
		},
		"citations": []any{
			map[string]any{"url": "https://example.com/a", "title": "A"},
		},
		"active": true,
		"parent": nil,
	}
}

func TestBuild_Kinds(t *testing.T) {
	root := Build("report", sample())
	require.Equal(t, KindObject, root.Kind)
	assert.Equal(t, 5, root.Count)

	byLabel := map[string]*Node{}
	for _, c := range root.Children {
		byLabel[c.Label] = c
	}
	assert.Equal(t, KindBoolean, byLabel["active"].Kind)
	assert.Equal(t, KindNull, byLabel["parent"].Kind)
	assert.Equal(t, KindString, byLabel["company_name"].Kind)
	assert.Equal(t, KindObject, byLabel["metrics"].Kind)
	assert.Equal(t, KindArray, byLabel["citations"].Kind)
}

func TestBuild_SortedKeys(t *testing.T) {
	root := Build("root", sample())
	labels := make([]string, 0, len(root.Children))
	for _, c := range root.Children {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"active", "citations", "company_name", "metrics", "parent"}, labels)
}

func TestBuild_URLDetection(t *testing.T) {
	root := Build("root", map[string]any{
		"link":     "https://example.com/doc",
		"insecure": "http://example.com",
		"plain":    "not a url",
		"relative": "/docs/1",
		"ftp":      "ftp://example.com/x",
	})
	got := map[string]string{}
	for _, c := range root.Children {
		got[c.Label] = c.URL
	}
	assert.Equal(t, "https://example.com/doc", got["link"])
	assert.Equal(t, "http://example.com", got["insecure"])
	assert.Empty(t, got["plain"])
	assert.Empty(t, got["relative"])
	assert.Empty(t, got["ftp"])
}

func TestBuild_Paths(t *testing.T) {
	root := Build("root", sample())
	n := root.Find("root.citations[0].url")
	require.NotNil(t, n)
	assert.Equal(t, "url", n.Label)
	assert.Equal(t, "https://example.com/a", n.Value)
}

func TestPreview(t *testing.T) {
	root := Build("root", sample())
	assert.Equal(t, "{5 keys}", root.Preview())
	assert.Equal(t, "[1 item]", root.Find("root.citations").Preview())
	assert.Equal(t, "{2 keys}", root.Find("root.metrics").Preview())
}

func TestState_IndependentToggles(t *testing.T) {
	s := NewState(false)
	assert.False(t, s.Expanded("a"))
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Expanded("a"))
	assert.False(t, s.Expanded("b")) // untouched node keeps the default
	s.Toggle("a")
	assert.False(t, s.Expanded("a"))
}

func TestState_DefaultExpanded(t *testing.T) {
	s := NewState(true)
	assert.True(t, s.Expanded("anything"))
	assert.False(t, s.Toggle("anything"))
	s.Reset()
	assert.True(t, s.Expanded("anything"))
}

func TestRender_CollapsedShowsPreviewOnly(t *testing.T) {
	root := Build("report", sample())
	s := NewState(false)

	out := root.Render(s)
	assert.Equal(t, "+ report {5 keys}\n", out)
}

func TestRender_ExpandedShowsChildren(t *testing.T) {
	root := Build("report", sample())
	s := NewState(true)

	out := root.Render(s)
	assert.Contains(t, out, "- report {5 keys}")
	assert.Contains(t, out, "company_name: Hanmi Systems")
	assert.Contains(t, out, "- metrics {2 keys}")
	assert.Contains(t, out, "url: <https://example.com/a>")
}

func TestRender_Idempotent(t *testing.T) {
	root := Build("report", sample())
	s := NewState(true)
	s.Toggle("report.metrics")

	first := root.Render(s)
	second := root.Render(s)
	assert.Equal(t, first, second)
}

func TestSerialize_RoundTripAndStable(t *testing.T) {
	root := Build("report", sample())

	data, err := root.Serialize()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \""))

	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sample(), back)

	again, err := root.Serialize()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSerialize_Subtree(t *testing.T) {
	root := Build("report", sample())
	sub := root.Find("report.metrics")
	require.NotNil(t, sub)

	data, err := sub.Serialize()
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, map[string]any{"sanctions": float64(0), "alerts": float64(3)}, back)
}

func TestBuild_DeepNesting(t *testing.T) {
	v := any("leaf")
	for i := 0; i < 200; i++ {
		v = map[string]any{"next": v}
	}
	root := Build("root", v)
	n := root
	for n.Composite() {
		require.Len(t, n.Children, 1)
		n = n.Children[0]
	}
	assert.Equal(t, "leaf", n.Value)
}
