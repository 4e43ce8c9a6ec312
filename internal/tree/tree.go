// Package tree renders arbitrary JSON-like values as a togglable tree. It is
// the generic fallback renderer and the raw-data inspector for every report.
package tree

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind is the JSON type of a node, used for type-based styling.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
)

// Node is one rendered value. Composite nodes carry children and a count;
// scalar nodes carry a display value. URL is set when a string value parses
// as an absolute http/https URL, so the presentation layer can link it.
type Node struct {
	Path     string  `json:"path"`
	Label    string  `json:"label"`
	Kind     Kind    `json:"kind"`
	Value    string  `json:"value,omitempty"`
	URL      string  `json:"url,omitempty"`
	Count    int     `json:"count,omitempty"`
	Children []*Node `json:"children,omitempty"`

	raw any
}

// Build constructs the node tree for a freshly-deserialized JSON value.
// Object keys are visited in sorted order so repeated builds are identical.
// Inputs are acyclic by contract (deserialized documents, never graphs).
func Build(label string, value any) *Node {
	return build(label, label, value)
}

func build(path, label string, value any) *Node {
	n := &Node{Path: path, Label: label, raw: value}

	switch v := value.(type) {
	case nil:
		n.Kind = KindNull
		n.Value = "null"
	case bool:
		n.Kind = KindBoolean
		n.Value = strconv.FormatBool(v)
	case float64:
		n.Kind = KindNumber
		n.Value = strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		n.Kind = KindNumber
		n.Value = v.String()
	case string:
		n.Kind = KindString
		n.Value = v
		if u, err := url.Parse(v); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			n.URL = v
		}
	case []any:
		n.Kind = KindArray
		n.Count = len(v)
		n.Children = make([]*Node, 0, len(v))
		for i, item := range v {
			childPath := fmt.Sprintf("%s[%d]", path, i)
			n.Children = append(n.Children, build(childPath, strconv.Itoa(i), item))
		}
	case map[string]any:
		n.Kind = KindObject
		n.Count = len(v)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n.Children = make([]*Node, 0, len(keys))
		for _, k := range keys {
			n.Children = append(n.Children, build(path+"."+k, k, v[k]))
		}
	default:
		// Anything else (typed structs that slipped through) is stringified.
		n.Kind = KindString
		n.Value = fmt.Sprintf("%v", v)
	}

	return n
}

// Composite reports whether the node has a toggle (objects and arrays).
func (n *Node) Composite() bool {
	return n.Kind == KindObject || n.Kind == KindArray
}

// Preview is the item-count header shown next to a composite's toggle.
func (n *Node) Preview() string {
	switch n.Kind {
	case KindObject:
		if n.Count == 1 {
			return "{1 key}"
		}
		return fmt.Sprintf("{%d keys}", n.Count)
	case KindArray:
		if n.Count == 1 {
			return "[1 item]"
		}
		return fmt.Sprintf("[%d items]", n.Count)
	default:
		return ""
	}
}

// Render produces an indented text form of the tree honoring the given
// state: collapsed composites show only their header preview. Rendering
// never mutates the node or the state, so repeated calls are identical.
func (n *Node) Render(s *State) string {
	var b strings.Builder
	n.render(&b, s, 0)
	return b.String()
}

func (n *Node) render(b *strings.Builder, s *State, depth int) {
	indent := strings.Repeat("  ", depth)

	if !n.Composite() {
		value := n.Value
		if n.URL != "" {
			value = "<" + n.URL + ">"
		}
		fmt.Fprintf(b, "%s%s: %s\n", indent, n.Label, value)
		return
	}

	marker := "+"
	if s.Expanded(n.Path) {
		marker = "-"
	}
	fmt.Fprintf(b, "%s%s %s %s\n", indent, marker, n.Label, n.Preview())
	if !s.Expanded(n.Path) {
		return
	}
	for _, child := range n.Children {
		child.render(b, s, depth+1)
	}
}

// Serialize returns the node's underlying value as pretty-printed JSON with
// 2-space indentation. Map keys serialize in sorted order, so output is
// stable across calls. Copy-to-clipboard and file export both rely on this.
func (n *Node) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(n.raw, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "tree: serialize subtree")
	}
	return data, nil
}

// Find returns the node at the given path, or nil.
func (n *Node) Find(path string) *Node {
	if n.Path == path {
		return n
	}
	for _, child := range n.Children {
		if strings.HasPrefix(path, child.Path) {
			if found := child.Find(path); found != nil {
				return found
			}
		}
	}
	return nil
}
