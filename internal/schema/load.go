package schema

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Sentinel markers that may wrap the serialized syntax dump. Everything
// outside the markers is discarded before parsing.
var sentinelPairs = [][2]string{
	{"**START YAML DATA**", "**END YAML DATA**"},
	{"**START JSON DATA**", "**END JSON DATA**"},
}

// stripSentinels returns the payload between known begin/end markers, or
// the input unchanged when no marker pair is present.
func stripSentinels(data string) string {
	for _, pair := range sentinelPairs {
		start := strings.Index(data, pair[0])
		if start < 0 {
			continue
		}
		start += len(pair[0])
		end := strings.Index(data[start:], pair[1])
		if end < 0 {
			return data[start:]
		}
		return data[start : start+end]
	}
	return data
}

// parseTree parses a serialized syntax dump into the schema root nodes.
// The dump is either an array of nodes or a single root node object, each
// node shaped {name, description, parameters, subblocks}.
func parseTree(data []byte) ([]*SyntaxNode, error) {
	payload := strings.TrimSpace(stripSentinels(string(data)))
	if payload == "" {
		return nil, fmt.Errorf("%w: empty source", ErrMalformed)
	}
	if !gjson.Valid(payload) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	root := gjson.Parse(payload)
	var nodes []*SyntaxNode
	switch {
	case root.IsArray():
		root.ForEach(func(_, elem gjson.Result) bool {
			if n := parseNode(elem); n != nil {
				nodes = append(nodes, n)
			}
			return true
		})
	case root.IsObject():
		if n := parseNode(root); n != nil {
			nodes = append(nodes, n)
		}
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no syntax nodes", ErrMalformed)
	}
	return nodes, nil
}

// parseNode converts one dump object into a SyntaxNode. Objects without a
// name are skipped.
func parseNode(r gjson.Result) *SyntaxNode {
	name := strings.Trim(r.Get("name").String(), "/")
	if name == "" {
		return nil
	}

	node := &SyntaxNode{
		Path:        name,
		Description: r.Get("description").String(),
		SourceFile:  r.Get("register_file").String(),
	}

	r.Get("parameters").ForEach(func(_, p gjson.Result) bool {
		if pn := parseParam(p); pn != nil {
			node.Parameters = append(node.Parameters, pn)
		}
		return true
	})

	r.Get("subblocks").ForEach(func(_, sb gjson.Result) bool {
		if child := parseNode(sb); child != nil {
			node.Subblocks = append(node.Subblocks, child)
		}
		return true
	})

	return node
}

// parseParam converts one dump parameter object into a ParamNode.
func parseParam(r gjson.Result) *ParamNode {
	name := r.Get("name").String()
	if name == "" {
		return nil
	}
	return &ParamNode{
		Name:        name,
		Required:    parseRequired(r.Get("required")),
		Default:     r.Get("default").String(),
		CppType:     r.Get("cpp_type").String(),
		GroupName:   r.Get("group_name").String(),
		Description: r.Get("description").String(),
		Options:     r.Get("options").String(),
	}
}

// parseRequired accepts the dump's "Yes"/"No" convention as well as
// plain booleans.
func parseRequired(r gjson.Result) bool {
	switch strings.ToLower(r.String()) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

// escapeQueryPath escapes a schema path for use as a gjson key query, so
// wildcard and separator characters in block paths are taken literally.
func escapeQueryPath(path string) string {
	var b strings.Builder
	for _, r := range path {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// secondaryLookup reads the lazily merged per-node metadata for a schema
// path from the raw secondary resource. Returns empty strings when the
// resource has no entry for the path.
func secondaryLookup(raw []byte, path string) (description, registerFile string) {
	if len(raw) == 0 {
		return "", ""
	}
	entry := gjson.GetBytes(raw, escapeQueryPath(path))
	if !entry.Exists() {
		return "", ""
	}
	return entry.Get("description").String(), entry.Get("register_file").String()
}
