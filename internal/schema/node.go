package schema

import "strings"

// SyntaxNode is one node of the schema tree. Path is the full
// slash-separated path from the root; a path segment may be the wildcard
// "*", matching any concrete block name. Nodes are immutable once loaded,
// except for the lazily merged secondary metadata guarded by the DB.
type SyntaxNode struct {
	Path        string
	Description string
	Parameters  []*ParamNode
	Subblocks   []*SyntaxNode
	SourceFile  string

	// merged is set once secondary metadata has been folded in.
	merged bool
}

// ParamNode describes a single parameter of a block.
type ParamNode struct {
	Name        string
	Required    bool
	Default     string
	CppType     string
	GroupName   string
	Description string
	// Options holds space-separated fixed enum values, when the
	// parameter is enum-like.
	Options string
}

// Segments returns the node's path split into segments.
func (n *SyntaxNode) Segments() []string {
	return SplitPath(n.Path)
}

// Name returns the final path segment.
func (n *SyntaxNode) Name() string {
	segs := n.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// IsWildcard reports whether the node's final segment is the wildcard.
func (n *SyntaxNode) IsWildcard() bool {
	return n.Name() == "*"
}

// OptionList returns the fixed enum values as a slice.
func (p *ParamNode) OptionList() []string {
	return strings.Fields(p.Options)
}

// IsRequired reports whether the parameter must be present.
func (p *ParamNode) IsRequired() bool {
	return p.Required
}

// SplitPath splits a slash-separated schema path into segments,
// tolerating a leading slash.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// JoinPath joins path segments into a slash-separated schema path.
func JoinPath(segments []string) string {
	return strings.Join(segments, "/")
}
