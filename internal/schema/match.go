package schema

import (
	"strings"

	"github.com/tidwall/match"
)

// Match is the result of resolving a concrete config path against the
// schema tree.
type Match struct {
	// Node is the schema node the path resolved to.
	Node *SyntaxNode
	// Fuzz counts the wildcard segments consumed by the match. Lower is
	// a more specific match.
	Fuzz int
	// FuzzyOnLast reports whether the final compared segment was a
	// wildcard. Typed-path synthesis depends on it.
	FuzzyOnLast bool
}

// isWildcardSegment reports whether a schema path segment is a pattern
// rather than a literal name.
func isWildcardSegment(seg string) bool {
	return strings.ContainsAny(seg, "*?")
}

// segmentMatches compares one concrete config segment against one schema
// segment. Wildcard segments use pattern matching; literals must be equal.
func segmentMatches(cfgSeg, schemaSeg string) (ok, fuzzy bool) {
	if isWildcardSegment(schemaSeg) {
		return match.Match(cfgSeg, schemaSeg), true
	}
	return cfgSeg == schemaSeg, false
}

// matchNodes walks the schema tree and returns the minimum-fuzz match for
// configPath. Ties are resolved by traversal order: the first node found
// wins. Returns nil when nothing matches.
func matchNodes(nodes []*SyntaxNode, configPath []string) *Match {
	if len(configPath) == 0 {
		return nil
	}

	var best *Match

	var walk func(n *SyntaxNode)
	walk = func(n *SyntaxNode) {
		segs := n.Segments()
		if len(segs) > len(configPath) {
			return
		}

		fuzz := 0
		fuzzyLast := false
		for i, seg := range segs {
			ok, fuzzy := segmentMatches(configPath[i], seg)
			if !ok {
				// A mismatch rules out this whole branch: children
				// share the prefix.
				return
			}
			if fuzzy {
				fuzz++
				fuzzyLast = i == len(segs)-1
			} else if i == len(segs)-1 {
				fuzzyLast = false
			}
		}

		if len(segs) == len(configPath) {
			if best == nil || fuzz < best.Fuzz {
				best = &Match{Node: n, Fuzz: fuzz, FuzzyOnLast: fuzzyLast}
			}
			return
		}

		for _, child := range n.Subblocks {
			walk(child)
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	return best
}

// typedPathCandidates synthesizes the pseudo-paths at which type-specific
// schema data may live for a base path and a resolved type name. When the
// base match was fuzzy on its last segment the wildcard segment is
// replaced; the plain appended form is kept as a fallback since dumps
// differ in where they anchor the <type> subtree.
func typedPathCandidates(configPath []string, typeName string, fuzzyOnLast bool) [][]string {
	appended := make([]string, 0, len(configPath)+2)
	appended = append(appended, configPath...)
	appended = append(appended, typedSegment, typeName)

	if !fuzzyOnLast || len(configPath) == 0 {
		return [][]string{appended}
	}

	replaced := make([]string, 0, len(configPath)+1)
	replaced = append(replaced, configPath[:len(configPath)-1]...)
	replaced = append(replaced, typedSegment, typeName)
	return [][]string{replaced, appended}
}

// typedSegment is the pseudo-segment under which type-specific nodes are
// anchored in the syntax dump.
const typedSegment = "<type>"

// subBlockPaths collects every distinct sub-path under basePath that has
// its own leaf identity: it carries parameters of its own or is a
// wildcard slot for user-named blocks. Typed pseudo-subtrees are not
// sub-blocks and are excluded. Order is tree traversal order.
func subBlockPaths(nodes []*SyntaxNode, basePath []string) []string {
	var out []string
	seen := make(map[string]bool)

	var walk func(n *SyntaxNode)
	walk = func(n *SyntaxNode) {
		segs := n.Segments()
		limit := len(segs)
		if limit > len(basePath) {
			limit = len(basePath)
		}
		for i := 0; i < limit; i++ {
			if ok, _ := segmentMatches(basePath[i], segs[i]); !ok {
				return
			}
		}

		if len(segs) > len(basePath) {
			// Stop at typed pseudo-subtrees.
			for _, seg := range segs[len(basePath):] {
				if strings.HasPrefix(seg, "<") {
					return
				}
			}
			if len(n.Parameters) > 0 || n.IsWildcard() {
				if p := n.Path; !seen[p] {
					seen[p] = true
					out = append(out, p)
				}
			}
		}

		for _, child := range n.Subblocks {
			walk(child)
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	return out
}
