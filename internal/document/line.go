package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// tokenKind classifies one comment-stripped, trimmed line of a deck.
type tokenKind int

const (
	tokenNone tokenKind = iota
	tokenOpenTop
	tokenCloseTop
	tokenOpenSub
	tokenCloseSub
	tokenParam
)

// token is the result of classifying one line.
type token struct {
	kind tokenKind
	// name is the block name for open tokens, the key for parameters.
	name string
	// value is the raw parameter value, possibly quoted.
	value    string
	hasValue bool
	// indent is the column of the first non-whitespace character.
	indent int
	// nameCol is the column the name starts at.
	nameCol int
}

var (
	reOpenTop  = regexp.MustCompile(`^\[([A-Za-z0-9_\-]+)\]`)
	reCloseTop = regexp.MustCompile(`^\[\]`)
	reOpenSub  = regexp.MustCompile(`^\[\./([A-Za-z0-9_\-]+)\]`)
	reCloseSub = regexp.MustCompile(`^\[\.\./\]`)
	reParam    = regexp.MustCompile(`^([A-Za-z0-9_\-]+)\s*=\s*(.*)$`)
)

// stripComment removes everything from the first '#' onward.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// lineEndCol is the column just past a line's content, excluding any
// trailing comment and the whitespace before it.
func lineEndCol(line string) int {
	text := strings.TrimRight(stripComment(line), " \t")
	return utf8.RuneCountInString(text)
}

// leadingWhitespace returns the number of leading space/tab characters.
func leadingWhitespace(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}

// classifyLine tokenizes one raw line. Lines that are neither bracket
// tags nor parameters classify as tokenNone and are ignored by the
// outline pass.
func classifyLine(raw string) token {
	stripped := stripComment(raw)
	indent := leadingWhitespace(stripped)
	trimmed := strings.TrimSpace(stripped)

	tok := token{kind: tokenNone, indent: indent, nameCol: indent}
	if trimmed == "" {
		return tok
	}

	switch {
	case reCloseSub.MatchString(trimmed):
		tok.kind = tokenCloseSub
	case reCloseTop.MatchString(trimmed):
		tok.kind = tokenCloseTop
	case reOpenSub.MatchString(trimmed):
		m := reOpenSub.FindStringSubmatch(trimmed)
		tok.kind = tokenOpenSub
		tok.name = m[1]
	case reOpenTop.MatchString(trimmed):
		m := reOpenTop.FindStringSubmatch(trimmed)
		tok.kind = tokenOpenTop
		tok.name = m[1]
	default:
		if m := reParam.FindStringSubmatch(trimmed); m != nil {
			tok.kind = tokenParam
			tok.name = m[1]
			tok.value = strings.TrimSpace(m[2])
			tok.hasValue = tok.value != ""
		}
	}
	return tok
}

// hasOpenQuote reports whether a parameter value opens a quoted string
// without closing it on the same line, which continues the value on the
// following lines.
func hasOpenQuote(value string) (byte, bool) {
	if value == "" {
		return 0, false
	}
	q := value[0]
	if q != '\'' && q != '"' {
		return 0, false
	}
	if strings.Count(value, string(q))%2 == 1 {
		return q, true
	}
	return 0, false
}

// stripQuotes removes one level of surrounding quotes from a value.
func stripQuotes(value string) string {
	if len(value) >= 2 {
		q := value[0]
		if (q == '\'' || q == '"') && value[len(value)-1] == q {
			return value[1 : len(value)-1]
		}
	}
	return strings.Trim(value, `'"`)
}
