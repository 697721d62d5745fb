package document

import (
	"regexp"
	"strings"
)

// reTypeLine matches a type = X parameter line with at least a partial
// value.
var reTypeLine = regexp.MustCompile(`^type\s*=\s*['"]?([A-Za-z0-9_\-]+)`)

// ConfigPath resolves the effective schema path for a cursor position by
// scanning upward from the cursor's row: [./x] tags prepend a segment,
// a [Name] tag prepends its name and terminates the scan, [] means the
// cursor sits outside any block. A type = X line seen in the innermost
// block is returned as the explicit type. Comments are stripped on every
// scanned line. The result matches the effective path the outline pass
// assigns to that row.
func (a *Analyzer) ConfigPath(doc Accessor, pos Position) (configPath []string, explicitType string) {
	skip := 0

	for row := pos.Row; row >= 0; row-- {
		line := doc.TextForRow(row)
		if row == pos.Row {
			line = line[:colToByte(line, pos.Col)]
		}
		trimmed := strings.TrimSpace(stripComment(line))
		if trimmed == "" {
			continue
		}

		switch {
		case reCloseSub.MatchString(trimmed):
			// A closed sub-block above the cursor: its open tag must
			// not contribute a segment.
			skip++

		case reOpenSub.MatchString(trimmed):
			if skip > 0 {
				skip--
				continue
			}
			name := reOpenSub.FindStringSubmatch(trimmed)[1]
			configPath = append([]string{name}, configPath...)

		case reOpenTop.MatchString(trimmed):
			name := reOpenTop.FindStringSubmatch(trimmed)[1]
			configPath = append([]string{name}, configPath...)
			return configPath, explicitType

		case reCloseTop.MatchString(trimmed):
			// Cursor is outside any block.
			return nil, ""

		default:
			if row == pos.Row {
				continue
			}
			if m := reTypeLine.FindStringSubmatch(trimmed); m != nil {
				// Only a type declared in the cursor's own innermost
				// block applies.
				if explicitType == "" && skip == 0 && len(configPath) == 0 {
					explicitType = m[1]
				}
			}
		}
	}

	return nil, ""
}
