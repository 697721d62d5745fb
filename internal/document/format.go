package document

import (
	"fmt"
	"strings"
)

// Format runs the indentation and blank-line style pass over the
// document. Expected indentation is (blockDepth-1)*tabWidth for opening
// tags, one tab width deeper for parameter lines, and one shallower for
// close tags. Every mismatch carries a replace correction limited to the
// leading-whitespace span, so applying all corrections and re-running
// yields no further diagnostics.
func (a *Analyzer) Format(doc Accessor) []Diagnostic {
	var diags []Diagnostic

	depth := 0
	blankRun := 0
	blankStart := 0

	flushBlanks := func(row int) {
		if blankRun >= 2 {
			diags = append(diags, Diagnostic{
				Kind: KindFormat,
				Range: Range{
					Start: Position{Row: blankStart + 1, Col: 0},
					End:   Position{Row: row, Col: 0},
				},
				Msg:        "multiple blank lines",
				Correction: &Correction{Kind: CorrectionReplace, Text: ""},
			})
		}
		blankRun = 0
	}

	last := doc.LineCount() - 1
	for row := 0; row <= last; row++ {
		line := doc.TextForRow(row)
		tok := classifyLine(line)

		if tok.kind == tokenNone && strings.TrimSpace(line) == "" {
			if blankRun == 0 {
				blankStart = row
			}
			blankRun++
			continue
		}
		flushBlanks(row)

		var want int
		switch tok.kind {
		case tokenOpenTop, tokenCloseTop:
			want = 0
		case tokenOpenSub:
			want = a.tabWidth
		case tokenCloseSub:
			want = a.tabWidth
		case tokenParam:
			want = depth * a.tabWidth
		default:
			// Free text (e.g. a continued quoted value) keeps its
			// indentation.
			a.applyDepth(&depth, tok)
			continue
		}

		if tok.indent != want {
			diags = append(diags, Diagnostic{
				Kind: KindFormat,
				Range: Range{
					Start: Position{Row: row, Col: 0},
					End:   Position{Row: row, Col: tok.indent},
				},
				Msg:        fmt.Sprintf("wrong indentation (expected %d)", want),
				Correction: &Correction{Kind: CorrectionReplace, Text: strings.Repeat(" ", want)},
			})
		}

		a.applyDepth(&depth, tok)
	}
	flushBlanks(last + 1)

	return diags
}

// applyDepth advances the block depth tracker for one classified line.
func (a *Analyzer) applyDepth(depth *int, tok token) {
	switch tok.kind {
	case tokenOpenTop:
		*depth = 1
	case tokenOpenSub:
		*depth = 2
	case tokenCloseSub:
		*depth = 1
	case tokenCloseTop:
		*depth = 0
	}
}
