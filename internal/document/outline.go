package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/deckard/internal/report"
	"github.com/dshills/deckard/internal/schema"
)

// Analyzer runs document analysis against a schema database. It holds no
// per-document state; every call recomputes from the buffer.
type Analyzer struct {
	db       *schema.DB
	logger   *report.Logger
	reporter report.Reporter
	tabWidth int
}

// AnalyzerOption configures the analyzer.
type AnalyzerOption func(*Analyzer)

// WithTabWidth sets the indentation unit used by the formatting pass.
func WithTabWidth(w int) AnalyzerOption {
	return func(a *Analyzer) {
		if w > 0 {
			a.tabWidth = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *report.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithReporter sets the error reporting channel.
func WithReporter(r report.Reporter) AnalyzerOption {
	return func(a *Analyzer) {
		a.reporter = r
	}
}

// NewAnalyzer creates an analyzer over the given schema database.
func NewAnalyzer(db *schema.DB, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		db:       db,
		logger:   report.NullLogger,
		tabWidth: 2,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.reporter == nil {
		a.reporter = report.NewLogReporter(a.logger)
	}
	return a
}

// TabWidth returns the indentation unit.
func (a *Analyzer) TabWidth() int {
	return a.tabWidth
}

// Outline runs the full one-pass analysis: block tree, structural
// diagnostics, and schema cross-checks. The pass never aborts on an
// error; it recovers and keeps accumulating.
func (a *Analyzer) Outline(ctx context.Context, doc Accessor) (*Outline, error) {
	b := &outlineBuilder{a: a, ctx: ctx, doc: doc, out: &Outline{}}
	b.run()
	return b.out, ctx.Err()
}

// outlineBuilder is the state machine over the document's lines. State is
// encoded by which of top/sub are non-nil: OUTSIDE (both nil), IN_TOP
// (top only), IN_SUB (both set).
type outlineBuilder struct {
	a   *Analyzer
	ctx context.Context
	doc Accessor
	out *Outline

	top *Block
	sub *Block
}

func (b *outlineBuilder) run() {
	last := b.doc.LineCount() - 1

	for row := 0; row <= last; row++ {
		line := b.doc.TextForRow(row)
		tok := classifyLine(line)

		switch tok.kind {
		case tokenOpenTop:
			if b.top != nil {
				b.closure(tagRange(row, tok), "block opened before previous closed")
				b.forceCloseAll(row - 1)
			}
			b.pushTop(row, tok)

		case tokenCloseTop:
			switch {
			case b.sub != nil:
				b.closure(tagRange(row, tok), "closed parent block before closing children")
				b.closeSub(endOfTag(row, tok))
				b.closeTop(endOfTag(row, tok))
			case b.top != nil:
				b.closeTop(endOfTag(row, tok))
			default:
				b.closure(tagRange(row, tok), "closed block before opening one")
			}

		case tokenOpenSub:
			if b.top == nil {
				b.closure(tagRange(row, tok), "opening sub-block before main block")
				b.top = &Block{Level: 1, Start: Position{Row: row, Col: tok.indent}}
				b.out.Blocks = append(b.out.Blocks, b.top)
			}
			if b.sub != nil {
				b.closure(tagRange(row, tok), "block opened before previous closed")
				b.closeSub(endOfRow(b.doc, row-1))
			}
			b.pushSub(row, tok)

		case tokenCloseSub:
			if b.sub != nil {
				b.closeSub(endOfTag(row, tok))
			} else {
				b.closure(tagRange(row, tok), "closing sub-block when outside or inside main block")
			}

		case tokenParam:
			if b.top != nil {
				row = b.attachParam(row, line, tok)
			}
		}
	}

	if b.top != nil {
		eof := endOfRow(b.doc, last)
		b.closure(Range{Start: eof, End: eof}, "block(s) unclosed")
		b.forceCloseAll(last)
	}
}

// pushTop opens a new level-1 block, flagging sibling name collisions.
func (b *outlineBuilder) pushTop(row int, tok token) {
	blk := &Block{
		Name:  tok.name,
		Level: 1,
		Start: Position{Row: row, Col: tok.indent},
	}
	for _, sib := range b.out.Blocks {
		if sib.Name == blk.Name {
			b.duplication(blk.HeaderRange(), fmt.Sprintf("duplicate block name %q", blk.Name))
			break
		}
	}
	b.out.Blocks = append(b.out.Blocks, blk)
	b.top = blk
}

// pushSub opens a new level-2 block under the current top block.
func (b *outlineBuilder) pushSub(row int, tok token) {
	blk := &Block{
		Name:  tok.name,
		Level: 2,
		Start: Position{Row: row, Col: tok.indent},
	}
	for _, sib := range b.top.Children {
		if sib.Name == blk.Name {
			b.duplication(blk.HeaderRange(), fmt.Sprintf("duplicate block name %q", blk.Name))
			break
		}
	}
	b.top.Children = append(b.top.Children, blk)
	b.sub = blk
}

// attachParam adds a key = value parameter to the innermost open block.
// A value with an unclosed quote continues over the following rows; the
// returned row is the last row consumed.
func (b *outlineBuilder) attachParam(startRow int, line string, tok token) int {
	blk := b.top
	if b.sub != nil {
		blk = b.sub
	}

	row := startRow
	value := tok.value
	endCol := lineEndCol(line)
	if quote, open := hasOpenQuote(tok.value); open {
		for row < b.doc.LineCount()-1 {
			row++
			next := b.doc.TextForRow(row)
			value += "\n" + next
			if i := strings.IndexByte(next, quote); i >= 0 {
				endCol = byteToCol(next, i+1)
				break
			}
			endCol = byteToCol(next, len(next))
		}
	}

	p := &Parameter{
		Name:     tok.name,
		Value:    value,
		HasValue: tok.hasValue,
		Start:    Position{Row: startRow, Col: tok.indent},
		End:      Position{Row: row, Col: endCol},
	}
	if prev := blk.Find(p.Name); prev != nil {
		b.duplication(
			Range{Start: p.Start, End: Position{Row: startRow, Col: tok.indent + len(p.Name)}},
			fmt.Sprintf("duplicate parameter name %q", p.Name),
		)
	}
	blk.Parameters = append(blk.Parameters, p)
	return row
}

// closeSub closes the current level-2 block and runs its schema checks.
func (b *outlineBuilder) closeSub(end Position) {
	b.sub.End = &end
	b.a.checkBlock(b.ctx, b.out, b.sub, b.configPathOf(b.sub))
	b.sub = nil
}

// closeTop closes the current level-1 block and runs its schema checks.
func (b *outlineBuilder) closeTop(end Position) {
	b.top.End = &end
	b.a.checkBlock(b.ctx, b.out, b.top, b.configPathOf(b.top))
	b.top = nil
}

// forceCloseAll closes anything still open at the given row, innermost
// first. Rows before a block's own start clamp to the start row.
func (b *outlineBuilder) forceCloseAll(row int) {
	closeAt := func(blk *Block) Position {
		r := row
		if r < blk.Start.Row {
			r = blk.Start.Row
		}
		return endOfRow(b.doc, r)
	}
	if b.sub != nil {
		b.closeSub(closeAt(b.sub))
	}
	if b.top != nil {
		b.closeTop(closeAt(b.top))
	}
}

// configPathOf returns the effective schema path for a block.
func (b *outlineBuilder) configPathOf(blk *Block) []string {
	if blk.Level == 2 && b.top != nil {
		if b.top.Name == "" {
			return nil
		}
		return []string{b.top.Name, blk.Name}
	}
	if blk.Name == "" {
		return nil
	}
	return []string{blk.Name}
}

func (b *outlineBuilder) closure(r Range, msg string) {
	b.out.Diagnostics = append(b.out.Diagnostics, Diagnostic{Kind: KindClosure, Range: r, Msg: msg})
}

func (b *outlineBuilder) duplication(r Range, msg string) {
	b.out.Diagnostics = append(b.out.Diagnostics, Diagnostic{Kind: KindDuplication, Range: r, Msg: msg})
}

// tagRange is the span of a bracket tag on a row.
func tagRange(row int, tok token) Range {
	width := tok.indent
	switch tok.kind {
	case tokenOpenTop:
		width += len(tok.name) + 2
	case tokenOpenSub:
		width += len(tok.name) + 4
	case tokenCloseTop:
		width += 2
	case tokenCloseSub:
		width += 5
	}
	return Range{
		Start: Position{Row: row, Col: tok.indent},
		End:   Position{Row: row, Col: width},
	}
}

// endOfTag is the position just past a close tag.
func endOfTag(row int, tok token) Position {
	return tagRange(row, tok).End
}

// endOfRow is the position at the end of a row's text.
func endOfRow(doc Accessor, row int) Position {
	if row < 0 {
		row = 0
	}
	line := doc.TextForRow(row)
	return Position{Row: row, Col: byteToCol(line, len(line))}
}
