package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/deckard/internal/schema"
)

// dialectParams are understood by the application for every block and are
// not always present in the schema dump.
var dialectParams = map[string]bool{
	"active":   true,
	"inactive": true,
}

// checkBlock runs the schema cross-checks for a block as it closes:
// block-name membership, parameter membership, missing required
// parameters, and active-list references. Checks are skipped entirely
// when no schema is loaded.
func (a *Analyzer) checkBlock(ctx context.Context, out *Outline, blk *Block, configPath []string) {
	a.checkActive(out, blk)

	if len(configPath) == 0 || !a.db.Ready(ctx) {
		return
	}

	m := a.db.MatchPath(ctx, configPath)
	if m == nil {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Kind:  KindDBCheck,
			Range: blk.HeaderRange(),
			Msg:   fmt.Sprintf("block name %q does not exist in the syntax database", strings.Join(configPath, "/")),
		})
		return
	}
	blk.Description = m.Node.Description

	explicitType := ""
	if tp := blk.Find("type"); tp != nil {
		explicitType = stripQuotes(tp.Value)
	}
	params := a.db.ListParameters(ctx, configPath, explicitType)

	known := make(map[string]string, len(params))
	for _, p := range params {
		if _, ok := known[p.Name]; !ok {
			known[p.Name] = p.Description
		}
	}

	for _, p := range blk.Parameters {
		if dialectParams[p.Name] {
			continue
		}
		desc, ok := known[p.Name]
		if !ok {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Kind: KindDBCheck,
				Range: Range{
					Start: p.Start,
					End:   Position{Row: p.Start.Row, Col: p.Start.Col + len(p.Name)},
				},
				Msg: fmt.Sprintf("parameter name %q not found for this block", p.Name),
			})
			continue
		}
		p.Description = desc
	}

	a.checkRequired(out, blk, params)
}

// checkRequired emits one diagnostic listing every required schema
// parameter the closed block is missing, with an insertion snippet the
// caller can apply after the opening tag.
func (a *Analyzer) checkRequired(out *Outline, blk *Block, params []*schema.ParamNode) {
	var missing []*schema.ParamNode
	seen := make(map[string]bool)
	for _, p := range params {
		if !p.Required || seen[p.Name] || blk.Find(p.Name) != nil {
			continue
		}
		seen[p.Name] = true
		missing = append(missing, p)
	}
	if len(missing) == 0 {
		return
	}

	names := make([]string, len(missing))
	indent := strings.Repeat(" ", blk.Level*a.tabWidth)
	var snippet strings.Builder
	for i, p := range missing {
		names[i] = p.Name
		def := p.Default
		if def == "" {
			def = "''"
		}
		snippet.WriteString("\n")
		snippet.WriteString(indent)
		snippet.WriteString(p.Name)
		snippet.WriteString(" = ")
		snippet.WriteString(def)
	}

	out.Diagnostics = append(out.Diagnostics, Diagnostic{
		Kind:  KindDBCheck,
		Range: blk.HeaderRange(),
		Msg:   fmt.Sprintf("required parameter(s) missing: %s", strings.Join(names, ", ")),
		Correction: &Correction{
			Kind: CorrectionInsertAfter,
			Text: snippet.String(),
		},
	})
}

// checkActive validates an active = '...' parameter against the block's
// actual children and records the suppressed siblings.
func (a *Analyzer) checkActive(out *Outline, blk *Block) {
	p := blk.Find("active")
	if p == nil {
		return
	}

	names := strings.Fields(stripQuotes(p.Value))
	active := make(map[string]bool, len(names))
	for _, name := range names {
		active[name] = true
		if blk.Child(name) == nil {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Kind:  KindRefCheck,
				Range: Range{Start: p.Start, End: p.End},
				Msg:   fmt.Sprintf("active parameter references non-existent sub-block %q", name),
			})
		}
	}
	for _, child := range blk.Children {
		if !active[child.Name] {
			blk.Inactive = append(blk.Inactive, child.Name)
		}
	}
}
