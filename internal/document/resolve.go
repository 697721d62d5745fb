package document

import (
	"context"
	"strings"
)

// ResolutionKind identifies the token under the cursor.
type ResolutionKind string

const (
	// ResolvedBlock is a top-level block header.
	ResolvedBlock ResolutionKind = "block"
	// ResolvedSubBlock is a sub-block header.
	ResolvedSubBlock ResolutionKind = "subblock"
	// ResolvedType is the value of a type parameter.
	ResolvedType ResolutionKind = "type"
	// ResolvedParameter is a parameter name.
	ResolvedParameter ResolutionKind = "parameter"
	// ResolvedValue is a parameter value token.
	ResolvedValue ResolutionKind = "value"
)

// Resolution describes the token under a cursor position. Entry is set
// when the token is, or resolves to, a definition; for a
// reference-typed value it carries the definition with empty refs, the
// reverse direction being the reference-to-definition jump.
type Resolution struct {
	Kind        ResolutionKind  `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Entry       *ReferenceEntry `json:"entry,omitempty"`
}

// Resolve identifies the token at the given position: block header,
// sub-block header, type token, parameter name, or parameter value.
// Returns nil when the cursor is on nothing resolvable.
func (a *Analyzer) Resolve(ctx context.Context, doc Accessor, pos Position) (*Resolution, error) {
	out, err := a.Outline(ctx, doc)
	if err != nil {
		return nil, err
	}
	entries := a.buildReferences(ctx, doc, out)

	for _, top := range out.Blocks {
		if res := a.resolveInBlock(ctx, doc, top, nil, pos, entries); res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// resolveInBlock checks one block (and its children) for the cursor.
func (a *Analyzer) resolveInBlock(ctx context.Context, doc Accessor, blk *Block, parent *Block, pos Position, entries map[string]*ReferenceEntry) *Resolution {
	if IsPositionInRange(pos, blk.HeaderRange()) {
		res := &Resolution{
			Kind:        ResolvedBlock,
			Name:        blk.Name,
			Description: blk.Description,
		}
		if blk.Level == 2 {
			res.Kind = ResolvedSubBlock
			if parent != nil {
				if entry, ok := entries[parent.Name+"/"+blk.Name]; ok {
					res.Entry = entry
				}
			}
		}
		return res
	}

	for _, p := range blk.Parameters {
		if !IsPositionInRange(pos, Range{Start: p.Start, End: p.End}) {
			continue
		}
		return a.resolveParam(ctx, doc, blk, parent, p, pos, entries)
	}

	for _, child := range blk.Children {
		if res := a.resolveInBlock(ctx, doc, child, blk, pos, entries); res != nil {
			return res
		}
	}
	return nil
}

// resolveParam distinguishes the name span, a type value, and a
// reference-typed value token.
func (a *Analyzer) resolveParam(ctx context.Context, doc Accessor, blk *Block, parent *Block, p *Parameter, pos Position, entries map[string]*ReferenceEntry) *Resolution {
	nameEnd := Position{Row: p.Start.Row, Col: p.Start.Col + len(p.Name)}
	if ComparePositions(pos, nameEnd) <= 0 {
		return &Resolution{
			Kind:        ResolvedParameter,
			Name:        p.Name,
			Description: p.Description,
		}
	}

	tok := wordAt(doc.TextForRow(pos.Row), pos.Col)
	if tok == "" {
		return &Resolution{Kind: ResolvedValue, Name: stripQuotes(p.Value)}
	}

	if p.Name == "type" {
		res := &Resolution{Kind: ResolvedType, Name: tok}
		configPath := blockConfigPath(blk, parent)
		for _, n := range a.db.ListTypeNodes(ctx, configPath) {
			if n.Name() == tok {
				res.Description = n.Description
				break
			}
		}
		return res
	}

	res := &Resolution{Kind: ResolvedValue, Name: tok}
	types := a.paramTypes(ctx, blk, blockConfigPath(blk, parent))
	for _, ns := range refNamespaces(baseStructuralType(types[p.Name])) {
		if entry, ok := entries[ns+"/"+tok]; ok {
			res.Entry = &ReferenceEntry{Definition: entry.Definition}
			res.Description = entry.Definition.Description
			break
		}
	}
	return res
}

// blockConfigPath returns the schema path of a block within its parent.
func blockConfigPath(blk *Block, parent *Block) []string {
	if parent != nil && parent.Name != "" {
		return []string{parent.Name, blk.Name}
	}
	if blk.Name == "" {
		return nil
	}
	return []string{blk.Name}
}

// wordAt extracts the identifier containing or immediately preceding the
// column.
func wordAt(line string, col int) string {
	at := colToByte(line, col)
	start := at
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	end := at
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	return strings.TrimSpace(line[start:end])
}
