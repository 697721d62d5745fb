package document

import (
	"context"
	"regexp"
	"strings"
)

// Definition conventions: sub-blocks under these top blocks declare
// entities other parameters can reference by bare name.
const (
	nsVariables    = "Variables"
	nsAuxVariables = "AuxVariables"
	nsMaterials    = "Materials"
)

var (
	// reDerivative matches the derivative-expression form D[name,var].
	reDerivative = regexp.MustCompile(`^D\[([A-Za-z_]\w*)\s*,`)
	// reCallExpr matches name(args) property expressions.
	reCallExpr = regexp.MustCompile(`^([A-Za-z_]\w*)\(`)
	// reIdent matches a plain identifier.
	reIdent = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// References builds the definition/reference map for the document: every
// declared variable and material property, each with the positions that
// reference it, in document order.
func (a *Analyzer) References(ctx context.Context, doc Accessor) (map[string]*ReferenceEntry, error) {
	out, err := a.Outline(ctx, doc)
	if err != nil {
		return nil, err
	}
	return a.buildReferences(ctx, doc, out), nil
}

// buildReferences runs the two passes over an already-built outline:
// definition extraction, then structural-type-filtered reference
// collection. A textual duplicate never replaces an existing definition.
func (a *Analyzer) buildReferences(ctx context.Context, doc Accessor, out *Outline) map[string]*ReferenceEntry {
	entries := make(map[string]*ReferenceEntry)

	define := func(ns, name string, pos Position, desc, typeName string) {
		key := ns + "/" + name
		if _, exists := entries[key]; exists {
			return
		}
		entries[key] = &ReferenceEntry{
			Definition: Definition{
				Key:         key,
				Position:    pos,
				Description: desc,
				Type:        typeName,
				File:        doc.Path(),
			},
		}
	}

	for _, top := range out.Blocks {
		switch top.Name {
		case nsVariables, nsAuxVariables:
			for _, child := range top.Children {
				define(top.Name, child.Name, child.Start, child.Description, blockType(child))
			}
		case nsMaterials:
			for _, child := range top.Children {
				names, isDefault := materialPropertyNames(child)
				typeName := ""
				if isDefault {
					typeName = blockType(child)
				}
				for _, name := range names {
					define(nsMaterials, name, child.Start, child.Description, typeName)
				}
			}
		}
	}

	if a.db.Ready(ctx) {
		a.collectRefs(ctx, doc, out, entries)
	}
	return entries
}

// blockType returns a block's declared type, or "".
func blockType(blk *Block) string {
	if p := blk.Find("type"); p != nil {
		return stripQuotes(p.Value)
	}
	return ""
}

// materialPropertyNames extracts the property names a Materials sub-block
// defines. An explicit naming parameter wins over the block's own name;
// property-expression identifiers are always additional definitions.
// isDefault reports that the block's own name was used.
func materialPropertyNames(blk *Block) (names []string, isDefault bool) {
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	named := false
	for _, key := range []string{"f_name", "function_name"} {
		if p := blk.Find(key); p != nil && p.HasValue {
			add(strings.TrimSpace(stripQuotes(p.Value)))
			named = true
			break
		}
	}
	if p := blk.Find("prop_names"); p != nil && p.HasValue {
		for _, tok := range strings.Fields(stripQuotes(p.Value)) {
			add(tok)
		}
		named = true
	}
	if p := blk.Find("material_property_names"); p != nil && p.HasValue {
		for _, tok := range strings.Fields(stripQuotes(p.Value)) {
			add(propertyIdentifier(tok))
		}
		named = true
	}

	if !named {
		add(blk.Name)
		return names, true
	}
	return names, false
}

// propertyIdentifier extracts the base property identifier from one
// property-expression token, handling name(args) and D[name,var] forms.
func propertyIdentifier(tok string) string {
	if m := reDerivative.FindStringSubmatch(tok); m != nil {
		return m[1]
	}
	if m := reCallExpr.FindStringSubmatch(tok); m != nil {
		return m[1]
	}
	if reIdent.MatchString(tok) {
		return tok
	}
	return ""
}

// refNamespaces maps a parameter's base structural type to the
// namespaces its values resolve against. A VariableName-typed value only
// resolves against variables, never materials.
func refNamespaces(baseType string) []string {
	switch {
	case strings.HasSuffix(baseType, "VariableName"):
		return []string{nsVariables, nsAuxVariables}
	case baseType == "MaterialPropertyName":
		return []string{nsMaterials}
	}
	return nil
}

// collectRefs appends a reference for every parameter value naming a
// defined entity, filtered by the parameter's structural type.
func (a *Analyzer) collectRefs(ctx context.Context, doc Accessor, out *Outline, entries map[string]*ReferenceEntry) {
	var visit func(blk *Block, configPath []string)
	visit = func(blk *Block, configPath []string) {
		types := a.paramTypes(ctx, blk, configPath)

		for _, p := range blk.Parameters {
			nss := refNamespaces(baseStructuralType(types[p.Name]))
			if nss == nil || !p.HasValue {
				continue
			}
			for _, tok := range strings.Fields(stripQuotes(p.Value)) {
				for _, ns := range nss {
					entry, ok := entries[ns+"/"+tok]
					if !ok {
						continue
					}
					entry.Refs = append(entry.Refs, a.valuePosition(doc, p, tok))
					break
				}
			}
		}

		for _, child := range blk.Children {
			visit(child, append(configPath[:len(configPath):len(configPath)], child.Name))
		}
	}

	for _, top := range out.Blocks {
		if top.Name == "" {
			continue
		}
		visit(top, []string{top.Name})
	}
}

// paramTypes resolves the structural type of each parameter of a block.
func (a *Analyzer) paramTypes(ctx context.Context, blk *Block, configPath []string) map[string]string {
	params := a.db.ListParameters(ctx, configPath, blockType(blk))
	types := make(map[string]string, len(params))
	for _, p := range params {
		if _, ok := types[p.Name]; !ok {
			types[p.Name] = p.CppType
		}
	}
	return types
}

// valuePosition locates a value token within a parameter's span,
// falling back to the parameter start when the token is not found.
func (a *Analyzer) valuePosition(doc Accessor, p *Parameter, tok string) Position {
	for row := p.Start.Row; row <= p.End.Row; row++ {
		line := doc.TextForRow(row)
		from := 0
		if row == p.Start.Row {
			if eq := strings.IndexByte(line, '='); eq >= 0 {
				from = eq + 1
			}
		}
		if i := indexWord(line, from, tok); i >= 0 {
			return Position{Row: row, Col: byteToCol(line, i)}
		}
	}
	return p.Start
}

// indexWord finds tok in line at or after from, on word boundaries.
func indexWord(line string, from int, tok string) int {
	for i := from; i+len(tok) <= len(line); i++ {
		j := strings.Index(line[i:], tok)
		if j < 0 {
			return -1
		}
		start := i + j
		end := start + len(tok)
		beforeOK := start == 0 || !isWordByte(line[start-1])
		afterOK := end == len(line) || !isWordByte(line[end])
		if beforeOK && afterOK {
			return start
		}
		i = start
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
