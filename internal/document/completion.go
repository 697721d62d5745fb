package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dshills/deckard/internal/schema"
)

// CompletionKind tags a completion item. Only the fields valid for a
// given tag are populated.
type CompletionKind string

const (
	// CompletionBlock is a sub-block or top-level block name.
	CompletionBlock CompletionKind = "block"
	// CompletionCloser closes the current sub-block.
	CompletionCloser CompletionKind = "closer"
	// CompletionParameter is a parameter name for the current block.
	CompletionParameter CompletionKind = "parameter"
	// CompletionType is a valid type name for the current block.
	CompletionType CompletionKind = "type"
	// CompletionValue is a candidate value for the current parameter.
	CompletionValue CompletionKind = "value"
)

// InsertText is what gets inserted when an item is accepted. Snippet
// text uses ${n:placeholder} tab stops.
type InsertText struct {
	Snippet bool   `json:"snippet"`
	Text    string `json:"text"`
}

// CompletionItem is one completion result.
type CompletionItem struct {
	Kind        CompletionKind `json:"kind"`
	Display     string         `json:"display"`
	Insert      InsertText     `json:"insert"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required,omitempty"`
}

// CompletionList is the result of one completion request. Prefix is the
// already-typed identifier/bracket text immediately before the cursor,
// shared by every item so the caller can perform prefix-aware
// replacement.
type CompletionList struct {
	Items  []CompletionItem `json:"items"`
	Prefix string           `json:"prefix"`
}

var (
	reBracketCtx = regexp.MustCompile(`\[([\w./\-]*)$`)
	reTypeCtx    = regexp.MustCompile(`^\s*type\s*=\s*['"]?([\w\-]*)$`)
	reValueCtx   = regexp.MustCompile(`^\s*([\w\-]+)\s*=\s*(.*)$`)
	reNameCtx    = regexp.MustCompile(`^\s*([\w\-]*)$`)
	rePrefix     = regexp.MustCompile(`[\w.\[/\-]*$`)
)

// outputNames are the values accepted by OutputName-typed parameters.
var outputNames = []string{
	"exodus", "console", "csv", "gmv", "gnuplot", "nemesis", "tecplot", "vtk", "xda", "xdr",
}

// Complete classifies the cursor context and returns the matching
// completion items. The context is decided by the text up to the cursor
// and the schema path resolved for the cursor row.
func (a *Analyzer) Complete(ctx context.Context, doc Accessor, pos Position) (*CompletionList, error) {
	line := doc.TextForRow(pos.Row)
	before := stripComment(line[:colToByte(line, pos.Col)])

	configPath, explicitType := a.ConfigPath(doc, pos)
	list := &CompletionList{Prefix: rePrefix.FindString(before)}

	switch {
	case reBracketCtx.MatchString(before):
		list.Items = a.completeBlocks(ctx, configPath)

	case reTypeCtx.MatchString(before):
		list.Items = a.completeTypes(ctx, configPath)
		if list.Items == nil {
			// Schemas where type is a literal enum parameter rather
			// than a polymorphic dispatch.
			list.Items = a.completeValues(ctx, doc, configPath, explicitType, "type", reTypeCtx.FindStringSubmatch(before)[1])
		}

	case reValueCtx.MatchString(before):
		m := reValueCtx.FindStringSubmatch(before)
		list.Items = a.completeValues(ctx, doc, configPath, explicitType, m[1], m[2])

	case reNameCtx.MatchString(before) && len(configPath) > 0:
		list.Items = a.completeParameters(ctx, configPath, explicitType)
	}

	return list, ctx.Err()
}

// completeBlocks offers block names openable at the current path, plus
// the sub-block closing shortcut when nested. Wildcard slots become
// snippets with a placeholder for the user-chosen name.
func (a *Analyzer) completeBlocks(ctx context.Context, configPath []string) []CompletionItem {
	var items []CompletionItem

	if len(configPath) > 0 {
		items = append(items, CompletionItem{
			Kind:    CompletionCloser,
			Display: "../",
			Insert:  InsertText{Text: "[../]"},
		})
	}

	seen := make(map[string]bool)
	for _, path := range a.db.ListSubBlockPaths(ctx, configPath) {
		segs := schema.SplitPath(path)
		if len(segs) <= len(configPath) {
			continue
		}
		seg := segs[len(configPath)]
		if seen[seg] {
			continue
		}
		seen[seg] = true

		nested := len(configPath) > 0
		switch {
		case seg == "*" && nested:
			items = append(items, CompletionItem{
				Kind:    CompletionBlock,
				Display: "./",
				Insert:  InsertText{Snippet: true, Text: "[./${1:name}]"},
			})
		case seg == "*":
			items = append(items, CompletionItem{
				Kind:    CompletionBlock,
				Display: "*",
				Insert:  InsertText{Snippet: true, Text: "[${1:name}]"},
			})
		case nested:
			items = append(items, CompletionItem{
				Kind:    CompletionBlock,
				Display: seg,
				Insert:  InsertText{Text: "[./" + seg + "]"},
			})
		default:
			items = append(items, CompletionItem{
				Kind:    CompletionBlock,
				Display: seg,
				Insert:  InsertText{Text: "[" + seg + "]"},
			})
		}
	}

	return items
}

// completeTypes offers the valid type names for the current block from
// the typed pseudo-path. Returns nil when the path has no typed subtree.
func (a *Analyzer) completeTypes(ctx context.Context, configPath []string) []CompletionItem {
	nodes := a.db.ListTypeNodes(ctx, configPath)
	if len(nodes) == 0 {
		return nil
	}

	items := make([]CompletionItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, CompletionItem{
			Kind:        CompletionType,
			Display:     n.Name(),
			Insert:      InsertText{Text: n.Name()},
			Description: n.Description,
		})
	}
	return items
}

// completeParameters offers every schema parameter for the current
// block, deduplicated by name with the first occurrence winning, as
// snippets defaulting to the schema default.
func (a *Analyzer) completeParameters(ctx context.Context, configPath []string, explicitType string) []CompletionItem {
	params := a.db.ListParameters(ctx, configPath, explicitType)
	if len(params) == 0 {
		return nil
	}

	var items []CompletionItem
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		items = append(items, CompletionItem{
			Kind:        CompletionParameter,
			Display:     p.Name,
			Insert:      InsertText{Snippet: true, Text: paramSnippet(p)},
			Description: p.Description,
			Required:    p.Required,
		})
	}
	return items
}

// paramSnippet builds the insertion snippet for a parameter, with the
// schema default pre-filled when one exists. Boolean defaults normalize
// to true/false; multi-word defaults get quoted.
func paramSnippet(p *schema.ParamNode) string {
	def := p.Default
	if baseStructuralType(p.CppType) == "bool" {
		def = normalizeBool(def)
	}
	if strings.ContainsAny(def, " \t") && !strings.HasPrefix(def, "'") {
		def = "'" + def + "'"
	}
	if def == "" {
		return fmt.Sprintf("%s = $1", p.Name)
	}
	return fmt.Sprintf("%s = ${1:%s}", p.Name, def)
}

// normalizeBool maps the dump's assorted boolean spellings to
// true/false.
func normalizeBool(v string) string {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return "true"
	default:
		return "false"
	}
}

// baseStructuralType unwraps vector-shaped structural types to their
// element type. Vector parameters accept the scalar candidate set inside
// their quoted, space-delimited list.
func baseStructuralType(cppType string) string {
	t := cppType
	for strings.HasPrefix(t, "std::vector<") && strings.HasSuffix(t, ">") {
		t = t[len("std::vector<") : len(t)-1]
	}
	return t
}

// referenceNamespaces maps reference-shaped structural types to the top
// blocks their candidate names are declared in.
func referenceNamespaces(baseType string) (blocks []string, typed bool) {
	switch {
	case strings.HasSuffix(baseType, "VariableName"):
		return []string{"Variables", "AuxVariables"}, false
	case baseType == "FunctionName":
		return []string{"Functions"}, true
	case baseType == "PostprocessorName":
		return []string{"Postprocessors"}, true
	case baseType == "VectorPostprocessorName":
		return []string{"VectorPostprocessors"}, true
	case baseType == "UserObjectName":
		return []string{"UserObjects", "Postprocessors"}, true
	}
	return nil, false
}

// completeValues offers candidates for a parameter value position,
// branched on the parameter's structural type.
func (a *Analyzer) completeValues(ctx context.Context, doc Accessor, configPath []string, explicitType, paramName, partial string) []CompletionItem {
	var param *schema.ParamNode
	for _, p := range a.db.ListParameters(ctx, configPath, explicitType) {
		if p.Name == paramName {
			param = p
			break
		}
	}
	if param == nil {
		return nil
	}

	base := baseStructuralType(param.CppType)

	switch {
	case base == "bool":
		return []CompletionItem{
			{Kind: CompletionValue, Display: "true", Insert: InsertText{Text: "true"}},
			{Kind: CompletionValue, Display: "false", Insert: InsertText{Text: "false"}},
		}

	case base == "MooseEnum" || base == "MultiMooseEnum":
		var items []CompletionItem
		for _, opt := range param.OptionList() {
			items = append(items, CompletionItem{
				Kind:    CompletionValue,
				Display: opt,
				Insert:  InsertText{Text: opt},
			})
		}
		return items

	case base == "OutputName":
		var items []CompletionItem
		for _, name := range outputNames {
			items = append(items, CompletionItem{
				Kind:    CompletionValue,
				Display: name,
				Insert:  InsertText{Text: name},
			})
		}
		return items

	case base == "FileName" || base == "MeshFileName":
		return a.completeFiles(doc)
	}

	if blocks, requireType := referenceNamespaces(base); blocks != nil {
		return a.completeDeclaredNames(ctx, doc, blocks, requireType)
	}
	return nil
}

// completeDeclaredNames scans the document's outline for sub-block names
// declared under the given top blocks. When requireType is set only
// sub-blocks carrying a type parameter qualify, surfaced with a
// "name (type)" description.
func (a *Analyzer) completeDeclaredNames(ctx context.Context, doc Accessor, topBlocks []string, requireType bool) []CompletionItem {
	out, err := a.Outline(ctx, doc)
	if err != nil {
		return nil
	}

	var items []CompletionItem
	for _, top := range out.Blocks {
		if !containsString(topBlocks, top.Name) {
			continue
		}
		for _, child := range top.Children {
			tp := child.Find("type")
			if requireType && tp == nil {
				continue
			}
			item := CompletionItem{
				Kind:    CompletionValue,
				Display: child.Name,
				Insert:  InsertText{Text: child.Name},
			}
			if tp != nil {
				item.Description = fmt.Sprintf("%s (%s)", child.Name, stripQuotes(tp.Value))
			}
			items = append(items, item)
		}
	}
	return items
}

// completeFiles lists the entries of the document's containing folder.
func (a *Analyzer) completeFiles(doc Accessor) []CompletionItem {
	path := doc.Path()
	if path == "" {
		return nil
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		a.reporter.Report(fmt.Errorf("listing document folder: %w", err))
		return nil
	}

	var items []CompletionItem
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		items = append(items, CompletionItem{
			Kind:    CompletionValue,
			Display: name,
			Insert:  InsertText{Text: name},
		})
	}
	return items
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
