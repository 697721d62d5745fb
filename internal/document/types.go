package document

import "fmt"

// Position in a document expressed as zero-based row (line index) and
// column (character offset).
type Position struct {
	Row int `json:"row"`
	Col int `json:"column"`
}

// Range is a span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// String returns a compact row:col rendering for log output.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// ComparePositions returns -1 if a < b, 0 if a == b, 1 if a > b.
func ComparePositions(a, b Position) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

// IsPositionBefore returns true if a is before b.
func IsPositionBefore(a, b Position) bool {
	return ComparePositions(a, b) < 0
}

// IsPositionInRange returns true if pos is within the range (inclusive).
func IsPositionInRange(pos Position, rng Range) bool {
	return ComparePositions(pos, rng.Start) >= 0 && ComparePositions(pos, rng.End) <= 0
}

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind string

const (
	// KindClosure marks structural bracket mismatches.
	KindClosure DiagnosticKind = "closure"
	// KindDuplication marks block or parameter name collisions.
	KindDuplication DiagnosticKind = "duplication"
	// KindDBCheck marks schema-membership violations.
	KindDBCheck DiagnosticKind = "dbcheck"
	// KindRefCheck marks dangling references.
	KindRefCheck DiagnosticKind = "refcheck"
	// KindFormat marks indentation and blank-line style issues.
	KindFormat DiagnosticKind = "format"
)

// CorrectionKind describes how a correction's text applies.
type CorrectionKind string

const (
	// CorrectionReplace replaces the diagnostic's range.
	CorrectionReplace CorrectionKind = "replace"
	// CorrectionInsertBefore inserts text before the range.
	CorrectionInsertBefore CorrectionKind = "insertionBefore"
	// CorrectionInsertAfter inserts text after the range.
	CorrectionInsertAfter CorrectionKind = "insertionAfter"
)

// Correction is an unambiguous automatic fix attached to a diagnostic.
type Correction struct {
	Kind CorrectionKind `json:"kind"`
	Text string         `json:"text"`
}

// Diagnostic is one accumulated analysis finding. Diagnostics without a
// safe automatic fix carry a nil Correction.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Range      Range          `json:"range"`
	Msg        string         `json:"msg"`
	Correction *Correction    `json:"correction,omitempty"`
}

// Block is one opened block of the outline: a top-level [Name] section or
// a one-level-nested [./name] sub-block. The dialect supports exactly two
// nesting levels.
type Block struct {
	Name        string       `json:"name"`
	Level       int          `json:"level"`
	Description string       `json:"description,omitempty"`
	Start       Position     `json:"start"`
	End         *Position    `json:"end,omitempty"`
	Children    []*Block     `json:"children,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty"`
	// Inactive lists children suppressed by an active = '...' parameter.
	Inactive []string `json:"inactive,omitempty"`
}

// Parameter is one key = value line inside a block.
type Parameter struct {
	Name        string   `json:"name"`
	Value       string   `json:"value"`
	HasValue    bool     `json:"hasValue"`
	Description string   `json:"description,omitempty"`
	Start       Position `json:"start"`
	End         Position `json:"end"`
}

// Find returns the block's parameter with the given name, or nil. With
// duplicates present the first occurrence wins.
func (b *Block) Find(name string) *Parameter {
	for _, p := range b.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Child returns the block's child with the given name, or nil.
func (b *Block) Child(name string) *Block {
	for _, c := range b.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// HeaderRange returns the range of the block's opening tag.
func (b *Block) HeaderRange() Range {
	width := len(b.Name) + 2 // [Name]
	if b.Level == 2 {
		width = len(b.Name) + 4 // [./name]
	}
	return Range{
		Start: b.Start,
		End:   Position{Row: b.Start.Row, Col: b.Start.Col + width},
	}
}

// Outline is the result of a full document pass: the block tree plus all
// accumulated diagnostics.
type Outline struct {
	Blocks      []*Block     `json:"blocks"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Definition is the declaring occurrence of a named entity.
type Definition struct {
	Key         string   `json:"key"`
	Position    Position `json:"position"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	File        string   `json:"file,omitempty"`
}

// ReferenceEntry pairs one definition with every position that
// references it, in document order.
type ReferenceEntry struct {
	Definition Definition `json:"definition"`
	Refs       []Position `json:"refs"`
}
