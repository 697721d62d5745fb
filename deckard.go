// Package deckard analyzes simulation input decks written in the
// hierarchical bracket dialect and provides the semantic services an
// editor tool needs: outline extraction, syntax and reference
// validation, context-aware completion, and definition/reference
// resolution, all validated against an externally supplied syntax
// database.
//
// The engine consumes documents through the Accessor interface and
// returns plain, serializable data; it never renders UI, writes to
// disk, or executes the simulation application.
//
//	eng, err := deckard.New(deckard.Config{
//	    SchemaPath: "/path/to/syntax.json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc := deckard.NewStringDocument("input.i", content)
//	outline, err := eng.Outline(ctx, doc)
package deckard

import (
	"context"

	"github.com/dshills/deckard/internal/document"
	"github.com/dshills/deckard/internal/report"
	"github.com/dshills/deckard/internal/schema"
)

// Aliases for the engine's result and input types, so callers never
// import the internal packages directly.
type (
	// Accessor abstracts a text buffer with rows and columns.
	Accessor = document.Accessor
	// Position is a zero-based row/column document position.
	Position = document.Position
	// Range is a span between two positions.
	Range = document.Range
	// Outline is the block tree plus accumulated diagnostics.
	Outline = document.Outline
	// Block is one outline block.
	Block = document.Block
	// Parameter is one key = value outline entry.
	Parameter = document.Parameter
	// Diagnostic is one analysis finding.
	Diagnostic = document.Diagnostic
	// CompletionList is the result of a completion request.
	CompletionList = document.CompletionList
	// CompletionItem is one completion result.
	CompletionItem = document.CompletionItem
	// ReferenceEntry pairs a definition with its references.
	ReferenceEntry = document.ReferenceEntry
	// Resolution describes the token under a cursor.
	Resolution = document.Resolution
	// Logger is the engine's structured logger.
	Logger = report.Logger
	// Reporter receives non-fatal engine errors.
	Reporter = report.Reporter
)

// NewStringDocument creates an Accessor over an in-memory buffer.
func NewStringDocument(path, content string) Accessor {
	return document.NewStringDocument(path, content)
}

// Config configures an Engine. All capabilities are explicit: the host
// owns configuration loading and passes the result here.
type Config struct {
	// SchemaPath is the primary syntax dump. Optional at construction;
	// without it every schema-backed check degrades to empty results.
	SchemaPath string
	// SecondarySchemaPath optionally supplies per-node metadata merged
	// lazily into matched nodes.
	SecondarySchemaPath string
	// TabWidth is the indentation unit for the formatting pass.
	// Defaults to 2.
	TabWidth int
	// Logger receives engine logs. Defaults to a silent logger.
	Logger *report.Logger
	// Reporter receives non-fatal errors (schema I/O failures, contract
	// violations). Defaults to forwarding to Logger.
	Reporter report.Reporter
}

// Engine composes the schema database and the document analysis engine.
// It is safe for concurrent use; analysis itself is pure computation
// over the supplied document.
type Engine struct {
	logger   *report.Logger
	db       *schema.DB
	analyzer *document.Analyzer
}

// New creates an engine. When Config.SchemaPath is set the schema load
// starts immediately in the background; the first query awaits it.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = report.NullLogger
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = report.NewLogReporter(logger)
	}

	db := schema.New(
		schema.WithLogger(logger.WithComponent("schema")),
		schema.WithReporter(reporter),
	)
	analyzer := document.NewAnalyzer(db,
		document.WithLogger(logger.WithComponent("document")),
		document.WithReporter(reporter),
		document.WithTabWidth(cfg.TabWidth),
	)

	eng := &Engine{
		logger:   logger,
		db:       db,
		analyzer: analyzer,
	}
	if cfg.SchemaPath != "" {
		db.SetSource(cfg.SchemaPath, cfg.SecondarySchemaPath)
	}
	return eng, nil
}

// SetSchemaPaths revalidates the schema source paths and triggers a
// reload. Missing paths are reported through the configured Reporter
// and previously loaded data stays intact.
func (e *Engine) SetSchemaPaths(primary, secondary string) {
	e.db.SetSource(primary, secondary)
}

// ReloadSchema re-reads the configured schema sources.
func (e *Engine) ReloadSchema() {
	e.db.Reload()
}

// SchemaReady reports whether a schema tree is loaded, awaiting any
// in-flight load.
func (e *Engine) SchemaReady(ctx context.Context) bool {
	return e.db.Ready(ctx)
}

// Outline runs the full document pass: block tree plus structural,
// duplication, schema, and reference diagnostics.
func (e *Engine) Outline(ctx context.Context, doc Accessor) (*Outline, error) {
	return e.analyzer.Outline(ctx, doc)
}

// Format runs the indentation and blank-line pass.
func (e *Engine) Format(doc Accessor) []Diagnostic {
	return e.analyzer.Format(doc)
}

// Complete returns completion items for the cursor position.
func (e *Engine) Complete(ctx context.Context, doc Accessor, pos Position) (*CompletionList, error) {
	return e.analyzer.Complete(ctx, doc, pos)
}

// References builds the definition/reference map for the document.
func (e *Engine) References(ctx context.Context, doc Accessor) (map[string]*ReferenceEntry, error) {
	return e.analyzer.References(ctx, doc)
}

// Resolve identifies the token under the cursor and, for references,
// the definition it points at.
func (e *Engine) Resolve(ctx context.Context, doc Accessor, pos Position) (*Resolution, error) {
	return e.analyzer.Resolve(ctx, doc, pos)
}

// ConfigPath resolves the effective schema path for a cursor position.
func (e *Engine) ConfigPath(doc Accessor, pos Position) (configPath []string, explicitType string) {
	return e.analyzer.ConfigPath(doc, pos)
}
