package schema

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dshills/deckard/internal/report"
)

// DB is the schema database. It owns the loaded syntax tree and answers
// path-matching and parameter-listing queries. Loading is asynchronous;
// queries await an in-flight load. All methods are safe for concurrent
// use.
type DB struct {
	mu       sync.Mutex
	logger   *report.Logger
	reporter report.Reporter

	primary   string
	secondary string

	tree         []*SyntaxNode
	secondaryRaw []byte
	hasTree      bool

	// loading is non-nil while a load is in flight and is closed when
	// the load finishes, so concurrent callers share one load.
	loading chan struct{}
	// pending records a reload requested while one was already running;
	// the follow-up starts as soon as the in-flight load finishes.
	pending bool
}

// Option configures the database.
type Option func(*DB)

// WithLogger sets the logger.
func WithLogger(logger *report.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// WithReporter sets the error reporting channel.
func WithReporter(r report.Reporter) Option {
	return func(db *DB) {
		db.reporter = r
	}
}

// New creates an empty schema database. No schema is loaded until
// SetSource is called.
func New(opts ...Option) *DB {
	db := &DB{
		logger: report.NullLogger,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.reporter == nil {
		db.reporter = report.NewLogReporter(db.logger)
	}
	return db
}

// SetSource validates the schema source paths and triggers an
// asynchronous reload. A missing path is reported through the error
// channel and previously loaded data stays intact. The secondary path is
// optional and supplies lazily merged per-node metadata.
func (db *DB) SetSource(primary, secondary string) {
	if primary == "" {
		db.reporter.Report(ErrNoSource)
		return
	}
	if _, err := os.Stat(primary); err != nil {
		db.reporter.Report(fmt.Errorf("%w: %s", ErrSourceNotFound, primary))
		return
	}
	if secondary != "" {
		if _, err := os.Stat(secondary); err != nil {
			db.reporter.Report(fmt.Errorf("%w: %s", ErrSourceNotFound, secondary))
			return
		}
	}

	db.mu.Lock()
	db.primary = primary
	db.secondary = secondary
	db.mu.Unlock()

	db.Reload()
}

// Reload (re)reads the schema sources in the background. Callers already
// awaiting an in-flight load share it; a reload requested while one is
// running is deferred and starts once that load finishes, so a source
// change during a load is never lost. A failed load keeps the previous
// tree.
func (db *DB) Reload() {
	db.mu.Lock()
	if db.loading != nil {
		db.pending = true
		db.mu.Unlock()
		return
	}
	if db.primary == "" {
		db.mu.Unlock()
		db.reporter.Report(ErrNoSource)
		return
	}
	done := make(chan struct{})
	db.loading = done
	primary, secondary := db.primary, db.secondary
	db.mu.Unlock()

	go db.load(done, primary, secondary)
}

// load performs the blocking file I/O and swaps the tree wholesale on
// success.
func (db *DB) load(done chan struct{}, primary, secondary string) {
	defer func() {
		db.mu.Lock()
		rerun := false
		if db.loading == done {
			db.loading = nil
			rerun = db.pending
			db.pending = false
		}
		db.mu.Unlock()
		close(done)
		if rerun {
			db.Reload()
		}
	}()

	data, err := os.ReadFile(primary)
	if err != nil {
		db.reporter.Report(fmt.Errorf("reading schema source: %w", err))
		return
	}

	tree, err := parseTree(data)
	if err != nil {
		db.reporter.Report(fmt.Errorf("parsing schema source %s: %w", primary, err))
		return
	}

	var secondaryRaw []byte
	if secondary != "" {
		secondaryRaw, err = os.ReadFile(secondary)
		if err != nil {
			db.reporter.Report(fmt.Errorf("reading secondary schema source: %w", err))
			secondaryRaw = nil
		}
	}

	db.mu.Lock()
	db.tree = tree
	db.secondaryRaw = secondaryRaw
	db.hasTree = true
	db.mu.Unlock()

	db.logger.Debug("schema loaded from %s (%d root nodes)", primary, len(tree))
}

// await blocks until any in-flight load finishes and reports whether a
// tree is available.
func (db *DB) await(ctx context.Context) bool {
	db.mu.Lock()
	loading := db.loading
	db.mu.Unlock()

	if loading != nil {
		select {
		case <-ctx.Done():
			return false
		case <-loading:
		}
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	return db.hasTree
}

// Ready reports whether a schema tree is available, awaiting any
// in-flight load first. It does not report an error when no schema is
// configured; callers use it to skip schema-dependent checks.
func (db *DB) Ready(ctx context.Context) bool {
	return db.await(ctx)
}

// snapshot returns the current tree. The tree is replaced wholesale on
// reload, so holding the slice is safe without the lock.
func (db *DB) snapshot() []*SyntaxNode {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.tree
}

// MatchPath resolves a concrete config path against the schema tree and
// returns the minimum-fuzz match, or nil when the path is unknown.
// Queries made while no schema is loaded report an error and return nil.
func (db *DB) MatchPath(ctx context.Context, configPath []string) *Match {
	if len(configPath) == 0 {
		db.reporter.Report(ErrEmptyPath)
		return nil
	}
	if !db.await(ctx) {
		db.reporter.Report(ErrNotLoaded)
		return nil
	}

	m := matchNodes(db.snapshot(), configPath)
	if m != nil {
		db.mergeSecondary(m.Node)
	}
	return m
}

// mergeSecondary folds per-node metadata from the secondary resource into
// a node the first time that node is matched. Every node a query returns
// passes through here before it escapes, so the one-time mutation always
// happens under the lock and later readers only ever see merged nodes.
func (db *DB) mergeSecondary(node *SyntaxNode) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if node.merged || len(db.secondaryRaw) == 0 {
		node.merged = true
		return
	}
	desc, file := secondaryLookup(db.secondaryRaw, node.Path)
	if desc != "" {
		node.Description = desc
	}
	if file != "" {
		node.SourceFile = file
	}
	node.merged = true
}

// ListParameters returns the effective parameter list for a config path.
// When the block declares a type (explicitly, or through the default of
// its own "type" parameter) the type-specific parameters are prepended so
// they take precedence positionally. An unmatched type falls back to the
// base parameters alone. Unknown paths and unloaded schemas yield nil.
func (db *DB) ListParameters(ctx context.Context, configPath []string, explicitType string) []*ParamNode {
	base := db.MatchPath(ctx, configPath)
	if base == nil {
		return nil
	}

	params := base.Node.Parameters

	typeName := explicitType
	if typeName == "" {
		for _, p := range params {
			if p.Name == "type" && p.Default != "" {
				typeName = p.Default
				break
			}
		}
	}
	if typeName == "" {
		return params
	}

	tree := db.snapshot()
	for _, typed := range typedPathCandidates(configPath, typeName, base.FuzzyOnLast) {
		tm := matchNodes(tree, typed)
		// Wildcard tree segments can swallow the synthesized segments, so
		// insist the matched leaf really is the type's node.
		if tm == nil || tm.Node.Name() != typeName {
			continue
		}
		db.mergeSecondary(tm.Node)
		merged := make([]*ParamNode, 0, len(tm.Node.Parameters)+len(params))
		merged = append(merged, tm.Node.Parameters...)
		merged = append(merged, params...)
		return merged
	}
	return params
}

// ListTypeNodes returns the schema nodes describing the valid types for a
// block path: the children of the synthesized typed pseudo-path. Returns
// nil when the path has no typed subtree.
func (db *DB) ListTypeNodes(ctx context.Context, configPath []string) []*SyntaxNode {
	base := db.MatchPath(ctx, configPath)
	if base == nil {
		return nil
	}

	tree := db.snapshot()
	parents := [][]string{append(append([]string{}, configPath...), typedSegment)}
	if base.FuzzyOnLast && len(configPath) > 0 {
		replaced := append(append([]string{}, configPath[:len(configPath)-1]...), typedSegment)
		parents = append([][]string{replaced}, parents...)
	}
	for _, parent := range parents {
		if pm := matchNodes(tree, parent); pm != nil && pm.Node.Name() == typedSegment {
			for _, child := range pm.Node.Subblocks {
				db.mergeSecondary(child)
			}
			return pm.Node.Subblocks
		}
	}
	return nil
}

// ListSubBlockPaths returns the distinct sub-block paths under basePath
// that can be opened as blocks, including wildcard slots. Used for
// block-name completion. An empty base path lists top-level blocks.
func (db *DB) ListSubBlockPaths(ctx context.Context, basePath []string) []string {
	if !db.await(ctx) {
		db.reporter.Report(ErrNotLoaded)
		return nil
	}
	return subBlockPaths(db.snapshot(), basePath)
}
