// Package schema owns the application syntax database for hierarchical
// input decks: a tree of block paths, their parameters, and the structural
// type of each parameter, loaded from an externally supplied syntax dump.
//
// The database answers three queries:
//
//   - MatchPath: resolve a concrete config path (e.g. ["Kernels", "diff"])
//     against the schema tree, tolerating wildcard segments with a
//     deterministic minimum-fuzz rule.
//   - ListParameters: the effective parameter list for a path, including
//     type-specific parameters when the block declares (or defaults) a type.
//   - ListSubBlockPaths: valid sub-block paths under a base path, used for
//     block-name completion.
//
// Loading is asynchronous and memoized: concurrent queries issued while a
// load is in flight await the same load rather than triggering duplicates.
// The loaded tree is immutable and replaced wholesale on reload, so readers
// never observe a partially built tree. A failed reload keeps the previous
// tree intact and reports through the injected error channel.
package schema
