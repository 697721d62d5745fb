// Package document is the deck analysis engine. It tokenizes a raw text
// buffer in the hierarchical bracket dialect into a two-level block
// outline, accumulates structural and schema diagnostics, classifies
// cursor context for completion, and builds the definition/reference map.
//
// The engine is stateless between calls: every request recomputes the
// outline in one pass over the document's lines, querying the schema
// database as blocks close. Documents are reached only through the
// Accessor interface, so hosts supply whatever buffer representation they
// have without the engine touching storage.
//
// Analysis never aborts on the first error. Structural mistakes recover
// by assuming the most sensible continuation (an unexpected top-level
// open force-closes whatever was still open) and every problem found is
// accumulated as a Diagnostic.
package document
