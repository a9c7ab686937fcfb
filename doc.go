// Package schemakit maintains a corpus of JSON Schema documents describing the
// Qubit Energy domain model (organizations, sites, assets, meters, sensors,
// timeseries) and derives two capabilities from it: statically-typed interface
// generation and structural validation of data documents.
//
// The engine is built from four pieces. A Store loads every schema document in
// a directory into an immutable, order-preserving tree. A Resolver follows
// $ref pointers (intra-document, cross-document, and whole-document) against
// the Store, memoizing each pointer so repeated references share one node. A
// Synthesizer walks resolved nodes into a canonical, language-neutral type
// tree (package typetree) suitable for code emission. A Validator walks a data
// document against the same resolved graph and produces a fail-fast Verdict
// with a path-qualified issue.
//
// Everything is synchronous and free of I/O after the initial directory load;
// the resolved graph is immutable, so independent validations may run
// concurrently against one Store without locking.
package schemakit
