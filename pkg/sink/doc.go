// Package sink holds loaders that push translated element arrays into graph
// and document databases.
//
// Each subpackage splits into a pure planning step, which turns elements into
// database statements or documents and is unit-tested, and a thin loader that
// executes the plan against a live server:
//
//   - [neo4jsink]: MERGE nodes and relationships into Neo4j
//   - [mongosink]: insert one document per element into MongoDB
//
// Both report through [observability.Sink] hooks and tag every write with a
// batch ID so a load can be found and removed again.
package sink
