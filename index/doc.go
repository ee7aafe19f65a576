// Package index defines the contracts shared by the derived indexes.
//
// Three index types feed the hybrid query engine:
//
//   - vector: exact cosine similarity over named dense-vector fields
//   - geo: haversine radius queries over named geographic points
//   - fulltext: BM25-ranked token search over configured text fields
//
// Every index maps extracted document features to dense LocalIDs. Indexes
// are derived, rebuildable state: the primary stores remain the single
// source of truth, and an index may be dropped and rebuilt from them
// without data loss.
package index
