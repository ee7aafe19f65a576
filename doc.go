// Package graphgo provides an embedded hybrid database for graph-structured
// JSON documents.
//
// Documents live under collection-qualified ids ("events/crash-kemang");
// directed, weighted, labeled edges connect them. Four index types feed one
// query engine: dense-vector cosine similarity, geospatial radius, BM25
// fulltext, and graph adjacency.
//
// # Quick Start
//
//	db, _ := graphgo.New()
//	defer db.Close()
//
//	_ = db.Write("events/crash-kemang", `{
//	    "title": "Traffic accident in Kemang",
//	    "vectors": {"dense": [0.9, 0.1, 0.1]},
//	    "geo": {"location": {"lat": -6.27, "lon": 106.81}}
//	}`)
//	_ = db.Write("causes/heavy-rain", `{"title": "Heavy rain"}`)
//	_ = db.AddEdge("causes/heavy-rain", "events/crash-kemang", 0.9, "caused")
//
//	_ = db.Flush(ctx) // barrier: make the indexes observe the writes
//
//	ids, _ := db.Query().
//	    HasEdgeFrom("causes/heavy-rain", "caused").
//	    Spatial(-6.27, 106.81, 5.0).
//	    Fulltext("accident").
//	    VectorSearch([]float32{0.9, 0.1, 0.1}, 10).
//	    Execute(ctx)
//
// # Consistency Model
//
// Writes update the document and edge stores synchronously and return;
// index propagation is asynchronous. Read, EdgesFrom and EdgesTo are always
// immediately consistent. Query results reflect the indexes as of the last
// Flush: a query issued right after a write may miss it until Flush is
// called. Traversal reads the edge store directly and needs no flush.
//
// # Traversal
//
// TraverseForward walks outgoing edges breadth-first; Traverse walks
// incoming edges for backward causal analysis, returning the edges
// themselves:
//
//	causes, _ := db.Traverse(ctx, "events/crash-kemang", 3, 0.5, "caused")
//
// Both prune edges below a weight threshold and are cycle- and depth-bounded.
package graphgo
