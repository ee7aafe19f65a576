package graphgo

import (
	"context"
	"time"

	"github.com/hupe1980/graphgo/document"
)

// Traversal is the result of a forward walk: the ids visited in traversal
// order, starting with the start id.
type Traversal struct {
	Path []string
}

// BackTraversal is the result of a backward walk: the edges traversed in
// order, so callers can inspect weight and label per hop.
type BackTraversal struct {
	Edges []Edge
}

// TraverseForward walks outgoing edges breadth-first from start, descending
// only edges with weight >= minWeight and, when labelFilter is non-empty,
// a matching label. The walk stops after maxDepth hops and a visited set
// guards against cycles. The weight threshold is a hard cutoff, not a decay
// multiplier. Returns nil when the start id has no matching outgoing edges.
//
// Each hop reads the adjacency as of that instant; no snapshot isolation is
// guaranteed against concurrent mutation.
func (db *DB) TraverseForward(ctx context.Context, start string, maxDepth int, minWeight float64, labelFilter string) (*Traversal, error) {
	began := time.Now()
	result, err := db.traverseForward(ctx, document.ResolveID(start), maxDepth, minWeight, labelFilter)
	db.metrics.RecordTraversal(time.Since(began), err)

	visited := 0
	if result != nil {
		visited = len(result.Path)
	}
	db.logger.LogTraversal(ctx, start, maxDepth, visited, err)

	return result, err
}

func (db *DB) traverseForward(ctx context.Context, startID string, maxDepth int, minWeight float64, labelFilter string) (*Traversal, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}

	admit := func(e Edge) bool {
		return e.Weight >= minWeight && (labelFilter == "" || e.Label == labelFilter)
	}

	if maxDepth <= 0 || !hasMatch(db.edges.From(startID), admit) {
		return nil, nil
	}

	visited := map[string]struct{}{startID: {}}
	path := []string{startID}
	frontier := []string{startID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []string
		for _, id := range frontier {
			for _, e := range db.edges.From(id) {
				if !admit(e) {
					continue
				}
				if _, seen := visited[e.Target]; seen {
					continue
				}
				visited[e.Target] = struct{}{}
				path = append(path, e.Target)
				next = append(next, e.Target)
			}
		}
		frontier = next
	}

	return &Traversal{Path: path}, nil
}

// Traverse is the backward, causal variant: it follows incoming edges from
// start, collecting the edges traversed. Same depth, weight, label and
// cycle rules as TraverseForward. Returns nil when the start id has no
// matching incoming edges.
func (db *DB) Traverse(ctx context.Context, start string, maxDepth int, minWeight float64, labelFilter string) (*BackTraversal, error) {
	began := time.Now()
	result, err := db.traverseBackward(ctx, document.ResolveID(start), maxDepth, minWeight, labelFilter)
	db.metrics.RecordTraversal(time.Since(began), err)

	visited := 0
	if result != nil {
		visited = len(result.Edges)
	}
	db.logger.LogTraversal(ctx, start, maxDepth, visited, err)

	return result, err
}

func (db *DB) traverseBackward(ctx context.Context, startID string, maxDepth int, minWeight float64, labelFilter string) (*BackTraversal, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}

	admit := func(e Edge) bool {
		return e.Weight >= minWeight && (labelFilter == "" || e.Label == labelFilter)
	}

	if maxDepth <= 0 || !hasMatch(db.edges.To(startID), admit) {
		return nil, nil
	}

	visited := map[string]struct{}{startID: {}}
	var collected []Edge
	frontier := []string{startID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []string
		for _, id := range frontier {
			for _, e := range db.edges.To(id) {
				if !admit(e) {
					continue
				}
				if _, seen := visited[e.Source]; seen {
					continue
				}
				visited[e.Source] = struct{}{}
				collected = append(collected, e)
				next = append(next, e.Source)
			}
		}
		frontier = next
	}

	return &BackTraversal{Edges: collected}, nil
}

func hasMatch(edges []Edge, admit func(Edge) bool) bool {
	for _, e := range edges {
		if admit(e) {
			return true
		}
	}
	return false
}
