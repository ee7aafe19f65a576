// Package vector implements an exact cosine-similarity index over named
// dense-vector fields. Vectors are L2-normalized on insert so a search is
// a dot-product scan; ranking correctness matters here, not sublinear
// scaling.
package vector

import (
	"container/heap"
	"sort"
	"sync"

	"github.com/hupe1980/graphgo/core"
	"github.com/hupe1980/graphgo/index"
	"github.com/hupe1980/graphgo/metric"
	"github.com/hupe1980/graphgo/queue"
)

type field struct {
	dim  int
	vecs map[core.LocalID][]float32 // stored L2-normalized
}

// Index is an in-memory exact vector index.
type Index struct {
	mu     sync.RWMutex
	fields map[string]*field
}

// New creates an empty vector index.
func New() *Index {
	return &Index{
		fields: make(map[string]*field),
	}
}

var _ index.Index = (*Index)(nil)

// Upsert stores a document's vector under the named field. The first vector
// written to a field establishes the field's dimensionality; later vectors
// of a different length are rejected.
func (idx *Index) Upsert(local core.LocalID, fieldName string, vec []float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	f, ok := idx.fields[fieldName]
	if !ok {
		f = &field{dim: len(vec), vecs: make(map[core.LocalID][]float32)}
		idx.fields[fieldName] = f
	}

	if len(vec) != f.dim {
		return &index.ErrDimensionMismatch{Expected: f.dim, Actual: len(vec)}
	}

	f.vecs[local] = metric.Normalize(vec)
	return nil
}

// Remove drops every field entry of the document.
func (idx *Index) Remove(local core.LocalID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for name, f := range idx.fields {
		delete(f.vecs, local)
		if len(f.vecs) == 0 {
			delete(idx.fields, name)
		}
	}
}

// Search returns the top-k documents by cosine similarity against every
// field whose dimensionality matches the query. Documents present in more
// than one matching field rank by their best score. Equal scores order by
// insertion order.
//
// An empty index yields an empty result. When fields exist but none match
// the query's length, the search fails with ErrDimensionMismatch.
func (idx *Index) Search(query []float32, k int) ([]index.ScoredResult, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.fields) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(idx.fields))
	for name, f := range idx.fields {
		if f.dim == len(query) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, &index.ErrDimensionMismatch{Expected: idx.anyDim(), Actual: len(query)}
	}
	sort.Strings(names)

	q := metric.Normalize(query)

	best := make(map[core.LocalID]float32)
	for _, name := range names {
		for local, vec := range idx.fields[name].vecs {
			score := metric.Dot(q, vec)
			if prev, ok := best[local]; !ok || score > prev {
				best[local] = score
			}
		}
	}

	pq := &queue.PriorityQueue{Order: true, Items: make([]*queue.PriorityQueueItem, 0, len(best))}
	for local, score := range best {
		pq.Items = append(pq.Items, &queue.PriorityQueueItem{Local: local, Score: score})
	}
	heap.Init(pq)

	n := min(k, pq.Len())
	out := make([]index.ScoredResult, 0, n)
	for range n {
		item, _ := heap.Pop(pq).(*queue.PriorityQueueItem)
		out = append(out, index.ScoredResult{Local: item.Local, Score: item.Score})
	}
	return out, nil
}

// anyDim returns a deterministic established dimensionality for error
// reporting, the smallest field name winning.
func (idx *Index) anyDim() int {
	names := make([]string, 0, len(idx.fields))
	for name := range idx.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return idx.fields[names[0]].dim
}

// Len returns the number of distinct indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[core.LocalID]struct{})
	for _, f := range idx.fields {
		for local := range f.vecs {
			seen[local] = struct{}{}
		}
	}
	return len(seen)
}
