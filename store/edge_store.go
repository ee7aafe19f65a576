package store

import (
	"sync"

	"github.com/google/uuid"
)

// Edge is a directed, weighted, labeled relation between two document ids.
// Endpoints are not required to reference stored documents; dangling
// references are permitted and resolved (or not) at read time.
type Edge struct {
	ID     string  `json:"_id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Label  string  `json:"label"`
}

// EdgeStore keeps forward and backward adjacency lists in insertion order.
// Multiple edges between the same pair with different labels or weights are
// permitted; there is no implicit dedup.
type EdgeStore struct {
	mu    sync.RWMutex
	fwd   map[string][]*Edge
	rev   map[string][]*Edge
	count int
}

// NewEdgeStore creates an empty EdgeStore.
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{
		fwd: make(map[string][]*Edge),
		rev: make(map[string][]*Edge),
	}
}

// Add appends an edge and returns it with a freshly assigned id.
func (s *EdgeStore) Add(source, target string, weight float64, label string) Edge {
	return s.AddWithID("edges/"+uuid.NewString(), source, target, weight, label)
}

// AddWithID appends an edge under a caller-supplied id. Used by restore to
// keep edge identity stable across backup cycles.
func (s *EdgeStore) AddWithID(id, source, target string, weight float64, label string) Edge {
	e := &Edge{ID: id, Source: source, Target: target, Weight: weight, Label: label}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fwd[source] = append(s.fwd[source], e)
	s.rev[target] = append(s.rev[target], e)
	s.count++

	return *e
}

// From returns the outgoing edges of id in insertion order.
func (s *EdgeStore) From(id string) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyEdges(s.fwd[id])
}

// To returns the incoming edges of id in insertion order.
func (s *EdgeStore) To(id string) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyEdges(s.rev[id])
}

func copyEdges(edges []*Edge) []Edge {
	if len(edges) == 0 {
		return nil
	}
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = *e
	}
	return out
}

// RemoveTouching removes every edge where id is source or target, returning
// the number removed. Supports the delete cascade.
func (s *EdgeStore) RemoveTouching(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	touches := func(e *Edge) bool { return e.Source == id || e.Target == id }

	removed := 0
	for key, edges := range s.fwd {
		kept := edges[:0]
		for _, e := range edges {
			if touches(e) {
				removed++
			} else {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(s.fwd, key)
		} else {
			s.fwd[key] = kept
		}
	}
	for key, edges := range s.rev {
		kept := edges[:0]
		for _, e := range edges {
			if !touches(e) {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(s.rev, key)
		} else {
			s.rev[key] = kept
		}
	}

	s.count -= removed
	return removed
}

// Remove deletes every edge matching (source, target, label), returning the
// number removed.
func (s *EdgeStore) Remove(source, target, label string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := func(e *Edge) bool {
		return e.Source == source && e.Target == target && e.Label == label
	}

	removed := 0
	kept := s.fwd[source][:0]
	for _, e := range s.fwd[source] {
		if matches(e) {
			removed++
		} else {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(s.fwd, source)
	} else {
		s.fwd[source] = kept
	}

	keptRev := s.rev[target][:0]
	for _, e := range s.rev[target] {
		if !matches(e) {
			keptRev = append(keptRev, e)
		}
	}
	if len(keptRev) == 0 {
		delete(s.rev, target)
	} else {
		s.rev[target] = keptRev
	}

	s.count -= removed
	return removed
}

// All returns every edge in per-source insertion order. Intended for backup.
func (s *EdgeStore) All() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Edge, 0, s.count)
	for _, edges := range s.fwd {
		for _, e := range edges {
			out = append(out, *e)
		}
	}
	return out
}

// Len returns the number of stored edges.
func (s *EdgeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.count
}
