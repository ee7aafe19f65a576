// Package store holds the primary data: the canonical document records and
// the directed, weighted, labeled adjacency relation. Both are the single
// source of truth; every index is derived from them and rebuildable.
package store

import (
	"hash/maphash"
	"sort"
	"sync"

	"github.com/hupe1980/graphgo/bitmap"
	"github.com/hupe1980/graphgo/core"
	"github.com/hupe1980/graphgo/document"
)

const numShards = 16

type docEntry struct {
	doc   *document.Document
	local core.LocalID
}

type docShard struct {
	mu   sync.RWMutex
	docs map[string]*docEntry
}

// DocumentStore is the canonical id -> document map. Writes to distinct ids
// proceed on independent shard locks; a write to an existing id keeps its
// LocalID so derived index state stays addressable across overwrites.
type DocumentStore struct {
	shards [numShards]*docShard
	seed   maphash.Seed

	// registry guards LocalID allocation, the reverse local -> id mapping
	// and per-collection membership. LocalIDs are allocated monotonically,
	// so ascending LocalID order is insertion order.
	registryMu  sync.RWMutex
	localToID   map[core.LocalID]string
	live        *bitmap.LocalBitmap
	collections map[string]*bitmap.LocalBitmap
	next        core.LocalID
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	s := &DocumentStore{
		seed:        maphash.MakeSeed(),
		localToID:   make(map[core.LocalID]string),
		live:        bitmap.NewLocalBitmap(),
		collections: make(map[string]*bitmap.LocalBitmap),
	}
	for i := range s.shards {
		s.shards[i] = &docShard{docs: make(map[string]*docEntry)}
	}
	return s
}

func (s *DocumentStore) shardFor(id string) *docShard {
	return s.shards[maphash.String(s.seed, id)%numShards]
}

// Put upserts a document under its id and returns the assigned LocalID and
// whether the id was new. Last writer wins on concurrent puts to one id.
func (s *DocumentStore) Put(doc *document.Document) (core.LocalID, bool) {
	shard := s.shardFor(doc.ID)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if entry, ok := shard.docs[doc.ID]; ok {
		entry.doc = doc
		return entry.local, false
	}

	local := s.register(doc.ID)
	shard.docs[doc.ID] = &docEntry{doc: doc, local: local}
	return local, true
}

func (s *DocumentStore) register(id string) core.LocalID {
	s.registryMu.Lock()
	defer s.registryMu.Unlock()

	local := s.next
	s.next++

	s.localToID[local] = id
	s.live.Add(local)

	coll := document.Collection(id)
	cb, ok := s.collections[coll]
	if !ok {
		cb = bitmap.NewLocalBitmap()
		s.collections[coll] = cb
	}
	cb.Add(local)

	return local
}

// Get returns the stored document, or false if the id is unknown. Missing
// ids are never an error.
func (s *DocumentStore) Get(id string) (*document.Document, bool) {
	shard := s.shardFor(id)

	shard.mu.RLock()
	defer shard.mu.RUnlock()

	entry, ok := shard.docs[id]
	if !ok {
		return nil, false
	}
	return entry.doc, true
}

// LocalOf returns the LocalID assigned to an id.
func (s *DocumentStore) LocalOf(id string) (core.LocalID, bool) {
	shard := s.shardFor(id)

	shard.mu.RLock()
	defer shard.mu.RUnlock()

	entry, ok := shard.docs[id]
	if !ok {
		return 0, false
	}
	return entry.local, true
}

// Resolve maps a LocalID back to its document id.
func (s *DocumentStore) Resolve(local core.LocalID) (string, bool) {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()

	id, ok := s.localToID[local]
	return id, ok
}

// Delete removes the document and returns its LocalID. Deleting a missing
// id is a no-op.
func (s *DocumentStore) Delete(id string) (core.LocalID, bool) {
	shard := s.shardFor(id)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.docs[id]
	if !ok {
		return 0, false
	}
	delete(shard.docs, id)

	s.registryMu.Lock()
	delete(s.localToID, entry.local)
	s.live.Remove(entry.local)
	if cb, ok := s.collections[document.Collection(id)]; ok {
		cb.Remove(entry.local)
	}
	s.registryMu.Unlock()

	return entry.local, true
}

// AllIDs returns every live document id in insertion order.
func (s *DocumentStore) AllIDs() []string {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()

	out := make([]string, 0, len(s.localToID))
	for local := range s.live.Iterator() {
		if id, ok := s.localToID[local]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Live returns a snapshot bitmap of every live LocalID.
func (s *DocumentStore) Live() *bitmap.LocalBitmap {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()

	return s.live.Clone()
}

// CollectionBitmap returns a snapshot of the collection's membership.
func (s *DocumentStore) CollectionBitmap(name string) *bitmap.LocalBitmap {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()

	cb, ok := s.collections[name]
	if !ok {
		return bitmap.NewLocalBitmap()
	}
	return cb.Clone()
}

// CountCollection returns the number of live documents in a collection.
func (s *DocumentStore) CountCollection(name string) int {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()

	cb, ok := s.collections[name]
	if !ok {
		return 0
	}
	return int(cb.Cardinality())
}

// Collections returns the known collection names, sorted.
func (s *DocumentStore) Collections() []string {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()

	out := make([]string, 0, len(s.collections))
	for name, cb := range s.collections {
		if !cb.IsEmpty() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of live documents.
func (s *DocumentStore) Len() int {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()

	return int(s.live.Cardinality())
}
