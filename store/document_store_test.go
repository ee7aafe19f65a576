package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/graphgo/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, body string) *document.Document {
	t.Helper()
	doc, err := document.Decode([]byte(body))
	require.NoError(t, err)
	return doc
}

func TestDocumentStorePutGet(t *testing.T) {
	s := NewDocumentStore()

	doc := mustDoc(t, `{"_id": "nodes/a", "title": "first"}`)
	local, isNew := s.Put(doc)
	require.True(t, isNew)

	got, ok := s.Get("nodes/a")
	require.True(t, ok)
	assert.Equal(t, "first", got.Attrs["title"].StringValue())

	// Overwrite keeps the LocalID.
	local2, isNew2 := s.Put(mustDoc(t, `{"_id": "nodes/a", "title": "second"}`))
	assert.False(t, isNew2)
	assert.Equal(t, local, local2)

	got, _ = s.Get("nodes/a")
	assert.Equal(t, "second", got.Attrs["title"].StringValue())
	assert.Equal(t, 1, s.Len())
}

func TestDocumentStoreGetMissing(t *testing.T) {
	s := NewDocumentStore()

	_, ok := s.Get("nodes/ghost")
	assert.False(t, ok)

	_, ok = s.Delete("nodes/ghost")
	assert.False(t, ok)
}

func TestDocumentStoreDelete(t *testing.T) {
	s := NewDocumentStore()

	local, _ := s.Put(mustDoc(t, `{"_id": "nodes/a"}`))
	s.Put(mustDoc(t, `{"_id": "nodes/b"}`))

	gone, ok := s.Delete("nodes/a")
	require.True(t, ok)
	assert.Equal(t, local, gone)

	_, ok = s.Get("nodes/a")
	assert.False(t, ok)
	_, ok = s.Resolve(local)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"nodes/b"}, s.AllIDs())
}

func TestDocumentStoreInsertionOrder(t *testing.T) {
	s := NewDocumentStore()

	ids := []string{"nodes/c", "nodes/a", "events/x", "nodes/b"}
	for _, id := range ids {
		s.Put(mustDoc(t, fmt.Sprintf(`{"_id": %q}`, id)))
	}

	assert.Equal(t, ids, s.AllIDs())
}

func TestDocumentStoreCollections(t *testing.T) {
	s := NewDocumentStore()

	s.Put(mustDoc(t, `{"_id": "events/crash"}`))
	s.Put(mustDoc(t, `{"_id": "events/flood"}`))
	s.Put(mustDoc(t, `{"_id": "causes/rain"}`))

	assert.Equal(t, 2, s.CountCollection("events"))
	assert.Equal(t, 1, s.CountCollection("causes"))
	assert.Equal(t, 0, s.CountCollection("ghosts"))
	assert.Equal(t, []string{"causes", "events"}, s.Collections())

	s.Delete("events/crash")
	assert.Equal(t, 1, s.CountCollection("events"))
}

func TestDocumentStoreConcurrentPut(t *testing.T) {
	s := NewDocumentStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("nodes/w%d-%d", n, j)
				s.Put(mustDoc(t, fmt.Sprintf(`{"_id": %q}`, id)))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 800, s.Len())
	assert.Len(t, s.AllIDs(), 800)
}
