package graphgo

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/graphgo/core"
	"github.com/hupe1980/graphgo/document"
	"github.com/hupe1980/graphgo/index/fulltext"
	"github.com/hupe1980/graphgo/index/geo"
	"github.com/hupe1980/graphgo/index/vector"
	"github.com/hupe1980/graphgo/pipeline"
	"github.com/hupe1980/graphgo/store"
)

// Edge is a directed, weighted, labeled relation between two document ids.
type Edge = store.Edge

// DeleteOptions controls document deletion.
type DeleteOptions struct {
	// ExcludeEdges skips the edge cascade: edges touching the deleted id
	// survive as dangling references.
	ExcludeEdges bool
}

// DB is an embedded hybrid database over graph-structured documents. The
// primary stores (documents and edges) are updated synchronously; the
// vector, geo and fulltext indexes catch up asynchronously through the
// indexing pipeline. Flush is the barrier that makes index-dependent reads
// observe prior writes.
type DB struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector

	docs     *store.DocumentStore
	edges    *store.EdgeStore
	vector   *vector.Index
	geo      *geo.Index
	fulltext *fulltext.Index
	pipe     *pipeline.Pipeline

	closed atomic.Bool
}

// New creates an empty database and starts its indexing pipeline.
func New(optFns ...Option) (*DB, error) {
	opts := applyOptions(optFns)

	db := &DB{
		opts:     opts,
		logger:   opts.logger,
		metrics:  opts.metricsCollector,
		docs:     store.NewDocumentStore(),
		edges:    store.NewEdgeStore(),
		vector:   vector.New(),
		geo:      geo.New(opts.geoCellDegrees),
		fulltext: fulltext.New(opts.stopWords),
	}
	db.pipe = pipeline.New(opts.queueSize, opts.logger.Logger)

	return db, nil
}

// Write upserts a document under a collection-qualified id derived from
// key; bare keys land in the "nodes" collection. An _id inside the body is
// overridden by the key. The primary store is updated synchronously and
// index propagation is enqueued.
func (db *DB) Write(key, body string) error {
	id := document.ResolveID(key)

	start := time.Now()
	err := db.write(id, []byte(body))
	db.metrics.RecordWrite(time.Since(start), err)
	db.logger.LogWrite(context.Background(), id, err)
	return err
}

// WriteJSON upserts a document using the _id field found inside the body,
// failing with ErrMalformedDocument when _id is absent or not a qualified
// id. A body carrying _from and _to instead of _id is written as an edge,
// with weight defaulting to 1 and the label (from _type) to "related".
func (db *DB) WriteJSON(body string) error {
	if db.closed.Load() {
		return ErrClosed
	}

	doc, err := document.Decode([]byte(body))
	if err != nil {
		return translateError(err)
	}

	if spec, ok := doc.AsEdgeSpec(); ok {
		return db.AddEdge(spec.From, spec.To, spec.Weight, spec.Label)
	}

	if doc.ID == "" {
		return &ErrMalformedDocument{Reason: "_id is required"}
	}
	if !document.IsQualified(doc.ID) {
		return &ErrMalformedDocument{Reason: "_id must be of the form <collection>/<key>"}
	}

	start := time.Now()
	err = db.put(doc)
	db.metrics.RecordWrite(time.Since(start), err)
	db.logger.LogWrite(context.Background(), doc.ID, err)
	return err
}

func (db *DB) write(id string, body []byte) error {
	if db.closed.Load() {
		return ErrClosed
	}

	doc, err := document.Decode(body)
	if err != nil {
		return translateError(err)
	}
	doc.ID = id

	return db.put(doc)
}

func (db *DB) put(doc *document.Document) error {
	local, _ := db.docs.Put(doc)
	return translateError(db.enqueueUpsert(local, doc))
}

// enqueueUpsert schedules index propagation for a freshly written document.
// The task re-derives all index entries from the document snapshot so an
// overwrite drops features the new body no longer carries.
func (db *DB) enqueueUpsert(local core.LocalID, doc *document.Document) error {
	return db.pipe.Enqueue("upsert "+doc.ID, func() error {
		db.vector.Remove(local)
		db.geo.Remove(local)

		for name, vec := range doc.Vectors {
			if err := db.vector.Upsert(local, name, vec); err != nil {
				return err
			}
		}
		for name, pt := range doc.Geo {
			if err := db.geo.Upsert(local, name, pt.Lat, pt.Lon); err != nil {
				return err
			}
		}

		if text := doc.Text(db.opts.textFields); text != "" {
			db.fulltext.Upsert(local, text)
		} else {
			db.fulltext.Remove(local)
		}

		return nil
	})
}

// Read returns the stored document, or false if the id is unknown. A
// missing id is never an error. The result is a copy, safe to mutate.
func (db *DB) Read(id string) (*document.Document, bool) {
	doc, ok := db.docs.Get(document.ResolveID(id))
	if !ok {
		return nil, false
	}
	return doc.Clone(), true
}

// Delete removes the document and, unless DeleteOptions.ExcludeEdges is
// set, every edge where the id is source or target. Deleting a missing id
// is a no-op success.
func (db *DB) Delete(id string, optFns ...func(*DeleteOptions)) error {
	if db.closed.Load() {
		return ErrClosed
	}

	var opts DeleteOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	start := time.Now()
	resolved := document.ResolveID(id)

	local, existed := db.docs.Delete(resolved)

	cascaded := 0
	if !opts.ExcludeEdges {
		cascaded = db.edges.RemoveTouching(resolved)
	}

	var err error
	if existed {
		err = translateError(db.pipe.Enqueue("remove "+resolved, func() error {
			db.vector.Remove(local)
			db.geo.Remove(local)
			db.fulltext.Remove(local)
			return nil
		}))
	}

	db.metrics.RecordDelete(time.Since(start), err)
	db.logger.LogDelete(context.Background(), resolved, cascaded, err)
	return err
}

// AddEdge appends a directed, weighted, labeled edge. Endpoint ids are
// qualified but their existence is deliberately not validated; dangling
// references are permitted. Weight must lie in [0, 1].
func (db *DB) AddEdge(source, target string, weight float64, label string) error {
	if db.closed.Load() {
		return ErrClosed
	}

	start := time.Now()

	var err error
	if weight < 0 || weight > 1 {
		err = &ErrInvalidWeight{Weight: weight}
	} else {
		db.edges.Add(document.ResolveID(source), document.ResolveID(target), weight, label)
	}

	db.metrics.RecordEdge(time.Since(start), err)
	db.logger.LogEdge(context.Background(), source, target, label, weight, err)
	return err
}

// RemoveEdge deletes every edge matching (source, target, label) and
// returns the number removed.
func (db *DB) RemoveEdge(source, target, label string) int {
	return db.edges.Remove(document.ResolveID(source), document.ResolveID(target), label)
}

// EdgesFrom returns the outgoing edges of id in insertion order.
func (db *DB) EdgesFrom(id string) []Edge {
	return db.edges.From(document.ResolveID(id))
}

// EdgesTo returns the incoming edges of id in insertion order.
func (db *DB) EdgesTo(id string) []Edge {
	return db.edges.To(document.ResolveID(id))
}

// Flush blocks until every index task enqueued before the call has been
// applied. Queries issued afterwards observe all prior writes.
func (db *DB) Flush(ctx context.Context) error {
	start := time.Now()
	err := translateError(db.pipe.Flush(ctx))
	db.metrics.RecordFlush(time.Since(start), err)
	db.logger.LogFlush(ctx, err)
	return err
}

// CountCollection returns the number of documents in a collection.
func (db *DB) CountCollection(name string) int {
	return db.docs.CountCollection(name)
}

// Collections returns the known collection names, sorted.
func (db *DB) Collections() []string {
	return db.docs.Collections()
}

// Stats is a point-in-time snapshot of engine state.
type Stats struct {
	Documents       int
	Edges           int
	PendingTasks    int
	VectorIndexed   int
	GeoIndexed      int
	FulltextIndexed int
}

// Stats returns a snapshot of engine state. Index counts trail the primary
// stores until the pipeline catches up.
func (db *DB) Stats() Stats {
	return Stats{
		Documents:       db.docs.Len(),
		Edges:           db.edges.Len(),
		PendingTasks:    db.pipe.Pending(),
		VectorIndexed:   db.vector.Len(),
		GeoIndexed:      db.geo.Len(),
		FulltextIndexed: db.fulltext.Len(),
	}
}

// Close drains the indexing pipeline and shuts the database down. Further
// mutating calls fail with ErrClosed.
func (db *DB) Close() error {
	if db.closed.Swap(true) {
		return nil
	}
	return db.pipe.Close()
}
