package graphgo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hupe1980/graphgo/document"
	"github.com/klauspost/compress/gzip"
)

// archive is the on-disk backup shape: every document in wire form plus
// every edge. Indexes are derived state and are rebuilt on restore instead
// of being persisted.
type archive struct {
	Documents []json.RawMessage `json:"documents"`
	Edges     []Edge            `json:"edges"`
}

// Backup writes a gzip-compressed JSON snapshot of the primary stores to
// path. Call Flush first if index-visible state must match; the backup
// itself only needs the primary stores.
func (db *DB) Backup(path string) error {
	if db.closed.Load() {
		return ErrClosed
	}

	var arc archive
	for _, id := range db.docs.AllIDs() {
		doc, ok := db.docs.Get(id)
		if !ok {
			continue
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", id, err)
		}
		arc.Documents = append(arc.Documents, data)
	}
	arc.Edges = db.edges.All()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(&arc); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	err = f.Close()
	db.logger.LogBackup(context.Background(), "backup", path, len(arc.Documents), len(arc.Edges), err)
	return err
}

// Restore loads a snapshot produced by Backup into the database, upserting
// its documents and appending its edges. Existing state is kept; restoring
// into an empty database reproduces the backed-up state. Index propagation
// is enqueued as usual, so call Flush before querying restored documents.
func (db *DB) Restore(path string) error {
	if db.closed.Load() {
		return ErrClosed
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()

	var arc archive
	if err := json.NewDecoder(zr).Decode(&arc); err != nil {
		return err
	}

	for _, raw := range arc.Documents {
		doc, err := document.Decode(raw)
		if err != nil {
			return translateError(err)
		}
		if doc.ID == "" {
			return &ErrMalformedDocument{Reason: "archived document lacks _id"}
		}
		if err := db.put(doc); err != nil {
			return err
		}
	}

	for _, e := range arc.Edges {
		db.edges.AddWithID(e.ID, e.Source, e.Target, e.Weight, e.Label)
	}

	db.logger.LogBackup(context.Background(), "restore", path, len(arc.Documents), len(arc.Edges), nil)
	return nil
}
