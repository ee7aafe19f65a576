package graphgo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/graphgo/bitmap"
	"github.com/hupe1980/graphgo/core"
	"github.com/hupe1980/graphgo/document"
	"golang.org/x/sync/errgroup"
)

type edgePredicate struct {
	source string
	label  string
}

type spatialPredicate struct {
	lat      float64
	lon      float64
	radiusKm float64
}

type vectorPredicate struct {
	query []float32
	k     int
}

// QueryBuilder accumulates predicates via chained calls and executes them
// as one combined query: candidate sets from every predicate are
// intersected, then the ranking predicates (fulltext, vector) order the
// survivors. The builder holds no global state; Execute is a pure function
// of the accumulated predicates.
type QueryBuilder struct {
	db *DB

	edgePreds       []edgePredicate
	collectionPreds []string
	spatialPreds    []spatialPredicate
	textPreds       []string
	vectorPreds     []vectorPredicate
}

// Query starts a new hybrid query.
func (db *DB) Query() *QueryBuilder {
	return &QueryBuilder{db: db}
}

// HasEdgeFrom restricts candidates to targets of an edge from source with
// the given label. Reads EdgeStore directly; no flush is required for edge
// visibility.
func (qb *QueryBuilder) HasEdgeFrom(source, label string) *QueryBuilder {
	qb.edgePreds = append(qb.edgePreds, edgePredicate{source: document.ResolveID(source), label: label})
	return qb
}

// InCollection restricts candidates to members of the named collection.
func (qb *QueryBuilder) InCollection(name string) *QueryBuilder {
	qb.collectionPreds = append(qb.collectionPreds, name)
	return qb
}

// Spatial restricts candidates to documents having a point within radiusKm
// of the center, boundary inclusive.
func (qb *QueryBuilder) Spatial(lat, lon, radiusKm float64) *QueryBuilder {
	qb.spatialPreds = append(qb.spatialPreds, spatialPredicate{lat: lat, lon: lon, radiusKm: radiusKm})
	return qb
}

// Fulltext restricts candidates to documents matching the text and ranks
// them by relevance.
func (qb *QueryBuilder) Fulltext(text string) *QueryBuilder {
	qb.textPreds = append(qb.textPreds, text)
	return qb
}

// VectorSearch restricts candidates to the top-k documents by cosine
// similarity and ranks them by score. When combined with Fulltext, the
// vector score dominates the final order.
func (qb *QueryBuilder) VectorSearch(query []float32, k int) *QueryBuilder {
	qb.vectorPreds = append(qb.vectorPreds, vectorPredicate{query: query, k: k})
	return qb
}

func (qb *QueryBuilder) predicateCount() int {
	return len(qb.edgePreds) + len(qb.collectionPreds) + len(qb.spatialPreds) + len(qb.textPreds) + len(qb.vectorPreds)
}

// Execute runs the combined query and returns matching document ids.
// Results reflect the indexes as of the last flush; the caller resolves
// ids to documents via Read. An empty builder returns every document id
// in insertion order.
func (qb *QueryBuilder) Execute(ctx context.Context) ([]string, error) {
	db := qb.db

	start := time.Now()
	ids, err := qb.execute(ctx)
	db.metrics.RecordQuery(qb.predicateCount(), time.Since(start), err)
	db.logger.LogQuery(ctx, qb.predicateCount(), len(ids), err)
	return ids, err
}

func (qb *QueryBuilder) execute(ctx context.Context) ([]string, error) {
	db := qb.db

	if db.closed.Load() {
		return nil, ErrClosed
	}

	for _, vp := range qb.vectorPreds {
		if vp.k <= 0 {
			return nil, ErrInvalidK
		}
	}

	if qb.predicateCount() == 0 {
		return db.docs.AllIDs(), nil
	}

	var (
		mu           sync.Mutex
		sets         []*bitmap.LocalBitmap
		textScores   = make(map[core.LocalID]float32)
		vectorScores = make(map[core.LocalID]float32)
	)

	addSet := func(set *bitmap.LocalBitmap) {
		mu.Lock()
		sets = append(sets, set)
		mu.Unlock()
	}

	g, _ := errgroup.WithContext(ctx)

	for _, ep := range qb.edgePreds {
		g.Go(func() error {
			set := bitmap.NewLocalBitmap()
			for _, e := range db.edges.From(ep.source) {
				if e.Label != ep.label {
					continue
				}
				if local, ok := db.docs.LocalOf(e.Target); ok {
					set.Add(local)
				}
			}
			addSet(set)
			return nil
		})
	}

	for _, name := range qb.collectionPreds {
		g.Go(func() error {
			addSet(db.docs.CollectionBitmap(name))
			return nil
		})
	}

	for _, sp := range qb.spatialPreds {
		g.Go(func() error {
			set, err := db.geo.WithinRadius(sp.lat, sp.lon, sp.radiusKm)
			if err != nil {
				return err
			}
			addSet(set)
			return nil
		})
	}

	for _, text := range qb.textPreds {
		g.Go(func() error {
			scores := db.fulltext.Search(text)
			set := bitmap.NewLocalBitmap()
			mu.Lock()
			for local, score := range scores {
				set.Add(local)
				textScores[local] += score
			}
			sets = append(sets, set)
			mu.Unlock()
			return nil
		})
	}

	for _, vp := range qb.vectorPreds {
		g.Go(func() error {
			results, err := db.vector.Search(vp.query, vp.k)
			if err != nil {
				return err
			}
			set := bitmap.NewLocalBitmap()
			mu.Lock()
			for _, r := range results {
				set.Add(r.Local)
				vectorScores[r.Local] += r.Score
			}
			sets = append(sets, set)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, translateError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := sets[0]
	for _, set := range sets[1:] {
		candidates.And(set)
	}

	return qb.rank(candidates, vectorScores, textScores), nil
}

// rank orders the intersected candidates: vector score first when a vector
// predicate is configured, fulltext relevance next, insertion order last.
func (qb *QueryBuilder) rank(candidates *bitmap.LocalBitmap, vectorScores, textScores map[core.LocalID]float32) []string {
	locals := candidates.ToSlice()

	useVector := len(qb.vectorPreds) > 0
	useText := len(qb.textPreds) > 0

	if useVector || useText {
		sort.SliceStable(locals, func(i, j int) bool {
			a, b := locals[i], locals[j]
			if useVector && vectorScores[a] != vectorScores[b] {
				return vectorScores[a] > vectorScores[b]
			}
			if useText && textScores[a] != textScores[b] {
				return textScores[a] > textScores[b]
			}
			return a < b
		})
	}

	out := make([]string, 0, len(locals))
	for _, local := range locals {
		if id, ok := qb.db.docs.Resolve(local); ok {
			out = append(out, id)
		}
	}
	return out
}
