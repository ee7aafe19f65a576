// Package geo implements a radius index over named geographic points. Points
// are bucketed into a fixed degree grid so a radius query touches only the
// cells overlapping the search circle instead of the full corpus. Distances
// use the great-circle (haversine) formula; the boundary is inclusive.
package geo

import (
	"math"
	"sync"

	"github.com/hupe1980/graphgo/bitmap"
	"github.com/hupe1980/graphgo/core"
	"github.com/hupe1980/graphgo/document"
	"github.com/hupe1980/graphgo/index"
	"github.com/hupe1980/graphgo/metric"
)

// DefaultCellDegrees is the default grid cell edge length in degrees.
// One degree of latitude is roughly 111 km.
const DefaultCellDegrees = 1.0

type cellKey struct {
	latCell int
	lonCell int
}

type entry struct {
	local core.LocalID
	field string
	pt    document.GeoPoint
}

// Index is an in-memory grid-bucketed geo index.
type Index struct {
	mu      sync.RWMutex
	cell    float64
	buckets map[cellKey][]*entry
	byLocal map[core.LocalID][]*entry
}

// New creates an empty geo index. cellDegrees <= 0 selects the default.
func New(cellDegrees float64) *Index {
	if cellDegrees <= 0 {
		cellDegrees = DefaultCellDegrees
	}
	return &Index{
		cell:    cellDegrees,
		buckets: make(map[cellKey][]*entry),
		byLocal: make(map[core.LocalID][]*entry),
	}
}

var _ index.Index = (*Index)(nil)

// lonCells is the number of distinct longitude cells in a full circle.
func (idx *Index) lonCells() int {
	return int(math.Ceil(360 / idx.cell))
}

// wrapLonCell folds a raw longitude cell onto the canonical grid. The grid
// is cyclic at the antimeridian, so the cells at lon 180 and -180 coincide.
func (idx *Index) wrapLonCell(c int) int {
	n := idx.lonCells()
	base := int(math.Floor(-180 / idx.cell))
	return base + (((c-base)%n)+n)%n
}

func (idx *Index) keyFor(lat, lon float64) cellKey {
	return cellKey{
		latCell: int(math.Floor(lat / idx.cell)),
		lonCell: idx.wrapLonCell(int(math.Floor(lon / idx.cell))),
	}
}

// Upsert stores a document's point under the named field, replacing any
// previous point of the same document and field.
func (idx *Index) Upsert(local core.LocalID, fieldName string, lat, lon float64) error {
	pt := document.GeoPoint{Lat: lat, Lon: lon}
	if err := pt.Validate(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(local, fieldName)

	e := &entry{local: local, field: fieldName, pt: pt}
	key := idx.keyFor(lat, lon)
	idx.buckets[key] = append(idx.buckets[key], e)
	idx.byLocal[local] = append(idx.byLocal[local], e)

	return nil
}

// Remove drops every field entry of the document.
func (idx *Index) Remove(local core.LocalID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(local, "")
}

// removeLocked drops the document's entries, restricted to one field when
// fieldName is non-empty.
func (idx *Index) removeLocked(local core.LocalID, fieldName string) {
	entries, ok := idx.byLocal[local]
	if !ok {
		return
	}

	kept := entries[:0]
	for _, e := range entries {
		if fieldName != "" && e.field != fieldName {
			kept = append(kept, e)
			continue
		}
		key := idx.keyFor(e.pt.Lat, e.pt.Lon)
		bucket := idx.buckets[key]
		for i, be := range bucket {
			if be == e {
				idx.buckets[key] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(idx.buckets[key]) == 0 {
			delete(idx.buckets, key)
		}
	}

	if len(kept) == 0 {
		delete(idx.byLocal, local)
	} else {
		idx.byLocal[local] = kept
	}
}

// WithinRadius returns the documents having any point within radiusKm of
// the center, boundary inclusive.
func (idx *Index) WithinRadius(lat, lon, radiusKm float64) (*bitmap.LocalBitmap, error) {
	center := document.GeoPoint{Lat: lat, Lon: lon}
	if err := center.Validate(); err != nil {
		return nil, err
	}

	out := bitmap.NewLocalBitmap()
	if radiusKm < 0 {
		return out, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	const kmPerDegree = 111.0

	latSpan := radiusKm / kmPerDegree
	cosLat := math.Cos(lat * math.Pi / 180)
	// Longitude degrees shrink toward the poles; clamp so the span never
	// explodes into a full scan except where it genuinely must.
	lonSpan := 180.0
	if cosLat > 1e-6 {
		lonSpan = math.Min(180, radiusKm/(kmPerDegree*cosLat))
	}

	// A circle reaching past a pole surrounds it; every longitude is then
	// in range.
	if lat+latSpan > 90 || lat-latSpan < -90 {
		lonSpan = 180
	}

	minLat := int(math.Floor(math.Max(lat-latSpan, -90) / idx.cell))
	maxLat := int(math.Floor(math.Min(lat+latSpan, 90) / idx.cell))

	// The raw longitude range may extend past the antimeridian; each raw
	// cell is folded onto the cyclic grid. Cap the range at one full
	// circle so no cell is visited twice.
	minLon := int(math.Floor((lon - lonSpan) / idx.cell))
	maxLon := int(math.Floor((lon + lonSpan) / idx.cell))
	if n := idx.lonCells(); maxLon-minLon+1 > n {
		maxLon = minLon + n - 1
	}

	for latCell := minLat; latCell <= maxLat; latCell++ {
		for raw := minLon; raw <= maxLon; raw++ {
			for _, e := range idx.buckets[cellKey{latCell: latCell, lonCell: idx.wrapLonCell(raw)}] {
				d := metric.Haversine(lat, lon, e.pt.Lat, e.pt.Lon)
				if d <= radiusKm {
					out.Add(e.local)
				}
			}
		}
	}

	return out, nil
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.byLocal)
}
