package geo

import (
	"testing"

	"github.com/hupe1980/graphgo/core"
	"github.com/hupe1980/graphgo/document"
	"github.com/hupe1980/graphgo/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinRadius(t *testing.T) {
	idx := New(0)

	// Central Jakarta and surroundings.
	require.NoError(t, idx.Upsert(0, "location", -6.27, 106.81))
	require.NoError(t, idx.Upsert(1, "location", -6.30, 106.83))
	// Bandung, roughly 120 km away.
	require.NoError(t, idx.Upsert(2, "location", -6.917, 107.619))

	hits, err := idx.WithinRadius(-6.27, 106.81, 5.0)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
	assert.True(t, hits.Contains(1))
	assert.False(t, hits.Contains(2))

	hits, err = idx.WithinRadius(-6.27, 106.81, 200.0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), hits.Cardinality())
}

func TestWithinRadiusBoundaryInclusive(t *testing.T) {
	idx := New(0)

	require.NoError(t, idx.Upsert(0, "location", 1.0, 0.0))

	d := metric.Haversine(0, 0, 1.0, 0.0)
	hits, err := idx.WithinRadius(0, 0, d)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))

	hits, err = idx.WithinRadius(0, 0, d-0.01)
	require.NoError(t, err)
	assert.False(t, hits.Contains(0))
}

func TestWithinRadiusCrossesCells(t *testing.T) {
	// Points close together but on opposite sides of a cell boundary.
	idx := New(1.0)

	require.NoError(t, idx.Upsert(0, "location", 0.999, 0.0))
	require.NoError(t, idx.Upsert(1, "location", 1.001, 0.0))

	hits, err := idx.WithinRadius(1.0, 0.0, 1.0)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
	assert.True(t, hits.Contains(1))
}

func TestWithinRadiusAntimeridian(t *testing.T) {
	idx := New(1.0)

	// Either side of the 180th meridian, about 22 km apart.
	require.NoError(t, idx.Upsert(0, "location", 0, 179.9))
	require.NoError(t, idx.Upsert(1, "location", 0, -179.9))

	hits, err := idx.WithinRadius(0, -179.9, 50)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
	assert.True(t, hits.Contains(1))

	hits, err = idx.WithinRadius(0, 179.9, 50)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
	assert.True(t, hits.Contains(1))
}

func TestWithinRadiusDateLineSharedCell(t *testing.T) {
	idx := New(1.0)

	// lon 180 and -180 are the same meridian.
	require.NoError(t, idx.Upsert(0, "location", 0, 180))

	hits, err := idx.WithinRadius(0, -180, 1)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
}

func TestWithinRadiusAcrossPole(t *testing.T) {
	idx := New(1.0)

	// Opposite meridians near the north pole, roughly 111 km apart over
	// the top.
	require.NoError(t, idx.Upsert(0, "location", 89.5, 150))

	hits, err := idx.WithinRadius(89.5, -30, 120)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
}

func TestWithinRadiusInvalidCenter(t *testing.T) {
	idx := New(0)

	_, err := idx.WithinRadius(95, 0, 1)
	var invalid *document.ErrInvalidCoordinate
	require.ErrorAs(t, err, &invalid)
}

func TestUpsertInvalidCoordinate(t *testing.T) {
	idx := New(0)

	err := idx.Upsert(0, "location", 0, 181)
	var invalid *document.ErrInvalidCoordinate
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, idx.Len())
}

func TestUpsertReplacesField(t *testing.T) {
	idx := New(0)

	require.NoError(t, idx.Upsert(0, "location", 10, 10))
	require.NoError(t, idx.Upsert(0, "location", -40, -40))

	hits, err := idx.WithinRadius(10, 10, 1)
	require.NoError(t, err)
	assert.False(t, hits.Contains(0))

	hits, err = idx.WithinRadius(-40, -40, 1)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
	assert.Equal(t, 1, idx.Len())
}

func TestRemove(t *testing.T) {
	idx := New(0)

	require.NoError(t, idx.Upsert(0, "location", 10, 10))
	require.NoError(t, idx.Upsert(0, "office", 11, 11))
	require.NoError(t, idx.Upsert(1, "location", 10, 10))

	idx.Remove(0)
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.WithinRadius(10, 10, 5)
	require.NoError(t, err)
	assert.False(t, hits.Contains(core.LocalID(0)))
	assert.True(t, hits.Contains(1))
}

func TestMultipleFieldsMatch(t *testing.T) {
	idx := New(0)

	require.NoError(t, idx.Upsert(0, "home", 0, 0))
	require.NoError(t, idx.Upsert(0, "work", 50, 50))

	hits, err := idx.WithinRadius(50, 50, 10)
	require.NoError(t, err)
	assert.True(t, hits.Contains(0))
}
