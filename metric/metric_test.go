package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	assert.InDelta(t, 1.0, Dot([]float32{1, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 0.0, Dot([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, Dot([]float32{1, 0}, []float32{-1, 0}), 1e-6)
}

func TestNormalize(t *testing.T) {
	n := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0.8, n[1], 1e-6)
	assert.InDelta(t, 1.0, Magnitude(n), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestHaversine(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, Haversine(-6.27, 106.81, -6.27, 106.81), 1e-9)

	// One degree of latitude is roughly 111 km.
	d := Haversine(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.5)

	// Jakarta to Bandung, roughly 120 km.
	d = Haversine(-6.2, 106.816, -6.917, 107.619)
	assert.InDelta(t, 120, d, 10)
}
