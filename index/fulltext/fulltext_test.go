package fulltext

import (
	"testing"

	"github.com/hupe1980/graphgo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCaseInsensitive(t *testing.T) {
	idx := New(nil)

	idx.Upsert(0, "Traffic accident in Kemang")
	idx.Upsert(1, "Heavy rain over the city")

	scores := idx.Search("Accident")
	require.Contains(t, scores, core.LocalID(0))
	assert.NotContains(t, scores, core.LocalID(1))
}

func TestSearchPunctuationSplit(t *testing.T) {
	idx := New(nil)

	idx.Upsert(0, "flood-warning: river rising!")

	scores := idx.Search("warning river")
	assert.Contains(t, scores, core.LocalID(0))
}

func TestSearchUnicodeTerms(t *testing.T) {
	idx := New(nil)

	idx.Upsert(0, "Café au lait")
	idx.Upsert(1, "Überschwemmung an der Küste")
	idx.Upsert(2, "東京で地震")

	assert.Contains(t, idx.Search("café"), core.LocalID(0))
	assert.Contains(t, idx.Search("überschwemmung"), core.LocalID(1))
	assert.Contains(t, idx.Search("東京で地震"), core.LocalID(2))
	assert.NotContains(t, idx.Search("caf"), core.LocalID(0))
}

func TestTermFrequencyMonotonic(t *testing.T) {
	idx := New(nil)

	idx.Upsert(0, "rain rain rain storm")
	idx.Upsert(1, "rain storm storm storm")

	scores := idx.Search("rain")
	require.Contains(t, scores, core.LocalID(0))
	require.Contains(t, scores, core.LocalID(1))
	assert.Greater(t, scores[0], scores[1])
}

func TestRareTermsScoreHigher(t *testing.T) {
	idx := New(nil)

	idx.Upsert(0, "common landslide")
	idx.Upsert(1, "common")
	idx.Upsert(2, "common")

	scores := idx.Search("common landslide")
	// "landslide" appears in one document, "common" in all three.
	assert.Greater(t, scores[0], scores[1])
}

func TestStopWords(t *testing.T) {
	idx := New([]string{"the", "in"})

	idx.Upsert(0, "the crash in the city")

	assert.Empty(t, idx.Search("the in"))
	assert.Contains(t, idx.Search("crash"), core.LocalID(0))
}

func TestUpsertReplaces(t *testing.T) {
	idx := New(nil)

	idx.Upsert(0, "earthquake")
	idx.Upsert(0, "wildfire")

	assert.Empty(t, idx.Search("earthquake"))
	assert.Contains(t, idx.Search("wildfire"), core.LocalID(0))
	assert.Equal(t, 1, idx.Len())
}

func TestRemove(t *testing.T) {
	idx := New(nil)

	idx.Upsert(0, "storm surge")
	idx.Upsert(1, "storm cell")

	idx.Remove(0)
	assert.Equal(t, 1, idx.Len())

	scores := idx.Search("storm")
	assert.NotContains(t, scores, core.LocalID(0))
	assert.Contains(t, scores, core.LocalID(1))

	// Removing an unknown document is a no-op.
	idx.Remove(99)
	assert.Equal(t, 1, idx.Len())
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := New(nil)
	assert.Empty(t, idx.Search("anything"))
}
