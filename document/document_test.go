package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveID(t *testing.T) {
	assert.Equal(t, "nodes/alpha", ResolveID("alpha"))
	assert.Equal(t, "events/crash-kemang", ResolveID("events/crash-kemang"))
	assert.Equal(t, "nodes", Collection("nodes/alpha"))
	assert.Equal(t, "events", Collection("events/crash-kemang"))
	assert.True(t, IsQualified("events/crash-kemang"))
	assert.False(t, IsQualified("crash-kemang"))
	assert.False(t, IsQualified("/crash-kemang"))
	assert.False(t, IsQualified("events/"))
}

func TestDecode(t *testing.T) {
	body := `{
		"_id": "events/crash-kemang",
		"title": "Traffic accident in Kemang",
		"severity": 3,
		"resolved": false,
		"vectors": {"dense": [0.9, 0.1, 0.1]},
		"geo": {"location": {"lat": -6.27, "lon": 106.81}}
	}`

	doc, err := Decode([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "events/crash-kemang", doc.ID)
	assert.Equal(t, "Traffic accident in Kemang", doc.Attrs["title"].StringValue())

	sev, ok := doc.Attrs["severity"].AsFloat64()
	require.True(t, ok)
	assert.Equal(t, 3.0, sev)

	require.Contains(t, doc.Vectors, "dense")
	assert.Equal(t, []float32{0.9, 0.1, 0.1}, doc.Vectors["dense"])

	require.Contains(t, doc.Geo, "location")
	assert.InDelta(t, -6.27, doc.Geo["location"].Lat, 1e-9)
	assert.InDelta(t, 106.81, doc.Geo["location"].Lon, 1e-9)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "array root", body: `[1,2,3]`},
		{name: "id not string", body: `{"_id": 42}`},
		{name: "vectors not object", body: `{"vectors": [1,2]}`},
		{name: "vector not array", body: `{"vectors": {"dense": "oops"}}`},
		{name: "vector component not numeric", body: `{"vectors": {"dense": [0.1, "x"]}}`},
		{name: "geo not object", body: `{"geo": 1}`},
		{name: "geo missing lon", body: `{"geo": {"location": {"lat": 1.0}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			var malformed *ErrMalformedDocument
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestDecodeInvalidCoordinate(t *testing.T) {
	body := `{"geo": {"location": {"lat": 91.0, "lon": 0.0}}}`
	_, err := Decode([]byte(body))

	var invalid *ErrInvalidCoordinate
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 91.0, invalid.Lat)
}

func TestGeoPointValidate(t *testing.T) {
	assert.NoError(t, GeoPoint{Lat: 90, Lon: 180}.Validate())
	assert.NoError(t, GeoPoint{Lat: -90, Lon: -180}.Validate())
	assert.Error(t, GeoPoint{Lat: 0, Lon: 180.1}.Validate())
	assert.Error(t, GeoPoint{Lat: -90.5, Lon: 0}.Validate())
}

func TestMarshalRoundTrip(t *testing.T) {
	body := `{
		"_id": "causes/heavy-rain",
		"title": "Heavy rain",
		"tags": ["weather", "rain"],
		"meta": {"source": "radar"},
		"vectors": {"dense": [0.1, 0.2]},
		"geo": {"location": {"lat": 1.5, "lon": 2.5}}
	}`

	doc, err := Decode([]byte(body))
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, doc.ID, back.ID)
	assert.Equal(t, doc.Vectors, back.Vectors)
	assert.Equal(t, doc.Geo, back.Geo)
	assert.Equal(t, "Heavy rain", back.Attrs["title"].StringValue())

	tags, ok := back.Attrs["tags"].AsArray()
	require.True(t, ok)
	require.Len(t, tags, 2)
	assert.Equal(t, "weather", tags[0].StringValue())

	meta, ok := back.Attrs["meta"].AsObject()
	require.True(t, ok)
	assert.Equal(t, "radar", meta["source"].StringValue())
}

func TestText(t *testing.T) {
	doc, err := Decode([]byte(`{"title": "Flood warning", "content": "River rising", "severity": 2}`))
	require.NoError(t, err)

	assert.Equal(t, "Flood warning River rising", doc.Text([]string{"title", "content"}))

	// Fallback to every string attribute when configured fields are absent.
	doc2, err := Decode([]byte(`{"headline": "Landslide"}`))
	require.NoError(t, err)
	assert.Equal(t, "Landslide", doc2.Text([]string{"title", "content"}))
}

func TestAsEdgeSpec(t *testing.T) {
	doc, err := Decode([]byte(`{"_from": "causes/heavy-rain", "_to": "events/crash-kemang", "weight": 0.9, "_type": "caused"}`))
	require.NoError(t, err)

	spec, ok := doc.AsEdgeSpec()
	require.True(t, ok)
	assert.Equal(t, "causes/heavy-rain", spec.From)
	assert.Equal(t, "events/crash-kemang", spec.To)
	assert.Equal(t, 0.9, spec.Weight)
	assert.Equal(t, "caused", spec.Label)

	// Defaults when weight and _type are absent.
	doc2, err := Decode([]byte(`{"_from": "a", "_to": "b"}`))
	require.NoError(t, err)
	spec2, ok := doc2.AsEdgeSpec()
	require.True(t, ok)
	assert.Equal(t, 1.0, spec2.Weight)
	assert.Equal(t, "related", spec2.Label)

	// Not an edge form.
	doc3, err := Decode([]byte(`{"_id": "nodes/a"}`))
	require.NoError(t, err)
	_, ok = doc3.AsEdgeSpec()
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	doc, err := Decode([]byte(`{"_id": "nodes/a", "tags": ["x"], "vectors": {"dense": [1.0]}}`))
	require.NoError(t, err)

	clone := doc.Clone()
	clone.Attrs["tags"].A[0] = String("mutated")
	clone.Vectors["dense"][0] = 42

	tags, _ := doc.Attrs["tags"].AsArray()
	assert.Equal(t, "x", tags[0].StringValue())
	assert.Equal(t, float32(1.0), doc.Vectors["dense"][0])
}
