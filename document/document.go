// Package document defines the stored document model: qualified ids, open
// attributes as tagged-union values, and the reserved vectors/geo
// substructures, together with the JSON wire codec.
package document

import (
	"encoding/json"
	"strings"
)

// DefaultCollection is the collection assigned to bare keys.
const DefaultCollection = "nodes"

// Reserved top-level fields of the wire shape.
const (
	FieldID      = "_id"
	FieldFrom    = "_from"
	FieldTo      = "_to"
	FieldType    = "_type"
	FieldWeight  = "weight"
	FieldVectors = "vectors"
	FieldGeo     = "geo"
)

// GeoPoint is a geographic coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the coordinate ranges.
func (p GeoPoint) Validate() error {
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return &ErrInvalidCoordinate{Lat: p.Lat, Lon: p.Lon}
	}
	return nil
}

// Document is the canonical stored record: a qualified id, an open attribute
// mapping, and the reserved vectors/geo substructures used for indexing.
type Document struct {
	ID      string
	Attrs   Attributes
	Vectors map[string][]float32
	Geo     map[string]GeoPoint
}

// Clone returns a deep copy, safe to hand out to callers.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		ID:    d.ID,
		Attrs: d.Attrs.Clone(),
	}
	if d.Vectors != nil {
		out.Vectors = make(map[string][]float32, len(d.Vectors))
		for name, vec := range d.Vectors {
			cp := make([]float32, len(vec))
			copy(cp, vec)
			out.Vectors[name] = cp
		}
	}
	if d.Geo != nil {
		out.Geo = make(map[string]GeoPoint, len(d.Geo))
		for name, pt := range d.Geo {
			out.Geo[name] = pt
		}
	}
	return out
}

// Text concatenates the named attribute fields for fulltext indexing,
// falling back to every string attribute when none of the configured
// fields is present.
func (d *Document) Text(fields []string) string {
	var parts []string
	for _, f := range fields {
		if v, ok := d.Attrs[f]; ok {
			if s, ok := v.AsString(); ok {
				parts = append(parts, s)
			}
		}
	}
	if len(parts) == 0 {
		for _, v := range d.Attrs {
			if s, ok := v.AsString(); ok {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}

// ResolveID maps a caller-supplied key to a qualified "<collection>/<key>"
// id. Bare keys default to the "nodes" collection. Applied uniformly at
// every entry point.
func ResolveID(key string) string {
	if strings.Contains(key, "/") {
		return key
	}
	return DefaultCollection + "/" + key
}

// IsQualified reports whether id carries an explicit collection prefix with
// non-empty parts on both sides.
func IsQualified(id string) bool {
	coll, key, ok := strings.Cut(id, "/")
	return ok && coll != "" && key != ""
}

// Collection returns the collection prefix of a qualified id.
func Collection(id string) string {
	coll, _, ok := strings.Cut(id, "/")
	if !ok {
		return DefaultCollection
	}
	return coll
}

// Decode parses a JSON body into a Document. The _id field, when present,
// is carried over verbatim; qualification is the caller's concern. Geo
// coordinates are range-checked here so malformed input is rejected before
// it reaches the primary store.
func Decode(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ErrMalformedDocument{Reason: "body is not a JSON object", cause: err}
	}

	doc := &Document{Attrs: make(Attributes)}

	for field, val := range raw {
		switch field {
		case FieldID:
			id, ok := val.(string)
			if !ok {
				return nil, &ErrMalformedDocument{Reason: "_id must be a string"}
			}
			doc.ID = id
		case FieldVectors:
			vectors, err := decodeVectors(val)
			if err != nil {
				return nil, err
			}
			doc.Vectors = vectors
		case FieldGeo:
			geo, err := decodeGeo(val)
			if err != nil {
				return nil, err
			}
			doc.Geo = geo
		default:
			doc.Attrs[field] = FromAny(val)
		}
	}

	return doc, nil
}

func decodeVectors(val any) (map[string][]float32, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, &ErrMalformedDocument{Reason: "vectors must be an object of float arrays"}
	}
	out := make(map[string][]float32, len(m))
	for name, rawVec := range m {
		arr, ok := rawVec.([]any)
		if !ok {
			return nil, &ErrMalformedDocument{Reason: "vector field " + name + " must be an array"}
		}
		vec := make([]float32, len(arr))
		for i, comp := range arr {
			f, ok := comp.(float64)
			if !ok {
				return nil, &ErrMalformedDocument{Reason: "vector field " + name + " has a non-numeric component"}
			}
			vec[i] = float32(f)
		}
		out[name] = vec
	}
	return out, nil
}

func decodeGeo(val any) (map[string]GeoPoint, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, &ErrMalformedDocument{Reason: "geo must be an object of {lat, lon} pairs"}
	}
	out := make(map[string]GeoPoint, len(m))
	for name, rawPt := range m {
		obj, ok := rawPt.(map[string]any)
		if !ok {
			return nil, &ErrMalformedDocument{Reason: "geo field " + name + " must be an object"}
		}
		lat, latOK := obj["lat"].(float64)
		lon, lonOK := obj["lon"].(float64)
		if !latOK || !lonOK {
			return nil, &ErrMalformedDocument{Reason: "geo field " + name + " must carry numeric lat and lon"}
		}
		pt := GeoPoint{Lat: lat, Lon: lon}
		if err := pt.Validate(); err != nil {
			return nil, err
		}
		out[name] = pt
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler, producing the wire shape:
// _id and attributes at the top level, vectors and geo as reserved
// substructures.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Attrs)+3)
	for k, v := range d.Attrs {
		out[k] = v.ToAny()
	}
	out[FieldID] = d.ID
	if len(d.Vectors) > 0 {
		out[FieldVectors] = d.Vectors
	}
	if len(d.Geo) > 0 {
		out[FieldGeo] = d.Geo
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler via Decode.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// EdgeSpec is the edge form of a JSON write: a body carrying _from and _to
// instead of _id. Weight defaults to 1 and label to "related" when absent.
type EdgeSpec struct {
	From   string
	To     string
	Weight float64
	Label  string
}

// AsEdgeSpec interprets a decoded document as an edge write when both
// _from and _to attributes are present.
func (d *Document) AsEdgeSpec() (*EdgeSpec, bool) {
	from, fromOK := d.Attrs[FieldFrom].AsString()
	to, toOK := d.Attrs[FieldTo].AsString()
	if !fromOK || !toOK {
		return nil, false
	}
	spec := &EdgeSpec{From: from, To: to, Weight: 1, Label: "related"}
	if w, ok := d.Attrs[FieldWeight].AsFloat64(); ok {
		spec.Weight = w
	}
	if label, ok := d.Attrs[FieldType].AsString(); ok {
		spec.Label = label
	}
	return spec, true
}
