package graphgo

import (
	"encoding/json"
	"fmt"
)

// maxPipelineLength bounds decoded pipelines so a hostile body cannot
// allocate an unbounded predicate list.
const maxPipelineLength = 50

type queryStep struct {
	Op     string    `json:"op"`
	Source string    `json:"source"`
	Label  string    `json:"label"`
	Name   string    `json:"name"`
	Lat    *float64  `json:"lat"`
	Lon    *float64  `json:"lon"`
	Radius *float64  `json:"radius"`
	Text   string    `json:"text"`
	Query  []float32 `json:"query"`
	K      *int      `json:"k"`
}

type queryDoc struct {
	Pipeline []queryStep `json:"pipeline"`
}

// QueryJSON decodes a JSON pipeline into a QueryBuilder. The body carries a
// "pipeline" array of steps, each tagged by "op":
//
//	{"pipeline": [
//	  {"op": "collection", "name": "events"},
//	  {"op": "edge_from", "source": "causes/heavy-rain", "label": "caused"},
//	  {"op": "near", "lat": -6.27, "lon": 106.81, "radius": 25},
//	  {"op": "match", "text": "accident"},
//	  {"op": "similar", "query": [0.9, 0.1, 0.1], "k": 10}
//	]}
//
// The edge label defaults to "related", the near radius to 10 km and
// similar's k to 10. Step order does not affect the result; the predicates
// combine exactly as the equivalent chained builder calls.
func (db *DB) QueryJSON(body string) (*QueryBuilder, error) {
	var doc queryDoc
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, &ErrMalformedQuery{Reason: "unparsable JSON", cause: err}
	}
	if doc.Pipeline == nil {
		return nil, &ErrMalformedQuery{Reason: "missing pipeline array"}
	}
	if len(doc.Pipeline) > maxPipelineLength {
		return nil, &ErrMalformedQuery{Reason: fmt.Sprintf("pipeline exceeds %d steps", maxPipelineLength)}
	}

	qb := db.Query()
	for i, step := range doc.Pipeline {
		if err := applyStep(qb, step); err != nil {
			return nil, &ErrMalformedQuery{Reason: fmt.Sprintf("step %d: %s", i, err)}
		}
	}
	return qb, nil
}

func applyStep(qb *QueryBuilder, step queryStep) error {
	switch step.Op {
	case "edge_from":
		if step.Source == "" {
			return fmt.Errorf("edge_from: missing source")
		}
		label := step.Label
		if label == "" {
			label = "related"
		}
		qb.HasEdgeFrom(step.Source, label)
	case "collection":
		if step.Name == "" {
			return fmt.Errorf("collection: missing name")
		}
		qb.InCollection(step.Name)
	case "near":
		if step.Lat == nil || step.Lon == nil {
			return fmt.Errorf("near: missing lat or lon")
		}
		radius := 10.0
		if step.Radius != nil {
			radius = *step.Radius
		}
		qb.Spatial(*step.Lat, *step.Lon, radius)
	case "match":
		if step.Text == "" {
			return fmt.Errorf("match: missing text")
		}
		qb.Fulltext(step.Text)
	case "similar":
		if len(step.Query) == 0 {
			return fmt.Errorf("similar: missing query vector")
		}
		k := 10
		if step.K != nil {
			k = *step.K
		}
		qb.VectorSearch(step.Query, k)
	case "":
		return fmt.Errorf("missing op")
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}
