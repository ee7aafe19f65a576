package graphgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/graphgo"
)

// Example demonstrates a hybrid query combining adjacency, spatial,
// fulltext and vector predicates.
func Example() {
	ctx := context.Background()

	db, err := graphgo.New()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Write("events/crash-kemang", `{
		"title": "Traffic accident in Kemang",
		"vectors": {"dense": [0.9, 0.1, 0.1]},
		"geo": {"location": {"lat": -6.27, "lon": 106.81}}
	}`); err != nil {
		log.Fatal(err)
	}
	if err := db.Write("causes/heavy-rain", `{"title": "Heavy rain"}`); err != nil {
		log.Fatal(err)
	}
	if err := db.AddEdge("causes/heavy-rain", "events/crash-kemang", 0.9, "caused"); err != nil {
		log.Fatal(err)
	}

	// Barrier: make the indexes observe the writes.
	if err := db.Flush(ctx); err != nil {
		log.Fatal(err)
	}

	ids, err := db.Query().
		HasEdgeFrom("causes/heavy-rain", "caused").
		Spatial(-6.27, 106.81, 5.0).
		Fulltext("accident").
		VectorSearch([]float32{0.9, 0.1, 0.1}, 10).
		Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(ids)
	// Output: [events/crash-kemang]
}

// Example_traversal demonstrates backward causal traversal.
func Example_traversal() {
	ctx := context.Background()

	db, err := graphgo.New()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	_ = db.AddEdge("causes/heavy-rain", "events/crash-kemang", 0.9, "caused")
	_ = db.AddEdge("causes/cold-front", "causes/heavy-rain", 0.8, "caused")
	_ = db.AddEdge("causes/rumor", "events/crash-kemang", 0.1, "caused")

	// Walk incoming edges, pruning anything below weight 0.5.
	result, err := db.Traverse(ctx, "events/crash-kemang", 3, 0.5, "caused")
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range result.Edges {
		fmt.Printf("%s -> %s (%.1f)\n", e.Source, e.Target, e.Weight)
	}
	// Output:
	// causes/heavy-rain -> events/crash-kemang (0.9)
	// causes/cold-front -> causes/heavy-rain (0.8)
}
