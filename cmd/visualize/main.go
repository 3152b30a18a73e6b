// Command visualize dumps hop rings around the source as GeoJSON for
// quick inspection in geojson.io or QGIS.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/skora17/587-project/pkg/graph"
	"github.com/skora17/587-project/pkg/reach"
)

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed graph binary")
	source := flag.Int("source", 0, "Source vertex index")
	maxHops := flag.Int("max-hops", 10, "Hop cap")
	output := flag.String("output", "reach.geojson", "Output GeoJSON path")
	flag.Parse()

	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}

	monitor, err := reach.NewMonitor(g, uint32(*source), *maxHops, nil)
	if err != nil {
		log.Fatalf("Failed to build monitor: %v", err)
	}

	fc := featureCollection{Type: "FeatureCollection"}
	for v := uint32(0); v < g.NumNodes; v++ {
		hops := monitor.Dist(v)
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type:        "Point",
				Coordinates: [2]float64{g.NodeLon[v], g.NodeLat[v]},
			},
			Properties: map[string]any{
				"node":      v,
				"hops":      hops,
				"reachable": hops <= *maxHops,
			},
		})
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(fc); err != nil {
		log.Fatalf("Failed to write GeoJSON: %v", err)
	}
	log.Printf("Wrote %d features to %s", len(fc.Features), *output)
}
