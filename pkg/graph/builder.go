package graph

import (
	"sort"

	"github.com/paulmach/osm"

	osmparser "github.com/skora17/587-project/pkg/osm"
)

// Build creates an adjacency-list Graph from parsed OSM edges, remapping
// OSM node IDs to dense indices. Self-loops and duplicate edges are
// dropped: the reachability engine requires each in-neighbor list to map
// every neighbor to a unique slot.
func Build(result *osmparser.ParseResult) *Graph {
	edges := result.Edges
	if len(edges) == 0 {
		return &Graph{}
	}

	// Step 1: Collect all unique node IDs and build a compact mapping.
	nodeSet := make(map[osm.NodeID]uint32)
	var nodeIDs []osm.NodeID

	addNode := func(id osm.NodeID) uint32 {
		if idx, ok := nodeSet[id]; ok {
			return idx
		}
		idx := uint32(len(nodeIDs))
		nodeSet[id] = idx
		nodeIDs = append(nodeIDs, id)
		return idx
	}

	for i := range edges {
		addNode(edges[i].FromNodeID)
		addNode(edges[i].ToNodeID)
	}

	numNodes := uint32(len(nodeIDs))

	// Step 2: Build adjacency lists with remapped indices.
	adj := make([][]uint32, numNodes)
	for _, e := range edges {
		from := nodeSet[e.FromNodeID]
		to := nodeSet[e.ToNodeID]
		if from == to {
			continue
		}
		adj[from] = append(adj[from], to)
	}

	// Step 3: Sort each neighbor list and drop duplicates in place.
	for u := range adj {
		nbrs := adj[u]
		sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
		dedup := nbrs[:0]
		for i, v := range nbrs {
			if i == 0 || v != nbrs[i-1] {
				dedup = append(dedup, v)
			}
		}
		adj[u] = dedup
	}

	// Step 4: Populate node coordinates.
	nodeLat := make([]float64, numNodes)
	nodeLon := make([]float64, numNodes)
	for id, idx := range nodeSet {
		nodeLat[idx] = result.NodeLat[id]
		nodeLon[idx] = result.NodeLon[id]
	}

	return &Graph{
		NumNodes: numNodes,
		Adj:      adj,
		NodeLat:  nodeLat,
		NodeLon:  nodeLon,
	}
}
