package sssp

// bfsSeed computes truncated BFS distances from source over the given
// out-adjacency: 0 at the source, d for vertices whose shortest path
// has length d <= depthCap, depthCap+1 otherwise. Level-synchronous,
// O(V+E).
func bfsSeed(adj [][]uint32, source uint32, depthCap int) []int {
	n := len(adj)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = depthCap + 1
	}
	dist[source] = 0

	frontier := []uint32{source}
	for level := 0; level < depthCap && len(frontier) > 0; level++ {
		var next []uint32
		for _, v := range frontier {
			for _, u := range adj[v] {
				if dist[u] > level+1 {
					dist[u] = level + 1
					next = append(next, u)
				}
			}
		}
		frontier = next
	}
	return dist
}
