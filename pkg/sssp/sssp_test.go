package sssp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// refDistances recomputes truncated BFS distances over the maintainer's
// current alive adjacency, independently of the incremental machinery.
func refDistances(m *Maintainer) []int {
	n := int(m.n)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = m.depthCap + 1
	}
	dist[m.source] = 0
	queue := []uint32{m.source}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if dist[v] == m.depthCap {
			continue
		}
		for _, u := range m.out[v] {
			if dist[u] > dist[v]+1 {
				dist[u] = dist[v] + 1
				queue = append(queue, u)
			}
		}
	}
	return dist
}

// checkInvariants asserts the distance and tree invariants that must
// hold between batches.
func checkInvariants(t *testing.T, m *Maintainer) {
	t.Helper()
	ref := refDistances(m)

	for v := uint32(0); v < m.n; v++ {
		require.Equal(t, ref[v], m.dist[v], "dist of %d", v)

		d := m.dist[v]
		switch {
		case v == m.source:
			require.Equal(t, NoVertex, m.parent[v], "source parent")
		case d >= 1 && d <= m.depthCap:
			p := m.parent[v]
			require.NotEqual(t, NoVertex, p, "vertex %d at dist %d has no parent", v, d)
			_, ok := m.alive[encodeEdge(p, v)]
			require.True(t, ok, "tree edge (%d,%d) not alive", p, v)
			require.Equal(t, d-1, m.dist[p], "parent %d of %d", p, v)
		default:
			require.Equal(t, NoVertex, m.parent[v], "vertex %d beyond horizon", v)
		}
	}

	// Children lists mirror parent pointers exactly.
	childCount := make(map[uint32]int)
	for w := uint32(0); w < m.n; w++ {
		for _, c := range m.children[w] {
			require.Equal(t, w, m.parent[c], "child %d listed under %d", c, w)
			childCount[c]++
		}
	}
	for c, cnt := range childCount {
		require.Equal(t, 1, cnt, "child %d listed %d times", c, cnt)
	}
	for v := uint32(0); v < m.n; v++ {
		if m.parent[v] != NoVertex {
			require.Equal(t, 1, childCount[v], "parented vertex %d missing from child lists", v)
		}
	}

	// Alive set and out-lists agree.
	outEdges := 0
	for u := uint32(0); u < m.n; u++ {
		outEdges += len(m.out[u])
		for _, v := range m.out[u] {
			_, ok := m.alive[encodeEdge(u, v)]
			require.True(t, ok, "out edge (%d,%d) not alive", u, v)
		}
	}
	require.Equal(t, outEdges, len(m.alive))
}

// Line graph:
//
//	0 → 1 → 2 → 3
func TestLineGraph(t *testing.T) {
	adj := [][]uint32{{1}, {2}, {3}, {}}
	m, err := New(adj, 0, 3)
	require.NoError(t, err)

	require.Equal(t, []int{0, 1, 2, 3}, m.dist)
	require.Equal(t, NoVertex, m.Parent(0))
	require.Equal(t, uint32(0), m.Parent(1))
	require.Equal(t, uint32(1), m.Parent(2))
	require.Equal(t, uint32(2), m.Parent(3))
	checkInvariants(t, m)

	m.BatchDelete([]Edge{{1, 2}})
	require.Equal(t, []int{0, 1, 4, 4}, m.dist)
	require.Equal(t, NoVertex, m.Parent(2))
	require.Equal(t, NoVertex, m.Parent(3))
	checkInvariants(t, m)

	// Deleting the same edge again is a no-op.
	m.BatchDelete([]Edge{{1, 2}})
	require.Equal(t, []int{0, 1, 4, 4}, m.dist)
	checkInvariants(t, m)
}

// Diamond with an alternate path into 3:
//
//	0 → 1 → 3 → 5
//	0 → 2 → 3
//	    2 → 4
func TestDiamondAlternate(t *testing.T) {
	adj := [][]uint32{{1, 2}, {3}, {3, 4}, {5}, {}, {}}
	m, err := New(adj, 0, 3)
	require.NoError(t, err)

	require.Equal(t, []int{0, 1, 1, 2, 2, 3}, m.dist)
	// In(3) ranks its in-neighbors 2 before 1 (larger id, larger
	// priority), so the initial parent of 3 is 2.
	require.Equal(t, uint32(2), m.Parent(3))
	checkInvariants(t, m)

	m.BatchDelete([]Edge{{2, 3}})
	// 1 → 3 keeps 3 at distance 2; only the parent changes.
	require.Equal(t, []int{0, 1, 1, 2, 2, 3}, m.dist)
	require.Equal(t, uint32(1), m.Parent(3))
	checkInvariants(t, m)
}

// Undirected 5-cycle, each edge as a directed pair:
//
//	0 ↔ 1 ↔ 2 ↔ 3 ↔ 4 ↔ 0
func TestCycle(t *testing.T) {
	adj := [][]uint32{{1, 4}, {0, 2}, {1, 3}, {2, 4}, {3, 0}}
	m, err := New(adj, 0, 3)
	require.NoError(t, err)

	require.Equal(t, []int{0, 1, 2, 2, 1}, m.dist)
	checkInvariants(t, m)

	// Cutting both directions of 0↔1 forces 1 around the long way:
	// 0→4→3→2→1 has length 4, past the cap, so 1 drops out, 2 settles
	// one level deeper via 3, and 3 keeps its distance through 4.
	m.BatchDelete([]Edge{{0, 1}, {1, 0}})
	require.Equal(t, []int{0, 4, 3, 2, 1}, m.dist)
	checkInvariants(t, m)
}

// The example graph the engine was first exercised on:
//
//	0 → 1    1 → 3
//	0 → 2    2 → 3, 2 → 4
//	3 → 5
func TestBranchingGraph(t *testing.T) {
	adj := [][]uint32{{1, 2}, {3}, {3, 4}, {5}, {}, {}}
	m, err := New(adj, 0, 3)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 1, 2, 2, 3}, m.dist)

	// Deleting both edges into 3 severs 5 as well.
	m.BatchDelete([]Edge{{1, 3}, {2, 3}})
	require.Equal(t, []int{0, 1, 1, 4, 2, 4}, m.dist)
	checkInvariants(t, m)
}

func TestBatchDeleteEmptyAndMalformed(t *testing.T) {
	adj := [][]uint32{{1}, {2}, {}}
	m, err := New(adj, 0, 2)
	require.NoError(t, err)

	before := append([]int(nil), m.dist...)
	m.BatchDelete(nil)
	require.Equal(t, before, m.dist)

	// Nonexistent edges, reversed edges, and out-of-range endpoints are
	// all skipped without affecting the rest of the batch.
	m.BatchDelete([]Edge{{2, 0}, {1, 0}, {7, 1}, {0, 9}, {0, 1}})
	require.Equal(t, []int{0, 3, 3}, m.dist)
	checkInvariants(t, m)
}

func TestIngestSanitization(t *testing.T) {
	// Self-loops, duplicate edges, and out-of-range targets are dropped
	// before the in-structures are built.
	adj := [][]uint32{{0, 1, 1, 9}, {2, 2}, {}}
	m, err := New(adj, 0, 2)
	require.NoError(t, err)
	require.Equal(t, 2, m.AliveEdges())
	require.Equal(t, []int{0, 1, 2}, m.dist)
	checkInvariants(t, m)
}

func TestConstructionErrors(t *testing.T) {
	if _, err := New([][]uint32{{}}, 1, 2); err == nil {
		t.Error("expected error for out-of-range source")
	}
	if _, err := New([][]uint32{{}}, 0, 0); err == nil {
		t.Error("expected error for zero depth cap")
	}
}

func TestAccessors(t *testing.T) {
	adj := [][]uint32{{1}, {2}, {3}, {}}
	m, err := New(adj, 0, 2)
	require.NoError(t, err)

	require.Equal(t, uint32(0), m.Source())
	require.Equal(t, 2, m.DepthCap())
	require.Equal(t, uint32(4), m.NumVertices())
	require.Equal(t, 3, m.AliveEdges())
	require.Equal(t, 3, m.Reachable()) // 0, 1, 2; vertex 3 is past the cap

	m.BatchDelete([]Edge{{0, 1}})
	require.Equal(t, 2, m.AliveEdges())
	require.Equal(t, 1, m.Reachable())
}
