// Package sssp maintains bounded-hop single-source shortest paths on a
// directed graph under batches of edge deletions. For every vertex v it
// keeps Dist(v) in {0..L+1}, where L is the hop cap and L+1 means
// "farther than L or unreachable", together with a BFS tree rooted at
// the source. Each deletion batch re-parents orphaned vertices with a
// layer-by-layer frontier relaxation driven by per-vertex priority
// structures over in-neighbors.
package sssp

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/skora17/587-project/pkg/pstruct"
)

// NoVertex marks an absent parent.
const NoVertex = uint32(math.MaxUint32)

// Edge identifies a directed edge (From, To).
type Edge struct {
	From uint32
	To   uint32
}

// Maintainer owns the decremental SSSP state. BatchDelete is a
// single-writer critical section: no concurrent reads or writes are
// permitted while it runs. Between batches the read accessors are safe
// without locking.
type Maintainer struct {
	n        uint32
	source   uint32
	depthCap int

	dist     []int                    // 0..depthCap+1 per vertex
	out      [][]uint32               // alive out-neighbors, unordered
	in       []*pstruct.Tree[uint32]  // in-neighbors keyed by priority u+1
	scan     []int                    // rank cursor into in[v]
	parent   []uint32                 // tree parent, NoVertex outside the tree
	children [][]uint32               // tree children
	alive    map[uint64]struct{}      // packed edge keys
}

// encodeEdge packs a directed edge into the alive-set key.
func encodeEdge(u, v uint32) uint64 {
	return uint64(u)<<32 | uint64(v)
}

// New builds the maintainer for the graph given as out-adjacency lists,
// with the BFS tree rooted at source and distances capped at depthCap.
// Self-loops and duplicate edges are dropped at ingest: each in-list
// maps every neighbor to a unique priority.
func New(adj [][]uint32, source uint32, depthCap int) (*Maintainer, error) {
	n := uint32(len(adj))
	if source >= n {
		return nil, fmt.Errorf("source %d out of range [0,%d)", source, n)
	}
	if depthCap < 1 {
		return nil, fmt.Errorf("depth cap %d must be at least 1", depthCap)
	}

	m := &Maintainer{
		n:        n,
		source:   source,
		depthCap: depthCap,
		out:      make([][]uint32, n),
		in:       make([]*pstruct.Tree[uint32], n),
		scan:     make([]int, n),
		parent:   make([]uint32, n),
		children: make([][]uint32, n),
		alive:    make(map[uint64]struct{}),
	}

	// Sanitized copy of the adjacency: no self-loops, no duplicates,
	// targets in range.
	for u := uint32(0); u < n; u++ {
		seen := make(map[uint32]struct{}, len(adj[u]))
		for _, v := range adj[u] {
			if v >= n || v == u {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			m.out[u] = append(m.out[u], v)
			m.alive[encodeEdge(u, v)] = struct{}{}
		}
	}

	m.dist = bfsSeed(m.out, source, depthCap)

	// In(v): priority structure over in-neighbors, priority u+1. Each
	// vertex's build is independent, so they run concurrently.
	inAdj := make([][]pstruct.Elem[uint32], n)
	for u := uint32(0); u < n; u++ {
		for _, v := range m.out[u] {
			inAdj[v] = append(inAdj[v], pstruct.Elem[uint32]{Value: u, Priority: int(u) + 1})
		}
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for v := uint32(0); v < n; v++ {
		g.Go(func() error {
			t := pstruct.New[uint32](int(n))
			if err := t.Initialize(inAdj[v]); err != nil {
				return fmt.Errorf("build in-structure of %d: %w", v, err)
			}
			m.in[v] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.initTree()
	return m, nil
}

// initTree seeds Parent, Children, and Scan from the freshly computed
// distances: every vertex inside the horizon adopts its smallest-rank
// in-neighbor one level closer to the source.
func (m *Maintainer) initTree() {
	for v := uint32(0); v < m.n; v++ {
		m.parent[v] = NoVertex
		d := m.dist[v]
		if d == 0 || d > m.depthCap {
			m.scan[v] = 0
			continue
		}
		pos := m.in[v].NextWith(1, m.levelPred(v))
		if pos <= m.in[v].Size() {
			w := m.queryIn(v, pos)
			m.scan[v] = pos
			m.parent[v] = w
			m.children[w] = append(m.children[w], v)
		} else {
			m.scan[v] = m.in[v].Size() + 1
		}
	}
}

// levelPred is the re-parenting predicate for v: candidate w must sit
// one level above v's current distance and the edge (w, v) must be
// alive. Liveness is consulted in the alive set; dead edges stay in
// In(v) and are filtered here.
func (m *Maintainer) levelPred(v uint32) func(uint32) bool {
	want := m.dist[v] - 1
	return func(w uint32) bool {
		if m.dist[w] != want {
			return false
		}
		_, ok := m.alive[encodeEdge(w, v)]
		return ok
	}
}

// queryIn reads the in-neighbor of v at the given rank. The rank was
// produced by NextWith against the same structure, so failure here is a
// corrupted tree.
func (m *Maintainer) queryIn(v uint32, rank int) uint32 {
	w, err := m.in[v].Query(rank)
	if err != nil {
		panic(fmt.Sprintf("sssp: in-structure of %d rejected rank %d: %v", v, rank, err))
	}
	return w
}

// Dist returns the current bounded distance of v: 0 for the source,
// 1..L for vertices inside the horizon, L+1 beyond it.
func (m *Maintainer) Dist(v uint32) int {
	return m.dist[v]
}

// Parent returns v's parent in the BFS tree, or NoVertex if v is the
// source or outside the horizon.
func (m *Maintainer) Parent(v uint32) uint32 {
	return m.parent[v]
}

// Source returns the BFS root.
func (m *Maintainer) Source() uint32 { return m.source }

// DepthCap returns the hop cap L.
func (m *Maintainer) DepthCap() int { return m.depthCap }

// NumVertices returns the vertex count.
func (m *Maintainer) NumVertices() uint32 { return m.n }

// AliveEdges returns the number of edges not yet deleted.
func (m *Maintainer) AliveEdges() int { return len(m.alive) }

// Alive reports whether the edge u→v exists and has not been deleted.
func (m *Maintainer) Alive(u, v uint32) bool {
	if u >= m.n || v >= m.n {
		return false
	}
	_, ok := m.alive[encodeEdge(u, v)]
	return ok
}

// Reachable returns the number of vertices within the hop cap,
// including the source.
func (m *Maintainer) Reachable() int {
	count := 0
	for _, d := range m.dist {
		if d <= m.depthCap {
			count++
		}
	}
	return count
}

// removeOut deletes v from u's out-list. Order is not meaningful, so
// the last element fills the hole.
func (m *Maintainer) removeOut(u, v uint32) {
	list := m.out[u]
	for i, x := range list {
		if x == v {
			list[i] = list[len(list)-1]
			m.out[u] = list[:len(list)-1]
			return
		}
	}
}

// removeChild deletes v from u's child list if present.
func (m *Maintainer) removeChild(u, v uint32) {
	list := m.children[u]
	for i, x := range list {
		if x == v {
			list[i] = list[len(list)-1]
			m.children[u] = list[:len(list)-1]
			return
		}
	}
}
