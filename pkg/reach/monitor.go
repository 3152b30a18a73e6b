// Package reach composes the road graph, the decremental SSSP engine,
// and the coordinate snapper into a hop-limited reachability monitor.
package reach

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/skora17/587-project/pkg/graph"
	"github.com/skora17/587-project/pkg/snap"
	"github.com/skora17/587-project/pkg/sssp"
)

// Closure is one road closure request. BothDirections closes the
// reverse edge too, which is how two-way streets are modeled.
type Closure struct {
	From           uint32
	To             uint32
	BothDirections bool
}

// Result is the answer to a reachability query.
type Result struct {
	Node      uint32  `json:"node"`
	Hops      int     `json:"hops"`
	Reachable bool    `json:"reachable"`
	SnapDist  float64 `json:"snap_dist_meters,omitempty"`
}

// Stats summarizes the monitor state.
type Stats struct {
	NumNodes   uint32 `json:"num_nodes"`
	AliveEdges int    `json:"alive_edges"`
	Reachable  int    `json:"reachable"`
	Source     uint32 `json:"source"`
	DepthCap   int    `json:"depth_cap"`
}

// Monitor maintains bounded-hop distances from a fixed source under
// road closures. Closure application is a single-writer critical
// section; the RWMutex lets queries run concurrently between batches.
type Monitor struct {
	mu      sync.RWMutex
	g       *graph.Graph
	engine  *sssp.Maintainer
	snapper *snap.Snapper
	log     *zap.Logger
}

// NewMonitor builds the monitor for the given graph, source vertex,
// and hop cap. A nil logger disables logging.
func NewMonitor(g *graph.Graph, source uint32, depthCap int, log *zap.Logger) (*Monitor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	engine, err := sssp.New(g.Adj, source, depthCap)
	if err != nil {
		return nil, fmt.Errorf("build sssp engine: %w", err)
	}

	m := &Monitor{
		g:       g,
		engine:  engine,
		snapper: snap.NewSnapper(g),
		log:     log,
	}
	log.Info("monitor ready",
		zap.Uint32("source", source),
		zap.Int("depth_cap", depthCap),
		zap.Uint32("nodes", g.NumNodes),
		zap.Int("edges", engine.AliveEdges()),
		zap.Int("reachable", engine.Reachable()),
	)
	return m, nil
}

// Hops returns the bounded hop distance of vertex v.
func (m *Monitor) Hops(v uint32) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v >= m.g.NumNodes {
		return Result{}, fmt.Errorf("vertex %d out of range [0,%d)", v, m.g.NumNodes)
	}
	d := m.engine.Dist(v)
	return Result{
		Node:      v,
		Hops:      d,
		Reachable: d <= m.engine.DepthCap(),
	}, nil
}

// HopsAt snaps (lat, lng) to the nearest intersection and returns its
// bounded hop distance.
func (m *Monitor) HopsAt(lat, lng float64) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sr, err := m.snapper.Snap(lat, lng)
	if err != nil {
		return Result{}, err
	}
	d := m.engine.Dist(sr.Node)
	return Result{
		Node:      sr.Node,
		Hops:      d,
		Reachable: d <= m.engine.DepthCap(),
		SnapDist:  sr.Dist,
	}, nil
}

// Close applies a batch of closures. Unknown or already-closed edges
// are skipped, matching the engine's delete semantics. It returns the
// number of directed edges actually removed.
func (m *Monitor) Close(closures []Closure) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	edges := make([]sssp.Edge, 0, 2*len(closures))
	for _, c := range closures {
		edges = append(edges, sssp.Edge{From: c.From, To: c.To})
		if c.BothDirections {
			edges = append(edges, sssp.Edge{From: c.To, To: c.From})
		}
	}

	aliveBefore := m.engine.AliveEdges()
	reachBefore := m.engine.Reachable()
	m.engine.BatchDelete(edges)
	removed := aliveBefore - m.engine.AliveEdges()

	m.log.Info("closures applied",
		zap.Int("requested", len(edges)),
		zap.Int("removed", removed),
		zap.Int("reachable_before", reachBefore),
		zap.Int("reachable_after", m.engine.Reachable()),
	)
	return removed
}

// Stats returns a snapshot of the monitor state.
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{
		NumNodes:   m.g.NumNodes,
		AliveEdges: m.engine.AliveEdges(),
		Reachable:  m.engine.Reachable(),
		Source:     m.engine.Source(),
		DepthCap:   m.engine.DepthCap(),
	}
}

// Graph returns the underlying static road graph.
func (m *Monitor) Graph() *graph.Graph { return m.g }

// Dist returns the raw bounded distance of v without range checking
// beyond the engine's own. Intended for bulk exports.
func (m *Monitor) Dist(v uint32) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine.Dist(v)
}
