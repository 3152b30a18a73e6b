// Package snap resolves query coordinates to graph vertices.
package snap

import (
	"errors"

	"github.com/tidwall/rtree"

	"github.com/skora17/587-project/pkg/geo"
	"github.com/skora17/587-project/pkg/graph"
)

const maxSnapDistMeters = 500.0

// candidateCount bounds how many nearest candidates are re-ranked with
// the real distance. R-tree ordering is by raw degree distance, which
// is slightly anisotropic in latitude vs longitude; re-ranking a few
// candidates absorbs that.
const candidateCount = 8

// ErrPointTooFar is returned when the query point is too far from any
// intersection.
var ErrPointTooFar = errors.New("point too far from road network")

// Result is a snapped query point.
type Result struct {
	Node uint32  // graph vertex index
	Dist float64 // meters from query point to the vertex
}

// Snapper finds the nearest graph vertex to a coordinate using an
// R-tree over vertex points.
type Snapper struct {
	tr rtree.RTreeG[uint32]
}

// NewSnapper indexes all vertices of the graph.
func NewSnapper(g *graph.Graph) *Snapper {
	s := &Snapper{}
	for v := uint32(0); v < g.NumNodes; v++ {
		pt := [2]float64{g.NodeLon[v], g.NodeLat[v]}
		s.tr.Insert(pt, pt, v)
	}
	return s
}

// Snap returns the vertex nearest to (lat, lng), or ErrPointTooFar if
// everything is beyond the snap radius.
func (s *Snapper) Snap(lat, lng float64) (Result, error) {
	target := [2]float64{lng, lat}

	best := Result{Dist: -1}
	seen := 0
	s.tr.Nearby(
		rtree.BoxDist[float64, uint32](target, target, nil),
		func(min, _ [2]float64, v uint32, _ float64) bool {
			d := geo.Haversine(lat, lng, min[1], min[0])
			if best.Dist < 0 || d < best.Dist {
				best = Result{Node: v, Dist: d}
			}
			seen++
			return seen < candidateCount
		},
	)

	if best.Dist < 0 || best.Dist > maxSnapDistMeters {
		return Result{}, ErrPointTooFar
	}
	return best, nil
}
