package snap

import (
	"errors"
	"testing"

	"github.com/skora17/587-project/pkg/graph"
)

// grid of four intersections roughly 110 m apart:
//
//	0 (1.300, 103.800)   1 (1.300, 103.801)
//	2 (1.301, 103.800)   3 (1.301, 103.801)
func testGraph() *graph.Graph {
	return &graph.Graph{
		NumNodes: 4,
		Adj:      [][]uint32{{1, 2}, {0, 3}, {0, 3}, {1, 2}},
		NodeLat:  []float64{1.300, 1.300, 1.301, 1.301},
		NodeLon:  []float64{103.800, 103.801, 103.800, 103.801},
	}
}

func TestSnapNearestVertex(t *testing.T) {
	s := NewSnapper(testGraph())

	tests := []struct {
		lat, lng float64
		want     uint32
	}{
		{1.3000, 103.8000, 0},
		{1.3001, 103.8009, 1},
		{1.3011, 103.8001, 2},
		{1.3012, 103.8012, 3},
	}
	for _, tt := range tests {
		res, err := s.Snap(tt.lat, tt.lng)
		if err != nil {
			t.Fatalf("Snap(%f, %f): %v", tt.lat, tt.lng, err)
		}
		if res.Node != tt.want {
			t.Errorf("Snap(%f, %f) = node %d, want %d", tt.lat, tt.lng, res.Node, tt.want)
		}
	}
}

func TestSnapReportsDistance(t *testing.T) {
	s := NewSnapper(testGraph())

	res, err := s.Snap(1.300, 103.800)
	if err != nil {
		t.Fatal(err)
	}
	if res.Dist > 1.0 {
		t.Errorf("distance at exact vertex = %f m, want ~0", res.Dist)
	}
}

func TestSnapTooFar(t *testing.T) {
	s := NewSnapper(testGraph())

	// ~5.5 km south of the grid.
	_, err := s.Snap(1.250, 103.800)
	if !errors.Is(err, ErrPointTooFar) {
		t.Errorf("err = %v, want ErrPointTooFar", err)
	}
}

func TestSnapEmptyGraph(t *testing.T) {
	s := NewSnapper(&graph.Graph{})
	if _, err := s.Snap(1.3, 103.8); !errors.Is(err, ErrPointTooFar) {
		t.Errorf("err = %v, want ErrPointTooFar", err)
	}
}
