package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/skora17/587-project/pkg/api"
	"github.com/skora17/587-project/pkg/graph"
	"github.com/skora17/587-project/pkg/reach"
	"github.com/skora17/587-project/pkg/snap"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed graph binary")
	port := flag.Int("port", 8080, "HTTP port")
	sourceNode := flag.Int("source", -1, "Source vertex index (mutually exclusive with --source-lat/--source-lng)")
	sourceLat := flag.Float64("source-lat", 0, "Source latitude (snapped to nearest intersection)")
	sourceLng := flag.Float64("source-lng", 0, "Source longitude")
	maxHops := flag.Int("max-hops", 20, "Hop cap L: vertices farther than L report L+1")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	start := time.Now()

	logger.Info("loading graph", zap.String("path", *graphPath))
	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		logger.Fatal("failed to load graph", zap.Error(err))
	}
	logger.Info("graph loaded",
		zap.Uint32("nodes", g.NumNodes),
		zap.Int("edges", g.NumEdges()),
	)

	source, err := resolveSource(g, *sourceNode, *sourceLat, *sourceLng)
	if err != nil {
		logger.Fatal("failed to resolve source", zap.Error(err))
	}

	monitor, err := reach.NewMonitor(g, source, *maxHops, logger)
	if err != nil {
		logger.Fatal("failed to build monitor", zap.Error(err))
	}
	logger.Info("ready", zap.Duration("startup", time.Since(start)))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(monitor)
	srv := api.NewServer(cfg, handlers, logger)

	if err := api.ListenAndServe(srv, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// resolveSource picks the monitored source vertex: an explicit index,
// or the intersection nearest to the given coordinate.
func resolveSource(g *graph.Graph, node int, lat, lng float64) (uint32, error) {
	if node >= 0 {
		if uint32(node) >= g.NumNodes {
			return 0, fmt.Errorf("source %d out of range [0,%d)", node, g.NumNodes)
		}
		return uint32(node), nil
	}
	if lat == 0 && lng == 0 {
		return 0, fmt.Errorf("either --source or --source-lat/--source-lng is required")
	}
	res, err := snap.NewSnapper(g).Snap(lat, lng)
	if err != nil {
		return 0, fmt.Errorf("snap source coordinate: %w", err)
	}
	return res.Node, nil
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
