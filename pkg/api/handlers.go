package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"github.com/skora17/587-project/pkg/reach"
	"github.com/skora17/587-project/pkg/snap"
)

const maxBodyBytes = 1 << 20

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	monitor *reach.Monitor
}

// NewHandlers creates handlers backed by the given monitor.
func NewHandlers(monitor *reach.Monitor) *Handlers {
	return &Handlers{monitor: monitor}
}

// HandleDistance handles POST /api/v1/distance.
func (h *Handlers) HandleDistance(w http.ResponseWriter, r *http.Request) {
	var req DistanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch {
	case req.Node != nil:
		result, err := h.monitor.Hops(*req.Node)
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown_node", "node")
			return
		}
		writeJSON(w, result)

	case req.Lat != nil && req.Lng != nil:
		if !validCoord(*req.Lat, *req.Lng) {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "")
			return
		}
		result, err := h.monitor.HopsAt(*req.Lat, *req.Lng)
		if err != nil {
			if errors.Is(err, snap.ErrPointTooFar) {
				writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_road", "")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "")
			return
		}
		writeJSON(w, result)

	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "node")
	}
}

// HandleClosures handles POST /api/v1/closures.
func (h *Handlers) HandleClosures(w http.ResponseWriter, r *http.Request) {
	var req ClosuresRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Closures) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "closures")
		return
	}

	closures := make([]reach.Closure, len(req.Closures))
	for i, c := range req.Closures {
		closures[i] = reach.Closure{
			From:           c.From,
			To:             c.To,
			BothDirections: c.BothDirections,
		}
	}

	removed := h.monitor.Close(closures)
	writeJSON(w, ClosuresResponse{
		Removed:   removed,
		Reachable: h.monitor.Stats().Reachable,
	})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.monitor.Stats())
}

// decodeJSON enforces the content type and decodes the body. It writes
// the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	return true
}

func validCoord(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
