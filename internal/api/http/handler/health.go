package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	db      Pinger
	version string
}

func NewHealth(db Pinger, version string) *Health {
	return &Health{db: db, version: version}
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database"`
}

// Health answers 200 while the data store is reachable and 503 otherwise.
func (h *Health) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: h.version, Database: "ok"}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
