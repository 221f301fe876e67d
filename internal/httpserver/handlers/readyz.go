package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/store/database"
)

const probeTimeout = 2 * time.Second

type readyzResponse struct {
	Ready    bool `json:"ready"`
	Database bool `json:"database"`
	Cache    bool `json:"cache"`
}

// Readyz fails only when the database is down: the cache fails open, so a
// missing Redis degrades latency but not correctness.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		resp := readyzResponse{
			Database: d.DB != nil && database.Ping(ctx, d.DB) == nil,
			Cache:    d.RedisClient != nil && d.RedisClient.Ping(ctx).Err() == nil,
		}
		resp.Ready = resp.Database

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, status, resp)
	}
}
