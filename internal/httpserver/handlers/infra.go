package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/store/database"
)

var defaultNow = time.Now

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports every dependency and the resulting service mode:
// "critical" without a database, "degraded" without the cache, else "optimal".
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"database":    checkDatabase(ctx, d),
			"redis":       checkRedis(ctx, d),
			"cache":       checkGateway(d),
			"warmer":      checkWarmer(d),
			"recommender": checkRecommender(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if !components["database"].OK {
		return "critical"
	}
	if !components["redis"].OK || !components["cache"].OK {
		return "degraded"
	}
	return "optimal"
}

func checkDatabase(ctx context.Context, d deps.Deps) componentStatus {
	if d.DB == nil {
		return componentStatus{OK: false, Impact: "bookmarks-and-reflections-unavailable", Error: "not initialized"}
	}
	if err := database.Ping(ctx, d.DB); err != nil {
		return componentStatus{OK: false, Impact: "bookmarks-and-reflections-unavailable", Error: err.Error()}
	}
	return componentStatus{OK: true, Detail: d.DB.Dialector.Name()}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: "content-served-uncached", Error: "client not initialized"}
	}
	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: "content-served-uncached", Error: "timeout"}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

func checkGateway(d deps.Deps) componentStatus {
	if d.Gateway == nil || !d.Gateway.Enabled() {
		return componentStatus{OK: false, Mode: "bypass", Impact: "content-served-uncached"}
	}
	state := d.Gateway.BreakerState()
	return componentStatus{OK: state != "open", Mode: "breaker-" + state, Detail: d.Gateway.TTL().String()}
}

func checkWarmer(d deps.Deps) componentStatus {
	if d.Warmer == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	last, err := d.Warmer.LastRun()
	st := componentStatus{OK: err == nil, Mode: "scheduled", Detail: "never"}
	if !last.IsZero() {
		st.Detail = last.UTC().Format(time.RFC3339)
	}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}

func checkRecommender(d deps.Deps) componentStatus {
	if d.Recommender == nil || !d.Recommender.Enabled() {
		return componentStatus{OK: true, Mode: "disabled", Impact: "verse-recommendations-unavailable"}
	}
	return componentStatus{OK: true, Mode: "enabled"}
}
