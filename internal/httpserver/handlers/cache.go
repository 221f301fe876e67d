package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

var errCacheDisabled = apperr.ErrUnavailable.WithMessage("Cache is not configured")

// CacheClear deletes the keys matching {pattern}, or every key.
func CacheClear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.CacheAdmin == nil {
			fail(w, d.Logger, r, errCacheDisabled)
			return
		}
		res, err := d.CacheAdmin.Invalidate(r.Context(), chi.URLParam(r, "pattern"))
		if err != nil {
			fail(w, d.Logger, r, apperr.Wrap(err, "Failed to clear cache"))
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func CacheStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.CacheAdmin == nil {
			fail(w, d.Logger, r, errCacheDisabled)
			return
		}
		stats, err := d.CacheAdmin.Stats(r.Context())
		if err != nil {
			fail(w, d.Logger, r, apperr.Wrap(err, "Failed to read cache statistics"))
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// CacheWarm queues an immediate refresh of the warmed keys.
func CacheWarm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Warmer == nil {
			fail(w, d.Logger, r, apperr.ErrUnavailable.WithMessage("Cache warmer is not configured"))
			return
		}
		if !d.Warmer.Trigger() {
			d.Logger.Warn("cache warm already queued",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, envelope{Success: false, Message: "Cache warm already in progress, please wait"})
			return
		}
		d.Logger.Info("manual cache warm triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		ok(w, http.StatusAccepted, "Cache warm triggered", nil, nil)
	}
}
