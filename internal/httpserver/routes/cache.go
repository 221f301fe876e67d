package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/mw"
)

func init() { Register(registerCache) }

func registerCache(r chi.Router, d deps.Deps) {
	admin := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	admin.Post("/content/cache/clear", handlers.CacheClear(d))
	admin.Post("/content/cache/clear/{pattern}", handlers.CacheClear(d))
	admin.Get("/content/cache/stats", handlers.CacheStats(d))
	admin.Post("/content/cache/warm", handlers.CacheWarm(d))
}
