package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/mw"
)

func init() { Register(registerMoods) }

func registerMoods(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RecommendBurst,
		RefillPerIPPerMin: d.RecommendPerMin,
		MaxEntries:        10_000,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})

	r.Get("/moods", handlers.ListMoods(d))
	r.With(limit).Post("/moods/verses/recommend", handlers.RecommendVerses(d))
	r.Post("/moods/reflections", handlers.CreateReflection(d))
	r.Get("/moods/reflections/{userId}", handlers.ReflectionCalendar(d))
}
