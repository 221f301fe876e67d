package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/validate"
)

func ListMoods(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok(w, http.StatusOK, "", d.Moods, nil)
	}
}

func RecommendVerses(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.RecommendRequest
		if err := decodeJSON(w, r, &req); err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			fail(w, d.Logger, r, apperr.Validation("Mood is required").WithInternal(err))
			return
		}
		verses, err := d.Recommender.Recommend(r.Context(), req)
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "", verses, nil)
	}
}

func CreateReflection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.CreateReflectionInput
		if err := decodeJSON(w, r, &in); err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		saved, err := d.Reflections.Create(r.Context(), in)
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusCreated, "Reflection saved successfully.", saved, nil)
	}
}

// ReflectionCalendar returns the latest reflection per day of ?month=&year=.
func ReflectionCalendar(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		cal, err := d.Reflections.Calendar(r.Context(), chi.URLParam(r, "userId"), queryInt(q.Get("month")), queryInt(q.Get("year")))
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "", cal.Days, cal.Meta)
	}
}
