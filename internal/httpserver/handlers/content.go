package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
)

// Content handlers relay the provider's JSON verbatim; only failures use
// the envelope.

func ListBibles(d deps.Deps) http.HandlerFunc {
	return relay(d, func(ctx context.Context, r *http.Request) (json.RawMessage, error) {
		return d.Content.ListBibles(ctx)
	})
}

func ListBooks(d deps.Deps) http.HandlerFunc {
	return relay(d, func(ctx context.Context, r *http.Request) (json.RawMessage, error) {
		return d.Content.ListBooks(ctx, chi.URLParam(r, "bibleId"))
	})
}

func ListChapters(d deps.Deps) http.HandlerFunc {
	return relay(d, func(ctx context.Context, r *http.Request) (json.RawMessage, error) {
		return d.Content.ListChapters(ctx, chi.URLParam(r, "bibleId"), chi.URLParam(r, "bookId"))
	})
}

func ListVerses(d deps.Deps) http.HandlerFunc {
	return relay(d, func(ctx context.Context, r *http.Request) (json.RawMessage, error) {
		return d.Content.ListVerses(ctx, chi.URLParam(r, "bibleId"), chi.URLParam(r, "chapterId"))
	})
}

func GetVerse(d deps.Deps) http.HandlerFunc {
	return relay(d, func(ctx context.Context, r *http.Request) (json.RawMessage, error) {
		return d.Content.GetVerse(ctx, chi.URLParam(r, "bibleId"), chi.URLParam(r, "verseId"))
	})
}

func GetChapter(d deps.Deps) http.HandlerFunc {
	return relay(d, func(ctx context.Context, r *http.Request) (json.RawMessage, error) {
		return d.Content.GetChapter(ctx, chi.URLParam(r, "chapterId"))
	})
}

func relay(d deps.Deps, get func(ctx context.Context, r *http.Request) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := get(r.Context(), r)
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		writeRaw(w, body)
	}
}
