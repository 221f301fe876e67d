package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/handlers"
)

func init() { Register(registerContent) }

func registerContent(r chi.Router, d deps.Deps) {
	r.Get("/content/bibles", handlers.ListBibles(d))
	r.Get("/content/bibles/{bibleId}/books", handlers.ListBooks(d))
	r.Get("/content/bibles/{bibleId}/books/{bookId}/chapters", handlers.ListChapters(d))
	r.Get("/content/bibles/{bibleId}/chapters/{chapterId}/verses", handlers.ListVerses(d))
	r.Get("/content/bibles/{bibleId}/verses/{verseId}", handlers.GetVerse(d))
	r.Get("/content/chapters/{chapterId}", handlers.GetChapter(d))
}
