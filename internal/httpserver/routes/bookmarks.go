package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Post("/bookmarks", handlers.CreateBookmark(d))
	r.Post("/bookmarks/check", handlers.CheckBookmarks(d))
	r.Get("/bookmarks/user/{userId}", handlers.ListBookmarks(d))
	r.Get("/bookmarks/stats/{userId}", handlers.BookmarkStats(d))
	r.Get("/bookmarks/search/{userId}", handlers.SearchBookmarks(d))
	r.Get("/bookmarks/{id}", handlers.GetBookmark(d))
	r.Put("/bookmarks/{id}", handlers.UpdateBookmark(d))
	r.Delete("/bookmarks/{id}", handlers.DeleteBookmark(d))
}
