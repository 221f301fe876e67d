package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/fellowship/internal/bookmark"
	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
)

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.CreateBookmarkInput
		if err := decodeJSON(w, r, &in); err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		b, err := d.Bookmarks.Create(r.Context(), in)
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusCreated, "Bookmark saved successfully", b, nil)
	}
}

type checkRequest struct {
	UserID string             `json:"userId"`
	Items  []domain.CheckItem `json:"items"`
}

func CheckBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		status, err := d.Bookmarks.CheckBatch(r.Context(), req.UserID, req.Items)
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "", status, nil)
	}
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := d.Bookmarks.List(r.Context(), chi.URLParam(r, "userId"), bookmark.ListParams{
			Type:      q.Get("type"),
			Page:      queryInt(q.Get("page")),
			Limit:     queryInt(q.Get("limit")),
			SortBy:    q.Get("sortBy"),
			SortOrder: q.Get("sortOrder"),
		})
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "", page.Items, page.Meta)
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Bookmarks.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "", b, nil)
	}
}

// UpdateBookmark takes the owner from ?userId= and only applies title,
// note and tags from the body.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.BookmarkPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		b, err := d.Bookmarks.Update(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("userId"), patch)
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "Bookmark updated", b, nil)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Bookmarks.Delete(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("userId")); err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "Bookmark deleted successfully", nil, nil)
	}
}

func BookmarkStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.Bookmarks.Stats(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "", stats, nil)
	}
}

func SearchBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res, err := d.Bookmarks.Search(r.Context(), chi.URLParam(r, "userId"), q.Get("q"), q.Get("type"), queryInt(q.Get("limit")))
		if err != nil {
			fail(w, d.Logger, r, err)
			return
		}
		ok(w, http.StatusOK, "", res.Items, res.Meta)
	}
}

// queryInt parses an optional integer parameter; anything unparsable is 0
// so the service applies its default.
func queryInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
