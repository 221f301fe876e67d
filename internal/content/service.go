// Package content maps scripture resource paths to cached upstream calls.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/cache"
)

// Fetcher is the upstream surface the Service needs (satisfied by *Client).
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}

type Service struct {
	gw       *cache.Gateway
	upstream Fetcher
}

func NewService(gw *cache.Gateway, upstream Fetcher) *Service {
	return &Service{gw: gw, upstream: upstream}
}

func (s *Service) ListBibles(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, BiblesKey(), "bibles", nil)
}

func (s *Service) ListBooks(ctx context.Context, bibleID string) (json.RawMessage, error) {
	return s.fetch(ctx, BooksKey(bibleID), join("bibles", bibleID, "books"), nil)
}

func (s *Service) ListChapters(ctx context.Context, bibleID, bookID string) (json.RawMessage, error) {
	return s.fetch(ctx, ChaptersKey(bibleID, bookID), join("bibles", bibleID, "books", bookID, "chapters"), nil)
}

func (s *Service) ListVerses(ctx context.Context, bibleID, chapterID string) (json.RawMessage, error) {
	return s.fetch(ctx, VersesKey(bibleID, chapterID), join("bibles", bibleID, "chapters", chapterID, "verses"), nil)
}

func (s *Service) GetVerse(ctx context.Context, bibleID, verseID string) (json.RawMessage, error) {
	return s.fetch(ctx, VerseKey(bibleID, verseID), join("bibles", bibleID, "verses", verseID), nil)
}

// GetChapter returns the chapter rendered as plain text.
func (s *Service) GetChapter(ctx context.Context, chapterID string) (json.RawMessage, error) {
	return s.fetch(ctx, ChapterKey(chapterID), join("chapters", chapterID), url.Values{"content-type": {"text"}})
}

// RefreshBibles re-reads the bible list and the book lists of bibleIDs,
// overwriting whatever is cached. Failures are collected, not fatal.
func (s *Service) RefreshBibles(ctx context.Context, bibleIDs []string) error {
	var errs []error
	if _, err := s.gw.Refresh(ctx, BiblesKey(), s.producer("bibles", nil)); err != nil {
		errs = append(errs, err)
	}
	for _, id := range bibleIDs {
		if _, err := s.gw.Refresh(ctx, BooksKey(id), s.producer(join("bibles", id, "books"), nil)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) fetch(ctx context.Context, key, path string, query url.Values) (json.RawMessage, error) {
	data, err := s.gw.Fetch(ctx, key, s.producer(path, query))
	if err != nil {
		return nil, upstreamAppError(err)
	}
	return data, nil
}

func (s *Service) producer(path string, query url.Values) cache.Producer {
	return func(ctx context.Context) (any, error) {
		return s.upstream.Get(ctx, path, query)
	}
}

func upstreamAppError(err error) error {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return err
	}
	appErr := apperr.ErrUpstream.WithInternal(err)
	appErr.StatusCode = ue.HTTPStatus()
	if ue.Status != 0 {
		appErr.Message = fmt.Sprintf("Content provider returned %d %s", ue.Status, http.StatusText(ue.Status))
	}
	return appErr
}

// join escapes each path segment so ids cannot break out of their position.
func join(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}
