// Package bookmark implements the bookmark use cases on top of the document store.
package bookmark

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/metrics"
	"github.com/MrSnakeDoc/fellowship/internal/store/database"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultListLimit   = 50
	DefaultSearchLimit = 20
	MaxLimit           = 100
	RecentCount        = 5

	// MaxPage keeps (page-1)*limit inside an int32 offset for every limit.
	MaxPage = math.MaxInt32 / MaxLimit

	// checkConcurrency bounds the parallel lookups of a check-batch.
	checkConcurrency = 8
)

// Repository is the persistence surface used by Service (see database.BookmarkRepository).
type Repository interface {
	Create(ctx context.Context, b *domain.Bookmark) error
	FindByTarget(ctx context.Context, userID string, typ domain.BookmarkType, targetID string) (*domain.Bookmark, error)
	Exists(ctx context.Context, userID string, typ domain.BookmarkType, targetID string) (bool, error)
	Get(ctx context.Context, id string) (*domain.Bookmark, error)
	List(ctx context.Context, q database.ListQuery) ([]domain.Bookmark, int64, error)
	Search(ctx context.Context, q database.SearchQuery) ([]domain.Bookmark, error)
	UpdateOwned(ctx context.Context, id, userID string, patch domain.BookmarkPatch) (*domain.Bookmark, error)
	DeleteOwned(ctx context.Context, id, userID string) error
	Count(ctx context.Context, userID string, typ domain.BookmarkType) (int64, error)
	Recent(ctx context.Context, userID string, n int) ([]domain.Bookmark, error)
}

var (
	errUserRequired  = apperr.Validation("User ID is required")
	errInvalidType   = apperr.Validation("Invalid bookmark type")
	errMissingParams = apperr.Validation("Missing required parameters")
	errSearchParams  = apperr.Validation("User ID and search query are required")
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, log: log.Named("bookmarks")}
}

// Create validates and persists a bookmark. An existing bookmark on the same
// target yields ErrConflict carrying that record.
func (s *Service) Create(ctx context.Context, in domain.CreateBookmarkInput) (*domain.Bookmark, error) {
	b, err := domain.NewBookmark(in)
	switch {
	case errors.Is(err, domain.ErrInvalidType):
		observe("create", "invalid")
		return nil, errInvalidType
	case err != nil:
		observe("create", "invalid")
		return nil, apperr.ErrValidation.WithInternal(err)
	}

	existing, err := s.repo.FindByTarget(ctx, b.UserID, b.Type, b.TargetID)
	switch {
	case err == nil:
		observe("create", "conflict")
		return nil, apperr.ErrConflict.WithData(existing)
	case !errors.Is(err, database.ErrNotFound):
		observe("create", "error")
		return nil, apperr.Wrap(err, "Failed to save bookmark")
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// lost a race with a concurrent create of the same target
			observe("create", "conflict")
			winner, ferr := s.repo.FindByTarget(ctx, b.UserID, b.Type, b.TargetID)
			if ferr != nil {
				return nil, apperr.ErrConflict.WithInternal(err)
			}
			return nil, apperr.ErrConflict.WithData(winner)
		}
		observe("create", "error")
		return nil, apperr.Wrap(err, "Failed to save bookmark")
	}

	observe("create", "ok")
	s.log.Debug("bookmark created",
		logger.String("id", b.ID),
		logger.String("user_id", b.UserID),
		logger.String("type", string(b.Type)))
	return b, nil
}

// CheckBatch reports, per target id, whether the user bookmarked it.
// Items of unknown type are reported false without a lookup.
func (s *Service) CheckBatch(ctx context.Context, userID string, items []domain.CheckItem) (map[string]bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || items == nil {
		return nil, errMissingParams
	}

	found := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, item := range items {
		typ, ok := domain.ParseBookmarkType(item.Type)
		if !ok || item.TargetID == "" {
			continue
		}
		g.Go(func() error {
			exists, err := s.repo.Exists(gctx, userID, typ, item.TargetID)
			if err != nil {
				return err
			}
			found[i] = exists
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(err, "Failed to check bookmark status")
	}

	status := make(map[string]bool, len(items))
	for i, item := range items {
		// a target id listed under several types is bookmarked if any of them is
		status[item.TargetID] = status[item.TargetID] || found[i]
	}
	return status, nil
}

// ListParams are the raw paging inputs; zero values select the defaults.
type ListParams struct {
	Type      string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type ListMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type Page struct {
	Items []domain.Bookmark
	Meta  ListMeta
}

func (s *Service) List(ctx context.Context, userID string, p ListParams) (*Page, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errUserRequired
	}

	page := min(max(p.Page, 1), MaxPage)
	limit := clampLimit(p.Limit, DefaultListLimit)

	q := database.ListQuery{
		UserID: userID,
		Offset: (page - 1) * limit,
		Limit:  limit,
		SortBy: "created_at",
		Desc:   !strings.EqualFold(p.SortOrder, "asc"),
	}
	if typ, ok := domain.ParseBookmarkType(p.Type); ok {
		q.Type = typ
	}
	if col, ok := database.SortColumn(p.SortBy); ok {
		q.SortBy = col
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch bookmarks")
	}

	return &Page{
		Items: items,
		Meta: ListMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasMore:    int64(page)*int64(limit) < total,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	b, err := s.repo.Get(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, apperr.ErrNotFound.WithMessage("Bookmark not found")
	case err != nil:
		return nil, apperr.Wrap(err, "Failed to fetch bookmark")
	}
	return b, nil
}

// Update changes only note, tags and title of a bookmark owned by userID.
func (s *Service) Update(ctx context.Context, id, userID string, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errUserRequired
	}
	b, err := s.repo.UpdateOwned(ctx, id, userID, patch)
	switch {
	case errors.Is(err, database.ErrNotFound):
		observe("update", "not_found")
		return nil, apperr.ErrNotFoundOrUnauthorized
	case err != nil:
		observe("update", "error")
		return nil, apperr.Wrap(err, "Failed to update bookmark")
	}
	observe("update", "ok")
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errUserRequired
	}
	err := s.repo.DeleteOwned(ctx, id, userID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		observe("delete", "not_found")
		return apperr.ErrNotFoundOrUnauthorized
	case err != nil:
		observe("delete", "error")
		return apperr.Wrap(err, "Failed to delete bookmark")
	}
	observe("delete", "ok")
	return nil
}

// Stats returns per-type counts and the most recent bookmarks. The four
// counts and the recent list are read concurrently.
func (s *Service) Stats(ctx context.Context, userID string) (*domain.BookmarkStats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errUserRequired
	}

	var (
		stats  domain.BookmarkStats
		recent []domain.Bookmark
	)
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, typ domain.BookmarkType) {
		g.Go(func() error {
			n, err := s.repo.Count(gctx, userID, typ)
			*dst = n
			return err
		})
	}
	count(&stats.Counts.Bibles, domain.TypeBible)
	count(&stats.Counts.Chapters, domain.TypeChapter)
	count(&stats.Counts.Verses, domain.TypeVerse)
	count(&stats.Counts.Total, "")
	g.Go(func() error {
		var err error
		recent, err = s.repo.Recent(gctx, userID, RecentCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch bookmark statistics")
	}

	if recent == nil {
		recent = []domain.Bookmark{}
	}
	stats.Recent = recent
	if len(recent) > 0 {
		last := recent[0].CreatedAt
		stats.LastUpdated = &last
	}
	return &stats, nil
}

type SearchMeta struct {
	Count int    `json:"count"`
	Query string `json:"query"`
}

type SearchResult struct {
	Items []domain.Bookmark
	Meta  SearchMeta
}

// Search matches text case-insensitively in title, reference, note and verse
// text. An unknown type filter is ignored.
func (s *Service) Search(ctx context.Context, userID, text, typ string, limit int) (*SearchResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(text) == "" {
		return nil, errSearchParams
	}

	q := database.SearchQuery{
		UserID: userID,
		Text:   text,
		Limit:  clampLimit(limit, DefaultSearchLimit),
	}
	if t, ok := domain.ParseBookmarkType(typ); ok {
		q.Type = t
	}

	items, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to search bookmarks")
	}
	return &SearchResult{Items: items, Meta: SearchMeta{Count: len(items), Query: text}}, nil
}

// clampLimit applies def to a missing limit and caps it to [1, MaxLimit].
func clampLimit(limit, def int) int {
	switch {
	case limit <= 0:
		return def
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func observe(op, result string) {
	metrics.BookmarkOps.WithLabelValues(op, result).Inc()
}
