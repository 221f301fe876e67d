package database

import (
	"context"
	"errors"
	"strings"

	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the sortable API fields.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"reference": "reference",
	"type":      "type",
}

// SortColumn maps an API sort field to its column; ok is false for unknown fields.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// ListQuery selects one page of a user's bookmarks. Inputs are expected to
// be already clamped by the caller.
type ListQuery struct {
	UserID string
	Type   domain.BookmarkType // empty = all types
	Offset int
	Limit  int
	SortBy string // column name, see SortColumn
	Desc   bool
}

// SearchQuery is a case-insensitive substring search over a user's bookmarks.
type SearchQuery struct {
	UserID string
	Text   string
	Type   domain.BookmarkType
	Limit  int
}

type BookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create inserts b. A unique-index violation is reported as ErrDuplicate.
func (r *BookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

// FindByTarget returns the user's bookmark on (type, targetID), or ErrNotFound.
func (r *BookmarkRepository) FindByTarget(ctx context.Context, userID string, typ domain.BookmarkType, targetID string) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND target_id = ?", userID, typ, targetID).
		First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookmarkRepository) Exists(ctx context.Context, userID string, typ domain.BookmarkType, targetID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Bookmark{}).
		Where("user_id = ? AND type = ? AND target_id = ?", userID, typ, targetID).
		Count(&n).Error
	return n > 0, translate(err)
}

func (r *BookmarkRepository) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	var b domain.Bookmark
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// List returns one page and the total number of matching rows.
func (r *BookmarkRepository) List(ctx context.Context, q ListQuery) ([]domain.Bookmark, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.Bookmark{}).Where("user_id = ?", q.UserID)
	if q.Type != "" {
		base = base.Where("type = ?", q.Type)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	sortBy := q.SortBy
	if !knownColumn(sortBy) {
		sortBy = "created_at"
	}

	items := make([]domain.Bookmark, 0, q.Limit)
	err := base.Session(&gorm.Session{}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortBy}, Desc: q.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Desc}).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

// Search matches q.Text against title, reference, note and verse text,
// newest first. Both sides are folded by domain.FoldSearch rather than the
// database LOWER(), which only folds ASCII on SQLite. LIKE wildcards in the
// text are matched literally.
func (r *BookmarkRepository) Search(ctx context.Context, q SearchQuery) ([]domain.Bookmark, error) {
	pattern := "%" + escapeLike(domain.FoldSearch(q.Text)) + "%"

	tx := r.db.WithContext(ctx).
		Where("user_id = ?", q.UserID).
		Where(`search_text LIKE ? ESCAPE '\'`, pattern)
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}

	items := make([]domain.Bookmark, 0, q.Limit)
	err := tx.Order("created_at DESC").Order("id DESC").Limit(q.Limit).Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// UpdateOwned applies patch to the bookmark if it belongs to userID and
// returns the updated record. Anything else is ErrNotFound.
func (r *BookmarkRepository) UpdateOwned(ctx context.Context, id, userID string, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&b).Error; err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}
		cols := patch.Columns()
		patch.Apply(&b)
		b.IndexSearchText()
		cols["search_text"] = b.SearchText
		if err := tx.Model(&b).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&b, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// DeleteOwned removes the bookmark if it belongs to userID, else ErrNotFound.
func (r *BookmarkRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Bookmark
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&b).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err)
}

// Count counts a user's bookmarks, optionally restricted to one type.
func (r *BookmarkRepository) Count(ctx context.Context, userID string, typ domain.BookmarkType) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Bookmark{}).Where("user_id = ?", userID)
	if typ != "" {
		tx = tx.Where("type = ?", typ)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// Recent returns the user's n newest bookmarks.
func (r *BookmarkRepository) Recent(ctx context.Context, userID string, n int) ([]domain.Bookmark, error) {
	items := make([]domain.Bookmark, 0, n)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(n).
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// IsNotFound is a small helper for callers that only import this package.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func knownColumn(col string) bool {
	for _, c := range sortColumns {
		if c == col {
			return true
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
