package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BookmarkType is the kind of scripture unit a bookmark points at.
type BookmarkType string

const (
	TypeBible   BookmarkType = "bible"
	TypeChapter BookmarkType = "chapter"
	TypeVerse   BookmarkType = "verse"
)

// BookmarkTypes lists every known type in display order.
var BookmarkTypes = []BookmarkType{TypeBible, TypeChapter, TypeVerse}

// ParseBookmarkType reports whether s names a known type.
func ParseBookmarkType(s string) (BookmarkType, bool) {
	switch t := BookmarkType(s); t {
	case TypeBible, TypeChapter, TypeVerse:
		return t, true
	}
	return "", false
}

// Bookmark is a user's saved pointer to a bible, chapter or verse.
//
// A user has at most one bookmark per (type, target), where the target is
// BibleID, ChapterID or VerseID depending on Type. TargetID denormalizes that
// identifier so the store can enforce it with a composite unique index.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	ID       string       `gorm:"primaryKey;size:36" json:"_id"`
	UserID   string       `gorm:"size:128;not null;uniqueIndex:idx_bookmarks_owner_target,priority:1;index:idx_bookmarks_user_created,priority:1" json:"userId"`
	Type     BookmarkType `gorm:"size:16;not null;uniqueIndex:idx_bookmarks_owner_target,priority:2" json:"type"`
	TargetID string       `gorm:"size:255;not null;uniqueIndex:idx_bookmarks_owner_target,priority:3" json:"-"`

	// ─────────────────────────────
	// User-facing description
	// (title, note and tags are the only mutable fields)
	// ─────────────────────────────

	Title       string                      `gorm:"size:512" json:"title"`
	Description string                      `gorm:"size:1024" json:"description"`
	Reference   string                      `gorm:"size:255;not null" json:"reference"`
	Note        string                      `gorm:"type:text" json:"note"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`

	// ─────────────────────────────
	// Scripture location
	// (fields that do not apply to Type are stored empty/zero)
	// ─────────────────────────────

	BibleID       string `gorm:"size:64;not null" json:"bibleId"`
	BibleName     string `gorm:"size:255" json:"bibleName"`
	BookID        string `gorm:"size:64" json:"bookId"`
	BookName      string `gorm:"size:255" json:"bookName"`
	ChapterID     string `gorm:"size:64" json:"chapterId"`
	ChapterNumber int    `json:"chapterNumber"`
	VerseID       string `gorm:"size:64" json:"verseId"`
	VerseNumber   int    `json:"verseNumber"`
	VerseText     string `gorm:"type:text" json:"verseText"`

	// SearchText is title, reference, note and verse text folded with
	// FoldSearch, so the query and the stored text are folded the same way
	// on every driver.
	SearchText string `gorm:"type:text" json:"-"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt time.Time `gorm:"index:idx_bookmarks_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Bookmark) TableName() string { return "bookmarks" }

// BeforeCreate assigns the id and normalizes tags to an empty list.
func (b *Bookmark) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Tags == nil {
		b.Tags = datatypes.JSONSlice[string]{}
	}
	b.IndexSearchText()
	return nil
}

// searchSep keeps adjacent fields from matching as one string.
const searchSep = "\x1f"

// FoldSearch lowercases s with full Unicode case mapping.
func FoldSearch(s string) string { return strings.ToLower(s) }

// IndexSearchText recomputes SearchText from the searchable fields.
func (b *Bookmark) IndexSearchText() {
	b.SearchText = FoldSearch(strings.Join([]string{b.Title, b.Reference, b.Note, b.VerseText}, searchSep))
}

// BookmarkPatch carries the mutable subset of a bookmark. Nil fields are left alone.
type BookmarkPatch struct {
	Title *string   `json:"title"`
	Note  *string   `json:"note"`
	Tags  *[]string `json:"tags"`
}

// Empty reports whether the patch changes nothing.
func (p BookmarkPatch) Empty() bool {
	return p.Title == nil && p.Note == nil && p.Tags == nil
}

// Apply copies the set fields of p onto b.
func (p BookmarkPatch) Apply(b *Bookmark) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Note != nil {
		b.Note = *p.Note
	}
	if p.Tags != nil {
		b.Tags = datatypes.JSONSlice[string](*p.Tags)
	}
}

// Columns returns the column/value map for an UPDATE.
func (p BookmarkPatch) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Note != nil {
		cols["note"] = *p.Note
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		cols["tags"] = datatypes.JSONSlice[string](tags)
	}
	return cols
}

// CheckItem asks whether a target of the given type is bookmarked.
type CheckItem struct {
	Type     string `json:"type"`
	TargetID string `json:"targetId"`
}

// BookmarkCounts is the per-type tally returned by stats.
type BookmarkCounts struct {
	Bibles   int64 `json:"bibles"`
	Chapters int64 `json:"chapters"`
	Verses   int64 `json:"verses"`
	Total    int64 `json:"total"`
}

type BookmarkStats struct {
	Counts      BookmarkCounts `json:"counts"`
	Recent      []Bookmark     `json:"recent"`
	LastUpdated *time.Time     `json:"lastUpdated"`
}
